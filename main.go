package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"gamechat-service/internal/config"
	"gamechat-service/internal/db"
	"gamechat-service/internal/dispatch"
	"gamechat-service/internal/handlers"
	"gamechat-service/internal/middleware"
	"gamechat-service/internal/observability"
	"gamechat-service/internal/rabbitmq"
	"gamechat-service/internal/repositories"
	"gamechat-service/internal/telemetry"
	"gamechat-service/internal/timeline"
	"gamechat-service/internal/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	database, err := db.Connect(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}

	shutdownTracing, err := telemetry.SetupTracing(context.Background(), "gamechat-service", cfg.OTLPEndpoint)
	if err != nil {
		log.Fatalf("failed to set up tracing: %v", err)
	}
	defer shutdownTracing(context.Background())

	publisher := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	defer publisher.Close()
	log.Printf("event publisher mode=%s", rabbitmq.PublisherMode(publisher))

	if eventPublisher, err := observability.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange); err == nil {
		observability.SetPublisher(eventPublisher)
		defer eventPublisher.Close()
	} else {
		log.Printf("observability events disabled: %v", err)
	}

	audit := telemetry.NewAuditEmitter(publisher, "audit.gamechat", "gamechat-service", cfg.Environment)

	groupRepo := repositories.NewGroupRepo(database)
	roomRepo := repositories.NewRoomRepo(database)
	recordRepo := repositories.NewRecordRepo(database)

	scheme := timeline.DefaultScheme()
	hub := ws.NewHub()
	tracker := dispatch.NewTracker()
	dispatcher := dispatch.NewDispatcher(recordRepo)
	verifier := middleware.NewTokenVerifier(cfg.JWTSecret)

	navigationHandler := handlers.NewNavigationHandler(dispatcher, tracker, groupRepo, audit)
	groupHandler := handlers.NewGroupHandler(groupRepo, roomRepo, audit)
	recordHandler := handlers.NewRecordHandler(groupRepo, roomRepo, recordRepo, hub, audit)
	timelineHandler := handlers.NewTimelineHandler(groupRepo, roomRepo, recordRepo, scheme)
	timelineWS := ws.NewTimelineWSHandler(hub, groupRepo, roomRepo, recordRepo, verifier, scheme)

	router := gin.Default()

	// middlewares
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("gamechat-service"))
	router.Use(observability.HTTPMetricsMiddleware())

	authMiddleware := middleware.AuthMiddleware(verifier)
	optionalAuth := middleware.OptionalAuth(verifier)

	router.POST("/navigate", optionalAuth, navigationHandler.Resolve)
	router.POST("/navigate/target", authMiddleware, navigationHandler.ResolveTarget)

	router.POST("/groups", authMiddleware, groupHandler.CreateGroup)
	router.GET("/groups", authMiddleware, groupHandler.ListGroups)
	router.GET("/groups/:group_key", authMiddleware, groupHandler.GetGroup)
	router.POST("/groups/:group_key/rooms", authMiddleware, groupHandler.CreateRoom)
	router.GET("/groups/:group_key/rooms", authMiddleware, groupHandler.ListRooms)

	router.GET("/rooms/:room_key/records", authMiddleware, recordHandler.ListRecords)
	router.POST("/rooms/:room_key/records", authMiddleware, recordHandler.PostRecord)
	router.DELETE("/rooms/:room_key/records/:record_id", authMiddleware, recordHandler.DeleteRecord)
	router.GET("/rooms/:room_key/timeline", authMiddleware, timelineHandler.GetTimeline)

	router.GET("/ws/timeline", timelineWS.Handle)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handlers.RegisterDebugRoutes(router, audit, cfg.DebugRoutes)

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
