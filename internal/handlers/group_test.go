package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gamechat-service/internal/mocks"
	"gamechat-service/internal/models"
	"gamechat-service/internal/telemetry"
)

func setupGroupRouter(handler *GroupHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", "alice")
		c.Next()
	})
	r.POST("/groups", handler.CreateGroup)
	r.GET("/groups", handler.ListGroups)
	r.GET("/groups/:group_key", handler.GetGroup)
	r.POST("/groups/:group_key/rooms", handler.CreateRoom)
	r.GET("/groups/:group_key/rooms", handler.ListRooms)
	return r
}

func TestCreateGroupSuccess(t *testing.T) {
	groupRepo := new(mocks.GroupRepositoryMock)
	handler := NewGroupHandler(groupRepo, new(mocks.RoomRepositoryMock), nil)
	router := setupGroupRouter(handler)

	groupRepo.On("CreateGroup", mock.Anything, "alice", "gamers", []string{"bob"}).
		Return(models.Group{Key: "g1", Name: "gamers"}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/groups", bytes.NewBufferString(`{"name":"gamers","member_ids":["bob"]}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	groupRepo.AssertExpectations(t)
}

func TestCreateGroupMissingName(t *testing.T) {
	handler := NewGroupHandler(new(mocks.GroupRepositoryMock), new(mocks.RoomRepositoryMock), nil)
	router := setupGroupRouter(handler)

	req := httptest.NewRequest(http.MethodPost, "/groups", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListGroupsRepoError(t *testing.T) {
	groupRepo := new(mocks.GroupRepositoryMock)
	handler := NewGroupHandler(groupRepo, new(mocks.RoomRepositoryMock), nil)
	router := setupGroupRouter(handler)

	groupRepo.On("ListGroupsForUser", mock.Anything, "alice").Return(([]models.Group)(nil), assert.AnError).Once()

	req := httptest.NewRequest(http.MethodGet, "/groups", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	groupRepo.AssertExpectations(t)
}

func TestGetGroupSuccess(t *testing.T) {
	groupRepo := new(mocks.GroupRepositoryMock)
	handler := NewGroupHandler(groupRepo, new(mocks.RoomRepositoryMock), nil)
	router := setupGroupRouter(handler)

	groupRepo.On("IsMember", mock.Anything, "g1", "alice").Return(true, nil).Once()
	groupRepo.On("GetGroup", mock.Anything, "g1").Return(models.Group{Key: "g1", Name: "gamers"}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/groups/g1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "gamers")
	groupRepo.AssertExpectations(t)
}

func TestGetGroupNotMember(t *testing.T) {
	groupRepo := new(mocks.GroupRepositoryMock)
	handler := NewGroupHandler(groupRepo, new(mocks.RoomRepositoryMock), nil)
	router := setupGroupRouter(handler)

	groupRepo.On("IsMember", mock.Anything, "g1", "alice").Return(false, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/groups/g1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	groupRepo.AssertExpectations(t)
}

func TestCreateGroupEmitsAudit(t *testing.T) {
	groupRepo := new(mocks.GroupRepositoryMock)
	publisher := new(mocks.PublisherMock)
	audit := telemetry.NewAuditEmitter(publisher, "audit.test", "gamechat-service", "test")
	handler := NewGroupHandler(groupRepo, new(mocks.RoomRepositoryMock), audit)
	router := setupGroupRouter(handler)

	groupRepo.On("CreateGroup", mock.Anything, "alice", "gamers", ([]string)(nil)).
		Return(models.Group{Key: "g1", Name: "gamers"}, nil).Once()
	publisher.On("Publish", mock.Anything, "audit.test", mock.MatchedBy(func(event any) bool {
		envelope, ok := event.(telemetry.AuditEnvelope)
		return ok && envelope.EventType == "audit_log" && envelope.Payload.Level == "INFO"
	})).Return(nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/groups", bytes.NewBufferString(`{"name":"gamers"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	groupRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestCreateRoomNotMember(t *testing.T) {
	groupRepo := new(mocks.GroupRepositoryMock)
	handler := NewGroupHandler(groupRepo, new(mocks.RoomRepositoryMock), nil)
	router := setupGroupRouter(handler)

	groupRepo.On("IsMember", mock.Anything, "g1", "alice").Return(false, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/groups/g1/rooms", bytes.NewBufferString(`{"name":"lounge"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	groupRepo.AssertExpectations(t)
}

func TestCreateRoomSuccess(t *testing.T) {
	groupRepo := new(mocks.GroupRepositoryMock)
	roomRepo := new(mocks.RoomRepositoryMock)
	handler := NewGroupHandler(groupRepo, roomRepo, nil)
	router := setupGroupRouter(handler)

	groupRepo.On("IsMember", mock.Anything, "g1", "alice").Return(true, nil).Once()
	roomRepo.On("CreateRoom", mock.Anything, "g1", "lounge").
		Return(models.Room{Key: "r1", GroupKey: "g1", Name: "lounge"}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/groups/g1/rooms", bytes.NewBufferString(`{"name":"lounge"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	groupRepo.AssertExpectations(t)
	roomRepo.AssertExpectations(t)
}

func TestListRoomsSuccess(t *testing.T) {
	groupRepo := new(mocks.GroupRepositoryMock)
	roomRepo := new(mocks.RoomRepositoryMock)
	handler := NewGroupHandler(groupRepo, roomRepo, nil)
	router := setupGroupRouter(handler)

	groupRepo.On("IsMember", mock.Anything, "g1", "alice").Return(true, nil).Once()
	roomRepo.On("ListRooms", mock.Anything, "g1").Return([]models.Room{{Key: "r1"}}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/groups/g1/rooms", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	groupRepo.AssertExpectations(t)
	roomRepo.AssertExpectations(t)
}
