package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gamechat-service/internal/dispatch"
	"gamechat-service/internal/mocks"
	"gamechat-service/internal/models"
)

func setupNavigationRouter(handler *NavigationHandler, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != "" {
			c.Set("userID", userID)
		}
		c.Next()
	})
	r.POST("/navigate", handler.Resolve)
	r.POST("/navigate/target", handler.ResolveTarget)
	return r
}

func TestResolveSignedOut(t *testing.T) {
	groupRepo := new(mocks.GroupRepositoryMock)
	handler := NewNavigationHandler(dispatch.NewDispatcher(nil), dispatch.NewTracker(), groupRepo, nil)
	router := setupNavigationRouter(handler, "")

	req := httptest.NewRequest(http.MethodPost, "/navigate", bytes.NewBufferString(`{"kind":"chat","connected":true}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var target models.NavigationTarget
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&target))
	assert.Equal(t, models.ScreenChatSignedOut, target.ScreenType)
	assert.Empty(t, target.GroupKey)
	assert.Empty(t, target.RoomKey)
}

func TestResolveOffline(t *testing.T) {
	groupRepo := new(mocks.GroupRepositoryMock)
	handler := NewNavigationHandler(dispatch.NewDispatcher(nil), dispatch.NewTracker(), groupRepo, nil)
	router := setupNavigationRouter(handler, "alice")

	groupRepo.On("CountGroupsForUser", mock.Anything, "alice").Return(2, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/navigate", bytes.NewBufferString(`{"kind":"game","connected":false}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var target models.NavigationTarget
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&target))
	assert.Equal(t, models.ScreenGameOffline, target.ScreenType)
	groupRepo.AssertExpectations(t)
}

func TestResolveHomeRoomCreatesDefaultGroup(t *testing.T) {
	groupRepo := new(mocks.GroupRepositoryMock)
	handler := NewNavigationHandler(dispatch.NewDispatcher(nil), dispatch.NewTracker(), groupRepo, nil)
	router := setupNavigationRouter(handler, "alice")

	groupRepo.On("CountGroupsForUser", mock.Anything, "alice").Return(0, nil).Once()
	groupRepo.On("EnsureDefaultGroup", mock.Anything, "alice").
		Return(models.Group{Key: "g-home"}, models.Room{Key: "r-home", GroupKey: "g-home"}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/navigate", bytes.NewBufferString(`{"kind":"chat","connected":true}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var target models.NavigationTarget
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&target))
	assert.Equal(t, models.ScreenChatHomeRoom, target.ScreenType)
	assert.Equal(t, "g-home", target.GroupKey)
	assert.Equal(t, "r-home", target.RoomKey)
	groupRepo.AssertExpectations(t)
}

func TestResolveGroupList(t *testing.T) {
	groupRepo := new(mocks.GroupRepositoryMock)
	handler := NewNavigationHandler(dispatch.NewDispatcher(nil), dispatch.NewTracker(), groupRepo, nil)
	router := setupNavigationRouter(handler, "alice")

	groupRepo.On("CountGroupsForUser", mock.Anything, "alice").Return(3, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/navigate", bytes.NewBufferString(`{"kind":"chat","connected":true}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var target models.NavigationTarget
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&target))
	assert.Equal(t, models.ScreenChatGroupList, target.ScreenType)
	assert.Empty(t, target.RoomKey)
	groupRepo.AssertExpectations(t)
}

func TestResolveUnknownKindNoContent(t *testing.T) {
	handler := NewNavigationHandler(dispatch.NewDispatcher(nil), dispatch.NewTracker(), new(mocks.GroupRepositoryMock), nil)
	router := setupNavigationRouter(handler, "")

	req := httptest.NewRequest(http.MethodPost, "/navigate", bytes.NewBufferString(`{"kind":"video","connected":true}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestResolveTargetUnknownTypeNoContent(t *testing.T) {
	handler := NewNavigationHandler(dispatch.NewDispatcher(nil), dispatch.NewTracker(), new(mocks.GroupRepositoryMock), nil)
	router := setupNavigationRouter(handler, "alice")

	req := httptest.NewRequest(http.MethodPost, "/navigate/target", bytes.NewBufferString(`{"screen_type":"bogus"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestResolveTargetExperienceDisambiguation(t *testing.T) {
	recordRepo := new(mocks.RecordRepositoryMock)
	handler := NewNavigationHandler(dispatch.NewDispatcher(recordRepo), dispatch.NewTracker(), new(mocks.GroupRepositoryMock), nil)
	router := setupNavigationRouter(handler, "alice")

	recordRepo.On("CountExperiences", mock.Anything, "r1", "tictactoe").Return(2, nil).Once()

	body := bytes.NewBufferString(`{"screen_type":"game_experience","entry":{"group_key":"g1","room_key":"r1","game_type":"tictactoe"}}`)
	req := httptest.NewRequest(http.MethodPost, "/navigate/target", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var target models.NavigationTarget
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&target))
	assert.Equal(t, models.ScreenExperienceList, target.ScreenType)
	recordRepo.AssertExpectations(t)
}
