package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"gamechat-service/internal/models"
	"gamechat-service/internal/repositories"
)

type GroupRepositoryMock struct {
	mock.Mock
}

func (m *GroupRepositoryMock) CreateGroup(ctx context.Context, ownerID string, name string, memberIDs []string) (models.Group, error) {
	args := m.Called(ctx, ownerID, name, memberIDs)
	var group models.Group
	if val := args.Get(0); val != nil {
		group = val.(models.Group)
	}
	return group, args.Error(1)
}

func (m *GroupRepositoryMock) EnsureDefaultGroup(ctx context.Context, ownerID string) (models.Group, models.Room, error) {
	args := m.Called(ctx, ownerID)
	var group models.Group
	if val := args.Get(0); val != nil {
		group = val.(models.Group)
	}
	var room models.Room
	if val := args.Get(1); val != nil {
		room = val.(models.Room)
	}
	return group, room, args.Error(2)
}

func (m *GroupRepositoryMock) ListGroupsForUser(ctx context.Context, userID string) ([]models.Group, error) {
	args := m.Called(ctx, userID)
	var groups []models.Group
	if val := args.Get(0); val != nil {
		groups = val.([]models.Group)
	}
	return groups, args.Error(1)
}

func (m *GroupRepositoryMock) CountGroupsForUser(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *GroupRepositoryMock) IsMember(ctx context.Context, groupKey string, userID string) (bool, error) {
	args := m.Called(ctx, groupKey, userID)
	return args.Bool(0), args.Error(1)
}

func (m *GroupRepositoryMock) GetGroup(ctx context.Context, groupKey string) (models.Group, error) {
	args := m.Called(ctx, groupKey)
	var group models.Group
	if val := args.Get(0); val != nil {
		group = val.(models.Group)
	}
	return group, args.Error(1)
}

type RoomRepositoryMock struct {
	mock.Mock
}

func (m *RoomRepositoryMock) CreateRoom(ctx context.Context, groupKey string, name string) (models.Room, error) {
	args := m.Called(ctx, groupKey, name)
	var room models.Room
	if val := args.Get(0); val != nil {
		room = val.(models.Room)
	}
	return room, args.Error(1)
}

func (m *RoomRepositoryMock) ListRooms(ctx context.Context, groupKey string) ([]models.Room, error) {
	args := m.Called(ctx, groupKey)
	var rooms []models.Room
	if val := args.Get(0); val != nil {
		rooms = val.([]models.Room)
	}
	return rooms, args.Error(1)
}

func (m *RoomRepositoryMock) GetRoom(ctx context.Context, roomKey string) (models.Room, error) {
	args := m.Called(ctx, roomKey)
	var room models.Room
	if val := args.Get(0); val != nil {
		room = val.(models.Room)
	}
	return room, args.Error(1)
}

type RecordRepositoryMock struct {
	mock.Mock
}

func (m *RecordRepositoryMock) CreateRecord(ctx context.Context, room models.Room, authorID string, kind models.RecordKind, gameType, content string) (models.Record, error) {
	args := m.Called(ctx, room, authorID, kind, gameType, content)
	var rec models.Record
	if val := args.Get(0); val != nil {
		rec = val.(models.Record)
	}
	return rec, args.Error(1)
}

func (m *RecordRepositoryMock) ListRoomRecords(ctx context.Context, roomKey string) ([]models.Record, error) {
	args := m.Called(ctx, roomKey)
	var recs []models.Record
	if val := args.Get(0); val != nil {
		recs = val.([]models.Record)
	}
	return recs, args.Error(1)
}

func (m *RecordRepositoryMock) GetRecord(ctx context.Context, roomKey, recordID string) (models.Record, error) {
	args := m.Called(ctx, roomKey, recordID)
	var rec models.Record
	if val := args.Get(0); val != nil {
		rec = val.(models.Record)
	}
	return rec, args.Error(1)
}

func (m *RecordRepositoryMock) DeleteRecord(ctx context.Context, roomKey, recordID, authorID string) error {
	args := m.Called(ctx, roomKey, recordID, authorID)
	return args.Error(0)
}

func (m *RecordRepositoryMock) CountExperiences(ctx context.Context, roomKey, gameType string) (int, error) {
	args := m.Called(ctx, roomKey, gameType)
	return args.Int(0), args.Error(1)
}

func (m *RecordRepositoryMock) GetLatestExperience(ctx context.Context, roomKey, gameType string) (models.Record, error) {
	args := m.Called(ctx, roomKey, gameType)
	var rec models.Record
	if val := args.Get(0); val != nil {
		rec = val.(models.Record)
	}
	return rec, args.Error(1)
}

var _ repositories.GroupRepository = (*GroupRepositoryMock)(nil)
var _ repositories.RoomRepository = (*RoomRepositoryMock)(nil)
var _ repositories.RecordRepository = (*RecordRepositoryMock)(nil)
