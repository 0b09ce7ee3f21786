package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"group-service/internal/models"
	"group-service/internal/repositories"
)

type GroupRepositoryMock struct {
	mock.Mock
}

func (m *GroupRepositoryMock) CreateGroup(ctx context.Context, ownerID int, name, description, visibility string, maxMembers *int) (models.Group, error) {
	args := m.Called(ctx, ownerID, name, description, visibility, maxMembers)
	var group models.Group
	if val := args.Get(0); val != nil {
		group = val.(models.Group)
	}
	return group, args.Error(1)
}

func (m *GroupRepositoryMock) GetGroup(ctx context.Context, groupID int) (models.Group, error) {
	args := m.Called(ctx, groupID)
	var group models.Group
	if val := args.Get(0); val != nil {
		group = val.(models.Group)
	}
	return group, args.Error(1)
}

func (m *GroupRepositoryMock) DeleteGroup(ctx context.Context, groupID int, requestedBy int) error {
	args := m.Called(ctx, groupID, requestedBy)
	return args.Error(0)
}

func (m *GroupRepositoryMock) SearchGroups(ctx context.Context, visibility, nameQuery string) ([]models.Group, error) {
	args := m.Called(ctx, visibility, nameQuery)
	var groups []models.Group
	if val := args.Get(0); val != nil {
		groups = val.([]models.Group)
	}
	return groups, args.Error(1)
}

func (m *GroupRepositoryMock) ListGroupsForUser(ctx context.Context, userID int) ([]models.Group, error) {
	args := m.Called(ctx, userID)
	var groups []models.Group
	if val := args.Get(0); val != nil {
		groups = val.([]models.Group)
	}
	return groups, args.Error(1)
}

func (m *GroupRepositoryMock) IsMember(ctx context.Context, groupID int, userID int) (bool, error) {
	args := m.Called(ctx, groupID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *GroupRepositoryMock) JoinPublic(ctx context.Context, groupID int, userID int) error {
	args := m.Called(ctx, groupID, userID)
	return args.Error(0)
}

func (m *GroupRepositoryMock) Leave(ctx context.Context, groupID int, userID int) error {
	args := m.Called(ctx, groupID, userID)
	return args.Error(0)
}

func (m *GroupRepositoryMock) AddMember(ctx context.Context, groupID int, userID int, actor int) error {
	args := m.Called(ctx, groupID, userID, actor)
	return args.Error(0)
}

func (m *GroupRepositoryMock) RemoveMember(ctx context.Context, groupID int, userID int, actor int) error {
	args := m.Called(ctx, groupID, userID, actor)
	return args.Error(0)
}

func (m *GroupRepositoryMock) Banish(ctx context.Context, groupID int, userID int, actor int) error {
	args := m.Called(ctx, groupID, userID, actor)
	return args.Error(0)
}

func (m *GroupRepositoryMock) UpdateRole(ctx context.Context, groupID int, userID int, role string, actor int) error {
	args := m.Called(ctx, groupID, userID, role, actor)
	return args.Error(0)
}

func (m *GroupRepositoryMock) TransferOwnership(ctx context.Context, groupID int, newOwnerID int, actor int) error {
	args := m.Called(ctx, groupID, newOwnerID, actor)
	return args.Error(0)
}

type JoinRequestRepositoryMock struct {
	mock.Mock
}

func (m *JoinRequestRepositoryMock) Submit(ctx context.Context, groupID int, userID int) (models.JoinRequest, error) {
	args := m.Called(ctx, groupID, userID)
	var request models.JoinRequest
	if val := args.Get(0); val != nil {
		request = val.(models.JoinRequest)
	}
	return request, args.Error(1)
}

func (m *JoinRequestRepositoryMock) Approve(ctx context.Context, groupID int, userID int, approver int) (models.JoinRequest, error) {
	args := m.Called(ctx, groupID, userID, approver)
	var request models.JoinRequest
	if val := args.Get(0); val != nil {
		request = val.(models.JoinRequest)
	}
	return request, args.Error(1)
}

func (m *JoinRequestRepositoryMock) Decline(ctx context.Context, groupID int, userID int, approver int) (models.JoinRequest, error) {
	args := m.Called(ctx, groupID, userID, approver)
	var request models.JoinRequest
	if val := args.Get(0); val != nil {
		request = val.(models.JoinRequest)
	}
	return request, args.Error(1)
}

func (m *JoinRequestRepositoryMock) ListPending(ctx context.Context, groupID int, caller int) ([]models.JoinRequest, error) {
	args := m.Called(ctx, groupID, caller)
	var requests []models.JoinRequest
	if val := args.Get(0); val != nil {
		requests = val.([]models.JoinRequest)
	}
	return requests, args.Error(1)
}

type MessageRepositoryMock struct {
	mock.Mock
}

func (m *MessageRepositoryMock) CreateGroupMessage(ctx context.Context, groupID int, senderID int, content string) (models.GroupMessage, error) {
	args := m.Called(ctx, groupID, senderID, content)
	var msg models.GroupMessage
	if val := args.Get(0); val != nil {
		msg = val.(models.GroupMessage)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) ListGroupMessages(ctx context.Context, groupID int) ([]models.GroupMessage, error) {
	args := m.Called(ctx, groupID)
	var msgs []models.GroupMessage
	if val := args.Get(0); val != nil {
		msgs = val.([]models.GroupMessage)
	}
	return msgs, args.Error(1)
}

var _ repositories.GroupRepository = (*GroupRepositoryMock)(nil)
var _ repositories.JoinRequestRepository = (*JoinRequestRepositoryMock)(nil)
var _ repositories.MessageRepository = (*MessageRepositoryMock)(nil)
