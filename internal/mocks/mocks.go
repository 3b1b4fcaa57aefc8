package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"board-service/internal/auth"
	"board-service/internal/models"
	"board-service/internal/repositories"
)

type MessageRepositoryMock struct {
	mock.Mock
}

func (m *MessageRepositoryMock) CreateMessage(ctx context.Context, msg models.Message) (models.Message, error) {
	args := m.Called(ctx, msg)
	var stored models.Message
	if val := args.Get(0); val != nil {
		stored = val.(models.Message)
	}
	return stored, args.Error(1)
}

func (m *MessageRepositoryMock) GetMessage(ctx context.Context, ownerUID, messageID string) (models.Message, error) {
	args := m.Called(ctx, ownerUID, messageID)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) ListMessages(ctx context.Context, ownerUID string, includeDenied bool, limit, offset int) ([]models.Message, error) {
	args := m.Called(ctx, ownerUID, includeDenied, limit, offset)
	var msgs []models.Message
	if val := args.Get(0); val != nil {
		msgs = val.([]models.Message)
	}
	return msgs, args.Error(1)
}

func (m *MessageRepositoryMock) CountMessages(ctx context.Context, ownerUID string, includeDenied bool) (int, error) {
	args := m.Called(ctx, ownerUID, includeDenied)
	return args.Int(0), args.Error(1)
}

func (m *MessageRepositoryMock) SetReply(ctx context.Context, ownerUID, messageID, reply string, repliedAt time.Time) (models.Message, error) {
	args := m.Called(ctx, ownerUID, messageID, reply, repliedAt)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) SetDeny(ctx context.Context, ownerUID, messageID string, deny bool) (models.Message, error) {
	args := m.Called(ctx, ownerUID, messageID, deny)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

type TokenVerifierMock struct {
	mock.Mock
}

func (m *TokenVerifierMock) VerifyToken(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}

var _ repositories.MessageRepository = (*MessageRepositoryMock)(nil)
var _ auth.TokenVerifier = (*TokenVerifierMock)(nil)
