package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"board-service/internal/mocks"
	"board-service/internal/models"
	"board-service/internal/repositories"
)

var fixedTime = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestService(repo *mocks.MessageRepositoryMock, verifier *mocks.TokenVerifierMock) *MessageService {
	svc := NewMessageService(repo, verifier)
	svc.now = func() time.Time { return fixedTime }
	svc.newID = func() string { return "fixed-id" }
	return svc
}

func TestPostBuildsMessage(t *testing.T) {
	repo := new(mocks.MessageRepositoryMock)
	svc := newTestService(repo, new(mocks.TokenVerifierMock))

	expected := models.Message{
		ID:        "fixed-id",
		OwnerUID:  "u1",
		Message:   "hi",
		CreatedAt: fixedTime,
	}
	repo.On("CreateMessage", mock.Anything, expected).Return(expected, nil).Once()

	msg, err := svc.Post(context.Background(), "u1", "hi", nil)
	require.NoError(t, err)
	assert.Equal(t, expected, msg)
	assert.Nil(t, msg.Reply)
	assert.Nil(t, msg.Deny)
	repo.AssertExpectations(t)
}

func TestPostValidation(t *testing.T) {
	repo := new(mocks.MessageRepositoryMock)
	svc := newTestService(repo, new(mocks.TokenVerifierMock))

	_, err := svc.Post(context.Background(), "", "hi", nil)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "uid", validationErr.Field)

	_, err = svc.Post(context.Background(), "u1", " ", nil)
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "message", validationErr.Field)

	repo.AssertNotCalled(t, "CreateMessage", mock.Anything, mock.Anything)
}

func TestListPaginationMath(t *testing.T) {
	repo := new(mocks.MessageRepositoryMock)
	svc := newTestService(repo, new(mocks.TokenVerifierMock))

	repo.On("CountMessages", mock.Anything, "u1", false).Return(25, nil).Once()
	repo.On("ListMessages", mock.Anything, "u1", false, 10, 20).
		Return([]models.Message{{ID: "m21"}}, nil).Once()

	list, err := svc.List(context.Background(), "u1", 3, 10, "")
	require.NoError(t, err)
	assert.Equal(t, 25, list.TotalElements)
	assert.Equal(t, 3, list.TotalPages)
	assert.Equal(t, 3, list.Page)
	assert.Equal(t, 10, list.Size)
	repo.AssertExpectations(t)
}

func TestListBeyondLastPageIsEmpty(t *testing.T) {
	repo := new(mocks.MessageRepositoryMock)
	svc := newTestService(repo, new(mocks.TokenVerifierMock))

	repo.On("CountMessages", mock.Anything, "u1", false).Return(25, nil).Once()
	repo.On("ListMessages", mock.Anything, "u1", false, 10, 90).
		Return(([]models.Message)(nil), nil).Once()

	list, err := svc.List(context.Background(), "u1", 10, 10, "")
	require.NoError(t, err)
	assert.NotNil(t, list.Content)
	assert.Empty(t, list.Content)
	assert.Equal(t, 25, list.TotalElements)
	assert.Equal(t, 3, list.TotalPages)
}

func TestListDefaultsApplied(t *testing.T) {
	repo := new(mocks.MessageRepositoryMock)
	svc := newTestService(repo, new(mocks.TokenVerifierMock))

	repo.On("CountMessages", mock.Anything, "u1", false).Return(0, nil).Once()
	repo.On("ListMessages", mock.Anything, "u1", false, DefaultSize, 0).
		Return([]models.Message{}, nil).Once()

	list, err := svc.List(context.Background(), "u1", 0, -5, "")
	require.NoError(t, err)
	assert.Equal(t, DefaultPage, list.Page)
	assert.Equal(t, DefaultSize, list.Size)
	repo.AssertExpectations(t)
}

func TestListMissingOwner(t *testing.T) {
	svc := newTestService(new(mocks.MessageRepositoryMock), new(mocks.TokenVerifierMock))

	_, err := svc.List(context.Background(), "  ", 1, 10, "")
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "uid", validationErr.Field)
}

func TestGetDeniedMessageVisibleToOwner(t *testing.T) {
	repo := new(mocks.MessageRepositoryMock)
	verifier := new(mocks.TokenVerifierMock)
	svc := newTestService(repo, verifier)

	denied := true
	repo.On("GetMessage", mock.Anything, "u1", "m1").
		Return(models.Message{ID: "m1", OwnerUID: "u1", Deny: &denied}, nil).Once()
	verifier.On("VerifyToken", mock.Anything, "tok-u1").Return("u1", nil).Once()

	msg, err := svc.Get(context.Background(), "u1", "m1", "tok-u1")
	require.NoError(t, err)
	assert.True(t, msg.Denied())
	verifier.AssertExpectations(t)
}

func TestGetDeniedMessageHiddenFromOthers(t *testing.T) {
	repo := new(mocks.MessageRepositoryMock)
	verifier := new(mocks.TokenVerifierMock)
	svc := newTestService(repo, verifier)

	denied := true
	repo.On("GetMessage", mock.Anything, "u1", "m1").
		Return(models.Message{ID: "m1", OwnerUID: "u1", Deny: &denied}, nil).Twice()

	// Anonymous caller.
	_, err := svc.Get(context.Background(), "u1", "m1", "")
	require.ErrorIs(t, err, ErrNotFound)

	// Valid token for someone else.
	verifier.On("VerifyToken", mock.Anything, "tok-u2").Return("u2", nil).Once()
	_, err = svc.Get(context.Background(), "u1", "m1", "tok-u2")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPostReplyCredentialProtocol(t *testing.T) {
	repo := new(mocks.MessageRepositoryMock)
	verifier := new(mocks.TokenVerifierMock)
	svc := newTestService(repo, verifier)

	_, err := svc.PostReply(context.Background(), "", "u1", "m1", "thanks")
	require.ErrorIs(t, err, ErrNoCredential)
	verifier.AssertNotCalled(t, "VerifyToken", mock.Anything, mock.Anything)

	verifier.On("VerifyToken", mock.Anything, "bad").Return("", assert.AnError).Once()
	_, err = svc.PostReply(context.Background(), "bad", "u1", "m1", "thanks")
	require.ErrorIs(t, err, ErrInvalidToken)

	verifier.On("VerifyToken", mock.Anything, "tok-u2").Return("u2", nil).Once()
	_, err = svc.PostReply(context.Background(), "tok-u2", "u1", "m1", "thanks")
	require.ErrorIs(t, err, ErrNotOwner)

	repo.AssertNotCalled(t, "SetReply", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPostReplyUsesServerTime(t *testing.T) {
	repo := new(mocks.MessageRepositoryMock)
	verifier := new(mocks.TokenVerifierMock)
	svc := newTestService(repo, verifier)

	reply := "thanks"
	verifier.On("VerifyToken", mock.Anything, "tok-u1").Return("u1", nil).Once()
	repo.On("SetReply", mock.Anything, "u1", "m1", "thanks", fixedTime).
		Return(models.Message{ID: "m1", OwnerUID: "u1", Reply: &reply, ReplyAt: &fixedTime}, nil).Once()

	msg, err := svc.PostReply(context.Background(), "tok-u1", "u1", "m1", "thanks")
	require.NoError(t, err)
	require.NotNil(t, msg.ReplyAt)
	assert.Equal(t, fixedTime, *msg.ReplyAt)
	repo.AssertExpectations(t)
}

func TestPostReplyAlreadyReplied(t *testing.T) {
	repo := new(mocks.MessageRepositoryMock)
	verifier := new(mocks.TokenVerifierMock)
	svc := newTestService(repo, verifier)

	verifier.On("VerifyToken", mock.Anything, "tok-u1").Return("u1", nil).Once()
	repo.On("SetReply", mock.Anything, "u1", "m1", "again", fixedTime).
		Return(models.Message{}, repositories.ErrAlreadyReplied).Once()

	_, err := svc.PostReply(context.Background(), "tok-u1", "u1", "m1", "again")
	require.ErrorIs(t, err, ErrAlreadyReplied)
}

func TestUpdateMessageRoundTrip(t *testing.T) {
	repo := new(mocks.MessageRepositoryMock)
	verifier := new(mocks.TokenVerifierMock)
	svc := newTestService(repo, verifier)

	denied := true
	visible := false
	verifier.On("VerifyToken", mock.Anything, "tok-u1").Return("u1", nil).Twice()
	repo.On("SetDeny", mock.Anything, "u1", "m1", true).
		Return(models.Message{ID: "m1", OwnerUID: "u1", Deny: &denied}, nil).Once()
	repo.On("SetDeny", mock.Anything, "u1", "m1", false).
		Return(models.Message{ID: "m1", OwnerUID: "u1", Deny: &visible}, nil).Once()

	hide := true
	msg, err := svc.UpdateMessage(context.Background(), "tok-u1", "u1", "m1", &hide)
	require.NoError(t, err)
	assert.True(t, msg.Denied())

	unhide := false
	msg, err = svc.UpdateMessage(context.Background(), "tok-u1", "u1", "m1", &unhide)
	require.NoError(t, err)
	assert.False(t, msg.Denied())
	repo.AssertExpectations(t)
}

func TestUpdateMessageWrongOwnerNoMutation(t *testing.T) {
	repo := new(mocks.MessageRepositoryMock)
	verifier := new(mocks.TokenVerifierMock)
	svc := newTestService(repo, verifier)

	verifier.On("VerifyToken", mock.Anything, "tok-u2").Return("u2", nil).Once()

	hide := true
	_, err := svc.UpdateMessage(context.Background(), "tok-u2", "u1", "m1", &hide)
	require.ErrorIs(t, err, ErrNotOwner)
	repo.AssertNotCalled(t, "SetDeny", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateMessageMissingFields(t *testing.T) {
	repo := new(mocks.MessageRepositoryMock)
	verifier := new(mocks.TokenVerifierMock)
	svc := newTestService(repo, verifier)

	verifier.On("VerifyToken", mock.Anything, "tok-u1").Return("u1", nil).Twice()

	var validationErr *ValidationError
	hide := true
	_, err := svc.UpdateMessage(context.Background(), "tok-u1", "u1", "", &hide)
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "messageId", validationErr.Field)

	_, err = svc.UpdateMessage(context.Background(), "tok-u1", "u1", "m1", nil)
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "deny", validationErr.Field)

	repo.AssertNotCalled(t, "SetDeny", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
