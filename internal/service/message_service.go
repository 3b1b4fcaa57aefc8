package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"board-service/internal/auth"
	"board-service/internal/models"
	"board-service/internal/repositories"
)

const (
	// DefaultPage and DefaultSize apply when the caller omits pagination
	// inputs or supplies values that do not parse as positive integers.
	DefaultPage = 1
	DefaultSize = 10
)

// MessageService holds the business rules for the message lifecycle:
// create, paginated list, single fetch, one-time reply and moderation.
// It is stateless between calls; every operation is a single unit of work
// against the repository.
type MessageService struct {
	repo     repositories.MessageRepository
	verifier auth.TokenVerifier

	now   func() time.Time
	newID func() string
}

// NewMessageService constructs the service.
func NewMessageService(repo repositories.MessageRepository, verifier auth.TokenVerifier) *MessageService {
	return &MessageService{
		repo:     repo,
		verifier: verifier,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Post creates a new message on the owner's board. No credential is needed:
// any visitor may post, anonymously when author is nil.
func (s *MessageService) Post(ctx context.Context, ownerUID, text string, author *models.Author) (models.Message, error) {
	if strings.TrimSpace(ownerUID) == "" {
		return models.Message{}, missingField("uid")
	}
	if strings.TrimSpace(text) == "" {
		return models.Message{}, missingField("message")
	}

	msg := models.Message{
		ID:        s.newID(),
		OwnerUID:  ownerUID,
		Message:   text,
		Author:    author,
		CreatedAt: s.now().UTC(),
	}
	return s.repo.CreateMessage(ctx, msg)
}

// List returns one page of the owner's messages, newest first. The token is
// optional: a caller proving to be the owner sees denied messages too,
// everyone else gets the public view with totals to match.
func (s *MessageService) List(ctx context.Context, ownerUID string, page, size int, token string) (models.MessageList, error) {
	if strings.TrimSpace(ownerUID) == "" {
		return models.MessageList{}, missingField("uid")
	}
	if page < 1 {
		page = DefaultPage
	}
	if size < 1 {
		size = DefaultSize
	}

	includeDenied := s.isOwnerView(ctx, token, ownerUID)

	total, err := s.repo.CountMessages(ctx, ownerUID, includeDenied)
	if err != nil {
		return models.MessageList{}, err
	}

	msgs, err := s.repo.ListMessages(ctx, ownerUID, includeDenied, size, (page-1)*size)
	if err != nil {
		return models.MessageList{}, err
	}
	if msgs == nil {
		msgs = []models.Message{}
	}

	return models.MessageList{
		TotalElements: total,
		TotalPages:    (total + size - 1) / size,
		Page:          page,
		Size:          size,
		Content:       msgs,
	}, nil
}

// Get fetches a single message. A denied message is not found for anyone who
// cannot prove to be the owner.
func (s *MessageService) Get(ctx context.Context, ownerUID, messageID, token string) (models.Message, error) {
	if strings.TrimSpace(ownerUID) == "" {
		return models.Message{}, missingField("uid")
	}
	if strings.TrimSpace(messageID) == "" {
		return models.Message{}, missingField("messageId")
	}

	msg, err := s.repo.GetMessage(ctx, ownerUID, messageID)
	if err != nil {
		return models.Message{}, mapRepoError(err)
	}
	if msg.Denied() && !s.isOwnerView(ctx, token, ownerUID) {
		return models.Message{}, ErrNotFound
	}
	return msg, nil
}

// PostReply appends the owner's one-time reply to a message. The caller must
// hold a credential for the board owner; a message that already has a reply
// is left untouched.
func (s *MessageService) PostReply(ctx context.Context, token, ownerUID, messageID, reply string) (models.Message, error) {
	if err := s.authorizeOwner(ctx, token, ownerUID); err != nil {
		return models.Message{}, err
	}
	if strings.TrimSpace(messageID) == "" {
		return models.Message{}, missingField("messageId")
	}
	if strings.TrimSpace(reply) == "" {
		return models.Message{}, missingField("reply")
	}

	msg, err := s.repo.SetReply(ctx, ownerUID, messageID, reply, s.now().UTC())
	if err != nil {
		return models.Message{}, mapRepoError(err)
	}
	return msg, nil
}

// UpdateMessage sets the moderation flag. Setting the current value again
// still succeeds; hide and unhide are both always legal.
func (s *MessageService) UpdateMessage(ctx context.Context, token, ownerUID, messageID string, deny *bool) (models.Message, error) {
	if err := s.authorizeOwner(ctx, token, ownerUID); err != nil {
		return models.Message{}, err
	}
	if strings.TrimSpace(messageID) == "" {
		return models.Message{}, missingField("messageId")
	}
	if deny == nil {
		return models.Message{}, missingField("deny")
	}

	msg, err := s.repo.SetDeny(ctx, ownerUID, messageID, *deny)
	if err != nil {
		return models.Message{}, mapRepoError(err)
	}
	return msg, nil
}

// authorizeOwner runs the credential protocol for owner-only operations:
// a credential must be present, verify, and name the board owner as subject.
// It runs before any validation of the remaining fields, matching the
// externally observable order of the moderation contract.
func (s *MessageService) authorizeOwner(ctx context.Context, token, ownerUID string) error {
	if token == "" {
		return ErrNoCredential
	}
	subject, err := s.verifier.VerifyToken(ctx, token)
	if err != nil {
		return ErrInvalidToken
	}
	if strings.TrimSpace(ownerUID) == "" {
		return missingField("uid")
	}
	if subject != ownerUID {
		return ErrNotOwner
	}
	return nil
}

// isOwnerView resolves an optional read-path credential. Absent or
// unverifiable tokens downgrade to the public view instead of erroring, so
// anonymous visitors can always read.
func (s *MessageService) isOwnerView(ctx context.Context, token, ownerUID string) bool {
	if token == "" {
		return false
	}
	subject, err := s.verifier.VerifyToken(ctx, token)
	if err != nil {
		return false
	}
	return subject == ownerUID
}

func mapRepoError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrMessageNotFound):
		return ErrNotFound
	case errors.Is(err, repositories.ErrAlreadyReplied):
		return ErrAlreadyReplied
	default:
		return err
	}
}
