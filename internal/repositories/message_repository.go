package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"board-service/internal/models"
)

var (
	ErrMessageNotFound = errors.New("message not found")
	ErrAlreadyReplied  = errors.New("message already has a reply")
)

// MessageRepository defines persistence for board messages.
type MessageRepository interface {
	CreateMessage(ctx context.Context, msg models.Message) (models.Message, error)
	GetMessage(ctx context.Context, ownerUID, messageID string) (models.Message, error)
	ListMessages(ctx context.Context, ownerUID string, includeDenied bool, limit, offset int) ([]models.Message, error)
	CountMessages(ctx context.Context, ownerUID string, includeDenied bool) (int, error)
	SetReply(ctx context.Context, ownerUID, messageID, reply string, repliedAt time.Time) (models.Message, error)
	SetDeny(ctx context.Context, ownerUID, messageID string, deny bool) (models.Message, error)
}

// MessageRepo is a sqlx-backed repository.
type MessageRepo struct {
	db *sqlx.DB
}

// NewMessageRepo constructs MessageRepo.
func NewMessageRepo(db *sqlx.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

const messageColumns = `id, owner_uid, message, author_display_name, author_photo_url, created_at, reply, reply_at, deny`

// messageRow maps the messages table; nullable columns stay pointers so a
// never-set reply or deny round-trips as absent rather than zero-valued.
type messageRow struct {
	ID                string     `db:"id"`
	OwnerUID          string     `db:"owner_uid"`
	Message           string     `db:"message"`
	AuthorDisplayName *string    `db:"author_display_name"`
	AuthorPhotoURL    *string    `db:"author_photo_url"`
	CreatedAt         time.Time  `db:"created_at"`
	Reply             *string    `db:"reply"`
	ReplyAt           *time.Time `db:"reply_at"`
	Deny              *bool      `db:"deny"`
}

func (r messageRow) toModel() models.Message {
	msg := models.Message{
		ID:        r.ID,
		OwnerUID:  r.OwnerUID,
		Message:   r.Message,
		CreatedAt: r.CreatedAt,
		Reply:     r.Reply,
		ReplyAt:   r.ReplyAt,
		Deny:      r.Deny,
	}
	if r.AuthorDisplayName != nil {
		msg.Author = &models.Author{DisplayName: *r.AuthorDisplayName, PhotoURL: r.AuthorPhotoURL}
	}
	return msg
}

// CreateMessage persists a new message and returns the stored record.
func (r *MessageRepo) CreateMessage(ctx context.Context, msg models.Message) (models.Message, error) {
	var displayName, photoURL *string
	if msg.Author != nil {
		displayName = &msg.Author.DisplayName
		photoURL = msg.Author.PhotoURL
	}

	var row messageRow
	err := r.db.GetContext(ctx, &row, `INSERT INTO messages (id, owner_uid, message, author_display_name, author_photo_url, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING `+messageColumns,
		msg.ID, msg.OwnerUID, msg.Message, displayName, photoURL, msg.CreatedAt)
	if err != nil {
		return models.Message{}, err
	}
	return row.toModel(), nil
}

// GetMessage retrieves a single message belonging to the owner.
func (r *MessageRepo) GetMessage(ctx context.Context, ownerUID, messageID string) (models.Message, error) {
	var row messageRow
	err := r.db.GetContext(ctx, &row, `SELECT `+messageColumns+` FROM messages WHERE owner_uid=$1 AND id=$2`, ownerUID, messageID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Message{}, ErrMessageNotFound
	}
	if err != nil {
		return models.Message{}, err
	}
	return row.toModel(), nil
}

// ListMessages returns one page of an owner's messages, newest first.
// Denied messages are filtered out unless includeDenied is set.
func (r *MessageRepo) ListMessages(ctx context.Context, ownerUID string, includeDenied bool, limit, offset int) ([]models.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages WHERE owner_uid=$1`
	if !includeDenied {
		query += ` AND deny IS NOT TRUE`
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`

	var rows []messageRow
	if err := r.db.SelectContext(ctx, &rows, query, ownerUID, limit, offset); err != nil {
		return nil, err
	}

	msgs := make([]models.Message, 0, len(rows))
	for _, row := range rows {
		msgs = append(msgs, row.toModel())
	}
	return msgs, nil
}

// CountMessages counts an owner's messages under the same visibility filter
// as ListMessages, so page totals match what the caller can see.
func (r *MessageRepo) CountMessages(ctx context.Context, ownerUID string, includeDenied bool) (int, error) {
	query := `SELECT COUNT(*) FROM messages WHERE owner_uid=$1`
	if !includeDenied {
		query += ` AND deny IS NOT TRUE`
	}
	var total int
	err := r.db.GetContext(ctx, &total, query, ownerUID)
	return total, err
}

// SetReply records the owner's one-time reply. The reply IS NULL guard makes
// the exactly-once rule hold even for concurrent attempts.
func (r *MessageRepo) SetReply(ctx context.Context, ownerUID, messageID, reply string, repliedAt time.Time) (models.Message, error) {
	var row messageRow
	err := r.db.GetContext(ctx, &row, `UPDATE messages SET reply=$3, reply_at=$4
        WHERE owner_uid=$1 AND id=$2 AND reply IS NULL
        RETURNING `+messageColumns,
		ownerUID, messageID, reply, repliedAt)
	if errors.Is(err, sql.ErrNoRows) {
		// Distinguish a missing message from one that was already replied to.
		if _, getErr := r.GetMessage(ctx, ownerUID, messageID); getErr != nil {
			return models.Message{}, getErr
		}
		return models.Message{}, ErrAlreadyReplied
	}
	if err != nil {
		return models.Message{}, err
	}
	return row.toModel(), nil
}

// SetDeny sets the moderation flag. Writing the current value again is a
// plain row update, so the operation stays idempotent for the caller.
func (r *MessageRepo) SetDeny(ctx context.Context, ownerUID, messageID string, deny bool) (models.Message, error) {
	var row messageRow
	err := r.db.GetContext(ctx, &row, `UPDATE messages SET deny=$3
        WHERE owner_uid=$1 AND id=$2
        RETURNING `+messageColumns,
		ownerUID, messageID, deny)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Message{}, ErrMessageNotFound
	}
	if err != nil {
		return models.Message{}, err
	}
	return row.toModel(), nil
}
