package postgres

import (
	"aichat-backend/internal/models"
	"aichat-backend/internal/store"
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Compile-time check to ensure PostgresStore implements store.Store
var _ store.Store = (*PostgresStore)(nil)

// uniqueViolation is the PostgreSQL error code for unique constraint failures.
const uniqueViolation = "23505"

type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// --- User Methods ---

const getUser = `
SELECT id, username, hashed_password, created_at
FROM users
WHERE id = $1;
`

// GetUser retrieves a user by id.
// Returns store.ErrNotFound if the user does not exist.
func (s *PostgresStore) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user := &models.User{}
	err := s.db.QueryRow(ctx, getUser, id).Scan(
		&user.ID,
		&user.Username,
		&user.HashedPassword,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("database error fetching user: %w", err)
	}
	return user, nil
}

const getUserByUsername = `
SELECT id, username, hashed_password, created_at
FROM users
WHERE username = $1;
`

// GetUserByUsername retrieves a user by their unique username.
// Returns store.ErrNotFound if the user does not exist.
func (s *PostgresStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	user := &models.User{}
	err := s.db.QueryRow(ctx, getUserByUsername, username).Scan(
		&user.ID,
		&user.Username,
		&user.HashedPassword,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("database error fetching user by username: %w", err)
	}
	return user, nil
}

const createUser = `
INSERT INTO users (id, username, hashed_password)
VALUES ($1, $2, $3)
RETURNING id, username, hashed_password, created_at;
`

// CreateUser inserts a new user record. Returns store.ErrDuplicateUsername
// when the username is already taken.
func (s *PostgresStore) CreateUser(ctx context.Context, arg store.CreateUserParams) (*models.User, error) {
	id := arg.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	user := &models.User{}
	err := s.db.QueryRow(ctx, createUser, id, arg.Username, arg.HashedPassword).Scan(
		&user.ID,
		&user.Username,
		&user.HashedPassword,
		&user.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			log.Printf("[PostgresStore] CreateUser: duplicate username %q", arg.Username)
			return nil, store.ErrDuplicateUsername
		}
		return nil, fmt.Errorf("database error creating user: %w", err)
	}

	log.Printf("[PostgresStore] CreateUser: inserted user %s (%q)", user.ID, user.Username)
	return user, nil
}

// --- Chat Session Methods ---

const createChatSession = `
INSERT INTO chat_sessions (id, user_id, title)
VALUES ($1, $2, $3)
RETURNING id, user_id, title, created_at, updated_at;
`

func (s *PostgresStore) CreateChatSession(ctx context.Context, arg store.CreateChatSessionParams) (*models.ChatSession, error) {
	id := arg.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	title := arg.Title
	if title == "" {
		title = "New Chat"
	}

	session := &models.ChatSession{}
	err := s.db.QueryRow(ctx, createChatSession, id, arg.UserID, title).Scan(
		&session.ID,
		&session.UserID,
		&session.Title,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			return nil, fmt.Errorf("database error creating chat session: code=%s message=%s: %w", pgErr.Code, pgErr.Message, err)
		}
		return nil, fmt.Errorf("database error creating chat session: %w", err)
	}
	return session, nil
}

const getChatSessionsByUser = `
SELECT id, user_id, title, created_at, updated_at
FROM chat_sessions
WHERE user_id = $1
ORDER BY updated_at DESC;
`

func (s *PostgresStore) GetChatSessionsByUser(ctx context.Context, userID uuid.UUID) ([]models.ChatSession, error) {
	rows, err := s.db.Query(ctx, getChatSessionsByUser, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying chat sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.ChatSession
	for rows.Next() {
		var sess models.ChatSession
		if err := rows.Scan(
			&sess.ID,
			&sess.UserID,
			&sess.Title,
			&sess.CreatedAt,
			&sess.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning chat session row: %w", err)
		}
		sessions = append(sessions, sess)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating chat session rows: %w", err)
	}
	return sessions, nil
}

const getChatSessionByID = `
SELECT id, user_id, title, created_at, updated_at
FROM chat_sessions
WHERE id = $1;
`

func (s *PostgresStore) GetChatSessionByID(ctx context.Context, id uuid.UUID) (*models.ChatSession, error) {
	session := &models.ChatSession{}
	err := s.db.QueryRow(ctx, getChatSessionByID, id).Scan(
		&session.ID,
		&session.UserID,
		&session.Title,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("error scanning chat session: %w", err)
	}
	return session, nil
}

const updateChatSessionTitle = `
UPDATE chat_sessions
SET title = $1, updated_at = NOW()
WHERE id = $2
RETURNING id, user_id, title, created_at, updated_at;
`

// UpdateChatSessionTitle renames a session and refreshes its updated_at.
func (s *PostgresStore) UpdateChatSessionTitle(ctx context.Context, id uuid.UUID, title string) (*models.ChatSession, error) {
	session := &models.ChatSession{}
	err := s.db.QueryRow(ctx, updateChatSessionTitle, title, id).Scan(
		&session.ID,
		&session.UserID,
		&session.Title,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("error scanning updated chat session: %w", err)
	}
	return session, nil
}

const deleteChatSession = `
DELETE FROM chat_sessions
WHERE id = $1;
`

// DeleteChatSession removes a session. Messages referencing it are removed by
// the ON DELETE CASCADE constraint (see schema.sql).
func (s *PostgresStore) DeleteChatSession(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, deleteChatSession, id)
	if err != nil {
		return fmt.Errorf("error executing delete chat session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// --- Message Methods ---

const insertMessage = `
INSERT INTO messages (id, chat_session_id, user_id, content, role)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, chat_session_id, user_id, content, role, timestamp;
`

const touchChatSession = `
UPDATE chat_sessions
SET updated_at = NOW()
WHERE id = $1;
`

// AddMessage persists a message. When the message carries a session reference
// the insert and the session's updated_at refresh run in a single transaction:
// both succeed or both fail.
func (s *PostgresStore) AddMessage(ctx context.Context, arg store.AddMessageParams) (*models.Message, error) {
	if !arg.Role.Valid() {
		return nil, fmt.Errorf("invalid message role: %q", arg.Role)
	}

	id := arg.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("error beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	msg := &models.Message{}
	err = tx.QueryRow(ctx, insertMessage,
		id,
		arg.ChatSessionID,
		arg.UserID,
		arg.Content,
		string(arg.Role),
	).Scan(
		&msg.ID,
		&msg.ChatSessionID,
		&msg.UserID,
		&msg.Content,
		&msg.Role,
		&msg.Timestamp,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			return nil, fmt.Errorf("database error inserting message: code=%s message=%s: %w", pgErr.Code, pgErr.Message, err)
		}
		return nil, fmt.Errorf("database error inserting message: %w", err)
	}

	if arg.ChatSessionID != nil {
		tag, err := tx.Exec(ctx, touchChatSession, *arg.ChatSessionID)
		if err != nil {
			return nil, fmt.Errorf("error refreshing session timestamp: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return nil, store.ErrNotFound
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("error committing message insert: %w", err)
	}
	return msg, nil
}

const getMessagesBySession = `
SELECT id, chat_session_id, user_id, content, role, timestamp
FROM messages
WHERE chat_session_id = $1
ORDER BY timestamp ASC;
`

func (s *PostgresStore) GetMessagesBySession(ctx context.Context, chatSessionID uuid.UUID) ([]models.Message, error) {
	rows, err := s.db.Query(ctx, getMessagesBySession, chatSessionID)
	if err != nil {
		return nil, fmt.Errorf("error querying messages: %w", err)
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var msg models.Message
		if err := rows.Scan(
			&msg.ID,
			&msg.ChatSessionID,
			&msg.UserID,
			&msg.Content,
			&msg.Role,
			&msg.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("error scanning message row: %w", err)
		}
		messages = append(messages, msg)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating message rows: %w", err)
	}
	return messages, nil
}

const deleteMessages = `
DELETE FROM messages
WHERE chat_session_id = $1;
`

// DeleteMessages bulk-deletes a session's messages. Deleting zero rows is not
// an error; an empty session is a valid target.
func (s *PostgresStore) DeleteMessages(ctx context.Context, chatSessionID uuid.UUID) error {
	_, err := s.db.Exec(ctx, deleteMessages, chatSessionID)
	if err != nil {
		return fmt.Errorf("error executing delete messages: %w", err)
	}
	return nil
}
