package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pairchat/internal/models"
)

type MessageRepository interface {
	Insert(ctx context.Context, msg *models.Message) error
	// Recent and Page return messages newest first, ordered by
	// (created_at, id) descending. Callers reverse for presentation.
	Recent(ctx context.Context, roomID string, limit int) ([]models.Message, error)
	Page(ctx context.Context, roomID string, limit, offset int) ([]models.Message, error)
}

type PostgresMessageRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresMessageRepo(pool *pgxpool.Pool) *PostgresMessageRepo {
	return &PostgresMessageRepo{pool: pool}
}

func (r *PostgresMessageRepo) Insert(ctx context.Context, msg *models.Message) error {
	query := `INSERT INTO messages (id, room_id, sender_id, body, created_at) VALUES ($1, $2, $3, $4, $5)`
	_, err := r.pool.Exec(ctx, query, msg.ID, msg.RoomID, msg.SenderID, msg.Body, msg.CreatedAt)
	return err
}

func (r *PostgresMessageRepo) Recent(ctx context.Context, roomID string, limit int) ([]models.Message, error) {
	query := `SELECT id, room_id, sender_id, body, created_at FROM messages WHERE room_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2`
	rows, err := r.pool.Query(ctx, query, roomID, limit)
	if err != nil {
		return nil, err
	}
	return scanMessages(rows)
}

func (r *PostgresMessageRepo) Page(ctx context.Context, roomID string, limit, offset int) ([]models.Message, error) {
	query := `SELECT id, room_id, sender_id, body, created_at FROM messages WHERE room_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, query, roomID, limit, offset)
	if err != nil {
		return nil, err
	}
	return scanMessages(rows)
}

func scanMessages(rows pgx.Rows) ([]models.Message, error) {
	defer rows.Close()

	messages := make([]models.Message, 0)
	for rows.Next() {
		var msg models.Message
		if err := rows.Scan(&msg.ID, &msg.RoomID, &msg.SenderID, &msg.Body, &msg.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}
