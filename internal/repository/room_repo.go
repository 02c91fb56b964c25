package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pairchat/internal/models"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("already exists")
)

type RoomRepository interface {
	FindByParticipants(ctx context.Context, p1, p2 string) (*models.Room, error)
	FindByID(ctx context.Context, id string) (*models.Room, error)
	// Insert returns ErrDuplicate when a room for the same participant pair
	// already exists. Callers treat that as "someone else won the race".
	Insert(ctx context.Context, room *models.Room) error
	TouchLastMessage(ctx context.Context, roomID string, at time.Time) error
}

type PostgresRoomRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresRoomRepo(pool *pgxpool.Pool) *PostgresRoomRepo {
	return &PostgresRoomRepo{pool: pool}
}

func (r *PostgresRoomRepo) FindByParticipants(ctx context.Context, p1, p2 string) (*models.Room, error) {
	query := `SELECT id, participant1, participant2, last_message_at FROM rooms WHERE participant1 = $1 AND participant2 = $2`
	return r.scanRoom(r.pool.QueryRow(ctx, query, p1, p2))
}

func (r *PostgresRoomRepo) FindByID(ctx context.Context, id string) (*models.Room, error) {
	query := `SELECT id, participant1, participant2, last_message_at FROM rooms WHERE id = $1`
	return r.scanRoom(r.pool.QueryRow(ctx, query, id))
}

func (r *PostgresRoomRepo) Insert(ctx context.Context, room *models.Room) error {
	// The UNIQUE(participant1, participant2) constraint makes concurrent
	// first-time creation safe: the loser's insert affects zero rows.
	query := `INSERT INTO rooms (id, participant1, participant2) VALUES ($1, $2, $3) ON CONFLICT (participant1, participant2) DO NOTHING`
	tag, err := r.pool.Exec(ctx, query, room.ID, room.Participant1, room.Participant2)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrDuplicate
	}
	return nil
}

func (r *PostgresRoomRepo) TouchLastMessage(ctx context.Context, roomID string, at time.Time) error {
	_, err := r.pool.Exec(ctx, `UPDATE rooms SET last_message_at = $1 WHERE id = $2`, at, roomID)
	return err
}

func (r *PostgresRoomRepo) scanRoom(row pgx.Row) (*models.Room, error) {
	var room models.Room
	err := row.Scan(&room.ID, &room.Participant1, &room.Participant2, &room.LastMessageAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}
