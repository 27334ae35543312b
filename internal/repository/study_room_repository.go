package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/studyhub/api/internal/model"
)

var ErrStudyRoomNotFound = errors.New("study room not found")

type StudyRoomRepository struct {
	ext sqlx.ExtContext
}

func NewStudyRoomRepository(db *sqlx.DB) *StudyRoomRepository {
	return &StudyRoomRepository{ext: db}
}

// WithTx returns a repository bound to the given transaction. The caller
// owns commit and rollback.
func (r *StudyRoomRepository) WithTx(tx *sqlx.Tx) *StudyRoomRepository {
	return &StudyRoomRepository{ext: tx}
}

// Create inserts a new study room and fills in the generated room_id
// and created_at.
func (r *StudyRoomRepository) Create(ctx context.Context, room *model.StudyRoom) error {
	query := `
		INSERT INTO study_rooms (name, description, capacity, creator_id, date, start_time, end_time, location, mode)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING room_id, created_at`

	return r.ext.QueryRowxContext(ctx, query,
		room.Name,
		room.Description,
		room.Capacity,
		room.CreatorID,
		room.Date,
		room.StartTime,
		room.EndTime,
		room.Location,
		room.Mode,
	).Scan(&room.RoomID, &room.CreatedAt)
}

// GetByID retrieves a study room by its ID
func (r *StudyRoomRepository) GetByID(ctx context.Context, id int64) (*model.StudyRoom, error) {
	var room model.StudyRoom
	query := `SELECT * FROM study_rooms WHERE room_id = $1`

	if err := sqlx.GetContext(ctx, r.ext, &room, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStudyRoomNotFound
		}
		return nil, fmt.Errorf("failed to get study room by id: %w", err)
	}

	return &room, nil
}

// List retrieves all study rooms in creation order
func (r *StudyRoomRepository) List(ctx context.Context) ([]*model.StudyRoom, error) {
	query := `SELECT * FROM study_rooms ORDER BY room_id`

	var rooms []*model.StudyRoom
	if err := sqlx.SelectContext(ctx, r.ext, &rooms, query); err != nil {
		return nil, fmt.Errorf("failed to list study rooms: %w", err)
	}

	return rooms, nil
}

// Update persists every mutable field of the room
func (r *StudyRoomRepository) Update(ctx context.Context, room *model.StudyRoom) error {
	query := `
		UPDATE study_rooms
		SET name = $2, description = $3, capacity = $4, date = $5,
		    start_time = $6, end_time = $7, location = $8, mode = $9
		WHERE room_id = $1`

	result, err := r.ext.ExecContext(ctx, query,
		room.RoomID,
		room.Name,
		room.Description,
		room.Capacity,
		room.Date,
		room.StartTime,
		room.EndTime,
		room.Location,
		room.Mode,
	)
	if err != nil {
		return fmt.Errorf("failed to update study room: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrStudyRoomNotFound
	}

	return nil
}

// Delete removes a study room
func (r *StudyRoomRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM study_rooms WHERE room_id = $1`

	result, err := r.ext.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete study room: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrStudyRoomNotFound
	}

	return nil
}
