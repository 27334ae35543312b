package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/studyhub/api/internal/dto/request"
	"github.com/studyhub/api/internal/model"
	"github.com/studyhub/api/internal/repository"
	"go.uber.org/zap"
)

// ErrStudyRoomNotFound is re-exported so handlers do not reach into the
// repository package for the 404 case.
var ErrStudyRoomNotFound = repository.ErrStudyRoomNotFound

// StudyRoomRead is the outcome of a read path. Advisory carries faults
// that must degrade the payload instead of failing the request: reads
// answer 200 no matter what, per the front-end contract.
type StudyRoomRead struct {
	Detail   *model.StudyRoomDetail
	Advisory error
}

// Degraded reports whether the read must be served as a placeholder
func (r *StudyRoomRead) Degraded() bool {
	return r.Advisory != nil
}

type StudyRoomService struct {
	db     *sqlx.DB
	rooms  *repository.StudyRoomRepository
	users  *repository.UserRepository
	logger *zap.Logger
}

func NewStudyRoomService(
	db *sqlx.DB,
	rooms *repository.StudyRoomRepository,
	users *repository.UserRepository,
	logger *zap.Logger,
) *StudyRoomService {
	return &StudyRoomService{
		db:     db,
		rooms:  rooms,
		users:  users,
		logger: logger,
	}
}

// Create persists a validated study room inside one transaction and
// returns it with the generated room_id filled in.
func (s *StudyRoomService) Create(ctx context.Context, data *request.CreateStudyRoomData) (*model.StudyRoom, error) {
	// Creator existence is deliberately not enforced; uncomment to require
	// rooms to be owned by a registered user.
	// if ok, err := s.users.ExistsByID(ctx, data.CreatorID); err != nil || !ok {
	// 	return nil, ErrCreatorNotFound
	// }

	room := &model.StudyRoom{
		Name:      data.Name,
		Capacity:  data.Capacity,
		CreatorID: data.CreatorID,
		Date:      sql.NullTime{Time: data.Date, Valid: true},
		StartTime: sql.NullTime{Time: data.StartTime, Valid: true},
		EndTime:   sql.NullTime{Time: data.EndTime, Valid: true},
		Location:  sql.NullString{String: data.Location, Valid: true},
		Mode:      sql.NullString{String: data.Mode, Valid: true},
	}
	if data.Description != "" {
		room.Description = sql.NullString{String: data.Description, Valid: true}
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := s.rooms.WithTx(tx).Create(ctx, room); err != nil {
		_ = tx.Rollback()
		s.logger.Error("Failed to create study room", zap.Error(err))
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Info("Study room created",
		zap.Int64("room_id", room.RoomID),
		zap.String("name", room.Name),
		zap.Int64("creator_id", room.CreatorID),
	)

	return room, nil
}

// GetRoom retrieves the bare record, ErrStudyRoomNotFound when absent
func (s *StudyRoomService) GetRoom(ctx context.Context, id int64) (*model.StudyRoom, error) {
	return s.rooms.GetByID(ctx, id)
}

// Get retrieves a room with its hydrated creator. A missing record is the
// only hard error; any other fault comes back as an advisory degradation.
func (s *StudyRoomService) Get(ctx context.Context, id int64) (*StudyRoomRead, error) {
	room, err := s.rooms.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrStudyRoomNotFound) {
			return nil, ErrStudyRoomNotFound
		}
		s.logger.Error("Failed to load study room, serving placeholder",
			zap.Int64("room_id", id),
			zap.Error(err),
		)
		return &StudyRoomRead{Advisory: err}, nil
	}

	return s.hydrate(ctx, room), nil
}

// List retrieves every room. Per-room faults degrade that room only; a
// whole-list fault yields an empty result. Never an error.
func (s *StudyRoomService) List(ctx context.Context) []*StudyRoomRead {
	rooms, err := s.rooms.List(ctx)
	if err != nil {
		s.logger.Error("Failed to list study rooms, serving empty list", zap.Error(err))
		return []*StudyRoomRead{}
	}

	out := make([]*StudyRoomRead, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, s.hydrate(ctx, room))
	}
	return out
}

// Update writes a staged draft inside one transaction and returns the
// stored record with its creator hydrated for the canonical response.
func (s *StudyRoomService) Update(ctx context.Context, draft *model.StudyRoom) (*StudyRoomRead, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := s.rooms.WithTx(tx).Update(ctx, draft); err != nil {
		_ = tx.Rollback()
		if errors.Is(err, repository.ErrStudyRoomNotFound) {
			return nil, ErrStudyRoomNotFound
		}
		s.logger.Error("Failed to update study room",
			zap.Int64("room_id", draft.RoomID),
			zap.Error(err),
		)
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Info("Study room updated", zap.Int64("room_id", draft.RoomID))

	return s.hydrate(ctx, draft), nil
}

// Delete hard-deletes a room inside one transaction
func (s *StudyRoomService) Delete(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := s.rooms.WithTx(tx).Delete(ctx, id); err != nil {
		_ = tx.Rollback()
		if errors.Is(err, repository.ErrStudyRoomNotFound) {
			return ErrStudyRoomNotFound
		}
		s.logger.Error("Failed to delete study room",
			zap.Int64("room_id", id),
			zap.Error(err),
		)
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Info("Study room deleted", zap.Int64("room_id", id))

	return nil
}

// hydrate attaches the creator row. A missing creator is a legitimate
// state (anonymous host); a failed lookup degrades the read.
func (s *StudyRoomService) hydrate(ctx context.Context, room *model.StudyRoom) *StudyRoomRead {
	detail := &model.StudyRoomDetail{StudyRoom: *room}

	creator, err := s.users.GetByID(ctx, room.CreatorID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return &StudyRoomRead{Detail: detail}
		}
		s.logger.Warn("Failed to load room creator, degrading response",
			zap.Int64("room_id", room.RoomID),
			zap.Int64("creator_id", room.CreatorID),
			zap.Error(err),
		)
		return &StudyRoomRead{Detail: detail, Advisory: err}
	}

	detail.Creator = creator
	return &StudyRoomRead{Detail: detail}
}
