package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/studyhub/api/internal/model"
)

// PostRepository reads posts attached to a study room. Post creation and
// deletion belong to the posts service; only seed tooling writes here.
type PostRepository struct {
	ext sqlx.ExtContext
}

func NewPostRepository(db *sqlx.DB) *PostRepository {
	return &PostRepository{ext: db}
}

// Create inserts a post. Used by seed tooling only.
func (r *PostRepository) Create(ctx context.Context, post *model.Post) error {
	query := `
		INSERT INTO posts (room_id, author_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	return r.ext.QueryRowxContext(ctx, query,
		post.RoomID,
		post.AuthorID,
		post.Content,
	).Scan(&post.ID, &post.CreatedAt)
}

// ListByRoomID retrieves the posts of a room, oldest first
func (r *PostRepository) ListByRoomID(ctx context.Context, roomID int64) ([]*model.Post, error) {
	query := `SELECT * FROM posts WHERE room_id = $1 ORDER BY id`

	var posts []*model.Post
	if err := sqlx.SelectContext(ctx, r.ext, &posts, query, roomID); err != nil {
		return nil, fmt.Errorf("failed to list posts for room: %w", err)
	}

	return posts, nil
}

// CountByRoomID counts the posts of a room
func (r *PostRepository) CountByRoomID(ctx context.Context, roomID int64) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM posts WHERE room_id = $1`

	if err := sqlx.GetContext(ctx, r.ext, &count, query, roomID); err != nil {
		return 0, fmt.Errorf("failed to count posts for room: %w", err)
	}

	return count, nil
}
