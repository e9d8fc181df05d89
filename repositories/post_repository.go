package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/poker-league/models"
	"github.com/lib/pq"
)

var ErrPostNotFound = errors.New("post not found")

type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id int) (*models.Post, error)
	List(ctx context.Context) ([]models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id int) error
	// ToggleLike adds or removes the account's like and reports the resulting state.
	ToggleLike(ctx context.Context, postID, accountID int) (liked bool, likes int, err error)
}

type postgresPostRepository struct {
	db *sql.DB
}

func NewPostgresPostRepository(db *sql.DB) PostRepository {
	return &postgresPostRepository{db: db}
}

const postSelect = `
		SELECT p.id, p.author_id, a.username, a.display_name, p.title, p.content, p.image_key,
		       p.created_at, p.updated_at,
		       COALESCE(array_agg(l.account_id ORDER BY l.account_id) FILTER (WHERE l.account_id IS NOT NULL), '{}')
		FROM posts p
		JOIN accounts a ON a.id = p.author_id
		LEFT JOIN post_likes l ON l.post_id = p.id`

const postGroupBy = ` GROUP BY p.id, a.username, a.display_name`

func scanPost(rowScanner interface{ Scan(...interface{}) error }) (*models.Post, error) {
	var p models.Post
	var author models.AccountSummary
	var imageKey sql.NullString
	var likedBy pq.Int64Array

	err := rowScanner.Scan(
		&p.ID, &p.AuthorID, &author.Username, &author.DisplayName, &p.Title, &p.Content, &imageKey,
		&p.CreatedAt, &p.UpdatedAt, &likedBy,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	author.ID = p.AuthorID
	p.Author = &author
	if imageKey.Valid {
		p.ImageKey = &imageKey.String
	}
	p.LikedBy = make([]int, len(likedBy))
	for i, id := range likedBy {
		p.LikedBy[i] = int(id)
	}
	p.Likes = len(p.LikedBy)
	return &p, nil
}

func (r *postgresPostRepository) Create(ctx context.Context, post *models.Post) error {
	query := `
		INSERT INTO posts (author_id, title, content, image_key)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query, post.AuthorID, post.Title, post.Content, post.ImageKey).
		Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		if pqErr, ok := asPQError(err); ok && pqErr.Code == pqForeignKeyViolation {
			return ErrAccountNotFound
		}
		return fmt.Errorf("failed to insert post: %w", err)
	}
	if post.LikedBy == nil {
		post.LikedBy = []int{}
	}
	return nil
}

func (r *postgresPostRepository) GetByID(ctx context.Context, id int) (*models.Post, error) {
	query := postSelect + ` WHERE p.id = $1` + postGroupBy
	return scanPost(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresPostRepository) List(ctx context.Context) ([]models.Post, error) {
	query := postSelect + postGroupBy + ` ORDER BY p.created_at DESC, p.id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := make([]models.Post, 0)
	for rows.Next() {
		p, scanErr := scanPost(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		posts = append(posts, *p)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postgresPostRepository) Update(ctx context.Context, post *models.Post) error {
	query := `
		UPDATE posts SET title = $1, content = $2, image_key = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query, post.Title, post.Content, post.ImageKey, post.ID).Scan(&post.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrPostNotFound
		}
		return fmt.Errorf("failed to update post %d: %w", post.ID, err)
	}
	return nil
}

func (r *postgresPostRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPostNotFound)
}

func (r *postgresPostRepository) ToggleLike(ctx context.Context, postID, accountID int) (bool, int, error) {
	query := `
		WITH removed AS (
			DELETE FROM post_likes WHERE post_id = $1 AND account_id = $2
			RETURNING post_id
		), added AS (
			INSERT INTO post_likes (post_id, account_id)
			SELECT $1, $2 WHERE NOT EXISTS (SELECT 1 FROM removed)
			ON CONFLICT DO NOTHING
			RETURNING post_id
		)
		SELECT EXISTS (SELECT 1 FROM added)`

	var liked bool
	if err := r.db.QueryRowContext(ctx, query, postID, accountID).Scan(&liked); err != nil {
		if pqErr, ok := asPQError(err); ok && pqErr.Code == pqForeignKeyViolation {
			if pqErr.Constraint == "post_likes_post_id_fkey" {
				return false, 0, ErrPostNotFound
			}
			return false, 0, ErrAccountNotFound
		}
		return false, 0, fmt.Errorf("failed to toggle like on post %d: %w", postID, err)
	}

	var likes int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM post_likes WHERE post_id = $1`, postID).Scan(&likes); err != nil {
		return false, 0, fmt.Errorf("failed to count likes on post %d: %w", postID, err)
	}
	return liked, likes, nil
}
