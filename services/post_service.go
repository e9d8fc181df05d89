package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/Dosada05/poker-league/models"
	"github.com/Dosada05/poker-league/repositories"
	"github.com/Dosada05/poker-league/storage"
	"github.com/samborkent/uuidv7"
	"golang.org/x/sync/errgroup"
)

const (
	maxPostTitleLen   = 200
	maxPostContentLen = 20000
	postImagePrefix   = "posts/"
)

type PostService interface {
	ListPosts(ctx context.Context) ([]models.Post, error)
	// GetPost returns the post together with its comments.
	GetPost(ctx context.Context, id int) (*models.Post, error)
	CreatePost(ctx context.Context, actor Actor, input PostInput, image *ImageUpload) (*models.Post, error)
	UpdatePost(ctx context.Context, actor Actor, id int, input UpdatePostInput, image *ImageUpload) (*models.Post, error)
	DeletePost(ctx context.Context, actor Actor, id int) error
	ToggleLike(ctx context.Context, actor Actor, id int) (*LikeResult, error)
}

type PostInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type UpdatePostInput struct {
	Title       *string `json:"title"`
	Content     *string `json:"content"`
	RemoveImage bool    `json:"remove_image"`
}

type ImageUpload struct {
	Reader      io.Reader
	ContentType string
}

type LikeResult struct {
	PostID int  `json:"post_id"`
	Liked  bool `json:"liked"`
	Likes  int  `json:"likes"`
}

type postService struct {
	postRepo    repositories.PostRepository
	commentRepo repositories.CommentRepository
	uploader    storage.FileUploader
	logger      *slog.Logger
}

// NewPostService wires the blog. uploader may be nil, in which case image uploads are rejected.
func NewPostService(
	postRepo repositories.PostRepository,
	commentRepo repositories.CommentRepository,
	uploader storage.FileUploader,
	logger *slog.Logger,
) PostService {
	if logger == nil {
		logger = slog.Default()
	}
	return &postService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		uploader:    uploader,
		logger:      logger,
	}
}

func validatePostFields(title, content string) error {
	fields := make(map[string]string)
	switch {
	case title == "":
		fields["title"] = "must be provided"
	case utf8.RuneCountInString(title) > maxPostTitleLen:
		fields["title"] = "must not be longer than 200 characters"
	}
	switch {
	case content == "":
		fields["content"] = "must be provided"
	case utf8.RuneCountInString(content) > maxPostContentLen:
		fields["content"] = "must not be longer than 20000 characters"
	}
	if len(fields) > 0 {
		return newValidationError(fields)
	}
	return nil
}

func (s *postService) populateImageURL(post *models.Post) {
	if post == nil || post.ImageKey == nil || *post.ImageKey == "" || s.uploader == nil {
		return
	}
	if url := s.uploader.GetPublicURL(*post.ImageKey); url != "" {
		post.ImageURL = &url
	}
}

func (s *postService) uploadImage(ctx context.Context, image *ImageUpload) (*string, error) {
	if s.uploader == nil {
		return nil, ErrImageUploadsDisabled
	}
	ext, err := GetExtensionFromContentType(image.ContentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedImageType, image.ContentType)
	}
	key := postImagePrefix + uuidv7.New().String() + ext
	result, err := s.uploader.Upload(ctx, key, image.ContentType, image.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to upload post image: %w", err)
	}
	return &result.Key, nil
}

func (s *postService) deleteImage(ctx context.Context, key *string) {
	if key == nil || *key == "" || s.uploader == nil {
		return
	}
	if err := s.uploader.Delete(ctx, *key); err != nil {
		s.logger.WarnContext(ctx, "failed to delete post image", slog.String("key", *key), slog.Any("error", err))
	}
}

func (s *postService) ListPosts(ctx context.Context) ([]models.Post, error) {
	posts, err := s.postRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	if posts == nil {
		return []models.Post{}, nil
	}
	for i := range posts {
		s.populateImageURL(&posts[i])
	}
	return posts, nil
}

func (s *postService) GetPost(ctx context.Context, id int) (*models.Post, error) {
	var post *models.Post
	var comments []models.Comment

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.postRepo.GetByID(gCtx, id)
		if err != nil {
			if errors.Is(err, repositories.ErrPostNotFound) {
				return ErrPostNotFound
			}
			return fmt.Errorf("failed to get post %d: %w", id, err)
		}
		post = p
		return nil
	})
	g.Go(func() error {
		c, err := s.commentRepo.ListByPost(gCtx, id)
		if err != nil {
			return fmt.Errorf("failed to list comments for post %d: %w", id, err)
		}
		comments = c
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if comments == nil {
		comments = []models.Comment{}
	}
	post.Comments = comments
	s.populateImageURL(post)
	return post, nil
}

func (s *postService) CreatePost(ctx context.Context, actor Actor, input PostInput, image *ImageUpload) (*models.Post, error) {
	if !actor.IsAdmin {
		return nil, ErrForbiddenOperation
	}
	title := strings.TrimSpace(input.Title)
	content := strings.TrimSpace(input.Content)
	if err := validatePostFields(title, content); err != nil {
		return nil, err
	}

	post := &models.Post{AuthorID: actor.AccountID, Title: title, Content: content}
	if image != nil {
		key, err := s.uploadImage(ctx, image)
		if err != nil {
			return nil, err
		}
		post.ImageKey = key
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		s.deleteImage(ctx, post.ImageKey)
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	created, err := s.postRepo.GetByID(ctx, post.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload post %d: %w", post.ID, err)
	}
	s.populateImageURL(created)
	return created, nil
}

func (s *postService) UpdatePost(ctx context.Context, actor Actor, id int, input UpdatePostInput, image *ImageUpload) (*models.Post, error) {
	if !actor.IsAdmin {
		return nil, ErrForbiddenOperation
	}
	if input.Title == nil && input.Content == nil && !input.RemoveImage && image == nil {
		return nil, newValidationError(map[string]string{"body": "no fields provided for update"})
	}

	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to get post %d: %w", id, err)
	}

	if input.Title != nil {
		post.Title = strings.TrimSpace(*input.Title)
	}
	if input.Content != nil {
		post.Content = strings.TrimSpace(*input.Content)
	}
	if err := validatePostFields(post.Title, post.Content); err != nil {
		return nil, err
	}

	oldKey := post.ImageKey
	switch {
	case image != nil:
		key, err := s.uploadImage(ctx, image)
		if err != nil {
			return nil, err
		}
		post.ImageKey = key
	case input.RemoveImage:
		post.ImageKey = nil
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		if post.ImageKey != oldKey {
			s.deleteImage(ctx, post.ImageKey)
		}
		if errors.Is(err, repositories.ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to update post %d: %w", id, err)
	}
	if post.ImageKey != oldKey {
		s.deleteImage(ctx, oldKey)
	}

	s.populateImageURL(post)
	return post, nil
}

func (s *postService) DeletePost(ctx context.Context, actor Actor, id int) error {
	if !actor.IsAdmin {
		return ErrForbiddenOperation
	}
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return ErrPostNotFound
		}
		return fmt.Errorf("failed to get post %d: %w", id, err)
	}
	if err := s.postRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return ErrPostNotFound
		}
		return fmt.Errorf("failed to delete post %d: %w", id, err)
	}
	s.deleteImage(ctx, post.ImageKey)
	return nil
}

func (s *postService) ToggleLike(ctx context.Context, actor Actor, id int) (*LikeResult, error) {
	liked, likes, err := s.postRepo.ToggleLike(ctx, id, actor.AccountID)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrPostNotFound):
			return nil, ErrPostNotFound
		case errors.Is(err, repositories.ErrAccountNotFound):
			return nil, ErrAccountNotFound
		default:
			return nil, fmt.Errorf("failed to toggle like on post %d: %w", id, err)
		}
	}
	return &LikeResult{PostID: id, Liked: liked, Likes: likes}, nil
}
