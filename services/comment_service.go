package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Dosada05/poker-league/models"
	"github.com/Dosada05/poker-league/repositories"
)

const maxCommentLen = 2000

type CommentService interface {
	ListComments(ctx context.Context, postID int) ([]models.Comment, error)
	CreateComment(ctx context.Context, actor Actor, postID int, input CommentInput) (*models.Comment, error)
	// DeleteComment is allowed for the comment's author and for admins.
	DeleteComment(ctx context.Context, actor Actor, postID, commentID int) error
}

type CommentInput struct {
	Content string `json:"content"`
}

type commentService struct {
	commentRepo repositories.CommentRepository
	postRepo    repositories.PostRepository
}

func NewCommentService(commentRepo repositories.CommentRepository, postRepo repositories.PostRepository) CommentService {
	return &commentService{commentRepo: commentRepo, postRepo: postRepo}
}

func (s *commentService) ListComments(ctx context.Context, postID int) ([]models.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to get post %d: %w", postID, err)
	}
	comments, err := s.commentRepo.ListByPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments for post %d: %w", postID, err)
	}
	if comments == nil {
		return []models.Comment{}, nil
	}
	return comments, nil
}

func (s *commentService) CreateComment(ctx context.Context, actor Actor, postID int, input CommentInput) (*models.Comment, error) {
	content := strings.TrimSpace(input.Content)
	switch {
	case content == "":
		return nil, newValidationError(map[string]string{"content": "must be provided"})
	case utf8.RuneCountInString(content) > maxCommentLen:
		return nil, newValidationError(map[string]string{"content": "must not be longer than 2000 characters"})
	}

	comment := &models.Comment{PostID: postID, AuthorID: actor.AccountID, Content: content}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		switch {
		case errors.Is(err, repositories.ErrPostNotFound):
			return nil, ErrPostNotFound
		case errors.Is(err, repositories.ErrAccountNotFound):
			return nil, ErrAccountNotFound
		default:
			return nil, fmt.Errorf("failed to create comment: %w", err)
		}
	}

	created, err := s.commentRepo.GetByID(ctx, comment.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload comment %d: %w", comment.ID, err)
	}
	return created, nil
}

func (s *commentService) DeleteComment(ctx context.Context, actor Actor, postID, commentID int) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, repositories.ErrCommentNotFound) {
			return ErrCommentNotFound
		}
		return fmt.Errorf("failed to get comment %d: %w", commentID, err)
	}
	if comment.PostID != postID {
		return ErrCommentNotFound
	}
	if comment.AuthorID != actor.AccountID && !actor.IsAdmin {
		return ErrForbiddenOperation
	}
	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		if errors.Is(err, repositories.ErrCommentNotFound) {
			return ErrCommentNotFound
		}
		return fmt.Errorf("failed to delete comment %d: %w", commentID, err)
	}
	return nil
}
