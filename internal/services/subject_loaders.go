package services

import (
	"context"
	"errors"
	"strconv"

	"github.com/huddle-social/backend/internal/models"
	"github.com/huddle-social/backend/internal/repositories"
	"gorm.io/gorm"
)

// RegisterContentSubjects binds a loader for every activity-producing content
// kind. Each loader maps its repository's not-found condition to
// ErrSubjectGone so the feed reader can skip dangling rows uniformly.
func RegisterContentSubjects(
	registry *SubjectRegistry,
	postRepo repositories.PostRepository,
	commentRepo repositories.CommentRepository,
	albumRepo repositories.AlbumRepository,
) {
	registry.Register(models.SubjectPost, func(ctx context.Context, id string) (*ResolvedSubject, error) {
		post, err := postRepo.GetPostByID(ctx, id)
		if err != nil {
			if errors.Is(err, repositories.ErrPostNotFound) {
				return nil, ErrSubjectGone
			}
			return nil, err
		}
		return &ResolvedSubject{Payload: post, Protected: post}, nil
	})

	// A comment's visibility is its parent post's visibility
	registry.Register(models.SubjectComment, func(ctx context.Context, id string) (*ResolvedSubject, error) {
		commentID, err := strconv.ParseUint(id, 10, 32)
		if err != nil {
			return nil, ErrSubjectGone
		}
		comment, err := commentRepo.GetCommentByID(uint(commentID))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrSubjectGone
			}
			return nil, err
		}
		post, err := postRepo.GetPostByID(ctx, comment.PostID)
		if err != nil {
			if errors.Is(err, repositories.ErrPostNotFound) {
				return nil, ErrSubjectGone
			}
			return nil, err
		}
		return &ResolvedSubject{Payload: comment, Protected: post}, nil
	})

	registry.Register(models.SubjectAlbum, func(ctx context.Context, id string) (*ResolvedSubject, error) {
		album, err := albumRepo.GetAlbumByID(ctx, id)
		if err != nil {
			if errors.Is(err, repositories.ErrAlbumNotFound) {
				return nil, ErrSubjectGone
			}
			return nil, err
		}
		return &ResolvedSubject{Payload: album, Protected: album}, nil
	})

	registry.Register(models.SubjectMedia, func(ctx context.Context, id string) (*ResolvedSubject, error) {
		media, err := albumRepo.GetMediaByID(ctx, id)
		if err != nil {
			if errors.Is(err, repositories.ErrMediaNotFound) {
				return nil, ErrSubjectGone
			}
			return nil, err
		}
		return &ResolvedSubject{Payload: media, Protected: media}, nil
	})
}
