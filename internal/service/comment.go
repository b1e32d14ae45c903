package service

import (
	"errors"
	"strings"

	"vidtube/internal/data"
	"vidtube/internal/model"
	"vidtube/internal/repository"
	"vidtube/pkg/apperrors"
	"vidtube/pkg/logger"

	"gorm.io/gorm"
)

type CommentService interface {
	Add(callerID, videoID uint64, text string) (*model.Comment, error)
	List(videoID uint64) ([]model.Comment, error)
	Update(callerID, commentID uint64, text string) (*model.Comment, error)
	Delete(callerID, commentID uint64) error
}

type commentService struct {
	commentRepo repository.CommentRepository
	videoRepo   repository.VideoRepository
	uow         data.UnitOfWork
}

func NewCommentService(commentRepo repository.CommentRepository, videoRepo repository.VideoRepository, uow data.UnitOfWork) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		videoRepo:   videoRepo,
		uow:         uow,
	}
}

// Add creates a comment and bumps the video's comment counter in one
// transaction, then reloads the comment so the author comes back joined.
func (s *commentService) Add(callerID, videoID uint64, text string) (*model.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.ErrMissingText
	}
	if _, err := s.videoRepo.FindByID(videoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrVideoNotFound
		}
		return nil, err
	}

	newComment := &model.Comment{
		VideoID: videoID,
		UserID:  callerID,
		Text:    text,
	}
	err := s.uow.Execute(func(repos *data.TransactionalRepositories) error {
		if err := repos.CommentRepo.Create(newComment); err != nil {
			return err
		}
		return repos.VideoRepo.IncrementCommentCount(videoID)
	})
	if err != nil {
		return nil, err
	}

	s.dropVideoCache(videoID)
	return s.commentRepo.FindByID(newComment.ID)
}

func (s *commentService) List(videoID uint64) ([]model.Comment, error) {
	return s.commentRepo.FindByVideoID(videoID)
}

// Update replaces the text, author-only. Empty text keeps the prior value
// instead of erroring.
func (s *commentService) Update(callerID, commentID uint64, text string) (*model.Comment, error) {
	comment, err := s.commentRepo.FindByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCommentNotFound
		}
		return nil, err
	}
	if comment.UserID != callerID {
		return nil, apperrors.ErrNotCommentAuthor
	}

	if strings.TrimSpace(text) != "" {
		if err := s.commentRepo.UpdateText(commentID, text); err != nil {
			return nil, err
		}
	}
	return s.commentRepo.FindByID(commentID)
}

// Delete removes the comment and decrements the video's comment counter.
// The decrement is best-effort: if the video row is gone the comment still
// goes, the dangling count is accepted.
func (s *commentService) Delete(callerID, commentID uint64) error {
	comment, err := s.commentRepo.FindByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrCommentNotFound
		}
		return err
	}
	if comment.UserID != callerID {
		return apperrors.ErrNotCommentAuthor
	}

	err = s.uow.Execute(func(repos *data.TransactionalRepositories) error {
		if err := repos.CommentRepo.Delete(commentID); err != nil {
			return err
		}
		// Touches zero rows when the video no longer exists, which is fine.
		return repos.VideoRepo.DecrementCommentCount(comment.VideoID)
	})
	if err != nil {
		return err
	}

	s.dropVideoCache(comment.VideoID)
	return nil
}

func (s *commentService) dropVideoCache(videoID uint64) {
	if err := s.videoRepo.DeleteVideoCache(videoID); err != nil {
		logger.Log.WithError(err).WithField("video_id", videoID).Warn("failed to drop video cache")
	}
}
