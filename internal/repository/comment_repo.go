package repository

import (
	"vidtube/internal/model"

	"gorm.io/gorm"
)

type CommentRepository interface {
	Create(comment *model.Comment) error
	FindByID(commentID uint64) (*model.Comment, error)
	FindByVideoID(videoID uint64) ([]model.Comment, error)
	UpdateText(commentID uint64, text string) error
	Delete(commentID uint64) error
	DeleteByVideos(videoIDs []uint64) error

	WithTx(tx *gorm.DB) CommentRepository
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) WithTx(tx *gorm.DB) CommentRepository {
	return &commentRepository{db: tx}
}

func (r *commentRepository) Create(comment *model.Comment) error {
	return r.db.Create(comment).Error
}

// FindByID loads the comment with its author preloaded.
func (r *commentRepository) FindByID(commentID uint64) (*model.Comment, error) {
	var result model.Comment
	err := r.db.Preload("User").First(&result, commentID).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *commentRepository) FindByVideoID(videoID uint64) ([]model.Comment, error) {
	var comments []model.Comment
	err := r.db.
		Preload("User").
		Where("video_id = ?", videoID).
		Order("created_at desc").
		Find(&comments).Error
	return comments, err
}

func (r *commentRepository) UpdateText(commentID uint64, text string) error {
	return r.db.Model(&model.Comment{}).Where("id = ?", commentID).Update("text", text).Error
}

func (r *commentRepository) Delete(commentID uint64) error {
	return r.db.Delete(&model.Comment{}, commentID).Error
}

func (r *commentRepository) DeleteByVideos(videoIDs []uint64) error {
	if len(videoIDs) == 0 {
		return nil
	}
	return r.db.Where("video_id IN (?)", videoIDs).Delete(&model.Comment{}).Error
}
