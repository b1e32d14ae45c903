package repository

import (
	"vidtube/internal/model"

	"gorm.io/gorm"
)

type ViewEventRepository interface {
	Create(event *model.ViewEvent) error
	CountByVideo(videoID uint64) (int64, error)
}

type viewEventRepository struct {
	db *gorm.DB
}

func NewViewEventRepository(db *gorm.DB) ViewEventRepository {
	return &viewEventRepository{db: db}
}

func (r *viewEventRepository) Create(event *model.ViewEvent) error {
	return r.db.Create(event).Error
}

func (r *viewEventRepository) CountByVideo(videoID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&model.ViewEvent{}).Where("video_id = ?", videoID).Count(&count).Error
	return count, err
}
