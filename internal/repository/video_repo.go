package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"vidtube/internal/model"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

type VideoRepository interface {
	Create(video *model.Video) error
	FindByID(videoID uint64) (*model.Video, error)
	FindAll() ([]model.Video, error)
	FindByUploader(uploaderID uint64) ([]model.Video, error)
	SearchByTitle(query string) ([]model.Video, error)
	FindByTags(tags []string) ([]model.Video, error)
	FindIDsByChannel(channelID uint64) ([]uint64, error)
	UpdateFields(videoID uint64, fields map[string]interface{}) error
	Delete(videoID uint64) error
	DeleteByChannel(channelID uint64) error

	IncrementViews(videoID uint64) (uint64, error)
	IncrementCommentCount(videoID uint64) error
	DecrementCommentCount(videoID uint64) error
	SyncReactionCounts(videoID uint64) error

	GetVideoCache(videoID uint64) (*model.Video, error)
	SetVideoCache(video *model.Video) error
	DeleteVideoCache(videoID uint64) error

	WithTx(tx *gorm.DB) VideoRepository
}

type videoRepository struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewVideoRepository(db *gorm.DB, rdb *redis.Client) VideoRepository {
	return &videoRepository{
		db:  db,
		rdb: rdb,
	}
}

// WithTx returns a copy bound to the given transaction. The transactional
// copy does not touch redis.
func (r *videoRepository) WithTx(tx *gorm.DB) VideoRepository {
	return &videoRepository{db: tx}
}

func (r *videoRepository) Create(video *model.Video) error {
	return r.db.Create(video).Error
}

func (r *videoRepository) FindByID(videoID uint64) (*model.Video, error) {
	var result model.Video
	err := r.db.Preload("Channel").First(&result, videoID).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// FindAll returns every video with its channel summary. Deliberately
// unsorted; only per-uploader listings order by recency.
func (r *videoRepository) FindAll() ([]model.Video, error) {
	var videos []model.Video
	err := r.db.Preload("Channel").Find(&videos).Error
	return videos, err
}

func (r *videoRepository) FindByUploader(uploaderID uint64) ([]model.Video, error) {
	var videos []model.Video
	err := r.db.
		Preload("Channel").
		Where("uploader_id = ?", uploaderID).
		Order("created_at desc").
		Find(&videos).Error
	return videos, err
}

// SearchByTitle is a case-insensitive substring match on the title. MySQL's
// default utf8mb4 collation is case-insensitive, so plain LIKE is enough.
func (r *videoRepository) SearchByTitle(query string) ([]model.Video, error) {
	var videos []model.Video
	err := r.db.
		Preload("Channel").
		Where("title LIKE ?", "%"+query+"%").
		Find(&videos).Error
	return videos, err
}

// FindByTags matches exact tag membership (not substrings) against the JSON
// tags column. Multiple tags are an OR.
func (r *videoRepository) FindByTags(tags []string) ([]model.Video, error) {
	if len(tags) == 0 {
		return []model.Video{}, nil
	}
	tx := r.db.Preload("Channel")
	cond := r.db.Where("JSON_CONTAINS(tags, JSON_QUOTE(?))", tags[0])
	for _, tag := range tags[1:] {
		cond = cond.Or("JSON_CONTAINS(tags, JSON_QUOTE(?))", tag)
	}
	var videos []model.Video
	err := tx.Where(cond).Find(&videos).Error
	return videos, err
}

func (r *videoRepository) FindIDsByChannel(channelID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.Model(&model.Video{}).
		Where("channel_id = ?", channelID).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *videoRepository) UpdateFields(videoID uint64, fields map[string]interface{}) error {
	return r.db.Model(&model.Video{}).Where("id = ?", videoID).Updates(fields).Error
}

func (r *videoRepository) Delete(videoID uint64) error {
	return r.db.Delete(&model.Video{}, videoID).Error
}

func (r *videoRepository) DeleteByChannel(channelID uint64) error {
	return r.db.Where("channel_id = ?", channelID).Delete(&model.Video{}).Error
}

// IncrementViews bumps the counter atomically and returns the new total.
// An update touching zero rows means the video does not exist.
func (r *videoRepository) IncrementViews(videoID uint64) (uint64, error) {
	result := r.db.Model(&model.Video{}).
		Where("id = ?", videoID).
		UpdateColumn("views", gorm.Expr("views + ?", 1))
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, gorm.ErrRecordNotFound
	}
	var views uint64
	err := r.db.Model(&model.Video{}).
		Where("id = ?", videoID).
		Pluck("views", &views).Error
	return views, err
}

func (r *videoRepository) IncrementCommentCount(videoID uint64) error {
	return r.db.Model(&model.Video{}).
		Where("id = ?", videoID).
		UpdateColumn("comment_count", gorm.Expr("comment_count + ?", 1)).Error
}

// DecrementCommentCount is best-effort: a missing video or an already-zero
// counter is not an error, the comment deletion must not fail on it.
func (r *videoRepository) DecrementCommentCount(videoID uint64) error {
	return r.db.Model(&model.Video{}).
		Where("id = ? AND comment_count > 0", videoID).
		UpdateColumn("comment_count", gorm.Expr("comment_count - ?", 1)).Error
}

// SyncReactionCounts recomputes the mirrored like/dislike counters from the
// reaction rows. Idempotent, so a redelivered queue message cannot skew it.
func (r *videoRepository) SyncReactionCounts(videoID uint64) error {
	return r.db.Exec(
		`UPDATE videos SET
			like_count = (SELECT COUNT(*) FROM reactions WHERE video_id = ? AND value = 1 AND deleted_at IS NULL),
			dislike_count = (SELECT COUNT(*) FROM reactions WHERE video_id = ? AND value = -1 AND deleted_at IS NULL)
		WHERE id = ?`,
		videoID, videoID, videoID,
	).Error
}

func (r *videoRepository) keyVideoInfo(videoID uint64) string {
	return fmt.Sprintf("video:info:%d", videoID)
}

// GetVideoCache reads the cached video row. A nil, nil return means cache
// miss with redis healthy.
func (r *videoRepository) GetVideoCache(videoID uint64) (*model.Video, error) {
	if r.rdb == nil {
		return nil, nil
	}
	key := r.keyVideoInfo(videoID)
	videoJSON, err := r.rdb.Get(context.Background(), key).Result()
	if err == redis.Nil {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	var video model.Video
	if err := json.Unmarshal([]byte(videoJSON), &video); err != nil {
		return nil, err
	}
	return &video, nil
}

// SetVideoCache stores the row as JSON with a jittered TTL so a batch of
// entries cannot all expire in the same instant.
func (r *videoRepository) SetVideoCache(video *model.Video) error {
	if r.rdb == nil {
		return nil
	}
	key := r.keyVideoInfo(video.ID)
	videoJSON, err := json.Marshal(video)
	if err != nil {
		return err
	}
	expiration := time.Minute*5 + time.Duration(rand.Intn(60))*time.Second
	return r.rdb.Set(context.Background(), key, videoJSON, expiration).Err()
}

func (r *videoRepository) DeleteVideoCache(videoID uint64) error {
	if r.rdb == nil {
		return nil
	}
	return r.rdb.Del(context.Background(), r.keyVideoInfo(videoID)).Err()
}
