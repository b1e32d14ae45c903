package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"vidtube/internal/data"
	"vidtube/internal/model"
	"vidtube/internal/repository"
	"vidtube/pkg/apperrors"
	"vidtube/pkg/logger"
	"vidtube/pkg/rabbitmq"

	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const QueueView = "vidtube.view.queue"

// ViewMessage is published for every counted view; the consumer turns it
// into a view_events row.
type ViewMessage struct {
	VideoID  uint64 `json:"video_id"`
	ClientIP string `json:"client_ip"`
}

// CreateVideoInput is everything a caller may set at upload time.
type CreateVideoInput struct {
	Title        string
	Description  string
	VideoURL     string
	ThumbnailURL string
	Category     string
	Tags         []string
	ChannelID    uint64
}

// VideoPatch carries a partial video update; nil fields keep their prior
// value.
type VideoPatch struct {
	Title        *string
	Description  *string
	VideoURL     *string
	ThumbnailURL *string
	Category     *string
	Tags         *[]string
}

// VideoDetail is a video with its joined-in reaction sets and comments.
type VideoDetail struct {
	Video    *model.Video
	Likes    []uint64
	Dislikes []uint64
	Comments []model.Comment
}

type VideoService interface {
	Create(uploaderID uint64, in CreateVideoInput) (*model.Video, error)
	List() ([]model.Video, error)
	ListByUploader(uploaderID uint64) ([]model.Video, error)
	GetByID(videoID uint64) (*model.Video, error)
	GetDetail(videoID uint64) (*VideoDetail, error)
	Search(query string) ([]model.Video, error)
	ListByTags(tags []string) ([]model.Video, error)
	Update(callerID, videoID uint64, patch VideoPatch) (*model.Video, error)
	Delete(callerID, videoID uint64) error
	IncrementViews(videoID uint64, clientIP string) (uint64, error)
}

type videoService struct {
	sf singleflight.Group

	videoRepo    repository.VideoRepository
	channelRepo  repository.ChannelRepository
	commentRepo  repository.CommentRepository
	reactionRepo repository.ReactionRepository
	uow          data.UnitOfWork
	publisher    rabbitmq.Publisher
}

func NewVideoService(videoRepo repository.VideoRepository, channelRepo repository.ChannelRepository, commentRepo repository.CommentRepository, reactionRepo repository.ReactionRepository, uow data.UnitOfWork, publisher rabbitmq.Publisher) VideoService {
	return &videoService{
		videoRepo:    videoRepo,
		channelRepo:  channelRepo,
		commentRepo:  commentRepo,
		reactionRepo: reactionRepo,
		uow:          uow,
		publisher:    publisher,
	}
}

// Create validates the required fields and attaches the video to an
// existing channel. The uploader is always the caller.
func (s *videoService) Create(uploaderID uint64, in CreateVideoInput) (*model.Video, error) {
	if in.Title == "" || in.VideoURL == "" || in.ChannelID == 0 {
		return nil, apperrors.ErrVideoFieldsMissing
	}
	if _, err := s.channelRepo.FindByID(in.ChannelID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrChannelNotFound
		}
		return nil, err
	}

	category := in.Category
	if category == "" {
		category = "Other"
	}
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}

	newVideo := &model.Video{
		UploaderID:   uploaderID,
		ChannelID:    in.ChannelID,
		Title:        in.Title,
		Description:  in.Description,
		VideoURL:     in.VideoURL,
		ThumbnailURL: in.ThumbnailURL,
		Category:     category,
		Tags:         tags,
	}
	if err := s.videoRepo.Create(newVideo); err != nil {
		return nil, err
	}
	return newVideo, nil
}

func (s *videoService) List() ([]model.Video, error) {
	return s.videoRepo.FindAll()
}

func (s *videoService) ListByUploader(uploaderID uint64) ([]model.Video, error) {
	return s.videoRepo.FindByUploader(uploaderID)
}

// GetByID serves from the redis cache when possible; misses go through
// singleflight so one stampede hits the database once.
func (s *videoService) GetByID(videoID uint64) (*model.Video, error) {
	video, err := s.videoRepo.GetVideoCache(videoID)
	if err == nil && video != nil {
		return video, nil
	}
	if err != nil {
		// Redis itself failed; log and fall through to the database.
		logger.Log.WithError(err).WithField("video_id", videoID).Warn("video cache read failed")
	}

	key := fmt.Sprintf("get_video_%d", videoID)
	result, err, _ := s.sf.Do(key, func() (interface{}, error) {
		dbVideo, dbErr := s.videoRepo.FindByID(videoID)
		if dbErr != nil {
			return nil, dbErr
		}
		_ = s.videoRepo.SetVideoCache(dbVideo)
		return dbVideo, nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrVideoNotFound
		}
		return nil, err
	}
	return result.(*model.Video), nil
}

// GetDetail joins the video with its liker/disliker sets and its comments
// (authors included). Comments are always read fresh, only the video row is
// cached.
func (s *videoService) GetDetail(videoID uint64) (*VideoDetail, error) {
	video, err := s.GetByID(videoID)
	if err != nil {
		return nil, err
	}

	likes, err := s.reactionRepo.LikerIDs(videoID)
	if err != nil {
		return nil, err
	}
	dislikes, err := s.reactionRepo.DislikerIDs(videoID)
	if err != nil {
		return nil, err
	}
	comments, err := s.commentRepo.FindByVideoID(videoID)
	if err != nil {
		return nil, err
	}

	return &VideoDetail{
		Video:    video,
		Likes:    likes,
		Dislikes: dislikes,
		Comments: comments,
	}, nil
}

func (s *videoService) Search(query string) ([]model.Video, error) {
	if strings.TrimSpace(query) == "" {
		return nil, apperrors.ErrMissingQuery
	}
	return s.videoRepo.SearchByTitle(query)
}

func (s *videoService) ListByTags(tags []string) ([]model.Video, error) {
	filtered := make([]string, 0, len(tags))
	for _, tag := range tags {
		if t := strings.TrimSpace(tag); t != "" {
			filtered = append(filtered, t)
		}
	}
	if len(filtered) == 0 {
		return nil, apperrors.ErrMissingQuery
	}
	return s.videoRepo.FindByTags(filtered)
}

// Update applies only the provided fields. Ownership is decided by the
// uploader id on the video itself.
func (s *videoService) Update(callerID, videoID uint64, patch VideoPatch) (*model.Video, error) {
	video, err := s.videoRepo.FindByID(videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrVideoNotFound
		}
		return nil, err
	}
	if video.UploaderID != callerID {
		return nil, apperrors.ErrNotVideoOwner
	}

	fields := map[string]interface{}{}
	if patch.Title != nil && *patch.Title != "" {
		fields["title"] = *patch.Title
	}
	if patch.Description != nil {
		fields["description"] = *patch.Description
	}
	if patch.VideoURL != nil && *patch.VideoURL != "" {
		fields["video_url"] = *patch.VideoURL
	}
	if patch.ThumbnailURL != nil {
		fields["thumbnail_url"] = *patch.ThumbnailURL
	}
	if patch.Category != nil && *patch.Category != "" {
		fields["category"] = *patch.Category
	}
	if patch.Tags != nil {
		// The map update path bypasses gorm's field serializer, so encode
		// the slice for the JSON column here.
		encoded, err := json.Marshal(*patch.Tags)
		if err != nil {
			return nil, err
		}
		fields["tags"] = string(encoded)
	}
	if len(fields) > 0 {
		if err := s.videoRepo.UpdateFields(videoID, fields); err != nil {
			return nil, err
		}
		if err := s.videoRepo.DeleteVideoCache(videoID); err != nil {
			logger.Log.WithError(err).WithField("video_id", videoID).Warn("failed to drop video cache")
		}
	}
	return s.videoRepo.FindByID(videoID)
}

// Delete removes the video and its reaction rows in one transaction.
// Comments referencing the video intentionally survive; only the channel
// cascade cleans those up.
func (s *videoService) Delete(callerID, videoID uint64) error {
	video, err := s.videoRepo.FindByID(videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrVideoNotFound
		}
		return err
	}
	if video.UploaderID != callerID {
		return apperrors.ErrNotVideoOwner
	}

	err = s.uow.Execute(func(repos *data.TransactionalRepositories) error {
		if err := repos.ReactionRepo.DeleteByVideo(videoID); err != nil {
			return err
		}
		return repos.VideoRepo.Delete(videoID)
	})
	if err != nil {
		return err
	}

	if err := s.videoRepo.DeleteVideoCache(videoID); err != nil {
		logger.Log.WithError(err).WithField("video_id", videoID).Warn("failed to drop video cache")
	}
	if err := s.reactionRepo.ClearVideo(videoID); err != nil {
		logger.Log.WithError(err).WithField("video_id", videoID).Warn("failed to drop reaction sets")
	}
	return nil
}

// IncrementViews bumps the counter atomically and returns the new total.
// Unauthenticated and deliberately un-deduplicated. The view event publish
// is best-effort; losing one history row never fails the request.
func (s *videoService) IncrementViews(videoID uint64, clientIP string) (uint64, error) {
	views, err := s.videoRepo.IncrementViews(videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, apperrors.ErrVideoNotFound
		}
		return 0, err
	}

	if err := s.videoRepo.DeleteVideoCache(videoID); err != nil {
		logger.Log.WithError(err).WithField("video_id", videoID).Warn("failed to drop video cache")
	}

	msg := ViewMessage{VideoID: videoID, ClientIP: clientIP}
	body, err := json.Marshal(msg)
	if err == nil {
		err = s.publisher.Publish(QueueView, body)
	}
	if err != nil {
		logger.Log.WithError(err).WithField("video_id", videoID).Warn("failed to publish view event")
	}

	return views, nil
}
