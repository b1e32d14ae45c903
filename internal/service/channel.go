package service

import (
	"errors"

	"vidtube/internal/data"
	"vidtube/internal/model"
	"vidtube/internal/repository"
	"vidtube/pkg/apperrors"
	"vidtube/pkg/logger"

	"gorm.io/gorm"
)

// ChannelPatch carries a partial channel update; nil fields keep their
// prior value.
type ChannelPatch struct {
	Name        *string
	Description *string
	BannerURL   *string
}

type ChannelService interface {
	Create(ownerID uint64, name, description, bannerURL string) (*model.Channel, error)
	List() ([]model.Channel, error)
	GetByID(channelID uint64) (*model.Channel, error)
	GetByOwner(userID uint64) (*model.Channel, error)
	Update(callerID, channelID uint64, patch ChannelPatch) (*model.Channel, error)
	Delete(callerID, channelID uint64) error
	Subscribe(callerID, channelID uint64) (uint64, error)
}

type channelService struct {
	channelRepo  repository.ChannelRepository
	videoRepo    repository.VideoRepository
	reactionRepo repository.ReactionRepository
	uow          data.UnitOfWork
}

func NewChannelService(channelRepo repository.ChannelRepository, videoRepo repository.VideoRepository, reactionRepo repository.ReactionRepository, uow data.UnitOfWork) ChannelService {
	return &channelService{
		channelRepo:  channelRepo,
		videoRepo:    videoRepo,
		reactionRepo: reactionRepo,
		uow:          uow,
	}
}

// Create enforces unique channel names and one channel per user. Both
// pre-checks race with concurrent creates; the unique name index backstops
// the first, the second is accepted as a best-effort rule (it was never a
// schema constraint).
func (s *channelService) Create(ownerID uint64, name, description, bannerURL string) (*model.Channel, error) {
	if name == "" {
		return nil, apperrors.ErrChannelNameMissing
	}

	if _, err := s.channelRepo.FindByName(name); err == nil {
		return nil, apperrors.ErrChannelNameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if _, err := s.channelRepo.FindByOwner(ownerID); err == nil {
		return nil, apperrors.ErrAlreadyHasChannel
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	newChannel := &model.Channel{
		Name:        name,
		Description: description,
		BannerURL:   bannerURL,
		OwnerID:     ownerID,
	}
	if err := s.channelRepo.Create(newChannel); err != nil {
		if isDuplicateKey(err) {
			return nil, apperrors.ErrChannelNameTaken
		}
		return nil, err
	}
	return newChannel, nil
}

func (s *channelService) List() ([]model.Channel, error) {
	return s.channelRepo.FindAll()
}

func (s *channelService) GetByID(channelID uint64) (*model.Channel, error) {
	channel, err := s.channelRepo.FindByID(channelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrChannelNotFound
		}
		return nil, err
	}
	return channel, nil
}

func (s *channelService) GetByOwner(userID uint64) (*model.Channel, error) {
	channel, err := s.channelRepo.FindByOwner(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrChannelNotFound
		}
		return nil, err
	}
	return channel, nil
}

// Update applies only the provided fields, owner-only.
func (s *channelService) Update(callerID, channelID uint64, patch ChannelPatch) (*model.Channel, error) {
	channel, err := s.channelRepo.FindByID(channelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrChannelNotFound
		}
		return nil, err
	}
	if channel.OwnerID != callerID {
		return nil, apperrors.ErrNotChannelOwner
	}

	fields := map[string]interface{}{}
	if patch.Name != nil && *patch.Name != "" {
		fields["name"] = *patch.Name
	}
	if patch.Description != nil {
		fields["description"] = *patch.Description
	}
	if patch.BannerURL != nil {
		fields["banner_url"] = *patch.BannerURL
	}
	if len(fields) > 0 {
		if err := s.channelRepo.UpdateFields(channelID, fields); err != nil {
			if isDuplicateKey(err) {
				return nil, apperrors.ErrChannelNameTaken
			}
			return nil, err
		}
	}
	return s.channelRepo.FindByID(channelID)
}

// Delete removes the channel and cascades to everything hanging off it:
// comments and reactions of its videos, the videos themselves, and the
// subscriptions. One transaction, so a crash cannot leave half a cascade.
func (s *channelService) Delete(callerID, channelID uint64) error {
	channel, err := s.channelRepo.FindByID(channelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrChannelNotFound
		}
		return err
	}
	if channel.OwnerID != callerID {
		return apperrors.ErrNotChannelOwner
	}

	var videoIDs []uint64
	err = s.uow.Execute(func(repos *data.TransactionalRepositories) error {
		videoIDs, err = repos.VideoRepo.FindIDsByChannel(channelID)
		if err != nil {
			return err
		}
		if err := repos.CommentRepo.DeleteByVideos(videoIDs); err != nil {
			return err
		}
		if err := repos.ReactionRepo.DeleteByVideos(videoIDs); err != nil {
			return err
		}
		if err := repos.VideoRepo.DeleteByChannel(channelID); err != nil {
			return err
		}
		if err := repos.ChannelRepo.DeleteSubscriptionsByChannel(channelID); err != nil {
			return err
		}
		return repos.ChannelRepo.Delete(channelID)
	})
	if err != nil {
		return err
	}

	// Cache and reaction sets of the deleted videos. Best-effort: the keys
	// expire on their own if redis is unreachable here.
	for _, id := range videoIDs {
		if err := s.videoRepo.DeleteVideoCache(id); err != nil {
			logger.Log.WithError(err).WithField("video_id", id).Warn("failed to drop video cache")
		}
		if err := s.reactionRepo.ClearVideo(id); err != nil {
			logger.Log.WithError(err).WithField("video_id", id).Warn("failed to drop reaction sets")
		}
	}
	return nil
}

// Subscribe appends the caller to the channel's subscribers. Re-subscribing
// is rejected, there is no unsubscribe.
func (s *channelService) Subscribe(callerID, channelID uint64) (uint64, error) {
	channel, err := s.channelRepo.FindByID(channelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, apperrors.ErrChannelNotFound
		}
		return 0, err
	}

	subscribed, err := s.channelRepo.IsSubscribed(callerID, channelID)
	if err != nil {
		return 0, err
	}
	if subscribed {
		return 0, apperrors.ErrAlreadySubscribed
	}

	err = s.uow.Execute(func(repos *data.TransactionalRepositories) error {
		sub := &model.Subscription{UserID: callerID, ChannelID: channelID}
		if err := repos.ChannelRepo.CreateSubscription(sub); err != nil {
			return err
		}
		return repos.ChannelRepo.IncrementSubscriberCount(channelID)
	})
	if err != nil {
		if isDuplicateKey(err) {
			return 0, apperrors.ErrAlreadySubscribed
		}
		return 0, err
	}
	return channel.SubscriberCount + 1, nil
}
