package service

import (
	"encoding/json"
	"errors"

	"vidtube/internal/repository"
	"vidtube/pkg/apperrors"
	"vidtube/pkg/rabbitmq"

	"gorm.io/gorm"
)

const QueueReaction = "vidtube.reaction.queue"

const (
	ActionLike      = "like"
	ActionUnlike    = "unlike"
	ActionDislike   = "dislike"
	ActionUndislike = "undislike"
)

// ReactionMessage is the queue payload telling the consumer how to bring
// MySQL in line with the redis sets.
type ReactionMessage struct {
	UserID  uint64 `json:"user_id"`
	VideoID uint64 `json:"video_id"`
	Action  string `json:"action"`
}

// ReactionState is what a toggle returns: both id sets after the change.
type ReactionState struct {
	Likes    []uint64
	Dislikes []uint64
}

// ReactionService implements the like/dislike toggles. A toggle on the set
// the user is already in removes them; a toggle from the opposite set moves
// them. The redis sets change synchronously, MySQL follows through the
// queue.
type ReactionService interface {
	ToggleLike(userID, videoID uint64) (*ReactionState, error)
	ToggleDislike(userID, videoID uint64) (*ReactionState, error)
}

type reactionService struct {
	videoRepo    repository.VideoRepository
	reactionRepo repository.ReactionRepository
	publisher    rabbitmq.Publisher
}

func NewReactionService(videoRepo repository.VideoRepository, reactionRepo repository.ReactionRepository, publisher rabbitmq.Publisher) ReactionService {
	return &reactionService{
		videoRepo:    videoRepo,
		reactionRepo: reactionRepo,
		publisher:    publisher,
	}
}

func (s *reactionService) ToggleLike(userID, videoID uint64) (*ReactionState, error) {
	if err := s.checkVideoExists(videoID); err != nil {
		return nil, err
	}

	liked, err := s.reactionRepo.IsLiker(videoID, userID)
	if err != nil {
		return nil, err
	}

	if liked {
		// Toggle off.
		if err := s.reactionRepo.RemoveLike(videoID, userID); err != nil {
			return nil, err
		}
		if err := s.publish(ReactionMessage{UserID: userID, VideoID: videoID, Action: ActionUnlike}); err != nil {
			return nil, err
		}
	} else {
		// Add, displacing a dislike if there was one.
		if err := s.reactionRepo.AddLike(videoID, userID); err != nil {
			return nil, err
		}
		if err := s.publish(ReactionMessage{UserID: userID, VideoID: videoID, Action: ActionLike}); err != nil {
			return nil, err
		}
	}

	return s.state(videoID)
}

func (s *reactionService) ToggleDislike(userID, videoID uint64) (*ReactionState, error) {
	if err := s.checkVideoExists(videoID); err != nil {
		return nil, err
	}

	disliked, err := s.reactionRepo.IsDisliker(videoID, userID)
	if err != nil {
		return nil, err
	}

	if disliked {
		if err := s.reactionRepo.RemoveDislike(videoID, userID); err != nil {
			return nil, err
		}
		if err := s.publish(ReactionMessage{UserID: userID, VideoID: videoID, Action: ActionUndislike}); err != nil {
			return nil, err
		}
	} else {
		if err := s.reactionRepo.AddDislike(videoID, userID); err != nil {
			return nil, err
		}
		if err := s.publish(ReactionMessage{UserID: userID, VideoID: videoID, Action: ActionDislike}); err != nil {
			return nil, err
		}
	}

	return s.state(videoID)
}

func (s *reactionService) checkVideoExists(videoID uint64) error {
	_, err := s.videoRepo.FindByID(videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrVideoNotFound
		}
		return err
	}
	return nil
}

func (s *reactionService) state(videoID uint64) (*ReactionState, error) {
	likes, err := s.reactionRepo.LikerIDs(videoID)
	if err != nil {
		return nil, err
	}
	dislikes, err := s.reactionRepo.DislikerIDs(videoID)
	if err != nil {
		return nil, err
	}
	return &ReactionState{Likes: likes, Dislikes: dislikes}, nil
}

func (s *reactionService) publish(msg ReactionMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return s.publisher.Publish(QueueReaction, body)
}
