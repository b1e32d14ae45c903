package repository

import (
	"context"
	"sort"
	"strconv"

	"vidtube/internal/model"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Redis keys: one set of liker ids and one of disliker ids per video. These
// sets are the hot-path truth; MySQL rows catch up through the consumer.
const (
	keyVideoLikersSet    = "video:likers"
	keyVideoDislikersSet = "video:dislikers"
)

type ReactionRepository interface {
	// Redis set operations (serve reads and toggles).
	IsLiker(videoID, userID uint64) (bool, error)
	IsDisliker(videoID, userID uint64) (bool, error)
	AddLike(videoID, userID uint64) error
	RemoveLike(videoID, userID uint64) error
	AddDislike(videoID, userID uint64) error
	RemoveDislike(videoID, userID uint64) error
	LikerIDs(videoID uint64) ([]uint64, error)
	DislikerIDs(videoID uint64) ([]uint64, error)
	ClearVideo(videoID uint64) error

	// MySQL persistence (used by the queue consumer).
	Upsert(userID, videoID uint64, value int8) error
	DeleteRow(userID, videoID uint64) error
	DeleteByVideo(videoID uint64) error
	DeleteByVideos(videoIDs []uint64) error

	WithTx(tx *gorm.DB) ReactionRepository
}

type reactionRepository struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewReactionRepository(db *gorm.DB, rdb *redis.Client) ReactionRepository {
	return &reactionRepository{
		db:  db,
		rdb: rdb,
	}
}

func (r *reactionRepository) WithTx(tx *gorm.DB) ReactionRepository {
	return &reactionRepository{db: tx}
}

func likersKey(videoID uint64) string {
	return keyVideoLikersSet + ":" + strconv.FormatUint(videoID, 10)
}

func dislikersKey(videoID uint64) string {
	return keyVideoDislikersSet + ":" + strconv.FormatUint(videoID, 10)
}

func (r *reactionRepository) IsLiker(videoID, userID uint64) (bool, error) {
	userIDStr := strconv.FormatUint(userID, 10)
	return r.rdb.SIsMember(context.Background(), likersKey(videoID), userIDStr).Result()
}

func (r *reactionRepository) IsDisliker(videoID, userID uint64) (bool, error) {
	userIDStr := strconv.FormatUint(userID, 10)
	return r.rdb.SIsMember(context.Background(), dislikersKey(videoID), userIDStr).Result()
}

// AddLike puts the user in the liker set and drops them from the disliker
// set in one pipeline, which is what keeps the two sets disjoint.
func (r *reactionRepository) AddLike(videoID, userID uint64) error {
	userIDStr := strconv.FormatUint(userID, 10)
	pipe := r.rdb.Pipeline()
	pipe.SAdd(context.Background(), likersKey(videoID), userIDStr)
	pipe.SRem(context.Background(), dislikersKey(videoID), userIDStr)
	_, err := pipe.Exec(context.Background())
	return err
}

func (r *reactionRepository) RemoveLike(videoID, userID uint64) error {
	userIDStr := strconv.FormatUint(userID, 10)
	return r.rdb.SRem(context.Background(), likersKey(videoID), userIDStr).Err()
}

func (r *reactionRepository) AddDislike(videoID, userID uint64) error {
	userIDStr := strconv.FormatUint(userID, 10)
	pipe := r.rdb.Pipeline()
	pipe.SAdd(context.Background(), dislikersKey(videoID), userIDStr)
	pipe.SRem(context.Background(), likersKey(videoID), userIDStr)
	_, err := pipe.Exec(context.Background())
	return err
}

func (r *reactionRepository) RemoveDislike(videoID, userID uint64) error {
	userIDStr := strconv.FormatUint(userID, 10)
	return r.rdb.SRem(context.Background(), dislikersKey(videoID), userIDStr).Err()
}

func (r *reactionRepository) LikerIDs(videoID uint64) ([]uint64, error) {
	return r.memberIDs(likersKey(videoID))
}

func (r *reactionRepository) DislikerIDs(videoID uint64) ([]uint64, error) {
	return r.memberIDs(dislikersKey(videoID))
}

// memberIDs reads a set and returns its ids sorted, SMEMBERS order is not
// deterministic.
func (r *reactionRepository) memberIDs(key string) ([]uint64, error) {
	members, err := r.rdb.SMembers(context.Background(), key).Result()
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseUint(m, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (r *reactionRepository) ClearVideo(videoID uint64) error {
	return r.rdb.Del(context.Background(), likersKey(videoID), dislikersKey(videoID)).Err()
}

// Upsert writes the row for (user, video), flipping the value if one already
// exists. The composite unique index makes this a single INSERT .. ON
// DUPLICATE KEY UPDATE.
func (r *reactionRepository) Upsert(userID, videoID uint64, value int8) error {
	reaction := &model.Reaction{UserID: userID, VideoID: videoID, Value: value}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "video_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"value": value}),
	}).Create(reaction).Error
}

// DeleteRow removes the reaction for real. A soft delete would leave the row
// in place and the unique index would then reject the user's next reaction.
func (r *reactionRepository) DeleteRow(userID, videoID uint64) error {
	return r.db.Exec("DELETE FROM reactions WHERE user_id = ? AND video_id = ?", userID, videoID).Error
}

func (r *reactionRepository) DeleteByVideo(videoID uint64) error {
	return r.db.Exec("DELETE FROM reactions WHERE video_id = ?", videoID).Error
}

func (r *reactionRepository) DeleteByVideos(videoIDs []uint64) error {
	if len(videoIDs) == 0 {
		return nil
	}
	return r.db.Exec("DELETE FROM reactions WHERE video_id IN (?)", videoIDs).Error
}
