package repository

import (
	"vidtube/internal/model"

	"gorm.io/gorm"
)

type ChannelRepository interface {
	Create(channel *model.Channel) error
	FindByID(channelID uint64) (*model.Channel, error)
	FindByOwner(ownerID uint64) (*model.Channel, error)
	FindByName(name string) (*model.Channel, error)
	FindAll() ([]model.Channel, error)
	UpdateFields(channelID uint64, fields map[string]interface{}) error
	Delete(channelID uint64) error

	IsSubscribed(userID, channelID uint64) (bool, error)
	CreateSubscription(sub *model.Subscription) error
	IncrementSubscriberCount(channelID uint64) error
	DeleteSubscriptionsByChannel(channelID uint64) error

	WithTx(tx *gorm.DB) ChannelRepository
}

type channelRepository struct {
	db *gorm.DB
}

func NewChannelRepository(db *gorm.DB) ChannelRepository {
	return &channelRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *channelRepository) WithTx(tx *gorm.DB) ChannelRepository {
	return &channelRepository{db: tx}
}

func (r *channelRepository) Create(channel *model.Channel) error {
	return r.db.Create(channel).Error
}

// FindByID loads a channel with its owner and videos. Each video carries the
// channel summary back so list converters never see a half-joined row.
func (r *channelRepository) FindByID(channelID uint64) (*model.Channel, error) {
	var result model.Channel
	err := r.db.
		Preload("Owner").
		Preload("Videos.Channel").
		Preload("Videos").
		First(&result, channelID).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *channelRepository) FindByOwner(ownerID uint64) (*model.Channel, error) {
	var result model.Channel
	err := r.db.
		Preload("Owner").
		Preload("Videos.Channel").
		Preload("Videos").
		Where("owner_id = ?", ownerID).
		First(&result).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *channelRepository) FindByName(name string) (*model.Channel, error) {
	var result model.Channel
	err := r.db.Where("name = ?", name).First(&result).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *channelRepository) FindAll() ([]model.Channel, error) {
	var channels []model.Channel
	err := r.db.
		Preload("Owner").
		Preload("Videos.Channel").
		Preload("Videos").
		Find(&channels).Error
	return channels, err
}

// UpdateFields applies a partial update, only the provided columns change.
func (r *channelRepository) UpdateFields(channelID uint64, fields map[string]interface{}) error {
	return r.db.Model(&model.Channel{}).Where("id = ?", channelID).Updates(fields).Error
}

func (r *channelRepository) Delete(channelID uint64) error {
	return r.db.Delete(&model.Channel{}, channelID).Error
}

func (r *channelRepository) IsSubscribed(userID, channelID uint64) (bool, error) {
	var count int64
	err := r.db.Model(&model.Subscription{}).
		Where("user_id = ? AND channel_id = ?", userID, channelID).
		Count(&count).Error
	return count > 0, err
}

func (r *channelRepository) CreateSubscription(sub *model.Subscription) error {
	return r.db.Create(sub).Error
}

func (r *channelRepository) IncrementSubscriberCount(channelID uint64) error {
	// UPDATE channels SET subscriber_count = subscriber_count + 1 WHERE id = ?
	return r.db.Model(&model.Channel{}).
		Where("id = ?", channelID).
		UpdateColumn("subscriber_count", gorm.Expr("subscriber_count + ?", 1)).Error
}

func (r *channelRepository) DeleteSubscriptionsByChannel(channelID uint64) error {
	return r.db.Where("channel_id = ?", channelID).Delete(&model.Subscription{}).Error
}
