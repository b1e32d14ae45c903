package model

// Subscription links a user to a channel. The composite unique index lets
// MySQL reject a double subscribe instead of us racing to check first.
type Subscription struct {
	BaseModel
	UserID    uint64 `gorm:"uniqueIndex:idx_user_channel"`
	ChannelID uint64 `gorm:"uniqueIndex:idx_user_channel"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
