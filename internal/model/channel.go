package model

type Channel struct {
	BaseModel
	Name        string `gorm:"unique;not null"`
	Description string
	BannerURL   string
	// OwnerID is immutable after creation.
	OwnerID         uint64 `gorm:"not null;index"`
	SubscriberCount uint64 `gorm:"default:0"`

	Owner  User    `gorm:"foreignKey:OwnerID;references:ID"`
	Videos []Video `gorm:"foreignKey:ChannelID"`
}

func (Channel) TableName() string {
	return "channels"
}
