package model

// Video metadata. The bytes themselves live behind VideoURL and are never
// touched by this service.
type Video struct {
	BaseModel
	UploaderID uint64 `gorm:"not null;index"` // owner for all mutation checks
	ChannelID  uint64 `gorm:"not null;index"` // immutable after creation

	Title        string `gorm:"not null"`
	Description  string
	VideoURL     string `gorm:"not null"`
	ThumbnailURL string
	Category     string   `gorm:"default:Other"`
	Tags         []string `gorm:"serializer:json;type:json"`

	Views        uint64 `gorm:"default:0"`
	LikeCount    uint64 `gorm:"default:0"`
	DislikeCount uint64 `gorm:"default:0"`
	CommentCount uint64 `gorm:"default:0"`

	Uploader User    `gorm:"foreignKey:UploaderID;references:ID"`
	Channel  Channel `gorm:"foreignKey:ChannelID;references:ID"`
}

func (Video) TableName() string {
	return "videos"
}
