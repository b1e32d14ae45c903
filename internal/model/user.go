package model

type User struct {
	BaseModel
	Username  string `gorm:"unique;not null"`
	Email     string `gorm:"unique;not null"`
	Password  string `gorm:"not null"` // bcrypt hash, never serialized
	AvatarURL string

	// A user's channels are the rows whose owner_id points back here.
	Channels []Channel `gorm:"foreignKey:OwnerID"`
}
