package model

const (
	ReactionLike    int8 = 1
	ReactionDislike int8 = -1
)

// Reaction is one user's like or dislike on one video. The composite unique
// index guarantees at most one row per (user, video), which is what keeps
// the liker and disliker sets disjoint in MySQL.
type Reaction struct {
	BaseModel
	UserID  uint64 `gorm:"uniqueIndex:idx_user_video"`
	VideoID uint64 `gorm:"uniqueIndex:idx_user_video"`
	Value   int8   `gorm:"not null"` // ReactionLike or ReactionDislike
}

func (Reaction) TableName() string {
	return "reactions"
}
