package model

// ViewEvent is one recorded playback, written asynchronously by the queue
// consumer. The views counter on the video is the authoritative total; these
// rows exist for per-video history.
type ViewEvent struct {
	BaseModel
	VideoID  uint64 `gorm:"not null;index"`
	ClientIP string
}

func (ViewEvent) TableName() string {
	return "view_events"
}
