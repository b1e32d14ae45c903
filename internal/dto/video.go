package dto

import (
	"time"

	"vidtube/internal/model"
)

// ChannelSummary is the slimmed channel shape joined onto video responses.
type ChannelSummary struct {
	ID        uint64 `json:"id"`
	Name      string `json:"channelName"`
	BannerURL string `json:"channelBanner"`
}

// VideoResponse is the list-level video shape: counters instead of full
// liker/disliker arrays.
type VideoResponse struct {
	ID           uint64         `json:"id"`
	CreatedAt    time.Time      `json:"createdAt"`
	UploaderID   uint64         `json:"uploaderId"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	VideoURL     string         `json:"videoUrl"`
	ThumbnailURL string         `json:"thumbnailUrl"`
	Category     string         `json:"category"`
	Tags         []string       `json:"tags"`
	Views        uint64         `json:"views"`
	LikeCount    uint64         `json:"likeCount"`
	DislikeCount uint64         `json:"dislikeCount"`
	CommentCount uint64         `json:"commentCount"`
	Channel      ChannelSummary `json:"channel"`
}

// VideoDetailResponse adds what only the single-video endpoint returns: the
// full liker/disliker id sets and the comments with their authors.
type VideoDetailResponse struct {
	VideoResponse
	Likes    []uint64          `json:"likes"`
	Dislikes []uint64          `json:"dislikes"`
	Comments []CommentResponse `json:"comments"`
}

// ReactionResponse is what the like/dislike toggle endpoints return.
type ReactionResponse struct {
	VideoID  uint64   `json:"videoId"`
	Likes    []uint64 `json:"likes"`
	Dislikes []uint64 `json:"dislikes"`
}

func ToVideoResponse(video *model.Video) VideoResponse {
	resp := VideoResponse{
		ID:           video.ID,
		CreatedAt:    video.CreatedAt,
		UploaderID:   video.UploaderID,
		Title:        video.Title,
		Description:  video.Description,
		VideoURL:     video.VideoURL,
		ThumbnailURL: video.ThumbnailURL,
		Category:     video.Category,
		Tags:         video.Tags,
		Views:        video.Views,
		LikeCount:    video.LikeCount,
		DislikeCount: video.DislikeCount,
		CommentCount: video.CommentCount,
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}
	// Fall back to the bare id when Channel was not preloaded.
	if video.Channel.ID != 0 {
		resp.Channel = ChannelSummary{
			ID:        video.Channel.ID,
			Name:      video.Channel.Name,
			BannerURL: video.Channel.BannerURL,
		}
	} else {
		resp.Channel.ID = video.ChannelID
	}
	return resp
}

func ToVideoResponses(videos []model.Video) []VideoResponse {
	response := make([]VideoResponse, 0, len(videos))
	for i := range videos {
		response = append(response, ToVideoResponse(&videos[i]))
	}
	return response
}

func ToVideoDetailResponse(video *model.Video, likes, dislikes []uint64, comments []model.Comment) VideoDetailResponse {
	if likes == nil {
		likes = []uint64{}
	}
	if dislikes == nil {
		dislikes = []uint64{}
	}
	return VideoDetailResponse{
		VideoResponse: ToVideoResponse(video),
		Likes:         likes,
		Dislikes:      dislikes,
		Comments:      ToCommentResponses(comments),
	}
}
