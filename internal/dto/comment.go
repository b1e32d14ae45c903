package dto

import (
	"time"

	"vidtube/internal/model"
)

type CommentResponse struct {
	ID        uint64    `json:"id"`
	VideoID   uint64    `json:"videoId"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
	Author    UserInfo  `json:"author"`
}

func ToCommentResponse(comment *model.Comment) CommentResponse {
	resp := CommentResponse{
		ID:        comment.ID,
		VideoID:   comment.VideoID,
		Text:      comment.Text,
		CreatedAt: comment.CreatedAt,
	}
	// Author is only filled when User was preloaded.
	if comment.User.ID != 0 {
		resp.Author = ToUserInfo(&comment.User)
	} else {
		resp.Author.ID = comment.UserID
	}
	return resp
}

func ToCommentResponses(comments []model.Comment) []CommentResponse {
	response := make([]CommentResponse, 0, len(comments))
	for i := range comments {
		response = append(response, ToCommentResponse(&comments[i]))
	}
	return response
}
