package dto

import (
	"time"

	"vidtube/internal/model"
)

type ChannelResponse struct {
	ID          uint64          `json:"id"`
	Name        string          `json:"channelName"`
	Description string          `json:"description"`
	BannerURL   string          `json:"channelBanner"`
	Subscribers uint64          `json:"subscribers"`
	CreatedAt   time.Time       `json:"createdAt"`
	Owner       OwnerInfo       `json:"owner"`
	Videos      []VideoResponse `json:"videos"`
}

func ToChannelResponse(channel *model.Channel) ChannelResponse {
	resp := ChannelResponse{
		ID:          channel.ID,
		Name:        channel.Name,
		Description: channel.Description,
		BannerURL:   channel.BannerURL,
		Subscribers: channel.SubscriberCount,
		CreatedAt:   channel.CreatedAt,
		Videos:      ToVideoResponses(channel.Videos),
	}
	if channel.Owner.ID != 0 {
		resp.Owner = OwnerInfo{
			ID:        channel.Owner.ID,
			Username:  channel.Owner.Username,
			Email:     channel.Owner.Email,
			AvatarURL: channel.Owner.AvatarURL,
		}
	} else {
		resp.Owner.ID = channel.OwnerID
	}
	return resp
}

func ToChannelResponses(channels []model.Channel) []ChannelResponse {
	response := make([]ChannelResponse, 0, len(channels))
	for i := range channels {
		response = append(response, ToChannelResponse(&channels[i]))
	}
	return response
}
