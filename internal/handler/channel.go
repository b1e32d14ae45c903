package handler

import (
	"net/http"
	"strconv"

	"vidtube/internal/dto"
	"vidtube/internal/service"
	"vidtube/pkg/logger"

	"github.com/gin-gonic/gin"
)

type ChannelHandler interface {
	Create(c *gin.Context)
	List(c *gin.Context)
	Get(c *gin.Context)
	FindByOwner(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	Subscribe(c *gin.Context)
}

type channelHandler struct {
	ChannelService service.ChannelService
}

func NewChannelHandler(channelService service.ChannelService) ChannelHandler {
	return &channelHandler{ChannelService: channelService}
}

type CreateChannelRequest struct {
	Name        string `json:"channelName"`
	Description string `json:"description"`
	BannerURL   string `json:"channelBanner"`
}

type UpdateChannelRequest struct {
	Name        *string `json:"channelName"`
	Description *string `json:"description"`
	BannerURL   *string `json:"channelBanner"`
}

func (h *channelHandler) Create(c *gin.Context) {
	var req CreateChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.WithError(err).Error("create channel binding failed")
		sendErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}
	ownerID, ok := callerID(c)
	if !ok {
		return
	}

	logCtx := logger.Log.WithField("owner_id", ownerID).WithField("channel_name", req.Name)
	logCtx.Info("handling channel create")

	channel, err := h.ChannelService.Create(ownerID, req.Name, req.Description, req.BannerURL)
	if err != nil {
		logCtx.WithError(err).Warn("channel create failed")
		respondError(c, err)
		return
	}

	logCtx.WithField("channel_id", channel.ID).Info("channel created")
	c.JSON(http.StatusCreated, gin.H{
		"message": "Channel created successfully",
		"channel": dto.ToChannelResponse(channel),
	})
}

func (h *channelHandler) List(c *gin.Context) {
	channels, err := h.ChannelService.List()
	if err != nil {
		logger.Log.WithError(err).Error("channel list failed")
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToChannelResponses(channels))
}

func (h *channelHandler) Get(c *gin.Context) {
	channelID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "invalid channel ID")
		return
	}
	channel, err := h.ChannelService.GetByID(channelID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToChannelResponse(channel))
}

// FindByOwner resolves the one channel a user owns; the sidebar's "your
// channel" lookup.
func (h *channelHandler) FindByOwner(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("userId"), 10, 64)
	if err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "invalid user ID")
		return
	}
	channel, err := h.ChannelService.GetByOwner(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToChannelResponse(channel))
}

func (h *channelHandler) Update(c *gin.Context) {
	channelID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "invalid channel ID")
		return
	}
	var req UpdateChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.WithError(err).Error("update channel binding failed")
		sendErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}
	ownerID, ok := callerID(c)
	if !ok {
		return
	}

	logCtx := logger.Log.WithField("owner_id", ownerID).WithField("channel_id", channelID)
	logCtx.Info("handling channel update")

	channel, err := h.ChannelService.Update(ownerID, channelID, service.ChannelPatch{
		Name:        req.Name,
		Description: req.Description,
		BannerURL:   req.BannerURL,
	})
	if err != nil {
		logCtx.WithError(err).Warn("channel update failed")
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Channel updated successfully",
		"channel": dto.ToChannelResponse(channel),
	})
}

// Delete removes the channel and cascades to its videos.
func (h *channelHandler) Delete(c *gin.Context) {
	channelID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "invalid channel ID")
		return
	}
	ownerID, ok := callerID(c)
	if !ok {
		return
	}

	logCtx := logger.Log.WithField("owner_id", ownerID).WithField("channel_id", channelID)
	logCtx.Info("handling channel delete")

	if err := h.ChannelService.Delete(ownerID, channelID); err != nil {
		logCtx.WithError(err).Warn("channel delete failed")
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Channel deleted successfully"})
}

func (h *channelHandler) Subscribe(c *gin.Context) {
	channelID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "invalid channel ID")
		return
	}
	userID, ok := callerID(c)
	if !ok {
		return
	}

	logCtx := logger.Log.WithField("user_id", userID).WithField("channel_id", channelID)
	logCtx.Info("handling subscribe")

	subscribers, err := h.ChannelService.Subscribe(userID, channelID)
	if err != nil {
		logCtx.WithError(err).Warn("subscribe failed")
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":     "Subscribed successfully",
		"subscribers": subscribers,
	})
}
