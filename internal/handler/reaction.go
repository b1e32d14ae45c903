package handler

import (
	"net/http"
	"strconv"

	"vidtube/internal/dto"
	"vidtube/internal/service"
	"vidtube/pkg/logger"

	"github.com/gin-gonic/gin"
)

type ReactionHandler interface {
	Like(c *gin.Context)
	Dislike(c *gin.Context)
}

type reactionHandler struct {
	ReactionService service.ReactionService
}

func NewReactionHandler(reactionService service.ReactionService) ReactionHandler {
	return &reactionHandler{ReactionService: reactionService}
}

func (h *reactionHandler) Like(c *gin.Context) {
	h.toggle(c, "like", h.ReactionService.ToggleLike)
}

func (h *reactionHandler) Dislike(c *gin.Context) {
	h.toggle(c, "dislike", h.ReactionService.ToggleDislike)
}

func (h *reactionHandler) toggle(c *gin.Context, name string, fn func(userID, videoID uint64) (*service.ReactionState, error)) {
	videoID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "invalid video ID")
		return
	}
	userID, ok := callerID(c)
	if !ok {
		return
	}

	logCtx := logger.Log.WithField("user_id", userID).WithField("video_id", videoID)
	logCtx.Infof("handling %s toggle", name)

	state, err := fn(userID, videoID)
	if err != nil {
		logCtx.WithError(err).Warn("reaction toggle failed")
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ReactionResponse{
		VideoID:  videoID,
		Likes:    state.Likes,
		Dislikes: state.Dislikes,
	})
}
