package handler

import (
	"net/http"
	"strconv"

	"vidtube/internal/dto"
	"vidtube/internal/service"
	"vidtube/pkg/logger"

	"github.com/gin-gonic/gin"
)

type CommentHandler interface {
	Add(c *gin.Context)
	AddLegacy(c *gin.Context)
	List(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

type commentHandler struct {
	CommentService service.CommentService
}

func NewCommentHandler(commentService service.CommentService) CommentHandler {
	return &commentHandler{CommentService: commentService}
}

type AddCommentRequest struct {
	VideoID uint64 `json:"videoId"`
	Text    string `json:"text"`
}

type UpdateCommentRequest struct {
	Text string `json:"text"`
}

// Add creates a comment on the video named in the body.
func (h *commentHandler) Add(c *gin.Context) {
	var req AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.WithError(err).Error("add comment binding failed")
		sendErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}
	userID, ok := callerID(c)
	if !ok {
		return
	}
	h.add(c, userID, req.VideoID, req.Text)
}

// AddLegacy is the old PUT /videos/:id/comment route; same contract, video
// id from the path instead of the body.
func (h *commentHandler) AddLegacy(c *gin.Context) {
	videoID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "invalid video ID")
		return
	}
	var req UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.WithError(err).Error("add comment binding failed")
		sendErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}
	userID, ok := callerID(c)
	if !ok {
		return
	}
	h.add(c, userID, videoID, req.Text)
}

func (h *commentHandler) add(c *gin.Context, userID, videoID uint64, text string) {
	logCtx := logger.Log.WithField("user_id", userID).WithField("video_id", videoID)
	logCtx.Info("handling add comment")

	comment, err := h.CommentService.Add(userID, videoID, text)
	if err != nil {
		logCtx.WithError(err).Warn("add comment failed")
		respondError(c, err)
		return
	}

	logCtx.WithField("comment_id", comment.ID).Info("comment added")
	c.JSON(http.StatusCreated, dto.ToCommentResponse(comment))
}

func (h *commentHandler) List(c *gin.Context) {
	videoID, err := strconv.ParseUint(c.Param("videoId"), 10, 64)
	if err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "invalid video ID")
		return
	}
	comments, err := h.CommentService.List(videoID)
	if err != nil {
		logger.Log.WithError(err).Error("list comments failed")
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToCommentResponses(comments))
}

func (h *commentHandler) Update(c *gin.Context) {
	commentID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "invalid comment ID")
		return
	}
	var req UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.WithError(err).Error("update comment binding failed")
		sendErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}
	userID, ok := callerID(c)
	if !ok {
		return
	}

	logCtx := logger.Log.WithField("user_id", userID).WithField("comment_id", commentID)
	logCtx.Info("handling comment update")

	comment, err := h.CommentService.Update(userID, commentID, req.Text)
	if err != nil {
		logCtx.WithError(err).Warn("comment update failed")
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToCommentResponse(comment))
}

func (h *commentHandler) Delete(c *gin.Context) {
	commentID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "invalid comment ID")
		return
	}
	userID, ok := callerID(c)
	if !ok {
		return
	}

	logCtx := logger.Log.WithField("user_id", userID).WithField("comment_id", commentID)
	logCtx.Info("handling comment delete")

	if err := h.CommentService.Delete(userID, commentID); err != nil {
		logCtx.WithError(err).Warn("comment delete failed")
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}
