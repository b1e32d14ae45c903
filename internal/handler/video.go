package handler

import (
	"net/http"
	"strconv"
	"strings"

	"vidtube/internal/dto"
	"vidtube/internal/service"
	"vidtube/pkg/logger"

	"github.com/gin-gonic/gin"
)

type VideoHandler interface {
	Create(c *gin.Context)
	List(c *gin.Context)
	YourVideos(c *gin.Context)
	Find(c *gin.Context)
	Search(c *gin.Context)
	ByTag(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	Views(c *gin.Context)
}

type videoHandler struct {
	VideoService service.VideoService
}

func NewVideoHandler(videoService service.VideoService) VideoHandler {
	return &videoHandler{VideoService: videoService}
}

type CreateVideoRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	VideoURL     string   `json:"videoUrl"`
	ThumbnailURL string   `json:"thumbnailUrl"`
	Category     string   `json:"category"`
	Tags         []string `json:"tags"`
	ChannelID    uint64   `json:"channelId"`
}

type UpdateVideoRequest struct {
	Title        *string   `json:"title"`
	Description  *string   `json:"description"`
	VideoURL     *string   `json:"videoUrl"`
	ThumbnailURL *string   `json:"thumbnailUrl"`
	Category     *string   `json:"category"`
	Tags         *[]string `json:"tags"`
}

// Create uploads video metadata. Required-field validation lives in the
// service so both this route and tests share it.
func (h *videoHandler) Create(c *gin.Context) {
	var req CreateVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.WithError(err).Error("create video binding failed")
		sendErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}
	uploaderID, ok := callerID(c)
	if !ok {
		return
	}

	logCtx := logger.Log.WithField("uploader_id", uploaderID)
	logCtx.Info("handling video create")

	video, err := h.VideoService.Create(uploaderID, service.CreateVideoInput{
		Title:        req.Title,
		Description:  req.Description,
		VideoURL:     req.VideoURL,
		ThumbnailURL: req.ThumbnailURL,
		Category:     req.Category,
		Tags:         req.Tags,
		ChannelID:    req.ChannelID,
	})
	if err != nil {
		logCtx.WithError(err).Warn("video create failed")
		respondError(c, err)
		return
	}

	logCtx.WithField("video_id", video.ID).Info("video created")
	c.JSON(http.StatusCreated, dto.ToVideoResponse(video))
}

func (h *videoHandler) List(c *gin.Context) {
	videos, err := h.VideoService.List()
	if err != nil {
		logger.Log.WithError(err).Error("video list failed")
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToVideoResponses(videos))
}

func (h *videoHandler) YourVideos(c *gin.Context) {
	uploaderID, ok := callerID(c)
	if !ok {
		return
	}
	videos, err := h.VideoService.ListByUploader(uploaderID)
	if err != nil {
		logger.Log.WithError(err).Error("your-videos list failed")
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToVideoResponses(videos))
}

// Find returns one video joined with its channel, reaction sets and
// comments.
func (h *videoHandler) Find(c *gin.Context) {
	videoID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "invalid video ID")
		return
	}
	detail, err := h.VideoService.GetDetail(videoID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToVideoDetailResponse(detail.Video, detail.Likes, detail.Dislikes, detail.Comments))
}

func (h *videoHandler) Search(c *gin.Context) {
	videos, err := h.VideoService.Search(c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToVideoResponses(videos))
}

// ByTag matches videos whose tag list contains the given tag exactly. A
// comma-separated value ORs several tags.
func (h *videoHandler) ByTag(c *gin.Context) {
	tags := strings.Split(c.Param("tag"), ",")
	videos, err := h.VideoService.ListByTags(tags)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToVideoResponses(videos))
}

func (h *videoHandler) Update(c *gin.Context) {
	videoID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "invalid video ID")
		return
	}
	var req UpdateVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.WithError(err).Error("update video binding failed")
		sendErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}
	uploaderID, ok := callerID(c)
	if !ok {
		return
	}

	logCtx := logger.Log.WithField("uploader_id", uploaderID).WithField("video_id", videoID)
	logCtx.Info("handling video update")

	video, err := h.VideoService.Update(uploaderID, videoID, service.VideoPatch{
		Title:        req.Title,
		Description:  req.Description,
		VideoURL:     req.VideoURL,
		ThumbnailURL: req.ThumbnailURL,
		Category:     req.Category,
		Tags:         req.Tags,
	})
	if err != nil {
		logCtx.WithError(err).Warn("video update failed")
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToVideoResponse(video))
}

func (h *videoHandler) Delete(c *gin.Context) {
	videoID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "invalid video ID")
		return
	}
	uploaderID, ok := callerID(c)
	if !ok {
		return
	}

	logCtx := logger.Log.WithField("uploader_id", uploaderID).WithField("video_id", videoID)
	logCtx.Info("handling video delete")

	if err := h.VideoService.Delete(uploaderID, videoID); err != nil {
		logCtx.WithError(err).Warn("video delete failed")
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Video deleted successfully"})
}

// Views bumps the view counter. Unauthenticated, no dedup.
func (h *videoHandler) Views(c *gin.Context) {
	videoID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "invalid video ID")
		return
	}
	views, err := h.VideoService.IncrementViews(videoID, c.ClientIP())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"views": views})
}
