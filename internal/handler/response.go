package handler

import (
	"net/http"

	"vidtube/pkg/apperrors"
	"vidtube/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the standard API error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

func sendErrorResponse(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, ErrorResponse{Error: message})
}

// respondError translates a service error into an HTTP response. Domain
// errors carry their message to the client; anything else is logged with
// its cause and reported as a bare 500 so internal detail never leaks.
func respondError(c *gin.Context, err error) {
	if appErr, ok := apperrors.As(err); ok {
		sendErrorResponse(c, apperrors.HTTPStatus(appErr.Code), appErr.Message)
		return
	}
	logger.Log.WithError(err).WithField("path", c.FullPath()).Error("unhandled service error")
	sendErrorResponse(c, http.StatusInternalServerError, "internal server error")
}

// callerID pulls the authenticated user id out of the gin context. The jwt
// middleware stores claims as float64, hence the assertion chain.
func callerID(c *gin.Context) (uint64, bool) {
	v, exists := c.Get("userID")
	if !exists {
		sendErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return 0, false
	}
	f, ok := v.(float64)
	if !ok {
		sendErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return 0, false
	}
	return uint64(f), true
}
