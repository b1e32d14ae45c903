package handler

import (
	"net/http"

	"vidtube/internal/dto"
	"vidtube/internal/service"
	"vidtube/pkg/logger"

	"github.com/gin-gonic/gin"
)

type UserHandler interface {
	Signup(c *gin.Context)
	Signin(c *gin.Context)
}

type userHandler struct {
	UserService service.UserService
}

func NewUserHandler(userService service.UserService) UserHandler {
	return &userHandler{UserService: userService}
}

type SignupRequest struct {
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
	AvatarURL string `json:"avatarUrl"`
}

type SigninRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Signup creates a user. The response never carries the password hash.
func (h *userHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.WithError(err).Error("signup request binding failed")
		sendErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	logCtx := logger.Log.WithField("username", req.Username)
	logCtx.Info("handling signup")

	user, err := h.UserService.Register(req.Username, req.Email, req.Password, req.AvatarURL)
	if err != nil {
		logCtx.WithError(err).Warn("signup failed")
		respondError(c, err)
		return
	}

	logCtx.WithField("user_id", user.ID).Info("user registered")

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user":    dto.ToUserResponse(user),
	})
}

// Signin verifies credentials and returns the bearer token plus the user.
func (h *userHandler) Signin(c *gin.Context) {
	var req SigninRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.WithError(err).Error("signin request binding failed")
		sendErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	logCtx := logger.Log.WithField("email", req.Email)
	logCtx.Info("handling signin")

	token, user, err := h.UserService.Login(req.Email, req.Password)
	if err != nil {
		logCtx.WithError(err).Warn("signin failed")
		respondError(c, err)
		return
	}

	logCtx.WithField("user_id", user.ID).Info("user signed in")

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user":    dto.ToUserResponse(user),
	})
}
