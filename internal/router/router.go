package router

import (
	"net/http"

	"vidtube/internal/handler"
	"vidtube/internal/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRouter(userHandler handler.UserHandler, channelHandler handler.ChannelHandler, videoHandler handler.VideoHandler, reactionHandler handler.ReactionHandler, commentHandler handler.CommentHandler) *gin.Engine {
	r := gin.Default()
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// Uploaded assets are served straight off disk. The API lives under
	// /api so these mounts cannot shadow a route.
	r.Static("/videos", "./uploads/videos")
	r.Static("/thumbnails", "./uploads/thumbnails")
	r.Static("/avatars", "./uploads/avatars")

	api := r.Group("/api")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/signup", userHandler.Signup)
			authGroup.POST("/signin", userHandler.Signin)
		}

		api.GET("/videos", videoHandler.List)
		api.GET("/videos/find/:id", videoHandler.Find)
		api.GET("/videos/search", videoHandler.Search)
		api.GET("/videos/tag/:tag", videoHandler.ByTag)
		api.PUT("/videos/views/:id", videoHandler.Views)

		api.GET("/channels", channelHandler.List)
		api.GET("/channels/:id", channelHandler.Get)
		api.GET("/channels/find/:userId", channelHandler.FindByOwner)

		api.GET("/comments/:videoId", commentHandler.List)

		authorized := api.Group("/")
		authorized.Use(middleware.AuthMiddleware())
		{
			authorized.GET("/videos/your-videos", videoHandler.YourVideos)
			authorized.POST("/videos", videoHandler.Create)
			authorized.PUT("/videos/:id", videoHandler.Update)
			authorized.DELETE("/videos/:id", videoHandler.Delete)

			authorized.PUT("/videos/like/:id", reactionHandler.Like)
			authorized.PUT("/videos/dislike/:id", reactionHandler.Dislike)
			authorized.PUT("/videos/:id/comment", commentHandler.AddLegacy)

			authorized.POST("/channels", channelHandler.Create)
			authorized.PUT("/channels/:id", channelHandler.Update)
			authorized.DELETE("/channels/:id", channelHandler.Delete)
			authorized.POST("/channels/:id/subscribe", channelHandler.Subscribe)

			authorized.POST("/comments", commentHandler.Add)
			authorized.PUT("/comments/:id", commentHandler.Update)
			authorized.DELETE("/comments/:id", commentHandler.Delete)
		}
	}

	return r
}
