package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/devconnect/pkg/auth"
	"github.com/khoahotran/devconnect/pkg/logger"
	"github.com/khoahotran/devconnect/pkg/metrics"
)

type RouterDeps struct {
	JWT     *auth.JWTService
	Logger  logger.Logger
	Metrics *metrics.HTTP

	Auth    *AuthHandler
	Profile *ProfileHandler
	Post    *PostHandler
}

func NewRouter(d RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), RequestLogger(d.Logger))
	if d.Metrics != nil {
		router.Use(Metrics(d.Metrics))
		router.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}
	router.Use(ErrorMiddleware(d.Logger))

	router.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "UP"}) })

	authMiddleware := AuthMiddleware(d.JWT, d.Logger)

	api := router.Group("/api")
	{
		users := api.Group("/users")
		{
			users.POST("", d.Auth.Register)
			users.PUT("/avatar", authMiddleware, d.Auth.UploadAvatar)
		}

		authGroup := api.Group("/auth")
		{
			authGroup.POST("", d.Auth.Login)
			authGroup.GET("", authMiddleware, d.Auth.CurrentUser)
		}

		profile := api.Group("/profile")
		{
			profile.GET("", d.Profile.List)
			profile.GET("/user/:user_id", d.Profile.GetByUser)
			profile.GET("/github/:username", d.Profile.GitHubRepos)

			private := profile.Group("")
			private.Use(authMiddleware)
			{
				private.GET("/me", d.Profile.GetMine)
				private.POST("", d.Profile.Upsert)
				private.DELETE("", d.Profile.DeleteAccount)
				private.PUT("/experience", d.Profile.AddExperience)
				private.DELETE("/experience/:exp_id", d.Profile.RemoveExperience)
				private.PUT("/education", d.Profile.AddEducation)
				private.DELETE("/education/:edu_id", d.Profile.RemoveEducation)
			}
		}

		posts := api.Group("/posts")
		posts.Use(authMiddleware)
		{
			posts.POST("", d.Post.CreatePost)
			posts.GET("", d.Post.ListPosts)
			posts.DELETE("/:id", d.Post.DeletePost)
		}
	}

	return router
}
