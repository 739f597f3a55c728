package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mockmate/backend/internal/api/handlers"
	"github.com/mockmate/backend/internal/api/middleware"
)

type Deps struct {
	Log         *logrus.Logger
	JWTSecret   string
	LLMProvider string

	Interview *handlers.InterviewHandler
	CV        *handlers.CVHandler
	Auth      *handlers.AuthHandler
	User      *handlers.UserHandler
}

// Register wires every route. The interview flow works anonymously; a bearer
// token, when present, links sessions and results to the user.
func Register(r *gin.Engine, d Deps) {
	r.Use(middleware.RequestLogger(d.Log))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":       "ok",
			"llm_provider": d.LLMProvider,
		})
	})

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", d.Auth.Register)
		auth.POST("/login", d.Auth.Login)
		auth.GET("/me", middleware.JWTAuth(d.JWTSecret), d.Auth.Me)
		auth.GET("/google/login", d.Auth.GoogleLogin)
		auth.GET("/google/callback", d.Auth.GoogleCallback)
	}

	api.POST("/cv/upload", d.CV.Upload)

	interview := api.Group("/interview", middleware.OptionalJWTAuth(d.JWTSecret))
	{
		interview.POST("/start", d.Interview.Start)
		interview.POST("/respond", d.Interview.Respond)
		interview.POST("/end", d.Interview.End)
		interview.GET("/:session_id/results", d.Interview.Results)
	}

	users := api.Group("/users/me", middleware.JWTAuth(d.JWTSecret))
	{
		users.GET("/history", d.User.History)
		users.GET("/overview", d.User.Overview)
	}
}
