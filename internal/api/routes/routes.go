package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/hireloop/hireloop/internal/api/handlers"
	"github.com/hireloop/hireloop/internal/api/middleware"
)

type Deps struct {
	Interview *handlers.InterviewHandler
	Candidate *handlers.CandidateHandler
	WS        *handlers.WSHandler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Health-ish
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Protected routes (JWT)
	auth := r.Group("/")
	auth.Use(middleware.JWTAuth())

	auth.POST("/candidates", d.Candidate.Create)
	auth.GET("/candidates", middleware.RequireRecruiter(), d.Candidate.List)
	// static segment would collide with /candidates/:candidate_id
	auth.GET("/stats/candidates", middleware.RequireRecruiter(), d.Candidate.Stats)
	auth.GET("/candidates/:candidate_id", middleware.RequireRecruiter(), d.Candidate.Get)
	auth.GET("/candidates/:candidate_id/interview", middleware.RequireRecruiter(), d.Interview.GetByCandidate)

	auth.POST("/interviews", d.Interview.Create)
	auth.POST("/interviews/:session_id/start", d.Interview.Start)
	auth.POST("/interviews/:session_id/answers", d.Interview.SubmitAnswer)
	auth.GET("/interviews/:session_id", d.Interview.Get)
	auth.GET("/interviews/:session_id/resume", d.Interview.Resume)
	auth.POST("/interviews/:session_id/restart", d.Interview.Restart)
	auth.GET("/interviews/:session_id/transcript", middleware.RequireRecruiter(), d.Interview.Transcript)

	// WebSocket event feed
	auth.GET("/ws/interviews/:session_id", d.WS.InterviewWS)
}
