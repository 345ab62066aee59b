package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/civicconnect-api/internal/authz"
	apierrors "github.com/yukikurage/civicconnect-api/internal/errors"
	"github.com/yukikurage/civicconnect-api/internal/middleware"
	"github.com/yukikurage/civicconnect-api/internal/repository"
	"github.com/yukikurage/civicconnect-api/internal/token"
)

// Handlers groups every HTTP handler mounted by RegisterRoutes.
type Handlers struct {
	Auth       *AuthHandler
	Complaints *ComplaintHandler
	Users      *UserHandler
	Volunteers *VolunteerHandler
	Comments   *CommentHandler
	WS         *WSHandler
}

// RegisterRoutes mounts the health check, the /api groups and /ws on r.
func RegisterRoutes(r *gin.Engine, h Handlers, tokens *token.Manager, userRepo repository.UserRepository) {
	requireAuth := middleware.RequireAuth(tokens, userRepo)
	optionalAuth := middleware.OptionalAuth(tokens)
	can := middleware.RequireCapability

	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"success": true,
				"status":  "ok",
				"message": "CivicConnect API is running",
			})
		})

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/logout", requireAuth, h.Auth.Logout)
			auth.GET("/me", requireAuth, h.Auth.GetCurrentUser)
		}

		// Complaint routes
		complaints := api.Group("/complaints")
		{
			complaints.GET("", optionalAuth, h.Complaints.ListComplaints)
			complaints.GET("/stats", h.Complaints.GetStats)
			complaints.GET("/nearby", optionalAuth, h.Complaints.Nearby)
			complaints.POST("/triage", requireAuth, h.Complaints.Triage)
			complaints.POST("", requireAuth, can(authz.ComplaintCreate), h.Complaints.CreateComplaint)
			complaints.GET("/:id", optionalAuth, h.Complaints.GetComplaint)
			complaints.PUT("/:id", requireAuth, can(authz.ComplaintUpdate), h.Complaints.UpdateComplaint)
			complaints.DELETE("/:id", requireAuth, h.Complaints.DeleteComplaint)
			complaints.POST("/:id/upvote", requireAuth, can(authz.ComplaintUpvote), h.Complaints.ToggleUpvote)
			complaints.POST("/:id/updates", requireAuth, can(authz.ComplaintAddUpdate), h.Complaints.AddUpdate)

			complaints.GET("/:id/comments", h.Comments.ListComments)
			complaints.POST("/:id/comments", requireAuth, can(authz.CommentCreate), h.Comments.CreateComment)
			complaints.DELETE("/:id/comments/:commentId", requireAuth, h.Comments.DeleteComment)
		}

		// User routes
		users := api.Group("/users")
		{
			users.GET("/leaderboard", h.Users.Leaderboard)
			users.PUT("/profile", requireAuth, h.Users.UpdateProfile)
			users.GET("/:id", h.Users.GetProfile)
		}

		// Volunteer routes
		volunteers := api.Group("/volunteers/opportunities")
		{
			volunteers.GET("", h.Volunteers.ListOpportunities)
			volunteers.POST("", requireAuth, can(authz.VolunteerCreate), h.Volunteers.CreateOpportunity)
			volunteers.POST("/:id/join", requireAuth, can(authz.VolunteerJoin), h.Volunteers.JoinOpportunity)
		}
	}

	if h.WS != nil {
		r.GET("/ws", h.WS.Connect)
	}

	r.NoRoute(func(c *gin.Context) {
		apierrors.NotFound(c, "Route not found")
	})
}
