package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rente-dev/rente/internal/handlers"
	"github.com/rente-dev/rente/internal/middleware"
	"github.com/rente-dev/rente/internal/types"
	"golang.org/x/time/rate"
)

func NewRouter() *gin.Engine {
	r := gin.Default()

	// Add CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)
		api.GET("/ws", middleware.AuthMiddleware(), handlers.WebSocket)

		auth := api.Group("/auth")
		{
			auth.POST("/register", middleware.RateLimit(rate.Limit(1), 10), handlers.Register)
			auth.POST("/login", middleware.RateLimit(rate.Limit(1), 10), handlers.Login)
			auth.POST("/logout", middleware.AuthMiddleware(), handlers.Logout)
			auth.GET("/me", middleware.AuthMiddleware(), handlers.Me)
			auth.PUT("/profile", middleware.AuthMiddleware(), handlers.UpdateProfile)
		}

		listings := api.Group("/listings")
		{
			listings.GET("", handlers.ListHouses)
			listings.GET("/:id", handlers.ShowHouse)

			landlord := listings.Group("", middleware.AuthMiddleware(), middleware.RequireRole(types.RoleLandlord))
			{
				landlord.POST("", handlers.CreateHouse)
				landlord.PUT("/:id", handlers.UpdateHouse)
				landlord.DELETE("/:id", handlers.DeleteHouse)
			}
		}

		api.GET("/my-listings", middleware.AuthMiddleware(), middleware.RequireRole(types.RoleLandlord), handlers.MyHouses)

		messages := api.Group("/messages", middleware.AuthMiddleware())
		{
			messages.GET("", handlers.ListConversations)
			messages.GET("/conversation/:user_id", handlers.ShowConversation)
			messages.POST("", handlers.SendMessage)
			messages.PATCH("/:id/read", handlers.MarkMessageAsRead)
		}

		tours := api.Group("/tour-requests", middleware.AuthMiddleware())
		{
			tours.POST("", middleware.RequireRole(types.RoleTenant), handlers.CreateTourRequest)
			tours.GET("/tenant", middleware.RequireRole(types.RoleTenant), handlers.ListTenantTourRequests)
			tours.POST("/:id/cancel", middleware.RequireRole(types.RoleTenant), handlers.CancelTourRequest)
			tours.GET("/landlord", middleware.RequireRole(types.RoleLandlord), handlers.ListLandlordTourRequests)
			tours.POST("/:id/accept", middleware.RequireRole(types.RoleLandlord), handlers.AcceptTourRequest)
			tours.POST("/:id/reject", middleware.RequireRole(types.RoleLandlord), handlers.RejectTourRequest)
		}

		users := api.Group("/users", middleware.AuthMiddleware())
		{
			users.GET("/:id", handlers.ShowUser)

			admin := users.Group("", middleware.RequireRole(types.RoleAdmin))
			{
				admin.PUT("/:id", handlers.UpdateUser)
				admin.DELETE("/:id", handlers.DeleteUser)
			}
		}

		api.GET("/tenants", middleware.AuthMiddleware(), middleware.RequireRole(types.RoleAdmin), handlers.ListTenants)
		api.GET("/landlords", middleware.AuthMiddleware(), middleware.RequireRole(types.RoleAdmin), handlers.ListLandlords)

		adminGroup := api.Group("/admin", middleware.AuthMiddleware(), middleware.RequireRole(types.RoleAdmin))
		{
			adminGroup.GET("/overview", handlers.GetOverviewStats)
		}
	}

	return r
}
