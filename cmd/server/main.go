package main

import (
	"log"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"

	"github.com/Zozo-Cat/trading-tracker-sub002/internal/config"
	"github.com/Zozo-Cat/trading-tracker-sub002/internal/constants"
	"github.com/Zozo-Cat/trading-tracker-sub002/internal/database"
	"github.com/Zozo-Cat/trading-tracker-sub002/internal/handlers"
	"github.com/Zozo-Cat/trading-tracker-sub002/internal/middleware"
	"github.com/Zozo-Cat/trading-tracker-sub002/internal/repository"
	"github.com/Zozo-Cat/trading-tracker-sub002/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Initialize repositories
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	communityRepo := repository.NewCommunityRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	inviteRepo := repository.NewInviteRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo)
	communityService := services.NewCommunityService(communityRepo, teamRepo)
	teamService := services.NewTeamService(teamRepo, communityRepo)
	inviteService := services.NewInviteService(inviteRepo, teamRepo, communityRepo)
	joinService := services.NewJoinService(teamRepo, communityRepo, inviteRepo)
	roleService := services.NewRoleService(teamRepo, communityRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	communityHandler := handlers.NewCommunityHandler(communityService)
	teamHandler := handlers.NewTeamHandler(teamService, roleService)
	inviteHandler := handlers.NewInviteHandler(inviteService, roleService)
	joinHandler := handlers.NewJoinHandler(joinService)
	authorityHandler := handlers.NewAuthorityHandler(roleService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Membership API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// Community routes (protected)
		communities := api.Group("/communities")
		communities.Use(middleware.RequireAuth())
		{
			communities.POST("", communityHandler.CreateCommunity)
			communities.GET("", communityHandler.ListCommunities)
			communities.GET("/:id", middleware.RequireCommunityAccess(), communityHandler.GetCommunity)
			communities.GET("/:id/can-delete", middleware.RequireCommunityAccess(), communityHandler.CanDeleteCommunity)
			communities.DELETE("/:id", middleware.RequireCommunityAccess(), middleware.RequireCommunityLead(), communityHandler.DeleteCommunity)
			communities.DELETE("/:id/members/:user_id", middleware.RequireCommunityAccess(), middleware.RequireCommunityLead(), communityHandler.RemoveMember)
		}

		// Team routes (protected)
		teams := api.Group("/teams")
		teams.Use(middleware.RequireAuth())
		{
			teams.POST("", teamHandler.CreateTeam)
			teams.GET("/:id", teamHandler.GetTeam)
			teams.PATCH("/:id", teamHandler.AssignParent)
			teams.GET("/:id/members", teamHandler.ListMembers)
			teams.POST("/:id/members", teamHandler.AddMember)
			teams.GET("/:id/authority", authorityHandler.ResolveAuthority)
			teams.GET("/:id/can-delete", teamHandler.CanDeleteTeam)
			teams.DELETE("/:id", teamHandler.DeleteTeam)
		}

		// Code redemption (protected)
		api.POST("/join", middleware.RequireAuth(), joinHandler.RedeemCode)
		api.POST("/leave", middleware.RequireAuth(), joinHandler.LeaveGroup)

		// Invite routes (protected)
		invites := api.Group("/invites")
		invites.Use(middleware.RequireAuth())
		{
			invites.POST("", inviteHandler.CreateInvite)
			invites.GET("", inviteHandler.ListInvites)
			invites.DELETE("/:id", inviteHandler.DeleteInvite)
		}
	}

	// Start server
	log.Printf("Server starting on %s", cfg.ListenAddr)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
