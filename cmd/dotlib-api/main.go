package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dotlib/dotlib-api/internal/config"
	"github.com/dotlib/dotlib-api/internal/database"
	"github.com/dotlib/dotlib-api/internal/handlers"
	authmw "github.com/dotlib/dotlib-api/internal/middleware"
	"github.com/dotlib/dotlib-api/internal/services"
	"github.com/dotlib/dotlib-api/internal/sse"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/m1z23r/drift/pkg/middleware"
	"github.com/sirupsen/logrus"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}
	if cfg.IsProduction() {
		log.SetLevel(logrus.InfoLevel)
	} else {
		log.SetLevel(logrus.DebugLevel)
	}

	ctx := context.Background()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.WithError(err).Fatal("failed to run migrations")
	}

	hub := sse.NewHub()
	go hub.Run()

	jwtService := services.NewJWTService(cfg.JWTSecret, cfg.JWTAccessExpiry, cfg.JWTRefreshExpiry)
	tokenService := services.NewTokenService(db)
	accessService := services.NewAccessService(db)
	cascadeService := services.NewCascadeService(db)
	notificationService := services.NewNotificationService(db, hub, log)
	webhookService := services.NewWebhookService(db, log, cfg.DiscordBotToken, cfg.DiscordChannelID)
	userService := services.NewUserService(db, webhookService)
	accountService := services.NewAccountService(db, cascadeService, log)
	teamService := services.NewTeamService(db, accessService, cascadeService, notificationService)
	listService := services.NewListService(db, accessService, cascadeService, hub)
	itemService := services.NewItemService(db, accessService, cascadeService, notificationService, hub)
	subtaskService := services.NewSubtaskService(db, accessService)
	commentService := services.NewCommentService(db, accessService, notificationService)
	calendarService := services.NewCalendarService(itemService)
	ganttService := services.NewGanttService(db, accessService)
	breakdownService := services.NewBreakdownService(db, accessService, log, cfg.GeminiAPIKey)
	githubService := services.NewGitHubService(db, accessService, log, cfg.GitHubToken)
	emailService := services.NewEmailService(cfg.SMTP)

	authHandler := handlers.NewAuthHandler(cfg, userService, tokenService, jwtService)
	userHandler := handlers.NewUserHandler(userService, accountService)
	teamHandler := handlers.NewTeamHandler(teamService, userService, emailService, cfg.BaseURL)
	invitationHandler := handlers.NewInvitationHandler(teamService)
	listHandler := handlers.NewListHandler(listService, calendarService, ganttService)
	itemHandler := handlers.NewItemHandler(itemService, breakdownService)
	subtaskHandler := handlers.NewSubtaskHandler(subtaskService)
	commentHandler := handlers.NewCommentHandler(commentService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	webhookHandler := handlers.NewWebhookHandler(webhookService)
	githubHandler := handlers.NewGitHubHandler(githubService)
	sseHandler := handlers.NewSSEHandler(hub, accessService)

	app := drift.New()

	if cfg.IsProduction() {
		app.SetMode(drift.ReleaseMode)
	} else {
		app.SetMode(drift.DebugMode)
	}

	app.Use(middleware.Recovery())
	app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:       86400,
	}))
	app.Use(middleware.BodyParser())

	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Get("/:provider/consent", authHandler.GetConsentURL)
	auth.Get("/:provider/callback", authHandler.Callback)
	auth.Post("/exchange", authHandler.ExchangeCode)
	auth.Post("/refresh", authHandler.RefreshToken)
	auth.Post("/logout", authHandler.Logout)

	protected := api.Group("")
	protected.Use(authmw.Auth(jwtService))

	protected.Post("/auth/logout-all", authHandler.LogoutAll)

	protected.Get("/users/me", userHandler.Me)
	protected.Post("/users/me/profile", userHandler.CreateProfile)
	protected.Delete("/users/me", userHandler.DeleteAccount)
	protected.Get("/users/:username", userHandler.GetByUsername)

	protected.Get("/teams", teamHandler.List)
	protected.Post("/teams", teamHandler.Create)
	protected.Get("/teams/:id", teamHandler.Get)
	protected.Patch("/teams/:id", teamHandler.Update)
	protected.Delete("/teams/:id", teamHandler.Delete)
	protected.Get("/teams/:id/members", teamHandler.GetMembers)
	protected.Delete("/teams/:id/members/:userId", teamHandler.RemoveMember)
	protected.Post("/teams/:id/leave", teamHandler.Leave)
	protected.Post("/teams/:id/invitations", teamHandler.Invite)
	protected.Get("/teams/:id/invitations", teamHandler.ListInvitations)
	protected.Delete("/teams/:id/invitations/:invitationId", teamHandler.CancelInvitation)

	protected.Get("/invitations", invitationHandler.List)
	protected.Post("/invitations/:id/accept", invitationHandler.Accept)
	protected.Post("/invitations/:id/decline", invitationHandler.Decline)

	protected.Get("/lists", listHandler.List)
	protected.Post("/lists", listHandler.Create)
	protected.Patch("/lists/:id", listHandler.Rename)
	protected.Delete("/lists/:id", listHandler.Delete)
	protected.Get("/lists/:id/calendar.ics", listHandler.Calendar)
	protected.Get("/lists/:id/gantt", listHandler.Gantt)

	protected.Get("/lists/:listId/items", itemHandler.List)
	protected.Post("/lists/:listId/items", itemHandler.Create)
	protected.Patch("/items/:id", itemHandler.Update)
	protected.Delete("/items/:id", itemHandler.Delete)
	protected.Post("/items/:id/breakdown", itemHandler.Breakdown)

	protected.Get("/items/:itemId/subtasks", subtaskHandler.List)
	protected.Post("/items/:itemId/subtasks", subtaskHandler.Create)
	protected.Patch("/subtasks/:id", subtaskHandler.Update)
	protected.Delete("/subtasks/:id", subtaskHandler.Delete)

	protected.Get("/items/:itemId/comments", commentHandler.List)
	protected.Post("/items/:itemId/comments", commentHandler.Create)
	protected.Delete("/comments/:id", commentHandler.Delete)

	protected.Get("/notifications", notificationHandler.List)
	protected.Post("/notifications/:id/read", notificationHandler.MarkAsRead)

	protected.Get("/webhooks", webhookHandler.List)
	protected.Post("/webhooks", webhookHandler.Create)
	protected.Delete("/webhooks/:id", webhookHandler.Delete)

	protected.Get("/lists/:listId/repos", githubHandler.List)
	protected.Post("/lists/:listId/repos", githubHandler.Link)
	protected.Delete("/lists/:listId/repos/:repoId", githubHandler.Unlink)
	protected.Post("/lists/:listId/repos/sync", githubHandler.Sync)

	protected.Get("/events", sseHandler.Connect)
	protected.Post("/sse/:clientId/subscribe/:listId", sseHandler.Subscribe)
	protected.Post("/sse/:clientId/unsubscribe/:listId", sseHandler.Unsubscribe)

	api.Get("/health", func(c *drift.Context) {
		_ = c.JSON(200, map[string]string{"status": "ok"})
	})

	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		for range ticker.C {
			_ = tokenService.CleanupExpired(context.Background())
		}
	}()

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		log.WithField("addr", addr).Info("server starting")
		if err := app.Run(addr); err != nil {
			log.WithError(err).Fatal("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
}
