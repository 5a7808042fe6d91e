// File: nikahlink/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"nikahlink/config"
	"nikahlink/cron"
	"nikahlink/database"
	"nikahlink/handlers"
	"nikahlink/routes"
	"nikahlink/services/admin"
	"nikahlink/services/invitation"
	"nikahlink/services/plan"
	"nikahlink/services/quota"
	"nikahlink/services/upgrade"
	"nikahlink/services/user"
	"nikahlink/utils"

	invitationRepoPkg "nikahlink/database/repository/invitation"
	settingsRepoPkg "nikahlink/database/repository/settings"
	transactionRepoPkg "nikahlink/database/repository/transaction"
	userRepoPkg "nikahlink/database/repository/user"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitAuthCache()
	utils.FirebaseInit()

	cloudinaryStorageService, err := utils.Cloudinary()
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize cloudinary storage service: %v", err)
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	// repositories.
	userRepo := userRepoPkg.NewMongoUserRepo()
	invitationRepo := invitationRepoPkg.NewMongoInvitationRepo()
	transactionRepo := transactionRepoPkg.NewMongoTransactionRepo()
	settingsRepo := settingsRepoPkg.NewMongoSettingsRepo()

	// services.
	catalog := plan.NewCatalog(settingsRepo)
	quotaGuard := quota.NewGuard(invitationRepo)

	userService := &user.DefaultUserService{
		Users:       userRepo,
		Invitations: invitationRepo,
		Catalog:     catalog,
	}
	invitationService := &invitation.DefaultInvitationService{
		Invitations: invitationRepo,
		Users:       userRepo,
		Catalog:     catalog,
		Quota:       quotaGuard,
		BaseURL:     config.AppConfig.BaseURL,
	}
	upgradeService := &upgrade.DefaultUpgradeService{
		Transactions: transactionRepo,
		Invitations:  invitationRepo,
		Catalog:      catalog,
		Storage:      cloudinaryStorageService,
	}
	adminService := &admin.DefaultAdminService{
		Users:        userRepo,
		Invitations:  invitationRepo,
		Transactions: transactionRepo,
		Settings:     settingsRepo,
		Catalog:      catalog,
	}

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		UserService: userService,
		UserHandler: &handlers.UserHandler{UserService: userService},
		InvitationHandler: &handlers.InvitationHandler{
			InvitationService: invitationService,
			QuotaGuard:        quotaGuard,
		},
		PublicHandler:  &handlers.PublicHandler{InvitationService: invitationService},
		UpgradeHandler: &handlers.UpgradeHandler{UpgradeService: upgradeService},
		AdminHandler: &handlers.AdminHandler{
			AdminService:      adminService,
			UpgradeService:    upgradeService,
			InvitationService: invitationService,
		},
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Background invitation expiry sweep.
	cron.InitExpiryWorker(invitationRepo)

	utils.StartHealthMonitor([]*redis.Client{utils.GetAuthCacheClient()}, database.MongoClient)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
