package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"umroh-system/internal/controllers"
	"umroh-system/internal/repositories"
	"umroh-system/internal/services"
	"umroh-system/pkg/config"
	"umroh-system/pkg/database/postgresql"
	"umroh-system/pkg/filestorage"
	"umroh-system/pkg/middleware"
	"umroh-system/pkg/service"
)

// InitRouter wires repositories, services and controllers and registers
// every route. The DataSource and redis client are built in main and
// passed down; nothing here owns a connection lifecycle.
func InitRouter(e *echo.Echo, ds *postgresql.DataSource, redisClient *redis.Client, jwtSvc service.JWTService, cfg *config.Config, logger *zap.Logger) error {
	api := e.Group("/api")
	authMW := middleware.NewAuthMiddleware(jwtSvc, cfg.Auth, logger)

	storage, err := filestorage.NewLocalFileStorage(cfg.Upload.BasePath)
	if err != nil {
		return err
	}

	// Repositories.
	userRepo := repositories.NewUserRepository(ds, logger)
	packageRepo := repositories.NewPackageRepository(ds, logger)
	jamaahRepo := repositories.NewJamaahRepository(ds, logger)
	groupRepo := repositories.NewDepartureGroupRepository(ds, logger)
	pnrRepo := repositories.NewFlightPNRRepository(ds, logger)
	equipmentRepo := repositories.NewEquipmentRepository(ds, logger)
	documentRepo := repositories.NewDocumentRepository(ds, logger)
	marketingRepo := repositories.NewMarketingRepository(ds, logger)
	reportRepo := repositories.NewReportRepository(ds, logger)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient, logger)

	// Services.
	authService := services.NewAuthService(userRepo, jwtSvc, logger)
	packageService := services.NewPackageService(packageRepo, logger)
	jamaahService := services.NewJamaahService(jamaahRepo, logger)
	groupService := services.NewDepartureGroupService(groupRepo, packageRepo, logger)
	flightService := services.NewFlightService(pnrRepo, logger)
	equipmentService := services.NewEquipmentService(equipmentRepo, logger)
	documentService := services.NewDocumentService(documentRepo, storage, logger)
	marketingService := services.NewMarketingService(marketingRepo, cacheRepo, cfg.WAHA, logger)
	reportService := services.NewReportService(reportRepo, logger)

	// Controllers.
	authCtrl := controllers.NewAuthController(authService, logger)
	packageCtrl := controllers.NewPackageController(packageService, logger)
	jamaahCtrl := controllers.NewJamaahController(jamaahService, logger)
	groupCtrl := controllers.NewDepartureGroupController(groupService, logger)
	flightCtrl := controllers.NewFlightController(flightService, logger)
	equipmentCtrl := controllers.NewEquipmentController(equipmentService, logger)
	documentCtrl := controllers.NewDocumentController(documentService, cfg.Upload.MaxFileSize, logger)
	marketingCtrl := controllers.NewMarketingController(marketingService, logger)
	reportCtrl := controllers.NewReportController(reportService, logger)

	// Public routes.
	api.POST("/auth/login", authCtrl.Login)
	api.POST("/auth/refresh", authCtrl.Refresh)
	// The WhatsApp gateway cannot carry staff credentials.
	api.POST("/marketing/webhook", marketingCtrl.Webhook)

	// Everything below requires an authenticated principal.
	secured := api.Group("", authMW.Auth)

	packages := secured.Group("/packages")
	packages.POST("", packageCtrl.Create)
	packages.GET("", packageCtrl.FindAll)
	packages.GET("/:id", packageCtrl.FindByID)
	packages.PUT("/:id", packageCtrl.Update)
	packages.DELETE("/:id", packageCtrl.Delete)

	jamaah := secured.Group("/jamaah")
	jamaah.POST("", jamaahCtrl.Create)
	jamaah.GET("", jamaahCtrl.FindAll)
	jamaah.GET("/:id", jamaahCtrl.FindByID)
	jamaah.PUT("/:id", jamaahCtrl.Update)
	jamaah.DELETE("/:id", jamaahCtrl.Delete)

	groups := secured.Group("/departure-groups")
	groups.POST("", groupCtrl.Create)
	groups.GET("", groupCtrl.FindAll)
	groups.GET("/statistics", groupCtrl.Statistics)
	groups.GET("/package/:packageId", groupCtrl.FindByPackage)
	groups.GET("/:id", groupCtrl.FindByID)
	groups.PUT("/:id", groupCtrl.Update)
	groups.DELETE("/:id", groupCtrl.Delete)
	groups.POST("/:id/members", groupCtrl.AddMember)
	groups.DELETE("/:id/members/:jamaahId", groupCtrl.RemoveMember)
	groups.POST("/:id/sub-groups", groupCtrl.CreateSubGroup)

	flight := secured.Group("/flight/pnr")
	flight.POST("", flightCtrl.CreatePNR)
	flight.GET("", flightCtrl.FindAll)
	flight.GET("/dashboard", flightCtrl.DashboardStats)
	flight.GET("/available-jamaah/:packageId", flightCtrl.AvailableJamaah)
	flight.GET("/:id", flightCtrl.FindByID)
	flight.PUT("/:id", flightCtrl.Update)
	flight.DELETE("/:id", flightCtrl.Delete)
	flight.POST("/:id/passengers", flightCtrl.AssignJamaah)
	flight.DELETE("/:id/passengers/:jamaahId", flightCtrl.RemoveJamaah)
	flight.POST("/:id/payments", flightCtrl.CreatePaymentSchedule)
	flight.PUT("/payments/:paymentId", flightCtrl.UpdatePaymentSchedule)

	equipment := secured.Group("/equipment")
	equipment.POST("/distributions", equipmentCtrl.SaveDistribution)
	equipment.GET("/distributions", equipmentCtrl.FindAllDistributions)
	equipment.GET("/distributions/jamaah/:jamaahId", equipmentCtrl.FindByJamaah)
	equipment.DELETE("/distributions/:id/items/:itemId", equipmentCtrl.RemoveItem)
	equipment.GET("/checklist", equipmentCtrl.ChecklistTemplate)
	equipment.GET("/items", equipmentCtrl.FindInventoryItems)
	equipment.POST("/items", equipmentCtrl.CreateInventoryItem)
	equipment.PUT("/items/:id/stock", equipmentCtrl.AdjustStock)
	equipment.GET("/groups/:groupId/summary", equipmentCtrl.GroupSummary)

	documents := secured.Group("/documents")
	documents.POST("", documentCtrl.Upload)
	documents.GET("", documentCtrl.FindAll)
	documents.GET("/statistics", documentCtrl.Statistics)
	documents.GET("/jamaah/:jamaahId", documentCtrl.FindByJamaah)
	documents.GET("/:id", documentCtrl.FindByID)
	documents.GET("/:id/download", documentCtrl.Download)
	documents.GET("/:id/view", documentCtrl.View)
	documents.PUT("/:id/verify", documentCtrl.Verify)
	documents.DELETE("/:id", documentCtrl.Delete)

	marketing := secured.Group("/marketing")
	marketing.GET("/customers", marketingCtrl.FindAllCustomers)
	marketing.GET("/customers/:id", marketingCtrl.FindCustomer)
	marketing.PUT("/customers/:id", marketingCtrl.UpdateCustomer)
	marketing.PUT("/customers/:id/stage", marketingCtrl.UpdateStage)
	marketing.POST("/customers/:id/messages", marketingCtrl.SendMessage)
	marketing.PUT("/customers/:id/read", marketingCtrl.MarkAsRead)
	marketing.GET("/statistics", marketingCtrl.Statistics)

	reports := secured.Group("/reports")
	reports.GET("/manifest", reportCtrl.JamaahManifest)

	return nil
}
