package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"calibration-system/internal/repositories"
	"calibration-system/internal/services"
	"calibration-system/pkg/config"
	"calibration-system/pkg/constants"
	"calibration-system/pkg/middleware"
	"calibration-system/pkg/service"
)

type Loggers struct {
	Main     *zap.Logger
	Auth     *zap.Logger
	Incoming *zap.Logger
	Outgoing *zap.Logger
}

func InitRouter(e *echo.Echo, dbConn *pgxpool.Pool, redisClient *redis.Client, jwtSvc service.JWTService, loggers *Loggers, cfg *config.Config) {
	loggers.Main.Info("InitRouter: создание маршрутов")

	api := e.Group("/api")
	authMW := middleware.NewAuthMiddleware(jwtSvc, loggers.Auth)
	txManager := repositories.NewTxManager(dbConn)

	// Репозитории.
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)
	employeeRepo := repositories.NewEmployeeRepository(dbConn)
	equipmentRepo := repositories.NewEquipmentRepository(dbConn, loggers.Main)
	incomingRepo := repositories.NewIncomingRepository(dbConn, loggers.Incoming)
	outgoingRepo := repositories.NewOutgoingRepository(dbConn, loggers.Outgoing)
	referenceRepo := repositories.NewReferenceRepository(dbConn, cacheRepo, loggers.Main)
	reportRepo := repositories.NewReportRepository(dbConn)

	// Сервисы.
	equipmentService := services.NewEquipmentService(equipmentRepo, loggers.Main)
	lifecycleService := services.NewLifecycleService(txManager, incomingRepo, outgoingRepo, equipmentRepo, cfg.Recall, loggers.Main)
	incomingService := services.NewIncomingService(txManager, incomingRepo, employeeRepo, equipmentService, lifecycleService, loggers.Incoming)
	outgoingService := services.NewOutgoingService(txManager, outgoingRepo, incomingRepo, employeeRepo, equipmentService, loggers.Outgoing)
	reportService := services.NewReportService(reportRepo, loggers.Main)
	authService := services.NewAuthService(employeeRepo, jwtSvc, loggers.Auth)
	dashboardService := services.NewDashboardService(incomingRepo, outgoingRepo, loggers.Main)
	referenceService := services.NewReferenceService(referenceRepo)

	// Маршруты: /api/auth открыт, остальное за Bearer-токеном.
	secureGroup := api.Group("", authMW.Auth)
	adminOnly := authMW.RequireRole(constants.RoleAdmin)

	runAuthRouter(api, authService, loggers.Auth)
	runIncomingRouter(secureGroup, incomingService, loggers.Incoming, adminOnly)
	runOutgoingRouter(secureGroup, outgoingService, loggers.Outgoing)
	runLifecycleRouter(secureGroup, lifecycleService, loggers.Main, adminOnly)
	runEquipmentRouter(secureGroup, equipmentService, loggers.Main)
	runReportRouter(secureGroup, reportService, loggers.Main)
	runDashboardRouter(secureGroup, dashboardService, loggers.Main)
	runReferenceRouter(secureGroup, referenceService, loggers.Main)

	loggers.Main.Info("InitRouter: маршруты созданы")
}
