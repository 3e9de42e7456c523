package main

import (
	"context"
	"log"
	"net/http"

	"calibration-system/internal/routes"
	"calibration-system/pkg/config"
	"calibration-system/pkg/customvalidator"
	"calibration-system/pkg/database/postgresql"
	apperrors "calibration-system/pkg/errors"
	applogger "calibration-system/pkg/logger"
	"calibration-system/pkg/service"
	"calibration-system/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found or could not be loaded.")
	}

	e := echo.New()
	logger := applogger.NewLogger()
	cfg := config.New()

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		DisableStackAll: true,
		StackSize:       1 << 10,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("!!! ОБНАРУЖЕНА ПАНИКА (PANIC) !!!",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
				zap.String("stack", string(stack)),
			)
			if !c.Response().Committed {
				httpErr := apperrors.NewHttpError(http.StatusInternalServerError, "Внутренняя ошибка сервера", err, nil)
				utils.ErrorResponse(c, httpErr, logger)
			}
			return err
		},
	}))

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"http://localhost:5173"},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		ExposeHeaders:    []string{"Content-Disposition"},
	}))

	v := validator.New()
	if err := customvalidator.RegisterCustomValidations(v); err != nil {
		logger.Fatal("Ошибка регистрации кастомных правил валидации", zap.Error(err))
	}
	e.Validator = utils.NewValidator(v)

	dbConn := postgresql.ConnectDB(cfg.Postgres.DSN)
	defer dbConn.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       0,
	})
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		logger.Fatal("не удалось подключиться к Redis", zap.Error(err), zap.String("address", cfg.Redis.Address))
	}

	jwtSvc := service.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.AccessTokenTTL, cfg.JWT.RefreshTokenTTL)

	loggers := &routes.Loggers{
		Main:     logger,
		Auth:     logger.Named("auth"),
		Incoming: logger.Named("incoming"),
		Outgoing: logger.Named("outgoing"),
	}
	routes.InitRouter(e, dbConn, redisClient, jwtSvc, loggers, cfg)

	logger.Info("🚀 Сервер запущен", zap.String("port", cfg.Server.Port))
	if err := e.Start(":" + cfg.Server.Port); err != nil {
		logger.Fatal("Ошибка запуска сервера", zap.Error(err))
	}
}
