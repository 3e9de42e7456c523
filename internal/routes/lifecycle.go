package routes

import (
	"calibration-system/internal/controllers"
	"calibration-system/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func runLifecycleRouter(g *echo.Group, lifecycleService services.LifecycleServiceInterface, logger *zap.Logger, adminOnly echo.MiddlewareFunc) {
	ctrl := controllers.NewLifecycleController(lifecycleService, logger)

	g.DELETE("/incoming/:id", ctrl.Archive, adminOnly)
	g.POST("/incoming/:id/restore", ctrl.Restore, adminOnly)
	g.POST("/recall-numbers", ctrl.IssueRecallNumber)
}
