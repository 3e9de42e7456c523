package routes

import (
	"calibration-system/internal/controllers"
	"calibration-system/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func runIncomingRouter(g *echo.Group, incomingService services.IncomingServiceInterface, logger *zap.Logger, adminOnly echo.MiddlewareFunc) {
	ctrl := controllers.NewIncomingController(incomingService, logger)

	g.POST("/incoming", ctrl.Submit)
	g.GET("/incoming/my", ctrl.ListMy)
	g.GET("/incoming/:id", ctrl.View)
	g.PUT("/incoming/:id", ctrl.Edit)

	g.GET("/incoming", ctrl.List, adminOnly)
	g.POST("/incoming/:id/confirm", ctrl.Confirm, adminOnly)
}
