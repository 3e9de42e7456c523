package routes

import (
	"calibration-system/internal/controllers"
	"calibration-system/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func runOutgoingRouter(g *echo.Group, outgoingService services.OutgoingServiceInterface, logger *zap.Logger) {
	ctrl := controllers.NewOutgoingController(outgoingService, logger)

	g.POST("/incoming/:id/complete", ctrl.Complete)
	g.POST("/outgoing/:id/pickup", ctrl.ConfirmPickup)
	g.GET("/outgoing/for-pickup", ctrl.ListReadyForPickup)
	g.GET("/outgoing/completed", ctrl.ListCompleted)
	g.GET("/outgoing/due-for-recalibration", ctrl.ListDueForRecalibration)
}
