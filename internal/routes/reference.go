package routes

import (
	"calibration-system/internal/controllers"
	"calibration-system/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func runReferenceRouter(g *echo.Group, referenceService services.ReferenceServiceInterface, logger *zap.Logger) {
	ctrl := controllers.NewReferenceController(referenceService, logger)

	g.GET("/departments/:id", ctrl.FindDepartment)
	g.GET("/locations/:id", ctrl.FindLocation)
	g.GET("/plants/:id", ctrl.FindPlant)
}
