package routes

import (
	"calibration-system/internal/controllers"
	"calibration-system/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func runEquipmentRouter(g *echo.Group, equipmentService services.EquipmentServiceInterface, logger *zap.Logger) {
	ctrl := controllers.NewEquipmentController(equipmentService, logger)

	g.GET("/equipment", ctrl.GetEquipments)
	g.GET("/equipment/:id", ctrl.FindEquipment)
}
