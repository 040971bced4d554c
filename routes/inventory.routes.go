package routes

import (
	"github.com/gin-gonic/gin"

	"booking-service/handlers"
	"booking-service/services"
)

type InventoryRouteHandler struct {
	availabilityHandler handlers.AvailabilityHandler
	inventoryService    services.InventoryService
}

func NewInventoryRouteHandler(availabilityHandler handlers.AvailabilityHandler, inventoryService services.InventoryService) InventoryRouteHandler {
	return InventoryRouteHandler{availabilityHandler, inventoryService}
}

func (rc *InventoryRouteHandler) InventoryRoute(rg *gin.RouterGroup) {
	router := rg.Group("")
	router.Use(handlers.ExtractTraceInfoMiddleware())
	router.POST("/availability/check", rc.availabilityHandler.CheckAvailability)
	router.POST("/inventory/seed", rc.availabilityHandler.SeedInventory)
	router.GET("/inventory/:roomTypeId", rc.availabilityHandler.GetInventory)
	router.POST("/rates", rc.availabilityHandler.SetDailyRate)
}
