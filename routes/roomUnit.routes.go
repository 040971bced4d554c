package routes

import (
	"github.com/gin-gonic/gin"

	"booking-service/handlers"
	"booking-service/services"
)

type RoomUnitRouteHandler struct {
	roomUnitHandler handlers.RoomUnitHandler
	roomUnitService services.RoomUnitService
}

func NewRoomUnitRouteHandler(roomUnitHandler handlers.RoomUnitHandler, roomUnitService services.RoomUnitService) RoomUnitRouteHandler {
	return RoomUnitRouteHandler{roomUnitHandler, roomUnitService}
}

func (rc *RoomUnitRouteHandler) RoomUnitRoute(rg *gin.RouterGroup) {
	router := rg.Group("/units")
	router.Use(handlers.ExtractTraceInfoMiddleware())
	router.POST("", rc.roomUnitHandler.AddRoomUnit)
	router.GET("/roomType/:roomTypeId", rc.roomUnitHandler.GetUnitsByRoomType)
	router.POST("/:id/status", rc.roomUnitHandler.SetUnitStatus)
	router.GET("/:id/history", rc.roomUnitHandler.GetUnitHistory)
}
