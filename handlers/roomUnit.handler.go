package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"booking-service/domain"
	"booking-service/services"
	"booking-service/utils"
)

type RoomUnitHandler struct {
	roomUnitService services.RoomUnitService
	Tracer          trace.Tracer
}

func NewRoomUnitHandler(roomUnitService services.RoomUnitService, tr trace.Tracer) RoomUnitHandler {
	return RoomUnitHandler{roomUnitService, tr}
}

func (h *RoomUnitHandler) AddRoomUnit(c *gin.Context) {
	spanCtx, span := h.Tracer.Start(c.Request.Context(), "RoomUnitHandler.AddRoomUnit")
	defer span.End()

	var req domain.AddRoomUnitRequest
	if err := c.BindJSON(&req); err != nil {
		span.SetStatus(codes.Error, "Invalid JSON request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON request"})
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeError(c, err)
		return
	}

	roomTypeID, err := primitive.ObjectIDFromHex(req.RoomTypeID)
	if err != nil {
		span.SetStatus(codes.Error, "Invalid room type id")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid room type id"})
		return
	}

	unit := &domain.RoomUnit{
		RoomTypeID: roomTypeID,
		RoomNumber: req.RoomNumber,
		Floor:      req.Floor,
		Status:     domain.UnitAvailable,
	}
	if err := h.roomUnitService.AddRoomUnit(spanCtx, unit); err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "Room unit added")
	c.JSON(http.StatusCreated, unit)
}

func (h *RoomUnitHandler) GetUnitsByRoomType(c *gin.Context) {
	spanCtx, span := h.Tracer.Start(c.Request.Context(), "RoomUnitHandler.GetUnitsByRoomType")
	defer span.End()

	roomTypeID, err := primitive.ObjectIDFromHex(c.Param("roomTypeId"))
	if err != nil {
		span.SetStatus(codes.Error, "Invalid room type id")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid room type id"})
		return
	}

	units, err := h.roomUnitService.GetUnitsByRoomType(spanCtx, roomTypeID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, units)
}

func (h *RoomUnitHandler) SetUnitStatus(c *gin.Context) {
	spanCtx, span := h.Tracer.Start(c.Request.Context(), "RoomUnitHandler.SetUnitStatus")
	defer span.End()

	unitID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		span.SetStatus(codes.Error, "Invalid room unit id")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid room unit id"})
		return
	}

	var req domain.SetUnitStatusRequest
	if err := c.BindJSON(&req); err != nil {
		span.SetStatus(codes.Error, "Invalid JSON request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON request"})
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeError(c, err)
		return
	}

	unit, err := h.roomUnitService.SetStatus(spanCtx, unitID, req.Status, req.Actor, req.Reason)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "Unit status updated")
	c.JSON(http.StatusOK, unit)
}

func (h *RoomUnitHandler) GetUnitHistory(c *gin.Context) {
	spanCtx, span := h.Tracer.Start(c.Request.Context(), "RoomUnitHandler.GetUnitHistory")
	defer span.End()

	unitID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		span.SetStatus(codes.Error, "Invalid room unit id")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid room unit id"})
		return
	}

	history, err := h.roomUnitService.History(spanCtx, unitID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}
