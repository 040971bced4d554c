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

type AvailabilityHandler struct {
	inventoryService services.InventoryService
	rateService      services.RateService
	Tracer           trace.Tracer
}

func NewAvailabilityHandler(inventoryService services.InventoryService, rateService services.RateService, tr trace.Tracer) AvailabilityHandler {
	return AvailabilityHandler{inventoryService, rateService, tr}
}

func (h *AvailabilityHandler) CheckAvailability(c *gin.Context) {
	spanCtx, span := h.Tracer.Start(c.Request.Context(), "AvailabilityHandler.CheckAvailability")
	defer span.End()

	var req domain.CheckAvailabilityRequest
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

	availability, err := h.inventoryService.CheckAvailability(spanCtx, roomTypeID, req.CheckInDate, req.CheckOutDate, req.Quantity)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, availability)
}

func (h *AvailabilityHandler) SeedInventory(c *gin.Context) {
	spanCtx, span := h.Tracer.Start(c.Request.Context(), "AvailabilityHandler.SeedInventory")
	defer span.End()

	var req domain.SeedInventoryRequest
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

	days, err := h.inventoryService.SeedRange(spanCtx, roomTypeID, req.StartDate, req.EndDate, req.TotalStock)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "Inventory seeded")
	c.JSON(http.StatusCreated, days)
}

func (h *AvailabilityHandler) GetInventory(c *gin.Context) {
	spanCtx, span := h.Tracer.Start(c.Request.Context(), "AvailabilityHandler.GetInventory")
	defer span.End()

	roomTypeID, err := primitive.ObjectIDFromHex(c.Param("roomTypeId"))
	if err != nil {
		span.SetStatus(codes.Error, "Invalid room type id")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid room type id"})
		return
	}

	var query struct {
		StartDate string `form:"start_date"`
		EndDate   string `form:"end_date"`
	}
	if err := c.BindQuery(&query); err != nil {
		span.SetStatus(codes.Error, "Invalid query")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query"})
		return
	}
	startDate, endDate, err := utils.ParseDateRange(query.StartDate, query.EndDate)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeError(c, err)
		return
	}

	days, err := h.inventoryService.GetInventory(spanCtx, roomTypeID, startDate, endDate)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, days)
}

func (h *AvailabilityHandler) SetDailyRate(c *gin.Context) {
	spanCtx, span := h.Tracer.Start(c.Request.Context(), "AvailabilityHandler.SetDailyRate")
	defer span.End()

	var req domain.SetDailyRateRequest
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

	rate, err := h.rateService.SetDailyRate(spanCtx, roomTypeID, req.Date, req.Price)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "Daily rate set")
	c.JSON(http.StatusCreated, rate)
}
