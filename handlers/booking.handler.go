package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"booking-service/domain"
	"booking-service/services"
)

type BookingHandler struct {
	bookingService services.BookingService
	Tracer         trace.Tracer
}

func NewBookingHandler(bookingService services.BookingService, tr trace.Tracer) BookingHandler {
	return BookingHandler{bookingService, tr}
}

func (h *BookingHandler) CreateBooking(c *gin.Context) {
	spanCtx, span := h.Tracer.Start(c.Request.Context(), "BookingHandler.CreateBooking")
	defer span.End()

	var req domain.CreateBookingRequest
	if err := c.BindJSON(&req); err != nil {
		span.SetStatus(codes.Error, "Invalid JSON request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON request"})
		return
	}

	booking, err := h.bookingService.CreateBooking(spanCtx, &req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "Booking created")
	c.JSON(http.StatusCreated, booking)
}

func (h *BookingHandler) GetBooking(c *gin.Context) {
	spanCtx, span := h.Tracer.Start(c.Request.Context(), "BookingHandler.GetBooking")
	defer span.End()

	bookingID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		span.SetStatus(codes.Error, "Invalid booking id")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking id"})
		return
	}

	booking, err := h.bookingService.GetBooking(spanCtx, bookingID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

func (h *BookingHandler) GetBookingsByGuest(c *gin.Context) {
	spanCtx, span := h.Tracer.Start(c.Request.Context(), "BookingHandler.GetBookingsByGuest")
	defer span.End()

	bookings, err := h.bookingService.GetBookingsByGuest(spanCtx, c.Param("guestId"))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func (h *BookingHandler) ConfirmBooking(c *gin.Context) {
	spanCtx, span := h.Tracer.Start(c.Request.Context(), "BookingHandler.ConfirmBooking")
	defer span.End()

	bookingID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		span.SetStatus(codes.Error, "Invalid booking id")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking id"})
		return
	}

	booking, err := h.bookingService.ConfirmBooking(spanCtx, bookingID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "Booking confirmed")
	c.JSON(http.StatusOK, booking)
}

func (h *BookingHandler) CheckIn(c *gin.Context) {
	spanCtx, span := h.Tracer.Start(c.Request.Context(), "BookingHandler.CheckIn")
	defer span.End()

	bookingID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		span.SetStatus(codes.Error, "Invalid booking id")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking id"})
		return
	}

	var req domain.CheckInRequest
	if c.Request.ContentLength > 0 {
		if err := c.BindJSON(&req); err != nil {
			span.SetStatus(codes.Error, "Invalid JSON request")
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON request"})
			return
		}
	}

	var unitID *primitive.ObjectID
	if req.RoomUnitID != nil {
		parsed, err := primitive.ObjectIDFromHex(*req.RoomUnitID)
		if err != nil {
			span.SetStatus(codes.Error, "Invalid room unit id")
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid room unit id"})
			return
		}
		unitID = &parsed
	}

	booking, err := h.bookingService.CheckIn(spanCtx, bookingID, unitID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "Booking checked in")
	c.JSON(http.StatusOK, booking)
}

func (h *BookingHandler) CheckOut(c *gin.Context) {
	spanCtx, span := h.Tracer.Start(c.Request.Context(), "BookingHandler.CheckOut")
	defer span.End()

	bookingID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		span.SetStatus(codes.Error, "Invalid booking id")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking id"})
		return
	}

	booking, err := h.bookingService.CheckOut(spanCtx, bookingID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "Booking checked out")
	c.JSON(http.StatusOK, booking)
}

func (h *BookingHandler) CancelBooking(c *gin.Context) {
	spanCtx, span := h.Tracer.Start(c.Request.Context(), "BookingHandler.CancelBooking")
	defer span.End()

	bookingID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		span.SetStatus(codes.Error, "Invalid booking id")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking id"})
		return
	}

	var req domain.CancelBookingRequest
	if c.Request.ContentLength > 0 {
		if err := c.BindJSON(&req); err != nil {
			span.SetStatus(codes.Error, "Invalid JSON request")
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON request"})
			return
		}
	}

	booking, err := h.bookingService.CancelBooking(spanCtx, bookingID, req.Reason)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "Booking cancelled")
	c.JSON(http.StatusOK, booking)
}

func (h *BookingHandler) ModifyBooking(c *gin.Context) {
	spanCtx, span := h.Tracer.Start(c.Request.Context(), "BookingHandler.ModifyBooking")
	defer span.End()

	bookingID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		span.SetStatus(codes.Error, "Invalid booking id")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking id"})
		return
	}

	var req domain.ModifyBookingRequest
	if err := c.BindJSON(&req); err != nil {
		span.SetStatus(codes.Error, "Invalid JSON request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON request"})
		return
	}

	booking, err := h.bookingService.ModifyBooking(spanCtx, bookingID, &req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "Booking modified")
	c.JSON(http.StatusOK, booking)
}
