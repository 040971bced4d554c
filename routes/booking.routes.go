package routes

import (
	"github.com/gin-gonic/gin"

	"booking-service/handlers"
	"booking-service/services"
)

type BookingRouteHandler struct {
	bookingHandler handlers.BookingHandler
	bookingService services.BookingService
}

func NewBookingRouteHandler(bookingHandler handlers.BookingHandler, bookingService services.BookingService) BookingRouteHandler {
	return BookingRouteHandler{bookingHandler, bookingService}
}

func (rc *BookingRouteHandler) BookingRoute(rg *gin.RouterGroup) {
	router := rg.Group("/bookings")
	router.Use(handlers.ExtractTraceInfoMiddleware())
	router.POST("", rc.bookingHandler.CreateBooking)
	router.GET("/:id", rc.bookingHandler.GetBooking)
	router.GET("/guest/:guestId", rc.bookingHandler.GetBookingsByGuest)
	router.POST("/:id/confirm", rc.bookingHandler.ConfirmBooking)
	router.POST("/:id/checkin", rc.bookingHandler.CheckIn)
	router.POST("/:id/checkout", rc.bookingHandler.CheckOut)
	router.POST("/:id/cancel", rc.bookingHandler.CancelBooking)
	router.PATCH("/:id", rc.bookingHandler.ModifyBooking)
}
