package routes

import (
	"serendibgo/internal/handlers"
	"serendibgo/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupBookingRoutes wires the booking lifecycle and assignment endpoints.
// Assignment is an operator action behind the staff role.
func SetupBookingRoutes(
	r *gin.RouterGroup,
	jwtSecret string,
	bookingHandler *handlers.BookingHandler,
	assignmentHandler *handlers.AssignmentHandler,
) {
	bookings := r.Group("/bookings")
	bookings.Use(middleware.AuthRequired(jwtSecret))
	{
		bookings.POST("", bookingHandler.Create)
		bookings.GET("/:id", bookingHandler.Get)
		bookings.GET("/:id/status-history", bookingHandler.StatusHistory)
		bookings.PATCH("/:id/status", bookingHandler.UpdateStatus)
	}

	staff := r.Group("/bookings")
	staff.Use(middleware.AuthRequired(jwtSecret), middleware.StaffRequired())
	{
		staff.POST("/:id/assign", assignmentHandler.Assign)
	}
}
