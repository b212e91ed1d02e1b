package routes

import (
	"serendibgo/internal/handlers"
	"serendibgo/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupProviderRoutes wires the provider profile, lifecycle and availability
// endpoints. Status and verification changes are operator actions behind the
// staff role.
func SetupProviderRoutes(
	r *gin.RouterGroup,
	jwtSecret string,
	providerHandler *handlers.ProviderHandler,
	bookingHandler *handlers.BookingHandler,
	assignmentHandler *handlers.AssignmentHandler,
) {
	providers := r.Group("/providers")
	providers.Use(middleware.AuthRequired(jwtSecret))
	{
		providers.POST("", providerHandler.Register)
		providers.GET("", providerHandler.List)
		providers.GET("/assignable", providerHandler.ListAssignable)
		providers.GET("/:id", providerHandler.Get)
		providers.GET("/:id/status-history", providerHandler.StatusHistory)
		providers.GET("/:id/eligibility", providerHandler.Eligibility)
		providers.GET("/:id/availability", assignmentHandler.CheckAvailability)
		providers.GET("/:id/bookings", bookingHandler.ProviderBookings)
		providers.PUT("/:id/availability-policy", providerHandler.UpdatePolicy)
	}

	staff := r.Group("/providers")
	staff.Use(middleware.AuthRequired(jwtSecret), middleware.StaffRequired())
	{
		staff.PATCH("/:id/status", providerHandler.UpdateStatus)
		staff.PATCH("/:id/verification", providerHandler.UpdateVerification)
	}
}
