package handlers

import (
	"serendibgo/internal/models"
	"serendibgo/internal/services"
	"serendibgo/internal/utils"
	"serendibgo/internal/validators"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	bookingService services.BookingService
}

func NewBookingHandler(bookingService services.BookingService) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
	}
}

// Create records a new booking request. The booking starts in scheduled
// status with no provider; assignment is a separate operation.
// POST /api/v1/bookings
func (h *BookingHandler) Create(c *gin.Context) {
	requester, ok := actorID(c)
	if !ok {
		return
	}

	var req validators.BookingCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}
	if errs := validators.ValidateBookingCreate(&req); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.ToDetails())
		return
	}

	booking := &models.Booking{
		RequesterID:  requester,
		ProviderKind: models.ProviderKind(req.ProviderKind),
		Window: models.BookingWindow{
			Start: req.Start,
			End:   req.End,
		},
		Notes: req.Notes,
	}
	if req.City != "" {
		booking.Location = &models.BookingLocation{
			City:     req.City,
			District: req.District,
		}
	}

	if err := h.bookingService.CreateBooking(c.Request.Context(), booking); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, "Booking created successfully", booking)
}

// Get returns a single booking.
// GET /api/v1/bookings/:id
func (h *BookingHandler) Get(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	booking, err := h.bookingService.GetBooking(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Booking retrieved successfully", booking)
}

// UpdateStatus moves a booking through its status lifecycle.
// PATCH /api/v1/bookings/:id/status
func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	actor, ok := actorID(c)
	if !ok {
		return
	}

	var req validators.BookingStatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}
	if errs := validators.ValidateBookingStatusUpdate(&req); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.ToDetails())
		return
	}

	booking, err := h.bookingService.UpdateStatus(c.Request.Context(), id,
		models.BookingStatus(req.Status), actor, req.Reason, req.Notes)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Booking status updated successfully", booking)
}

// StatusHistory returns the append-only status history, oldest first.
// GET /api/v1/bookings/:id/status-history
func (h *BookingHandler) StatusHistory(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	history, err := h.bookingService.GetStatusHistory(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Status history retrieved successfully", history)
}

// ProviderBookings returns a provider's bookings, newest window first.
// GET /api/v1/providers/:id/bookings
func (h *BookingHandler) ProviderBookings(c *gin.Context) {
	providerID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	bookings, total, err := h.bookingService.GetProviderBookings(c.Request.Context(), providerID, params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Bookings retrieved successfully", bookings, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
		Count:      len(bookings),
	})
}
