package handlers

import (
	"net/http"
	"time"

	"serendibgo/internal/models"
	"serendibgo/internal/services"
	"serendibgo/internal/utils"
	"serendibgo/internal/validators"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AssignmentHandler struct {
	assignmentService services.AssignmentService
}

func NewAssignmentHandler(assignmentService services.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{
		assignmentService: assignmentService,
	}
}

// CheckAvailability answers whether a provider could take a booking for the
// given window. Read-only: no lock is taken and nothing is written.
// GET /api/v1/providers/:id/availability?start=...&end=...
func (h *AssignmentHandler) CheckAvailability(c *gin.Context) {
	providerID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	var req validators.AvailabilityQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.BadRequestResponse(c, "start and end must be RFC 3339 timestamps")
		return
	}
	if errs := validators.ValidateAvailabilityQuery(&req); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.ToDetails())
		return
	}

	window := models.BookingWindow{Start: req.Start, End: req.End}
	decision, err := h.assignmentService.CheckAvailability(c.Request.Context(), providerID, window)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Availability evaluated", decision)
}

// Assign attempts to assign a provider to a booking. All gates pass and the
// booking is confirmed, or nothing changes and the outcome names the one
// reason it failed.
// POST /api/v1/bookings/:id/assign
func (h *AssignmentHandler) Assign(c *gin.Context) {
	bookingID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	actor, ok := actorID(c)
	if !ok {
		return
	}

	var req validators.AssignProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}
	if errs := validators.ValidateStruct(&req); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.ToDetails())
		return
	}

	providerID, _ := primitive.ObjectIDFromHex(req.ProviderID)
	outcome, err := h.assignmentService.Assign(c.Request.Context(), bookingID, providerID, actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if !outcome.Assigned {
		// A rejected assignment is a well-formed answer, not a server fault.
		// Contended attempts get 409 so callers know a retry may succeed.
		status := http.StatusUnprocessableEntity
		if outcome.ReasonCode == utils.ReasonRetry {
			status = http.StatusConflict
		}
		c.JSON(status, utils.APIResponse{
			Status:    utils.StatusSuccess,
			Message:   "Assignment rejected",
			Data:      outcome,
			Timestamp: time.Now(),
		})
		return
	}

	utils.SuccessResponse(c, "Provider assigned successfully", outcome)
}
