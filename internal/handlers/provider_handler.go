package handlers

import (
	"serendibgo/internal/models"
	"serendibgo/internal/repositories/interfaces"
	"serendibgo/internal/services"
	"serendibgo/internal/utils"
	"serendibgo/internal/validators"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProviderHandler struct {
	providerService services.ProviderService
}

func NewProviderHandler(providerService services.ProviderService) *ProviderHandler {
	return &ProviderHandler{
		providerService: providerService,
	}
}

// Register creates a new provider profile. The profile starts in pending
// status regardless of what the request carries.
// POST /api/v1/providers
func (h *ProviderHandler) Register(c *gin.Context) {
	var req validators.ProviderRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	if errs := validators.ValidateProviderRegistration(&req); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.ToDetails())
		return
	}

	ownerID, _ := primitive.ObjectIDFromHex(req.OwnerUserID)
	provider := &models.ProviderProfile{
		OwnerUserID: ownerID,
		Kind:        models.ProviderKind(req.Kind),
		DisplayName: req.DisplayName,
	}
	if req.Policy != nil {
		if errs := validators.ValidateAvailabilityPolicyRequest(req.Policy); len(errs) > 0 {
			utils.ValidationErrorResponse(c, errs.ToDetails())
			return
		}
		provider.Policy = req.Policy.ToPolicy()
	}
	for _, area := range req.ServiceAreas {
		provider.ServiceAreas = append(provider.ServiceAreas, models.ServiceArea{
			City:     area.City,
			District: area.District,
			RadiusKM: area.RadiusKM,
			Active:   area.Active,
		})
	}

	if err := h.providerService.RegisterProvider(c.Request.Context(), provider); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, "Provider registered successfully", provider)
}

// Get returns a single provider profile.
// GET /api/v1/providers/:id
func (h *ProviderHandler) Get(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	provider, err := h.providerService.GetProvider(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Provider retrieved successfully", provider)
}

// List returns providers filtered by kind, status and city.
// GET /api/v1/providers
func (h *ProviderHandler) List(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	filter := interfaces.ProviderFilter{
		Kind:   models.ProviderKind(c.Query("kind")),
		Status: models.ProviderStatus(c.Query("status")),
		City:   c.Query("city"),
	}

	providers, total, err := h.providerService.ListProviders(c.Request.Context(), filter, params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Providers retrieved successfully", providers, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
		Count:      len(providers),
	})
}

// ListAssignable returns active, fully verified providers of a kind,
// optionally narrowed to a service area.
// GET /api/v1/providers/assignable
func (h *ProviderHandler) ListAssignable(c *gin.Context) {
	kind := c.Query("kind")
	if kind == "" {
		utils.BadRequestResponse(c, "kind query parameter is required")
		return
	}

	params := utils.GetPaginationParams(c)
	providers, err := h.providerService.ListAssignable(c.Request.Context(),
		models.ProviderKind(kind), c.Query("city"), c.Query("district"), params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Assignable providers retrieved successfully", providers, &utils.Meta{
		Count: len(providers),
	})
}

// UpdateStatus moves a provider through its status lifecycle. Illegal
// transitions come back as 400 with the rejected pair in the details.
// PATCH /api/v1/providers/:id/status
func (h *ProviderHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	actor, ok := actorID(c)
	if !ok {
		return
	}

	var req validators.ProviderStatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}
	if errs := validators.ValidateProviderStatusUpdate(&req); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.ToDetails())
		return
	}

	provider, err := h.providerService.UpdateStatus(c.Request.Context(), id,
		models.ProviderStatus(req.Status), actor, req.Reason, req.Notes)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Provider status updated successfully", provider)
}

// StatusHistory returns the append-only status history, oldest first.
// GET /api/v1/providers/:id/status-history
func (h *ProviderHandler) StatusHistory(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	history, err := h.providerService.GetStatusHistory(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Status history retrieved successfully", history)
}

// UpdatePolicy replaces the provider's availability policy.
// PUT /api/v1/providers/:id/availability-policy
func (h *ProviderHandler) UpdatePolicy(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	var req validators.AvailabilityPolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}
	if errs := validators.ValidateAvailabilityPolicyRequest(&req); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.ToDetails())
		return
	}

	policy := req.ToPolicy()
	if err := h.providerService.UpdateAvailabilityPolicy(c.Request.Context(), id, policy); err != nil {
		if err == utils.ErrProviderNotFound {
			utils.NotFoundResponse(c, "Provider")
			return
		}
		// Structural policy violations (start after end, duplicate blocked
		// dates) surface as bad requests.
		utils.BadRequestResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, "Availability policy updated successfully", policy)
}

// UpdateVerification sets the verification flags. Staff only; the acting
// staff member is recorded as the verifier.
// PATCH /api/v1/providers/:id/verification
func (h *ProviderHandler) UpdateVerification(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	actor, ok := actorID(c)
	if !ok {
		return
	}

	var req validators.VerificationUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	verification := req.ToVerification()
	if err := h.providerService.UpdateVerification(c.Request.Context(), id, verification, actor); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Verification updated successfully", nil)
}

// Eligibility explains whether a provider can be assigned work right now,
// listing every unmet condition when it cannot.
// GET /api/v1/providers/:id/eligibility
func (h *ProviderHandler) Eligibility(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	eligible, unmet, err := h.providerService.ExplainEligibility(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Eligibility evaluated", gin.H{
		"eligible":         eligible,
		"unmet_conditions": unmet,
	})
}
