package handlers

import (
	"errors"
	"net/http"

	"serendibgo/internal/lifecycle"
	"serendibgo/internal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// actorID extracts the authenticated actor's id set by the auth middleware.
func actorID(c *gin.Context) (primitive.ObjectID, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.UnauthorizedResponse(c)
		return primitive.NilObjectID, false
	}

	id, ok := userID.(primitive.ObjectID)
	if !ok {
		utils.BadRequestResponse(c, "Invalid user ID")
		return primitive.NilObjectID, false
	}

	return id, true
}

// pathObjectID parses an ObjectID path parameter.
func pathObjectID(c *gin.Context, param string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(param))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid "+param)
		return primitive.NilObjectID, false
	}
	return id, true
}

// respondServiceError maps service-layer errors onto the response envelope.
// Invalid transitions carry their (from, to) pair in the details so the
// operator UI can say exactly what was rejected.
func respondServiceError(c *gin.Context, err error) {
	var transitionErr *lifecycle.InvalidTransitionError
	switch {
	case errors.Is(err, utils.ErrProviderNotFound):
		utils.NotFoundResponse(c, "Provider")
	case errors.Is(err, utils.ErrBookingNotFound):
		utils.NotFoundResponse(c, "Booking")
	case errors.Is(err, utils.ErrProviderExists),
		errors.Is(err, utils.ErrProviderStateChanged),
		errors.Is(err, utils.ErrBookingStateChanged):
		utils.ConflictResponse(c, err.Error())
	case errors.As(err, &transitionErr):
		utils.ErrorResponseWithDetails(c, http.StatusBadRequest, "INVALID_TRANSITION", transitionErr.Error(), map[string]string{
			"from": transitionErr.From,
			"to":   transitionErr.To,
		})
	default:
		utils.InternalServerErrorResponse(c)
	}
}
