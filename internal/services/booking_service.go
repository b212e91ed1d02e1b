package services

import (
	"context"
	"fmt"

	"serendibgo/internal/lifecycle"
	"serendibgo/internal/models"
	"serendibgo/internal/repositories/interfaces"
	"serendibgo/internal/utils"
	"serendibgo/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingService interface {
	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBooking(ctx context.Context, id primitive.ObjectID) (*models.Booking, error)
	GetProviderBookings(ctx context.Context, providerID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Booking, int64, error)

	UpdateStatus(ctx context.Context, id primitive.ObjectID, requested models.BookingStatus, actorID primitive.ObjectID, reason, notes string) (*models.Booking, error)
	GetStatusHistory(ctx context.Context, id primitive.ObjectID) ([]models.StatusChange, error)
}

type bookingService struct {
	bookingRepo interfaces.BookingRepository
	clock       Clock
	logger      *logger.Logger
}

func NewBookingService(bookingRepo interfaces.BookingRepository, clock Clock, log *logger.Logger) BookingService {
	return &bookingService{
		bookingRepo: bookingRepo,
		clock:       clock,
		logger:      log,
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, booking *models.Booking) error {
	if !booking.Window.Start.Before(booking.Window.End) {
		return fmt.Errorf("booking window start must be before end")
	}

	booking.Status = models.BookingStatusScheduled
	booking.ProviderID = nil
	booking.StatusHistory = []models.StatusChange{}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return err
	}

	s.logger.WithBookingID(booking.ID).WithFields(map[string]interface{}{
		"requester": booking.RequesterID.Hex(),
		"kind":      booking.ProviderKind,
		"start":     utils.FormatTimeISO(booking.Window.Start),
		"end":       utils.FormatTimeISO(booking.Window.End),
	}).Info("Booking created")

	return nil
}

func (s *bookingService) GetBooking(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
	return s.bookingRepo.GetByID(ctx, id)
}

func (s *bookingService) GetProviderBookings(ctx context.Context, providerID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Booking, int64, error) {
	return s.bookingRepo.GetByProvider(ctx, providerID, params)
}

func (s *bookingService) UpdateStatus(ctx context.Context, id primitive.ObjectID, requested models.BookingStatus, actorID primitive.ObjectID, reason, notes string) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	next, err := lifecycle.TransitionBookingStatus(booking.Status, requested)
	if err != nil {
		s.logger.WithBookingID(id).WithFields(map[string]interface{}{
			"from": booking.Status,
			"to":   requested,
		}).Warn("Rejected booking status transition")
		return nil, err
	}

	entry := models.StatusChange{
		Status:    string(next),
		Timestamp: s.clock.Now(),
		UpdatedBy: actorID,
		Reason:    reason,
		Notes:     notes,
	}
	if err := s.bookingRepo.UpdateStatus(ctx, id, booking.Status, next, entry); err != nil {
		return nil, err
	}

	booking.Status = next
	booking.StatusHistory = append(booking.StatusHistory, entry)

	s.logger.WithBookingID(id).WithFields(map[string]interface{}{
		"status": next,
		"actor":  actorID.Hex(),
	}).Info("Booking status updated")

	return booking, nil
}

func (s *bookingService) GetStatusHistory(ctx context.Context, id primitive.ObjectID) ([]models.StatusChange, error) {
	return s.bookingRepo.GetStatusHistory(ctx, id)
}
