package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProviderKind string
type ProviderStatus string

const (
	ProviderKindGuide   ProviderKind = "guide"
	ProviderKindDriver  ProviderKind = "driver"
	ProviderKindVehicle ProviderKind = "vehicle"

	ProviderStatusPending     ProviderStatus = "pending"
	ProviderStatusActive      ProviderStatus = "active"
	ProviderStatusSuspended   ProviderStatus = "suspended"
	ProviderStatusInactive    ProviderStatus = "inactive"
	ProviderStatusBlacklisted ProviderStatus = "blacklisted"
)

// ProviderProfile is the persisted record for a bookable service provider.
// Status is mutated only through the lifecycle state machine; StatusHistory
// is append-only.
type ProviderProfile struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	OwnerUserID   primitive.ObjectID `json:"owner_user_id" bson:"owner_user_id" validate:"required"`
	Kind          ProviderKind       `json:"kind" bson:"kind" validate:"required"`
	DisplayName   string             `json:"display_name" bson:"display_name"`
	Status        ProviderStatus     `json:"status" bson:"status" default:"pending"`
	Verification  Verification       `json:"verification" bson:"verification"`
	Policy        AvailabilityPolicy `json:"availability_policy" bson:"availability_policy"`
	ServiceAreas  []ServiceArea      `json:"service_areas" bson:"service_areas"`
	StatusHistory []StatusChange     `json:"status_history" bson:"status_history"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}

// Verification carries the per-document verification flags. Which flags are
// required depends on the provider kind; the availability package holds the
// per-kind requirements.
type Verification struct {
	Identity            bool                `json:"identity" bson:"identity" default:"false"`
	License             bool                `json:"license" bson:"license" default:"false"`
	BackgroundCheck     bool                `json:"background_check" bson:"background_check" default:"false"`
	Insurance           bool                `json:"insurance" bson:"insurance" default:"false"`
	VehicleOrCredential bool                `json:"vehicle_or_credential" bson:"vehicle_or_credential" default:"false"`
	VerifiedAt          *time.Time          `json:"verified_at" bson:"verified_at"`
	VerifiedBy          *primitive.ObjectID `json:"verified_by" bson:"verified_by"`
}

type ServiceArea struct {
	City     string  `json:"city" bson:"city"`
	District string  `json:"district" bson:"district"`
	RadiusKM float64 `json:"radius_km" bson:"radius_km"`
	Active   bool    `json:"active" bson:"active" default:"true"`
}

// StatusChange is one entry of an append-only status history. Entries are
// never updated or removed.
type StatusChange struct {
	Status    string             `json:"status" bson:"status"`
	Timestamp time.Time          `json:"timestamp" bson:"timestamp"`
	UpdatedBy primitive.ObjectID `json:"updated_by" bson:"updated_by"`
	Reason    string             `json:"reason,omitempty" bson:"reason,omitempty"`
	Notes     string             `json:"notes,omitempty" bson:"notes,omitempty"`
}

// CoversLocation reports whether the booking location matches at least one
// active service area. An empty area list means the provider serves anywhere.
func (p *ProviderProfile) CoversLocation(city, district string) bool {
	if len(p.ServiceAreas) == 0 {
		return true
	}
	for _, area := range p.ServiceAreas {
		if !area.Active {
			continue
		}
		if area.City == city && (area.District == "" || district == "" || area.District == district) {
			return true
		}
	}
	return false
}
