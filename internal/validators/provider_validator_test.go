package validators

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPolicyRequest() *AvailabilityPolicyRequest {
	return &AvailabilityPolicyRequest{
		WorkingDays:        []string{"monday", "tuesday"},
		WorkingHours:       WorkingHoursRequest{Start: "09:00", End: "17:00"},
		MaxBookingsPerDay:  3,
		AdvanceBookingDays: 30,
	}
}

func TestValidatePolicyRequestOK(t *testing.T) {
	assert.Empty(t, ValidateAvailabilityPolicyRequest(validPolicyRequest()))
}

func TestValidatePolicyRequestBadHours(t *testing.T) {
	req := validPolicyRequest()
	req.WorkingHours.Start = "9am"

	errs := ValidateAvailabilityPolicyRequest(req)
	require.NotEmpty(t, errs)
	assert.Equal(t, "business_hours", errs[0].Tag)
}

func TestValidatePolicyRequestBadWeekday(t *testing.T) {
	req := validPolicyRequest()
	req.WorkingDays = []string{"monday", "funday"}

	errs := ValidateAvailabilityPolicyRequest(req)
	require.NotEmpty(t, errs)
	assert.Equal(t, "weekday_name", errs[0].Tag)
}

func TestValidatePolicyRequestCapBounds(t *testing.T) {
	req := validPolicyRequest()
	req.MaxBookingsPerDay = 11
	assert.NotEmpty(t, ValidateAvailabilityPolicyRequest(req))

	req.MaxBookingsPerDay = 0
	assert.NotEmpty(t, ValidateAvailabilityPolicyRequest(req))
}

func TestValidateProviderRegistration(t *testing.T) {
	req := &ProviderRegistrationRequest{
		OwnerUserID: "64f1c2e7a1b2c3d4e5f60718",
		Kind:        "guide",
		DisplayName: "Ella Rock Guide",
	}
	assert.Empty(t, ValidateProviderRegistration(req))

	req.Kind = "pilot"
	errs := ValidateProviderRegistration(req)
	require.NotEmpty(t, errs)
	assert.Equal(t, "oneof", errs[0].Tag)

	req.Kind = "guide"
	req.OwnerUserID = "not-an-id"
	errs = ValidateProviderRegistration(req)
	require.NotEmpty(t, errs)
	assert.Equal(t, "object_id", errs[0].Tag)
}

func TestValidateBookingCreateWindow(t *testing.T) {
	start := time.Date(2026, time.March, 3, 10, 0, 0, 0, time.UTC)
	req := &BookingCreateRequest{
		ProviderKind: "driver",
		Start:        start,
		End:          start.Add(2 * time.Hour),
	}
	assert.Empty(t, ValidateBookingCreate(req))

	req.End = start.Add(-time.Hour)
	errs := ValidateBookingCreate(req)
	require.NotEmpty(t, errs)
	assert.Equal(t, "window", errs[0].Tag)

	req.End = start
	assert.NotEmpty(t, ValidateBookingCreate(req))
}

func TestPolicyRequestToPolicy(t *testing.T) {
	req := validPolicyRequest()
	req.BlockedDates = []BlockedDateRequest{
		{Date: time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC), Reason: "poya day"},
	}

	policy := req.ToPolicy()
	assert.Equal(t, req.WorkingDays, policy.WorkingDays)
	assert.Equal(t, "09:00", policy.WorkingHours.Start)
	require.Len(t, policy.BlockedDates, 1)
	assert.Equal(t, "poya day", policy.BlockedDates[0].Reason)
}
