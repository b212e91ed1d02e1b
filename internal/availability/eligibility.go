package availability

import (
	"serendibgo/internal/models"
)

// Verification flag names as surfaced to operators by Explain.
const (
	FlagIdentity            = "identity"
	FlagLicense             = "license"
	FlagBackgroundCheck     = "background_check"
	FlagInsurance           = "insurance"
	FlagVehicleOrCredential = "vehicle_or_credential"
)

// requiredFlags lists which verification flags each provider kind must carry
// before it can be assigned. Guides have no vehicle to insure; vehicles have
// no person to background-check.
var requiredFlags = map[models.ProviderKind][]string{
	models.ProviderKindGuide: {
		FlagIdentity, FlagBackgroundCheck, FlagVehicleOrCredential,
	},
	models.ProviderKindDriver: {
		FlagIdentity, FlagLicense, FlagBackgroundCheck, FlagInsurance,
	},
	models.ProviderKindVehicle: {
		FlagIdentity, FlagLicense, FlagInsurance, FlagVehicleOrCredential,
	},
}

// IsAssignable reports whether the provider may be assigned to a booking:
// status must be active and every verification flag required for its kind
// must be set.
func IsAssignable(provider *models.ProviderProfile) bool {
	return len(Explain(provider)) == 0
}

// Explain returns the unmet assignment conditions, in a stable order, so the
// operator UI can show why an assignment was rejected instead of a bare
// boolean. An empty slice means the provider is assignable.
func Explain(provider *models.ProviderProfile) []string {
	var unmet []string

	if provider.Status != models.ProviderStatusActive {
		unmet = append(unmet, "status:"+string(provider.Status))
	}

	flags, ok := requiredFlags[provider.Kind]
	if !ok {
		// Unknown kinds require the full flag set.
		flags = []string{
			FlagIdentity, FlagLicense, FlagBackgroundCheck,
			FlagInsurance, FlagVehicleOrCredential,
		}
	}
	for _, flag := range flags {
		if !hasFlag(provider.Verification, flag) {
			unmet = append(unmet, flag)
		}
	}

	return unmet
}

func hasFlag(v models.Verification, flag string) bool {
	switch flag {
	case FlagIdentity:
		return v.Identity
	case FlagLicense:
		return v.License
	case FlagBackgroundCheck:
		return v.BackgroundCheck
	case FlagInsurance:
		return v.Insurance
	case FlagVehicleOrCredential:
		return v.VehicleOrCredential
	}
	return false
}
