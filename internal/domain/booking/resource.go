package booking

import "github.com/studentato/dorm-booking/internal/httperr"

// ===============================
// Resource Types
// ===============================

type ResourceType string

const (
	ResourceWasher ResourceType = "LAV"
	ResourceDryer  ResourceType = "ASC"
	ResourceGym    ResourceType = "GYM"
)

func ParseResourceType(s string) (ResourceType, error) {
	switch ResourceType(s) {
	case ResourceWasher, ResourceDryer, ResourceGym:
		return ResourceType(s), nil
	}
	return "", httperr.ErrBusiness("invalid_resource_type")
}

// ValidateUnits checks the requested unit count against the resource's
// allowed range: washers book 1 or 2 machines, everything else exactly 1.
func ValidateUnits(rt ResourceType, units int) error {
	switch rt {
	case ResourceWasher:
		if units == 1 || units == 2 {
			return nil
		}
	case ResourceDryer, ResourceGym:
		if units == 1 {
			return nil
		}
	}
	return httperr.ErrBusiness(httperr.CodeInvalidUnits)
}

// DefaultCapacity is the per-slot unit capacity seeded into the catalog.
// Gym capacity is configurable at seed time; washers and dryers are fixed
// by the number of physical machines.
func DefaultCapacity(rt ResourceType, gymCapacity int) int {
	switch rt {
	case ResourceWasher:
		return 2
	case ResourceDryer:
		return 1
	case ResourceGym:
		if gymCapacity > 0 {
			return gymCapacity
		}
		return 6
	}
	return 1
}
