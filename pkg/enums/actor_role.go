package enums

import "fmt"

// ActorRole identifies which side of the marketplace a caller acts for.
type ActorRole string

const (
	ActorRoleCustomer        ActorRole = "customer"
	ActorRoleRestaurant      ActorRole = "restaurant"
	ActorRoleDeliveryPartner ActorRole = "delivery_partner"
	ActorRoleAdmin           ActorRole = "admin"
)

var validActorRoles = []ActorRole{
	ActorRoleCustomer,
	ActorRoleRestaurant,
	ActorRoleDeliveryPartner,
	ActorRoleAdmin,
}

// String implements fmt.Stringer.
func (a ActorRole) String() string {
	return string(a)
}

// IsValid reports whether the value is a known ActorRole.
func (a ActorRole) IsValid() bool {
	for _, candidate := range validActorRoles {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseActorRole converts raw input into an ActorRole.
func ParseActorRole(value string) (ActorRole, error) {
	for _, candidate := range validActorRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid actor role %q", value)
}
