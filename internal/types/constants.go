package types

import (
	"os"
	"strings"
)

const ContextUserKey = "user"

// User roles. The set is closed; authorization goes through
// middleware.RequireRole rather than ad-hoc string checks in handlers.
const (
	RoleTenant   = "tenant"
	RoleLandlord = "landlord"
	RoleAgent    = "agent"
	RoleAdmin    = "admin"
)

// House statuses. Transitions are free-form and owner-controlled.
const (
	HouseAvailable   = "available"
	HouseRented      = "rented"
	HouseMaintenance = "maintenance"
)

// Tour request lifecycle. Only pending is reachable at creation; accepted,
// rejected and cancelled are terminal. Completed belongs to the column's
// value set but no operation produces it yet.
const (
	TourPending   = "pending"
	TourAccepted  = "accepted"
	TourRejected  = "rejected"
	TourCompleted = "completed"
	TourCancelled = "cancelled"
)

// RegistrationRoles are the roles a user may self-assign at sign-up.
// Admin accounts are seeded, never registered.
func IsRegistrationRole(role string) bool {
	switch role {
	case RoleTenant, RoleLandlord, RoleAgent:
		return true
	}
	return false
}

var (
	// Default allowed origins for development
	defaultOrigins = []string{
		"http://localhost:3000",
		"http://localhost:5173",
	}

	AllowedOrigins = initAllowedOrigins()
)

func initAllowedOrigins() []string {
	origins := make([]string, len(defaultOrigins))
	copy(origins, defaultOrigins)

	if clientURL := os.Getenv("CLIENT_URL"); clientURL != "" {
		origins = append(origins, clientURL)
	}

	if allowedOrigins := os.Getenv("ALLOWED_ORIGINS"); allowedOrigins != "" {
		envOrigins := strings.Split(allowedOrigins, ",")
		for _, origin := range envOrigins {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
	}

	return origins
}
