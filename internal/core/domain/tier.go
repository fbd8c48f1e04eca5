package domain

// Tier is the privilege level of the current session.
type Tier string

const (
	TierGuest   Tier = "guest"
	TierPatient Tier = "patient"
	TierStaff   Tier = "staff"
	TierAdmin   Tier = "admin"
)

// TierSet is the set of tiers allowed to invoke an operation.
type TierSet []Tier

// Permits reports whether the tier is a member of the set.
func (s TierSet) Permits(t Tier) bool {
	for _, allowed := range s {
		if t == allowed {
			return true
		}
	}
	return false
}

// Required tier sets shared by the command table and the handlers.
var (
	Authenticated = TierSet{TierPatient, TierStaff, TierAdmin}
	PatientOnly   = TierSet{TierPatient}
	StaffOnly     = TierSet{TierStaff, TierAdmin}
	AdminOnly     = TierSet{TierAdmin}
)
