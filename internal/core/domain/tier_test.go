package domain

import (
	"errors"
	"testing"
)

func TestTierSetPermits(t *testing.T) {
	tiers := []Tier{TierGuest, TierPatient, TierStaff, TierAdmin}

	tests := []struct {
		name    string
		set     TierSet
		allowed map[Tier]bool
	}{
		{
			name:    "authenticated",
			set:     Authenticated,
			allowed: map[Tier]bool{TierPatient: true, TierStaff: true, TierAdmin: true},
		},
		{
			name:    "patient_only",
			set:     PatientOnly,
			allowed: map[Tier]bool{TierPatient: true},
		},
		{
			name:    "staff_only",
			set:     StaffOnly,
			allowed: map[Tier]bool{TierStaff: true, TierAdmin: true},
		},
		{
			name:    "admin_only",
			set:     AdminOnly,
			allowed: map[Tier]bool{TierAdmin: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, tier := range tiers {
				if got := tt.set.Permits(tier); got != tt.allowed[tier] {
					t.Errorf("Permits(%s) = %v, want %v", tier, got, tt.allowed[tier])
				}
			}
		})
	}
}

func TestGuard(t *testing.T) {
	guest := NewSession()

	patient := NewSession()
	patient.Promote("alice@x.com", "pw1", TierPatient)

	staff := NewSession()
	staff.Promote("doc@x.com", "pw2", TierStaff)

	tests := []struct {
		name     string
		session  *Session
		required TierSet
		wantErr  error
	}{
		{"guest_on_guarded_operation", guest, Authenticated, ErrNotAuthenticated},
		{"patient_on_patient_operation", patient, PatientOnly, nil},
		{"patient_on_admin_operation", patient, AdminOnly, ErrPermissionDenied},
		{"staff_on_staff_operation", staff, StaffOnly, nil},
		{"staff_on_admin_operation", staff, AdminOnly, ErrPermissionDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Guard(tt.session, tt.required)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Guard() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Guard() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSessionGuestInvariant(t *testing.T) {
	s := NewSession()
	if s.Authenticated() || s.Email != "" || s.Secret != "" {
		t.Fatal("a fresh session must be an empty Guest")
	}

	s.Promote("alice@x.com", "pw1", TierPatient)
	if !s.Authenticated() {
		t.Fatal("promoted session must be authenticated")
	}

	s.Reset()
	if s.Authenticated() || s.Email != "" || s.Secret != "" {
		t.Fatal("reset must return the session to an empty Guest")
	}
}
