package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/nhsjdiwlcnsv/DBLabs/internal/core/domain"
	"github.com/nhsjdiwlcnsv/DBLabs/internal/core/ports"
)

func TestAuthenticate(t *testing.T) {
	tests := []struct {
		name     string
		staffRow ports.Row
		patient  ports.Row
		wantOK   bool
		wantTier domain.Tier
	}{
		{
			name:     "staff_credentials",
			staffRow: ports.Row{"email": "doc@clinic.test", "status": "Active"},
			wantOK:   true,
			wantTier: domain.TierStaff,
		},
		{
			name:     "admin_flagged_staff",
			staffRow: ports.Row{"email": "root@clinic.test", "status": "Admin"},
			wantOK:   true,
			wantTier: domain.TierAdmin,
		},
		{
			name:     "patient_credentials",
			patient:  ports.Row{"email": "alice@clinic.test"},
			wantOK:   true,
			wantTier: domain.TierPatient,
		},
		{
			name:     "unknown_credentials",
			wantOK:   false,
			wantTier: domain.TierGuest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mockStore{
				onQueryOne: func(query string, args []any) (ports.Row, error) {
					if strings.Contains(query, "FROM staff") {
						return tt.staffRow, nil
					}
					return tt.patient, nil
				},
			}
			tokens := &mockTokens{}
			svc := NewAuthService(store, tokens)
			sess := guestSession()

			ok, err := svc.Authenticate(context.Background(), sess, "x@clinic.test", "pw")
			if err != nil {
				t.Fatalf("Authenticate() error = %v", err)
			}
			if ok != tt.wantOK {
				t.Fatalf("Authenticate() = %v, want %v", ok, tt.wantOK)
			}
			if sess.Tier != tt.wantTier {
				t.Fatalf("session tier = %s, want %s", sess.Tier, tt.wantTier)
			}
			if tt.wantOK && tokens.IssueCalls != 1 {
				t.Fatalf("Issue called %d times, want 1", tokens.IssueCalls)
			}
			if !tt.wantOK && tokens.IssueCalls != 0 {
				t.Fatal("failed login must not issue a resume token")
			}
		})
	}
}

func TestRegisterAllocatesNextID(t *testing.T) {
	store := &mockStore{
		onQueryOne: func(query string, args []any) (ports.Row, error) {
			if strings.Contains(query, "MAX(patient_id)") {
				return ports.Row{"patient_id": int64(7)}, nil
			}
			if strings.Contains(query, "INSERT INTO patient") {
				return ports.Row{"patient_id": args[0]}, nil
			}
			t.Fatalf("unexpected query: %s", query)
			return nil, nil
		},
	}
	tokens := &mockTokens{}
	svc := NewAuthService(store, tokens)
	sess := guestSession()

	ok, err := svc.Register(context.Background(), sess, domain.Registration{
		Email:     "bob@clinic.test",
		Username:  "bob",
		Password:  "pw-bob",
		FirstName: "Bob",
		LastName:  "Stone",
	})
	if err != nil || !ok {
		t.Fatalf("Register() = %v, %v, want true, nil", ok, err)
	}

	insert := store.QueryOneCalls[len(store.QueryOneCalls)-1]
	if got := insert.args[0]; got != 8 {
		t.Fatalf("allocated id = %v, want 8", got)
	}
	if store.CommitCalls != 1 {
		t.Fatalf("commits = %d, want 1", store.CommitCalls)
	}
	if sess.Tier != domain.TierPatient || sess.Email != "bob@clinic.test" {
		t.Fatalf("session not promoted: tier=%s email=%s", sess.Tier, sess.Email)
	}
	if tokens.IssueCalls != 1 {
		t.Fatalf("Issue called %d times, want 1", tokens.IssueCalls)
	}
}

func TestRegisterDuplicateKeyIsNotAnError(t *testing.T) {
	store := &mockStore{
		onQueryOne: func(query string, args []any) (ports.Row, error) {
			if strings.Contains(query, "MAX(patient_id)") {
				return ports.Row{"patient_id": int64(7)}, nil
			}
			return nil, fmt.Errorf("%w: duplicate key value", domain.ErrValidation)
		},
	}
	svc := NewAuthService(store, nil)
	sess := guestSession()

	ok, err := svc.Register(context.Background(), sess, domain.Registration{
		Email:     "bob@clinic.test",
		Password:  "pw-bob",
		FirstName: "Bob",
		LastName:  "Stone",
	})
	if err != nil {
		t.Fatalf("Register() error = %v, want nil", err)
	}
	if ok {
		t.Fatal("Register() = true, want false on duplicate key")
	}
	if sess.Authenticated() {
		t.Fatal("a failed registration must leave the session untouched")
	}
	if store.CommitCalls != 0 {
		t.Fatalf("commits = %d, want 0", store.CommitCalls)
	}
}

func TestRegisterRejectsMissingFields(t *testing.T) {
	store := &mockStore{}
	svc := NewAuthService(store, nil)

	_, err := svc.Register(context.Background(), guestSession(), domain.Registration{
		Email: "bob@clinic.test",
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("Register() error = %v, want ErrValidation", err)
	}
	if store.calls() != 0 {
		t.Fatal("validation must fail before the store is touched")
	}
}

func TestCallerID(t *testing.T) {
	t.Run("guest", func(t *testing.T) {
		store := &mockStore{}
		svc := NewAuthService(store, nil)
		_, err := svc.CallerID(context.Background(), guestSession())
		if !errors.Is(err, domain.ErrNotAuthenticated) {
			t.Fatalf("CallerID() error = %v, want ErrNotAuthenticated", err)
		}
		if store.calls() != 0 {
			t.Fatal("a guest must not reach the store")
		}
	})

	tests := []struct {
		name      string
		sess      *domain.Session
		wantTable string
	}{
		{"patient_uses_patient_table", patientSession(), "FROM patient"},
		{"staff_uses_staff_table", staffSession(), "FROM staff"},
		{"admin_uses_staff_table", adminSession(), "FROM staff"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mockStore{
				onQueryOne: func(query string, args []any) (ports.Row, error) {
					return ports.Row{"id": int64(42)}, nil
				},
			}
			svc := NewAuthService(store, nil)
			id, err := svc.CallerID(context.Background(), tt.sess)
			if err != nil {
				t.Fatalf("CallerID() error = %v", err)
			}
			if id != 42 {
				t.Fatalf("CallerID() = %d, want 42", id)
			}
			if q := store.QueryOneCalls[0].query; !strings.Contains(q, tt.wantTable) {
				t.Fatalf("query %q does not target %q", q, tt.wantTable)
			}
		})
	}
}

func TestFullNameMissingIdentityRow(t *testing.T) {
	svc := NewAuthService(&mockStore{}, nil)
	_, err := svc.FullName(context.Background(), staffSession())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("FullName() error = %v, want ErrNotFound", err)
	}
}

func TestResume(t *testing.T) {
	t.Run("redeems_saved_credentials", func(t *testing.T) {
		store := &mockStore{
			onQueryOne: func(query string, args []any) (ports.Row, error) {
				if strings.Contains(query, "FROM staff") && strings.Contains(query, "status") {
					return nil, nil
				}
				return ports.Row{"email": "alice@clinic.test"}, nil
			},
		}
		tokens := &mockTokens{email: "alice@clinic.test", secret: "pw-alice"}
		svc := NewAuthService(store, tokens)
		sess := guestSession()

		if err := svc.Resume(context.Background(), sess); err != nil {
			t.Fatalf("Resume() error = %v", err)
		}
		if sess.Tier != domain.TierPatient {
			t.Fatalf("session tier = %s, want patient", sess.Tier)
		}
	})

	t.Run("nothing_saved", func(t *testing.T) {
		store := &mockStore{}
		svc := NewAuthService(store, &mockTokens{})
		sess := guestSession()

		if err := svc.Resume(context.Background(), sess); err != nil {
			t.Fatalf("Resume() error = %v", err)
		}
		if sess.Authenticated() || store.calls() != 0 {
			t.Fatal("an empty token store must leave the session at Guest")
		}
	})

	t.Run("nil_token_store", func(t *testing.T) {
		svc := NewAuthService(&mockStore{}, nil)
		if err := svc.Resume(context.Background(), guestSession()); err != nil {
			t.Fatalf("Resume() error = %v", err)
		}
	})
}

func TestLogout(t *testing.T) {
	tokens := &mockTokens{}
	svc := NewAuthService(&mockStore{}, tokens)
	sess := patientSession()

	if err := svc.Logout(context.Background(), sess); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if sess.Authenticated() {
		t.Fatal("logout must return the session to Guest")
	}
	if tokens.RevokeCalls != 1 {
		t.Fatalf("Revoke called %d times, want 1", tokens.RevokeCalls)
	}

	if err := svc.Logout(context.Background(), guestSession()); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("guest Logout() error = %v, want ErrNotAuthenticated", err)
	}
}
