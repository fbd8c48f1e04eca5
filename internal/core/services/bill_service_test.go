package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/nhsjdiwlcnsv/DBLabs/internal/core/domain"
	"github.com/nhsjdiwlcnsv/DBLabs/internal/core/ports"
)

func TestBillCreate(t *testing.T) {
	t.Run("authored_by_caller", func(t *testing.T) {
		store := &mockStore{
			onQueryOne: func(query string, args []any) (ports.Row, error) {
				return ports.Row{"bill_id": int64(11)}, nil
			},
		}
		svc := NewBillService(store, &mockResolver{id: 3})

		if err := svc.Create(context.Background(), staffSession(), 7, 149.50, "bloodwork"); err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		insert := store.ExecuteCalls[0]
		if insert.args[0] != 12 || insert.args[1] != 7 || insert.args[2] != 3 {
			t.Fatalf("insert args = %v, want id 12, patient 7, author 3", insert.args)
		}
		if store.CommitCalls != 1 {
			t.Fatalf("commits = %d, want 1", store.CommitCalls)
		}
	})

	t.Run("rejects_non_positive_amount", func(t *testing.T) {
		store := &mockStore{}
		svc := NewBillService(store, &mockResolver{id: 3})

		err := svc.Create(context.Background(), staffSession(), 7, 0, "bloodwork")
		if !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("Create() error = %v, want ErrValidation", err)
		}
		if store.calls() != 0 {
			t.Fatal("validation must fail before the store is touched")
		}
	})

	t.Run("denied_for_patients", func(t *testing.T) {
		svc := NewBillService(&mockStore{}, &mockResolver{id: 9})
		err := svc.Create(context.Background(), patientSession(), 7, 10, "")
		if !errors.Is(err, domain.ErrPermissionDenied) {
			t.Fatalf("Create() error = %v, want ErrPermissionDenied", err)
		}
	})
}

func TestBillListScoping(t *testing.T) {
	tests := []struct {
		name       string
		sess       *domain.Session
		wantClause string
	}{
		{"patient_sees_bills_issued_to_them", patientSession(), "WHERE patient = $1"},
		{"staff_sees_bills_they_issued", staffSession(), "WHERE author = $1"},
		{"admin_is_unscoped", adminSession(), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mockStore{
				onQueryAll: func(query string, args []any) ([]ports.Row, error) {
					return []ports.Row{{
						"bill_id":     int64(12),
						"patient_id":  int64(7),
						"author_id":   int64(3),
						"amount":      []byte("149.50"),
						"description": "bloodwork",
					}}, nil
				},
			}
			svc := NewBillService(store, &mockResolver{id: 9})

			got, err := svc.List(context.Background(), tt.sess)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if len(got) != 1 || got[0].Amount != 149.50 {
				t.Fatalf("unexpected listing: %+v", got)
			}

			call := store.QueryAllCalls[0]
			if tt.wantClause == "" {
				if strings.Contains(call.query, "WHERE") {
					t.Fatalf("admin listing must be unscoped, got %q", call.query)
				}
				return
			}
			if !strings.Contains(call.query, tt.wantClause) || call.args[0] != 9 {
				t.Fatalf("query %q args %v, want scope %q bound to 9", call.query, call.args, tt.wantClause)
			}
		})
	}
}

func TestBillDeleteIsAdminOnly(t *testing.T) {
	store := &mockStore{}
	svc := NewBillService(store, &mockResolver{id: 3})

	if err := svc.Delete(context.Background(), staffSession(), 12); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("staff Delete() error = %v, want ErrPermissionDenied", err)
	}

	// Idempotent: a second delete of the same id still succeeds and commits.
	for i := 0; i < 2; i++ {
		if err := svc.Delete(context.Background(), adminSession(), 12); err != nil {
			t.Fatalf("admin Delete() #%d error = %v", i+1, err)
		}
	}
	if store.CommitCalls != 2 {
		t.Fatalf("commits = %d, want one per delete", store.CommitCalls)
	}
}
