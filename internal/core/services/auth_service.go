package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/nhsjdiwlcnsv/DBLabs/internal/core/domain"
	"github.com/nhsjdiwlcnsv/DBLabs/internal/core/ports"
)

// tierTables maps an authenticated tier onto the identity table backing it
// and that table's id column. The tier never reaches SQL text any other
// way; every user-supplied value is a bind parameter.
var tierTables = map[domain.Tier]struct{ table, idColumn string }{
	domain.TierPatient: {"patient", "patient_id"},
	domain.TierStaff:   {"staff", "staff_id"},
	domain.TierAdmin:   {"staff", "staff_id"},
}

const (
	staffByCredentials   = `SELECT email, status FROM staff WHERE email=$1 AND password=$2`
	patientByCredentials = `SELECT email FROM patient WHERE email=$1 AND password=$2`

	maxPatientID = `SELECT COALESCE(MAX(patient_id), 0) AS patient_id FROM patient`

	insertPatient = `
	INSERT INTO patient (patient_id, email, username, password, first_name, last_name, phone)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING patient_id`
)

type AuthService struct {
	store  ports.Store
	tokens ports.SessionTokenStore
}

var _ ports.AuthService = (*AuthService)(nil)

// NewAuthService builds the authentication handler. tokens may be nil, in
// which case session resume is disabled.
func NewAuthService(store ports.Store, tokens ports.SessionTokenStore) *AuthService {
	return &AuthService{store: store, tokens: tokens}
}

// Authenticate looks the credentials up against staff first, then patient.
// A staff row whose status flag is "Admin" yields the Admin tier. No match
// leaves the session at Guest and returns false without error.
func (s *AuthService) Authenticate(ctx context.Context, sess *domain.Session, email, secret string) (bool, error) {
	staff, err := s.store.QueryOne(ctx, staffByCredentials, email, secret)
	if err != nil {
		return false, err
	}
	if staff != nil {
		tier := domain.TierStaff
		if staff.String("status") == "Admin" {
			tier = domain.TierAdmin
		}
		sess.Promote(staff.String("email"), secret, tier)
	} else {
		patient, err := s.store.QueryOne(ctx, patientByCredentials, email, secret)
		if err != nil {
			return false, err
		}
		if patient != nil {
			sess.Promote(patient.String("email"), secret, domain.TierPatient)
		}
	}

	if !sess.Authenticated() {
		return false, nil
	}
	s.remember(ctx, sess)
	return true, nil
}

// Register allocates the next patient id as max+1 and inserts the identity.
// The insert must hand back a confirmable row; a duplicate key fails the
// registration without touching the session. The max+1 allocation is not
// safe across concurrent processes and is kept on purpose (one interactive
// session per process).
func (s *AuthService) Register(ctx context.Context, sess *domain.Session, reg domain.Registration) (bool, error) {
	if reg.Email == "" || reg.Password == "" || reg.FirstName == "" || reg.LastName == "" {
		return false, fmt.Errorf("%w: email, password and full name are required", domain.ErrValidation)
	}

	last, err := s.store.QueryOne(ctx, maxPatientID)
	if err != nil {
		return false, err
	}
	next := last.Int("patient_id") + 1

	row, err := s.store.QueryOne(ctx, insertPatient,
		next, reg.Email, nullIfEmpty(reg.Username), reg.Password,
		reg.FirstName, reg.LastName, nullIfEmpty(reg.Phone))
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			// Duplicate key: the session stays as it was.
			return false, nil
		}
		return false, err
	}
	if row == nil {
		return false, nil
	}
	if err := s.store.Commit(ctx); err != nil {
		return false, err
	}

	sess.Promote(reg.Email, reg.Password, domain.TierPatient)
	s.remember(ctx, sess)
	return true, nil
}

// CallerID resolves the numeric id behind the session's credentials.
func (s *AuthService) CallerID(ctx context.Context, sess *domain.Session) (int, error) {
	if !sess.Authenticated() {
		return 0, domain.ErrNotAuthenticated
	}
	t := tierTables[sess.Tier]
	row, err := s.store.QueryOne(ctx,
		fmt.Sprintf("SELECT %s AS id FROM %s WHERE email=$1 AND password=$2", t.idColumn, t.table),
		sess.Email, sess.Secret)
	if err != nil {
		return 0, err
	}
	if row == nil {
		// An authenticated session must have an identity row.
		return 0, fmt.Errorf("%w: no %s identity for authenticated session", domain.ErrNotFound, sess.Tier)
	}
	return row.Int("id"), nil
}

// FullName concatenates the first and last name from the tier's identity
// table. Absence is an internal consistency fault, not an empty result.
func (s *AuthService) FullName(ctx context.Context, sess *domain.Session) (string, error) {
	if !sess.Authenticated() {
		return "", domain.ErrNotAuthenticated
	}
	t := tierTables[sess.Tier]
	row, err := s.store.QueryOne(ctx,
		fmt.Sprintf("SELECT CONCAT(first_name, ' ', last_name) AS full_name FROM %s WHERE email=$1 AND password=$2", t.table),
		sess.Email, sess.Secret)
	if err != nil {
		return "", err
	}
	if row == nil {
		return "", fmt.Errorf("%w: no %s identity for authenticated session", domain.ErrNotFound, sess.Tier)
	}
	return row.String("full_name"), nil
}

// Resume redeems a saved token and re-authenticates with the credentials it
// references. Nothing to resume is not an error.
func (s *AuthService) Resume(ctx context.Context, sess *domain.Session) error {
	if s.tokens == nil {
		return nil
	}
	email, secret, err := s.tokens.Restore(ctx)
	if err != nil || email == "" {
		return err
	}
	_, err = s.Authenticate(ctx, sess, email, secret)
	return err
}

// Logout revokes the resume token and returns the session to Guest.
func (s *AuthService) Logout(ctx context.Context, sess *domain.Session) error {
	if err := domain.Guard(sess, domain.Authenticated); err != nil {
		return err
	}
	if s.tokens != nil {
		// Revocation is best-effort: a lost token expires on its own.
		_ = s.tokens.Revoke(ctx)
	}
	sess.Reset()
	return nil
}

func (s *AuthService) remember(ctx context.Context, sess *domain.Session) {
	if s.tokens == nil {
		return
	}
	_ = s.tokens.Issue(ctx, sess)
}

func nullIfEmpty(v string) any {
	if v == "" {
		return nil
	}
	return v
}
