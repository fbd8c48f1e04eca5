package ports

import (
	"context"
	"time"

	"github.com/nhsjdiwlcnsv/DBLabs/internal/core/domain"
)

// IdentityResolver resolves the numeric identity behind an authenticated
// session from the tier's identity table.
type IdentityResolver interface {
	CallerID(ctx context.Context, sess *domain.Session) (int, error)
}

type AuthService interface {
	IdentityResolver
	// Authenticate probes staff first, then patient. No match is a normal
	// false outcome and leaves the session untouched.
	Authenticate(ctx context.Context, sess *domain.Session, email, secret string) (bool, error)
	// Register creates a patient identity and, on success, promotes the
	// session to Patient. A duplicate key is a false outcome, not an error.
	Register(ctx context.Context, sess *domain.Session, reg domain.Registration) (bool, error)
	FullName(ctx context.Context, sess *domain.Session) (string, error)
	// Resume restores an authenticated session from a saved token, if any.
	Resume(ctx context.Context, sess *domain.Session) error
	Logout(ctx context.Context, sess *domain.Session) error
}

type RecordService interface {
	// View returns one medical record. Patients are always scoped to their
	// own row; staff and admin name an explicit target patient.
	View(ctx context.Context, sess *domain.Session, patientID int) (*domain.MedicalRecord, error)
	UpdateOwn(ctx context.Context, sess *domain.Session, height, weight float64) error
}

type AppointmentService interface {
	Create(ctx context.Context, sess *domain.Session, in domain.AppointmentInput) error
	List(ctx context.Context, sess *domain.Session) ([]domain.Appointment, error)
	Update(ctx context.Context, sess *domain.Session, id int, description string, room int, at time.Time) error
	Delete(ctx context.Context, sess *domain.Session, id int) error
}

type AnnouncementService interface {
	Create(ctx context.Context, sess *domain.Session, title, description string) error
	List(ctx context.Context, sess *domain.Session) ([]domain.Announcement, error)
	Update(ctx context.Context, sess *domain.Session, id int, title, description string) error
	Delete(ctx context.Context, sess *domain.Session, id int) error
}

type BillService interface {
	Create(ctx context.Context, sess *domain.Session, patientID int, amount float64, description string) error
	List(ctx context.Context, sess *domain.Session) ([]domain.Bill, error)
	Delete(ctx context.Context, sess *domain.Session, id int) error
}
