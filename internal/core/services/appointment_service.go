package services

import (
	"context"
	"fmt"
	"time"

	"github.com/nhsjdiwlcnsv/DBLabs/internal/core/domain"
	"github.com/nhsjdiwlcnsv/DBLabs/internal/core/ports"
)

// appointmentScopes maps a tier onto the column its listings are filtered
// by. Admin is absent on purpose: admin listings are unscoped.
var appointmentScopes = map[domain.Tier]string{
	domain.TierPatient: "a.patient",
	domain.TierStaff:   "a.doctor",
}

const (
	listAppointments = `
	SELECT
		a.appointment_id, a.type, a.time, a.room, a.description,
		a.patient AS patient_id,
		a.doctor AS doctor_id,
		CONCAT(p.first_name, ' ', p.last_name) AS patient_name,
		CONCAT(s.first_name, ' ', s.last_name) AS doctor_name
	FROM appointment a
	JOIN staff s ON s.staff_id = a.doctor
	JOIN patient p ON p.patient_id = a.patient`

	maxAppointmentID = `SELECT COALESCE(MAX(appointment_id), 0) AS appointment_id FROM appointment`

	insertAppointment = `
	INSERT INTO appointment (appointment_id, type, patient, doctor, time, room, description)
	VALUES ($1, $2, $3, $4, $5, $6, $7)`

	deleteAppointment = `DELETE FROM appointment WHERE appointment_id=$1`

	// Stored transition: updates time, room and description atomically.
	callUpdateAppointment = `CALL update_appointment($1::integer, $2::text, $3::integer, $4::timestamp without time zone)`
)

type AppointmentService struct {
	store ports.Store
	ids   ports.IdentityResolver
}

var _ ports.AppointmentService = (*AppointmentService)(nil)

func NewAppointmentService(store ports.Store, ids ports.IdentityResolver) *AppointmentService {
	return &AppointmentService{store: store, ids: ids}
}

// Create books an appointment with the caller as the doctor. The id is
// allocated as max+1, same as every other entity here.
func (s *AppointmentService) Create(ctx context.Context, sess *domain.Session, in domain.AppointmentInput) error {
	if err := domain.Guard(sess, domain.StaffOnly); err != nil {
		return err
	}
	if in.PatientID <= 0 {
		return fmt.Errorf("%w: a patient id is required", domain.ErrValidation)
	}
	if in.Time.IsZero() {
		return fmt.Errorf("%w: a timestamp is required", domain.ErrValidation)
	}

	doctor, err := s.ids.CallerID(ctx, sess)
	if err != nil {
		return err
	}
	last, err := s.store.QueryOne(ctx, maxAppointmentID)
	if err != nil {
		return err
	}
	next := last.Int("appointment_id") + 1

	if err := s.store.Execute(ctx, insertAppointment,
		next, in.Type, in.PatientID, doctor, in.Time, in.Room, nullIfEmpty(in.Description)); err != nil {
		return err
	}
	return s.store.Commit(ctx)
}

// List returns appointments visible to the caller: patients see rows they
// own, staff see rows where they are the doctor, admin sees everything.
func (s *AppointmentService) List(ctx context.Context, sess *domain.Session) ([]domain.Appointment, error) {
	if err := domain.Guard(sess, domain.Authenticated); err != nil {
		return nil, err
	}

	query := listAppointments + " ORDER BY a.time"
	var args []any
	if column, scoped := appointmentScopes[sess.Tier]; scoped {
		id, err := s.ids.CallerID(ctx, sess)
		if err != nil {
			return nil, err
		}
		query = listAppointments + " WHERE " + column + " = $1 ORDER BY a.time"
		args = append(args, id)
	}

	rows, err := s.store.QueryAll(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	appointments := make([]domain.Appointment, 0, len(rows))
	for _, row := range rows {
		appointments = append(appointments, domain.Appointment{
			ID:          row.Int("appointment_id"),
			Type:        row.String("type"),
			PatientID:   row.Int("patient_id"),
			DoctorID:    row.Int("doctor_id"),
			PatientName: row.String("patient_name"),
			DoctorName:  row.String("doctor_name"),
			Time:        row.Time("time"),
			Room:        row.Int("room"),
			Description: row.String("description"),
		})
	}
	return appointments, nil
}

// Update rewrites description, room and time through the update_appointment
// procedure.
func (s *AppointmentService) Update(ctx context.Context, sess *domain.Session, id int, description string, room int, at time.Time) error {
	if err := domain.Guard(sess, domain.StaffOnly); err != nil {
		return err
	}
	if at.IsZero() {
		return fmt.Errorf("%w: a timestamp is required", domain.ErrValidation)
	}
	if err := s.store.Execute(ctx, callUpdateAppointment, id, description, room, at); err != nil {
		return err
	}
	return s.store.Commit(ctx)
}

// Delete removes an appointment. Deleting an id that does not exist is a
// no-op that still commits.
func (s *AppointmentService) Delete(ctx context.Context, sess *domain.Session, id int) error {
	if err := domain.Guard(sess, domain.StaffOnly); err != nil {
		return err
	}
	if err := s.store.Execute(ctx, deleteAppointment, id); err != nil {
		return err
	}
	return s.store.Commit(ctx)
}
