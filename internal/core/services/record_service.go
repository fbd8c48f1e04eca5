package services

import (
	"context"
	"fmt"

	"github.com/nhsjdiwlcnsv/DBLabs/internal/core/domain"
	"github.com/nhsjdiwlcnsv/DBLabs/internal/core/ports"
)

const recordByPatient = `
	SELECT
		hc.health_card_id AS record_id,
		hc.patient AS patient_id,
		CONCAT(p.first_name, ' ', p.last_name) AS full_name,
		hc.description AS info,
		hc.birth_date, hc.height, hc.weight, hc.bmi
	FROM health_card hc
	JOIN patient p ON p.patient_id = hc.patient
	WHERE hc.patient = $1`

type RecordService struct {
	store ports.Store
	ids   ports.IdentityResolver
}

var _ ports.RecordService = (*RecordService)(nil)

func NewRecordService(store ports.Store, ids ports.IdentityResolver) *RecordService {
	return &RecordService{store: store, ids: ids}
}

// View returns the health card for one patient. A Patient caller is always
// scoped to their own record regardless of the target argument; staff and
// admin read the explicit target.
func (s *RecordService) View(ctx context.Context, sess *domain.Session, patientID int) (*domain.MedicalRecord, error) {
	if err := domain.Guard(sess, domain.Authenticated); err != nil {
		return nil, err
	}
	if sess.Tier == domain.TierPatient {
		id, err := s.ids.CallerID(ctx, sess)
		if err != nil {
			return nil, err
		}
		patientID = id
	}

	row, err := s.store.QueryOne(ctx, recordByPatient, patientID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, fmt.Errorf("%w: no health card for patient %d", domain.ErrNotFound, patientID)
	}
	return &domain.MedicalRecord{
		RecordID:  row.Int("record_id"),
		PatientID: row.Int("patient_id"),
		FullName:  row.String("full_name"),
		Info:      row.String("info"),
		BirthDate: row.Time("birth_date"),
		Height:    row.Float("height"),
		Weight:    row.Float("weight"),
		BMI:       row.Float("bmi"),
	}, nil
}

// UpdateOwn changes the caller's height and weight through the
// update_health_card procedure, which recomputes the stored BMI.
func (s *RecordService) UpdateOwn(ctx context.Context, sess *domain.Session, height, weight float64) error {
	if err := domain.Guard(sess, domain.PatientOnly); err != nil {
		return err
	}
	if height <= 0 || weight <= 0 {
		return fmt.Errorf("%w: height and weight must be positive", domain.ErrValidation)
	}
	id, err := s.ids.CallerID(ctx, sess)
	if err != nil {
		return err
	}
	if err := s.store.Execute(ctx,
		`CALL update_health_card($1::integer, $2::real, $3::real)`,
		id, height, weight); err != nil {
		return err
	}
	return s.store.Commit(ctx)
}
