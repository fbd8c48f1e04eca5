package services

import (
	"context"
	"fmt"

	"github.com/nhsjdiwlcnsv/DBLabs/internal/core/domain"
	"github.com/nhsjdiwlcnsv/DBLabs/internal/core/ports"
)

// billScopes mirrors appointmentScopes: patients see bills issued to them,
// staff see bills they issued, admin sees everything.
var billScopes = map[domain.Tier]string{
	domain.TierPatient: "patient",
	domain.TierStaff:   "author",
}

const (
	listBills = `
	SELECT bill_id, patient AS patient_id, author AS author_id, amount, description
	FROM bill`

	maxBillID = `SELECT COALESCE(MAX(bill_id), 0) AS bill_id FROM bill`

	insertBill = `
	INSERT INTO bill (bill_id, patient, author, amount, description)
	VALUES ($1, $2, $3, $4, $5)`

	deleteBill = `DELETE FROM bill WHERE bill_id=$1`
)

type BillService struct {
	store ports.Store
	ids   ports.IdentityResolver
}

var _ ports.BillService = (*BillService)(nil)

func NewBillService(store ports.Store, ids ports.IdentityResolver) *BillService {
	return &BillService{store: store, ids: ids}
}

// Create issues a bill to a patient, authored by the caller.
func (s *BillService) Create(ctx context.Context, sess *domain.Session, patientID int, amount float64, description string) error {
	if err := domain.Guard(sess, domain.StaffOnly); err != nil {
		return err
	}
	if patientID <= 0 {
		return fmt.Errorf("%w: a patient id is required", domain.ErrValidation)
	}
	if amount <= 0 {
		return fmt.Errorf("%w: the amount must be positive", domain.ErrValidation)
	}

	author, err := s.ids.CallerID(ctx, sess)
	if err != nil {
		return err
	}
	last, err := s.store.QueryOne(ctx, maxBillID)
	if err != nil {
		return err
	}
	next := last.Int("bill_id") + 1

	if err := s.store.Execute(ctx, insertBill, next, patientID, author, amount, nullIfEmpty(description)); err != nil {
		return err
	}
	return s.store.Commit(ctx)
}

// List returns bills visible to the caller, scoped by tier.
func (s *BillService) List(ctx context.Context, sess *domain.Session) ([]domain.Bill, error) {
	if err := domain.Guard(sess, domain.Authenticated); err != nil {
		return nil, err
	}

	query := listBills + " ORDER BY bill_id"
	var args []any
	if column, scoped := billScopes[sess.Tier]; scoped {
		id, err := s.ids.CallerID(ctx, sess)
		if err != nil {
			return nil, err
		}
		query = listBills + " WHERE " + column + " = $1 ORDER BY bill_id"
		args = append(args, id)
	}

	rows, err := s.store.QueryAll(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	bills := make([]domain.Bill, 0, len(rows))
	for _, row := range rows {
		bills = append(bills, domain.Bill{
			ID:          row.Int("bill_id"),
			PatientID:   row.Int("patient_id"),
			AuthorID:    row.Int("author_id"),
			Amount:      row.Float("amount"),
			Description: row.String("description"),
		})
	}
	return bills, nil
}

// Delete removes a bill. Admin only; idempotent.
func (s *BillService) Delete(ctx context.Context, sess *domain.Session, id int) error {
	if err := domain.Guard(sess, domain.AdminOnly); err != nil {
		return err
	}
	if err := s.store.Execute(ctx, deleteBill, id); err != nil {
		return err
	}
	return s.store.Commit(ctx)
}
