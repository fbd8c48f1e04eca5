package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/nhsjdiwlcnsv/DBLabs/internal/core/domain"
	"github.com/nhsjdiwlcnsv/DBLabs/internal/core/ports"
)

const (
	listAnnouncements = `
	SELECT
		an.announcement_id, an.title, an.description,
		an.author AS author_id,
		st.email AS author_email
	FROM announcement an
	JOIN staff st ON st.staff_id = an.author`

	maxAnnouncementID = `SELECT COALESCE(MAX(announcement_id), 0) AS announcement_id FROM announcement`

	insertAnnouncement = `
	INSERT INTO announcement (announcement_id, title, description, author)
	VALUES ($1, $2, $3, $4)`

	insertOutboxEvent = `
	INSERT INTO outbox_events (id, event_type, payload, created_at)
	VALUES ($1, $2, $3, NOW())`

	deleteAnnouncement = `DELETE FROM announcement WHERE announcement_id=$1`

	callUpdateAnnouncement = `CALL update_announcement($1::integer, $2::text, $3::text)`
)

type AnnouncementService struct {
	store ports.Store
	ids   ports.IdentityResolver
}

var _ ports.AnnouncementService = (*AnnouncementService)(nil)

func NewAnnouncementService(store ports.Store, ids ports.IdentityResolver) *AnnouncementService {
	return &AnnouncementService{store: store, ids: ids}
}

// Create publishes an announcement authored by the caller. The outbox event
// rides the same transaction as the row it describes; the relay picks it up
// after commit.
func (s *AnnouncementService) Create(ctx context.Context, sess *domain.Session, title, description string) error {
	if err := domain.Guard(sess, domain.StaffOnly); err != nil {
		return err
	}
	if title == "" {
		return fmt.Errorf("%w: a title is required", domain.ErrValidation)
	}

	author, err := s.ids.CallerID(ctx, sess)
	if err != nil {
		return err
	}
	last, err := s.store.QueryOne(ctx, maxAnnouncementID)
	if err != nil {
		return err
	}
	next := last.Int("announcement_id") + 1

	if err := s.store.Execute(ctx, insertAnnouncement, next, title, nullIfEmpty(description), author); err != nil {
		return err
	}

	payload, err := json.Marshal(ports.AnnouncementCreatedEvent{
		AnnouncementID: next,
		Title:          title,
		AuthorID:       author,
	})
	if err != nil {
		return err
	}
	if err := s.store.Execute(ctx, insertOutboxEvent, uuid.NewString(), ports.AnnouncementCreatedType, payload); err != nil {
		return err
	}
	return s.store.Commit(ctx)
}

// List returns announcements visible to the caller. Announcements carry no
// patient ownership, so patients see the whole board; staff see only rows
// they authored; admin is unscoped.
func (s *AnnouncementService) List(ctx context.Context, sess *domain.Session) ([]domain.Announcement, error) {
	if err := domain.Guard(sess, domain.Authenticated); err != nil {
		return nil, err
	}

	query := listAnnouncements + " ORDER BY an.announcement_id"
	var args []any
	if sess.Tier == domain.TierStaff {
		id, err := s.ids.CallerID(ctx, sess)
		if err != nil {
			return nil, err
		}
		query = listAnnouncements + " WHERE an.author = $1 ORDER BY an.announcement_id"
		args = append(args, id)
	}

	rows, err := s.store.QueryAll(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	announcements := make([]domain.Announcement, 0, len(rows))
	for _, row := range rows {
		announcements = append(announcements, domain.Announcement{
			ID:          row.Int("announcement_id"),
			Title:       row.String("title"),
			AuthorID:    row.Int("author_id"),
			AuthorEmail: row.String("author_email"),
			Description: row.String("description"),
		})
	}
	return announcements, nil
}

// Update rewrites title and description through the update_announcement
// procedure. Admin only.
func (s *AnnouncementService) Update(ctx context.Context, sess *domain.Session, id int, title, description string) error {
	if err := domain.Guard(sess, domain.AdminOnly); err != nil {
		return err
	}
	if title == "" {
		return fmt.Errorf("%w: a title is required", domain.ErrValidation)
	}
	if err := s.store.Execute(ctx, callUpdateAnnouncement, id, title, description); err != nil {
		return err
	}
	return s.store.Commit(ctx)
}

// Delete removes an announcement. Admin only; idempotent.
func (s *AnnouncementService) Delete(ctx context.Context, sess *domain.Session, id int) error {
	if err := domain.Guard(sess, domain.AdminOnly); err != nil {
		return err
	}
	if err := s.store.Execute(ctx, deleteAnnouncement, id); err != nil {
		return err
	}
	return s.store.Commit(ctx)
}
