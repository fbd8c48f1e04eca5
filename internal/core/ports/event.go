package ports

import (
	"context"
)

// AnnouncementCreatedType tags outbox rows carrying announcement events.
const AnnouncementCreatedType = "announcement.created"

type AnnouncementCreatedEvent struct {
	AnnouncementID int    `json:"announcement_id"`
	Title          string `json:"title"`
	AuthorID       int    `json:"author_id"`
}

type AnnouncementEventPublisher interface {
	PublishAnnouncementCreated(ctx context.Context, evt AnnouncementCreatedEvent) error
}
