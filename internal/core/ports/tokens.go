package ports

import (
	"context"

	"github.com/nhsjdiwlcnsv/DBLabs/internal/core/domain"
)

// SessionTokenStore issues and redeems resume tokens so an authenticated
// session can survive a terminal restart. Implementations are optional;
// handlers must treat a nil store as "resume disabled".
type SessionTokenStore interface {
	Issue(ctx context.Context, sess *domain.Session) error
	// Restore returns the credentials referenced by the saved token, or
	// empty strings when there is nothing to resume.
	Restore(ctx context.Context) (email, secret string, err error)
	Revoke(ctx context.Context) error
}
