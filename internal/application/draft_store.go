package application

import (
	"context"

	"github.com/google/uuid"

	"github.com/tidynest/service-booking/internal/domain/wizard"
)

// DraftStore holds live wizard sessions. Sessions expire on their own after
// the configured TTL; an abandoned draft is simply never seen again.
type DraftStore interface {
	// Put saves or refreshes a session.
	Put(ctx context.Context, session *wizard.Session) error

	// Get retrieves a session by id, returning a not-found domain error when
	// the session never existed or has expired.
	Get(ctx context.Context, id uuid.UUID) (*wizard.Session, error)

	// Delete removes a session.
	Delete(ctx context.Context, id uuid.UUID) error
}
