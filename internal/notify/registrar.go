package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/langx-app/server/internal/models"
	"github.com/langx-app/server/internal/session"
)

const upsertTimeout = 10 * time.Second

// Registrar binds device push tokens to the authenticated user's profile
// record. Delivery of a token may happen before, during, or after account
// setup; the upsert targets only the fcmToken field so it never races the
// setup workflow's create destructively.
type Registrar struct {
	profiles models.ProfileRepo
	logger   *slog.Logger
	wg       sync.WaitGroup
}

func NewRegistrar(profiles models.ProfileRepo, logger *slog.Logger) *Registrar {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registrar{
		profiles: profiles,
		logger:   logger,
	}
}

// RegisterToken dispatches a merge-write of the token into the session user's
// profile. With no token or no authenticated session the call is a deliberate
// silent no-op, not an error. The caller is never blocked past dispatch and
// never sees a write failure: a failed token upload must not prevent future
// delivery attempts.
func (r *Registrar) RegisterToken(sess *session.Session, token string) {
	if token == "" || sess == nil {
		return
	}
	if _, ok := sess.CurrentUserID(); !ok {
		return
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.upsert(sess, token)
	}()
}

func (r *Registrar) upsert(sess *session.Session, token string) {
	// Re-read the user id now rather than trusting the one seen at dispatch:
	// a sign-out may have landed in between, and a stale id must never be
	// written to.
	userID, ok := sess.CurrentUserID()
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), upsertTimeout)
	defer cancel()

	err := r.profiles.MergeProfile(ctx, userID, map[string]interface{}{
		"fcmToken": token,
	})
	if err != nil {
		r.logger.Error("failed to upsert fcm token", "user_id", userID, "error", err)
	}
}

// Wait blocks until all dispatched upserts have resolved. Used on shutdown.
func (r *Registrar) Wait() {
	r.wg.Wait()
}
