package audit

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/kedikian/admin-gateway/internal/core/ports"
)

// Observer turns session changes into an audit trail. It subscribes to the
// session manager and logs every transition, so operators can reconstruct who
// was signed in and when sessions were dropped.
type Observer struct {
	sessions ports.SessionManager
	log      zerolog.Logger
}

func NewObserver(sessions ports.SessionManager, log zerolog.Logger) *Observer {
	return &Observer{sessions: sessions, log: log}
}

// Start launches the consuming goroutine. It stops, and unsubscribes, when ctx
// is cancelled.
func (o *Observer) Start(ctx context.Context) {
	ch, unsubscribe := o.sessions.Subscribe()
	go func() {
		defer unsubscribe()
		for {
			select {
			case <-ctx.Done():
				return
			case session, ok := <-ch:
				if !ok {
					return
				}
				if session == nil {
					o.log.Info().Msg("session ended")
					continue
				}
				o.log.Info().
					Str("user_id", session.ID).
					Str("username", session.Username).
					Str("role", session.Role).
					Bool("provisional", session.Provisional()).
					Msg("session changed")
			}
		}
	}()
}
