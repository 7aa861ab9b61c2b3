package events

import (
	"encoding/json"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/edudesk/admin-api/internal/dto"
)

// DefaultActivitySubject is used when no subject is configured.
const DefaultActivitySubject = "admin.activity"

// ActivityPublisher fans audit entries out to NATS so external sinks can
// consume them. Publishing is strictly best-effort: failures are logged and
// never surfaced to the operation that produced the entry.
type ActivityPublisher struct {
	conn    *nats.Conn
	subject string
	logger  zerolog.Logger
}

// NewActivityPublisher constructs a publisher. A nil connection yields a
// publisher that silently drops events.
func NewActivityPublisher(conn *nats.Conn, subject string, logger zerolog.Logger) *ActivityPublisher {
	if subject == "" {
		subject = DefaultActivitySubject
	}
	return &ActivityPublisher{
		conn:    conn,
		subject: subject,
		logger:  logger.With().Str("component", "activity_publisher").Logger(),
	}
}

// Publish sends one audit entry to the configured subject.
func (p *ActivityPublisher) Publish(entry dto.ActivityResponse) {
	if p == nil || p.conn == nil {
		return
	}

	payload, err := json.Marshal(entry)
	if err != nil {
		p.logger.Warn().Err(err).Msg("failed to encode activity event")
		return
	}

	if err := p.conn.Publish(p.subject, payload); err != nil {
		p.logger.Warn().Err(err).Str("subject", p.subject).Msg("failed to publish activity event")
	}
}
