package service

import (
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

const (
	// SubjectLessonCompleted is emitted once per lesson completion.
	SubjectLessonCompleted = "hearth.lesson.completed"
	// SubjectActivityResponded is emitted for every graded submission.
	SubjectActivityResponded = "hearth.activity.responded"
)

// LessonCompletedEvent is the payload published on SubjectLessonCompleted.
type LessonCompletedEvent struct {
	StudentID    uint      `json:"student_id"`
	LessonID     uint      `json:"lesson_id"`
	PointsEarned int       `json:"points_earned"`
	Streak       int       `json:"streak"`
	CompletedAt  time.Time `json:"completed_at"`
}

// ActivityRespondedEvent is the payload published on SubjectActivityResponded.
type ActivityRespondedEvent struct {
	StudentID    uint      `json:"student_id"`
	ActivityID   uint      `json:"activity_id"`
	ActivityType string    `json:"activity_type"`
	IsCorrect    bool      `json:"is_correct"`
	PointsEarned int       `json:"points_earned"`
	RespondedAt  time.Time `json:"responded_at"`
}

// EventPublisher emits domain events to NATS. Delivery is best-effort: a
// publish failure is logged, never surfaced to the request path.
type EventPublisher interface {
	Publish(subject string, payload interface{})
}

type eventPublisher struct {
	conn   *nats.Conn
	logger zerolog.Logger
}

// NewEventPublisher wraps a NATS connection. A nil connection yields a
// publisher that drops events, which keeps local development broker-free.
func NewEventPublisher(conn *nats.Conn, logger zerolog.Logger) EventPublisher {
	return &eventPublisher{
		conn:   conn,
		logger: logger.With().Str("component", "event_publisher").Logger(),
	}
}

func (p *eventPublisher) Publish(subject string, payload interface{}) {
	if p.conn == nil {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		p.logger.Warn().Err(err).Str("subject", subject).Msg("failed to encode event")
		return
	}

	if err := p.conn.Publish(subject, data); err != nil {
		p.logger.Warn().Err(err).Str("subject", subject).Msg("failed to publish event")
	}
}
