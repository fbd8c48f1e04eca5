package outbox

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/nhsjdiwlcnsv/DBLabs/internal/config"
	"github.com/nhsjdiwlcnsv/DBLabs/internal/core/ports"
)

const (
	// PostgreSQL NOTIFY/LISTEN configuration
	listenerMinReconnectInterval = 10 * time.Second
	listenerMaxReconnectInterval = time.Minute
	outboxChannelName            = "outbox_channel"

	// Event processing timeouts
	eventProcessTimeout     = 30 * time.Second
	batchProcessTimeout     = 60 * time.Second
	periodicProcessInterval = 90 * time.Second

	// Health check configuration
	healthCheckStaleThreshold = 5 * time.Minute

	// Batch processing limits
	maxEventsPerBatch = 100
)

var (
	eventsProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "outbox_relay_events_processed_total",
		Help: "Outbox events published and marked processed.",
	})
	publishFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "outbox_relay_publish_failures_total",
		Help: "Announcement publishes that failed and will be retried.",
	})
)

// Relay listens for PostgreSQL NOTIFY signals on the outbox channel and
// publishes announcement events to RabbitMQ.
type Relay struct {
	db            *sql.DB
	publisher     ports.AnnouncementEventPublisher
	listener      *pq.Listener
	dbURL         string
	dbCB          *gobreaker.CircuitBreaker
	logger        *zap.Logger
	lastProcessed time.Time
	isHealthy     bool
}

// NewRelay creates a new outbox relay that listens for PostgreSQL notifications.
func NewRelay(db *sql.DB, dbURL string, publisher ports.AnnouncementEventPublisher, logger *zap.Logger) *Relay {
	return &Relay{
		db:            db,
		dbURL:         dbURL,
		publisher:     publisher,
		dbCB:          config.NewCircuitBreaker("Relay-PostgreSQL", logger),
		logger:        logger,
		lastProcessed: time.Now(),
		isHealthy:     true,
	}
}

// IsHealthy reports whether the relay process is alive and responding
// (liveness). Circuit breaker state is a readiness concern, not liveness.
func (r *Relay) IsHealthy() bool {
	return r.isHealthy
}

// IsReady reports whether the relay can process events (readiness).
func (r *Relay) IsReady() bool {
	if r.dbCB.State() == gobreaker.StateOpen {
		return false
	}
	if time.Since(r.lastProcessed) > healthCheckStaleThreshold {
		return false
	}
	return r.isHealthy
}

// Start begins listening for outbox notifications and processing events.
// This is a blocking call that runs until the context is cancelled.
func (r *Relay) Start(ctx context.Context) error {
	reportProblem := func(ev pq.ListenerEventType, err error) {
		if err != nil {
			r.logger.Error("listener error", zap.Error(err))
		}
	}

	r.listener = pq.NewListener(r.dbURL, listenerMinReconnectInterval, listenerMaxReconnectInterval, reportProblem)
	defer r.listener.Close()

	if err := r.listener.Listen(outboxChannelName); err != nil {
		return err
	}

	r.logger.Info("listening for outbox notifications", zap.String("channel", outboxChannelName))

	// Process any unprocessed events on startup (catch-up)
	if err := r.processUnprocessedEvents(ctx); err != nil {
		r.logger.Error("startup backlog processing failed", zap.Error(err))
	}

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("shutting down")
			return ctx.Err()

		case notification := <-r.listener.Notify:
			if notification == nil {
				r.logger.Warn("nil notification, reconnecting")
				r.isHealthy = false
				continue
			}

			if err := r.processEventByID(ctx, notification.Extra); err != nil {
				r.logger.Error("event processing failed",
					zap.String("event_id", notification.Extra), zap.Error(err))
			} else {
				r.lastProcessed = time.Now()
				r.isHealthy = true
			}

		case <-time.After(periodicProcessInterval):
			// Periodic ping to keep connection alive and catch missed events
			go r.listener.Ping()

			if err := r.processUnprocessedEvents(ctx); err != nil {
				r.logger.Error("periodic processing failed", zap.Error(err))
			} else {
				r.lastProcessed = time.Now()
			}
		}
	}
}

// processEventByID processes a single event by its ID.
func (r *Relay) processEventByID(ctx context.Context, eventID string) error {
	ctx, cancel := context.WithTimeout(ctx, eventProcessTimeout)
	defer cancel()

	_, err := r.dbCB.Execute(func() (interface{}, error) {
		tx, err := r.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, err
		}
		defer tx.Rollback()

		// Lock and fetch the event
		var id, eventType string
		var payload []byte
		err = tx.QueryRowContext(ctx, `
			SELECT id, event_type, payload
			FROM outbox_events
			WHERE id = $1 AND processed_at IS NULL
			FOR UPDATE SKIP LOCKED`, eventID).Scan(&id, &eventType, &payload)

		if err == sql.ErrNoRows {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}

		if eventType == ports.AnnouncementCreatedType {
			var evt ports.AnnouncementCreatedEvent
			if err := json.Unmarshal(payload, &evt); err != nil {
				r.logger.Warn("invalid event payload", zap.String("event_id", id), zap.Error(err))
				// Mark as processed anyway to avoid infinite retries on bad data
				_, _ = tx.ExecContext(ctx, `UPDATE outbox_events SET processed_at = NOW() WHERE id = $1`, id)
				return nil, tx.Commit()
			}

			if err := r.publisher.PublishAnnouncementCreated(ctx, evt); err != nil {
				publishFailures.Inc()
				return nil, err
			}
		}

		if _, err := tx.ExecContext(ctx, `UPDATE outbox_events SET processed_at = NOW() WHERE id = $1`, id); err != nil {
			return nil, err
		}
		eventsProcessed.Inc()

		return nil, tx.Commit()
	})
	return err
}

// processUnprocessedEvents processes all unprocessed events (catch-up/recovery).
func (r *Relay) processUnprocessedEvents(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, batchProcessTimeout)
	defer cancel()

	_, err := r.dbCB.Execute(func() (interface{}, error) {
		tx, err := r.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, err
		}
		defer tx.Rollback()

		rows, err := tx.QueryContext(ctx, `
			SELECT id, event_type, payload
			FROM outbox_events
			WHERE processed_at IS NULL
			ORDER BY created_at
			LIMIT $1
			FOR UPDATE SKIP LOCKED`, maxEventsPerBatch)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		type record struct {
			ID        string
			EventType string
			Payload   []byte
		}

		var records []record
		for rows.Next() {
			var rec record
			if err := rows.Scan(&rec.ID, &rec.EventType, &rec.Payload); err != nil {
				return nil, err
			}
			records = append(records, rec)
		}
		if err := rows.Err(); err != nil {
			return nil, err
		}

		for _, rec := range records {
			if rec.EventType == ports.AnnouncementCreatedType {
				var evt ports.AnnouncementCreatedEvent
				if err := json.Unmarshal(rec.Payload, &evt); err != nil {
					r.logger.Warn("invalid event payload", zap.String("event_id", rec.ID), zap.Error(err))
					_, _ = tx.ExecContext(ctx, `UPDATE outbox_events SET processed_at = NOW() WHERE id = $1`, rec.ID)
					continue
				}

				if err := r.publisher.PublishAnnouncementCreated(ctx, evt); err != nil {
					publishFailures.Inc()
					r.logger.Error("publish failed", zap.String("event_id", rec.ID), zap.Error(err))
					continue
				}
			}

			if _, err := tx.ExecContext(ctx, `UPDATE outbox_events SET processed_at = NOW() WHERE id = $1`, rec.ID); err != nil {
				return nil, err
			}
			eventsProcessed.Inc()

			r.logger.Debug("processed event", zap.String("event_id", rec.ID))
		}

		return nil, tx.Commit()
	})
	return err
}
