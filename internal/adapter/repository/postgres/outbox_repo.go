package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mesho254/SavingsModule/internal/domain"
	"github.com/mesho254/SavingsModule/internal/usecase"
)

const outboxColumns = `id, aggregate_id, aggregate_type, event_type, payload, created_at, published_at, published`

// OutboxRepository implements usecase.OutboxRepository.
type OutboxRepository struct {
	pool *pgxpool.Pool
}

// NewOutboxRepository creates a new OutboxRepository.
func NewOutboxRepository(pool *pgxpool.Pool) *OutboxRepository {
	return &OutboxRepository{pool: pool}
}

// Create writes an outbox event within the same transaction as the state
// change it describes.
func (r *OutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	pgxTx := tx.(*Tx).PgxTx()

	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return err
	}

	var publishedAt pgtype.Timestamptz
	if event.PublishedAt != nil {
		publishedAt = timeToPgTimestamptz(*event.PublishedAt)
	}

	_, err = pgxTx.Exec(ctx, `
		INSERT INTO outbox_events (`+outboxColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		event.ID,
		event.AggregateID,
		event.AggregateType,
		event.EventType,
		payload,
		timeToPgTimestamptz(event.CreatedAt),
		publishedAt,
		event.Published,
	)

	return err
}

// GetUnpublished retrieves unpublished events, oldest first.
func (r *OutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+outboxColumns+` FROM outbox_events
		WHERE published = false
		ORDER BY created_at ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*domain.OutboxEvent, 0)
	for rows.Next() {
		event, err := scanOutboxEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	return events, rows.Err()
}

// MarkPublished marks an event as published.
func (r *OutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE outbox_events
		SET published = true, published_at = $2
		WHERE id = $1
	`, id, timeToPgTimestamptz(publishedAt))

	return err
}

// DeletePublished deletes published events older than the given time.
func (r *OutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	_, err := r.pool.Exec(ctx, `
		DELETE FROM outbox_events
		WHERE published = true AND published_at < $1
	`, timeToPgTimestamptz(before))

	return err
}

func scanOutboxEvent(row pgx.Row) (*domain.OutboxEvent, error) {
	var (
		event       domain.OutboxEvent
		payload     []byte
		createdAt   pgtype.Timestamptz
		publishedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&event.ID,
		&event.AggregateID,
		&event.AggregateType,
		&event.EventType,
		&payload,
		&createdAt,
		&publishedAt,
		&event.Published,
	)
	if err != nil {
		return nil, err
	}

	if payload != nil {
		_ = json.Unmarshal(payload, &event.Payload)
	}

	event.CreatedAt = createdAt.Time
	event.PublishedAt = pgTimestamptzToTimePtr(publishedAt)

	return &event, nil
}
