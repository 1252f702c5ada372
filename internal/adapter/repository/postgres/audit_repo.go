package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mesho254/SavingsModule/internal/domain"
	"github.com/mesho254/SavingsModule/internal/usecase"
)

const auditColumns = `id, user_id, action, resource_type, resource_id, request_id, before_state, after_state, status, error_message, created_at`

// AuditRepository implements usecase.AuditRepository.
type AuditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

// Create inserts an audit log entry against the pool.
func (r *AuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	return r.insert(ctx, r.pool, log)
}

// CreateTx inserts an audit log entry inside an open transaction, so the
// audit record commits or rolls back with the action it documents.
func (r *AuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	return r.insert(ctx, tx.(*Tx).PgxTx(), log)
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func (r *AuditRepository) insert(ctx context.Context, db execer, log *domain.AuditLog) error {
	if log.ID == "" {
		log.ID = uuid.New().String()
	}

	beforeState, afterState, err := marshalStates(log)
	if err != nil {
		return err
	}

	_, err = db.Exec(ctx, `
		INSERT INTO audit_logs (`+auditColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`,
		log.ID,
		log.UserID,
		log.Action,
		log.ResourceType,
		log.ResourceID,
		log.RequestID,
		beforeState,
		afterState,
		log.Status,
		log.ErrorMessage,
		log.CreatedAt,
	)

	return err
}

// List retrieves audit logs with filtering, newest first.
func (r *AuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	query := `SELECT ` + auditColumns + ` FROM audit_logs WHERE 1=1`
	args := []any{}

	addFilter := func(clause, value string) {
		if value != "" {
			args = append(args, value)
			query += fmt.Sprintf(` AND %s = $%d`, clause, len(args))
		}
	}

	addFilter("user_id", filter.UserID)
	addFilter("action", filter.Action)
	addFilter("resource_type", filter.ResourceType)
	addFilter("resource_id", filter.ResourceID)

	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		query += fmt.Sprintf(` AND created_at >= $%d`, len(args))
	}

	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		query += fmt.Sprintf(` AND created_at <= $%d`, len(args))
	}

	query += ` ORDER BY created_at DESC`

	limit, offset := domain.ValidatePagination(filter.Limit, filter.Offset)
	args = append(args, limit)
	query += fmt.Sprintf(` LIMIT $%d`, len(args))
	args = append(args, offset)
	query += fmt.Sprintf(` OFFSET $%d`, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*domain.AuditLog
	for rows.Next() {
		log, err := scanAuditLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}

	return logs, rows.Err()
}

func marshalStates(log *domain.AuditLog) ([]byte, []byte, error) {
	var beforeState, afterState []byte
	var err error

	if log.BeforeState != nil {
		beforeState, err = json.Marshal(log.BeforeState)
		if err != nil {
			return nil, nil, err
		}
	}

	if log.AfterState != nil {
		afterState, err = json.Marshal(log.AfterState)
		if err != nil {
			return nil, nil, err
		}
	}

	return beforeState, afterState, nil
}

func scanAuditLog(row pgx.Row) (*domain.AuditLog, error) {
	var log domain.AuditLog
	var beforeState, afterState []byte

	err := row.Scan(
		&log.ID,
		&log.UserID,
		&log.Action,
		&log.ResourceType,
		&log.ResourceID,
		&log.RequestID,
		&beforeState,
		&afterState,
		&log.Status,
		&log.ErrorMessage,
		&log.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if beforeState != nil {
		_ = json.Unmarshal(beforeState, &log.BeforeState)
	}

	if afterState != nil {
		_ = json.Unmarshal(afterState, &log.AfterState)
	}

	return &log, nil
}
