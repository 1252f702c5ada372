package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mesho254/SavingsModule/internal/domain"
	"github.com/mesho254/SavingsModule/internal/usecase"
)

const pgErrUniqueViolation = "23505"

const transactionColumns = `id, owner_id, goal_id, type, amount, status, description, date, event_type, idempotency_key, resolved_at`

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// Create inserts a transaction within a database transaction. A unique
// violation on the idempotency key index surfaces as
// domain.ErrDuplicateIdempotencyKey.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	pgxTx := tx.(*Tx).PgxTx()

	var resolvedAt pgtype.Timestamptz
	if txn.ResolvedAt != nil {
		resolvedAt = timeToPgTimestamptz(*txn.ResolvedAt)
	}

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO transactions (`+transactionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`,
		txn.ID,
		txn.OwnerID,
		stringPtrToText(txn.GoalID),
		string(txn.Type),
		decimalToNumeric(txn.Amount),
		string(txn.Status),
		txn.Description,
		timeToPgTimestamptz(txn.Date),
		string(txn.EventType),
		stringPtrToText(txn.IdempotencyKey),
		resolvedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation {
			return domain.ErrDuplicateIdempotencyKey
		}

		return err
	}

	return nil
}

// GetByID retrieves a transaction by ID.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id)

	return scanTransaction(row)
}

// GetByIDForUpdate retrieves a transaction by ID with a FOR UPDATE lock.
func (r *TransactionRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Transaction, error) {
	pgxTx := tx.(*Tx).PgxTx()

	row := pgxTx.QueryRow(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = $1 FOR UPDATE`, id)

	return scanTransaction(row)
}

// GetByIdempotencyKey retrieves a transaction by its idempotency key.
func (r *TransactionRepository) GetByIdempotencyKey(ctx context.Context, key string) (*domain.Transaction, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE idempotency_key = $1`, key)

	return scanTransaction(row)
}

// UpdateStatus transitions a transaction's status and stamps the resolution.
func (r *TransactionRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.TransactionStatus, description string, resolvedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx, `
		UPDATE transactions
		SET status = $2, description = $3, resolved_at = $4
		WHERE id = $1
	`,
		id,
		string(status),
		description,
		timeToPgTimestamptz(resolvedAt),
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}

	return nil
}

// ListByOwner lists an owner's transactions, newest first.
func (r *TransactionRepository) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Transaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+transactionColumns+` FROM transactions
		WHERE owner_id = $1
		ORDER BY date DESC
		LIMIT $2 OFFSET $3
	`, ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// List lists all transactions, newest first.
func (r *TransactionRepository) List(ctx context.Context, limit, offset int) ([]*domain.Transaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+transactionColumns+` FROM transactions
		ORDER BY date DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// ListPending lists pending withdrawals, oldest first so the queue drains in
// arrival order. The owner filter is optional.
func (r *TransactionRepository) ListPending(ctx context.Context, ownerID *string) ([]*domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + ` FROM transactions
		WHERE type = 'withdrawal' AND status = 'pending'
	`
	args := []any{}

	if ownerID != nil {
		query += ` AND owner_id = $1`
		args = append(args, *ownerID)
	}

	query += ` ORDER BY date ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// ListEffectiveByGoal lists a goal's successful deposits and approved
// withdrawals in chronological order.
func (r *TransactionRepository) ListEffectiveByGoal(ctx context.Context, goalID string) ([]*domain.Transaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+transactionColumns+` FROM transactions
		WHERE goal_id = $1
		  AND ((type = 'deposit' AND status = 'success')
		    OR (type = 'withdrawal' AND status = 'approved'))
		ORDER BY date ASC
	`, goalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// ListAllByDate lists every transaction ordered by date ascending.
func (r *TransactionRepository) ListAllByDate(ctx context.Context) ([]*domain.Transaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+transactionColumns+` FROM transactions
		ORDER BY date ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTransactions(rows)
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		txn              domain.Transaction
		goalID, idemKey  pgtype.Text
		txnType, status  string
		eventType        string
		amount           pgtype.Numeric
		date, resolvedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&txn.ID,
		&txn.OwnerID,
		&goalID,
		&txnType,
		&amount,
		&status,
		&txn.Description,
		&date,
		&eventType,
		&idemKey,
		&resolvedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}

		return nil, err
	}

	txn.GoalID = textToStringPtr(goalID)
	txn.Type = domain.TransactionType(txnType)
	txn.Amount = numericToDecimal(amount)
	txn.Status = domain.TransactionStatus(status)
	txn.Date = date.Time
	txn.EventType = domain.EventType(eventType)
	txn.IdempotencyKey = textToStringPtr(idemKey)
	txn.ResolvedAt = pgTimestamptzToTimePtr(resolvedAt)

	return &txn, nil
}

func scanTransactions(rows pgx.Rows) ([]*domain.Transaction, error) {
	txns := make([]*domain.Transaction, 0)
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, txn)
	}

	return txns, rows.Err()
}
