package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/mesho254/SavingsModule/internal/domain"
	"github.com/mesho254/SavingsModule/internal/usecase"
)

const goalColumns = `id, owner_id, target_amount, target_date, current_balance, version, created_at, updated_at`

// GoalRepository implements usecase.GoalRepository.
type GoalRepository struct {
	pool *pgxpool.Pool
}

// NewGoalRepository creates a new GoalRepository.
func NewGoalRepository(pool *pgxpool.Pool) *GoalRepository {
	return &GoalRepository{pool: pool}
}

// Create inserts a goal within a transaction.
func (r *GoalRepository) Create(ctx context.Context, tx usecase.Transaction, goal *domain.Goal) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO goals (`+goalColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		goal.ID,
		goal.OwnerID,
		decimalToNumeric(goal.TargetAmount),
		timeToPgTimestamptz(goal.TargetDate),
		decimalToNumeric(goal.CurrentBalance),
		goal.Version,
		timeToPgTimestamptz(goal.CreatedAt),
		timeToPgTimestamptz(goal.UpdatedAt),
	)

	return err
}

// GetByID retrieves a goal by ID.
func (r *GoalRepository) GetByID(ctx context.Context, id string) (*domain.Goal, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+goalColumns+` FROM goals WHERE id = $1`, id)

	return scanGoal(row)
}

// GetByIDForUpdate retrieves a goal by ID with a FOR UPDATE lock.
func (r *GoalRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Goal, error) {
	pgxTx := tx.(*Tx).PgxTx()

	row := pgxTx.QueryRow(ctx, `SELECT `+goalColumns+` FROM goals WHERE id = $1 FOR UPDATE`, id)

	return scanGoal(row)
}

// IncrementBalance applies a relative balance change as a single statement.
// The store does the arithmetic, so concurrent increments never lose updates.
func (r *GoalRepository) IncrementBalance(ctx context.Context, tx usecase.Transaction, id string, delta decimal.Decimal, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx, `
		UPDATE goals
		SET current_balance = current_balance + $2,
		    version = version + 1,
		    updated_at = $3
		WHERE id = $1
	`,
		id,
		decimalToNumeric(delta),
		timeToPgTimestamptz(updatedAt),
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrGoalNotFound
	}

	return nil
}

// ListByOwner lists an owner's goals with pagination.
func (r *GoalRepository) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Goal, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+goalColumns+` FROM goals
		WHERE owner_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanGoals(rows)
}

// List lists all goals with pagination.
func (r *GoalRepository) List(ctx context.Context, limit, offset int) ([]*domain.Goal, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+goalColumns+` FROM goals
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanGoals(rows)
}

func scanGoal(row pgx.Row) (*domain.Goal, error) {
	var (
		goal                         domain.Goal
		targetAmount, currentBalance pgtype.Numeric
		targetDate, createdAt, updAt pgtype.Timestamptz
	)

	err := row.Scan(
		&goal.ID,
		&goal.OwnerID,
		&targetAmount,
		&targetDate,
		&currentBalance,
		&goal.Version,
		&createdAt,
		&updAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrGoalNotFound
		}

		return nil, err
	}

	goal.TargetAmount = numericToDecimal(targetAmount)
	goal.CurrentBalance = numericToDecimal(currentBalance)
	goal.TargetDate = targetDate.Time
	goal.CreatedAt = createdAt.Time
	goal.UpdatedAt = updAt.Time

	return &goal, nil
}

func scanGoals(rows pgx.Rows) ([]*domain.Goal, error) {
	goals := make([]*domain.Goal, 0)
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, goal)
	}

	return goals, rows.Err()
}
