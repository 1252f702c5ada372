package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mesho254/SavingsModule/internal/domain"
	"github.com/mesho254/SavingsModule/internal/usecase"
)

const userColumns = `id, email, name, role, last_deposit_at, created_at, updated_at`

// UserRepository implements usecase.UserRepository.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create inserts a user.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	var lastDeposit pgtype.Timestamptz
	if user.LastDepositAt != nil {
		lastDeposit = timeToPgTimestamptz(*user.LastDepositAt)
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		user.ID,
		user.Email,
		user.Name,
		string(user.Role),
		lastDeposit,
		timeToPgTimestamptz(user.CreatedAt),
		timeToPgTimestamptz(user.UpdatedAt),
	)

	return err
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var (
		user        domain.User
		role        string
		lastDeposit pgtype.Timestamptz
		createdAt   pgtype.Timestamptz
		updatedAt   pgtype.Timestamptz
	)

	err := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id).Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&role,
		&lastDeposit,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}

		return nil, err
	}

	user.Role = domain.Role(role)
	user.LastDepositAt = pgTimestamptzToTimePtr(lastDeposit)
	user.CreatedAt = createdAt.Time
	user.UpdatedAt = updatedAt.Time

	return &user, nil
}

// UpdateLastDeposit stamps the user's most recent settled deposit.
func (r *UserRepository) UpdateLastDeposit(ctx context.Context, tx usecase.Transaction, id string, at time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx, `
		UPDATE users
		SET last_deposit_at = $2, updated_at = $2
		WHERE id = $1
	`, id, timeToPgTimestamptz(at))
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}

	return nil
}
