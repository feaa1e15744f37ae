package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	apperrors "github.com/campusops/tigerpatrol/internal/errors"
	"github.com/campusops/tigerpatrol/internal/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	GetByUsername(ctx context.Context, username, role string) (*models.Account, error)
}

type accountRepository struct {
	db *sqlx.DB
}

func NewAccountRepository(db *sqlx.DB) AccountRepository {
	return &accountRepository{db: db}
}

// Create inserts an account. Username uniqueness per role is enforced by a
// unique index, so the check and the insert are one atomic statement: under
// concurrent duplicate registrations exactly one insert succeeds and the
// rest get ErrDuplicateUsername.
func (r *accountRepository) Create(ctx context.Context, account *models.Account) error {
	if account.ID == "" {
		account.ID = uuid.New().String()
	}
	account.CreatedAt = time.Now()

	query := `
		INSERT INTO accounts (id, username, role, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query,
		account.ID, account.Username, account.Role, account.PasswordHash, account.CreatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return apperrors.ErrDuplicateUsername
	}
	return err
}

func (r *accountRepository) GetByUsername(ctx context.Context, username, role string) (*models.Account, error) {
	var account models.Account
	query := `SELECT * FROM accounts WHERE username = $1 AND role = $2`
	err := r.db.GetContext(ctx, &account, query, username, role)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return &account, err
}
