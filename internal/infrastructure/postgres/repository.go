package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sp3dr4/wren/internal/domain"
)

// Driver names accepted by sqlx.Connect for PostgreSQL.
const (
	DriverPQ  = "postgres"
	DriverPGX = "pgx"
)

const (
	codeUniqueViolation  = "23505"
	codeNotNullViolation = "23502"
	codeCheckViolation   = "23514"
)

type URLRepository struct {
	db *sqlx.DB
}

func NewURLRepository(db *sqlx.DB) *URLRepository {
	return &URLRepository{db: db}
}

func (r *URLRepository) Create(ctx context.Context, url *domain.URL) (*domain.URL, error) {
	query := `
		INSERT INTO urls (short_code, original_url, created_at, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	createdAt := url.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	result := url.Clone()
	result.Clicks = 0
	err := r.db.QueryRowxContext(ctx, query, url.ShortCode, url.OriginalURL, createdAt, url.ExpiresAt).
		Scan(&result.ID, &result.CreatedAt)
	if err != nil {
		return nil, r.handlePostgreSQLError(err, "create URL")
	}

	slog.Debug("URL created successfully", "short_code", result.ShortCode, "id", result.ID)
	return result, nil
}

func (r *URLRepository) FindByShortCode(ctx context.Context, shortCode string) (*domain.URL, error) {
	var url domain.URL
	query := `SELECT id, short_code, original_url, clicks, created_at, expires_at FROM urls WHERE short_code = $1`

	err := r.db.GetContext(ctx, &url, query, shortCode)
	if err != nil {
		return nil, r.handlePostgreSQLError(err, "find URL by short code")
	}

	return &url, nil
}

func (r *URLRepository) IncrementClicks(ctx context.Context, id int64) error {
	query := `UPDATE urls SET clicks = clicks + 1 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return r.handlePostgreSQLError(err, "increment clicks")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("increment clicks: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrURLNotFound
	}

	return nil
}

// handlePostgreSQLError converts driver errors from either lib/pq or pgx to
// domain errors.
func (r *URLRepository) handlePostgreSQLError(err error, operation string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrURLNotFound
	}

	var (
		code, message, detail string
		pqErr                 *pq.Error
		pgErr                 *pgconn.PgError
	)
	switch {
	case errors.As(err, &pqErr):
		code, message, detail = string(pqErr.Code), pqErr.Message, pqErr.Detail
	case errors.As(err, &pgErr):
		code, message, detail = pgErr.Code, pgErr.Message, pgErr.Detail
	default:
		return fmt.Errorf("%s: %w", operation, err)
	}

	slog.Error("PostgreSQL error",
		"operation", operation,
		"code", code,
		"message", message,
		"detail", detail,
	)

	switch code {
	case codeUniqueViolation:
		return domain.ErrShortCodeExists
	case codeNotNullViolation:
		return fmt.Errorf("%s: required field missing: %w", operation, err)
	case codeCheckViolation:
		return fmt.Errorf("%s: check constraint violation: %w", operation, err)
	default:
		return fmt.Errorf("%s: database error [%s]: %w", operation, code, err)
	}
}

func (r *URLRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *URLRepository) HealthCheck(ctx context.Context) error {
	if r.db == nil {
		return errors.New("database connection is nil")
	}
	return r.db.PingContext(ctx)
}
