// AngelaMos | 2026
// repository.go

package layout

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/carterperez-dev/bazaar-api/internal/core"
)

type Repository interface {
	Create(ctx context.Context, layout *Layout) error
	GetByType(ctx context.Context, layoutType string) (*Layout, error)
	UpdateContent(ctx context.Context, layoutType string, content Content) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, layout *Layout) error {
	query := `
		INSERT INTO layouts (id, type, content)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, layout, query,
		layout.ID,
		layout.Type,
		layout.Content,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("create layout: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create layout: %w", err)
	}

	return nil
}

func (r *repository) GetByType(
	ctx context.Context,
	layoutType string,
) (*Layout, error) {
	query := `
		SELECT id, type, content, created_at, updated_at
		FROM layouts
		WHERE type = $1`

	var layout Layout
	err := r.db.GetContext(ctx, &layout, query, layoutType)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get layout: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get layout: %w", err)
	}

	return &layout, nil
}

func (r *repository) UpdateContent(
	ctx context.Context,
	layoutType string,
	content Content,
) error {
	query := `
		UPDATE layouts
		SET content = $2, updated_at = NOW()
		WHERE type = $1`

	result, err := r.db.ExecContext(
		ctx,
		query,
		layoutType,
		core.NewJSONColumn(content),
	)
	if err != nil {
		return fmt.Errorf("update layout: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update layout: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("update layout: %w", core.ErrNotFound)
	}

	return nil
}
