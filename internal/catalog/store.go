package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates the requested package does not exist or is inactive.
var ErrNotFound = errors.New("package not found")

// Store reads package records from Postgres.
type Store struct {
	Pool *pgxpool.Pool
}

const packageColumns = `id, code, name, country_code, region, data_type, data_amount_mb,
       duration, duration_unit, price_usd_cents, price_idr, is_active, created_at`

// ListParams filters and paginates the package listing.
type ListParams struct {
	CountryCode string
	DataType    DataType
	Page        int
	Limit       int
}

// List returns active packages matching the filters plus the total count.
func (s Store) List(ctx context.Context, p ListParams) ([]Package, int64, error) {
	if s.Pool == nil {
		return nil, 0, errors.New("catalog store not configured")
	}

	conds := []string{"is_active = TRUE"}
	args := []any{}
	if c := strings.ToUpper(strings.TrimSpace(p.CountryCode)); c != "" {
		args = append(args, c)
		conds = append(conds, fmt.Sprintf("country_code = $%d", len(args)))
	}
	if p.DataType != "" {
		args = append(args, string(p.DataType))
		conds = append(conds, fmt.Sprintf("data_type = $%d", len(args)))
	}
	where := strings.Join(conds, " AND ")

	var total int64
	if err := s.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM packages WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count packages: %w", err)
	}

	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}
	page := p.Page
	if page <= 0 {
		page = 1
	}
	args = append(args, limit, (page-1)*limit)
	query := fmt.Sprintf("SELECT %s FROM packages WHERE %s ORDER BY country_code, price_usd_cents LIMIT $%d OFFSET $%d",
		packageColumns, where, len(args)-1, len(args))

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query packages: %w", err)
	}
	defer rows.Close()

	var out []Package
	for rows.Next() {
		pkg, err := scanPackage(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, pkg)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate packages: %w", err)
	}
	return out, total, nil
}

// Get returns one active package by id.
func (s Store) Get(ctx context.Context, id string) (Package, error) {
	if s.Pool == nil {
		return Package{}, errors.New("catalog store not configured")
	}
	row := s.Pool.QueryRow(ctx,
		fmt.Sprintf("SELECT %s FROM packages WHERE id = $1 AND is_active = TRUE", packageColumns), id)
	pkg, err := scanPackage(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Package{}, ErrNotFound
		}
		return Package{}, err
	}
	return pkg, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPackage(row rowScanner) (Package, error) {
	var pkg Package
	err := row.Scan(
		&pkg.ID, &pkg.Code, &pkg.Name, &pkg.CountryCode, &pkg.Region,
		&pkg.DataType, &pkg.DataAmountMB,
		&pkg.Duration, &pkg.DurationUnit, &pkg.PriceUsdCents, &pkg.PriceIdr,
		&pkg.IsActive, &pkg.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Package{}, err
		}
		return Package{}, fmt.Errorf("scan package: %w", err)
	}
	return pkg, nil
}
