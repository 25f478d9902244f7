package court

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, c *Court) error
	GetByID(ctx context.Context, id string) (*Court, error)
	List(ctx context.Context, filter Filter) ([]*Court, int, error)
	Replace(ctx context.Context, c *Court) (*Court, error)
	Delete(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, c *Court) error {
	const query = `
		INSERT INTO public.courts
			(name, base_price, dynamic_pricing_enabled, peak_hours_multiplier, weekend_multiplier)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, version, created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		c.Name, c.BasePrice, c.DynamicPricingEnabled, c.PeakHoursMultiplier, c.WeekendMultiplier,
	).Scan(&c.ID, &c.Version, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create court failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Court, error) {
	const query = `
		SELECT id, name, base_price, dynamic_pricing_enabled,
		       peak_hours_multiplier, weekend_multiplier,
		       version, created_at, updated_at
		FROM public.courts
		WHERE id = $1
	`
	row := r.pool.QueryRow(ctx, query, id)

	var c Court
	if err := row.Scan(
		&c.ID, &c.Name, &c.BasePrice, &c.DynamicPricingEnabled,
		&c.PeakHoursMultiplier, &c.WeekendMultiplier,
		&c.Version, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get court failed: %w", err)
	}

	periodsByID, err := r.loadPeriods(ctx, []string{c.ID})
	if err != nil {
		return nil, err
	}
	c.SpecialPricing = periodsByID[c.ID]
	return &c, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Court, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := uint64((filter.Page - 1) * filter.PageSize)

	builder := psql.Select(
		"id", "name", "base_price", "dynamic_pricing_enabled",
		"peak_hours_multiplier", "weekend_multiplier",
		"version", "created_at", "updated_at",
		"count(*) OVER() AS total_count",
	).
		From("public.courts").
		OrderBy("created_at DESC").
		Limit(uint64(filter.PageSize)).
		Offset(offset)

	if filter.Name != "" {
		builder = builder.Where(squirrel.ILike{"name": "%" + filter.Name + "%"})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list courts query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list courts failed: %w", err)
	}
	defer rows.Close()

	var result []*Court
	var total int
	var ids []string

	for rows.Next() {
		var c Court
		if err := rows.Scan(
			&c.ID, &c.Name, &c.BasePrice, &c.DynamicPricingEnabled,
			&c.PeakHoursMultiplier, &c.WeekendMultiplier,
			&c.Version, &c.CreatedAt, &c.UpdatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan court failed: %w", err)
		}
		result = append(result, &c)
		ids = append(ids, c.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list courts rows failed: %w", err)
	}

	if len(ids) > 0 {
		periodsByID, err := r.loadPeriods(ctx, ids)
		if err != nil {
			return nil, 0, err
		}
		for _, c := range result {
			c.SpecialPricing = periodsByID[c.ID]
		}
	}

	return result, total, nil
}

// Replace writes the whole aggregate in one transaction: the court row is
// updated with a version bump, then the special periods are rewritten from
// scratch. A stale Version loses the race and gets ErrVersionConflict.
func (r *pgxRepository) Replace(ctx context.Context, c *Court) (*Court, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin replace court failed: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const update = `
		UPDATE public.courts
		SET name = $1,
		    base_price = $2,
		    dynamic_pricing_enabled = $3,
		    peak_hours_multiplier = $4,
		    weekend_multiplier = $5,
		    version = version + 1,
		    updated_at = now()
		WHERE id = $6 AND version = $7
		RETURNING version, created_at, updated_at
	`
	out := *c
	err = tx.QueryRow(ctx, update,
		c.Name, c.BasePrice, c.DynamicPricingEnabled,
		c.PeakHoursMultiplier, c.WeekendMultiplier,
		c.ID, c.Version,
	).Scan(&out.Version, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.staleOrMissing(ctx, c.ID)
		}
		return nil, fmt.Errorf("replace court failed: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM public.court_special_periods WHERE court_id = $1`, c.ID); err != nil {
		return nil, fmt.Errorf("clear special periods failed: %w", err)
	}

	if len(c.SpecialPricing) > 0 {
		psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
		builder := psql.Insert("public.court_special_periods").
			Columns("id", "court_id", "position", "name", "start_date", "end_date",
				"start_time", "end_time", "multiplier", "days_of_week", "active")
		for i, p := range c.SpecialPricing {
			builder = builder.Values(
				p.ID, c.ID, i, p.Name, p.StartDate, p.EndDate,
				p.StartTime, p.EndTime, p.Multiplier, weekdaysToInts(p.DaysOfWeek), p.Active,
			)
		}
		query, args, err := builder.ToSql()
		if err != nil {
			return nil, fmt.Errorf("build insert periods query failed: %w", err)
		}
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			var e *pgconn.PgError
			if errors.As(err, &e) && e.Code == pgerrcode.UniqueViolation {
				return nil, ErrDuplicatePeriod
			}
			return nil, fmt.Errorf("insert special periods failed: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit replace court failed: %w", err)
	}

	out.SpecialPricing = append([]SpecialPricingPeriod(nil), c.SpecialPricing...)
	return &out, nil
}

// staleOrMissing distinguishes a missing court from a version race.
func (r *pgxRepository) staleOrMissing(ctx context.Context, id string) error {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM public.courts WHERE id = $1)`, id,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check court existence failed: %w", err)
	}
	if exists {
		return ErrVersionConflict
	}
	return ErrNotFound
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM public.courts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete court failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) loadPeriods(ctx context.Context, courtIDs []string) (map[string][]SpecialPricingPeriod, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(
		"id", "court_id", "name", "start_date", "end_date",
		"start_time", "end_time", "multiplier", "days_of_week", "active",
	).
		From("public.court_special_periods").
		Where(squirrel.Eq{"court_id": courtIDs}).
		OrderBy("court_id", "position").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build load periods query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("load special periods failed: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]SpecialPricingPeriod)
	for rows.Next() {
		var p SpecialPricingPeriod
		var courtID string
		var days []int32
		var startDate, endDate time.Time
		if err := rows.Scan(
			&p.ID, &courtID, &p.Name, &startDate, &endDate,
			&p.StartTime, &p.EndTime, &p.Multiplier, &days, &p.Active,
		); err != nil {
			return nil, fmt.Errorf("scan special period failed: %w", err)
		}
		p.StartDate = DateOnly(startDate)
		p.EndDate = DateOnly(endDate)
		p.DaysOfWeek = intsToWeekdays(days)
		out[courtID] = append(out[courtID], p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load special periods rows failed: %w", err)
	}
	return out, nil
}

func weekdaysToInts(days []time.Weekday) []int32 {
	out := make([]int32, len(days))
	for i, d := range days {
		out[i] = int32(d)
	}
	return out
}

func intsToWeekdays(days []int32) []time.Weekday {
	out := make([]time.Weekday, len(days))
	for i, d := range days {
		out[i] = time.Weekday(d)
	}
	return out
}
