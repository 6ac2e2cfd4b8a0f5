package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/fuelroute/internal/core/domain"
)

// OptimizationRepo implements ports.OptimizationRepository with pgx.
type OptimizationRepo struct {
	db *DB
}

// NewOptimizationRepo creates a new OptimizationRepo.
func NewOptimizationRepo(db *DB) *OptimizationRepo {
	return &OptimizationRepo{db: db}
}

const optimizationColumns = `
	id::text, route_name, status, optimization_type, stops, original_order, optimized_order,
	distance_before_km, distance_after_km, distance_saved_km, fuel_saved_liters, fuel_savings,
	processing_ms, COALESCE(llm_response, ''), created_at`

// Save inserts a record. CreatedAt is filled from the database when zero.
func (r *OptimizationRepo) Save(ctx context.Context, rec *domain.RouteOptimizationRecord) error {
	stops, err := json.Marshal(rec.Stops)
	if err != nil {
		return fmt.Errorf("encode stops: %w", err)
	}
	original, err := json.Marshal(rec.OriginalOrder)
	if err != nil {
		return fmt.Errorf("encode original order: %w", err)
	}
	optimized, err := json.Marshal(rec.OptimizedOrder)
	if err != nil {
		return fmt.Errorf("encode optimized order: %w", err)
	}

	err = r.db.Pool.QueryRow(ctx, `
		INSERT INTO route_optimizations (
			id, route_name, status, optimization_type, stops, original_order, optimized_order,
			distance_before_km, distance_after_km, distance_saved_km, fuel_saved_liters, fuel_savings,
			processing_ms, llm_response
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NULLIF($14, ''))
		RETURNING created_at
	`, rec.ID, rec.RouteName, string(rec.Status), string(rec.OptimizationType), stops, original, optimized,
		rec.DistanceBeforeKm, rec.DistanceAfterKm, rec.DistanceSavedKm, rec.FuelSavedLiters, rec.FuelSavings,
		rec.ProcessingMs, rec.LLMResponse,
	).Scan(&rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert optimization: %w", err)
	}
	return nil
}

// GetByID returns a record or domain.ErrNotFound.
func (r *OptimizationRepo) GetByID(ctx context.Context, id string) (*domain.RouteOptimizationRecord, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}

	row := r.db.Pool.QueryRow(ctx, `SELECT `+optimizationColumns+` FROM route_optimizations WHERE id = $1`, id)
	rec, err := scanOptimization(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// List returns records newest first along with the total row count.
func (r *OptimizationRepo) List(ctx context.Context, offset, limit int) ([]domain.RouteOptimizationRecord, int, error) {
	var total int
	if err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM route_optimizations`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count optimizations: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+optimizationColumns+`
		FROM route_optimizations
		ORDER BY created_at DESC, id
		OFFSET $1 LIMIT $2
	`, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	records := make([]domain.RouteOptimizationRecord, 0, limit)
	for rows.Next() {
		rec, err := scanOptimization(rows)
		if err != nil {
			return nil, 0, err
		}
		records = append(records, *rec)
	}
	return records, total, rows.Err()
}

func scanOptimization(row pgx.Row) (*domain.RouteOptimizationRecord, error) {
	var (
		rec                        domain.RouteOptimizationRecord
		status, optType            string
		stops, original, optimized []byte
	)
	if err := row.Scan(
		&rec.ID, &rec.RouteName, &status, &optType, &stops, &original, &optimized,
		&rec.DistanceBeforeKm, &rec.DistanceAfterKm, &rec.DistanceSavedKm, &rec.FuelSavedLiters, &rec.FuelSavings,
		&rec.ProcessingMs, &rec.LLMResponse, &rec.CreatedAt,
	); err != nil {
		return nil, err
	}
	rec.Status = domain.RouteStatus(status)
	rec.OptimizationType = domain.OptimizationType(optType)

	if err := json.Unmarshal(stops, &rec.Stops); err != nil {
		return nil, fmt.Errorf("decode stops: %w", err)
	}
	if err := json.Unmarshal(original, &rec.OriginalOrder); err != nil {
		return nil, fmt.Errorf("decode original order: %w", err)
	}
	if err := json.Unmarshal(optimized, &rec.OptimizedOrder); err != nil {
		return nil, fmt.Errorf("decode optimized order: %w", err)
	}
	return &rec, nil
}
