// Package repository persists linesheet generation history in Postgres.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/PedroCariumaDev/b2b-shopify-linesheet-ui/internal/domain"
)

// GenerationRecord is one completed generation as stored in the
// generations table.
type GenerationRecord struct {
	ID           uuid.UUID         `json:"id"`
	LocationID   string            `json:"locationId"`
	CompanyName  string            `json:"companyName"`
	OutputType   domain.OutputType `json:"outputType"`
	CatalogCount int               `json:"catalogCount"`
	Filename     string            `json:"filename"`
	IsArchive    bool              `json:"isArchive"`
	ByteSize     int64             `json:"byteSize"`
	StorageKey   string            `json:"storageKey,omitempty"`
	CreatedAt    time.Time         `json:"createdAt"`
}

// InsertGenerationParams carries the fields for a new history row. ID and
// CreatedAt are assigned by the repository.
type InsertGenerationParams struct {
	LocationID   string
	CompanyName  string
	OutputType   domain.OutputType
	CatalogCount int
	Filename     string
	IsArchive    bool
	ByteSize     int64
	StorageKey   string
}

// HistoryRepository provides access to the generations table.
type HistoryRepository struct {
	db *sql.DB
}

func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// InsertGeneration records a completed generation and returns the stored row.
func (r *HistoryRepository) InsertGeneration(ctx context.Context, params InsertGenerationParams) (GenerationRecord, error) {
	const op = "HistoryRepository.InsertGeneration"

	if params.LocationID == "" {
		return GenerationRecord{}, domain.Invalid(op, "location id is required")
	}

	record := GenerationRecord{
		ID:           uuid.New(),
		LocationID:   params.LocationID,
		CompanyName:  params.CompanyName,
		OutputType:   params.OutputType,
		CatalogCount: params.CatalogCount,
		Filename:     params.Filename,
		IsArchive:    params.IsArchive,
		ByteSize:     params.ByteSize,
		StorageKey:   params.StorageKey,
	}

	storageKey := sql.NullString{String: params.StorageKey, Valid: params.StorageKey != ""}

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO generations (
			id, location_id, company_name, output_type, catalog_count,
			filename, is_archive, byte_size, storage_key
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at`,
		record.ID, record.LocationID, record.CompanyName, string(record.OutputType),
		record.CatalogCount, record.Filename, record.IsArchive, record.ByteSize,
		storageKey,
	).Scan(&record.CreatedAt)
	if err != nil {
		return GenerationRecord{}, domain.Internal(
			fmt.Errorf("insert generation: %w", err),
			op, "failed to record generation",
		)
	}

	return record, nil
}

// ListGenerationsByLocation returns the most recent generations for a
// location, newest first. limit values outside 1..100 are clamped.
func (r *HistoryRepository) ListGenerationsByLocation(ctx context.Context, locationID string, limit int) ([]GenerationRecord, error) {
	const op = "HistoryRepository.ListGenerationsByLocation"

	if locationID == "" {
		return nil, domain.Invalid(op, "location id is required")
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, location_id, company_name, output_type, catalog_count,
		       filename, is_archive, byte_size, storage_key, created_at
		FROM generations
		WHERE location_id = $1
		ORDER BY created_at DESC
		LIMIT $2`,
		locationID, limit,
	)
	if err != nil {
		return nil, domain.Internal(
			fmt.Errorf("list generations: %w", err),
			op, "failed to load generation history",
		)
	}
	defer rows.Close()

	records := []GenerationRecord{}
	for rows.Next() {
		var record GenerationRecord
		var outputType string
		var storageKey sql.NullString

		err := rows.Scan(
			&record.ID, &record.LocationID, &record.CompanyName, &outputType,
			&record.CatalogCount, &record.Filename, &record.IsArchive,
			&record.ByteSize, &storageKey, &record.CreatedAt,
		)
		if err != nil {
			return nil, domain.Internal(
				fmt.Errorf("scan generation: %w", err),
				op, "failed to load generation history",
			)
		}

		record.OutputType = domain.OutputType(outputType)
		record.StorageKey = storageKey.String
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(
			fmt.Errorf("iterate generations: %w", err),
			op, "failed to load generation history",
		)
	}

	return records, nil
}
