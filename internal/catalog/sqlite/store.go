// Package sqlite loads a game catalog from a local SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/vibefinder/vibefinder/internal/domain"
)

const selectColumns = `SELECT app_id, app_name, app_category, app_description,
	rating, screenshot_captions, app_icon, app_page_link FROM apps`

// Store reads game records from the apps table of a scraped catalog.
type Store struct {
	db *sql.DB
}

// Open opens the database file read-only.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open catalog db %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open catalog db %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load returns every record in the catalog.
func (s *Store) Load(ctx context.Context) ([]domain.GameRecord, error) {
	return s.query(ctx, selectColumns)
}

// LoadWithoutCaptions returns records still awaiting screenshot captioning.
func (s *Store) LoadWithoutCaptions(ctx context.Context) ([]domain.GameRecord, error) {
	return s.query(ctx, selectColumns+" WHERE screenshot_captions IS NULL")
}

// Count returns the total number of catalog records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM apps").Scan(&n); err != nil {
		return 0, fmt.Errorf("count catalog records: %w", err)
	}
	return n, nil
}

func (s *Store) query(ctx context.Context, q string) ([]domain.GameRecord, error) {
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query catalog: %w", err)
	}
	defer rows.Close()

	var records []domain.GameRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate catalog rows: %w", err)
	}
	return records, nil
}

func scanRecord(rows *sql.Rows) (domain.GameRecord, error) {
	var (
		rec      domain.GameRecord
		category sql.NullString
		desc     sql.NullString
		rating   sql.NullFloat64
		captions sql.NullString
		icon     sql.NullString
		pageLink sql.NullString
	)
	if err := rows.Scan(&rec.AppID, &rec.AppName, &category, &desc,
		&rating, &captions, &icon, &pageLink); err != nil {
		return domain.GameRecord{}, fmt.Errorf("scan catalog row: %w", err)
	}

	rec.AppCategory = category.String
	rec.AppDescription = desc.String
	rec.Rating = rating.Float64
	rec.AppIcon = icon.String
	rec.AppPageLink = pageLink.String

	// Captions are stored as a JSON string array by the captioning step.
	if captions.Valid && captions.String != "" {
		if err := json.Unmarshal([]byte(captions.String), &rec.ScreenshotCaptions); err != nil {
			return domain.GameRecord{}, fmt.Errorf("parse captions for %s: %w", rec.AppID, err)
		}
	}
	return rec, nil
}
