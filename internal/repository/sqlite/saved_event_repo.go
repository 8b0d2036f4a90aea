// Package sqlite stores saved events in a local SQLite file, for development without a hosted database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"eventglobe/internal/domain"
)

const schema = `
	CREATE TABLE IF NOT EXISTS saved_events (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		title      TEXT NOT NULL,
		longitude  REAL,
		latitude   REAL,
		start_date TEXT NOT NULL DEFAULT '',
		date_when  TEXT NOT NULL DEFAULT '',
		thumbnail  TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)
`

// Connect opens the SQLite database at path and creates the schema.
func Connect(path string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and serialises writers.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return db, nil
}

type savedEventRow struct {
	ID        int64           `db:"id"`
	Title     string          `db:"title"`
	Longitude sql.NullFloat64 `db:"longitude"`
	Latitude  sql.NullFloat64 `db:"latitude"`
	StartDate string          `db:"start_date"`
	DateWhen  string          `db:"date_when"`
	Thumbnail string          `db:"thumbnail"`
	CreatedAt time.Time       `db:"created_at"`
}

func (r savedEventRow) toDomain() *domain.SavedEvent {
	e := &domain.SavedEvent{
		ID:        r.ID,
		Title:     r.Title,
		Date:      domain.EventDate{StartDate: r.StartDate, When: r.DateWhen},
		Thumbnail: r.Thumbnail,
		CreatedAt: r.CreatedAt,
	}
	if r.Longitude.Valid && r.Latitude.Valid {
		e.Coordinates = &domain.Coordinates{Lng: r.Longitude.Float64, Lat: r.Latitude.Float64}
	}
	return e
}

type savedEventRepository struct {
	db *sqlx.DB
}

func NewSavedEventRepository(db *sqlx.DB) domain.SavedEventRepository {
	return &savedEventRepository{db: db}
}

func (r *savedEventRepository) Create(ctx context.Context, e *domain.SavedEvent) error {
	row := savedEventRow{
		Title:     e.Title,
		StartDate: e.Date.StartDate,
		DateWhen:  e.Date.When,
		Thumbnail: e.Thumbnail,
		CreatedAt: e.CreatedAt,
	}
	if e.Coordinates != nil {
		row.Longitude = sql.NullFloat64{Float64: e.Coordinates.Lng, Valid: true}
		row.Latitude = sql.NullFloat64{Float64: e.Coordinates.Lat, Valid: true}
	}
	result, err := r.db.NamedExecContext(ctx, `
		INSERT INTO saved_events (title, longitude, latitude, start_date, date_when, thumbnail, created_at)
		VALUES (:title, :longitude, :latitude, :start_date, :date_when, :thumbnail, :created_at)
	`, row)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = id
	return nil
}

func (r *savedEventRepository) List(ctx context.Context) ([]*domain.SavedEvent, error) {
	var rows []savedEventRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, title, longitude, latitude, start_date, date_when, thumbnail, created_at
		FROM saved_events
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, err
	}
	events := make([]*domain.SavedEvent, 0, len(rows))
	for _, row := range rows {
		events = append(events, row.toDomain())
	}
	return events, nil
}

func (r *savedEventRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM saved_events WHERE id = ?`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
