package postgres

import (
	"context"
	"database/sql"

	"eventglobe/internal/domain"
)

const savedEventsSchema = `
	CREATE TABLE IF NOT EXISTS saved_events (
		id         BIGSERIAL PRIMARY KEY,
		title      TEXT NOT NULL,
		longitude  DOUBLE PRECISION,
		latitude   DOUBLE PRECISION,
		start_date TEXT NOT NULL DEFAULT '',
		date_when  TEXT NOT NULL DEFAULT '',
		thumbnail  TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
`

// EnsureSchema creates the saved_events table if it does not exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, savedEventsSchema)
	return err
}

type savedEventRepository struct {
	DB *sql.DB
}

func NewSavedEventRepository(db *sql.DB) domain.SavedEventRepository {
	return &savedEventRepository{
		DB: db,
	}
}

func (r *savedEventRepository) Create(ctx context.Context, e *domain.SavedEvent) error {
	query := `
		INSERT INTO saved_events (title, longitude, latitude, start_date, date_when, thumbnail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	lng, lat := nullCoordinates(e.Coordinates)
	return r.DB.QueryRowContext(ctx, query, e.Title, lng, lat, e.Date.StartDate, e.Date.When, e.Thumbnail, e.CreatedAt).Scan(&e.ID)
}

func (r *savedEventRepository) List(ctx context.Context) ([]*domain.SavedEvent, error) {
	query := `
		SELECT id, title, longitude, latitude, start_date, date_when, thumbnail, created_at
		FROM saved_events
		ORDER BY id ASC
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*domain.SavedEvent, 0)
	for rows.Next() {
		e := &domain.SavedEvent{}
		var lngNull, latNull sql.NullFloat64
		if err := rows.Scan(&e.ID, &e.Title, &lngNull, &latNull, &e.Date.StartDate, &e.Date.When, &e.Thumbnail, &e.CreatedAt); err != nil {
			return nil, err
		}
		if lngNull.Valid && latNull.Valid {
			e.Coordinates = &domain.Coordinates{Lng: lngNull.Float64, Lat: latNull.Float64}
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *savedEventRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM saved_events WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func nullCoordinates(c *domain.Coordinates) (lng, lat sql.NullFloat64) {
	if c == nil {
		return sql.NullFloat64{}, sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: c.Lng, Valid: true}, sql.NullFloat64{Float64: c.Lat, Valid: true}
}
