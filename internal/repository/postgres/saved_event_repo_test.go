package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"eventglobe/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

var savedEventColumns = []string{"id", "title", "longitude", "latitude", "start_date", "date_when", "thumbnail", "created_at"}

func TestSavedEventRepository_Create(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		event   *domain.SavedEvent
		mock    func(mock sqlmock.Sqlmock)
		wantID  int64
		wantErr bool
	}{
		{
			name: "success with coordinates",
			event: &domain.SavedEvent{
				Title:       "Jazz Night",
				Coordinates: &domain.Coordinates{Lng: 2.35, Lat: 48.85},
				Date:        domain.EventDate{StartDate: "Oct 20", When: "Mon, 8 PM"},
				Thumbnail:   "https://img/x.png",
				CreatedAt:   created,
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO saved_events \(title, longitude, latitude, start_date, date_when, thumbnail, created_at\)`).
					WithArgs("Jazz Night", 2.35, 48.85, "Oct 20", "Mon, 8 PM", "https://img/x.png", created).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))
			},
			wantID: 7,
		},
		{
			name: "success without coordinates",
			event: &domain.SavedEvent{
				Title:     "Unknown venue",
				CreatedAt: created,
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO saved_events`).
					WithArgs("Unknown venue", nil, nil, "", "", "", created).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(8)))
			},
			wantID: 8,
		},
		{
			name:  "db error",
			event: &domain.SavedEvent{Title: "x", CreatedAt: created},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO saved_events`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewSavedEventRepository(db)
			err = repo.Create(ctx, tt.event)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantID, tt.event.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSavedEventRepository_List(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		want    []*domain.SavedEvent
		wantErr bool
	}{
		{
			name: "success multiple",
			mock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(savedEventColumns).
					AddRow(int64(1), "A", 2.35, 48.85, "Oct 20", "Mon", "t1", created).
					AddRow(int64(2), "B", nil, nil, "Oct 21", "Tue", "", created)
				mock.ExpectQuery(`SELECT id, title, longitude, latitude, start_date, date_when, thumbnail, created_at\s+FROM saved_events\s+ORDER BY id ASC`).
					WillReturnRows(rows)
			},
			want: []*domain.SavedEvent{
				{ID: 1, Title: "A", Coordinates: &domain.Coordinates{Lng: 2.35, Lat: 48.85}, Date: domain.EventDate{StartDate: "Oct 20", When: "Mon"}, Thumbnail: "t1", CreatedAt: created},
				{ID: 2, Title: "B", Date: domain.EventDate{StartDate: "Oct 21", When: "Tue"}, CreatedAt: created},
			},
		},
		{
			name: "success empty",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, title`).
					WillReturnRows(sqlmock.NewRows(savedEventColumns))
			},
			want: []*domain.SavedEvent{},
		},
		{
			name: "db error",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, title`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewSavedEventRepository(db)
			got, err := repo.List(ctx)
			if tt.wantErr {
				require.Error(t, err)
				require.Nil(t, got)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSavedEventRepository_Delete(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		id        int64
		mock      func(mock sqlmock.Sqlmock)
		wantErr   bool
		wantErrIs error
	}{
		{
			name: "success",
			id:   3,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM saved_events WHERE id = \$1`).
					WithArgs(int64(3)).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "not found",
			id:   404,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM saved_events WHERE id = \$1`).
					WithArgs(int64(404)).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr:   true,
			wantErrIs: domain.ErrNotFound,
		},
		{
			name: "db error",
			id:   3,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM saved_events`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewSavedEventRepository(db)
			err = repo.Delete(ctx, tt.id)
			if tt.wantErr {
				require.Error(t, err)
				if tt.wantErrIs != nil {
					require.True(t, errors.Is(err, tt.wantErrIs))
				}
				return
			}
			require.NoError(t, err)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEnsureSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS saved_events`).WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, EnsureSchema(context.Background(), db))
	require.NoError(t, mock.ExpectationsWereMet())
}
