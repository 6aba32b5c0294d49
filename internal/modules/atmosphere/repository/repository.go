package repository

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"time"

	"atmos-server/internal/modules/atmosphere/types"
)

//go:embed sql/insert-sounding.sql
var insertSoundingSQL string

//go:embed sql/get-recent-soundings.sql
var getRecentSoundingsSQL string

type SoundingRepository interface {
	InsertSounding(requestedAt time.Time, from, to, step float64, samples int) error
	GetRecentSoundings(limit int) ([]types.Sounding, error)
}

type repositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) SoundingRepository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) InsertSounding(requestedAt time.Time, from, to, step float64, samples int) error {
	ts := requestedAt.UTC().Format(time.RFC3339Nano)
	if _, err := r.db.Exec(insertSoundingSQL, ts, from, to, step, samples); err != nil {
		return fmt.Errorf("insert sounding: %w", err)
	}
	return nil
}

func (r *repositoryImpl) GetRecentSoundings(limit int) ([]types.Sounding, error) {
	rows, err := r.db.Query(getRecentSoundingsSQL, limit)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close soundings rows", "error", err)
		}
	}()

	var out []types.Sounding
	for rows.Next() {
		var s types.Sounding
		var ts string
		if err := rows.Scan(&s.ID, &ts, &s.FromM, &s.ToM, &s.StepM, &s.Samples); err != nil {
			return nil, err
		}
		s.RequestedAt, err = parseTimestamp(ts)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// parseTimestamp accepts both RFC3339 timestamps written by InsertSounding
// and the strftime default SQLite applies when requested_at is omitted.
func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02T15:04:05.999Z", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse requested_at %q: %w", s, err)
	}
	return t, nil
}
