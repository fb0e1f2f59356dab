package db

import (
	"context"
	"fmt"

	"github.com/crazedo/trendpulse/internal/models"
)

// ReplaceTrending swaps the trending_searches table for a fresh snapshot in
// one transaction, so readers never see a half-refreshed list.
func (d *DB) ReplaceTrending(ctx context.Context, rows []models.TrendingSearch) error {
	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM trending_searches`); err != nil {
		return fmt.Errorf("clear trending: %w", err)
	}
	for _, r := range rows {
		_, err := tx.Exec(ctx, `
			INSERT INTO trending_searches (keyword, trend_label, search_volume, date, ai_summary)
			VALUES ($1, $2, $3, $4, $5)
		`, r.Keyword, r.TrendLabel, r.SearchVolume, r.Date, r.AISummary)
		if err != nil {
			return fmt.Errorf("insert trending %q: %w", r.Keyword, err)
		}
	}
	return tx.Commit(ctx)
}

// ListTrending returns the current trending snapshot in insertion order.
func (d *DB) ListTrending(ctx context.Context) ([]models.TrendingSearch, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT id, keyword, COALESCE(trend_label, ''), COALESCE(search_volume, 0),
		       COALESCE(date, ''), COALESCE(ai_summary, '')
		FROM trending_searches
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.TrendingSearch
	for rows.Next() {
		var t models.TrendingSearch
		if err := rows.Scan(&t.ID, &t.Keyword, &t.TrendLabel, &t.SearchVolume, &t.Date, &t.AISummary); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
