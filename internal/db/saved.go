package db

import (
	"context"

	"github.com/crazedo/trendpulse/internal/models"
)

// SaveTrend inserts a saved trend for a user and returns it with its id set.
func (d *DB) SaveTrend(ctx context.Context, st models.SavedTrend) (models.SavedTrend, error) {
	err := d.Pool.QueryRow(ctx, `
		INSERT INTO user_saved_trends (user_id, keyword, trend_label, search_volume, date, ai_summary)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, st.UserID, st.Keyword, st.TrendLabel, st.SearchVolume, st.Date, st.AISummary).Scan(&st.ID)
	if err != nil {
		return models.SavedTrend{}, err
	}
	return st, nil
}

// ListSavedTrends returns a user's saved trends, newest first.
func (d *DB) ListSavedTrends(ctx context.Context, userID string) ([]models.SavedTrend, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT id, user_id, keyword, COALESCE(trend_label, ''), COALESCE(search_volume, 0),
		       COALESCE(date, ''), COALESCE(ai_summary, '')
		FROM user_saved_trends
		WHERE user_id = $1
		ORDER BY id DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.SavedTrend
	for rows.Next() {
		var st models.SavedTrend
		if err := rows.Scan(&st.ID, &st.UserID, &st.Keyword, &st.TrendLabel, &st.SearchVolume, &st.Date, &st.AISummary); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// DeleteSavedTrend removes one saved trend. Returns ErrNotFound when the id
// does not exist.
func (d *DB) DeleteSavedTrend(ctx context.Context, id int64) error {
	tag, err := d.Pool.Exec(ctx, `DELETE FROM user_saved_trends WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
