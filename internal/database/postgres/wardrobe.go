package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/kozaktomas/outfit-matcher/internal/classify"
	"github.com/kozaktomas/outfit-matcher/internal/outfit"
	"github.com/kozaktomas/outfit-matcher/internal/wardrobe"
)

// WardrobeRepository provides PostgreSQL-backed session storage.
type WardrobeRepository struct {
	pool *Pool
}

// NewWardrobeRepository creates a new PostgreSQL wardrobe repository.
func NewWardrobeRepository(pool *Pool) *WardrobeRepository {
	return &WardrobeRepository{pool: pool}
}

// Get retrieves a session by ID, returns nil if not found.
func (r *WardrobeRepository) Get(ctx context.Context, id string) (*wardrobe.Session, error) {
	query := `
		SELECT id, skin_tone, face_path, face_shape, updated_at
		FROM wardrobe_sessions
		WHERE id = $1
	`

	var s wardrobe.Session
	var tone, shape string
	err := r.pool.QueryRow(ctx, query, id).Scan(&s.ID, &tone, &s.FacePath, &shape, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	s.SkinTone = classify.ParseSkinTone(tone)
	s.FaceShape = outfit.FaceShape(shape)
	updatedAt := s.UpdatedAt

	rows, err := r.pool.Query(ctx, `
		SELECT kind, path, color, swatches
		FROM wardrobe_items
		WHERE session_id = $1
		ORDER BY kind, position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("get wardrobe items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var kind, color string
		var item wardrobe.Item
		var swatches pq.StringArray
		if err := rows.Scan(&kind, &item.Path, &color, &swatches); err != nil {
			return nil, fmt.Errorf("scan wardrobe item: %w", err)
		}
		item.Color = classify.ColorName(color)
		if len(swatches) > 0 {
			item.Swatches = []string(swatches)
		}
		s.Add(wardrobe.Kind(kind), item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wardrobe items: %w", err)
	}
	s.UpdatedAt = updatedAt

	return &s, nil
}

// Save replaces the stored session and its items in one transaction.
func (r *WardrobeRepository) Save(ctx context.Context, s *wardrobe.Session) error {
	tx, err := r.pool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	updatedAt := s.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO wardrobe_sessions (id, skin_tone, face_path, face_shape, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			skin_tone = EXCLUDED.skin_tone,
			face_path = EXCLUDED.face_path,
			face_shape = EXCLUDED.face_shape,
			updated_at = EXCLUDED.updated_at
	`, s.ID, string(s.Tone()), s.FacePath, string(s.FaceShape), updatedAt)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM wardrobe_items WHERE session_id = $1", s.ID); err != nil {
		return fmt.Errorf("clear wardrobe items: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO wardrobe_items (session_id, kind, position, path, color, swatches)
		VALUES ($1, $2, $3, $4, $5, $6)
	`)
	if err != nil {
		return fmt.Errorf("prepare wardrobe insert: %w", err)
	}
	defer stmt.Close()

	for _, kind := range []wardrobe.Kind{wardrobe.KindTops, wardrobe.KindBottoms} {
		for i, item := range s.Items(kind) {
			swatches := item.Swatches
			if swatches == nil {
				swatches = []string{}
			}
			if _, err := stmt.ExecContext(ctx, s.ID, string(kind), i, item.Path, string(item.Color), pq.Array(swatches)); err != nil {
				return fmt.Errorf("save wardrobe item: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit session: %w", err)
	}
	return nil
}

// Delete removes a session and its items.
func (r *WardrobeRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM wardrobe_sessions WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteStale removes sessions not updated since before and returns the count deleted.
func (r *WardrobeRepository) DeleteStale(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.pool.Exec(ctx, "DELETE FROM wardrobe_sessions WHERE updated_at < $1", before)
	if err != nil {
		return 0, fmt.Errorf("delete stale sessions: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("getting rows affected: %w", err)
	}
	return count, nil
}

var (
	_ wardrobe.Store        = (*WardrobeRepository)(nil)
	_ wardrobe.StaleSweeper = (*WardrobeRepository)(nil)
)
