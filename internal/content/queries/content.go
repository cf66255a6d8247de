// internal/content/queries/content.go
package queries

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"
)

// TraitRow mirrors one traits table row.
type TraitRow struct {
	ID          string
	Name        string
	Category    string
	MatchWeight int
}

// CandidateRow mirrors one candidates table row. TraitIDs come from a
// text[] column; GuaranteedPosts is the raw JSONB document.
type CandidateRow struct {
	ID              string
	Name            string
	Age             int
	Gender          string
	Bio             string
	TraitIDs        []string
	GuaranteedPosts []byte
}

// PostRow mirrors one post pool table row.
type PostRow struct {
	ID          string
	Type        string
	Text        string
	ImageRef    string
	TraitIDs    []string
	IsRedFlag   bool
	IsGreenFlag bool
	DaysAgo     int
}

func Traits(ctx context.Context, db *sql.DB) (interface{}, int, int64, error) {
	start := time.Now()

	rows, err := db.QueryContext(ctx, `
		SELECT id, name, category, match_weight
		FROM traits
		ORDER BY id`)
	if err != nil {
		return nil, 0, 0, err
	}
	defer rows.Close()

	var out []TraitRow
	for rows.Next() {
		var r TraitRow
		if err := rows.Scan(&r.ID, &r.Name, &r.Category, &r.MatchWeight); err != nil {
			return nil, 0, 0, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, 0, err
	}

	return out, len(out), time.Since(start).Milliseconds(), nil
}

func Candidates(ctx context.Context, db *sql.DB) (interface{}, int, int64, error) {
	start := time.Now()

	rows, err := db.QueryContext(ctx, `
		SELECT id, name, age, gender, COALESCE(bio, ''), trait_ids,
		       COALESCE(guaranteed_posts, '[]'::jsonb)
		FROM candidates
		ORDER BY id`)
	if err != nil {
		return nil, 0, 0, err
	}
	defer rows.Close()

	var out []CandidateRow
	for rows.Next() {
		var r CandidateRow
		if err := rows.Scan(&r.ID, &r.Name, &r.Age, &r.Gender, &r.Bio,
			pq.Array(&r.TraitIDs), &r.GuaranteedPosts); err != nil {
			return nil, 0, 0, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, 0, err
	}

	return out, len(out), time.Since(start).Milliseconds(), nil
}

func Posts(ctx context.Context, db *sql.DB) (interface{}, int, int64, error) {
	start := time.Now()

	rows, err := db.QueryContext(ctx, `
		SELECT id, type, text, COALESCE(image_ref, ''), trait_ids,
		       is_red_flag, is_green_flag, COALESCE(days_ago, 0)
		FROM post_pool
		ORDER BY id`)
	if err != nil {
		return nil, 0, 0, err
	}
	defer rows.Close()

	var out []PostRow
	for rows.Next() {
		var r PostRow
		if err := rows.Scan(&r.ID, &r.Type, &r.Text, &r.ImageRef,
			pq.Array(&r.TraitIDs), &r.IsRedFlag, &r.IsGreenFlag, &r.DaysAgo); err != nil {
			return nil, 0, 0, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, 0, err
	}

	return out, len(out), time.Since(start).Milliseconds(), nil
}
