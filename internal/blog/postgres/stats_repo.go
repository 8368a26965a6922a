// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

// Package postgres reads blog statistics from PostgreSQL.
package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"

	"github.com/inkpost/inkpost/internal/blog"
)

// Querier is the subset of pgxpool.Pool the stats repository uses.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Compile-time check.
var _ blog.StatsReader = (*StatsRepository)(nil)

const countsQuery = `SELECT
	(SELECT COUNT(*) FROM blogs),
	(SELECT COUNT(*) FROM blog_views),
	(SELECT COUNT(*) FROM blog_likes)`

const topPostsQuery = `SELECT blogs.id, blogs.title, COUNT(blog_views.id) AS views
FROM blogs
LEFT JOIN blog_views ON blog_views.blog_id = blogs.id
GROUP BY blogs.id
ORDER BY views DESC, blogs.id
LIMIT $1`

// StatsRepository implements blog.StatsReader.
type StatsRepository struct {
	db Querier
}

// NewStatsRepository creates a stats repository.
func NewStatsRepository(db Querier) *StatsRepository {
	return &StatsRepository{db: db}
}

// Stats returns post, view and like totals plus the most viewed posts.
func (r *StatsRepository) Stats(ctx context.Context) (blog.Stats, error) {
	var stats blog.Stats
	err := r.db.QueryRow(ctx, countsQuery).Scan(&stats.TotalPosts, &stats.TotalViews, &stats.TotalLikes)
	if err != nil {
		return blog.Stats{}, oops.Code("BLOG_STATS_FAILED").With("operation", "count activity").Wrap(err)
	}

	rows, err := r.db.Query(ctx, topPostsQuery, blog.TopPostLimit)
	if err != nil {
		return blog.Stats{}, oops.Code("BLOG_STATS_FAILED").With("operation", "query top posts").Wrap(err)
	}
	top, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (blog.TopPost, error) {
		var p blog.TopPost
		err := row.Scan(&p.ID, &p.Title, &p.Views)
		return p, err
	})
	if err != nil {
		return blog.Stats{}, oops.Code("BLOG_STATS_FAILED").With("operation", "scan top posts").Wrap(err)
	}
	stats.TopPosts = top
	return stats, nil
}
