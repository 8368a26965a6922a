// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

package postgres_test

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkpost/inkpost/internal/blog"
	"github.com/inkpost/inkpost/internal/blog/postgres"
	"github.com/inkpost/inkpost/pkg/errutil"
)

func countRows(posts, views, likes int64) *pgxmock.Rows {
	return pgxmock.NewRows([]string{"count", "count", "count"}).AddRow(posts, views, likes)
}

func TestStatsRepository_Stats(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		want      blog.Stats
		wantErr   bool
		wantOp    string
	}{
		{
			name: "counts and ranking",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT\s+\(SELECT COUNT\(\*\) FROM blogs\)`).
					WillReturnRows(countRows(3, 10, 4))
				mock.ExpectQuery(`LEFT JOIN blog_views`).
					WithArgs(blog.TopPostLimit).
					WillReturnRows(pgxmock.NewRows([]string{"id", "title", "views"}).
						AddRow(int64(2), "Second", int64(7)).
						AddRow(int64(1), "First", int64(3)).
						AddRow(int64(3), "Third", int64(0)))
			},
			want: blog.Stats{
				TotalPosts: 3,
				TotalViews: 10,
				TotalLikes: 4,
				TopPosts: []blog.TopPost{
					{ID: 2, Title: "Second", Views: 7},
					{ID: 1, Title: "First", Views: 3},
					{ID: 3, Title: "Third", Views: 0},
				},
			},
		},
		{
			name: "empty blog",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`FROM blogs`).WillReturnRows(countRows(0, 0, 0))
				mock.ExpectQuery(`LEFT JOIN blog_views`).
					WithArgs(blog.TopPostLimit).
					WillReturnRows(pgxmock.NewRows([]string{"id", "title", "views"}))
			},
			want: blog.Stats{TopPosts: []blog.TopPost{}},
		},
		{
			name: "count failure",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`FROM blogs`).WillReturnError(errors.New("connection reset"))
			},
			wantErr: true,
			wantOp:  "count activity",
		},
		{
			name: "ranking failure",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`FROM blogs`).WillReturnRows(countRows(1, 1, 1))
				mock.ExpectQuery(`LEFT JOIN blog_views`).
					WithArgs(blog.TopPostLimit).
					WillReturnError(errors.New("relation \"blog_views\" does not exist"))
			},
			wantErr: true,
			wantOp:  "query top posts",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			tt.setupMock(mock)

			got, err := postgres.NewStatsRepository(mock).Stats(context.Background())
			if tt.wantErr {
				require.Error(t, err)
				errutil.AssertErrorCode(t, err, "BLOG_STATS_FAILED")
				errutil.AssertErrorContext(t, err, "operation", tt.wantOp)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
