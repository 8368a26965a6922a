// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

// Package blog holds the read models the dashboard shows about posts.
package blog

import "context"

// TopPostLimit is how many posts the dashboard ranks by views.
const TopPostLimit = 5

// TopPost is one row of the most-viewed ranking.
type TopPost struct {
	ID    int64
	Title string
	Views int64
}

// Stats summarizes blog activity.
type Stats struct {
	TotalPosts int64
	TotalViews int64
	TotalLikes int64
	TopPosts   []TopPost
}

// StatsReader loads dashboard statistics.
type StatsReader interface {
	Stats(ctx context.Context) (Stats, error)
}
