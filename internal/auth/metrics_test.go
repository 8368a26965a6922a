// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

package auth

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionsActive_SumsAcrossRegistries(t *testing.T) {
	ctx := context.Background()
	base := testutil.ToFloat64(sessionsActive)

	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	first := NewMemoryRegistry(WithTTL(time.Minute), WithClock(func() time.Time { return now }))
	second := NewMemoryRegistry()

	a, err := first.Issue(ctx, Identity{ID: 1, Email: "a@example.com"})
	require.NoError(t, err)
	_, err = first.Issue(ctx, Identity{ID: 2, Email: "b@example.com"})
	require.NoError(t, err)
	c, err := second.Issue(ctx, Identity{ID: 3, Email: "c@example.com"})
	require.NoError(t, err)
	assert.Equal(t, base+3, testutil.ToFloat64(sessionsActive))

	// A throwaway registry does not reset the total.
	_ = NewMemoryRegistry()
	assert.Equal(t, base+3, testutil.ToFloat64(sessionsActive))

	first.Revoke(ctx, a)
	first.Revoke(ctx, a)
	second.Revoke(ctx, "unknown")
	assert.Equal(t, base+2, testutil.ToFloat64(sessionsActive))

	assert.Equal(t, 1, first.Sweep(now.Add(time.Minute)))
	second.Revoke(ctx, c)
	assert.Equal(t, base, testutil.ToFloat64(sessionsActive))
}
