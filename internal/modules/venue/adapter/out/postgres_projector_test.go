package out_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anticafe/internal/modules/venue/adapter/out"
	venueout "anticafe/internal/modules/venue/port/out"
)

// Set ANTICAFE_TEST_POSTGRES_DSN to run against a real database.
func TestPostgresSessionProjectorRoundTrip(t *testing.T) {
	dsn := os.Getenv("ANTICAFE_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("ANTICAFE_TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()
	projector, err := out.NewPostgresSessionProjector(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = projector.Close() })
	require.NoError(t, projector.Reset(ctx))

	for i, id := range []string{"pg-1", "pg-2"} {
		record := endedSession(t, id, 2, t0.Add(time.Duration(i)*time.Hour), 5+i)
		require.NoError(t, projector.UpsertSession(ctx, venueout.EntryFromRecord(record, id+".md")))
	}

	recent, err := projector.ListRecent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "pg-2", recent[0].SessionID)
	assert.Equal(t, int64(6), recent[0].Minutes)
	assert.Equal(t, 30.0, recent[0].Cost)
	assert.True(t, recent[0].EndedAt.Equal(t0.Add(time.Hour+6*time.Minute)))

	require.NoError(t, projector.Reset(ctx))
	recent, err = projector.ListRecent(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, recent)
}

func TestPostgresSessionProjectorFailsWithoutServer(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_, err := out.NewPostgresSessionProjector(ctx, "postgres://anticafe@127.0.0.1:1/anticafe?sslmode=disable&connect_timeout=1")
	require.Error(t, err)
}
