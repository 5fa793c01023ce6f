package osrm_test

import (
	"context"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openfleet/vrpkit/osrm"
)

func openCache(t *testing.T) *osrm.Cache {
	t.Helper()

	cache, err := osrm.OpenCache(filepath.Join(t.TempDir(), "osrm-cache"))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, cache.Close()) })

	return cache
}

func TestCache_RoundTrip(t *testing.T) {
	cache := openCache(t)

	_, ok, err := cache.Get("req-a")
	require.NoError(t, err)
	require.False(t, ok)

	d := func(v float64) *float64 { return &v }
	table := [][]*float64{
		{d(0), d(1500), nil},
		{d(1500), d(0), d(2500)},
	}
	require.NoError(t, cache.Put("req-a", table))

	got, ok, err := cache.Get("req-a")
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, got, 2)
	require.Equal(t, 1500.0, *got[0][1])
	require.Nil(t, got[0][2]) // unroutable cells survive the round trip

	// Different request, different key.
	_, ok, err = cache.Get("req-b")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestTable_CacheSkipsNetwork(t *testing.T) {
	var calls atomic.Int64
	srv := tableServer(t, &calls)
	defer srv.Close()

	cache := openCache(t)
	client := osrm.New(srv.URL, osrm.WithChunkSize(2), osrm.WithPause(0), osrm.WithCache(cache))

	first, err := client.Table(context.Background(), testCoords())
	require.NoError(t, err)
	require.Equal(t, int64(4), calls.Load())

	second, err := client.Table(context.Background(), testCoords())
	require.NoError(t, err)
	require.Equal(t, int64(4), calls.Load(), "second run should be served from cache")

	for i := 0; i < first.Rows(); i++ {
		for j := 0; j < first.Rows(); j++ {
			a, err := first.At(i, j)
			require.NoError(t, err)
			b, err := second.At(i, j)
			require.NoError(t, err)
			require.Equal(t, a, b)
		}
	}
}
