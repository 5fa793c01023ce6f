package osrm_test

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openfleet/vrpkit/osrm"
	"github.com/openfleet/vrpkit/travel"
)

// tableServer fakes the OSRM table endpoint: the distance between two
// points is 1000 times the absolute latitude difference, and any pair
// touching a latitude of 90 is unroutable (null).
func tableServer(t *testing.T, calls *atomic.Int64) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)

		require.True(t, strings.HasPrefix(r.URL.Path, "/table/v1/driving/"), r.URL.Path)
		require.Equal(t, "distance", r.URL.Query().Get("annotations"))

		coordPart := strings.TrimPrefix(r.URL.Path, "/table/v1/driving/")
		var lats []float64
		for _, pair := range strings.Split(coordPart, ";") {
			var lon, lat float64
			_, err := fmt.Sscanf(pair, "%f,%f", &lon, &lat)
			require.NoError(t, err)
			lats = append(lats, lat)
		}

		srcs := strings.Split(r.URL.Query().Get("sources"), ";")
		dsts := strings.Split(r.URL.Query().Get("destinations"), ";")

		cells := make([]string, 0, len(srcs))
		for _, s := range srcs {
			var si int
			fmt.Sscanf(s, "%d", &si)
			row := make([]string, 0, len(dsts))
			for _, d := range dsts {
				var di int
				fmt.Sscanf(d, "%d", &di)
				if lats[si] == 90 || lats[di] == 90 {
					row = append(row, "null")
					continue
				}
				row = append(row, fmt.Sprintf("%g", math.Abs(lats[si]-lats[di])*1000))
			}
			cells = append(cells, "["+strings.Join(row, ",")+"]")
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"code":"Ok","distances":[%s]}`, strings.Join(cells, ","))
	}))
}

func testCoords() []travel.Coordinate {
	return []travel.Coordinate{
		{Lat: 10, Lon: 76},
		{Lat: 12, Lon: 76},
		{Lat: 15, Lon: 76},
	}
}

func TestTable_ChunkedAssembly(t *testing.T) {
	var calls atomic.Int64
	srv := tableServer(t, &calls)
	defer srv.Close()

	client := osrm.New(srv.URL, osrm.WithChunkSize(2), osrm.WithPause(0))

	m, err := client.Table(context.Background(), testCoords())
	require.NoError(t, err)
	require.Equal(t, 3, m.Rows())

	// Three points at chunk size two tile into a 2x2 grid of requests.
	require.Equal(t, int64(4), calls.Load())

	expect := [][]float64{
		{0, 2000, 5000},
		{2000, 0, 3000},
		{5000, 3000, 0},
	}
	for i := range expect {
		for j := range expect[i] {
			d, err := m.At(i, j)
			require.NoError(t, err)
			require.InDelta(t, expect[i][j], d, 1e-6, "cell (%d,%d)", i, j)
		}
	}

	require.NoError(t, travel.Validate(m))
}

func TestTable_NullBecomesUnreachable(t *testing.T) {
	var calls atomic.Int64
	srv := tableServer(t, &calls)
	defer srv.Close()

	client := osrm.New(srv.URL, osrm.WithPause(0))
	coords := append(testCoords(), travel.Coordinate{Lat: 90, Lon: 0})

	m, err := client.Table(context.Background(), coords)
	require.NoError(t, err)

	d, err := m.At(0, 3)
	require.NoError(t, err)
	require.True(t, math.IsInf(d, 1))

	// Diagonal stays zero even for the unroutable point.
	d, err = m.At(3, 3)
	require.NoError(t, err)
	require.Zero(t, d)
}

func TestTable_SinglePoint(t *testing.T) {
	var calls atomic.Int64
	srv := tableServer(t, &calls)
	defer srv.Close()

	client := osrm.New(srv.URL, osrm.WithPause(0))

	m, err := client.Table(context.Background(), testCoords()[:1])
	require.NoError(t, err)
	require.Equal(t, 1, m.Rows())
	require.Zero(t, calls.Load())
}

func TestTable_NoCoordinates(t *testing.T) {
	client := osrm.New("http://unused.invalid", osrm.WithPause(0))

	_, err := client.Table(context.Background(), nil)
	require.ErrorIs(t, err, osrm.ErrNoCoordinates)
}

func TestTable_ServerErrors(t *testing.T) {
	t.Run("http status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "too many requests", http.StatusTooManyRequests)
		}))
		defer srv.Close()

		_, err := osrm.New(srv.URL, osrm.WithPause(0)).Table(context.Background(), testCoords())
		require.ErrorIs(t, err, osrm.ErrRequestFailed)
	})

	t.Run("osrm code", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, `{"code":"InvalidQuery","message":"bad coordinates"}`)
		}))
		defer srv.Close()

		_, err := osrm.New(srv.URL, osrm.WithPause(0)).Table(context.Background(), testCoords())
		require.ErrorIs(t, err, osrm.ErrRequestFailed)
		require.Contains(t, err.Error(), "InvalidQuery")
	})

	t.Run("missing distances", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, `{"code":"Ok"}`)
		}))
		defer srv.Close()

		_, err := osrm.New(srv.URL, osrm.WithPause(0)).Table(context.Background(), testCoords())
		require.ErrorIs(t, err, osrm.ErrEmptyDistances)
	})
}
