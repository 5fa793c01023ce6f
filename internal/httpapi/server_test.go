package httpapi_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openfleet/vrpkit/internal/httpapi"
	"github.com/openfleet/vrpkit/travel"
	"github.com/openfleet/vrpkit/vrp"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(httpapi.NewServer())
	t.Cleanup(srv.Close)

	return srv
}

// lineProblemJSON renders a depot with two customers on a line, in the
// on-disk problem schema.
func lineProblemJSON(t *testing.T) json.RawMessage {
	t.Helper()

	m, err := travel.FromRows([][]float64{
		{0, 1000, 2000},
		{1000, 0, 1000},
		{2000, 1000, 0},
	})
	require.NoError(t, err)

	p := &vrp.Problem{
		Label:  "line",
		Matrix: m,
		Nodes: []vrp.Node{
			{Name: "DEPOT", Kind: vrp.KindDepot},
			{Name: "a", Demand: 2, Kind: vrp.KindCustomer},
			{Name: "b", Demand: 3, Kind: vrp.KindCustomer},
		},
		Fleet: vrp.Fleet{{Capacity: 10, Depot: 0}},
	}

	data, err := vrp.EncodeProblem(p)
	require.NoError(t, err)

	return data
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()

	buf, err := json.Marshal(body)
	require.NoError(t, err)

	res, err := http.Post(url, "application/json", bytes.NewReader(buf))
	require.NoError(t, err)

	return res
}

func TestSolveEndpoint(t *testing.T) {
	srv := newTestServer(t)

	res := postJSON(t, srv.URL+"/v1/solve", map[string]any{
		"problem": lineProblemJSON(t),
	})
	defer res.Body.Close()

	require.Equal(t, http.StatusOK, res.StatusCode)
	require.NotEmpty(t, res.Header.Get("X-Job-ID"))

	var out struct {
		JobID        string  `json:"job_id"`
		Label        string  `json:"label"`
		Strategy     string  `json:"strategy"`
		TotalMeters  float64 `json:"total_meters"`
		TotalLoad    int64   `json:"total_load"`
		VehiclesUsed int     `json:"vehicles_used"`
		Routes       []struct {
			Vehicle int      `json:"vehicle"`
			Load    int64    `json:"load"`
			Stops   []int    `json:"stops"`
			Names   []string `json:"names"`
		} `json:"routes"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out))

	require.Equal(t, res.Header.Get("X-Job-ID"), out.JobID)
	require.Equal(t, "line", out.Label)
	require.Equal(t, "cheapest-arc", out.Strategy)

	// One vehicle out to b and back: 0-1-2-0 = 4000m, load 5.
	require.Equal(t, 1, out.VehiclesUsed)
	require.InDelta(t, 4000, out.TotalMeters, 1e-6)
	require.Equal(t, int64(5), out.TotalLoad)
	require.Len(t, out.Routes, 1)
	require.Equal(t, []int{0, 1, 2, 0}, out.Routes[0].Stops)
	require.Equal(t, []string{"DEPOT", "a", "b", "DEPOT"}, out.Routes[0].Names)
}

func TestSolveEndpoint_StrategySelection(t *testing.T) {
	srv := newTestServer(t)

	res := postJSON(t, srv.URL+"/v1/solve", map[string]any{
		"problem":  lineProblemJSON(t),
		"strategy": "savings",
	})
	defer res.Body.Close()

	require.Equal(t, http.StatusOK, res.StatusCode)

	var out struct {
		Strategy string `json:"strategy"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	require.Equal(t, "parallel-savings", out.Strategy)
}

func TestSolveEndpoint_BadRequests(t *testing.T) {
	srv := newTestServer(t)

	t.Run("not json", func(t *testing.T) {
		res, err := http.Post(srv.URL+"/v1/solve", "application/json", bytes.NewReader([]byte("nope")))
		require.NoError(t, err)
		defer res.Body.Close()
		require.Equal(t, http.StatusBadRequest, res.StatusCode)
	})

	t.Run("missing problem", func(t *testing.T) {
		res := postJSON(t, srv.URL+"/v1/solve", map[string]any{"strategy": "savings"})
		defer res.Body.Close()
		require.Equal(t, http.StatusBadRequest, res.StatusCode)

		var out struct {
			Error string `json:"error"`
		}
		require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
		require.Contains(t, out.Error, "missing problem")
	})

	t.Run("unknown strategy", func(t *testing.T) {
		res := postJSON(t, srv.URL+"/v1/solve", map[string]any{
			"problem":  lineProblemJSON(t),
			"strategy": "simulated-annealing",
		})
		defer res.Body.Close()
		require.Equal(t, http.StatusBadRequest, res.StatusCode)
	})
}

func TestSolveEndpoint_Infeasible(t *testing.T) {
	srv := newTestServer(t)

	// Demand exceeds the whole fleet.
	m, err := travel.FromRows([][]float64{
		{0, 1000},
		{1000, 0},
	})
	require.NoError(t, err)
	p := &vrp.Problem{
		Matrix: m,
		Nodes: []vrp.Node{
			{Kind: vrp.KindDepot},
			{Demand: 50, Kind: vrp.KindCustomer},
		},
		Fleet: vrp.Fleet{{Capacity: 10, Depot: 0}},
	}
	data, err := vrp.EncodeProblem(p)
	require.NoError(t, err)

	res := postJSON(t, srv.URL+"/v1/solve", map[string]any{"problem": json.RawMessage(data)})
	defer res.Body.Close()
	require.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
}

func TestFeasibilityEndpoint(t *testing.T) {
	srv := newTestServer(t)

	m, err := travel.FromRows([][]float64{
		{0, 1000, 2000},
		{1000, 0, 1000},
		{2000, 1000, 0},
	})
	require.NoError(t, err)
	p := &vrp.Problem{
		Matrix: m,
		Nodes: []vrp.Node{
			{Name: "DEPOT", Kind: vrp.KindDepot},
			{Name: "ok", Demand: 2, Kind: vrp.KindCustomer},
			{Name: "oversized", Demand: 99, Kind: vrp.KindCustomer},
		},
		Fleet: vrp.Fleet{{Capacity: 10, Depot: 0}},
	}
	data, err := vrp.EncodeProblem(p)
	require.NoError(t, err)

	res := postJSON(t, srv.URL+"/v1/feasibility", map[string]any{"problem": json.RawMessage(data)})
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var out struct {
		OK        bool `json:"ok"`
		Customers int  `json:"customers"`
		Depots    int  `json:"depots"`
		Findings  []struct {
			Kind string `json:"kind"`
			Name string `json:"name"`
		} `json:"findings"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out))

	require.False(t, out.OK)
	require.Equal(t, 2, out.Customers)
	require.Equal(t, 1, out.Depots)
	require.Len(t, out.Findings, 1)
	require.Equal(t, "oversized-demand", out.Findings[0].Kind)
	require.Equal(t, "oversized", out.Findings[0].Name)
}

func TestHealthAndMetrics(t *testing.T) {
	srv := newTestServer(t)

	res, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	// Drive one solve so the counter exists, then scrape.
	solve := postJSON(t, srv.URL+"/v1/solve", map[string]any{"problem": lineProblemJSON(t)})
	require.Equal(t, http.StatusOK, solve.StatusCode)
	solve.Body.Close()

	scrape, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer scrape.Body.Close()
	require.Equal(t, http.StatusOK, scrape.StatusCode)

	body, err := io.ReadAll(scrape.Body)
	require.NoError(t, err)
	require.Contains(t, string(body),
		`vrpkit_solve_total{outcome="ok",strategy="cheapest-arc"} 1`)
}
