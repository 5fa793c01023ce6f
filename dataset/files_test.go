package dataset_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openfleet/vrpkit/dataset"
	"github.com/openfleet/vrpkit/travel"
	"github.com/openfleet/vrpkit/vrp"
)

func diskProblem(t *testing.T, label string) *vrp.Problem {
	t.Helper()

	m, err := travel.FromRows([][]float64{
		{0, 1000, 2000},
		{1000, 0, 1500},
		{2000, 1500, 0},
	})
	require.NoError(t, err)

	return &vrp.Problem{
		Label:  label,
		Matrix: m,
		Nodes: []vrp.Node{
			{Name: "DEPOT", Kind: vrp.KindDepot},
			{Name: "a", Demand: 3, Kind: vrp.KindCustomer},
			{Name: "b", Demand: 4, Kind: vrp.KindCustomer},
		},
		Fleet: vrp.Fleet{{Capacity: 10, Depot: 0}},
	}
}

func TestSaveLoadProblem_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "buldhana.json")

	want := diskProblem(t, "buldhana")
	require.NoError(t, dataset.SaveProblem(want, path))

	got, err := dataset.LoadProblem(path)
	require.NoError(t, err)
	require.NoError(t, got.Validate())

	require.Equal(t, "buldhana", got.Label)
	require.Len(t, got.Nodes, 3)
	require.Equal(t, int64(4), got.Nodes[2].Demand)
	require.Len(t, got.Fleet, 1)
	require.Equal(t, int64(10), got.Fleet[0].Capacity)

	d, err := got.Matrix.At(0, 2)
	require.NoError(t, err)
	require.InDelta(t, 2000, d, 1e-6)
}

func TestLoadProblem_LabelFromFileName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "akola.json")

	p := diskProblem(t, "")
	require.NoError(t, dataset.SaveProblem(p, path))

	got, err := dataset.LoadProblem(path)
	require.NoError(t, err)
	require.Equal(t, "akola", got.Label)
}

func TestLoadProblem_Errors(t *testing.T) {
	_, err := dataset.LoadProblem(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)

	path := writeTemp(t, "garbage.json", "not json at all")
	_, err = dataset.LoadProblem(path)
	require.Error(t, err)
}

func TestListProblems(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.json", "a.json", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.json"), 0o755))

	paths, err := dataset.ListProblems(dir)
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(dir, "a.json"),
		filepath.Join(dir, "b.json"),
	}, paths)
}
