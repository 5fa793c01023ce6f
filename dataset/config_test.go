package dataset_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openfleet/vrpkit/dataset"
	"github.com/openfleet/vrpkit/travel"
)

func writeTemp(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	return path
}

func TestLoadDepotRegistry(t *testing.T) {
	path := writeTemp(t, "depots.yaml", `
depots:
  MCC Buldhana: {lat: 20.977988, lon: 76.192343}
  Dahid BMC: {lat: 21.1, lon: 76.5}
`)

	reg, err := dataset.LoadDepotRegistry(path)
	require.NoError(t, err)

	// Word order and case do not matter.
	coord, ok := reg.Lookup("bmc dahid")
	require.True(t, ok)
	require.Equal(t, travel.Coordinate{Lat: 21.1, Lon: 76.5}, coord)

	require.True(t, reg.Known("BULDHANA mcc"))
	require.False(t, reg.Known("MCC Akola"))
}

func TestLoadDepotRegistry_BadFile(t *testing.T) {
	_, err := dataset.LoadDepotRegistry(filepath.Join(t.TempDir(), "absent.yaml"))
	require.ErrorIs(t, err, dataset.ErrBadConfig)

	path := writeTemp(t, "broken.yaml", "depots: [not, a, map]")
	_, err = dataset.LoadDepotRegistry(path)
	require.ErrorIs(t, err, dataset.ErrBadConfig)
}

func TestLoadFleetConfig(t *testing.T) {
	path := writeTemp(t, "fleets.yaml", `
fleets:
  MCC Buldhana: [2500, 2500, 2000]
  DEFAULT: [2000, 1500]
`)

	cfg, err := dataset.LoadFleetConfig(path)
	require.NoError(t, err)

	caps, ok := cfg.CapacitiesFor("Buldhana MCC")
	require.True(t, ok)
	require.Equal(t, []int64{2500, 2500, 2000}, caps)

	// Unknown depot falls back to DEFAULT.
	caps, ok = cfg.CapacitiesFor("MCC Akola")
	require.True(t, ok)
	require.Equal(t, []int64{2000, 1500}, caps)
}

func TestNewFleetConfig_DropsBadCapacities(t *testing.T) {
	cfg := dataset.NewFleetConfig(map[string][]int64{
		"MCC Akola": {0, -5, 1200},
	})

	caps, ok := cfg.CapacitiesFor("MCC Akola")
	require.True(t, ok)
	require.Equal(t, []int64{1200}, caps)

	// No DEFAULT entry: unknown depots have no fleet.
	_, ok = cfg.CapacitiesFor("MCC Buldhana")
	require.False(t, ok)
}
