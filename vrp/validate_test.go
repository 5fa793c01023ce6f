// Package vrp_test checks problem validation staging and the helpers on
// Fleet / Problem / Route through the public API.
package vrp_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openfleet/vrpkit/travel"
	"github.com/openfleet/vrpkit/vrp"
)

// smallProblem builds a valid 3-node single-depot instance:
// depot 0, customers 1 and 2, one vehicle of capacity 100.
func smallProblem(t *testing.T) *vrp.Problem {
	t.Helper()

	m, err := travel.FromRows([][]float64{
		{0, 10, 20},
		{10, 0, 15},
		{20, 15, 0},
	})
	require.NoError(t, err)

	return &vrp.Problem{
		Matrix: m,
		Nodes: []vrp.Node{
			{Name: "depot", Kind: vrp.KindDepot},
			{Name: "a", Kind: vrp.KindCustomer, Demand: 40},
			{Name: "b", Kind: vrp.KindCustomer, Demand: 25},
		},
		Fleet: vrp.Fleet{{Capacity: 100, Depot: 0}},
	}
}

func TestProblem_Validate_OK(t *testing.T) {
	require.NoError(t, smallProblem(t).Validate())
}

func TestProblem_Validate_Stages(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*vrp.Problem)
		want   error
	}{
		{
			name:   "nil matrix",
			mutate: func(p *vrp.Problem) { p.Matrix = nil },
			want:   vrp.ErrNilMatrix,
		},
		{
			name:   "empty fleet",
			mutate: func(p *vrp.Problem) { p.Fleet = nil },
			want:   vrp.ErrNoVehicles,
		},
		{
			name:   "shape mismatch",
			mutate: func(p *vrp.Problem) { p.Nodes = p.Nodes[:2] },
			want:   vrp.ErrShapeMismatch,
		},
		{
			name:   "depot with demand",
			mutate: func(p *vrp.Problem) { p.Nodes[0].Demand = 5 },
			want:   vrp.ErrDepotDemand,
		},
		{
			name:   "negative demand",
			mutate: func(p *vrp.Problem) { p.Nodes[1].Demand = -1 },
			want:   vrp.ErrNegativeDemand,
		},
		{
			name: "no customers",
			mutate: func(p *vrp.Problem) {
				p.Nodes[1].Kind = vrp.KindDepot
				p.Nodes[1].Demand = 0
				p.Nodes[2].Kind = vrp.KindDepot
				p.Nodes[2].Demand = 0
			},
			want: vrp.ErrNoCustomers,
		},
		{
			name:   "zero capacity",
			mutate: func(p *vrp.Problem) { p.Fleet[0].Capacity = 0 },
			want:   vrp.ErrBadCapacity,
		},
		{
			name:   "vehicle anchored to customer",
			mutate: func(p *vrp.Problem) { p.Fleet[0].Depot = 1 },
			want:   vrp.ErrDepotOutOfRange,
		},
		{
			name:   "vehicle depot out of range",
			mutate: func(p *vrp.Problem) { p.Fleet[0].Depot = 9 },
			want:   vrp.ErrDepotOutOfRange,
		},
		{
			name:   "bad time profile",
			mutate: func(p *vrp.Problem) { p.Profile = &travel.TimeProfile{SpeedKmph: -1} },
			want:   travel.ErrBadSpeed,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := smallProblem(t)
			tc.mutate(p)
			require.ErrorIs(t, p.Validate(), tc.want)
		})
	}
}

func TestProblem_Projections(t *testing.T) {
	req := require.New(t)
	p := smallProblem(t)

	req.Equal([]int{0}, p.Depots())
	req.Equal([]int{1, 2}, p.Customers())
	req.Equal(int64(65), p.TotalDemand())
	req.False(p.TimeDimension())

	prof := travel.DefaultProfile()
	p.Profile = &prof
	p.MaxRouteMinutes = 240
	req.True(p.TimeDimension())
}

func TestFleet_Projections(t *testing.T) {
	req := require.New(t)
	f := vrp.Fleet{
		{Capacity: 2500, Depot: 0},
		{Capacity: 1500, Depot: 3},
	}

	req.Equal([]int{0, 3}, f.Starts())
	req.Equal([]int64{2500, 1500}, f.Capacities())
	req.Equal(int64(4000), f.TotalCapacity())
	req.Equal(int64(2500), f.MaxCapacity())
}

func TestRoute_Helpers(t *testing.T) {
	req := require.New(t)

	empty := vrp.Route{Nodes: []int{0, 0}}
	req.True(empty.Empty())
	req.Equal(0, empty.Stops())

	r := vrp.Route{Nodes: []int{0, 2, 1, 0}}
	req.False(r.Empty())
	req.Equal(2, r.Stops())
}
