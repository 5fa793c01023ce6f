package vrp

// Validate performs the staged structural check of a problem:
//
//  1. Presence: non-nil problem and matrix, at least one vehicle and one
//     customer.
//  2. Shape: matrix order equals node count.
//  3. Nodes: depots carry zero demand; customer demand is non-negative.
//  4. Fleet: positive capacities; home depots reference depot nodes.
//  5. Profile: when set, the time profile itself must validate.
//
// Matrix value sanity (NaN, negativity, diagonal) is travel.Validate's
// job; solvers run both.
//
// Complexity: O(V + F) time, O(1) space.
func (p *Problem) Validate() error {
	// Stage 1: presence.
	if p == nil {
		return ErrNilProblem
	}
	if p.Matrix == nil {
		return ErrNilMatrix
	}
	if len(p.Fleet) == 0 {
		return ErrNoVehicles
	}

	// Stage 2: shape.
	if p.Matrix.Rows() != len(p.Nodes) {
		return ErrShapeMismatch
	}

	// Stage 3: nodes.
	var (
		i         int
		customers int
	)
	for i = 0; i < len(p.Nodes); i++ {
		switch p.Nodes[i].Kind {
		case KindDepot:
			if p.Nodes[i].Demand != 0 {
				return ErrDepotDemand
			}
		case KindCustomer:
			if p.Nodes[i].Demand < 0 {
				return ErrNegativeDemand
			}
			customers++
		}
	}
	if customers == 0 {
		return ErrNoCustomers
	}

	// Stage 4: fleet.
	for i = 0; i < len(p.Fleet); i++ {
		if p.Fleet[i].Capacity <= 0 {
			return ErrBadCapacity
		}
		d := p.Fleet[i].Depot
		if d < 0 || d >= len(p.Nodes) || p.Nodes[d].Kind != KindDepot {
			return ErrDepotOutOfRange
		}
	}

	// Stage 5: time profile, when present.
	if p.Profile != nil {
		if err := p.Profile.Validate(); err != nil {
			return err
		}
	}

	return nil
}
