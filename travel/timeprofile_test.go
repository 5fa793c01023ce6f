package travel_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openfleet/vrpkit/travel"
)

func TestTimeProfile_Validate(t *testing.T) {
	req := require.New(t)

	req.NoError(travel.DefaultProfile().Validate())
	req.ErrorIs(travel.TimeProfile{SpeedKmph: 0}.Validate(), travel.ErrBadSpeed)
	req.ErrorIs(travel.TimeProfile{SpeedKmph: -20}.Validate(), travel.ErrBadSpeed)
	req.ErrorIs(
		travel.TimeProfile{SpeedKmph: 30, ServiceMinutes: -1}.Validate(),
		travel.ErrBadServiceTime,
	)
}

func TestTimeProfile_Minutes(t *testing.T) {
	req := require.New(t)

	// 30 km/h means 500 m/min: 15 km takes 30 minutes.
	p := travel.TimeProfile{SpeedKmph: 30, ServiceMinutes: 10}
	req.InDelta(30.0, p.Minutes(15000), 1e-9)
	req.InDelta(40.0, p.StopMinutes(15000), 1e-9)

	// Unreachable legs stay unreachable in time space.
	req.True(math.IsInf(p.Minutes(math.Inf(1)), 1))
}
