package cluster

import (
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/hazard-sim/sim"
)

// Medium is the geo-broadcast transport shared by all stations. A request
// reaches every other station inside its destination circle after the base
// latency plus a uniform jitter.
type Medium struct {
	sim     *RoadSimulator
	latency int64
	jitter  int64
	rng     *rand.Rand
}

func newMedium(s *RoadSimulator, latency, jitter int64, rng *rand.Rand) *Medium {
	return &Medium{sim: s, latency: latency, jitter: jitter, rng: rng}
}

// Request implements sim.Transport. It never blocks: deliveries are scheduled.
func (m *Medium) Request(req sim.DataRequest) {
	now := m.sim.Clock()
	m.broadcast(now, req)
	if rep := req.Destination.Repetition; rep != nil && rep.Interval > 0 && rep.Maximum > 0 {
		interval := sim.Ticks(rep.Interval)
		until := now + sim.Ticks(rep.Maximum)
		if now+interval <= until {
			m.sim.schedule(NewRepetitionEvent(now+interval, req, until, m.sim.newEventID()))
		}
	}
}

// broadcast schedules one delivery per station inside the destination area.
// Stations are visited in ID order so jitter draws are reproducible.
func (m *Medium) broadcast(now int64, req sim.DataRequest) int {
	area := req.Destination.Area
	reached := 0
	for _, st := range m.sim.stations {
		if st.Identity.StationID == req.Source {
			continue
		}
		st.advance(now)
		if !area.Contains(st.Position()) {
			continue
		}
		at := now + m.latency + sim.UniformTicks(m.rng, 0, m.jitter)
		m.sim.schedule(NewDeliveryEvent(at, st, req.Payload, m.sim.newEventID()))
		reached++
	}
	logrus.Debugf("medium: station %d broadcast reaches %d stations within %.0fm", req.Source, reached, area.Radius)
	return reached
}

var _ sim.Transport = (*Medium)(nil)
