package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/hazard-sim/sim"
)

func TestWeatherEvent_CauseMapping(t *testing.T) {
	tests := []struct {
		name    string
		cause   sim.CauseCode
		sub     sim.SubCauseCode
		want    sim.EventType
		wantErr bool
	}{
		{"heavy rain", sim.CauseAdverseWeatherPrecipitation, sim.PrecipitationHeavyRain,
			sim.EventType{CauseCode: 19, SubCauseCode: 1}, false},
		{"heavy snowfall", sim.CauseAdverseWeatherPrecipitation, sim.PrecipitationHeavySnowfall,
			sim.EventType{CauseCode: 19, SubCauseCode: 2}, false},
		{"soft hail", sim.CauseAdverseWeatherPrecipitation, sim.PrecipitationSoftHail,
			sim.EventType{CauseCode: 19, SubCauseCode: 3}, false},
		{"unknown precipitation", sim.CauseAdverseWeatherPrecipitation, 9,
			sim.EventType{CauseCode: 19, SubCauseCode: 0}, false},
		{"strong winds", sim.CauseAdverseWeatherExtremeWeather, 5,
			sim.EventType{CauseCode: 17, SubCauseCode: 1}, false},
		{"roadworks", sim.CauseRoadworks, 4, sim.EventType{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := weatherEvent(uint8(tt.cause), uint8(tt.sub))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRsuHlnWcw_MessageAndRequest(t *testing.T) {
	// GIVEN a strong winds warning every second with the default 401..600ms startup delay
	params := DefaultRsuHlnWcwParams()
	params.CauseCode = uint8(sim.CauseAdverseWeatherExtremeWeather)
	u, err := NewRsuHlnWcw(TypeRsuHlnWcw, params)
	require.NoError(t, err)
	svc, out := newStation(t, stationOpts{id: 200, stationType: sim.StationTypeRoadSideUnit, seed: 3}, u)

	// WHEN triggered every 100ms for 1.3s
	runTicks(svc, 100*time.Millisecond, 1300*time.Millisecond)
	assert.Empty(t, out.requests, "first send waits for jitter plus interval")

	for now := 1400 * time.Millisecond; now <= 5*time.Second; now += 100 * time.Millisecond {
		svc.Trigger(sim.Ticks(now))
	}

	// THEN warnings carry the weather event with two seconds validity
	require.NotEmpty(t, out.requests)
	for _, req := range out.requests {
		msg := req.Payload
		assert.Equal(t, sim.EventType{CauseCode: 17, SubCauseCode: 1}, msg.EventType())
		assert.Equal(t, uint32(2), msg.Management.Validity())
		assert.Equal(t, sim.RelevanceLessThan5km, *msg.Management.RelevanceDistance)
		assert.Equal(t, sim.RelevanceAllTrafficDirections, *msg.Management.RelevanceTrafficDirection)
		assert.Contains(t, []int{478, 482}, req.Destination.FixedLength)
		assert.Equal(t, 10, req.Destination.MessageRate)
		assert.Equal(t, 3, req.Destination.MessageCategory)
	}
}

func TestRsuHlnWcw_FixedPacketSize(t *testing.T) {
	uc, err := sim.NewUseCase(TypeRsuHlnWcw, "", paramsNode(t, `
cause_code: 19
sub_cause_code: 3
startup_jitter: {min: 0s, max: 0s}
packet_size: {fixed: 300}
`))
	require.NoError(t, err)
	assert.Equal(t, TypeRsuHlnWcw, uc.Name())

	svc, out := newStation(t, stationOpts{id: 200, stationType: sim.StationTypeRoadSideUnit}, uc)
	svc.Trigger(sim.Ticks(time.Second))

	require.Len(t, out.requests, 1)
	assert.Equal(t, 300, out.requests[0].Destination.FixedLength)
	assert.Equal(t, sim.EventType{CauseCode: 19, SubCauseCode: 3}, out.requests[0].Payload.EventType())
}

func TestNewRsuHlnWcw_RejectsUnsupportedCause(t *testing.T) {
	_, err := sim.NewUseCase(TypeRsuHlnWcw, "wcw", paramsNode(t, "cause_code: 1\n"))
	assert.Error(t, err)
}
