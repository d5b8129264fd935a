package sim

import (
	"math/rand"
	"time"
)

// TrafficClass is the GeoNetworking traffic class id (0 = highest priority).
type TrafficClass uint8

// Fixed transport fields of every DENM request.
const (
	PortDenm           uint16 = 2002
	ItsAidDen          uint32 = 37
	TransportTypeGBC          = "GBC"
	CommunicationITSG5        = "ITS-G5"
)

// Default coded packet sizes chosen between when a scenario does not mandate one.
var DefaultPacketSizes = [2]int{478, 482}

// PacketSize describes how the fixed transport length of a message is chosen.
// Fixed wins when positive. Otherwise Alternatives[0] is chosen with Probability
// and Alternatives[1] otherwise. The zero value leaves the length to the transport.
type PacketSize struct {
	Fixed        int     `yaml:"fixed"`
	Alternatives [2]int  `yaml:"alternatives"`
	Probability  float64 `yaml:"probability"`
}

// Resolve picks the coded length. rng is consulted only for the alternatives case.
func (p PacketSize) Resolve(rng *rand.Rand) int {
	if p.Fixed > 0 {
		return p.Fixed
	}
	if p.Alternatives == [2]int{} {
		return 0
	}
	if rng.Float64() < p.Probability {
		return p.Alternatives[0]
	}
	return p.Alternatives[1]
}

// Repetition asks the transport to repeat a packet every Interval until Maximum elapses.
type Repetition struct {
	Interval time.Duration
	Maximum  time.Duration
}

// DestinationParameters is the per-send targeting computed for an outbound message.
type DestinationParameters struct {
	Area            GeoArea
	TrafficClass    TrafficClass
	MessageRate     int // repetition interval in tenths of a second; 0 = unset
	MessageCategory int
	FixedLength     int // bytes; 0 = transport decides
	Repetition      *Repetition
}

// ComputeDestination derives a circular geo-broadcast destination around center.
// interval is the scenario's repetition interval, scaled into tenths of a second.
func ComputeDestination(center GeoPoint, radius float64, tc TrafficClass, interval time.Duration, size PacketSize, rng *rand.Rand) DestinationParameters {
	return DestinationParameters{
		Area: GeoArea{
			Center: center,
			Radius: radius,
		},
		TrafficClass: tc,
		MessageRate:  int(interval.Seconds() * 10),
		FixedLength:  size.Resolve(rng),
	}
}

// DataRequest is what DenService hands to the Transport.
type DataRequest struct {
	DestinationPort      uint16
	ItsAid               uint32
	TransportType        string
	CommunicationProfile string
	Destination          DestinationParameters
	Source               StationID
	Payload              *Denm
}

// newDataRequest fills the fixed DENM transport fields around dest.
func newDataRequest(source StationID, dest DestinationParameters, msg *Denm) DataRequest {
	return DataRequest{
		DestinationPort:      PortDenm,
		ItsAid:               ItsAidDen,
		TransportType:        TransportTypeGBC,
		CommunicationProfile: CommunicationITSG5,
		Destination:          dest,
		Source:               source,
		Payload:              msg,
	}
}

// Transport accepts outbound requests. Request must not block; delivery is
// fire-and-forget from the engine's point of view. DenService calls Request
// after its entry point returned its lock, so Request may deliver synchronously
// into Indicate of any service, the sender included.
type Transport interface {
	Request(req DataRequest)
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(req DataRequest)

// Request implements Transport.
func (f TransportFunc) Request(req DataRequest) {
	f(req)
}
