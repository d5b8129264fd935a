package sim

// === Identity types ===

// StationID identifies an ITS station (vehicle or road side unit).
type StationID uint32

// StationType classifies the originating station of a message.
type StationType uint8

const (
	StationTypeUnknown        StationType = 0
	StationTypePedestrian     StationType = 1
	StationTypeCyclist        StationType = 2
	StationTypeMoped          StationType = 3
	StationTypeMotorcycle     StationType = 4
	StationTypePassengerCar   StationType = 5
	StationTypeBus            StationType = 6
	StationTypeLightTruck     StationType = 7
	StationTypeHeavyTruck     StationType = 8
	StationTypeTrailer        StationType = 9
	StationTypeSpecialVehicle StationType = 10
	StationTypeTram           StationType = 11
	StationTypeRoadSideUnit   StationType = 15
)

// stationTypeNames maps configuration names to station types.
var stationTypeNames = map[string]StationType{
	"unknown":         StationTypeUnknown,
	"pedestrian":      StationTypePedestrian,
	"cyclist":         StationTypeCyclist,
	"moped":           StationTypeMoped,
	"motorcycle":      StationTypeMotorcycle,
	"passenger-car":   StationTypePassengerCar,
	"bus":             StationTypeBus,
	"light-truck":     StationTypeLightTruck,
	"heavy-truck":     StationTypeHeavyTruck,
	"trailer":         StationTypeTrailer,
	"special-vehicle": StationTypeSpecialVehicle,
	"tram":            StationTypeTram,
	"road-side-unit":  StationTypeRoadSideUnit,
}

// ParseStationType resolves a configuration name such as "road-side-unit".
func ParseStationType(name string) (StationType, bool) {
	st, ok := stationTypeNames[name]
	return st, ok
}

// IsValidStationType returns true if name is a recognized station type name.
func IsValidStationType(name string) bool {
	_, ok := stationTypeNames[name]
	return ok
}

// === ActionID ===

// ActionID is the unique key of a hazard message instance.
// Sequence numbers are allocated per originating station, starting at 1.
type ActionID struct {
	OriginatingStationID StationID
	SequenceNumber       uint32
}

// IsSet reports whether the ActionID was allocated (sequence 0 is reserved).
func (a ActionID) IsSet() bool {
	return a.SequenceNumber != 0
}

// Less orders ActionIDs by station, then sequence number.
func (a ActionID) Less(b ActionID) bool {
	if a.OriginatingStationID != b.OriginatingStationID {
		return a.OriginatingStationID < b.OriginatingStationID
	}
	return a.SequenceNumber < b.SequenceNumber
}

// === Cause codes ===

// CauseCode is the top level hazard classification.
type CauseCode uint8

// SubCauseCode refines a CauseCode. Its meaning depends on the cause.
type SubCauseCode uint8

const (
	CauseReserved                           CauseCode = 0
	CauseTrafficCondition                   CauseCode = 1
	CauseAccident                           CauseCode = 2
	CauseRoadworks                          CauseCode = 3
	CauseImpassability                      CauseCode = 5
	CauseAdverseWeatherAdhesion             CauseCode = 6
	CauseAquaplaning                        CauseCode = 7
	CauseHazardousLocationSurfaceCondition  CauseCode = 9
	CauseHazardousLocationObstacleOnTheRoad CauseCode = 10
	CauseHazardousLocationAnimalOnTheRoad   CauseCode = 11
	CauseHumanPresenceOnTheRoad             CauseCode = 12
	CauseWrongWayDriving                    CauseCode = 14
	CauseRescueAndRecoveryWorkInProgress    CauseCode = 15
	CauseAdverseWeatherExtremeWeather       CauseCode = 17
	CauseAdverseWeatherVisibility           CauseCode = 18
	CauseAdverseWeatherPrecipitation        CauseCode = 19
	CauseSlowVehicle                        CauseCode = 26
	CauseDangerousEndOfQueue                CauseCode = 27
	CauseVehicleBreakdown                   CauseCode = 91
	CausePostCrash                          CauseCode = 92
	CauseHumanProblem                       CauseCode = 93
	CauseStationaryVehicle                  CauseCode = 94
	CauseEmergencyVehicleApproaching        CauseCode = 95
	CauseHazardousLocationDangerousCurve    CauseCode = 96
	CauseCollisionRisk                      CauseCode = 97
	CauseSignalViolation                    CauseCode = 98
	CauseDangerousSituation                 CauseCode = 99
)

// Roadworks sub causes.
const (
	RoadworksUnavailable                 SubCauseCode = 0
	RoadworksMajorRoadworks              SubCauseCode = 1
	RoadworksRoadMarkingWork             SubCauseCode = 2
	RoadworksSlowMovingRoadMaintenance   SubCauseCode = 3
	RoadworksShortTermStationaryRoadwork SubCauseCode = 4
	RoadworksStreetCleaning              SubCauseCode = 5
	RoadworksWinterService               SubCauseCode = 6
)

// Adverse weather sub causes.
const (
	PrecipitationHeavyRain     SubCauseCode = 1
	PrecipitationHeavySnowfall SubCauseCode = 2
	PrecipitationSoftHail      SubCauseCode = 3

	ExtremeWeatherStrongWinds SubCauseCode = 1
)

// EventType pairs a cause with its sub cause.
type EventType struct {
	CauseCode    CauseCode
	SubCauseCode SubCauseCode
}

// === Management container enums ===

// RelevanceDistance buckets the distance within which an event is relevant.
type RelevanceDistance uint8

const (
	RelevanceLessThan50m RelevanceDistance = iota
	RelevanceLessThan100m
	RelevanceLessThan200m
	RelevanceLessThan500m
	RelevanceLessThan1000m
	RelevanceLessThan5km
	RelevanceLessThan10km
	RelevanceOver10km
)

// RelevanceTrafficDirection names the traffic flow an event applies to.
type RelevanceTrafficDirection uint8

const (
	RelevanceAllTrafficDirections RelevanceTrafficDirection = iota
	RelevanceUpstreamTraffic
	RelevanceDownstreamTraffic
	RelevanceOppositeTraffic
)

// Termination marks a message as cancelling or negating an earlier one.
type Termination uint8

const (
	TerminationIsCancellation Termination = 0
	TerminationIsNegation     Termination = 1
)

// DefaultValidityDuration applies when a message omits its validity (seconds).
const DefaultValidityDuration uint32 = 60

// "Unavailable" markers for position and motion fields.
const (
	AltitudeValueUnavailable      int32  = 800001
	AltitudeConfidenceUnavailable uint8  = 15
	SemiAxisLengthUnavailable     uint16 = 4095
	HeadingValueUnavailable       uint16 = 3601
	HeadingConfidenceOneDegree    uint8  = 10
	SpeedValueUnavailable         uint16 = 16383
	SpeedConfidenceOneCmPerSec    uint8  = 1
)

// === Message ===

// MessageID discriminates the ITS PDU kind.
type MessageID uint8

const (
	MessageIDDenm MessageID = 1
	MessageIDCam  MessageID = 2
)

// ProtocolVersion written into every generated header.
const ProtocolVersion uint8 = 1

// Header is the ITS PDU header shared by all facility messages.
type Header struct {
	ProtocolVersion uint8
	MessageID       MessageID
	StationID       StationID
}

// Altitude with confidence; use the Unavailable constants when unknown.
type Altitude struct {
	Value      int32
	Confidence uint8
}

// PositionConfidenceEllipse describes the horizontal position accuracy.
type PositionConfidenceEllipse struct {
	SemiMajorConfidence  uint16
	SemiMinorConfidence  uint16
	SemiMajorOrientation uint16
}

// ReferencePosition is an encoded WGS84 position.
// Latitude and Longitude are in tenths of a microdegree.
type ReferencePosition struct {
	Latitude                  int32
	Longitude                 int32
	Altitude                  Altitude
	PositionConfidenceEllipse PositionConfidenceEllipse
}

// Management is the mandatory management container.
type Management struct {
	ActionID                  ActionID
	DetectionTime             TimestampIts
	ReferenceTime             TimestampIts
	Termination               *Termination
	EventPosition             ReferencePosition
	RelevanceDistance         *RelevanceDistance
	RelevanceTrafficDirection *RelevanceTrafficDirection
	ValidityDuration          *uint32 // seconds; nil means DefaultValidityDuration
	StationType               StationType
}

// Validity returns the effective validity duration in seconds.
func (m *Management) Validity() uint32 {
	if m.ValidityDuration == nil {
		return DefaultValidityDuration
	}
	return *m.ValidityDuration
}

// Situation classifies the event.
type Situation struct {
	InformationQuality uint8
	EventType          EventType
}

// Speed with confidence.
type Speed struct {
	Value      uint16
	Confidence uint8
}

// Heading with confidence.
type Heading struct {
	Value      uint16
	Confidence uint8
}

// PathPoint is one delta step of a path history.
type PathPoint struct {
	DeltaLatitude  int32
	DeltaLongitude int32
	DeltaTime      uint16
}

// PathHistory is a trace leading to the event position.
type PathHistory []PathPoint

// Location is the optional location container.
type Location struct {
	EventSpeed           *Speed
	EventPositionHeading *Heading
	Traces               []PathHistory
}

// ClosedLanes lists which driving lanes are closed; index 0 is the outermost lane.
type ClosedLanes struct {
	DrivingLaneStatus []bool
}

// RoadWorks is the extended roadworks container.
type RoadWorks struct {
	ClosedLanes *ClosedLanes
}

// Alacarte holds optional scenario specific extensions.
type Alacarte struct {
	RoadWorks *RoadWorks
}

// Denm is a decentralized environmental notification message.
// Encoding is owned by the transport; this is the facility layer view.
type Denm struct {
	Header     Header
	Management Management
	Situation  *Situation
	Location   *Location
	Alacarte   *Alacarte
}

// EventType returns the situation's event type, or the zero value when absent.
func (d *Denm) EventType() EventType {
	if d.Situation == nil {
		return EventType{}
	}
	return d.Situation.EventType
}

// ClosedLanes returns the roadworks closed-lanes container, or nil.
func (d *Denm) ClosedLanes() *ClosedLanes {
	if d.Alacarte == nil || d.Alacarte.RoadWorks == nil {
		return nil
	}
	return d.Alacarte.RoadWorks.ClosedLanes
}

// DenmObject wraps a received message for use case inspection.
type DenmObject struct {
	msg *Denm
}

// NewDenmObject wraps msg. The object must not be mutated afterwards.
func NewDenmObject(msg *Denm) *DenmObject {
	return &DenmObject{msg: msg}
}

// Message returns the wrapped message.
func (o *DenmObject) Message() *Denm {
	return o.msg
}

// Matches reports whether the message carries the given cause code.
func (o *DenmObject) Matches(cause CauseCode) bool {
	return o.msg.Situation != nil && o.msg.Situation.EventType.CauseCode == cause
}

// MatchesEvent reports whether the message carries exactly the given cause and sub cause.
func (o *DenmObject) MatchesEvent(cause CauseCode, sub SubCauseCode) bool {
	return o.Matches(cause) && o.msg.Situation.EventType.SubCauseCode == sub
}

// Ptr returns a pointer to v. Used to fill optional message fields.
func Ptr[T any](v T) *T {
	return &v
}
