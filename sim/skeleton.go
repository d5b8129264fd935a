package sim

// BuildSkeleton creates the protocol-mandated part of a DENM: header, management
// container with a freshly allocated ActionID, detection and reference time, and a
// location container whose motion fields are marked unavailable. The location
// carries exactly one path history, left empty: stations report no traces.
//
// Scenario fields (situation, relevance, validity, event position, alacarte) are
// left for the caller. Panics if now cannot be encoded (see NewTimestampIts).
func BuildSkeleton(station StationID, stationType StationType, ids ActionIDSource, now TimestampIts) *Denm {
	if now > MaxTimestampIts {
		panic("BuildSkeleton: detection time exceeds TimestampIts range")
	}
	actionID := ids.RequestActionID()
	if !actionID.IsSet() {
		panic("BuildSkeleton: action id source returned unset sequence number")
	}

	return &Denm{
		Header: Header{
			ProtocolVersion: ProtocolVersion,
			MessageID:       MessageIDDenm,
			StationID:       station,
		},
		Management: Management{
			ActionID:      actionID,
			DetectionTime: now,
			ReferenceTime: now,
			StationType:   stationType,
		},
		Location: &Location{
			EventSpeed: &Speed{
				Value:      SpeedValueUnavailable,
				Confidence: SpeedConfidenceOneCmPerSec * 3,
			},
			EventPositionHeading: &Heading{
				Value:      HeadingValueUnavailable,
				Confidence: HeadingConfidenceOneDegree,
			},
			Traces: []PathHistory{{}},
		},
	}
}
