package sim

// ActionIDSource hands out fresh ActionIDs. Implemented by ActionIDAllocator and DenService.
type ActionIDSource interface {
	RequestActionID() ActionID
}

// ActionIDAllocator issues ActionIDs for a single originating station.
// Sequence numbers start at 1 and increase by one per call; they are never reused.
// Overflow past the uint32 range is not handled.
//
// Thread-safety: NOT thread-safe. The owning DenService serializes access.
type ActionIDAllocator struct {
	station StationID
	last    uint32
}

// NewActionIDAllocator creates an allocator for station.
func NewActionIDAllocator(station StationID) *ActionIDAllocator {
	return &ActionIDAllocator{station: station}
}

// RequestActionID returns the next ActionID.
func (a *ActionIDAllocator) RequestActionID() ActionID {
	a.last++
	return ActionID{
		OriginatingStationID: a.station,
		SequenceNumber:       a.last,
	}
}

// Last returns the most recently issued sequence number (0 if none).
func (a *ActionIDAllocator) Last() uint32 {
	return a.last
}
