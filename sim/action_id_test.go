package sim

import "testing"

func TestActionIDAllocator_Monotonic(t *testing.T) {
	// GIVEN a fresh allocator
	a := NewActionIDAllocator(42)
	if a.Last() != 0 {
		t.Fatalf("Last() = %d before any request, want 0", a.Last())
	}

	// WHEN ids are requested
	// THEN sequence numbers start at 1 and increase by one
	for want := uint32(1); want <= 100; want++ {
		id := a.RequestActionID()
		if id.OriginatingStationID != 42 {
			t.Fatalf("OriginatingStationID = %d, want 42", id.OriginatingStationID)
		}
		if id.SequenceNumber != want {
			t.Fatalf("SequenceNumber = %d, want %d", id.SequenceNumber, want)
		}
		if !id.IsSet() {
			t.Fatalf("allocated id %v reports unset", id)
		}
	}
	if a.Last() != 100 {
		t.Errorf("Last() = %d, want 100", a.Last())
	}
}

func TestActionID_Less(t *testing.T) {
	tests := []struct {
		a, b ActionID
		want bool
	}{
		{ActionID{1, 5}, ActionID{2, 1}, true},
		{ActionID{2, 1}, ActionID{1, 5}, false},
		{ActionID{1, 1}, ActionID{1, 2}, true},
		{ActionID{1, 2}, ActionID{1, 2}, false},
	}
	for _, tt := range tests {
		if got := tt.a.Less(tt.b); got != tt.want {
			t.Errorf("%v.Less(%v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
