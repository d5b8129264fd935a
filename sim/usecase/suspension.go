package usecase

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/inference-sim/hazard-sim/sim"
)

// SuspensionState is the state of the cooldown machine.
type SuspensionState int

const (
	// Idle allows the next condition check to send.
	Idle SuspensionState = iota
	// Blocked suppresses sending until the unblock time passes.
	Blocked
)

// Suspension is the cooldown state machine of self-triggering use cases:
// Idle --send--> Blocked, Blocked --now >= unblockAt--> Idle.
type Suspension struct {
	blocked   bool
	unblockAt int64
}

// State advances the machine to now and returns the resulting state.
func (s *Suspension) State(now int64) SuspensionState {
	if s.blocked && now >= s.unblockAt {
		s.blocked = false
	}
	if s.blocked {
		return Blocked
	}
	return Idle
}

// IsBlocked is shorthand for State(now) == Blocked.
func (s *Suspension) IsBlocked(now int64) bool {
	return s.State(now) == Blocked
}

// Block enters Blocked until now+delay.
func (s *Suspension) Block(now, delay int64) {
	s.blocked = true
	s.unblockAt = now + delay
}

// UnblockAt returns the tick at which a Blocked machine returns to Idle.
func (s *Suspension) UnblockAt() int64 {
	return s.unblockAt
}

// CooldownRange bounds the uniformly drawn cooldown after each send.
// The spread desynchronizes stations observing the same condition.
type CooldownRange struct {
	Min time.Duration `yaml:"min"`
	Max time.Duration `yaml:"max"`
}

// Validate checks 0 <= Min <= Max.
func (r CooldownRange) Validate() error {
	if r.Min < 0 || r.Max < r.Min {
		return fmt.Errorf("cooldown range [%s,%s] is invalid", r.Min, r.Max)
	}
	return nil
}

// Draw returns a cooldown in ticks, uniform over [Min, Max] with millisecond granularity.
func (r CooldownRange) Draw(rng *rand.Rand) int64 {
	ms := sim.UniformTicks(rng, r.Min.Milliseconds(), r.Max.Milliseconds())
	return sim.Ticks(time.Duration(ms) * time.Millisecond)
}

// cooldown couples a Suspension with its delay range and random stream.
type cooldown struct {
	Suspension
	span CooldownRange
	rng  *rand.Rand
}

func newCooldown(span CooldownRange, rng *rand.Rand) cooldown {
	return cooldown{span: span, rng: rng}
}

// trip blocks the machine for a freshly drawn delay.
func (c *cooldown) trip(now int64) {
	c.Block(now, c.span.Draw(c.rng))
}

// periodic is the rate limiter of stationary emitters: a bucket of size one
// refilled every interval.
type periodic struct {
	interval         int64
	lastTransmission int64
}

// newPeriodic places the first transmission slot a random startup delay in the
// future so multiple road side units do not transmit in lockstep.
func newPeriodic(now int64, interval time.Duration, jitter CooldownRange, rng *rand.Rand) periodic {
	return periodic{
		interval:         sim.Ticks(interval),
		lastTransmission: now + jitter.Draw(rng),
	}
}

func (p *periodic) due(now int64) bool {
	return now-p.lastTransmission >= p.interval
}

func (p *periodic) sent(now int64) {
	p.lastTransmission = now
}
