package auction

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jplsports/player-auction-backend/internal/domain/auction"
)

// armTimerLocked starts the countdown goroutine for the cycle. Caller holds
// the mutex. A non-positive tick interval leaves the cycle untimed.
func (c *Coordinator) armTimerLocked(cyc *cycle) {
	if c.cfg.TickInterval <= 0 {
		return
	}
	go c.runCountdown(cyc.auction.CycleID, cyc.stop)
}

// stopTimerLocked tears the countdown down. Caller holds the mutex. Safe to
// call more than once per cycle.
func (c *Coordinator) stopTimerLocked(cyc *cycle) {
	if cyc.stopped {
		return
	}
	cyc.stopped = true
	close(cyc.stop)
}

// runCountdown drives periodic ticks until the cycle settles or is replaced
func (c *Coordinator) runCountdown(cycleID uuid.UUID, stop <-chan struct{}) {
	ticker := time.NewTicker(c.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if c.tick(cycleID) {
				return
			}
		}
	}
}

// tick handles one countdown step for the identified cycle. Returns true when
// the countdown should halt. Ticks addressed to a cycle that is no longer in
// the slot are discarded, so a stale goroutine can never touch a successor.
func (c *Coordinator) tick(cycleID uuid.UUID) bool {
	ctx := context.Background()

	c.mu.Lock()
	cyc := c.cur
	if cyc == nil || cyc.auction.CycleID != cycleID {
		c.mu.Unlock()
		return true
	}

	now := c.clock.Now()

	if cyc.auction.State == auction.StatePaused {
		remaining := cyc.auction.Remaining(now)
		c.mu.Unlock()
		c.setRemaining(remaining)
		c.broadcaster.Publish(Event{Type: EventTimerUpdate, At: now, Payload: TimerPayload{
			RemainingSeconds: int(remaining.Seconds()),
		}})
		return false
	}

	if cyc.auction.Expired(now) {
		snap, evts, err := c.settleLocked(ctx, nil)
		c.mu.Unlock()
		if err != nil {
			// Cycle stays live with an elapsed clock; the next tick retries.
			c.logger.Error("expiry settlement failed",
				"cycle_id", cycleID,
				"error", err)
			return false
		}
		c.setRemaining(0)
		c.emit(ctx, snap, evts...)
		return true
	}

	remaining := cyc.auction.Remaining(now)
	c.mu.Unlock()

	c.setRemaining(remaining)
	c.broadcaster.Publish(Event{Type: EventTimerUpdate, At: now, Payload: TimerPayload{
		RemainingSeconds: int(remaining.Seconds()),
	}})
	return false
}

func (c *Coordinator) setRemaining(remaining time.Duration) {
	if c.registry != nil {
		c.registry.RemainingSeconds.Set(remaining.Seconds())
	}
}
