package auction

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jplsports/player-auction-backend/internal/clock"
	"github.com/jplsports/player-auction-backend/internal/domain/auction"
	"github.com/jplsports/player-auction-backend/internal/domain/bid"
	"github.com/jplsports/player-auction-backend/internal/domain/errors"
	"github.com/jplsports/player-auction-backend/internal/domain/player"
	"github.com/jplsports/player-auction-backend/internal/domain/values"
	"github.com/jplsports/player-auction-backend/internal/metrics"
)

// Config tunes one coordinator instance
type Config struct {
	// Duration is the nominal countdown for a new cycle
	Duration time.Duration
	// TickInterval is the countdown resolution; <= 0 disables the
	// background ticker (tests drive ticks manually)
	TickInterval time.Duration
	// MinIncrement is the smallest step over the current highest bid
	MinIncrement values.Money
	// BidsWhilePaused keeps the bid window open during a pause
	BidsWhilePaused bool
	// StrictSettlement re-validates the winner's purse at sale time
	StrictSettlement bool
}

// DefaultConfig mirrors the league's standard auction rules
func DefaultConfig() Config {
	return Config{
		Duration:         600 * time.Second,
		TickInterval:     time.Second,
		MinIncrement:     values.MustNewMoneyFromInt(10, values.INR),
		BidsWhilePaused:  true,
		StrictSettlement: false,
	}
}

// Snapshot is the externally visible state of the active-auction slot
type Snapshot struct {
	State            string                `json:"state"`
	CycleID          uuid.UUID             `json:"cycle_id,omitempty"`
	Player           *player.Player        `json:"player,omitempty"`
	Mode             auction.SelectionMode `json:"mode,omitempty"`
	StartedAt        time.Time             `json:"started_at,omitempty"`
	Deadline         time.Time             `json:"deadline,omitempty"`
	RemainingSeconds int                   `json:"remaining_seconds"`
	HighestBid       *bid.Bid              `json:"highest_bid,omitempty"`
	BidCount         int                   `json:"bid_count"`
	MinRequired      *values.Money         `json:"min_required,omitempty"`
	NextSteps        []values.Money        `json:"next_steps,omitempty"`
}

// cycle bundles everything owned by one auction run. The stop channel is the
// single timer handle: arming a new cycle always tears the old one down
// first, so two countdowns can never race for the slot.
type cycle struct {
	auction *auction.ActiveAuction
	ledger  *bid.Ledger
	stop    chan struct{}
	stopped bool
}

// Coordinator owns the single active-auction slot. Every command and every
// timer tick is serialized through one mutex; callers always observe a fully
// applied transition or none.
type Coordinator struct {
	cfg         Config
	catalog     CatalogStore
	broadcaster Broadcaster
	logger      *slog.Logger
	clock       clock.Clock

	snapshots SnapshotSink
	registry  *metrics.Registry

	mu  sync.Mutex
	cur *cycle
}

// Option customizes a Coordinator
type Option func(*Coordinator)

// WithSnapshotSink wires a read-side snapshot cache
func WithSnapshotSink(sink SnapshotSink) Option {
	return func(c *Coordinator) { c.snapshots = sink }
}

// WithMetrics wires the metrics registry
func WithMetrics(reg *metrics.Registry) Option {
	return func(c *Coordinator) { c.registry = reg }
}

// WithClock overrides the wall clock (tests)
func WithClock(clk clock.Clock) Option {
	return func(c *Coordinator) { c.clock = clk }
}

// NewCoordinator creates the process-wide coordinator
func NewCoordinator(catalog CatalogStore, broadcaster Broadcaster, logger *slog.Logger, cfg Config, opts ...Option) *Coordinator {
	c := &Coordinator{
		cfg:         cfg,
		catalog:     catalog,
		broadcaster: broadcaster,
		logger:      logger,
		clock:       clock.NewSystem(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start arms a new cycle for the selected lot. Calling Start while a cycle is
// live force-replaces it: the old countdown is torn down and the old ledger
// purged without a settlement record ("next lot" flow).
func (c *Coordinator) Start(ctx context.Context, sel auction.Selection) (Snapshot, error) {
	if !sel.Mode.Valid() {
		return Snapshot{}, errors.NewValidationError("INVALID_MODE", "unknown selection mode")
	}

	c.mu.Lock()

	var (
		p   *player.Player
		err error
	)
	if sel.Mode == auction.ModeManual {
		if sel.PlayerID == uuid.Nil {
			c.mu.Unlock()
			return Snapshot{}, errors.NewValidationError("MISSING_PLAYER_ID", "player_id is required for manual mode")
		}
		p, err = c.catalog.GetPlayer(ctx, sel.PlayerID)
	} else {
		p, err = c.catalog.PickPlayer(ctx, sel)
	}
	if err != nil {
		c.mu.Unlock()
		return Snapshot{}, err
	}
	if p.Sold {
		c.mu.Unlock()
		return Snapshot{}, errors.ErrPlayerSold
	}

	if c.cur != nil {
		c.stopTimerLocked(c.cur)
		c.cur.ledger.Purge()
		c.cur = nil
	}

	now := c.clock.Now()
	cyc := &cycle{
		auction: auction.NewActiveAuction(p, sel.Mode, now, c.cfg.Duration),
		ledger:  bid.NewLedger(p.ID, p.BasePrice, c.cfg.MinIncrement),
		stop:    make(chan struct{}),
	}
	c.cur = cyc
	c.armTimerLocked(cyc)

	snap := c.snapshotLocked()
	c.mu.Unlock()

	if c.registry != nil {
		c.registry.AuctionsStarted.Inc()
	}
	c.logger.Info("auction started",
		"player_id", p.ID,
		"player_name", p.Name,
		"mode", sel.Mode,
		"duration", c.cfg.Duration)

	c.emit(ctx, snap,
		Event{Type: EventAuctionStarted, At: now, Payload: StartedPayload{
			PlayerID:   p.ID,
			PlayerName: p.Name,
			Mode:       sel.Mode,
			Duration:   int(c.cfg.Duration.Seconds()),
		}},
		Event{Type: EventAuctionUpdate, At: now, Payload: UpdatePayload{Player: p}},
	)
	return snap, nil
}

// PlaceBid validates and retains one team's bid for the live lot
func (c *Coordinator) PlaceBid(ctx context.Context, teamID uuid.UUID, amount values.Money) (Snapshot, error) {
	c.mu.Lock()

	cyc := c.cur
	if cyc == nil {
		c.mu.Unlock()
		c.countRejected("no_active_auction")
		return Snapshot{}, errors.NewNoActiveAuctionError()
	}

	switch cyc.auction.State {
	case auction.StateActive:
	case auction.StatePaused:
		if !c.cfg.BidsWhilePaused {
			c.mu.Unlock()
			c.countRejected("paused")
			return Snapshot{}, errors.NewInvalidStateError("place_bid", auction.StatePaused.String())
		}
	default:
		c.mu.Unlock()
		c.countRejected("no_active_auction")
		return Snapshot{}, errors.NewNoActiveAuctionError()
	}

	if cyc.auction.Player.Sold {
		c.mu.Unlock()
		c.countRejected("player_sold")
		return Snapshot{}, errors.ErrPlayerSold
	}

	tm, err := c.catalog.GetTeam(ctx, teamID)
	if err != nil {
		c.mu.Unlock()
		c.countRejected("team_not_found")
		return Snapshot{}, err
	}

	if !tm.CanAfford(amount) {
		c.mu.Unlock()
		c.countRejected("insufficient_budget")
		return Snapshot{}, errors.NewInsufficientBudgetError()
	}

	now := c.clock.Now()
	b := bid.NewBid(cyc.auction.Player.ID, teamID, tm.Name, amount, now)
	if err := cyc.ledger.Accept(b); err != nil {
		c.mu.Unlock()
		c.countRejected("bid_too_low")
		return Snapshot{}, err
	}

	snap := c.snapshotLocked()
	highest := cyc.ledger.Highest()
	p := cyc.auction.Player
	count := cyc.ledger.Len()
	c.mu.Unlock()

	if c.registry != nil {
		c.registry.BidsAccepted.Inc()
	}
	c.logger.Info("bid accepted",
		"team_id", teamID,
		"team_name", tm.Name,
		"amount", amount.String(),
		"player_id", p.ID)

	c.emit(ctx, snap,
		Event{Type: EventBidPlaced, At: now, Payload: BidPlacedPayload{
			TeamID:   teamID,
			TeamName: tm.Name,
			Amount:   amount,
		}},
		Event{Type: EventAuctionUpdate, At: now, Payload: UpdatePayload{
			Player:     p,
			HighestBid: highest,
			BidCount:   count,
		}},
	)
	return snap, nil
}

// Pause freezes the countdown. Valid only from Active.
func (c *Coordinator) Pause(ctx context.Context) (Snapshot, error) {
	c.mu.Lock()

	cyc := c.cur
	if cyc == nil {
		c.mu.Unlock()
		return Snapshot{}, errors.NewNoActiveAuctionError()
	}
	if cyc.auction.State != auction.StateActive {
		state := cyc.auction.State.String()
		c.mu.Unlock()
		return Snapshot{}, errors.NewInvalidStateError("pause", state)
	}

	now := c.clock.Now()
	cyc.auction.Pause(now)
	remaining := cyc.auction.Remaining(now)
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.logger.Info("auction paused", "remaining", remaining)
	c.emit(ctx, snap, Event{Type: EventAuctionPaused, At: now, Payload: TimerPayload{
		RemainingSeconds: int(remaining.Seconds()),
	}})
	return snap, nil
}

// Resume re-anchors the deadline from the frozen remainder. Valid only from Paused.
func (c *Coordinator) Resume(ctx context.Context) (Snapshot, error) {
	c.mu.Lock()

	cyc := c.cur
	if cyc == nil {
		c.mu.Unlock()
		return Snapshot{}, errors.NewNoActiveAuctionError()
	}
	if cyc.auction.State != auction.StatePaused {
		state := cyc.auction.State.String()
		c.mu.Unlock()
		return Snapshot{}, errors.NewInvalidStateError("resume", state)
	}

	now := c.clock.Now()
	cyc.auction.Resume(now)
	remaining := cyc.auction.Remaining(now)
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.logger.Info("auction resumed", "remaining", remaining)
	c.emit(ctx, snap, Event{Type: EventAuctionResumed, At: now, Payload: TimerPayload{
		RemainingSeconds: int(remaining.Seconds()),
	}})
	return snap, nil
}

// Cancel aborts the cycle without assigning a settlement value. The abort is
// still recorded: a force_cleared history row is written before the slot is
// cleared, so every cycle leaves exactly one record.
func (c *Coordinator) Cancel(ctx context.Context) (Snapshot, error) {
	c.mu.Lock()

	cyc := c.cur
	if cyc == nil {
		c.mu.Unlock()
		return Snapshot{}, errors.NewNoActiveAuctionError()
	}
	state := cyc.auction.State
	if state != auction.StateActive && state != auction.StatePaused {
		c.mu.Unlock()
		return Snapshot{}, errors.NewInvalidStateError("cancel", state.String())
	}

	now := c.clock.Now()
	p := cyc.auction.Player
	rec := auction.NewHistoryRecord(p.ID, auction.Result{Outcome: auction.OutcomeForceCleared}, now)
	if err := c.catalog.RecordSettlement(ctx, rec); err != nil {
		c.mu.Unlock()
		return Snapshot{}, errors.NewPersistenceError("cancel", err)
	}

	c.stopTimerLocked(cyc)
	cyc.ledger.Purge()
	c.cur = nil
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.countSettled(auction.OutcomeForceCleared)
	c.logger.Info("auction cancelled", "player_id", p.ID)
	c.emit(ctx, snap, Event{Type: EventAuctionCancelled, At: now, Payload: CancelledPayload{
		PlayerID: p.ID,
	}})
	return snap, nil
}

// End settles the cycle: the explicit override wins, otherwise the highest
// retained bid, otherwise the lot passes in unsold. Valid from Active or
// Paused; timer expiry funnels into the same path.
func (c *Coordinator) End(ctx context.Context, override *auction.DirectSale) (Snapshot, error) {
	c.mu.Lock()

	cyc := c.cur
	if cyc == nil {
		c.mu.Unlock()
		return Snapshot{}, errors.NewNoActiveAuctionError()
	}
	state := cyc.auction.State
	if state != auction.StateActive && state != auction.StatePaused {
		c.mu.Unlock()
		return Snapshot{}, errors.NewNoActiveAuctionError()
	}

	snap, evts, err := c.settleLocked(ctx, override)
	c.mu.Unlock()
	if err != nil {
		return Snapshot{}, err
	}

	c.emit(ctx, snap, evts...)
	return snap, nil
}

// QueryState returns the current snapshot without mutating anything
func (c *Coordinator) QueryState() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// settleLocked decides and applies one settlement. Caller holds the mutex
// and has verified the cycle is live. On any failure the auction reverts to
// its pre-settlement state so the caller (or the next tick) can retry.
func (c *Coordinator) settleLocked(ctx context.Context, override *auction.DirectSale) (Snapshot, []Event, error) {
	cyc := c.cur
	prior := cyc.auction.State
	cyc.auction.State = auction.StateSettling

	now := c.clock.Now()
	p := cyc.auction.Player
	result := auction.Decide(cyc.ledger.Highest(), override)

	if result.Outcome == auction.OutcomeSold {
		winner, err := c.catalog.GetTeam(ctx, result.WinnerID)
		if err != nil {
			cyc.auction.State = prior
			return Snapshot{}, nil, err
		}
		result.WinName = winner.Name

		if c.cfg.StrictSettlement && !winner.CanAfford(result.Price) {
			cyc.auction.State = prior
			return Snapshot{}, nil, errors.NewInsufficientBudgetError()
		}
	}

	rec := auction.NewHistoryRecord(p.ID, result, now)
	if err := c.catalog.RecordSettlement(ctx, rec); err != nil {
		cyc.auction.State = prior
		return Snapshot{}, nil, errors.NewPersistenceError("settlement", err)
	}

	c.stopTimerLocked(cyc)
	cyc.ledger.Purge()
	c.cur = nil
	snap := c.snapshotLocked()

	c.countSettled(result.Outcome)
	c.logger.Info("auction ended",
		"player_id", p.ID,
		"outcome", result.Outcome,
		"winner_id", result.WinnerID,
		"price", result.Price.String())

	payload := EndedPayload{PlayerID: p.ID, Outcome: result.Outcome}
	if result.Outcome == auction.OutcomeSold {
		winnerID := result.WinnerID
		price := result.Price
		payload.TeamID = &winnerID
		payload.TeamName = result.WinName
		payload.Price = &price
	}

	return snap, []Event{{Type: EventAuctionEnded, At: now, Payload: payload}}, nil
}

// snapshotLocked builds the read model. Caller holds the mutex.
func (c *Coordinator) snapshotLocked() Snapshot {
	if c.cur == nil {
		return Snapshot{State: auction.StateIdle.String()}
	}

	act := c.cur.auction
	now := c.clock.Now()
	snap := Snapshot{
		State:            act.State.String(),
		CycleID:          act.CycleID,
		Player:           act.Player,
		Mode:             act.Mode,
		StartedAt:        act.StartedAt,
		Deadline:         act.Deadline,
		RemainingSeconds: int(act.Remaining(now).Seconds()),
		HighestBid:       c.cur.ledger.Highest(),
		BidCount:         c.cur.ledger.Len(),
	}

	min := c.cur.ledger.MinRequired()
	snap.MinRequired = &min
	snap.NextSteps = nextSteps(current(snap.HighestBid, act.Player.BasePrice))

	return snap
}

// current picks the price bidders are stepping from
func current(highest *bid.Bid, base values.Money) values.Money {
	if highest != nil {
		return highest.Amount
	}
	return base
}

// nextSteps suggests the quick-bid buttons shown to teams
func nextSteps(from values.Money) []values.Money {
	steps := make([]values.Money, 0, 3)
	for _, inc := range []int64{500, 1000, 1500} {
		next, err := from.Add(values.MustNewMoneyFromInt(inc, from.Currency()))
		if err != nil {
			continue
		}
		steps = append(steps, next)
	}
	return steps
}

// emit publishes events and refreshes the snapshot cache. Runs outside the
// critical section; delivery failures never roll back the transition.
func (c *Coordinator) emit(ctx context.Context, snap Snapshot, events ...Event) {
	for _, e := range events {
		c.broadcaster.Publish(e)
	}
	if c.snapshots != nil {
		c.snapshots.Store(context.WithoutCancel(ctx), snap)
	}
}

func (c *Coordinator) countRejected(reason string) {
	if c.registry != nil {
		c.registry.BidsRejected.WithLabelValues(reason).Inc()
	}
}

func (c *Coordinator) countSettled(outcome auction.Outcome) {
	if c.registry != nil {
		c.registry.AuctionsSettled.WithLabelValues(string(outcome)).Inc()
	}
}
