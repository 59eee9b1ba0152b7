package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hjmartin/autobidder/internal/bid"
	"github.com/hjmartin/autobidder/internal/bus"
	"github.com/hjmartin/autobidder/internal/ladder"
	"github.com/hjmartin/autobidder/internal/market"
	"github.com/hjmartin/autobidder/internal/metrics"
	"github.com/hjmartin/autobidder/internal/model"
	"github.com/hjmartin/autobidder/internal/pricing"
	"github.com/hjmartin/autobidder/internal/refprice"
	"github.com/hjmartin/autobidder/internal/watch"
)

// retryDelay spaces out retries after a synchronous failure outside a
// worker.
const retryDelay = 2 * time.Second

// Sink receives every message the engine produces, both worker output
// and the scheduler's own log lines. Implementations must not block.
type Sink interface {
	Publish(model.Message)
}

type nopSink struct{}

func (nopSink) Publish(model.Message) {}

// Config holds scheduler pacing and policy settings.
type Config struct {
	Platform string // platform key for reference price lookups

	CycleInterval  time.Duration // bidder cadence (default: 5s)
	TickInterval   time.Duration // message poll interval (default: 100ms)
	AutoUpdate     bool          // enable periodic price updates
	UpdateInterval time.Duration // time between price updates (default: 1h)
	SessionMax     time.Duration // continuous session cap (default: 5h)
	PacingPause    time.Duration // pause after hitting the cap (default: 1h)
	BanStep        time.Duration // backoff unit per ban-wait level (default: 5m)
	ErrorLimit     int           // consecutive errors before pausing (default: 3)
	DecayInterval  time.Duration // healthy-operation decay period (default: 15m)
	DeviationPct   float64       // fast-path reference tolerance (default: 0.10)
	MinBidSamples  int           // bids required to trust a snapshot (default: 2)

	RepriceHorizonSec int // watcher horizon for slow-path repricing (default: 900)

	Bid   bid.Config
	Watch watch.Config
}

func (c *Config) applyDefaults() {
	if c.CycleInterval == 0 {
		c.CycleInterval = 5 * time.Second
	}
	if c.TickInterval == 0 {
		c.TickInterval = 100 * time.Millisecond
	}
	if c.UpdateInterval == 0 {
		c.UpdateInterval = time.Hour
	}
	if c.SessionMax == 0 {
		c.SessionMax = 5 * time.Hour
	}
	if c.PacingPause == 0 {
		c.PacingPause = time.Hour
	}
	if c.BanStep == 0 {
		c.BanStep = 5 * time.Minute
	}
	if c.ErrorLimit == 0 {
		c.ErrorLimit = 3
	}
	if c.DecayInterval == 0 {
		c.DecayInterval = 15 * time.Minute
	}
	if c.DeviationPct == 0 {
		c.DeviationPct = 0.10
	}
	if c.MinBidSamples == 0 {
		c.MinBidSamples = 2
	}
	if c.RepriceHorizonSec == 0 {
		c.RepriceHorizonSec = 900
	}
}

// Scheduler is the cooperative state machine owning the trading session.
type Scheduler struct {
	cfg    Config
	client market.Client
	lookup refprice.Lookup
	policy *pricing.Policy
	ladder *ladder.Ladder
	items  []*model.Item
	queue  *bus.Queue
	sink   Sink
	logger *slog.Logger

	mu           sync.Mutex
	state        State
	sess         SessionState
	nextCycleAt  time.Time
	lastDecay    time.Time
	lastProgress time.Time
	resumeAt     time.Time
	workerDone   chan struct{}
	credited     map[string]bool // trade ids already counted as wins

	now func() time.Time
}

// New creates a Scheduler in the Idle state. sink may be nil.
func New(cfg Config, client market.Client, lookup refprice.Lookup, policy *pricing.Policy, l *ladder.Ladder, items []*model.Item, queue *bus.Queue, sink Sink, logger *slog.Logger) *Scheduler {
	cfg.applyDefaults()
	if sink == nil {
		sink = nopSink{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		cfg:      cfg,
		client:   client,
		lookup:   lookup,
		policy:   policy,
		ladder:   l,
		items:    items,
		queue:    queue,
		sink:     sink,
		logger:   logger,
		credited: make(map[string]bool),
		now:      time.Now,
	}
}

// Run drives the tick loop until ctx is cancelled. Cancellation stops
// scheduling future work; a worker already running is left to finish.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("scheduler running", "tick", s.cfg.TickInterval)

	ticker := time.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.queue.Close()
			return ctx.Err()
		case <-ticker.C:
			s.step(ctx)
		}
	}
}

// Start begins a session. It authenticates and moves Idle to Bidding.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Idle {
		return fmt.Errorf("cannot start from state %s", s.state)
	}
	if err := s.client.ResetSession(ctx); err != nil {
		return fmt.Errorf("authenticate: %w", err)
	}
	s.beginSession(s.now())
	return nil
}

// Stop ends the session. It resets the cycle and error counters and
// cancels any pending resume; the ban-wait level is kept.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Idle {
		return
	}
	now := s.now()
	s.say(now, "stopped bidding")
	s.sess.Cycle = 0
	s.sess.Errors = 0
	s.resumeAt = time.Time{}
	s.transition(Idle)
}

// CurrentState returns the state at the time of the call.
func (s *Scheduler) CurrentState() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Session returns a copy of the session counters.
func (s *Scheduler) Session() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sess
}

// step drains the worker queue and advances the state machine once.
func (s *Scheduler) step(ctx context.Context) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.drain(ctx, now)

	switch s.state {
	case Bidding:
		s.tickBidding(ctx, now)
	case PriceUpdating:
		s.tickPriceUpdating(now)
	case Paused:
		s.tickPaused(ctx, now)
	case LoggedOut:
		s.tickLoggedOut(ctx, now)
	}
}

// drain consumes every pending worker message without blocking. Caller
// holds the lock.
func (s *Scheduler) drain(ctx context.Context, now time.Time) {
	for {
		msg, ok := s.queue.TryReceive()
		if !ok {
			return
		}
		s.sink.Publish(msg)

		switch m := msg.(type) {
		case model.ErrorReport:
			s.handleError(now, m)
		case model.CycleResult:
			s.handleCycleResult(now, m)
		case model.PriceSnapshot:
			s.handleSnapshot(ctx, now, m.Snapshot)
		case model.LogLine:
			s.logger.Info(m.Text)
		}
	}
}

// handleError processes a worker-reported failure. Reports draining
// after a Stop or a pause are stale; acting on them would restart or
// reschedule a session nobody asked for, so they are logged and ignored.
func (s *Scheduler) handleError(now time.Time, rep model.ErrorReport) {
	s.logger.Warn("worker error", "kind", rep.Kind, "detail", rep.Detail, "code", rep.Code)
	if s.state != Bidding && s.state != PriceUpdating {
		return
	}
	if rep.Kind == model.ErrSessionExpired {
		s.toLoggedOut(now)
		return
	}
	s.recordError(now, rep)
}

// recordError counts a strike and pauses with escalating backoff at the
// limit. Session-expired failures never route here.
func (s *Scheduler) recordError(now time.Time, rep model.ErrorReport) {
	if s.state != Bidding && s.state != PriceUpdating {
		return
	}
	metrics.ErrorObserved(string(rep.Kind))
	s.sess.Errors++
	if s.sess.Errors < s.cfg.ErrorLimit {
		return
	}

	s.sess.BanWait++
	delay := time.Duration(s.sess.BanWait) * s.cfg.BanStep
	s.say(now, "too many errors, will resume in %d minutes", int(delay.Minutes()))
	s.pause(now, delay, "errors")
}

func (s *Scheduler) handleCycleResult(now time.Time, res model.CycleResult) {
	s.sess.Won += res.Won
	s.sess.Sold += res.Sold
	s.sink.Publish(model.LogLine{Time: now, Text: fmt.Sprintf("bidding cycle %d", s.sess.Cycle)})
	if res.Won > 0 || res.Sold > 0 {
		s.say(now, "cycle %d: won %d, sold %d (session total %d/%d)",
			s.sess.Cycle, res.Won, res.Sold, s.sess.Won, s.sess.Sold)
	}
}

// handleSnapshot consumes watcher output during a slow-path repricing
// pass. An item is done once all of its tracked trades have ended; the
// pass finishes when every candidate is done.
func (s *Scheduler) handleSnapshot(ctx context.Context, now time.Time, snap model.Snapshot) {
	if s.state != PriceUpdating {
		return
	}
	if s.sess.Repriced[snap.ItemID] {
		return
	}
	item := s.itemByID(snap.ItemID)
	if item == nil {
		return
	}

	if snap.Active > 0 {
		// Snapshots arrive once per item per poll; keep the log readable.
		if now.Sub(s.lastProgress) >= time.Minute {
			s.say(now, "watching %d of %d trades for %s", snap.Active, snap.Total, item.Name)
			s.lastProgress = now
		}
		return
	}

	s.sess.Repriced[snap.ItemID] = true
	if snap.Median > 0 && snap.Bidding > s.cfg.MinBidSamples {
		if err := s.policy.SetPrice(ctx, s.items, item, snap.MinUnsoldList); err != nil {
			s.logger.Warn("reprice failed", "item", item.Name, "err", err)
		}
	} else {
		s.say(now, "not enough info to update %s", item.Name)
	}

	if len(s.sess.Repriced) == len(s.items) {
		s.say(now, "price update complete")
		s.nextCycleAt = now
		s.transition(Bidding)
	}
}

func (s *Scheduler) tickBidding(ctx context.Context, now time.Time) {
	if s.sess.Errors > 0 && now.Sub(s.lastDecay) >= s.cfg.DecayInterval {
		s.sess.Errors--
		s.lastDecay = now
	}

	if s.workerRunning() {
		return
	}

	if now.Sub(s.sess.StartedAt) >= s.cfg.SessionMax {
		s.say(now, "pausing to prevent ban, will resume in %d minutes", int(s.cfg.PacingPause.Minutes()))
		s.pause(now, s.cfg.PacingPause, "pacing")
		return
	}

	if s.cfg.AutoUpdate && now.Sub(s.sess.LastUpdate) > s.cfg.UpdateInterval {
		s.updatePrices(ctx, now)
		return
	}

	if now.Before(s.nextCycleAt) {
		return
	}
	s.spawnBidder(ctx, now)
}

// tickPriceUpdating returns to Bidding once the watcher has finished
// and its output is fully drained, even when some items never produced
// a conclusive snapshot.
func (s *Scheduler) tickPriceUpdating(now time.Time) {
	if s.workerRunning() || s.queue.Len() > 0 {
		return
	}
	s.say(now, "price update finished")
	s.nextCycleAt = now
	s.transition(Bidding)
}

func (s *Scheduler) tickPaused(ctx context.Context, now time.Time) {
	if s.resumeAt.IsZero() || now.Before(s.resumeAt) {
		return
	}
	s.say(now, "resuming")
	if err := s.client.ResetSession(ctx); err != nil {
		s.logger.Warn("resume authentication failed", "err", err)
		s.resumeAt = now.Add(retryDelay)
		return
	}
	s.beginSession(now)
}

func (s *Scheduler) tickLoggedOut(ctx context.Context, now time.Time) {
	if now.Before(s.resumeAt) {
		return
	}
	if err := s.client.ResetSession(ctx); err != nil {
		s.logger.Warn("re-authentication failed", "err", err)
		s.resumeAt = now.Add(retryDelay)
		return
	}
	s.beginSession(now)
}

// spawnBidder fetches the current watchlist synchronously (no worker is
// running, the session is free) and launches one bidding cycle.
func (s *Scheduler) spawnBidder(ctx context.Context, now time.Time) {
	entries, err := s.client.Watchlist(ctx)
	if err != nil {
		if market.IsSessionExpired(err) {
			s.toLoggedOut(now)
			return
		}
		s.say(now, "watchlist fetch failed: %v", err)
		s.recordError(now, market.Report(err))
		if s.state == Bidding {
			s.nextCycleAt = now.Add(retryDelay)
		}
		return
	}

	prior := make(map[string]string, len(entries))
	for _, e := range entries {
		prior[e.TradeID] = e.ItemID
	}

	s.sess.Cycle++
	metrics.CycleSpawned()
	s.logger.Debug("spawning bidder", "cycle", s.sess.Cycle, "watched", len(prior))

	b := bid.New(s.cfg.Bid, s.client, s.ladder, s.items, prior, s.credited, s.queue, s.logger)
	s.startWorker(ctx, b.Run)
	s.nextCycleAt = now.Add(s.cfg.CycleInterval)
}

// updatePrices runs the periodic price update. Fast path: when every
// item's sell price sits within the configured tolerance of its
// reference price, apply the reference directly. Slow path: spawn a
// watcher over the whole candidate list and reprice from its snapshots.
func (s *Scheduler) updatePrices(ctx context.Context, now time.Time) {
	s.say(now, "updating prices for candidate list")

	refs := make(map[string]int, len(s.items))
	fast := true
	for _, item := range s.items {
		prices, err := s.lookup.BuyNow(ctx, item.Name)
		if err != nil {
			s.logger.Warn("reference lookup failed", "item", item.Name, "err", err)
			fast = false
			break
		}
		ref := prices[s.cfg.Platform]
		if ref <= 0 {
			fast = false
			break
		}
		if item.Sell > 0 && math.Abs(float64(item.Sell-ref))/float64(item.Sell) > s.cfg.DeviationPct {
			fast = false
			break
		}
		refs[item.ID] = ref
	}

	if fast {
		for _, item := range s.items {
			if err := s.policy.SetPrice(ctx, s.items, item, refs[item.ID]); err != nil {
				s.logger.Warn("reprice failed", "item", item.Name, "err", err)
			}
		}
		s.sess.LastUpdate = now
		return
	}

	s.say(now, "this is going to take %d minutes", s.cfg.RepriceHorizonSec/60)

	ids := make([]string, len(s.items))
	for i, item := range s.items {
		ids[i] = item.ID
	}
	wcfg := s.cfg.Watch
	wcfg.HorizonSec = s.cfg.RepriceHorizonSec

	s.sess.Repriced = make(map[string]bool, len(s.items))
	s.sess.LastUpdate = now
	s.transition(PriceUpdating)

	w := watch.New(wcfg, s.client, ids, s.queue, s.logger)
	s.startWorker(ctx, w.Run)
}

// beginSession (re)initializes the session counters and enters Bidding.
// The ban-wait level survives across sessions.
func (s *Scheduler) beginSession(now time.Time) {
	s.sess.Cycle = 0
	s.sess.Errors = 0
	s.sess.StartedAt = now
	s.lastDecay = now
	s.nextCycleAt = now
	s.resumeAt = time.Time{}
	s.logger.Info("session started", "session_id", uuid.NewString(), "ban_wait", s.sess.BanWait)
	s.say(now, "started bidding")
	s.transition(Bidding)
}

// pause suspends the session and schedules an automatic resume.
func (s *Scheduler) pause(now time.Time, delay time.Duration, reason string) {
	s.sess.Cycle = 0
	s.sess.Errors = 0
	s.resumeAt = now.Add(delay)
	metrics.PauseTriggered(reason)
	s.transition(Paused)
}

// toLoggedOut routes an expired session straight to re-authentication,
// bypassing the strike counter.
func (s *Scheduler) toLoggedOut(now time.Time) {
	if s.state == LoggedOut {
		return
	}
	s.say(now, "session expired, re-authenticating")
	s.sess.Cycle = 0
	s.sess.Errors = 0
	s.resumeAt = now
	s.transition(LoggedOut)
}

func (s *Scheduler) transition(to State) {
	if s.state == to {
		return
	}
	s.logger.Info("state change", "from", s.state.String(), "to", to.String())
	metrics.StateTransition(s.state.String(), to.String())
	s.state = to
}

func (s *Scheduler) startWorker(ctx context.Context, run func(context.Context)) {
	done := make(chan struct{})
	s.workerDone = done
	go func() {
		defer close(done)
		run(ctx)
	}()
}

// workerRunning reports whether a spawned worker is still in flight.
func (s *Scheduler) workerRunning() bool {
	if s.workerDone == nil {
		return false
	}
	select {
	case <-s.workerDone:
		return false
	default:
		return true
	}
}

func (s *Scheduler) itemByID(id string) *model.Item {
	for _, item := range s.items {
		if item.ID == id {
			return item
		}
	}
	return nil
}

// say logs a line and publishes it to the presentation sink.
func (s *Scheduler) say(now time.Time, format string, args ...any) {
	text := fmt.Sprintf(format, args...)
	s.logger.Info(text)
	s.sink.Publish(model.LogLine{Time: now, Text: text})
}
