package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/raphaelgruber/commnet/internal/analysis"
	"github.com/raphaelgruber/commnet/internal/metrics"
	"github.com/raphaelgruber/commnet/internal/models"
)

// DefaultDebounce is the quiet period before a precise-density request fires.
const DefaultDebounce = 300 * time.Millisecond

// ErrClosed is returned by intents sent to a closed controller.
var ErrClosed = errors.New("session closed")

// Source is the upstream analysis API.
type Source interface {
	GetMatch(ctx context.Context, matchID int64) (*models.Match, error)
	GetPatternSummary(ctx context.Context, matchID int64, source, target models.Act) ([]models.SummaryBucket, error)
	GetPreciseDensity(ctx context.Context, matchID, startSec, endSec int64, source, target models.Act) (float64, error)
}

// Options configures a Controller.
type Options struct {
	Debounce time.Duration
	Pattern  analysis.Pattern
	Logger   *slog.Logger
	Metrics  *metrics.Collector
}

type cycle int

const (
	cycleMatch cycle = iota
	cycleSummary
	cycleDensity
	numCycles
)

func (c cycle) String() string {
	switch c {
	case cycleMatch:
		return "match"
	case cycleSummary:
		return "summary"
	case cycleDensity:
		return "density"
	}
	return "unknown"
}

func (c cycle) op() string {
	switch c {
	case cycleMatch:
		return metrics.OpMatchLoad
	case cycleSummary:
		return metrics.OpPatternSummary
	}
	return metrics.OpPreciseDensity
}

// event is anything the loop goroutine reacts to.
type event any

type intent struct {
	apply func(State) State
	done  chan struct{}
}

type reloadIntent struct {
	done chan struct{}
}

type fetchResult struct {
	cycle   cycle
	token   uint64
	match   *models.Match
	buckets []models.SummaryBucket
	density float64
	err     error
}

type densityFire struct {
	token uint64
}

// Controller owns one analysis session. All state lives on a single loop
// goroutine; fetches run on their own goroutines and report back through the
// loop, tagged with a per-cycle token so superseded responses are dropped.
type Controller struct {
	src      Source
	debounce time.Duration
	logger   *slog.Logger
	metrics  *metrics.Collector

	ctx    context.Context
	cancel context.CancelFunc
	events chan event
	done   chan struct{}

	mu      sync.RWMutex
	snap    Snapshot
	changed chan struct{}
	updates chan Snapshot

	// loop-owned
	state    State
	match    *models.Match
	buckets  []models.SummaryBucket
	density  float64
	tokens   [numCycles]uint64
	inflight [numCycles]context.CancelFunc
	errs     [numCycles]error
	timer    *time.Timer
	timerTok uint64
	pending  bool
	version  uint64
}

// New starts a controller with no match selected.
func New(src Source, opts Options) *Controller {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Pattern.Key == "" {
		opts.Pattern = analysis.Default()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		src:      src,
		debounce: opts.Debounce,
		logger:   opts.Logger,
		metrics:  opts.Metrics,
		ctx:      ctx,
		cancel:   cancel,
		events:   make(chan event),
		done:     make(chan struct{}),
		changed:  make(chan struct{}),
		updates:  make(chan Snapshot, 1),
		state: State{
			MatchID: Unselected,
			Pattern: opts.Pattern,
			Window:  models.FullMatch(),
		},
	}
	c.publish()
	go c.loop()
	return c
}

// SelectMatch switches the session to another match. Unselected clears it.
func (c *Controller) SelectMatch(id int64) error {
	return c.send(func(s State) State {
		s.MatchID = id
		return s
	})
}

// SelectPattern switches the adjacency pattern.
func (c *Controller) SelectPattern(p analysis.Pattern) error {
	return c.send(func(s State) State {
		s.Pattern = p
		return s
	})
}

// SetWindow moves the analysis window. An empty, inverted or negative
// window is still applied; the precise density fetch is skipped for it and
// the previous density is kept.
func (c *Controller) SetWindow(w models.TimeWindow) error {
	return c.send(func(s State) State {
		s.Window = w
		return s
	})
}

// Reload re-fetches the match and summary for the current state.
func (c *Controller) Reload() error {
	done := make(chan struct{})
	if err := c.post(reloadIntent{done: done}); err != nil {
		return err
	}
	return c.wait(done)
}

// Snapshot returns the latest published snapshot.
func (c *Controller) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap
}

// Updates delivers published snapshots. Slow readers only see the latest one.
// The channel is closed when the controller shuts down.
func (c *Controller) Updates() <-chan Snapshot {
	return c.updates
}

// WaitSettled blocks until no fetch is in flight or scheduled.
func (c *Controller) WaitSettled(ctx context.Context) (Snapshot, error) {
	for {
		c.mu.RLock()
		snap, changed := c.snap, c.changed
		c.mu.RUnlock()

		if snap.Settled() {
			return snap, nil
		}
		select {
		case <-changed:
		case <-c.done:
			return snap, ErrClosed
		case <-ctx.Done():
			return snap, ctx.Err()
		}
	}
}

// Close stops the loop, cancels in-flight fetches and the pending debounce.
func (c *Controller) Close() {
	c.cancel()
	<-c.done
}

func (c *Controller) send(apply func(State) State) error {
	done := make(chan struct{})
	if err := c.post(intent{apply: apply, done: done}); err != nil {
		return err
	}
	return c.wait(done)
}

func (c *Controller) post(ev event) error {
	select {
	case c.events <- ev:
		return nil
	case <-c.ctx.Done():
		return ErrClosed
	}
}

func (c *Controller) wait(done chan struct{}) error {
	select {
	case <-done:
		return nil
	case <-c.done:
		return ErrClosed
	}
}

func (c *Controller) loop() {
	defer close(c.done)
	defer c.teardown()

	for {
		select {
		case <-c.ctx.Done():
			return
		case ev := <-c.events:
			c.handle(ev)
		}
	}
}

func (c *Controller) teardown() {
	if c.timer != nil {
		c.timer.Stop()
	}
	for i := range c.inflight {
		c.cancelCycle(cycle(i))
	}
	c.mu.Lock()
	close(c.changed)
	c.changed = make(chan struct{})
	c.mu.Unlock()
	close(c.updates)
}

func (c *Controller) handle(ev event) {
	switch e := ev.(type) {
	case intent:
		c.transition(e.apply(c.state))
		c.publish()
		close(e.done)
	case reloadIntent:
		if c.state.MatchID != Unselected {
			c.startFetch(cycleMatch)
			c.startFetch(cycleSummary)
		}
		c.publish()
		close(e.done)
	case densityFire:
		c.fireDensity(e.token)
		c.publish()
	case fetchResult:
		if c.accept(e) {
			c.publish()
		}
	}
}

// transition applies a new state and fires the cycles Plan asks for.
func (c *Controller) transition(next State) {
	prev := c.state
	if next.MatchID != prev.MatchID {
		c.clearMatch()
		next.Window = models.FullMatch()
	}
	c.state = next

	t := Plan(prev, next, c.durationKnown())
	if t.Any() {
		c.logger.Debug("session transition",
			"match_id", next.MatchID,
			"pattern", next.Pattern.Key,
			"window", next.Window.String(),
			"load_match", t.LoadMatch,
			"load_summary", t.LoadSummary,
			"density", t.ScheduleDensity)
	}
	if t.LoadMatch && next.MatchID != Unselected {
		c.startFetch(cycleMatch)
	}
	if t.LoadSummary {
		c.startFetch(cycleSummary)
	}
	if t.ScheduleDensity {
		c.scheduleDensity()
	}
}

// clearMatch drops everything that belongs to the previous match.
func (c *Controller) clearMatch() {
	for i := range c.inflight {
		c.cancelCycle(cycle(i))
		c.tokens[i]++
	}
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timerTok++
	c.pending = false
	c.errs = [numCycles]error{}
	c.match = nil
	c.buckets = nil
	c.density = 0
}

func (c *Controller) durationKnown() bool {
	return c.match != nil && c.match.Duration > 0
}

func (c *Controller) cancelCycle(cy cycle) {
	if cancel := c.inflight[cy]; cancel != nil {
		cancel()
		c.inflight[cy] = nil
		c.metrics.Inc(metrics.CounterCancelled)
	}
}

// startFetch issues a request for cy, superseding any request in flight.
func (c *Controller) startFetch(cy cycle) {
	c.cancelCycle(cy)
	c.tokens[cy]++
	token := c.tokens[cy]

	ctx, cancel := context.WithCancel(c.ctx)
	c.inflight[cy] = cancel

	st := c.state
	var startSec, endSec int64
	if cy == cycleDensity {
		startSec, endSec, _ = st.Window.Seconds(c.match.Duration)
	}

	go func() {
		defer cancel()
		res := fetchResult{cycle: cy, token: token}
		start := time.Now()
		switch cy {
		case cycleMatch:
			res.match, res.err = c.src.GetMatch(ctx, st.MatchID)
		case cycleSummary:
			res.buckets, res.err = c.src.GetPatternSummary(ctx, st.MatchID, st.Pattern.Source, st.Pattern.Target)
		case cycleDensity:
			res.density, res.err = c.src.GetPreciseDensity(ctx, st.MatchID, startSec, endSec, st.Pattern.Source, st.Pattern.Target)
		}
		c.metrics.Record(cy.op(), time.Since(start), res.err)
		_ = c.post(res)
	}()
}

// scheduleDensity (re)starts the debounce timer.
func (c *Controller) scheduleDensity() {
	if c.timer != nil && c.timer.Stop() {
		c.metrics.Inc(metrics.CounterDebounced)
	}
	c.timerTok++
	token := c.timerTok
	c.pending = true
	c.timer = time.AfterFunc(c.debounce, func() {
		if c.ctx.Err() != nil {
			return
		}
		_ = c.post(densityFire{token: token})
	})
}

func (c *Controller) fireDensity(token uint64) {
	if token != c.timerTok || c.ctx.Err() != nil {
		return
	}
	c.pending = false
	if !c.durationKnown() || c.state.MatchID == Unselected {
		return
	}
	if _, _, ok := c.state.Window.Seconds(c.match.Duration); !ok {
		c.metrics.Inc(metrics.CounterSkipped)
		c.logger.Debug("density window skipped",
			"match_id", c.state.MatchID,
			"window", c.state.Window.String(),
			"duration", c.match.Duration)
		return
	}
	c.startFetch(cycleDensity)
}

// accept folds a fetch result into the session. It reports false for
// responses from superseded requests.
func (c *Controller) accept(r fetchResult) bool {
	if r.token != c.tokens[r.cycle] {
		c.metrics.Inc(metrics.CounterStale)
		c.logger.Debug("stale response dropped",
			"cycle", r.cycle.String(),
			"token", r.token,
			"current", c.tokens[r.cycle])
		return false
	}
	c.inflight[r.cycle] = nil

	if r.err == nil && r.cycle == cycleMatch && r.match == nil {
		r.err = errors.New("empty match response")
	}
	c.errs[r.cycle] = r.err
	if r.err != nil {
		c.logger.Error("fetch failed",
			"cycle", r.cycle.String(),
			"match_id", c.state.MatchID,
			"error", r.err)
		return true
	}

	switch r.cycle {
	case cycleMatch:
		c.match = r.match
		if r.match.Duration > 0 {
			c.state.Window = models.Window(0, r.match.Duration)
			c.scheduleDensity()
		}
		c.logger.Info("match loaded",
			"match_id", c.state.MatchID,
			"code", r.match.Code,
			"utterances", len(r.match.VoiceLogs),
			"duration", r.match.Duration)
	case cycleSummary:
		c.buckets = r.buckets
	case cycleDensity:
		c.density = r.density
	}
	return true
}

// publish rebuilds the snapshot and wakes waiters.
func (c *Controller) publish() {
	c.version++
	snap := Snapshot{
		Version:        c.version,
		State:          c.state,
		Match:          c.match,
		Buckets:        c.buckets,
		MatchLoading:   c.inflight[cycleMatch] != nil,
		SummaryLoading: c.inflight[cycleSummary] != nil,
		DensityLoading: c.inflight[cycleDensity] != nil,
		DensityPending: c.pending,
		MatchErr:       c.errs[cycleMatch],
		SummaryErr:     c.errs[cycleSummary],
		DensityErr:     c.errs[cycleDensity],
	}
	var logs []models.Utterance
	if c.match != nil {
		snap.MatchCode = c.match.Code
		snap.Duration = c.match.Duration
		logs = c.match.VoiceLogs
	}
	snap.Result = analysis.Analyze(analysis.Input{
		Logs:    logs,
		Buckets: c.buckets,
		Pattern: c.state.Pattern,
		Window:  c.state.Window,
		Density: c.density,
	})

	c.mu.Lock()
	c.snap = snap
	close(c.changed)
	c.changed = make(chan struct{})
	c.mu.Unlock()

	select {
	case <-c.updates:
	default:
	}
	c.updates <- snap
}
