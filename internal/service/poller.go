package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"cluster_fan/internal/logger"
	"cluster_fan/internal/metrics"
	"cluster_fan/internal/models"
	"cluster_fan/internal/repository"

	"github.com/google/uuid"
)

// Fetcher performs one bounded temperature request. client.NodeClient
// satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context, node models.Node) models.Reading
}

// PollerConfig wires a Poller.
type PollerConfig struct {
	Nodes    []models.Node
	Interval time.Duration
	Fetcher  Fetcher
	Fan      *FanController
	Store    *SnapshotStore
	Events   repository.EventRepo
	Metrics  *metrics.Metrics
	Log      *logger.Logger

	// InitialFan is the state returned by FanController.Init.
	InitialFan models.FanState
}

// Poller runs poll cycles on a fixed interval, at most one at a time.
type Poller struct {
	nodes    []models.Node
	interval time.Duration
	fetcher  Fetcher
	fan      *FanController
	store    *SnapshotStore
	events   repository.EventRepo
	metrics  *metrics.Metrics
	log      *logger.Logger
	now      func() time.Time

	busy atomic.Bool
	wg   sync.WaitGroup

	// owned by the running cycle; the busy flag serializes access
	fanState  models.FanState
	nodeUp    map[string]bool
	allFailed bool
}

// NewPoller keeps only enabled nodes and publishes an initial snapshot
// holding the Idle fan state.
func NewPoller(cfg PollerConfig) *Poller {
	p := &Poller{
		nodes:    models.EnabledNodes(cfg.Nodes),
		interval: cfg.Interval,
		fetcher:  cfg.Fetcher,
		fan:      cfg.Fan,
		store:    cfg.Store,
		events:   cfg.Events,
		metrics:  cfg.Metrics,
		log:      logger.Or(cfg.Log),
		now:      time.Now,
		fanState: cfg.InitialFan,
		nodeUp:   make(map[string]bool),
	}
	if p.store == nil {
		p.store = NewSnapshotStore()
	}

	at := p.now().UTC()
	p.store.Publish(models.Snapshot{
		StartedAt:   at,
		CompletedAt: at,
		Readings:    map[string]models.Reading{},
		Fan:         p.fanState,
	})
	return p
}

// Store is where cycle results are published.
func (p *Poller) Store() *SnapshotStore {
	return p.store
}

// Run polls immediately, then on every tick, until ctx is canceled. Ticks
// that fire while a cycle is still in flight are skipped. Run returns only
// after its last cycle has finished.
func (p *Poller) Run(ctx context.Context) {
	p.log.Infow("poller_started", "nodes", len(p.nodes), "interval", p.interval.String())
	defer p.wg.Wait()

	p.tick(ctx)

	t := time.NewTicker(p.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			p.log.Infow("poller_stopped")
			return
		case <-t.C:
			p.tick(ctx)
		}
	}
}

// Wait blocks until cycles started by Run have finished. Callers that own
// the goroutine running Run should wait for Run to return instead.
func (p *Poller) Wait() {
	p.wg.Wait()
}

// tick is called only from Run's goroutine, so Add never races the
// deferred Wait there.
func (p *Poller) tick(ctx context.Context) {
	// select picks randomly when both ctx.Done and the ticker are ready
	if ctx.Err() != nil {
		return
	}
	if !p.busy.CompareAndSwap(false, true) {
		p.skipped()
		return
	}
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer p.busy.Store(false)
		p.cycle(ctx)
	}()
}

// RunCycle runs one cycle synchronously. ok is false when another cycle is
// already running, in which case nothing happens.
func (p *Poller) RunCycle(ctx context.Context) (models.Snapshot, bool) {
	if !p.busy.CompareAndSwap(false, true) {
		p.skipped()
		return models.Snapshot{}, false
	}
	defer p.busy.Store(false)
	return p.cycle(ctx), true
}

func (p *Poller) skipped() {
	p.metrics.CycleSkipped()
	p.log.Warnw("cycle_skipped", "reason", "previous cycle still running")
}

func (p *Poller) cycle(ctx context.Context) models.Snapshot {
	started := p.now().UTC()
	cycleID := uuid.NewString()

	readings := p.fetchAll(ctx)
	if ctx.Err() != nil {
		// shutting down: results are cancellations, not node failures
		p.log.Debugw("cycle_aborted", "cycle_id", cycleID)
		last, _ := p.store.Load()
		return last
	}
	signal := Aggregate(readings)

	completed := p.now().UTC()
	p.trackNodes(ctx, readings, completed)
	p.trackAllFailed(ctx, signal, completed)

	p.fanState = p.fan.Apply(ctx, p.fanState, signal, completed)

	snap := models.Snapshot{
		CycleID:     cycleID,
		StartedAt:   started,
		CompletedAt: completed,
		Readings:    readings,
		Control:     signal,
		Fan:         p.fanState,
	}
	p.store.Publish(snap)
	p.metrics.ObserveCycle(snap)

	p.log.Debugw("cycle_completed",
		"cycle_id", cycleID,
		"duration", snap.Duration().String(),
		"succeeded", signal.Succeeded,
		"failed", signal.Failed,
		"valid", signal.Valid,
		"duty", p.fanState.DutyCycle,
	)
	return snap
}

// fetchAll polls every enabled node concurrently. Each fetch is bounded by
// the client's timeout, so the join is bounded too.
func (p *Poller) fetchAll(ctx context.Context) map[string]models.Reading {
	results := make([]models.Reading, len(p.nodes))

	var wg sync.WaitGroup
	for i, node := range p.nodes {
		wg.Add(1)
		go func(i int, node models.Node) {
			defer wg.Done()
			r := p.fetcher.Fetch(ctx, node)
			r.Node = node.Name
			r.Slot = node.Slot
			results[i] = r
		}(i, node)
	}
	wg.Wait()

	out := make(map[string]models.Reading, len(results))
	for _, r := range results {
		out[r.Node] = r
	}
	return out
}

func (p *Poller) trackNodes(ctx context.Context, readings map[string]models.Reading, at time.Time) {
	for _, node := range p.nodes {
		r, ok := readings[node.Name]
		if !ok {
			continue
		}
		up := r.OK()
		was, seen := p.nodeUp[node.Name]
		p.nodeUp[node.Name] = up

		switch {
		case !up && (!seen || was):
			recordEvent(ctx, p.events, p.log, at, models.EventNodeDown,
				fmt.Sprintf("%s: %s", node.Name, r.Failure),
				map[string]any{"node": node.Name, "failure": r.Failure, "detail": r.Detail})
		case up && seen && !was:
			recordEvent(ctx, p.events, p.log, at, models.EventNodeUp,
				fmt.Sprintf("%s recovered", node.Name),
				map[string]any{"node": node.Name})
		}
	}
}

func (p *Poller) trackAllFailed(ctx context.Context, signal models.ControlSignal, at time.Time) {
	failed := !signal.Valid && len(p.nodes) > 0
	if failed && !p.allFailed {
		p.log.Errorw("all_nodes_failed", "nodes", len(p.nodes), "retained_duty", p.fanState.DutyCycle)
		recordEvent(ctx, p.events, p.log, at, models.EventAllNodesFailed,
			fmt.Sprintf("no node produced a reading; duty held at %d%%", p.fanState.DutyCycle),
			map[string]any{"nodes": len(p.nodes), "duty": p.fanState.DutyCycle})
	}
	p.allFailed = failed
}
