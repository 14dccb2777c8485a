package service

import (
	"context"
	"sync"
	"time"

	"cluster_fan/internal/models"
)

// fakeEventRepo satisfies repository.EventRepo, recording appends and the
// parameters of the last List call.
type fakeEventRepo struct {
	mu sync.Mutex

	gotCtx   context.Context
	gotFrom  time.Time
	gotTo    time.Time
	gotType  string
	gotLimit int

	events    []models.ControlEvent
	err       error
	appendErr error
	appended  []models.ControlEvent

	calls int
}

func (f *fakeEventRepo) List(ctx context.Context, from, to time.Time, typ string, limit int) ([]models.ControlEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.gotCtx = ctx
	f.gotFrom = from
	f.gotTo = to
	f.gotType = typ
	f.gotLimit = limit
	return f.events, f.err
}

func (f *fakeEventRepo) Append(ctx context.Context, e models.ControlEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.appended = append(f.appended, e)
	return f.appendErr
}

// types returns the appended event types, oldest first.
func (f *fakeEventRepo) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.appended))
	for _, e := range f.appended {
		out = append(out, e.Type)
	}
	return out
}

type fakeFanStateRepo struct {
	mu    sync.Mutex
	saved []models.FanState
	err   error
}

func (f *fakeFanStateRepo) Save(ctx context.Context, s models.FanState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, s)
	return f.err
}

func (f *fakeFanStateRepo) Load(ctx context.Context) (models.FanState, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.saved) == 0 {
		return models.FanState{}, false, f.err
	}
	return f.saved[len(f.saved)-1], true, f.err
}

// fetchFunc adapts a function to Fetcher.
type fetchFunc func(ctx context.Context, node models.Node) models.Reading

func (f fetchFunc) Fetch(ctx context.Context, node models.Node) models.Reading {
	return f(ctx, node)
}

func okReading(node string, c float64) models.Reading {
	return models.Reading{Node: node, TemperatureC: c, Timestamp: time.Now().UTC()}
}

func failedReading(node string, kind models.FailureKind) models.Reading {
	return models.Reading{Node: node, Failure: kind, Timestamp: time.Now().UTC()}
}

// scenarioFan is the fan mapping used across the control scenarios.
func scenarioFan() models.FanConfig {
	return models.FanConfig{
		GPIOPin:      13,
		MinTemp:      40,
		MaxTemp:      70,
		MinSpeed:     30,
		MaxSpeed:     100,
		PWMFrequency: 25000,
		StartupSpeed: 100,
	}
}
