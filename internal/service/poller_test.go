package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"cluster_fan/internal/client"
	"cluster_fan/internal/gpio"
	"cluster_fan/internal/metrics"
	"cluster_fan/internal/models"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pollerFixture struct {
	poller *Poller
	pwm    *gpio.Mock
	events *fakeEventRepo
	m      *metrics.Metrics
}

func newPollerFixture(t *testing.T, nodes []models.Node, f Fetcher) pollerFixture {
	t.Helper()
	pwm := gpio.NewMock()
	events := &fakeEventRepo{}
	m := metrics.New()
	fan := NewFanController(scenarioFan(), pwm, &fakeFanStateRepo{}, events, m, nil)
	p := NewPoller(PollerConfig{
		Nodes:      nodes,
		Interval:   time.Hour,
		Fetcher:    f,
		Fan:        fan,
		Events:     events,
		Metrics:    m,
		InitialFan: fan.Init(context.Background(), nil),
	})
	return pollerFixture{poller: p, pwm: pwm, events: events, m: m}
}

func nodes(names ...string) []models.Node {
	out := make([]models.Node, 0, len(names))
	for i, n := range names {
		out = append(out, models.Node{Name: n, Slot: i + 1, Address: "127.0.0.1", Port: 5001, Enabled: true})
	}
	return out
}

// tempsFetcher serves fixed temperatures; a missing node fails as unreachable.
func tempsFetcher(temps map[string]float64) Fetcher {
	return fetchFunc(func(ctx context.Context, node models.Node) models.Reading {
		if c, ok := temps[node.Name]; ok {
			return okReading(node.Name, c)
		}
		return failedReading(node.Name, models.FailureUnreachable)
	})
}

func TestNewPoller_PublishesIdleSnapshot(t *testing.T) {
	t.Parallel()

	fx := newPollerFixture(t, nodes("n1"), tempsFetcher(nil))
	snap, ok := fx.poller.Store().Load()
	require.True(t, ok)
	assert.Empty(t, snap.CycleID)
	assert.Empty(t, snap.Readings)
	assert.Equal(t, models.FanIdle, snap.Fan.Mode)
	assert.Equal(t, 100, snap.Fan.DutyCycle)
}

func TestPoller_RunCycle_ScenarioA(t *testing.T) {
	t.Parallel()

	ns := nodes("n1", "n2")
	ns = append(ns, models.Node{Name: "off", Address: "127.0.0.1", Port: 5001, Enabled: false})

	var offPolled atomic.Bool
	f := fetchFunc(func(ctx context.Context, node models.Node) models.Reading {
		if node.Name == "off" {
			offPolled.Store(true)
		}
		return tempsFetcher(map[string]float64{"n1": 50, "n2": 65}).Fetch(ctx, node)
	})
	fx := newPollerFixture(t, ns, f)

	snap, ok := fx.poller.RunCycle(context.Background())
	require.True(t, ok)

	assert.NotEmpty(t, snap.CycleID)
	assert.Len(t, snap.Readings, 2, "disabled node produces no reading")
	assert.False(t, offPolled.Load())
	assert.Equal(t, 2, snap.Readings["n2"].Slot)
	assert.True(t, snap.Control.Valid)
	assert.Equal(t, 65.0, snap.Control.TemperatureC)
	assert.Equal(t, "n2", snap.Control.Source)
	assert.Equal(t, 88, snap.Fan.DutyCycle)
	assert.Equal(t, models.FanRegulating, snap.Fan.Mode)

	published, _ := fx.poller.Store().Load()
	assert.Equal(t, snap.CycleID, published.CycleID)
	assertCounter(t, fx.m, "fanctl_poll_cycles_total", "Completed poll cycles.", 1)
}

func assertCounter(t *testing.T, m *metrics.Metrics, name, help string, v int) {
	t.Helper()
	expected := fmt.Sprintf("# HELP %s %s\n# TYPE %s counter\n%s %d\n", name, help, name, name, v)
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), name))
}

func TestPoller_AllFailedRetainsDuty_ScenarioB(t *testing.T) {
	t.Parallel()

	temps := map[string]float64{"n1": 50, "n2": 65}
	var down atomic.Bool
	f := fetchFunc(func(ctx context.Context, node models.Node) models.Reading {
		if down.Load() {
			return failedReading(node.Name, models.FailureTimeout)
		}
		return okReading(node.Name, temps[node.Name])
	})
	fx := newPollerFixture(t, nodes("n1", "n2"), f)
	ctx := context.Background()

	a, _ := fx.poller.RunCycle(ctx)
	require.Equal(t, 88, a.Fan.DutyCycle)

	down.Store(true)
	b1, _ := fx.poller.RunCycle(ctx)
	b2, _ := fx.poller.RunCycle(ctx)

	for _, b := range []models.Snapshot{b1, b2} {
		assert.False(t, b.Control.Valid)
		assert.Equal(t, 2, b.Control.Failed)
		assert.Equal(t, a.Fan, b.Fan, "fan state held on total failure")
		assert.Equal(t, models.FailureTimeout, b.Readings["n1"].Failure)
	}
	assert.Equal(t, []int{100, 88}, fx.pwm.Writes())

	// one ALL_NODES_FAILED per outage, one NODE_DOWN per node
	assert.Equal(t, []string{
		models.EventRegulatingStarted,
		models.EventNodeDown,
		models.EventNodeDown,
		models.EventAllNodesFailed,
	}, fx.events.types())

	down.Store(false)
	temps["n2"] = 75
	c, _ := fx.poller.RunCycle(ctx)
	assert.Equal(t, 100, c.Fan.DutyCycle)

	got := fx.events.types()
	assert.Equal(t, []string{models.EventNodeUp, models.EventNodeUp, models.EventFanChange}, got[len(got)-3:])
	assertNoTemperatureStored(t, fx.events)
}

// assertNoTemperatureStored guards against the event log turning into a
// temperature history.
func assertNoTemperatureStored(t *testing.T, events *fakeEventRepo) {
	t.Helper()
	events.mu.Lock()
	defer events.mu.Unlock()
	for _, e := range events.appended {
		b, err := json.Marshal(e)
		require.NoError(t, err)
		assert.NotContains(t, string(b), "temperature", e.Type)
		assert.NotContains(t, string(b), "°C", e.Type)
	}
}

func TestPoller_CycleDurationBoundedByTimeout(t *testing.T) {
	t.Parallel()

	const delay = 150 * time.Millisecond
	f := fetchFunc(func(ctx context.Context, node models.Node) models.Reading {
		select {
		case <-time.After(delay):
			return okReading(node.Name, 45)
		case <-ctx.Done():
			return failedReading(node.Name, models.FailureTimeout)
		}
	})

	names := make([]string, 20)
	for i := range names {
		names[i] = "n" + strconv.Itoa(i)
	}
	fx := newPollerFixture(t, nodes(names...), f)

	start := time.Now()
	snap, ok := fx.poller.RunCycle(context.Background())
	elapsed := time.Since(start)

	require.True(t, ok)
	assert.Equal(t, 20, snap.Control.Succeeded)
	assert.Less(t, elapsed, 5*delay, "fan-out must be concurrent")
}

func TestPoller_AtMostOneCycle(t *testing.T) {
	t.Parallel()

	entered := make(chan struct{}, 1)
	release := make(chan struct{})
	f := fetchFunc(func(ctx context.Context, node models.Node) models.Reading {
		entered <- struct{}{}
		<-release
		return okReading(node.Name, 50)
	})
	fx := newPollerFixture(t, nodes("n1"), f)

	done := make(chan bool)
	go func() {
		_, ok := fx.poller.RunCycle(context.Background())
		done <- ok
	}()
	<-entered

	_, ok := fx.poller.RunCycle(context.Background())
	assert.False(t, ok, "second cycle must be skipped while the first runs")
	fx.poller.tick(context.Background())

	close(release)
	assert.True(t, <-done)
	fx.poller.Wait()

	assertCounter(t, fx.m, "fanctl_poll_cycles_skipped_total", "Ticks skipped because a cycle was still running.", 2)
	assertCounter(t, fx.m, "fanctl_poll_cycles_total", "Completed poll cycles.", 1)
}

func TestPoller_CanceledCycleIsNotAFailure(t *testing.T) {
	t.Parallel()

	f := fetchFunc(func(ctx context.Context, node models.Node) models.Reading {
		return failedReading(node.Name, models.FailureTimeout)
	})
	fx := newPollerFixture(t, nodes("n1"), f)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	snap, ok := fx.poller.RunCycle(ctx)

	require.True(t, ok)
	assert.Empty(t, snap.CycleID, "previous snapshot returned")
	assert.Empty(t, fx.events.types())
}

func TestPoller_Run_PollsImmediatelyAndStops(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	f := fetchFunc(func(ctx context.Context, node models.Node) models.Reading {
		calls.Add(1)
		return okReading(node.Name, 55)
	})
	fx := newPollerFixture(t, nodes("n1"), f)
	fx.poller.interval = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		fx.poller.Run(ctx)
		close(stopped)
	}()

	require.Eventually(t, func() bool { return calls.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	<-stopped

	snap, _ := fx.poller.Store().Load()
	assert.NotEmpty(t, snap.CycleID)
	assert.Equal(t, 65, snap.Fan.DutyCycle)
}

func TestPoller_Run_NoFetchAfterReturn(t *testing.T) {
	t.Parallel()

	var returned atomic.Bool
	var fetches, late atomic.Int32
	f := fetchFunc(func(ctx context.Context, node models.Node) models.Reading {
		if returned.Load() {
			late.Add(1)
		}
		fetches.Add(1)
		time.Sleep(2 * time.Millisecond)
		return okReading(node.Name, 55)
	})
	fx := newPollerFixture(t, nodes("n1", "n2"), f)
	fx.poller.interval = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		fx.poller.Run(ctx)
		close(stopped)
	}()

	require.Eventually(t, func() bool { return fetches.Load() >= 4 }, 2*time.Second, time.Millisecond)
	cancel()
	<-stopped
	returned.Store(true)

	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, late.Load(), "no cycle may start or run after Run returns")
	assert.False(t, fx.poller.busy.Load())
}

func TestPoller_TickAfterCancelIsNoop(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	f := fetchFunc(func(ctx context.Context, node models.Node) models.Reading {
		calls.Add(1)
		return okReading(node.Name, 55)
	})
	fx := newPollerFixture(t, nodes("n1"), f)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fx.poller.tick(ctx)
	fx.poller.Wait()

	assert.Zero(t, calls.Load())
	assertCounter(t, fx.m, "fanctl_poll_cycles_skipped_total", "Ticks skipped because a cycle was still running.", 0)
}

// agentServer mimics the agent's temperature endpoint.
func agentServer(t *testing.T, h http.HandlerFunc) models.Node {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	port, err := strconv.Atoi(u.Port())
	require.NoError(t, err)
	return models.Node{Address: u.Hostname(), Port: port, Enabled: true}
}

func TestPoller_WithNodeClient(t *testing.T) {
	t.Parallel()

	n1 := agentServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"temperature":50,"unit":"celsius"}`))
	})
	n1.Name = "n1"
	n2 := agentServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"temperature":65.0}`))
	})
	n2.Name = "n2"
	slow := agentServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	slow.Name = "slow"
	broken := agentServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"temperature":"hot"}`))
	})
	broken.Name = "broken"

	c := client.NewNodeClient(200*time.Millisecond, "", nil)
	fx := newPollerFixture(t, []models.Node{n1, n2, slow, broken}, c)

	start := time.Now()
	snap, ok := fx.poller.RunCycle(context.Background())
	require.True(t, ok)
	assert.Less(t, time.Since(start), time.Second)

	assert.Equal(t, models.FailureTimeout, snap.Readings["slow"].Failure)
	assert.Equal(t, models.FailureMalformed, snap.Readings["broken"].Failure)
	assert.Equal(t, 65.0, snap.Control.TemperatureC)
	assert.Equal(t, 88, snap.Fan.DutyCycle)
}
