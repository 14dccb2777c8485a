package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"cluster_fan/internal/gpio"
	"cluster_fan/internal/logger"
	"cluster_fan/internal/metrics"
	"cluster_fan/internal/models"
	"cluster_fan/internal/repository"
)

// ComputeDuty maps a control temperature to a duty cycle: clamped at both
// ends, linear in between, rounded to the nearest percent.
func ComputeDuty(cfg models.FanConfig, t float64) int {
	if t <= cfg.MinTemp {
		return cfg.MinSpeed
	}
	if t >= cfg.MaxTemp {
		return cfg.MaxSpeed
	}
	ratio := (t - cfg.MinTemp) / (cfg.MaxTemp - cfg.MinTemp)
	return int(math.Round(float64(cfg.MinSpeed) + ratio*float64(cfg.MaxSpeed-cfg.MinSpeed)))
}

// FanController turns control signals into PWM writes. It owns the pin and
// holds no state of its own: the caller passes the previous FanState in and
// keeps what comes back.
type FanController struct {
	cfg     models.FanConfig
	pwm     gpio.PWM
	states  repository.FanStateRepo
	events  repository.EventRepo
	metrics *metrics.Metrics
	log     *logger.Logger
}

func NewFanController(
	cfg models.FanConfig,
	pwm gpio.PWM,
	states repository.FanStateRepo,
	events repository.EventRepo,
	m *metrics.Metrics,
	log *logger.Logger,
) *FanController {
	return &FanController{
		cfg:     cfg,
		pwm:     pwm,
		states:  states,
		events:  events,
		metrics: m,
		log:     logger.Or(log),
	}
}

// Config returns the static fan mapping.
func (f *FanController) Config() models.FanConfig {
	return f.cfg
}

// Init drives the pin to the last-known duty (from a previous run) or to the
// configured startup speed, and returns the Idle state.
func (f *FanController) Init(ctx context.Context, lastKnown *models.FanState) models.FanState {
	duty := f.cfg.StartupSpeed
	if lastKnown != nil {
		duty = lastKnown.DutyCycle
	}

	st := models.FanState{
		DutyCycle: duty,
		Mode:      models.FanIdle,
		ChangedAt: time.Now().UTC(),
	}
	if err := f.write(duty); err != nil {
		st.LastError = err.Error()
		recordEvent(ctx, f.events, f.log, st.ChangedAt, models.EventGPIOError,
			fmt.Sprintf("initial duty %d%% not applied: %v", duty, err),
			map[string]any{"duty": duty, "phase": "init"})
		return st
	}
	f.log.Infow("fan_initialized", "duty", duty, "pin", f.cfg.GPIOPin, "restored", lastKnown != nil)
	return st
}

// Apply evaluates one cycle. An invalid signal returns prev unchanged. The pin
// is written only when the duty differs from prev, or on the first valid
// signal. A failed write keeps prev's duty so the next cycle retries.
func (f *FanController) Apply(ctx context.Context, prev models.FanState, signal models.ControlSignal, now time.Time) models.FanState {
	if !signal.Valid {
		return prev
	}

	duty := ComputeDuty(f.cfg, signal.TemperatureC)
	first := prev.Mode != models.FanRegulating
	if !first && duty == prev.DutyCycle {
		if prev.LastError == "" {
			return prev
		}
		// the pin still holds prev's duty; a failed write to another target is moot
		next := prev
		next.LastError = ""
		f.saveState(ctx, next)
		return next
	}

	if err := f.write(duty); err != nil {
		next := prev
		next.LastError = err.Error()
		recordEvent(ctx, f.events, f.log, now, models.EventGPIOError,
			fmt.Sprintf("duty %d%% not applied: %v", duty, err),
			map[string]any{"duty": duty, "previous": prev.DutyCycle})
		return next
	}

	next := models.FanState{
		DutyCycle: duty,
		Mode:      models.FanRegulating,
		ChangedAt: now.UTC(),
	}
	f.log.Infow("fan_duty_applied",
		"duty", duty,
		"previous", prev.DutyCycle,
		"temperature", signal.TemperatureC,
		"source", signal.Source,
	)

	if first {
		recordEvent(ctx, f.events, f.log, now, models.EventRegulatingStarted,
			fmt.Sprintf("regulating at %d%% (source %s)", duty, signal.Source),
			map[string]any{"duty": duty, "source": signal.Source})
	} else {
		recordEvent(ctx, f.events, f.log, now, models.EventFanChange,
			fmt.Sprintf("duty %d%% -> %d%%", prev.DutyCycle, duty),
			map[string]any{"from": prev.DutyCycle, "to": duty, "source": signal.Source})
	}

	f.saveState(ctx, next)
	return next
}

func (f *FanController) saveState(ctx context.Context, st models.FanState) {
	if f.states == nil {
		return
	}
	if err := f.states.Save(ctx, st); err != nil {
		f.log.Errorw("fan_state_save_failed", "error", err)
	}
}

func (f *FanController) write(duty int) error {
	err := f.pwm.SetDutyCycle(duty)
	f.metrics.GPIOWrite(err)
	if err != nil {
		f.log.Errorw("gpio_write_failed", "duty", duty, "pin", f.cfg.GPIOPin, "error", err)
	}
	return err
}
