package buttons

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"periph.io/x/conn/v3/gpio"

	"github.com/genricoloni/spotink/internal/config"
	"github.com/genricoloni/spotink/internal/domain"
)

type actionHandler interface {
	Handle(ctx context.Context, action domain.Action) error
}

// Poller samples the buttons at a fixed cadence and dispatches presses.
// A press is a high to low transition; after each press the poller
// stays deaf for the debounce window.
type Poller struct {
	logger   *zap.Logger
	pins     []Pin
	handler  actionHandler
	interval time.Duration
	debounce time.Duration
	pressed  []bool
}

// NewPoller binds pins, in order, to next, previous, toggle and playlist
func NewPoller(logger *zap.Logger, cfg config.ButtonsConfig, pins []Pin, handler actionHandler) (*Poller, error) {
	if len(pins) != len(actions) {
		return nil, &domain.ConfigError{Key: "button_pins", Err: fmt.Errorf("expected %d pins, got %d", len(actions), len(pins))}
	}
	return &Poller{
		logger:   logger,
		pins:     pins,
		handler:  handler,
		interval: cfg.PollInterval,
		debounce: cfg.Debounce,
		pressed:  make([]bool, len(pins)),
	}, nil
}

// Name implements domain.Worker
func (p *Poller) Name() string { return "buttons" }

// Run polls until ctx is cancelled
func (p *Poller) Run(ctx context.Context) error {
	names := make([]string, len(p.pins))
	for i, pin := range p.pins {
		names[i] = pin.Name()
	}
	p.logger.Info("Button poller started",
		zap.Strings("pins", names),
		zap.Duration("interval", p.interval))

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Button poller stopped")
			return nil
		case <-ticker.C:
		}

		if p.scan(ctx) {
			select {
			case <-ctx.Done():
			case <-time.After(p.debounce):
			}
		}
	}
}

// scan reads every pin once and reports whether a press was dispatched
func (p *Poller) scan(ctx context.Context) bool {
	dispatched := false
	for i, pin := range p.pins {
		down := pin.Read() == gpio.Low
		wasDown := p.pressed[i]
		p.pressed[i] = down
		if !down || wasDown {
			continue
		}

		action := actions[i]
		p.logger.Info("Button pressed",
			zap.String("pin", pin.Name()),
			zap.Stringer("action", action))

		if err := p.handler.Handle(ctx, action); err != nil {
			p.logger.Error("Button action failed",
				zap.Stringer("action", action),
				zap.Error(err))
		}
		dispatched = true
	}
	return dispatched
}
