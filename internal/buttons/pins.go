// Package buttons turns the four GPIO buttons into playback commands.
package buttons

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/genricoloni/spotink/internal/domain"
)

// Pin is a readable input line. gpio.PinIO satisfies it.
type Pin interface {
	Name() string
	Read() gpio.Level
}

// actions are bound to the configured pins in order
var actions = []domain.Action{
	domain.ActionNext,
	domain.ActionPrevious,
	domain.ActionTogglePlayback,
	domain.ActionNextPlaylist,
}

// OpenPins resolves the named pins and configures them as pulled-up inputs.
// Buttons connect the line to ground, so a pressed button reads gpio.Low.
func OpenPins(names []string) ([]Pin, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}

	pins := make([]Pin, 0, len(names))
	for _, name := range names {
		p := gpioreg.ByName(name)
		if p == nil {
			return nil, &domain.ConfigError{Key: "button_pins", Err: fmt.Errorf("unknown gpio %q", name)}
		}
		if err := p.In(gpio.PullUp, gpio.NoEdge); err != nil {
			return nil, fmt.Errorf("failed to configure %s as input: %w", name, err)
		}
		pins = append(pins, p)
	}
	return pins, nil
}
