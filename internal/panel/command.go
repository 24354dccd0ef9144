package panel

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"github.com/genricoloni/spotink/internal/domain"
)

// Command drives a panel through an external vendor script. Frames are written
// as PNG to the output path, then the script is invoked as:
//
//	<panel_command> display <path>
//	<panel_command> clean
//	<panel_command> sleep
type Command struct {
	logger *zap.Logger
	binary string
	args   []string
	output string
}

// NewCommand creates a command panel. commandLine is split on whitespace.
func NewCommand(logger *zap.Logger, commandLine, output string) (*Command, error) {
	fields := strings.Fields(commandLine)
	if len(fields) == 0 {
		return nil, &domain.ConfigError{Key: "panel_command", Err: errors.New("empty command")}
	}

	binary, err := exec.LookPath(fields[0])
	if err != nil {
		return nil, &domain.ConfigError{Key: "panel_command", Err: err}
	}

	logger.Info("Panel command detected",
		zap.String("binary", binary),
		zap.Strings("args", fields[1:]))

	return &Command{
		logger: logger,
		binary: binary,
		args:   fields[1:],
		output: output,
	}, nil
}

// Clean asks the script for a full refresh
func (c *Command) Clean(ctx context.Context) error {
	if err := c.run(ctx, "clean"); err != nil {
		return &domain.PanelError{Op: "clean", Err: err}
	}
	return nil
}

// Display writes the frame and asks the script to show it
func (c *Command) Display(ctx context.Context, img image.Image) error {
	if err := writePNG(c.output, img); err != nil {
		return &domain.PanelError{Op: "display", Err: err}
	}
	if err := c.run(ctx, "display", c.output); err != nil {
		return &domain.PanelError{Op: "display", Err: err}
	}
	return nil
}

// Close puts the panel to sleep
func (c *Command) Close() error {
	if err := c.run(context.Background(), "sleep"); err != nil {
		return &domain.PanelError{Op: "sleep", Err: err}
	}
	return nil
}

func (c *Command) run(ctx context.Context, verb string, extra ...string) error {
	args := append(append(append([]string{}, c.args...), verb), extra...)

	c.logger.Debug("Running panel command",
		zap.String("command", c.binary),
		zap.Strings("args", args))

	cmd := exec.CommandContext(ctx, c.binary, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s %s failed: %w (output: %s)",
			c.binary, verb, err, strings.TrimSpace(string(output)))
	}
	return nil
}
