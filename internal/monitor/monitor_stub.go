//go:build !linux

package monitor

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/genricoloni/spotink/internal/config"
	"github.com/genricoloni/spotink/internal/domain"
)

// MprisProvider stub for non-Linux platforms
type MprisProvider struct {
	logger *zap.Logger
}

// NewMprisProvider creates a stub provider that always fails on non-Linux platforms
func NewMprisProvider(logger *zap.Logger, _ *config.Config) *MprisProvider {
	return &MprisProvider{logger: logger}
}

// Fetch returns an error indicating MPRIS is not supported on this platform
func (m *MprisProvider) Fetch(context.Context) (domain.Snapshot, error) {
	return domain.Snapshot{}, &domain.FetchError{Op: "mpris", Err: errors.New("MPRIS is only supported on Linux systems")}
}

// Close is a no-op on non-Linux platforms
func (m *MprisProvider) Close() error {
	return nil
}
