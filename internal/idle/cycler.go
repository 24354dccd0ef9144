// Package idle picks the images shown while nothing is playing.
package idle

import (
	"context"
	"fmt"
	"image"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync/atomic"

	"github.com/disintegration/imaging"
	"github.com/fsnotify/fsnotify"
	"github.com/genricoloni/spotink/internal/config"
	"github.com/genricoloni/spotink/internal/domain"
	"github.com/zyedidia/generic/mapset"
	"go.uber.org/zap"
)

var imageExtensions = newExtensionSet(".png", ".jpg", ".jpeg")

func newExtensionSet(exts ...string) mapset.Set[string] {
	set := mapset.New[string]()
	for _, ext := range exts {
		set.Put(ext)
	}
	return set
}

func isImage(name string) bool {
	return imageExtensions.Has(strings.ToLower(filepath.Ext(name)))
}

// Cycler hands out idle images from a folder, in order or at random.
// Next is meant to be called from a single goroutine; only the stale flag
// is shared with the folder watcher.
type Cycler struct {
	logger *zap.Logger
	cfg    config.IdleConfig
	intn   func(n int) int

	images []string
	loaded bool
	cursor int
	last   string // last path handed out in cycle order
	stale  atomic.Bool

	defaultImage image.Image
}

// Option customizes a Cycler
type Option func(*Cycler)

// WithRand makes shuffle picks reproducible
func WithRand(r *rand.Rand) Option {
	return func(c *Cycler) {
		c.intn = r.IntN
	}
}

// NewCycler creates the idle cycler for the daemon configuration
func NewCycler(logger *zap.Logger, cfg *config.Config) *Cycler {
	return New(logger, cfg.Idle)
}

// New creates a cycler. The folder is not read until the first image is needed.
func New(logger *zap.Logger, cfg config.IdleConfig, opts ...Option) *Cycler {
	c := &Cycler{
		logger: logger,
		cfg:    cfg,
		intn:   rand.IntN,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NextPath selects the path of the next idle image
func (c *Cycler) NextPath() string {
	if c.cfg.Mode != config.IdleCycle {
		return c.cfg.DefaultImage
	}
	if !c.loaded || c.stale.Swap(false) {
		c.reload()
	}
	if len(c.images) == 0 {
		return c.cfg.DefaultImage
	}

	if c.cfg.Shuffle {
		return c.images[c.intn(len(c.images))]
	}

	if c.cursor >= len(c.images) {
		c.cursor = 0
	}
	path := c.images[c.cursor]
	c.cursor = (c.cursor + 1) % len(c.images)
	c.last = path
	return path
}

// Next selects and decodes the next idle image. A file that cannot be decoded
// is dropped from the rotation until the folder is listed again, and the
// default image is shown in its place.
func (c *Cycler) Next() (image.Image, string, error) {
	path := c.NextPath()
	if path == c.cfg.DefaultImage {
		img, err := c.Default()
		return img, path, err
	}

	img, err := imaging.Open(path)
	if err == nil {
		return img, path, nil
	}

	c.logger.Warn("Failed to open idle image, using default",
		zap.String("path", path),
		zap.Error(err))
	c.drop(path)

	img, err = c.Default()
	return img, c.cfg.DefaultImage, err
}

// Default returns the decoded default idle image
func (c *Cycler) Default() (image.Image, error) {
	if c.defaultImage != nil {
		return c.defaultImage, nil
	}
	img, err := imaging.Open(c.cfg.DefaultImage)
	if err != nil {
		return nil, &domain.DecodeError{Source: c.cfg.DefaultImage, Err: err}
	}
	c.defaultImage = img
	return img, nil
}

// invalidate forces the folder to be listed again on the next call
func (c *Cycler) invalidate() {
	c.stale.Store(true)
}

// drop removes path from the rotation, keeping the cursor on the image after it
func (c *Cycler) drop(path string) {
	i := slices.Index(c.images, path)
	if i < 0 {
		return
	}
	c.images = slices.Delete(c.images, i, i+1)
	if i < c.cursor {
		c.cursor--
	}
	if c.cursor >= len(c.images) {
		c.cursor = 0
	}
}

// reload lists the folder again. The cycle resumes after the last image
// shown, so a changed folder does not restart the rotation.
func (c *Cycler) reload() {
	c.loaded = true
	c.cursor = 0
	c.images = c.images[:0]
	defer c.resume()

	entries, err := os.ReadDir(c.cfg.Folder)
	if err != nil {
		c.logger.Debug("Idle folder unavailable, using default image",
			zap.String("folder", c.cfg.Folder),
			zap.Error(err))
		return
	}

	// ReadDir returns entries sorted by filename
	for _, entry := range entries {
		if entry.IsDir() || !isImage(entry.Name()) {
			continue
		}
		c.images = append(c.images, filepath.Join(c.cfg.Folder, entry.Name()))
	}

	c.logger.Info("Idle images loaded",
		zap.String("folder", c.cfg.Folder),
		zap.Int("count", len(c.images)))
}

// resume points the cursor at the first image sorting after the last one shown
func (c *Cycler) resume() {
	if c.last == "" {
		return
	}
	i, _ := slices.BinarySearch(c.images, c.last)
	for i < len(c.images) && c.images[i] == c.last {
		i++
	}
	if i >= len(c.images) {
		i = 0
	}
	c.cursor = i
}

// Name identifies the folder watcher among the daemon workers
func (c *Cycler) Name() string {
	return "idle-watcher"
}

// Run watches the idle folder and marks the listing stale when images are
// added, removed or renamed. It returns when ctx is cancelled.
func (c *Cycler) Run(ctx context.Context) error {
	if c.cfg.Mode != config.IdleCycle {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(c.cfg.Folder); err != nil {
		// Not fatal: images are still listed on first use
		c.logger.Warn("Cannot watch idle folder, changes need a restart",
			zap.String("folder", c.cfg.Folder),
			zap.Error(err))
		<-ctx.Done()
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if event.Name != c.cfg.Folder && !isImage(event.Name) {
				continue
			}
			c.logger.Debug("Idle folder changed",
				zap.String("path", event.Name),
				zap.String("op", event.Op.String()))
			c.invalidate()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			c.logger.Warn("Idle folder watcher error", zap.Error(err))
		}
	}
}
