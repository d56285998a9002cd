// Package contextcache keeps a short rolling window of recent transcript
// fragments. Fragments from every active session share one window, so a
// speaker's reference can be picked up even when it straddles request
// boundaries.
package contextcache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/skillsenselab/versestream/component"
	"github.com/skillsenselab/versestream/logger"
)

// Config holds cache window and sweep settings.
type Config struct {
	// Window is how long a fragment stays visible to RecentText. Seconds.
	Window int `yaml:"window" mapstructure:"window"`
	// SweepInterval is how often expired fragments are removed. Seconds.
	SweepInterval int `yaml:"sweep_interval" mapstructure:"sweep_interval"`
}

// ApplyDefaults sets the standard 20s window / 60s sweep.
func (c *Config) ApplyDefaults() {
	if c.Window == 0 {
		c.Window = 20
	}
	if c.SweepInterval == 0 {
		c.SweepInterval = 60
	}
}

type entry struct {
	id        string
	sessionID string
	text      string
	at        time.Time
}

// Cache is an in-memory TTL cache of transcript fragments. Safe for
// concurrent use. Entries are held in insertion order so RecentText
// reconstructs the spoken sequence.
type Cache struct {
	mu      sync.Mutex
	entries []entry
	window  time.Duration
	sweep   time.Duration
	now     func() time.Time
	log     *logger.Logger

	started  bool
	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// New creates a cache with the configured window and sweep interval.
func New(cfg Config, log *logger.Logger) *Cache {
	cfg.ApplyDefaults()
	return &Cache{
		window: time.Duration(cfg.Window) * time.Second,
		sweep:  time.Duration(cfg.SweepInterval) * time.Second,
		now:    time.Now,
		log:    log.WithComponent("context-cache"),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

// Record stores a transcript fragment. Each entry gets a unique id so
// rapid fragments from the same session never overwrite each other.
func (c *Cache) Record(sessionID, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, entry{
		id:        uuid.NewString(),
		sessionID: sessionID,
		text:      text,
		at:        c.now(),
	})
}

// RecentText returns the unexpired fragments joined with single spaces,
// oldest first. Expired entries are skipped but left for the sweeper.
func (c *Cache) RecentText() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	cutoff := c.now().Add(-c.window)
	parts := make([]string, 0, len(c.entries))
	for _, e := range c.entries {
		if e.at.After(cutoff) {
			parts = append(parts, e.text)
		}
	}
	return strings.Join(parts, " ")
}

// Len returns the number of stored entries, expired included.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// removeExpired drops entries older than the window and reports how many
// were removed. Entries arrive in time order, so expired ones form a prefix.
func (c *Cache) removeExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	cutoff := c.now().Add(-c.window)
	keep := 0
	for keep < len(c.entries) && !c.entries[keep].at.After(cutoff) {
		keep++
	}
	if keep == 0 {
		return 0
	}
	removed := keep
	c.entries = append([]entry(nil), c.entries[keep:]...)
	return removed
}

// --- component.Component ---

// Name returns the component name.
func (c *Cache) Name() string { return "context-cache" }

// Start launches the background sweeper.
func (c *Cache) Start(context.Context) error {
	c.mu.Lock()
	c.started = true
	c.mu.Unlock()
	go func() {
		defer close(c.doneCh)
		ticker := time.NewTicker(c.sweep)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := c.removeExpired(); n > 0 {
					c.log.Debug("Swept expired fragments", logger.Fields("removed", n))
				}
			case <-c.stopCh:
				return
			}
		}
	}()
	return nil
}

// Stop halts the sweeper. Safe to call more than once, or without Start.
func (c *Cache) Stop(ctx context.Context) error {
	c.mu.Lock()
	started := c.started
	c.mu.Unlock()
	c.stopOnce.Do(func() { close(c.stopCh) })
	if !started {
		return nil
	}
	select {
	case <-c.doneCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Health reports the current entry count.
func (c *Cache) Health(context.Context) component.Health {
	return component.Health{
		Name:    c.Name(),
		Status:  component.StatusHealthy,
		Message: fmt.Sprintf("%d fragments cached", c.Len()),
	}
}
