package contextcache

import (
	"context"
	"testing"
	"time"

	"github.com/skillsenselab/versestream/component"
	"github.com/skillsenselab/versestream/logger"
)

func newTestCache() (*Cache, *time.Time) {
	c := New(Config{}, logger.NewDefault("test"))
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	return c, &now
}

func TestConfigApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.Window != 20 {
		t.Errorf("Window = %d, want 20", cfg.Window)
	}
	if cfg.SweepInterval != 60 {
		t.Errorf("SweepInterval = %d, want 60", cfg.SweepInterval)
	}
}

func TestRecentTextJoinsInInsertionOrder(t *testing.T) {
	c, _ := newTestCache()
	c.Record("s1", "and Jesus said")
	c.Record("s2", "as we read in John")
	c.Record("s1", "chapter three verse sixteen")

	want := "and Jesus said as we read in John chapter three verse sixteen"
	if got := c.RecentText(); got != want {
		t.Errorf("RecentText() = %q, want %q", got, want)
	}
}

func TestRecentTextExcludesExpired(t *testing.T) {
	c, now := newTestCache()
	c.Record("s1", "old fragment")

	*now = now.Add(21 * time.Second)
	c.Record("s1", "fresh fragment")

	if got := c.RecentText(); got != "fresh fragment" {
		t.Errorf("RecentText() = %q, want only the fresh fragment", got)
	}
}

func TestRecentTextSharedAcrossSessions(t *testing.T) {
	c, _ := newTestCache()
	c.Record("session-a", "turn with me to")
	c.Record("session-b", "Genesis chapter four")

	if got := c.RecentText(); got != "turn with me to Genesis chapter four" {
		t.Errorf("RecentText() = %q; fragments should be shared across sessions", got)
	}
}

func TestRemoveExpired(t *testing.T) {
	c, now := newTestCache()
	c.Record("s1", "a")
	c.Record("s1", "b")

	*now = now.Add(25 * time.Second)
	c.Record("s1", "c")

	if removed := c.removeExpired(); removed != 2 {
		t.Errorf("removeExpired() = %d, want 2", removed)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
	if got := c.RecentText(); got != "c" {
		t.Errorf("RecentText() after sweep = %q, want c", got)
	}
}

func TestRapidFragmentsDoNotOverwrite(t *testing.T) {
	c, _ := newTestCache()
	// Same session, same instant: both fragments must survive.
	c.Record("s1", "first")
	c.Record("s1", "second")
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}

func TestComponentLifecycle(t *testing.T) {
	c := New(Config{Window: 1, SweepInterval: 1}, logger.NewDefault("test"))
	if c.Name() != "context-cache" {
		t.Errorf("Name() = %q", c.Name())
	}
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if h := c.Health(context.Background()); h.Status != component.StatusHealthy {
		t.Errorf("Health() = %s, want healthy", h.Status)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := c.Stop(ctx); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if err := c.Stop(ctx); err != nil {
		t.Fatalf("second Stop() error = %v", err)
	}
}

func TestStopWithoutStart(t *testing.T) {
	c := New(Config{}, logger.NewDefault("test"))
	if err := c.Stop(context.Background()); err != nil {
		t.Fatalf("Stop() without Start error = %v", err)
	}
}
