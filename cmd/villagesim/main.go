// Command villagesim runs the autonomous village simulation: a handful of
// villagers working their daily routines and trading resources with each
// other.
package main

import (
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/nashvale/villagesim/internal/api"
	"github.com/nashvale/villagesim/internal/archetype"
	"github.com/nashvale/villagesim/internal/journal"
	"github.com/nashvale/villagesim/internal/villager"
	"github.com/nashvale/villagesim/internal/world"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(),
	}))
	slog.SetDefault(logger)

	slog.Info("villagesim — autonomous village simulation")

	apiPort := envInt("VILLAGESIM_PORT", 8080)
	dbPath := envStr("VILLAGESIM_DB", "data/village.db")
	secondsPerMinute := envFloat("VILLAGESIM_SECONDS_PER_MINUTE", 0.25)
	startHour := envInt("VILLAGESIM_START_HOUR", 6)

	// ── Archetypes ────────────────────────────────────────────────────
	archetypes := loadArchetypes(os.Getenv("VILLAGESIM_ARCHETYPE_DIR"))
	slog.Info("archetypes loaded", "count", len(archetypes))

	// ── Clock & World ─────────────────────────────────────────────────
	clock := world.NewClock(startHour, secondsPerMinute)
	w := world.New()
	placeVillage(w, archetypes)

	// ── Journal ───────────────────────────────────────────────────────
	os.MkdirAll(filepath.Dir(dbPath), 0755)
	jnl, err := journal.Open(dbPath, func() (int, int) {
		return clock.CurrentHour(), clock.CurrentMinute()
	})
	if err != nil {
		slog.Error("failed to open journal", "error", err)
		os.Exit(1)
	}
	defer jnl.Close()
	slog.Info("journal opened", "path", dbPath)

	// ── Villagers ─────────────────────────────────────────────────────
	villagers := make([]*villager.Villager, 0, len(archetypes))
	for _, arch := range archetypes {
		start, _ := w.Locations.Resolve(bedTag(arch))
		v := villager.New(villager.Options{
			Archetype: arch,
			World:     w,
			Clock:     clock,
			Recorder:  jnl,
			Start:     start,
		})
		villagers = append(villagers, v)
	}
	for _, v := range villagers {
		v.Start()
	}

	// ── HTTP API ──────────────────────────────────────────────────────
	apiServer := &api.Server{
		Clock:     clock,
		Villagers: villagers,
		Journal:   jnl,
		Port:      apiPort,
	}
	apiServer.Start()

	// ── Run ───────────────────────────────────────────────────────────
	clock.Start()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	slog.Info("shutting down")
	clock.Stop()
	for _, v := range villagers {
		v.Stop()
	}
}

// loadArchetypes reads every YAML archetype under dir, falling back to the
// built-in trio when dir is empty or unreadable.
func loadArchetypes(dir string) []*archetype.Archetype {
	if dir == "" {
		return archetype.Builtins()
	}
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil || len(paths) == 0 {
		slog.Warn("no archetype files found, using builtins", "dir", dir)
		return archetype.Builtins()
	}
	var archetypes []*archetype.Archetype
	for _, path := range paths {
		a, err := archetype.Load(path)
		if err != nil {
			slog.Warn("skipping unreadable archetype", "path", path, "error", err)
			continue
		}
		archetypes = append(archetypes, a)
	}
	if len(archetypes) == 0 {
		slog.Warn("all archetype files unreadable, using builtins", "dir", dir)
		return archetype.Builtins()
	}
	return archetypes
}

// placeVillage lays the village out on a grid: one row per villager, one
// spot per distinct location tag its activities and trades reference.
func placeVillage(w *world.World, archetypes []*archetype.Archetype) {
	for row, arch := range archetypes {
		y := float64(row) * 800
		col := 0
		seen := make(map[string]bool)
		register := func(tag string) {
			if tag == "" || seen[tag] {
				return
			}
			seen[tag] = true
			w.Locations.Register(tag, world.Vec2{X: float64(col) * 400, Y: y})
			col++
		}
		for _, act := range arch.Activities {
			register(act.LocationID)
		}
		for _, tag := range arch.Social.TradeLocations {
			register(tag)
		}
	}
}

// bedTag picks where the villager spawns: its first scheduled activity's
// location, which for the builtins is the bed.
func bedTag(arch *archetype.Archetype) string {
	for _, act := range arch.Activities {
		if act.Scheduled && act.LocationID != "" {
			return act.LocationID
		}
	}
	return ""
}

func logLevel() slog.Level {
	switch os.Getenv("VILLAGESIM_LOG_LEVEL") {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		slog.Warn("invalid integer env var, using default", "key", key, "value", v)
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			return f
		}
		slog.Warn("invalid float env var, using default", "key", key, "value", v)
	}
	return fallback
}
