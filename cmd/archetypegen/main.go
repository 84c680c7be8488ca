// Command archetypegen produces villager archetype YAML from the built-in
// templates, with noise-driven jitter so no two generated villages share the
// exact same tuning. Run it once per village; the simulation consumes the
// output via VILLAGESIM_ARCHETYPE_DIR.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/nashvale/villagesim/internal/archetype"
	"github.com/nashvale/villagesim/internal/curve"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{}))
	slog.SetDefault(logger)

	outDir := flag.String("out", "archetypes", "output directory for generated YAML")
	seed := flag.Int64("seed", 1, "noise seed")
	jitter := flag.Float64("jitter", 0.1, "tuning jitter amplitude (0 disables)")
	flag.Parse()

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		slog.Error("failed to create output directory", "dir", *outDir, "error", err)
		os.Exit(1)
	}

	noise := opensimplex.New(*seed)
	gen := &generator{noise: noise, amplitude: *jitter}

	for i, arch := range archetype.Builtins() {
		gen.perturb(arch, float64(i))
		path := filepath.Join(*outDir, fmt.Sprintf("%s.yaml", filepath.Base(arch.VillagerID)))
		if err := archetype.Save(arch, path); err != nil {
			slog.Error("failed to write archetype", "path", path, "error", err)
			os.Exit(1)
		}
		slog.Info("archetype written", "villager", arch.VillagerID, "path", path)
	}
}

type generator struct {
	noise     opensimplex.Noise
	amplitude float64
	cursor    float64
}

// sample draws the next smooth noise value in [-1, 1].
func (g *generator) sample(row float64) float64 {
	g.cursor += 0.37
	return g.noise.Eval2(g.cursor, row)
}

// scale nudges v by up to amplitude of its own magnitude.
func (g *generator) scale(v, row float64) float64 {
	return v * (1 + g.amplitude*g.sample(row))
}

// perturb jitters the tunable numbers of one archetype in place. Structural
// data (IDs, windows, day order, trade locations) stays untouched so the
// village keeps its shape; only the feel of each villager shifts.
func (g *generator) perturb(a *archetype.Archetype, row float64) {
	if g.amplitude <= 0 {
		return
	}
	for i := range a.Needs {
		need := &a.Needs[i]
		need.PriorityWeight = g.scale(need.PriorityWeight, row)
		need.ForceProbability = g.perturbCurve(need.ForceProbability, row, true)
	}
	for i := range a.Activities {
		act := &a.Activities[i]
		for id, c := range act.NeedCurves {
			act.NeedCurves[id] = g.perturbCurve(c, row, false)
		}
	}
	a.Movement.WalkSpeed = g.scale(a.Movement.WalkSpeed, row)
	a.Social.BuyerGainOnTrade = g.scale(a.Social.BuyerGainOnTrade, row)
	a.Social.SellerGainPerTrade = g.scale(a.Social.SellerGainPerTrade, row)
}

// perturbCurve jitters curve values, keeping the X keys fixed. Probability
// curves stay clamped to [0, 1].
func (g *generator) perturbCurve(c curve.Curve, row float64, probability bool) curve.Curve {
	keys := make([]curve.Key, len(c.Keys))
	for i, k := range c.Keys {
		y := g.scale(k.Y, row)
		if probability {
			if y < 0 {
				y = 0
			}
			if y > 1 {
				y = 1
			}
		}
		keys[i] = curve.Key{X: k.X, Y: y}
	}
	return curve.New(keys...)
}
