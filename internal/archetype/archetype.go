// Package archetype holds the static authoring data that drives a villager:
// need definitions, the activity schedule, social/trade tuning, and movement
// tuning. Archetypes load from YAML files and can be swapped at runtime,
// which rebuilds the dependent runtime state.
package archetype

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nashvale/villagesim/internal/curve"
)

// NeedDefinition describes one internal drive. Values are satisfaction
// levels: they start near MaxValue and decay toward MinValue, so a low value
// means the need is pressing.
type NeedDefinition struct {
	ID                 string      `yaml:"id"`
	StartingValue      float64     `yaml:"starting_value"`
	MinValue           float64     `yaml:"min_value"`
	MaxValue           float64     `yaml:"max_value"`
	MildThreshold      float64     `yaml:"mild_threshold"`
	CriticalThreshold  float64     `yaml:"critical_threshold"`
	PriorityWeight     float64     `yaml:"priority_weight"`
	ForceProbability   curve.Curve `yaml:"force_probability"`
	SatisfyingActivity string      `yaml:"satisfying_activity"`
}

/// TimeWindow bounds when a scheduled activity may run: [StartHour, EndHour).
type TimeWindow struct {
	StartHour int `yaml:"start_hour"`
	EndHour   int `yaml:"end_hour"`
}

// Contains reports whether the given hour falls inside the window.
func (w TimeWindow) Contains(hour int) bool {
	return hour >= w.StartHour && hour < w.EndHour
}

// ActivityDefinition describes one activity a villager can perform.
// Scheduled activities belong to the fixed daily routine and run within
// Window; ad-hoc activities run for DurationMinutes.
type ActivityDefinition struct {
	ID               string                 `yaml:"id"`
	Scheduled        bool                   `yaml:"scheduled"`
	DayOrder         int                    `yaml:"day_order"`
	Window           TimeWindow             `yaml:"window"`
	DurationMinutes  float64                `yaml:"duration_minutes"`
	LocationID       string                 `yaml:"location_id"`
	RequiredResource string                 `yaml:"required_resource"`
	NeedCurves       map[string]curve.Curve `yaml:"need_curves"`
}

// RequiresLocation reports whether the activity needs the villager to travel.
func (d ActivityDefinition) RequiresLocation() bool {
	return d.LocationID != ""
}

// ApprovalEntry seeds baseline affection toward another villager.
type ApprovalEntry struct {
	VillagerID string  `yaml:"villager_id"`
	Affection  float64 `yaml:"affection"`
}

// SocialDefinition carries the trade-related tuning for a villager.
type SocialDefinition struct {
	ProvidedResource        string          `yaml:"provided_resource"`
	AffectionToQuantity     curve.Curve     `yaml:"affection_to_quantity"`
	Approvals               []ApprovalEntry `yaml:"approvals"`
	TradeLocations          []string        `yaml:"trade_locations"`
	PostTradeCooldownSecs   float64         `yaml:"post_trade_cooldown_seconds"`
	BuyerGainOnTrade        float64         `yaml:"buyer_gain_on_trade"`
	SellerGainPerTrade      float64         `yaml:"seller_gain_per_trade"`
	AffectionLossOnMiss     float64         `yaml:"affection_loss_on_miss"`
}

// MovementDefinition tunes how the villager walks.
type MovementDefinition struct {
	WalkSpeed        float64 `yaml:"walk_speed"`
	MaxAcceleration  float64 `yaml:"max_acceleration"`
	AcceptanceRadius float64 `yaml:"acceptance_radius"`
}

// Archetype bundles all authoring data for one villager.
type Archetype struct {
	VillagerID string               `yaml:"villager_id"`
	Needs      []NeedDefinition     `yaml:"needs"`
	Activities []ActivityDefinition `yaml:"activities"`
	Social     SocialDefinition     `yaml:"social"`
	Movement   MovementDefinition   `yaml:"movement"`
}

// Activity returns the activity definition with the given ID.
func (a *Archetype) Activity(id string) (ActivityDefinition, bool) {
	for _, def := range a.Activities {
		if def.ID == id {
			return def, true
		}
	}
	return ActivityDefinition{}, false
}

// Load reads an archetype from a YAML file.
func Load(path string) (*Archetype, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read archetype: %w", err)
	}
	var a Archetype
	if err := yaml.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("parse archetype %s: %w", path, err)
	}
	if a.VillagerID == "" {
		return nil, fmt.Errorf("archetype %s: missing villager_id", path)
	}
	return &a, nil
}

// Save writes an archetype to a YAML file.
func Save(a *Archetype, path string) error {
	raw, err := yaml.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal archetype %s: %w", a.VillagerID, err)
	}
	if err := os.WriteFile(path, raw, 0644); err != nil {
		return fmt.Errorf("write archetype: %w", err)
	}
	return nil
}
