package archetype

import "github.com/nashvale/villagesim/internal/curve"

// Well-known identifiers shared by the built-in villagers.
const (
	NeedHunger = "need.hunger"
	NeedThirst = "need.thirst"
	NeedSleep  = "need.sleep"

	ActivityEating   = "activity.eating"
	ActivityDrinking = "activity.drinking"
	ActivitySleeping = "activity.sleeping"
	ActivityWorking  = "activity.working"

	ResourceFood   = "resource.food"
	ResourceWater  = "resource.water"
	ResourceCotton = "resource.cotton"

	FoodProviderID   = "villager.food_provider"
	WaterProviderID  = "villager.water_provider"
	CottonProviderID = "villager.cotton_provider"
)

const defaultApproval = 0.1

// forceCurve maps a normalized satisfaction value to the probability of
// forcing the satisfying activity: near-certain when the need is almost
// empty, negligible when it is full.
func forceCurve() curve.Curve {
	return curve.New(
		curve.Key{X: 0.0, Y: 1.0},
		curve.Key{X: 0.3, Y: 0.85},
		curve.Key{X: 0.6, Y: 0.35},
		curve.Key{X: 1.0, Y: 0.05},
	)
}

// affectionToQuantity scales trade generosity with the seller's affection.
func affectionToQuantity() curve.Curve {
	return curve.New(
		curve.Key{X: -1.0, Y: 0.25},
		curve.Key{X: 0.0, Y: 1.0},
		curve.Key{X: 1.0, Y: 2.0},
	)
}

func builtinNeeds() []NeedDefinition {
	mk := func(id, satisfying string) NeedDefinition {
		return NeedDefinition{
			ID:                 id,
			StartingValue:      1.0,
			MinValue:           0.0,
			MaxValue:           1.0,
			MildThreshold:      0.6,
			CriticalThreshold:  0.3,
			PriorityWeight:     1.0,
			ForceProbability:   forceCurve(),
			SatisfyingActivity: satisfying,
		}
	}
	return []NeedDefinition{
		mk(NeedHunger, ActivityEating),
		mk(NeedThirst, ActivityDrinking),
		mk(NeedSleep, ActivitySleeping),
	}
}

// Per-minute need deltas while performing each activity. Working slowly
// depletes everything; eating/drinking/sleeping refill their own need while
// the others keep decaying.
func workCurves() map[string]curve.Curve {
	return map[string]curve.Curve{
		NeedHunger: curve.Constant(0, 1440, -0.0025),
		NeedThirst: curve.Constant(0, 1440, -0.0030),
		NeedSleep:  curve.Constant(0, 1440, -0.0020),
	}
}

func eatCurves() map[string]curve.Curve {
	return map[string]curve.Curve{
		NeedHunger: curve.Constant(0, 120, 0.02),
		NeedThirst: curve.Constant(0, 120, -0.0015),
		NeedSleep:  curve.Constant(0, 120, -0.0010),
	}
}

func drinkCurves() map[string]curve.Curve {
	return map[string]curve.Curve{
		NeedThirst: curve.Constant(0, 90, 0.02),
		NeedHunger: curve.Constant(0, 90, -0.0010),
		NeedSleep:  curve.Constant(0, 90, -0.0010),
	}
}

func sleepCurves() map[string]curve.Curve {
	return map[string]curve.Curve{
		NeedSleep:  curve.Constant(0, 480, 0.006),
		NeedHunger: curve.Constant(0, 480, -0.0015),
		NeedThirst: curve.Constant(0, 480, -0.0015),
	}
}

func builtinSchedule(shift int, locPrefix string) []ActivityDefinition {
	scheduled := func(id string, order, start, end int, loc, resource string, curves map[string]curve.Curve) ActivityDefinition {
		return ActivityDefinition{
			ID:               id,
			Scheduled:        true,
			DayOrder:         order,
			Window:           TimeWindow{StartHour: start, EndHour: end},
			LocationID:       loc,
			RequiredResource: resource,
			NeedCurves:       curves,
		}
	}
	return []ActivityDefinition{
		scheduled(ActivitySleeping, 0, 0, 6+shift, locPrefix+".bed", ResourceCotton, sleepCurves()),
		scheduled(ActivityEating, 1, 6+shift, 7+shift, locPrefix+".kitchen", ResourceFood, eatCurves()),
		scheduled(ActivityDrinking, 2, 7+shift, 8+shift, locPrefix+".well", ResourceWater, drinkCurves()),
		scheduled(ActivityWorking, 3, 8+shift, 24, locPrefix+".workplace", "", workCurves()),
	}
}

func builtinSocial(provided string, approvals []string, tradeLocation string) SocialDefinition {
	entries := make([]ApprovalEntry, 0, len(approvals))
	for _, id := range approvals {
		entries = append(entries, ApprovalEntry{VillagerID: id, Affection: defaultApproval})
	}
	return SocialDefinition{
		ProvidedResource:      provided,
		AffectionToQuantity:   affectionToQuantity(),
		Approvals:             entries,
		TradeLocations:        []string{tradeLocation},
		PostTradeCooldownSecs: 0.25,
		BuyerGainOnTrade:      0.05,
		SellerGainPerTrade:    0.025,
		AffectionLossOnMiss:   0.1,
	}
}

func builtinMovement() MovementDefinition {
	return MovementDefinition{
		WalkSpeed:        200,
		MaxAcceleration:  1024,
		AcceptanceRadius: 75,
	}
}

/// FoodProvider is the built-in farmer villager: up at 6, provides food at
// their workplace.
func FoodProvider() *Archetype {
	return &Archetype{
		VillagerID: FoodProviderID,
		Needs:      builtinNeeds(),
		Activities: builtinSchedule(0, "loc.food_provider"),
		Social:     builtinSocial(ResourceFood, []string{WaterProviderID, CottonProviderID}, "loc.food_provider.workplace"),
		Movement:   builtinMovement(),
	}
}

/// WaterProvider is the built-in well keeper: up at 7, provides water.
func WaterProvider() *Archetype {
	return &Archetype{
		VillagerID: WaterProviderID,
		Needs:      builtinNeeds(),
		Activities: builtinSchedule(1, "loc.water_provider"),
		Social:     builtinSocial(ResourceWater, []string{FoodProviderID, CottonProviderID}, "loc.water_provider.workplace"),
		Movement:   builtinMovement(),
	}
}

// CottonProvider is the built-in weaver: up at 8, provides cotton.
func CottonProvider() *Archetype {
	return &Archetype{
		VillagerID: CottonProviderID,
		Needs:      builtinNeeds(),
		Activities: builtinSchedule(2, "loc.cotton_provider"),
		Social:     builtinSocial(ResourceCotton, []string{FoodProviderID, WaterProviderID}, "loc.cotton_provider.workplace"),
		Movement:   builtinMovement(),
	}
}

// Builtins returns all built-in archetypes.
func Builtins() []*Archetype {
	return []*Archetype{FoodProvider(), WaterProvider(), CottonProvider()}
}
