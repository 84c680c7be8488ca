package activity

import (
	"time"

	"github.com/google/uuid"

	"github.com/nashvale/villagesim/internal/needs"
	"github.com/nashvale/villagesim/internal/world"
)

// Clock exposes the current sim time to the scheduler. Minute ticks arrive
// separately through HandleMinute; this is for window checks made outside a
// tick, such as timer-driven selection retries.
type Clock interface {
	CurrentHour() int
}

// LocationDirectory resolves location tags to village positions. Resolution
// may fail; an unresolvable tag makes the activity ineligible, it is never
// substituted with a guessed position.
type LocationDirectory interface {
	Resolve(id string) (world.Vec2, bool)
}

// MovementService carries the villager toward a target. At most one request
// is outstanding; issuing a new one supersedes and fails the previous. The
// returned tag identifies the request so stale completions can be discarded.
type MovementService interface {
	MoveTo(target world.Vec2, radius float64, onResult func(world.MoveResult)) uuid.UUID
	Cancel()
}

// TradeLedger is the slice of another villager's social ledger a buyer
// touches during a trade.
type TradeLedger interface {
	RequestResource(requesterID, needID string, urgency needs.Urgency) float64
	RegisterMissedTrade(otherID string)
	TradeLocations() []string
}

// ProviderHandle points at a villager advertising a resource. The provider
// may despawn between discovery and use, so Ledger resolves to a live ledger
// or reports failure; that path is recoverable, not a crash.
type ProviderHandle interface {
	ID() string
	Ledger() (TradeLedger, bool)
	Position() world.Vec2
	AcceptanceRadius() float64
}

// ProviderIndex finds villagers advertising a resource. Discovery is
// read-only and reserves nothing; two buyers racing to the same provider is
// tolerated.
type ProviderIndex interface {
	FindProviders(resource string) []ProviderHandle
}

// Recorder receives narration of what the villager did. Recording is
// best-effort; a nil Recorder is allowed and failures are never fatal.
type Recorder interface {
	Record(villagerID, kind, message string)
	RecordTrade(villagerID, providerID, resource string, quantity float64)
}

// Rand is the scheduler's randomness source, injected so tests can pin
// force-probability draws and provider picks.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// Timer purposes. One slot per purpose: scheduling a purpose cancels any
// previous timer under the same purpose.
const (
	TimerRetrySelection   = "retry-selection"
	TimerResourceCooldown = "resource-cooldown"
)

// TimerService schedules the scheduler's cancellable deferred callbacks.
// Callbacks must run on the villager's event loop, serialized with ticks and
// movement results.
type TimerService interface {
	Schedule(purpose string, delay time.Duration, fn func())
	Cancel(purpose string)
	CancelAll()
}
