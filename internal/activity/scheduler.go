// Package activity owns the villager's current-activity state machine: the
// daily routine, need-driven interruptions, travel to activity locations,
// and resource trades with provider villagers. The scheduler is driven
// entirely by external events: per-minute clock ticks, movement completions,
// and its own timers. All of those must be delivered on one goroutine; the
// scheduler itself takes no locks.
package activity

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/nashvale/villagesim/internal/archetype"
	"github.com/nashvale/villagesim/internal/needs"
	"github.com/nashvale/villagesim/internal/world"
)

// Phase is where the scheduler currently stands in the activity lifecycle.
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseMovingToActivity
	PhaseMovingToProvider
	PhaseResourceCooldown
	PhaseActive
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseMovingToActivity:
		return "moving_to_activity"
	case PhaseMovingToProvider:
		return "moving_to_provider"
	case PhaseResourceCooldown:
		return "resource_cooldown"
	case PhaseActive:
		return "active"
	default:
		return "unknown"
	}
}

// Config carries the scheduler's retry and presence tuning.
type Config struct {
	// MovementRetryDelay throttles re-selection after a failed walk to an
	// activity location.
	MovementRetryDelay time.Duration
	// ProviderFailureCooldown gates re-selection of an activity after its
	// provider fetch failed, and doubles as the retry delay.
	ProviderFailureCooldown time.Duration
	// SelectionRetryDelay is the short delay before retrying selection when
	// an activity's location tag cannot be resolved.
	SelectionRetryDelay time.Duration
	// PresenceTolerance is how close a provider must stand to its trade spot
	// to count as present, widened per provider by its acceptance radius.
	PresenceTolerance float64
	// DefaultAcceptanceRadius is used for movement requests when the
	// archetype does not configure one.
	DefaultAcceptanceRadius float64
}

func (c Config) withDefaults() Config {
	if c.MovementRetryDelay <= 0 {
		c.MovementRetryDelay = 5 * time.Second
	}
	if c.ProviderFailureCooldown <= 0 {
		c.ProviderFailureCooldown = 30 * time.Second
	}
	if c.SelectionRetryDelay <= 0 {
		c.SelectionRetryDelay = 2 * time.Second
	}
	if c.PresenceTolerance <= 0 {
		c.PresenceTolerance = 100
	}
	if c.DefaultAcceptanceRadius <= 0 {
		c.DefaultAcceptanceRadius = 75
	}
	return c
}

// Deps are the scheduler's injected collaborators. Recorder may be nil; Now
// defaults to time.Now.
type Deps struct {
	Clock     Clock
	Locations LocationDirectory
	Movement  MovementService
	Providers ProviderIndex
	Recorder  Recorder
	Rand      Rand
	Timers    TimerService
	Now       func() time.Time
}

// current is the runtime state of the in-progress activity. The definition
// is copied in so later archetype edits cannot alter a running activity.
type current struct {
	def        archetype.ActivityDefinition
	elapsed    float64
	needDriven bool
	hasLoc     bool
	locPos     world.Vec2
	waiting    bool
}

// Status is a read-only snapshot for presentation.
type Status struct {
	Phase          string  `json:"phase"`
	Activity       string  `json:"activity,omitempty"`
	ElapsedMinutes float64 `json:"elapsed_minutes"`
	NeedDriven     bool    `json:"need_driven,omitempty"`
	Provider       string  `json:"provider,omitempty"`
}

// Scheduler decides what one villager does. It is not safe for concurrent
// use; the villager's event loop serializes ticks, movement results, and
// timer callbacks.
type Scheduler struct {
	id      string
	arch    *archetype.Archetype
	tracker *needs.Tracker
	cfg     Config

	clock     Clock
	locations LocationDirectory
	movement  MovementService
	providers ProviderIndex
	recorder  Recorder
	rng       Rand
	timers    TimerService
	now       func() time.Time

	phase   Phase
	cur     *current
	moveTag uuid.UUID
	prov    *providerContext

	moveFailures map[string]time.Time
	provFailures map[string]time.Time
}

// NewScheduler builds a scheduler for one villager. Call Start once the
// villager is registered in the world.
func NewScheduler(id string, arch *archetype.Archetype, tracker *needs.Tracker, deps Deps, cfg Config) *Scheduler {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Scheduler{
		id:           id,
		arch:         arch,
		tracker:      tracker,
		cfg:          cfg.withDefaults(),
		clock:        deps.Clock,
		locations:    deps.Locations,
		movement:     deps.Movement,
		providers:    deps.Providers,
		recorder:     deps.Recorder,
		rng:          deps.Rand,
		timers:       deps.Timers,
		now:          now,
		moveFailures: make(map[string]time.Time),
		provFailures: make(map[string]time.Time),
	}
}

// Start runs the first selection pass.
func (s *Scheduler) Start() {
	s.selectNext(s.clock.CurrentHour())
}

// SetArchetype swaps the villager's authoring data. The need tracker rebuilds
// from scratch and any in-progress activity is abandoned.
func (s *Scheduler) SetArchetype(a *archetype.Archetype) {
	s.arch = a
	s.tracker.SetArchetype(a)
	s.reset()
	s.selectNext(s.clock.CurrentHour())
}

// CurrentPhase returns the scheduler's phase.
func (s *Scheduler) CurrentPhase() Phase { return s.phase }

// CurrentStatus snapshots the scheduler for presentation.
func (s *Scheduler) CurrentStatus() Status {
	st := Status{Phase: s.phase.String()}
	if s.cur != nil {
		st.Activity = s.cur.def.ID
		st.ElapsedMinutes = s.cur.elapsed
		st.NeedDriven = s.cur.needDriven
	}
	if s.prov != nil {
		st.Provider = s.prov.providerID
	}
	return st
}

// HandleMinute advances the scheduler by one simulated minute.
func (s *Scheduler) HandleMinute(hour, minute int) {
	switch s.phase {
	case PhaseIdle:
		s.selectNext(hour)
	case PhaseActive:
		s.tickActive(hour)
	default:
		// Waiting on movement or a trade cooldown; the walk itself advances
		// elsewhere.
	}
}

// HandleMovementResult reacts to the movement service finishing a walk.
// Results whose tag does not match the outstanding request are stale
// leftovers of a superseded walk and are discarded.
func (s *Scheduler) HandleMovementResult(res world.MoveResult) {
	if s.moveTag == uuid.Nil || res.Tag != s.moveTag {
		slog.Debug("stale movement result discarded", "villager", s.id, "tag", res.Tag)
		return
	}
	s.moveTag = uuid.Nil
	switch s.phase {
	case PhaseMovingToActivity:
		s.activityWalkDone(res.Arrived)
	case PhaseMovingToProvider:
		s.providerWalkDone(res.Arrived)
	default:
		slog.Debug("movement result in unexpected phase", "villager", s.id, "phase", s.phase)
	}
}

// selectNext picks the villager's next activity: a critical need that forces
// itself wins, otherwise the scheduled routine activity whose window contains
// the current hour (lowest day order first), otherwise any eligible scheduled
// activity off-window, otherwise nothing and the villager idles until the
// next tick.
func (s *Scheduler) selectNext(hour int) {
	if s.arch == nil {
		s.phase = PhaseIdle
		slog.Warn("no archetype assigned, idling", "villager", s.id)
		return
	}

	if st, ok := s.tracker.HighestPriority(needs.Critical); ok {
		if def, found := s.arch.Activity(st.Def.SatisfyingActivity); found && s.eligible(def) && s.forceDraw(st) {
			slog.Info("critical need drives selection", "villager", s.id, "need", st.ID, "activity", def.ID)
			s.begin(def, true)
			return
		}
	}

	if def, ok := s.pickScheduled(hour, true); ok {
		s.begin(def, false)
		return
	}
	if def, ok := s.pickScheduled(hour, false); ok {
		slog.Debug("no windowed activity, falling back off-window", "villager", s.id, "activity", def.ID)
		s.begin(def, false)
		return
	}

	s.phase = PhaseIdle
	slog.Debug("no eligible activity", "villager", s.id, "hour", hour)
}

func (s *Scheduler) pickScheduled(hour int, windowed bool) (archetype.ActivityDefinition, bool) {
	defs := make([]archetype.ActivityDefinition, 0, len(s.arch.Activities))
	for _, d := range s.arch.Activities {
		if d.Scheduled {
			defs = append(defs, d)
		}
	}
	sort.SliceStable(defs, func(i, j int) bool { return defs[i].DayOrder < defs[j].DayOrder })
	for _, d := range defs {
		if windowed && !d.Window.Contains(hour) {
			continue
		}
		if s.eligible(d) {
			return d, true
		}
	}
	return archetype.ActivityDefinition{}, false
}

// eligible reports whether an activity may start right now: its provider
// failure cooldown has lapsed and its location tag, if any, resolves.
func (s *Scheduler) eligible(def archetype.ActivityDefinition) bool {
	if _, gated := s.cooldownRemaining(def.ID); gated {
		return false
	}
	if def.RequiresLocation() {
		if _, ok := s.locations.Resolve(def.LocationID); !ok {
			return false
		}
	}
	return true
}

func (s *Scheduler) cooldownRemaining(activityID string) (time.Duration, bool) {
	t, ok := s.provFailures[activityID]
	if !ok {
		return 0, false
	}
	elapsed := s.now().Sub(t)
	if elapsed >= s.cfg.ProviderFailureCooldown {
		return 0, false
	}
	return s.cfg.ProviderFailureCooldown - elapsed, true
}

// forceDraw samples the need's force-probability curve at its normalized
// value. At probability 1 or above the need always forces, at 0 or below it
// never does; in between a uniform draw decides. A need with no curve
// configured never forces.
func (s *Scheduler) forceDraw(st needs.State) bool {
	if st.Def.ForceProbability.IsZero() {
		slog.Debug("need has no force curve", "villager", s.id, "need", st.ID)
		return false
	}
	p := st.Def.ForceProbability.Eval(st.Normalized())
	if p >= 1 {
		return true
	}
	if p <= 0 {
		return false
	}
	return s.rng.Float64() < p
}

// begin starts an activity from scratch: all timers and movement from the
// previous activity are cancelled and any provider context discarded before
// the new one touches anything. Returns false when the activity could not
// start; a retry is already scheduled in that case.
func (s *Scheduler) begin(def archetype.ActivityDefinition, needDriven bool) bool {
	s.reset()

	if remaining, gated := s.cooldownRemaining(def.ID); gated {
		slog.Debug("activity cooldown-gated", "villager", s.id, "activity", def.ID, "remaining", remaining)
		s.timers.Schedule(TimerRetrySelection, remaining, s.retrySelection)
		return false
	}

	cur := &current{def: def, needDriven: needDriven}
	if def.RequiresLocation() {
		pos, ok := s.locations.Resolve(def.LocationID)
		if !ok {
			slog.Warn("activity location unresolvable", "villager", s.id, "activity", def.ID, "tag", def.LocationID)
			s.timers.Schedule(TimerRetrySelection, s.cfg.SelectionRetryDelay, s.retrySelection)
			return false
		}
		cur.hasLoc = true
		cur.locPos = pos
	}
	s.cur = cur

	if def.RequiredResource != "" {
		if prov, ok := s.discoverProvider(def.RequiredResource); ok {
			s.prov = prov
			s.phase = PhaseMovingToProvider
			cur.waiting = true
			s.moveTag = s.movement.MoveTo(prov.pos, s.radius(), s.HandleMovementResult)
			slog.Info("heading to provider", "villager", s.id, "activity", def.ID,
				"provider", prov.providerID, "spot", prov.tradeTag, "present", prov.present)
			return true
		}
		slog.Info("no provider found", "villager", s.id, "resource", def.RequiredResource)
		s.record("no-provider", fmt.Sprintf("nobody sells %s, going to %s anyway", def.RequiredResource, def.ID))
	}

	if cur.hasLoc {
		s.phase = PhaseMovingToActivity
		cur.waiting = true
		s.moveTag = s.movement.MoveTo(cur.locPos, s.radius(), s.HandleMovementResult)
		slog.Info("heading to activity", "villager", s.id, "activity", def.ID, "location", def.LocationID)
		return true
	}

	s.enterActive()
	return true
}

func (s *Scheduler) activityWalkDone(arrived bool) {
	if s.cur == nil {
		s.phase = PhaseIdle
		return
	}
	actID := s.cur.def.ID
	if !arrived {
		slog.Warn("walk to activity failed", "villager", s.id, "activity", actID)
		s.moveFailures[actID] = s.now()
		s.cur = nil
		s.phase = PhaseIdle
		s.timers.Schedule(TimerRetrySelection, s.cfg.MovementRetryDelay, s.retrySelection)
		return
	}
	delete(s.moveFailures, actID)
	delete(s.provFailures, actID)
	s.cur.waiting = false
	s.enterActive()
}

func (s *Scheduler) providerWalkDone(arrived bool) {
	if s.cur == nil {
		s.phase = PhaseIdle
		s.prov = nil
		return
	}
	actID := s.cur.def.ID

	if !arrived {
		slog.Warn("walk to provider failed", "villager", s.id, "activity", actID)
		s.provFailures[actID] = s.now()
		s.prov = nil
		s.cur = nil
		s.phase = PhaseIdle
		s.timers.Schedule(TimerRetrySelection, s.cfg.ProviderFailureCooldown, s.retrySelection)
		return
	}

	prov := s.prov
	if prov == nil {
		s.providerUnavailable()
		return
	}
	ledger, ok := prov.handle.Ledger()
	if !ok || !s.withinPresence(prov.handle, prov.pos) {
		s.providerUnavailable()
		return
	}

	urgency := needs.Mild
	needID := ""
	if st, found := s.tracker.BySatisfyingActivity(actID); found {
		urgency = st.Urgency()
		needID = st.ID
	}
	qty := ledger.RequestResource(s.id, needID, urgency)
	slog.Info("trade completed", "villager", s.id, "provider", prov.providerID,
		"resource", s.cur.def.RequiredResource, "quantity", qty)
	s.recordTrade(prov.providerID, s.cur.def.RequiredResource, qty)

	s.prov = nil
	s.phase = PhaseResourceCooldown
	s.cur.waiting = false
	cooldown := time.Duration(s.arch.Social.PostTradeCooldownSecs * float64(time.Second))
	s.timers.Schedule(TimerResourceCooldown, cooldown, s.afterResourceCooldown)
}

// afterResourceCooldown resumes the activity once the post-trade pause ends:
// off to the activity's own location, or straight to work if it has none.
func (s *Scheduler) afterResourceCooldown() {
	if s.cur == nil {
		s.phase = PhaseIdle
		return
	}
	if s.cur.hasLoc {
		s.phase = PhaseMovingToActivity
		s.cur.waiting = true
		s.moveTag = s.movement.MoveTo(s.cur.locPos, s.radius(), s.HandleMovementResult)
		return
	}
	s.enterActive()
}

// providerUnavailable handles arriving at a trade spot whose provider is
// gone: penalize the missed trade on the provider's ledger, record the
// failure against this activity, and retry selection after the provider
// cooldown.
func (s *Scheduler) providerUnavailable() {
	s.timers.CancelAll()

	var actID string
	if s.cur != nil {
		actID = s.cur.def.ID
		s.cur.waiting = false
	}
	if s.prov != nil && s.prov.ledger != nil {
		s.prov.ledger.RegisterMissedTrade(s.id)
		slog.Info("provider missing at trade spot", "villager", s.id,
			"provider", s.prov.providerID, "spot", s.prov.tradeTag)
		s.record("missed-trade", fmt.Sprintf("%s was not at %s", s.prov.providerID, s.prov.tradeTag))
	}
	if actID != "" {
		s.provFailures[actID] = s.now()
	}
	s.prov = nil
	s.cur = nil
	s.phase = PhaseIdle
	s.timers.Schedule(TimerRetrySelection, s.cfg.ProviderFailureCooldown, s.retrySelection)
}

func (s *Scheduler) enterActive() {
	s.phase = PhaseActive
	s.cur.waiting = false
	slog.Info("activity started", "villager", s.id, "activity", s.cur.def.ID, "need_driven", s.cur.needDriven)
	s.record("start", fmt.Sprintf("started %s", s.cur.def.ID))
}

// tickActive advances the running activity by one minute: complete it when
// its window closes or its duration is used up, let an urgent need interrupt
// a routine activity, and otherwise apply the activity's per-minute need
// effects.
func (s *Scheduler) tickActive(hour int) {
	cur := s.cur
	if cur == nil {
		s.phase = PhaseIdle
		return
	}
	def := cur.def

	done := false
	if def.Scheduled {
		done = !def.Window.Contains(hour)
	} else {
		done = cur.elapsed >= def.DurationMinutes
	}
	if done {
		s.complete(hour)
		return
	}

	if def.Scheduled && s.tryInterrupt() {
		return
	}

	for needID, c := range def.NeedCurves {
		s.tracker.ApplyDelta(needID, c.Eval(cur.elapsed))
	}
	cur.elapsed++
}

// tryInterrupt checks whether an urgent need pre-empts the routine. Critical
// needs get first refusal; a successful critical switch skips the mild pass
// for this tick entirely.
func (s *Scheduler) tryInterrupt() bool {
	for _, band := range []needs.Urgency{needs.Critical, needs.Mild} {
		st, ok := s.tracker.HighestPriority(band)
		if !ok || st.Def.SatisfyingActivity == "" {
			continue
		}
		if st.Def.SatisfyingActivity == s.cur.def.ID {
			continue
		}
		def, found := s.arch.Activity(st.Def.SatisfyingActivity)
		if !found || !s.eligible(def) {
			continue
		}
		if !s.forceDraw(st) {
			continue
		}
		slog.Info("need interrupts routine", "villager", s.id,
			"need", st.ID, "urgency", st.Urgency().String(), "from", s.cur.def.ID, "to", def.ID)
		s.record("interrupt", fmt.Sprintf("%s interrupted %s for %s", st.ID, s.cur.def.ID, def.ID))
		return s.begin(def, true)
	}
	return false
}

func (s *Scheduler) complete(hour int) {
	slog.Info("activity complete", "villager", s.id, "activity", s.cur.def.ID, "minutes", s.cur.elapsed)
	s.record("complete", fmt.Sprintf("finished %s", s.cur.def.ID))
	s.timers.CancelAll()
	s.cur = nil
	s.prov = nil
	s.phase = PhaseIdle
	s.selectNext(hour)
}

// reset discards every trace of the previous activity: timers, in-flight
// movement, provider context, runtime state.
func (s *Scheduler) reset() {
	s.timers.CancelAll()
	s.movement.Cancel()
	s.moveTag = uuid.Nil
	s.prov = nil
	s.cur = nil
	s.phase = PhaseIdle
}

func (s *Scheduler) retrySelection() {
	if s.phase != PhaseIdle {
		return
	}
	s.selectNext(s.clock.CurrentHour())
}

func (s *Scheduler) radius() float64 {
	if s.arch != nil && s.arch.Movement.AcceptanceRadius > 0 {
		return s.arch.Movement.AcceptanceRadius
	}
	return s.cfg.DefaultAcceptanceRadius
}

func (s *Scheduler) record(kind, message string) {
	if s.recorder != nil {
		s.recorder.Record(s.id, kind, message)
	}
}

func (s *Scheduler) recordTrade(providerID, resource string, qty float64) {
	if s.recorder != nil {
		s.recorder.RecordTrade(s.id, providerID, resource, qty)
	}
}
