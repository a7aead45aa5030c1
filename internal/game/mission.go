package game

import (
	"log/slog"
	"math/rand"
	"time"
)

// MissionListener receives mission notifications. The presentation layer
// implements it; the core never renders anything itself.
type MissionListener interface {
	OnDeliveryCompleted(dest *Destination, reward, score int)
	OnMissionExpired(dest *Destination)
	OnGameOver(finalScore int, allComplete bool)
}

// NopListener discards every notification.
type NopListener struct{}

func (NopListener) OnDeliveryCompleted(*Destination, int, int) {}
func (NopListener) OnMissionExpired(*Destination)              {}
func (NopListener) OnGameOver(int, bool)                       {}

// MissionConfig tunes a MissionController.
type MissionConfig struct {
	DeliveryRadius   float64
	DeliveryCooldown time.Duration
	// MissionTimeLimit is the per-destination budget in seconds. Zero
	// disables expiry.
	MissionTimeLimit int
	Mode             RunMode
}

// DefaultMissionConfig returns the canonical mission tuning.
func DefaultMissionConfig() MissionConfig {
	return MissionConfig{
		DeliveryRadius:   DeliveryRadius,
		DeliveryCooldown: DeliveryCooldown,
		MissionTimeLimit: MissionTimeLimit,
		Mode:             ModeFinite,
	}
}

// MissionState is the controller-owned progress of a run.
type MissionState struct {
	CurrentDestination *Destination `json:"current_destination"`
	Score              int          `json:"score"`
	Deliveries         int          `json:"deliveries"`
	MissionSecondsLeft int          `json:"mission_seconds_left"`
	IsGameOver         bool         `json:"is_game_over"`
	IsDelivering       bool         `json:"is_delivering"`
	Phase              MissionPhase `json:"phase"`
}

// MissionController runs the delivery state machine over a destination pool.
type MissionController struct {
	cfg      MissionConfig
	pool     []*Destination
	rng      *rand.Rand
	listener MissionListener

	state    MissionState
	cooldown time.Duration
}

// NewMissionController creates an idle controller. Call Start to pick the
// first destination.
func NewMissionController(pool []*Destination, cfg MissionConfig, rng *rand.Rand, listener MissionListener) *MissionController {
	if listener == nil {
		listener = NopListener{}
	}
	return &MissionController{
		cfg:      cfg,
		pool:     pool,
		rng:      rng,
		listener: listener,
		state:    MissionState{Phase: PhaseIdle},
	}
}

// State returns a copy of the current mission state.
func (m *MissionController) State() MissionState {
	return m.state
}

// Pool returns the destination pool.
func (m *MissionController) Pool() []*Destination {
	return m.pool
}

// Start selects the first destination. It is a no-op unless idle.
func (m *MissionController) Start() {
	if m.state.Phase != PhaseIdle {
		return
	}
	m.selectNext(nil)
}

// CheckArrival delivers the current destination if pos is within the
// delivery radius. It returns true only on the tick the delivery is awarded;
// the debounce holds until the next destination is assigned.
func (m *MissionController) CheckArrival(pos Vec3) bool {
	if m.state.IsGameOver || m.state.IsDelivering || m.state.Phase != PhaseActive {
		return false
	}
	dest := m.state.CurrentDestination
	if !InDeliveryRange(pos, dest, m.cfg.DeliveryRadius) {
		return false
	}

	reward := dest.RewardPoints
	m.state.Score += reward
	m.state.Deliveries++
	if m.cfg.Mode == ModeFinite {
		dest.IsCompleted = true
	}
	m.state.IsDelivering = true
	m.state.Phase = PhaseDelivered
	m.cooldown = m.cfg.DeliveryCooldown

	slog.Debug("delivery completed", "destination", dest.Name, "reward", reward, "score", m.state.Score)
	m.listener.OnDeliveryCompleted(dest, reward, m.state.Score)
	return true
}

// Advance moves the delivery cooldown forward by dt of simulation time.
func (m *MissionController) Advance(dt time.Duration) {
	if m.state.IsGameOver || !m.state.IsDelivering {
		return
	}
	m.cooldown -= dt
	if m.cooldown > 0 {
		return
	}
	m.cooldown = 0
	m.state.IsDelivering = false
	m.selectNext(m.state.CurrentDestination)
}

// OnSecond counts down the per-destination time limit. On expiry no score is
// awarded and a new destination is selected; the run goes on.
func (m *MissionController) OnSecond() {
	if m.state.IsGameOver || m.state.IsDelivering || m.state.Phase != PhaseActive {
		return
	}
	if m.cfg.MissionTimeLimit <= 0 {
		return
	}
	m.state.MissionSecondsLeft--
	if m.state.MissionSecondsLeft > 0 {
		return
	}

	expired := m.state.CurrentDestination
	m.state.Phase = PhaseExpired
	slog.Debug("mission expired", "destination", expired.Name)
	m.listener.OnMissionExpired(expired)
	m.selectNext(expired)
}

// End stops the run from the outside, as when the run clock hits zero.
// Calling it more than once has no effect.
func (m *MissionController) End() {
	if m.state.IsGameOver {
		return
	}
	m.state.IsGameOver = true
	m.state.IsDelivering = false
	m.state.Phase = PhaseGameOver
	m.listener.OnGameOver(m.state.Score, false)
}

// selectNext picks a random eligible destination, avoiding previous when
// there is any other choice. An empty choice completes the run.
func (m *MissionController) selectNext(previous *Destination) {
	candidates := m.eligible()
	if len(candidates) > 1 && previous != nil {
		filtered := make([]*Destination, 0, len(candidates)-1)
		for _, d := range candidates {
			if d != previous {
				filtered = append(filtered, d)
			}
		}
		candidates = filtered
	}

	if len(candidates) == 0 {
		m.state.CurrentDestination = nil
		m.state.MissionSecondsLeft = 0
		m.state.IsGameOver = true
		m.state.Phase = PhaseAllComplete
		m.listener.OnGameOver(m.state.Score, true)
		return
	}

	m.state.CurrentDestination = candidates[m.rng.Intn(len(candidates))]
	m.state.MissionSecondsLeft = m.cfg.MissionTimeLimit
	m.state.Phase = PhaseActive
	slog.Debug("destination selected", "destination", m.state.CurrentDestination.Name)
}

func (m *MissionController) eligible() []*Destination {
	out := make([]*Destination, 0, len(m.pool))
	for _, d := range m.pool {
		if m.cfg.Mode == ModeEndless || !d.IsCompleted {
			out = append(out, d)
		}
	}
	return out
}
