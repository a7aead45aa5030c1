package game

import (
	"math/rand"
	"time"
)

// Config tunes a Simulation.
type Config struct {
	RunDuration time.Duration
	Mission     MissionConfig
	Minimap     MinimapConfig
}

// DefaultConfig returns the canonical tuning: a 120 second finite run with a
// north-locked minimap.
func DefaultConfig() Config {
	return Config{
		RunDuration: RunDuration,
		Mission:     DefaultMissionConfig(),
		Minimap:     DefaultMinimapConfig(),
	}
}

// Simulation is one running game. It is not safe for concurrent use: the
// caller serializes Tick, TickSecond and the input/query methods on a single
// logical thread.
type Simulation struct {
	vehicle   VehicleState
	input     InputFlags
	obstacles []Obstacle
	mission   *MissionController
	clock     *RunClock
	minimap   MinimapConfig
	ticks     uint64
	hits      int
}

// NewSimulation creates a simulation with the vehicle at the spawn point.
// Call Start before ticking.
func NewSimulation(cfg Config, pool []*Destination, rng *rand.Rand, listener MissionListener) *Simulation {
	return &Simulation{
		vehicle: NewVehicleState(),
		mission: NewMissionController(pool, cfg.Mission, rng, listener),
		clock:   NewRunClock(cfg.RunDuration),
		minimap: cfg.Minimap,
	}
}

// Start assigns the first destination.
func (s *Simulation) Start() {
	s.mission.Start()
}

// SubmitInput replaces the input flags used by the next tick.
func (s *Simulation) SubmitInput(flags InputFlags) {
	if s.IsGameOver() {
		return
	}
	s.input = flags
}

// RegisterObstacles installs the static world geometry.
func (s *Simulation) RegisterObstacles(obstacles []Obstacle) {
	s.obstacles = obstacles
}

// SetMinimapOrientation toggles between north-locked and heading-locked.
func (s *Simulation) SetMinimapOrientation(o MinimapOrientation) {
	s.minimap.Orientation = o
}

// Tick advances one frame: kinematics, collision, arrival, cooldown.
func (s *Simulation) Tick(dt time.Duration) {
	if s.IsGameOver() {
		return
	}
	s.ticks++

	next := Advance(s.vehicle, s.input)
	s.hits += ResolveCollisions(&next, s.obstacles)
	s.vehicle = next

	s.mission.CheckArrival(s.vehicle.Position)
	s.mission.Advance(dt)
}

// TickSecond advances the one-second schedule. Arrival is checked first so a
// delivery made in the same instant the clock runs out still counts.
func (s *Simulation) TickSecond() {
	if s.IsGameOver() {
		return
	}
	s.mission.CheckArrival(s.vehicle.Position)
	if s.IsGameOver() {
		return
	}
	s.mission.OnSecond()
	if s.clock.Tick() {
		s.mission.End()
	}
}

// End finishes the run early, as when the player quits. No-op once over.
func (s *Simulation) End() {
	s.mission.End()
}

// IsGameOver reports whether the run reached a terminal state.
func (s *Simulation) IsGameOver() bool {
	return s.mission.State().IsGameOver
}

// Vehicle returns a copy of the full vehicle state.
func (s *Simulation) Vehicle() VehicleState {
	return s.vehicle
}

// VehiclePose returns the render-facing pose.
func (s *Simulation) VehiclePose() Pose {
	return s.vehicle.Pose()
}

// MissionSnapshot is the UI-facing view of mission progress.
type MissionSnapshot struct {
	CurrentDestination   *Destination `json:"current_destination,omitempty"`
	Score                int          `json:"score"`
	Deliveries           int          `json:"deliveries"`
	TimeRemainingSeconds int          `json:"time_remaining_seconds"`
	MissionSecondsLeft   int          `json:"mission_seconds_left"`
	IsGameOver           bool         `json:"is_game_over"`
	IsDelivering         bool         `json:"is_delivering"`
	Phase                MissionPhase `json:"phase"`
}

// MissionState returns score, target and timers. The destination is a copy.
func (s *Simulation) MissionState() MissionSnapshot {
	st := s.mission.State()
	snap := MissionSnapshot{
		Score:                st.Score,
		Deliveries:           st.Deliveries,
		TimeRemainingSeconds: s.clock.Remaining(),
		MissionSecondsLeft:   st.MissionSecondsLeft,
		IsGameOver:           st.IsGameOver,
		IsDelivering:         st.IsDelivering,
		Phase:                st.Phase,
	}
	if st.CurrentDestination != nil {
		d := *st.CurrentDestination
		snap.CurrentDestination = &d
	}
	return snap
}

// BearingToDestination returns guidance toward the current destination, or
// an invisible Bearing when there is none.
func (s *Simulation) BearingToDestination() Bearing {
	dest := s.mission.State().CurrentDestination
	if dest == nil {
		return Bearing{}
	}
	return ComputeBearing(s.vehicle.Position, s.vehicle.Heading, dest.Position)
}

// Minimap projects the current target and every still-eligible destination.
func (s *Simulation) Minimap() MinimapView {
	view := MinimapView{
		Orientation: s.minimap.Orientation,
		Heading:     s.vehicle.Heading,
		Landmarks:   []MinimapBlip{},
	}

	current := s.mission.State().CurrentDestination
	if current != nil {
		p := ProjectToMinimap(s.vehicle.Position, s.vehicle.Heading, current.Position, s.minimap)
		view.Target = &p
	}

	for _, d := range s.mission.eligible() {
		view.Landmarks = append(view.Landmarks, MinimapBlip{
			DestinationID: d.ID,
			Name:          d.Name,
			Current:       d == current,
			Point:         ProjectToMinimap(s.vehicle.Position, s.vehicle.Heading, d.Position, s.minimap),
		})
	}
	return view
}

// Stats returns the tick count and the number of collisions resolved so far.
func (s *Simulation) Stats() (ticks uint64, collisions int) {
	return s.ticks, s.hits
}
