package session

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ugaemi/citycourier-server/internal/game"
	"github.com/ugaemi/citycourier-server/internal/ws"
)

var (
	ErrAlreadyStarted = errors.New("run already started")
	ErrRunInProgress  = errors.New("run already in progress")
)

// Session is one driver's run: a simulation, its tick loops, and the client
// that receives its state.
type Session struct {
	ID     string
	Driver *game.Driver

	client       *ws.Client
	opts         Options
	sim          *game.Simulation
	destinations []*game.Destination
	obstacles    []game.Obstacle
	metrics      *runMetrics

	// Listener notifications queued while mu is held, flushed after the
	// state snapshot of the same step.
	pending []ws.Message

	stopCh   chan struct{}
	done     chan struct{}
	started  bool
	looping  bool
	stopped  bool
	quitting bool

	mu sync.Mutex
}

// New builds a session with a fresh destination pool and city. Call Start
// to begin ticking.
func New(driver *game.Driver, client *ws.Client, opts Options) *Session {
	if opts.TickInterval <= 0 {
		opts.TickInterval = game.TickInterval
	}

	s := &Session{
		ID:      uuid.New().String(),
		Driver:  driver,
		client:  client,
		opts:    opts,
		metrics: newRunMetrics(opts.Meter),
		stopCh:  make(chan struct{}),
		done:    make(chan struct{}),
	}

	rng := opts.newRand()
	s.destinations = opts.buildPool(rng)
	s.obstacles = game.GenerateCity(rng, opts.City, s.destinations)
	s.sim = game.NewSimulation(opts.Game, s.destinations, rng, s)
	s.sim.RegisterObstacles(s.obstacles)
	return s
}

type runStartedMessage struct {
	SessionID           string              `json:"session_id"`
	Driver              *game.Driver        `json:"driver"`
	RunMode             string              `json:"run_mode"`
	TickRate            int                 `json:"tick_rate"`
	RunDurationSec      int                 `json:"run_duration_sec"`
	MissionTimeLimitSec int                 `json:"mission_time_limit_sec"`
	DeliveryRadius      float64             `json:"delivery_radius"`
	Minimap             game.MinimapConfig  `json:"minimap"`
	Vehicle             game.Pose           `json:"vehicle"`
	Destinations        []*game.Destination `json:"destinations"`
	Obstacles           []game.Obstacle     `json:"obstacles"`
}

// Start announces the run, selects the first destination and launches the
// tick loop.
func (s *Session) Start() error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.started = true

	cfg := s.opts.Game
	msg, err := ws.NewMessage(ws.TypeRunStarted, runStartedMessage{
		SessionID:           s.ID,
		Driver:              s.Driver,
		RunMode:             cfg.Mission.Mode.String(),
		TickRate:            int(time.Second / s.opts.TickInterval),
		RunDurationSec:      int(cfg.RunDuration / time.Second),
		MissionTimeLimitSec: cfg.Mission.MissionTimeLimit,
		DeliveryRadius:      cfg.Mission.DeliveryRadius,
		Minimap:             cfg.Minimap,
		Vehicle:             s.sim.VehiclePose(),
		Destinations:        s.destinations,
		Obstacles:           s.obstacles,
	})
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("encode run_started: %w", err)
	}
	s.client.SendMessage(msg)
	s.metrics.runStarted(cfg.Mission.Mode.String())

	s.sim.Start()
	state := s.snapshotLocked()
	over := s.sim.IsGameOver()
	if over {
		s.halt()
	} else {
		s.looping = true
		go s.loop()
	}
	pending := s.takePending()
	s.mu.Unlock()

	slog.Info("run started",
		"session", s.ID,
		"driver", s.Driver.Nickname,
		"destinations", len(s.destinations),
		"obstacles", len(s.obstacles),
	)
	s.flush(state, pending)
	return nil
}

// Stop ends the run early. It is safe to call more than once.
func (s *Session) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.quitting = true
	s.sim.End()
	s.halt()
	score := s.sim.MissionState().Score
	pending := s.takePending()
	s.mu.Unlock()

	slog.Info("run stopped", "session", s.ID, "driver", s.Driver.Nickname, "score", score)
	for _, msg := range pending {
		s.client.SendMessage(msg)
	}
}

// halt marks the session stopped and signals the loop. Caller must hold mu.
func (s *Session) halt() {
	s.stopped = true
	close(s.stopCh)
	if !s.looping {
		close(s.done)
	}
}

// Done is closed once the session has stopped ticking.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// IsRunning reports whether the tick loop is live.
func (s *Session) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started && !s.stopped
}

// ClientID returns the ID of the connection that owns this session.
func (s *Session) ClientID() string {
	return s.client.ID
}

// SubmitInput replaces the driver's held controls.
func (s *Session) SubmitInput(flags game.InputFlags) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sim.SubmitInput(flags)
}

// SetMinimapOrientation switches the minimap between north-up and
// heading-up.
func (s *Session) SetMinimapOrientation(o game.MinimapOrientation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sim.SetMinimapOrientation(o)
}

// RunState is the per-frame snapshot sent to the client.
type RunState struct {
	Tick       uint64               `json:"tick"`
	Vehicle    game.Pose            `json:"vehicle"`
	Boosting   bool                 `json:"boosting"`
	Mission    game.MissionSnapshot `json:"mission"`
	Bearing    game.Bearing         `json:"bearing"`
	Minimap    game.MinimapView     `json:"minimap"`
	Collisions int                  `json:"collisions"`
}

// Snapshot returns the current run state.
func (s *Session) Snapshot() RunState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() RunState {
	ticks, hits := s.sim.Stats()
	v := s.sim.Vehicle()
	return RunState{
		Tick:       ticks,
		Vehicle:    v.Pose(),
		Boosting:   v.Boosting,
		Mission:    s.sim.MissionState(),
		Bearing:    s.sim.BearingToDestination(),
		Minimap:    s.sim.Minimap(),
		Collisions: hits,
	}
}

func (s *Session) loop() {
	defer close(s.done)

	frame := time.NewTicker(s.opts.TickInterval)
	defer frame.Stop()
	clock := time.NewTicker(game.ClockInterval)
	defer clock.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-frame.C:
			if !s.step(func() { s.sim.Tick(s.opts.TickInterval) }) {
				return
			}
		case <-clock.C:
			if !s.step(s.sim.TickSecond) {
				return
			}
		}
	}
}

// step runs one simulation update under the lock and sends the resulting
// state. It returns false once the run is over.
func (s *Session) step(update func()) bool {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return false
	}
	update()
	state := s.snapshotLocked()
	over := s.sim.IsGameOver()
	if over {
		s.halt()
	}
	pending := s.takePending()
	s.mu.Unlock()

	s.flush(state, pending)
	if over {
		slog.Info("run ended",
			"session", s.ID,
			"driver", s.Driver.Nickname,
			"score", state.Mission.Score,
			"deliveries", state.Mission.Deliveries,
			"phase", state.Mission.Phase.String(),
		)
	}
	return !over
}

func (s *Session) takePending() []ws.Message {
	pending := s.pending
	s.pending = nil
	return pending
}

func (s *Session) flush(state RunState, pending []ws.Message) {
	msg, err := ws.NewMessage(ws.TypeRunState, state)
	if err != nil {
		slog.Error("failed to encode run state", "session", s.ID, "error", err)
	} else {
		s.client.SendMessage(msg)
	}
	for _, m := range pending {
		s.client.SendMessage(m)
	}
}

// emit queues a message. Caller must hold mu.
func (s *Session) emit(msgType string, payload any) {
	msg, err := ws.NewMessage(msgType, payload)
	if err != nil {
		slog.Error("failed to encode message", "type", msgType, "session", s.ID, "error", err)
		return
	}
	s.pending = append(s.pending, msg)
}

type deliveryCompletedMessage struct {
	Destination game.Destination `json:"destination"`
	Reward      int              `json:"reward"`
	Score       int              `json:"score"`
}

type missionExpiredMessage struct {
	Destination game.Destination `json:"destination"`
}

type gameOverMessage struct {
	Score       int    `json:"score"`
	Deliveries  int    `json:"deliveries"`
	AllComplete bool   `json:"all_complete"`
	BestScore   int    `json:"best_score"`
	Reason      string `json:"reason"`
}

// OnDeliveryCompleted implements game.MissionListener.
func (s *Session) OnDeliveryCompleted(dest *game.Destination, reward, score int) {
	slog.Info("delivery completed", "session", s.ID, "destination", dest.Name, "reward", reward, "score", score)
	s.metrics.delivered()
	s.emit(ws.TypeDeliveryCompleted, deliveryCompletedMessage{
		Destination: *dest,
		Reward:      reward,
		Score:       score,
	})
}

// OnMissionExpired implements game.MissionListener.
func (s *Session) OnMissionExpired(dest *game.Destination) {
	slog.Info("mission expired", "session", s.ID, "destination", dest.Name)
	s.metrics.expired()
	s.emit(ws.TypeMissionExpired, missionExpiredMessage{Destination: *dest})
}

// OnGameOver implements game.MissionListener.
func (s *Session) OnGameOver(finalScore int, allComplete bool) {
	s.Driver.RecordScore(finalScore)

	reason := "time_up"
	switch {
	case allComplete:
		reason = "all_complete"
	case s.quitting:
		reason = "ended"
	}
	s.metrics.runEnded(reason, finalScore)
	s.emit(ws.TypeGameOver, gameOverMessage{
		Score:       finalScore,
		Deliveries:  s.sim.MissionState().Deliveries,
		AllComplete: allComplete,
		BestScore:   s.Driver.BestScore,
		Reason:      reason,
	})
}
