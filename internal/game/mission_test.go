package game

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingListener captures mission notifications for assertions.
type recordingListener struct {
	delivered []*Destination
	rewards   []int
	expired   []*Destination
	gameOvers []gameOverCall
}

type gameOverCall struct {
	score       int
	allComplete bool
}

func (l *recordingListener) OnDeliveryCompleted(dest *Destination, reward, _ int) {
	l.delivered = append(l.delivered, dest)
	l.rewards = append(l.rewards, reward)
}

func (l *recordingListener) OnMissionExpired(dest *Destination) {
	l.expired = append(l.expired, dest)
}

func (l *recordingListener) OnGameOver(score int, allComplete bool) {
	l.gameOvers = append(l.gameOvers, gameOverCall{score: score, allComplete: allComplete})
}

func testPool() []*Destination {
	return []*Destination{
		NewDestination("A", Vec3{X: 100, Z: 0}, 500),
		NewDestination("B", Vec3{X: -100, Z: 0}, 300),
		NewDestination("C", Vec3{X: 0, Z: 200}, 400),
	}
}

func newTestController(pool []*Destination, cfg MissionConfig) (*MissionController, *recordingListener) {
	l := &recordingListener{}
	m := NewMissionController(pool, cfg, rand.New(rand.NewSource(7)), l)
	return m, l
}

// deliverCurrent parks on the current destination and waits out the cooldown.
func deliverCurrent(t *testing.T, m *MissionController) *Destination {
	t.Helper()
	dest := m.State().CurrentDestination
	require.NotNil(t, dest)
	require.True(t, m.CheckArrival(dest.Position))
	m.Advance(m.cfg.DeliveryCooldown)
	return dest
}

func TestMissionController_StartSelectsDestination(t *testing.T) {
	pool := testPool()
	m, _ := newTestController(pool, DefaultMissionConfig())

	assert.Equal(t, PhaseIdle, m.State().Phase)
	m.Start()

	st := m.State()
	assert.Equal(t, PhaseActive, st.Phase)
	require.NotNil(t, st.CurrentDestination)
	assert.Contains(t, pool, st.CurrentDestination)
	assert.Equal(t, MissionTimeLimit, st.MissionSecondsLeft)
	assert.False(t, st.IsGameOver)
	assert.Equal(t, 0, st.Score)
}

func TestMissionController_StartTwiceIsNoop(t *testing.T) {
	m, _ := newTestController(testPool(), DefaultMissionConfig())
	m.Start()
	first := m.State().CurrentDestination

	m.Start()
	assert.Same(t, first, m.State().CurrentDestination)
}

func TestMissionController_ArrivalDebounce(t *testing.T) {
	m, l := newTestController(testPool(), DefaultMissionConfig())
	m.Start()
	dest := m.State().CurrentDestination

	assert.True(t, m.CheckArrival(dest.Position))
	for i := 0; i < 50; i++ {
		assert.False(t, m.CheckArrival(dest.Position), "tick %d", i)
	}

	st := m.State()
	assert.Equal(t, dest.RewardPoints, st.Score, "reward awarded exactly once")
	assert.Equal(t, 1, st.Deliveries)
	assert.True(t, st.IsDelivering)
	assert.Equal(t, PhaseDelivered, st.Phase)
	assert.True(t, dest.IsCompleted)
	require.Len(t, l.delivered, 1)
	assert.Same(t, dest, l.delivered[0])
	assert.Equal(t, []int{dest.RewardPoints}, l.rewards)
}

func TestMissionController_CooldownThenNextDestination(t *testing.T) {
	m, _ := newTestController(testPool(), DefaultMissionConfig())
	m.Start()
	dest := m.State().CurrentDestination
	require.True(t, m.CheckArrival(dest.Position))

	m.Advance(time.Second)
	assert.True(t, m.State().IsDelivering, "still inside the cooldown window")
	assert.Same(t, dest, m.State().CurrentDestination)

	m.Advance(600 * time.Millisecond)
	st := m.State()
	assert.False(t, st.IsDelivering)
	assert.Equal(t, PhaseActive, st.Phase)
	require.NotNil(t, st.CurrentDestination)
	assert.NotSame(t, dest, st.CurrentDestination)
	assert.False(t, st.CurrentDestination.IsCompleted)
}

func TestMissionController_NoDeliveryOutsideRadius(t *testing.T) {
	m, l := newTestController(testPool(), DefaultMissionConfig())
	m.Start()
	dest := m.State().CurrentDestination

	far := dest.Position.Add(Vec3{X: DeliveryRadius + 1})
	assert.False(t, m.CheckArrival(far))
	assert.Equal(t, 0, m.State().Score)
	assert.Empty(t, l.delivered)
}

func TestMissionController_FiniteExhaustion(t *testing.T) {
	pool := testPool()
	m, l := newTestController(pool, DefaultMissionConfig())
	m.Start()

	total := 0
	for range pool {
		total += deliverCurrent(t, m).RewardPoints
	}

	st := m.State()
	assert.Equal(t, PhaseAllComplete, st.Phase)
	assert.Nil(t, st.CurrentDestination)
	assert.True(t, st.IsGameOver)
	assert.Equal(t, total, st.Score)
	assert.Equal(t, len(pool), st.Deliveries)
	require.Len(t, l.gameOvers, 1)
	assert.Equal(t, gameOverCall{score: total, allComplete: true}, l.gameOvers[0])
}

func TestMissionController_AllCompletedAtStart(t *testing.T) {
	pool := testPool()
	for _, d := range pool {
		d.IsCompleted = true
	}
	m, l := newTestController(pool, DefaultMissionConfig())

	assert.NotPanics(t, m.Start)
	st := m.State()
	assert.Equal(t, PhaseAllComplete, st.Phase)
	assert.Nil(t, st.CurrentDestination)
	assert.True(t, st.IsGameOver)
	assert.Len(t, l.gameOvers, 1)
}

func TestMissionController_EmptyPool(t *testing.T) {
	m, _ := newTestController(nil, DefaultMissionConfig())

	assert.NotPanics(t, m.Start)
	assert.Equal(t, PhaseAllComplete, m.State().Phase)
	assert.False(t, m.CheckArrival(Vec3{}))
	assert.NotPanics(t, func() {
		m.Advance(time.Second)
		m.OnSecond()
		m.End()
	})
}

func TestMissionController_EndlessModeNeverExhausts(t *testing.T) {
	pool := testPool()
	cfg := DefaultMissionConfig()
	cfg.Mode = ModeEndless
	m, _ := newTestController(pool, cfg)
	m.Start()

	for i := 0; i < 10; i++ {
		prev := deliverCurrent(t, m)
		assert.False(t, prev.IsCompleted)
		assert.NotSame(t, prev, m.State().CurrentDestination, "delivery %d", i)
	}

	st := m.State()
	assert.Equal(t, PhaseActive, st.Phase)
	assert.False(t, st.IsGameOver)
	assert.Equal(t, 10, st.Deliveries)
}

func TestMissionController_Expiry(t *testing.T) {
	cfg := DefaultMissionConfig()
	cfg.MissionTimeLimit = 3
	m, l := newTestController(testPool(), cfg)
	m.Start()
	dest := m.State().CurrentDestination

	m.OnSecond()
	m.OnSecond()
	assert.Equal(t, 1, m.State().MissionSecondsLeft)
	assert.Empty(t, l.expired)

	m.OnSecond()
	st := m.State()
	require.Len(t, l.expired, 1)
	assert.Same(t, dest, l.expired[0])
	assert.Equal(t, 0, st.Score, "no reward for an expired mission")
	assert.False(t, dest.IsCompleted)
	assert.False(t, st.IsGameOver, "expiry does not end the run")
	assert.Equal(t, PhaseActive, st.Phase)
	assert.NotSame(t, dest, st.CurrentDestination)
	assert.Equal(t, 3, st.MissionSecondsLeft)
}

func TestMissionController_ExpiryWithSingleDestination(t *testing.T) {
	cfg := DefaultMissionConfig()
	cfg.MissionTimeLimit = 1
	only := NewDestination("Only", Vec3{X: 50}, 100)
	m, l := newTestController([]*Destination{only}, cfg)
	m.Start()

	m.OnSecond()
	assert.Len(t, l.expired, 1)
	assert.Same(t, only, m.State().CurrentDestination, "the only destination is re-selected")
}

func TestMissionController_ExpiryPausedWhileDelivering(t *testing.T) {
	cfg := DefaultMissionConfig()
	cfg.MissionTimeLimit = 1
	m, l := newTestController(testPool(), cfg)
	m.Start()
	require.True(t, m.CheckArrival(m.State().CurrentDestination.Position))

	m.OnSecond()
	assert.Empty(t, l.expired)
}

func TestMissionController_ExpiryDisabled(t *testing.T) {
	cfg := DefaultMissionConfig()
	cfg.MissionTimeLimit = 0
	m, l := newTestController(testPool(), cfg)
	m.Start()
	dest := m.State().CurrentDestination

	for i := 0; i < 500; i++ {
		m.OnSecond()
	}
	assert.Empty(t, l.expired)
	assert.Same(t, dest, m.State().CurrentDestination)
}

func TestMissionController_EndIsTerminal(t *testing.T) {
	m, l := newTestController(testPool(), DefaultMissionConfig())
	m.Start()
	dest := m.State().CurrentDestination

	m.End()
	m.End()

	st := m.State()
	assert.True(t, st.IsGameOver)
	assert.Equal(t, PhaseGameOver, st.Phase)
	require.Len(t, l.gameOvers, 1)
	assert.False(t, l.gameOvers[0].allComplete)

	assert.False(t, m.CheckArrival(dest.Position))
	m.OnSecond()
	m.Advance(time.Minute)
	assert.Equal(t, 0, m.State().Score)
	assert.Empty(t, l.expired)
}

func TestMissionController_SelectionCoversPool(t *testing.T) {
	pool := testPool()
	seen := make(map[string]bool)
	for seed := int64(0); seed < 50; seed++ {
		m := NewMissionController(pool, DefaultMissionConfig(), rand.New(rand.NewSource(seed)), nil)
		m.Start()
		seen[m.State().CurrentDestination.Name] = true
	}
	assert.Len(t, seen, len(pool))
}
