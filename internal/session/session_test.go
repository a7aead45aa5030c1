package session

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ugaemi/citycourier-server/internal/game"
	"github.com/ugaemi/citycourier-server/internal/ws"
)

// mockClient creates a ws.Client with a buffered Send channel for testing.
func mockClient(id string) *ws.Client {
	return &ws.Client{
		ID:   id,
		Send: make(chan []byte, 1024),
	}
}

// drainMessages reads all pending messages from a client's send channel.
func drainMessages(client *ws.Client) []ws.Message {
	var msgs []ws.Message
	for {
		select {
		case data := <-client.Send:
			var msg ws.Message
			if err := json.Unmarshal(data, &msg); err == nil {
				msgs = append(msgs, msg)
			}
		default:
			return msgs
		}
	}
}

// findMessageByType finds the first message of a given type.
func findMessageByType(msgs []ws.Message, msgType string) *ws.Message {
	for _, m := range msgs {
		if m.Type == msgType {
			return &m
		}
	}
	return nil
}

func countMessagesByType(msgs []ws.Message, msgType string) int {
	n := 0
	for _, m := range msgs {
		if m.Type == msgType {
			n++
		}
	}
	return n
}

func testOptions() Options {
	opts := DefaultOptions()
	opts.Seed = 42
	return opts
}

func waitDone(t *testing.T, s *Session, timeout time.Duration) {
	t.Helper()
	select {
	case <-s.Done():
	case <-time.After(timeout):
		t.Fatal("session did not stop in time")
	}
}

func TestSession_StartAnnouncesRun(t *testing.T) {
	client := mockClient("client1")
	s := New(game.NewDriver("courier"), client, testOptions())
	require.NoError(t, s.Start())
	defer s.Stop()

	msgs := drainMessages(client)
	require.NotEmpty(t, msgs)
	assert.Equal(t, ws.TypeRunStarted, msgs[0].Type)

	var started runStartedMessage
	require.NoError(t, json.Unmarshal(msgs[0].Data, &started))
	assert.Equal(t, s.ID, started.SessionID)
	assert.Equal(t, "courier", started.Driver.Nickname)
	assert.Equal(t, "finite", started.RunMode)
	assert.Equal(t, 60, started.TickRate)
	assert.Equal(t, 120, started.RunDurationSec)
	assert.Len(t, started.Destinations, 5)
	assert.NotEmpty(t, started.Obstacles)

	state := findMessageByType(msgs, ws.TypeRunState)
	require.NotNil(t, state)
	var rs RunState
	require.NoError(t, json.Unmarshal(state.Data, &rs))
	assert.NotNil(t, rs.Mission.CurrentDestination)
	assert.True(t, rs.Bearing.Visible)
	assert.Equal(t, 120, rs.Mission.TimeRemainingSeconds)
}

func TestSession_StartTwice(t *testing.T) {
	s := New(game.NewDriver("courier"), mockClient("client1"), testOptions())
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.ErrorIs(t, s.Start(), ErrAlreadyStarted)
}

func TestSession_LoopBroadcastsState(t *testing.T) {
	client := mockClient("client1")
	s := New(game.NewDriver("courier"), client, testOptions())
	require.NoError(t, s.Start())
	defer s.Stop()

	time.Sleep(200 * time.Millisecond)
	assert.True(t, s.IsRunning())
	assert.Greater(t, s.Snapshot().Tick, uint64(0))

	msgs := drainMessages(client)
	assert.Greater(t, countMessagesByType(msgs, ws.TypeRunState), 2)
}

func TestSession_SubmitInputDrives(t *testing.T) {
	s := New(game.NewDriver("courier"), mockClient("client1"), testOptions())
	require.NoError(t, s.Start())
	defer s.Stop()

	s.SubmitInput(game.InputFlags{Forward: true})
	time.Sleep(300 * time.Millisecond)

	rs := s.Snapshot()
	assert.Greater(t, rs.Vehicle.Speed, 0.0)
	assert.Greater(t, rs.Vehicle.Position.Z, game.SpawnZ)
}

func TestSession_SetMinimapOrientation(t *testing.T) {
	s := New(game.NewDriver("courier"), mockClient("client1"), testOptions())
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Equal(t, game.NorthLocked, s.Snapshot().Minimap.Orientation)
	s.SetMinimapOrientation(game.HeadingLocked)
	assert.Equal(t, game.HeadingLocked, s.Snapshot().Minimap.Orientation)
}

func TestSession_RunClockEndsRun(t *testing.T) {
	opts := testOptions()
	opts.Game.RunDuration = time.Second
	client := mockClient("client1")
	driver := game.NewDriver("courier")
	s := New(driver, client, opts)
	require.NoError(t, s.Start())

	waitDone(t, s, 3*time.Second)
	assert.False(t, s.IsRunning())

	msgs := drainMessages(client)
	over := findMessageByType(msgs, ws.TypeGameOver)
	require.NotNil(t, over)
	var payload gameOverMessage
	require.NoError(t, json.Unmarshal(over.Data, &payload))
	assert.Equal(t, "time_up", payload.Reason)
	assert.False(t, payload.AllComplete)
	assert.Equal(t, 1, countMessagesByType(msgs, ws.TypeGameOver))

	// The final snapshot precedes the game over notice.
	assert.Equal(t, ws.TypeGameOver, msgs[len(msgs)-1].Type)
	var last RunState
	require.NoError(t, json.Unmarshal(msgs[len(msgs)-2].Data, &last))
	assert.True(t, last.Mission.IsGameOver)
	assert.Equal(t, 0, last.Mission.TimeRemainingSeconds)
}

func TestSession_StopIsIdempotent(t *testing.T) {
	client := mockClient("client1")
	s := New(game.NewDriver("courier"), client, testOptions())
	require.NoError(t, s.Start())

	s.Stop()
	s.Stop()
	waitDone(t, s, time.Second)
	assert.False(t, s.IsRunning())

	msgs := drainMessages(client)
	require.Equal(t, 1, countMessagesByType(msgs, ws.TypeGameOver))
	var payload gameOverMessage
	require.NoError(t, json.Unmarshal(findMessageByType(msgs, ws.TypeGameOver).Data, &payload))
	assert.Equal(t, "ended", payload.Reason)
}

func TestSession_StopBeforeStart(t *testing.T) {
	s := New(game.NewDriver("courier"), mockClient("client1"), testOptions())
	s.Stop()

	waitDone(t, s, time.Second)
	assert.ErrorIs(t, s.Start(), ErrAlreadyStarted)
}

func TestSession_EmptyPoolEndsImmediately(t *testing.T) {
	opts := testOptions()
	opts.Layout = LayoutScatter
	opts.DestinationCount = 0
	client := mockClient("client1")
	s := New(game.NewDriver("courier"), client, opts)

	require.NoError(t, s.Start())
	waitDone(t, s, time.Second)

	msgs := drainMessages(client)
	over := findMessageByType(msgs, ws.TypeGameOver)
	require.NotNil(t, over)
	var payload gameOverMessage
	require.NoError(t, json.Unmarshal(over.Data, &payload))
	assert.True(t, payload.AllComplete)
	assert.Equal(t, "all_complete", payload.Reason)
}

func TestSession_ListenerQueuesMessages(t *testing.T) {
	driver := game.NewDriver("courier")
	s := New(driver, mockClient("client1"), testOptions())
	dest := game.NewDestination("UB City", game.Vec3{X: 80, Z: -120}, 400)

	s.OnDeliveryCompleted(dest, 400, 400)
	s.OnMissionExpired(dest)
	s.OnGameOver(400, false)

	pending := s.takePending()
	require.Len(t, pending, 3)
	assert.Equal(t, ws.TypeDeliveryCompleted, pending[0].Type)
	assert.Equal(t, ws.TypeMissionExpired, pending[1].Type)
	assert.Equal(t, ws.TypeGameOver, pending[2].Type)

	var delivered deliveryCompletedMessage
	require.NoError(t, json.Unmarshal(pending[0].Data, &delivered))
	assert.Equal(t, "UB City", delivered.Destination.Name)
	assert.Equal(t, 400, delivered.Reward)

	assert.Equal(t, 400, driver.BestScore)
	assert.Empty(t, s.takePending())
}

func TestSession_StopDropsMessagesForClosedClient(t *testing.T) {
	client := mockClient("client1")
	s := New(game.NewDriver("courier"), client, testOptions())
	require.NoError(t, s.Start())

	client.Close()
	assert.NotPanics(t, s.Stop)
	waitDone(t, s, time.Second)
}
