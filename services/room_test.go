package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog(n int) []Question {
	catalog := make([]Question, n)
	for i := 0; i < n; i++ {
		catalog[i] = Question{
			ID:   i + 1,
			Text: "question",
			Options: []Option{
				{ID: (i+1)*100 + 1, Text: "A"},
				{ID: (i+1)*100 + 2, Text: "B"},
			},
		}
	}
	return catalog
}

func testRoom(t *testing.T, n int) *Room {
	t.Helper()
	return newRoom("ROOM01", testCatalog(n), TripConstraints{StartDate: "2026-06-01", EndDate: "2026-06-08"})
}

func eventTypes(events []Event) []string {
	types := make([]string, len(events))
	for i, event := range events {
		types[i] = event.Type
	}
	return types
}

func mustJoin(t *testing.T, room *Room, connID, name string) {
	t.Helper()
	_, err := room.Join(connID, name, "BCN", 500)
	require.NoError(t, err)
}

func TestJoinEmitsTargetedEvents(t *testing.T) {
	room := testRoom(t, 1)

	events, err := room.Join("conn-1", "alice", "BCN", 500)
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, EventJoinSuccess, events[0].Type)
	assert.Equal(t, "conn-1", events[0].To)
	assert.Equal(t, EventPlayerJoined, events[1].Type)
	assert.Equal(t, "conn-1", events[1].Exclude)
}

func TestJoinDuplicateConnection(t *testing.T) {
	room := testRoom(t, 1)
	mustJoin(t, room, "conn-1", "alice")

	_, err := room.Join("conn-1", "alice", "BCN", 500)
	assert.ErrorIs(t, err, ErrAlreadyJoined)
}

func TestJoinAfterStartFails(t *testing.T) {
	room := testRoom(t, 1)
	mustJoin(t, room, "conn-1", "alice")

	_, err := room.Start()
	require.NoError(t, err)

	_, err = room.Join("conn-2", "bob", "MAD", 500)
	assert.ErrorIs(t, err, ErrWrongPhase)
}

func TestStartRequiresPlayers(t *testing.T) {
	room := testRoom(t, 1)

	_, err := room.Start()
	assert.ErrorIs(t, err, ErrWrongPhase)
}

func TestStartTwiceFails(t *testing.T) {
	room := testRoom(t, 2)
	mustJoin(t, room, "conn-1", "alice")

	_, err := room.Start()
	require.NoError(t, err)

	_, err = room.Start()
	assert.ErrorIs(t, err, ErrWrongPhase)
}

func TestStartEmitsFirstQuestion(t *testing.T) {
	room := testRoom(t, 2)
	mustJoin(t, room, "conn-1", "alice")

	events, err := room.Start()
	require.NoError(t, err)
	require.Equal(t, []string{EventGameStarted, EventNewQuestion}, eventTypes(events))

	assert.Equal(t, 1, events[1].Payload["id"])
	assert.Equal(t, 0, events[1].Payload["index"])
	assert.Equal(t, PhasePlaying, room.Phase())
}

func TestSubmitAnswerBeforeStart(t *testing.T) {
	room := testRoom(t, 1)
	mustJoin(t, room, "conn-1", "alice")

	_, err := room.SubmitAnswer("conn-1", 1, []int{101})
	assert.ErrorIs(t, err, ErrWrongPhase)
}

func TestSubmitAnswerUnknownPlayer(t *testing.T) {
	room := testRoom(t, 1)
	mustJoin(t, room, "conn-1", "alice")
	_, err := room.Start()
	require.NoError(t, err)

	_, err = room.SubmitAnswer("conn-2", 1, []int{101})
	assert.ErrorIs(t, err, ErrNotJoined)
}

func TestSubmitAnswerQuestionMismatch(t *testing.T) {
	room := testRoom(t, 2)
	mustJoin(t, room, "conn-1", "alice")
	_, err := room.Start()
	require.NoError(t, err)

	_, err = room.SubmitAnswer("conn-1", 2, []int{201})
	assert.ErrorIs(t, err, ErrQuestionMismatch)
}

func TestSubmitAnswerInvalidSelections(t *testing.T) {
	room := testRoom(t, 1)
	mustJoin(t, room, "conn-1", "alice")
	_, err := room.Start()
	require.NoError(t, err)

	cases := map[string][]int{
		"empty":            {},
		"unknown option":   {999},
		"duplicate option": {101, 101},
		"multiple options": {101, 102}, // question does not allow multiple
	}
	for name, selection := range cases {
		_, err := room.SubmitAnswer("conn-1", 1, selection)
		assert.ErrorIs(t, err, ErrInvalidSelection, name)
	}
}

func TestSubmitAnswerDuplicateRejected(t *testing.T) {
	room := testRoom(t, 2)
	mustJoin(t, room, "conn-1", "alice")
	mustJoin(t, room, "conn-2", "bob")
	_, err := room.Start()
	require.NoError(t, err)

	_, err = room.SubmitAnswer("conn-1", 1, []int{101})
	require.NoError(t, err)

	_, err = room.SubmitAnswer("conn-1", 1, []int{102})
	assert.ErrorIs(t, err, ErrDuplicateAnswer)

	snapshot := room.Snapshot()
	assert.Len(t, snapshot.Players["conn-1"].Answers, 1)
	assert.Equal(t, []int{101}, snapshot.Players["conn-1"].Answers[0].SelectedOptionIDs)
}

func TestAdvanceWaitsForAllPlayers(t *testing.T) {
	room := testRoom(t, 2)
	mustJoin(t, room, "conn-1", "alice")
	mustJoin(t, room, "conn-2", "bob")
	_, err := room.Start()
	require.NoError(t, err)

	events, err := room.SubmitAnswer("conn-1", 1, []int{101})
	require.NoError(t, err)
	assert.Equal(t, []string{EventPlayerAnswered}, eventTypes(events))

	events, err = room.SubmitAnswer("conn-2", 1, []int{102})
	require.NoError(t, err)
	assert.Equal(t, []string{EventPlayerAnswered, EventNewQuestion}, eventTypes(events))
	assert.Equal(t, 2, events[1].Payload["id"])
}

func TestLastAnswerFinishesGame(t *testing.T) {
	room := testRoom(t, 1)
	mustJoin(t, room, "conn-1", "alice")
	mustJoin(t, room, "conn-2", "bob")
	_, err := room.Start()
	require.NoError(t, err)

	_, err = room.SubmitAnswer("conn-1", 1, []int{101})
	require.NoError(t, err)

	events, err := room.SubmitAnswer("conn-2", 1, []int{102})
	require.NoError(t, err)
	assert.Equal(t, []string{EventPlayerAnswered, EventGameFinished}, eventTypes(events))
	assert.Equal(t, PhaseFinished, room.Phase())
}

func TestFullRoundTripIsDeterministic(t *testing.T) {
	const questions = 3
	players := []string{"conn-1", "conn-2", "conn-3"}

	room := testRoom(t, questions)
	for i, connID := range players {
		_, err := room.Join(connID, string(rune('a'+i)), "BCN", 500)
		require.NoError(t, err)
	}

	_, err := room.Start()
	require.NoError(t, err)

	advancements := 0
	for q := 1; q <= questions; q++ {
		for _, connID := range players {
			events, err := room.SubmitAnswer(connID, q, []int{q*100 + 1})
			require.NoError(t, err)
			for _, event := range events {
				if event.Type == EventNewQuestion || event.Type == EventGameFinished {
					advancements++
				}
			}
		}
	}

	assert.Equal(t, questions, advancements)
	assert.Equal(t, PhaseFinished, room.Phase())
}

func TestLeaveUnblocksAdvancement(t *testing.T) {
	room := testRoom(t, 2)
	mustJoin(t, room, "conn-1", "alice")
	mustJoin(t, room, "conn-2", "bob")
	_, err := room.Start()
	require.NoError(t, err)

	_, err = room.SubmitAnswer("conn-1", 1, []int{101})
	require.NoError(t, err)

	// bob never answers; his departure must not stall the game.
	empty, events := room.Leave("conn-2")
	assert.False(t, empty)
	assert.Equal(t, []string{EventPlayerLeft, EventNewQuestion}, eventTypes(events))
}

func TestLeaveOfLastUnansweredPlayerFinishes(t *testing.T) {
	room := testRoom(t, 1)
	mustJoin(t, room, "conn-1", "alice")
	mustJoin(t, room, "conn-2", "bob")
	_, err := room.Start()
	require.NoError(t, err)

	_, err = room.SubmitAnswer("conn-1", 1, []int{101})
	require.NoError(t, err)

	_, events := room.Leave("conn-2")
	assert.Equal(t, []string{EventPlayerLeft, EventGameFinished}, eventTypes(events))
	assert.Equal(t, PhaseFinished, room.Phase())
}

func TestLeaveIsIdempotent(t *testing.T) {
	room := testRoom(t, 1)
	mustJoin(t, room, "conn-1", "alice")

	empty, events := room.Leave("unknown")
	assert.False(t, empty)
	assert.Empty(t, events)

	empty, _ = room.Leave("conn-1")
	assert.True(t, empty)

	empty, events = room.Leave("conn-1")
	assert.True(t, empty)
	assert.Empty(t, events)
}

func TestSnapshotIsACopy(t *testing.T) {
	room := testRoom(t, 1)
	mustJoin(t, room, "conn-1", "alice")

	snapshot := room.Snapshot()
	_, err := room.Start()
	require.NoError(t, err)
	_, err = room.SubmitAnswer("conn-1", 1, []int{101})
	require.NoError(t, err)

	assert.Equal(t, PhaseWaiting, snapshot.Phase)
	assert.Empty(t, snapshot.Players["conn-1"].Answers)
}
