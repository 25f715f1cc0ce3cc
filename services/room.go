package services

import (
	"log"
	"sync"
	"time"
)

// Option is a single choice for a question.
type Option struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

// Question is one entry of a room's catalog. Catalogs are built once at
// room creation and never mutated afterwards.
type Question struct {
	ID            int      `json:"id"`
	Text          string   `json:"text"`
	Options       []Option `json:"options"`
	AllowMultiple bool     `json:"allowMultiple"`
}

// PlayerAnswer records one submission. There is exactly one per
// (player, question) pair; a second submission is rejected, not merged.
type PlayerAnswer struct {
	QuestionID        int       `json:"questionId"`
	SelectedOptionIDs []int     `json:"selectedOptionIds"`
	SubmittedAt       time.Time `json:"submittedAt"`
}

// Player is a participant keyed by its websocket connection id.
type Player struct {
	ConnectionID string         `json:"-"`
	Name         string         `json:"name"`
	OriginIata   string         `json:"originIata"`
	MaxBudget    float64        `json:"maxBudget"`
	Answers      []PlayerAnswer `json:"answers"`
}

// TripConstraints is the travel window captured at room creation and
// handed to flight pricing.
type TripConstraints struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type Phase int

const (
	PhaseWaiting Phase = iota
	PhasePlaying
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseWaiting:
		return "waiting"
	case PhasePlaying:
		return "playing"
	case PhaseFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Event is a broadcast-worthy state change produced by a room mutation.
// The hub decides delivery: To targets a single connection, Exclude skips
// one connection, otherwise the whole room receives it. Room methods only
// return events; they never touch the network themselves.
type Event struct {
	Type    string
	To      string
	Exclude string
	Payload map[string]any
}

const (
	EventJoinSuccess    = "joinSuccess"
	EventPlayerJoined   = "playerJoined"
	EventGameStarted    = "gameStarted"
	EventNewQuestion    = "newQuestion"
	EventPlayerAnswered = "playerAnswered"
	EventPlayerLeft     = "playerLeft"
	EventGameFinished   = "gameFinished"
	EventError          = "error"
)

// Room is one game instance. All mutations are serialized by the room
// mutex, so two concurrent last-answers cannot both trigger advancement.
type Room struct {
	ID string

	mu          sync.Mutex
	catalog     []Question
	cursor      int
	phase       Phase
	players     map[string]*Player
	constraints TripConstraints
	createdAt   time.Time
}

func newRoom(id string, catalog []Question, constraints TripConstraints) *Room {
	return &Room{
		ID:          id,
		catalog:     catalog,
		phase:       PhaseWaiting,
		players:     make(map[string]*Player),
		constraints: constraints,
		createdAt:   time.Now(),
	}
}

// Join adds a player while the room is waiting. The returned events carry
// the updated player set for broadcast.
func (r *Room) Join(connectionID, name, originIata string, maxBudget float64) ([]Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase != PhaseWaiting {
		return nil, ErrWrongPhase
	}
	if _, ok := r.players[connectionID]; ok {
		return nil, ErrAlreadyJoined
	}

	r.players[connectionID] = &Player{
		ConnectionID: connectionID,
		Name:         name,
		OriginIata:   originIata,
		MaxBudget:    maxBudget,
		Answers:      []PlayerAnswer{},
	}

	players := r.playersView()
	return []Event{
		{
			Type:    EventJoinSuccess,
			To:      connectionID,
			Payload: map[string]any{"gameId": r.ID, "players": players, "state": r.phase.String()},
		},
		{
			Type:    EventPlayerJoined,
			Exclude: connectionID,
			Payload: map[string]any{"playerId": connectionID, "playerName": name, "players": players},
		},
	}, nil
}

// Start moves the room into the playing phase and emits the first
// question. It requires at least one joined player.
func (r *Room) Start() ([]Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase != PhaseWaiting || len(r.players) == 0 {
		return nil, ErrWrongPhase
	}

	r.phase = PhasePlaying
	r.cursor = 0

	events := []Event{{Type: EventGameStarted, Payload: map[string]any{"state": r.phase.String()}}}
	return append(events, r.advance()...), nil
}

// SubmitAnswer records a player's answer to the question most recently
// emitted. When every current player has answered it, the room advances.
func (r *Room) SubmitAnswer(connectionID string, questionID int, selectedOptionIDs []int) ([]Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase != PhasePlaying {
		return nil, ErrWrongPhase
	}
	player, ok := r.players[connectionID]
	if !ok {
		return nil, ErrNotJoined
	}
	if r.cursor == 0 || r.catalog[r.cursor-1].ID != questionID {
		return nil, ErrQuestionMismatch
	}
	for _, answer := range player.Answers {
		if answer.QuestionID == questionID {
			return nil, ErrDuplicateAnswer
		}
	}
	question := r.catalog[r.cursor-1]
	if err := validateSelection(question, selectedOptionIDs); err != nil {
		return nil, err
	}

	player.Answers = append(player.Answers, PlayerAnswer{
		QuestionID:        questionID,
		SelectedOptionIDs: selectedOptionIDs,
		SubmittedAt:       time.Now(),
	})

	events := []Event{{
		Type:    EventPlayerAnswered,
		Payload: map[string]any{"playerId": connectionID, "playerName": player.Name, "questionId": questionID},
	}}
	if r.allAnswered(questionID) {
		events = append(events, r.advance()...)
	}
	return events, nil
}

// Leave removes the player bound to connectionID, in any phase. It is a
// no-op for unknown connections so disconnect handling stays idempotent.
// The boolean reports whether the room is now empty and should be reaped.
func (r *Room) Leave(connectionID string) (bool, []Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	player, ok := r.players[connectionID]
	if !ok {
		return len(r.players) == 0, nil
	}
	delete(r.players, connectionID)
	if len(r.players) == 0 {
		return true, nil
	}

	events := []Event{{
		Type:    EventPlayerLeft,
		Payload: map[string]any{"playerId": connectionID, "playerName": player.Name, "players": r.playersView()},
	}}

	// The departed player no longer counts towards the completion gate, so
	// the remaining players may already have finished the current question.
	if r.phase == PhasePlaying && r.cursor >= 1 {
		if r.allAnswered(r.catalog[r.cursor-1].ID) {
			events = append(events, r.advance()...)
		}
	}
	return false, events
}

// advance emits the question at the cursor, or finishes the game once the
// catalog is exhausted. Callers must hold the room mutex.
func (r *Room) advance() []Event {
	if r.phase != PhasePlaying {
		// Programming error: advancement outside the playing phase.
		log.Printf("advance called on room %s in phase %s", r.ID, r.phase)
		return nil
	}

	if r.cursor >= len(r.catalog) {
		r.phase = PhaseFinished
		return []Event{{Type: EventGameFinished}}
	}

	question := r.catalog[r.cursor]
	event := Event{
		Type: EventNewQuestion,
		Payload: map[string]any{
			"index":         r.cursor,
			"id":            question.ID,
			"text":          question.Text,
			"options":       question.Options,
			"allowMultiple": question.AllowMultiple,
		},
	}
	r.cursor++
	return []Event{event}
}

// allAnswered re-derives the gate from the live player map rather than a
// roster snapshot, so disconnected players cannot stall the game.
func (r *Room) allAnswered(questionID int) bool {
	for _, player := range r.players {
		answered := false
		for _, answer := range player.Answers {
			if answer.QuestionID == questionID {
				answered = true
				break
			}
		}
		if !answered {
			return false
		}
	}
	return true
}

func validateSelection(question Question, selected []int) error {
	if len(selected) == 0 {
		return ErrInvalidSelection
	}
	if !question.AllowMultiple && len(selected) > 1 {
		return ErrInvalidSelection
	}
	seen := make(map[int]bool, len(selected))
	for _, optionID := range selected {
		if seen[optionID] {
			return ErrInvalidSelection
		}
		seen[optionID] = true
		known := false
		for _, option := range question.Options {
			if option.ID == optionID {
				known = true
				break
			}
		}
		if !known {
			return ErrInvalidSelection
		}
	}
	return nil
}

// playersView returns a deep copy of the player set safe to marshal after
// the room mutex is released. Callers must hold the room mutex.
func (r *Room) playersView() map[string]Player {
	view := make(map[string]Player, len(r.players))
	for id, player := range r.players {
		copied := *player
		copied.Answers = append([]PlayerAnswer(nil), player.Answers...)
		view[id] = copied
	}
	return view
}

// RoomSnapshot is an immutable copy of room state handed to the results
// aggregator and the HTTP summary endpoint.
type RoomSnapshot struct {
	ID          string
	Phase       Phase
	Catalog     []Question
	Players     map[string]Player
	Constraints TripConstraints
}

func (r *Room) Snapshot() RoomSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	return RoomSnapshot{
		ID:          r.ID,
		Phase:       r.phase,
		Catalog:     r.catalog,
		Players:     r.playersView(),
		Constraints: r.constraints,
	}
}

func (r *Room) Phase() Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.phase
}

func (r *Room) PlayerCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.players)
}
