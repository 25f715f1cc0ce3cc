package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Hub is the session gateway: it binds live websocket connections to a
// room and a player name, relays inbound actions into room transitions,
// and broadcasts the resulting events. The binding lives on the client,
// not in room state, so it is cleared on disconnect no matter what phase
// the room is in.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex

	registry *Registry
	results  *ResultsService
	geo      GeoClient
	validate *validator.Validate
}

type Client struct {
	hub    *Hub
	id     string
	socket *websocket.Conn
	send   chan []byte

	// roomID and playerName are written only through Hub.bindClient.
	// Cross-goroutine reads (relay, finishGame, the hub event loop) hold
	// the hub mutex; the client's own read goroutine may read directly.
	roomID     string
	playerName string
}

// Message is the JSON envelope for both directions of the websocket.
type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func NewHub(registry *Registry, results *ResultsService, geo GeoClient) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		registry:   registry,
		results:    results,
		geo:        geo,
		validate:   validator.New(),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.mutex.Unlock()
			log.Printf("Client connected: %s - Total clients: %d", client.id, h.clientCount())

		case client := <-h.unregister:
			h.mutex.Lock()
			_, known := h.clients[client]
			if known {
				delete(h.clients, client)
				close(client.send)
			}
			h.mutex.Unlock()
			if known {
				roomID, _ := h.clientBinding(client)
				log.Printf("Client disconnected: %s (room %q) - Total clients: %d", client.id, roomID, h.clientCount())
				h.handleDisconnect(client)
			}
		}
	}
}

func (h *Hub) clientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// bindClient attaches a client to a room under the hub mutex, so relays
// iterating the client set never observe a half-written binding.
func (h *Hub) bindClient(client *Client, roomID, playerName string) {
	h.mutex.Lock()
	client.roomID = roomID
	client.playerName = playerName
	h.mutex.Unlock()
}

func (h *Hub) clientBinding(client *Client) (roomID, playerName string) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return client.roomID, client.playerName
}

// RegisterClient wires a freshly upgraded connection into the hub and
// starts its pumps. The connection joins a room later, via a joinGame
// message.
func (h *Hub) RegisterClient(conn *websocket.Conn) *Client {
	client := &Client{
		hub:    h,
		id:     uuid.NewString(),
		socket: conn,
		send:   make(chan []byte, 256),
	}

	h.register <- client

	go client.writePump()
	go client.readPump()

	return client
}

// handleDisconnect releases the client's room binding: the player leaves,
// the remaining players are notified, and an emptied room is reaped from
// the registry regardless of phase.
func (h *Hub) handleDisconnect(client *Client) {
	roomID, _ := h.clientBinding(client)
	if roomID == "" {
		return
	}
	room, err := h.registry.Get(roomID)
	if err != nil {
		return
	}

	empty, events := room.Leave(client.id)
	if empty {
		log.Printf("Room %s is empty, removing", room.ID)
		h.registry.Remove(room.ID)
		return
	}
	h.relay(room, events)
}

// relay delivers room events to the right connection set. A gameFinished
// event is intercepted: the aggregation pipeline runs asynchronously and
// broadcasts the final payload itself.
func (h *Hub) relay(room *Room, events []Event) {
	for _, event := range events {
		if event.Type == EventGameFinished {
			go h.finishGame(room)
			continue
		}

		data, err := json.Marshal(Message{Type: event.Type, Payload: event.Payload})
		if err != nil {
			log.Printf("Error marshaling %s event for room %s: %v", event.Type, room.ID, err)
			continue
		}

		h.mutex.RLock()
		for client := range h.clients {
			if client.roomID != room.ID {
				continue
			}
			if event.To != "" && client.id != event.To {
				continue
			}
			if event.Exclude != "" && client.id == event.Exclude {
				continue
			}
			select {
			case client.send <- data:
			default:
				// Drop if the client's send buffer is full.
			}
		}
		h.mutex.RUnlock()
	}
}

func (h *Hub) finishGame(room *Room) {
	log.Printf("Room %s finished, computing results", room.ID)
	payload := h.results.Compute(context.Background(), room.Snapshot())

	data, err := json.Marshal(Message{Type: EventGameFinished, Payload: payload})
	if err != nil {
		log.Printf("Error marshaling results for room %s: %v", room.ID, err)
		return
	}

	h.mutex.RLock()
	for client := range h.clients {
		if client.roomID != room.ID {
			continue
		}
		select {
		case client.send <- data:
		default:
		}
	}
	h.mutex.RUnlock()
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.socket.Close()
	}()

	for {
		_, raw, err := c.socket.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			break
		}

		var msg inboundMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.sendError("Invalid message format.")
			continue
		}
		c.handleMessage(msg)
	}
}

func (c *Client) writePump() {
	defer c.socket.Close()

	for message := range c.send {
		w, err := c.socket.NextWriter(websocket.TextMessage)
		if err != nil {
			return
		}
		w.Write(message)
		if err := w.Close(); err != nil {
			return
		}
	}
	c.socket.WriteMessage(websocket.CloseMessage, []byte{})
}

func (c *Client) handleMessage(msg inboundMessage) {
	switch msg.Type {
	case "ping":
		c.sendMessage(Message{Type: "pong", Payload: "pong"})
	case "joinGame":
		c.handleJoin(msg.Payload)
	case "startGame":
		c.handleStart()
	case "answerQuestion":
		c.handleAnswer(msg.Payload)
	default:
		log.Printf("Unknown message type %q from client %s", msg.Type, c.id)
	}
}

type coordinates struct {
	Lat float64 `json:"lat" validate:"min=-90,max=90"`
	Lng float64 `json:"lng" validate:"min=-180,max=180"`
}

type joinPayload struct {
	RoomID     string       `json:"gameId" validate:"required"`
	PlayerName string       `json:"playerName" validate:"required"`
	Coords     *coordinates `json:"coords" validate:"required"`
	MaxBudget  float64      `json:"maxBudget" validate:"required,gt=0"`
}

func (c *Client) handleJoin(raw json.RawMessage) {
	var payload joinPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		c.sendError("Invalid joinGame payload.")
		return
	}
	if err := c.hub.validate.Struct(&payload); err != nil {
		c.sendError("Game ID, player name, coords and maxBudget are required.")
		return
	}
	if c.roomID != "" {
		c.sendError("You are already in a game.")
		return
	}

	room, err := c.hub.registry.Get(strings.ToUpper(payload.RoomID))
	if err != nil {
		c.sendError("Game not found.")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	originIata, err := c.hub.geo.NearestAirport(ctx, payload.Coords.Lat, payload.Coords.Lng)
	if err != nil {
		log.Printf("Origin lookup failed for client %s: %v", c.id, err)
		c.sendError("Could not resolve an origin airport for your location.")
		return
	}

	events, err := room.Join(c.id, payload.PlayerName, originIata, payload.MaxBudget)
	if err != nil {
		c.sendRoomError(err)
		return
	}

	c.hub.bindClient(c, room.ID, payload.PlayerName)
	log.Printf("Player %q (%s) joined room %s from %s", payload.PlayerName, c.id, room.ID, originIata)
	c.hub.relay(room, events)
}

func (c *Client) handleStart() {
	room, ok := c.boundRoom()
	if !ok {
		return
	}

	events, err := room.Start()
	if err != nil {
		c.sendRoomError(err)
		return
	}
	log.Printf("Room %s started by %q (%s)", room.ID, c.playerName, c.id)
	c.hub.relay(room, events)
}

type answerPayload struct {
	QuestionID        int   `json:"questionId" validate:"required"`
	SelectedOptionIDs []int `json:"selectedOptionIds"`
}

func (c *Client) handleAnswer(raw json.RawMessage) {
	room, ok := c.boundRoom()
	if !ok {
		return
	}

	var payload answerPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		c.sendError("Invalid answer format (expected array of numbers).")
		return
	}
	if err := c.hub.validate.Struct(&payload); err != nil {
		c.sendError("A question id is required.")
		return
	}

	events, err := room.SubmitAnswer(c.id, payload.QuestionID, payload.SelectedOptionIDs)
	if err != nil {
		c.sendRoomError(err)
		return
	}
	c.hub.relay(room, events)
}

// boundRoom resolves the client's room binding, notifying the client when
// it is missing or stale.
func (c *Client) boundRoom() (*Room, bool) {
	if c.roomID == "" {
		c.sendError("You must join a game first.")
		return nil, false
	}
	room, err := c.hub.registry.Get(c.roomID)
	if err != nil {
		c.sendError("Game not found.")
		return nil, false
	}
	return room, true
}

// sendRoomError maps a state machine error onto the user-facing message
// sent back to the acting connection only.
func (c *Client) sendRoomError(err error) {
	switch {
	case errors.Is(err, ErrWrongPhase):
		c.sendError("Game has already started or finished.")
	case errors.Is(err, ErrAlreadyJoined):
		c.sendError("You are already in this game.")
	case errors.Is(err, ErrNotJoined):
		c.sendError("Player not found in this game.")
	case errors.Is(err, ErrQuestionMismatch):
		c.sendError("Answer submitted for incorrect question.")
	case errors.Is(err, ErrDuplicateAnswer):
		c.sendError("You have already answered this question.")
	case errors.Is(err, ErrInvalidSelection):
		c.sendError("Invalid answer selection.")
	default:
		log.Printf("Unexpected room error for client %s: %v", c.id, err)
		c.sendError("Something went wrong.")
	}
}

func (c *Client) sendError(message string) {
	c.sendMessage(Message{Type: EventError, Payload: message})
}

func (c *Client) sendMessage(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}
