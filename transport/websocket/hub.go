package websocket

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/wricardo/lost-cities-scorer/game/form"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4096
)

// Outgoing event names
const (
	EventViewUpdate = "view_update"
	EventError      = "error"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Message represents a WebSocket message.
// ClientID names the client whose event produced the message and Seq echoes
// that event's sequence number. The initial view carries the receiving
// client's own ID.
type Message struct {
	SessionID string      `json:"session_id"`
	View      *form.View  `json:"view,omitempty"`
	Event     string      `json:"event,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	ClientID  string      `json:"client_id,omitempty"`
	Seq       uint64      `json:"seq,omitempty"`
}

// EventHandler applies an input event received from a client and returns the
// view to broadcast to every client of the scoresheet
type EventHandler func(ctx context.Context, sheetID string, ev form.Event) (*form.View, error)

// Client represents a WebSocket client
type Client struct {
	id        string
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	sessionID string
}

type countRequest struct {
	sessionID string
	reply     chan int
}

// Hub maintains the set of active clients and broadcasts messages
type Hub struct {
	// Registered clients by scoresheet ID
	sessions map[string]map[*Client]bool

	// Outbound messages for a scoresheet
	broadcast chan *Message

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Replies addressed to a single client
	direct chan directMessage

	counts chan countRequest

	handler EventHandler
	done    chan struct{}
}

// NewHub creates a new WebSocket hub. handler may be nil, in which case
// incoming client messages are ignored.
func NewHub(handler EventHandler) *Hub {
	return &Hub{
		sessions:   make(map[string]map[*Client]bool),
		broadcast:  make(chan *Message, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		direct:     make(chan directMessage, 16),
		counts:     make(chan countRequest),
		handler:    handler,
		done:       make(chan struct{}),
	}
}

// Run starts the hub's event loop and blocks until ctx is cancelled
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		close(h.done)
		for _, clients := range h.sessions {
			for client := range clients {
				close(client.send)
			}
		}
		h.sessions = make(map[string]map[*Client]bool)
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)

		case dm := <-h.direct:
			if h.sessions[dm.client.sessionID][dm.client] {
				select {
				case dm.client.send <- dm.data:
				default:
					h.unregisterClient(dm.client)
				}
			}

		case req := <-h.counts:
			req.reply <- len(h.sessions[req.sessionID])
		}
	}
}

// ServeWS upgrades the request and attaches the client to a scoresheet.
// initial, when non-nil, is sent to the client right after it connects.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, sessionID string, initial *form.View) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := &Client{
		id:        uuid.NewString(),
		hub:       h,
		conn:      conn,
		send:      make(chan []byte, 256),
		sessionID: sessionID,
	}

	if initial != nil {
		message := viewMessage(sessionID, initial)
		message.ClientID = client.id
		if data, err := json.Marshal(message); err == nil {
			client.send <- data
		}
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	// Start client goroutines
	go client.writePump()
	go client.readPump()
}

// BroadcastView sends a view update to all clients of a scoresheet
func (h *Hub) BroadcastView(sessionID string, view *form.View) {
	h.enqueue(viewMessage(sessionID, view))
}

// BroadcastEvent sends a custom event to all clients of a scoresheet
func (h *Hub) BroadcastEvent(sessionID string, event string, data interface{}) {
	h.enqueue(&Message{
		SessionID: sessionID,
		Event:     event,
		Data:      data,
	})
}

// ClientCount returns the number of clients attached to a scoresheet
func (h *Hub) ClientCount(sessionID string) int {
	req := countRequest{sessionID: sessionID, reply: make(chan int, 1)}
	select {
	case h.counts <- req:
		return <-req.reply
	case <-h.done:
		return 0
	}
}

func (h *Hub) enqueue(message *Message) {
	select {
	case h.broadcast <- message:
	case <-h.done:
	}
}

func (h *Hub) enqueueDirect(client *Client, data []byte) {
	select {
	case h.direct <- directMessage{client: client, data: data}:
	case <-h.done:
	}
}

func viewMessage(sessionID string, view *form.View) *Message {
	return &Message{
		SessionID: sessionID,
		View:      view,
		Event:     EventViewUpdate,
	}
}

// registerClient adds a client to a scoresheet
func (h *Hub) registerClient(client *Client) {
	if h.sessions[client.sessionID] == nil {
		h.sessions[client.sessionID] = make(map[*Client]bool)
	}
	h.sessions[client.sessionID][client] = true

	log.Printf("Client %s registered for sheet %s (total clients: %d)",
		client.id, client.sessionID, len(h.sessions[client.sessionID]))
}

// unregisterClient removes a client from a scoresheet
func (h *Hub) unregisterClient(client *Client) {
	if clients, ok := h.sessions[client.sessionID]; ok {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			close(client.send)

			// Clean up empty scoresheets
			if len(clients) == 0 {
				delete(h.sessions, client.sessionID)
			}

			log.Printf("Client %s unregistered from sheet %s (remaining clients: %d)",
				client.id, client.sessionID, len(clients))
		}
	}
}

// broadcastMessage sends a message to all clients of a scoresheet
func (h *Hub) broadcastMessage(message *Message) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Failed to marshal broadcast message: %v", err)
		return
	}

	if clients, ok := h.sessions[message.SessionID]; ok {
		for client := range clients {
			select {
			case client.send <- data:
			default:
				h.unregisterClient(client)
			}
		}
	}
}

// readPump decodes input events from the connection and hands them to the
// hub's event handler
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		if c.hub.handler == nil {
			continue
		}

		var ev form.Event
		if err := json.Unmarshal(data, &ev); err != nil {
			c.reply(&Message{SessionID: c.sessionID, Event: EventError, Data: "invalid event: " + err.Error(), ClientID: c.id})
			continue
		}

		view, err := c.hub.handler(context.Background(), c.sessionID, ev)
		if err != nil {
			log.Printf("[WS] sheet=%s client=%s type=%s error=%v", c.sessionID, c.id, ev.Type, err)
			c.reply(&Message{SessionID: c.sessionID, Event: EventError, Data: err.Error(), ClientID: c.id, Seq: ev.Seq})
			continue
		}

		message := viewMessage(c.sessionID, view)
		message.ClientID = c.id
		message.Seq = ev.Seq
		c.hub.enqueue(message)
	}
}

// reply queues a message for this client only
func (c *Client) reply(message *Message) {
	data, err := json.Marshal(message)
	if err != nil {
		return
	}
	c.hub.enqueueDirect(c, data)
}

type directMessage struct {
	client *Client
	data   []byte
}

// writePump pumps messages from the hub to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
