package ws

import (
	"encoding/json"
	"log"
	"sync"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub manages WebSocket connections for game rooms. It implements
// game.Broadcaster: room-wide events go to the host and every player,
// per-player events (answer results) go to a single connection.
type Hub struct {
	// Room -> connections
	hostConns   map[string]*Connection
	playerConns map[string]map[string]*Connection // roomID -> playerID -> conn

	mu sync.RWMutex

	// Channels for coordination
	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
}

// Connection represents a WebSocket connection
type Connection struct {
	RoomID   string
	PlayerID string // Empty for host connections
	IsHost   bool
	Send     chan []byte
	Hub      *Hub
}

// BroadcastMessage is a message to broadcast
type BroadcastMessage struct {
	RoomID   string
	ToPlayer string // Empty means whole room, specific ID means one player
	// Disconnect drops every connection in the room instead of sending.
	// Routed through the broadcast channel so it cannot overtake events
	// queued before it.
	Disconnect bool
	Message    *Message
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		hostConns:   make(map[string]*Connection),
		playerConns: make(map[string]map[string]*Connection),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		broadcast:   make(chan *BroadcastMessage, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if conn.IsHost {
				h.hostConns[conn.RoomID] = conn
				log.Printf("Host connected to room %s", conn.RoomID)
			} else {
				if h.playerConns[conn.RoomID] == nil {
					h.playerConns[conn.RoomID] = make(map[string]*Connection)
				}
				h.playerConns[conn.RoomID][conn.PlayerID] = conn
				log.Printf("Player %s connected to room %s", conn.PlayerID, conn.RoomID)
			}
			h.mu.Unlock()

		case conn := <-h.unregister:
			h.mu.Lock()
			if conn.IsHost {
				if existing, ok := h.hostConns[conn.RoomID]; ok && existing == conn {
					delete(h.hostConns, conn.RoomID)
					close(conn.Send)
					log.Printf("Host disconnected from room %s", conn.RoomID)
				}
			} else {
				if players, ok := h.playerConns[conn.RoomID]; ok {
					if existing, ok := players[conn.PlayerID]; ok && existing == conn {
						delete(players, conn.PlayerID)
						close(conn.Send)
						log.Printf("Player %s disconnected from room %s", conn.PlayerID, conn.RoomID)
					}
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			if msg.Disconnect {
				h.dropRoom(msg.RoomID)
				continue
			}

			h.mu.RLock()
			data, _ := json.Marshal(msg.Message)

			if msg.ToPlayer != "" {
				// Send to specific player
				if players, ok := h.playerConns[msg.RoomID]; ok {
					if conn, ok := players[msg.ToPlayer]; ok {
						select {
						case conn.Send <- data:
						default:
						}
					}
				}
			} else {
				// Whole room: host first, then every player
				if conn, ok := h.hostConns[msg.RoomID]; ok {
					select {
					case conn.Send <- data:
					default:
						// Drop message if buffer full
					}
				}
				if players, ok := h.playerConns[msg.RoomID]; ok {
					for _, conn := range players {
						select {
						case conn.Send <- data:
						default:
						}
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// BroadcastToRoom sends a message to the host and all players in a room
// (implements game.Broadcaster)
func (h *Hub) BroadcastToRoom(roomID string, msgType string, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &BroadcastMessage{
		RoomID: roomID,
		Message: &Message{
			Type:    msgType,
			Payload: data,
		},
	}
}

// BroadcastToPlayer sends a message to a specific player (implements game.Broadcaster)
func (h *Hub) BroadcastToPlayer(roomID, playerID string, msgType string, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &BroadcastMessage{
		RoomID:   roomID,
		ToPlayer: playerID,
		Message: &Message{
			Type:    msgType,
			Payload: data,
		},
	}
}

// DisconnectRoom drops every connection in a room (implements game.Broadcaster)
func (h *Hub) DisconnectRoom(roomID string) {
	h.broadcast <- &BroadcastMessage{
		RoomID:     roomID,
		Disconnect: true,
	}
}

// dropRoom closes and forgets every connection in a room. Only the run loop
// calls this, so no send can race the close.
func (h *Hub) dropRoom(roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conn, ok := h.hostConns[roomID]; ok {
		delete(h.hostConns, roomID)
		close(conn.Send)
	}
	if players, ok := h.playerConns[roomID]; ok {
		delete(h.playerConns, roomID)
		for _, conn := range players {
			close(conn.Send)
		}
	}
	log.Printf("Disconnected all connections for room %s", roomID)
}
