package websocket

import (
	"encoding/json"
	"sync"

	"github.com/registreqc/registreqc-backend/pkg/logger"
)

// Event est un événement poussé vers le tableau de bord admin.
type Event struct {
	Type    string                 `json:"type"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// Client représente une session WebSocket d'un administrateur connecté.
type Client struct {
	Hub    *Hub
	Conn   *Conn
	UserID uint
	Send   chan []byte
}

// Hub gère les connexions WebSocket du tableau de bord admin.
// Multi-session: un même admin peut être connecté depuis plusieurs onglets.
type Hub struct {
	clients    map[uint][]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte

	mu sync.RWMutex
}

// NewHub crée un Hub.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uint][]*Client),
		register:   make(chan *Client, 64),
		unregister: make(chan *Client, 64),
		broadcast:  make(chan []byte, 256),
	}
}

// Run traite les enregistrements et les diffusions. À lancer dans une goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
			logger.Info("WebSocket client registered", map[string]interface{}{
				"user_id":  client.UserID,
				"sessions": len(h.clients[client.UserID]),
			})

		case client := <-h.unregister:
			h.mu.Lock()
			if list, ok := h.clients[client.UserID]; ok {
				newList := make([]*Client, 0, len(list))
				for _, c := range list {
					if c != client {
						newList = append(newList, c)
					}
				}
				if len(newList) == 0 {
					delete(h.clients, client.UserID)
				} else {
					h.clients[client.UserID] = newList
				}
				close(client.Send)
			}
			h.mu.Unlock()
			logger.Info("WebSocket client unregistered", map[string]interface{}{
				"user_id": client.UserID,
			})

		case message := <-h.broadcast:
			h.mu.RLock()
			for _, list := range h.clients {
				for _, client := range list {
					select {
					case client.Send <- message:
					default:
						// Un client lent ne doit pas bloquer la diffusion.
						logger.Warn("WebSocket send buffer full, dropping event", map[string]interface{}{
							"user_id": client.UserID,
						})
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Broadcast envoie un événement à toutes les sessions admin connectées.
func (h *Hub) Broadcast(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal WebSocket event", err, map[string]interface{}{
			"type": event.Type,
		})
		return
	}

	select {
	case h.broadcast <- data:
	default:
		logger.Warn("WebSocket broadcast buffer full, dropping event", map[string]interface{}{
			"type": event.Type,
		})
	}
}

// Register enregistre une nouvelle session client.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// ClientCount retourne le nombre d'admins connectés (sessions distinctes agrégées).
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
