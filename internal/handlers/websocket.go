package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"mines-rewards-backend/internal/models"
	"mines-rewards-backend/internal/services"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebSocketHandler pushes balance and settlement events to the owning
// player. It implements services.Broadcaster.
type WebSocketHandler struct {
	redisService *services.RedisService
	hub          *WebSocketHub
}

type WebSocketHub struct {
	clients    map[int64]*websocket.Conn
	register   chan *Client
	unregister chan *Client
	broadcast  chan *Message
}

type Client struct {
	PlayerID int64
	Conn     *websocket.Conn
}

type Message struct {
	Type     string      `json:"type"`
	PlayerID int64       `json:"player_id,omitempty"`
	GameID   string      `json:"game_id,omitempty"`
	Data     interface{} `json:"data"`
}

func NewWebSocketHandler(redisService *services.RedisService) *WebSocketHandler {
	hub := &WebSocketHub{
		clients:    make(map[int64]*websocket.Conn),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Message, 100),
	}

	go hub.run()

	return &WebSocketHandler{
		redisService: redisService,
		hub:          hub,
	}
}

func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	playerID := c.GetInt64("user_id")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade to WebSocket: %v", err)
		return
	}

	client := &Client{
		PlayerID: playerID,
		Conn:     conn,
	}

	h.hub.register <- client

	defer func() {
		h.hub.unregister <- client
		conn.Close()
	}()

	h.sendBalance(c, client)

	for {
		var msg Message
		err := conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		h.handleMessage(client, &msg)
	}
}

func (h *WebSocketHandler) handleMessage(client *Client, msg *Message) {
	switch msg.Type {
	case "PING":
		h.sendPong(client)
	}
}

func (h *WebSocketHandler) sendBalance(c *gin.Context, client *Client) {
	wallet, err := h.redisService.GetWallet(c.Request.Context(), client.PlayerID)
	if err != nil {
		log.Printf("Failed to get wallet for WS: %v", err)
		return
	}

	client.Conn.WriteJSON(Message{
		Type: "BALANCE_UPDATE",
		Data: gin.H{
			"balance":       wallet.Balance,
			"total_wagered": wallet.TotalWagered,
			"total_won":     wallet.TotalWon,
		},
	})
}

func (h *WebSocketHandler) sendPong(client *Client) {
	client.Conn.WriteJSON(Message{
		Type: "PONG",
		Data: gin.H{
			"timestamp": time.Now().Unix(),
		},
	})
}

func (hub *WebSocketHub) run() {
	for {
		select {
		case client := <-hub.register:
			hub.clients[client.PlayerID] = client.Conn
			log.Printf("Client registered: %d", client.PlayerID)

		case client := <-hub.unregister:
			if _, ok := hub.clients[client.PlayerID]; ok {
				delete(hub.clients, client.PlayerID)
				log.Printf("Client unregistered: %d", client.PlayerID)
			}

		case message := <-hub.broadcast:
			hub.deliver(message)
		}
	}
}

func (hub *WebSocketHub) deliver(message *Message) {
	if message.PlayerID != 0 {
		if conn, ok := hub.clients[message.PlayerID]; ok {
			conn.WriteJSON(message)
		}
		return
	}
	for _, conn := range hub.clients {
		conn.WriteJSON(message)
	}
}

func (h *WebSocketHandler) BroadcastBalance(playerID int64, balance int64) {
	h.hub.broadcast <- &Message{
		Type:     "BALANCE_UPDATE",
		PlayerID: playerID,
		Data: gin.H{
			"balance":   balance,
			"timestamp": time.Now().Unix(),
		},
	}
}

func (h *WebSocketHandler) BroadcastSettlement(session *models.GameSession) {
	h.hub.broadcast <- &Message{
		Type:     "GAME_SETTLED",
		PlayerID: session.PlayerID,
		GameID:   session.ID,
		Data: gin.H{
			"game_id":    session.ID,
			"status":     session.Status,
			"multiplier": session.Multiplier,
			"payout":     session.Payout,
			"timestamp":  time.Now().Unix(),
		},
	}
}
