package ws

import (
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"mafia_webapp/internal/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = 25 * time.Second

	maxMessageSize = 4096
	sendBufferSize = 256
)

// Client - одно ws-соединение игрока. Игрок может держать несколько
// соединений (несколько вкладок), каждое со своим ConnID.
type Client struct {
	ConnID   string
	PlayerID int64
	Name     string
	Conn     *websocket.Conn
	Send     chan []byte

	hub *Hub
}

func NewClient(playerID int64, name string, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		ConnID:   uuid.NewString(),
		PlayerID: playerID,
		Name:     name,
		Conn:     conn,
		Send:     make(chan []byte, sendBufferSize),
		hub:      hub,
	}
}

// Run регистрирует соединение в hub'е и запускает оба насоса.
// Возвращается после закрытия соединения.
func (c *Client) Run() {
	c.hub.Register(c)
	go c.writePump()
	c.readPump()
}

func (c *Client) readPump() {
	defer c.hub.OnDisconnect(c)

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, msg, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("ws-соединение оборвано", "player", c.PlayerID, "error", err)
			}
			return
		}
		c.hub.route(c, msg)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
