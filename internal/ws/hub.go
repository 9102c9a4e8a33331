package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"mafia_webapp/internal/domain"
	"mafia_webapp/internal/logger"
	"mafia_webapp/internal/service"
)

// envelope - формат любого исходящего сообщения
type envelope struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// Hub держит все живые соединения и реализует пуш-транспорт движка
// (service.Broadcaster). Подписка на комнату ведется по соединению:
// create/join подписывают, leave и закрытие комнаты отписывают.
type Hub struct {
	engine *service.SessionEngine

	mu       sync.RWMutex
	clients  map[string]*Client            // connID -> клиент
	byPlayer map[int64]map[string]*Client  // playerID -> его соединения
	rooms    map[string]map[string]*Client // код комнаты -> подписчики
}

func NewHub(engine *service.SessionEngine) *Hub {
	return &Hub{
		engine:   engine,
		clients:  make(map[string]*Client),
		byPlayer: make(map[int64]map[string]*Client),
		rooms:    make(map[string]map[string]*Client),
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c.ConnID] = c
	conns, ok := h.byPlayer[c.PlayerID]
	if !ok {
		conns = make(map[string]*Client)
		h.byPlayer[c.PlayerID] = conns
	}
	conns[c.ConnID] = c
	h.mu.Unlock()

	logger.Info("ws-соединение открыто", "player", c.PlayerID, "conn", c.ConnID)
}

// OnDisconnect снимает соединение с учета. Когда закрылось последнее
// соединение игрока, он покидает все свои комнаты - дисконнект
// равнозначен выходу.
func (h *Hub) OnDisconnect(c *Client) {
	h.mu.Lock()
	delete(h.clients, c.ConnID)
	for _, subs := range h.rooms {
		delete(subs, c.ConnID)
	}
	last := false
	if conns, ok := h.byPlayer[c.PlayerID]; ok {
		delete(conns, c.ConnID)
		if len(conns) == 0 {
			delete(h.byPlayer, c.PlayerID)
			last = true
		}
	}
	h.mu.Unlock()

	close(c.Send)
	_ = c.Conn.Close()
	logger.Info("ws-соединение закрыто", "player", c.PlayerID, "conn", c.ConnID)

	if last {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		left := h.engine.LeaveAllRooms(ctx, c.PlayerID)
		if len(left) > 0 {
			logger.Info("игрок покинул комнаты по дисконнекту",
				"player", c.PlayerID, "rooms", left)
		}
	}
}

// Subscribe подписывает соединение на события комнаты
func (h *Hub) Subscribe(code string, c *Client) {
	h.mu.Lock()
	subs, ok := h.rooms[code]
	if !ok {
		subs = make(map[string]*Client)
		h.rooms[code] = subs
	}
	subs[c.ConnID] = c
	h.mu.Unlock()
}

// Unsubscribe отписывает все соединения игрока от комнаты
func (h *Hub) Unsubscribe(code string, playerID int64) {
	h.mu.Lock()
	if subs, ok := h.rooms[code]; ok {
		for connID, cl := range subs {
			if cl.PlayerID == playerID {
				delete(subs, connID)
			}
		}
		if len(subs) == 0 {
			delete(h.rooms, code)
		}
	}
	h.mu.Unlock()
}

// EmitToRoom рассылает событие подписчикам комнаты. room_closed -
// терминальное событие: после него подписка комнаты снимается целиком.
func (h *Hub) EmitToRoom(code string, event string, payload any) {
	data := marshalEnvelope(event, payload)

	h.mu.Lock()
	subs := h.rooms[code]
	targets := make([]*Client, 0, len(subs))
	for _, cl := range subs {
		targets = append(targets, cl)
	}
	if event == domain.EventRoomClosed {
		delete(h.rooms, code)
	}
	h.mu.Unlock()

	for _, cl := range targets {
		h.enqueue(cl, data)
	}
}

// EmitToPlayer шлет личное событие во все соединения игрока
func (h *Hub) EmitToPlayer(playerID int64, event string, payload any) {
	data := marshalEnvelope(event, payload)

	h.mu.RLock()
	conns := h.byPlayer[playerID]
	targets := make([]*Client, 0, len(conns))
	for _, cl := range conns {
		targets = append(targets, cl)
	}
	h.mu.RUnlock()

	for _, cl := range targets {
		h.enqueue(cl, data)
	}
}

// EmitGlobal шлет событие всем живым соединениям (обновления лобби)
func (h *Hub) EmitGlobal(event string, payload any) {
	data := marshalEnvelope(event, payload)

	h.mu.RLock()
	targets := make([]*Client, 0, len(h.clients))
	for _, cl := range h.clients {
		targets = append(targets, cl)
	}
	h.mu.RUnlock()

	for _, cl := range targets {
		h.enqueue(cl, data)
	}
}

// enqueue - неблокирующая постановка в очередь соединения. Рассылки
// зовутся из критической секции движка, поэтому ждать медленного
// клиента нельзя: переполненная очередь роняет сообщение.
func (h *Hub) enqueue(c *Client, data []byte) {
	defer func() {
		// очередь могла закрыться конкурентным дисконнектом
		_ = recover()
	}()
	select {
	case c.Send <- data:
	default:
		logger.Warn("очередь ws-соединения переполнена, сообщение отброшено",
			"player", c.PlayerID, "conn", c.ConnID)
	}
}

func marshalEnvelope(event string, payload any) []byte {
	data, err := json.Marshal(envelope{Type: event, Payload: payload})
	if err != nil {
		logger.Error("сериализация ws-события не удалась", "event", event, "error", err)
		return []byte(`{"type":"error","payload":{"code":"internal","message":"внутренняя ошибка"}}`)
	}
	return data
}
