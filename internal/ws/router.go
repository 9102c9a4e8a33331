package ws

import (
	"context"
	"encoding/json"
	"time"

	"mafia_webapp/internal/domain"
	"mafia_webapp/internal/logger"
)

// inbound - сообщение клиента; поля заполняются по типу операции
type inbound struct {
	Type      string `json:"type"`
	Room      string `json:"room,omitempty"`
	RoomName  string `json:"room_name,omitempty"`
	EndPolicy string `json:"end_policy,omitempty"`
	Action    string `json:"action,omitempty"`
	TargetID  int64  `json:"target_id,omitempty"`
}

// route разбирает сообщение и зовет движок. Любая ошибка уходит
// событием error только инициатору - остальная комната её не видит.
func (h *Hub) route(c *Client, raw []byte) {
	var msg inbound
	if err := json.Unmarshal(raw, &msg); err != nil {
		h.sendError(c, domain.ErrBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	switch msg.Type {
	case domain.OpCreateRoom:
		room, err := h.engine.CreateRoom(ctx, c.PlayerID, c.Name, msg.RoomName, msg.EndPolicy)
		if err != nil {
			h.sendError(c, err)
			return
		}
		h.Subscribe(room.Code, c)

	case domain.OpJoinRoom:
		room, err := h.engine.JoinRoom(ctx, msg.Room, c.PlayerID, c.Name)
		if err != nil {
			h.sendError(c, err)
			return
		}
		h.Subscribe(msg.Room, c)
		h.send(c, domain.EventRoomState, room.PublicState())

	case domain.OpLeaveRoom:
		if err := h.engine.LeaveRoom(ctx, msg.Room, c.PlayerID); err != nil {
			h.sendError(c, err)
			return
		}
		h.Unsubscribe(msg.Room, c.PlayerID)

	case domain.OpToggleReady:
		if _, err := h.engine.ToggleReady(ctx, msg.Room, c.PlayerID); err != nil {
			h.sendError(c, err)
		}

	case domain.OpNightAction:
		kind := domain.ActionKind(msg.Action)
		if err := h.engine.SubmitNightAction(ctx, msg.Room, c.PlayerID, kind, msg.TargetID); err != nil {
			h.sendError(c, err)
		}

	case domain.OpCastVote:
		if err := h.engine.CastVote(ctx, msg.Room, c.PlayerID, msg.TargetID); err != nil {
			h.sendError(c, err)
		}

	case domain.OpHostSkip:
		if err := h.engine.HostSkipPhase(ctx, msg.Room, c.PlayerID); err != nil {
			h.sendError(c, err)
		}

	case domain.OpRequestRoomState:
		state, err := h.engine.RoomState(ctx, msg.Room)
		if err != nil {
			h.sendError(c, err)
			return
		}
		h.send(c, domain.EventRoomState, state)

	case domain.OpRequestRoomList:
		list, err := h.engine.RoomList(ctx)
		if err != nil {
			h.sendError(c, err)
			return
		}
		h.send(c, domain.EventRoomList, map[string]any{"rooms": list})

	default:
		logger.Debug("неизвестная ws-операция", "player", c.PlayerID, "type", msg.Type)
		h.sendError(c, domain.ErrBadRequest)
	}
}

// send шлет событие одному соединению (не всем соединениям игрока)
func (h *Hub) send(c *Client, event string, payload any) {
	h.enqueue(c, marshalEnvelope(event, payload))
}

func (h *Hub) sendError(c *Client, err error) {
	h.send(c, domain.EventError, map[string]any{
		"code":    domain.ErrorCode(err),
		"message": err.Error(),
	})
}
