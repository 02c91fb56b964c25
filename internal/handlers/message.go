package handlers

import (
	"context"
	"encoding/json"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/websocket/v2"

	"pairchat/internal/models"
	"pairchat/internal/services"
	"pairchat/internal/session"
	"pairchat/internal/utils"
)

var validate = validator.New()

// send writes one event to the requesting connection.
func send(sink session.Sink, payload interface{}) {
	utils.LogError(sink.WriteJSON(payload), "Send")
}

func sendError(sink session.Sink, message string) {
	send(sink, models.ErrorEvent{Event: "error", Message: message})
}

// clientMessage picks the error text echoed to the requester. Validation and
// membership errors are safe as-is; store failures get the generic fallback
// with the cause logged.
func clientMessage(err error, fallback string) string {
	if services.IsClientError(err) {
		return err.Error()
	}
	utils.LogError(err, "Store")
	return fallback
}

// HandleMessage dispatches one inbound frame. Every reply and error is
// scoped to the requesting connection; only send_message fans out further,
// and that happens inside the chat service after the message is durable.
func HandleMessage(sink session.Sink, msgType int, msg []byte, chatService *services.ChatService, connID string) {
	if msgType != websocket.TextMessage {
		return
	}

	var envelope struct {
		Event string `json:"event"`
	}
	if err := json.Unmarshal(msg, &envelope); err != nil {
		utils.LogError(err, "JSON Parse")
		return
	}

	switch envelope.Event {
	case "join_chat":
		handleJoinChat(sink, msg, chatService, connID)
	case "send_message":
		handleSendMessage(sink, msg, chatService)
	case "fetch_messages":
		handleFetchMessages(sink, msg, chatService)
	default:
		log.Printf("Unknown event: %s", envelope.Event)
	}
}

func handleJoinChat(sink session.Sink, msg []byte, chatService *services.ChatService, connID string) {
	var req models.JoinChatRequest
	if err := json.Unmarshal(msg, &req); err != nil {
		utils.LogError(err, "JSON Parse")
		return
	}
	if err := validate.Struct(&req); err != nil {
		sendError(sink, "Missing user IDs")
		return
	}

	// Operations already accepted run to completion even if the client
	// disconnects mid-flight, so the root context is deliberate here.
	ctx := context.Background()

	room, err := chatService.JoinChat(ctx, connID, sink, req.UserID, req.TargetUserID)
	if err != nil {
		sendError(sink, clientMessage(err, "Failed to join chat"))
		return
	}
	send(sink, models.RoomJoinedEvent{Event: "room_joined", RoomID: room.ID, Room: room})

	history, err := chatService.History(ctx, room.ID)
	if err != nil {
		sendError(sink, clientMessage(err, "Failed to join chat"))
		return
	}
	send(sink, models.MessageHistoryEvent{Event: "message_history", RoomID: room.ID, Messages: history})
}

func handleSendMessage(sink session.Sink, msg []byte, chatService *services.ChatService) {
	var req models.SendMessageRequest
	if err := json.Unmarshal(msg, &req); err != nil {
		utils.LogError(err, "JSON Parse")
		return
	}
	if err := validate.Struct(&req); err != nil {
		sendError(sink, "Missing message details")
		return
	}

	if _, err := chatService.SendMessage(context.Background(), req.RoomID, req.SenderID, req.Body); err != nil {
		sendError(sink, clientMessage(err, "Failed to send message"))
	}
}

func handleFetchMessages(sink session.Sink, msg []byte, chatService *services.ChatService) {
	var req models.FetchMessagesRequest
	if err := json.Unmarshal(msg, &req); err != nil {
		utils.LogError(err, "JSON Parse")
		return
	}
	if err := validate.Struct(&req); err != nil {
		sendError(sink, "Missing room ID")
		return
	}

	messages, offset, err := chatService.FetchMessages(context.Background(), req.RoomID, req.Limit, req.Offset)
	if err != nil {
		sendError(sink, clientMessage(err, "Failed to fetch messages"))
		return
	}
	send(sink, models.MoreMessagesEvent{Event: "more_messages", RoomID: req.RoomID, Messages: messages, Offset: offset})
}
