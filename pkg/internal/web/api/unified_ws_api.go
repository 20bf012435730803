package api

import (
	"strings"

	"github.com/clubworks/messaging/pkg/internal/models"
	"github.com/clubworks/messaging/pkg/internal/services"
	"github.com/gofiber/contrib/websocket"
	jsoniter "github.com/json-iterator/go"
)

func unifiedGateway(c *websocket.Conn) {
	user := c.Locals("user").(models.Account)

	// Push connection
	services.RegisterConnection(user.ID, c)

	// Event loop
	var task services.UnifiedCommand

	var messageType int
	var packet []byte
	var err error

	for {
		if messageType, packet, err = c.ReadMessage(); err != nil {
			break
		} else if err := jsoniter.Unmarshal(packet, &task); err != nil {
			_ = c.WriteMessage(messageType, services.UnifiedCommand{
				Action:  "error",
				Message: "unable to unmarshal your command, requires json request",
			}.Marshal())
			continue
		}

		if response := dealCommand(task, user); response != nil {
			if err = c.WriteMessage(messageType, response.Marshal()); err != nil {
				break
			}
		}
	}

	// Pop connection
	services.UnregisterConnection(user.ID, c)
}

func dealCommand(task services.UnifiedCommand, user models.Account) *services.UnifiedCommand {
	switch task.Action {
	case "messages.send":
		var req struct {
			Uuid    string   `json:"uuid"`
			RoomID  uint     `json:"room_id"`
			Body    string   `json:"body"`
			Files   []uint   `json:"files"`
			Images  []string `json:"images"`
			ReplyTo *uint    `json:"reply_to"`
		}
		models.FitStruct(task.Payload, &req)

		req.Body = strings.TrimSpace(req.Body)
		if len(req.Body) == 0 && len(req.Files) == 0 {
			return &services.UnifiedCommand{
				Action:  "error",
				Message: "empty message was not allowed",
			}
		}

		if _, _, err := services.GetRoomIdentityWithID(req.RoomID, user.ID); err != nil {
			return &services.UnifiedCommand{
				Action:  "error",
				Message: err.Error(),
			}
		}

		entry, err := services.SharedOutbox().Submit(models.Message{
			Body:     req.Body,
			Images:   req.Images,
			RoomID:   req.RoomID,
			AuthorID: user.ID,
			ReplyID:  req.ReplyTo,
		}, req.Uuid, req.Files)
		if err != nil {
			return &services.UnifiedCommand{
				Action:  "error",
				Message: err.Error(),
			}
		}

		return &services.UnifiedCommand{
			Action:  "messages.pending",
			Payload: entry,
		}
	case "status.typing":
		var req struct {
			RoomID uint `json:"room_id"`
		}
		models.FitStruct(task.Payload, &req)

		if err := services.SetTypingStatus(req.RoomID, user.ID); err != nil {
			return &services.UnifiedCommand{
				Action:  "error",
				Message: err.Error(),
			}
		}
		return nil
	default:
		return &services.UnifiedCommand{
			Action:  "error",
			Message: "command not found",
		}
	}
}
