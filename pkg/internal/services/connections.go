package services

import (
	"sync"

	"github.com/clubworks/messaging/pkg/internal/database"
	"github.com/clubworks/messaging/pkg/internal/models"
	"github.com/gofiber/contrib/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/samber/lo"
)

// UnifiedCommand is the envelope for everything pushed over the gateway:
// timeline changes, outbox reconciliation, typing hints. Delivery is
// best-effort; clients re-sync from the history API for the truth.
type UnifiedCommand struct {
	Action  string `json:"w"`
	Message string `json:"m,omitempty"`
	Payload any    `json:"p,omitempty"`
}

func (v UnifiedCommand) Marshal() []byte {
	raw, _ := jsoniter.Marshal(v)
	return raw
}

var (
	wsMutex sync.Mutex
	wsConn  = make(map[uint][]*websocket.Conn)
)

func RegisterConnection(userId uint, conn *websocket.Conn) {
	wsMutex.Lock()
	defer wsMutex.Unlock()
	wsConn[userId] = append(wsConn[userId], conn)
}

func UnregisterConnection(userId uint, conn *websocket.Conn) {
	wsMutex.Lock()
	defer wsMutex.Unlock()
	wsConn[userId] = lo.Without(wsConn[userId], conn)
}

func CheckOnline(userId uint) bool {
	wsMutex.Lock()
	defer wsMutex.Unlock()
	return len(wsConn[userId]) > 0
}

func PushCommand(userId uint, command UnifiedCommand) {
	wsMutex.Lock()
	conns := append([]*websocket.Conn{}, wsConn[userId]...)
	wsMutex.Unlock()

	for _, conn := range conns {
		_ = conn.WriteMessage(websocket.TextMessage, command.Marshal())
	}
}

func PushCommandBatch(userIdx []uint, command UnifiedCommand) {
	for _, userId := range userIdx {
		PushCommand(userId, command)
	}
}

// PushRoomCommand fans a command out to every member of a room.
func PushRoomCommand(roomId uint, command UnifiedCommand) {
	var members []models.RoomMember
	if err := database.C.Where(models.RoomMember{
		RoomID: roomId,
	}).Find(&members).Error; err != nil {
		return
	}

	idx := lo.Map(members, func(item models.RoomMember, index int) uint {
		return item.AccountID
	})
	PushCommandBatch(idx, command)
}
