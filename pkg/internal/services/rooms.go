package services

import (
	"fmt"

	"github.com/clubworks/messaging/pkg/internal/database"
	"github.com/clubworks/messaging/pkg/internal/models"
)

func GetRoom(alias string) (models.Room, error) {
	var room models.Room
	if err := database.C.Where(models.Room{
		Alias: alias,
	}).First(&room).Error; err != nil {
		return room, err
	}
	return room, nil
}

// GetRoomIdentity loads the room and the caller's membership in one go.
// Public rooms admit anyone; private ones require a membership row.
func GetRoomIdentity(alias string, userId uint) (models.Room, models.RoomMember, error) {
	var member models.RoomMember
	room, err := GetRoom(alias)
	if err != nil {
		return room, member, err
	}

	err = database.C.Where(models.RoomMember{
		RoomID:    room.ID,
		AccountID: userId,
	}).Preload("Account").First(&member).Error
	if err != nil {
		if room.IsPublic {
			return room, models.RoomMember{RoomID: room.ID, AccountID: userId}, nil
		}
		return room, member, fmt.Errorf("unable to get your identity in room: %v", err)
	}

	return room, member, nil
}

// GetRoomIdentityWithID is GetRoomIdentity for callers that already hold
// the numeric room id, e.g. the websocket gateway.
func GetRoomIdentityWithID(roomId uint, userId uint) (models.Room, models.RoomMember, error) {
	var room models.Room
	var member models.RoomMember
	if err := database.C.Where("id = ?", roomId).First(&room).Error; err != nil {
		return room, member, err
	}

	err := database.C.Where(models.RoomMember{
		RoomID:    room.ID,
		AccountID: userId,
	}).Preload("Account").First(&member).Error
	if err != nil {
		if room.IsPublic {
			return room, models.RoomMember{RoomID: room.ID, AccountID: userId}, nil
		}
		return room, member, fmt.Errorf("unable to get your identity in room: %v", err)
	}

	return room, member, nil
}

func NewRoom(room models.Room) (models.Room, error) {
	if err := database.C.Save(&room).Error; err != nil {
		return room, err
	}
	member := models.RoomMember{
		RoomID:    room.ID,
		AccountID: room.AccountID,
	}
	if err := database.C.Save(&member).Error; err != nil {
		return room, err
	}
	return room, nil
}

func ListAvailableRoom(userId uint) ([]models.Room, error) {
	var members []models.RoomMember
	if err := database.C.Where(models.RoomMember{
		AccountID: userId,
	}).Find(&members).Error; err != nil {
		return nil, err
	}

	idx := make([]uint, 0, len(members))
	for _, member := range members {
		idx = append(idx, member.RoomID)
	}

	var rooms []models.Room
	if err := database.C.
		Where("id IN ? OR is_public = true", idx).
		Find(&rooms).Error; err != nil {
		return rooms, err
	}
	return rooms, nil
}

func ListRoomMember(room models.Room) ([]models.RoomMember, error) {
	var members []models.RoomMember
	if err := database.C.Where(models.RoomMember{
		RoomID: room.ID,
	}).Preload("Account").Find(&members).Error; err != nil {
		return members, err
	}
	return members, nil
}

func AddRoomMember(room models.Room, account models.Account) (models.RoomMember, error) {
	member := models.RoomMember{
		RoomID:    room.ID,
		AccountID: account.ID,
	}
	if err := database.C.Save(&member).Error; err != nil {
		return member, err
	}
	return member, nil
}
