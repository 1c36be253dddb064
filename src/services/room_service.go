package services

import (
	"log"
	"strings"

	"rbs/src/lib"
	"rbs/src/models"
	"rbs/src/types"

	"gorm.io/gorm"
)

type RoomService struct {
	db *gorm.DB
}

func NewRoomService(db *gorm.DB) *RoomService {
	return &RoomService{db: db}
}

func (s *RoomService) ListRooms() ([]models.Room, error) {
	var rooms []models.Room
	if err := s.db.Preload("Slots").Order("name asc").Find(&rooms).Error; err != nil {
		return nil, err
	}
	return rooms, nil
}

func (s *RoomService) GetRoom(id uint) (*models.Room, error) {
	var room models.Room
	if err := s.db.Where(&models.Room{ID: id}).Preload("Slots").First(&room).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, types.NewNotFoundError("room not found")
		}
		return nil, err
	}
	return &room, nil
}

func (s *RoomService) CreateRoom(params *types.CreateRoomRequestBody, imageKey *string) (*models.Room, error) {
	if !params.Type.Valid() {
		return nil, types.NewValidationError("type must be one of open, small_seminar, large_seminar")
	}
	if params.Capacity < 1 {
		return nil, types.NewValidationError("capacity must be at least 1")
	}
	room := models.Room{
		Name:      params.Name,
		Type:      params.Type,
		Capacity:  params.Capacity,
		ImageKey:  imageKey,
		Amenities: amenitiesJSONB(params.Amenities),
	}
	if params.Description != "" {
		room.Description = &params.Description
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Room{}).Where("name = ?", params.Name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return types.NewConflictError("a room with this name already exists")
		}
		if err := tx.Create(&room).Error; err != nil {
			if isUniqueViolation(err) {
				return types.NewConflictError("a room with this name already exists")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (s *RoomService) UpdateRoom(id uint, params *types.UpdateRoomRequestBody, newImageKey *string) (*models.Room, error) {
	if params.Type != nil && !params.Type.Valid() {
		return nil, types.NewValidationError("type must be one of open, small_seminar, large_seminar")
	}
	if params.Capacity != nil && *params.Capacity < 1 {
		return nil, types.NewValidationError("capacity must be at least 1")
	}
	var room models.Room
	var oldImageKey *string
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(&models.Room{ID: id}).First(&room).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return types.NewNotFoundError("room not found")
			}
			return err
		}
		updates := map[string]any{}
		if params.Name != nil {
			updates["name"] = *params.Name
		}
		if params.Type != nil {
			updates["type"] = *params.Type
		}
		if params.Capacity != nil {
			updates["capacity"] = *params.Capacity
		}
		if params.Description != nil {
			updates["description"] = *params.Description
		}
		if params.Amenities != nil {
			updates["amenities"] = amenitiesJSONB(*params.Amenities)
		}
		if newImageKey != nil {
			oldImageKey = room.ImageKey
			updates["image_key"] = *newImageKey
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&models.Room{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			if isUniqueViolation(err) {
				return types.NewConflictError("a room with this name already exists")
			}
			return err
		}
		return tx.Where(&models.Room{ID: id}).First(&room).Error
	})
	if err != nil {
		return nil, err
	}
	// The replaced image is released outside the transaction; a failed
	// delete leaves an orphan object but never blocks the room update.
	if oldImageKey != nil && (newImageKey == nil || *oldImageKey != *newImageKey) {
		go releaseImage(*oldImageKey)
	}
	return &room, nil
}

// DeleteRoom removes the room together with every booking that
// references it: ledger rows, attendee joins, and booking rows all go
// in the one transaction so no orphan booking stays queryable.
func (s *RoomService) DeleteRoom(id uint) error {
	var room models.Room
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(&models.Room{ID: id}).First(&room).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return types.NewNotFoundError("room not found")
			}
			return err
		}
		var bookingIds []uint
		if err := tx.
			Model(&models.Booking{}).
			Where("room_id = ?", id).
			Pluck("id", &bookingIds).
			Error; err != nil {
			return err
		}
		if len(bookingIds) > 0 {
			if err := tx.Exec("DELETE FROM booking_attendees WHERE booking_id IN (?)", bookingIds).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("room_id = ?", id).Delete(&models.RoomSlot{}).Error; err != nil {
			return err
		}
		// Hard deletes: a soft-deleted row would keep the room name and
		// slot entries occupying their unique indexes.
		if err := tx.Unscoped().Where("room_id = ?", id).Delete(&models.Booking{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&models.Room{}, id).Error
	})
	if err != nil {
		return err
	}
	if room.ImageKey != nil {
		go releaseImage(*room.ImageKey)
	}
	return nil
}

func releaseImage(key string) {
	if err := lib.S3DeleteAsset(key); err != nil {
		log.Printf("Could not release image asset [%s]: %s\n", key, err.Error())
	}
}

func amenitiesJSONB(amenities []types.Amenity) types.JSONBArray {
	arr := make(types.JSONBArray, 0, len(amenities))
	for _, a := range amenities {
		arr = append(arr, map[string]any{"name": a.Name, "icon": a.Icon})
	}
	return arr
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if err == gorm.ErrDuplicatedKey {
		return true
	}
	return strings.Contains(err.Error(), "duplicate key") ||
		strings.Contains(err.Error(), "UNIQUE constraint")
}
