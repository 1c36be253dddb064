package services

import (
	"log"
	"time"

	"rbs/src/config"
	"rbs/src/models"
	"rbs/src/types"
	"rbs/src/utils"

	"gorm.io/gorm"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func (s *UserService) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.
		Model(&models.User{}).
		Where("email = ?", utils.NormalizeEmail(email)).
		First(&user).
		Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, types.NewNotFoundError("user not found")
		}
		return nil, err
	}
	return &user, nil
}

func (s *UserService) FindByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.Where(&models.User{ID: id}).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, types.NewNotFoundError("user not found")
		}
		return nil, err
	}
	return &user, nil
}

func (s *UserService) ListUsers() ([]models.User, error) {
	var users []models.User
	if err := s.db.Order("id asc").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *UserService) CreateUser(username, email, passwordHash string) (*models.User, error) {
	email = utils.NormalizeEmail(email)
	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         types.ROLE_USER,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.
			Model(&models.User{}).
			Where("username = ? OR email = ?", username, email).
			Count(&count).
			Error; err != nil {
			return err
		}
		if count > 0 {
			return types.NewConflictError("username or email already taken")
		}
		if err := tx.Create(&user).Error; err != nil {
			if isUniqueViolation(err) {
				return types.NewConflictError("username or email already taken")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserService) UpdateRole(id uint, role types.UserRole) (*models.User, error) {
	if !role.Valid() {
		return nil, types.NewValidationError("role must be one of user, admin, manager")
	}
	var user models.User
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(&models.User{ID: id}).First(&user).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return types.NewNotFoundError("user not found")
			}
			return err
		}
		if err := tx.
			Model(&models.User{}).
			Where("id = ?", id).
			Update("role", role).
			Error; err != nil {
			return err
		}
		user.Role = role
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// RecordCancellation bumps the user's trailing cancellation counters
// and applies the block policy once the configured threshold is hit.
func (s *UserService) RecordCancellation(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return recordCancellation(tx, id, time.Now())
	})
}

func recordCancellation(tx *gorm.DB, userID uint, now time.Time) error {
	var user models.User
	if err := tx.Where(&models.User{ID: userID}).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return types.NewNotFoundError("user not found")
		}
		return err
	}
	updates := map[string]any{
		"cancel_count":   user.CancelCount + 1,
		"last_cancel_at": now,
	}
	if user.CancelCount+1 >= config.CancelBlockThreshold() {
		blockedUntil := now.Add(config.CancelBlockDuration())
		updates["blocked_until"] = blockedUntil
		updates["warning_count"] = user.WarningCount + 1
		log.Printf("User [%d] reached %d cancellations, blocked until %s\n", userID, user.CancelCount+1, blockedUntil.Format(time.RFC3339))
	}
	return tx.Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error
}

// ResetCancellationStats zeroes the trailing counters for every user
// whose last cancellation is older than the stats window. One batch
// UPDATE, so a failure resets nobody rather than some.
func (s *UserService) ResetCancellationStats(now time.Time) (int64, error) {
	cutoff := now.Add(-config.CancelStatsWindow())
	var affected int64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.
			Model(&models.User{}).
			Where("last_cancel_at < ?", cutoff).
			Where("cancel_count > 0 OR warning_count > 0").
			Updates(map[string]any{"cancel_count": 0, "warning_count": 0})
		if res.Error != nil {
			return res.Error
		}
		affected = res.RowsAffected
		return nil
	})
	return affected, err
}
