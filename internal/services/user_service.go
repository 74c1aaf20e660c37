package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sqlsage/sqlsage-backend/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService covers the admin user-management panel: listing accounts,
// promoting admins, resetting passwords and removing accounts. Removal
// keeps the user's query_logs and query_history rows; the audit trail
// outlives the account.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func (s *UserService) List(admin bool) ([]models.User, error) {
	if !admin {
		return nil, ErrForbidden
	}

	var users []models.User
	if err := s.db.Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *UserService) GrantAdmin(admin bool, id uuid.UUID) (*models.User, error) {
	if !admin {
		return nil, ErrForbidden
	}

	user, err := s.byID(id)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(user).Update("is_admin", true).Error; err != nil {
		return nil, err
	}
	user.IsAdmin = true
	return user, nil
}

func (s *UserService) ResetPassword(admin bool, id uuid.UUID, newPassword string) error {
	if !admin {
		return ErrForbidden
	}
	if len(newPassword) < 8 {
		return errors.New("password must be at least 8 characters")
	}

	user, err := s.byID(id)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.db.Model(user).Update("password_hash", string(hash)).Error
}

func (s *UserService) Delete(admin bool, id uuid.UUID) error {
	if !admin {
		return ErrForbidden
	}

	user, err := s.byID(id)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.RefreshToken{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_email = ?", user.Email).Delete(&models.UserSchema{}).Error; err != nil {
			return err
		}
		// query_logs and query_history rows stay behind on purpose.
		return tx.Delete(user).Error
	})
}

func (s *UserService) byID(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
