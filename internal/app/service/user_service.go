package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/abrefacil/briefing-backend/internal/app/model"
	"github.com/abrefacil/briefing-backend/internal/app/repository"
	"github.com/abrefacil/briefing-backend/pkg/logger"
)

var ErrCannotDemoteSelf = errors.New("não é possível remover o próprio acesso de administrador")

// UpdateUserInput is the admin-side partial update of an account
type UpdateUserInput struct {
	Name     *string         `json:"name"`
	Role     *model.UserRole `json:"role"`
	IsActive *bool           `json:"isActive"`
}

// UserService is the admin-facing account management surface
type UserService interface {
	ListUsers() ([]model.User, error)
	GetUser(id string) (*model.User, error)
	UpdateUser(id string, input UpdateUserInput, actorID string) (*model.User, error)
	DeleteUser(id string, actorID string) error
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) ListUsers() ([]model.User, error) {
	return s.userRepo.FindAll()
}

func (s *userService) GetUser(id string) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) UpdateUser(id string, input UpdateUserInput, actorID string) (*model.User, error) {
	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}

	// An admin may not strip their own role or deactivate themselves,
	// otherwise the panel can be left without any administrator.
	if id == actorID {
		if input.Role != nil && *input.Role != model.RoleAdmin {
			return nil, ErrCannotDemoteSelf
		}
		if input.IsActive != nil && !*input.IsActive {
			return nil, ErrCannotDemoteSelf
		}
	}

	if input.Name != nil && *input.Name != "" {
		user.Name = *input.Name
	}
	if input.Role != nil {
		if *input.Role != model.RoleUser && *input.Role != model.RoleAdmin {
			return nil, ValidationErrors{"role": "papel inválido"}
		}
		user.Role = *input.Role
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	logger.Info("User account updated", map[string]interface{}{
		"user_id":   user.ID,
		"role":      user.Role,
		"is_active": user.IsActive,
	})
	return user, nil
}

func (s *userService) DeleteUser(id string, actorID string) error {
	if id == actorID {
		return ErrCannotDemoteSelf
	}

	if _, err := s.GetUser(id); err != nil {
		return err
	}
	return s.userRepo.Delete(id)
}
