package service

import (
	"errors"

	"central-pos/internal/apperr"
	"central-pos/internal/model"
	"central-pos/internal/repository"
	"central-pos/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserService interface {
	CreateUser(req *CreateUserRequest, createdBy string) (*model.UserResponse, error)
	UpdateUser(id uuid.UUID, req *UpdateUserRequest, updatedBy string) (*model.UserResponse, error)
	DeleteUser(id uuid.UUID) error
	GetAllUsers() ([]model.UserResponse, error)
	GetUserByID(id uuid.UUID) (*model.UserResponse, error)
}

type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=admin owner karyawan"`
}

type UpdateUserRequest struct {
	Username *string `json:"username" validate:"omitempty,min=3"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=6"`
	Role     *string `json:"role" validate:"omitempty,oneof=admin owner karyawan"`
	IsActive *bool   `json:"is_active"`
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) CreateUser(req *CreateUserRequest, createdBy string) (*model.UserResponse, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		first := errs[0]
		return nil, apperr.Validation("Validation failed: field '%s' failed on tag '%s'", first.FailedField, first.Tag)
	}

	if _, err := s.userRepo.FindByUsernameOrEmail(req.Username, req.Email); err == nil {
		return nil, apperr.Conflict("Username or email already exists")
	}

	user := model.User{
		BaseModel: model.BaseModel{CreatedBy: createdBy, UpdatedBy: createdBy},
		Username:  req.Username,
		Email:     req.Email,
		Role:      req.Role,
		IsActive:  true,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, apperr.Persistence(err)
	}

	if err := s.userRepo.Create(&user); err != nil {
		return nil, apperr.Persistence(err)
	}

	resp := user.ToResponse()
	return &resp, nil
}

func (s *userService) UpdateUser(id uuid.UUID, req *UpdateUserRequest, updatedBy string) (*model.UserResponse, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		first := errs[0]
		return nil, apperr.Validation("Validation failed: field '%s' failed on tag '%s'", first.FailedField, first.Tag)
	}

	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, apperr.Persistence(err)
	}

	if req.Username != nil && *req.Username != user.Username {
		if _, err := s.userRepo.FindByUsername(*req.Username); err == nil {
			return nil, apperr.Conflict("Username already exists")
		}
		user.Username = *req.Username
	}
	if req.Email != nil && *req.Email != user.Email {
		if _, err := s.userRepo.FindByEmail(*req.Email); err == nil {
			return nil, apperr.Conflict("Email already exists")
		}
		user.Email = *req.Email
	}
	if req.Password != nil {
		if err := user.SetPassword(*req.Password); err != nil {
			return nil, apperr.Persistence(err)
		}
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	user.UpdatedBy = updatedBy

	if err := s.userRepo.Update(user); err != nil {
		return nil, apperr.Persistence(err)
	}

	resp := user.ToResponse()
	return &resp, nil
}

func (s *userService) DeleteUser(id uuid.UUID) error {
	if _, err := s.userRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("User not found")
		}
		return apperr.Persistence(err)
	}
	if err := s.userRepo.Delete(id); err != nil {
		return apperr.Persistence(err)
	}
	return nil
}

func (s *userService) GetAllUsers() ([]model.UserResponse, error) {
	users, err := s.userRepo.FindAll()
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	responses := make([]model.UserResponse, len(users))
	for i, u := range users {
		responses[i] = u.ToResponse()
	}
	return responses, nil
}

func (s *userService) GetUserByID(id uuid.UUID) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, apperr.Persistence(err)
	}
	resp := user.ToResponse()
	return &resp, nil
}
