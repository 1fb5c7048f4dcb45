package service

import (
	"errors"

	"central-pos/internal/apperr"
	"central-pos/internal/model"
	"central-pos/internal/repository"
	"central-pos/pkg/jwt"
	"central-pos/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserInactive       = errors.New("account is deactivated")
)

type AuthService interface {
	Register(req *RegisterRequest) (*model.UserResponse, error)
	Login(req *LoginRequest) (*LoginResponse, error)
	GetCurrentUser(userID uuid.UUID) (*model.UserResponse, error)
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=admin owner karyawan"`
}

// LoginRequest accepts either username or email.
type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string             `json:"token"`
	User  model.UserResponse `json:"user"`
}

type authService struct {
	userRepo repository.UserRepository
}

func NewAuthService(userRepo repository.UserRepository) AuthService {
	return &authService{userRepo: userRepo}
}

func (s *authService) Register(req *RegisterRequest) (*model.UserResponse, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		first := errs[0]
		return nil, apperr.Validation("Validation failed: field '%s' failed on tag '%s'", first.FailedField, first.Tag)
	}

	if _, err := s.userRepo.FindByUsernameOrEmail(req.Username, req.Email); err == nil {
		return nil, apperr.Conflict("Username or email already exists")
	}

	role := req.Role
	if role == "" {
		role = model.RoleKaryawan
	}

	user := model.User{
		Username: req.Username,
		Email:    req.Email,
		Role:     role,
		IsActive: true,
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

func (s *authService) Login(req *LoginRequest) (*LoginResponse, error) {
	if req.Username == "" && req.Email == "" {
		return nil, apperr.Validation("Email or username is required")
	}
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.Validation("Password is required")
	}

	var user *model.User
	var err error
	if req.Email != "" {
		user, err = s.userRepo.FindByEmail(req.Email)
	} else {
		user, err = s.userRepo.FindByUsername(req.Username)
	}
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrUserInactive
	}

	if !user.CheckPassword(req.Password) {
		return nil, ErrInvalidCredentials
	}

	token, err := jwt.GenerateToken(user.ID, user.Username, user.Email, user.Role)
	if err != nil {
		return nil, apperr.Persistence(err)
	}

	return &LoginResponse{
		Token: token,
		User:  user.ToResponse(),
	}, nil
}

func (s *authService) GetCurrentUser(userID uuid.UUID) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, apperr.Persistence(err)
	}
	resp := user.ToResponse()
	return &resp, nil
}
