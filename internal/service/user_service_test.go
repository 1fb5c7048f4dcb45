package service

import (
	"testing"

	"central-pos/internal/apperr"
	"central-pos/internal/model"
	"central-pos/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func newUserService(db *gorm.DB) UserService {
	return NewUserService(repository.NewUserRepo(db))
}

func TestCreateUserRequiresRole(t *testing.T) {
	db := setupSaleTestDB(t)
	svc := newUserService(db)

	_, err := svc.CreateUser(&CreateUserRequest{
		Username: "kasir2",
		Email:    "kasir2@example.com",
		Password: "password123",
	}, "admin")
	if !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("missing role: expected validation error, got %v", err)
	}

	user, err := svc.CreateUser(&CreateUserRequest{
		Username: "kasir2",
		Email:    "kasir2@example.com",
		Password: "password123",
		Role:     model.RoleKaryawan,
	}, "admin")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if user.Role != model.RoleKaryawan {
		t.Errorf("role = %s, want karyawan", user.Role)
	}
}

func TestUpdateUserUniquenessChecks(t *testing.T) {
	db := setupSaleTestDB(t)
	svc := newUserService(db)

	first, err := svc.CreateUser(&CreateUserRequest{
		Username: "one", Email: "one@example.com", Password: "password123", Role: model.RoleKaryawan,
	}, "admin")
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	if _, err := svc.CreateUser(&CreateUserRequest{
		Username: "two", Email: "two@example.com", Password: "password123", Role: model.RoleKaryawan,
	}, "admin"); err != nil {
		t.Fatalf("create second: %v", err)
	}

	taken := "two"
	_, err = svc.UpdateUser(first.ID, &UpdateUserRequest{Username: &taken}, "admin")
	if !apperr.Is(err, apperr.KindConflict) {
		t.Errorf("taken username: expected conflict error, got %v", err)
	}

	role := model.RoleOwner
	updated, err := svc.UpdateUser(first.ID, &UpdateUserRequest{Role: &role}, "admin")
	if err != nil {
		t.Fatalf("update role: %v", err)
	}
	if updated.Role != model.RoleOwner {
		t.Errorf("role = %s, want owner", updated.Role)
	}
}

func TestUpdateUserRehashesPassword(t *testing.T) {
	db := setupSaleTestDB(t)
	svc := newUserService(db)
	created, err := svc.CreateUser(&CreateUserRequest{
		Username: "kasir3", Email: "kasir3@example.com", Password: "oldpassword", Role: model.RoleKaryawan,
	}, "admin")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	newPassword := "newpassword"
	if _, err := svc.UpdateUser(created.ID, &UpdateUserRequest{Password: &newPassword}, "admin"); err != nil {
		t.Fatalf("update password: %v", err)
	}

	var user model.User
	if err := db.First(&user, "id = ?", created.ID).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if user.CheckPassword("oldpassword") {
		t.Error("old password still accepted")
	}
	if !user.CheckPassword("newpassword") {
		t.Error("new password rejected")
	}
}

func TestDeleteUser(t *testing.T) {
	db := setupSaleTestDB(t)
	svc := newUserService(db)
	created, err := svc.CreateUser(&CreateUserRequest{
		Username: "gone", Email: "gone@example.com", Password: "password123", Role: model.RoleKaryawan,
	}, "admin")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	if err := svc.DeleteUser(created.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}
	if _, err := svc.GetUserByID(created.ID); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("expected not found after delete, got %v", err)
	}

	if err := svc.DeleteUser(uuid.New()); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("unknown id: expected not found error, got %v", err)
	}
}
