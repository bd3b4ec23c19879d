package repository

import (
	"context"

	"shoptobd/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=admin_repo.go -destination=mocks/admin_repo_mock.go -package=mocks

type AdminRepository interface {
	Create(ctx context.Context, admin *model.AdminUser) error
	FindByEmail(ctx context.Context, email string) (*model.AdminUser, error)
	FindRoleByName(ctx context.Context, name string) (*model.AdminRole, error)
	// EnsureRole creates a system role if it does not exist yet and returns it.
	EnsureRole(ctx context.Context, name, description string) (*model.AdminRole, error)
}

type adminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) Create(ctx context.Context, admin *model.AdminUser) error {
	return GetDB(ctx, r.db).Omit("Role").Create(admin).Error
}

func (r *adminRepository) FindByEmail(ctx context.Context, email string) (*model.AdminUser, error) {
	var admin model.AdminUser
	if err := GetDB(ctx, r.db).Preload("Role").First(&admin, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *adminRepository) FindRoleByName(ctx context.Context, name string) (*model.AdminRole, error) {
	var role model.AdminRole
	if err := GetDB(ctx, r.db).First(&role, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *adminRepository) EnsureRole(ctx context.Context, name, description string) (*model.AdminRole, error) {
	db := GetDB(ctx, r.db)
	role := model.AdminRole{Name: name, Description: description, IsSystem: true}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&role).Error; err != nil {
		return nil, err
	}
	return r.FindRoleByName(ctx, name)
}
