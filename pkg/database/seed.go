package database

import (
	"fmt"

	"orderportal/internal/model"
	"orderportal/pkg/config"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// SeedSuperAdmin creates the platform super-admin account if no account with
// that role exists yet. Credentials come from configuration.
func SeedSuperAdmin(cfg *config.Config) error {
	var count int64
	if err := db.Model(&model.Tenant{}).Where("role = ?", model.RoleSuperAdmin).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check for super admin: %w", err)
	}
	if count > 0 {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.Seed.SuperAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash super admin password: %w", err)
	}

	superAdmin := model.Tenant{
		Username:    cfg.Seed.SuperAdminUsername,
		Password:    string(hashed),
		Name:        "Platform Super Admin",
		CompanyName: "Platform",
		UniqueCode:  uuid.New().String()[:8],
		Role:        model.RoleSuperAdmin,
		IsActive:    true,
	}

	if err := db.Create(&superAdmin).Error; err != nil {
		return fmt.Errorf("failed to create super admin: %w", err)
	}
	return nil
}
