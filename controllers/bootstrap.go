package controllers

import (
	"os"

	"github.com/gamevault/gamevault/config"
	"github.com/gamevault/gamevault/models"
	"github.com/gamevault/gamevault/utils"
	"golang.org/x/crypto/bcrypt"
)

// EnsureAdminAccount creates the initial admin account on first boot. The
// credentials come from ADMIN_EMAIL / ADMIN_PASSWORD; nothing is created when
// they are unset or an admin already exists.
func EnsureAdminAccount() error {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		utils.LogInfo("Admin bootstrap skipped: ADMIN_EMAIL / ADMIN_PASSWORD not set")
		return nil
	}

	var count int64
	if err := config.DB.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.User{
		Username:     "admin",
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         models.RoleAdmin,
		Status:       models.UserStatusActive,
	}
	if err := config.DB.Create(&admin).Error; err != nil {
		return err
	}

	utils.LogInfo("Bootstrap admin account created: %s", email)
	return nil
}

// EnsureDefaultCategory creates a catch-all category when the table is empty
// so new games always have somewhere to go.
func EnsureDefaultCategory() error {
	var count int64
	if err := config.DB.Model(&models.Category{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	category := models.Category{Name: "Uncategorized"}
	if err := config.DB.Create(&category).Error; err != nil {
		return err
	}

	utils.LogInfo("Default category created")
	return nil
}
