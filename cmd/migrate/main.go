// Schema migration and seed data.
// cmd/migrate/main.go
package main

import (
	"errors"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"idea-portfolio-api/config"
	"idea-portfolio-api/models"
	"idea-portfolio-api/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	config.InitDB()
	db := config.DB

	if err := db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.Idea{},
		&models.IdeaStageHistory{},
		&models.StagePolicy{},
		&models.Project{},
		&models.Milestone{},
		&models.VendorContract{},
		&models.Notification{},
	); err != nil {
		log.Fatal("Failed to migrate schema:", err)
	}
	log.Println("Schema migrated")

	roles := models.DefaultRoles()
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&roles).Error; err != nil {
		log.Fatal("Failed to seed roles:", err)
	}

	if err := seedAdmin(db); err != nil {
		log.Fatal("Failed to seed admin:", err)
	}

	hashPlaintextPasswords(db)
	log.Println("Migration completed!")
}

// seedAdmin creates the admin account from ADMIN_EMAIL and ADMIN_PASSWORD
// unless it already exists.
func seedAdmin(db *gorm.DB) error {
	email := strings.ToLower(strings.TrimSpace(os.Getenv("ADMIN_EMAIL")))
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Println("ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}
	if !utils.ValidateEmail(email) {
		return errors.New("ADMIN_EMAIL is not a valid address")
	}
	if ok, msg := utils.ValidatePassword(password); !ok {
		return errors.New("ADMIN_PASSWORD: " + msg)
	}

	var existing models.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		log.Printf("Admin %s already exists, skipping\n", email)
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	now := time.Now()
	admin := models.User{
		UserFname: "System",
		UserLname: "Administrator",
		Email:     email,
		Password:  string(hash),
		RoleID:    models.RoleAdmin,
		CreateAt:  &now,
		UpdateAt:  &now,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	log.Printf("Created admin %s\n", email)
	return nil
}

// hashPlaintextPasswords replaces any password that is not a bcrypt hash.
func hashPlaintextPasswords(db *gorm.DB) {
	var users []models.User
	if err := db.Find(&users).Error; err != nil {
		log.Fatal("Failed to fetch users:", err)
	}

	for _, user := range users {
		// bcrypt hashes start with $2
		if strings.HasPrefix(user.Password, "$2") || user.Password == "" {
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("Failed to hash password for user %s: %v\n", user.Email, err)
			continue
		}
		if err := db.Model(&user).Update("password", string(hash)).Error; err != nil {
			log.Printf("Failed to update password for user %s: %v\n", user.Email, err)
			continue
		}
		log.Printf("Hashed password for user %s\n", user.Email)
	}
}
