package config

import (
	"log"

	"loanbridge/internal/adapters/persistence/models"
	"loanbridge/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db  *gorm.DB
	cfg *Config
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, cfg *Config) *Seeder {
	return &Seeder{db: db, cfg: cfg}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedManager(); err != nil {
		log.Printf("⚠️ Manager seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedManager creates the manager account from MANAGER_EMAIL and
// MANAGER_PASSWORD. There is no registration endpoint; this is the only
// way an account comes into existence.
func (s *Seeder) seedManager() error {
	if s.cfg.Manager.Email == "" || s.cfg.Manager.Password == "" {
		log.Println("⚠️ Skipping manager seed: MANAGER_EMAIL / MANAGER_PASSWORD not set")
		return nil
	}

	var count int64
	s.db.Model(&models.User{}).Where("email = ?", s.cfg.Manager.Email).Count(&count)
	if count > 0 {
		return nil // Manager already exists
	}

	if !password.ValidatePassword(s.cfg.Manager.Password) {
		log.Println("⚠️ Skipping manager seed: password must be at least 8 characters")
		return nil
	}

	hashedPassword, err := password.Hash(s.cfg.Manager.Password)
	if err != nil {
		return err
	}

	manager := &models.User{
		Name:     s.cfg.Manager.Name,
		Email:    s.cfg.Manager.Email,
		Password: hashedPassword,
		Role:     "MANAGER",
		IsActive: true,
	}

	if err := s.db.Create(manager).Error; err != nil {
		return err
	}

	log.Printf("✅ Manager account created: %s", manager.Email)
	return nil
}
