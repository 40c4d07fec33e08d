package main

import (
	"context"
	"fmt"
	"log"

	"github.com/classhub-team/classhub/internal/adapter/repository"
	"github.com/classhub-team/classhub/internal/domain/entities"
	"github.com/classhub-team/classhub/internal/infrastructure/database"
	"github.com/classhub-team/classhub/pkg/config"
	pkgjwt "github.com/classhub-team/classhub/pkg/jwt"
)

func main() {
	log.Println("🚀 Starting test users creation...")

	// Load configuration from .env
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database
	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	log.Println("✅ Database connected successfully")

	// Initialize JWT manager
	jwtManager := pkgjwt.NewManager(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	userRepo := repository.NewUserRepository(db)
	ctx := context.Background()

	// Define test users, one teacher and two students
	testUsers := []struct {
		Username string
		Email    string
		Name     string
		Role     entities.UserRole
	}{
		{Username: "ms-rivera", Email: "rivera@test.local", Name: "Ms. Rivera", Role: entities.RoleTeacher},
		{Username: "alice", Email: "alice@test.local", Name: "Alice", Role: entities.RoleStudent},
		{Username: "bob", Email: "bob@test.local", Name: "Bob", Role: entities.RoleStudent},
	}

	for _, tu := range testUsers {
		if existing, err := userRepo.FindByEmail(ctx, tu.Email); err == nil && existing != nil {
			log.Printf("⏭️  %s already exists, skipping", tu.Email)
			continue
		}

		user := entities.NewUser(tu.Username, tu.Email, tu.Name)
		user.Role = tu.Role

		if err := userRepo.Create(ctx, user); err != nil {
			log.Fatalf("Failed to create user %s: %v", tu.Email, err)
		}

		token, err := jwtManager.GenerateAccessToken(user.ID, user.Username, string(user.Role))
		if err != nil {
			log.Fatalf("Failed to generate token for %s: %v", tu.Email, err)
		}

		fmt.Printf("\n👤 %s (%s)\n", user.Name, user.Role)
		fmt.Printf("   ID:    %s\n", user.ID)
		fmt.Printf("   Token: %s\n", token)
	}

	log.Println("\n✅ Test users ready")
}
