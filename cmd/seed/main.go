// Command seed populates the users collection with the default marketplace
// accounts when it is empty. Safe to run repeatedly.
package main

import (
	"context"
	"errors"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/streetmuse/freelance-platform/internal/core/domain"
	"github.com/streetmuse/freelance-platform/internal/infrastructure/config"
	mongodb "github.com/streetmuse/freelance-platform/internal/infrastructure/db/mongo"
)

type seedUser struct {
	Name     string
	Email    string
	Role     domain.Role
	Password string
}

var defaultUsers = []seedUser{
	{Name: "Admin User", Email: "admin@freelance.com", Role: domain.RoleAdmin, Password: "admin123"},
	{Name: "John Client", Email: "john@client.com", Role: domain.RoleClient, Password: "client123"},
	{Name: "Jane Freelancer", Email: "jane@freelancer.com", Role: domain.RoleFreelancer, Password: "freelancer123"},
	{Name: "Bob Freelancer", Email: "bob@freelancer.com", Role: domain.RoleFreelancer, Password: "freelancer123"},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()
	ctx := context.Background()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = client.Disconnect(ctx) }()

	repo := mongodb.NewUserRepository(db)
	if err := repo.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	created, skipped := 0, 0
	for _, su := range defaultUsers {
		hash, err := bcrypt.GenerateFromPassword([]byte(su.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("Failed to hash password for %s: %v", su.Email, err)
		}

		_, err = repo.Insert(ctx, &domain.User{
			Name:         su.Name,
			Email:        su.Email,
			PasswordHash: string(hash),
			Role:         su.Role,
			CreatedAt:    time.Now().UTC(),
		})
		switch {
		case errors.Is(err, domain.ErrUserExists):
			skipped++
		case err != nil:
			log.Fatalf("Failed to seed %s: %v", su.Email, err)
		default:
			created++
		}
	}

	log.Printf("Seed completed: %d created, %d already present", created, skipped)
}
