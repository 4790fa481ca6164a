package main

import (
	"bufio"
	"errors"
	"fmt"
	"log"
	"os"
	"socialcare365/config"
	"socialcare365/db"
	"socialcare365/models"
	"socialcare365/services"
	"strings"
	"syscall"

	"golang.org/x/term"
)

// Self-service registration only creates caregivers; managers are created here.
func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	err := db.Initialize(db.Options{
		Path:           cfg.DBPath,
		Environment:    cfg.Environment,
		TursoURL:       cfg.TursoDatabaseURL,
		TursoAuthToken: cfg.TursoAuthToken,
	})
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.AutoMigrate(models.All()...); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	reader := bufio.NewReader(os.Stdin)
	prompt := func(label string) string {
		fmt.Print(label)
		value, _ := reader.ReadString('\n')
		return strings.TrimSpace(value)
	}

	fmt.Println("=== Create New User ===")
	fmt.Println()

	input := &services.RegisterInput{
		FirstName: prompt("First name: "),
		LastName:  prompt("Last name: "),
		Email:     prompt("Email: "),
	}

	role := strings.ToLower(prompt("Role (caregiver/manager) [caregiver]: "))
	if role == "" {
		role = models.RoleCaregiver
	}
	if !models.IsValidRole(role) {
		log.Fatalf("Unknown role %q", role)
	}

	// Get password securely
	fmt.Print("Password: ")
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		log.Fatalf("Failed to read password: %v", err)
	}
	input.Password = string(passwordBytes)
	fmt.Println() // New line after password input

	// Operators may create accounts outside the registration domain
	user, err := services.RegisterUser(db.DB, input, "")
	if err != nil {
		var verr *services.ValidationError
		switch {
		case errors.As(err, &verr):
			for _, fe := range verr.Errors {
				fmt.Printf("  %s: %s\n", fe.Field, fe.Message)
			}
			log.Fatal("Invalid user details")
		case errors.Is(err, services.ErrDuplicateEmail):
			log.Fatalf("User with email %s already exists", input.Email)
		default:
			log.Fatalf("Failed to create user: %v", err)
		}
	}

	if role != user.Role {
		if err := db.DB.Model(user).Update("role", role).Error; err != nil {
			log.Fatalf("Failed to set role: %v", err)
		}
		services.LogSecurityEvent("ROLE_ASSIGNED", user.ID, "Role set to "+role+" from CLI")
	}

	fmt.Println()
	fmt.Println("✓ User created successfully!")
	fmt.Printf("  ID: %s\n", user.ID)
	fmt.Printf("  Name: %s\n", user.FullName())
	fmt.Printf("  Email: %s\n", user.Email)
	fmt.Printf("  Role: %s\n", role)
	fmt.Println()
	fmt.Printf("The user can now sign in at %s\n", cfg.AppURL)
}
