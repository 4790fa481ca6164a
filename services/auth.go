package services

import (
	"errors"
	"fmt"
	"log"
	"net/mail"
	"socialcare365/models"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	// BcryptCost is the cost factor for bcrypt hashing
	BcryptCost = 10
	// TokenDuration is how long an issued bearer token stays valid
	TokenDuration = 24 * time.Hour
)

// TokenClaims are the claims embedded in every bearer token
type TokenClaims struct {
	UserID string `json:"id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(bytes), nil
}

// CheckPassword verifies a password against a hash
func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// GenerateToken signs a bearer token for the user
func GenerateToken(secret string, user *models.User) (string, error) {
	now := time.Now()
	claims := TokenClaims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenDuration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ParseToken verifies a bearer token and returns its claims
func ParseToken(secret, tokenString string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid or expired token")
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("token has no user id")
	}
	return claims, nil
}

// RegisterInput is the self-service registration payload
type RegisterInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	// Role is accepted so clients may send it, but it is always ignored
	Role string `json:"role"`
}

// ValidateRegistration checks registration input against the allowed email domain
func ValidateRegistration(input *RegisterInput, allowedDomain string) error {
	verr := &ValidationError{}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		verr.Add("email", "Email is required")
	} else if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		verr.Add("email", "Please enter a valid email address")
	} else if allowedDomain != "" && !strings.HasSuffix(email, allowedDomain) {
		verr.Add("email", fmt.Sprintf("Email must be a %s address", allowedDomain))
	}

	if err := ValidatePassword(input.Password); err != nil {
		verr.Add("password", capitalize(err.Error()))
	}
	if strings.TrimSpace(input.FirstName) == "" {
		verr.Add("firstName", "First name is required")
	}
	if strings.TrimSpace(input.LastName) == "" {
		verr.Add("lastName", "Last name is required")
	}

	return verr.Err()
}

// RegisterUser creates a caregiver account. The requested role is never honored.
func RegisterUser(db *gorm.DB, input *RegisterInput, allowedDomain string) (*models.User, error) {
	if err := ValidateRegistration(input, allowedDomain); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if count > 0 {
		return nil, ErrDuplicateEmail
	}

	hashedPassword, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:     email,
		Password:  hashedPassword,
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		Role:      models.RoleCaregiver,
		IsActive:  true,
	}

	if err := db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	LogSecurityEvent("USER_REGISTERED", user.ID, "Registered: "+user.Email)
	return user, nil
}

var (
	timingHashOnce sync.Once
	timingHashVal  string
)

func timingHash() string {
	timingHashOnce.Do(func() {
		timingHashVal, _ = HashPassword("dummy_password_for_timing_mitigation")
	})
	return timingHashVal
}

// AuthenticateUser checks credentials and records the login time
func AuthenticateUser(db *gorm.DB, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Equalize timing with the wrong-password path
			CheckPassword(password, timingHash())
			LogSecurityEvent("LOGIN_FAILED", "", "Unknown email: "+email)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	if !CheckPassword(password, user.Password) {
		LogSecurityEvent("LOGIN_FAILED", user.ID, "Wrong password")
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		LogSecurityEvent("LOGIN_BLOCKED", user.ID, "Inactive account")
		return nil, ErrAccountInactive
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := db.Model(&user).Update("last_login_at", now).Error; err != nil {
		log.Printf("[WARNING] Failed to record login time for user %s: %v", user.ID, err)
	}

	return &user, nil
}

// GetActiveUser loads an active user by id
func GetActiveUser(db *gorm.DB, id string) (*models.User, error) {
	var user models.User
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	if !user.IsActive {
		return nil, ErrAccountInactive
	}
	return &user, nil
}

// ListActiveUsers returns the directory of active users
func ListActiveUsers(db *gorm.DB) ([]models.UserSummary, error) {
	var users []models.UserSummary
	err := db.Model(&models.User{}).
		Select("id", "first_name", "last_name", "role").
		Where("is_active = ?", true).
		Order("first_name ASC, last_name ASC").
		Scan(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// LogSecurityEvent logs security-related events
func LogSecurityEvent(eventType, userID, details string) {
	log.Printf("[SECURITY] %s | User: %s | Details: %s", eventType, userID, details)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
