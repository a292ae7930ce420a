package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"couple-diary-system/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailTaken         = errors.New("email already registered")
)

const tokenTTL = 7 * 24 * time.Hour

type AuthService struct {
	DB        *gorm.DB
	jwtSecret []byte
}

func NewAuthService(db *gorm.DB, jwtSecret string) *AuthService {
	return &AuthService{DB: db, jwtSecret: []byte(jwtSecret)}
}

// newPartnerCode derives a short shareable invite code.
func newPartnerCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

// Register creates an account. The unique indexes on username and email are
// the source of truth for duplicates: a conflicting insert (including one that
// lost a race with a concurrent registration) comes back as a duplicate-key
// error and is mapped to the matching sentinel.
func (s *AuthService) Register(username, email, password string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		PartnerCode:  newPartnerCode(),
	}
	if err := s.DB.Create(&user).Error; err != nil {
		if isDuplicateKey(err) {
			var taken int64
			s.DB.Model(&models.User{}).Where("username = ?", username).Count(&taken)
			if taken > 0 {
				return nil, ErrUsernameTaken
			}
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return &user, nil
}

// Login verifies credentials and issues a signed bearer token.
func (s *AuthService) Login(username, password string) (string, *models.User, error) {
	var user models.User
	if err := s.DB.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   user.ID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, &user, nil
}

// ParseToken validates a bearer token and returns the user ID it carries.
func (s *AuthService) ParseToken(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", errors.New("token missing subject")
	}
	return claims.Subject, nil
}

// UpdateProfile changes the notification settings the dispatcher relies on.
func (s *AuthService) UpdateProfile(userID, phoneNumber string, smsNotifications bool) (*models.User, error) {
	var user models.User
	if err := s.DB.First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	user.PhoneNumber = phoneNumber
	user.SMSNotifications = smsNotifications
	if err := s.DB.Save(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
