package services

import (
	"errors"
	"strings"
	"time"

	"taskify/internal/config"
	"taskify/internal/models"

	"github.com/gofrs/uuid"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const TokenIssuer = "taskify-backend"

var (
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
)

type AuthService interface {
	Signup(db *gorm.DB, email, password string) (*models.User, string, error)
	Login(db *gorm.DB, email, password string) (*models.User, string, error)
	Logout(db *gorm.DB, token string) error
	GetUserByID(db *gorm.DB, id uuid.UUID) (*models.User, error)
}

type AuthServiceImpl struct {
	cfg config.AuthConfig
}

func NewAuthService(cfg config.AuthConfig) *AuthServiceImpl {
	return &AuthServiceImpl{cfg: cfg}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	at := strings.Index(email, "@")
	if at < 1 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]
	return strings.Contains(domain, ".") && !strings.ContainsAny(email, " \t")
}

func (s *AuthServiceImpl) Signup(db *gorm.DB, email, password string) (*models.User, string, error) {
	email = NormalizeEmail(email)
	if !validEmail(email) {
		return nil, "", ErrInvalidEmail
	}
	if len(password) < 8 {
		return nil, "", ErrPasswordTooShort
	}

	var existing models.User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, "", ErrDuplicateEmail
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", err
	}

	cost := s.cfg.BCryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, "", err
	}

	user := models.User{
		ID:       uuid.Must(uuid.NewV4()),
		Email:    email,
		Password: string(hashed),
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, "", err
	}

	token, err := s.issueToken(db, &user)
	if err != nil {
		return nil, "", err
	}

	return &user, token, nil
}

func (s *AuthServiceImpl) Login(db *gorm.DB, email, password string) (*models.User, string, error) {
	email = NormalizeEmail(email)

	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	now := time.Now()
	user.LastLoginAt = &now
	db.Save(&user)

	token, err := s.issueToken(db, &user)
	if err != nil {
		return nil, "", err
	}

	return &user, token, nil
}

// Logout destroys the session backing the token. Unknown tokens are not an
// error; logout is idempotent.
func (s *AuthServiceImpl) Logout(db *gorm.DB, token string) error {
	return db.Where("token = ?", token).Delete(&models.Session{}).Error
}

func (s *AuthServiceImpl) GetUserByID(db *gorm.DB, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *AuthServiceImpl) issueToken(db *gorm.DB, user *models.User) (string, error) {
	ttl := s.cfg.TokenTTL
	if ttl == 0 {
		ttl = 30 * 24 * time.Hour
	}
	expiresAt := time.Now().Add(ttl)

	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"iss":     TokenIssuer,
		"exp":     expiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", err
	}

	session := models.Session{
		ID:        uuid.Must(uuid.NewV4()),
		UserID:    user.ID,
		Token:     signed,
		ExpiresAt: expiresAt,
	}
	if err := db.Create(&session).Error; err != nil {
		return "", err
	}

	return signed, nil
}
