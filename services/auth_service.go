package services

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gonzalofarias/distribuidora-api/config"
	"github.com/gonzalofarias/distribuidora-api/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Token lifetimes for the access/refresh pair
const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

var (
	// ErrInvalidCredentials means the username or password did not match
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken means a token failed signature or claims validation
	ErrInvalidToken = errors.New("invalid token")
)

// AuthClaims are the JWT claims carried by both token kinds
type AuthClaims struct {
	UsuCod    int    `json:"usucod"`
	TipUsuCod int    `json:"tipusucod"`
	jwt.RegisteredClaims
}

// TokenPair is the access/refresh pair returned on login
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AuthService signs and validates the API's own HS256 tokens and manages
// user credentials
type AuthService struct {
	db            *gorm.DB
	secret        []byte
	refreshSecret []byte
}

// NewAuthService creates an AuthService from the loaded configuration
func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{
		db:            db,
		secret:        []byte(cfg.JWTSecret),
		refreshSecret: []byte(cfg.JWTRefreshSecret),
	}
}

// SignupInput carries the fields needed to register a user
type SignupInput struct {
	UsuNom    string `json:"usunom" binding:"required"`
	UsuCla    string `json:"usucla" binding:"required"`
	TipUsuCod int    `json:"tipusucod" binding:"required"`
}

// LoginInput carries the login credentials
type LoginInput struct {
	UsuNom string `json:"usunom" binding:"required"`
	UsuCla string `json:"usucla" binding:"required"`
}

// Signup registers a user with a bcrypt-hashed password
func (s *AuthService) Signup(input SignupInput) (*models.User, error) {
	var userType models.UserType
	if err := s.db.First(&userType, "tipusucod = ?", input.TipUsuCod).Error; err != nil {
		return nil, fmt.Errorf("user type %d: %w", input.TipUsuCod, TranslateDBError(err))
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(input.UsuCla), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user := models.User{
		UsuNom:    input.UsuNom,
		UsuCla:    string(hash),
		TipUsuCod: &input.TipUsuCod,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, TranslateDBError(err)
	}
	return &user, nil
}

// Login validates credentials and signs the access and refresh tokens.
// Both tokens are signed concurrently.
func (s *AuthService) Login(input LoginInput) (*models.User, *TokenPair, error) {
	var user models.User
	if err := s.db.First(&user, "usunom = ?", input.UsuNom).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, TranslateDBError(err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.UsuCla), []byte(input.UsuCla)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.signPair(&user)
	if err != nil {
		return nil, nil, err
	}
	return &user, pair, nil
}

// Refresh validates a refresh token and issues a fresh pair
func (s *AuthService) Refresh(refreshToken string) (*TokenPair, error) {
	claims, err := s.parse(refreshToken, s.refreshSecret)
	if err != nil {
		return nil, err
	}
	var user models.User
	if err := s.db.First(&user, "usucod = ?", claims.UsuCod).Error; err != nil {
		return nil, TranslateDBError(err)
	}
	return s.signPair(&user)
}

// ValidateAccessToken checks an access token and returns its claims
func (s *AuthService) ValidateAccessToken(token string) (*AuthClaims, error) {
	return s.parse(token, s.secret)
}

func (s *AuthService) signPair(user *models.User) (*TokenPair, error) {
	pair := &TokenPair{}
	var wg sync.WaitGroup
	var accessErr, refreshErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		pair.AccessToken, accessErr = s.sign(user, s.secret, accessTokenTTL)
	}()
	go func() {
		defer wg.Done()
		pair.RefreshToken, refreshErr = s.sign(user, s.refreshSecret, refreshTokenTTL)
	}()
	wg.Wait()
	if accessErr != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", accessErr)
	}
	if refreshErr != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", refreshErr)
	}
	return pair, nil
}

func (s *AuthService) sign(user *models.User, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	tipUsuCod := 0
	if user.TipUsuCod != nil {
		tipUsuCod = *user.TipUsuCod
	}
	claims := AuthClaims{
		UsuCod:    user.UsuCod,
		TipUsuCod: tipUsuCod,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.UsuNom,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func (s *AuthService) parse(token string, secret []byte) (*AuthClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &AuthClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*AuthClaims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
