package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gonzalofarias/distribuidora-api/config"
	"github.com/gonzalofarias/distribuidora-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupAuthTest(t *testing.T) (*AuthService, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := db.AutoMigrate(&models.UserType{}, &models.User{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	require.NoError(t, db.Create(&models.UserType{TipUsuCod: models.TipUsuCodAdmin, TipUsuNom: strPtr("Administrador")}).Error)

	cfg := &config.Config{
		JWTSecret:        "test-secret",
		JWTRefreshSecret: "test-refresh-secret",
	}
	return NewAuthService(db, cfg), db
}

func TestSignupHashesPassword(t *testing.T) {
	svc, db := setupAuthTest(t)

	user, err := svc.Signup(SignupInput{
		UsuNom:    "gonzalo",
		UsuCla:    "secreto123",
		TipUsuCod: models.TipUsuCodAdmin,
	})
	require.NoError(t, err)
	assert.NotEqual(t, "secreto123", user.UsuCla)

	var stored models.User
	require.NoError(t, db.First(&stored, "usunom = ?", "gonzalo").Error)
	assert.NotEqual(t, "secreto123", stored.UsuCla)
}

func TestSignupUnknownUserType(t *testing.T) {
	svc, _ := setupAuthTest(t)

	_, err := svc.Signup(SignupInput{UsuNom: "gonzalo", UsuCla: "x", TipUsuCod: 99})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoginReturnsTokenPair(t *testing.T) {
	svc, _ := setupAuthTest(t)

	_, err := svc.Signup(SignupInput{UsuNom: "gonzalo", UsuCla: "secreto123", TipUsuCod: models.TipUsuCodAdmin})
	require.NoError(t, err)

	user, tokens, err := svc.Login(LoginInput{UsuNom: "gonzalo", UsuCla: "secreto123"})
	require.NoError(t, err)
	assert.Equal(t, "gonzalo", user.UsuNom)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.NotEqual(t, tokens.AccessToken, tokens.RefreshToken)

	claims, err := svc.ValidateAccessToken(tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.UsuCod, claims.UsuCod)
	assert.Equal(t, models.TipUsuCodAdmin, claims.TipUsuCod)
	assert.Equal(t, "gonzalo", claims.Subject)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := setupAuthTest(t)

	_, err := svc.Signup(SignupInput{UsuNom: "gonzalo", UsuCla: "secreto123", TipUsuCod: models.TipUsuCodAdmin})
	require.NoError(t, err)

	_, _, err = svc.Login(LoginInput{UsuNom: "gonzalo", UsuCla: "otra"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(LoginInput{UsuNom: "desconocido", UsuCla: "secreto123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshIssuesNewPair(t *testing.T) {
	svc, _ := setupAuthTest(t)

	_, err := svc.Signup(SignupInput{UsuNom: "gonzalo", UsuCla: "secreto123", TipUsuCod: models.TipUsuCodAdmin})
	require.NoError(t, err)

	_, tokens, err := svc.Login(LoginInput{UsuNom: "gonzalo", UsuCla: "secreto123"})
	require.NoError(t, err)

	fresh, err := svc.Refresh(tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, fresh.AccessToken)

	// An access token is not accepted as a refresh token
	_, err = svc.Refresh(tokens.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateAccessTokenRejectsExpired(t *testing.T) {
	svc, _ := setupAuthTest(t)

	claims := AuthClaims{
		UsuCod:    1,
		TipUsuCod: models.TipUsuCodAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateAccessTokenRejectsWrongSecret(t *testing.T) {
	svc, _ := setupAuthTest(t)

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, AuthClaims{UsuCod: 1}).SignedString([]byte("wrong"))
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(forged)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
