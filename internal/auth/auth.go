// Package auth authenticates back-office operators.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/terra-clan/company-site/internal/models"
	"github.com/terra-clan/company-site/internal/storage"
)

// Auth errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

// MinPasswordLength is enforced when admins are created
const MinPasswordLength = 8

// DefaultTokenTTL is used when Config.TokenTTL is zero
const DefaultTokenTTL = 24 * time.Hour

const issuer = "company-site"

// Claims identify the admin a token was issued to
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// AdminID returns the admin user id carried in the subject
func (c *Claims) AdminID() string {
	return c.Subject
}

// Config holds token settings
type Config struct {
	Secret   string
	TokenTTL time.Duration
}

// Authenticator checks admin credentials and issues HS256 tokens
type Authenticator struct {
	admins storage.Collection[models.AdminUser]
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewAuthenticator creates an authenticator over the admin collection
func NewAuthenticator(admins storage.Collection[models.AdminUser], cfg Config) (*Authenticator, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Authenticator{
		admins: admins,
		secret: []byte(cfg.Secret),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Login verifies email and password and returns a signed token with its
// expiry
func (a *Authenticator) Login(ctx context.Context, email, password string) (string, time.Time, error) {
	email = normalizeEmail(email)
	users, err := a.admins.Find(ctx, storage.Query{Where: map[string]any{"email": email}, Limit: 1})
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to look up admin: %w", err)
	}
	if len(users) == 0 {
		// Spend comparable time so unknown emails are not distinguishable
		bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return "", time.Time{}, ErrInvalidCredentials
	}

	user := users[0]
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", time.Time{}, ErrInvalidCredentials
	}

	return a.Issue(&user)
}

// Issue signs a token for user
func (a *Authenticator) Issue(user *models.AdminUser) (string, time.Time, error) {
	now := a.now().UTC()
	expires := now.Add(a.ttl)

	claims := Claims{
		Email: user.Email,
		Name:  user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expires, nil
}

// Verify parses and validates a token
func (a *Authenticator) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.secret, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(a.now),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// CreateAdmin stores a new admin with a bcrypt-hashed password
func (a *Authenticator) CreateAdmin(ctx context.Context, email, name, password string) (*models.AdminUser, error) {
	email = normalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, &models.ValidationError{Fields: map[string]string{"email": "Please enter a valid email address."}}
	}
	if len(password) < MinPasswordLength {
		return nil, &models.ValidationError{Fields: map[string]string{
			"password": fmt.Sprintf("Password must be at least %d characters.", MinPasswordLength),
		}}
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.AdminUser{Email: email, Name: strings.TrimSpace(name), PasswordHash: hash}
	if err := a.admins.Create(ctx, user); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return nil, fmt.Errorf("admin %s already exists: %w", email, err)
		}
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}
	return user, nil
}

// HashPassword returns the bcrypt hash of password
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// dummyHash is compared against when the email is unknown
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.MinCost)
