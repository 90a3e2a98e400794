package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"truthordare/internal/config"
	"truthordare/internal/model"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrReservedUserID     = errors.New("user id is reserved")
)

// AuthService issues and validates operator and player tokens
type AuthService struct {
	operatorUsername string
	operatorPassword string
	operatorID       string
	isOperator       func(string) bool
	jwtSecret        []byte
	now              func() time.Time
}

// NewAuthService creates an auth service from the process configuration
func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{
		operatorUsername: cfg.OperatorUser,
		operatorPassword: cfg.OperatorPass,
		operatorID:       cfg.PrimaryOperator(),
		isOperator:       cfg.IsOperator,
		jwtSecret:        []byte(cfg.JWTSecret),
		now:              time.Now,
	}
}

// Login validates the operator credentials and returns a permanent token
func (s *AuthService) Login(username, password string) (*model.TokenResponse, error) {
	if username != s.operatorUsername || password != s.operatorPassword || s.operatorID == "" {
		return nil, ErrInvalidCredentials
	}

	claims := &model.Claims{
		UserID: s.operatorID,
		Role:   model.RoleOperator,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(s.now()),
			// No expiry for the operator token
		},
	}
	return s.sign(claims)
}

// IssuePlayerToken creates a token for a fresh server-generated player id
func (s *AuthService) IssuePlayerToken() (*model.TokenResponse, error) {
	userID := "player_" + uuid.New().String()[:8]
	if s.isOperator(userID) {
		return nil, ErrReservedUserID
	}

	claims := &model.Claims{
		UserID: userID,
		Role:   model.RolePlayer,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(s.now()),
			ExpiresAt: jwt.NewNumericDate(s.now().Add(24 * time.Hour)),
		},
	}
	return s.sign(claims)
}

// Validate parses a token of either role and returns its claims
func (s *AuthService) Validate(tokenString string) (*model.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.Claims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *AuthService) sign(claims *model.Claims) (*model.TokenResponse, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}
	return &model.TokenResponse{
		Token:  tokenString,
		UserID: claims.UserID,
		Role:   claims.Role,
	}, nil
}
