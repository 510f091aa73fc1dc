// Package auth validates the JWT access tokens issued by the identity
// service. Token issuance and refresh live in that service; this side only
// needs to verify a token and extract the acting user.
package auth

import (
	"fmt"
	"time"

	"github.com/courseloom/backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

// TokenGenerator handles JWT access token generation and validation
type TokenGenerator struct {
	secret            string
	accessTokenExpiry time.Duration
}

// NewTokenGenerator creates a new token generator
func NewTokenGenerator(secret string, accessExpiry time.Duration) *TokenGenerator {
	return &TokenGenerator{
		secret:            secret,
		accessTokenExpiry: accessExpiry,
	}
}

// GenerateAccessToken creates an access token with userID and role in payload
func (tg *TokenGenerator) GenerateAccessToken(userID int64, role models.Role) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    int(role),
		"exp":     time.Now().Add(tg.accessTokenExpiry).Unix(),
		"iat":     time.Now().Unix(),
		"type":    "access",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(tg.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}

	return tokenString, nil
}

// ValidateAccessToken validates an access token and returns the acting user
func (tg *TokenGenerator) ValidateAccessToken(tokenString string) (*models.Actor, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		// Validate the signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(tg.secret), nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("token is invalid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	// Check token type
	tokenType, ok := claims["type"].(string)
	if !ok || tokenType != "access" {
		return nil, fmt.Errorf("token is not an access token")
	}

	// Extract userID (JWT claims decode numbers as float64)
	userID, ok := claims["user_id"].(float64)
	if !ok {
		return nil, fmt.Errorf("user_id not found in token")
	}

	// Extract role (JWT claims decode numbers as float64)
	roleNum, ok := claims["role"].(float64)
	if !ok {
		return nil, fmt.Errorf("role not found in token")
	}

	role := models.Role(int(roleNum))
	if !role.Valid() {
		return nil, fmt.Errorf("unknown role %d in token", int(roleNum))
	}

	return &models.Actor{ID: int64(userID), Role: role}, nil
}
