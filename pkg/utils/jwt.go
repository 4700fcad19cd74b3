package utils

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenIssuer is the iss claim on every token this service signs.
const TokenIssuer = "nursing-home-backend"

// ErrInvalidToken is returned for tokens that parse but carry unusable claims.
var ErrInvalidToken = errors.New("invalid token")

var (
	accessSecret []byte
	accessExpiry time.Duration
)

// InitJWT sets the HS256 signing secret and the access token lifetime
func InitJWT(secret string, expiry time.Duration) {
	accessSecret = []byte(secret)
	accessExpiry = expiry
}

// Claims identify the staff member acting on a request
type Claims struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateAccessToken signs a token for a staff member. Every token gets its
// own jti so audit entries can be traced back to a single issuance.
func GenerateAccessToken(userID uint, role string) (string, error) {
	if userID == 0 || role == "" {
		return "", ErrInvalidToken
	}
	issuedAt := time.Now()
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    TokenIssuer,
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(accessExpiry)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(accessSecret)
}

var tokenParser = jwt.NewParser(
	jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	jwt.WithIssuer(TokenIssuer),
	jwt.WithExpirationRequired(),
)

// ValidateAccessToken checks signature, issuer and expiry and returns the
// claims of a usable token
func ValidateAccessToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := tokenParser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return accessSecret, nil
	})
	if err != nil {
		return nil, err
	}
	if claims.UserID == 0 || claims.Role == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
