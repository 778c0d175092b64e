package utils

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"interviewai/interview/internal/models"
)

var parseJWT = func(tokenStr string, keyFunc jwt.Keyfunc) (*jwt.Token, error) {
	return jwt.Parse(tokenStr, keyFunc)
}

var (
	ErrMissingAuthHeader = errors.New("missing or malformed Authorization header")
	ErrInvalidToken      = errors.New("invalid token")
	ErrInvalidClaims     = errors.New("invalid token claims")
)

// VerifyToken fetches the Authorization header, validates the JWT,
// and returns the claims if everything is valid.
func VerifyToken(r *http.Request, secret string) (jwt.MapClaims, error) {
	authz := r.Header.Get("Authorization")
	if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
		return nil, ErrMissingAuthHeader
	}
	tokenStr := strings.TrimPrefix(authz, "Bearer ")

	token, err := parseJWT(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidClaims
	}
	return claims, nil
}

// SignAccountToken issues a token for an authenticated HR account.
func SignAccountToken(userID, secret string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID,
		"typ": "account",
		"exp": time.Now().Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// SignCandidateToken issues the signed credential a candidate carries between
// requests instead of a raw cookie payload.
func SignCandidateToken(session models.CandidateSession, secret string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"typ":         "candidate",
		"email":       session.Email,
		"sessionCode": session.SessionCode,
		"interviewId": session.InterviewID,
		"exp":         time.Now().Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// GetUserIDFromClaims extracts the "sub" (user ID) from account claims.
func GetUserIDFromClaims(claims jwt.MapClaims) (string, error) {
	if typ, _ := claims["typ"].(string); typ != "" && typ != "account" {
		return "", ErrInvalidClaims
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", errors.New("missing sub claim")
	}
	return sub, nil
}

// CandidateSessionFromClaims rebuilds the candidate credential from claims.
func CandidateSessionFromClaims(claims jwt.MapClaims) (*models.CandidateSession, error) {
	if typ, _ := claims["typ"].(string); typ != "candidate" {
		return nil, ErrInvalidClaims
	}
	email, _ := claims["email"].(string)
	code, _ := claims["sessionCode"].(string)
	interviewID, _ := claims["interviewId"].(string)
	if email == "" || code == "" || interviewID == "" {
		return nil, ErrInvalidClaims
	}
	return &models.CandidateSession{
		Email:       email,
		SessionCode: code,
		InterviewID: interviewID,
	}, nil
}
