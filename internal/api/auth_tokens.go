package api

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/terraincognita07/worktrace/internal/models"
)

const (
	accessCookieName  = "worktrace_access"
	refreshCookieName = "worktrace_refresh"
	csrfCookieName    = "worktrace_csrf"
	csrfHeaderName    = "X-CSRF-Token"

	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour

	accessCookiePath  = "/"
	refreshCookiePath = "/api/auth/"

	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

var errInvalidToken = errors.New("invalid token")

type authClaims struct {
	UserID    uint   `json:"uid"`
	Role      string `json:"role"`
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

func (handler *Handler) buildToken(user *models.User, tokenType string, ttl time.Duration) (string, error) {
	now := handler.now()
	claims := authClaims{
		UserID:    user.ID,
		Role:      user.Role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(handler.secretKey)
}

// parseToken accepts only HS256 tokens of the wanted type that have not
// expired.
func (handler *Handler) parseToken(raw string, tokenType string) (*authClaims, error) {
	tokenValue := strings.TrimSpace(raw)
	if tokenValue == "" {
		return nil, errInvalidToken
	}

	claims := &authClaims{}
	token, err := jwt.ParseWithClaims(tokenValue, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return handler.secretKey, nil
	}, jwt.WithTimeFunc(handler.now))
	if err != nil || !token.Valid {
		return nil, errInvalidToken
	}
	if claims.TokenType != tokenType || claims.ExpiresAt == nil {
		return nil, errInvalidToken
	}
	return claims, nil
}

func (handler *Handler) setSessionCookies(c *fiber.Ctx, user *models.User) error {
	access, err := handler.buildToken(user, tokenTypeAccess, accessTokenTTL)
	if err != nil {
		return err
	}
	refresh, err := handler.buildToken(user, tokenTypeRefresh, refreshTokenTTL)
	if err != nil {
		return err
	}

	now := handler.now()
	c.Cookie(handler.sessionCookie(accessCookieName, access, accessCookiePath, now.Add(accessTokenTTL)))
	c.Cookie(handler.sessionCookie(refreshCookieName, refresh, refreshCookiePath, now.Add(refreshTokenTTL)))
	return nil
}

func (handler *Handler) clearSessionCookies(c *fiber.Ctx) {
	expired := handler.now().Add(-1 * time.Hour)
	c.Cookie(handler.sessionCookie(accessCookieName, "", accessCookiePath, expired))
	c.Cookie(handler.sessionCookie(refreshCookieName, "", refreshCookiePath, expired))
}

func (handler *Handler) sessionCookie(name string, value string, path string, expires time.Time) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		HTTPOnly: true,
		Secure:   handler.cookieSecure,
		SameSite: "Lax",
		Expires:  expires,
	}
}
