package devserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/zhubert/parley/internal/errors"
)

const (
	detailBadCredentials = "Could not validate credentials"
	userContextKey       = "devserver.user"
)

// tokenIssuer signs and checks HS256 access tokens whose subject is the
// user id.
type tokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func (t *tokenIssuer) issue(userID string) (string, error) {
	now := t.now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// subject validates token and returns its user id.
func (t *tokenIssuer) subject(token string) (string, error) {
	op := errors.Op("devserver.token")
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return "", errors.E(op, errors.KindUnauthorized, err)
	}
	if claims.Subject == "" {
		return "", errors.Unauthorized(op)
	}
	return claims.Subject, nil
}

func hashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// bearerToken extracts the token from an Authorization header.
func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// requireAuth resolves the bearer token to a user and stores it on the
// context. Anything wrong with the token is a 401.
func (s *Server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c *echo.Context) error {
		token := bearerToken(c.Request().Header.Get("Authorization"))
		if token == "" {
			return unauthorized(c)
		}
		userID, err := s.tokens.subject(token)
		if err != nil {
			s.log.Debug("rejected token", "error", err)
			return unauthorized(c)
		}
		user, err := s.store.GetUser(c.Request().Context(), userID)
		if err != nil {
			return s.internalError(c, err)
		}
		if user == nil {
			return unauthorized(c)
		}
		c.Set(userContextKey, user)
		return next(c)
	}
}

func unauthorized(c *echo.Context) error {
	c.Response().Header().Set("WWW-Authenticate", "Bearer")
	return detail(c, http.StatusUnauthorized, detailBadCredentials)
}

// currentUser returns the user stored by requireAuth.
func currentUser(c *echo.Context) *User {
	u, _ := c.Get(userContextKey).(*User)
	return u
}
