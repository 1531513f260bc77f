package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rbac "github.com/FleetRent-Admin/FleetRent-Admin/internal/auth"
	"github.com/FleetRent-Admin/FleetRent-Admin/internal/config"
)

const testSecret = "correct horse battery staple"

func sign(t *testing.T, method jwt.SigningMethod, key any, claims jwt.Claims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)

	return token
}

func TestVerify(t *testing.T) {
	v := NewVerifier(config.Auth{JWTSecret: testSecret, JWTIssuer: "fleetrent"})
	userID := uuid.New()

	valid, err := v.Issue(userID, time.Hour)
	require.NoError(t, err)

	now := time.Now()
	registered := func(sub, iss string, expires time.Time) jwt.RegisteredClaims {
		return jwt.RegisteredClaims{
			Subject:   sub,
			Issuer:    iss,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		}
	}

	testCases := []struct {
		name    string
		token   string
		wantErr error
	}{
		{"valid", valid, nil},
		{"expired", sign(t, jwt.SigningMethodHS256, []byte(testSecret),
			registered(userID.String(), "fleetrent", now.Add(-time.Minute))), jwt.ErrTokenExpired},
		{"other issuer", sign(t, jwt.SigningMethodHS256, []byte(testSecret),
			registered(userID.String(), "someone-else", now.Add(time.Hour))), jwt.ErrTokenInvalidIssuer},
		{"other secret", sign(t, jwt.SigningMethodHS256, []byte("wrong"),
			registered(userID.String(), "fleetrent", now.Add(time.Hour))), jwt.ErrTokenSignatureInvalid},
		{"other algorithm", sign(t, jwt.SigningMethodHS512, []byte(testSecret),
			registered(userID.String(), "fleetrent", now.Add(time.Hour))), jwt.ErrTokenSignatureInvalid},
		{"subject is not a user id", sign(t, jwt.SigningMethodHS256, []byte(testSecret),
			registered("admin", "fleetrent", now.Add(time.Hour))), ErrInvalidSubject},
		{"nil subject", sign(t, jwt.SigningMethodHS256, []byte(testSecret),
			registered(uuid.Nil.String(), "fleetrent", now.Add(time.Hour))), ErrInvalidSubject},
		{"without expiry", sign(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.RegisteredClaims{
			Subject: userID.String(), Issuer: "fleetrent", IssuedAt: jwt.NewNumericDate(now),
		}), jwt.ErrTokenRequiredClaimMissing},
		{"garbage", "not.a.token", jwt.ErrTokenMalformed},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := v.Verify(tc.token)
			if tc.wantErr == nil {
				require.NoError(t, err)
				assert.Equal(t, userID, got)

				return
			}

			require.ErrorIs(t, err, tc.wantErr)
			assert.Equal(t, uuid.Nil, got)
		})
	}
}

func TestVerifyWithoutIssuer(t *testing.T) {
	v := NewVerifier(config.Auth{JWTSecret: testSecret})
	userID := uuid.New()

	token := sign(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.RegisteredClaims{
		Subject:   userID.String(),
		Issuer:    "anyone",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})

	got, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestBearerToken(t *testing.T) {
	testCases := []struct {
		name     string
		header   string
		expected string
		wantErr  error
	}{
		{"canonical", "Bearer abc", "abc", nil},
		{"lower case", "bearer abc", "abc", nil},
		{"padded", "BEARER   abc  ", "abc", nil},
		{"empty", "", "", ErrMissingToken},
		{"prefix only", "Bearer ", "", ErrMissingToken},
		{"basic", "Basic dXNlcjpwYXNz", "", ErrMissingToken},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := bearerToken(tc.header)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestMiddleware(t *testing.T) {
	v := NewVerifier(config.Auth{JWTSecret: testSecret})
	userID := uuid.New()

	app := fiber.New()
	app.Get("/whoami", Middleware(v), func(c fiber.Ctx) error {
		id, ok := rbac.UserIDFromContext(c)
		if !ok {
			return c.SendStatus(fiber.StatusTeapot)
		}

		return c.SendString(id.String())
	})

	token, err := v.Issue(userID, time.Minute)
	require.NoError(t, err)

	testCases := []struct {
		name     string
		header   string
		expected int
	}{
		{"valid token", "Bearer " + token, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"invalid token", "Bearer nope", http.StatusUnauthorized},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tc.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tc.header)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.expected, resp.StatusCode)
		})
	}
}
