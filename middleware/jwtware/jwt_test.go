package jwtware_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-login/middleware/jwtware"
)

var errRejected = errors.New("rejected")

type ctxKey struct{}

// staticResolver accepts a single token and resolves it to subject
func staticResolver(token, subject string) jwtware.Resolver {
	return jwtware.ResolverFunc(func(_ context.Context, raw string) (any, error) {
		if raw != token {
			return nil, errRejected
		}
		return subject, nil
	})
}

func newApp(cfg jwtware.Config) *fiber.App {
	app := fiber.New()
	app.Get("/private/:token?", jwtware.New(cfg), func(c *fiber.Ctx) error {
		key := cfg.ContextKey
		if key == "" {
			key = "session"
		}
		subject, _ := c.Locals(key).(string)
		fromCtx, _ := c.UserContext().Value(ctxKey{}).(string)
		return c.SendString(subject + "|" + fromCtx)
	})
	return app
}

func get(t *testing.T, app *fiber.App, path string, header http.Header) (int, string) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestJWTWare_BasicHeaderExtraction(t *testing.T) {
	app := newApp(jwtware.Config{
		Resolver: staticResolver("good-token", "alice"),
		ContextEnricher: func(ctx context.Context, session any) context.Context {
			return context.WithValue(ctx, ctxKey{}, session)
		},
	})

	status, body := get(t, app, "/private", http.Header{"Authorization": {"Bearer good-token"}})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "alice|alice", body)

	status, _ = get(t, app, "/private", http.Header{"Authorization": {"bearer good-token"}})
	assert.Equal(t, http.StatusOK, status)
}

func TestJWTWare_Rejections(t *testing.T) {
	app := newApp(jwtware.Config{Resolver: staticResolver("good-token", "alice")})

	tests := []struct {
		name   string
		header http.Header
	}{
		{"missing header", nil},
		{"scheme only", http.Header{"Authorization": {"Bearer"}}},
		{"wrong scheme", http.Header{"Authorization": {"Basic good-token"}}},
		{"no scheme", http.Header{"Authorization": {"good-token"}}},
		{"no separator", http.Header{"Authorization": {"Bearergood-token"}}},
		{"unknown token", http.Header{"Authorization": {"Bearer other"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := get(t, app, "/private", tt.header)
			assert.Equal(t, http.StatusUnauthorized, status)
			assert.Equal(t, "Invalid or expired token", body)
		})
	}
}

func TestJWTWare_ErrorHandlerReceivesCause(t *testing.T) {
	var seen []error
	app := newApp(jwtware.Config{
		Resolver: staticResolver("good-token", "alice"),
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			seen = append(seen, err)
			return c.SendStatus(http.StatusTeapot)
		},
	})

	status, _ := get(t, app, "/private", nil)
	assert.Equal(t, http.StatusTeapot, status)

	status, _ = get(t, app, "/private", http.Header{"Authorization": {"Bearer other"}})
	assert.Equal(t, http.StatusTeapot, status)

	require.Len(t, seen, 2)
	assert.ErrorIs(t, seen[0], jwtware.ErrJWTMissingOrMalformed)
	assert.ErrorIs(t, seen[1], errRejected)
}

func TestJWTWare_CustomTokenLookup(t *testing.T) {
	app := newApp(jwtware.Config{
		Resolver:    staticResolver("good-token", "alice"),
		TokenLookup: "header:X-Auth,cookie:access_token,param:token",
		AuthScheme:  "Token",
		ContextKey:  "user",
	})

	status, body := get(t, app, "/private", http.Header{"X-Auth": {"Token good-token"}})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "alice|", body)

	status, _ = get(t, app, "/private", http.Header{"Cookie": {"access_token=good-token"}})
	assert.Equal(t, http.StatusOK, status)

	status, _ = get(t, app, "/private/good-token", nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = get(t, app, "/private", http.Header{"Authorization": {"Bearer good-token"}})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestJWTWare_QueryLookupIsIgnored(t *testing.T) {
	extractors := jwtware.GetExtractors("query:token,header:Authorization")
	assert.Len(t, extractors, 1)

	app := newApp(jwtware.Config{
		Resolver:    staticResolver("good-token", "alice"),
		TokenLookup: "query:token",
	})

	status, _ := get(t, app, "/private?token=good-token", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestJWTWare_FilterFunction(t *testing.T) {
	app := newApp(jwtware.Config{
		Resolver: staticResolver("good-token", "alice"),
		Filter: func(c *fiber.Ctx) bool {
			return c.Get("X-Skip") == "yes"
		},
	})

	status, body := get(t, app, "/private", http.Header{"X-Skip": {"yes"}})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "|", body)
}

func TestJWTWare_SuccessHandler(t *testing.T) {
	app := newApp(jwtware.Config{
		Resolver: staticResolver("good-token", "alice"),
		SuccessHandler: func(c *fiber.Ctx) error {
			c.Set("X-Authenticated", "true")
			return c.Next()
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "true", resp.Header.Get("X-Authenticated"))
}

func TestGetDefaultConfig(t *testing.T) {
	assert.Panics(t, func() {
		jwtware.GetDefaultConfig()
	})

	cfg := jwtware.GetDefaultConfig(jwtware.Config{Resolver: staticResolver("t", "s")})
	assert.Equal(t, "session", cfg.ContextKey)
	assert.Equal(t, "header:Authorization", cfg.TokenLookup)
	assert.Equal(t, "Bearer", cfg.AuthScheme)
	assert.NotNil(t, cfg.ErrorHandler)
	assert.NotNil(t, cfg.SuccessHandler)
}
