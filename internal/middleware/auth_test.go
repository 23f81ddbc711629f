package middleware

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mustaphalimar/prepilot/internal/identity"
	"github.com/mustaphalimar/prepilot/internal/models"
	"github.com/mustaphalimar/prepilot/internal/services"
)

type fakeVerifier struct {
	valid map[string]*identity.User
}

func (f *fakeVerifier) Verify(_ context.Context, token string) (*identity.User, error) {
	if ident, ok := f.valid[token]; ok {
		return ident, nil
	}
	return nil, identity.ErrInvalidToken
}

func testApp(t *testing.T) *fiber.App {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	bridge := &AuthBridge{
		Verifier: &fakeVerifier{valid: map[string]*identity.User{
			"good-token": {ID: "user_123", Email: "student@example.com"},
		}},
		Users: &services.UserService{DB: db},
	}

	app := fiber.New()
	app.Use(bridge.Middleware())

	app.Get("/open", func(c *fiber.Ctx) error {
		user, ok := UserFromContext(c)
		if !ok {
			return c.JSON(fiber.Map{"user": nil})
		}
		return c.JSON(fiber.Map{"user": user.ExternalID})
	})
	app.Get("/guarded", RequireUser(), func(c *fiber.Ctx) error {
		user, _ := UserFromContext(c)
		return c.JSON(fiber.Map{"user": user.ExternalID})
	})
	return app
}

func TestBridgeWithoutCredentialsIsAnonymous(t *testing.T) {
	app := testApp(t)

	req := httptest.NewRequest("GET", "/open", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("Anonymous request to an open route must not fail, got %d", resp.StatusCode)
	}

	var body map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&body)
	if body["user"] != nil {
		t.Errorf("Expected nil user, got %v", body["user"])
	}
}

func TestBridgeInvalidTokenIsAnonymous(t *testing.T) {
	app := testApp(t)

	req := httptest.NewRequest("GET", "/open", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("Invalid token must soft-fail on an open route, got %d", resp.StatusCode)
	}
}

func TestRequireUserRejectsAnonymous(t *testing.T) {
	app := testApp(t)

	req := httptest.NewRequest("GET", "/guarded", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("Expected 401, got %d", resp.StatusCode)
	}

	raw, _ := io.ReadAll(resp.Body)
	var body struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("Failed to decode error envelope: %v", err)
	}
	if body.Success || body.Error != "Unauthorized" {
		t.Errorf("Unexpected error envelope: %s", raw)
	}
}

func TestBridgeAcceptsBearerHeader(t *testing.T) {
	app := testApp(t)

	req := httptest.NewRequest("GET", "/guarded", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("Expected 200 with a valid bearer token, got %d", resp.StatusCode)
	}

	var body map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&body)
	if body["user"] != "user_123" {
		t.Errorf("Expected resolved user user_123, got %v", body["user"])
	}
}

func TestBridgeAcceptsSessionCookie(t *testing.T) {
	app := testApp(t)

	req := httptest.NewRequest("GET", "/guarded", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "good-token"})
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("Expected 200 with a valid session cookie, got %d", resp.StatusCode)
	}
}

func TestBearerHeaderWinsOverCookie(t *testing.T) {
	app := testApp(t)

	req := httptest.NewRequest("GET", "/guarded", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "stale-cookie"})
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("Expected the bearer token to be used, got %d", resp.StatusCode)
	}
}
