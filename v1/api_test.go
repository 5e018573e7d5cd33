package v1

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/godocompany/roomchat-api/models"
	"github.com/godocompany/roomchat-api/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestServer mounts the v1 API on a fresh router backed by an
// in-memory SQLite database.
func setupTestServer(t *testing.T) (*gin.Engine, *services.UsersService) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	usersService := &services.UsersService{DB: db}
	api := &Server{
		UsersService:      usersService,
		AuthTokensService: &services.AuthTokensService{SigningPepper: "test-pepper"},
	}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	api.Setup(r.Group("v1"))
	return r, usersService
}

func postJSON(t *testing.T, r *gin.Engine, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal request body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if len(token) > 0 {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAppState(t *testing.T) {
	r, _ := setupTestServer(t)

	w := postJSON(t, r, "/v1/app/get-state", "", gin.H{})
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
}

func TestAuthLoginAndWhoAmI(t *testing.T) {
	r, usersService := setupTestServer(t)

	if _, err := usersService.CreateUser("a@x.com", "Alice", "p1"); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	// Log in with the right credentials
	w := postJSON(t, r, "/v1/auth/login", "", gin.H{
		"email":    "a@x.com",
		"password": "p1",
		"remember": true,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d (%s)", w.Code, w.Body.String())
	}

	var loginResp struct {
		Data struct {
			ID    uint64 `json:"id"`
			Email string `json:"email"`
			Name  string `json:"name"`
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &loginResp); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}
	if loginResp.Data.Email != "a@x.com" || loginResp.Data.Name != "Alice" {
		t.Errorf("unexpected profile in login response: %+v", loginResp.Data)
	}
	if len(loginResp.Data.Token) == 0 {
		t.Fatal("expected a session token in the login response")
	}

	// Use the token on the authenticated whoami hook
	w = postJSON(t, r, "/v1/auth/whoami", loginResp.Data.Token, gin.H{})
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200 from whoami, got %d (%s)", w.Code, w.Body.String())
	}
	var whoamiResp struct {
		Data struct {
			ID    uint64 `json:"id"`
			Email string `json:"email"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &whoamiResp); err != nil {
		t.Fatalf("failed to decode whoami response: %v", err)
	}
	if whoamiResp.Data.ID != loginResp.Data.ID {
		t.Errorf("whoami returned user %d, expected %d", whoamiResp.Data.ID, loginResp.Data.ID)
	}
}

func TestAuthLoginBadCredentials(t *testing.T) {
	r, usersService := setupTestServer(t)

	if _, err := usersService.CreateUser("a@x.com", "Alice", "p1"); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	w := postJSON(t, r, "/v1/auth/login", "", gin.H{
		"email":    "a@x.com",
		"password": "wrong",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
}

func TestWhoAmIRequiresToken(t *testing.T) {
	r, _ := setupTestServer(t)

	w := postJSON(t, r, "/v1/auth/whoami", "", gin.H{})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", w.Code)
	}

	w = postJSON(t, r, "/v1/auth/whoami", "not-a-token", gin.H{})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 for an invalid token, got %d", w.Code)
	}
}
