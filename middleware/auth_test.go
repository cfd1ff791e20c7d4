package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/arthurfischer009/stepwise-mind-flow-sub000/utils"
)

func authTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/protected", AuthRequired(), func(ctx *gin.Context) {
		id, _ := ctx.Get(ContextUserIDKey)
		ctx.JSON(http.StatusOK, gin.H{"user_id": id})
	})
	return r
}

func doAuthRequest(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequiredMissingHeader(t *testing.T) {
	r := authTestRouter(t)
	if w := doAuthRequest(r, ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestAuthRequiredMalformedHeader(t *testing.T) {
	r := authTestRouter(t)
	if w := doAuthRequest(r, "Basic abc"); w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestAuthRequiredInvalidToken(t *testing.T) {
	r := authTestRouter(t)
	if w := doAuthRequest(r, "Bearer not-a-token"); w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestAuthRequiredValidToken(t *testing.T) {
	r := authTestRouter(t)

	token, err := utils.GenerateToken(42, "alice", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	w := doAuthRequest(r, "Bearer "+token)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestAuthRequiredBlacklistedToken(t *testing.T) {
	r := authTestRouter(t)

	token, err := utils.GenerateToken(42, "alice", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	utils.BlacklistToken(token, time.Now().Add(time.Hour))

	w := doAuthRequest(r, "Bearer "+token)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestAuthRequiredExpiredToken(t *testing.T) {
	r := authTestRouter(t)

	token, err := utils.GenerateToken(42, "alice", -time.Minute)
	if err != nil {
		t.Fatal(err)
	}

	w := doAuthRequest(r, "Bearer "+token)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}
