package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"contracts-app/config"
	"contracts-app/database"
	"contracts-app/internal/dbtest"
	"contracts-app/internal/domain/users"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

type sentMail struct{ to, subject, body string }

type recorder struct{ sent []sentMail }

func (r *recorder) Send(to, subject, body string) error {
	r.sent = append(r.sent, sentMail{to, subject, body})
	return nil
}

var tokenInLink = regexp.MustCompile(`token=([0-9a-f]+)`)

func (r *recorder) lastToken(t *testing.T) string {
	t.Helper()
	if len(r.sent) == 0 {
		t.Fatal("no mail sent")
	}
	m := tokenInLink.FindStringSubmatch(r.sent[len(r.sent)-1].body)
	if m == nil {
		t.Fatalf("no token in %q", r.sent[len(r.sent)-1].body)
	}
	return m[1]
}

func setup(t *testing.T) (*gin.Engine, *recorder) {
	t.Helper()
	dbtest.Open(t)

	prevMail, prevSecret, prevApp := Mail, config.JWT_SECRET, config.APP_URL
	rec := &recorder{}
	Mail = rec
	config.JWT_SECRET = "test-secret"
	config.APP_URL = "http://app.test"
	t.Cleanup(func() {
		Mail, config.JWT_SECRET, config.APP_URL = prevMail, prevSecret, prevApp
	})

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/register", Register)
	r.POST("/login", Login)
	r.GET("/verify", VerifyEmail)
	r.POST("/password-reset/request", RequestPasswordReset)
	r.POST("/password-reset", ResetPassword)
	return r, rec
}

func post(r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	buf, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterVerifyLogin(t *testing.T) {
	r, mail := setup(t)

	w := post(r, "/register", gin.H{"name": "Ana", "lastname": "Ruiz", "email": "Ana@Example.com", "password": "secret123"})
	if w.Code != http.StatusCreated {
		t.Fatalf("register: %d %s", w.Code, w.Body)
	}

	var u users.User
	if err := database.DB.Where("email = ?", "ana@example.com").First(&u).Error; err != nil {
		t.Fatalf("email not normalized: %v", err)
	}
	if u.TrialEndAt == nil || u.IsVerified {
		t.Fatalf("new user should be unverified with a trial: %+v", u)
	}

	if w := post(r, "/login", gin.H{"email": "ana@example.com", "password": "secret123"}); w.Code != http.StatusForbidden {
		t.Fatalf("unverified login: %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/verify?token="+mail.lastToken(t), nil))
	if w.Code != http.StatusTemporaryRedirect || w.Header().Get("Location") != "http://app.test/signin" {
		t.Fatalf("verify: %d %s", w.Code, w.Header().Get("Location"))
	}

	if w := post(r, "/login", gin.H{"email": "ana@example.com", "password": "wrong1234"}); w.Code != http.StatusUnauthorized {
		t.Fatalf("bad password: %d", w.Code)
	}

	w = post(r, "/login", gin.H{"email": "ana@example.com", "password": "secret123"})
	if w.Code != http.StatusOK {
		t.Fatalf("login: %d %s", w.Code, w.Body)
	}
	var out struct{ Token string }
	_ = json.Unmarshal(w.Body.Bytes(), &out)

	claims := jwt.MapClaims{}
	if _, err := jwt.ParseWithClaims(out.Token, claims, func(*jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	}); err != nil {
		t.Fatalf("token: %v", err)
	}
	if uint(claims["user_id"].(float64)) != u.ID {
		t.Fatalf("user_id claim %v", claims["user_id"])
	}
}

func TestRegisterRejectsWeakPasswordAndDuplicates(t *testing.T) {
	r, _ := setup(t)

	if w := post(r, "/register", gin.H{"name": "A", "lastname": "B", "email": "a@example.com", "password": "short"}); w.Code != http.StatusBadRequest {
		t.Fatalf("weak password: %d", w.Code)
	}
	body := gin.H{"name": "A", "lastname": "B", "email": "a@example.com", "password": "longer123"}
	if w := post(r, "/register", body); w.Code != http.StatusCreated {
		t.Fatalf("register: %d", w.Code)
	}
	if w := post(r, "/register", body); w.Code != http.StatusConflict {
		t.Fatalf("duplicate: %d", w.Code)
	}
}

func TestPasswordReset(t *testing.T) {
	r, mail := setup(t)
	db := database.DB
	dbtest.User(t, db, "reset@example.com")

	if w := post(r, "/password-reset/request", gin.H{"email": "nobody@example.com"}); w.Code != http.StatusOK {
		t.Fatalf("unknown email should still answer 200, got %d", w.Code)
	}
	if len(mail.sent) != 0 {
		t.Fatal("no mail for unknown email")
	}

	post(r, "/password-reset/request", gin.H{"email": "reset@example.com"})
	token := mail.lastToken(t)

	if w := post(r, "/password-reset", gin.H{"token": token, "new_password": "brandnew99"}); w.Code != http.StatusOK {
		t.Fatalf("reset: %d %s", w.Code, w.Body)
	}
	if w := post(r, "/password-reset", gin.H{"token": token, "new_password": "again12345"}); w.Code != http.StatusBadRequest {
		t.Fatalf("token reused: %d", w.Code)
	}
	if w := post(r, "/login", gin.H{"email": "reset@example.com", "password": "brandnew99"}); w.Code != http.StatusOK {
		t.Fatalf("login with new password: %d", w.Code)
	}
}
