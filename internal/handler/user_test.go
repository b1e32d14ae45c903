package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"vidtube/internal/model"
	"vidtube/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeUserService struct {
	registerErr error
	loginErr    error
}

func (f *fakeUserService) Register(username, email, password, avatarURL string) (*model.User, error) {
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	user := &model.User{Username: username, Email: email, Password: "hashed", AvatarURL: avatarURL}
	user.ID = 1
	return user, nil
}

func (f *fakeUserService) Login(email, password string) (string, *model.User, error) {
	if f.loginErr != nil {
		return "", nil, f.loginErr
	}
	user := &model.User{Username: "alice", Email: email}
	user.ID = 1
	return "signed-token", user, nil
}

func newUserRouter(svc *fakeUserService) *gin.Engine {
	r := gin.New()
	h := NewUserHandler(svc)
	r.POST("/api/auth/signup", h.Signup)
	r.POST("/api/auth/signin", h.Signin)
	return r
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestSignup(t *testing.T) {
	r := newUserRouter(&fakeUserService{})

	w := postJSON(r, "/api/auth/signup", `{"username":"alice","email":"alice@example.com","password":"s3cret"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"alice"`)
	// The hash must never appear in the response.
	assert.NotContains(t, w.Body.String(), "hashed")
}

func TestSignupMissingFields(t *testing.T) {
	r := newUserRouter(&fakeUserService{})

	w := postJSON(r, "/api/auth/signup", `{"username":"alice"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSignupDuplicateEmail(t *testing.T) {
	r := newUserRouter(&fakeUserService{registerErr: apperrors.ErrEmailTaken})

	w := postJSON(r, "/api/auth/signup", `{"username":"alice","email":"alice@example.com","password":"s3cret"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"user already exists"}`, w.Body.String())
}

func TestSigninReturnsToken(t *testing.T) {
	r := newUserRouter(&fakeUserService{})

	w := postJSON(r, "/api/auth/signin", `{"email":"alice@example.com","password":"s3cret"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"token":"signed-token"`)
}

func TestSigninUnknownEmail(t *testing.T) {
	r := newUserRouter(&fakeUserService{loginErr: apperrors.ErrUserNotFound})

	w := postJSON(r, "/api/auth/signin", `{"email":"nobody@example.com","password":"s3cret"}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
