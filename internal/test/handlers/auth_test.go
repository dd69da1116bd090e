package handlers_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"flash-designer-backend/internal/handlers"
	"flash-designer-backend/internal/models"
	"flash-designer-backend/internal/policy"
	"flash-designer-backend/internal/supabase"
)

func authRouter(auth *fakeAuthService, profiles *fakeProfileStore, session *models.SessionUser) *gin.Engine {
	handler := handlers.NewAuthHandler(auth, profiles)

	router := gin.New()
	group := router.Group("/auth")
	if session != nil {
		group.Use(asSession(*session))
	}
	group.POST("/signup", handler.SignUp)
	group.POST("/signin", handler.SignIn)
	group.POST("/signout", handler.SignOut)
	group.GET("/me", handler.Me)
	group.PATCH("/role", handler.UpdateRole)
	group.GET("/designers", handler.ListDesigners)
	return router
}

func TestSignUp_CreatesUserAndProfile(t *testing.T) {
	userID := uuid.New()
	profileCreated := false
	auth := &fakeAuthService{
		signUp: func(email, password, fullName string) (models.SessionUser, error) {
			assert.Equal(t, "nueva@marca.com", email)
			return models.SessionUser{ID: userID, Email: email}, nil
		},
	}
	profiles := &fakeProfileStore{
		createProfile: func(id uuid.UUID, fullName string) error {
			assert.Equal(t, userID, id)
			assert.Equal(t, "Nueva Marca", fullName)
			profileCreated = true
			return nil
		},
	}

	body := `{"email":"nueva@marca.com","password":"secret123","full_name":"Nueva Marca"}`
	req, _ := http.NewRequest("POST", "/auth/signup", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	authRouter(auth, profiles, nil).ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, profileCreated)

	data := decodeData(t, w)
	user, ok := data["user"].(map[string]interface{})
	assert.True(t, ok)
	assert.Equal(t, userID.String(), user["id"])
	assert.Nil(t, user["role"])
}

func TestSignUp_RejectsShortPassword(t *testing.T) {
	body := `{"email":"a@b.com","password":"12345","full_name":"Nueva Marca"}`
	req, _ := http.NewRequest("POST", "/auth/signup", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	authRouter(&fakeAuthService{}, &fakeProfileStore{}, nil).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
}

func TestSignIn_ReturnsTokens(t *testing.T) {
	auth := &fakeAuthService{
		signIn: func(email, password string) (*supabase.Session, error) {
			return &supabase.Session{
				User:         models.SessionUser{ID: uuid.New(), Email: email, Role: policy.RoleMarca},
				AccessToken:  "access-token",
				RefreshToken: "refresh-token",
				ExpiresIn:    3600,
			}, nil
		},
	}

	body := `{"email":"marca@example.com","password":"secret123"}`
	req, _ := http.NewRequest("POST", "/auth/signin", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	authRouter(auth, &fakeProfileStore{}, nil).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, "access-token", data["access_token"])
	user := data["user"].(map[string]interface{})
	assert.Equal(t, "marca", user["role"])
}

func TestSignIn_BadCredentials(t *testing.T) {
	auth := &fakeAuthService{
		signIn: func(email, password string) (*supabase.Session, error) {
			return nil, errors.New("gotrue: invalid_grant")
		},
	}

	body := `{"email":"marca@example.com","password":"wrong-pass"}`
	req, _ := http.NewRequest("POST", "/auth/signin", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	authRouter(auth, &fakeProfileStore{}, nil).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid credentials")
	assert.NotContains(t, w.Body.String(), "gotrue")
}

func TestSignOut_RevokesBearerToken(t *testing.T) {
	var revoked string
	auth := &fakeAuthService{
		signOut: func(accessToken string) error {
			revoked = accessToken
			return nil
		},
	}
	session := marcaSession()

	req, _ := http.NewRequest("POST", "/auth/signout", nil)
	req.Header.Set("Authorization", "Bearer the-access-token")
	w := httptest.NewRecorder()
	authRouter(auth, &fakeProfileStore{}, &session).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "the-access-token", revoked)
}

func TestMe_ReturnsSessionUser(t *testing.T) {
	session := marcaSession()

	req, _ := http.NewRequest("GET", "/auth/me", nil)
	w := httptest.NewRecorder()
	authRouter(&fakeAuthService{}, &fakeProfileStore{}, &session).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, session.ID.String(), data["id"])
	assert.Equal(t, "marca", data["role"])
}

func TestUpdateRole_SetsClaimAndMirror(t *testing.T) {
	session := models.SessionUser{ID: uuid.New(), Email: "new@example.com"}
	var claimRole, mirrorRole policy.Role
	auth := &fakeAuthService{
		setUserRole: func(userID uuid.UUID, role policy.Role) error {
			assert.Equal(t, session.ID, userID)
			claimRole = role
			return nil
		},
	}
	profiles := &fakeProfileStore{
		setProfileRole: func(userID uuid.UUID, role policy.Role) error {
			mirrorRole = role
			return nil
		},
	}

	req, _ := http.NewRequest("PATCH", "/auth/role", strings.NewReader(`{"role":"diseñador"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	authRouter(auth, profiles, &session).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, policy.RoleDisenador, claimRole)
	assert.Equal(t, policy.RoleDisenador, mirrorRole)
}

func TestUpdateRole_OnlyOnce(t *testing.T) {
	// A session that already carries a role cannot switch; the claim stays
	// as it is and the auth service is never called.
	session := marcaSession()
	auth := &fakeAuthService{
		setUserRole: func(userID uuid.UUID, role policy.Role) error {
			t.Fatal("role claim must not be rewritten")
			return nil
		},
	}

	req, _ := http.NewRequest("PATCH", "/auth/role", strings.NewReader(`{"role":"diseñador"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	authRouter(auth, &fakeProfileStore{}, &session).ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "already set")
}

func TestUpdateRole_AdminNotSelfAssignable(t *testing.T) {
	session := models.SessionUser{ID: uuid.New()}

	req, _ := http.NewRequest("PATCH", "/auth/role", strings.NewReader(`{"role":"admin"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	authRouter(&fakeAuthService{}, &fakeProfileStore{}, &session).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateRole_MirrorMissingProfileIsTolerated(t *testing.T) {
	session := models.SessionUser{ID: uuid.New()}
	auth := &fakeAuthService{
		setUserRole: func(userID uuid.UUID, role policy.Role) error { return nil },
	}
	profiles := &fakeProfileStore{
		setProfileRole: func(userID uuid.UUID, role policy.Role) error {
			return supabase.ErrNotFound
		},
	}

	req, _ := http.NewRequest("PATCH", "/auth/role", strings.NewReader(`{"role":"marca"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	authRouter(auth, profiles, &session).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestListDesigners_FallbackDisplayName(t *testing.T) {
	anonymous := uuid.MustParse("abcdef12-0000-4000-8000-000000000001")
	profiles := &fakeProfileStore{
		listDesigners: func() ([]models.Designer, error) {
			return []models.Designer{
				{ID: uuid.New(), FullName: "Ana Diseño"},
				{ID: anonymous, FullName: ""},
			}, nil
		},
	}
	session := adminSession()

	req, _ := http.NewRequest("GET", "/auth/designers", nil)
	w := httptest.NewRecorder()
	authRouter(&fakeAuthService{}, profiles, &session).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Ana Diseño")
	assert.Contains(t, w.Body.String(), "Usuario abcdef12")
}
