package handlers

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	apierrors "flash-designer-backend/internal/errors"
	"flash-designer-backend/internal/middleware"
	"flash-designer-backend/internal/models"
	"flash-designer-backend/internal/policy"
	"flash-designer-backend/internal/supabase"
)

type AuthHandler struct {
	auth     AuthService
	profiles ProfileStore
}

func NewAuthHandler(auth AuthService, profiles ProfileStore) *AuthHandler {
	return &AuthHandler{
		auth:     auth,
		profiles: profiles,
	}
}

// SignUp registers a new user with no role; the role is chosen afterwards
// through UpdateRole.
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req models.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.Validation(c, "invalid signup request", err.Error())
		return
	}

	user, err := h.auth.SignUp(req.Email, req.Password, req.FullName)
	if err != nil {
		log.Printf("signup failed for %s: %v", req.Email, err)
		apierrors.Upstream(c, "failed to register user")
		return
	}

	if err := h.profiles.CreateProfile(user.ID, req.FullName); err != nil {
		// The auth user exists but the profile insert failed; surfaced as an
		// error, cleanup is manual.
		log.Printf("profile creation failed for %s: %v", user.ID, err)
		apierrors.Upstream(c, "failed to create user profile")
		return
	}

	user.FullName = req.FullName
	respondCreated(c, gin.H{"user": models.NewUserResponse(user)})
}

func (h *AuthHandler) SignIn(c *gin.Context) {
	var req models.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.Validation(c, "invalid signin request", err.Error())
		return
	}

	session, err := h.auth.SignIn(req.Email, req.Password)
	if err != nil {
		log.Printf("signin failed for %s: %v", req.Email, err)
		apierrors.Unauthorized(c, "invalid credentials")
		return
	}

	respondOK(c, models.SignInResponse{
		User:         models.NewUserResponse(session.User),
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		ExpiresIn:    session.ExpiresIn,
	})
}

func (h *AuthHandler) SignOut(c *gin.Context) {
	token, ok := bearerToken(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	if err := h.auth.SignOut(token); err != nil {
		log.Printf("signout failed: %v", err)
		apierrors.Upstream(c, "failed to sign out")
		return
	}

	respondOK(c, models.MessageResponse{Message: "signed out"})
}

// Me returns the session user resolved from the access token.
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := middleware.GetSessionUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}
	respondOK(c, models.NewUserResponse(user))
}

// UpdateRole sets the user's role exactly once. A session that already
// carries a role is refused; only the service-role path can change it later.
func (h *AuthHandler) UpdateRole(c *gin.Context) {
	user, ok := middleware.GetSessionUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}
	if user.HasRole() {
		apierrors.Forbidden(c, "role is already set for this account")
		return
	}

	var req models.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.Validation(c, "invalid role request", err.Error())
		return
	}

	role := policy.Role(req.Role)
	if err := h.auth.SetUserRole(user.ID, role); err != nil {
		log.Printf("role claim update failed for %s: %v", user.ID, err)
		apierrors.Upstream(c, "failed to update role")
		return
	}

	// Mirror into profiles so designer listings stay a table scan. The claim
	// above remains the authoritative source.
	if err := h.profiles.SetProfileRole(user.ID, role); err != nil && !errors.Is(err, supabase.ErrNotFound) {
		log.Printf("profile role mirror failed for %s: %v", user.ID, err)
		apierrors.Upstream(c, "failed to update role")
		return
	}

	respondOK(c, models.RoleResponse{Role: req.Role})
}

// ListDesigners returns the assignable designers for admin pickers.
func (h *AuthHandler) ListDesigners(c *gin.Context) {
	designers, err := h.profiles.ListDesigners()
	if err != nil {
		log.Printf("designer listing failed: %v", err)
		apierrors.Upstream(c, "failed to list designers")
		return
	}

	resp := make([]models.DesignerResponse, len(designers))
	for i, d := range designers {
		name := d.FullName
		if name == "" {
			name = fmt.Sprintf("Usuario %s", d.ID.String()[:8])
		}
		resp[i] = models.DesignerResponse{ID: d.ID.String(), FullName: name}
	}

	respondOK(c, resp)
}

func bearerToken(c *gin.Context) (string, bool) {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}
