package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"flash-designer-backend/internal/config"
	apierrors "flash-designer-backend/internal/errors"
	"flash-designer-backend/internal/models"
	"flash-designer-backend/internal/policy"
)

// SessionUserKey is the gin context key the resolved session is stored under.
const SessionUserKey = "session_user"

// AuthMiddleware verifies the Supabase access token and resolves the session
// user from its claims. The role is read from the app_metadata claim, which
// is the single authoritative source; the profiles table is only a mirror.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			apierrors.Unauthorized(c, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			apierrors.Unauthorized(c, "invalid authorization header format")
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			apierrors.Unauthorized(c, "empty token")
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			// Supabase signs access tokens with HS256 and the project JWT secret
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(cfg.SupabaseJWTSecret), nil
		}, jwt.WithValidMethods([]string{"HS256"}))
		if err != nil {
			var message string
			switch {
			case strings.Contains(err.Error(), "expired"):
				message = "token has expired"
			case strings.Contains(err.Error(), "signature is invalid"):
				message = "token signature is invalid"
			default:
				message = "invalid token"
			}
			apierrors.Unauthorized(c, message)
			return
		}
		if !token.Valid {
			apierrors.Unauthorized(c, "invalid token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			apierrors.Unauthorized(c, "invalid token claims")
			return
		}

		user, ok := sessionFromClaims(claims)
		if !ok {
			apierrors.Unauthorized(c, "missing user id in token")
			return
		}

		c.Set(SessionUserKey, user)
		c.Next()
	}
}

func sessionFromClaims(claims jwt.MapClaims) (models.SessionUser, bool) {
	sub, ok := claims["sub"].(string)
	if !ok {
		return models.SessionUser{}, false
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return models.SessionUser{}, false
	}

	user := models.SessionUser{ID: id}
	if email, ok := claims["email"].(string); ok {
		user.Email = email
	}
	if appMeta, ok := claims["app_metadata"].(map[string]interface{}); ok {
		if role, ok := appMeta["role"].(string); ok && policy.ValidRole(policy.Role(role)) {
			user.Role = policy.Role(role)
		}
	}
	if userMeta, ok := claims["user_metadata"].(map[string]interface{}); ok {
		if name, ok := userMeta["full_name"].(string); ok {
			user.FullName = name
		}
	}
	return user, true
}

// GetSessionUser returns the session resolved by AuthMiddleware.
func GetSessionUser(c *gin.Context) (models.SessionUser, bool) {
	value, exists := c.Get(SessionUserKey)
	if !exists {
		return models.SessionUser{}, false
	}
	user, ok := value.(models.SessionUser)
	return user, ok
}

// RequireRole allows only sessions holding exactly the given role. A session
// with no role at all gets the distinct ROLE_REQUIRED code so clients can
// send the user to role selection.
func RequireRole(role policy.Role) gin.HandlerFunc {
	return RequireAnyRole(role)
}

// RequireAnyRole allows sessions whose role is in the given set.
func RequireAnyRole(roles ...policy.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := GetSessionUser(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			return
		}
		if !user.HasRole() {
			apierrors.RoleRequired(c)
			return
		}
		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}
		apierrors.Forbidden(c, "")
	}
}
