package supabase

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/supabase-community/gotrue-go/types"

	"flash-designer-backend/internal/models"
	"flash-designer-backend/internal/policy"
)

// AuthClient wraps the GoTrue flows the API needs. Sign-up/sign-in/sign-out
// run on the anon client; role-claim writes go through the service-role
// client because app_metadata is not user-writable.
type AuthClient struct {
	client *Client
}

func NewAuthClient(client *Client) *AuthClient {
	return &AuthClient{client: client}
}

// Session is the token bundle returned by a successful sign-in.
type Session struct {
	User         models.SessionUser
	AccessToken  string
	RefreshToken string
	ExpiresIn    int
}

func (a *AuthClient) SignUp(email, password, fullName string) (models.SessionUser, error) {
	resp, err := a.client.Anon.Auth.Signup(types.SignupRequest{
		Email:    email,
		Password: password,
		Data: map[string]interface{}{
			"full_name": fullName,
		},
	})
	if err != nil {
		return models.SessionUser{}, fmt.Errorf("failed to sign up user: %w", err)
	}

	return sessionUserFromAuth(resp.User), nil
}

func (a *AuthClient) SignIn(email, password string) (*Session, error) {
	resp, err := a.client.Anon.Auth.SignInWithEmailPassword(email, password)
	if err != nil {
		return nil, fmt.Errorf("failed to sign in user: %w", err)
	}

	return &Session{
		User:         sessionUserFromAuth(resp.User),
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresIn:    resp.ExpiresIn,
	}, nil
}

func (a *AuthClient) SignOut(accessToken string) error {
	if err := a.client.Anon.Auth.WithToken(accessToken).Logout(); err != nil {
		return fmt.Errorf("failed to sign out user: %w", err)
	}
	return nil
}

// SetUserRole writes the role into the user's app_metadata claim, the
// authoritative role store. Tokens issued before this call keep their old
// claim until refreshed.
func (a *AuthClient) SetUserRole(userID uuid.UUID, role policy.Role) error {
	_, err := a.client.Admin.Auth.AdminUpdateUser(types.AdminUpdateUserRequest{
		UserID: userID,
		AppMetadata: map[string]interface{}{
			"role": string(role),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to update role claim: %w", err)
	}
	return nil
}

func sessionUserFromAuth(u types.User) models.SessionUser {
	user := models.SessionUser{
		ID:    u.ID,
		Email: u.Email,
	}
	if role, ok := u.AppMetadata["role"].(string); ok && policy.ValidRole(policy.Role(role)) {
		user.Role = policy.Role(role)
	}
	if name, ok := u.UserMetadata["full_name"].(string); ok {
		user.FullName = name
	}
	return user
}
