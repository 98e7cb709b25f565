package strapi

import (
	"context"
	"encoding/json"

	"github.com/doaqui/doaqui/core"
)

// Auth maps the content API's authentication endpoints.
type Auth struct {
	client *Client
}

func NewAuth(client *Client) *Auth {
	return &Auth{client: client}
}

// SignInInput are the credentials posted to the local auth provider.
type SignInInput struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// SignedInUser is the partial identity the sign-in and registration
// responses carry. It is not guaranteed to include the role; callers
// needing the role must follow up with Me.
type SignedInUser struct {
	ID         json.Number `json:"id"`
	DocumentID string      `json:"documentId"`
	Username   string      `json:"username"`
	Email      string      `json:"email"`
}

// SignInResult is the sign-in response: a bearer credential plus a
// partial identity.
type SignInResult struct {
	JWT  string        `json:"jwt"`
	User *SignedInUser `json:"user"`
}

func (a *Auth) SignIn(ctx context.Context, input SignInInput) (*SignInResult, error) {
	var result SignInResult
	if err := a.client.Post(ctx, "/auth/local", "signing in", input, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// RegisterInput are the sign-up fields. The document number travels
// under the backend's field name.
type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Document string `json:"documento"`
}

// RegisterResult carries the fresh credential for the new account.
type RegisterResult struct {
	JWT  string        `json:"jwt"`
	User *SignedInUser `json:"user"`
}

func (a *Auth) Register(ctx context.Context, input RegisterInput) (*RegisterResult, error) {
	var result RegisterResult
	if err := a.client.Post(ctx, "/auth/local/register", "registering account", input, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Me fetches the authenticated identity, including the role the sign-in
// response may have lacked.
func (a *Auth) Me(ctx context.Context, opts ...RequestOption) (*core.User, error) {
	var payload meResponse
	if err := a.client.Get(ctx, "/users/me", "fetching identity", &payload, opts...); err != nil {
		return nil, err
	}

	// Some backend versions nest the identity under "user".
	wire := payload.User
	if wire == nil {
		wire = &payload.wireUser
	}
	user := wire.toUser()
	return &user, nil
}

// Refresh exchanges the current credential for a fresh one.
func (a *Auth) Refresh(ctx context.Context) (string, error) {
	var result struct {
		JWT string `json:"jwt"`
	}
	if err := a.client.Post(ctx, "/auth/refresh", "refreshing token", nil, &result); err != nil {
		return "", err
	}
	if result.JWT == "" {
		return "", core.ErrMissingToken
	}
	return result.JWT, nil
}

// Logout invalidates the credential server-side. The local session is
// cleared by the store regardless of this call's outcome.
func (a *Auth) Logout(ctx context.Context) error {
	return a.client.Post(ctx, "/auth/logout", "signing out", nil, nil)
}

// AssignRole binds a new account to its role using the capitalized
// wire name. The fresh registration token overrides the session
// credential for this one call.
func (a *Auth) AssignRole(ctx context.Context, role core.Role, token string) error {
	name := role.AssignmentName()
	if name == "" {
		return core.ErrUnknownRole
	}
	return a.client.Put(ctx, "/user/role/"+name, "assigning role", struct{}{}, nil, WithToken(token))
}

// wireUser is the identity record as the backend serializes it.
type wireUser struct {
	ID         json.Number `json:"id"`
	DocumentID string      `json:"documentId"`
	Username   string      `json:"username"`
	Email      string      `json:"email"`
	Document   string      `json:"documento"`
	Address    string      `json:"address"`
	Role       *wireRole   `json:"role"`
}

type wireRole struct {
	ID   json.Number `json:"id"`
	Name string      `json:"name"`
	Type string      `json:"type"`
}

type meResponse struct {
	wireUser
	User *wireUser `json:"user"`
}

func (w *wireUser) toUser() core.User {
	user := core.User{
		ID:         w.ID.String(),
		DocumentID: w.DocumentID,
		Username:   w.Username,
		Email:      w.Email,
		Document:   w.Document,
		Address:    w.Address,
	}
	if w.Role != nil {
		if role, err := core.ParseRole(w.Role.Type); err == nil {
			user.Role = role
		}
	}
	return user
}
