package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/doaqui/doaqui/core"
	"github.com/doaqui/doaqui/pkg/format"
	"github.com/doaqui/doaqui/strapi"
)

// SignUpAPI is the slice of the gateway the sign-up flow needs.
type SignUpAPI interface {
	Register(ctx context.Context, input strapi.RegisterInput) (*strapi.RegisterResult, error)
	AssignRole(ctx context.Context, role core.Role, token string) error
}

// SignUpInput are the registration fields. Kind selects the account
// type being created and with it the document shape: CPF for donors,
// CNPJ for ONGs.
type SignUpInput struct {
	Kind            core.Role
	Email           string
	Username        string
	Document        string
	Password        string
	PasswordConfirm string
}

// FieldErrors maps input field names to their validation failures, so
// callers can surface them inline per field.
type FieldErrors map[string]error

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var b strings.Builder
	for i, field := range fields {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(field)
		b.WriteString(": ")
		b.WriteString(e[field].Error())
	}
	return b.String()
}

// Validate runs every client-side check. No network call is made until
// all pass.
func (in SignUpInput) Validate() FieldErrors {
	errs := FieldErrors{}

	switch {
	case in.Email == "":
		errs["email"] = core.ErrEmailRequired
	case !format.ValidEmail(in.Email):
		errs["email"] = core.ErrInvalidEmail
	}

	switch {
	case in.Username == "":
		errs["username"] = core.ErrUsernameRequired
	case len(in.Username) < 3:
		errs["username"] = core.ErrUsernameTooShort
	}

	switch {
	case in.Document == "":
		errs["document"] = core.ErrDocumentRequired
	case in.Kind == core.RoleDonor && !format.ValidCPF(in.Document):
		errs["document"] = core.ErrInvalidCPF
	case in.Kind == core.RoleONG && !format.ValidCNPJ(in.Document):
		errs["document"] = core.ErrInvalidCNPJ
	}

	switch {
	case in.Password == "":
		errs["password"] = core.ErrPasswordRequired
	case len(in.Password) < 6:
		errs["password"] = core.ErrPasswordTooShort
	}

	if in.PasswordConfirm != in.Password {
		errs["passwordConfirm"] = core.ErrPasswordMismatch
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// SignUpOutcome is a completed registration; the caller navigates to
// the sign-in page with a success indicator.
type SignUpOutcome struct {
	RedirectTo string `json:"redirectTo"`
}

// SignUpFlow registers an account and then binds it to its role with
// the freshly issued credential. Registration and role assignment are
// not transactional: when assignment fails the account exists roleless
// and the caller gets a distinct, retryable error - there is no
// compensating rollback.
type SignUpFlow struct {
	api  SignUpAPI
	gate flowGate
}

func NewSignUpFlow(api SignUpAPI) *SignUpFlow {
	return &SignUpFlow{api: api}
}

func (f *SignUpFlow) Run(ctx context.Context, input SignUpInput) (*SignUpOutcome, error) {
	// Self-registration only creates donor or ONG accounts.
	if input.Kind != core.RoleDonor && input.Kind != core.RoleONG {
		return nil, core.ErrUnknownRole
	}
	if errs := input.Validate(); errs != nil {
		return nil, errs
	}

	if !f.gate.tryAcquire() {
		return nil, core.ErrRequestInFlight
	}
	defer f.gate.release()

	result, err := f.api.Register(ctx, strapi.RegisterInput{
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
		Document: input.Document,
	})
	if err != nil {
		return nil, classifyRegisterError(err)
	}
	if result.JWT == "" {
		return nil, core.ErrMissingToken
	}

	// Role assignment only after registration succeeded, acting with
	// the registration token the store never saw.
	if err := f.api.AssignRole(ctx, input.Kind, result.JWT); err != nil {
		return nil, &RoleAssignmentError{Cause: err}
	}

	return &SignUpOutcome{RedirectTo: "/signin?signup=success"}, nil
}

// RoleAssignmentError marks the known partial-failure gap: the account
// was created but is roleless until the user retries.
type RoleAssignmentError struct {
	Cause error
}

func (e *RoleAssignmentError) Error() string {
	return core.ErrRoleAssignment.Error()
}

func (e *RoleAssignmentError) Unwrap() error { return core.ErrRoleAssignment }

// classifyRegisterError detects the duplicate-account conflict from the
// backend message so it can be surfaced distinctly from generic failure.
func classifyRegisterError(err error) error {
	var apiErr *core.APIError
	if errors.As(err, &apiErr) && strings.Contains(strings.ToLower(apiErr.Message), "already taken") {
		return core.ErrAlreadyRegistered
	}
	return err
}

// flowGate rejects a submission while a previous one is outstanding.
type flowGate struct {
	mu sync.Mutex
}

func (g *flowGate) tryAcquire() bool {
	return g.mu.TryLock()
}

func (g *flowGate) release() {
	g.mu.Unlock()
}
