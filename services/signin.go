// Package services holds the user-facing flows. Each flow is an
// explicit sequence of backend steps against the session store, so
// partial-completion states are representable and testable instead of
// implied by call ordering.
package services

import (
	"context"
	"fmt"

	"github.com/doaqui/doaqui/core"
	"github.com/doaqui/doaqui/strapi"
)

// FlowState tracks how far a sign-in attempt got before it finished or
// failed.
type FlowState int

const (
	StatePending FlowState = iota
	StateCredentialObtained
	StateIdentityResolved
	StateLoggedIn
)

func (s FlowState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateCredentialObtained:
		return "credential obtained"
	case StateIdentityResolved:
		return "identity resolved"
	case StateLoggedIn:
		return "logged in"
	}
	return "unknown"
}

// FlowError wraps a step failure with the state the flow had reached.
type FlowError struct {
	State FlowState
	Err   error
}

func (e *FlowError) Error() string {
	return fmt.Sprintf("sign-in failed at state %q: %v", e.State, e.Err)
}

func (e *FlowError) Unwrap() error { return e.Err }

// SignInAPI is the slice of the gateway the sign-in flow needs.
type SignInAPI interface {
	SignIn(ctx context.Context, input strapi.SignInInput) (*strapi.SignInResult, error)
	Me(ctx context.Context, opts ...strapi.RequestOption) (*core.User, error)
}

// SignInOutcome is a completed sign-in: the resolved identity and the
// dashboard path the caller should navigate to.
type SignInOutcome struct {
	User       *core.User `json:"user"`
	RedirectTo string     `json:"redirectTo"`
}

// SignInFlow runs the two-step login: obtain a credential, then fetch
// the full identity with it, and only then commit the session. The two
// steps exist because the sign-in response and the authenticated
// identity response are not guaranteed to carry the same fields - in
// particular the role.
type SignInFlow struct {
	api   SignInAPI
	store *core.SessionStore
	gate  flowGate
}

func NewSignInFlow(api SignInAPI, store *core.SessionStore) *SignInFlow {
	return &SignInFlow{api: api, store: store}
}

// Run executes pending -> credential obtained -> identity resolved ->
// logged in. Any step failure clears the session and reports the state
// reached; nothing is retried.
func (f *SignInFlow) Run(ctx context.Context, identifier, password string) (*SignInOutcome, error) {
	// One attempt at a time: a second submission while a request is
	// outstanding is rejected instead of double-dispatched.
	if !f.gate.tryAcquire() {
		return nil, core.ErrRequestInFlight
	}
	defer f.gate.release()

	f.store.SetLoading(true)
	defer f.store.SetLoading(false)

	// Drop any previous session before a fresh attempt.
	f.store.Logout()

	state := StatePending
	fail := func(err error) (*SignInOutcome, error) {
		f.store.Logout()
		return nil, &FlowError{State: state, Err: err}
	}

	result, err := f.api.SignIn(ctx, strapi.SignInInput{Identifier: identifier, Password: password})
	if err != nil {
		return fail(err)
	}
	if result.JWT == "" || result.User == nil {
		return fail(core.ErrMalformedResponse)
	}

	// Hold the fresh token so the identity fetch dispatches with it
	// before the session is committed.
	f.store.UpdateToken(result.JWT)
	state = StateCredentialObtained

	user, err := f.api.Me(ctx)
	if err != nil {
		return fail(err)
	}
	state = StateIdentityResolved

	f.store.Login(user, result.JWT)
	state = StateLoggedIn

	redirect := user.Role.DashboardPath()
	if redirect == "" {
		redirect = "/"
	}
	return &SignInOutcome{User: user, RedirectTo: redirect}, nil
}
