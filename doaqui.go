// Package doaqui is the client core of the donation platform: a session
// store hydrated from pluggable storage, a gateway client for the
// content API, per-resource adapters, the sign-in/sign-up flows, and a
// route guard. HTTP frameworks plug in through the HTTPAdapter port.
package doaqui

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/doaqui/doaqui/core"
	"github.com/doaqui/doaqui/services"
	"github.com/doaqui/doaqui/strapi"
)

// interfaces
type (
	SessionRepository = core.SessionRepository
	CredentialSource  = core.CredentialSource
)

// HTTPAdapter binds the application's routes to an HTTP framework.
type HTTPAdapter interface {
	RegisterRoutes(app *App) error
}

// structs
type (
	User          = core.User
	Session       = core.Session
	SessionRecord = core.SessionRecord
	Donation      = core.Donation
	DonationList  = core.DonationList
	Organization  = core.Organization
	FoodType      = core.FoodType
	ListQuery     = core.ListQuery
	PageInfo      = core.PageInfo
	Policy        = core.Policy
	Decision      = core.Decision
	CacheStats    = core.CacheStats
)

type (
	Role           = core.Role
	DonationStatus = core.DonationStatus
	GuardState     = core.GuardState
	SignInOutcome  = services.SignInOutcome
	SignUpInput    = services.SignUpInput
	SignUpOutcome  = services.SignUpOutcome
	FieldErrors    = services.FieldErrors
	FlowError      = services.FlowError

	CreateDonationInput = strapi.CreateDonationInput
	NewDonationItem     = strapi.NewDonationItem
)

const (
	RoleDonor = core.RoleDonor
	RoleONG   = core.RoleONG
	RoleAdmin = core.RoleAdmin
)

const (
	GuardLoading         = core.GuardLoading
	GuardUnauthenticated = core.GuardUnauthenticated
	GuardDenied          = core.GuardDenied
	GuardAllowed         = core.GuardAllowed
)

// Constructors & helpers (convenience re-exports)
var (
	DefaultPolicy = core.DefaultPolicy
	ParseRole     = core.ParseRole
)

var (
	ErrInvalidCredentials = core.ErrInvalidCredentials
	ErrNotAuthenticated   = core.ErrNotAuthenticated
	ErrMissingToken       = core.ErrMissingToken
	ErrUnknownRole        = core.ErrUnknownRole
	ErrAlreadyRegistered  = core.ErrAlreadyRegistered
	ErrRoleAssignment     = core.ErrRoleAssignment
	ErrRequestInFlight    = core.ErrRequestInFlight
	ErrNotFound           = core.ErrNotFound
)

var (
	ErrRepositoryRequired  = core.ErrRepositoryRequired
	ErrHTTPAdapterRequired = core.ErrHTTPAdapterRequired
	ErrBaseURLRequired     = core.ErrBaseURLRequired
)

// Config assembles an App. SessionRepository and HTTP are required;
// everything else has a default.
type Config struct {
	// BaseURL of the content API, e.g. "http://localhost:1337/api".
	BaseURL string

	// SessionRepository persists the session between runs.
	SessionRepository core.SessionRepository

	// HTTP binds the routes to a framework.
	HTTP HTTPAdapter

	// Optional
	Timeout      time.Duration
	CacheTTL     time.Duration
	CacheMaxSize int
	Policy       *core.Policy
	Logger       *slog.Logger
	HTTPClient   *http.Client
}

// App is the assembled application: the session store, the gateway
// client, the content adapters, the flows, and the route guard.
type App struct {
	Store         *core.SessionStore
	Client        *strapi.Client
	Auth          *strapi.Auth
	Donations     *strapi.Donations
	Organizations *strapi.Organizations
	FoodTypes     *strapi.FoodTypes
	Guard         *core.Guard
	SignIn        *services.SignInFlow
	SignUp        *services.SignUpFlow
	Logger        *slog.Logger
}

// New wires the App together and hydrates the session from the
// repository, so route decisions reflect the persisted session from the
// first request on.
func New(ctx context.Context, config Config) (*App, error) {
	if config.BaseURL == "" {
		return nil, ErrBaseURLRequired
	}
	if config.SessionRepository == nil {
		return nil, ErrRepositoryRequired
	}
	if config.HTTP == nil {
		return nil, ErrHTTPAdapterRequired
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	store := core.NewSessionStore(config.SessionRepository, logger)
	store.Hydrate(ctx)

	cache := core.NewListCache(core.CacheConfig{
		TTL:     config.CacheTTL,
		MaxSize: config.CacheMaxSize,
	})

	client, err := strapi.NewClient(strapi.ClientConfig{
		BaseURL:       config.BaseURL,
		Credentials:   store,
		OnAuthFailure: store.Logout,
		Timeout:       config.Timeout,
		HTTPClient:    config.HTTPClient,
		Logger:        logger,
	})
	if err != nil {
		return nil, err
	}

	policy := core.DefaultPolicy()
	if config.Policy != nil {
		policy = *config.Policy
	}

	auth := strapi.NewAuth(client)

	app := &App{
		Store:         store,
		Client:        client,
		Auth:          auth,
		Donations:     strapi.NewDonations(client, cache),
		Organizations: strapi.NewOrganizations(client, cache),
		FoodTypes:     strapi.NewFoodTypes(client, cache),
		Guard:         core.NewGuard(store, policy),
		SignIn:        services.NewSignInFlow(auth, store),
		SignUp:        services.NewSignUpFlow(auth),
		Logger:        logger,
	}

	if err := config.HTTP.RegisterRoutes(app); err != nil {
		return nil, err
	}

	return app, nil
}
