package fiber

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/doaqui/doaqui"
	"github.com/doaqui/doaqui/core"
)

// handleSignIn returns the handler for the sign-in endpoint.
func handleSignIn(app *doaqui.App) fiber.Handler {
	return func(c fiber.Ctx) error {
		var input struct {
			Identifier string `json:"identifier"`
			Password   string `json:"password"`
		}
		if err := c.Bind().Body(&input); err != nil {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}

		outcome, err := app.SignIn.Run(c.Context(), input.Identifier, input.Password)
		if err != nil {
			return handleError(c, err)
		}

		return c.Status(http.StatusOK).JSON(outcome)
	}
}

// handleSignUp returns the handler for a registration endpoint. kind is
// fixed per route: donors and ONGs register through separate paths.
func handleSignUp(app *doaqui.App, kind doaqui.Role) fiber.Handler {
	return func(c fiber.Ctx) error {
		var input struct {
			Email           string `json:"email"`
			Username        string `json:"username"`
			Document        string `json:"document"`
			Password        string `json:"password"`
			PasswordConfirm string `json:"passwordConfirm"`
		}
		if err := c.Bind().Body(&input); err != nil {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}

		outcome, err := app.SignUp.Run(c.Context(), doaqui.SignUpInput{
			Kind:            kind,
			Email:           input.Email,
			Username:        input.Username,
			Document:        input.Document,
			Password:        input.Password,
			PasswordConfirm: input.PasswordConfirm,
		})
		if err != nil {
			return handleError(c, err)
		}

		return c.Status(http.StatusCreated).JSON(outcome)
	}
}

// handleSignOut returns the handler for the sign-out endpoint. The
// local session is cleared no matter what the backend says.
func handleSignOut(app *doaqui.App) fiber.Handler {
	return func(c fiber.Ctx) error {
		if app.Store.IsAuthenticated() {
			if err := app.Auth.Logout(c.Context()); err != nil {
				app.Logger.Warn("server-side logout failed", "error", err)
			}
		}
		app.Store.Logout()

		return c.Status(http.StatusOK).JSON(fiber.Map{
			"message": "signed out successfully",
		})
	}
}

// handleRefresh exchanges the session credential for a fresh one and
// commits it to the store.
func handleRefresh(app *doaqui.App) fiber.Handler {
	return func(c fiber.Ctx) error {
		if !app.Store.IsAuthenticated() {
			return handleError(c, doaqui.ErrNotAuthenticated)
		}

		token, err := app.Auth.Refresh(c.Context())
		if err != nil {
			return handleError(c, err)
		}
		app.Store.UpdateToken(token)

		return c.Status(http.StatusOK).JSON(fiber.Map{
			"message": "session refreshed",
		})
	}
}

// handleGetSession returns the handler for the session endpoint. The
// credential never leaves the process.
func handleGetSession(app *doaqui.App) fiber.Handler {
	return func(c fiber.Ctx) error {
		session := app.Store.Snapshot()
		if !session.IsAuthenticated {
			return handleError(c, doaqui.ErrNotAuthenticated)
		}

		return c.Status(http.StatusOK).JSON(fiber.Map{
			"user":            session.User,
			"isAuthenticated": session.IsAuthenticated,
		})
	}
}

// handleRootDispatch sends the visitor to their dashboard, or to
// sign-in when no session is present.
func handleRootDispatch(app *doaqui.App) fiber.Handler {
	return func(c fiber.Ctx) error {
		if role, ok := app.Store.Role(); ok && app.Store.IsAuthenticated() {
			return c.Redirect().Status(fiber.StatusSeeOther).To(role.DashboardPath())
		}
		return c.Redirect().Status(fiber.StatusSeeOther).To(app.Guard.Policy().SignInPath)
	}
}

// handleDonorDashboard serves the signed-in donor's identity and their
// own donations.
func handleDonorDashboard(app *doaqui.App) fiber.Handler {
	return func(c fiber.Ctx) error {
		query := parseListQuery(c)
		user := app.Store.Snapshot().User
		if user != nil {
			if query.Filters == nil {
				query.Filters = map[string]string{}
			}
			query.Filters["donor"] = user.DocumentID
		}

		list, err := app.Donations.List(c.Context(), query)
		if err != nil {
			return handleError(c, err)
		}
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"user":      user,
			"donations": list,
		})
	}
}

// handleDonateForm serves the reference data the donation form needs:
// receiving organizations and donatable food types.
func handleDonateForm(app *doaqui.App) fiber.Handler {
	return func(c fiber.Ctx) error {
		organizations, err := app.Organizations.All(c.Context())
		if err != nil {
			return handleError(c, err)
		}
		foodTypes, err := app.FoodTypes.All(c.Context())
		if err != nil {
			return handleError(c, err)
		}

		return c.Status(http.StatusOK).JSON(fiber.Map{
			"organizations": organizations,
			"foodTypes":     foodTypes,
		})
	}
}

// handleDonateSubmit creates a donation on behalf of the signed-in
// donor.
func handleDonateSubmit(app *doaqui.App) fiber.Handler {
	return func(c fiber.Ctx) error {
		var input struct {
			Items []struct {
				FoodTypeID string `json:"foodTypeId"`
				Quantity   int    `json:"quantity"`
			} `json:"items"`
			RecipientID string `json:"recipientId"`
		}
		if err := c.Bind().Body(&input); err != nil || len(input.Items) == 0 || input.RecipientID == "" {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}

		user := app.Store.Snapshot().User
		if user == nil {
			return handleError(c, doaqui.ErrNotAuthenticated)
		}

		create := doaqui.CreateDonationInput{
			DonorDocumentID: user.DocumentID,
			RecipientID:     input.RecipientID,
		}
		for _, item := range input.Items {
			create.Items = append(create.Items, doaqui.NewDonationItem{
				FoodTypeID: item.FoodTypeID,
				Quantity:   item.Quantity,
			})
		}

		donation, err := app.Donations.Create(c.Context(), create)
		if err != nil {
			return handleError(c, err)
		}
		return c.Status(http.StatusCreated).JSON(donation)
	}
}

// handleOngDashboard lists donations directed at the signed-in ONG.
func handleOngDashboard(app *doaqui.App) fiber.Handler {
	return func(c fiber.Ctx) error {
		query := parseListQuery(c)
		if user := app.Store.Snapshot().User; user != nil {
			if query.Filters == nil {
				query.Filters = map[string]string{}
			}
			query.Filters["ong_recipient"] = user.DocumentID
		}

		list, err := app.Donations.List(c.Context(), query)
		if err != nil {
			return handleError(c, err)
		}
		return c.Status(http.StatusOK).JSON(list)
	}
}

// handleAdminDashboard lists donations across all users. view=all
// switches to the flat unpaginated listing.
func handleAdminDashboard(app *doaqui.App) fiber.Handler {
	return func(c fiber.Ctx) error {
		if c.Query("view") == "all" {
			items, err := app.Donations.All(c.Context())
			if err != nil {
				return handleError(c, err)
			}
			return c.Status(http.StatusOK).JSON(fiber.Map{"items": items})
		}

		list, err := app.Donations.List(c.Context(), parseListQuery(c))
		if err != nil {
			return handleError(c, err)
		}
		return c.Status(http.StatusOK).JSON(list)
	}
}

// handleUpdateStatus transitions a donation's status.
func handleUpdateStatus(app *doaqui.App) fiber.Handler {
	return func(c fiber.Ctx) error {
		var input struct {
			Status doaqui.DonationStatus `json:"status"`
		}
		if err := c.Bind().Body(&input); err != nil {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}

		donation, err := app.Donations.UpdateStatus(c.Context(), c.Params("id"), input.Status)
		if err != nil {
			return handleError(c, err)
		}
		return c.Status(http.StatusOK).JSON(donation)
	}
}

// parseListQuery reads pagination and ordering from the query string.
// pageIndex is 0-indexed; sort takes comma-separated "field:dir" pairs
// whose order is preserved.
func parseListQuery(c fiber.Ctx) core.ListQuery {
	query := core.ListQuery{
		PageIndex: atoiDefault(c.Query("pageIndex"), 0),
		PageSize:  atoiDefault(c.Query("pageSize"), 10),
	}
	query.Sort = parseSort(c.Query("sort"))
	return query
}

func parseSort(raw string) []core.SortKey {
	if raw == "" {
		return nil
	}
	var keys []core.SortKey
	for _, pair := range strings.Split(raw, ",") {
		field, dir, _ := strings.Cut(strings.TrimSpace(pair), ":")
		if field == "" {
			continue
		}
		keys = append(keys, core.SortKey{Field: field, Desc: dir == "desc"})
	}
	return keys
}

func atoiDefault(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed < 0 {
		return fallback
	}
	return parsed
}

// handleError maps application errors to HTTP responses. Field-level
// validation failures carry the per-field breakdown.
func handleError(c fiber.Ctx, err error) error {
	var fieldErrs doaqui.FieldErrors
	if errors.As(err, &fieldErrs) {
		fields := make(map[string]string, len(fieldErrs))
		for field, fieldErr := range fieldErrs {
			fields[field] = fieldErr.Error()
		}
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error":  "validation failed",
			"fields": fields,
		})
	}

	return c.Status(mapErrorToStatus(err)).JSON(fiber.Map{
		"error": err.Error(),
	})
}

// mapErrorToStatus maps application error types to HTTP status codes.
func mapErrorToStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var apiErr *core.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}

	switch {
	case errors.Is(err, doaqui.ErrInvalidCredentials),
		errors.Is(err, doaqui.ErrNotAuthenticated),
		errors.Is(err, doaqui.ErrMissingToken):
		return http.StatusUnauthorized

	case errors.Is(err, doaqui.ErrAlreadyRegistered):
		return http.StatusConflict

	case errors.Is(err, doaqui.ErrRequestInFlight):
		return http.StatusTooManyRequests

	case errors.Is(err, doaqui.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, doaqui.ErrUnknownRole):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}
