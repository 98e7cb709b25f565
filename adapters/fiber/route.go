// Package fiber binds the application's routes to a Fiber app: the
// public auth endpoints, the session endpoint, and the role-gated
// dashboard area behind the guard middleware.
package fiber

import (
	"github.com/gofiber/fiber/v3"

	"github.com/doaqui/doaqui"
)

type Adapter struct {
	fiberApp *fiber.App
}

var _ doaqui.HTTPAdapter = (*Adapter)(nil)

func New(fiberApp *fiber.App) *Adapter {
	return &Adapter{fiberApp: fiberApp}
}

func (a *Adapter) RegisterRoutes(app *doaqui.App) error {
	// Public routes
	a.fiberApp.Post("/signin", handleSignIn(app))
	a.fiberApp.Post("/signup/donor", handleSignUp(app, doaqui.RoleDonor))
	a.fiberApp.Post("/signup/ong", handleSignUp(app, doaqui.RoleONG))
	a.fiberApp.Post("/signout", handleSignOut(app))
	a.fiberApp.Post("/refresh", handleRefresh(app))
	a.fiberApp.Get("/session", handleGetSession(app))
	a.fiberApp.Get("/", handleRootDispatch(app))

	// Dashboard area, gated per role by the guard
	dashboard := a.fiberApp.Group("/dashboard", guardMiddleware(app))
	dashboard.Get("/donor", handleDonorDashboard(app))
	dashboard.Get("/donor/donate", handleDonateForm(app))
	dashboard.Post("/donor/donate", handleDonateSubmit(app))
	dashboard.Get("/ong", handleOngDashboard(app))
	dashboard.Get("/admin", handleAdminDashboard(app))
	dashboard.Put("/admin/donations/:id/status", handleUpdateStatus(app))

	return nil
}
