package fiber

import (
	"github.com/gofiber/fiber/v3"

	"github.com/doaqui/doaqui"
)

// guardMiddleware evaluates the route guard for the request path and
// acts on its decision: redirect away, hold while a sign-in is in
// flight, or let the request through.
func guardMiddleware(app *doaqui.App) fiber.Handler {
	return func(c fiber.Ctx) error {
		decision := app.Guard.Evaluate(c.Path())

		switch decision.State {
		case doaqui.GuardLoading:
			// A sign-in attempt is outstanding; hold rather than
			// redirect, since the verdict is not known yet.
			return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
				"state": decision.State.String(),
			})

		case doaqui.GuardUnauthenticated, doaqui.GuardDenied:
			return c.Redirect().Status(fiber.StatusSeeOther).To(decision.RedirectTo)
		}

		return c.Next()
	}
}
