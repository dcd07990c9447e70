package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/LithiumValproate/Freshman-3rd/core/nav"
	"github.com/LithiumValproate/Freshman-3rd/core/user"
)

const loginPath = "/login"

// pageRoutes is the navigation table, one entry per portal page. The guard
// metadata matches what the client router declares for the same paths.
var pageRoutes = []nav.Route{
	{Name: "login", Path: loginPath, Login: true, RequiresAuth: false},
	{Name: "admin", Path: "/admin", RequiresAuth: true, RequiredRole: user.RoleAdmin.String()},
	{Name: "teacher", Path: "/teacher", RequiresAuth: true, RequiredRole: user.RoleTeacher.String()},
	{Name: "student", Path: "/student", RequiresAuth: true, RequiredRole: user.RoleStudent.String()},
}

func registerPages(e *echo.Echo, guard *nav.Guard) {
	for _, route := range pageRoutes {
		e.GET(route.Path, pageHandler(route.Name), guardMiddleware(guard, route))
	}

	// unknown paths land on the login page
	e.RouteNotFound("/*", func(ctx echo.Context) error {
		return ctx.Redirect(http.StatusFound, loginPath)
	})
}

// guardMiddleware evaluates the route guard before the target renders and
// turns its verdict into admit / redirect. Guard errors (configuration
// defects) propagate to the error handler and halt the navigation.
func guardMiddleware(guard *nav.Guard, route nav.Route) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			decision, err := guard.Evaluate(ctx.Request().Context(), route)
			if err != nil {
				return errors.Wrapf(err, "guarding %q", route.Name)
			}
			switch decision.Action {
			case nav.Admit:
				return next(ctx)
			case nav.RedirectLogin, nav.RedirectHome:
				return ctx.Redirect(http.StatusFound, decision.Destination)
			}
			return errors.Errorf("unhandled guard action %v", decision.Action)
		}
	}
}

func pageHandler(name string) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		return ctx.JSON(http.StatusOK, echo.Map{"page": name})
	}
}
