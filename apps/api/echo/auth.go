package echoapi

import (
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/LithiumValproate/Freshman-3rd/core"
	"github.com/LithiumValproate/Freshman-3rd/core/auth"
	"github.com/LithiumValproate/Freshman-3rd/core/user"
)

// currentUserCookie is the transient current-user marker surfaced to the
// client: a session-scoped cookie (no Max-Age, dies with the browsing
// context) carrying signed display claims. Convenience cache only; the guard
// never consults it.
const currentUserCookie = "currentUser"

// Claims represents the current-user marker transmitted via a signed token.
type Claims struct {
	jwt.StandardClaims
	Username string `json:"username,omitempty"`
	Role     string `json:"role,omitempty"`
}

func newMarkerClaims(conf *core.Config, ident user.Identity, expiresAt time.Time) *Claims {
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    conf.AppName,
			Subject:   ident.Username,
			ExpiresAt: expiresAt.Unix(),
			IssuedAt:  time.Now().Unix(),
		},
		Username: ident.Username,
		Role:     ident.Role.String(),
	}
}

// generateMarkerToken generates a signed token string representing the Claims.
func generateMarkerToken(conf *core.Config, claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString([]byte(conf.SecretKey))
	if err != nil {
		return "", errors.Wrap(err, "signing marker token")
	}
	return ss, nil
}

func setMarkerCookie(ctx echo.Context, token string) {
	ctx.SetCookie(&http.Cookie{
		Name:     currentUserCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearMarkerCookie(ctx echo.Context) {
	ctx.SetCookie(&http.Cookie{
		Name:     currentUserCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

type authApi struct {
	opts *Options
}

func registerAuthAPI(g *echo.Group, opts *Options) {
	api := authApi{opts: opts}

	ag := g.Group("/auth")
	ag.POST("/login", api.login)
	ag.POST("/logout", api.logout)
	ag.GET("/status", api.status)
	ag.GET("/remembered", api.remembered)
	ag.DELETE("/remembered", api.forgetRemembered)
}

// Handlers

func (api *authApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.opts.Validate, api.opts.Translator); err != nil {
		return err
	}

	res, err := api.opts.Acceptor.ValidateLogin(auth.Credentials{
		Username: data.Username,
		Password: data.Password,
		Role:     user.Role(data.Role),
	})
	if err != nil {
		if errors.Cause(err) == auth.ErrLoginInFlight {
			return errLoginBusy
		}
		return errors.Wrap(err, "validating login")
	}
	if !res.Success {
		return core.NewValidationError(errors.New(res.Message))
	}

	reqCtx := ctx.Request().Context()
	ident := res.User.Identity()
	sess, err := api.opts.SessionSvc.Create(reqCtx, ident)
	if err != nil {
		return errors.Wrap(err, "creating session")
	}
	if data.RememberMe {
		if _, err = api.opts.SessionSvc.Remember(reqCtx, ident); err != nil {
			return errors.Wrap(err, "remembering user")
		}
	}

	token, err := generateMarkerToken(api.opts.Conf, newMarkerClaims(api.opts.Conf, ident, sess.ExpiresAt))
	if err != nil {
		return err
	}
	setMarkerCookie(ctx, token)

	return ctx.JSON(http.StatusOK, LoginResponse{User: *res.User, ExpiresAt: sess.ExpiresAt})
}

func (api *authApi) logout(ctx echo.Context) error {
	if err := api.opts.SessionSvc.Logout(ctx.Request().Context()); err != nil {
		return errors.Wrap(err, "logging out")
	}
	clearMarkerCookie(ctx)
	return ctx.NoContent(http.StatusNoContent)
}

func (api *authApi) status(ctx echo.Context) error {
	status, err := api.opts.SessionSvc.Status(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "checking login status")
	}
	return ctx.JSON(http.StatusOK, status)
}

func (api *authApi) remembered(ctx echo.Context) error {
	rec, err := api.opts.SessionSvc.Remembered(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "reading remembered user")
	}
	if rec == nil {
		return ctx.NoContent(http.StatusNoContent)
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (api *authApi) forgetRemembered(ctx echo.Context) error {
	if err := api.opts.SessionSvc.ForgetRemembered(ctx.Request().Context()); err != nil {
		return errors.Wrap(err, "forgetting remembered user")
	}
	return ctx.NoContent(http.StatusNoContent)
}
