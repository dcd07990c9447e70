package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/LithiumValproate/Freshman-3rd/core/nav"
	"github.com/LithiumValproate/Freshman-3rd/core/student"
	"github.com/LithiumValproate/Freshman-3rd/core/user"
)

// The student records are an opaque collaborator: these handlers move records
// between the client and the repository and add nothing of their own.
type studentApi struct {
	opts *Options
}

func registerStudentAPI(g *echo.Group, guard *nav.Guard, opts *Options) {
	api := studentApi{opts: opts}

	// reads for any identified user, mutations for admins only
	authed := nav.Route{Name: "students-api", Path: "/v1/students", RequiresAuth: true}
	adminOnly := nav.Route{Name: "students-api-admin", Path: "/v1/students", RequiresAuth: true, RequiredRole: user.RoleAdmin.String()}

	sg := g.Group("/students", guardMiddleware(guard, authed))
	sg.GET("", api.query)
	sg.GET("/:id", api.retrieve)

	mg := sg.Group("", guardMiddleware(guard, adminOnly))
	mg.POST("", api.create)
	mg.PUT("/:id", api.update)
	mg.DELETE("/:id", api.destroy)
}

// Handlers

func (api *studentApi) query(ctx echo.Context) error {
	students, err := api.opts.StudentSvc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *studentApi) retrieve(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	stu, err := api.opts.StudentSvc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "retrieving student")
	}
	return ctx.JSON(http.StatusOK, stu)
}

func (api *studentApi) create(ctx echo.Context) error {
	var data student.Student
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Student")
	}
	if err := validateStruct(api.opts.Validate, api.opts.Translator, &data); err != nil {
		return err
	}

	stu, err := api.opts.StudentSvc.Add(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating student")
	}
	return ctx.JSON(http.StatusCreated, stu)
}

func (api *studentApi) update(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	var data student.Student
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Student")
	}
	if err := validateStruct(api.opts.Validate, api.opts.Translator, &data); err != nil {
		return err
	}
	data.ID = id

	stu, err := api.opts.StudentSvc.Update(ctx.Request().Context(), data)
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating student")
	}
	return ctx.JSON(http.StatusOK, stu)
}

func (api *studentApi) destroy(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	if err = api.opts.StudentSvc.Delete(ctx.Request().Context(), id); err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "deleting student")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func pathID(ctx echo.Context) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}
