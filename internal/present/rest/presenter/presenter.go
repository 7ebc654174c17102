package presenter

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/trace"

	"github.com/totegamma/discography"
	"github.com/totegamma/discography/internal/domain"
)

const MediaTypeProblem = "application/problem+json"

// Problem maps err onto a status code and problem body. Server errors keep
// their message out of the body.
func Problem(err error) (int, discography.ProblemDetails) {
	var validation domain.ValidationError
	var notFound domain.NotFoundError
	var invalid domain.InvalidInputError
	var reference domain.ReferenceError

	switch {
	case errors.As(err, &validation):
		return http.StatusUnprocessableEntity, discography.ProblemDetails{
			Title:  "One or more validation errors occurred.",
			Status: http.StatusUnprocessableEntity,
			Errors: validation.Fields,
		}
	case errors.As(err, &notFound):
		return http.StatusNotFound, discography.ProblemDetails{
			Title:  "Not Found",
			Status: http.StatusNotFound,
			Detail: notFound.Error(),
		}
	case errors.As(err, &reference):
		return http.StatusBadRequest, discography.ProblemDetails{
			Title:  "Bad Request",
			Status: http.StatusBadRequest,
			Detail: reference.Error(),
			Errors: map[string][]string{reference.Field: {reference.Error()}},
		}
	case errors.As(err, &invalid):
		return http.StatusBadRequest, discography.ProblemDetails{
			Title:  "Bad Request",
			Status: http.StatusBadRequest,
			Detail: invalid.Error(),
		}
	}
	return http.StatusInternalServerError, discography.ProblemDetails{
		Title:  "Internal Server Error",
		Status: http.StatusInternalServerError,
	}
}

// Error writes err as a problem response.
func Error(c echo.Context, err error) error {
	ctx := c.Request().Context()
	status, body := Problem(err)

	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		body.TraceID = sc.TraceID().String()
	} else if id, ok := ctx.Value(domain.RequestIDCtxKey).(string); ok {
		body.TraceID = id
	}

	if status >= http.StatusInternalServerError {
		slog.ErrorContext(
			ctx, "request failed",
			slog.String("error", err.Error()),
			slog.String("module", "rest"),
		)
	} else {
		slog.DebugContext(
			ctx, "request rejected",
			slog.String("error", err.Error()),
			slog.Int("status", status),
			slog.String("module", "rest"),
		)
	}

	c.Response().Header().Set(echo.HeaderContentType, MediaTypeProblem)
	return c.JSON(status, body)
}

// OK wraps a successful response.
func OK(c echo.Context, payload any) error {
	return c.JSON(http.StatusOK, payload)
}

// Created answers with the new resource and where to find it.
func Created(c echo.Context, location string, payload any) error {
	c.Response().Header().Set(echo.HeaderLocation, location)
	return c.JSON(http.StatusCreated, payload)
}

func NoContent(c echo.Context) error {
	return c.NoContent(http.StatusNoContent)
}

// BadRequestMessage answers 400 for input rejected before reaching a usecase.
func BadRequestMessage(c echo.Context, msg string) error {
	return Error(c, domain.Invalidf("%s", msg))
}
