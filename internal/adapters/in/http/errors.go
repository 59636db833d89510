package http

import (
	"errors"
	"net/http"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/partner"
	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Error is the JSON payload of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// rejectedActionMessage deliberately hides which lifecycle rule rejected the
// state change; the detailed cause goes to the server log instead.
const rejectedActionMessage = "cannot perform this action"

// respondCommandError translates a command failure into an HTTP response.
//
// The confirmation-code mismatch and the role gate surface verbatim so the
// delivery and storefront apps can react to them. Every other lifecycle
// rejection collapses into one generic conflict message.
func (s *Server) respondCommandError(ctx echo.Context, err error) error {
	switch {
	case errors.Is(err, order.ErrOTPMismatch):
		return ctx.JSON(http.StatusConflict, Error{
			Code:    http.StatusConflict,
			Message: err.Error(),
		})
	case errors.Is(err, order.ErrForbidden):
		return ctx.JSON(http.StatusForbidden, Error{
			Code:    http.StatusForbidden,
			Message: err.Error(),
		})
	case errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, order.ErrAlreadyTerminal),
		errors.Is(err, order.ErrPreconditionFailed),
		errors.Is(err, order.ErrOrderNotPacked),
		errors.Is(err, partner.ErrPartnerUnavailable):
		s.logger.ErrorContext(ctx.Request().Context(), "Rejected state change",
			"path", ctx.Path(),
			"actor_role", ctx.Request().Header.Get(actorRoleHeader),
			"actor_id", ctx.Request().Header.Get(actorIDHeader),
			"error", err,
		)
		return ctx.JSON(http.StatusConflict, Error{
			Code:    http.StatusConflict,
			Message: rejectedActionMessage,
		})
	case errors.Is(err, order.ErrUnknownStatus),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
	case errors.Is(err, errs.ErrObjectNotFound):
		return ctx.JSON(http.StatusNotFound, Error{
			Code:    http.StatusNotFound,
			Message: err.Error(),
		})
	default:
		s.logger.ErrorContext(ctx.Request().Context(), "Request failed",
			"path", ctx.Path(),
			"error", err,
		)
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Internal server error",
		})
	}
}

// respondQueryError translates a read failure into an HTTP response.
func (s *Server) respondQueryError(ctx echo.Context, err error, message string) error {
	if errors.Is(err, errs.ErrObjectNotFound) {
		return ctx.JSON(http.StatusNotFound, Error{
			Code:    http.StatusNotFound,
			Message: err.Error(),
		})
	}

	s.logger.ErrorContext(ctx.Request().Context(), message,
		"path", ctx.Path(),
		"error", err,
	)
	return ctx.JSON(http.StatusInternalServerError, Error{
		Code:    http.StatusInternalServerError,
		Message: message,
	})
}
