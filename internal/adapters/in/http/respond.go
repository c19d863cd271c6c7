package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"refuel/internal/core/domain/model/courier"
	"refuel/internal/pkg/errs"
)

// Reason codes minted at the transport boundary. The domain codes in errs
// cover business refusals; these two cover malformed requests and everything
// the server cannot explain to the caller.
const (
	reasonInvalidRequest = "invalid_request"
	reasonInternalError  = "internal_error"
)

// statusForReason maps a business rejection to an HTTP status. Unlisted
// reasons describe a conflict with the current state of the order, so the
// default is 409.
func statusForReason(reason errs.RejectionReason) int {
	switch reason {
	case errs.ReasonNotFound:
		return http.StatusNotFound
	case errs.ReasonPermissionDenied:
		return http.StatusForbidden
	case errs.ReasonServiceClosed:
		return http.StatusUnprocessableEntity
	case errs.ReasonOptimizerUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusConflict
	}
}

// respondError translates a use-case error into the failure envelope.
// Business rejections keep their domain reason code; validation errors
// become invalid_request; anything else is an internal error and gets logged
// with request context because the body deliberately says nothing useful.
func (s *Server) respondError(ctx echo.Context, err error) error {
	if rejection, ok := errs.RejectionFrom(err); ok {
		return ctx.JSON(statusForReason(rejection.Reason), failureResponse{
			Reason:  string(rejection.Reason),
			Message: rejection.Message,
		})
	}

	if errors.Is(err, errs.ErrObjectNotFound) {
		return ctx.JSON(http.StatusNotFound, failureResponse{
			Reason:  string(errs.ReasonNotFound),
			Message: err.Error(),
		})
	}

	if errors.Is(err, errs.ErrValueIsRequired) ||
		errors.Is(err, errs.ErrValueIsInvalid) ||
		errors.Is(err, errs.ErrValueIsOutOfRange) ||
		errors.Is(err, courier.ErrTankNotFound) {
		return s.respondInvalid(ctx, err)
	}

	s.logger.ErrorContext(ctx.Request().Context(), "Request failed",
		slog.String("method", ctx.Request().Method),
		slog.String("path", ctx.Path()),
		slog.Any("error", err),
	)

	return ctx.JSON(http.StatusInternalServerError, failureResponse{
		Reason:  reasonInternalError,
		Message: "internal error",
	})
}

// respondInvalid reports a malformed or unparsable request.
func (s *Server) respondInvalid(ctx echo.Context, err error) error {
	return ctx.JSON(http.StatusBadRequest, failureResponse{
		Reason:  reasonInvalidRequest,
		Message: err.Error(),
	})
}
