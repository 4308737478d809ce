package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	apperrors "reviewhub/internal/errors"
)

// HTTPError converts any error into an echo.HTTPError carrying an
// apperrors.ErrorResponse body. Unclassified errors become a generic 500 and
// keep the cause as the internal error for logging only.
func HTTPError(err error) *echo.HTTPError {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if msg, ok := he.Message.(string); ok {
			return &echo.HTTPError{
				Code:     he.Code,
				Message:  apperrors.ErrorResponse{Error: msg, Code: codeForStatus(he.Code)},
				Internal: he.Internal,
			}
		}
		return he
	}

	mapped := apperrors.MapErrorToHTTP(err)
	out := echo.NewHTTPError(mapped.StatusCode, mapped.ToErrorResponse())
	if mapped.StatusCode == http.StatusInternalServerError {
		out.Internal = err
	}
	return out
}

// ErrorHandler renders every failure as JSON and logs server-side causes.
func ErrorHandler(log logrus.FieldLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		he := HTTPError(err)
		if he.Code >= http.StatusInternalServerError {
			cause := he.Internal
			if cause == nil {
				cause = err
			}
			log.WithError(cause).WithFields(logrus.Fields{
				"method": c.Request().Method,
				"uri":    c.Request().RequestURI,
			}).Error("request failed")
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(he.Code)
		} else {
			writeErr = c.JSON(he.Code, he.Message)
		}
		if writeErr != nil {
			log.WithError(writeErr).Warn("write error response")
		}
	}
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return apperrors.KindInvalidInput.String()
	case http.StatusUnauthorized:
		return apperrors.KindAuthenticationRequired.String()
	case http.StatusForbidden:
		return apperrors.KindPermissionDenied.String()
	case http.StatusNotFound:
		return apperrors.KindNotFound.String()
	case http.StatusConflict:
		return apperrors.KindConflict.String()
	}
	if status >= http.StatusInternalServerError {
		return apperrors.KindInternal.String()
	}
	return strings.ToUpper(strings.ReplaceAll(http.StatusText(status), " ", "_"))
}
