package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "reviewhub/internal/errors"
)

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantError  string
		wantFields map[string][]string
		wantLogged bool
	}{
		{
			name:       "invalid input",
			err:        apperrors.Invalid("score", "must be between 1 and 10"),
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_INPUT",
			wantError:  "validation failed",
			wantFields: map[string][]string{"score": {"must be between 1 and 10"}},
		},
		{
			name:       "not found",
			err:        apperrors.NotFound("title not found"),
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
			wantError:  "title not found",
		},
		{
			name:       "echo error with string message",
			err:        echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded"),
			wantStatus: http.StatusTooManyRequests,
			wantCode:   "TOO_MANY_REQUESTS",
			wantError:  "rate limit exceeded",
		},
		{
			name:       "unclassified error",
			err:        errors.New("connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_ERROR",
			wantError:  "internal server error",
			wantLogged: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, hook := test.NewNullLogger()
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/x", nil), rec)

			ErrorHandler(log)(tt.err, c)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body apperrors.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Code)
			assert.Equal(t, tt.wantError, body.Error)
			assert.Equal(t, tt.wantFields, body.Fields)

			if tt.wantLogged {
				require.NotNil(t, hook.LastEntry())
				assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
				assert.Equal(t, tt.err, hook.LastEntry().Data[logrus.ErrorKey])
			} else {
				assert.Empty(t, hook.AllEntries())
			}
		})
	}
}

func TestErrorHandler_HeadHasNoBody(t *testing.T) {
	log, _ := test.NewNullLogger()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodHead, "/x", nil), rec)

	ErrorHandler(log)(apperrors.NotFound("gone"), c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, rec.Body.String())
}
