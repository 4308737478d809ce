package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext(method, target, body string) echo.Context {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return echo.New().NewContext(req, httptest.NewRecorder())
}

func TestPageParams(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantLimit  int
		wantOffset int
		wantErr    bool
	}{
		{name: "defaults", query: "", wantLimit: 20},
		{name: "explicit", query: "?limit=5&offset=10", wantLimit: 5, wantOffset: 10},
		{name: "capped", query: "?limit=1000", wantLimit: 100},
		{name: "not a number", query: "?limit=abc", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := pageParams(newContext(http.MethodGet, "/x"+tt.query, ""))
			if tt.wantErr {
				var he *echo.HTTPError
				require.ErrorAs(t, err, &he)
				assert.Equal(t, http.StatusBadRequest, he.Code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLimit, page.Limit)
			assert.Equal(t, tt.wantOffset, page.Offset)
		})
	}
}

func TestPathID(t *testing.T) {
	c := newContext(http.MethodGet, "/titles/7", "")
	c.SetParamNames("title_id")
	c.SetParamValues("7")
	id, err := pathID(c, "title_id")
	require.NoError(t, err)
	assert.EqualValues(t, 7, id)

	c.SetParamValues("seven")
	_, err = pathID(c, "title_id")
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusNotFound, he.Code)
}

func TestBindBody_Malformed(t *testing.T) {
	c := newContext(http.MethodPost, "/x", "{not json")
	var req ReviewRequest
	err := bindBody(c, &req)
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestNewList(t *testing.T) {
	items := []int{1, 2, 3}
	out := newList(items, 10, func(i *int) string { return strings.Repeat("x", *i) })
	assert.EqualValues(t, 10, out.Count)
	assert.Equal(t, []string{"x", "xx", "xxx"}, out.Results)

	empty := newList([]int(nil), 0, func(i *int) int { return *i })
	assert.NotNil(t, empty.Results)
}
