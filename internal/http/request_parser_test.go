package http

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"traveleo/internal/core"
	applog "traveleo/internal/log"
)

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"valid", `{"name":"Food"}`, ""},
		{"empty", ``, "request body is required"},
		{"trailing object", `{"name":"a"}{"name":"b"}`, "request body must contain a single JSON object"},
		{"unknown", `{"nom":"a"}`, `unknown field "nom"`},
		{"type", `{"name":5}`, `invalid value for field "name"`},
		{"syntax", `{"name":`, "request body is not valid JSON"},
		{"too large", `{"name":"` + strings.Repeat("x", maxBodyBytes) + `"}`, "request body too large"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var dst createCategoryRequest
			err := decodeJSON(httptest.NewRecorder(), req, &dst)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, "Food", dst.Name)
				return
			}
			require.Error(t, err)
			assert.Equal(t, core.KindValidation, core.KindOf(err))
			assert.Equal(t, tt.wantErr, core.MessageOf(err))
		})
	}
}

func TestCreateTripRequestTrimsDestination(t *testing.T) {
	blank := "  "
	trip := createTripRequest{Title: " Goa ", Destination: &blank}.toNewTrip()
	assert.Equal(t, "Goa", trip.Title)
	assert.Nil(t, trip.Destination)

	goa := " Goa, India "
	trip = createTripRequest{Title: "Goa", Destination: &goa}.toNewTrip()
	require.NotNil(t, trip.Destination)
	assert.Equal(t, "Goa, India", *trip.Destination)
}

func TestExtractClientIP(t *testing.T) {
	tests := []struct {
		name   string
		remote string
		xff    string
		xri    string
		want   string
	}{
		{"direct", "203.0.113.9:1234", "", "", "203.0.113.9"},
		{"untrusted proxy ignored", "203.0.113.9:1234", "198.51.100.1", "", "203.0.113.9"},
		{"trusted proxy xff", "10.0.0.2:80", "198.51.100.1, 10.0.0.1", "", "198.51.100.1"},
		{"trusted proxy real ip", "127.0.0.1:80", "", "198.51.100.7", "198.51.100.7"},
		{"garbage xff", "10.0.0.2:80", "not-an-ip", "", "10.0.0.2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				r.Header.Set("X-Real-IP", tt.xri)
			}
			assert.Equal(t, tt.want, extractClientIP(r))
		})
	}
}

func TestWriteErrorShapes(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	rr := httptest.NewRecorder()
	writeError(rr, r, core.Conflict(core.MsgCategoryExists, nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"success":false,"message":"Category already exists"}`, rr.Body.String())

	rr = httptest.NewRecorder()
	writeError(rr, r, errors.New("disk full"))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"success":false,"error":"disk full"}`, rr.Body.String())
}

func TestWriteErrorLogsErrorType(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{core.Validation(errors.New("bad")), applog.ErrorTypeValidation},
		{core.NotFound(core.MsgTripNotFound), applog.ErrorTypeNotFound},
		{core.Conflict(core.MsgEmailExists, nil), applog.ErrorTypeConflict},
		{core.Unauthorized(core.MsgInvalidToken), applog.ErrorTypeAuth},
		{errors.New("disk full"), applog.ErrorTypeInternal},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		logger := applog.New(applog.Config{Level: slog.LevelDebug, Output: &buf})
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r = r.WithContext(applog.NewContext(r.Context(), logger))

		writeError(httptest.NewRecorder(), r, tt.err)
		assert.Contains(t, buf.String(), "error_type="+tt.want)
	}
}

func TestSplitOrigins(t *testing.T) {
	assert.Equal(t, []string{"http://a.test", "https://b.test"}, splitOrigins(" http://a.test/ ,https://b.test"))
	assert.Equal(t, []string{"*"}, splitOrigins(""))
}
