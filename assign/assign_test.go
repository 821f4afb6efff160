package assign

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/openfms/sbd-device/parser"
	"gotest.tools/v3/assert"
)

func TestClientAssign(t *testing.T) {
	point := &parser.FlightPoint{
		Datetime:   time.Date(2023, time.June, 15, 12, 34, 56, 0, time.UTC),
		Latitude:   45.25,
		Longitude:  -12.75,
		Satellites: 9,
		IMEI:       "300234010000000",
	}
	tests := map[string]struct {
		status   int
		response string
		expected *Result
		errWant  error
		errMsg   string
	}{
		"success": {
			status:   http.StatusOK,
			response: `{"status":"success","type":"track","flight":"AB123"}`,
			expected: &Result{Status: StatusSuccess, Type: "track", Flight: "AB123"},
		},
		"not assignable": {
			status:   http.StatusOK,
			response: `{"status":"error"}`,
			expected: &Result{Status: "error"},
		},
		"server error": {
			status:   http.StatusInternalServerError,
			response: `{}`,
			errWant:  ErrUnexpectedStatus,
		},
		"bad body": {
			status:   http.StatusOK,
			response: `not json`,
			errMsg:   "decode assignment response",
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, r.Method, http.MethodPost)
				assert.Equal(t, r.URL.Path, "/assign")
				assert.Equal(t, r.URL.Query().Get("key"), "secret")
				assert.Equal(t, r.Header.Get("Content-Type"), "application/json")

				var req struct {
					Point *parser.FlightPoint `json:"point"`
				}
				assert.NilError(t, json.NewDecoder(r.Body).Decode(&req))
				assert.Equal(t, req.Point.IMEI, point.IMEI)
				assert.Equal(t, req.Point.Satellites, point.Satellites)

				w.WriteHeader(test.status)
				_, _ = w.Write([]byte(test.response))
			}))
			defer srv.Close()

			client, err := NewClient(srv.URL+"/assign", "secret", time.Second)
			assert.NilError(t, err)
			result, err := client.Assign(context.Background(), point)
			switch {
			case test.errWant != nil:
				assert.ErrorIs(t, err, test.errWant)
			case test.errMsg != "":
				assert.ErrorContains(t, err, test.errMsg)
			default:
				assert.NilError(t, err)
				assert.DeepEqual(t, result, test.expected)
				assert.Equal(t, result.Success(), test.expected.Status == StatusSuccess)
			}
		})
	}
}

func TestClientAssignCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, "secret", 5*time.Second)
	assert.NilError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = client.Assign(ctx, &parser.FlightPoint{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewClientKeepsQuery(t *testing.T) {
	client, err := NewClient("http://127.0.0.1:3001/assign?region=eu", "k", time.Second)
	assert.NilError(t, err)
	assert.Equal(t, client.endpoint, "http://127.0.0.1:3001/assign?key=k&region=eu")

	_, err = NewClient("http://[::1", "k", time.Second)
	assert.ErrorContains(t, err, "parse assignment url")
}
