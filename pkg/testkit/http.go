package testkit

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

// Call describes one request against a handler under test.
type Call struct {
	Method string
	Path   string
	Body   any
	Token  string
}

// Do serves the call on h and returns the recorded response. A string or
// []byte Body is sent as-is; anything else is JSON-encoded.
func Do(t testing.TB, h http.Handler, c Call) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader
	switch b := c.Body.(type) {
	case nil:
	case string:
		body = bytes.NewBufferString(b)
	case []byte:
		body = bytes.NewBuffer(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err, "testkit: encode body")
		body = bytes.NewBuffer(raw)
	}

	req := httptest.NewRequest(c.Method, c.Path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// Envelope is the decoded response envelope with Data left raw.
type Envelope struct {
	Status  int               `json:"status"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

// Decode parses the envelope of rec and, when dest is non-nil, its data.
func Decode(t testing.TB, rec *httptest.ResponseRecorder, dest any) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), "testkit: response is not JSON\nbody: %s", rec.Body.String())
	if dest != nil {
		require.NotEmpty(t, env.Data, "testkit: response has no data\nbody: %s", rec.Body.String())
		require.NoError(t, json.Unmarshal(env.Data, dest), "testkit: decode data")
	}
	return env
}
