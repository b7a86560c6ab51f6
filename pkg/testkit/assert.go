package testkit

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertStatus checks the response code and prints the body on mismatch.
func AssertStatus(t testing.TB, want int, rec *httptest.ResponseRecorder) bool {
	t.Helper()
	return assert.Equal(t, want, rec.Code, "HTTP status mismatch\nbody: %s", rec.Body.String())
}

// AssertJSONData compares the envelope's data with expected after
// normalising both through JSON, so key order and whitespace never matter.
func AssertJSONData(t testing.TB, expected string, rec *httptest.ResponseRecorder) {
	t.Helper()
	env := Decode(t, rec, nil)

	var want, got any
	require.NoError(t, json.Unmarshal([]byte(expected), &want), "expected value is not valid JSON")
	require.NoError(t, json.Unmarshal(env.Data, &got), "data is not valid JSON")
	assert.Equal(t, want, got, "response data mismatch")
}
