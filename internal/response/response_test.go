package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	r := New()
	require.Equal(t, http.StatusOK, r.StatusCode())
	require.Equal(t, map[string]any{}, r.Payload())
	require.Empty(t, r.Message())
}

func TestFailClearsPayload(t *testing.T) {
	r := New()
	r.SetPayload([]int{1, 2})
	r.SetTemplate("post/list")
	r.SetRedirect("/post")
	r.Fail(http.StatusForbidden, "nope")

	require.Equal(t, http.StatusForbidden, r.StatusCode())
	require.Equal(t, "nope", r.Message())
	require.Equal(t, map[string]any{}, r.Payload())
	require.Equal(t, "error", r.Template())
	require.Empty(t, r.Redirect())
	require.Empty(t, r.Header().Get("Location"))
}

func TestRedirectIsLocationHeader(t *testing.T) {
	r := New()
	r.SetRedirect("/post/3")
	require.Equal(t, "/post/3", r.Header().Get("Location"))

	w := httptest.NewRecorder()
	r.CopyHeader(w)
	require.Equal(t, "/post/3", w.Header().Get("Location"))
}

func TestWriteJSON(t *testing.T) {
	r := New()
	r.SetMessage("Homepage!")
	r.Header().Set("X-Trace", "1")

	w := httptest.NewRecorder()
	require.NoError(t, r.WriteJSON(w))

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "application/json", w.Header().Get("Content-Type"))
	require.Equal(t, "1", w.Header().Get("X-Trace"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, float64(200), body["statusCode"])
	require.Equal(t, "Homepage!", body["message"])
	require.Equal(t, map[string]any{}, body["payload"])
}
