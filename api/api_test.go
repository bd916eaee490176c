package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domino14/guobiao/analyzer"
	"github.com/domino14/guobiao/config"
)

func setupTestRouter(t *testing.T, debug bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r, err := SetupRouter(NewHandler(analyzer.NewAnalyzer(config.DefaultConfig())), debug)
	require.NoError(t, err)
	return r
}

func post(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestFan(t *testing.T) {
	r := setupTestRouter(t, false)
	w := post(r, "/api/v1/fan",
		`{"hand":"123m456m789mCCCEE","flag":"self-drawn","prevalent":"S","seat":"W"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp analyzer.FanResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 29, resp.Total)
	assert.Equal(t, "basic", resp.Form)
}

func TestFanErrors(t *testing.T) {
	r := setupTestRouter(t, false)
	testcases := []struct {
		name string
		body string
		code int
	}{
		{"not json", `{"hand":`, http.StatusBadRequest},
		{"not a win", `{"hand":"1357m2468s13579pE"}`, http.StatusUnprocessableEntity},
		{"too few tiles", `{"hand":"123m"}`, http.StatusBadRequest},
		{"bad wind", `{"hand":"123m456m789mCCCEE","seat":"C"}`, http.StatusBadRequest},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			w := post(r, "/api/v1/fan", tc.body)
			assert.Equal(t, tc.code, w.Code)
			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestShantenDiscardWait(t *testing.T) {
	r := setupTestRouter(t, false)

	w := post(r, "/api/v1/shanten", `{"hand":"123m456m789mCCCE"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var sh analyzer.ShantenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sh))
	assert.Equal(t, 0, sh.Shanten)
	assert.Equal(t, "E", sh.Useful)

	w = post(r, "/api/v1/discard", `{"hand":"123m456m789mCCEE1s"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var ds []analyzer.JsonDiscard
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ds))
	require.NotEmpty(t, ds)
	assert.Equal(t, "1s", ds[0].Discard)

	w = post(r, "/api/v1/wait", `{"hand":"123m456m789mCCCE"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var wr analyzer.WaitResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &wr))
	assert.True(t, wr.Waiting)
}

func TestAnalyze(t *testing.T) {
	r := setupTestRouter(t, false)
	w := post(r, "/api/v1/analyze", string(analyzer.SampleJson))
	require.Equal(t, http.StatusOK, w.Code)
	var resp analyzer.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Fan)
	assert.Equal(t, 29, resp.Fan.Total)

	w = post(r, "/api/v1/analyze", `{"action":"juggle","hand":"11m"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDebugRoutes(t *testing.T) {
	r := setupTestRouter(t, false)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/debug/statsviz/", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	r = setupTestRouter(t, true)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/debug/statsviz/", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, "ok", w.Body.String())
}
