package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/canopy/pkg/manager"
	"github.com/aretw0/canopy/pkg/tree"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	tr, err := tree.Build([]string{"World", "Asia", "Africa", "China", "India", "SouthAfrica", "Egypt"}, 2)
	require.NoError(t, err)
	return NewHandler(manager.New(tr))
}

func postOp(t *testing.T, handler http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req, _ := http.NewRequest("POST", path, strings.NewReader(body))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestHealthz(t *testing.T) {
	handler := newTestHandler(t)

	req, _ := http.NewRequest("GET", "/healthz", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestLockEndpoint(t *testing.T) {
	handler := newTestHandler(t)

	rr := postOp(t, handler, "/v1/lock", `{"node": "China", "owner": 9}`)
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp operationResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.OK)

	// A conflicting lock on the ancestor is still HTTP 200, just denied.
	rr = postOp(t, handler, "/v1/lock", `{"node": "Asia", "owner": 7}`)
	assert.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.False(t, resp.OK)
}

func TestUnlockAndUpgradeEndpoints(t *testing.T) {
	handler := newTestHandler(t)

	var resp operationResponse

	rr := postOp(t, handler, "/v1/lock", `{"node": "China", "owner": 9}`)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.True(t, resp.OK)

	rr = postOp(t, handler, "/v1/unlock", `{"node": "China", "owner": 1}`)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.False(t, resp.OK, "wrong owner")

	rr = postOp(t, handler, "/v1/upgrade", `{"node": "Asia", "owner": 9}`)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
}

func TestOperation_BadRequest(t *testing.T) {
	handler := newTestHandler(t)

	rr := postOp(t, handler, "/v1/lock", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = postOp(t, handler, "/v1/lock", `{"owner": 9}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code, "missing node name")
}

func TestGetNode(t *testing.T) {
	handler := newTestHandler(t)

	postOp(t, handler, "/v1/lock", `{"node": "Asia", "owner": 3}`)

	req, _ := http.NewRequest("GET", "/v1/nodes/Asia", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var info manager.NodeInfo
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &info))
	assert.True(t, info.Locked)
	assert.EqualValues(t, 3, info.Owner)

	req, _ = http.NewRequest("GET", "/v1/nodes/Atlantis", nil)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestListNodes(t *testing.T) {
	handler := newTestHandler(t)

	req, _ := http.NewRequest("GET", "/v1/nodes", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var infos []manager.NodeInfo
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &infos))
	require.Len(t, infos, 7)
	assert.Equal(t, "World", infos[0].Name)
}
