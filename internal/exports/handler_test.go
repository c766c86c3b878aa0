package exports_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-editor/internal/bootstrap"
	"resume-editor/internal/shared/config"
)

type artifactsResponse struct {
	Artifacts []struct {
		Template    string `json:"template"`
		Format      string `json:"format"`
		Key         string `json:"key"`
		SizeBytes   int64  `json:"sizeBytes"`
		ContentType string `json:"contentType"`
	} `json:"artifacts"`
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app, err := bootstrap.Build(config.Config{
		Port:            "0",
		CORSAllowOrigin: []string{"http://localhost:5173"},
		LocalStoreDir:   t.TempDir(),
		Env:             "dev",
		ObjectStoreType: "local",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close(context.Background()) })
	return app.Router
}

func addGuestHeader(req *http.Request, guest string) {
	req.Header.Set("X-Guest-Id", guest)
}

func send(router http.Handler, method, path, guest, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	addGuestHeader(req, guest)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestExportAndDownload(t *testing.T) {
	router := newTestRouter(t)

	resp := send(router, http.MethodPost, "/api/v1/resumes", "owner", `{"title":"Exported"}`)
	require.Equal(t, http.StatusCreated, resp.Code)
	var doc struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &doc))

	resp = send(router, http.MethodPost, "/api/v1/resumes/"+doc.ID+"/exports", "owner",
		`{"templates":["classic","modern"],"formats":["json"]}`)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var out artifactsResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	require.Len(t, out.Artifacts, 2)
	assert.Equal(t, "classic", out.Artifacts[0].Template)
	assert.Equal(t, "modern", out.Artifacts[1].Template)
	assert.Equal(t, "json", out.Artifacts[0].Format)
	assert.Equal(t, "application/json", out.Artifacts[0].ContentType)
	assert.True(t, strings.HasSuffix(out.Artifacts[0].Key, doc.ID+"-classic.json"))
	assert.Positive(t, out.Artifacts[0].SizeBytes)

	download := "/api/v1/exports/download?key=" + url.QueryEscape(out.Artifacts[0].Key)
	resp = send(router, http.MethodGet, download, "owner", "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Header().Get("Content-Disposition"), "classic.json")
	assert.Contains(t, resp.Body.String(), `"templateId"`)

	resp = send(router, http.MethodGet, download, "intruder", "")
	assert.Equal(t, http.StatusForbidden, resp.Code)
}

func TestExportErrors(t *testing.T) {
	router := newTestRouter(t)

	resp := send(router, http.MethodPost, "/api/v1/resumes/missing/exports", "owner", `{"templates":["classic"]}`)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = send(router, http.MethodGet, "/api/v1/exports/download", "owner", "")
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}
