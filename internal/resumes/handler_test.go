package resumes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-editor/internal/bootstrap"
	"resume-editor/internal/shared/config"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		Port:            "0",
		CORSAllowOrigin: []string{"http://localhost:5173"},
		LocalStoreDir:   t.TempDir(),
		Env:             "dev",
		ObjectStoreType: "local",
	}
	app, err := bootstrap.Build(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close(context.Background()) })
	return app.Router
}

func addGuestHeader(req *http.Request) {
	req.Header.Set("X-Guest-Id", "test-guest")
}

func send(router http.Handler, method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	addGuestHeader(req)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func createResume(t *testing.T, router http.Handler, body string) map[string]any {
	t.Helper()
	resp := send(router, http.MethodPost, "/api/v1/resumes", []byte(body))
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	var doc map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &doc))
	return doc
}

func TestResumesRequireIdentity(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/resumes", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestCreateListGetResume(t *testing.T) {
	router := newTestRouter(t)

	doc := createResume(t, router, `{"title":"Backend roles"}`)
	id, _ := doc["id"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, "Backend roles", doc["title"])

	resp := send(router, http.MethodGet, "/api/v1/resumes", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0]["id"])

	resp = send(router, http.MethodGet, "/api/v1/resumes/"+id, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var got map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
	assert.Equal(t, "Backend roles", got["title"])
	assert.Contains(t, got, "sectionsOrder")
}

func TestCreateResumeRejectsUnknownMode(t *testing.T) {
	router := newTestRouter(t)

	resp := send(router, http.MethodPost, "/api/v1/resumes", []byte(`{"mode":"clone"}`))
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = send(router, http.MethodPost, "/api/v1/resumes", []byte(`{"mode":"job"}`))
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestUpdateResumeValidation(t *testing.T) {
	router := newTestRouter(t)
	doc := createResume(t, router, `{}`)
	id := doc["id"].(string)

	resp := send(router, http.MethodPut, "/api/v1/resumes/"+id, []byte(`{"title":5}`))
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	doc["id"] = "someone-else"
	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	resp = send(router, http.MethodPut, "/api/v1/resumes/"+id, raw)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestRenameAndDeleteResume(t *testing.T) {
	router := newTestRouter(t)
	id := createResume(t, router, `{}`)["id"].(string)

	resp := send(router, http.MethodPatch, "/api/v1/resumes/"+id+"/title", []byte(`{"title":"Staff engineer"}`))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"title":"Staff engineer"`)

	resp = send(router, http.MethodDelete, "/api/v1/resumes/"+id, nil)
	assert.Equal(t, http.StatusNoContent, resp.Code)

	resp = send(router, http.MethodGet, "/api/v1/resumes/"+id, nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Contains(t, resp.Body.String(), `"code":"not_found"`)
}

func TestRenderResume(t *testing.T) {
	router := newTestRouter(t)
	id := createResume(t, router, `{"title":"Render me"}`)["id"].(string)

	resp := send(router, http.MethodGet, "/api/v1/resumes/"+id+"/render/classic?format=html", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.True(t, strings.HasPrefix(resp.Header().Get("Content-Type"), "text/html"))

	resp = send(router, http.MethodGet, "/api/v1/resumes/"+id+"/render/classic", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"templateId":"classic"`)

	resp = send(router, http.MethodGet, "/api/v1/resumes/"+id+"/render/unknown", nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Contains(t, resp.Body.String(), "template_not_found")

	resp = send(router, http.MethodGet, "/api/v1/resumes/"+id+"/render/classic?format=pdf", nil)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestListTemplates(t *testing.T) {
	router := newTestRouter(t)

	resp := send(router, http.MethodGet, "/api/v1/templates", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var templates []map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &templates))
	assert.Len(t, templates, 7)
	assert.Equal(t, "classic", templates[0]["id"])
}
