package controllers

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edemey4711/MID/database"
	"github.com/edemey4711/MID/exifdata"
	"github.com/edemey4711/MID/models"
	"github.com/edemey4711/MID/services"
)

type testEnv struct {
	router  *gin.Engine
	token   string
	uploads string
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	require.NoError(t, database.Connect(filepath.Join(dir, "test.db")))

	uploads := filepath.Join(dir, "uploads")
	store, err := services.NewLocalStore(uploads)
	require.NoError(t, err)
	services.Store = store

	require.NoError(t, EnsureAdmin("admin", "secret123"))

	r := gin.New()
	api := r.Group("/api")
	api.POST("/login", Login)
	api.GET("/images", ListImages)
	api.GET("/images/:id", GetImage)
	editors := api.Group("", RequireRole(models.RoleAdmin, models.RoleUploader))
	editors.POST("/images", UploadImage)
	editors.PUT("/images/:id", UpdateImage)
	editors.DELETE("/images/:id", DeleteImage)
	api.POST("/users", RequireRole(models.RoleAdmin), CreateUser)

	env := &testEnv{router: r, uploads: uploads}
	env.token = loginAs(t, r, "admin", "secret123")
	return env
}

func loginAs(t *testing.T, r *gin.Engine, username, password string) string {
	t.Helper()
	body, _ := json.Marshal(gin.H{"username": username, "password": password})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func multipartUpload(t *testing.T, fields map[string]string, filename string, file []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if filename != "" {
		fw, err := mw.CreateFormFile("image", filename)
		require.NoError(t, err)
		_, err = fw.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func (e *testEnv) do(t *testing.T, method, path string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Authorization", "Bearer "+e.token)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 640, 480))))
	return buf.Bytes()
}

func filesIn(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestUploadRequiresAuth(t *testing.T) {
	env := setupEnv(t)

	body, ct := multipartUpload(t, map[string]string{"name": "Wartburg", "category": "Burg"}, "a.png", testPNG(t))
	req := httptest.NewRequest(http.MethodPost, "/api/images", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUploadRejectsInvalidCategory(t *testing.T) {
	env := setupEnv(t)

	body, ct := multipartUpload(t, map[string]string{"name": "Schloss", "category": "Schloss"}, "a.png", testPNG(t))
	w := env.do(t, http.MethodPost, "/api/images", body, ct)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, filesIn(t, filepath.Join(env.uploads, services.PrefixOriginals)), "rejected upload must not write files")
}

func TestUploadRejectsMissingName(t *testing.T) {
	env := setupEnv(t)

	body, ct := multipartUpload(t, map[string]string{"name": "  ", "category": "Burg"}, "a.png", testPNG(t))
	w := env.do(t, http.MethodPost, "/api/images", body, ct)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadRejectsDisallowedExtension(t *testing.T) {
	env := setupEnv(t)

	body, ct := multipartUpload(t, map[string]string{"name": "x", "category": "Fels"}, "malware.exe", []byte("MZ"))
	w := env.do(t, http.MethodPost, "/api/images", body, ct)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, filesIn(t, filepath.Join(env.uploads, services.PrefixOriginals)))
}

func TestUploadPNGFallsBackToDefaultCoordinates(t *testing.T) {
	env := setupEnv(t)

	body, ct := multipartUpload(t, map[string]string{
		"name":        "Teufelsmauer",
		"description": "Sandstein",
		"category":    "Fels",
	}, "teufelsmauer.png", testPNG(t))
	w := env.do(t, http.MethodPost, "/api/images", body, ct)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Image models.Image `json:"image"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.InDelta(t, 51.1657, resp.Image.Latitude, 1e-9)
	assert.InDelta(t, 10.4515, resp.Image.Longitude, 1e-9)
	assert.Nil(t, resp.Image.CaptureDate)
	assert.Nil(t, resp.Image.CaptureTime)
	require.NotNil(t, resp.Image.Thumbnail)

	// original and thumbnail actually landed on disk
	_, err := os.Stat(filepath.Join(env.uploads, services.PrefixOriginals, resp.Image.Filename))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(env.uploads, services.PrefixThumbnails, *resp.Image.Thumbnail))
	assert.NoError(t, err)
}

func TestThumbnailOrientationSkipsTranscodedUploads(t *testing.T) {
	// a transcoded container is stored upright while its carried-over EXIF
	// still says Orientation=6; rotating again would turn the thumbnail
	// sideways
	md := exifdata.Metadata{"Orientation": int64(6)}

	assert.Equal(t, 6, thumbnailOrientation(md, false))
	assert.Equal(t, 1, thumbnailOrientation(md, true))
	assert.Equal(t, 1, thumbnailOrientation(exifdata.Metadata{}, false))
}

func TestUploadCorruptImageStillPersistsWithDefaults(t *testing.T) {
	// a png-extension file with junk bytes passes the container normalizer
	// unchanged; metadata and thumbnail both degrade without failing the upload
	env := setupEnv(t)

	body, ct := multipartUpload(t, map[string]string{"name": "kaputt", "category": "Kirche"}, "broken.png", []byte("junk"))
	w := env.do(t, http.MethodPost, "/api/images", body, ct)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Image models.Image `json:"image"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Nil(t, resp.Image.Thumbnail)
	assert.InDelta(t, 51.1657, resp.Image.Latitude, 1e-9)
}
