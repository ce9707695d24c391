package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"traininglog/api/internal/cache"
	"traininglog/api/internal/config"
	"traininglog/api/internal/repository"
	"traininglog/api/internal/security"
	"traininglog/api/internal/service"
)

var testHashParams = security.Argon2Params{Time: 1, Memory: 8 * 1024, Threads: 1, KeyLen: 32, SaltLen: 16}

type memoryObjects struct {
	objects map[string][]byte
}

func (m *memoryObjects) Put(_ context.Context, key string, data []byte, _ string) error {
	m.objects[key] = data
	return nil
}

func (m *memoryObjects) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://objects.test/" + key, nil
}

type testAPI struct {
	engine *gin.Engine
}

func newTestAPI(t *testing.T, objects service.ObjectStore) testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.AppConfig{
		Environment: "test",
		Security:    config.SecurityConfig{JWTSecret: "test-secret", JWTTTL: time.Hour},
		Storage:     config.StorageConfig{PresignTTL: 10 * time.Minute},
	}
	handlerSet := NewHandlerSet(
		zerolog.Nop(),
		cfg,
		repository.NewMemoryBackend(),
		cache.NewTokenDenylist(nil),
		objects,
		service.WithHashParams(testHashParams),
	)

	engine := gin.New()
	handlerSet.Register(engine.Group("/api"))
	return testAPI{engine: engine}
}

func (a testAPI) call(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var payload bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&payload).Encode(body))
	}
	req := httptest.NewRequest(method, path, &payload)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	a.engine.ServeHTTP(rr, req)
	return rr
}

func (a testAPI) login(t *testing.T, email, password string) string {
	t.Helper()
	rr := a.call(t, http.MethodPost, "/api/register", "", gin.H{"email": email, "password": password})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = a.call(t, http.MethodPost, "/api/login", "", gin.H{"email": email, "password": password})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp loginResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, email, resp.Email)
	return resp.AccessToken
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t, nil)

	rr := api.call(t, http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	resp := decode[healthResponse](t, rr)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "ok", resp.Store)
	assert.Equal(t, "disabled", resp.Cache)
}

func TestRegisterAndLogin(t *testing.T) {
	api := newTestAPI(t, nil)

	rr := api.call(t, http.MethodPost, "/api/register", "", gin.H{"email": "a@x.com"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Missing email or password", decode[gin.H](t, rr)["msg"])

	token := api.login(t, "a@x.com", "pw1")

	rr = api.call(t, http.MethodPost, "/api/register", "", gin.H{"email": "a@x.com", "password": "other"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "User already exists", decode[gin.H](t, rr)["msg"])

	for _, creds := range []gin.H{
		{"email": "a@x.com", "password": "wrong"},
		{"email": "nobody@x.com", "password": "pw1"},
	} {
		rr = api.call(t, http.MethodPost, "/api/login", "", creds)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, "Bad credentials", decode[gin.H](t, rr)["msg"])
	}

	for _, body := range []string{"", "not json", `{"email":"a@x.com"}`} {
		req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rr = httptest.NewRecorder()
		api.engine.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code, body)
		assert.Equal(t, "Bad credentials", decode[gin.H](t, rr)["msg"], body)
	}

	rr = api.call(t, http.MethodGet, "/api/protected", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Hello, a@x.com!", decode[gin.H](t, rr)["msg"])
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	api := newTestAPI(t, nil)

	for _, path := range []string{"/api/calendar", "/api/exercises", "/api/session_types", "/api/protected"} {
		rr := api.call(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code, path)

		rr = api.call(t, http.MethodGet, path, "garbage", nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code, path)
	}
}

func TestCalendarFlow(t *testing.T) {
	api := newTestAPI(t, nil)
	token := api.login(t, "a@x.com", "pw1")

	rr := api.call(t, http.MethodPost, "/api/calendar/2024-01-01", token, gin.H{"type": "run", "exercises": []string{"5k"}})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "Session added", decode[gin.H](t, rr)["msg"])

	rr = api.call(t, http.MethodGet, "/api/calendar/2024-01-01", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[{"type":"run","exercises":["5k"],"commentary":""}]`, rr.Body.String())

	rr = api.call(t, http.MethodPost, "/api/calendar/2024-01-01", token, gin.H{"type": "lift", "commentary": "heavy"})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = api.call(t, http.MethodPut, "/api/calendar/2024-01-01/1", token, gin.H{"type": "swim", "exercises": []string{"1k"}})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Session updated", decode[gin.H](t, rr)["msg"])

	rr = api.call(t, http.MethodGet, "/api/calendar", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"2024-01-01":[
		{"type":"run","exercises":["5k"],"commentary":""},
		{"type":"swim","exercises":["1k"],"commentary":""}
	]}`, rr.Body.String())

	for _, idx := range []string{"2", "-1", "abc"} {
		rr = api.call(t, http.MethodDelete, "/api/calendar/2024-01-01/"+idx, token, nil)
		assert.Equal(t, http.StatusNotFound, rr.Code, idx)
		assert.Equal(t, "Session not found", decode[gin.H](t, rr)["msg"])
	}

	rr = api.call(t, http.MethodDelete, "/api/calendar/2024-01-01/0", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Session deleted", decode[gin.H](t, rr)["msg"])

	rr = api.call(t, http.MethodGet, "/api/calendar/2024-01-01", token, nil)
	assert.JSONEq(t, `[{"type":"swim","exercises":["1k"],"commentary":""}]`, rr.Body.String())

	other := api.login(t, "b@x.com", "pw2")
	rr = api.call(t, http.MethodGet, "/api/calendar/2024-01-01", other, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())

	rr = api.call(t, http.MethodDelete, "/api/calendar/2024-01-01/0", other, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestExerciseFlow(t *testing.T) {
	api := newTestAPI(t, nil)
	token := api.login(t, "a@x.com", "pw1")

	rr := api.call(t, http.MethodPost, "/api/exercises", token, gin.H{"name": "Squat"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = api.call(t, http.MethodPost, "/api/exercises", token, gin.H{"name": "Squat", "type": "strength"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	created := decode[map[string]string](t, rr)
	require.NotEmpty(t, created["id"])

	rr = api.call(t, http.MethodPut, "/api/exercises/"+created["id"], token, gin.H{"name": "Front Squat", "type": "strength"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = api.call(t, http.MethodGet, "/api/exercises", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	list := decode[[]map[string]string](t, rr)
	require.Len(t, list, 1)
	assert.Equal(t, created["id"], list[0]["id"])
	assert.Equal(t, "Front Squat", list[0]["name"])
	assert.Equal(t, "strength", list[0]["type"])

	other := api.login(t, "b@x.com", "pw2")
	rr = api.call(t, http.MethodDelete, "/api/exercises/"+created["id"], other, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Exercise not found", decode[gin.H](t, rr)["msg"])

	rr = api.call(t, http.MethodDelete, "/api/exercises/"+created["id"], token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = api.call(t, http.MethodDelete, "/api/exercises/"+created["id"], token, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestSessionTypeFlow(t *testing.T) {
	api := newTestAPI(t, nil)
	token := api.login(t, "a@x.com", "pw1")
	other := api.login(t, "b@x.com", "pw2")

	rr := api.call(t, http.MethodPost, "/api/session_types", token, gin.H{"value": "v", "label": "Easy"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	created := decode[map[string]string](t, rr)

	rr = api.call(t, http.MethodPost, "/api/session_types", token, gin.H{"value": "v", "label": "Again"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = api.call(t, http.MethodPost, "/api/session_types", other, gin.H{"value": "v", "label": "Mine"})
	assert.Equal(t, http.StatusCreated, rr.Code)

	rr = api.call(t, http.MethodPut, "/api/session_types/"+created["id"], token, gin.H{"value": "v", "label": "Recovery"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "Recovery", decode[map[string]string](t, rr)["label"])

	rr = api.call(t, http.MethodGet, "/api/session_types", token, nil)
	list := decode[[]map[string]string](t, rr)
	require.Len(t, list, 1)
	assert.Equal(t, "Recovery", list[0]["label"])

	rr = api.call(t, http.MethodDelete, "/api/session_types/"+created["id"], token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Session type deleted", decode[gin.H](t, rr)["msg"])
}

func TestExport(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		api := newTestAPI(t, nil)
		token := api.login(t, "a@x.com", "pw1")

		rr := api.call(t, http.MethodPost, "/api/export", token, nil)
		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	})

	t.Run("uploads snapshot", func(t *testing.T) {
		objects := &memoryObjects{objects: map[string][]byte{}}
		api := newTestAPI(t, objects)
		token := api.login(t, "a@x.com", "pw1")

		rr := api.call(t, http.MethodPost, "/api/calendar/2024-01-01", token, gin.H{"type": "run"})
		require.Equal(t, http.StatusOK, rr.Code)

		rr = api.call(t, http.MethodPost, "/api/export", token, nil)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		resp := decode[exportResponse](t, rr)
		require.Contains(t, objects.objects, resp.Key)
		assert.Equal(t, "https://objects.test/"+resp.Key, resp.URL)

		var snapshot service.Snapshot
		require.NoError(t, json.Unmarshal(objects.objects[resp.Key], &snapshot))
		assert.Equal(t, "a@x.com", snapshot.Email)
		require.Len(t, snapshot.Calendar["2024-01-01"], 1)
	})
}
