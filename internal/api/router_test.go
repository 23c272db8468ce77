package api

import (
	"bytes"
	"geo-photo-game/internal/adapters/distance"
	"geo-photo-game/internal/adapters/images"
	"geo-photo-game/internal/adapters/repositories"
	"geo-photo-game/internal/api/session"
	"geo-photo-game/internal/domain"
	"geo-photo-game/internal/services"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	handler   http.Handler
	store     *repositories.MemoryStore
	uploadDir string
	cookies   []*http.Cookie
}

func newTestServer(t *testing.T, adminGate bool, pairs ...distance.MockPair) *testServer {
	t.Helper()

	store := repositories.NewMemoryStore()
	uploadDir := t.TempDir()
	imgs, err := images.NewDiskImageStorage(uploadDir)
	require.NoError(t, err)
	sessions, err := session.NewManager([]byte("test-secret"), time.Hour, false)
	require.NoError(t, err)

	h := NewRouter(Deps{
		Auth:      &services.AuthService{Users: store},
		Uploads:   &services.UploadService{Docs: store, Images: imgs},
		Locations: &services.LocationService{Docs: store, Images: imgs},
		Areas:     &services.AreaService{Docs: store},
		Scores:    &services.ScoreService{Scores: store},
		Game: &services.GameService{
			Docs:      store,
			Distance:  distance.NewMockDistanceProvider(pairs),
			MaxRounds: 5,
		},
		Docs:                   store,
		Sessions:               sessions,
		UploadDir:              uploadDir,
		MaxUploadBytes:         1 << 20,
		RequireSessionForAdmin: adminGate,
	})

	return &testServer{handler: h, store: store, uploadDir: uploadDir}
}

func (s *testServer) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	for _, c := range s.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	if set := rec.Result().Cookies(); len(set) > 0 {
		s.cookies = nil
		for _, c := range set {
			if c.MaxAge >= 0 && c.Value != "" {
				s.cookies = append(s.cookies, c)
			}
		}
	}
	return rec
}

func (s *testServer) json(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	return s.do(t, req)
}

func (s *testServer) login(t *testing.T) {
	t.Helper()
	rec := s.json(t, http.MethodPost, "/login", `{"email":"admin@uni.pl","password":"123456"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func uploadRequest(t *testing.T, filename, content string, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if filename != "" {
		fw, err := mw.CreateFormFile("photo", filename)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestLoginCheckLogout(t *testing.T) {
	s := newTestServer(t, false)

	rec := s.json(t, http.MethodGet, "/check-login", "")
	assert.JSONEq(t, `{"logged_in":false}`, rec.Body.String())

	rec = s.json(t, http.MethodPost, "/login", `{"email":"admin@uni.pl","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, decode[map[string]any](t, rec)["success"].(bool))

	s.login(t)
	rec = s.json(t, http.MethodGet, "/check-login", "")
	assert.JSONEq(t, `{"logged_in":true}`, rec.Body.String())

	rec = s.json(t, http.MethodPost, "/logout", "")
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
	assert.Empty(t, s.cookies)

	rec = s.json(t, http.MethodGet, "/check-login", "")
	assert.JSONEq(t, `{"logged_in":false}`, rec.Body.String())
}

func TestUploadRequiresSession(t *testing.T) {
	s := newTestServer(t, false)

	rec := s.do(t, uploadRequest(t, "a.jpg", "x", map[string]string{"lat": "1", "lng": "2"}))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"access denied"}`, rec.Body.String())
}

func TestUploadNeverOverwrites(t *testing.T) {
	s := newTestServer(t, false)
	s.login(t)

	fields := map[string]string{"lat": "52.1", "lng": "21.2"}
	first := s.do(t, uploadRequest(t, "../My Photo.jpg", "one", fields))
	require.Equal(t, http.StatusOK, first.Code, first.Body.String())
	second := s.do(t, uploadRequest(t, "My Photo.jpg", "two", fields))
	require.Equal(t, http.StatusOK, second.Code, second.Body.String())

	a := decode[map[string]any](t, first)["filename"].(string)
	b := decode[map[string]any](t, second)["filename"].(string)
	assert.Equal(t, "My_Photo.jpg", a)
	assert.Equal(t, "My_Photo_1.jpg", b)

	got, err := os.ReadFile(filepath.Join(s.uploadDir, a))
	require.NoError(t, err)
	assert.Equal(t, "one", string(got))
	got, err = os.ReadFile(filepath.Join(s.uploadDir, b))
	require.NoError(t, err)
	assert.Equal(t, "two", string(got))

	rec := s.json(t, http.MethodGet, "/locations", "")
	assert.JSONEq(t, `[
		{"lat":52.1,"lng":21.2,"image":"images/My_Photo.jpg"},
		{"lat":52.1,"lng":21.2,"image":"images/My_Photo_1.jpg"}
	]`, rec.Body.String())

	img := s.json(t, http.MethodGet, "/images/My_Photo_1.jpg", "")
	assert.Equal(t, http.StatusOK, img.Code)
	assert.Equal(t, "two", img.Body.String())
}

func TestUploadValidation(t *testing.T) {
	s := newTestServer(t, false)
	s.login(t)

	rec := s.do(t, uploadRequest(t, "", "", map[string]string{"lat": "1", "lng": "2"}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"missing photo file"}`, rec.Body.String())

	rec = s.do(t, uploadRequest(t, "a.jpg", "x", map[string]string{"lat": "1"}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"missing coordinates"}`, rec.Body.String())

	rec = s.do(t, uploadRequest(t, "a.jpg", "x", map[string]string{"lat": "north", "lng": "2"}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	entries, err := os.ReadDir(s.uploadDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLocationUpdateAndDelete(t *testing.T) {
	s := newTestServer(t, false)
	s.login(t)
	require.Equal(t, http.StatusOK, s.do(t, uploadRequest(t, "a.jpg", "x", map[string]string{"lat": "1", "lng": "2"})).Code)

	rec := s.json(t, http.MethodPut, "/locations/0", `{"lat":"10.5","lng":20}`)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	rec = s.json(t, http.MethodPut, "/locations/0", `{"lat":"abc","lng":20}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.json(t, http.MethodPut, "/locations/3", `{"lat":1,"lng":2}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"invalid index"}`, rec.Body.String())

	rec = s.json(t, http.MethodGet, "/locations", "")
	assert.JSONEq(t, `[{"lat":10.5,"lng":20,"image":"images/a.jpg"}]`, rec.Body.String())

	rec = s.json(t, http.MethodDelete, "/locations/abc", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.json(t, http.MethodDelete, "/locations/0", "")
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
	_, err := os.Stat(filepath.Join(s.uploadDir, "a.jpg"))
	assert.True(t, os.IsNotExist(err))

	rec = s.json(t, http.MethodGet, "/locations", "")
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestAreasCreateListRename(t *testing.T) {
	s := newTestServer(t, false)

	rec := s.json(t, http.MethodPost, "/areas", `{"area":[[1,2],[3,4],[5,6]]}`)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	rec = s.json(t, http.MethodGet, "/areas", "")
	assert.JSONEq(t, `[{"coords":[[1,2],[3,4],[5,6]],"name":"Territory 1"}]`, rec.Body.String())

	rec = s.json(t, http.MethodPost, "/areas", `{"area":[[1,2],[3,4]],"name":"Too small"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"invalid territory"}`, rec.Body.String())

	rec = s.json(t, http.MethodPost, "/areas", `{"name":"No coords"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.json(t, http.MethodPost, "/areas", `{"area":[[1,2],[3,4],[5]],"name":"Short pair"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"invalid territory"}`, rec.Body.String())

	rec = s.json(t, http.MethodPut, "/areas/0", `{"name":"  "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.json(t, http.MethodPut, "/areas/0", `{"name":"Park"}`)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	rec = s.json(t, http.MethodPut, "/areas/1", `{"name":"Park"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.json(t, http.MethodGet, "/areas", "")
	assert.JSONEq(t, `[{"coords":[[1,2],[3,4],[5,6]],"name":"Park"}]`, rec.Body.String())

	rec = s.json(t, http.MethodDelete, "/areas/0", "")
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
	rec = s.json(t, http.MethodDelete, "/areas/0", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLegacyAreasAreNamedOnRead(t *testing.T) {
	s := newTestServer(t, false)

	var doc domain.Document
	require.NoError(t, json.Unmarshal([]byte(`{
		"areas": [[[0,0],[0,1],[1,1]], {"coords":[[5,5],[5,6],[6,6]],"name":"Named"}],
		"locations": []
	}`), &doc))
	require.NoError(t, s.store.SaveDocument(t.Context(), &doc))

	rec := s.json(t, http.MethodGet, "/areas", "")
	assert.JSONEq(t, `[
		{"coords":[[0,0],[0,1],[1,1]],"name":"Territory 1"},
		{"coords":[[5,5],[5,6],[6,6]],"name":"Named"}
	]`, rec.Body.String())

	// The stored document keeps the bare list until the entry is renamed.
	rec = s.json(t, http.MethodGet, "/gra/locations.json", "")
	assert.JSONEq(t, `{
		"areas": [[[0,0],[0,1],[1,1]], {"coords":[[5,5],[5,6],[6,6]],"name":"Named"}],
		"locations": []
	}`, rec.Body.String())
}

func TestScoresUpsert(t *testing.T) {
	s := newTestServer(t, false)

	rec := s.json(t, http.MethodPost, "/scores", `{"name":"ala","score":100}`)
	assert.JSONEq(t, `{"success":true,"place":1}`, rec.Body.String())
	rec = s.json(t, http.MethodPost, "/scores", `{"name":"ola","score":"300"}`)
	assert.JSONEq(t, `{"success":true,"place":1}`, rec.Body.String())
	rec = s.json(t, http.MethodPost, "/scores", `{"name":"ala","score":50}`)
	assert.JSONEq(t, `{"success":true,"place":2}`, rec.Body.String())

	rec = s.json(t, http.MethodGet, "/scores", "")
	assert.JSONEq(t, `[{"name":"ola","score":300},{"name":"ala","score":100}]`, rec.Body.String())

	rec = s.json(t, http.MethodPost, "/scores", `{"name":"","score":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"missing data"}`, rec.Body.String())

	rec = s.json(t, http.MethodPost, "/scores", `{"name":"   ","score":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"missing data"}`, rec.Body.String())

	rec = s.json(t, http.MethodPost, "/scores", `{"name":"  ela  ","score":20}`)
	assert.JSONEq(t, `{"success":true,"place":3}`, rec.Body.String())

	rec = s.json(t, http.MethodPost, "/scores", `{"name":"ela"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.json(t, http.MethodPost, "/scores", `{"name":"ela","score":"dużo"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"invalid format"}`, rec.Body.String())
}

func TestAdminGate(t *testing.T) {
	s := newTestServer(t, true)

	rec := s.json(t, http.MethodPost, "/areas", `{"area":[[1,2],[3,4],[5,6]]}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.json(t, http.MethodGet, "/areas", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	s.login(t)
	rec = s.json(t, http.MethodPost, "/areas", `{"area":[[1,2],[3,4],[5,6]]}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGameGuess(t *testing.T) {
	actual := domain.Coordinates{Lat: 1, Lng: 2}
	guess := domain.Coordinates{Lat: 1.001, Lng: 2}
	s := newTestServer(t, false, distance.MockPair{From: guess, To: actual, Meters: 111.2})
	s.login(t)
	require.Equal(t, http.StatusOK, s.do(t, uploadRequest(t, "a.jpg", "x", map[string]string{"lat": "1", "lng": "2"})).Code)

	rec := s.json(t, http.MethodGet, "/game/rounds?limit=3", "")
	assert.JSONEq(t, `[{"index":0,"lat":1,"lng":2,"image":"images/a.jpg"}]`, rec.Body.String())

	rec = s.json(t, http.MethodGet, "/game/rounds?order=tour", "")
	assert.JSONEq(t, `[{"index":0,"lat":1,"lng":2,"image":"images/a.jpg"}]`, rec.Body.String())

	rec = s.json(t, http.MethodPost, "/game/guess", `{"location":0,"lat":1.001,"lng":"2"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decode[map[string]any](t, rec)
	assert.Equal(t, true, res["success"])
	assert.InDelta(t, 111.2, res["distance_m"], 1e-9)
	assert.EqualValues(t, 389, res["points"])
	assert.Nil(t, res["territory"])

	rec = s.json(t, http.MethodPost, "/game/guess", `{"location":4,"lat":1,"lng":2}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.json(t, http.MethodPost, "/game/guess", `{"lat":1,"lng":2}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Once territories exist, guesses outside all of them are rejected.
	require.Equal(t, http.StatusOK, s.json(t, http.MethodPost, "/areas", `{"area":[[10,10],[10,11],[11,11]]}`).Code)
	rec = s.json(t, http.MethodPost, "/game/guess", `{"location":0,"lat":1.001,"lng":2}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"point is outside every territory"}`, rec.Body.String())
}

func TestCORS(t *testing.T) {
	s := newTestServer(t, false)

	req := httptest.NewRequest(http.MethodOptions, "/areas", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	rec := s.do(t, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	assert.Equal(t, "GET,POST,OPTIONS,PUT,DELETE", rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type,Authorization", rec.Header().Get("Access-Control-Allow-Headers"))
	assert.Len(t, rec.Header().Values("Access-Control-Allow-Methods"), 1)

	req = httptest.NewRequest(http.MethodOptions, "/locations/0", nil)
	rec = s.do(t, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET,POST,OPTIONS,PUT,DELETE", rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type,Authorization", rec.Header().Get("Access-Control-Allow-Headers"))

	req = httptest.NewRequest(http.MethodGet, "/scores", nil)
	req.Header.Set("Origin", "http://game.example")
	rec = s.do(t, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://game.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET,POST,OPTIONS,PUT,DELETE", rec.Header().Get("Access-Control-Allow-Methods"))
}

func TestHealthAndImagesNotFound(t *testing.T) {
	s := newTestServer(t, false)

	rec := s.json(t, http.MethodGet, "/health", "")
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = s.json(t, http.MethodGet, "/images/missing.jpg", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
