package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/tbourn/cityinfo-api/internal/http/middleware"
	"github.com/tbourn/cityinfo-api/internal/repo"
	"github.com/tbourn/cityinfo-api/internal/services"
	"github.com/tbourn/cityinfo-api/internal/validation"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := validation.RegisterGin(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// ---------- fakes ----------

type recordingNotifier struct {
	mu       sync.Mutex
	subjects []string
}

func (n *recordingNotifier) Send(_ context.Context, subject, _ string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.subjects = append(n.subjects, subject)
	return nil
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.subjects)
}

type memFiles struct {
	mu    sync.Mutex
	saved map[string][]byte
}

func (m *memFiles) Save(_ context.Context, name string, r io.Reader, _ int64, _ string) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved[name] = b
	return nil
}

// ---------- test app ----------

type testApp struct {
	router   *gin.Engine
	notifier *recordingNotifier
	files    *memFiles
	demoPath string
}

// newTestApp wires real services over a freshly seeded memory store. Auth is
// exercised by the router tests; here the POI routes are mounted bare.
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	store := repo.NewMemoryStore(repo.SeedCities())
	repos := services.MemoryRepositories(store)
	notifier := &recordingNotifier{}
	files := &memFiles{saved: map[string][]byte{}}

	demo := filepath.Join(t.TempDir(), "demo.pdf")
	require.NoError(t, os.WriteFile(demo, []byte("%PDF-1.4\n%demo\n"), 0o600))

	h := New(
		services.NewCityService(repos),
		services.NewPointOfInterestService(repos, notifier, 0),
		services.NewFileService(demo, files, 0),
	)

	r := gin.New()
	r.Use(middleware.RequestID())
	mount(r.Group(""), h)
	r.GET("/v1/cities", h.ListCitiesV1)

	return &testApp{router: r, notifier: notifier, files: files, demoPath: demo}
}

func mount(g *gin.RouterGroup, h *Handlers) {
	g.GET("/cities", h.ListCities)
	g.GET("/cities/:cityId", h.GetCity)
	g.GET("/cities/:cityId/pointsofinterest", h.ListPointsOfInterest)
	g.GET("/cities/:cityId/pointsofinterest/:id", h.GetPointOfInterest)
	g.POST("/cities/:cityId/pointsofinterest", h.CreatePointOfInterest)
	g.PUT("/cities/:cityId/pointsofinterest/:id", h.UpdatePointOfInterest)
	g.PATCH("/cities/:cityId/pointsofinterest/:id", h.PatchPointOfInterest)
	g.DELETE("/cities/:cityId/pointsofinterest/:id", h.DeletePointOfInterest)
	g.GET("/files/:fileId", h.GetFile)
	g.POST("/files", h.UploadFile)
}

func (a *testApp) do(method, path string, body []byte, headers ...string) *httptest.ResponseRecorder {
	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), "body: %s", w.Body.String())
	return v
}

func requireError(t *testing.T, w *httptest.ResponseRecorder, status int, code string) ErrorResponse {
	t.Helper()
	require.Equal(t, status, w.Code, "body: %s", w.Body.String())
	resp := decode[ErrorResponse](t, w)
	require.Equal(t, code, resp.Code)
	require.NotEmpty(t, resp.RequestID)
	return resp
}
