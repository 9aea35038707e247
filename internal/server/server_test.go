package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/Skufu/pedtox/internal/platform/db"
	"github.com/Skufu/pedtox/internal/render"
	"github.com/Skufu/pedtox/internal/toxplan"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	goleak.VerifyTestMain(m)
}

type fakeDB struct {
	err error
}

func (f fakeDB) Ping(ctx context.Context) error {
	return f.err
}

func newTestRouter(t *testing.T, hc db.HealthChecker) *gin.Engine {
	t.Helper()
	planner, err := toxplan.NewPlanner(toxplan.DefaultLimits())
	require.NoError(t, err)
	return New(Options{
		Planner: planner,
		DB:      hc,
		Logger:  zerolog.New(io.Discard),
	})
}

func do(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, _ := http.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	router.ServeHTTP(w, req)
	return w
}

func TestRouterHealthz(t *testing.T) {
	w := do(newTestRouter(t, fakeDB{}), "GET", "/healthz", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
	if w.Header().Get(requestIDHeader) == "" {
		t.Fatal("expected a request id header")
	}
}

func TestRouterReadyz(t *testing.T) {
	t.Run("db disabled", func(t *testing.T) {
		w := do(newTestRouter(t, nil), "GET", "/readyz", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"db":"disabled"`)
	})

	t.Run("db healthy", func(t *testing.T) {
		w := do(newTestRouter(t, fakeDB{}), "GET", "/readyz", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"db":"ok"`)
	})

	t.Run("db down", func(t *testing.T) {
		w := do(newTestRouter(t, fakeDB{err: errors.New("connection refused")}), "GET", "/readyz", "")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), "connection refused")
	})
}

func TestRouterRootPlaceholder(t *testing.T) {
	w := do(newTestRouter(t, nil), "GET", "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, render.Placeholder, w.Body.String())
}

func TestRouterServesStaticForm(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<form>pedtox</form>"), 0o644))

	planner, err := toxplan.NewPlanner(toxplan.DefaultLimits())
	require.NoError(t, err)
	router := New(Options{Planner: planner, StaticRoot: dir, Logger: zerolog.New(io.Discard)})

	w := do(router, "GET", "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<form>pedtox</form>")
}

// Ensure limitBodySize middleware allows small payloads and blocks large ones.
func TestLimitBodySize(t *testing.T) {
	router := gin.New()
	router.Use(limitBodySize(10))
	router.POST("/echo", func(c *gin.Context) {
		_, err := c.GetRawData()
		if err != nil {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "too large"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	t.Run("within limit", func(t *testing.T) {
		w := do(router, "POST", "/echo", "12345")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})

	t.Run("over limit", func(t *testing.T) {
		w := do(router, "POST", "/echo", "01234567890")
		if w.Code != http.StatusRequestEntityTooLarge {
			t.Fatalf("expected 413, got %d", w.Code)
		}
	})
}

func TestPlanEndpoint(t *testing.T) {
	router := newTestRouter(t, nil)
	w := do(router, "POST", "/api/plan", `{
		"age": 5,
		"weightKg": 20,
		"elapsedTime": "1 hour",
		"suspectedToxin": "Acetaminophen",
		"symptoms": []
	}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var plan toxplan.Plan
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &plan))
	assert.Equal(t, 5, plan.Patient.Age)

	var got []string
	for _, r := range plan.Recommendations {
		got = append(got, r.Tag)
	}
	assert.Equal(t, []string{"abcd", "charcoal", "acetaminophen", "admit", "caregiver_education"}, got)
	assert.Equal(t, 3000.0, plan.Recommendations[2].Doses[0].Total)
}

func TestPlanEndpointMarkdown(t *testing.T) {
	w := do(newTestRouter(t, nil), "POST", "/api/plan?format=markdown", `{
		"age": 0,
		"weightKg": 3,
		"symptoms": ["Hypoglycemia"]
	}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/markdown"))
	assert.Contains(t, w.Body.String(), "7.5 mL D10W (2.5 mL D10W/kg)")
}

func TestPlanEndpointUnknownFormat(t *testing.T) {
	w := do(newTestRouter(t, nil), "POST", "/api/plan?format=pdf", `{"age": 1, "weightKg": 10}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPlanValidation(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		detail string
	}{
		{"missing weight", `{"age": 5}`, http.StatusUnprocessableEntity, "weight is required"},
		{"zero weight", `{"age": 5, "weightKg": 0}`, http.StatusUnprocessableEntity, "weight must be greater than 0"},
		{"negative weight", `{"age": 5, "weightKg": -2}`, http.StatusUnprocessableEntity, "weight must be greater than 0"},
		{"age above range", `{"age": 19, "weightKg": 40}`, http.StatusUnprocessableEntity, "age must be at most 18"},
		{"weight above limit", `{"age": 10, "weightKg": 150}`, http.StatusUnprocessableEntity, "outside 1-100 kg"},
		{"unknown symptom", `{"age": 10, "weightKg": 30, "symptoms": ["itchy"]}`, http.StatusUnprocessableEntity, "unknown symptom"},
		{"fractional age", `{"age": 5.5, "weightKg": 20}`, http.StatusUnprocessableEntity, "age must be a whole number"},
		{"weight as text", `{"age": 5, "weightKg": "heavy"}`, http.StatusUnprocessableEntity, "weight must be a number"},
		{"symptoms not a list", `{"age": 5, "weightKg": 20, "symptoms": "seizures"}`, http.StatusUnprocessableEntity, "symptoms must be a list"},
		{"malformed json", `{"age": `, http.StatusBadRequest, "invalid payload"},
	}
	router := newTestRouter(t, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(router, "POST", "/api/plan", tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			body := strings.ToLower(w.Body.String())
			assert.Contains(t, body, strings.ToLower(tt.detail))
			if tt.status == http.StatusUnprocessableEntity {
				assert.Contains(t, body, "validation_failed")
			}
		})
	}
}

func TestCatalogEndpoints(t *testing.T) {
	router := newTestRouter(t, nil)

	w := do(router, "GET", "/api/symptoms", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"tag":"corrosive_ingestion"`)

	w = do(router, "GET", "/api/antidotes", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"agent":"Fomepizole"`)
}

func TestRecoveryMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(requestID(), recovery(zerolog.New(io.Discard)))
	router.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := do(router, "GET", "/boom", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal server error")
}

func TestRequestIDIsPropagated(t *testing.T) {
	const rid = "3f2b8e4c-8a5e-4f57-9a2c-1d7c0e6b9a10"
	router := newTestRouter(t, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/healthz", nil)
	req.Header.Set(requestIDHeader, rid)
	router.ServeHTTP(w, req)

	assert.Equal(t, rid, w.Header().Get(requestIDHeader))
}
