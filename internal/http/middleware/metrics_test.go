package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/leettrack-backend/internal/observability"
)

func TestMetricsRecordsRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := observability.New()
	r := gin.New()
	r.Use(Metrics(m))
	r.GET("/user/:userId/stats", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, user := range []string{"alice", "bob"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/user/"+user+"/stats", nil))
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	if got := m.APIRequests("GET", "/user/:userId/stats", "200"); got != 2 {
		t.Fatalf("stats requests=%v, want 2", got)
	}
	if got := m.APIRequests("GET", "unknown", "404"); got != 1 {
		t.Fatalf("unknown requests=%v, want 1", got)
	}
}

func TestMetricsNilIsPassThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Metrics(nil))
	r.GET("/healthcheck", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200", rec.Code)
	}
}
