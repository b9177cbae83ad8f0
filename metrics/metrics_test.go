package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/food/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	before := testutil.ToFloat64(RequestTotal.WithLabelValues(http.MethodGet, "/food/:id", "200"))
	for _, id := range []string{"1", "2", "3"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/food/"+id, nil))
	}
	after := testutil.ToFloat64(RequestTotal.WithLabelValues(http.MethodGet, "/food/:id", "200"))
	assert.Equal(t, 3.0, after-before)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	assert.GreaterOrEqual(t, testutil.ToFloat64(RequestTotal.WithLabelValues(http.MethodGet, "unmatched", "404")), 1.0)
}

func TestHandlerExposesRegistry(t *testing.T) {
	DeliveriesCompleted.Inc()

	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "dinedash_riders_deliveries_completed_total")
	assert.Contains(t, w.Body.String(), "go_goroutines")
}
