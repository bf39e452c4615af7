// Package observability agrupa las métricas Prometheus de la aplicación.
package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Resultados posibles de una reconciliación.
const (
	OutcomeOK      = "ok"
	OutcomePartial = "partial"
	OutcomeError   = "error"
)

// Metrics registro propio con métricas HTTP y de inventario.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	reconcileTotal  *prometheus.CounterVec
	stockChanges    *prometheus.CounterVec
	salesSaved      *prometheus.CounterVec
}

// NewMetrics inicializa el registry y las métricas.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "facturador_http_requests_total",
		Help: "Peticiones HTTP por ruta, método y código.",
	}, []string{"route", "method", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "facturador_http_request_duration_seconds",
		Help:    "Duración de peticiones HTTP por ruta.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	reconcile := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "facturador_inventory_reconcile_total",
		Help: "Reconciliaciones de inventario por operación y resultado.",
	}, []string{"operation", "outcome"})
	changes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "facturador_inventory_stock_changes_total",
		Help: "Cambios de stock por productos aplicados, omitidos o fallidos.",
	}, []string{"result"})
	sales := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "facturador_sales_saved_total",
		Help: "Ventas guardadas por operación.",
	}, []string{"operation"})
	registry.MustRegister(requests, duration, reconcile, changes, sales)
	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestsTotal:   requests,
		requestDuration: duration,
		reconcileTotal:  reconcile,
		stockChanges:    changes,
		salesSaved:      sales,
	}
}

// Handler http.Handler para /metrics.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Registry expone el registro para tests y métricas adicionales.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Middleware registra conteo y duración de cada petición fiber.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if m == nil {
			return c.Next()
		}
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		route := routePattern(c)
		m.requestsTotal.WithLabelValues(route, c.Method(), strconv.Itoa(status)).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		return err
	}
}

// ObserveReconcile registra una llamada del reconciliador de inventario.
func (m *Metrics) ObserveReconcile(operation string, applied, skipped, failed int) {
	if m == nil {
		return
	}
	outcome := OutcomeOK
	switch {
	case failed > 0 && applied+skipped > 0:
		outcome = OutcomePartial
	case failed > 0:
		outcome = OutcomeError
	}
	m.reconcileTotal.WithLabelValues(normalizeLabel(operation), outcome).Inc()
	m.stockChanges.WithLabelValues("applied").Add(float64(applied))
	m.stockChanges.WithLabelValues("skipped").Add(float64(skipped))
	m.stockChanges.WithLabelValues("failed").Add(float64(failed))
}

// IncSaleSaved cuenta una venta guardada (create, edit, delete).
func (m *Metrics) IncSaleSaved(operation string) {
	if m == nil {
		return
	}
	m.salesSaved.WithLabelValues(normalizeLabel(operation)).Inc()
}

func routePattern(c *fiber.Ctx) string {
	if r := c.Route(); r != nil && r.Path != "" {
		return r.Path
	}
	return "unknown"
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
