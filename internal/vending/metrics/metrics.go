package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/OmarShamkh/vending-machine-api/internal/vending/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "vending"

// Recorder owns the service's collectors. Each Recorder registers on its own
// registry so several can live in one process.
type Recorder struct {
	registry *prometheus.Registry

	deposits        *prometheus.CounterVec
	purchases       prometheus.Counter
	itemsSold       prometheus.Counter
	coinsDispensed  *prometheus.CounterVec
	conflicts       *prometheus.CounterVec
	rejections      *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		deposits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deposits_total",
			Help:      "Accepted coin deposits by denomination.",
		}, []string{"coin"}),
		purchases: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "purchases_total",
			Help:      "Committed purchases.",
		}),
		itemsSold: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_sold_total",
			Help:      "Product units sold across all purchases.",
		}),
		coinsDispensed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "change_coins_dispensed_total",
			Help:      "Coins returned as change by denomination.",
		}, []string{"coin"}),
		conflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "version_conflicts_total",
			Help:      "Writes rejected because the record changed since it was read.",
		}, []string{"operation"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rejections_total",
			Help:      "Operations rejected by a business rule.",
		}, []string{"operation", "kind"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Histogram of response latency (seconds) for HTTP requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "code"}),
	}

	r.registry.MustRegister(
		r.deposits,
		r.purchases,
		r.itemsSold,
		r.coinsDispensed,
		r.conflicts,
		r.rejections,
		r.requestDuration,
	)

	return r
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

func (r *Recorder) ObserveDeposit(coin int64) {
	r.deposits.WithLabelValues(strconv.FormatInt(coin, 10)).Inc()
}

func (r *Recorder) ObservePurchase(quantity int, change domain.ChangeBreakdown) {
	r.purchases.Inc()
	r.itemsSold.Add(float64(quantity))

	for coin, count := range change {
		r.coinsDispensed.WithLabelValues(strconv.FormatInt(coin, 10)).Add(float64(count))
	}
}

// ObserveFailure counts err against operation when it is a conflict or a
// business rejection. Other errors are left to request metrics.
func (r *Recorder) ObserveFailure(operation string, err error) {
	if domain.IsVersionConflict(err) {
		r.conflicts.WithLabelValues(operation).Inc()
		return
	}

	if kind, ok := RejectionKind(err); ok {
		r.rejections.WithLabelValues(operation, kind).Inc()
	}
}

// Middleware times every request by its route template.
func (r *Recorder) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		r.requestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

// RejectionKind names the business rule behind err.
func RejectionKind(err error) (string, bool) {
	switch {
	case errors.Is(err, &domain.InvalidCoinError{}):
		return "invalid_coin", true
	case errors.Is(err, &domain.InvalidAmountError{}):
		return "invalid_amount", true
	case errors.Is(err, &domain.InvalidArgumentsError{}):
		return "invalid_arguments", true
	case errors.Is(err, &domain.InsufficientStockError{}):
		return "insufficient_stock", true
	case errors.Is(err, &domain.InsufficientFundsError{}):
		return "insufficient_funds", true
	case errors.Is(err, &domain.ForbiddenError{}):
		return "forbidden", true
	case domain.IsNotFound(err):
		return "not_found", true
	case errors.Is(err, &domain.ProductInUseError{}):
		return "product_in_use", true
	case errors.Is(err, &domain.UserExistsError{}):
		return "user_exists", true
	case errors.Is(err, &domain.CredentialsMismatchError{}):
		return "credentials_mismatch", true
	default:
		return "", false
	}
}
