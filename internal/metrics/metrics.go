package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal *prometheus.CounterVec
	votesCastTotal    *prometheus.CounterVec
	registerOnce      sync.Once
)

// Register initializes Prometheus metrics on the default registry.
func Register() {
	registerOnce.Do(func() {
		httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pollshare",
			Name:      "http_requests_total",
			Help:      "Total HTTP requests processed by the pollshare API.",
		}, []string{"method", "path", "status"})

		votesCastTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pollshare",
			Name:      "votes_cast_total",
			Help:      "Total votes recorded, split by anonymous vs authenticated.",
		}, []string{"anonymous"})
	})
}

// IncRequest increments the http_requests_total counter with the given labels.
func IncRequest(method, path string, status int) {
	if httpRequestsTotal == nil {
		return
	}
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
}

// IncVote increments the votes_cast_total counter.
func IncVote(anonymous bool) {
	if votesCastTotal == nil {
		return
	}
	votesCastTotal.WithLabelValues(strconv.FormatBool(anonymous)).Inc()
}
