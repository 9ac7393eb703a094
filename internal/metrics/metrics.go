package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	PostsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "posts_created_total",
			Help: "Total posts created",
		},
		[]string{"category"},
	)

	LoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logins_total",
			Help: "Total login attempts",
		},
		[]string{"outcome"}, // success|failure
	)

	RegistrationsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "registrations_total",
			Help: "Total successful registrations",
		},
	)
)

// Handler serves the /metrics endpoint.
var Handler = promhttp.Handler

func Init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(PostsCreated)
	prometheus.MustRegister(LoginsTotal)
	prometheus.MustRegister(RegistrationsTotal)
}
