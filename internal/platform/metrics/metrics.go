// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package metrics defines the Prometheus collectors for the YaMDb API.
//
// All collectors are registered on the default registry through promauto and
// exposed by [Handler] on GET /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "yamdb"

// # HTTP

// HTTPRequestsTotal counts finished requests.
// Labels: method, route (chi route pattern), status.
var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests served.",
	},
	[]string{"method", "route", "status"},
)

// HTTPRequestDuration measures request latency.
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Latency of HTTP requests.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route"},
)

// # Identity

// SignupsTotal counts confirmation codes issued by signup.
var SignupsTotal = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "signups_total",
	Help:      "Total number of confirmation codes issued.",
})

// TokensIssuedTotal counts token exchanges.
// Label result: "ok" or "rejected".
var TokensIssuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_issued_total",
		Help:      "Total number of confirmation code exchanges, by result.",
	},
	[]string{"result"},
)

// # Content

// ReviewsCreatedTotal counts persisted reviews.
var ReviewsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "reviews_created_total",
	Help:      "Total number of reviews created.",
})

// CommentsCreatedTotal counts persisted comments.
var CommentsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "comments_created_total",
	Help:      "Total number of comments created.",
})

// # Authorization

// AuthzDeniedTotal counts authorization denials.
// Labels: policy name, stage ("collection" or "object").
var AuthzDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authz_denied_total",
		Help:      "Total number of requests denied by the authorization engine.",
	},
	[]string{"policy", "stage"},
)

// Handler returns the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
