package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PaymentsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payments_created_total",
		Help: "Total number of checkout preferences created at the gateway",
	})

	PaymentValidationFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_validation_failed_total",
		Help: "Total number of checkout requests rejected before the gateway call",
	}, []string{"reason"})

	GatewayErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_errors_total",
		Help: "Total number of failed calls to the payment gateway",
	}, []string{"operation"})

	WebhooksReceivedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "webhooks_received_total",
		Help: "Total number of gateway notifications received",
	}, []string{"type"})

	OrderStatusTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "order_status_transitions_total",
		Help: "Total number of order status transitions",
	}, []string{"from", "to"})

	CatalogCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_cache_hits_total",
		Help: "Total number of catalog reads served from Redis",
	})

	MailsSentTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mails_sent_total",
		Help: "Total number of confirmation emails sent",
	})

	MailsFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mails_failed_total",
		Help: "Total number of confirmation emails that failed to send",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
