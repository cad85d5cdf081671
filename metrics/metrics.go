// Package metrics exposes Prometheus counters for the auction worker.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// StageTransitions counts every accepted stage transition, labelled by
	// the kind of stage the auction moved into.
	StageTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "auction_worker",
		Name:      "stage_transitions_total",
		Help:      "Number of stage transitions performed by the engine.",
	}, []string{"kind"})

	// StoreRetries counts retried document-store calls, labelled by
	// operation (get/save) and failure classification.
	StoreRetries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "auction_worker",
		Name:      "store_retries_total",
		Help:      "Number of retried document store calls.",
	}, []string{"operation", "failure"})

	// AuditUploads counts audit-trail export attempts, labelled by path
	// (document_service/attachment) and outcome.
	AuditUploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "auction_worker",
		Name:      "audit_uploads_total",
		Help:      "Number of audit trail upload attempts.",
	}, []string{"path", "outcome"})
)
