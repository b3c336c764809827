package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "zkwallet"
)

// Operation labels
const (
	OpTransfer       = "transfer"
	OpTransferEIP712 = "transfer_eip712"
	OpDeploy         = "deploy"
)

var (
	// Signing metrics
	TransactionsSigned = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transactions_signed_total",
		Help:      "Total number of transactions signed",
	}, []string{"operation"})

	TransactionsSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transactions_submitted_total",
		Help:      "Total number of transactions accepted by the node",
	}, []string{"operation"})

	PipelineFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pipeline_failures_total",
		Help:      "Total number of aborted sign or submit pipelines",
	}, []string{"operation", "stage"})

	// Provider metrics
	FeeEstimateDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "fee_estimate_duration_seconds",
		Help:      "Time spent waiting for fee estimates",
		Buckets:   prometheus.DefBuckets,
	})

	ReceiptWaitDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "receipt_wait_duration_seconds",
		Help:      "Time spent waiting for transaction receipts",
		Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
	})
)
