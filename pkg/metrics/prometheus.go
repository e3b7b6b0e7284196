package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Label values shared with callers.
const (
	PartitionCleared   = "cleared"
	PartitionUncleared = "uncleared"

	GatewayAccountManager = "account_manager"
	GatewayRecruiting     = "recruiting"

	DeliveryOK     = "ok"
	DeliveryFailed = "failed"
)

// Manager manages all Prometheus metrics for the staffing batch.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Screening
	prospectsReceived prometheus.Counter
	prospectsRejected *prometheus.CounterVec
	prospectsRanked   prometheus.Gauge

	// Allocation
	contractsEmitted   prometheus.Counter
	positionsRequested prometheus.Counter
	positionsFilled    prometheus.Counter
	prospectsUnstaffed *prometheus.CounterVec
	partialStaffing    prometheus.Counter
	recruitingHandoffs prometheus.Counter
	gatewayErrors      *prometheus.CounterVec
	poolAvailable      *prometheus.GaugeVec
	allocationPasses   prometheus.Histogram

	// Batch
	runDuration prometheus.Histogram
	runsTotal   *prometheus.CounterVec

	// Outbox delivery
	outboxDepth     *prometheus.GaugeVec
	outboxEnqueued  *prometheus.CounterVec
	outboxDropped   *prometheus.CounterVec
	deliveries      *prometheus.CounterVec
	deliveryLatency *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// Configure rebuilds the global manager with opts on a fresh registry,
// dropping anything recorded so far. Call it before recording starts.
func Configure(opts ...Option) {
	registry := prometheus.NewRegistry()
	all := make([]Option, 0, len(opts)+1)
	all = append(all, opts...)
	all = append(all, WithPrometheusRegistry(registry))
	globalManager = NewManager(all...)
	customRegistry = registry
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "staffing",
		subsystem:        "batch",
		histogramBuckets: DefaultLatencyBuckets,
		enabled:          true,
		customLabels:     make(map[string]string),
		metricPrefix:     "",
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) name(n string) string {
	if m.metricPrefix == "" {
		return n
	}
	return m.metricPrefix + "_" + n
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)
	constLabels := prometheus.Labels(m.customLabels)

	m.prospectsReceived = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: constLabels,
		Name: m.name("prospects_received_total"),
		Help: "Total number of prospects handed to screening",
	})

	m.prospectsRejected = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: constLabels,
		Name: m.name("prospects_rejected_total"),
		Help: "Prospects rejected by screening, by failed rule (a prospect may fail several)",
	}, []string{"reason"})

	m.prospectsRanked = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: constLabels,
		Name: m.name("prospects_ranked"),
		Help: "Number of prospects that passed screening in the last run",
	})

	m.contractsEmitted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: constLabels,
		Name: m.name("contracts_emitted_total"),
		Help: "Contracts assembled and sent to the account manager",
	})

	m.positionsRequested = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: constLabels,
		Name: m.name("positions_requested_total"),
		Help: "Positions requested by ranked prospects",
	})

	m.positionsFilled = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: constLabels,
		Name: m.name("positions_filled_total"),
		Help: "Positions filled with pool employees",
	})

	m.prospectsUnstaffed = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: constLabels,
		Name: m.name("prospects_unstaffed_total"),
		Help: "Ranked prospects that produced no contract, by reason",
	}, []string{"reason"})

	m.partialStaffing = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: constLabels,
		Name: m.name("partial_staffing_total"),
		Help: "Contracts emitted with fewer positions than requested",
	})

	m.recruitingHandoffs = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: constLabels,
		Name: m.name("recruiting_handoffs_total"),
		Help: "Prospects forwarded to recruiting",
	})

	m.gatewayErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: constLabels,
		Name: m.name("gateway_errors_total"),
		Help: "Errors returned by downstream gateways",
	}, []string{"gateway"})

	m.poolAvailable = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: constLabels,
		Name: m.name("pool_available_employees"),
		Help: "Employees still available in each clearance partition",
	}, []string{"partition"})

	m.allocationPasses = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: constLabels,
		Name:    m.name("allocation_passes"),
		Help:    "Greedy scan passes needed per allocation attempt",
		Buckets: []float64{1, 2, 3, 5, 8},
	})

	m.runDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: constLabels,
		Name:    m.name("run_duration_milliseconds"),
		Help:    "Wall time of a full batch run in milliseconds",
		Buckets: m.histogramBuckets,
	})

	m.runsTotal = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: constLabels,
		Name: m.name("runs_total"),
		Help: "Batch runs by result",
	}, []string{"result"})

	m.outboxDepth = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: constLabels,
		Name: m.name("outbox_depth"),
		Help: "Messages waiting in an outbox",
	}, []string{"outbox"})

	m.outboxEnqueued = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: constLabels,
		Name: m.name("outbox_enqueued_total"),
		Help: "Messages accepted by an outbox",
	}, []string{"outbox"})

	m.outboxDropped = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: constLabels,
		Name: m.name("outbox_dropped_total"),
		Help: "Messages rejected by an outbox, by reason",
	}, []string{"outbox", "reason"})

	m.deliveries = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: constLabels,
		Name: m.name("deliveries_total"),
		Help: "Messages handed to a downstream deliverer, by gateway and status",
	}, []string{"gateway", "status"})

	m.deliveryLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: constLabels,
		Name:    m.name("delivery_latency_milliseconds"),
		Help:    "Downstream delivery latency in milliseconds",
		Buckets: m.histogramBuckets,
	}, []string{"gateway"})
}

// RecordProspectReceived increments the received prospects counter.
func RecordProspectReceived() {
	if !globalManager.enabled {
		return
	}
	globalManager.prospectsReceived.Inc()
}

// RecordProspectRejected counts a failed screening rule.
func RecordProspectRejected(reason string) {
	if !globalManager.enabled {
		return
	}
	globalManager.prospectsRejected.WithLabelValues(reason).Inc()
}

// UpdateProspectsRanked sets the ranked prospects gauge.
func UpdateProspectsRanked(count int) {
	globalManager.prospectsRanked.Set(float64(count))
}

// RecordContractEmitted counts an emitted contract and its staffing.
func RecordContractEmitted(requested, filled int) {
	if !globalManager.enabled {
		return
	}
	globalManager.contractsEmitted.Inc()
	if filled < requested {
		globalManager.partialStaffing.Inc()
	}
}

// RecordPositions adds requested and filled positions for one prospect.
func RecordPositions(requested, filled int) {
	if !globalManager.enabled {
		return
	}
	globalManager.positionsRequested.Add(float64(requested))
	globalManager.positionsFilled.Add(float64(filled))
}

// RecordProspectUnstaffed counts a prospect that produced no contract.
func RecordProspectUnstaffed(reason string) {
	if !globalManager.enabled {
		return
	}
	globalManager.prospectsUnstaffed.WithLabelValues(reason).Inc()
}

// RecordRecruitingHandoff increments the recruiting hand-off counter.
func RecordRecruitingHandoff() {
	if !globalManager.enabled {
		return
	}
	globalManager.recruitingHandoffs.Inc()
}

// RecordGatewayError counts a gateway failure.
func RecordGatewayError(gateway string) {
	if !globalManager.enabled {
		return
	}
	globalManager.gatewayErrors.WithLabelValues(gateway).Inc()
}

// UpdatePoolAvailable sets the available employees for a partition.
func UpdatePoolAvailable(partition string, count int) {
	globalManager.poolAvailable.WithLabelValues(partition).Set(float64(count))
}

// RecordAllocationPasses observes the passes used by one allocation attempt.
func RecordAllocationPasses(passes int) {
	if !globalManager.enabled {
		return
	}
	globalManager.allocationPasses.Observe(float64(passes))
}

// RecordRun observes a finished batch run.
func RecordRun(duration time.Duration, err error) {
	if !globalManager.enabled {
		return
	}
	globalManager.runDuration.Observe(float64(duration.Milliseconds()))
	result := "ok"
	if err != nil {
		result = "error"
	}
	globalManager.runsTotal.WithLabelValues(result).Inc()
}

// UpdateOutboxDepth sets the pending messages of an outbox.
func UpdateOutboxDepth(outbox string, depth int) {
	globalManager.outboxDepth.WithLabelValues(outbox).Set(float64(depth))
}

// RecordOutboxEnqueued counts an accepted outbox message.
func RecordOutboxEnqueued(outbox string) {
	if !globalManager.enabled {
		return
	}
	globalManager.outboxEnqueued.WithLabelValues(outbox).Inc()
}

// RecordOutboxDropped counts a rejected outbox message.
func RecordOutboxDropped(outbox, reason string) {
	if !globalManager.enabled {
		return
	}
	globalManager.outboxDropped.WithLabelValues(outbox, reason).Inc()
}

// RecordDelivery counts a downstream delivery attempt and its latency.
func RecordDelivery(gateway, status string, latency time.Duration) {
	if !globalManager.enabled {
		return
	}
	globalManager.deliveries.WithLabelValues(gateway, status).Inc()
	globalManager.deliveryLatency.WithLabelValues(gateway).Observe(float64(latency.Milliseconds()))
}

// SetEnabled toggles recording on the global manager.
func SetEnabled(enabled bool) {
	globalManager.enabled = enabled
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// WriteTextfile writes the registry in text exposition format to path,
// suitable for the node exporter textfile collector.
func WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, customRegistry); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteTextfile, err)
	}
	return nil
}
