// Package config defines staffer configuration and its loading.
package config

import (
	"fmt"
	"regexp"
	"runtime"
	"slices"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Delivery modes for the downstream gateways.
const (
	DeliveryLog   = "log"
	DeliveryKafka = "kafka"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat is text or json.
	LogFormat string `koanf:"log_format"`

	// SnapshotPath points at the YAML batch input.
	SnapshotPath string `koanf:"snapshot_path"`

	// Screening thresholds.
	MinContractLengthMonths int    `koanf:"min_contract_length_months"`
	MinPositions            int    `koanf:"min_positions"`
	MinAnnualAmountPerRole  string `koanf:"min_annual_amount_per_role"`

	// OutboxSize bounds each gateway outbox.
	OutboxSize int `koanf:"outbox_size"`
	// DispatcherCount sets the dispatchers per outbox.
	DispatcherCount int `koanf:"dispatcher_count"`

	// Delivery selects log or kafka gateways.
	Delivery             string `koanf:"delivery"`
	KafkaBrokers         string `koanf:"kafka_brokers"`
	KafkaClientID        string `koanf:"kafka_client_id"`
	KafkaContractsTopic  string `koanf:"kafka_contracts_topic"`
	KafkaRecruitingTopic string `koanf:"kafka_recruiting_topic"`

	// MetricsTextfile, when set, receives the metrics at the end of a run.
	MetricsTextfile string `koanf:"metrics_textfile"`
	MetricsEnabled  bool   `koanf:"metrics_enabled"`
	// MetricsNamespace and MetricsPrefix shape metric names:
	// <namespace>_batch_<prefix>_<metric>.
	MetricsNamespace string `koanf:"metrics_namespace"`
	MetricsPrefix    string `koanf:"metrics_prefix"`
	// MetricsLabels are constant labels as comma separated key=value pairs.
	MetricsLabels string `koanf:"metrics_labels"`
	// MetricsLatencyBuckets are comma separated millisecond bucket bounds.
	MetricsLatencyBuckets string `koanf:"metrics_latency_buckets_ms"`
}

var metricNameRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:                "info",
		LogFormat:               "text",
		SnapshotPath:            "snapshot.yaml",
		MinContractLengthMonths: 6,
		MinPositions:            3,
		MinAnnualAmountPerRole:  "15000",
		OutboxSize:              1024,
		DispatcherCount:         runtime.NumCPU(),
		Delivery:                DeliveryLog,
		KafkaBrokers:            "localhost:9092",
		KafkaClientID:           "staffer",
		KafkaContractsTopic:     "staffing.contracts",
		KafkaRecruitingTopic:    "staffing.recruiting",
		MetricsEnabled:          true,
		MetricsNamespace:        "staffing",
	}
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	if !slices.Contains([]string{"debug", "info", "warn", "warning", "error"}, strings.ToLower(c.LogLevel)) {
		return fmt.Errorf("%w: log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("%w: log_format must be text or json, got %q", ErrInvalidConfig, c.LogFormat)
	}
	if c.MinContractLengthMonths < 0 {
		return fmt.Errorf("%w: min_contract_length_months must not be negative", ErrInvalidConfig)
	}
	if c.MinPositions < 1 {
		return fmt.Errorf("%w: min_positions must be positive", ErrInvalidConfig)
	}
	amount, err := decimal.NewFromString(c.MinAnnualAmountPerRole)
	if err != nil {
		return fmt.Errorf("%w: min_annual_amount_per_role: %w", ErrInvalidConfig, err)
	}
	if amount.IsNegative() {
		return fmt.Errorf("%w: min_annual_amount_per_role must not be negative", ErrInvalidConfig)
	}
	if c.OutboxSize < 1 {
		return fmt.Errorf("%w: outbox_size must be positive", ErrInvalidConfig)
	}
	if c.DispatcherCount < 1 {
		return fmt.Errorf("%w: dispatcher_count must be positive", ErrInvalidConfig)
	}
	switch c.Delivery {
	case DeliveryLog:
	case DeliveryKafka:
		if len(c.Brokers()) == 0 {
			return fmt.Errorf("%w: kafka delivery needs kafka_brokers", ErrInvalidConfig)
		}
		if c.KafkaContractsTopic == "" || c.KafkaRecruitingTopic == "" {
			return fmt.Errorf("%w: kafka delivery needs both topics", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: delivery must be %s or %s, got %q", ErrInvalidConfig, DeliveryLog, DeliveryKafka, c.Delivery)
	}
	return c.validateMetrics()
}

func (c *Config) validateMetrics() error {
	if c.MetricsNamespace != "" && !metricNameRe.MatchString(c.MetricsNamespace) {
		return fmt.Errorf("%w: metrics_namespace %q", ErrInvalidConfig, c.MetricsNamespace)
	}
	if c.MetricsPrefix != "" && !metricNameRe.MatchString(c.MetricsPrefix) {
		return fmt.Errorf("%w: metrics_prefix %q", ErrInvalidConfig, c.MetricsPrefix)
	}
	if _, err := c.MetricLabels(); err != nil {
		return err
	}
	if _, err := c.LatencyBuckets(); err != nil {
		return err
	}
	return nil
}

// MetricLabels parses MetricsLabels into a label map. An empty setting
// yields nil.
func (c *Config) MetricLabels() (map[string]string, error) {
	if strings.TrimSpace(c.MetricsLabels) == "" {
		return nil, nil
	}
	labels := make(map[string]string)
	for _, pair := range strings.Split(c.MetricsLabels, ",") {
		if pair = strings.TrimSpace(pair); pair == "" {
			continue
		}
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || !metricNameRe.MatchString(key) || strings.HasPrefix(key, "__") {
			return nil, fmt.Errorf("%w: metrics_labels entry %q", ErrInvalidConfig, pair)
		}
		if _, dup := labels[key]; dup {
			return nil, fmt.Errorf("%w: metrics_labels repeats %q", ErrInvalidConfig, key)
		}
		labels[key] = strings.TrimSpace(value)
	}
	return labels, nil
}

// LatencyBuckets parses MetricsLatencyBuckets. Bounds must be positive and
// strictly increasing. An empty setting yields nil.
func (c *Config) LatencyBuckets() ([]float64, error) {
	if strings.TrimSpace(c.MetricsLatencyBuckets) == "" {
		return nil, nil
	}
	var buckets []float64
	for _, raw := range strings.Split(c.MetricsLatencyBuckets, ",") {
		if raw = strings.TrimSpace(raw); raw == "" {
			continue
		}
		b, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: metrics_latency_buckets_ms: %w", ErrInvalidConfig, err)
		}
		if b <= 0 || (len(buckets) > 0 && b <= buckets[len(buckets)-1]) {
			return nil, fmt.Errorf("%w: metrics_latency_buckets_ms must be positive and increasing", ErrInvalidConfig)
		}
		buckets = append(buckets, b)
	}
	return buckets, nil
}

// Brokers splits KafkaBrokers on commas, dropping blanks.
func (c *Config) Brokers() []string {
	var out []string
	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

// MinAnnualAmount returns the screening floor. It is zero when the value
// does not parse; Validate reports that case.
func (c *Config) MinAnnualAmount() decimal.Decimal {
	d, err := decimal.NewFromString(c.MinAnnualAmountPerRole)
	if err != nil {
		return decimal.Zero
	}
	return d
}
