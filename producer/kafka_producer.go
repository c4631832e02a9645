package producer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/boyangli/sitesafety-scorer/config"
	"github.com/boyangli/sitesafety-scorer/models"
	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/cyclopcam/logs"
)

// KafkaProducer publishes score reports to Kafka
type KafkaProducer struct {
	log          logs.Log
	producer     *kafka.Producer
	config       *config.KafkaConfig
	deliveryChan chan kafka.Event

	// Metrics
	messagesSent   atomic.Int64
	messagesAcked  atomic.Int64
	messagesFailed atomic.Int64

	// Thread safety
	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once

	// Retry configuration
	maxRetries  int
	baseBackoff time.Duration
}

// NewKafkaProducer creates a new thread-safe Kafka producer
func NewKafkaProducer(log logs.Log, cfg *config.KafkaConfig) (*KafkaProducer, error) {
	producerConfig := &kafka.ConfigMap{
		"bootstrap.servers": cfg.BootstrapServers,
		"security.protocol": cfg.SecurityProtocol,

		"compression.type":                      cfg.CompressionType,
		"acks":                                  cfg.Acks,
		"max.in.flight.requests.per.connection": cfg.MaxInFlight,
		"linger.ms":                             cfg.LingerMS,
		"batch.size":                            cfg.BatchSize,

		// Idempotence for exactly-once semantics
		"enable.idempotence": true,

		"request.timeout.ms":  30000,
		"delivery.timeout.ms": 120000,
	}
	if cfg.UsesSASL() {
		producerConfig.SetKey("sasl.mechanism", cfg.SASLMechanism)
		producerConfig.SetKey("sasl.username", cfg.SASLUsername)
		producerConfig.SetKey("sasl.password", cfg.SASLPassword)
	}

	p, err := kafka.NewProducer(producerConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create producer: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	kp := &KafkaProducer{
		log:          log,
		producer:     p,
		config:       cfg,
		deliveryChan: make(chan kafka.Event, 10000),
		ctx:          ctx,
		cancel:       cancel,
		maxRetries:   5,
		baseBackoff:  100 * time.Millisecond,
	}

	kp.wg.Add(1)
	go kp.handleDeliveryReports()

	log.Infof("Kafka producer initialized - Topic: %s, Servers: %s", cfg.Topic, cfg.BootstrapServers)
	return kp, nil
}

// handleDeliveryReports counts delivery confirmations until the producer is closed
func (kp *KafkaProducer) handleDeliveryReports() {
	defer kp.wg.Done()

	for {
		select {
		case <-kp.ctx.Done():
			return
		case e := <-kp.deliveryChan:
			if m, ok := e.(*kafka.Message); ok {
				kp.delivered(m)
			}
		}
	}
}

func (kp *KafkaProducer) delivered(m *kafka.Message) {
	if err := m.TopicPartition.Error; err != nil {
		kp.messagesFailed.Add(1)
		kp.log.Errorf("Report %s not delivered: %v", m.Key, err)
		return
	}
	if acked := kp.messagesAcked.Add(1); acked%100 == 0 {
		kp.log.Infof("%d reports delivered (partition %d, offset %v)", acked, m.TopicPartition.Partition, m.TopicPartition.Offset)
	}
}

// message builds the Kafka record for a report. The report id is the key, so retries of
// the same report land on the same partition.
func (kp *KafkaProducer) message(report *models.Report) (*kafka.Message, error) {
	payload, err := report.ToJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize report %s: %w", report.ReportID, err)
	}
	return &kafka.Message{
		TopicPartition: kafka.TopicPartition{
			Topic:     &kp.config.Topic,
			Partition: kafka.PartitionAny,
		},
		Key:   []byte(report.ReportID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "kind", Value: []byte(report.Kind)},
			{Key: "source", Value: []byte(report.Source)},
		},
	}, nil
}

// backoff returns the wait before the given retry attempt (1-based)
func (kp *KafkaProducer) backoff(attempt int) time.Duration {
	return kp.baseBackoff << uint(attempt-1)
}

// SendReport queues one report, retrying retriable errors (usually a full local queue)
// with exponential backoff. Retries stop early when the producer is closed.
func (kp *KafkaProducer) SendReport(report *models.Report) error {
	message, err := kp.message(report)
	if err != nil {
		return err
	}

	var lastErr error
	for attempt := 0; attempt <= kp.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-kp.ctx.Done():
				return fmt.Errorf("producer closed while retrying report %s: %w", report.ReportID, lastErr)
			case <-time.After(kp.backoff(attempt)):
			}
		}

		lastErr = kp.producer.Produce(message, kp.deliveryChan)
		if lastErr == nil {
			kp.messagesSent.Add(1)
			return nil
		}
		var kafkaErr kafka.Error
		if errors.As(lastErr, &kafkaErr) && !kafkaErr.IsRetriable() {
			break
		}
		kp.log.Warnf("Report %s not queued (attempt %d/%d): %v", report.ReportID, attempt+1, kp.maxRetries+1, lastErr)
	}

	kp.messagesFailed.Add(1)
	return fmt.Errorf("report %s: %w", report.ReportID, lastErr)
}

// SendReportBatch publishes a fixed set of reports through the same worker pool as
// StreamFromChannel
func (kp *KafkaProducer) SendReportBatch(reports []*models.Report, workerCount int) error {
	if len(reports) == 0 {
		return nil
	}
	reportChan := make(chan *models.Report, len(reports))
	for _, r := range reports {
		reportChan <- r
	}
	close(reportChan)
	return kp.StreamFromChannel(reportChan, workerCount)
}

// StreamFromChannel publishes reports from reportChan with workerCount goroutines until
// the channel is closed or the producer shuts down
func (kp *KafkaProducer) StreamFromChannel(reportChan <-chan *models.Report, workerCount int) error {
	if workerCount < 1 {
		workerCount = 1
	}
	kp.log.Infof("Publishing reports with %d workers", workerCount)

	var workerWg sync.WaitGroup
	var failed atomic.Int64
	var firstErr error
	var firstOnce sync.Once

	for i := 0; i < workerCount; i++ {
		workerWg.Add(1)
		go func() {
			defer workerWg.Done()
			for {
				select {
				case <-kp.ctx.Done():
					return
				case report, ok := <-reportChan:
					if !ok {
						return
					}
					if err := kp.SendReport(report); err != nil {
						kp.log.Errorf("Failed to publish: %v", err)
						failed.Add(1)
						firstOnce.Do(func() { firstErr = err })
					}
				}
			}
		}()
	}
	workerWg.Wait()

	if n := failed.Load(); n > 0 {
		return fmt.Errorf("%d reports failed (first: %w)", n, firstErr)
	}
	return nil
}

// Flush waits for all pending messages to be delivered
func (kp *KafkaProducer) Flush(timeout time.Duration) {
	kp.log.Infof("Flushing producer (timeout: %v)...", timeout)
	remaining := kp.producer.Flush(int(timeout.Milliseconds()))
	if remaining > 0 {
		kp.log.Warnf("%d messages still in queue after flush timeout", remaining)
	} else {
		kp.log.Infof("All messages flushed successfully")
	}
}

// GetMetrics returns current producer metrics
func (kp *KafkaProducer) GetMetrics() map[string]int64 {
	return map[string]int64{
		"messages_sent":    kp.messagesSent.Load(),
		"messages_acked":   kp.messagesAcked.Load(),
		"messages_failed":  kp.messagesFailed.Load(),
		"messages_pending": kp.messagesSent.Load() - kp.messagesAcked.Load() - kp.messagesFailed.Load(),
	}
}

// LogMetrics prints current metrics
func (kp *KafkaProducer) LogMetrics() {
	metrics := kp.GetMetrics()
	kp.log.Infof("Metrics - Sent: %d | Acked: %d | Failed: %d | Pending: %d",
		metrics["messages_sent"],
		metrics["messages_acked"],
		metrics["messages_failed"],
		metrics["messages_pending"])
}

// Close flushes outstanding reports and shuts the producer down. It is safe to call more than once.
func (kp *KafkaProducer) Close() {
	kp.closeOnce.Do(func() {
		kp.log.Infof("Shutting down Kafka producer...")

		// Flush before cancelling, so that delivery reports are still counted
		kp.Flush(30 * time.Second)
		kp.cancel()
		kp.wg.Wait()
		kp.producer.Close()

		kp.LogMetrics()
		kp.log.Infof("Kafka producer closed")
	})
}
