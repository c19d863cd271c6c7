// Package kafka appends dispatch tick records to a Kafka topic. The log
// is forensic: every tick's fleet view and outcome lands as one JSON
// document, replayable when an assignment decision needs explaining.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"refuel/internal/core/ports"
)

// Config defines the connection parameters for the audit producer.
type Config struct {
	Brokers  []string
	Topic    string
	ClientID string
}

// kafkaProducer is the slice of the franz-go client the audit log uses,
// swappable in tests.
type kafkaProducer interface {
	ProduceSync(ctx context.Context, records ...*kgo.Record) kgo.ProduceResults
	Close()
}

var newKafkaClient = func(opts ...kgo.Opt) (kafkaProducer, error) {
	return kgo.NewClient(opts...)
}

// TickAuditLog implements ports.TickAuditLog on a Kafka topic.
type TickAuditLog struct {
	client kafkaProducer
	topic  string
	logger *slog.Logger
}

// NewTickAuditLog builds the producer. The client buffers and retries
// internally; Append surfaces only terminal produce failures.
func NewTickAuditLog(config Config, logger *slog.Logger) (*TickAuditLog, error) {
	if len(config.Brokers) == 0 {
		return nil, errors.New("kafka audit log requires at least one broker")
	}
	if config.Topic == "" {
		return nil, errors.New("kafka audit log requires a topic")
	}

	client, err := newKafkaClient(
		kgo.SeedBrokers(config.Brokers...),
		kgo.DefaultProduceTopic(config.Topic),
		kgo.ProduceRequestTimeout(10*time.Second),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.ClientID(config.ClientID),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka audit log client: %w", err)
	}

	return &TickAuditLog{
		client: client,
		topic:  config.Topic,
		logger: logger.With("component", "kafka_audit_log"),
	}, nil
}

// Append produces one tick record, keyed by tick time so a partition
// replays in tick order.
func (l *TickAuditLog) Append(ctx context.Context, record ports.TickRecord) error {
	value, err := json.Marshal(documentFrom(record))
	if err != nil {
		return err
	}

	produced := &kgo.Record{
		Topic: l.topic,
		Key:   []byte(record.TickedAt.UTC().Format(time.RFC3339Nano)),
		Value: value,
	}
	if err := l.client.ProduceSync(ctx, produced).FirstErr(); err != nil {
		return fmt.Errorf("tick record produce failed: %w", err)
	}

	l.logger.DebugContext(ctx, "tick record appended",
		"orders", len(record.Orders), "couriers", len(record.Couriers))
	return nil
}

// Close flushes buffered records and releases the client.
func (l *TickAuditLog) Close() {
	l.client.Close()
}

// tickDocument is the wire shape of one tick record.
type tickDocument struct {
	TickedAt           time.Time         `json:"ticked_at"`
	SnapshotChanged    bool              `json:"snapshot_changed"`
	AssignmentsApplied int               `json:"assignments_applied"`
	Orders             []orderDocument   `json:"orders"`
	Couriers           []courierDocument `json:"couriers"`
}

type orderDocument struct {
	ID          string               `json:"id"`
	ZoneCode    string               `json:"zone_code"`
	Lat         float64              `json:"lat"`
	Lng         float64              `json:"lng"`
	Octane      int                  `json:"octane"`
	Gallons     int                  `json:"gallons"`
	WindowStart time.Time            `json:"window_start"`
	WindowEnd   time.Time            `json:"window_end"`
	Status      string               `json:"status"`
	StatusTimes map[string]time.Time `json:"status_times"`
	CourierID   string               `json:"courier_id,omitempty"`
}

type courierDocument struct {
	ID           string      `json:"id"`
	Lat          *float64    `json:"lat,omitempty"`
	Lng          *float64    `json:"lng,omitempty"`
	OnDuty       bool        `json:"on_duty"`
	Zones        []string    `json:"zones"`
	TankGallons  map[int]int `json:"tank_gallons"`
	OpenOrderIDs []string    `json:"open_order_ids"`
}

func documentFrom(record ports.TickRecord) tickDocument {
	orders := make([]orderDocument, 0, len(record.Orders))
	for _, info := range record.Orders {
		statusTimes := make(map[string]time.Time, len(info.History))
		for _, event := range info.History {
			statusTimes[event.Status().String()] = event.At()
		}

		document := orderDocument{
			ID:          info.ID.String(),
			ZoneCode:    info.ZoneCode,
			Lat:         info.Position.Lat(),
			Lng:         info.Position.Lng(),
			Octane:      info.Octane,
			Gallons:     info.Gallons,
			WindowStart: info.WindowStart,
			WindowEnd:   info.WindowEnd,
			Status:      info.Status.String(),
			StatusTimes: statusTimes,
		}
		if info.CourierID != nil {
			document.CourierID = info.CourierID.String()
		}
		orders = append(orders, document)
	}

	couriers := make([]courierDocument, 0, len(record.Couriers))
	for _, info := range record.Couriers {
		held := make([]string, 0, len(info.OpenOrderIDs))
		for _, orderID := range info.OpenOrderIDs {
			held = append(held, orderID.String())
		}

		document := courierDocument{
			ID:           info.ID.String(),
			OnDuty:       info.OnDuty,
			Zones:        info.Zones,
			TankGallons:  info.TankGallons,
			OpenOrderIDs: held,
		}
		if info.Position != nil {
			lat, lng := info.Position.Lat(), info.Position.Lng()
			document.Lat, document.Lng = &lat, &lng
		}
		couriers = append(couriers, document)
	}

	return tickDocument{
		TickedAt:           record.TickedAt,
		SnapshotChanged:    record.SnapshotChanged,
		AssignmentsApplied: record.AssignmentsApplied,
		Orders:             orders,
		Couriers:           couriers,
	}
}
