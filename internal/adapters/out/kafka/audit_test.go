package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"refuel/internal/core/domain/model/kernel"
	"refuel/internal/core/domain/model/order"
	"refuel/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"
)

type fakeProducer struct {
	produced []*kgo.Record
	err      error
	closed   bool
}

func (f *fakeProducer) ProduceSync(_ context.Context, records ...*kgo.Record) kgo.ProduceResults {
	f.produced = append(f.produced, records...)
	results := make(kgo.ProduceResults, 0, len(records))
	for _, record := range records {
		results = append(results, kgo.ProduceResult{Record: record, Err: f.err})
	}
	return results
}

func (f *fakeProducer) Close() { f.closed = true }

func stubKafkaClient(t *testing.T, fake *fakeProducer) {
	t.Helper()
	original := newKafkaClient
	newKafkaClient = func(_ ...kgo.Opt) (kafkaProducer, error) { return fake, nil }
	t.Cleanup(func() { newKafkaClient = original })
}

func newTestAuditLog(t *testing.T, fake *fakeProducer) *TickAuditLog {
	t.Helper()
	stubKafkaClient(t, fake)
	log, err := NewTickAuditLog(
		Config{Brokers: []string{"localhost:9092"}, Topic: "dispatch.ticks", ClientID: "refuel"},
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return log
}

func TestNewTickAuditLog_RequiresBrokersAndTopic(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, err := NewTickAuditLog(Config{Topic: "dispatch.ticks"}, logger)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one broker")

	_, err = NewTickAuditLog(Config{Brokers: []string{"localhost:9092"}}, logger)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires a topic")
}

func TestAppend_ProducesTickDocument(t *testing.T) {
	fake := &fakeProducer{}
	auditLog := newTestAuditLog(t, fake)

	tickedAt := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	position, err := kernel.NewGeoPoint(37.7749, -122.4194)
	require.NoError(t, err)
	courierPosition, err := kernel.NewGeoPoint(37.7810, -122.4110)
	require.NoError(t, err)

	unassignedAt, err := order.NewStatusEvent(order.Unassigned, tickedAt.Add(-10*time.Minute))
	require.NoError(t, err)
	assignedAt, err := order.NewStatusEvent(order.Assigned, tickedAt.Add(-5*time.Minute))
	require.NoError(t, err)

	orderID := kernel.NewUUID()
	courierID := kernel.NewUUID()
	freshID := kernel.NewUUID()

	record := ports.TickRecord{
		TickedAt:           tickedAt,
		SnapshotChanged:    true,
		AssignmentsApplied: 1,
		Orders: []ports.OrderInfo{{
			ID:          orderID,
			ZoneCode:    "94103",
			Position:    position,
			Octane:      87,
			Gallons:     10,
			WindowStart: tickedAt,
			WindowEnd:   tickedAt.Add(3 * time.Hour),
			Status:      order.Assigned,
			History:     []order.StatusEvent{unassignedAt, assignedAt},
			CourierID:   &courierID,
		}},
		Couriers: []ports.CourierInfo{
			{
				ID:           courierID,
				Position:     &courierPosition,
				OnDuty:       true,
				Zones:        []string{"94103"},
				TankGallons:  map[int]int{87: 150, 91: 60},
				OpenOrderIDs: []kernel.UUID{orderID},
			},
			// Registered but never heartbeated: no position to report.
			{ID: freshID, OnDuty: false, Zones: []string{"94110"}},
		},
	}

	require.NoError(t, auditLog.Append(t.Context(), record))

	require.Len(t, fake.produced, 1)
	produced := fake.produced[0]
	assert.Equal(t, "dispatch.ticks", produced.Topic)
	assert.Equal(t, tickedAt.Format(time.RFC3339Nano), string(produced.Key))

	var document tickDocument
	require.NoError(t, json.Unmarshal(produced.Value, &document))

	assert.True(t, document.TickedAt.Equal(tickedAt))
	assert.True(t, document.SnapshotChanged)
	assert.Equal(t, 1, document.AssignmentsApplied)

	require.Len(t, document.Orders, 1)
	gotOrder := document.Orders[0]
	assert.Equal(t, orderID.String(), gotOrder.ID)
	assert.Equal(t, "94103", gotOrder.ZoneCode)
	assert.InDelta(t, 37.7749, gotOrder.Lat, 1e-9)
	assert.InDelta(t, -122.4194, gotOrder.Lng, 1e-9)
	assert.Equal(t, 87, gotOrder.Octane)
	assert.Equal(t, 10, gotOrder.Gallons)
	assert.Equal(t, order.Assigned.String(), gotOrder.Status)
	assert.Equal(t, courierID.String(), gotOrder.CourierID)
	require.Len(t, gotOrder.StatusTimes, 2)
	assert.True(t, gotOrder.StatusTimes[order.Assigned.String()].Equal(tickedAt.Add(-5*time.Minute)))

	require.Len(t, document.Couriers, 2)
	gotCourier := document.Couriers[0]
	assert.Equal(t, courierID.String(), gotCourier.ID)
	require.NotNil(t, gotCourier.Lat)
	assert.InDelta(t, 37.7810, *gotCourier.Lat, 1e-9)
	assert.True(t, gotCourier.OnDuty)
	assert.Equal(t, map[int]int{87: 150, 91: 60}, gotCourier.TankGallons)
	assert.Equal(t, []string{orderID.String()}, gotCourier.OpenOrderIDs)

	fresh := document.Couriers[1]
	assert.Equal(t, freshID.String(), fresh.ID)
	assert.Nil(t, fresh.Lat)
	assert.Nil(t, fresh.Lng)
}

func TestAppend_ProduceFailure(t *testing.T) {
	fake := &fakeProducer{err: errors.New("broker unreachable")}
	auditLog := newTestAuditLog(t, fake)

	err := auditLog.Append(t.Context(), ports.TickRecord{TickedAt: time.Now()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tick record produce failed")
}

func TestClose_ReleasesClient(t *testing.T) {
	fake := &fakeProducer{}
	auditLog := newTestAuditLog(t, fake)

	auditLog.Close()
	assert.True(t, fake.closed)
}
