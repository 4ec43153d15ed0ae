package listener

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/atelierprint/printshop-service/internal/event"
	"github.com/atelierprint/printshop-service/internal/model"
	"github.com/atelierprint/printshop-service/pkg/logger"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type added struct {
	typ      model.NotificationType
	meta     model.NotificationMeta
	fromRole string
	toRole   string
}

type captureStore struct {
	mu     sync.Mutex
	added  []added
	notify chan added
}

func (c *captureStore) Add(_ context.Context, _ string, typ model.NotificationType, meta model.NotificationMeta, fromRole, toRole string) (*model.Notification, error) {
	c.mu.Lock()
	entry := added{typ: typ, meta: meta, fromRole: fromRole, toRole: toRole}
	c.added = append(c.added, entry)
	c.mu.Unlock()
	if c.notify != nil {
		c.notify <- entry
	}
	return &model.Notification{}, nil
}

func (c *captureStore) MarkAsRead(context.Context, string, string) error    { return nil }
func (c *captureStore) MarkAllAsRead(context.Context, string, string) error { return nil }
func (c *captureStore) Delete(context.Context, string, string) error        { return nil }
func (c *captureStore) ClearAll(context.Context, string) error              { return nil }
func (c *captureStore) List(context.Context, string, int) ([]model.Notification, error) {
	return nil, nil
}
func (c *captureStore) UnreadByRole(context.Context, string, string) ([]model.Notification, error) {
	return nil, nil
}
func (c *captureStore) ByType(context.Context, string, model.NotificationType) ([]model.Notification, error) {
	return nil, nil
}
func (c *captureStore) ByOrderID(context.Context, string, string) ([]model.Notification, error) {
	return nil, nil
}

// queueReader feeds canned messages to the listener the way a topic
// subscription would, blocking until a message or cancellation.
type queueReader struct {
	msgs chan kafka.Message
}

func newQueueReader(values ...[]byte) *queueReader {
	r := &queueReader{msgs: make(chan kafka.Message, len(values))}
	for _, v := range values {
		r.msgs <- kafka.Message{Value: v, Time: time.Now()}
	}
	return r
}

func (r *queueReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	select {
	case m := <-r.msgs:
		return m, nil
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	}
}

func orderEventJSON(t *testing.T, eventType string, total float64) []byte {
	t.Helper()
	data, err := json.Marshal(event.OrderEvent{
		EventType: eventType,
		Payload: event.OrderPayload{
			ID:            "o-1",
			ShopID:        "shop-1",
			Number:        "CMD-20260829-0001",
			ClientName:    "Client Test",
			TotalPrice:    total,
			Status:        "pending",
			CreatedByRole: "accueil",
		},
	})
	require.NoError(t, err)
	return data
}

func TestOrderCreated_NotifiesDesignerAndCashier(t *testing.T) {
	store := &captureStore{}
	l := NewNotificationListener(nil, nil, store, logger.NewNop())

	l.processOrderMessage(context.Background(), orderEventJSON(t, event.OrderCreated, 13050))

	require.Len(t, store.added, 2)
	assert.Equal(t, model.NotifNewOrder, store.added[0].typ)
	assert.Equal(t, "graphiste", store.added[0].toRole)
	assert.Equal(t, model.NotifPaymentReady, store.added[1].typ)
	assert.Equal(t, "caisse", store.added[1].toRole)
	assert.Equal(t, 13050.0, store.added[1].meta.Amount)
}

func TestOrderCreated_ZeroTotalSkipsCashier(t *testing.T) {
	store := &captureStore{}
	l := NewNotificationListener(nil, nil, store, logger.NewNop())

	l.processOrderMessage(context.Background(), orderEventJSON(t, event.OrderCreated, 0))

	require.Len(t, store.added, 1)
	assert.Equal(t, model.NotifNewOrder, store.added[0].typ)
	assert.Equal(t, "graphiste", store.added[0].toRole)
}

func TestProductionComplete_NotifiesReception(t *testing.T) {
	store := &captureStore{}
	l := NewNotificationListener(nil, nil, store, logger.NewNop())

	l.processOrderMessage(context.Background(), orderEventJSON(t, event.ProductionComplete, 13050))

	require.Len(t, store.added, 1)
	assert.Equal(t, model.NotifProductionComplete, store.added[0].typ)
	assert.Equal(t, "graphiste", store.added[0].fromRole)
	assert.Equal(t, "accueil", store.added[0].toRole)
}

func TestOrderCompleted_NotifiesAdmin(t *testing.T) {
	store := &captureStore{}
	l := NewNotificationListener(nil, nil, store, logger.NewNop())

	l.processOrderMessage(context.Background(), orderEventJSON(t, event.OrderCompleted, 13050))

	require.Len(t, store.added, 1)
	assert.Equal(t, model.NotifOrderComplete, store.added[0].typ)
	assert.Equal(t, "admin", store.added[0].toRole)
}

func paymentEventJSON(t *testing.T) []byte {
	t.Helper()
	data, err := json.Marshal(event.PaymentEvent{
		EventType: event.PaymentReceived,
		Payload: event.PaymentPayload{
			OrderID:     "o-1",
			ShopID:      "shop-1",
			OrderNumber: "CMD-20260829-0001",
			Amount:      13050,
		},
	})
	require.NoError(t, err)
	return data
}

func TestPaymentReceived_NotifiesReception(t *testing.T) {
	store := &captureStore{}
	l := NewNotificationListener(nil, nil, store, logger.NewNop())

	l.processPaymentMessage(context.Background(), paymentEventJSON(t))

	require.Len(t, store.added, 1)
	assert.Equal(t, model.NotifOrderComplete, store.added[0].typ)
	assert.Equal(t, "caisse", store.added[0].fromRole)
	assert.Equal(t, "accueil", store.added[0].toRole)
}

func TestMalformedMessageIsDropped(t *testing.T) {
	store := &captureStore{}
	l := NewNotificationListener(nil, nil, store, logger.NewNop())

	l.processOrderMessage(context.Background(), []byte("{not json"))
	assert.Empty(t, store.added)
}

// Drives the listener through Start with one reader per topic, the same
// shape main wires: a settlement arriving on the payments reader must reach
// the store.
func TestStart_PaymentTopicReachesStore(t *testing.T) {
	store := &captureStore{notify: make(chan added, 4)}
	orders := newQueueReader()
	payments := newQueueReader(paymentEventJSON(t))

	l := NewNotificationListener(orders, payments, store, logger.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Start(ctx)

	select {
	case got := <-store.notify:
		assert.Equal(t, model.NotifOrderComplete, got.typ)
		assert.Equal(t, "caisse", got.fromRole)
		assert.Equal(t, "accueil", got.toRole)
		assert.Equal(t, 13050.0, got.meta.Amount)
	case <-time.After(2 * time.Second):
		t.Fatal("payment event never consumed from the payments reader")
	}
}

// A settlement that lands on the orders topic is silently dropped: the order
// handler's switch has no case for it. Pinning this down keeps producers
// honest about publishing each event family to its own topic.
func TestStart_PaymentEventOnOrdersTopicIsIgnored(t *testing.T) {
	store := &captureStore{notify: make(chan added, 4)}
	orders := newQueueReader(paymentEventJSON(t))
	payments := newQueueReader()

	l := NewNotificationListener(orders, payments, store, logger.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Start(ctx)

	select {
	case got := <-store.notify:
		t.Fatalf("unexpected notification %q from a misrouted event", got.typ)
	case <-time.After(200 * time.Millisecond):
	}
}
