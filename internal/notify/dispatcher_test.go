package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/settleup/internal/metrics"
	"github.com/mmynk/settleup/internal/models"
)

type memoryStore struct {
	mu            sync.Mutex
	notifications map[string]*models.Notification
	users         map[string]*models.User
	seq           int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		notifications: map[string]*models.Notification{},
		users: map[string]*models.User{
			"u1": {ID: "u1", DisplayName: "Sam"},
		},
	}
}

func (s *memoryStore) CreateNotification(_ context.Context, n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	n.ID = fmt.Sprintf("n%d", s.seq)
	copied := *n
	s.notifications[n.ID] = &copied
	return nil
}

func (s *memoryStore) UpdateNotificationStatus(_ context.Context, id string, status models.NotificationStatus, errMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notifications[id]
	if !ok {
		return models.ErrNotFound
	}
	n.Status = status
	n.Error = errMsg
	return nil
}

func (s *memoryStore) GetUserByID(_ context.Context, id string) (*models.User, error) {
	return s.users[id], nil
}

func (s *memoryStore) all() []*models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Notification
	for _, n := range s.notifications {
		out = append(out, n)
	}
	return out
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []Message
	err  error
	// block, when set, holds every Send until closed.
	block chan struct{}
}

func (m *fakeMailer) Send(_ context.Context, msg Message) error {
	if m.block != nil {
		<-m.block
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func contact(id, email string) *models.Contact {
	return &models.Contact{ID: id, Name: "Alex", Email: email}
}

func tx(id, contactID string, payer models.Payer, amount string) *models.Transaction {
	return &models.Transaction{ID: id, ContactID: contactID, Payer: payer, Amount: decimal.RequireFromString(amount)}
}

func TestDispatcherSendsTransaction(t *testing.T) {
	store := newMemoryStore()
	mailer := &fakeMailer{}
	m := metrics.NewWithRegistry(prometheus.NewRegistry())
	d := NewDispatcher(store, mailer, Config{Workers: 2, QueueSize: 8}, m, nil)

	d.NotifyTransaction("u1", contact("c1", "alex@example.com"), tx("t1", "c1", models.PayerUser, "12.5"), decimal.RequireFromString("12.5"))
	d.NotifyTransaction("u1", contact("c2", ""), tx("t2", "c2", models.PayerUser, "1"), decimal.RequireFromString("1"))
	d.Close()

	require.Len(t, mailer.sent, 1)
	msg := mailer.sent[0]
	assert.Equal(t, "alex@example.com", msg.To)
	assert.Contains(t, msg.Subject, "Sam")
	assert.Contains(t, msg.Body, "Sam recorded that they covered 12.50 for you.")
	assert.Contains(t, msg.Body, "You now owe Sam 12.50.")

	records := store.all()
	require.Len(t, records, 1)
	assert.Equal(t, models.NotificationSent, records[0].Status)
	assert.Equal(t, "t1", records[0].TransactionID)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Notifications.WithLabelValues("sent")))
}

func TestDispatcherRecordsFailure(t *testing.T) {
	store := newMemoryStore()
	mailer := &fakeMailer{err: errors.New("relay refused")}
	d := NewDispatcher(store, mailer, Config{Workers: 1, QueueSize: 4}, nil, nil)

	d.NotifyTransaction("u1", contact("c1", "alex@example.com"), tx("t1", "c1", models.PayerFriend, "3"), decimal.RequireFromString("-3"))
	d.Close()

	records := store.all()
	require.Len(t, records, 1)
	assert.Equal(t, models.NotificationFailed, records[0].Status)
	assert.Equal(t, "relay refused", records[0].Error)
}

func TestDispatcherGroupSkipsContactsWithoutEmail(t *testing.T) {
	store := newMemoryStore()
	mailer := &fakeMailer{}
	d := NewDispatcher(store, mailer, Config{Workers: 1, QueueSize: 4}, nil, nil)

	group := &models.GroupTransaction{
		ID:          "g1",
		Description: "pizza",
		TotalAmount: decimal.RequireFromString("30"),
		SplitMode:   models.SplitEqual,
		IndividualAmounts: map[string]decimal.Decimal{
			"c1": decimal.RequireFromString("10"),
			"c2": decimal.RequireFromString("10"),
		},
	}
	contacts := map[string]*models.Contact{
		"c1": contact("c1", "alex@example.com"),
		"c2": contact("c2", ""),
	}
	d.NotifyGroup("u1", group, contacts, []*models.Transaction{
		tx("t1", "c1", models.PayerUser, "10"),
		tx("t2", "c2", models.PayerUser, "10"),
	})
	d.Close()

	require.Len(t, mailer.sent, 1)
	assert.Contains(t, mailer.sent[0].Body, "Your share: 10.00")
	records := store.all()
	require.Len(t, records, 1)
	assert.Equal(t, "g1", records[0].GroupTransactionID)
}

func TestDispatcherDropsWhenQueueFull(t *testing.T) {
	store := newMemoryStore()
	mailer := &fakeMailer{block: make(chan struct{})}
	m := metrics.NewWithRegistry(prometheus.NewRegistry())
	d := NewDispatcher(store, mailer, Config{Workers: 1, QueueSize: 1}, m, nil)

	c := contact("c1", "alex@example.com")
	for i := 0; i < 10; i++ {
		d.NotifyTransaction("u1", c, tx("t", "c1", models.PayerUser, "1"), decimal.NewFromInt(1))
	}
	// one job in flight, one queued, the rest dropped
	assert.GreaterOrEqual(t, testutil.ToFloat64(m.Notifications.WithLabelValues("dropped")), 8.0)

	close(mailer.block)
	d.Close()

	// enqueue after close is dropped instead of panicking
	d.NotifyTransaction("u1", c, tx("t", "c1", models.PayerUser, "1"), decimal.NewFromInt(1))
	d.Close()
}
