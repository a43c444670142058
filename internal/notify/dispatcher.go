package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/settleup/internal/metrics"
	"github.com/mmynk/settleup/internal/models"
)

const (
	channelEmail = "email"
	sendTimeout  = 30 * time.Second
)

// Store persists notification records and resolves the sender name.
type Store interface {
	CreateNotification(ctx context.Context, n *models.Notification) error
	UpdateNotificationStatus(ctx context.Context, id string, status models.NotificationStatus, errMsg string) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// Config sizes the worker pool.
type Config struct {
	Workers   int
	QueueSize int
}

type job struct {
	userID  string
	contact *models.Contact
	tx      *models.Transaction
	balance decimal.Decimal
	group   *models.GroupTransaction
}

// Dispatcher sends notifications on a fixed pool of workers fed by a bounded
// queue. Enqueueing never blocks: when the queue is full the job is dropped.
// Delivery outcomes are recorded on the Notification row and never touch
// ledger state.
type Dispatcher struct {
	store   Store
	mailer  Mailer
	metrics *metrics.Metrics
	logger  *slog.Logger

	jobs chan job
	wg   sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewDispatcher starts cfg.Workers goroutines. Call Close to drain them.
func NewDispatcher(store Store, mailer Mailer, cfg Config, m *metrics.Metrics, logger *slog.Logger) *Dispatcher {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.QueueSize < 0 {
		cfg.QueueSize = 0
	}
	if logger == nil {
		logger = slog.Default()
	}

	d := &Dispatcher{
		store:   store,
		mailer:  mailer,
		metrics: m,
		logger:  logger,
		jobs:    make(chan job, cfg.QueueSize),
	}
	for i := 0; i < cfg.Workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
	return d
}

// NotifyTransaction queues a message for a single transaction.
func (d *Dispatcher) NotifyTransaction(userID string, contact *models.Contact, tx *models.Transaction, newBalance decimal.Decimal) {
	if contact == nil || contact.Email == "" {
		return
	}
	d.enqueue(job{userID: userID, contact: contact, tx: tx, balance: newBalance})
}

// NotifyGroup queues one message per participant that has an e-mail address.
func (d *Dispatcher) NotifyGroup(userID string, group *models.GroupTransaction, contacts map[string]*models.Contact, txs []*models.Transaction) {
	for _, tx := range txs {
		contact := contacts[tx.ContactID]
		if contact == nil || contact.Email == "" {
			continue
		}
		d.enqueue(job{userID: userID, contact: contact, tx: tx, group: group})
	}
}

func (d *Dispatcher) enqueue(j job) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.drop(j, "dispatcher closed")
		return
	}
	select {
	case d.jobs <- j:
	default:
		d.drop(j, "queue full")
	}
}

func (d *Dispatcher) drop(j job, reason string) {
	d.metrics.Notification("dropped")
	d.logger.Warn("Notification dropped",
		"reason", reason,
		"user_id", j.userID,
		"contact_id", j.contact.ID,
		"transaction_id", j.tx.ID,
	)
}

// Close stops accepting jobs and waits for queued ones to finish.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.jobs)
	d.mu.Unlock()

	d.wg.Wait()
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for j := range d.jobs {
		d.process(j)
	}
}

func (d *Dispatcher) process(j job) {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	sender := d.senderName(ctx, j.userID)
	var msg Message
	if j.group != nil {
		msg = groupMessage(sender, j.contact, j.group, j.tx)
	} else {
		msg = transactionMessage(sender, j.contact, j.tx, j.balance)
	}

	n := &models.Notification{
		OwnerUserID:   j.userID,
		ContactID:     j.contact.ID,
		TransactionID: j.tx.ID,
		Channel:       channelEmail,
		Recipient:     msg.To,
		Subject:       msg.Subject,
		Status:        models.NotificationPending,
	}
	if j.group != nil {
		n.GroupTransactionID = j.group.ID
	}
	if err := d.store.CreateNotification(ctx, n); err != nil {
		d.logger.Error("Failed to record notification", "contact_id", j.contact.ID, "error", err)
		return
	}

	status, errMsg := models.NotificationSent, ""
	if err := d.mailer.Send(ctx, msg); err != nil {
		status, errMsg = models.NotificationFailed, err.Error()
		d.logger.Warn("Notification failed",
			"notification_id", n.ID,
			"contact_id", j.contact.ID,
			"error", err,
		)
	} else {
		d.logger.Debug("Notification sent", "notification_id", n.ID, "contact_id", j.contact.ID)
	}
	d.metrics.Notification(string(status))

	if err := d.store.UpdateNotificationStatus(ctx, n.ID, status, errMsg); err != nil {
		d.logger.Error("Failed to update notification status", "notification_id", n.ID, "error", err)
	}
}

func (d *Dispatcher) senderName(ctx context.Context, userID string) string {
	user, err := d.store.GetUserByID(ctx, userID)
	if err != nil || user == nil || user.DisplayName == "" {
		return defaultSender
	}
	return user.DisplayName
}
