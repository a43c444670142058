package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/settleup/internal/models"
)

func (s *PostgresStore) CreateNotification(ctx context.Context, n *models.Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt == 0 {
		n.CreatedAt = time.Now().Unix()
	}
	n.UpdatedAt = n.CreatedAt
	if n.Status == "" {
		n.Status = models.NotificationPending
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO notifications (id, owner_user_id, contact_id, transaction_id, group_transaction_id,
		     channel, recipient, subject, status, error, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		n.ID, n.OwnerUserID, n.ContactID, nullString(n.TransactionID), nullString(n.GroupTransactionID),
		n.Channel, n.Recipient, n.Subject, string(n.Status), nullString(n.Error), n.CreatedAt, n.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateNotificationStatus(ctx context.Context, id string, status models.NotificationStatus, errMsg string) error {
	tag, err := s.pool.Exec(ctx,
		"UPDATE notifications SET status = $1, error = $2, updated_at = $3 WHERE id = $4",
		string(status), nullString(errMsg), time.Now().Unix(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update notification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: notification %s", models.ErrNotFound, id)
	}
	return nil
}

func (s *PostgresStore) ListNotifications(ctx context.Context, userID string) ([]*models.Notification, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, owner_user_id, contact_id, transaction_id, group_transaction_id,
		     channel, recipient, subject, status, error, created_at, updated_at
		 FROM notifications
		 WHERE owner_user_id = $1
		 ORDER BY created_at DESC, seq DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var out []*models.Notification
	for rows.Next() {
		n := &models.Notification{}
		var txID, groupID, errMsg *string
		var status string
		if err := rows.Scan(&n.ID, &n.OwnerUserID, &n.ContactID, &txID, &groupID,
			&n.Channel, &n.Recipient, &n.Subject, &status, &errMsg, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		n.TransactionID = deref(txID)
		n.GroupTransactionID = deref(groupID)
		n.Error = deref(errMsg)
		n.Status = models.NotificationStatus(status)
		out = append(out, n)
	}
	return out, rows.Err()
}
