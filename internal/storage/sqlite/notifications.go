package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/settleup/internal/models"
)

// CreateNotification inserts a delivery record.
func (s *SQLiteStore) CreateNotification(ctx context.Context, n *models.Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if n.CreatedAt == 0 {
		n.CreatedAt = now
	}
	n.UpdatedAt = n.CreatedAt
	if n.Status == "" {
		n.Status = models.NotificationPending
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO notifications (id, owner_user_id, contact_id, transaction_id, group_transaction_id,
		     channel, recipient, subject, status, error, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.OwnerUserID, n.ContactID, nullString(n.TransactionID), nullString(n.GroupTransactionID),
		n.Channel, n.Recipient, n.Subject, string(n.Status), nullString(n.Error), n.CreatedAt, n.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	return nil
}

// UpdateNotificationStatus records the outcome of a delivery attempt.
func (s *SQLiteStore) UpdateNotificationStatus(ctx context.Context, id string, status models.NotificationStatus, errMsg string) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE notifications SET status = ?, error = ?, updated_at = ? WHERE id = ?",
		string(status), nullString(errMsg), time.Now().Unix(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update notification: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: notification %s", models.ErrNotFound, id)
	}
	return nil
}

// ListNotifications returns the user's notifications newest first.
func (s *SQLiteStore) ListNotifications(ctx context.Context, userID string) ([]*models.Notification, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, owner_user_id, contact_id, transaction_id, group_transaction_id,
		     channel, recipient, subject, status, error, created_at, updated_at
		 FROM notifications
		 WHERE owner_user_id = ?
		 ORDER BY created_at DESC, rowid DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		n := &models.Notification{}
		var txID, groupID, errMsg sql.NullString
		var status string
		if err := rows.Scan(&n.ID, &n.OwnerUserID, &n.ContactID, &txID, &groupID,
			&n.Channel, &n.Recipient, &n.Subject, &status, &errMsg, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		n.TransactionID = txID.String
		n.GroupTransactionID = groupID.String
		n.Status = models.NotificationStatus(status)
		n.Error = errMsg.String
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate notifications: %w", err)
	}
	return notifications, nil
}
