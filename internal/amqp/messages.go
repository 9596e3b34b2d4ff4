package amqp

import (
	"encoding/json"
	"time"

	"finanzas/internal/core"
)

// NotificationMessage is the wire form of one derived notification.
type NotificationMessage struct {
	ID       string `json:"id"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

// NotificationBatch carries one evaluation cycle's notifications for a
// user. Consumers can treat a batch as a full replacement: the engine
// recomputes every notification each cycle, so the batch is the whole
// current set, not a delta.
type NotificationBatch struct {
	UserID        string                `json:"user_id"`
	EvaluatedAt   time.Time             `json:"evaluated_at"`
	Notifications []NotificationMessage `json:"notifications"`
}

// NewNotificationBatch converts derived notifications to their wire form.
func NewNotificationBatch(userID string, evaluatedAt time.Time, ns []core.Notification) *NotificationBatch {
	batch := &NotificationBatch{
		UserID:        userID,
		EvaluatedAt:   evaluatedAt,
		Notifications: make([]NotificationMessage, 0, len(ns)),
	}
	for _, n := range ns {
		batch.Notifications = append(batch.Notifications, NotificationMessage{
			ID:       n.ID,
			Message:  n.Message,
			Severity: string(n.Severity),
		})
	}
	return batch
}

func (b *NotificationBatch) ToJSON() ([]byte, error) {
	return json.Marshal(b)
}

func NotificationBatchFromJSON(data []byte) (*NotificationBatch, error) {
	var batch NotificationBatch
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, err
	}
	return &batch, nil
}
