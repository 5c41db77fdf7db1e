package notification

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Notifier delivers events to registered webhooks. Callers invoke Emit
// after a successful write; delivery is fire-and-forget and failures are
// only logged. Nothing here intercepts storage calls.
type Notifier struct {
	DB     *gorm.DB
	Client *http.Client
	Log    *logrus.Logger
}

func NewNotifier(db *gorm.DB, log *logrus.Logger) *Notifier {
	return &Notifier{
		DB:     db,
		Client: &http.Client{Timeout: 10 * time.Second},
		Log:    log,
	}
}

type event struct {
	ID        string      `json:"id"`
	Event     string      `json:"event"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// Emit posts the event to every active webhook subscribed to it.
func (n *Notifier) Emit(name string, data interface{}) {
	var hooks []Webhook
	err := n.DB.Where("active = ? AND (event = ? OR event = ?)", true, name, "*").Find(&hooks).Error
	if err != nil {
		n.Log.WithError(err).Warn("could not load webhooks")
		return
	}
	if len(hooks) == 0 {
		return
	}

	payload := event{
		ID:        uuid.NewString(),
		Event:     name,
		Timestamp: time.Now(),
		Data:      data,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		n.Log.WithError(err).Warn("could not marshal webhook payload")
		return
	}

	for _, hook := range hooks {
		go n.deliver(hook, payload.ID, body)
	}
}

func (n *Notifier) deliver(hook Webhook, eventID string, body []byte) {
	resp, err := n.Client.Post(hook.URL, "application/json", bytes.NewReader(body))
	if err != nil {
		n.Log.WithFields(logrus.Fields{
			"webhookId": hook.ID,
			"eventId":   eventID,
		}).WithError(err).Warn("webhook delivery failed")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		n.Log.WithFields(logrus.Fields{
			"webhookId": hook.ID,
			"eventId":   eventID,
			"status":    resp.StatusCode,
		}).Warn("webhook endpoint rejected event")
	}
}
