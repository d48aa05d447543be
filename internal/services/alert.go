package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/petdex/analytics/internal/analytics/anomaly"
	"github.com/petdex/analytics/internal/logging"
	"github.com/petdex/analytics/internal/observability"
	"github.com/petdex/analytics/internal/queue"
	"github.com/petdex/analytics/internal/utils"
)

// AlertEvent is published when a classified value is rare or invalid
type AlertEvent struct {
	ID          string       `json:"id"`
	AnimalID    string       `json:"animal_id"`
	Value       float64      `json:"value"`
	Tier        anomaly.Tier `json:"tier"`
	Probability *float64     `json:"probability"`
	Mean        *float64     `json:"mean"`
	StdDev      *float64     `json:"stddev"`
	CreatedAt   time.Time    `json:"created_at"`
}

// AlertNotifier publishes alert events to a queue subject
type AlertNotifier struct {
	logger    *logging.Logger
	publisher queue.Publisher
	subject   string
	animalID  string
}

// NewAlertNotifier creates a new AlertNotifier
func NewAlertNotifier(logger *logging.Logger, publisher queue.Publisher, subject, animalID string) *AlertNotifier {
	return &AlertNotifier{
		logger:    logger,
		publisher: publisher,
		subject:   subject,
		animalID:  animalID,
	}
}

// Notify publishes an alert for c if it is alerting. Failures are logged and
// never reach the caller.
func (n *AlertNotifier) Notify(ctx context.Context, c anomaly.Classification) {
	if n == nil || !c.Alerting() {
		return
	}

	event := AlertEvent{
		ID:          uuid.New().String(),
		AnimalID:    n.animalID,
		Value:       c.Value,
		Tier:        c.Tier,
		Probability: c.Probability,
		Mean:        c.Mean,
		StdDev:      c.StdDev,
		CreatedAt:   time.Now().UTC(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		n.logger.Error("Failed to encode alert", "error", err)
		observability.RecordAlert(err)
		return
	}

	// The alert outlives a cancelled request
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), utils.AlertPublishTimeout)
	defer cancel()

	err = n.publisher.Publish(pubCtx, n.subject, data)
	observability.RecordAlert(err)
	if err != nil {
		n.logger.Error("Failed to publish alert",
			"subject", n.subject,
			"alert_id", event.ID,
			"error", err)
		return
	}

	n.logger.Info("Published heart-rate alert",
		"subject", n.subject,
		"alert_id", event.ID,
		"tier", string(event.Tier),
		"value", event.Value)
}
