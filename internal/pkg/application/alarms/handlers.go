package alarms

import (
	"context"
	"encoding/json"

	"github.com/diwise/messaging-golang/pkg/messaging"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/cloudmon/dynatrace-mgmt/internal/pkg/infrastructure/logging"
)

// NewSyncRequestedHandler lets other services trigger an alarm sync over
// the message bus instead of waiting for the next scheduled run.
func NewSyncRequestedHandler(svc AlarmService) messaging.TopicMessageHandler {
	return func(ctx context.Context, msg amqp.Delivery, logger zerolog.Logger) {
		request := struct {
			From string `json:"from,omitempty"`
			To   string `json:"to,omitempty"`
		}{}

		if len(msg.Body) > 0 {
			if err := json.Unmarshal(msg.Body, &request); err != nil {
				logger.Error().Err(err).Msgf("failed to unmarshal message from %s", msg.RoutingKey)
				return
			}
		}

		ctx = logging.NewContextWithLogger(ctx, logger)

		total, err := svc.Sync(ctx, request.From, request.To)
		if err != nil {
			logger.Error().Err(err).Msg("requested alarm sync failed")
			return
		}

		logger.Debug().Msgf("%s handled, %d alarms synced", msg.RoutingKey, total)
	}
}
