package services

import (
	"context"
	"os"

	appContext "github.com/alphabatem/common/context"
	"github.com/whsper-labs/whsper_api/model"
	"github.com/whsper-labs/whsper_api/shared"
	log "github.com/sirupsen/logrus"
)

const EVENT_SVC = "event_svc"

const defaultEventsChannel = "whsper:events"

// Event topics
const (
	TopicInitialized              = "initialized"
	TopicXPChanged                = "xp_changed"
	TopicLevelUp                  = "level_up"
	TopicTransfer                 = "transfer"
	TopicTip                      = "tip"
	TopicClaimCreated             = "claim_created"
	TopicClaimProcessed           = "claim_processed"
	TopicClaimCancelled           = "claim_cancelled"
	TopicClaimAdminCancelled      = "claim_admin_cancelled"
	TopicRateLimitConfigUpdated   = "rate_limit_config_updated"
	TopicReputationUpdated        = "reputation_updated"
	TopicOverrideUpdated          = "override_updated"
	TopicClaimWindowConfigUpdated = "claim_window_config_updated"
	TopicFeeCollected             = "fee_collected"
	TopicFeePercentageUpdated     = "fee_percentage_updated"
	TopicTreasuryWithdrawal       = "treasury_withdrawal"
	TopicAdminChanged             = "admin_changed"
)

// EventService fans committed ledger events out to subscribers and serves the
// event log to admins.
type EventService struct {
	appContext.DefaultService

	ledgerSvc *LedgerService
	redisSvc  *RedisService
	channel   string
}

func (svc EventService) Id() string {
	return EVENT_SVC
}

func (svc *EventService) Configure(ctx *appContext.Context) error {
	svc.channel = os.Getenv("REDIS_EVENTS_CHANNEL")
	if svc.channel == "" {
		svc.channel = defaultEventsChannel
	}
	return svc.DefaultService.Configure(ctx)
}

func (svc *EventService) Start() error {
	svc.ledgerSvc = svc.Service(LEDGER_SVC).(*LedgerService)
	if redisSvc, ok := svc.Service(REDIS_SVC).(*RedisService); ok {
		svc.redisSvc = redisSvc
	}
	return nil
}

// Publish is called after a ledger invocation commits. Delivery is best
// effort: the event log is the source of truth.
func (svc *EventService) Publish(ctx context.Context, events []model.Event) {
	for _, event := range events {
		recordLedgerEvent(event.Topic)

		if !svc.redisSvc.Enabled() {
			continue
		}

		data, err := shared.JSON().Marshal(event)
		if err != nil {
			log.WithError(err).WithField("topic", event.Topic).Warn("Failed to encode event")
			continue
		}

		if err := svc.redisSvc.Publish(ctx, svc.channel, data); err != nil {
			log.WithFields(log.Fields{
				"topic":    event.Topic,
				"sequence": event.Sequence,
				"error":    err.Error(),
			}).Warn("Failed to publish event")
		}
	}
}

// ListEvents returns up to limit events with a sequence greater than after.
// Only the admin may read the log.
func (svc *EventService) ListEvents(ctx context.Context, caller string, after uint64, limit int) ([]model.Event, error) {
	if limit <= 0 || limit > shared.MaxPageSize {
		limit = shared.MaxPageSize
	}

	var events []model.Event
	err := svc.ledgerSvc.View(ctx, func(env *Env) error {
		if err := requireAdmin(env, caller); err != nil {
			return err
		}

		var err error
		events, err = env.EventLog().ListAfter(after, limit)
		return err
	})
	if err != nil {
		return nil, err
	}
	return events, nil
}
