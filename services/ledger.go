package services

import (
	"context"
	"errors"
	"os"
	"strconv"
	"sync"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/google/uuid"
	"github.com/whsper-labs/whsper_api/model"
	"github.com/whsper-labs/whsper_api/services/repositories"
	"github.com/whsper-labs/whsper_api/shared"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const LEDGER_SVC = "ledger_svc"

const (
	secondsPerDay  = 86400
	secondsPerHour = 3600
)

// Clock supplies the ledger time and position an invocation runs at.
type Clock interface {
	// Timestamp is the ledger close time in unix seconds.
	Timestamp() uint64
	// Sequence is the ledger position. It never decreases.
	Sequence() uint64
}

type systemClock struct {
	genesis      int64
	closeSeconds int64
}

func (c systemClock) Timestamp() uint64 {
	return uint64(time.Now().Unix())
}

func (c systemClock) Sequence() uint64 {
	elapsed := time.Now().Unix() - c.genesis
	if elapsed < 0 {
		return 0
	}
	return uint64(elapsed / c.closeSeconds)
}

// Env is the view of the ledger handed to a single invocation. Reads and
// writes go through the invocation's transaction; the clock readings are
// fixed for its whole duration.
type Env struct {
	ctx       context.Context
	store     *repositories.KVRepository
	balances  *repositories.BalanceRepository
	eventLog  *repositories.EventRepository
	timestamp uint64
	sequence  uint64
	events    []model.Event
}

func newEnv(ctx context.Context, tx *gorm.DB, timestamp, sequence uint64) *Env {
	return &Env{
		ctx:       ctx,
		store:     repositories.NewKVRepository(tx),
		balances:  repositories.NewBalanceRepository(tx),
		eventLog:  repositories.NewEventRepository(tx),
		timestamp: timestamp,
		sequence:  sequence,
	}
}

func (e *Env) Context() context.Context { return e.ctx }

func (e *Env) Store() *repositories.KVRepository { return e.store }

func (e *Env) Balances() *repositories.BalanceRepository { return e.balances }

// EventLog reads committed events. Events emitted by the current invocation
// are not visible until it commits.
func (e *Env) EventLog() *repositories.EventRepository { return e.eventLog }

func (e *Env) Timestamp() uint64 { return e.timestamp }

func (e *Env) Sequence() uint64 { return e.sequence }

// Emit buffers an event; it is written only if the invocation commits.
func (e *Env) Emit(topic, account string, payload interface{}) error {
	data, err := shared.JSON().Marshal(payload)
	if err != nil {
		return err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return err
	}

	e.events = append(e.events, model.Event{
		ID:        id.String(),
		Ledger:    e.sequence,
		Timestamp: e.timestamp,
		Topic:     topic,
		Account:   account,
		Payload:   data,
		CreatedAt: time.Now(),
	})
	return nil
}

// load reads key into a value of type T, returning def when the key is absent.
func load[T any](env *Env, key model.DataKey, def T) (T, error) {
	value := def
	found, err := env.store.Get(key, &value)
	if err != nil {
		return def, err
	}
	if !found {
		return def, nil
	}
	return value, nil
}

var errViewRollback = errors.New("view rollback")

type LedgerService struct {
	appContext.DefaultService

	database Database
	eventSvc *EventService
	clock    Clock

	mu sync.Mutex
}

func (svc LedgerService) Id() string {
	return LEDGER_SVC
}

func (svc *LedgerService) Configure(ctx *appContext.Context) error {
	clock := systemClock{closeSeconds: 5}

	if v := os.Getenv("LEDGER_GENESIS"); v != "" {
		genesis, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return err
		}
		clock.genesis = genesis
	}

	if v := os.Getenv("LEDGER_CLOSE_SECONDS"); v != "" {
		closeSeconds, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return err
		}
		if closeSeconds > 0 {
			clock.closeSeconds = closeSeconds
		}
	}

	svc.clock = clock
	return svc.DefaultService.Configure(ctx)
}

func (svc *LedgerService) Start() error {
	svc.database = svc.Service(DATABASE_SVC).(Database)
	svc.eventSvc = svc.Service(EVENT_SVC).(*EventService)
	return nil
}

// Invoke runs fn as one serialized, all-or-nothing ledger invocation. Any
// error returned by fn discards every write it made, including its events.
func (svc *LedgerService) Invoke(ctx context.Context, fn func(env *Env) error) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	timestamp, sequence := svc.clock.Timestamp(), svc.clock.Sequence()

	var committed []model.Event
	err := svc.database.Db().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		env := newEnv(ctx, tx, timestamp, sequence)
		if err := fn(env); err != nil {
			return err
		}

		if err := env.eventLog.Append(env.events); err != nil {
			return err
		}
		committed = env.events
		return nil
	})
	if err != nil {
		return HandleError(err)
	}

	if svc.eventSvc != nil && len(committed) > 0 {
		svc.eventSvc.Publish(ctx, committed)
	}

	log.WithFields(log.Fields{
		"ledger": sequence,
		"events": len(committed),
	}).Debug("Ledger invocation committed")
	return nil
}

// View runs fn against the ledger and always discards its writes.
func (svc *LedgerService) View(ctx context.Context, fn func(env *Env) error) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	timestamp, sequence := svc.clock.Timestamp(), svc.clock.Sequence()

	err := svc.database.Db().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := fn(newEnv(ctx, tx, timestamp, sequence)); err != nil {
			return err
		}
		return errViewRollback
	})
	if errors.Is(err, errViewRollback) {
		return nil
	}
	return HandleError(err)
}
