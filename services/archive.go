package services

import (
	"bytes"
	"context"
	"fmt"
	"io"

	appContext "github.com/alphabatem/common/context"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/whsper-labs/whsper_api/dto"
	"github.com/whsper-labs/whsper_api/model"
	"github.com/whsper-labs/whsper_api/shared"
	log "github.com/sirupsen/logrus"
)

const ARCHIVE_SVC = "archive_svc"

const archiveBatchSize = 1000

type objectStore interface {
	Enabled() bool
	UploadFile(ctx context.Context, objectName string, reader io.Reader, objectSize int64, contentType string) (*minio.UploadInfo, error)
}

// ArchiveService copies the event log to object storage as JSON-lines
// objects, one per call, and remembers how far it got.
type ArchiveService struct {
	appContext.DefaultService

	ledgerSvc *LedgerService
	store     objectStore
}

func (svc ArchiveService) Id() string {
	return ARCHIVE_SVC
}

func (svc *ArchiveService) Configure(ctx *appContext.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *ArchiveService) Start() error {
	svc.ledgerSvc = svc.Service(LEDGER_SVC).(*LedgerService)
	if minioSvc, ok := svc.Service(MINIO_SVC).(*MinIOService); ok {
		svc.store = minioSvc
	}
	return nil
}

// ArchiveEvents uploads up to archiveBatchSize events recorded after the last
// checkpoint. It returns an empty result when there is nothing new.
func (svc *ArchiveService) ArchiveEvents(ctx context.Context, caller string) (*dto.ArchiveResponse, error) {
	if svc.store == nil || !svc.store.Enabled() {
		return nil, shared.ErrArchiveUnavailable
	}

	var (
		checkpoint model.ArchiveCheckpoint
		events     []model.Event
	)
	err := svc.ledgerSvc.View(ctx, func(env *Env) error {
		if err := requireAdmin(env, caller); err != nil {
			return err
		}

		var err error
		checkpoint, err = load(env, model.ArchiveCheckpointKey{}, model.ArchiveCheckpoint{})
		if err != nil {
			return err
		}
		events, err = env.EventLog().ListAfter(checkpoint.Sequence, archiveBatchSize)
		return err
	})
	if err != nil {
		return nil, err
	}

	resp := &dto.ArchiveResponse{FromSequence: checkpoint.Sequence, ToSequence: checkpoint.Sequence}
	if len(events) == 0 {
		return resp, nil
	}

	var buf bytes.Buffer
	for _, event := range events {
		line, err := shared.JSON().Marshal(event)
		if err != nil {
			return nil, err
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}

	from, to := events[0].Sequence, events[len(events)-1].Sequence
	object := fmt.Sprintf("events/%d-%d-%s.jsonl", from, to, uuid.NewString())

	if _, err := svc.store.UploadFile(ctx, object, &buf, int64(buf.Len()), "application/x-ndjson"); err != nil {
		log.WithFields(log.Fields{
			"object": object,
			"error":  err.Error(),
		}).Error("Event archive upload failed")
		return nil, err
	}

	err = svc.ledgerSvc.Invoke(ctx, func(env *Env) error {
		current, err := load(env, model.ArchiveCheckpointKey{}, model.ArchiveCheckpoint{})
		if err != nil {
			return err
		}
		// a concurrent archive run may already have moved past this batch
		if current.Sequence >= to {
			return nil
		}
		return env.Store().Set(model.ArchiveCheckpointKey{}, model.ArchiveCheckpoint{
			Sequence:   to,
			Object:     object,
			ArchivedAt: env.Timestamp(),
		})
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"object": object,
		"events": len(events),
	}).Info("Events archived")

	resp.Object = object
	resp.FromSequence = from
	resp.ToSequence = to
	resp.EventCount = len(events)
	return resp, nil
}
