package services

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/whsper-labs/whsper_api/model"
	"github.com/whsper-labs/whsper_api/shared"
)

type fakeObjectStore struct {
	enabled bool
	fail    error
	objects map[string][]byte
}

func (s *fakeObjectStore) Enabled() bool { return s.enabled }

func (s *fakeObjectStore) UploadFile(ctx context.Context, objectName string, reader io.Reader, objectSize int64, contentType string) (*minio.UploadInfo, error) {
	if s.fail != nil {
		return nil, s.fail
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	if s.objects == nil {
		s.objects = map[string][]byte{}
	}
	s.objects[objectName] = data
	return &minio.UploadInfo{Key: objectName, Size: objectSize}, nil
}

func TestArchiveUnavailable(t *testing.T) {
	core, _ := newInitializedCore(t, nil)
	ctx := context.Background()

	svc := &ArchiveService{ledgerSvc: core.Ledger}
	_, err := svc.ArchiveEvents(ctx, testAdmin)
	assert.ErrorIs(t, err, shared.ErrArchiveUnavailable)

	svc.store = &fakeObjectStore{}
	_, err = svc.ArchiveEvents(ctx, testAdmin)
	assert.ErrorIs(t, err, shared.ErrArchiveUnavailable)
}

func TestArchiveEvents(t *testing.T) {
	core, _ := newInitializedCore(t, nil)
	ctx := context.Background()

	store := &fakeObjectStore{enabled: true}
	svc := &ArchiveService{ledgerSvc: core.Ledger, store: store}

	_, err := svc.ArchiveEvents(ctx, "mallory")
	require.ErrorIs(t, err, shared.ErrUnauthorized)

	_, err = core.Platform.RewardMessage(ctx, "alice")
	require.NoError(t, err)

	resp, err := svc.ArchiveEvents(ctx, testAdmin)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), resp.FromSequence)
	assert.Equal(t, uint64(2), resp.ToSequence)
	assert.Equal(t, 2, resp.EventCount)
	assert.True(t, strings.HasPrefix(resp.Object, "events/1-2-"))

	body, ok := store.objects[resp.Object]
	require.True(t, ok)

	var topics []string
	scanner := bufio.NewScanner(bytes.NewReader(body))
	for scanner.Scan() {
		var event model.Event
		require.NoError(t, shared.JSON().Unmarshal(scanner.Bytes(), &event))
		topics = append(topics, event.Topic)
	}
	assert.Equal(t, []string{TopicInitialized, TopicXPChanged}, topics)

	// nothing new since the checkpoint
	resp, err = svc.ArchiveEvents(ctx, testAdmin)
	require.NoError(t, err)
	assert.Equal(t, 0, resp.EventCount)
	assert.Empty(t, resp.Object)
	assert.Len(t, store.objects, 1)
}

func TestArchiveUploadFailureKeepsCheckpoint(t *testing.T) {
	core, _ := newInitializedCore(t, nil)
	ctx := context.Background()

	store := &fakeObjectStore{enabled: true, fail: errors.New("bucket unreachable")}
	svc := &ArchiveService{ledgerSvc: core.Ledger, store: store}

	_, err := svc.ArchiveEvents(ctx, testAdmin)
	require.Error(t, err)

	store.fail = nil
	resp, err := svc.ArchiveEvents(ctx, testAdmin)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), resp.FromSequence)
	assert.Equal(t, 1, resp.EventCount)
}
