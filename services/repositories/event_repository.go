package repositories

import (
	"github.com/whsper-labs/whsper_api/model"
	"gorm.io/gorm"
)

// EventRepository is the append-only event log.
type EventRepository struct {
	BaseRepository
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

func (r *EventRepository) LastSequence() (uint64, error) {
	var last uint64
	err := r.db.Model(&model.Event{}).Select("coalesce(max(sequence), 0)").Scan(&last).Error
	if err != nil {
		return 0, err
	}
	return last, nil
}

// Append assigns consecutive sequence numbers to events and stores them.
func (r *EventRepository) Append(events []model.Event) error {
	if len(events) == 0 {
		return nil
	}

	last, err := r.LastSequence()
	if err != nil {
		return err
	}

	for i := range events {
		last++
		events[i].Sequence = last
	}

	return r.db.CreateInBatches(events, 100).Error
}

func (r *EventRepository) ListAfter(sequence uint64, limit int) ([]model.Event, error) {
	var events []model.Event
	err := r.db.Where("sequence > ?", sequence).
		Order("sequence ASC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}
