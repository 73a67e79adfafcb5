package event

import (
	"context"
	"errors"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/localhive/event-catalog/internal/errdef"
	"github.com/localhive/event-catalog/pkg/model"
)

//goland:noinspection GoExportedFuncWithUnexportedType
func NewRepository(db *gorm.DB) *repository {
	return &repository{db}
}

type repository struct {
	db *gorm.DB
}

func (r repository) create(ctx context.Context, event *model.Event) error {
	err := r.db.WithContext(ctx).Create(event).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errdef.NewDuplicated("event %q already exists", event.Slug)
	}
	return err
}

func (r repository) save(ctx context.Context, event *model.Event) error {
	return r.db.WithContext(ctx).Save(event).Error
}

func (r repository) delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Event{}, id).Error
}

func (r repository) findById(ctx context.Context, id uint) (*model.Event, error) {
	var event model.Event
	err := r.db.WithContext(ctx).First(&event, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errdef.NewNotFound("failed to find event with id %d", id)
	}
	return &event, err
}

func (r repository) findBySlug(ctx context.Context, slug string) (*model.Event, error) {
	var event model.Event
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&event).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errdef.NewNotFound("failed to find event with slug %q", slug)
	}
	return &event, err
}

// findAll returns the page of events matching query along with the total match count. The count
// runs on the identical predicate chain so the pagination metadata matches the rows. A page
// beyond the last one yields an empty slice. Ordering beyond the sort column is whatever postgres
// yields.
func (r repository) findAll(ctx context.Context, query ListQuery) ([]model.Event, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Event{})
	if query.Category != "" {
		q = q.Where("category = ?", query.Category)
	}
	if len(query.Tags) > 0 {
		q = q.Where("tags && ?", pq.StringArray(query.Tags))
	}
	if query.StartDate != nil {
		q = q.Where("event_date >= ?", *query.StartDate)
	}
	if query.EndDate != nil {
		q = q.Where("event_date <= ?", *query.EndDate)
	}
	if query.Search != "" {
		pattern := "%" + query.Search + "%"
		q = q.Where("(title ILIKE ? OR description ILIKE ? OR location_description ILIKE ? OR organizer_name ILIKE ? OR category ILIKE ?)",
			pattern, pattern, pattern, pattern, pattern)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	events := []model.Event{}
	err := q.Order(query.SortColumn + " " + query.SortOrder).
		Offset((query.Page - 1) * query.Limit).
		Limit(query.Limit).
		Find(&events).Error
	if err != nil {
		return nil, 0, err
	}
	return events, count, nil
}

func (r repository) categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).
		Model(&model.Event{}).
		Where("category <> ''").
		Distinct().
		Order("category").
		Pluck("category", &categories).Error
	return categories, err
}

// tags returns the tags of every event, flattened, in no particular order. Normalization happens
// in the service.
func (r repository) tags(ctx context.Context) ([]string, error) {
	var tags []string
	err := r.db.WithContext(ctx).Raw("SELECT unnest(tags) FROM events").Scan(&tags).Error
	return tags, err
}

func (r repository) count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Event{}).Count(&count).Error
	return count, err
}

// findNth returns the event at offset when ordered by id.
func (r repository) findNth(ctx context.Context, offset int) (*model.Event, error) {
	var events []model.Event
	err := r.db.WithContext(ctx).Order("id").Offset(offset).Limit(1).Find(&events).Error
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, errdef.NewNotFound("no events exist")
	}
	return &events[0], nil
}

func (r repository) findByIds(ctx context.Context, ids []uint) ([]model.Event, error) {
	events := []model.Event{}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&events).Error
	return events, err
}

func (r repository) saveForUser(ctx context.Context, userId, eventId uint) error {
	err := r.db.WithContext(ctx).Create(&model.UserSavedEvent{UserID: userId, EventID: eventId}).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errdef.NewDuplicated("event %d already saved", eventId)
	}
	return err
}

func (r repository) unsaveForUser(ctx context.Context, userId, eventId uint) error {
	return r.db.WithContext(ctx).Delete(&model.UserSavedEvent{UserID: userId, EventID: eventId}).Error
}

// findSavedByUser returns the events a user saved, most recently saved first. The inner join
// hides saved rows whose event is gone.
func (r repository) findSavedByUser(ctx context.Context, userId uint) ([]model.Event, error) {
	events := []model.Event{}
	err := r.db.WithContext(ctx).
		Joins("INNER JOIN user_saved_events ON user_saved_events.event_id = events.id").
		Where("user_saved_events.user_id = ?", userId).
		Order("user_saved_events.saved_at DESC").
		Find(&events).Error
	return events, err
}
