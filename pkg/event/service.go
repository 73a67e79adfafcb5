package event

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"golang.org/x/exp/maps"

	"github.com/localhive/event-catalog/internal/errdef"
	"github.com/localhive/event-catalog/pkg/model"
)

func NewService(repository eventRepository, publisher activityPublisher) *Service {
	return &Service{
		repository: repository,
		publisher:  publisher,
		intn:       rand.IntN,
	}
}

type activityPublisher interface {
	PublishActivity(ctx context.Context, action string, event *model.Event)
}

type Service struct {
	repository eventRepository
	publisher  activityPublisher
	// intn returns a random int in [0, n). Tests pin it for determinism.
	intn func(n int) int
}

func (s Service) Create(ctx context.Context, user *model.User, event *model.Event) error {
	event.UserID = user.ID
	if event.OrganizerName == "" {
		event.OrganizerName = user.DisplayName
	}
	event.Slug = newSlug(event.Title)

	err := s.repository.create(ctx, event)
	if err != nil {
		return err
	}

	s.publisher.PublishActivity(ctx, "created", event)
	return nil
}

// newSlug returns a URL friendly version of title plus a short suffix so equal titles don't
// collide.
func newSlug(title string) string {
	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return fmt.Sprintf("%s-%s", slug.Make(title), suffix)
}

func (s Service) Update(ctx context.Context, event *model.Event) error {
	err := s.repository.save(ctx, event)
	if err != nil {
		return err
	}

	s.publisher.PublishActivity(ctx, "updated", event)
	return nil
}

// Delete hard deletes the event. Saved rows referencing it are left behind and filtered out on
// read.
func (s Service) Delete(ctx context.Context, event *model.Event) error {
	err := s.repository.delete(ctx, event.ID)
	if err != nil {
		return err
	}

	s.publisher.PublishActivity(ctx, "deleted", event)
	return nil
}

func (s Service) List(ctx context.Context, query ListQuery) ([]model.Event, int64, error) {
	return s.repository.findAll(ctx, query)
}

func (s Service) FindById(ctx context.Context, id uint) (*model.Event, error) {
	return s.repository.findById(ctx, id)
}

// FindByIdentifier finds an event by its id or, for identifiers that aren't numeric, by its slug.
func (s Service) FindByIdentifier(ctx context.Context, identifier string) (*model.Event, error) {
	id, err := strconv.ParseUint(identifier, 10, 64)
	if err != nil {
		return s.repository.findBySlug(ctx, identifier)
	}
	return s.repository.findById(ctx, uint(id))
}

// FindByIds returns the events that exist among ids, each at most once, in no particular order.
// Missing ids are silently omitted.
func (s Service) FindByIds(ctx context.Context, ids []uint) ([]model.Event, error) {
	if len(ids) == 0 {
		return nil, errdef.NewBadRequest("no event ids provided")
	}
	return s.repository.findByIds(ctx, ids)
}

func (s Service) Categories(ctx context.Context) ([]string, error) {
	return s.repository.categories(ctx)
}

// Tags returns the distinct trimmed tags across all events, sorted.
func (s Service) Tags(ctx context.Context) ([]string, error) {
	raw, err := s.repository.tags(ctx)
	if err != nil {
		return nil, err
	}

	unique := make(map[string]struct{}, len(raw))
	for _, tag := range raw {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		unique[tag] = struct{}{}
	}

	tags := maps.Keys(unique)
	slices.Sort(tags)
	return tags, nil
}

// Random returns a random event. The event at a random offset is fetched after counting; a delete
// in between the two queries can leave the offset beyond the last event in which case the first
// event is returned. Only an empty catalog yields not found.
func (s Service) Random(ctx context.Context) (*model.Event, error) {
	count, err := s.repository.count(ctx)
	if err != nil {
		return nil, err
	}

	if count > 0 {
		event, err := s.repository.findNth(ctx, s.intn(int(count)))
		if err == nil {
			return event, nil
		}
		if !errdef.IsNotFound(err) {
			return nil, err
		}
	}

	return s.repository.findNth(ctx, 0)
}

// SaveForUser bookmarks the event for the user and reports whether the bookmark was created.
// Saving an already saved event leaves the existing row untouched.
func (s Service) SaveForUser(ctx context.Context, userId, eventId uint) (bool, error) {
	_, err := s.repository.findById(ctx, eventId)
	if err != nil {
		return false, err
	}

	err = s.repository.saveForUser(ctx, userId, eventId)
	if err != nil {
		if errdef.IsDuplicated(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// UnsaveForUser removes the bookmark. Removing a missing bookmark succeeds.
func (s Service) UnsaveForUser(ctx context.Context, userId, eventId uint) error {
	return s.repository.unsaveForUser(ctx, userId, eventId)
}

func (s Service) FindSavedByUser(ctx context.Context, userId uint) ([]model.Event, error) {
	return s.repository.findSavedByUser(ctx, userId)
}

type eventRepository interface {
	create(ctx context.Context, event *model.Event) error
	save(ctx context.Context, event *model.Event) error
	delete(ctx context.Context, id uint) error
	findById(ctx context.Context, id uint) (*model.Event, error)
	findBySlug(ctx context.Context, slug string) (*model.Event, error)
	findAll(ctx context.Context, query ListQuery) ([]model.Event, int64, error)
	findByIds(ctx context.Context, ids []uint) ([]model.Event, error)
	categories(ctx context.Context) ([]string, error)
	tags(ctx context.Context) ([]string, error)
	count(ctx context.Context) (int64, error)
	findNth(ctx context.Context, offset int) (*model.Event, error)
	saveForUser(ctx context.Context, userId, eventId uint) error
	unsaveForUser(ctx context.Context, userId, eventId uint) error
	findSavedByUser(ctx context.Context, userId uint) ([]model.Event, error)
}
