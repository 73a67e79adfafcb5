package event

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"

	"github.com/localhive/event-catalog/internal/errdef"
	"github.com/localhive/event-catalog/internal/handler"
	"github.com/localhive/event-catalog/pkg/model"
)

func NewHandler(eventService eventService) Handler {
	return Handler{eventService}
}

type Handler struct {
	eventService eventService
}

type eventService interface {
	Create(ctx context.Context, user *model.User, event *model.Event) error
	Update(ctx context.Context, event *model.Event) error
	Delete(ctx context.Context, event *model.Event) error
	List(ctx context.Context, query ListQuery) ([]model.Event, int64, error)
	FindById(ctx context.Context, id uint) (*model.Event, error)
	FindByIdentifier(ctx context.Context, identifier string) (*model.Event, error)
	FindByIds(ctx context.Context, ids []uint) ([]model.Event, error)
	Categories(ctx context.Context) ([]string, error)
	Tags(ctx context.Context) ([]string, error)
	Random(ctx context.Context) (*model.Event, error)
	SaveForUser(ctx context.Context, userId, eventId uint) (bool, error)
	UnsaveForUser(ctx context.Context, userId, eventId uint) error
	FindSavedByUser(ctx context.Context, userId uint) ([]model.Event, error)
}

// Pagination describes the page of events a listing returned.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// ListEventsResponse is a page of events
// swagger:model
type ListEventsResponse struct {
	Events     []model.Event `json:"events"`
	Pagination Pagination    `json:"pagination"`
}

// List events
func (h Handler) List(c *gin.Context) {
	// swagger:route GET /events listEvents
	//
	// List events
	//
	// List events matching the filters of the query string. Filters are ANDed, the tags filter
	// matches events carrying at least one of the comma separated tags. Results are paginated.
	//
	// responses:
	//   200: ListEventsResponse
	//   400: Error
	var params ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		_ = c.Error(errdef.NewBadRequest("Error binding data: %+v", err))
		return
	}

	query, err := NewListQuery(params)
	if err != nil {
		_ = c.Error(err)
		return
	}

	events, total, err := h.eventService.List(c.Request.Context(), query)
	if err != nil {
		_ = c.Error(err)
		return
	}

	totalPages := 0
	if total > 0 {
		totalPages = int((total + int64(query.Limit) - 1) / int64(query.Limit))
	}

	c.JSON(http.StatusOK, ListEventsResponse{
		Events: events,
		Pagination: Pagination{
			Page:       query.Page,
			Limit:      query.Limit,
			Total:      total,
			TotalPages: totalPages,
		},
	})
}

// Categories of events
func (h Handler) Categories(c *gin.Context) {
	// swagger:route GET /events/categories listCategories
	//
	// List categories
	//
	// List the distinct categories in use, sorted.
	//
	// responses:
	//   200: []string
	categories, err := h.eventService.Categories(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, categories)
}

// Tags of events
func (h Handler) Tags(c *gin.Context) {
	// swagger:route GET /events/tags listTags
	//
	// List tags
	//
	// List the distinct tags in use, sorted.
	//
	// responses:
	//   200: []string
	tags, err := h.eventService.Tags(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, tags)
}

// Random event
func (h Handler) Random(c *gin.Context) {
	// swagger:route GET /events/random randomEvent
	//
	// Random event
	//
	// Return a random event. Only an empty catalog yields not found.
	//
	// responses:
	//   200: Event
	//   404: Error
	event, err := h.eventService.Random(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, event)
}

type batchGetRequest struct {
	Ids []uint `json:"ids"`
}

// BatchGet events
func (h Handler) BatchGet(c *gin.Context) {
	// swagger:route POST /events/batch-get batchGetEvents
	//
	// Batch get events
	//
	// Return the events that exist among the requested ids, each at most once, in no particular
	// order. Missing ids are silently omitted. No ids is a bad request.
	//
	// responses:
	//   200: []Event
	//   400: Error
	//   415: Error
	var request batchGetRequest
	if err := handler.DataBinder(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	events, err := h.eventService.FindByIds(c.Request.Context(), request.Ids)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, events)
}

// FindByIdentifier event
func (h Handler) FindByIdentifier(c *gin.Context) {
	// swagger:route GET /events/{id} findEvent
	//
	// Find event
	//
	// Find an event by its id or slug.
	//
	// responses:
	//   200: Event
	//   404: Error
	event, err := h.eventService.FindByIdentifier(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, event)
}

type createEventRequest struct {
	Title               string   `json:"title" binding:"required,notblank"`
	Description         string   `json:"description" binding:"required,notblank"`
	EventDate           string   `json:"eventDate" binding:"required,datetime=2006-01-02"`
	EventTime           string   `json:"eventTime"`
	LocationDescription string   `json:"locationDescription"`
	OrganizerName       string   `json:"organizerName"`
	Category            string   `json:"category"`
	Tags                []string `json:"tags"`
	WebsiteUrl          string   `json:"websiteUrl" binding:"omitempty,url"`
}

// Create event
func (h Handler) Create(c *gin.Context) {
	// swagger:route POST /events createEvent
	//
	// Create event
	//
	// Create an event owned by the authenticated user. The organizer name defaults to the user's
	// display name.
	//
	// security:
	//   oauth2:
	//
	// responses:
	//   201: Event
	//   400: Error
	//   401: Error
	//   415: Error
	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var request createEventRequest
	if err := handler.DataBinder(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	eventDate, err := time.Parse(time.DateOnly, request.EventDate)
	if err != nil {
		_ = c.Error(errdef.NewBadRequest("error parsing eventDate: %v", err))
		return
	}

	event := &model.Event{
		Title:               request.Title,
		Description:         request.Description,
		EventDate:           eventDate,
		EventTime:           request.EventTime,
		LocationDescription: request.LocationDescription,
		OrganizerName:       request.OrganizerName,
		Category:            request.Category,
		Tags:                pq.StringArray(request.Tags),
		WebsiteUrl:          request.WebsiteUrl,
	}

	if err := h.eventService.Create(c.Request.Context(), user, event); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, event)
}

type updateEventRequest struct {
	Title               *string   `json:"title" binding:"omitempty,notblank"`
	Description         *string   `json:"description" binding:"omitempty,notblank"`
	EventDate           *string   `json:"eventDate" binding:"omitempty,datetime=2006-01-02"`
	EventTime           *string   `json:"eventTime"`
	LocationDescription *string   `json:"locationDescription"`
	OrganizerName       *string   `json:"organizerName"`
	Category            *string   `json:"category"`
	Tags                *[]string `json:"tags"`
	WebsiteUrl          *string   `json:"websiteUrl" binding:"omitempty,url"`
}

// Update event
func (h Handler) Update(c *gin.Context) {
	// swagger:route PUT /events/{id} updateEvent
	//
	// Update event
	//
	// Update the fields present in the request body, leaving the others untouched. Only the event
	// owner can update it. The slug is assigned on creation and never changes.
	//
	// security:
	//   oauth2:
	//
	// responses:
	//   200: Event
	//   400: Error
	//   401: Error
	//   403: Error
	//   404: Error
	//   415: Error
	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	id, ok := handler.GetPathParameter(c, "id")
	if !ok {
		return
	}

	var request updateEventRequest
	if err := handler.DataBinder(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	event, err := h.eventService.FindById(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if event.UserID != user.ID {
		_ = c.Error(errdef.NewForbidden("only the owner can update an event"))
		return
	}

	if request.Title != nil {
		event.Title = *request.Title
	}
	if request.Description != nil {
		event.Description = *request.Description
	}
	if request.EventDate != nil {
		eventDate, err := time.Parse(time.DateOnly, *request.EventDate)
		if err != nil {
			_ = c.Error(errdef.NewBadRequest("error parsing eventDate: %v", err))
			return
		}
		event.EventDate = eventDate
	}
	if request.EventTime != nil {
		event.EventTime = *request.EventTime
	}
	if request.LocationDescription != nil {
		event.LocationDescription = *request.LocationDescription
	}
	if request.OrganizerName != nil {
		event.OrganizerName = *request.OrganizerName
	}
	if request.Category != nil {
		event.Category = *request.Category
	}
	if request.Tags != nil {
		event.Tags = pq.StringArray(*request.Tags)
	}
	if request.WebsiteUrl != nil {
		event.WebsiteUrl = *request.WebsiteUrl
	}

	if err := h.eventService.Update(c.Request.Context(), event); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, event)
}

// Delete event
func (h Handler) Delete(c *gin.Context) {
	// swagger:route DELETE /events/{id} deleteEvent
	//
	// Delete event
	//
	// Delete the event. Only the event owner can delete it.
	//
	// security:
	//   oauth2:
	//
	// responses:
	//   202:
	//   401: Error
	//   403: Error
	//   404: Error
	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	id, ok := handler.GetPathParameter(c, "id")
	if !ok {
		return
	}

	event, err := h.eventService.FindById(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if event.UserID != user.ID {
		_ = c.Error(errdef.NewForbidden("only the owner can delete an event"))
		return
	}

	if err := h.eventService.Delete(c.Request.Context(), event); err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusAccepted)
}

// Save event
func (h Handler) Save(c *gin.Context) {
	// swagger:route POST /events/{id}/save saveEvent
	//
	// Save event
	//
	// Save the event for the authenticated user. Saving an already saved event responds with 200
	// and leaves the original save untouched.
	//
	// security:
	//   oauth2:
	//
	// responses:
	//   200:
	//   201:
	//   401: Error
	//   404: Error
	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	id, ok := handler.GetPathParameter(c, "id")
	if !ok {
		return
	}

	created, err := h.eventService.SaveForUser(c.Request.Context(), user.ID, id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if created {
		c.Status(http.StatusCreated)
		return
	}
	c.Status(http.StatusOK)
}

// Unsave event
func (h Handler) Unsave(c *gin.Context) {
	// swagger:route DELETE /events/{id}/save unsaveEvent
	//
	// Unsave event
	//
	// Remove the event from the authenticated user's saved events. Removing an event that isn't
	// saved or no longer exists succeeds.
	//
	// security:
	//   oauth2:
	//
	// responses:
	//   202:
	//   401: Error
	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	id, ok := handler.GetPathParameter(c, "id")
	if !ok {
		return
	}

	if err := h.eventService.UnsaveForUser(c.Request.Context(), user.ID, id); err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusAccepted)
}

// ListSaved events
func (h Handler) ListSaved(c *gin.Context) {
	// swagger:route GET /saved-events listSavedEvents
	//
	// List saved events
	//
	// List the events the authenticated user saved, most recently saved first. Saved events that
	// no longer exist are omitted.
	//
	// security:
	//   oauth2:
	//
	// responses:
	//   200: []Event
	//   401: Error
	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	events, err := h.eventService.FindSavedByUser(c.Request.Context(), user.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, events)
}
