package event

import (
	"github.com/localhive/event-catalog/pkg/model"
)

// swagger:parameters listEvents
type _ struct {
	// in: query
	ListParams
}

// swagger:parameters findEvent updateEvent deleteEvent saveEvent unsaveEvent
type _ struct {
	// Event id, or for findEvent also the event slug
	// in: path
	// required: true
	Id string `json:"id"`
}

// swagger:parameters batchGetEvents
type _ struct {
	// Event ids to resolve
	// in: body
	// required: true
	Body batchGetRequest
}

// swagger:parameters createEvent
type _ struct {
	// Event to create
	// in: body
	// required: true
	Body createEventRequest
}

// swagger:parameters updateEvent
type _ struct {
	// Fields to update
	// in: body
	// required: true
	Body updateEventRequest
}

// swagger:response Event
type _ struct {
	//in: body
	_ model.Event
}

// swagger:response ListEventsResponse
type _ struct {
	//in: body
	_ ListEventsResponse
}
