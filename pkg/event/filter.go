package event

import (
	"strings"
	"time"

	"github.com/localhive/event-catalog/internal/errdef"
)

// sortColumns maps the exposed sort keys to their database order expressions. Text columns
// compare lowercased so the order does not depend on the database collation.
var sortColumns = map[string]string{
	"eventDate":     "event_date",
	"title":         "lower(title)",
	"createdAt":     "created_at",
	"updatedAt":     "updated_at",
	"category":      "lower(category)",
	"organizerName": "lower(organizer_name)",
}

// ListParams are the query string parameters of the event list endpoint.
type ListParams struct {
	Page      int    `form:"page" binding:"omitempty,gte=1"`
	Limit     int    `form:"limit" binding:"omitempty,gte=1"`
	SortBy    string `form:"sortBy" binding:"omitempty,oneof=eventDate title createdAt updatedAt category organizerName"`
	SortOrder string `form:"sortOrder" binding:"omitempty,oneof=asc desc"`
	Category  string `form:"category"`
	Tags      string `form:"tags"`
	StartDate string `form:"startDate" binding:"omitempty,datetime=2006-01-02"`
	EndDate   string `form:"endDate" binding:"omitempty,datetime=2006-01-02"`
	Search    string `form:"search"`
}

// ListQuery is a validated event listing. Events matching every set filter are returned in pages
// of Limit events ordered by SortColumn. Events match Tags if they carry at least one of them.
// Both date bounds are inclusive.
type ListQuery struct {
	Page       int
	Limit      int
	SortColumn string
	SortOrder  string
	Category   string
	Tags       []string
	StartDate  *time.Time
	EndDate    *time.Time
	Search     string
}

// NewListQuery validates params and applies the listing defaults, the first page of ten events
// sorted by event date, newest first.
func NewListQuery(params ListParams) (ListQuery, error) {
	query := ListQuery{
		Page:       1,
		Limit:      10,
		SortColumn: sortColumns["eventDate"],
		SortOrder:  "desc",
		Category:   params.Category,
		Search:     strings.TrimSpace(params.Search),
	}

	if params.Page > 0 {
		query.Page = params.Page
	}
	if params.Limit > 0 {
		query.Limit = params.Limit
	}

	if params.SortBy != "" {
		column, ok := sortColumns[params.SortBy]
		if !ok {
			return ListQuery{}, errdef.NewBadRequest("unsupported sortBy %q", params.SortBy)
		}
		query.SortColumn = column
	}

	// the sort order ends up in the order by clause so nothing but the two known values may
	// pass
	switch params.SortOrder {
	case "":
	case "asc", "desc":
		query.SortOrder = params.SortOrder
	default:
		return ListQuery{}, errdef.NewBadRequest("unsupported sortOrder %q", params.SortOrder)
	}

	for _, tag := range strings.Split(params.Tags, ",") {
		if tag := strings.TrimSpace(tag); tag != "" {
			query.Tags = append(query.Tags, tag)
		}
	}

	if params.StartDate != "" {
		startDate, err := time.Parse(time.DateOnly, params.StartDate)
		if err != nil {
			return ListQuery{}, errdef.NewBadRequest("error parsing startDate: %v", err)
		}
		query.StartDate = &startDate
	}
	if params.EndDate != "" {
		endDate, err := time.Parse(time.DateOnly, params.EndDate)
		if err != nil {
			return ListQuery{}, errdef.NewBadRequest("error parsing endDate: %v", err)
		}
		query.EndDate = &endDate
	}
	if query.StartDate != nil && query.EndDate != nil && query.EndDate.Before(*query.StartDate) {
		return ListQuery{}, errdef.NewBadRequest("endDate %q precedes startDate %q", params.EndDate, params.StartDate)
	}

	return query, nil
}
