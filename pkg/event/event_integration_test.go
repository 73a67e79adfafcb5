package event_test

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localhive/event-catalog/pkg/event"
	"github.com/localhive/event-catalog/pkg/inttest"
	"github.com/localhive/event-catalog/pkg/model"
)

func TestEventHandler(t *testing.T) {
	t.Parallel()

	db := inttest.SetupDB(t)

	user1 := &model.User{Email: "organizer1@localhive.org", DisplayName: "Organizer One", Validated: true}
	require.NoError(t, db.Create(user1).Error)
	user2 := &model.User{Email: "organizer2@localhive.org", DisplayName: "Organizer Two", Validated: true}
	require.NoError(t, db.Create(user2).Error)

	users := map[string]*model.User{
		"user1": user1,
		"user2": user2,
	}
	authenticator := func(c *gin.Context) {
		if user, ok := users[c.GetHeader("X-Test-User")]; ok {
			c.Set("user", user)
			return
		}
		c.AbortWithStatus(http.StatusUnauthorized)
	}
	asUser1 := inttest.WithHeader("X-Test-User", "user1")
	asUser2 := inttest.WithHeader("X-Test-User", "user2")

	eventService := event.NewService(event.NewRepository(db), nopPublisher{})
	client := inttest.SetupHTTPServer(t, func(engine *gin.Engine) {
		event.Routes(engine, authenticator, event.NewHandler(eventService))
	})

	var event1 model.Event
	{
		t.Log("CreateAppliesDefaults")

		client.PostJSON(t, "/events", strings.NewReader(`{
			"title":               "Spring Market",
			"description":         "Stalls and street food on the square",
			"eventDate":           "2026-04-05",
			"eventTime":           "10:00",
			"locationDescription": "Town square",
			"category":            "market",
			"tags":                ["family", "outdoor"]
		}`), &event1, asUser1)

		require.NotZero(t, event1.ID)
		require.Equal(t, "2026-04-05", event1.EventDate.Format(time.DateOnly))
		require.Equal(t, "Organizer One", event1.OrganizerName, "organizer name should default to the user's display name")
		require.Equal(t, user1.ID, event1.UserID)
		require.True(t, strings.HasPrefix(event1.Slug, "spring-market-"), "slug %q should be derived from the title", event1.Slug)
	}

	var event2 model.Event
	{
		t.Log("CreateKeepsExplicitOrganizerName")

		client.PostJSON(t, "/events", strings.NewReader(`{
			"title":         "Summer Concert",
			"description":   "Open air concert by the river",
			"eventDate":     "2026-07-10",
			"organizerName": "Riverside Stage",
			"category":      "music",
			"tags":          ["music", "outdoor"],
			"websiteUrl":    "https://riverside-stage.example.org"
		}`), &event2, asUser1)

		require.Equal(t, "Riverside Stage", event2.OrganizerName)
		require.Equal(t, "https://riverside-stage.example.org", event2.WebsiteUrl)
	}

	var event3, event4, event5, event6 model.Event
	{
		client.PostJSON(t, "/events", strings.NewReader(`{
			"title":       "Autumn Book Fair",
			"description": "Used books and readings",
			"eventDate":   "2026-10-03",
			"category":    "books",
			"tags":        ["books", "family"]
		}`), &event3, asUser1)
		client.PostJSON(t, "/events", strings.NewReader(`{
			"title":       "Winter Film Night",
			"description": "Classics at the community hall",
			"eventDate":   "2026-12-18",
			"category":    "film",
			"tags":        [" film", "indoor"]
		}`), &event4, asUser2)
		client.PostJSON(t, "/events", strings.NewReader(`{
			"title":       "Jazz Evening",
			"description": "Trio session",
			"eventDate":   "2026-08-21",
			"category":    "music",
			"tags":        ["music", "indoor"]
		}`), &event5, asUser2)
		client.PostJSON(t, "/events", strings.NewReader(`{
			"title":       "Neighborhood Cleanup",
			"description": "Gloves and bags provided",
			"eventDate":   "2026-05-30"
		}`), &event6, asUser1)
	}

	{
		t.Log("CreateRequiresAuthentication")

		client.Do(t, http.MethodPost, "/events", nil, http.StatusUnauthorized)
	}

	{
		t.Log("CreateWithBlankTitleIsBadRequest")

		client.Do(t, http.MethodPost, "/events", strings.NewReader(`{
			"title":       "   ",
			"description": "No title",
			"eventDate":   "2026-04-05"
		}`), http.StatusBadRequest, asUser1, inttest.WithHeader("Content-Type", "application/json"))
	}

	{
		t.Log("ListNewestEventDateFirst")

		var response event.ListEventsResponse
		client.GetJSON(t, "/events", &response)

		assert.Equal(t, event.Pagination{Page: 1, Limit: 10, Total: 6, TotalPages: 1}, response.Pagination)
		assert.Equal(t, []string{"Winter Film Night", "Autumn Book Fair", "Jazz Evening", "Summer Concert", "Neighborhood Cleanup", "Spring Market"}, titles(response.Events))
	}

	{
		t.Log("Pagination")

		var response event.ListEventsResponse
		client.GetJSON(t, "/events?limit=2&page=2", &response)

		assert.Equal(t, event.Pagination{Page: 2, Limit: 2, Total: 6, TotalPages: 3}, response.Pagination)
		assert.Equal(t, []string{"Jazz Evening", "Summer Concert"}, titles(response.Events))

		t.Log("PageBeyondTheLastIsEmpty")

		client.GetJSON(t, "/events?limit=2&page=4", &response)

		assert.Equal(t, event.Pagination{Page: 4, Limit: 2, Total: 6, TotalPages: 3}, response.Pagination)
		assert.Empty(t, response.Events)
	}

	{
		t.Log("FilterByCategory")

		var response event.ListEventsResponse
		client.GetJSON(t, "/events?category=music", &response)

		assert.Equal(t, []string{"Jazz Evening", "Summer Concert"}, titles(response.Events))
	}

	{
		t.Log("FilterByTagsMatchesAnyOfThem")

		var response event.ListEventsResponse
		client.GetJSON(t, "/events?tags=family,music", &response)

		assert.Equal(t, []string{"Autumn Book Fair", "Jazz Evening", "Summer Concert", "Spring Market"}, titles(response.Events))
	}

	{
		t.Log("FilterByDateWindowIncludesBothBounds")

		var response event.ListEventsResponse
		client.GetJSON(t, "/events?startDate=2026-07-10&endDate=2026-10-03", &response)

		assert.Equal(t, []string{"Autumn Book Fair", "Jazz Evening", "Summer Concert"}, titles(response.Events))

		t.Log("EndDateBeforeStartDateIsBadRequest")

		client.Do(t, http.MethodGet, "/events?startDate=2026-10-03&endDate=2026-07-10", nil, http.StatusBadRequest)
	}

	{
		t.Log("FiltersCombineAsAnd")

		var response event.ListEventsResponse
		client.GetJSON(t, "/events?category=music&tags=indoor", &response)

		assert.Equal(t, []string{"Jazz Evening"}, titles(response.Events))
	}

	{
		t.Log("SearchSpansTextColumns")

		var response event.ListEventsResponse
		client.GetJSON(t, "/events?search=RIVERSIDE", &response)

		assert.Equal(t, []string{"Summer Concert"}, titles(response.Events), "search should match the organizer name case insensitively")

		client.GetJSON(t, "/events?search=town+square", &response)

		assert.Equal(t, []string{"Spring Market"}, titles(response.Events), "search should match the location description")
	}

	{
		t.Log("SortByTitleAscending")

		var response event.ListEventsResponse
		client.GetJSON(t, "/events?sortBy=title&sortOrder=asc", &response)

		assert.Equal(t, []string{"Autumn Book Fair", "Jazz Evening", "Neighborhood Cleanup", "Spring Market", "Summer Concert", "Winter Film Night"}, titles(response.Events))

		t.Log("UnknownSortByIsBadRequest")

		client.Do(t, http.MethodGet, "/events?sortBy=password", nil, http.StatusBadRequest)
	}

	{
		t.Log("CategoriesAreDistinctSortedAndNonEmpty")

		var categories []string
		client.GetJSON(t, "/events/categories", &categories)

		assert.Equal(t, []string{"books", "film", "market", "music"}, categories)
	}

	{
		t.Log("TagsAreDistinctTrimmedAndSorted")

		var tags []string
		client.GetJSON(t, "/events/tags", &tags)

		assert.Equal(t, []string{"books", "family", "film", "indoor", "music", "outdoor"}, tags)
	}

	{
		t.Log("RandomReturnsSomeEvent")

		var randomEvent model.Event
		client.GetJSON(t, "/events/random", &randomEvent)

		assert.NotZero(t, randomEvent.ID)
		assert.NotEmpty(t, randomEvent.Title)
	}

	{
		t.Log("BatchGetOmitsMissingIds")

		body := strings.NewReader(fmt.Sprintf(`{"ids": [%d, %d, 999999]}`, event1.ID, event3.ID))
		response := client.Do(t, http.MethodPost, "/events/batch-get", body, http.StatusOK, inttest.WithHeader("Content-Type", "application/json"))

		assert.Contains(t, string(response), event1.Title)
		assert.Contains(t, string(response), event3.Title)

		t.Log("BatchGetWithoutIdsIsBadRequest")

		client.Do(t, http.MethodPost, "/events/batch-get", strings.NewReader(`{"ids": []}`), http.StatusBadRequest, inttest.WithHeader("Content-Type", "application/json"))
	}

	{
		t.Log("FindByIdOrSlug")

		var byId model.Event
		client.GetJSON(t, fmt.Sprintf("/events/%d", event1.ID), &byId)
		assert.Equal(t, event1.ID, byId.ID)

		var bySlug model.Event
		client.GetJSON(t, "/events/"+event1.Slug, &bySlug)
		assert.Equal(t, event1.ID, bySlug.ID)

		t.Log("UnknownIdAndSlugAreNotFound")

		client.Do(t, http.MethodGet, "/events/999999", nil, http.StatusNotFound)
		client.Do(t, http.MethodGet, "/events/no-such-event", nil, http.StatusNotFound)
	}

	{
		t.Log("SaveEvent")

		client.Post(t, fmt.Sprintf("/events/%d/save", event1.ID), nil, asUser2)
		client.Post(t, fmt.Sprintf("/events/%d/save", event2.ID), nil, asUser2)

		t.Log("SavingAgainLeavesTheOriginalSave")

		client.Do(t, http.MethodPost, fmt.Sprintf("/events/%d/save", event1.ID), nil, http.StatusOK, asUser2)

		t.Log("SavedEventsAreListedMostRecentlySavedFirst")

		var saved []model.Event
		client.GetJSON(t, "/saved-events", &saved, asUser2)
		assert.Equal(t, []uint{event2.ID, event1.ID}, ids(saved))

		t.Log("SavingAMissingEventIsNotFound")

		client.Do(t, http.MethodPost, "/events/999999/save", nil, http.StatusNotFound, asUser2)
	}

	{
		t.Log("UnsaveEvent")

		client.Delete(t, fmt.Sprintf("/events/%d/save", event1.ID), asUser2)

		t.Log("UnsavingAnEventThatIsNotSavedSucceeds")

		client.Delete(t, fmt.Sprintf("/events/%d/save", event1.ID), asUser2)

		var saved []model.Event
		client.GetJSON(t, "/saved-events", &saved, asUser2)
		assert.Equal(t, []uint{event2.ID}, ids(saved))
	}

	{
		t.Log("UpdateByOwnerChangesOnlyTheFieldsSent")

		var updated model.Event
		client.PutJSON(t, fmt.Sprintf("/events/%d", event1.ID), strings.NewReader(`{
			"title":     "Spring Market Extended",
			"eventTime": "09:00"
		}`), &updated, asUser1)

		assert.Equal(t, "Spring Market Extended", updated.Title)
		assert.Equal(t, "09:00", updated.EventTime)
		assert.Equal(t, "Stalls and street food on the square", updated.Description)
		assert.Equal(t, "market", updated.Category)
		assert.Equal(t, event1.Slug, updated.Slug, "the slug is assigned on creation and never changes")
		assert.Equal(t, "2026-04-05", updated.EventDate.Format(time.DateOnly))

		t.Log("UpdateByAnotherUserIsForbidden")

		client.Do(t, http.MethodPut, fmt.Sprintf("/events/%d", event1.ID), strings.NewReader(`{"title": "Hijacked"}`),
			http.StatusForbidden, asUser2, inttest.WithHeader("Content-Type", "application/json"))

		t.Log("UpdateRequiresAuthentication")

		client.Do(t, http.MethodPut, fmt.Sprintf("/events/%d", event1.ID), nil, http.StatusUnauthorized)
	}

	{
		t.Log("DeleteByAnotherUserIsForbidden")

		client.Do(t, http.MethodDelete, fmt.Sprintf("/events/%d", event6.ID), nil, http.StatusForbidden, asUser2)

		t.Log("DeleteByOwner")

		client.Post(t, fmt.Sprintf("/events/%d/save", event6.ID), nil, asUser2)
		client.Delete(t, fmt.Sprintf("/events/%d", event6.ID), asUser1)

		client.Do(t, http.MethodGet, fmt.Sprintf("/events/%d", event6.ID), nil, http.StatusNotFound)

		t.Log("SavesOfADeletedEventAreHiddenButKept")

		var saved []model.Event
		client.GetJSON(t, "/saved-events", &saved, asUser2)
		assert.Equal(t, []uint{event2.ID}, ids(saved))

		var danglingSaves int64
		require.NoError(t, db.Model(&model.UserSavedEvent{}).Where("event_id = ?", event6.ID).Count(&danglingSaves).Error)
		assert.Equal(t, int64(1), danglingSaves, "the save row should outlive the event")

		var response event.ListEventsResponse
		client.GetJSON(t, "/events", &response)
		assert.Equal(t, int64(5), response.Pagination.Total)
	}

	t.Run("SavedEventsRequireAuthentication", func(t *testing.T) {
		t.Parallel()

		client.Do(t, http.MethodGet, "/saved-events", nil, http.StatusUnauthorized)
	})
}

func titles(events []model.Event) []string {
	titles := make([]string, 0, len(events))
	for _, event := range events {
		titles = append(titles, event.Title)
	}
	return titles
}

func ids(events []model.Event) []uint {
	ids := make([]uint, 0, len(events))
	for _, event := range events {
		ids = append(ids, event.ID)
	}
	return ids
}

type nopPublisher struct{}

func (nopPublisher) PublishActivity(context.Context, string, *model.Event) {}
