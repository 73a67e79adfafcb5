package event

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/localhive/event-catalog/internal/errdef"
	"github.com/localhive/event-catalog/internal/handler"
	"github.com/localhive/event-catalog/pkg/model"
)

func TestHandler_List(t *testing.T) {
	eventService := &mockEventService{}
	events := []model.Event{{ID: 1}, {ID: 2}}
	eventService.
		On("List", ListQuery{Page: 2, Limit: 10, SortColumn: "event_date", SortOrder: "desc"}).
		Return(events, int64(25), nil)
	eventHandler := NewHandler(eventService)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = newRequest(t, http.MethodGet, "/events?page=2&limit=10")

	eventHandler.List(c)

	require.Len(t, c.Errors.Errors(), 0)
	assert.Equal(t, http.StatusOK, recorder.Code)
	var response ListEventsResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Len(t, response.Events, 2)
	assert.Equal(t, Pagination{Page: 2, Limit: 10, Total: 25, TotalPages: 3}, response.Pagination)
	eventService.AssertExpectations(t)
}

func TestHandler_List_NoMatchesHasZeroPages(t *testing.T) {
	eventService := &mockEventService{}
	eventService.
		On("List", ListQuery{Page: 1, Limit: 10, SortColumn: "event_date", SortOrder: "desc"}).
		Return([]model.Event{}, int64(0), nil)
	eventHandler := NewHandler(eventService)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = newRequest(t, http.MethodGet, "/events")

	eventHandler.List(c)

	require.Len(t, c.Errors.Errors(), 0)
	var response ListEventsResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Empty(t, response.Events)
	assert.Equal(t, Pagination{Page: 1, Limit: 10, Total: 0, TotalPages: 0}, response.Pagination)
	eventService.AssertExpectations(t)
}

func TestHandler_List_NegativePageIsBadRequest(t *testing.T) {
	eventService := &mockEventService{}
	eventHandler := NewHandler(eventService)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = newRequest(t, http.MethodGet, "/events?page=-1")

	eventHandler.List(c)

	require.Len(t, c.Errors.Errors(), 1)
	assert.True(t, errdef.IsBadRequest(c.Errors.Last().Err))
	eventService.AssertExpectations(t)
}

func TestHandler_Random_EmptyCatalogIsNotFound(t *testing.T) {
	eventService := &mockEventService{}
	eventService.
		On("Random").
		Return(nil, errdef.NewNotFound("no events exist"))
	eventHandler := NewHandler(eventService)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = newRequest(t, http.MethodGet, "/events/random")

	eventHandler.Random(c)

	require.Len(t, c.Errors.Errors(), 1)
	assert.True(t, errdef.IsNotFound(c.Errors.Last().Err))
	eventService.AssertExpectations(t)
}

func TestHandler_BatchGet(t *testing.T) {
	eventService := &mockEventService{}
	events := []model.Event{{ID: 1}, {ID: 3}}
	eventService.
		On("FindByIds", []uint{1, 3, 99}).
		Return(events, nil)
	eventHandler := NewHandler(eventService)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = newJSONRequest(t, http.MethodPost, "/events/batch-get", batchGetRequest{Ids: []uint{1, 3, 99}})

	eventHandler.BatchGet(c)

	require.Len(t, c.Errors.Errors(), 0)
	assert.Equal(t, http.StatusOK, recorder.Code)
	var response []model.Event
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Len(t, response, 2)
	eventService.AssertExpectations(t)
}

func TestHandler_Update_NonOwnerIsForbidden(t *testing.T) {
	require.NoError(t, handler.RegisterValidation())
	eventService := &mockEventService{}
	eventService.
		On("FindById", uint(7)).
		Return(&model.Event{ID: 7, UserID: 2}, nil)
	eventHandler := NewHandler(eventService)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Set("user", &model.User{ID: 1})
	c.Params = gin.Params{{Key: "id", Value: "7"}}
	title := "New title"
	c.Request = newJSONRequest(t, http.MethodPut, "/events/7", updateEventRequest{Title: &title})

	eventHandler.Update(c)

	require.Len(t, c.Errors.Errors(), 1)
	assert.True(t, errdef.IsForbidden(c.Errors.Last().Err))
	eventService.AssertExpectations(t)
}

func TestHandler_Delete(t *testing.T) {
	eventService := &mockEventService{}
	event := &model.Event{ID: 7, UserID: 1}
	eventService.
		On("FindById", uint(7)).
		Return(event, nil)
	eventService.
		On("Delete", event).
		Return(nil)
	eventHandler := NewHandler(eventService)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Set("user", &model.User{ID: 1})
	c.Params = gin.Params{{Key: "id", Value: "7"}}
	c.Request = newRequest(t, http.MethodDelete, "/events/7")

	eventHandler.Delete(c)
	c.Writer.WriteHeaderNow()

	require.Len(t, c.Errors.Errors(), 0)
	assert.Equal(t, http.StatusAccepted, recorder.Code)
	eventService.AssertExpectations(t)
}

func TestHandler_Save(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		eventService := &mockEventService{}
		eventService.
			On("SaveForUser", uint(1), uint(7)).
			Return(true, nil)
		eventHandler := NewHandler(eventService)

		recorder := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(recorder)
		c.Set("user", &model.User{ID: 1})
		c.Params = gin.Params{{Key: "id", Value: "7"}}
		c.Request = newRequest(t, http.MethodPost, "/events/7/save")

		eventHandler.Save(c)
		c.Writer.WriteHeaderNow()

		require.Len(t, c.Errors.Errors(), 0)
		assert.Equal(t, http.StatusCreated, recorder.Code)
		eventService.AssertExpectations(t)
	})

	t.Run("already saved", func(t *testing.T) {
		eventService := &mockEventService{}
		eventService.
			On("SaveForUser", uint(1), uint(7)).
			Return(false, nil)
		eventHandler := NewHandler(eventService)

		recorder := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(recorder)
		c.Set("user", &model.User{ID: 1})
		c.Params = gin.Params{{Key: "id", Value: "7"}}
		c.Request = newRequest(t, http.MethodPost, "/events/7/save")

		eventHandler.Save(c)

		require.Len(t, c.Errors.Errors(), 0)
		assert.Equal(t, http.StatusOK, recorder.Code)
		eventService.AssertExpectations(t)
	})
}

func newRequest(t *testing.T, method, target string) *http.Request {
	request, err := http.NewRequest(method, target, nil)
	require.NoError(t, err)
	return request
}

func newJSONRequest(t *testing.T, method, target string, jsonBody any) *http.Request {
	body, err := json.Marshal(jsonBody)
	require.NoError(t, err)

	request, err := http.NewRequest(method, target, bytes.NewReader(body))
	require.NoError(t, err)

	request.Header.Set("Content-Type", "application/json")
	return request
}

type mockEventService struct{ mock.Mock }

func (m *mockEventService) Create(ctx context.Context, user *model.User, event *model.Event) error {
	panic("implement me")
}

func (m *mockEventService) Update(ctx context.Context, event *model.Event) error {
	called := m.Called(event)
	return called.Error(0)
}

func (m *mockEventService) Delete(ctx context.Context, event *model.Event) error {
	called := m.Called(event)
	return called.Error(0)
}

func (m *mockEventService) List(ctx context.Context, query ListQuery) ([]model.Event, int64, error) {
	called := m.Called(query)
	events, _ := called.Get(0).([]model.Event)
	return events, called.Get(1).(int64), called.Error(2)
}

func (m *mockEventService) FindById(ctx context.Context, id uint) (*model.Event, error) {
	called := m.Called(id)
	event, _ := called.Get(0).(*model.Event)
	return event, called.Error(1)
}

func (m *mockEventService) FindByIdentifier(ctx context.Context, identifier string) (*model.Event, error) {
	panic("implement me")
}

func (m *mockEventService) FindByIds(ctx context.Context, ids []uint) ([]model.Event, error) {
	called := m.Called(ids)
	events, _ := called.Get(0).([]model.Event)
	return events, called.Error(1)
}

func (m *mockEventService) Categories(ctx context.Context) ([]string, error) {
	panic("implement me")
}

func (m *mockEventService) Tags(ctx context.Context) ([]string, error) {
	panic("implement me")
}

func (m *mockEventService) Random(ctx context.Context) (*model.Event, error) {
	called := m.Called()
	event, _ := called.Get(0).(*model.Event)
	return event, called.Error(1)
}

func (m *mockEventService) SaveForUser(ctx context.Context, userId, eventId uint) (bool, error) {
	called := m.Called(userId, eventId)
	return called.Bool(0), called.Error(1)
}

func (m *mockEventService) UnsaveForUser(ctx context.Context, userId, eventId uint) error {
	called := m.Called(userId, eventId)
	return called.Error(0)
}

func (m *mockEventService) FindSavedByUser(ctx context.Context, userId uint) ([]model.Event, error) {
	called := m.Called(userId)
	events, _ := called.Get(0).([]model.Event)
	return events, called.Error(1)
}
