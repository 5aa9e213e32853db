package tests

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	httpadapter "todotracker/internal/adapter/http"
	"todotracker/internal/adapter/http/handlers"
	"todotracker/internal/core/domain"
	"todotracker/pkg/apierrors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	validToken = "token-u1"
	callerID   = "U1"
)

type taskServiceMock struct {
	mock.Mock
}

func (m *taskServiceMock) CreateTask(ctx context.Context, ownerID string, input domain.CreateTaskInput) (domain.Task, error) {
	args := m.Called(ctx, ownerID, input)
	return args.Get(0).(domain.Task), args.Error(1)
}

func (m *taskServiceMock) GetTask(ctx context.Context, ownerID, id string) (domain.Task, error) {
	args := m.Called(ctx, ownerID, id)
	return args.Get(0).(domain.Task), args.Error(1)
}

func (m *taskServiceMock) ListTasks(ctx context.Context, ownerID string, q domain.TaskQuery) ([]domain.Task, error) {
	args := m.Called(ctx, ownerID, q)

	var tasks []domain.Task
	if value := args.Get(0); value != nil {
		tasks = value.([]domain.Task)
	}
	return tasks, args.Error(1)
}

func (m *taskServiceMock) UpdateTask(ctx context.Context, ownerID, id string, input domain.UpdateTaskInput) (domain.Task, error) {
	args := m.Called(ctx, ownerID, id, input)
	return args.Get(0).(domain.Task), args.Error(1)
}

func (m *taskServiceMock) DeleteTask(ctx context.Context, ownerID, id string) error {
	return m.Called(ctx, ownerID, id).Error(0)
}

func (m *taskServiceMock) GetStats(ctx context.Context, ownerID string) (domain.TaskStats, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(domain.TaskStats), args.Error(1)
}

type notificationFeedMock struct {
	mock.Mock
}

func (m *notificationFeedMock) ListNotifications(ctx context.Context, ownerID string) ([]domain.Notification, error) {
	args := m.Called(ctx, ownerID)

	var notifications []domain.Notification
	if value := args.Get(0); value != nil {
		notifications = value.([]domain.Notification)
	}
	return notifications, args.Error(1)
}

// staticIdentity accepts exactly one token.
type staticIdentity struct{}

func (staticIdentity) ResolveCaller(_ context.Context, token string) (string, error) {
	if token == validToken {
		return callerID, nil
	}
	return "", domain.ErrUnauthenticated
}

type pingStub struct {
	err error
}

func (p pingStub) Ping(context.Context) error {
	return p.err
}

func newRouter(service *taskServiceMock, feed *notificationFeedMock) *gin.Engine {
	router := gin.New()
	httpadapter.RegisterRoutes(router, httpadapter.Handlers{
		Health:        handlers.NewHealthHandler(pingStub{}, "memory"),
		Tasks:         handlers.NewTaskHandler(service),
		Notifications: handlers.NewNotificationHandler(feed),
	}, staticIdentity{})
	return router
}

func doRequest(router http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+validToken)
	for k, v := range headers {
		if v == "" {
			req.Header.Del(k)
			continue
		}
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) apierrors.Err {
	t.Helper()
	var got apierrors.JsonErr
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, rec.Code, got.ErrDetails.Code)
	return got.ErrDetails
}
