package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"todotracker/internal/adapter/auth"
	dbadapter "todotracker/internal/adapter/db"
	httpadapter "todotracker/internal/adapter/http"
	"todotracker/internal/adapter/http/dto"
	"todotracker/internal/adapter/http/handlers"
	"todotracker/internal/adapter/memory"
	appservice "todotracker/internal/app/service"
	"todotracker/pkg/apierrors"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/suite"
)

var suiteToday = time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)

// TasksAPISuite drives the REST surface end to end against a real SQL store.
type TasksAPISuite struct {
	suite.Suite

	OpenDB func(t *testing.T) *sqlx.DB

	DB         *sqlx.DB
	router     *gin.Engine
	token      string
	otherToken string
}

func (s *TasksAPISuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	s.DB = s.OpenDB(s.T())
	s.Require().NoError(dbadapter.Migrate(context.Background(), s.DB))

	resolver := auth.NewJWTIdentityResolver(auth.JWTConfig{SecretKey: "integration-secret"})
	var err error
	s.token, err = resolver.IssueToken("U", time.Hour)
	s.Require().NoError(err)
	s.otherToken, err = resolver.IssueToken("U2", time.Hour)
	s.Require().NoError(err)

	repo := dbadapter.NewTaskRepository(s.DB)
	feed := memory.NewNotificationFeed()
	svc := appservice.NewTaskService(repo,
		appservice.WithClock(func() time.Time { return suiteToday }),
		appservice.WithNotifier(feed),
	)

	s.router = gin.New()
	httpadapter.RegisterRoutes(s.router, httpadapter.Handlers{
		Health:        handlers.NewHealthHandler(repo, s.DB.DriverName()),
		Tasks:         handlers.NewTaskHandler(svc),
		Notifications: handlers.NewNotificationHandler(feed),
	}, resolver)
}

func (s *TasksAPISuite) SetupTest() {
	_, err := s.DB.Exec("DELETE FROM tasks")
	s.Require().NoError(err)
}

func (s *TasksAPISuite) do(method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *TasksAPISuite) create(body string) dto.TaskItem {
	rec := s.do(http.MethodPost, "/api/todos", s.token, body)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	var item dto.TaskItem
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &item))
	return item
}

func (s *TasksAPISuite) list(path string) []string {
	rec := s.do(http.MethodGet, path, s.token, "")
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var items []dto.TaskItem
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &items))
	titles := make([]string, 0, len(items))
	for _, item := range items {
		titles = append(titles, item.Title)
	}
	return titles
}

func (s *TasksAPISuite) stats() dto.StatsResponse {
	rec := s.do(http.MethodGet, "/api/todos/stats", s.token, "")
	s.Require().Equal(http.StatusOK, rec.Code)

	var got dto.StatsResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	return got
}

func (s *TasksAPISuite) TestFullLifecycle() {
	a := s.create(`{"title":"A","priority":"high","dueDate":"2024-01-10"}`)
	b := s.create(`{"title":"B","priority":"low","dueDate":"2024-01-10"}`)
	s.create(`{"title":"C","priority":"high"}`)

	s.Require().Equal("pending", a.Status)
	s.Require().Equal("2024-01-10", *a.DueDate)

	s.Require().ElementsMatch([]string{"A", "B"}, s.list("/api/todos?view=today"))
	s.Require().ElementsMatch([]string{"A", "C"}, s.list("/api/todos?view=important"))
	s.Require().ElementsMatch([]string{"A", "B"}, s.list("/api/todos/date/2024-01-10"))
	s.Require().Equal([]string{"B"}, s.list("/api/todos/priority/low"))
	s.Require().Equal(dto.StatsResponse{Total: 3, Completed: 0, Pending: 3, HighPriority: 2}, s.stats())

	rec := s.do(http.MethodPatch, "/api/todos/"+a.ID, s.token, `{"status":"completed"}`)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Require().Equal(dto.StatsResponse{Total: 3, Completed: 1, Pending: 2, HighPriority: 2}, s.stats())
	s.Require().Equal([]string{"A"}, s.list("/api/todos?view=completed"))

	rec = s.do(http.MethodDelete, "/api/todos/"+b.ID, s.token, "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Require().ElementsMatch([]string{"A", "C"}, s.list("/api/todos"))

	rec = s.do(http.MethodDelete, "/api/todos/"+b.ID, s.token, "")
	s.Require().Equal(http.StatusNotFound, rec.Code)
}

func (s *TasksAPISuite) TestUpdateKeepsWriteOnceFields() {
	task := s.create(`{"title":"t","description":"d","priority":"low","dueDate":"2024-01-12"}`)

	rec := s.do(http.MethodPut, "/api/todos/"+task.ID, s.token, `{"priority":"high","id":"hijack","createdAt":"2000-01-01T00:00:00Z"}`)
	s.Require().Equal(http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/api/todos/"+task.ID, s.token, "")
	s.Require().Equal(http.StatusOK, rec.Code)

	var got dto.TaskItem
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	s.Require().Equal(task.ID, got.ID)
	s.Require().Equal(task.CreatedAt, got.CreatedAt)
	s.Require().Equal("high", got.Priority)
	s.Require().Equal("d", got.Description)
	s.Require().Equal("2024-01-12", *got.DueDate)

	rec = s.do(http.MethodPatch, "/api/todos/"+task.ID, s.token, `{"dueDate":null}`)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	s.Require().Nil(got.DueDate)
}

func (s *TasksAPISuite) TestOwnershipIsolation() {
	task := s.create(`{"title":"private"}`)

	for _, method := range []string{http.MethodGet, http.MethodPatch, http.MethodDelete} {
		body := ""
		if method == http.MethodPatch {
			body = `{"title":"mine"}`
		}
		rec := s.do(method, "/api/todos/"+task.ID, s.otherToken, body)
		s.Require().Equal(http.StatusNotFound, rec.Code, method)
	}

	rec := s.do(http.MethodGet, "/api/todos", s.otherToken, "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Require().JSONEq(`[]`, rec.Body.String())
}

func (s *TasksAPISuite) TestRejectsInvalidInput() {
	rec := s.do(http.MethodPost, "/api/todos", s.token, `{"title":"   "}`)
	s.Require().Equal(http.StatusBadRequest, rec.Code)

	var got apierrors.JsonErr
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	s.Require().Equal("title", got.ErrDetails.Field)

	task := s.create(`{"title":"t"}`)
	rec = s.do(http.MethodPatch, "/api/todos/"+task.ID, s.token, `{"title":"renamed","priority":"urgent"}`)
	s.Require().Equal(http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodGet, "/api/todos/"+task.ID, s.token, "")
	var item dto.TaskItem
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &item))
	s.Require().Equal("t", item.Title)
}

func (s *TasksAPISuite) TestEnumerationsAreCaseSensitive() {
	cases := []struct {
		method, path, body, field string
	}{
		{method: http.MethodPost, path: "/api/todos", body: `{"title":"t","priority":"HIGH"}`, field: "priority"},
		{method: http.MethodPost, path: "/api/todos", body: `{"title":"t","status":" Completed"}`, field: "status"},
		{method: http.MethodGet, path: "/api/todos/priority/HIGH", field: "priority"},
		{method: http.MethodGet, path: "/api/todos?view=priority&priority=HIGH", field: "priority"},
	}

	for _, tc := range cases {
		rec := s.do(tc.method, tc.path, s.token, tc.body)
		s.Require().Equal(http.StatusBadRequest, rec.Code, tc.path+" "+tc.body)

		var got apierrors.JsonErr
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
		s.Require().Equal(tc.field, got.ErrDetails.Field)
	}

	task := s.create(`{"title":"t"}`)
	rec := s.do(http.MethodPatch, "/api/todos/"+task.ID, s.token, `{"priority":"Low"}`)
	s.Require().Equal(http.StatusBadRequest, rec.Code)
}

func (s *TasksAPISuite) TestNotificationsFollowTaskChanges() {
	task := s.create(`{"title":"water plants"}`)
	rec := s.do(http.MethodPatch, "/api/todos/"+task.ID, s.token, `{"status":"completed"}`)
	s.Require().Equal(http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/api/notifications", s.token, "")
	s.Require().Equal(http.StatusOK, rec.Code)

	var items []dto.NotificationItem
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &items))
	messages := make([]string, 0, len(items))
	for _, item := range items {
		messages = append(messages, item.Message)
	}
	s.Require().Contains(messages, `Task "water plants" created`)
	s.Require().Contains(messages, `Task "water plants" completed`)

	rec = s.do(http.MethodGet, "/api/notifications", s.otherToken, "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Require().JSONEq(`[]`, rec.Body.String())
}

func (s *TasksAPISuite) TestRequiresToken() {
	rec := s.do(http.MethodGet, "/api/todos", "", "")
	s.Require().Equal(http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodGet, "/api/todos", "not-a-jwt", "")
	s.Require().Equal(http.StatusUnauthorized, rec.Code)
}

func (s *TasksAPISuite) TestHealthReportsStore() {
	rec := s.do(http.MethodGet, "/api/health/report", "", "")
	s.Require().Equal(http.StatusOK, rec.Code)

	var report handlers.HealthAdvanced
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &report))
	s.Require().Equal(handlers.StatusOk, report.Status.Store)
}
