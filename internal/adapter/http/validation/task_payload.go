package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"todotracker/internal/adapter/http/dto"
	"todotracker/internal/core/domain"
)

// DecodeTaskBody unmarshals a JSON object body into req and also returns the
// raw members, so presence and explicit nulls can be told apart.
func DecodeTaskBody(body []byte, req any) (map[string]json.RawMessage, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		return nil, domain.NewValidationError("body", "must be a JSON object")
	}

	if err := json.Unmarshal(body, req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return nil, domain.NewValidationError(typeErr.Field, "has the wrong type")
		}
		return nil, domain.NewValidationError("body", "must be a JSON object")
	}
	return raw, nil
}

func BuildCreateTaskInput(req dto.CreateTaskRequest, raw map[string]json.RawMessage) (domain.CreateTaskInput, error) {
	if !hasJSONField(raw, "title") || isJSONNull(raw["title"]) {
		return domain.CreateTaskInput{}, domain.NewValidationError("title", "is required")
	}

	input := domain.CreateTaskInput{Title: req.Title}
	if req.Description != nil {
		input.Description = *req.Description
	}
	if req.Priority != nil {
		input.Priority = domain.TaskPriority(*req.Priority)
	}
	if req.Status != nil {
		input.Status = domain.TaskStatus(*req.Status)
	}

	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		return domain.CreateTaskInput{}, err
	}
	input.DueDate = dueDate

	return input, nil
}

// BuildUpdateTaskInput keeps only the editable members of the body. A
// dueDate of null or "" clears the date; other nulls are rejected.
func BuildUpdateTaskInput(req dto.UpdateTaskRequest, raw map[string]json.RawMessage) (domain.UpdateTaskInput, error) {
	var input domain.UpdateTaskInput

	for _, field := range []string{"title", "priority", "status"} {
		if hasJSONField(raw, field) && isJSONNull(raw[field]) {
			return domain.UpdateTaskInput{}, domain.NewValidationError(field, "must not be null")
		}
	}

	input.Title = req.Title

	if hasJSONField(raw, "description") {
		description := ""
		if req.Description != nil {
			description = *req.Description
		}
		input.Description = &description
	}

	if req.Priority != nil {
		priority := domain.TaskPriority(*req.Priority)
		input.Priority = &priority
	}

	if req.Status != nil {
		status := domain.TaskStatus(*req.Status)
		input.Status = &status
	}

	if hasJSONField(raw, "dueDate") {
		dueDate, err := parseDueDate(req.DueDate)
		if err != nil {
			return domain.UpdateTaskInput{}, err
		}
		input.DueDate = dueDate
		input.DueDateSet = true
	}

	return input, nil
}

// ParseQueryDate reads a calendar date from a path or query parameter.
func ParseQueryDate(value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, domain.NewValidationError("date", "is required")
	}
	return domain.ParseDate("date", value)
}

func parseDueDate(value *string) (*time.Time, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	parsed, err := domain.ParseDate("dueDate", *value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func hasJSONField(raw map[string]json.RawMessage, field string) bool {
	_, ok := raw[field]
	return ok
}

func isJSONNull(value json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(value), []byte("null"))
}
