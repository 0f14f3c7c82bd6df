package services

import (
	"context"
	"strings"
)

// TaskStore is the Redis-backed Tasks implementation.
type TaskStore struct {
	repo
}

func validTaskStatus(status string) bool {
	switch status {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusReview, TaskStatusDone:
		return true
	}
	return false
}

func (s *TaskStore) Create(ctx context.Context, draft TaskDraft, userID string) (*Task, error) {
	// The task must hang off an existing project.
	var p Project
	if err := s.loadJSON(ctx, projectKeyPrefix+draft.ProjectID, &p); err != nil {
		return nil, err
	}

	now := s.now()
	t := Task{
		ID:             s.newID(),
		ProjectID:      draft.ProjectID,
		Title:          draft.Title,
		Description:    draft.Description,
		Status:         draft.Status,
		Priority:       draft.Priority,
		AssigneeID:     draft.AssigneeID,
		RequiredSkills: draft.RequiredSkills,
		EstimateHours:  draft.EstimateHours,
		DueDate:        draft.DueDate,
		ClientID:       draft.ClientID,
		OrganizationID: draft.OrganizationID,
		CreatedBy:      userID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if t.Status == "" {
		t.Status = TaskStatusTodo
	}
	if !validTaskStatus(t.Status) {
		return nil, ErrInvalidStatus
	}
	if t.ClientID == "" {
		t.ClientID = p.ClientID
	}
	if t.OrganizationID == "" {
		t.OrganizationID = p.OrganizationID
	}

	if err := s.saveJSON(ctx, taskKeyPrefix+t.ID, taskIndexKey, t.ID, t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *TaskStore) Get(ctx context.Context, id string) (*Task, error) {
	var t Task
	if err := s.loadJSON(ctx, taskKeyPrefix+id, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *TaskStore) List(ctx context.Context, filter TaskFilter) ([]Task, error) {
	all, err := s.allTasks(ctx)
	if err != nil {
		return nil, err
	}

	matched := all[:0]
	for _, t := range all {
		if !filter.Scope.Matches(t.ClientID, t.OrganizationID) {
			continue
		}
		if filter.ProjectID != "" && t.ProjectID != filter.ProjectID {
			continue
		}
		if filter.AssigneeID != "" && t.AssigneeID != filter.AssigneeID {
			continue
		}
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		matched = append(matched, t)
	}

	lo, hi := filter.window(len(matched))
	return matched[lo:hi], nil
}

func (s *TaskStore) Update(ctx context.Context, id string, update TaskUpdate, userID string) (*Task, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Title != nil {
		t.Title = *update.Title
	}
	if update.Description != nil {
		t.Description = *update.Description
	}
	if update.Priority != nil {
		t.Priority = *update.Priority
	}
	if update.RequiredSkills != nil {
		t.RequiredSkills = *update.RequiredSkills
	}
	if update.EstimateHours != nil {
		t.EstimateHours = *update.EstimateHours
	}
	if update.DueDate != nil {
		t.DueDate = *update.DueDate
	}
	t.UpdatedAt = s.now()

	if err := s.saveJSON(ctx, taskKeyPrefix+id, taskIndexKey, id, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TaskStore) Delete(ctx context.Context, id, userID string) error {
	return s.deleteJSON(ctx, taskKeyPrefix+id, taskIndexKey, id)
}

func (s *TaskStore) Assign(ctx context.Context, id, memberID, userID string) (*Task, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var m TeamMember
	if err := s.loadJSON(ctx, memberKeyPrefix+memberID, &m); err != nil {
		return nil, err
	}

	t.AssigneeID = memberID
	if t.Status == TaskStatusTodo {
		t.Status = TaskStatusInProgress
	}
	t.UpdatedAt = s.now()

	if err := s.saveJSON(ctx, taskKeyPrefix+id, taskIndexKey, id, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TaskStore) AddComment(ctx context.Context, id, body, userID string) (*Task, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	t.Comments = append(t.Comments, Comment{
		ID:        s.newID(),
		AuthorID:  userID,
		Body:      body,
		CreatedAt: s.now(),
	})
	t.UpdatedAt = s.now()

	if err := s.saveJSON(ctx, taskKeyPrefix+id, taskIndexKey, id, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TaskStore) UpdateStatus(ctx context.Context, id, status, userID string) (*Task, error) {
	if !validTaskStatus(status) {
		return nil, ErrInvalidStatus
	}

	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	t.Status = status
	t.UpdatedAt = s.now()

	if err := s.saveJSON(ctx, taskKeyPrefix+id, taskIndexKey, id, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TaskStore) Search(ctx context.Context, term string, scope Scope) ([]Task, error) {
	all, err := s.allTasks(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(term)
	var out []Task
	for _, t := range all {
		if !scope.Matches(t.ClientID, t.OrganizationID) {
			continue
		}
		if strings.Contains(strings.ToLower(t.Title), needle) ||
			strings.Contains(strings.ToLower(t.Description), needle) {
			out = append(out, t)
		}
	}
	return out, nil
}
