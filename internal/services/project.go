package services

import (
	"context"
	"strings"
)

// ProjectStore is the Redis-backed Projects implementation.
type ProjectStore struct {
	repo
}

func (s *ProjectStore) Create(ctx context.Context, draft ProjectDraft, userID string) (*Project, error) {
	now := s.now()
	p := Project{
		ID:             s.newID(),
		Name:           draft.Name,
		Description:    draft.Description,
		Status:         draft.Status,
		ClientID:       draft.ClientID,
		OrganizationID: draft.OrganizationID,
		TeamMemberIDs:  draft.TeamMemberIDs,
		StartDate:      draft.StartDate,
		DueDate:        draft.DueDate,
		CreatedBy:      userID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if p.Status == "" {
		p.Status = "active"
	}

	if err := s.saveJSON(ctx, projectKeyPrefix+p.ID, projectIndexKey, p.ID, p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ProjectStore) Get(ctx context.Context, id string) (*Project, error) {
	var p Project
	if err := s.loadJSON(ctx, projectKeyPrefix+id, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ProjectStore) List(ctx context.Context, filter ListFilter) ([]Project, error) {
	all, err := s.allProjects(ctx)
	if err != nil {
		return nil, err
	}

	matched := all[:0]
	for _, p := range all {
		if !filter.Scope.Matches(p.ClientID, p.OrganizationID) {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		matched = append(matched, p)
	}

	lo, hi := filter.window(len(matched))
	return matched[lo:hi], nil
}

func (s *ProjectStore) Update(ctx context.Context, id string, update ProjectUpdate, userID string) (*Project, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		p.Name = *update.Name
	}
	if update.Description != nil {
		p.Description = *update.Description
	}
	if update.Status != nil {
		p.Status = *update.Status
	}
	if update.StartDate != nil {
		p.StartDate = *update.StartDate
	}
	if update.DueDate != nil {
		p.DueDate = *update.DueDate
	}
	if update.TeamMembers != nil {
		p.TeamMemberIDs = *update.TeamMembers
	}
	p.UpdatedAt = s.now()

	if err := s.saveJSON(ctx, projectKeyPrefix+id, projectIndexKey, id, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProjectStore) Delete(ctx context.Context, id, userID string) error {
	return s.deleteJSON(ctx, projectKeyPrefix+id, projectIndexKey, id)
}

func (s *ProjectStore) Search(ctx context.Context, term string, scope Scope) ([]Project, error) {
	all, err := s.allProjects(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(term)
	var out []Project
	for _, p := range all {
		if !scope.Matches(p.ClientID, p.OrganizationID) {
			continue
		}
		if strings.Contains(strings.ToLower(p.Name), needle) ||
			strings.Contains(strings.ToLower(p.Description), needle) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *ProjectStore) GetTasks(ctx context.Context, id string) ([]Task, error) {
	// Confirm the project exists so callers can tell "no tasks" apart
	// from "no such project".
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	all, err := s.allTasks(ctx)
	if err != nil {
		return nil, err
	}
	var out []Task
	for _, t := range all {
		if t.ProjectID == id {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *ProjectStore) AddTeamMember(ctx context.Context, id, memberID, userID string) (*Project, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var m TeamMember
	if err := s.loadJSON(ctx, memberKeyPrefix+memberID, &m); err != nil {
		return nil, err
	}

	for _, existing := range p.TeamMemberIDs {
		if existing == memberID {
			return p, nil
		}
	}
	p.TeamMemberIDs = append(p.TeamMemberIDs, memberID)
	p.UpdatedAt = s.now()

	if err := s.saveJSON(ctx, projectKeyPrefix+id, projectIndexKey, id, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProjectStore) GetStatus(ctx context.Context, id string) (*ProjectStatus, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	tasks, err := s.GetTasks(ctx, id)
	if err != nil {
		return nil, err
	}

	counts := map[string]int{}
	done := 0
	for _, t := range tasks {
		counts[t.Status]++
		if t.Status == TaskStatusDone {
			done++
		}
	}

	completion := 0.0
	if len(tasks) > 0 {
		completion = float64(done) / float64(len(tasks))
	}

	return &ProjectStatus{
		ProjectID:  id,
		Status:     p.Status,
		TaskCounts: counts,
		TotalTasks: len(tasks),
		Completion: completion,
	}, nil
}
