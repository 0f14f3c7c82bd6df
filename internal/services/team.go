package services

import (
	"context"
	"strings"
)

func normalizeSkill(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// TeamStore is the Redis-backed Team implementation.
type TeamStore struct {
	repo
}

func (s *TeamStore) Create(ctx context.Context, draft MemberDraft, userID string) (*TeamMember, error) {
	now := s.now()
	m := TeamMember{
		ID:             s.newID(),
		Name:           draft.Name,
		Email:          draft.Email,
		Role:           draft.Role,
		Skills:         draft.Skills,
		CapacityHours:  draft.CapacityHours,
		Available:      true,
		OrganizationID: draft.OrganizationID,
		CreatedBy:      userID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if draft.Available != nil {
		m.Available = *draft.Available
	}

	if err := s.saveJSON(ctx, memberKeyPrefix+m.ID, memberIndexKey, m.ID, m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *TeamStore) Get(ctx context.Context, id string) (*TeamMember, error) {
	var m TeamMember
	if err := s.loadJSON(ctx, memberKeyPrefix+id, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *TeamStore) List(ctx context.Context, filter ListFilter) ([]TeamMember, error) {
	all, err := s.allMembers(ctx)
	if err != nil {
		return nil, err
	}

	matched := all[:0]
	for _, m := range all {
		// Members carry no client scoping; only the organization applies.
		if filter.Scope.OrganizationID != "" && filter.Scope.OrganizationID != m.OrganizationID {
			continue
		}
		matched = append(matched, m)
	}

	lo, hi := filter.window(len(matched))
	return matched[lo:hi], nil
}

func (s *TeamStore) Update(ctx context.Context, id string, update MemberUpdate, userID string) (*TeamMember, error) {
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		m.Name = *update.Name
	}
	if update.Email != nil {
		m.Email = *update.Email
	}
	if update.Role != nil {
		m.Role = *update.Role
	}
	if update.CapacityHours != nil {
		m.CapacityHours = *update.CapacityHours
	}
	if update.Available != nil {
		m.Available = *update.Available
	}
	m.UpdatedAt = s.now()

	if err := s.saveJSON(ctx, memberKeyPrefix+id, memberIndexKey, id, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *TeamStore) Delete(ctx context.Context, id, userID string) error {
	return s.deleteJSON(ctx, memberKeyPrefix+id, memberIndexKey, id)
}

func (s *TeamStore) GetAvailable(ctx context.Context, scope Scope, skills []string) ([]TeamMember, error) {
	all, err := s.allMembers(ctx)
	if err != nil {
		return nil, err
	}

	var out []TeamMember
	for _, m := range all {
		if !m.Available {
			continue
		}
		if scope.OrganizationID != "" && scope.OrganizationID != m.OrganizationID {
			continue
		}
		if len(skills) > 0 && len(matchedSkills(m.Skills, skills)) == 0 {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (s *TeamStore) UpdateSkills(ctx context.Context, id string, skills []string, userID string) (*TeamMember, error) {
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	m.Skills = skills
	m.UpdatedAt = s.now()

	if err := s.saveJSON(ctx, memberKeyPrefix+id, memberIndexKey, id, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *TeamStore) GetWorkload(ctx context.Context, id string) (*Workload, error) {
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	tasks, err := s.allTasks(ctx)
	if err != nil {
		return nil, err
	}

	w := Workload{MemberID: id, CapacityHours: m.CapacityHours}
	for _, t := range tasks {
		if t.AssigneeID != id || t.Status == TaskStatusDone {
			continue
		}
		w.OpenTasks++
		w.EstimateHours += t.EstimateHours
	}
	if m.CapacityHours > 0 {
		w.Utilization = w.EstimateHours / m.CapacityHours
	}
	return &w, nil
}

// matchedSkills returns the intersection, preserving wanted order.
// Comparison is case-insensitive.
func matchedSkills(have, want []string) []string {
	set := make(map[string]struct{}, len(have))
	for _, s := range have {
		set[normalizeSkill(s)] = struct{}{}
	}
	var out []string
	for _, s := range want {
		if _, ok := set[normalizeSkill(s)]; ok {
			out = append(out, s)
		}
	}
	return out
}
