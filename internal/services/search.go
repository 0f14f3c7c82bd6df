package services

import (
	"context"
	"fmt"
	"strings"
)

// SearchStore implements cross-entity search over the indexed documents.
type SearchStore struct {
	repo
}

// Entity type names accepted by CrossSearch. An empty entity_types list
// means "search all of them".
const (
	EntityProject = "project"
	EntityTask    = "task"
	EntityMember  = "team_member"
)

var allEntityTypes = []string{EntityProject, EntityTask, EntityMember}

func (s *SearchStore) CrossSearch(ctx context.Context, term string, entityTypes []string, scope Scope) ([]SearchHit, error) {
	if len(entityTypes) == 0 {
		entityTypes = allEntityTypes
	}

	needle := strings.ToLower(term)
	var hits []SearchHit

	for _, et := range entityTypes {
		switch et {
		case EntityProject:
			projects, err := s.allProjects(ctx)
			if err != nil {
				return nil, err
			}
			for _, p := range projects {
				if !scope.Matches(p.ClientID, p.OrganizationID) {
					continue
				}
				if containsFold(needle, p.Name, p.Description) {
					hits = append(hits, SearchHit{
						EntityType: EntityProject,
						ID:         p.ID,
						Title:      p.Name,
						Snippet:    snippet(p.Description),
					})
				}
			}
		case EntityTask:
			tasks, err := s.allTasks(ctx)
			if err != nil {
				return nil, err
			}
			for _, t := range tasks {
				if !scope.Matches(t.ClientID, t.OrganizationID) {
					continue
				}
				if containsFold(needle, t.Title, t.Description) {
					hits = append(hits, SearchHit{
						EntityType: EntityTask,
						ID:         t.ID,
						Title:      t.Title,
						Snippet:    snippet(t.Description),
					})
				}
			}
		case EntityMember:
			members, err := s.allMembers(ctx)
			if err != nil {
				return nil, err
			}
			for _, m := range members {
				if scope.OrganizationID != "" && scope.OrganizationID != m.OrganizationID {
					continue
				}
				if containsFold(needle, m.Name, m.Email, strings.Join(m.Skills, " ")) {
					hits = append(hits, SearchHit{
						EntityType: EntityMember,
						ID:         m.ID,
						Title:      m.Name,
						Snippet:    m.Role,
					})
				}
			}
		default:
			return nil, fmt.Errorf("unknown entity type %q", et)
		}
	}

	return hits, nil
}

// AdvancedFilter matches entities field-by-field. Supported filter keys:
// status, priority, assignee_id, project_id, skill.
func (s *SearchStore) AdvancedFilter(ctx context.Context, filters map[string]any, scope Scope) ([]SearchHit, error) {
	str := func(key string) string {
		v, _ := filters[key].(string)
		return v
	}

	var hits []SearchHit

	tasks, err := s.allTasks(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range tasks {
		if !scope.Matches(t.ClientID, t.OrganizationID) {
			continue
		}
		if v := str("status"); v != "" && t.Status != v {
			continue
		}
		if v := str("priority"); v != "" && t.Priority != v {
			continue
		}
		if v := str("assignee_id"); v != "" && t.AssigneeID != v {
			continue
		}
		if v := str("project_id"); v != "" && t.ProjectID != v {
			continue
		}
		if v := str("skill"); v != "" && len(matchedSkills(t.RequiredSkills, []string{v})) == 0 {
			continue
		}
		hits = append(hits, SearchHit{
			EntityType: EntityTask,
			ID:         t.ID,
			Title:      t.Title,
			Snippet:    t.Status,
		})
	}

	// Project-level filters apply when no task-only key is present.
	if str("priority") == "" && str("assignee_id") == "" && str("skill") == "" {
		projects, err := s.allProjects(ctx)
		if err != nil {
			return nil, err
		}
		for _, p := range projects {
			if !scope.Matches(p.ClientID, p.OrganizationID) {
				continue
			}
			if v := str("status"); v != "" && p.Status != v {
				continue
			}
			if v := str("project_id"); v != "" && p.ID != v {
				continue
			}
			hits = append(hits, SearchHit{
				EntityType: EntityProject,
				ID:         p.ID,
				Title:      p.Name,
				Snippet:    p.Status,
			})
		}
	}

	return hits, nil
}

// RelatedItems walks the obvious edges: a project relates to its tasks and
// team members; a task to its project and assignee; a member to their open
// tasks.
func (s *SearchStore) RelatedItems(ctx context.Context, entityType, id string) ([]SearchHit, error) {
	switch entityType {
	case EntityProject:
		var p Project
		if err := s.loadJSON(ctx, projectKeyPrefix+id, &p); err != nil {
			return nil, err
		}
		var hits []SearchHit
		tasks, err := s.allTasks(ctx)
		if err != nil {
			return nil, err
		}
		for _, t := range tasks {
			if t.ProjectID == id {
				hits = append(hits, SearchHit{EntityType: EntityTask, ID: t.ID, Title: t.Title})
			}
		}
		for _, mid := range p.TeamMemberIDs {
			var m TeamMember
			if err := s.loadJSON(ctx, memberKeyPrefix+mid, &m); err != nil {
				if err == ErrNotFound {
					continue
				}
				return nil, err
			}
			hits = append(hits, SearchHit{EntityType: EntityMember, ID: m.ID, Title: m.Name})
		}
		return hits, nil

	case EntityTask:
		var t Task
		if err := s.loadJSON(ctx, taskKeyPrefix+id, &t); err != nil {
			return nil, err
		}
		var hits []SearchHit
		var p Project
		if err := s.loadJSON(ctx, projectKeyPrefix+t.ProjectID, &p); err == nil {
			hits = append(hits, SearchHit{EntityType: EntityProject, ID: p.ID, Title: p.Name})
		}
		if t.AssigneeID != "" {
			var m TeamMember
			if err := s.loadJSON(ctx, memberKeyPrefix+t.AssigneeID, &m); err == nil {
				hits = append(hits, SearchHit{EntityType: EntityMember, ID: m.ID, Title: m.Name})
			}
		}
		return hits, nil

	case EntityMember:
		var m TeamMember
		if err := s.loadJSON(ctx, memberKeyPrefix+id, &m); err != nil {
			return nil, err
		}
		var hits []SearchHit
		tasks, err := s.allTasks(ctx)
		if err != nil {
			return nil, err
		}
		for _, t := range tasks {
			if t.AssigneeID == id && t.Status != TaskStatusDone {
				hits = append(hits, SearchHit{EntityType: EntityTask, ID: t.ID, Title: t.Title})
			}
		}
		return hits, nil
	}

	return nil, fmt.Errorf("unknown entity type %q", entityType)
}

func containsFold(needle string, haystacks ...string) bool {
	for _, h := range haystacks {
		if strings.Contains(strings.ToLower(h), needle) {
			return true
		}
	}
	return false
}

func snippet(s string) string {
	const max = 80
	if len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
