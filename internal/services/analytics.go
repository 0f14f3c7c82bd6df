package services

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// AnalyticsStore computes reporting views on demand from stored entities.
// Nothing is precomputed or cached; datasets at this scale do not need it.
type AnalyticsStore struct {
	repo
}

const dueDateLayout = "2006-01-02"

func (s *AnalyticsStore) ProjectProgress(ctx context.Context, projectID string) (*ProjectProgress, error) {
	if err := s.loadJSON(ctx, projectKeyPrefix+projectID, &Project{}); err != nil {
		return nil, err
	}

	tasks, err := s.allTasks(ctx)
	if err != nil {
		return nil, err
	}

	progress := ProjectProgress{
		ProjectID:     projectID,
		TasksByStatus: map[string]int{},
	}
	today := s.now()
	done := 0

	for _, t := range tasks {
		if t.ProjectID != projectID {
			continue
		}
		progress.TotalTasks++
		progress.TasksByStatus[t.Status]++
		if t.Status == TaskStatusDone {
			done++
			continue
		}
		if t.AssigneeID == "" {
			progress.UnassignedOpen++
		}
		if due, ok := parseDue(t.DueDate); ok && due.Before(today) {
			progress.OverdueTasks++
		}
	}

	if progress.TotalTasks > 0 {
		progress.Completion = float64(done) / float64(progress.TotalTasks)
	}
	return &progress, nil
}

func (s *AnalyticsStore) TeamPerformance(ctx context.Context, scope Scope) ([]MemberPerformance, error) {
	members, err := s.allMembers(ctx)
	if err != nil {
		return nil, err
	}
	tasks, err := s.allTasks(ctx)
	if err != nil {
		return nil, err
	}

	var out []MemberPerformance
	for _, m := range members {
		if scope.OrganizationID != "" && scope.OrganizationID != m.OrganizationID {
			continue
		}
		perf := MemberPerformance{MemberID: m.ID, Name: m.Name}
		for _, t := range tasks {
			if t.AssigneeID != m.ID {
				continue
			}
			if t.Status == TaskStatusDone {
				perf.CompletedTasks++
			} else {
				perf.OpenTasks++
			}
		}
		if total := perf.CompletedTasks + perf.OpenTasks; total > 0 {
			perf.CompletionRate = float64(perf.CompletedTasks) / float64(total)
		}
		out = append(out, perf)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CompletedTasks > out[j].CompletedTasks
	})
	return out, nil
}

func (s *AnalyticsStore) DeadlineTracking(ctx context.Context, scope Scope, withinDays int) ([]DeadlineEntry, error) {
	if withinDays <= 0 {
		withinDays = 7
	}

	tasks, err := s.allTasks(ctx)
	if err != nil {
		return nil, err
	}

	today := s.now().Truncate(24 * time.Hour)
	horizon := today.AddDate(0, 0, withinDays)

	var out []DeadlineEntry
	for _, t := range tasks {
		if t.Status == TaskStatusDone {
			continue
		}
		if !scope.Matches(t.ClientID, t.OrganizationID) {
			continue
		}
		due, ok := parseDue(t.DueDate)
		if !ok || due.After(horizon) {
			continue
		}
		out = append(out, DeadlineEntry{
			TaskID:    t.ID,
			ProjectID: t.ProjectID,
			Title:     t.Title,
			DueDate:   t.DueDate,
			DaysLeft:  int(due.Sub(today).Hours() / 24),
			Overdue:   due.Before(today),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DaysLeft < out[j].DaysLeft
	})
	return out, nil
}

// RiskAnalysis applies coarse heuristics: overdue work, unassigned open
// tasks, and a looming project due date each raise the level.
func (s *AnalyticsStore) RiskAnalysis(ctx context.Context, projectID string) (*RiskReport, error) {
	var p Project
	if err := s.loadJSON(ctx, projectKeyPrefix+projectID, &p); err != nil {
		return nil, err
	}

	progress, err := s.ProjectProgress(ctx, projectID)
	if err != nil {
		return nil, err
	}

	var factors []string
	if progress.OverdueTasks > 0 {
		factors = append(factors, fmt.Sprintf("%d overdue tasks", progress.OverdueTasks))
	}
	if progress.UnassignedOpen > 0 {
		factors = append(factors, fmt.Sprintf("%d open tasks unassigned", progress.UnassignedOpen))
	}
	if due, ok := parseDue(p.DueDate); ok {
		daysLeft := int(due.Sub(s.now()).Hours() / 24)
		if daysLeft < 0 {
			factors = append(factors, "project past due date")
		} else if daysLeft <= 7 && progress.Completion < 0.8 {
			factors = append(factors, fmt.Sprintf("due in %d days at %.0f%% completion", daysLeft, progress.Completion*100))
		}
	}

	level := "low"
	switch {
	case len(factors) >= 3:
		level = "high"
	case len(factors) >= 1:
		level = "medium"
	}

	return &RiskReport{
		ProjectID: projectID,
		RiskLevel: level,
		Factors:   factors,
	}, nil
}

func parseDue(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(dueDateLayout, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}
