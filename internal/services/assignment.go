package services

import (
	"context"
	"fmt"
	"sort"
)

// AssignmentStore plans who should carry which work. It only suggests;
// actually assigning remains a task operation with its own audit trail.
type AssignmentStore struct {
	repo
}

// SkillBasedAssignment ranks available members for a task by skill overlap,
// breaking ties toward the lighter workload.
func (s *AssignmentStore) SkillBasedAssignment(ctx context.Context, taskID string) ([]AssignmentCandidate, error) {
	var t Task
	if err := s.loadJSON(ctx, taskKeyPrefix+taskID, &t); err != nil {
		return nil, err
	}

	members, err := s.allMembers(ctx)
	if err != nil {
		return nil, err
	}
	tasks, err := s.allTasks(ctx)
	if err != nil {
		return nil, err
	}

	openCount := map[string]int{}
	for _, other := range tasks {
		if other.AssigneeID != "" && other.Status != TaskStatusDone {
			openCount[other.AssigneeID]++
		}
	}

	var candidates []AssignmentCandidate
	for _, m := range members {
		if !m.Available {
			continue
		}
		if t.OrganizationID != "" && m.OrganizationID != "" && m.OrganizationID != t.OrganizationID {
			continue
		}

		matched := matchedSkills(m.Skills, t.RequiredSkills)
		if len(t.RequiredSkills) > 0 && len(matched) == 0 {
			continue
		}

		score := 1.0
		if len(t.RequiredSkills) > 0 {
			score = float64(len(matched)) / float64(len(t.RequiredSkills))
		}
		// Lighter load nudges the score up, never above a full match.
		score -= float64(openCount[m.ID]) * 0.01

		candidates = append(candidates, AssignmentCandidate{
			MemberID:      m.ID,
			Name:          m.Name,
			Score:         score,
			MatchedSkills: matched,
			OpenTasks:     openCount[m.ID],
		})
	}

	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	return candidates, nil
}

// WorkloadBalancing suggests moving open tasks from the most loaded member
// to the least loaded one until their counts are within one of each other.
func (s *AssignmentStore) WorkloadBalancing(ctx context.Context, scope Scope) ([]RebalanceSuggestion, error) {
	members, err := s.allMembers(ctx)
	if err != nil {
		return nil, err
	}
	tasks, err := s.allTasks(ctx)
	if err != nil {
		return nil, err
	}

	open := map[string][]Task{}
	for _, t := range tasks {
		if t.AssigneeID == "" || t.Status == TaskStatusDone {
			continue
		}
		if !scope.Matches(t.ClientID, t.OrganizationID) {
			continue
		}
		open[t.AssigneeID] = append(open[t.AssigneeID], t)
	}

	type load struct {
		member TeamMember
		count  int
	}
	var loads []load
	for _, m := range members {
		if !m.Available {
			continue
		}
		if scope.OrganizationID != "" && scope.OrganizationID != m.OrganizationID {
			continue
		}
		loads = append(loads, load{member: m, count: len(open[m.ID])})
	}
	if len(loads) < 2 {
		return nil, nil
	}

	var suggestions []RebalanceSuggestion
	for {
		sort.SliceStable(loads, func(i, j int) bool { return loads[i].count > loads[j].count })
		busiest, lightest := &loads[0], &loads[len(loads)-1]
		if busiest.count-lightest.count <= 1 {
			break
		}

		moved := open[busiest.member.ID][busiest.count-1]
		suggestions = append(suggestions, RebalanceSuggestion{
			TaskID:     moved.ID,
			FromMember: busiest.member.ID,
			ToMember:   lightest.member.ID,
			Reason: fmt.Sprintf("%s carries %d open tasks, %s carries %d",
				busiest.member.Name, busiest.count, lightest.member.Name, lightest.count),
		})
		busiest.count--
		lightest.count++
	}

	return suggestions, nil
}

// CapacityPlanning compares committed estimate hours against team capacity.
func (s *AssignmentStore) CapacityPlanning(ctx context.Context, scope Scope) (*CapacityPlan, error) {
	members, err := s.allMembers(ctx)
	if err != nil {
		return nil, err
	}
	tasks, err := s.allTasks(ctx)
	if err != nil {
		return nil, err
	}

	plan := CapacityPlan{}
	for _, m := range members {
		if scope.OrganizationID != "" && scope.OrganizationID != m.OrganizationID {
			continue
		}
		w := Workload{MemberID: m.ID, CapacityHours: m.CapacityHours}
		for _, t := range tasks {
			if t.AssigneeID != m.ID || t.Status == TaskStatusDone {
				continue
			}
			w.OpenTasks++
			w.EstimateHours += t.EstimateHours
		}
		if m.CapacityHours > 0 {
			w.Utilization = w.EstimateHours / m.CapacityHours
		}
		plan.TotalCapacityHours += m.CapacityHours
		plan.CommittedHours += w.EstimateHours
		plan.Members = append(plan.Members, w)
	}
	plan.FreeHours = plan.TotalCapacityHours - plan.CommittedHours

	return &plan, nil
}
