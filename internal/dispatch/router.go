package dispatch

import (
	"context"

	"github.com/mitchellh/mapstructure"

	"github.com/taskdeck/taskdeck/internal/services"
)

// Handler extracts the fields one action needs and invokes exactly one
// domain service method. Scoping identifiers pass through unchanged, and
// pagination defaults belong to the services, never injected here.
type Handler func(ctx context.Context, svc services.Registry, args map[string]any) (any, error)

// decode maps validated request fields onto a typed parameter struct.
// Weak typing absorbs JSON's habit of delivering every number as float64.
func decode[T any](args map[string]any) (T, error) {
	var out T
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &out,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return out, err
	}
	if err := dec.Decode(args); err != nil {
		return out, errValidation(err)
	}
	return out, nil
}

// Shared parameter fragments. ",squash" flattens them into the enclosing
// struct so fields decode from the top-level payload.

type scopeParams struct {
	ClientID       string `mapstructure:"client_id"`
	OrganizationID string `mapstructure:"organization_id"`
}

func (p scopeParams) scope() services.Scope {
	return services.Scope{ClientID: p.ClientID, OrganizationID: p.OrganizationID}
}

type pageParams struct {
	Page  int `mapstructure:"page"`
	Limit int `mapstructure:"limit"`
}

func (p pageParams) pagination() services.Pagination {
	return services.Pagination{Page: p.Page, Limit: p.Limit}
}

// newRoutes builds the static routing table. One entry per (tool, action);
// validation has already guaranteed the action exists and its required
// fields are present.
func newRoutes() map[string]map[string]Handler {
	return map[string]map[string]Handler{
		ToolProjects:   projectRoutes(),
		ToolTasks:      taskRoutes(),
		ToolTeam:       teamRoutes(),
		ToolSearch:     searchRoutes(),
		ToolAnalytics:  analyticsRoutes(),
		ToolAssignment: assignmentRoutes(),
	}
}

func projectRoutes() map[string]Handler {
	return map[string]Handler{
		"create": func(ctx context.Context, svc services.Registry, args map[string]any) (any, error) {
			p, err := decode[struct {
				ProjectData services.ProjectDraft `mapstructure:"project_data"`
				UserID      string                `mapstructure:"user_id"`
			}](args)
			if err != nil {
				return nil, err
			}
			return svc.Projects.Create(ctx, p.ProjectData, p.UserID)
		},
		"get": func(ctx context.Context, svc services.Registry, args map[string]any) (any, error) {
			p, err := decode[struct {
				ProjectID string `mapstructure:"project_id"`
			}](args)
			if err != nil {
				return nil, err
			}
			return svc.Projects.Get(ctx, p.ProjectID)
		},
		"list": func(ctx context.Context, svc services.Registry, args map[string]any) (any, error) {
			p, err := decode[struct {
				scopeParams `mapstructure:",squash"`
				pageParams  `mapstructure:",squash"`
				Status      string `mapstructure:"status"`
			}](args)
			if err != nil {
				return nil, err
			}
			return svc.Projects.List(ctx, services.ListFilter{
				Scope:      p.scope(),
				Status:     p.Status,
				Pagination: p.pagination(),
			})
		},
		"update": func(ctx context.Context, svc services.Registry, args map[string]any) (any, error) {
			p, err := decode[struct {
				ProjectID string                 `mapstructure:"project_id"`
				Updates   services.ProjectUpdate `mapstructure:"updates"`
				UserID    string                 `mapstructure:"user_id"`
			}](args)
			if err != nil {
				return nil, err
			}
			return svc.Projects.Update(ctx, p.ProjectID, p.Updates, p.UserID)
		},
		"delete": func(ctx context.Context, svc services.Registry, args map[string]any) (any, error) {
			p, err := decode[struct {
				ProjectID string `mapstructure:"project_id"`
				UserID    string `mapstructure:"user_id"`
			}](args)
			if err != nil {
				return nil, err
			}
			if err := svc.Projects.Delete(ctx, p.ProjectID, p.UserID); err != nil {
				return nil, err
			}
			return map[string]any{"deleted": p.ProjectID}, nil
		},
		"search": func(ctx context.Context, svc services.Registry, args map[string]any) (any, error) {
			p, err := decode[struct {
				scopeParams `mapstructure:",squash"`
				SearchTerm  string `mapstructure:"search_term"`
			}](args)
			if err != nil {
				return nil, err
			}
			return svc.Projects.Search(ctx, p.SearchTerm, p.scope())
		},
		"get_tasks": func(ctx context.Context, svc services.Registry, args map[string]any) (any, error) {
			p, err := decode[struct {
				ProjectID string `mapstructure:"project_id"`
			}](args)
			if err != nil {
				return nil, err
			}
			return svc.Projects.GetTasks(ctx, p.ProjectID)
		},
		"add_team_member": func(ctx context.Context, svc services.Registry, args map[string]any) (any, error) {
			p, err := decode[struct {
				ProjectID string `mapstructure:"project_id"`
				MemberID  string `mapstructure:"member_id"`
				UserID    string `mapstructure:"user_id"`
			}](args)
			if err != nil {
				return nil, err
			}
			return svc.Projects.AddTeamMember(ctx, p.ProjectID, p.MemberID, p.UserID)
		},
		"get_status": func(ctx context.Context, svc services.Registry, args map[string]any) (any, error) {
			p, err := decode[struct {
				ProjectID string `mapstructure:"project_id"`
			}](args)
			if err != nil {
				return nil, err
			}
			return svc.Projects.GetStatus(ctx, p.ProjectID)
		},
	}
}

func taskRoutes() map[string]Handler {
	return map[string]Handler{
		"create": func(ctx context.Context, svc services.Registry, args map[string]any) (any, error) {
			p, err := decode[struct {
				TaskData services.TaskDraft `mapstructure:"task_data"`
				UserID   string             `mapstructure:"user_id"`
			}](args)
			if err != nil {
				return nil, err
			}
			return svc.Tasks.Create(ctx, p.TaskData, p.UserID)
		},
		"get": func(ctx context.Context, svc services.Registry, args map[string]any) (any, error) {
			p, err := decode[struct {
				TaskID string `mapstructure:"task_id"`
			}](args)
			if err != nil {
				return nil, err
			}
			return svc.Tasks.Get(ctx, p.TaskID)
		},
		"list": func(ctx context.Context, svc services.Registry, args map[string]any) (any, error) {
			p, err := decode[struct {
				scopeParams `mapstructure:",squash"`
				pageParams  `mapstructure:",squash"`
				ProjectID   string `mapstructure:"project_id"`
				AssigneeID  string `mapstructure:"assignee_id"`
				Status      string `mapstructure:"status"`
			}](args)
			if err != nil {
				return nil, err
			}
			return svc.Tasks.List(ctx, services.TaskFilter{
				Scope:      p.scope(),
				ProjectID:  p.ProjectID,
				AssigneeID: p.AssigneeID,
				Status:     p.Status,
				Pagination: p.pagination(),
			})
		},
		"update": func(ctx context.Context, svc services.Registry, args map[string]any) (any, error) {
			p, err := decode[struct {
				TaskID  string              `mapstructure:"task_id"`
				Updates services.TaskUpdate `mapstructure:"updates"`
				UserID  string              `mapstructure:"user_id"`
			}](args)
			if err != nil {
				return nil, err
			}
			return svc.Tasks.Update(ctx, p.TaskID, p.Updates, p.UserID)
		},
		"delete": func(ctx context.Context, svc services.Registry, args map[string]any) (any, error) {
			p, err := decode[struct {
				TaskID string `mapstructure:"task_id"`
				UserID string `mapstructure:"user_id"`
			}](args)
			if err != nil {
				return nil, err
			}
			if err := svc.Tasks.Delete(ctx, p.TaskID, p.UserID); err != nil {
				return nil, err
			}
			return map[string]any{"deleted": p.TaskID}, nil
		},
		"assign": func(ctx context.Context, svc services.Registry, args map[string]any) (any, error) {
			p, err := decode[struct {
				TaskID   string `mapstructure:"task_id"`
				MemberID string `mapstructure:"member_id"`
				UserID   string `mapstructure:"user_id"`
			}](args)
			if err != nil {
				return nil, err
			}
			return svc.Tasks.Assign(ctx, p.TaskID, p.MemberID, p.UserID)
		},
		"add_comment": func(ctx context.Context, svc services.Registry, args map[string]any) (any, error) {
			p, err := decode[struct {
				TaskID  string `mapstructure:"task_id"`
				Comment string `mapstructure:"comment"`
				UserID  string `mapstructure:"user_id"`
			}](args)
			if err != nil {
				return nil, err
			}
			return svc.Tasks.AddComment(ctx, p.TaskID, p.Comment, p.UserID)
		},
		"update_status": func(ctx context.Context, svc services.Registry, args map[string]any) (any, error) {
			p, err := decode[struct {
				TaskID string `mapstructure:"task_id"`
				Status string `mapstructure:"status"`
				UserID string `mapstructure:"user_id"`
			}](args)
			if err != nil {
				return nil, err
			}
			return svc.Tasks.UpdateStatus(ctx, p.TaskID, p.Status, p.UserID)
		},
		"search": func(ctx context.Context, svc services.Registry, args map[string]any) (any, error) {
			p, err := decode[struct {
				scopeParams `mapstructure:",squash"`
				SearchTerm  string `mapstructure:"search_term"`
			}](args)
			if err != nil {
				return nil, err
			}
			return svc.Tasks.Search(ctx, p.SearchTerm, p.scope())
		},
	}
}

func teamRoutes() map[string]Handler {
	return map[string]Handler{
		"create": func(ctx context.Context, svc services.Registry, args map[string]any) (any, error) {
			p, err := decode[struct {
				MemberData services.MemberDraft `mapstructure:"member_data"`
				UserID     string               `mapstructure:"user_id"`
			}](args)
			if err != nil {
				return nil, err
			}
			return svc.Team.Create(ctx, p.MemberData, p.UserID)
		},
		"get": func(ctx context.Context, svc services.Registry, args map[string]any) (any, error) {
			p, err := decode[struct {
				MemberID string `mapstructure:"member_id"`
			}](args)
			if err != nil {
				return nil, err
			}
			return svc.Team.Get(ctx, p.MemberID)
		},
		"list": func(ctx context.Context, svc services.Registry, args map[string]any) (any, error) {
			p, err := decode[struct {
				scopeParams `mapstructure:",squash"`
				pageParams  `mapstructure:",squash"`
			}](args)
			if err != nil {
				return nil, err
			}
			return svc.Team.List(ctx, services.ListFilter{
				Scope:      p.scope(),
				Pagination: p.pagination(),
			})
		},
		"update": func(ctx context.Context, svc services.Registry, args map[string]any) (any, error) {
			p, err := decode[struct {
				MemberID string                `mapstructure:"member_id"`
				Updates  services.MemberUpdate `mapstructure:"updates"`
				UserID   string                `mapstructure:"user_id"`
			}](args)
			if err != nil {
				return nil, err
			}
			return svc.Team.Update(ctx, p.MemberID, p.Updates, p.UserID)
		},
		"delete": func(ctx context.Context, svc services.Registry, args map[string]any) (any, error) {
			p, err := decode[struct {
				MemberID string `mapstructure:"member_id"`
				UserID   string `mapstructure:"user_id"`
			}](args)
			if err != nil {
				return nil, err
			}
			if err := svc.Team.Delete(ctx, p.MemberID, p.UserID); err != nil {
				return nil, err
			}
			return map[string]any{"deleted": p.MemberID}, nil
		},
		"get_available": func(ctx context.Context, svc services.Registry, args map[string]any) (any, error) {
			p, err := decode[struct {
				scopeParams `mapstructure:",squash"`
				Skills      []string `mapstructure:"skills"`
			}](args)
			if err != nil {
				return nil, err
			}
			return svc.Team.GetAvailable(ctx, p.scope(), p.Skills)
		},
		"update_skills": func(ctx context.Context, svc services.Registry, args map[string]any) (any, error) {
			p, err := decode[struct {
				MemberID string   `mapstructure:"member_id"`
				Skills   []string `mapstructure:"skills"`
				UserID   string   `mapstructure:"user_id"`
			}](args)
			if err != nil {
				return nil, err
			}
			return svc.Team.UpdateSkills(ctx, p.MemberID, p.Skills, p.UserID)
		},
		"get_workload": func(ctx context.Context, svc services.Registry, args map[string]any) (any, error) {
			p, err := decode[struct {
				MemberID string `mapstructure:"member_id"`
			}](args)
			if err != nil {
				return nil, err
			}
			return svc.Team.GetWorkload(ctx, p.MemberID)
		},
	}
}

func searchRoutes() map[string]Handler {
	return map[string]Handler{
		"cross_search": func(ctx context.Context, svc services.Registry, args map[string]any) (any, error) {
			p, err := decode[struct {
				scopeParams `mapstructure:",squash"`
				SearchTerm  string   `mapstructure:"search_term"`
				EntityTypes []string `mapstructure:"entity_types"`
			}](args)
			if err != nil {
				return nil, err
			}
			// Absent entity_types means "all", decided by the service.
			return svc.Search.CrossSearch(ctx, p.SearchTerm, p.EntityTypes, p.scope())
		},
		"advanced_filter": func(ctx context.Context, svc services.Registry, args map[string]any) (any, error) {
			p, err := decode[struct {
				scopeParams `mapstructure:",squash"`
				Filters     map[string]any `mapstructure:"filters"`
			}](args)
			if err != nil {
				return nil, err
			}
			return svc.Search.AdvancedFilter(ctx, p.Filters, p.scope())
		},
		"related_items": func(ctx context.Context, svc services.Registry, args map[string]any) (any, error) {
			p, err := decode[struct {
				EntityType string `mapstructure:"entity_type"`
				EntityID   string `mapstructure:"entity_id"`
			}](args)
			if err != nil {
				return nil, err
			}
			return svc.Search.RelatedItems(ctx, p.EntityType, p.EntityID)
		},
	}
}

func analyticsRoutes() map[string]Handler {
	return map[string]Handler{
		"project_progress": func(ctx context.Context, svc services.Registry, args map[string]any) (any, error) {
			p, err := decode[struct {
				ProjectID string `mapstructure:"project_id"`
			}](args)
			if err != nil {
				return nil, err
			}
			return svc.Analytics.ProjectProgress(ctx, p.ProjectID)
		},
		"team_performance": func(ctx context.Context, svc services.Registry, args map[string]any) (any, error) {
			p, err := decode[struct {
				scopeParams `mapstructure:",squash"`
			}](args)
			if err != nil {
				return nil, err
			}
			return svc.Analytics.TeamPerformance(ctx, p.scope())
		},
		"deadline_tracking": func(ctx context.Context, svc services.Registry, args map[string]any) (any, error) {
			p, err := decode[struct {
				scopeParams `mapstructure:",squash"`
				WithinDays  int `mapstructure:"within_days"`
			}](args)
			if err != nil {
				return nil, err
			}
			return svc.Analytics.DeadlineTracking(ctx, p.scope(), p.WithinDays)
		},
		"risk_analysis": func(ctx context.Context, svc services.Registry, args map[string]any) (any, error) {
			p, err := decode[struct {
				ProjectID string `mapstructure:"project_id"`
			}](args)
			if err != nil {
				return nil, err
			}
			return svc.Analytics.RiskAnalysis(ctx, p.ProjectID)
		},
	}
}

func assignmentRoutes() map[string]Handler {
	return map[string]Handler{
		"skill_based_assignment": func(ctx context.Context, svc services.Registry, args map[string]any) (any, error) {
			p, err := decode[struct {
				TaskID string `mapstructure:"task_id"`
			}](args)
			if err != nil {
				return nil, err
			}
			return svc.Assignment.SkillBasedAssignment(ctx, p.TaskID)
		},
		"workload_balancing": func(ctx context.Context, svc services.Registry, args map[string]any) (any, error) {
			p, err := decode[struct {
				scopeParams `mapstructure:",squash"`
			}](args)
			if err != nil {
				return nil, err
			}
			return svc.Assignment.WorkloadBalancing(ctx, p.scope())
		},
		"capacity_planning": func(ctx context.Context, svc services.Registry, args map[string]any) (any, error) {
			p, err := decode[struct {
				scopeParams `mapstructure:",squash"`
			}](args)
			if err != nil {
				return nil, err
			}
			return svc.Assignment.CapacityPlanning(ctx, p.scope())
		},
	}
}
