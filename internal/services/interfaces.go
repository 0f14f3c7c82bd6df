// Package services implements the project-management domain: projects,
// tasks, team members, cross-entity search, analytics, and assignment
// planning, persisted in Redis. The dispatch layer depends only on the
// interfaces declared here; the Redis implementations live alongside them.
package services

import "context"

// ProjectDraft carries caller-supplied fields for creating a project.
type ProjectDraft struct {
	Name           string   `mapstructure:"name" json:"name"`
	Description    string   `mapstructure:"description" json:"description"`
	Status         string   `mapstructure:"status" json:"status"`
	ClientID       string   `mapstructure:"client_id" json:"client_id"`
	OrganizationID string   `mapstructure:"organization_id" json:"organization_id"`
	StartDate      string   `mapstructure:"start_date" json:"start_date"`
	DueDate        string   `mapstructure:"due_date" json:"due_date"`
	TeamMemberIDs  []string `mapstructure:"team_member_ids" json:"team_member_ids"`
}

// ProjectUpdate carries the mutable subset of project fields. Nil pointers
// leave the stored value untouched.
type ProjectUpdate struct {
	Name        *string   `mapstructure:"name" json:"name,omitempty"`
	Description *string   `mapstructure:"description" json:"description,omitempty"`
	Status      *string   `mapstructure:"status" json:"status,omitempty"`
	StartDate   *string   `mapstructure:"start_date" json:"start_date,omitempty"`
	DueDate     *string   `mapstructure:"due_date" json:"due_date,omitempty"`
	TeamMembers *[]string `mapstructure:"team_member_ids" json:"team_member_ids,omitempty"`
}

// TaskDraft carries caller-supplied fields for creating a task.
type TaskDraft struct {
	ProjectID      string   `mapstructure:"project_id" json:"project_id"`
	Title          string   `mapstructure:"title" json:"title"`
	Description    string   `mapstructure:"description" json:"description"`
	Status         string   `mapstructure:"status" json:"status"`
	Priority       string   `mapstructure:"priority" json:"priority"`
	AssigneeID     string   `mapstructure:"assignee_id" json:"assignee_id"`
	RequiredSkills []string `mapstructure:"required_skills" json:"required_skills"`
	EstimateHours  float64  `mapstructure:"estimate_hours" json:"estimate_hours"`
	DueDate        string   `mapstructure:"due_date" json:"due_date"`
	ClientID       string   `mapstructure:"client_id" json:"client_id"`
	OrganizationID string   `mapstructure:"organization_id" json:"organization_id"`
}

// TaskUpdate carries the mutable subset of task fields.
type TaskUpdate struct {
	Title          *string   `mapstructure:"title" json:"title,omitempty"`
	Description    *string   `mapstructure:"description" json:"description,omitempty"`
	Priority       *string   `mapstructure:"priority" json:"priority,omitempty"`
	RequiredSkills *[]string `mapstructure:"required_skills" json:"required_skills,omitempty"`
	EstimateHours  *float64  `mapstructure:"estimate_hours" json:"estimate_hours,omitempty"`
	DueDate        *string   `mapstructure:"due_date" json:"due_date,omitempty"`
}

// MemberDraft carries caller-supplied fields for creating a team member.
type MemberDraft struct {
	Name           string   `mapstructure:"name" json:"name"`
	Email          string   `mapstructure:"email" json:"email"`
	Role           string   `mapstructure:"role" json:"role"`
	Skills         []string `mapstructure:"skills" json:"skills"`
	CapacityHours  float64  `mapstructure:"capacity_hours" json:"capacity_hours"`
	Available      *bool    `mapstructure:"available" json:"available"`
	OrganizationID string   `mapstructure:"organization_id" json:"organization_id"`
}

// MemberUpdate carries the mutable subset of member fields.
type MemberUpdate struct {
	Name          *string  `mapstructure:"name" json:"name,omitempty"`
	Email         *string  `mapstructure:"email" json:"email,omitempty"`
	Role          *string  `mapstructure:"role" json:"role,omitempty"`
	CapacityHours *float64 `mapstructure:"capacity_hours" json:"capacity_hours,omitempty"`
	Available     *bool    `mapstructure:"available" json:"available,omitempty"`
}

// ListFilter narrows listing operations. All fields optional.
type ListFilter struct {
	Scope  Scope
	Status string
	Pagination
}

// Projects is the project entity family.
type Projects interface {
	Create(ctx context.Context, draft ProjectDraft, userID string) (*Project, error)
	Get(ctx context.Context, id string) (*Project, error)
	List(ctx context.Context, filter ListFilter) ([]Project, error)
	Update(ctx context.Context, id string, update ProjectUpdate, userID string) (*Project, error)
	Delete(ctx context.Context, id, userID string) error
	Search(ctx context.Context, term string, scope Scope) ([]Project, error)
	GetTasks(ctx context.Context, id string) ([]Task, error)
	AddTeamMember(ctx context.Context, id, memberID, userID string) (*Project, error)
	GetStatus(ctx context.Context, id string) (*ProjectStatus, error)
}

// Tasks is the task entity family.
type Tasks interface {
	Create(ctx context.Context, draft TaskDraft, userID string) (*Task, error)
	Get(ctx context.Context, id string) (*Task, error)
	List(ctx context.Context, filter TaskFilter) ([]Task, error)
	Update(ctx context.Context, id string, update TaskUpdate, userID string) (*Task, error)
	Delete(ctx context.Context, id, userID string) error
	Assign(ctx context.Context, id, memberID, userID string) (*Task, error)
	AddComment(ctx context.Context, id, body, userID string) (*Task, error)
	UpdateStatus(ctx context.Context, id, status, userID string) (*Task, error)
	Search(ctx context.Context, term string, scope Scope) ([]Task, error)
}

// TaskFilter narrows task listings.
type TaskFilter struct {
	Scope      Scope
	ProjectID  string
	AssigneeID string
	Status     string
	Pagination
}

// Team is the team-member entity family.
type Team interface {
	Create(ctx context.Context, draft MemberDraft, userID string) (*TeamMember, error)
	Get(ctx context.Context, id string) (*TeamMember, error)
	List(ctx context.Context, filter ListFilter) ([]TeamMember, error)
	Update(ctx context.Context, id string, update MemberUpdate, userID string) (*TeamMember, error)
	Delete(ctx context.Context, id, userID string) error
	GetAvailable(ctx context.Context, scope Scope, skills []string) ([]TeamMember, error)
	UpdateSkills(ctx context.Context, id string, skills []string, userID string) (*TeamMember, error)
	GetWorkload(ctx context.Context, id string) (*Workload, error)
}

// Search spans entity families.
type Search interface {
	CrossSearch(ctx context.Context, term string, entityTypes []string, scope Scope) ([]SearchHit, error)
	AdvancedFilter(ctx context.Context, filters map[string]any, scope Scope) ([]SearchHit, error)
	RelatedItems(ctx context.Context, entityType, id string) ([]SearchHit, error)
}

// Analytics computes reporting views from stored entities.
type Analytics interface {
	ProjectProgress(ctx context.Context, projectID string) (*ProjectProgress, error)
	TeamPerformance(ctx context.Context, scope Scope) ([]MemberPerformance, error)
	DeadlineTracking(ctx context.Context, scope Scope, withinDays int) ([]DeadlineEntry, error)
	RiskAnalysis(ctx context.Context, projectID string) (*RiskReport, error)
}

// Assignment plans who should carry which work.
type Assignment interface {
	SkillBasedAssignment(ctx context.Context, taskID string) ([]AssignmentCandidate, error)
	WorkloadBalancing(ctx context.Context, scope Scope) ([]RebalanceSuggestion, error)
	CapacityPlanning(ctx context.Context, scope Scope) (*CapacityPlan, error)
}

// Registry bundles one service per entity family for the dispatcher.
type Registry struct {
	Projects   Projects
	Tasks      Tasks
	Team       Team
	Search     Search
	Analytics  Analytics
	Assignment Assignment
}
