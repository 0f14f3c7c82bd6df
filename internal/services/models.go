package services

import "time"

// Project is the top-level unit of work, scoped to an organization.
type Project struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description,omitempty"`
	Status         string    `json:"status"`
	ClientID       string    `json:"client_id,omitempty"`
	OrganizationID string    `json:"organization_id,omitempty"`
	TeamMemberIDs  []string  `json:"team_member_ids,omitempty"`
	StartDate      string    `json:"start_date,omitempty"`
	DueDate        string    `json:"due_date,omitempty"`
	CreatedBy      string    `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Task statuses form a simple fixed progression; Done is terminal.
const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in_progress"
	TaskStatusReview     = "review"
	TaskStatusDone       = "done"
)

// Task belongs to a project and may be assigned to a team member.
type Task struct {
	ID             string    `json:"id"`
	ProjectID      string    `json:"project_id"`
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	Status         string    `json:"status"`
	Priority       string    `json:"priority,omitempty"`
	AssigneeID     string    `json:"assignee_id,omitempty"`
	RequiredSkills []string  `json:"required_skills,omitempty"`
	EstimateHours  float64   `json:"estimate_hours,omitempty"`
	DueDate        string    `json:"due_date,omitempty"`
	Comments       []Comment `json:"comments,omitempty"`
	ClientID       string    `json:"client_id,omitempty"`
	OrganizationID string    `json:"organization_id,omitempty"`
	CreatedBy      string    `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Comment is an append-only note on a task.
type Comment struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// TeamMember is a person who can carry tasks.
type TeamMember struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email,omitempty"`
	Role           string    `json:"role,omitempty"`
	Skills         []string  `json:"skills,omitempty"`
	CapacityHours  float64   `json:"capacity_hours,omitempty"`
	Available      bool      `json:"available"`
	OrganizationID string    `json:"organization_id,omitempty"`
	CreatedBy      string    `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Scope narrows reads to a tenant boundary. Zero value means unscoped.
type Scope struct {
	ClientID       string
	OrganizationID string
}

// Matches reports whether an entity's identifiers fall inside the scope.
// Empty scope fields match everything.
func (s Scope) Matches(clientID, organizationID string) bool {
	if s.ClientID != "" && s.ClientID != clientID {
		return false
	}
	if s.OrganizationID != "" && s.OrganizationID != organizationID {
		return false
	}
	return true
}

// Pagination carries optional page/limit. Services apply their own defaults
// when either is zero; callers never inject defaults on their behalf.
type Pagination struct {
	Page  int
	Limit int
}

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// window converts the pagination to slice bounds over n items.
func (p Pagination) window(n int) (lo, hi int) {
	limit := p.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	page := p.Page
	if page <= 0 {
		page = 1
	}
	lo = (page - 1) * limit
	if lo > n {
		lo = n
	}
	hi = lo + limit
	if hi > n {
		hi = n
	}
	return lo, hi
}

// ProjectStatus summarizes a project's current position.
type ProjectStatus struct {
	ProjectID  string         `json:"project_id"`
	Status     string         `json:"status"`
	TaskCounts map[string]int `json:"task_counts"`
	TotalTasks int            `json:"total_tasks"`
	Completion float64        `json:"completion"`
}

// Workload summarizes a member's open work.
type Workload struct {
	MemberID      string  `json:"member_id"`
	OpenTasks     int     `json:"open_tasks"`
	EstimateHours float64 `json:"estimate_hours"`
	CapacityHours float64 `json:"capacity_hours"`
	Utilization   float64 `json:"utilization"`
}

// SearchHit is one cross-entity search result.
type SearchHit struct {
	EntityType string `json:"entity_type"`
	ID         string `json:"id"`
	Title      string `json:"title"`
	Snippet    string `json:"snippet,omitempty"`
}

// ProjectProgress is the analytics view of a single project.
type ProjectProgress struct {
	ProjectID      string         `json:"project_id"`
	TotalTasks     int            `json:"total_tasks"`
	TasksByStatus  map[string]int `json:"tasks_by_status"`
	Completion     float64        `json:"completion"`
	OverdueTasks   int            `json:"overdue_tasks"`
	UnassignedOpen int            `json:"unassigned_open"`
}

// MemberPerformance is the analytics view of one member's throughput.
type MemberPerformance struct {
	MemberID       string  `json:"member_id"`
	Name           string  `json:"name"`
	CompletedTasks int     `json:"completed_tasks"`
	OpenTasks      int     `json:"open_tasks"`
	CompletionRate float64 `json:"completion_rate"`
}

// DeadlineEntry is one task approaching or past its due date.
type DeadlineEntry struct {
	TaskID    string `json:"task_id"`
	ProjectID string `json:"project_id"`
	Title     string `json:"title"`
	DueDate   string `json:"due_date"`
	DaysLeft  int    `json:"days_left"`
	Overdue   bool   `json:"overdue"`
}

// RiskReport flags delivery risks for a project.
type RiskReport struct {
	ProjectID string   `json:"project_id"`
	RiskLevel string   `json:"risk_level"`
	Factors   []string `json:"factors"`
}

// AssignmentCandidate is a ranked suggestion for who should take a task.
type AssignmentCandidate struct {
	MemberID      string   `json:"member_id"`
	Name          string   `json:"name"`
	Score         float64  `json:"score"`
	MatchedSkills []string `json:"matched_skills"`
	OpenTasks     int      `json:"open_tasks"`
}

// RebalanceSuggestion proposes moving a task between members.
type RebalanceSuggestion struct {
	TaskID     string `json:"task_id"`
	FromMember string `json:"from_member"`
	ToMember   string `json:"to_member"`
	Reason     string `json:"reason"`
}

// CapacityPlan compares open work against team capacity.
type CapacityPlan struct {
	TotalCapacityHours float64    `json:"total_capacity_hours"`
	CommittedHours     float64    `json:"committed_hours"`
	FreeHours          float64    `json:"free_hours"`
	Members            []Workload `json:"members"`
}
