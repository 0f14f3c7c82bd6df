package dispatch

import (
	"github.com/taskdeck/taskdeck/pkg/schema"
)

// Tool names, fixed at startup.
const (
	ToolProjects   = "project_operations"
	ToolTasks      = "task_operations"
	ToolTeam       = "team_operations"
	ToolSearch     = "search_operations"
	ToolAnalytics  = "analytics_operations"
	ToolAssignment = "assignment_operations"
)

// ToolDefinition declares one multiplexed tool: its name, description, the
// legal action values, and the union of every field any action accepts.
// Fields irrelevant to the requested action are ignored downstream, not
// rejected; per-action required fields live in the contracts table.
type ToolDefinition struct {
	Name        string
	Description string
	Actions     *schema.EnumType
	Fields      schema.Schema
}

// Catalog is the immutable tool registry, built once at process start.
type Catalog struct {
	order []string
	tools map[string]ToolDefinition
}

// NewCatalog declares the six tools.
func NewCatalog() *Catalog {
	c := &Catalog{tools: make(map[string]ToolDefinition)}

	c.add(ToolDefinition{
		Name:        ToolProjects,
		Description: "Create, inspect, update and search projects, manage their rosters, and report status.",
		Actions: schema.Enum(
			"create", "get", "list", "update", "delete",
			"search", "get_tasks", "add_team_member", "get_status",
		),
		Fields: schema.Schema{
			"project_id":      schema.String(),
			"project_data":    schema.Object(),
			"updates":         schema.Object(),
			"member_id":       schema.String(),
			"search_term":     schema.String(),
			"status":          schema.String(),
			"user_id":         schema.String(),
			"client_id":       schema.String(),
			"organization_id": schema.String(),
			"page":            schema.Int(),
			"limit":           schema.Int(),
		},
	})

	c.add(ToolDefinition{
		Name:        ToolTasks,
		Description: "Create, inspect, update and search tasks, assign them, comment on them, and move them through statuses.",
		Actions: schema.Enum(
			"create", "get", "list", "update", "delete",
			"assign", "add_comment", "update_status", "search",
		),
		Fields: schema.Schema{
			"task_id":         schema.String(),
			"task_data":       schema.Object(),
			"updates":         schema.Object(),
			"project_id":      schema.String(),
			"member_id":       schema.String(),
			"comment":         schema.String(),
			"status":          schema.Enum("todo", "in_progress", "review", "done"),
			"search_term":     schema.String(),
			"user_id":         schema.String(),
			"client_id":       schema.String(),
			"organization_id": schema.String(),
			"assignee_id":     schema.String(),
			"page":            schema.Int(),
			"limit":           schema.Int(),
		},
	})

	c.add(ToolDefinition{
		Name:        ToolTeam,
		Description: "Manage team members, their skills and availability, and inspect per-member workload.",
		Actions: schema.Enum(
			"create", "get", "list", "update", "delete",
			"get_available", "update_skills", "get_workload",
		),
		Fields: schema.Schema{
			"member_id":       schema.String(),
			"member_data":     schema.Object(),
			"updates":         schema.Object(),
			"skills":          schema.Slice(schema.String()),
			"user_id":         schema.String(),
			"client_id":       schema.String(),
			"organization_id": schema.String(),
			"page":            schema.Int(),
			"limit":           schema.Int(),
		},
	})

	c.add(ToolDefinition{
		Name:        ToolSearch,
		Description: "Search across projects, tasks and team members, apply field filters, and walk related entities.",
		Actions: schema.Enum(
			"cross_search", "advanced_filter", "related_items",
		),
		Fields: schema.Schema{
			"search_term":     schema.String(),
			"entity_types":    schema.Slice(schema.String()),
			"filters":         schema.Object(),
			"entity_type":     schema.Enum("project", "task", "team_member"),
			"entity_id":       schema.String(),
			"client_id":       schema.String(),
			"organization_id": schema.String(),
		},
	})

	c.add(ToolDefinition{
		Name:        ToolAnalytics,
		Description: "Report project progress, team throughput, approaching deadlines and delivery risk.",
		Actions: schema.Enum(
			"project_progress", "team_performance", "deadline_tracking", "risk_analysis",
		),
		Fields: schema.Schema{
			"project_id":      schema.String(),
			"within_days":     schema.Int(),
			"client_id":       schema.String(),
			"organization_id": schema.String(),
		},
	})

	c.add(ToolDefinition{
		Name:        ToolAssignment,
		Description: "Suggest assignees by skill, rebalance open workload, and plan team capacity.",
		Actions: schema.Enum(
			"skill_based_assignment", "workload_balancing", "capacity_planning",
		),
		Fields: schema.Schema{
			"task_id":         schema.String(),
			"client_id":       schema.String(),
			"organization_id": schema.String(),
		},
	})

	return c
}

func (c *Catalog) add(def ToolDefinition) {
	c.order = append(c.order, def.Name)
	c.tools[def.Name] = def
}

// Get looks up a tool by name.
func (c *Catalog) Get(name string) (ToolDefinition, bool) {
	def, ok := c.tools[name]
	return def, ok
}

// List returns every definition in declaration order. Callers must not
// mutate the returned definitions.
func (c *Catalog) List() []ToolDefinition {
	out := make([]ToolDefinition, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.tools[name])
	}
	return out
}

// InputSchema renders the definition as a JSON-Schema object for protocol
// surfaces. Schemas are open (additionalProperties true) to match the
// union-of-actions design.
func (d ToolDefinition) InputSchema() map[string]any {
	props := map[string]any{
		"action": map[string]any{
			"type": "string",
			"enum": d.Actions.Members(),
		},
	}
	for name, typ := range d.Fields {
		props[name] = jsonSchemaType(typ)
	}
	return map[string]any{
		"type":                 "object",
		"properties":           props,
		"required":             []string{"action"},
		"additionalProperties": true,
	}
}

func jsonSchemaType(t schema.Type) map[string]any {
	switch typ := t.(type) {
	case *schema.StringType:
		return map[string]any{"type": "string"}
	case *schema.IntType:
		return map[string]any{"type": "integer"}
	case *schema.FloatType:
		return map[string]any{"type": "number"}
	case *schema.BoolType:
		return map[string]any{"type": "boolean"}
	case *schema.EnumType:
		return map[string]any{"type": "string", "enum": typ.Members()}
	case *schema.SliceType:
		return map[string]any{"type": "array", "items": jsonSchemaType(typ.Elem())}
	case *schema.ObjectType:
		return map[string]any{"type": "object"}
	}
	return map[string]any{}
}
