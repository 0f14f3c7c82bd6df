package dispatch

// Action contracts: the fields that must be present and non-empty for each
// (tool, action) pair. The structural schema deliberately requires nothing;
// this table is where required-ness lives.
//
// Policy: every mutating action requires user_id for the audit trail, never
// silently defaulted. Read actions treat scoping identifiers as optional
// filters, so they appear in the schema union but never here.
var contracts = map[string]map[string][]string{
	ToolProjects: {
		"create":          {"project_data", "user_id"},
		"get":             {"project_id"},
		"list":            {},
		"update":          {"project_id", "updates", "user_id"},
		"delete":          {"project_id", "user_id"},
		"search":          {"search_term"},
		"get_tasks":       {"project_id"},
		"add_team_member": {"project_id", "member_id", "user_id"},
		"get_status":      {"project_id"},
	},
	ToolTasks: {
		"create":        {"task_data", "user_id"},
		"get":           {"task_id"},
		"list":          {},
		"update":        {"task_id", "updates", "user_id"},
		"delete":        {"task_id", "user_id"},
		"assign":        {"task_id", "member_id", "user_id"},
		"add_comment":   {"task_id", "comment", "user_id"},
		"update_status": {"task_id", "status", "user_id"},
		"search":        {"search_term"},
	},
	ToolTeam: {
		"create":        {"member_data", "user_id"},
		"get":           {"member_id"},
		"list":          {},
		"update":        {"member_id", "updates", "user_id"},
		"delete":        {"member_id", "user_id"},
		"get_available": {},
		"update_skills": {"member_id", "skills", "user_id"},
		"get_workload":  {"member_id"},
	},
	ToolSearch: {
		"cross_search":    {"search_term"},
		"advanced_filter": {"filters"},
		"related_items":   {"entity_type", "entity_id"},
	},
	ToolAnalytics: {
		"project_progress":  {"project_id"},
		"team_performance":  {},
		"deadline_tracking": {},
		"risk_analysis":     {"project_id"},
	},
	ToolAssignment: {
		"skill_based_assignment": {"task_id"},
		"workload_balancing":     {},
		"capacity_planning":      {},
	},
}

// requiredFields returns the contract for a pair already known to exist
// (the action was checked against the tool's enum first).
func requiredFields(tool, action string) []string {
	return contracts[tool][action]
}
