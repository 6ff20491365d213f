package mcp

// ToolDefinition describes a callable tool
type ToolDefinition struct {
	Name        string
	Description string
	InputSchema map[string]any
}

func noArgs() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}
}

func projectIDArg(description string) map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"project_id": map[string]any{
				"type":        "integer",
				"description": description,
			},
		},
		"required": []string{"project_id"},
	}
}

func rangeProperties() map[string]any {
	return map[string]any{
		"project_id": map[string]any{
			"type":        "integer",
			"description": "Only sessions of this project (omit for all projects)",
		},
		"from": map[string]any{
			"type":        "string",
			"description": "First day to include, YYYY-MM-DD in the report time zone (omit for no lower bound)",
		},
		"to": map[string]any{
			"type":        "string",
			"description": "Last day to include, YYYY-MM-DD (omit for no upper bound)",
		},
	}
}

// buildToolCatalog returns all available MCP tools
func buildToolCatalog() []ToolDefinition {
	history := rangeProperties()
	history["limit"] = map[string]any{
		"type":        "integer",
		"description": "Maximum number of sessions (default 100)",
	}
	history["offset"] = map[string]any{
		"type":        "integer",
		"description": "Sessions to skip, for paging",
	}
	export := rangeProperties()
	export["save"] = map[string]any{
		"type":        "boolean",
		"description": "Also write the CSV into the server's export directory",
	}

	return []ToolDefinition{
		// Projects
		{
			Name:        "create_project",
			Description: "Create a project to track time against",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name": map[string]any{
						"type":        "string",
						"description": "Project display name, unique among active projects",
					},
					"color": map[string]any{
						"type":        "string",
						"description": "Accent color as #RGB or #RRGGBB (default #4A9EFF)",
					},
				},
				"required": []string{"name"},
			},
		},
		{
			Name:        "list_projects",
			Description: "List projects with their session count and total tracked time",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"include_archived": map[string]any{
						"type":        "boolean",
						"description": "Include archived projects",
					},
				},
			},
		},
		{
			Name:        "rename_project",
			Description: "Rename a project",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"project_id": map[string]any{"type": "integer"},
					"name":       map[string]any{"type": "string"},
				},
				"required": []string{"project_id", "name"},
			},
		},
		{
			Name:        "recolor_project",
			Description: "Change a project's accent color",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"project_id": map[string]any{"type": "integer"},
					"color":      map[string]any{"type": "string"},
				},
				"required": []string{"project_id", "color"},
			},
		},
		{
			Name:        "archive_project",
			Description: "Hide a project from the timer and dashboard; its history is kept",
			InputSchema: projectIDArg("Project to archive. Must not have the running timer"),
		},
		{
			Name:        "restore_project",
			Description: "Bring an archived project back",
			InputSchema: projectIDArg("Project to restore"),
		},
		{
			Name:        "delete_project",
			Description: "Permanently delete a project and all of its sessions",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"project_id": map[string]any{"type": "integer"},
					"confirm": map[string]any{
						"type":        "boolean",
						"description": "Must be true; get the user's agreement first",
					},
				},
				"required": []string{"project_id", "confirm"},
			},
		},

		// Timer
		{
			Name:        "start_timer",
			Description: "Start timing a project. A timer already running is stopped and saved first",
			InputSchema: projectIDArg("Project to time"),
		},
		{
			Name:        "stop_timer",
			Description: "Stop the running timer and save the session",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"note": map[string]any{
						"type":        "string",
						"description": "Optional note stored with the session",
					},
				},
			},
		},
		{
			Name:        "discard_timer",
			Description: "Throw away the running session without saving it",
			InputSchema: noArgs(),
		},
		{
			Name:        "timer_status",
			Description: "Get the timer state, elapsed seconds, and any crash-recovery notice",
			InputSchema: noArgs(),
		},

		// Reports
		{
			Name:        "get_dashboard",
			Description: "Tracked time per project for today, this week, this month, and all time",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"project_id": map[string]any{
						"type":        "integer",
						"description": "Limit the rows to one project (omit for all active projects)",
					},
				},
			},
		},
		{
			Name:        "get_weekly",
			Description: "Tracked time per day for the last seven days, today last",
			InputSchema: noArgs(),
		},
		{
			Name:        "get_history",
			Description: "List sessions newest first, with a summary of the whole match",
			InputSchema: map[string]any{
				"type":       "object",
				"properties": history,
			},
		},
		{
			Name:        "export_csv",
			Description: "Export sessions as CSV with the same filters as get_history",
			InputSchema: map[string]any{
				"type":       "object",
				"properties": export,
			},
		},

		// Activity
		{
			Name:        "get_recent_activity",
			Description: "Get recent timer and project events, including recovery repairs",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"project_id": map[string]any{
						"type":        "integer",
						"description": "Project ID to filter by",
					},
					"type": map[string]any{
						"type":        "string",
						"description": "Activity type to filter by, e.g. timer_stopped",
					},
					"since": map[string]any{
						"type":        "string",
						"description": "Timestamp to fetch activity since (ISO 8601)",
					},
					"limit": map[string]any{
						"type":        "integer",
						"description": "Maximum number of activity entries (default 50)",
					},
				},
			},
		},
	}
}
