package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `timetrack is a single-user time tracker: Projects → Sessions, with one timer.

Core concepts:
- Project: a named bucket with a color. Archived projects keep their history but cannot be timed.
- Session: one start→stop interval against a project. Durations are whole seconds.
- Timer: Idle or Running exactly one session. Starting another project stops the current one first.
- Recovery: a timer left running when the app died keeps running on restart; timer_status reports it once.

Typical calls:
1) list_projects, then start_timer(project_id) / stop_timer(note).
2) timer_status for elapsed time and any recovery notice.
3) get_dashboard, get_weekly, get_history for reports; export_csv for a spreadsheet.
4) delete_project needs confirm=true and destroys history; prefer archive_project.

Docs:
- timetrack://docs/index
- timetrack://docs/timer
- timetrack://docs/reports
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "timetrack://docs/index",
		Name:        "docs_index",
		Title:       "timetrack docs index",
		Description: "Entry point: what the tools do and which doc to read next.",
		Content: `# timetrack: Agent Docs Index

## Tools by area

- Projects: create_project, list_projects, rename_project, recolor_project, archive_project, restore_project, delete_project
- Timer: start_timer, stop_timer, discard_timer, timer_status
- Reports: get_dashboard, get_weekly, get_history, export_csv
- Audit: get_recent_activity

## Errors

Tool errors come back as JSON with ` + "`code`" + `, ` + "`message`" + ` and usually ` + "`recovery_hint`" + `.
STORAGE_ERROR means nothing changed and the call can be retried.

## Read next

- timetrack://docs/timer for the state machine and crash recovery
- timetrack://docs/reports for bucket and date-range rules
`,
	},
	{
		URI:         "timetrack://docs/timer",
		Name:        "docs_timer",
		Title:       "Timer and recovery",
		Description: "Timer state machine, switching projects, discarding, and crash recovery.",
		Content: `# Timer

The timer is Idle or Running one session. At most one session is ever open.

- start_timer while running stops and saves the current session, then starts the new one.
- stop_timer while idle does nothing and returns stopped=false.
- discard_timer deletes the open session; nothing is saved.
- Start times are stored to the second. Elapsed never goes backwards.

## Crash recovery

If the process dies with a timer running, the session stays open in the database.
On the next start the timer resumes it with the original start time, so the
downtime is counted. timer_status returns a ` + "`recovery`" + ` object once.

If more than one session was found open, only the newest keeps running. The others
are closed where the next session began and are listed under ` + "`repaired`" + `.
get_recent_activity shows these repairs as session_repaired.
`,
	},
	{
		URI:         "timetrack://docs/reports",
		Name:        "docs_reports",
		Title:       "Reports and export",
		Description: "Dashboard buckets, weekly chart, history filters, and the CSV format.",
		Content: `# Reports

All dates use the server's report time zone. Weeks start on Monday.

## Dashboard

Per project: today, this week, this month, all time. The running session counts
live. Archived projects are hidden from the rows but included in totals.
share is the project's percentage of all tracked time.

## History and export

Filters: project_id, from, to (YYYY-MM-DD, inclusive). Sessions are matched by
start time and listed newest first. The running session appears with open=true.

CSV columns: Session ID, Project, Start Time, End Time, Duration (s),
Duration (HH:MM:SS), Note. End Time is empty for the running session.
File names look like timetracker_2024-03-01_2024-03-31.csv.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		doc := doc

		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
