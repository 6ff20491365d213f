package mcp

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/timetrack/internal/domain/activity"
	"github.com/rpggio/timetrack/internal/domain/project"
	"github.com/rpggio/timetrack/internal/domain/report"
	"github.com/rpggio/timetrack/internal/domain/session"
)

// ProjectService defines project operations needed by MCP.
type ProjectService interface {
	Create(ctx context.Context, req project.CreateRequest) (*project.Project, error)
	Get(ctx context.Context, id int64) (*project.Project, error)
	List(ctx context.Context, includeArchived bool) ([]project.ProjectSummary, error)
	Rename(ctx context.Context, id int64, name string) (*project.Project, error)
	Recolor(ctx context.Context, id int64, color string) (*project.Project, error)
	Archive(ctx context.Context, id int64) (*project.Project, error)
	Restore(ctx context.Context, id int64) (*project.Project, error)
	Delete(ctx context.Context, id int64, confirm bool) error
}

// TimerService defines timer operations needed by MCP.
type TimerService interface {
	Start(ctx context.Context, projectID int64) (*session.Session, error)
	Stop(ctx context.Context, note string) (*session.Session, error)
	Discard(ctx context.Context) error
	Status() session.Status
	TakeRecoveryNotice() *session.RecoveryNotice
}

// ReportService defines report operations needed by MCP.
type ReportService interface {
	Dashboard(ctx context.Context, projectID *int64) (*report.Dashboard, error)
	Weekly(ctx context.Context) ([]report.DayTotal, error)
	History(ctx context.Context, f report.Filter) (*report.History, error)
	Export(ctx context.Context, w io.Writer, f report.Filter) (int, error)
	ExportFileName(f report.Filter) string
}

// ActivityService defines activity operations needed by MCP.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Projects ProjectService
	Timer    TimerService
	Reports  ReportService
	Activity ActivityService
}

// Config contains server configuration.
type Config struct {
	Services Services
	// AuthToken is the bearer token HTTP clients must present. Empty disables auth.
	AuthToken     string
	TransportMode string // "stdio" or "http"
	// ExportDir receives CSV files written by export_csv with save set.
	ExportDir string
	Logger    *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "timetrack",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	// Stdio is a local pipe, so auth only applies to HTTP.
	if cfg.TransportMode != "stdio" && cfg.AuthToken != "" {
		server.AddReceivingMiddleware(authMiddleware(cfg.AuthToken))
	}
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	handler := NewHandler(cfg.Services, cfg.ExportDir)
	registerTools(server, handler, cfg.Logger)

	return server
}

// registerTools exposes every catalog entry as a tool backed by the handler.
func registerTools(server *sdkmcp.Server, handler *Handler, logger *slog.Logger) {
	for _, def := range buildToolCatalog() {
		name := def.Name
		server.AddTool(&sdkmcp.Tool{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: def.InputSchema,
		}, func(ctx context.Context, req *sdkmcp.CallToolRequest) (*sdkmcp.CallToolResult, error) {
			var args json.RawMessage
			if req != nil && req.Params != nil {
				args = req.Params.Arguments
			}
			result, err := handler.Handle(ctx, name, args)
			if err != nil {
				if logger != nil {
					logger.Debug("tool failed", "tool", name, "error", err)
				}
				return errorResult(err), nil
			}
			return jsonResult(result)
		})
	}
}

func jsonResult(v any) (*sdkmcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}, nil
}

func errorResult(err error) *sdkmcp.CallToolResult {
	apiErr := MapError(err)
	if apiErr == nil {
		apiErr = &APIError{Code: "INTERNAL_ERROR", Message: err.Error()}
	}
	data, marshalErr := json.Marshal(apiErr)
	if marshalErr != nil {
		data = []byte(apiErr.Error())
	}
	return &sdkmcp.CallToolResult{
		IsError: true,
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}
}
