package integration_test

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

// TestStdioProtocolCompliance runs the built server binary over stdio with
// the SDK client.
func TestStdioProtocolCompliance(t *testing.T) {
	binaryPath := "./bin/timetrack-server"
	if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
		binaryPath = "../../bin/timetrack-server"
		if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
			t.Skip("Server binary not found. Run 'go build -o bin/timetrack-server ./cmd/server' first.")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, binaryPath)
	cmd.Env = append(os.Environ(),
		"TIMETRACK_TRANSPORT=stdio",
		"TIMETRACK_DB_PATH="+filepath.Join(t.TempDir(), "timetracker.db"),
		"TIMETRACK_TIMEZONE=UTC",
	)

	client := sdkmcp.NewClient(&sdkmcp.Implementation{
		Name:    "test-client",
		Version: "1.0.0",
	}, nil)

	session, err := client.Connect(ctx, &sdkmcp.CommandTransport{Command: cmd}, nil)
	require.NoError(t, err, "Failed to connect to server")
	defer session.Close()

	t.Run("ServerInfo", func(t *testing.T) {
		initResult := session.InitializeResult()
		require.NotNil(t, initResult)
		require.NotNil(t, initResult.ServerInfo)
		require.Equal(t, "timetrack", initResult.ServerInfo.Name)
		require.Equal(t, "0.1.0", initResult.ServerInfo.Version)
	})

	t.Run("ListTools", func(t *testing.T) {
		tools, err := session.ListTools(ctx, nil)
		require.NoError(t, err)
		names := make(map[string]bool)
		for _, tool := range tools.Tools {
			names[tool.Name] = true
		}
		for _, want := range []string{"create_project", "start_timer", "stop_timer", "get_dashboard", "export_csv"} {
			require.True(t, names[want], "missing tool %s", want)
		}
	})

	t.Run("TimerRoundTrip", func(t *testing.T) {
		result, err := session.CallTool(ctx, &sdkmcp.CallToolParams{
			Name:      "create_project",
			Arguments: map[string]any{"name": "Stdio"},
		})
		require.NoError(t, err)
		require.False(t, result.IsError)

		var created struct {
			ID int64 `json:"id"`
		}
		require.NoError(t, json.Unmarshal([]byte(result.Content[0].(*sdkmcp.TextContent).Text), &created))

		result, err = session.CallTool(ctx, &sdkmcp.CallToolParams{
			Name:      "start_timer",
			Arguments: map[string]any{"project_id": created.ID},
		})
		require.NoError(t, err)
		require.False(t, result.IsError)

		result, err = session.CallTool(ctx, &sdkmcp.CallToolParams{Name: "stop_timer"})
		require.NoError(t, err)
		require.False(t, result.IsError)
	})

	t.Run("ReadDocs", func(t *testing.T) {
		res, err := session.ReadResource(ctx, &sdkmcp.ReadResourceParams{URI: "timetrack://docs/index"})
		require.NoError(t, err)
		require.NotEmpty(t, res.Contents)
	})
}
