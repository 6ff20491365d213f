// Package testserver runs the full HTTP stack over an in-memory database
// for end-to-end tests.
package testserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/timetrack/internal/app"
	"github.com/rpggio/timetrack/internal/mcp"
	"github.com/rpggio/timetrack/internal/transport"
	"github.com/stretchr/testify/require"
)

type TestServer struct {
	Server *httptest.Server
	App    *app.App
	Token  string
	Clock  *Clock
}

// Clock is a settable time source shared by the timer and reports.
type Clock struct {
	now time.Time
}

func (c *Clock) Now() time.Time          { return c.now }
func (c *Clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func New(t *testing.T, token string) *TestServer {
	t.Helper()

	clock := &Clock{now: time.Date(2024, 3, 6, 9, 0, 0, 0, time.UTC)}
	a, err := app.Open(context.Background(), app.Options{
		DBPath:   ":memory:",
		Location: time.UTC,
		Now:      clock.Now,
	})
	require.NoError(t, err)

	mcpServer := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Projects: a.Projects,
			Timer:    a.Timer,
			Reports:  a.Reports,
			Activity: a.Activity,
		},
		AuthToken:     token,
		TransportMode: "http",
		ExportDir:     t.TempDir(),
	})
	handler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return mcpServer }, nil)

	server := httptest.NewServer(transport.NewServer(transport.Options{
		MCP:     handler,
		Reports: a.Reports,
		Token:   token,
	}))

	t.Cleanup(func() {
		server.Close()
		_ = a.Close()
	})

	return &TestServer{Server: server, App: a, Token: token, Clock: clock}
}

// Connect opens an MCP client session authenticated with token.
func (ts *TestServer) Connect(t *testing.T, token string) (*sdkmcp.ClientSession, error) {
	t.Helper()
	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	return client.Connect(context.Background(), &sdkmcp.StreamableClientTransport{
		Endpoint:   ts.Server.URL + "/mcp",
		HTTPClient: &http.Client{Transport: bearer{token: token}},
	}, nil)
}

type bearer struct {
	token string
}

func (b bearer) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	if b.token != "" {
		req.Header.Set("Authorization", "Bearer "+b.token)
	}
	return http.DefaultTransport.RoundTrip(req)
}
