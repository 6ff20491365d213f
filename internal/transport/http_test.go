package transport

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rpggio/timetrack/internal/domain/errs"
	"github.com/rpggio/timetrack/internal/domain/report"
	"github.com/stretchr/testify/require"
)

type exportStub struct {
	got report.Filter
	err error
}

func (e *exportStub) Export(_ context.Context, w io.Writer, f report.Filter) (int, error) {
	e.got = f
	if e.err != nil {
		return 0, e.err
	}
	_, err := io.WriteString(w, "Session ID,Project\n1,Website\n")
	return 1, err
}

func (e *exportStub) ExportFileName(report.Filter) string {
	return "timetracker_2024-03-01_2024-03-06.csv"
}

func TestHTTPServer_Health(t *testing.T) {
	server := httptest.NewServer(NewServer(Options{Token: "token"}))
	t.Cleanup(server.Close)

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHTTPServer_MCPRequiresToken(t *testing.T) {
	var called bool
	mcpHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})
	server := httptest.NewServer(NewServer(Options{MCP: mcpHandler, Token: "token"}))
	t.Cleanup(server.Close)

	resp, err := http.Post(server.URL+"/mcp", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.False(t, called)

	req, err := http.NewRequest(http.MethodPost, server.URL+"/mcp", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer token")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, called)
}

func TestHTTPServer_Export(t *testing.T) {
	stub := &exportStub{}
	server := httptest.NewServer(NewServer(Options{Reports: stub}))
	t.Cleanup(server.Close)

	resp, err := http.Get(server.URL + "/export.csv?project_id=3&from=2024-03-01&to=2024-03-06")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "text/csv; charset=utf-8", resp.Header.Get("Content-Type"))
	require.Contains(t, resp.Header.Get("Content-Disposition"), "timetracker_2024-03-01_2024-03-06.csv")
	require.Equal(t, "1", resp.Header.Get("X-Export-Rows"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, "Session ID,Project\n1,Website\n", string(body))
	require.Equal(t, int64(3), *stub.got.ProjectID)
	require.Equal(t, 1, stub.got.From.Day())
	require.Equal(t, 6, stub.got.To.Day())
}

func TestHTTPServer_ExportErrors(t *testing.T) {
	cases := []struct {
		name   string
		query  string
		err    error
		status int
	}{
		{"bad project id", "?project_id=abc", nil, http.StatusBadRequest},
		{"bad date", "?from=yesterday", nil, http.StatusBadRequest},
		{"reversed range", "", report.ErrInvalidRange, http.StatusBadRequest},
		{"unknown project", "?project_id=9", report.ErrProjectNotFound, http.StatusNotFound},
		{"storage", "", errs.Storage("listing sessions", errors.New("disk I/O error")), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(NewServer(Options{Reports: &exportStub{err: tc.err}}))
			t.Cleanup(server.Close)

			resp, err := http.Get(server.URL + "/export.csv" + tc.query)
			require.NoError(t, err)
			resp.Body.Close()
			require.Equal(t, tc.status, resp.StatusCode)
		})
	}
}
