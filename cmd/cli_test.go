package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignupRequiresPasswordFlag(t *testing.T) {
	home := t.TempDir()

	_, _, err := executeCLI(t, home,
		"signup",
		"--name", "Ada",
		"--email", "ada@example.com",
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag(s) \"password\" not set")
}

func TestSignupRejectsShortPassword(t *testing.T) {
	home := t.TempDir()

	_, _, err := executeCLI(t, home,
		"signup",
		"--name", "Ada",
		"--email", "ada@example.com",
		"--password", "short",
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 6 characters")
}

func TestSignupThenWhoami(t *testing.T) {
	server := newAuthServer(t)
	defer server.Close()
	t.Setenv("TL_API_BASE_URL", server.URL)

	home := t.TempDir()

	stdout, _, err := executeCLI(t, home,
		"signup",
		"--name", "Ada",
		"--email", "ada@example.com",
		"--password", "hunter2",
	)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Account created and logged in as ada@example.com")

	stdout, _, err = executeCLI(t, home, "whoami")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Ada <ada@example.com> (id u-1)")
}

func TestLoginPersistsSessionAcrossInvocations(t *testing.T) {
	server := newAuthServer(t)
	defer server.Close()
	t.Setenv("TL_API_BASE_URL", server.URL)

	home := t.TempDir()

	stdout, _, err := executeCLI(t, home,
		"login",
		"--email", "ada@example.com",
		"--password", "hunter2",
	)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Logged in as ada@example.com")

	stdout, _, err = executeCLI(t, home, "whoami")
	require.NoError(t, err)
	assert.Contains(t, stdout, "ada@example.com")
}

func TestLoginSurfacesServerDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = fmt.Fprint(w, `{"detail":"Incorrect email or password"}`)
	}))
	defer server.Close()
	t.Setenv("TL_API_BASE_URL", server.URL)

	home := t.TempDir()

	_, _, err := executeCLI(t, home,
		"login",
		"--email", "ada@example.com",
		"--password", "wrongpass",
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Incorrect email or password")
}

func TestWhoamiRequiresLogin(t *testing.T) {
	home := t.TempDir()

	_, _, err := executeCLI(t, home, "whoami")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not logged in")
}

func TestLogoutWithoutSessionIsANoop(t *testing.T) {
	home := t.TempDir()

	stdout, _, err := executeCLI(t, home, "logout")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Not logged in.")
}

func TestLogoutClearsPersistedSession(t *testing.T) {
	server := newAuthServer(t)
	defer server.Close()
	t.Setenv("TL_API_BASE_URL", server.URL)

	home := t.TempDir()

	_, _, err := executeCLI(t, home,
		"login",
		"--email", "ada@example.com",
		"--password", "hunter2",
	)
	require.NoError(t, err)

	stdout, _, err := executeCLI(t, home, "logout")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Logged out.")

	_, _, err = executeCLI(t, home, "whoami")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not logged in")
}

func TestListRequiresLogin(t *testing.T) {
	home := t.TempDir()

	_, _, err := executeCLI(t, home, "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not logged in")
	assert.Contains(t, err.Error(), "tl login")
}

func TestListRejectsUnknownFilter(t *testing.T) {
	home := t.TempDir()

	_, _, err := executeCLI(t, home, "list", "--filter", "bogus")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown filter")
}

func TestListFetchesAndRendersRemoteTodos(t *testing.T) {
	server := newAuthServer(t)
	defer server.Close()
	t.Setenv("TL_API_BASE_URL", server.URL)

	home := t.TempDir()
	require.NoError(t, loginCLI(t, home))

	stdout, _, err := executeCLI(t, home, "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Tasks for ada@example.com")
	assert.Contains(t, stdout, "Buy milk")
	assert.Contains(t, stdout, "Ship release")
	assert.Contains(t, stdout, "[x]")
	assert.Contains(t, stdout, "1 open")
	assert.Contains(t, stdout, "1 done")
}

func TestListScopesOutForeignTodos(t *testing.T) {
	server := newAuthServer(t)
	defer server.Close()
	t.Setenv("TL_API_BASE_URL", server.URL)

	home := t.TempDir()
	require.NoError(t, loginCLI(t, home))

	stdout, _, err := executeCLI(t, home, "list", "--json")
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(stdout)))
	assert.Contains(t, stdout, "Buy milk")
	assert.NotContains(t, stdout, "Someone else's task")
}

func TestListCompletedFilterHidesOpenTodos(t *testing.T) {
	server := newAuthServer(t)
	defer server.Close()
	t.Setenv("TL_API_BASE_URL", server.URL)

	home := t.TempDir()
	require.NoError(t, loginCLI(t, home))

	stdout, _, err := executeCLI(t, home, "list", "--filter", "completed", "--json")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Ship release")
	assert.NotContains(t, stdout, "Buy milk")
}

func TestListShowsFetchingSpinnerMessage(t *testing.T) {
	server := newAuthServer(t)
	server.Config.Handler = withDelay(server.Config.Handler, 200*time.Millisecond)
	defer server.Close()
	t.Setenv("TL_API_BASE_URL", server.URL)

	home := t.TempDir()
	require.NoError(t, loginCLI(t, home))

	_, stderr, err := executeCLI(t, home, "list")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Fetching tasks")
}

func TestAddDoneRemoveFlowWithLocalStorage(t *testing.T) {
	server := newAuthServer(t)
	defer server.Close()
	t.Setenv("TL_API_BASE_URL", server.URL)
	t.Setenv("TL_STORAGE", "local")

	home := t.TempDir()
	require.NoError(t, loginCLI(t, home))

	stdout, _, err := executeCLI(t, home, "add", "Buy", "milk", "-d", "two liters")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Added \"Buy milk\"")
	id := extractID(t, stdout)

	stdout, _, err = executeCLI(t, home, "done", id)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Marked \"Buy milk\" as done")

	stdout, _, err = executeCLI(t, home, "list", "--filter", "completed", "--json")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Buy milk")

	stdout, _, err = executeCLI(t, home, "rm", id)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Deleted.")

	stdout, _, err = executeCLI(t, home, "list", "--json")
	require.NoError(t, err)
	assert.NotContains(t, stdout, "Buy milk")
}

func TestAddRejectsBlankTitle(t *testing.T) {
	server := newAuthServer(t)
	defer server.Close()
	t.Setenv("TL_API_BASE_URL", server.URL)
	t.Setenv("TL_STORAGE", "local")

	home := t.TempDir()
	require.NoError(t, loginCLI(t, home))

	_, _, err := executeCLI(t, home, "add", "   ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title must not be empty")
}

func TestEditRewritesTitleAndDescription(t *testing.T) {
	server := newAuthServer(t)
	defer server.Close()
	t.Setenv("TL_API_BASE_URL", server.URL)
	t.Setenv("TL_STORAGE", "local")

	home := t.TempDir()
	require.NoError(t, loginCLI(t, home))

	stdout, _, err := executeCLI(t, home, "add", "Buy milk")
	require.NoError(t, err)
	id := extractID(t, stdout)

	stdout, _, err = executeCLI(t, home, "edit", id, "--title", "Buy oat milk")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Updated \"Buy oat milk\"")
}

func TestDoneUnknownIDReturnsNotFound(t *testing.T) {
	server := newAuthServer(t)
	defer server.Close()
	t.Setenv("TL_API_BASE_URL", server.URL)
	t.Setenv("TL_STORAGE", "local")

	home := t.TempDir()
	require.NoError(t, loginCLI(t, home))

	_, _, err := executeCLI(t, home, "done", "no-such-id")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "todo not found")
}

func TestClearRemovesCompletedTodos(t *testing.T) {
	server := newAuthServer(t)
	defer server.Close()
	t.Setenv("TL_API_BASE_URL", server.URL)
	t.Setenv("TL_STORAGE", "local")

	home := t.TempDir()
	require.NoError(t, loginCLI(t, home))

	stdout, _, err := executeCLI(t, home, "add", "Buy milk")
	require.NoError(t, err)
	id := extractID(t, stdout)

	_, _, err = executeCLI(t, home, "add", "Walk the dog")
	require.NoError(t, err)

	_, _, err = executeCLI(t, home, "done", id)
	require.NoError(t, err)

	stdout, _, err = executeCLI(t, home, "clear")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Cleared 1 completed task(s)")

	stdout, _, err = executeCLI(t, home, "list", "--json")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Walk the dog")
	assert.NotContains(t, stdout, "Buy milk")
}

func TestLogoutPurgesLocalTodos(t *testing.T) {
	server := newAuthServer(t)
	defer server.Close()
	t.Setenv("TL_API_BASE_URL", server.URL)
	t.Setenv("TL_STORAGE", "local")

	home := t.TempDir()
	require.NoError(t, loginCLI(t, home))

	_, _, err := executeCLI(t, home, "add", "Buy milk")
	require.NoError(t, err)

	_, _, err = executeCLI(t, home, "logout")
	require.NoError(t, err)

	require.NoError(t, loginCLI(t, home))

	stdout, _, err := executeCLI(t, home, "list", "--json")
	require.NoError(t, err)
	assert.NotContains(t, stdout, "Buy milk")
}

func TestPingReportsHealthyAPI(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/healthz", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()
	t.Setenv("TL_API_BASE_URL", server.URL)

	home := t.TempDir()

	stdout, _, err := executeCLI(t, home, "ping")
	require.NoError(t, err)
	assert.Contains(t, stdout, "API is up.")
}

func TestPingReportsUnreachableAPI(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()
	t.Setenv("TL_API_BASE_URL", server.URL)

	home := t.TempDir()

	_, _, err := executeCLI(t, home, "ping")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "health check request")
}

func TestVersionPrintsVersion(t *testing.T) {
	home := t.TempDir()

	stdout, _, err := executeCLI(t, home, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "dev")
}

func executeCLI(t *testing.T, home string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", home)

	root := newRootCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func loginCLI(t *testing.T, home string) error {
	t.Helper()
	_, _, err := executeCLI(t, home,
		"login",
		"--email", "ada@example.com",
		"--password", "hunter2",
	)
	return err
}

// extractID pulls the parenthesized record id out of "Added %q (%s)" style
// output.
func extractID(t *testing.T, stdout string) string {
	t.Helper()

	start := strings.LastIndex(stdout, "(")
	end := strings.LastIndex(stdout, ")")
	require.True(t, start >= 0 && end > start, "no id in output: %q", stdout)

	return stdout[start+1 : end]
}

// newAuthServer fakes the auth endpoints plus a fixed remote todo
// collection: one open and one done task for user u-1, and a foreign task
// that must never surface.
func newAuthServer(t *testing.T) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/auth/signup":
			var req struct {
				Name  string `json:"name"`
				Email string `json:"email"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			_, _ = fmt.Fprint(w, `{"_id":"u-1","access_token":"token-123"}`)
		case "/api/v1/auth/login":
			var req struct {
				Email string `json:"email"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			_, _ = fmt.Fprintf(w, `{"access_token":"token-123","user":{"_id":"u-1","email":%q,"name":"Ada"}}`, req.Email)
		case "/api/v1/todos":
			assert.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))
			_, _ = fmt.Fprint(w, `[
				{"_id":"t-1","title":"Buy milk","description":"","completed":false,"userId":"u-1"},
				{"_id":"t-2","title":"Ship release","description":"","completed":true,"userId":"u-1"},
				{"_id":"t-3","title":"Someone else's task","description":"","completed":false,"userId":"u-2"}
			]`)
		default:
			http.NotFound(w, r)
		}
	}))
}

func withDelay(next http.Handler, delay time.Duration) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(delay)
		next.ServeHTTP(w, r)
	})
}
