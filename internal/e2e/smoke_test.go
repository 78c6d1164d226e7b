package e2e

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSmokeFlow(t *testing.T) {
	home := t.TempDir()
	binaryPath := buildBinary(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/auth/signup":
			_, _ = fmt.Fprint(w, `{"_id":"u-1","access_token":"token-123"}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	env := []string{
		"TL_API_BASE_URL=" + server.URL,
		"TL_STORAGE=local",
	}

	_, stderr, err := runTL(t, binaryPath, home, env,
		"signup",
		"--name", "Ada",
		"--email", "ada@example.com",
		"--password", "hunter2",
	)
	require.NoError(t, err, "stderr: %s", stderr)

	stdout, stderr, err := runTL(t, binaryPath, home, env, "whoami")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "ada@example.com")

	_, stderr, err = runTL(t, binaryPath, home, env, "add", "Buy milk")
	require.NoError(t, err, "stderr: %s", stderr)

	stdout, stderr, err = runTL(t, binaryPath, home, env, "list", "--json")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "Buy milk")

	stdout, stderr, err = runTL(t, binaryPath, home, env, "logout")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "Logged out.")
}

func buildBinary(t *testing.T) string {
	t.Helper()

	binaryPath := filepath.Join(t.TempDir(), "tl-e2e")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/tl")
	cmd.Dir = repoRoot(t)

	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "build tl binary: %s", string(output))
	return binaryPath
}

func runTL(t *testing.T, binaryPath, home string, env []string, args ...string) (string, string, error) {
	t.Helper()

	cmd := exec.Command(binaryPath, args...)
	cmd.Env = append(os.Environ(), "HOME="+home)
	cmd.Env = append(cmd.Env, env...)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

func repoRoot(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(wd, "..", ".."))
}
