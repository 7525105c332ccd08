package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/gorilla/mux"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

const validReport = `{
  "wallet": {"balance": 12.5, "coldstaking_balance": 0, "immature_balance": 0, "unconfirmed_balance": 0},
  "report": {
    "Last 7 Days": "7",
    "Last 30 Days": "30",
    "Last 365 Days": "365",
    "Last All": "100",
    "Latest Time": "2020-01-01T00:00:00Z"
  },
  "info": {"staking": true, "expectedtime": 3600}
}`

// resetFlags puts every package-level flag back to its default, since
// cobra only writes the flags present on a command line.
func resetFlags() {
	cfgFile = ""
	ephemeral = false
	noColor = false
	machineMode = false
	versionShort = false
	addNameFlag = ""
	addURLFlag = ""
	addWaitFlag = defaultFirstFetchWait
	importWaitFlag = defaultFirstFetchWait
	removeYesFlag = false
	refreshTimeout = defaultRefreshTimeout
	watchNotifyFlag = false
	exportFormatFlag = ""
	exportOutputFlag = ""
	configInitForce = false
}

// runCLI executes the real root command with args and returns its output.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	t.Cleanup(resetFlags)

	interactive := isInteractive
	isInteractive = func() bool { return false }
	t.Cleanup(func() { isInteractive = interactive })

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

// cliEnv is a config file and bbolt store in a temp dir.
type cliEnv struct {
	dir    string
	config string
	db     string
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	dir := t.TempDir()
	env := &cliEnv{
		dir:    dir,
		config: filepath.Join(dir, "config.yaml"),
		db:     filepath.Join(dir, "data", "nstake.db"),
	}
	content := fmt.Sprintf("version: 1\nstore:\n  path: %s\npoll:\n  base: 60s\n  multiplier: 1\nhttp:\n  timeout: 2s\n", env.db)
	require.NoError(t, os.WriteFile(env.config, []byte(content), 0644))
	return env
}

func (e *cliEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return runCLI(t, append([]string{"--config", e.config}, args...)...)
}

// mustRun fails the test if the command errors.
func (e *cliEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := e.run(t, args...)
	require.NoError(t, err, out)
	return out
}

// listJSON returns the stakers reported by list --json.
func (e *cliEnv) listJSON(t *testing.T) []StakerView {
	t.Helper()
	out := e.mustRun(t, "list", "--json")

	var env struct {
		Success bool         `json:"success"`
		Data    []StakerView `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &env), out)
	require.True(t, env.Success)
	return env.Data
}

// nodeServer serves GET /{node}/report.json for each configured node.
type nodeServer struct {
	*httptest.Server

	mu     sync.Mutex
	bodies map[string]string
}

func newNodeServer(t *testing.T) *nodeServer {
	t.Helper()
	ns := &nodeServer{bodies: make(map[string]string)}

	r := mux.NewRouter()
	r.HandleFunc("/{node}/report.json", func(w http.ResponseWriter, req *http.Request) {
		ns.mu.Lock()
		body, ok := ns.bodies[mux.Vars(req)["node"]]
		ns.mu.Unlock()
		if !ok {
			http.NotFound(w, req)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, body) //nolint:errcheck // Test server
	}).Methods(http.MethodGet)

	ns.Server = httptest.NewServer(r)
	t.Cleanup(ns.Close)
	return ns
}

func (ns *nodeServer) set(node, body string) {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	ns.bodies[node] = body
}

func (ns *nodeServer) nodeURL(node string) string {
	return ns.URL + "/" + node
}
