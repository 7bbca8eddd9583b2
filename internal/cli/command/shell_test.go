package command

import (
	"strings"
	"testing"

	"github.com/yndnr/roster-go/internal/tests/fakeapi"
)

func shellInput(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}

var loginLine = "auth login -u " + fakeapi.DefaultUsername + " -p " + fakeapi.DefaultPassword

func TestShell_PromptFollowsRoute(t *testing.T) {
	h := newHarness(t, shellInput(loginLine, "employee list", "exit"))
	h.seed()

	out := h.mustRun("shell")
	login := strings.Index(out, "roster:login> ")
	list := strings.Index(out, "roster:employees> ")
	if login < 0 || list < 0 || list < login {
		t.Fatalf("prompts out of order:\n%s", out)
	}
	if !strings.Contains(out, "Lovelace") {
		t.Errorf("list not printed:\n%s", out)
	}
}

func TestShell_SessionExpiredNotice(t *testing.T) {
	h := newHarness(t, shellInput(loginLine, "employee list", "exit"))
	h.seed()
	h.api.Force("GET", "/employees", 401)

	out := h.mustRun("shell")
	if !strings.Contains(out, "\nSession expired. Please login again.\n") {
		t.Errorf("missing expiry notice:\n%s", out)
	}
	if !strings.Contains(out, "error: Authentication failed. Please login again.") {
		t.Errorf("missing failure:\n%s", out)
	}
	if i := strings.LastIndex(out, "roster:"); !strings.HasPrefix(out[i:], "roster:login> ") {
		t.Errorf("last prompt should be the login view:\n%s", out)
	}
}

func TestShell_ConfirmReadsFromShellInput(t *testing.T) {
	h := newHarness(t, "")
	ada, _ := h.seed()
	h = h.withInput(shellInput(loginLine, "employee delete "+idOf(ada), "y", "exit"))

	out := h.mustRun("shell")
	if !strings.Contains(out, "Are you sure you want to delete this employee? [y/N] ") {
		t.Errorf("missing prompt:\n%s", out)
	}
	if !strings.Contains(out, "Deleted employee "+idOf(ada)+".") {
		t.Errorf("delete not confirmed:\n%s", out)
	}
	if len(h.api.Employees()) != 1 {
		t.Errorf("employees = %d, want 1", len(h.api.Employees()))
	}
}

func TestShell_RejectsUnknownAndNested(t *testing.T) {
	h := newHarness(t, shellInput("frobnicate", "shell", "exit"))

	out := h.mustRun("shell")
	if !strings.Contains(out, `unknown command "frobnicate"`) {
		t.Errorf("output = %q", out)
	}
	if !strings.Contains(out, "error: already in a shell") {
		t.Errorf("output = %q", out)
	}
}

func TestShell_EOFEnds(t *testing.T) {
	h := newHarness(t, "")
	if _, err := h.run("shell"); err != nil {
		t.Errorf("EOF should end the shell cleanly: %v", err)
	}
}
