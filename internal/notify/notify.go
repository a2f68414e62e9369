// Package notify delivers local desktop notifications. IDs are advisory:
// re-sending under the same id may replace a pending notification, which is
// acceptable for this panel.
package notify

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

type Notifier interface {
	Send(id, title, body string) error
}

type NoopNotifier struct{}

func (NoopNotifier) Send(string, string, string) error { return nil }

// ExecNotifier shells out to the platform notifier. Unsupported platforms
// are a silent no-op.
type ExecNotifier struct{}

func (ExecNotifier) Send(_, title, body string) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("notify-send", title, body).Run()
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(body), escapeAppleScript(title))
		return exec.Command("osascript", "-e", script).Run()
	default:
		return nil
	}
}

func escapeAppleScript(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}

// Multi fans one notification out to several notifiers; the first error wins
// but every notifier is attempted.
type Multi []Notifier

func (m Multi) Send(id, title, body string) error {
	var firstErr error
	for _, n := range m {
		if err := n.Send(id, title, body); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
