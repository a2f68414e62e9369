package views

import (
	"fmt"
	"strings"
)

type TasksPanelData struct {
	QuickAddView string
	ListView     string
	CaptureMode  bool
}

type IssuesPanelData struct {
	TableView string
	Count     int
	NewCount  int
	LastPoll  string
}

type MailPanelData struct {
	TableView string
	Count     int
	NewCount  int
	LastPoll  string
}

type DetailPaneData struct {
	Heading      string
	ViewportView string
}

type ReminderEditorData struct {
	Active      bool
	TaskTitle   string
	StartField  string
	LeadsField  string
	ActiveField string
	ErrorText   string
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
	HelpView    string
}

func RenderTasksPanel(data TasksPanelData) string {
	var b strings.Builder
	b.WriteString("tasks:\n")
	if data.CaptureMode {
		b.WriteString(data.QuickAddView + "\n")
	}
	b.WriteString("actions: [a]add [c]complete [x]delete [r]reminders [j/k]move\n")
	b.WriteString(data.ListView)
	return strings.TrimSpace(b.String())
}

func RenderIssuesPanel(data IssuesPanelData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("issues: %d open", data.Count))
	if data.NewCount > 0 {
		b.WriteString(fmt.Sprintf(" (%d new)", data.NewCount))
	}
	if data.LastPoll != "" {
		b.WriteString(" | last poll " + data.LastPoll)
	}
	b.WriteString("\n")
	b.WriteString(data.TableView)
	return strings.TrimSpace(b.String())
}

func RenderMailPanel(data MailPanelData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("mail: %d unread", data.Count))
	if data.NewCount > 0 {
		b.WriteString(fmt.Sprintf(" (%d new)", data.NewCount))
	}
	if data.LastPoll != "" {
		b.WriteString(" | last poll " + data.LastPoll)
	}
	b.WriteString("\n")
	b.WriteString("actions: [m]mark read [e]archive [j/k]move\n")
	b.WriteString(data.TableView)
	return strings.TrimSpace(b.String())
}

func RenderDetailPane(data DetailPaneData) string {
	var b strings.Builder
	b.WriteString("detail:\n")
	if data.Heading != "" {
		b.WriteString(data.Heading + "\n")
	}
	b.WriteString(data.ViewportView)
	return strings.TrimSpace(b.String())
}

func RenderReminderEditor(data ReminderEditorData) string {
	if !data.Active {
		return ""
	}
	var b strings.Builder
	b.WriteString("\nreminder editor: " + data.TaskTitle + "\n")
	b.WriteString(fieldLine("start", data.StartField, data.ActiveField == "start"))
	b.WriteString(fieldLine("leads", data.LeadsField, data.ActiveField == "leads"))
	b.WriteString("keys: [tab]switch field [enter]apply [esc]cancel\n")
	if data.ErrorText != "" {
		b.WriteString("error: " + data.ErrorText + "\n")
	}
	return b.String()
}

func fieldLine(name, value string, active bool) string {
	marker := "  "
	if active {
		marker = "> "
	}
	return fmt.Sprintf("%s%s: %s\n", marker, name, value)
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return "\ncommand palette:\n/" + input + "\ncommands: add <title> | done <id> | remind <id> <when> <leads> | poll\n"
}

func RenderHelpPanel(data HelpPanelData) string {
	var b strings.Builder
	b.WriteString("\nhelp (" + data.CurrentView + "):\n")
	for _, binding := range data.Bindings {
		b.WriteString(binding + "\n")
	}
	b.WriteString(data.HelpView)
	return b.String()
}

func RenderNotification(level, body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return fmt.Sprintf("[%s] %s", level, body)
}
