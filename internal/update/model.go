package update

import (
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"runtime"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/sandeepkv93/calldesk/internal/workspace"
)

type Mode string

const (
	ModeUser  Mode = "user"
	ModeAdmin Mode = "admin"
)

type Pane string

const (
	PaneCalls       Pane = "calls"
	PaneTasks       Pane = "tasks"
	PaneSuggestions Pane = "suggestions"
	PaneTags        Pane = "tags"
	PaneTemplates   Pane = "templates"
)

var (
	userPanes  = []Pane{PaneCalls, PaneTasks, PaneSuggestions}
	adminPanes = []Pane{PaneTags, PaneTemplates}
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	User    string
	Admin   string
	Palette string
	Help    string
	Quit    string
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type Notification struct {
	Title string
	Body  string
	Level string
	At    time.Time
}

const notificationHistory = 40

// Options wires the model to its workspaces and runtime settings.
type Options struct {
	Calls                *workspace.CallWorkspace
	Admin                *workspace.AdminWorkspace
	Notices              <-chan workspace.Notice
	DesktopNotifications bool
	Notifier             DesktopNotifier
	Logger               *slog.Logger
	// OperationTimeout bounds one workflow, including its refetches.
	OperationTimeout time.Duration
}

type Model struct {
	Mode           Mode
	Pane           Pane
	Calls          workspace.CallState
	AdminData      workspace.AdminState
	Cursors        map[Pane]int
	Form           *Form
	Confirm        *workspace.Confirmation
	Palette        CommandPaletteState
	HelpVisible    bool
	Notifications  []Notification
	DesktopEnabled bool
	Status         StatusBar
	Keys           GlobalKeyMap
	Pending        int
	Quitting       bool
	LastError      error

	calls     *workspace.CallWorkspace
	admin     *workspace.AdminWorkspace
	notices   <-chan workspace.Notice
	notifier  DesktopNotifier
	logger    *slog.Logger
	opTimeout time.Duration
	formSeq   uint64

	commandInput textinput.Model
	syncSpinner  spinner.Model
	helpModel    help.Model
	detailView   viewport.Model
	detailSource string
}

type DesktopNotifier interface {
	Send(Notification) error
}

type NoopDesktopNotifier struct{}

func (NoopDesktopNotifier) Send(Notification) error { return nil }

type ExecDesktopNotifier struct{}

func (ExecDesktopNotifier) Send(n Notification) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("notify-send", n.Title, n.Body).Run()
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(n.Body), escapeAppleScript(n.Title))
		return exec.Command("osascript", "-e", script).Run()
	default:
		return nil
	}
}

type SwitchModeMsg struct {
	Mode Mode
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

// workspaceUpdatedMsg reports that a workflow finished and the snapshots
// should be re-read. Err is set for read failures nobody else reported.
type workspaceUpdatedMsg struct {
	Err error
}

type formSubmittedMsg struct {
	formID uint64
	Err    error
}

type noticeMsg struct {
	Notice workspace.Notice
}

func New(opts Options) Model {
	m := Model{
		Mode:           ModeUser,
		Pane:           PaneCalls,
		Cursors:        make(map[Pane]int),
		DesktopEnabled: opts.DesktopNotifications,
		Keys: GlobalKeyMap{
			User:    "1",
			Admin:   "2",
			Palette: "/",
			Help:    "?",
			Quit:    "q",
		},
		calls:     opts.Calls,
		admin:     opts.Admin,
		notices:   opts.Notices,
		notifier:  opts.Notifier,
		logger:    opts.Logger,
		opTimeout: opts.OperationTimeout,
	}
	if m.notifier == nil {
		m.notifier = NoopDesktopNotifier{}
	}
	if m.logger == nil {
		m.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if m.opTimeout <= 0 {
		m.opTimeout = time.Minute
	}
	m.initBubbleComponents()
	m.syncSnapshots()
	return m
}

func (m *Model) initBubbleComponents() {
	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.syncSpinner = spinner.New()
	m.syncSpinner.Spinner = spinner.Dot

	m.helpModel = help.New()
	m.detailView = viewport.New(60, 10)
}

// syncSnapshots copies workspace state into the model and keeps cursors in
// range of the refreshed lists.
func (m *Model) syncSnapshots() {
	if m.calls != nil {
		m.Calls = m.calls.Snapshot()
	}
	if m.admin != nil {
		m.AdminData = m.admin.Snapshot()
	}
	m.clampCursor(PaneCalls, len(m.Calls.Calls))
	m.clampCursor(PaneTasks, len(m.Calls.Tasks))
	m.clampCursor(PaneSuggestions, len(m.Calls.Suggestions))
	m.clampCursor(PaneTags, len(m.AdminData.Tags))
	m.clampCursor(PaneTemplates, len(m.AdminData.Templates))
	m.syncDetailView()
}

func (m *Model) clampCursor(p Pane, n int) {
	cur := m.Cursors[p]
	if cur >= n {
		cur = n - 1
	}
	if cur < 0 {
		cur = 0
	}
	m.Cursors[p] = cur
}

func (m *Model) moveCursor(delta int) {
	n := m.paneLen(m.Pane)
	if n == 0 {
		return
	}
	m.Cursors[m.Pane] = (m.Cursors[m.Pane] + delta + n) % n
}

func (m Model) paneLen(p Pane) int {
	switch p {
	case PaneCalls:
		return len(m.Calls.Calls)
	case PaneTasks:
		return len(m.Calls.Tasks)
	case PaneSuggestions:
		return len(m.Calls.Suggestions)
	case PaneTags:
		return len(m.AdminData.Tags)
	case PaneTemplates:
		return len(m.AdminData.Templates)
	default:
		return 0
	}
}

func (m *Model) cyclePane(delta int) {
	panes := userPanes
	if m.Mode == ModeAdmin {
		panes = adminPanes
	}
	idx := 0
	for i, p := range panes {
		if p == m.Pane {
			idx = i
		}
	}
	m.Pane = panes[(idx+delta+len(panes))%len(panes)]
}

func (m *Model) switchMode(mode Mode) {
	if m.Mode == mode {
		return
	}
	m.Mode = mode
	if mode == ModeAdmin {
		m.Pane = PaneTags
	} else {
		m.Pane = PaneCalls
	}
}
