package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"fte/internal/discovery"
	"fte/internal/domain"
	"fte/internal/execution"
	"fte/internal/storage"
	"fte/internal/tree"
	"fte/internal/watch"
)

const explorerKeys = "[yellow]Enter/r[white] run  [yellow]a[white] run all  [yellow]x[white] cancel  [yellow]q[white] quit"

// Explorer is the interactive host: a tree of discovered tests that can be
// run node by node while discovery keeps the tree current.
type Explorer struct {
	store        *tree.Store
	orchestrator *discovery.Orchestrator
	executor     *execution.Executor
	storage      storage.Storage
	recorder     execution.Recorder

	board    *Board
	app      *tview.Application
	treeView *tview.TreeView
	details  *tview.TextView
	status   *tview.TextView

	// ctx is the explorer's lifetime; runs derive from it
	ctx     context.Context
	runs    runSlot
	mu      sync.Mutex
	report  discovery.CycleReport
	stopped atomic.Bool
}

// NewExplorer creates an Explorer. rec receives every run in addition to the
// explorer's own board and may be nil.
func NewExplorer(
	store *tree.Store,
	orchestrator *discovery.Orchestrator,
	executor *execution.Executor,
	st storage.Storage,
	rec execution.Recorder,
) *Explorer {
	return &Explorer{
		store:        store,
		orchestrator: orchestrator,
		executor:     executor,
		storage:      st,
		recorder:     rec,
	}
}

// Run shows the explorer until the user quits or ctx is done. When source is
// not nil every workspace event triggers a rediscovery.
func (e *Explorer) Run(ctx context.Context, source watch.Source) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	e.ctx = ctx
	e.app = tview.NewApplication()
	e.board = NewBoard(func() { e.queue(e.render) })
	e.build()

	e.orchestrator.OnCycle(func(report discovery.CycleReport) {
		e.mu.Lock()
		e.report = report
		e.mu.Unlock()
		e.queue(e.render)
	})

	e.orchestrator.Trigger(ctx)
	if source != nil {
		go func() {
			if err := e.orchestrator.Watch(ctx, source); err != nil && !errors.Is(err, context.Canceled) {
				slog.Error("Workspace watch stopped", "error", err)
			}
		}()
	}

	go func() {
		<-ctx.Done()
		e.app.Stop()
	}()

	err := e.app.Run()
	e.stopped.Store(true)
	cancel()

	// the test in flight finishes, the rest of the selection is dropped
	e.runs.stop()
	e.runs.wait()
	e.orchestrator.Wait()

	if err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func (e *Explorer) build() {
	e.treeView = tview.NewTreeView().
		SetGraphics(true).
		SetTopLevel(0)
	e.treeView.SetBorder(true).SetTitle(" Tests ")

	e.details = tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)
	e.details.SetBorder(true).SetTitle(" Details ")

	e.status = tview.NewTextView().
		SetDynamicColors(true)

	e.treeView.SetChangedFunc(func(node *tview.TreeNode) {
		e.showDetails(node)
	})

	e.treeView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEnter:
			e.runNode(e.treeView.GetCurrentNode())
			return nil
		case tcell.KeyCtrlC:
			e.app.Stop()
			return nil
		case tcell.KeyRune:
			switch event.Rune() {
			case 'r':
				e.runNode(e.treeView.GetCurrentNode())
				return nil
			case 'a':
				e.startRun(tree.Flatten(e.store.Files()))
				return nil
			case 'x':
				e.cancel()
				return nil
			case 'q':
				e.app.Stop()
				return nil
			}
		}
		return event
	})

	body := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(e.treeView, 0, 1, true).
		AddItem(e.details, 0, 1, false)

	layout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(body, 0, 1, true).
		AddItem(e.status, 1, 0, false)

	e.app.SetRoot(layout, true).SetFocus(e.treeView)
	e.render()
}

// queue schedules fn on the UI goroutine unless the app has stopped
func (e *Explorer) queue(fn func()) {
	if e.stopped.Load() {
		return
	}
	e.app.QueueUpdateDraw(fn)
}

// render rebuilds the tree from a store snapshot, keeping the selection
func (e *Explorer) render() {
	files := e.store.Files()
	statuses := e.board.Statuses()
	selected := nodeKey(e.treeView.GetCurrentNode())

	root := tview.NewTreeNode(rootLabel(files)).
		SetColor(tcell.ColorWhite)
	restore := root

	for _, file := range files {
		status := fileStatus(file, statuses)
		fileNode := tview.NewTreeNode(fileLabel(file, status)).
			SetReference(file).
			SetColor(nodeColor(status, tcell.ColorTeal))
		root.AddChild(fileNode)
		if nodeKey(fileNode) == selected {
			restore = fileNode
		}

		for _, fn := range file.Functions {
			status := statuses[fn.Ref()]
			leaf := tview.NewTreeNode(leafLabel(fn, status)).
				SetReference(fn).
				SetColor(nodeColor(status, tcell.ColorWhite))
			fileNode.AddChild(leaf)
			if nodeKey(leaf) == selected {
				restore = leaf
			}
		}
	}

	e.treeView.SetRoot(root).SetCurrentNode(restore)
	e.showDetails(restore)
	e.updateStatus(files)
}

func (e *Explorer) updateStatus(files []*domain.TestFile) {
	running := e.runs.active()
	e.mu.Lock()
	report := e.report
	e.mu.Unlock()

	state := "[green]idle[white]"
	if running {
		state = "[yellow]running[white]"
	}

	e.status.SetText(fmt.Sprintf(" %d test(s) in %d file(s) | %d unreadable | %s | %s",
		len(tree.Flatten(files)), len(files), report.Failed, state, explorerKeys))
}

func (e *Explorer) showDetails(node *tview.TreeNode) {
	if node == nil {
		e.details.SetText("")
		return
	}

	var builder strings.Builder
	switch ref := node.GetReference().(type) {
	case *domain.TestFunction:
		status := e.board.Status(ref.Ref())
		fmt.Fprintf(&builder, "[yellow]%s[white]\n\n", tview.Escape(ref.Name))
		fmt.Fprintf(&builder, "[cyan]File:[white] %s\n", tview.Escape(ref.File.Path))
		fmt.Fprintf(&builder, "[cyan]Line:[white] %s\n", ref.Position)
		fmt.Fprintf(&builder, "[cyan]Status:[white] %s %s\n", StatusGlyph(status), status)
		if message := e.board.Message(ref.Ref()); message != "" {
			fmt.Fprintf(&builder, "\n[cyan]Message:[white]\n%s\n", tview.Escape(message))
		}
	case *domain.TestFile:
		status := e.board.FileStatus(ref)
		fmt.Fprintf(&builder, "[yellow]%s[white]\n\n", tview.Escape(ref.Name))
		fmt.Fprintf(&builder, "[cyan]Path:[white] %s\n", tview.Escape(ref.Path))
		fmt.Fprintf(&builder, "[cyan]Tests:[white] %d\n", len(ref.Functions))
		fmt.Fprintf(&builder, "[cyan]Status:[white] %s %s\n", StatusGlyph(status), status)
	default:
		builder.WriteString("Select a file or test and press [yellow]Enter[white] to run it.\n")
	}

	e.details.SetText(builder.String())
	e.details.ScrollToBeginning()
}

func (e *Explorer) runNode(node *tview.TreeNode) {
	if node == nil {
		return
	}
	e.startRun(Selection(node.GetReference(), e.store.Files()))
}

// startRun runs selected in the background. A request while another run is
// active is ignored.
func (e *Explorer) startRun(selected []*domain.TestFunction) {
	if len(selected) == 0 {
		return
	}

	started := e.runs.start(e.ctx, func(ctx context.Context) {
		summary := e.executor.Run(ctx, selected, execution.MultiRecorder{e.board, e.recorder})
		if err := e.storage.Save(summary); err != nil {
			slog.Warn("Failed to save test results", "error", err)
		}
	}, func() {
		e.queue(e.render)
	})
	if !started {
		slog.Debug("Run already active, ignoring request", "tests", len(selected))
		return
	}

	e.render()
}

// cancel stops the active run after its current test
func (e *Explorer) cancel() {
	e.runs.stop()
}

// Selection returns the tests a node reference stands for: a test runs
// itself, a file runs its children and anything else runs every test.
func Selection(ref any, files []*domain.TestFile) []*domain.TestFunction {
	switch node := ref.(type) {
	case *domain.TestFunction:
		return []*domain.TestFunction{node}
	case *domain.TestFile:
		return append([]*domain.TestFunction{}, node.Functions...)
	}
	return tree.Flatten(files)
}

func nodeKey(node *tview.TreeNode) string {
	if node == nil {
		return ""
	}
	switch ref := node.GetReference().(type) {
	case *domain.TestFile:
		return "file:" + ref.Path
	case *domain.TestFunction:
		return "test:" + ref.Ref().String()
	}
	return ""
}

func rootLabel(files []*domain.TestFile) string {
	return fmt.Sprintf("workspace (%d)", len(tree.Flatten(files)))
}

func fileLabel(file *domain.TestFile, status domain.RunStatus) string {
	return fmt.Sprintf("%s %s (%d)", StatusGlyph(status), file.Name, len(file.Functions))
}

func leafLabel(fn *domain.TestFunction, status domain.RunStatus) string {
	return fmt.Sprintf("%s %s  L%s", StatusGlyph(status), fn.Name, fn.Position)
}

func nodeColor(status domain.RunStatus, fallback tcell.Color) tcell.Color {
	switch status {
	case domain.StatusPassed:
		return tcell.ColorGreen
	case domain.StatusFailed:
		return tcell.ColorRed
	case domain.StatusNotFound, domain.StatusStarted:
		return tcell.ColorYellow
	}
	return fallback
}
