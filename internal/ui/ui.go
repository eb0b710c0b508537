// Package ui renders the investigation workspace in the terminal: the chat
// timeline with retrieval citations, the evidence directory, the upload
// staging bar, and the modal source viewer.
package ui

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"
	"github.com/rivo/tview"

	"github.com/Ashfaaq98/evidence-console/internal/api"
	"github.com/Ashfaaq98/evidence-console/internal/bus"
	"github.com/Ashfaaq98/evidence-console/internal/workspace"
)

const (
	pageMain   = "main"
	pageViewer = "viewer"
)

// UI represents the terminal workspace for one case
type UI struct {
	app    *tview.Application
	ws     *workspace.Workspace
	bus    bus.Bus
	logger *log.Logger

	// Layout components
	pages         *tview.Pages
	layout        *tview.Flex
	header        *tview.TextView
	chatView      *tview.TextView
	stagingBar    *tview.TextView
	input         *tview.InputField
	evidenceTable *tview.Table
	statusBar     *tview.TextView
	viewerView    *tview.TextView

	// State
	sending      int32 // atomic flag mirroring the in-flight send for key handling
	evidenceRows []api.EvidenceFile // row index -> file, header rows excluded
	caseMeta     workspace.CaseMeta // last rendered header, repainted on theme change

	// Theme state
	theme        Theme
	themeName    string
	hasTrueColor bool

	// Transport tick for the source viewer
	clipTicker *time.Ticker
	clipStop   chan struct{}

	ctx    context.Context
	cancel context.CancelFunc
}

// NewUI creates the terminal workspace
func NewUI(ctx context.Context, ws *workspace.Workspace, b bus.Bus, logger *log.Logger) *UI {
	if logger == nil {
		logger = log.New(log.Writer(), "[UI] ", log.LstdFlags)
	}
	uiCtx, cancel := context.WithCancel(ctx)

	ui := &UI{
		app:          tview.NewApplication(),
		ws:           ws,
		bus:          b,
		logger:       logger,
		ctx:          uiCtx,
		cancel:       cancel,
		hasTrueColor: detectTrueColor(),
		themeName:    "dark",
		theme:        themeDark(),
	}

	ui.setupLayout()
	ui.setupKeybindings()
	ui.applyTheme()
	return ui
}

// Start runs the application until quit or context cancellation.
func (ui *UI) Start(ctx context.Context) error {
	ui.logger.Println("Starting TUI application")

	go func() {
		<-ctx.Done()
		ui.app.QueueUpdateDraw(func() {})
		ui.app.Stop()
	}()

	// Show UI immediately, then load data asynchronously
	go ui.loadInitial()
	go ui.watchActivity()

	defer ui.cancel()
	return ui.app.SetRoot(ui.pages, true).Run()
}

func (ui *UI) loadInitial() {
	meta := ui.ws.Meta(ui.ctx)
	if err := ui.ws.Timeline.LoadHistory(ui.ctx); err != nil {
		ui.logger.Printf("history load: %v", err)
	}
	if err := ui.ws.Directory.ListByKind(ui.ctx, api.KindVideo); err != nil {
		ui.logger.Printf("evidence load: %v", err)
	}
	if err := ui.bus.PublishActivity(ui.ctx, bus.ActivityMessage{
		CaseID: ui.ws.CaseID,
		Kind:   bus.ActivityCaseOpened,
	}); err != nil {
		ui.logger.Printf("activity publish: %v", err)
	}

	ui.app.QueueUpdateDraw(func() {
		ui.renderHeader(meta)
		ui.renderChat()
		ui.renderEvidence()
		if ui.ws.Directory.Degraded() {
			ui.setStatus("[%s]Backend unreachable, showing sample evidence", ui.theme.TagWarning)
		} else {
			ui.setStatus("[%s]Ready", ui.theme.TagMuted)
		}
	})
}

// watchActivity surfaces activity from other consoles working the same case
// in the status bar. With the null bus this blocks until shutdown.
func (ui *UI) watchActivity() {
	consumer := "console-" + uuid.NewString()[:8]
	err := ui.bus.ReadActivityStream(ui.ctx, "workspace-ui", consumer, func(ctx context.Context, a bus.ActivityMessage) error {
		if a.CaseID != ui.ws.CaseID {
			return nil
		}
		var note string
		switch a.Kind {
		case bus.ActivityEvidenceUploaded:
			note = fmt.Sprintf("Evidence uploaded: %s", a.Detail)
		case bus.ActivityEvidenceDeleted:
			note = fmt.Sprintf("Evidence removed: %s", a.Subject)
		case bus.ActivityMessageSent:
			note = "New activity in this case"
		default:
			return nil
		}
		ui.app.QueueUpdateDraw(func() {
			ui.setStatus("[%s]%s", ui.theme.TagMuted, note)
		})
		return nil
	})
	if err != nil && ui.ctx.Err() == nil {
		ui.logger.Printf("activity stream reader stopped: %v", err)
	}
}

func (ui *UI) setupLayout() {
	ui.header = tview.NewTextView().SetDynamicColors(true)
	ui.header.SetBorder(false)

	ui.chatView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWordWrap(true)
	ui.chatView.SetBorder(true).SetTitle(" Conversation ")

	ui.stagingBar = tview.NewTextView().SetDynamicColors(true)

	ui.input = tview.NewInputField().
		SetLabel("> ").
		SetFieldWidth(0)
	ui.input.SetBorder(true).SetTitle(" Ask about the evidence ")
	ui.input.SetDoneFunc(func(key tcell.Key) {
		if key != tcell.KeyEnter {
			return
		}
		ui.handleInput(ui.input.GetText())
	})

	ui.evidenceTable = tview.NewTable().
		SetSelectable(true, false).
		SetFixed(1, 0)
	ui.evidenceTable.SetBorder(true).SetTitle(" Evidence (v: videos  i: images  a: audio) ")
	ui.evidenceTable.SetSelectedFunc(func(row, col int) {
		ui.openEvidenceRow(row)
	})

	ui.statusBar = tview.NewTextView().SetDynamicColors(true)

	ui.viewerView = tview.NewTextView().
		SetDynamicColors(true).
		SetWordWrap(true)
	ui.viewerView.SetBorder(true).SetTitle(" Source Viewer (space: play/pause  left/right: seek  Esc: close) ")

	ui.layout = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(ui.header, 2, 0, false).
		AddItem(ui.chatView, 0, 1, false).
		AddItem(ui.stagingBar, 1, 0, false).
		AddItem(ui.input, 3, 0, true).
		AddItem(ui.statusBar, 1, 0, false)

	viewerModal := tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(ui.viewerView, 16, 0, true).
			AddItem(nil, 0, 1, false), 0, 2, true).
		AddItem(nil, 0, 1, false)

	ui.pages = tview.NewPages().
		AddPage(pageMain, ui.layout, true, true).
		AddPage(pageViewer, viewerModal, true, false)
}

// rebuildLayout swaps the middle pane to match the view mode.
func (ui *UI) rebuildLayout() {
	ui.layout.Clear()
	ui.layout.AddItem(ui.header, 2, 0, false)
	if ui.ws.Mode() == workspace.ModeEvidence {
		ui.layout.AddItem(ui.evidenceTable, 0, 1, true)
		ui.layout.AddItem(ui.statusBar, 1, 0, false)
		ui.app.SetFocus(ui.evidenceTable)
	} else {
		ui.layout.AddItem(ui.chatView, 0, 1, false)
		ui.layout.AddItem(ui.stagingBar, 1, 0, false)
		ui.layout.AddItem(ui.input, 3, 0, true)
		ui.layout.AddItem(ui.statusBar, 1, 0, false)
		ui.app.SetFocus(ui.input)
	}
}

func (ui *UI) setupKeybindings() {
	ui.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if ui.viewerOpen() {
			return ui.handleViewerKey(event)
		}

		switch event.Key() {
		case tcell.KeyTab:
			mode := ui.ws.ToggleMode()
			ui.rebuildLayout()
			ui.setStatus("[%s]Switched to %s view", ui.theme.TagMuted, mode)
			return nil
		case tcell.KeyCtrlT:
			// Works in both views; the input field owns plain runes in chat mode
			ui.toggleTheme()
			return nil
		case tcell.KeyCtrlC:
			ui.cancel()
			ui.app.Stop()
			return nil
		}

		// Evidence pane shortcuts only apply when the table has focus
		if ui.ws.Mode() == workspace.ModeEvidence {
			switch event.Rune() {
			case 'v':
				ui.switchEvidenceKind(api.KindVideo)
				return nil
			case 'i':
				ui.switchEvidenceKind(api.KindImage)
				return nil
			case 'a':
				ui.switchEvidenceKind(api.KindAudio)
				return nil
			case 'd':
				ui.deleteSelectedEvidence()
				return nil
			case 't':
				ui.toggleTheme()
				return nil
			case 'q':
				ui.cancel()
				ui.app.Stop()
				return nil
			}
		}
		return event
	})
}

// handleInput routes the input line: /upload stages files, /sources toggles
// the last assistant message's citations, anything else is a question.
func (ui *UI) handleInput(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	ui.input.SetText("")

	if strings.HasPrefix(text, "/upload ") {
		paths := strings.Fields(strings.TrimPrefix(text, "/upload "))
		ui.stageFiles(paths)
		return
	}
	if text == "/sources" {
		ui.toggleLastSources()
		return
	}

	ui.sendMessage(text)
}

func (ui *UI) sendMessage(text string) {
	if !atomic.CompareAndSwapInt32(&ui.sending, 0, 1) {
		ui.setStatus("[%s]Still waiting for the previous answer", ui.theme.TagWarning)
		return
	}
	ui.setStatus("[%s]Analyzing evidence...", ui.theme.TagAccent)

	go func() {
		defer atomic.StoreInt32(&ui.sending, 0)

		// Render the optimistic message as soon as it is staged
		done := make(chan struct{})
		go func() {
			time.Sleep(50 * time.Millisecond)
			select {
			case <-done:
			default:
				ui.app.QueueUpdateDraw(ui.renderChat)
			}
		}()

		corrID, err := ui.ws.Send(ui.ctx, text)
		close(done)

		if err == nil {
			if perr := ui.bus.PublishActivity(ui.ctx, bus.ActivityMessage{
				CaseID:  ui.ws.CaseID,
				Kind:    bus.ActivityMessageSent,
				Subject: corrID,
			}); perr != nil {
				ui.logger.Printf("activity publish: %v", perr)
			}
		}

		ui.app.QueueUpdateDraw(func() {
			ui.renderChat()
			ui.renderStaging()
			if err != nil {
				ui.setStatus("[%s]%v", ui.theme.TagError, err)
			} else {
				ui.setStatus("[%s]Answer received", ui.theme.TagSuccess)
			}
		})
	}()
}

func (ui *UI) stageFiles(paths []string) {
	if len(paths) == 0 {
		return
	}
	ui.setStatus("[%s]Uploading %d file(s)...", ui.theme.TagAccent, len(paths))
	go func() {
		err := ui.ws.Staging.SelectFiles(ui.ctx, paths)
		ui.app.QueueUpdateDraw(func() {
			ui.renderStaging()
			if err != nil {
				ui.setStatus("[%s]%v", ui.theme.TagError, err)
			} else {
				ui.setStatus("[%s]Files staged, send a message to attach them", ui.theme.TagSuccess)
			}
		})
	}()
}

func (ui *UI) toggleLastSources() {
	msgs := ui.ws.Timeline.Messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == "assistant" && len(msgs[i].Sources) > 0 {
			expanded := ui.ws.Timeline.ToggleSourceExpansion(msgs[i].ID)
			ui.renderChat()
			if expanded {
				ui.setStatus("[%s]Sources expanded", ui.theme.TagMuted)
			} else {
				ui.setStatus("[%s]Sources collapsed", ui.theme.TagMuted)
			}
			return
		}
	}
	ui.setStatus("[%s]No sources to show", ui.theme.TagMuted)
}

func (ui *UI) switchEvidenceKind(kind api.MediaKind) {
	ui.setStatus("[%s]Loading %s evidence...", ui.theme.TagMuted, kind)
	go func() {
		err := ui.ws.Directory.ListByKind(ui.ctx, kind)
		ui.app.QueueUpdateDraw(func() {
			ui.renderEvidence()
			if err != nil {
				ui.setStatus("[%s]Backend unreachable, showing sample evidence", ui.theme.TagWarning)
			} else {
				ui.setStatus("[%s]Showing %s evidence", ui.theme.TagMuted, kind)
			}
		})
	}()
}

func (ui *UI) deleteSelectedEvidence() {
	row, _ := ui.evidenceTable.GetSelection()
	f, ok := ui.evidenceRowFile(row)
	if !ok {
		return
	}
	ui.setStatus("[%s]Deleting %s...", ui.theme.TagMuted, f.Name)
	go func() {
		err := ui.ws.Directory.RemoveByID(ui.ctx, f.ID)
		if err == nil {
			if perr := ui.bus.PublishActivity(ui.ctx, bus.ActivityMessage{
				CaseID:  ui.ws.CaseID,
				Kind:    bus.ActivityEvidenceDeleted,
				Subject: f.ID,
				Detail:  f.Name,
			}); perr != nil {
				ui.logger.Printf("activity publish: %v", perr)
			}
		}
		ui.app.QueueUpdateDraw(func() {
			ui.renderEvidence()
			if err != nil {
				ui.setStatus("[%s]%v", ui.theme.TagError, err)
			} else {
				ui.setStatus("[%s]Deleted %s", ui.theme.TagSuccess, f.Name)
			}
		})
	}()
}

func (ui *UI) openEvidenceRow(row int) {
	f, ok := ui.evidenceRowFile(row)
	if !ok {
		return
	}
	ui.openViewer(workspace.SourceFromEvidence(f))
}

// evidenceRowFile maps a table row back to its file, skipping header and
// date-section rows.
func (ui *UI) evidenceRowFile(row int) (api.EvidenceFile, bool) {
	cell := ui.evidenceTable.GetCell(row, 0)
	if cell == nil {
		return api.EvidenceFile{}, false
	}
	idx, ok := cell.GetReference().(int)
	if !ok || idx < 0 || idx >= len(ui.evidenceRows) {
		return api.EvidenceFile{}, false
	}
	return ui.evidenceRows[idx], true
}

// --- Source viewer ---

func (ui *UI) viewerOpen() bool {
	_, open := ui.ws.Viewer.Current()
	return open
}

func (ui *UI) openViewer(sel workspace.SelectedSource) {
	ui.ws.Viewer.Open(sel)
	if p := ui.ws.Viewer.Player(); p != nil {
		// Duration is unknown in the terminal; assume a long recording so
		// the clip window governs the transport.
		p.SetDuration(0)
	}
	ui.pages.ShowPage(pageViewer)
	ui.renderViewer()
	ui.startClipTicker()
}

func (ui *UI) closeViewer() {
	ui.stopClipTicker()
	ui.ws.Viewer.Close()
	ui.pages.HidePage(pageViewer)
}

func (ui *UI) handleViewerKey(event *tcell.EventKey) *tcell.EventKey {
	p := ui.ws.Viewer.Player()
	switch event.Key() {
	case tcell.KeyEscape:
		ui.closeViewer()
		return nil
	case tcell.KeyLeft:
		if p != nil {
			p.Seek(p.Position() - 5)
			ui.renderViewer()
		}
		return nil
	case tcell.KeyRight:
		if p != nil {
			p.Seek(p.Position() + 5)
			ui.renderViewer()
		}
		return nil
	}
	if event.Rune() == ' ' && p != nil {
		if p.Playing() {
			p.Pause()
		} else {
			p.Play()
		}
		ui.renderViewer()
		return nil
	}
	return event
}

// startClipTicker advances the transport twice a second while the viewer is
// open, standing in for a real decoder clock.
func (ui *UI) startClipTicker() {
	ui.stopClipTicker()
	ui.clipTicker = time.NewTicker(500 * time.Millisecond)
	ui.clipStop = make(chan struct{})
	stop := ui.clipStop
	ticker := ui.clipTicker
	go func() {
		for {
			select {
			case <-stop:
				return
			case <-ui.ctx.Done():
				return
			case <-ticker.C:
				p := ui.ws.Viewer.Player()
				if p == nil || !p.Playing() {
					continue
				}
				p.Advance(p.Position() + 0.5)
				ui.app.QueueUpdateDraw(ui.renderViewer)
			}
		}
	}()
}

func (ui *UI) stopClipTicker() {
	if ui.clipTicker != nil {
		ui.clipTicker.Stop()
		ui.clipTicker = nil
	}
	if ui.clipStop != nil {
		close(ui.clipStop)
		ui.clipStop = nil
	}
}

// --- Rendering ---

func (ui *UI) renderHeader(meta workspace.CaseMeta) {
	ui.caseMeta = meta
	fmt.Fprintf(ui.header.Clear(), "[%s::b]%s[-::-]\n[%s]%s  |  Tab: switch view  |  /upload <path>: attach files",
		ui.theme.TagTextPrimary, meta.Title, ui.theme.TagMuted, meta.EvidenceCount)
}

func (ui *UI) renderChat() {
	w := ui.chatView.Clear()
	for _, m := range ui.ws.Timeline.Messages() {
		tag := ui.theme.TagAssistant
		label := "Assistant"
		if m.Role == "user" {
			tag = ui.theme.TagUser
			label = "You"
		}
		fmt.Fprintf(w, "[%s::b]%s[-::-] [%s]%s[-]\n", tag, label, ui.theme.TagMuted, formatTimestamp(m.Timestamp))
		if m.Content != "" {
			fmt.Fprintf(w, "%s\n", tview.Escape(m.Content))
		}
		for _, item := range m.Media {
			fmt.Fprintf(w, "[%s]  attachment: %s (%s)[-]\n", ui.theme.TagMuted, item.Description, item.Kind)
		}
		if m.Table != nil {
			ui.renderMessageTable(w, m.Table)
		}
		ui.renderSources(w, m)
		fmt.Fprintln(w)
	}
	ui.chatView.ScrollToEnd()
}

func (ui *UI) renderMessageTable(w *tview.TextView, t *api.Table) {
	fmt.Fprintf(w, "[%s]  %s[-]\n", ui.theme.TagAccent, strings.Join(t.Headers, "  |  "))
	for _, row := range t.Rows {
		fmt.Fprintf(w, "[%s]  %s  %s[-]  %s\n", ui.theme.TagMuted, row.Date, row.Time, tview.Escape(row.Description))
	}
}

func (ui *UI) renderSources(w *tview.TextView, m api.Message) {
	n := len(m.Sources)
	results := ui.ws.Timeline.ResultsFor(m.ID)
	if n == 0 && len(results) == 0 {
		return
	}
	if n == 0 {
		n = len(results)
	}
	if !ui.ws.Timeline.Expanded(m.ID) {
		fmt.Fprintf(w, "[%s]  %d source(s), /sources to expand[-]\n", ui.theme.TagMuted, n)
		return
	}
	for _, src := range m.Sources {
		fmt.Fprintf(w, "[%s]  %s  %s %s  %s[-]\n", ui.theme.TagAccent, src.Filename, src.Date, src.Timestamp, src.CameraID)
	}
	for _, r := range results {
		fmt.Fprintf(w, "[%s]  %s at %s (score %.2f)[-]\n", ui.theme.TagAccent, r.CamID, workspace.FormatClock(r.Timestamp), r.Score)
	}
}

func (ui *UI) renderStaging() {
	w := ui.stagingBar.Clear()
	pending := ui.ws.Staging.Pending()
	if len(pending) == 0 {
		return
	}
	names := make([]string, 0, len(pending))
	for _, m := range pending {
		names = append(names, workspace.DisplayName(m.Filename))
	}
	fmt.Fprintf(w, "[%s]Staged: %s[-]", ui.theme.TagWarning, strings.Join(names, ", "))
}

func (ui *UI) renderEvidence() {
	ui.evidenceTable.Clear()
	ui.evidenceRows = ui.ws.Directory.Files()

	headers := []string{"Name", "Type", "Uploaded", "Time"}
	for col, h := range headers {
		ui.evidenceTable.SetCell(0, col, tview.NewTableCell(h).
			SetTextColor(ui.theme.TableHeader).
			SetBackgroundColor(ui.theme.TableHeaderBg).
			SetAttributes(tcell.AttrBold).
			SetSelectable(false))
	}

	row := 1
	for _, group := range workspace.GroupByDate(ui.evidenceRows) {
		ui.evidenceTable.SetCell(row, 0, tview.NewTableCell(group.Date).
			SetTextColor(ui.theme.Accent).
			SetAttributes(tcell.AttrBold).
			SetSelectable(false))
		row++
		for _, f := range group.Files {
			idx := ui.fileIndex(f.ID)
			ui.evidenceTable.SetCell(row, 0, tview.NewTableCell("  "+f.Name).
				SetTextColor(ui.theme.TableRow).
				SetReference(idx))
			ui.evidenceTable.SetCell(row, 1, tview.NewTableCell(string(f.Kind)).
				SetTextColor(ui.theme.TableRowMuted))
			ui.evidenceTable.SetCell(row, 2, tview.NewTableCell(f.UploadDate).
				SetTextColor(ui.theme.TableRowMuted))
			ui.evidenceTable.SetCell(row, 3, tview.NewTableCell(f.UploadTime).
				SetTextColor(ui.theme.TableRowMuted))
			row++
		}
	}
}

func (ui *UI) fileIndex(id string) int {
	for i, f := range ui.evidenceRows {
		if f.ID == id {
			return i
		}
	}
	return -1
}

func (ui *UI) renderViewer() {
	sel, open := ui.ws.Viewer.Current()
	if !open {
		return
	}
	w := ui.viewerView.Clear()
	fmt.Fprintf(w, "[%s::b]%s[-::-]\n", ui.theme.TagTextPrimary, tview.Escape(sel.Filename))
	fmt.Fprintf(w, "[%s]Type: %s[-]\n", ui.theme.TagMuted, sel.Kind)
	if sel.CameraLabel != "" {
		fmt.Fprintf(w, "[%s]Camera: %s[-]\n", ui.theme.TagMuted, sel.CameraLabel)
	}
	if sel.Timestamp != "" || sel.Date != "" {
		fmt.Fprintf(w, "[%s]Captured: %s %s[-]\n", ui.theme.TagMuted, sel.Date, sel.Timestamp)
	}
	if sel.URL != "" {
		fmt.Fprintf(w, "[%s]%s[-]\n", ui.theme.TagAccent, sel.URL)
	}

	p := ui.ws.Viewer.Player()
	if p == nil {
		return
	}
	state := "paused"
	if p.Playing() {
		state = "playing"
	} else if p.State() == workspace.ClipEnded {
		state = "clip ended, space to replay"
	}
	fmt.Fprintf(w, "\n[%s]%s  %s / %s[-]\n", ui.theme.TagAccent, state,
		workspace.FormatClock(p.Position()), workspace.FormatClock(p.EffectiveEnd()))
	if start := p.ClipStart(); start > 0 || p.EffectiveEnd() > 0 {
		fmt.Fprintf(w, "[%s]clip window %s - %s[-]\n", ui.theme.TagMuted,
			workspace.FormatClock(start), workspace.FormatClock(p.EffectiveEnd()))
	}
}

func (ui *UI) setStatus(format string, args ...interface{}) {
	ui.statusBar.Clear()
	fmt.Fprintf(ui.statusBar, format+"[-]", args...)
}

func (ui *UI) applyTheme() {
	t := ui.theme
	for _, box := range []*tview.Box{
		ui.chatView.Box, ui.input.Box, ui.evidenceTable.Box, ui.viewerView.Box,
	} {
		box.SetBackgroundColor(t.Surface).
			SetBorderColor(t.Border).
			SetTitleColor(t.Header)
	}
	ui.header.SetBackgroundColor(t.Bg)
	ui.stagingBar.SetBackgroundColor(t.Bg)
	ui.statusBar.SetBackgroundColor(t.Bg)
	ui.input.SetFieldBackgroundColor(t.Surface).SetFieldTextColor(t.TextPrimary)
	ui.evidenceTable.SetSelectedStyle(tcell.StyleDefault.
		Background(t.SelectionBg).Foreground(t.SelectionFg))
}

// toggleTheme flips between the dark and light palettes and repaints.
// Runs on the UI goroutine (called from input capture).
func (ui *UI) toggleTheme() {
	if ui.themeName == "dark" {
		ui.themeName = "light"
		ui.theme = themeLight()
	} else {
		ui.themeName = "dark"
		ui.theme = themeDark()
	}
	ui.applyTheme()
	ui.renderHeader(ui.caseMeta)
	ui.renderChat()
	ui.renderStaging()
	ui.renderEvidence()
	ui.setStatus("[%s]Theme: %s", ui.theme.TagAccent, ui.themeName)
	ui.logger.Printf("Theme applied: %s (truecolor=%v)", ui.themeName, ui.hasTrueColor)
}

// formatTimestamp trims an RFC3339 timestamp down to a readable clock.
func formatTimestamp(ts string) string {
	if parsed, err := time.Parse(time.RFC3339, ts); err == nil {
		return parsed.Local().Format("Jan 2 15:04")
	}
	return ts
}
