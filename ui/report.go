// Package ui shows a rendered report page in a Fyne window.
package ui

import (
	"fmt"
	"image/color"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/ethereum/go-ethereum/log"

	"github.com/chrisuehlinger/beaterhtml/dom"
	"github.com/chrisuehlinger/beaterhtml/reporter"
)

// Loader produces the document to show. It is called on open and on reload.
type Loader func() (*dom.Document, error)

// ReportViewer is a window listing the entries of a report container.
type ReportViewer struct {
	window      fyne.Window
	load        Loader
	containerID string
	log         log.Logger

	status    *widget.Label
	reloadBtn *widget.Button
	entries   *fyne.Container
	scroll    *container.Scroll

	mu sync.Mutex
}

// NewReportViewer creates a viewer window in a. Call Reload to fill it.
func NewReportViewer(a fyne.App, load Loader, containerID string, logger log.Logger) *ReportViewer {
	if logger == nil {
		logger = log.Root()
	}
	if containerID == "" {
		containerID = reporter.DefaultContainerID
	}
	v := &ReportViewer{
		window:      a.NewWindow("beaterhtml"),
		load:        load,
		containerID: containerID,
		log:         logger.New("component", "viewer"),
	}
	v.window.Resize(fyne.NewSize(900, 600))
	v.setupUI()
	v.setupKeyboardShortcuts()
	return v
}

// Window returns the viewer's window.
func (v *ReportViewer) Window() fyne.Window {
	return v.window
}

func (v *ReportViewer) setupUI() {
	v.reloadBtn = widget.NewButtonWithIcon("", theme.ViewRefreshIcon(), v.Reload)
	v.status = widget.NewLabel("")

	v.entries = container.NewVBox()
	v.scroll = container.NewVScroll(v.entries)

	toolbar := container.NewBorder(nil, nil, v.reloadBtn, nil, v.status)
	v.window.SetContent(container.NewBorder(toolbar, nil, nil, nil, v.scroll))
}

func (v *ReportViewer) setupKeyboardShortcuts() {
	// Ctrl+R: Reload
	v.window.Canvas().AddShortcut(&desktop.CustomShortcut{
		KeyName:  fyne.KeyR,
		Modifier: fyne.KeyModifierControl,
	}, func(_ fyne.Shortcut) {
		v.Reload()
	})

	// Ctrl+W: Close
	v.window.Canvas().AddShortcut(&desktop.CustomShortcut{
		KeyName:  fyne.KeyW,
		Modifier: fyne.KeyModifierControl,
	}, func(_ fyne.Shortcut) {
		v.window.Close()
	})
}

// Reload loads the document again and redraws the entries.
func (v *ReportViewer) Reload() {
	v.mu.Lock()
	defer v.mu.Unlock()

	doc, err := v.load()
	if err != nil {
		v.log.Warn("Failed to load report", "err", err)
		v.showError(err.Error())
		return
	}

	list := doc.GetElementById(v.containerID)
	if list == nil {
		v.showError(fmt.Sprintf("no element with id %q", v.containerID))
		return
	}

	if title := doc.Title(); title != "" {
		v.window.SetTitle(title)
	}

	items := list.Children()
	rows := make([]fyne.CanvasObject, 0, len(items))
	for _, li := range items {
		rows = append(rows, entryObject(li))
	}
	v.entries.Objects = rows
	v.entries.Refresh()
	v.scroll.ScrollToBottom()

	v.status.SetText(fmt.Sprintf("%d entries", len(items)))
	v.log.Debug("Report loaded", "entries", len(items))
}

func (v *ReportViewer) showError(message string) {
	errorLabel := widget.NewLabel(message)
	errorLabel.Wrapping = fyne.TextWrapWord
	errorLabel.Alignment = fyne.TextAlignCenter

	v.entries.Objects = []fyne.CanvasObject{container.NewVBox(
		widget.NewLabel("Error"),
		errorLabel,
	)}
	v.entries.Refresh()
	v.status.SetText("")
}

// ShowAndRun shows the window and runs the application until it is closed.
func (v *ReportViewer) ShowAndRun() {
	v.Reload()
	v.window.ShowAndRun()
}

// entryObject draws one entry as a column of lines of colored text.
func entryObject(li *dom.Element) fyne.CanvasObject {
	lines := EntryLines(li)
	col := container.NewVBox()
	for _, line := range lines {
		row := container.NewHBox()
		for _, run := range line {
			var c color.Color = theme.Color(theme.ColorNameForeground)
			if run.Colored {
				c = run.Color.NRGBA()
			}
			text := canvas.NewText(run.Text, c)
			text.TextStyle = fyne.TextStyle{Monospace: true}
			row.Add(text)
		}
		col.Add(row)
	}
	return col
}
