package components

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"

	"horizon-ai/internal/console"
)

const consolePlaceholder = "Waiting for system events..."

// ConsoleView renders console lines, tinted by level, newest at the bottom.
type ConsoleView struct {
	container   *fyne.Container
	list        *widget.List
	placeholder *widget.Label
	copyButton  *widget.Button
	clearButton *widget.Button

	lines []console.Line

	copyHandler  func()
	clearHandler func()
}

func NewConsoleView() *ConsoleView {
	cv := &ConsoleView{}

	cv.list = widget.NewList(
		func() int { return len(cv.lines) },
		func() fyne.CanvasObject {
			l := widget.NewLabel("")
			l.TextStyle = fyne.TextStyle{Monospace: true}
			l.Truncation = fyne.TextTruncateEllipsis
			return l
		},
		func(id widget.ListItemID, o fyne.CanvasObject) {
			if id < 0 || id >= len(cv.lines) {
				return
			}
			l := o.(*widget.Label)
			l.Importance = LevelImportance(cv.lines[id].Level)
			l.SetText(cv.lines[id].Text)
		},
	)

	cv.placeholder = widget.NewLabel(consolePlaceholder)
	cv.placeholder.Alignment = fyne.TextAlignCenter

	cv.copyButton = widget.NewButtonWithIcon("Copy", theme.ContentCopyIcon(), func() {
		if cv.copyHandler != nil {
			cv.copyHandler()
		}
	})
	cv.clearButton = widget.NewButtonWithIcon("Clear", theme.DeleteIcon(), func() {
		if cv.clearHandler != nil {
			cv.clearHandler()
		}
	})

	header := container.NewBorder(nil, nil,
		widget.NewLabelWithStyle("System Logs", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(cv.copyButton, cv.clearButton),
	)

	cv.container = container.NewBorder(header, nil, nil, nil,
		container.NewStack(cv.list, cv.placeholder))
	cv.SetLines(nil)
	return cv
}

func (cv *ConsoleView) GetContainer() *fyne.Container {
	return cv.container
}

func (cv *ConsoleView) SetCopyHandler(handler func()) {
	cv.copyHandler = handler
}

func (cv *ConsoleView) SetClearHandler(handler func()) {
	cv.clearHandler = handler
}

// SetLines replaces the rendered lines and scrolls to the newest.
func (cv *ConsoleView) SetLines(lines []console.Line) {
	cv.lines = lines
	if len(lines) == 0 {
		cv.placeholder.Show()
		cv.copyButton.Disable()
	} else {
		cv.placeholder.Hide()
		cv.copyButton.Enable()
	}
	cv.list.Refresh()
	if len(lines) > 0 {
		cv.list.ScrollToBottom()
	}
}

func (cv *ConsoleView) Len() int {
	return len(cv.lines)
}

func (cv *ConsoleView) PlaceholderVisible() bool {
	return cv.placeholder.Visible()
}

// LevelImportance maps a log level to the label colour used for it.
func LevelImportance(level zerolog.Level) widget.Importance {
	switch {
	case level == zerolog.NoLevel:
		return widget.MediumImportance
	case level >= zerolog.ErrorLevel:
		return widget.DangerImportance
	case level == zerolog.WarnLevel:
		return widget.WarningImportance
	case level == zerolog.InfoLevel:
		return widget.HighImportance
	default:
		return widget.LowImportance
	}
}
