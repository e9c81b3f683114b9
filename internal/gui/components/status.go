package components

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

type StatusBar struct {
	container   *fyne.Container
	statusLabel *widget.Label
	infoLabel   *widget.Label
}

func NewStatusBar() *StatusBar {
	statusLabel := widget.NewLabel("Ready")
	infoLabel := widget.NewLabel("")

	mainContainer := container.NewBorder(
		nil, nil,
		statusLabel,
		infoLabel,
	)

	return &StatusBar{
		container:   mainContainer,
		statusLabel: statusLabel,
		infoLabel:   infoLabel,
	}
}

func (sb *StatusBar) GetContainer() *fyne.Container {
	return sb.container
}

func (sb *StatusBar) SetStatus(status string) {
	sb.statusLabel.SetText(status)
}

func (sb *StatusBar) Status() string {
	return sb.statusLabel.Text
}

// SetInfo sets the right-hand text, e.g. product name and version.
func (sb *StatusBar) SetInfo(info string) {
	sb.infoLabel.SetText(info)
}
