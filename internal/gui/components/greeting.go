package components

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// GreetingForm asks for a name and shows the greeting computed for it.
type GreetingForm struct {
	container   *fyne.Container
	nameEntry   *widget.Entry
	greetButton *widget.Button
	resultLabel *widget.Label

	greetHandler func(name string)
}

func NewGreetingForm() *GreetingForm {
	gf := &GreetingForm{
		nameEntry:   widget.NewEntry(),
		resultLabel: widget.NewLabel(""),
	}
	gf.nameEntry.SetPlaceHolder("Enter a name...")
	gf.nameEntry.OnSubmitted = func(string) { gf.Submit() }
	gf.greetButton = widget.NewButton("Greet", gf.Submit)
	gf.greetButton.Importance = widget.HighImportance

	gf.resultLabel.Wrapping = fyne.TextWrapWord
	gf.resultLabel.TextStyle = fyne.TextStyle{Bold: true}

	gf.container = container.NewVBox(
		widget.NewLabel("Name"),
		container.NewBorder(nil, nil, nil, gf.greetButton, gf.nameEntry),
		gf.resultLabel,
	)
	return gf
}

func (gf *GreetingForm) GetContainer() *fyne.Container {
	return gf.container
}

func (gf *GreetingForm) SetGreetHandler(handler func(name string)) {
	gf.greetHandler = handler
}

// Submit sends the current name to the greet handler.
func (gf *GreetingForm) Submit() {
	if gf.greetHandler != nil {
		gf.greetHandler(gf.nameEntry.Text)
	}
}

func (gf *GreetingForm) SetName(name string) {
	gf.nameEntry.SetText(name)
}

func (gf *GreetingForm) SetResult(text string) {
	gf.resultLabel.SetText(text)
}

func (gf *GreetingForm) Result() string {
	return gf.resultLabel.Text
}

// SetBusy disables the form while a greeting is in flight.
func (gf *GreetingForm) SetBusy(busy bool) {
	if busy {
		gf.greetButton.Disable()
		return
	}
	gf.greetButton.Enable()
}
