// Package desktop implements the fyne front-ends of TumoTrack: the main
// thirty-field dialog and the five-field toy dialog.
package desktop

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// Notifier shows modal notices to the user.
type Notifier interface {
	ShowInfo(title, message string)
	ShowError(title, message string)
}

// dialogNotifier shows notices as fyne dialogs over a window.
type dialogNotifier struct {
	parent fyne.Window
}

func (n dialogNotifier) ShowInfo(title, message string) {
	dialog.ShowInformation(title, message, n.parent)
}

func (n dialogNotifier) ShowError(title, message string) {
	d := dialog.NewCustom(title, "OK", widget.NewLabel(message), n.parent)
	d.Show()
}
