package desktop

import (
	"context"
	"errors"
	"fmt"
	"tumotrack/internal/predictor"
	"tumotrack/pkg/domain"
	"tumotrack/pkg/form"
	"tumotrack/pkg/logger"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"
)

// ToyTitle is the window title and heading of the toy dialog.
const ToyTitle = "TumoTrack - Cancer Detection System"

// Toy is the five-field dialog backed by the sum-threshold pipeline.
type Toy struct {
	ctx       context.Context //nolint: containedctx
	app       fyne.App
	window    fyne.Window
	predictor predictor.Predictor
	notifier  Notifier

	features []domain.Feature
	entries  []*widget.Entry
	inputs   *widget.Form
}

// NewToy builds the toy dialog in a new window of app. A nil notifier shows
// notices as dialogs over that window.
func NewToy(ctx context.Context, app fyne.App, p predictor.Predictor, opts Options, n Notifier) *Toy {
	t := &Toy{
		ctx:       ctx,
		app:       app,
		window:    app.NewWindow(ToyTitle),
		predictor: p,
		notifier:  n,
		features:  domain.ToyFeatures(),
	}
	if t.notifier == nil {
		t.notifier = dialogNotifier{parent: t.window}
	}

	t.window.SetContent(t.build())
	t.window.Resize(fyne.NewSize(opts.Width, opts.Height))

	return t
}

func (t *Toy) build() fyne.CanvasObject {
	t.entries = make([]*widget.Entry, len(t.features))
	items := make([]*widget.FormItem, len(t.features))
	for i, f := range t.features {
		e := widget.NewEntry()
		t.entries[i] = e
		items[i] = widget.NewFormItem(f.Label+":", e)
	}
	// Enter moves to the next entry, wrapping around.
	for i, e := range t.entries {
		next := t.entries[(i+1)%len(t.entries)]
		e.OnSubmitted = func(string) { t.window.Canvas().Focus(next) }
	}

	t.inputs = widget.NewForm(items...)

	predict := widget.NewButton("Predict", t.Predict)
	predict.Importance = widget.HighImportance
	reset := widget.NewButton("Check New", t.Reset)
	quit := widget.NewButton("Quit", t.app.Quit)
	quit.Importance = widget.DangerImportance

	return container.NewVBox(
		container.NewCenter(widget.NewRichTextFromMarkdown("# "+ToyTitle)),
		container.NewCenter(widget.NewRichTextFromMarkdown("## Enter Tumor Features")),
		t.inputs,
		container.NewCenter(container.NewHBox(predict, reset, quit)),
	)
}

// Predict classifies the five entered values and shows the outcome.
func (t *Toy) Predict() {
	values := make(map[string]string, len(t.features))
	for i, f := range t.features {
		values[f.Key] = t.entries[i].Text
	}

	record, err := form.Parse(t.features, values, form.InvalidToyMessage)
	var inputErr *form.InputError
	if errors.As(err, &inputErr) {
		t.notifier.ShowError("Input Error", inputErr.Message)

		return
	}
	if err != nil {
		t.notifier.ShowError("Input Error", err.Error())

		return
	}

	pred, err := t.predictor.Predict(t.ctx, domain.SourceToy, record)
	if err != nil {
		logger.Error(t.ctx, "toy prediction failed", zap.Error(err))
		t.notifier.ShowError("Error", "An error occurred: "+err.Error())

		return
	}

	t.notifier.ShowInfo("Prediction Result", FormatToyResult(pred))
}

// Reset empties every entry.
func (t *Toy) Reset() {
	for _, e := range t.entries {
		e.SetText("")
	}
}

// FormatToyResult renders the outcome shown by the toy dialog.
func FormatToyResult(p *domain.Prediction) string {
	return fmt.Sprintf("Prediction: %s\nConfidence: %.2f%%", p.Label.ToyString(), p.Confidence()*100)
}

// Window returns the dialog window.
func (t *Toy) Window() fyne.Window {
	return t.window
}
