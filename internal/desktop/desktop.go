package desktop

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"tumotrack/internal/predictor"
	"tumotrack/pkg/domain"
	"tumotrack/pkg/form"
	"tumotrack/pkg/logger"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"
)

const (
	// Title is the window title and heading of the main dialog.
	Title = "TUMO TRACK"

	loadFailureMessage = "Model files not found!"
)

// Options size the dialog window.
type Options struct {
	Width  float32
	Height float32
}

// Desktop is the main dialog: thirty entries grouped in three frames, sample
// loaders and the result panel.
type Desktop struct {
	ctx       context.Context //nolint: containedctx
	window    fyne.Window
	predictor predictor.Predictor
	notifier  Notifier

	features []domain.Feature
	entries  []*widget.Entry

	predictButton  *widget.Button
	resultLabel    *widget.Label
	benignLabel    *widget.Label
	malignantLabel *widget.Label
}

// NewDesktop builds the dialog in a new window of app. A nil notifier shows
// notices as dialogs over that window.
func NewDesktop(ctx context.Context, app fyne.App, p predictor.Predictor, opts Options, n Notifier) *Desktop {
	d := &Desktop{
		ctx:       ctx,
		window:    app.NewWindow(Title),
		predictor: p,
		notifier:  n,
		features:  domain.Features(),
	}
	if d.notifier == nil {
		d.notifier = dialogNotifier{parent: d.window}
	}

	d.window.SetContent(d.build())
	d.window.Resize(fyne.NewSize(opts.Width, opts.Height))

	return d
}

func (d *Desktop) build() fyne.CanvasObject {
	title := widget.NewRichTextFromMarkdown("# " + Title)

	d.entries = make([]*widget.Entry, len(d.features))
	frames := make([]fyne.CanvasObject, 0, len(domain.Groups()))
	i := 0
	for _, g := range domain.Groups() {
		items := make([]*widget.FormItem, 0, len(domain.Measurements))
		for _, f := range domain.ByGroup(d.features, g) {
			e := widget.NewEntry()
			d.entries[i] = e
			i++
			items = append(items, widget.NewFormItem(f.MeasurementTitle()+":", e))
		}
		frames = append(frames, widget.NewCard(strings.ToUpper(g.Title()), "", widget.NewForm(items...)))
	}

	buttons := container.NewHBox(
		widget.NewButton("Load Benign Sample", func() { d.LoadSample(domain.BenignSample) }),
		widget.NewButton("Load Malignant Sample", func() { d.LoadSample(domain.MalignantSample) }),
		widget.NewButton("Clear All", d.Clear),
	)

	d.predictButton = widget.NewButton("PREDICT", d.Predict)
	d.predictButton.Importance = widget.HighImportance

	d.resultLabel = widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	d.benignLabel = widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{})
	d.malignantLabel = widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{})
	results := widget.NewCard("Prediction Results", "", container.NewVBox(
		d.resultLabel,
		d.benignLabel,
		d.malignantLabel,
	))

	return container.NewVScroll(container.NewVBox(
		container.NewCenter(title),
		container.NewGridWithColumns(len(frames), frames...),
		container.NewCenter(buttons),
		container.NewCenter(d.predictButton),
		results,
	))
}

// CheckReady notifies the user once when the artifacts failed to load and
// disables prediction. It reports whether the predictor is ready.
func (d *Desktop) CheckReady() bool {
	if err := d.predictor.Ready(); err != nil {
		logger.Error(d.ctx, "desktop started without model", zap.Error(err))
		d.predictButton.Disable()
		d.notifier.ShowError("Error", loadFailureMessage)

		return false
	}

	return true
}

// LoadSample fills every entry with the values of s.
func (d *Desktop) LoadSample(s domain.Sample) {
	for i, e := range d.entries {
		e.SetText(strconv.FormatFloat(s.Values[i], 'f', -1, 64))
	}

	name := strings.ToUpper(s.Name[:1]) + s.Name[1:]
	d.notifier.ShowInfo("Sample Loaded", name+" sample data has been loaded!")
}

// Clear empties every entry and the result panel.
func (d *Desktop) Clear() {
	for _, e := range d.entries {
		e.SetText("")
	}
	d.setResult("", "", "")
}

// Predict classifies the entered values. Invalid input leaves the result
// panel unchanged.
func (d *Desktop) Predict() {
	values := make(map[string]string, len(d.features))
	for i, f := range d.features {
		values[f.Key] = d.entries[i].Text
	}

	record, err := form.Parse(d.features, values, form.InvalidMessage)
	var inputErr *form.InputError
	if errors.As(err, &inputErr) {
		d.notifier.ShowError("Error", inputErr.Message)

		return
	}
	if err != nil {
		d.notifier.ShowError("Error", "An error occurred: "+err.Error())

		return
	}

	pred, err := d.predictor.Predict(d.ctx, domain.SourceDesktop, record)
	if err != nil {
		logger.Error(d.ctx, "desktop prediction failed", zap.Error(err))
		d.notifier.ShowError("Error", "An error occurred: "+err.Error())

		return
	}

	d.setResult(FormatResult(pred))
}

func (d *Desktop) setResult(result, benign, malignant string) {
	d.resultLabel.SetText(result)
	d.benignLabel.SetText(benign)
	d.malignantLabel.SetText(malignant)
}

// FormatResult renders the three result lines of the desktop dialog.
func FormatResult(p *domain.Prediction) (string, string, string) {
	return "Prediction: " + p.Label.String(),
		fmt.Sprintf("Benign Probability: %.2f%%", p.BenignProbability*100),
		fmt.Sprintf("Malignant Probability: %.2f%%", p.MalignantProbability*100)
}

// Window returns the dialog window.
func (d *Desktop) Window() fyne.Window {
	return d.window
}
