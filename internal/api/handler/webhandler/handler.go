// Package webhandler serves the browser form of TumoTrack: thirty numeric
// fields in three columns, a Predict button and the result panel.
package webhandler

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"tumotrack/internal/config"
	"tumotrack/internal/predictor"
	"tumotrack/pkg/domain"
	"tumotrack/pkg/form"
	"tumotrack/pkg/logger"

	"go.uber.org/zap"
)

//go:embed templates/*.html
var templates embed.FS

// Hidden form fields carrying the result currently on display.
const (
	resultLabelField     = "_result_label"
	resultBenignField    = "_result_benign"
	resultMalignantField = "_result_malignant"

	maxFormBytes = 64 << 10
)

// Options name the artifacts mentioned in the load failure notice.
type Options struct {
	ScalerPath     string
	ClassifierPath string
}

// NewOptions constructs an Options value from the provided application config.
func NewOptions(cfg *config.Config) Options {
	return Options{
		ScalerPath:     cfg.Model.ScalerPath,
		ClassifierPath: cfg.Model.ClassifierPath,
	}
}

// Deps are the services the web form depends on.
type Deps struct {
	Predictor predictor.Predictor
}

type Handler struct {
	deps     Deps
	opts     Options
	tmpl     *template.Template
	features []domain.Feature
}

// New parses the embedded templates and returns the form handler.
func New(deps Deps, opts Options) (*Handler, error) {
	tmpl, err := template.ParseFS(templates, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("could not parse web templates: %w", err)
	}

	return &Handler{
		deps:     deps,
		opts:     opts,
		tmpl:     tmpl,
		features: domain.Features(),
	}, nil
}

// Routes returns the form routes.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", h.Index)
	mux.HandleFunc("POST /predict", h.Predict)

	return mux
}

type fieldView struct {
	ID      string
	Key     string
	Label   string
	Value   string
	Invalid bool
}

type groupView struct {
	Title  string
	Fields []fieldView
}

type resultView struct {
	Label     string
	Malignant bool

	LabelValue     string
	BenignValue    string
	MalignantValue string

	BenignPercent    string
	MalignantPercent string
}

type pageView struct {
	Groups []groupView

	LoadError      bool
	ScalerName     string
	ClassifierName string

	SampleLoaded bool
	InputError   string
	Result       *resultView

	ResultLabelField     string
	ResultBenignField    string
	ResultMalignantField string
}

func newResultView(label domain.Label, benign, malignant float64) *resultView {
	return &resultView{
		Label:            label.String(),
		Malignant:        label == domain.LabelMalignant,
		LabelValue:       label.String(),
		BenignValue:      strconv.FormatFloat(benign, 'g', -1, 64),
		MalignantValue:   strconv.FormatFloat(malignant, 'g', -1, 64),
		BenignPercent:    fmt.Sprintf("%.1f%%", benign*100),
		MalignantPercent: fmt.Sprintf("%.1f%%", malignant*100),
	}
}

// previousResult restores the result carried in hidden fields, or nil when
// there is none or it was tampered with.
func previousResult(values map[string]string) *resultView {
	label, ok := domain.ParseLabel(values[resultLabelField])
	if !ok {
		return nil
	}
	benign, ok := form.ParseValue(values[resultBenignField])
	if !ok || benign < 0 || benign > 1 {
		return nil
	}
	malignant, ok := form.ParseValue(values[resultMalignantField])
	if !ok || malignant < 0 || malignant > 1 {
		return nil
	}

	return newResultView(label, benign, malignant)
}

func (h *Handler) newPage(values map[string]string, invalid []string) *pageView {
	bad := make(map[string]bool, len(invalid))
	for _, k := range invalid {
		bad[k] = true
	}

	p := &pageView{
		LoadError:            h.deps.Predictor.Ready() != nil,
		ScalerName:           filepath.Base(h.opts.ScalerPath),
		ClassifierName:       filepath.Base(h.opts.ClassifierPath),
		ResultLabelField:     resultLabelField,
		ResultBenignField:    resultBenignField,
		ResultMalignantField: resultMalignantField,
	}
	for _, g := range domain.Groups() {
		gv := groupView{Title: g.Title()}
		for _, f := range domain.ByGroup(h.features, g) {
			gv.Fields = append(gv.Fields, fieldView{
				ID:      strings.ReplaceAll(f.Key, " ", "-"),
				Key:     f.Key,
				Label:   f.Label,
				Value:   values[f.Key],
				Invalid: bad[f.Key],
			})
		}
		p.Groups = append(p.Groups, gv)
	}

	return p
}

// Index renders the empty form, or the form pre-filled with a built-in sample
// when ?sample= names one. An unknown sample renders the empty form with a
// notice and status 400.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("sample")
	if name == "" {
		h.render(w, r, http.StatusOK, h.newPage(form.Defaults(h.features), nil))

		return
	}

	s, err := domain.SampleByName(name)
	if err != nil {
		p := h.newPage(form.Defaults(h.features), nil)
		p.InputError = "Unknown sample: " + name + "."
		h.render(w, r, http.StatusBadRequest, p)

		return
	}

	p := h.newPage(form.Values(h.features, s.Values), nil)
	p.SampleLoaded = true
	h.render(w, r, http.StatusOK, p)
}

// Predict classifies the submitted form. Invalid input re-renders the form
// with a notice and the result that was displayed before the submission.
func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "could not parse form", http.StatusBadRequest)

		return
	}

	values := make(map[string]string, len(r.PostForm))
	for k := range r.PostForm {
		values[k] = r.PostForm.Get(k)
	}

	if err := h.deps.Predictor.Ready(); err != nil {
		p := h.newPage(values, nil)
		p.Result = previousResult(values)
		h.render(w, r, http.StatusServiceUnavailable, p)

		return
	}

	record, err := form.Parse(h.features, values, form.InvalidMessage)
	var inputErr *form.InputError
	if errors.As(err, &inputErr) {
		p := h.newPage(values, inputErr.Fields)
		p.InputError = inputErr.Message
		p.Result = previousResult(values)
		h.render(w, r, http.StatusBadRequest, p)

		return
	}
	if err != nil {
		logger.Error(ctx, "could not build record", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	pred, err := h.deps.Predictor.Predict(ctx, domain.SourceWeb, record)
	if err != nil {
		logger.Error(ctx, "prediction failed", zap.Error(err))
		p := h.newPage(values, nil)
		p.InputError = "Prediction Error: " + err.Error()
		p.Result = previousResult(values)
		h.render(w, r, http.StatusInternalServerError, p)

		return
	}

	p := h.newPage(values, nil)
	p.Result = newResultView(pred.Label, pred.BenignProbability, pred.MalignantProbability)
	h.render(w, r, http.StatusOK, p)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, p *pageView) {
	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, "index.html", p); err != nil {
		logger.Error(r.Context(), "could not render page", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
