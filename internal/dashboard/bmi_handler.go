package dashboard

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/2beens/fitnessdash/internal/bmi"
	"github.com/2beens/fitnessdash/internal/middleware"
	"github.com/2beens/fitnessdash/internal/telemetry/metrics"
	"github.com/2beens/fitnessdash/internal/telemetry/tracing"
	"github.com/2beens/fitnessdash/internal/ui"
	"github.com/2beens/fitnessdash/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const exportPath = "/bmi/export"

type BMIHandler struct {
	renderer       *ui.Renderer
	metricsManager *metrics.Manager
}

func NewBMIHandler(renderer *ui.Renderer, metricsManager *metrics.Manager) *BMIHandler {
	return &BMIHandler{
		renderer:       renderer,
		metricsManager: metricsManager,
	}
}

// SetupRoutes registers the calculator routes. The export is rate limited only
// when a rate limiter is given.
func (handler *BMIHandler) SetupRoutes(
	r *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	exportAllowedPerMin int,
) {
	r.HandleFunc("/bmi", handler.HandlePage).Methods("GET", "POST").Name("bmi")
	r.HandleFunc("/api/bmi", handler.HandleAPI).Methods("POST").Name("bmi-api")

	var export http.Handler = http.HandlerFunc(handler.HandleExport)
	if rateLimiter != nil {
		export = middleware.RateLimit(rateLimiter, "bmi-export", exportAllowedPerMin, handler.metricsManager)(export)
	}
	r.Handle(exportPath, export).Methods("GET").Name("bmi-export")
}

type bmiResponse struct {
	Record *bmi.Record      `json:"record,omitempty"`
	Advice *bmi.Advice      `json:"advice,omitempty"`
	Prompt string           `json:"prompt,omitempty"`
	Errors []bmi.FieldError `json:"errors,omitempty"`
}

func (handler *BMIHandler) HandlePage(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "bmiHandler.page")
	defer span.End()

	if err := r.ParseForm(); err != nil {
		log.Errorf("bmi page, parse form: %s", err)
		http.Error(w, "parse form error", http.StatusBadRequest)
		return
	}

	page := ui.BMIPage{
		Form:   bmi.DefaultForm(),
		Limits: bmi.FormLimits,
		Header: bmi.Header(),
	}
	if bmi.Submitted(r.Form) {
		form, err := bmi.ParseForm(r.Form)
		page.Form = form
		if err != nil {
			page.Errors = bmi.FieldErrors(err)
		} else if record, ok := handler.calculate(form); ok {
			span.SetAttributes(attribute.String("bmi.result", string(record.Result)))
			advice := record.Result.Advice()
			page.Record = &record
			page.Advice = advice
			page.ExportURL = exportPath + "?" + form.Query().Encode()
		} else {
			page.Prompt = bmi.HeightPrompt
		}
	}

	if err := handler.renderer.Render(w, http.StatusOK, ui.PageBMI, page); err != nil {
		span.SetStatus(codes.Error, err.Error())
		log.Errorf("render bmi page: %s", err)
		http.Error(w, "render error", http.StatusInternalServerError)
	}
}

func (handler *BMIHandler) HandleAPI(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "bmiHandler.api")
	defer span.End()

	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		http.Error(w, "expected json body", http.StatusUnsupportedMediaType)
		return
	}

	// omitted age and weight keep their defaults, an omitted height stays zero
	form := bmi.DefaultForm()
	form.HeightM = 0
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		log.Debugf("bmi api, decode form: %s", err)
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	form.Name = strings.TrimSpace(form.Name)

	if err := form.Validate(); err != nil {
		pkg.WriteJSON(w, bmiResponse{Errors: bmi.FieldErrors(err)}, http.StatusBadRequest)
		return
	}

	record, ok := handler.calculate(form)
	if !ok {
		pkg.WriteJSON(w, bmiResponse{Prompt: bmi.HeightPrompt}, http.StatusOK)
		return
	}

	advice := record.Result.Advice()
	pkg.WriteJSON(w, bmiResponse{Record: &record, Advice: &advice}, http.StatusOK)
}

func (handler *BMIHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "bmiHandler.export")
	defer span.End()

	form, err := bmi.ParseForm(r.URL.Query())
	if err != nil {
		var msgs []string
		for _, fe := range bmi.FieldErrors(err) {
			msgs = append(msgs, fe.Error())
		}
		http.Error(w, "invalid input: "+strings.Join(msgs, "; "), http.StatusBadRequest)
		return
	}

	record, ok := bmi.NewRecord(form)
	if !ok {
		http.Error(w, bmi.HeightPrompt, http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer
	if err := bmi.WriteCSV(&buf, record); err != nil {
		span.SetStatus(codes.Error, err.Error())
		log.Errorf("bmi export: %s", err)
		http.Error(w, fmt.Sprintf("export error: %s", err), http.StatusInternalServerError)
		return
	}

	handler.metricsManager.CounterBMIExports.Inc()
	pkg.WriteAttachment(w, pkg.ContentType.CSV, bmi.ExportFileName, buf.Bytes())
}

func (handler *BMIHandler) calculate(form bmi.Form) (bmi.Record, bool) {
	record, ok := bmi.NewRecord(form)
	if ok {
		handler.metricsManager.CounterBMICalculations.WithLabelValues(string(record.Result)).Inc()
	}
	return record, ok
}
