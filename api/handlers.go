/*
handlers.go - HTTP API handlers for the benefits reporting engine

PURPOSE:
  Exposes the eligibility and aggregation engine via REST. Handles query
  parsing, validation, and delegation to the benefits package.

ENDPOINTS:
  Reports:
    GET /api/reports/active-lives    12-month active-member series
    GET /api/reports/beneficiaries   detailed paged claim report (broad
                                     plan denylist, trailing spend attached)
    GET /api/reports/entities        entity listing report (narrow denylist)

  Filters:
    GET /api/filters/options         distinct operator/entity/type values

  Health:
    GET /healthz

REQUEST FLOW:
  1. Parse query parameters into a *Query struct
  2. Validate (go-playground/validator) - fails before any data access
  3. Call engine logic
  4. Serialize response

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: validation errors (missing range, malformed month, bad page)
  - 500: data-source failures (never retried, never partial)

SEE ALSO:
  - dto.go: request/response data structures
  - server.go: router setup and middleware
*/
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/ampara/benefits-engine/benefits"
	"github.com/ampara/benefits-engine/config"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store benefits.Store
	Log   zerolog.Logger

	defaultOperator string
	entityDenylist  []string
	reportDenylist  []string

	validate *validator.Validate

	// now supplies the processing date injected into report filters.
	// Overridable in tests.
	now func() time.Time
}

// NewHandler creates a handler wired to the given store and configuration.
func NewHandler(store benefits.Store, cfg *config.Config, log zerolog.Logger) *Handler {
	return &Handler{
		Store:           store,
		Log:             log,
		defaultOperator: cfg.DefaultOperator,
		entityDenylist:  cfg.EntityDenylist(),
		reportDenylist:  cfg.ReportDenylist(),
		validate:        validator.New(),
		now:             time.Now,
	}
}

// =============================================================================
// REPORT HANDLERS
// =============================================================================

// ActiveLives returns the rolling 12-month active-member series.
// GET /api/reports/active-lives?operadora=&referencia=YYYY-MM
func (h *Handler) ActiveLives(w http.ResponseWriter, r *http.Request) {
	q := SeriesQuery{
		Operator:  r.URL.Query().Get("operadora"),
		Reference: r.URL.Query().Get("referencia"),
	}
	if q.Operator == "" {
		q.Operator = h.defaultOperator
	}
	if err := h.validate.Struct(q); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid series parameters", err)
		return
	}

	series, err := benefits.ActiveLivesSeries(r.Context(), h.Store, q.Operator, q.Reference)
	if err != nil {
		h.fail(w, "Failed to build active-lives series", err)
		return
	}
	writeJSON(w, http.StatusOK, series)
}

// BeneficiaryReport returns the detailed paged claim report with the broad
// plan denylist and per-beneficiary trailing spend.
// GET /api/reports/beneficiaries?inicio=&fim=&operadoras=&entidades=&tipo=
//
//	&competencias=&page=&pageSize=
func (h *Handler) BeneficiaryReport(w http.ResponseWriter, r *http.Request) {
	h.pagedReport(w, r, h.reportDenylist)
}

// EntityReport returns the entity listing report: same pipeline, narrow
// plan denylist.
// GET /api/reports/entities?inicio=&fim=&...
func (h *Handler) EntityReport(w http.ResponseWriter, r *http.Request) {
	h.pagedReport(w, r, h.entityDenylist)
}

func (h *Handler) pagedReport(w http.ResponseWriter, r *http.Request, denylist []string) {
	q, err := parseReportQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid report parameters", err)
		return
	}
	if err := h.validate.Struct(q); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid report parameters", err)
		return
	}

	start, err := parseDate(q.Start)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid report parameters", err)
		return
	}
	end, err := parseDate(q.End)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid report parameters", err)
		return
	}

	filter := benefits.ReportFilter{
		Start:           start,
		End:             end,
		Now:             h.now().UTC().Truncate(24 * time.Hour),
		Operators:       q.Operators,
		Entities:        q.Entities,
		BeneficiaryType: q.Type,
		PlanDenylist:    denylist,
	}
	for _, c := range q.Competencies {
		m, err := benefits.ParseMonth(c)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid competency month", err)
			return
		}
		filter.Competencies = append(filter.Competencies, m)
	}

	result, err := benefits.BuildReport(r.Context(), h.Store, filter, q.Page, q.PageSize)
	if err != nil {
		h.fail(w, "Failed to build report", err)
		return
	}
	writeJSON(w, http.StatusOK, toPageResponse(result))
}

// parseReportQuery extracts the paged report parameters. List parameters
// are comma-separated; page defaults to 1 and pageSize to 20.
func parseReportQuery(r *http.Request) (ReportQuery, error) {
	values := r.URL.Query()
	q := ReportQuery{
		Start:        values.Get("inicio"),
		End:          values.Get("fim"),
		Operators:    splitParam(values.Get("operadoras")),
		Entities:     splitParam(values.Get("entidades")),
		Type:         values.Get("tipo"),
		Competencies: splitParam(values.Get("competencias")),
		Page:         1,
		PageSize:     20,
	}

	var err error
	if raw := values.Get("page"); raw != "" {
		if q.Page, err = strconv.Atoi(raw); err != nil {
			return q, benefits.ErrInvalidPage
		}
	}
	if raw := values.Get("pageSize"); raw != "" {
		if q.PageSize, err = strconv.Atoi(raw); err != nil {
			return q, benefits.ErrInvalidPage
		}
	}
	return q, nil
}

func splitParam(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// =============================================================================
// FILTER OPTION / HEALTH HANDLERS
// =============================================================================

// FilterOptions returns the distinct values for the dashboard dropdowns.
// GET /api/filters/options
func (h *Handler) FilterOptions(w http.ResponseWriter, r *http.Request) {
	options, err := h.Store.FilterOptions(r.Context())
	if err != nil {
		h.fail(w, "Failed to list filter options", err)
		return
	}
	writeJSON(w, http.StatusOK, options)
}

// Health reports process liveness.
// GET /healthz
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

// fail maps an engine error to 400 or 500 per its kind and logs the
// server-side ones.
func (h *Handler) fail(w http.ResponseWriter, message string, err error) {
	if benefits.IsClientError(err) {
		writeError(w, http.StatusBadRequest, message, err)
		return
	}
	h.Log.Error().Err(err).Msg(message)
	writeError(w, http.StatusInternalServerError, message, err)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
