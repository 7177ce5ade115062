/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the engine's domain model from the external API contract.

NAMING CONVENTION:
  - *Query:    validated query-parameter bundles from clients
  - *Response: response wrappers returned to clients

VALIDATION:
  Query structs carry go-playground/validator tags; handlers validate them
  before any data access. A missing date range or malformed YYYY-MM token
  fails with HTTP 400.

SEE ALSO:
  - handlers.go: uses these types
*/
package api

import (
	"time"

	"github.com/ampara/benefits-engine/benefits"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// SeriesQuery is the parameter bundle of the active-lives series endpoint.
type SeriesQuery struct {
	Operator  string `validate:"required"`
	Reference string `validate:"required,datetime=2006-01"`
}

// ReportQuery is the parameter bundle of the paged report endpoints.
// Start/End are the mandatory reference range; Competencies, when present,
// replace the range with exact month matches.
type ReportQuery struct {
	Start        string   `validate:"required,datetime=2006-01-02"`
	End          string   `validate:"required,datetime=2006-01-02"`
	Operators    []string `validate:"-"`
	Entities     []string `validate:"-"`
	Type         string   `validate:"-"`
	Competencies []string `validate:"dive,datetime=2006-01"`
	Page         int      `validate:"min=1"`
	PageSize     int      `validate:"min=1,max=500"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// ReportRowDTO is one claim row of the detailed report. Monetary values are
// serialized as decimal strings; dates as YYYY-MM-DD.
type ReportRowDTO struct {
	CPF           string `json:"cpf"`
	Name          string `json:"nome"`
	Operator      string `json:"operadora"`
	Entity        string `json:"entidade"`
	Plan          string `json:"plano"`
	Type          string `json:"tipo"`
	Age           int    `json:"idade"`
	EventCode     string `json:"codigo_evento"`
	Description   string `json:"descricao"`
	Specialty     string `json:"especialidade"`
	Value         string `json:"valor"`
	Competency    string `json:"competencia"`
	ServiceDate   string `json:"data_atendimento"`
	TrailingSpend string `json:"gasto_12m"`
}

// PageResponse wraps one report page with its pagination metadata.
type PageResponse struct {
	Rows       []ReportRowDTO `json:"rows"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	TotalPages int            `json:"totalPages"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func toPageResponse(result benefits.PageResult) PageResponse {
	rows := make([]ReportRowDTO, len(result.Rows))
	for i, r := range result.Rows {
		rows[i] = ReportRowDTO{
			CPF:           string(r.CPF),
			Name:          r.Name,
			Operator:      r.Operator,
			Entity:        r.Entity,
			Plan:          r.Plan,
			Type:          r.Type,
			Age:           r.Age,
			EventCode:     r.EventCode,
			Description:   r.Description,
			Specialty:     r.Specialty,
			Value:         r.Value.String(),
			Competency:    r.Competency.Format("2006-01-02"),
			ServiceDate:   r.ServiceDate.Format("2006-01-02"),
			TrailingSpend: r.TrailingSpend.String(),
		}
	}
	return PageResponse{
		Rows:       rows,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	}
}

// parseDate parses a YYYY-MM-DD parameter. Callers validate the value
// first, but a parse failure still surfaces rather than producing a zero
// date silently.
func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}
