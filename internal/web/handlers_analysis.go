package web

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ledgerport/ledgerport/internal/finance"
	"github.com/ledgerport/ledgerport/internal/statement"
)

// handleListStatements returns every registered statement definition.
func (s *Server) handleListStatements(w http.ResponseWriter, r *http.Request) {
	type itemView struct {
		Key      string   `json:"key"`
		Label    string   `json:"label"`
		Required bool     `json:"required"`
		Aliases  []string `json:"aliases,omitempty"`
	}
	type defView struct {
		Key   string     `json:"key"`
		Label string     `json:"label"`
		Group string     `json:"group"`
		Items []itemView `json:"items"`
	}

	defs := statement.All()
	views := make([]defView, 0, len(defs))
	for _, def := range defs {
		dv := defView{Key: def.Key, Label: def.Label, Group: def.Group}
		for _, item := range def.Items {
			dv.Items = append(dv.Items, itemView{
				Key:      item.Key,
				Label:    item.Label,
				Required: item.Required,
				Aliases:  item.Aliases,
			})
		}
		views = append(views, dv)
	}

	writeJSON(w, map[string]any{"statements": views})
}

// handleStatementTemplate streams a header-only CSV for a registered
// definition, shaped for a later import.
func (s *Server) handleStatementTemplate(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	def, ok := statement.Get(key)
	if !ok {
		s.badRequest(w, r, "unknown statement definition: "+key)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", key+"_template.csv"))
	if err := statement.WriteTemplate(def, w); err != nil {
		s.respondError(w, r, err)
	}
}

type npvRequest struct {
	Rate  float64   `json:"rate"`
	Flows []float64 `json:"flows"`
}

// handleNPV computes net present value for a rate and flow sequence.
func (s *Server) handleNPV(w http.ResponseWriter, r *http.Request) {
	var req npvRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.badRequest(w, r, "invalid JSON body")
		return
	}

	writeJSON(w, map[string]float64{"npv": finance.NPV(req.Rate, req.Flows)})
}

type irrRequest struct {
	Flows []float64 `json:"flows"`
}

// handleIRR computes internal rate of return. A sequence the solver
// cannot converge on returns 422 with the convergence cause.
func (s *Server) handleIRR(w http.ResponseWriter, r *http.Request) {
	var req irrRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.badRequest(w, r, "invalid JSON body")
		return
	}

	rate, err := finance.IRR(req.Flows)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, map[string]float64{"irr": rate})
}

type analysisRequest struct {
	IncomeSheet  string `json:"income_sheet"`
	BalanceSheet string `json:"balance_sheet"`
}

// handleRatios computes the standard ratio grid from two stored sheets.
func (s *Server) handleRatios(w http.ResponseWriter, r *http.Request) {
	analyzer, ok := s.loadAnalyzer(w, r)
	if !ok {
		return
	}

	writeJSON(w, map[string]any{
		"periods": analyzer.Periods(),
		"ratios":  analyzer.Ratios(),
	})
}

// handleReport renders the markdown analysis report from two stored sheets.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	analyzer, ok := s.loadAnalyzer(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Write([]byte(analyzer.Report()))
}

// loadAnalyzer reads the analysis request body, loads the named sheets,
// and maps them onto the built-in statement definitions. Either sheet may
// be omitted; ratios on the missing side come out undefined. On failure
// it writes the error response and reports false.
func (s *Server) loadAnalyzer(w http.ResponseWriter, r *http.Request) (statement.Analyzer, bool) {
	var req analysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.badRequest(w, r, "invalid JSON body")
		return statement.Analyzer{}, false
	}
	if req.IncomeSheet == "" && req.BalanceSheet == "" {
		s.badRequest(w, r, "income_sheet or balance_sheet is required")
		return statement.Analyzer{}, false
	}

	var analyzer statement.Analyzer

	if req.IncomeSheet != "" {
		st, err := s.loadStatement(r, "income_statement", req.IncomeSheet)
		if err != nil {
			s.respondError(w, r, err)
			return statement.Analyzer{}, false
		}
		analyzer.Income = st
	}
	if req.BalanceSheet != "" {
		st, err := s.loadStatement(r, "balance_sheet", req.BalanceSheet)
		if err != nil {
			s.respondError(w, r, err)
			return statement.Analyzer{}, false
		}
		analyzer.Balance = st
	}

	return analyzer, true
}

// loadStatement fetches a stored sheet and maps it onto a registered
// definition. Empty rows are dropped before mapping.
func (s *Server) loadStatement(r *http.Request, defKey, sheetName string) (*statement.Statement, error) {
	def, ok := statement.Get(defKey)
	if !ok {
		return nil, fmt.Errorf("unknown statement definition %q", defKey)
	}

	sheet, err := s.service.Store().Sheet(r.Context(), sheetName)
	if err != nil {
		return nil, err
	}

	tbl := sheet.Table
	tbl.DropEmptyRows()
	return statement.FromTable(def, tbl)
}
