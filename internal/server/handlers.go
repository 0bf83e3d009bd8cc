package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aristath/tnuos/internal/domain"
	"github.com/aristath/tnuos/internal/modules/costing"
	"github.com/aristath/tnuos/internal/modules/forecast"
	"github.com/aristath/tnuos/internal/modules/opportunities"
	"github.com/aristath/tnuos/internal/modules/portfolio"
	"github.com/aristath/tnuos/internal/modules/scenarios"
	"github.com/aristath/tnuos/internal/zones"
)

// quickQuoteSiteID names a quote request that arrives without a site id.
const quickQuoteSiteID = "Quick_Quote_Site"

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":  "healthy",
		"version": "1.0.0",
		"service": "tnuos",
	}

	s.writeJSON(w, http.StatusOK, response)
}

// portfolioRequest is the common body for portfolio-level endpoints. A
// zero year selects the configured default charging year.
type portfolioRequest struct {
	Sites domain.Portfolio `json:"sites"`
	Year  int              `json:"year"`
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes a JSON error envelope
func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

// year substitutes the configured default charging year for a zero value.
func (s *Server) year(v int) int {
	if v == 0 {
		return s.cfg.DefaultYear
	}
	return v
}

// handleCompute costs every posted site for one charging year.
func (s *Server) handleCompute(w http.ResponseWriter, r *http.Request) {
	var req portfolioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	year := s.year(req.Year)
	costed := s.calc.Compute(req.Sites, year)

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"year":             year,
		"label":            forecast.FYLabel(year),
		"site_count":       len(costed),
		"sites":            costed,
		"locational_total": costing.Round2(costing.LocationalTotal(costed)),
		"residual_total":   costing.Round2(costing.ResidualTotal(costed)),
		"total_cost":       costing.Round2(costing.Total(costed)),
	})
}

// handleOpportunities lists band-drop opportunities across the posted
// sites.
func (s *Server) handleOpportunities(w http.ResponseWriter, r *http.Request) {
	var req portfolioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	year := s.year(req.Year)
	opps := s.analyzer.Find(req.Sites, year)

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"year":          year,
		"count":         len(opps),
		"opportunities": opps,
	})
}

// handleTrend projects portfolio cost across a run of charging years.
func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Sites    domain.Portfolio `json:"sites"`
		FromYear int              `json:"from_year"`
		ToYear   int              `json:"to_year"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.FromYear == 0 {
		req.FromYear = s.cfg.BaselineYear
	}
	if req.ToYear == 0 {
		req.ToYear = s.cfg.HorizonYear
	}
	points := s.forecaster.Trend(req.Sites, req.FromYear, req.ToYear)

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"site_count": len(req.Sites),
		"points":     points,
	})
}

// handleRisk compares the posted portfolio between two charging years.
func (s *Server) handleRisk(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Sites        domain.Portfolio `json:"sites"`
		BaselineYear int              `json:"baseline_year"`
		ForecastYear int              `json:"forecast_year"`
		Contract     string           `json:"contract"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.BaselineYear == 0 {
		req.BaselineYear = s.cfg.BaselineYear
	}
	report := s.forecaster.Risk(req.Sites, req.BaselineYear, req.ForecastYear, forecast.ContractType(req.Contract))
	s.writeJSON(w, http.StatusOK, report)
}

// handleMap aggregates costed sites into per-zone exposure rows for the
// map view.
func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	var req portfolioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	year := s.year(req.Year)
	costed := s.calc.Compute(req.Sites, year)

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"year":  year,
		"label": forecast.FYLabel(year),
		"zones": zones.AggregateExposure(costed),
	})
}

// handleSample returns the built-in demo portfolio.
func (s *Server) handleSample(w http.ResponseWriter, r *http.Request) {
	sample := portfolio.Sample()
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"site_count": len(sample),
		"sites":      sample,
	})
}

// handleUpload parses an uploaded portfolio CSV and returns the sites it
// contains. Rows with unusable cells degrade rather than fail, matching
// the CSV loader's behaviour.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "missing file upload")
		return
	}
	defer file.Close()

	sites, err := s.loader.FromCSV(file)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"site_count": len(sites),
		"sites":      sites,
	})
}

// handleTemplate serves the sample portfolio as a downloadable CSV
// template.
func (s *Server) handleTemplate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="portfolio_template.csv"`)
	if err := portfolio.ToCSV(w, portfolio.Sample()); err != nil {
		s.log.Error().Err(err).Msg("Failed to write portfolio template")
	}
}

// handleScenarioCapacity runs a capacity cut over the posted portfolio.
func (s *Server) handleScenarioCapacity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Sites        domain.Portfolio `json:"sites"`
		Year         int              `json:"year"`
		ReductionPct float64          `json:"reduction_pct"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session := scenarios.NewSession(req.Sites, s.year(req.Year), s.calc, s.log)
	costed := session.CapacityOptimization(req.ReductionPct / 100)

	baselineTotal := costing.Round2(costing.Total(s.calc.Compute(session.Baseline(), session.Year())))
	scenarioTotal := costing.Round2(costing.Total(costed))

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"scenario_id":    session.ID(),
		"year":           session.Year(),
		"reduction_pct":  req.ReductionPct,
		"baseline_total": baselineTotal,
		"scenario_total": scenarioTotal,
		"saving":         costing.Round2(baselineTotal - scenarioTotal),
		"sites":          costed,
	})
}

// handleScenarioFlexibility prices demand-flexibility savings for the
// posted portfolio.
func (s *Server) handleScenarioFlexibility(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Sites      domain.Portfolio `json:"sites"`
		Year       int              `json:"year"`
		FlexFactor float64          `json:"flex_factor"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session := scenarios.NewSession(req.Sites, s.year(req.Year), s.calc, s.log)
	saving := session.DemandFlexibility(req.FlexFactor)

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"scenario_id":   session.ID(),
		"year":          session.Year(),
		"flex_factor":   req.FlexFactor,
		"annual_saving": costing.Round2(saving),
	})
}

// handleScenarioSensitivity scales the posted portfolio's metrics and
// reports the cost and band impact.
func (s *Server) handleScenarioSensitivity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Sites     domain.Portfolio `json:"sites"`
		Year      int              `json:"year"`
		AdjustPct float64          `json:"adjust_pct"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session := scenarios.NewSession(req.Sites, s.year(req.Year), s.calc, s.log)
	result := session.Sensitivity(req.AdjustPct)

	s.writeJSON(w, http.StatusOK, struct {
		ScenarioID string `json:"scenario_id"`
		Year       int    `json:"year"`
		scenarios.SensitivityResult
	}{
		ScenarioID:        session.ID(),
		Year:              session.Year(),
		SensitivityResult: result,
	})
}

// handleQuote produces a single-site quick quote: the costed figures for
// one charging year, the cost trend across the published window, and the
// band-drop opportunity with its value if one exists.
func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Site domain.Site `json:"site"`
		Year int         `json:"year"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Site.SiteID == "" {
		req.Site.SiteID = quickQuoteSiteID
	}
	year := s.year(req.Year)
	costed := s.calc.CostSite(req.Site, year)

	resp := map[string]interface{}{
		"year":  year,
		"label": forecast.FYLabel(year),
		"site":  costed,
		"trend": s.forecaster.Trend(domain.Portfolio{req.Site}, s.cfg.BaselineYear, s.cfg.HorizonYear),
	}

	if opp, ok := opportunities.Check(req.Site, costed.TCRBand); ok {
		target := req.Site
		switch opp.Metric {
		case domain.MetricCapacity:
			target.AgreedCapacityKVA = opp.TargetValue
		case domain.MetricConsumption:
			target.AnnualConsumptionKWH = opp.TargetValue
		}
		targetCosted := s.calc.CostSite(target, year)

		resp["opportunity"] = opp
		resp["target_cost"] = targetCosted
		resp["annual_saving"] = costing.Round2(costed.TotalCost - targetCosted.TotalCost)
	}

	s.writeJSON(w, http.StatusOK, resp)
}

// handleReportPDF renders the executive risk assessment PDF.
func (s *Server) handleReportPDF(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Sites        domain.Portfolio `json:"sites"`
		BaselineYear int              `json:"baseline_year"`
		ForecastYear int              `json:"forecast_year"`
		Contract     string           `json:"contract"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.BaselineYear == 0 {
		req.BaselineYear = s.cfg.BaselineYear
	}
	data, err := s.reports.RiskPDF(req.Sites, req.BaselineYear, req.ForecastYear, forecast.ContractType(req.Contract))
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to render risk PDF")
		s.writeError(w, http.StatusInternalServerError, "failed to render report")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="tnuos_risk_report.pdf"`)
	if _, err := w.Write(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to write PDF response")
	}
}

// handleReportXLSX renders the portfolio analysis workbook.
func (s *Server) handleReportXLSX(w http.ResponseWriter, r *http.Request) {
	var req portfolioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	year := s.year(req.Year)
	data, err := s.reports.PortfolioXLSX(req.Sites, year)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to render portfolio workbook")
		s.writeError(w, http.StatusInternalServerError, "failed to render report")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="tnuos_portfolio_%d.xlsx"`, year))
	if _, err := w.Write(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to write workbook response")
	}
}
