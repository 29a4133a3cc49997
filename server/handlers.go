package server

import (
	"encoding/json"
	"net/http"

	"cmacbench/core/stats"
	"cmacbench/logger"
	"cmacbench/model"
	"cmacbench/repository"

	"github.com/gorilla/mux"
)

// APIHandler serves the read-only reporting API over the dataset
// inventory.
type APIHandler struct {
	samples repository.SampleRepository
	reports repository.QCReportRepository
	splits  repository.SplitRepository
	runs    repository.RunRepository
}

// NewAPIHandler creates a new API handler.
func NewAPIHandler(
	samples repository.SampleRepository,
	reports repository.QCReportRepository,
	splits repository.SplitRepository,
	runs repository.RunRepository,
) *APIHandler {
	return &APIHandler{
		samples: samples,
		reports: reports,
		splits:  splits,
		runs:    runs,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", logger.ErrorField(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// HealthzHandler reports liveness.
func (h *APIHandler) HealthzHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// groupInfo is one row of the groups listing.
type groupInfo struct {
	Group      string   `json:"group"`
	Units      []string `json:"units"`
	Restricted bool     `json:"restricted"`
	NumSamples int      `json:"numSamples"`
}

// GetGroupsHandler lists every biosound group with its units and
// inventory sample count.
func (h *APIHandler) GetGroupsHandler(w http.ResponseWriter, r *http.Request) {
	counts, err := h.samples.CountByGroup()
	if err != nil {
		logger.Error("Failed to count samples", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "failed to count samples")
		return
	}

	infos := make([]groupInfo, 0, len(model.AllGroups))
	for _, g := range model.AllGroups {
		units := make([]string, 0, len(g.Units()))
		for _, u := range g.Units() {
			units = append(units, string(u))
		}
		infos = append(infos, groupInfo{
			Group:      string(g),
			Units:      units,
			Restricted: g.Restricted(),
			NumSamples: counts[string(g)],
		})
	}
	writeJSON(w, http.StatusOK, infos)
}

func groupFromRequest(w http.ResponseWriter, r *http.Request) (model.BiosoundGroup, bool) {
	g, err := model.ParseGroup(mux.Vars(r)["group"])
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return "", false
	}
	return g, true
}

// GetGroupSamplesHandler lists the inventory samples of one group.
func (h *APIHandler) GetGroupSamplesHandler(w http.ResponseWriter, r *http.Request) {
	g, ok := groupFromRequest(w, r)
	if !ok {
		return
	}
	samples, err := h.samples.GetSamplesByGroup(string(g))
	if err != nil {
		logger.Error("Failed to list samples", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "failed to list samples")
		return
	}
	if samples == nil {
		samples = []*model.Sample{}
	}
	writeJSON(w, http.StatusOK, samples)
}

// GetGroupStatsHandler returns the duration summary of one group.
func (h *APIHandler) GetGroupStatsHandler(w http.ResponseWriter, r *http.Request) {
	g, ok := groupFromRequest(w, r)
	if !ok {
		return
	}
	summary, err := stats.Summarize(h.samples, string(g))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// GetQCReportsHandler lists the quarantine reports of one group.
func (h *APIHandler) GetQCReportsHandler(w http.ResponseWriter, r *http.Request) {
	g, ok := groupFromRequest(w, r)
	if !ok {
		return
	}
	reports, err := h.reports.GetReportsByGroup(string(g))
	if err != nil {
		logger.Error("Failed to list qc reports", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "failed to list qc reports")
		return
	}
	if reports == nil {
		reports = []*model.QCReport{}
	}
	writeJSON(w, http.StatusOK, reports)
}

// GetSplitsHandler lists the split assignment of one (group, unit).
func (h *APIHandler) GetSplitsHandler(w http.ResponseWriter, r *http.Request) {
	g, ok := groupFromRequest(w, r)
	if !ok {
		return
	}
	unit := mux.Vars(r)["unit"]
	entries, err := h.splits.GetEntries(string(g), unit)
	if err != nil {
		logger.Error("Failed to list split entries", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "failed to list split entries")
		return
	}
	if entries == nil {
		entries = []*model.SplitEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// GetRunsHandler lists the most recent prep runs.
func (h *APIHandler) GetRunsHandler(w http.ResponseWriter, r *http.Request) {
	runs, err := h.runs.LatestRuns(20)
	if err != nil {
		logger.Error("Failed to list prep runs", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "failed to list prep runs")
		return
	}
	writeJSON(w, http.StatusOK, runs)
}
