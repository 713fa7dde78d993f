package server

import (
	"github.com/outsider987/Patlytics-hotfix/pkg/cycle"
	"github.com/outsider987/Patlytics-hotfix/pkg/graph"
)

type checkRequest struct {
	Graph *graph.Graph `json:"graph" validate:"required"`
	Start string       `json:"start" validate:"required,max=256"`
}

type traceRequest struct {
	Graph  *graph.Graph `json:"graph" validate:"required"`
	Start  string       `json:"start" validate:"required,max=256"`
	Policy string       `json:"policy" validate:"omitempty,oneof=stop skip"`
	Locale string       `json:"locale" validate:"omitempty,max=35"`
}

type renderRequest struct {
	Graph     *graph.Graph `json:"graph" validate:"required"`
	Start     string       `json:"start" validate:"required,max=256"`
	Format    string       `json:"format" validate:"omitempty,oneof=dot svg"`
	Eliminate bool         `json:"eliminate"`
}

// traceSummary is returned when a trace is created. The steps themselves are
// fetched through the trace routes.
type traceSummary struct {
	ID           string       `json:"id"`
	Start        string       `json:"start"`
	Policy       cycle.Policy `json:"policy"`
	Locale       string       `json:"locale"`
	Result       cycle.Result `json:"result"`
	Steps        int          `json:"steps"`
	SkippedEdges []graph.Edge `json:"skippedEdges,omitempty"`
}

func summarize(tr cycle.Trace) traceSummary {
	return traceSummary{
		ID:           tr.ID,
		Start:        tr.Start,
		Policy:       tr.Policy,
		Locale:       tr.Locale,
		Result:       tr.Result,
		Steps:        tr.Len(),
		SkippedEdges: tr.SkippedEdges,
	}
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
