package emit

import (
	_ "embed"
	"encoding/json"
	"html/template"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/packster/packster"
	"github.com/packster/packster/internal/osinfo"
	"github.com/packster/packster/mapper"
)

// Report is the serializable record of one migration run.
type Report struct {
	ID          uuid.UUID                `json:"id"`
	GeneratedAt time.Time                `json:"generated_at"`
	Host        HostInfo                 `json:"host"`
	Summary     mapper.Statistics        `json:"summary"`
	Results     []packster.MappingResult `json:"results"`
}

// HostInfo is the subset of host detection worth recording.
type HostInfo struct {
	OS      string `json:"os"`
	Version string `json:"version,omitempty"`
	Arch    string `json:"arch"`
	WSL     bool   `json:"wsl,omitempty"`
}

// NewReport assembles a report with a fresh run ID.
func NewReport(results []packster.MappingResult, host osinfo.Host) *Report {
	return &Report{
		ID:          uuid.New(),
		GeneratedAt: time.Now().UTC(),
		Host: HostInfo{
			OS:      host.Name,
			Version: host.VersionID,
			Arch:    host.Arch,
			WSL:     host.WSL,
		},
		Summary: mapper.ComputeStatistics(results),
		Results: results,
	}
}

// WriteJSON writes the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

//go:embed templates/report.html.tmpl
var reportTmpl string

var reportHTML = template.Must(template.New("report").Funcs(template.FuncMap{
	"band": func(c float64) string {
		switch {
		case c >= 0.8:
			return "high"
		case c >= 0.5:
			return "medium"
		}
		return "low"
	},
	"count": func(s mapper.Statistics, d string) int {
		return s.ByDecision[packster.Decision(d)]
	},
	"pct": func(n, total int) float64 {
		if total == 0 {
			return 0
		}
		return float64(n) / float64(total) * 100
	},
}).Parse(reportTmpl))

// WriteHTML renders the human-readable report.
func (r *Report) WriteHTML(w io.Writer) error {
	return reportHTML.Execute(w, r)
}
