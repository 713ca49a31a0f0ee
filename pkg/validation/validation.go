package validation

import (
	"errors"
	"fmt"
	"strings"
)

// Level names the stage that produced a finding.
type Level string

const (
	// LevelSchema findings come from field-by-field checks of scene.yaml.
	LevelSchema Level = "schema"
	// LevelRoute findings come from routing the configured trip on the
	// generated grid.
	LevelRoute Level = "route"
	// LevelSpatial findings come from the assembled scene graph.
	LevelSpatial Level = "spatial"
)

// Severity indicates how critical a validation result is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Result is a single validation finding. SpecPath is the dotted path of the
// offending field in scene.yaml or in the scene graph.
type Result struct {
	Level        Level    `json:"level"`
	Severity     Severity `json:"severity"`
	Message      string   `json:"message"`
	SpecPath     string   `json:"spec_path"`
	ActualValue  any      `json:"actual_value,omitempty"`
	Expected     string   `json:"expected,omitempty"`
	ConflictWith string   `json:"conflict_with,omitempty"`
	Suggestions  []string `json:"suggestions,omitempty"`
}

func (r Result) String() string {
	if r.SpecPath == "" {
		return fmt.Sprintf("[%s] %s", r.Level, r.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", r.Level, r.SpecPath, r.Message)
}

// Report collects findings by severity. Any error makes it invalid.
type Report struct {
	Valid    bool     `json:"valid"`
	Errors   []Result `json:"errors"`
	Warnings []Result `json:"warnings"`
	Info     []Result `json:"info"`
	Summary  string   `json:"summary"`
}

// NewReport creates an empty valid report.
func NewReport() *Report {
	r := &Report{
		Valid:    true,
		Errors:   []Result{},
		Warnings: []Result{},
		Info:     []Result{},
	}
	r.summarize()
	return r
}

// Add files a result under its Severity. An unset severity counts as info.
func (r *Report) Add(res Result) {
	switch res.Severity {
	case SeverityError:
		r.Errors = append(r.Errors, res)
		r.Valid = false
	case SeverityWarning:
		r.Warnings = append(r.Warnings, res)
	default:
		res.Severity = SeverityInfo
		r.Info = append(r.Info, res)
	}
	r.summarize()
}

// AddError adds an error result and marks the report invalid.
func (r *Report) AddError(res Result) {
	res.Severity = SeverityError
	r.Add(res)
}

// AddWarning adds a warning result.
func (r *Report) AddWarning(res Result) {
	res.Severity = SeverityWarning
	r.Add(res)
}

// AddInfo adds an informational result.
func (r *Report) AddInfo(res Result) {
	res.Severity = SeverityInfo
	r.Add(res)
}

// Merge appends all findings of other.
func (r *Report) Merge(other *Report) {
	if other == nil {
		return
	}
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
	r.Info = append(r.Info, other.Info...)
	r.Valid = r.Valid && other.Valid
	r.summarize()
}

// AtLevel returns every finding produced by stage l, errors first.
func (r *Report) AtLevel(l Level) []Result {
	var out []Result
	for _, group := range [][]Result{r.Errors, r.Warnings, r.Info} {
		for _, res := range group {
			if res.Level == l {
				out = append(out, res)
			}
		}
	}
	return out
}

// Err returns nil for a valid report, otherwise one error joining every
// error finding.
func (r *Report) Err() error {
	if r.Valid {
		return nil
	}
	errs := make([]error, len(r.Errors))
	for i, res := range r.Errors {
		errs[i] = errors.New(res.String())
	}
	return fmt.Errorf("invalid scene (%s): %w", r.Summary, errors.Join(errs...))
}

func (r *Report) summarize() {
	parts := []string{
		fmt.Sprintf("%d errors", len(r.Errors)),
		fmt.Sprintf("%d warnings", len(r.Warnings)),
		fmt.Sprintf("%d info", len(r.Info)),
	}
	r.Summary = strings.Join(parts, ", ")
}
