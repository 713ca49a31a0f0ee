package validation

import (
	"strings"
	"testing"
)

func TestNewReport(t *testing.T) {
	r := NewReport()
	if !r.Valid {
		t.Error("new report should be valid")
	}
	if len(r.Errors) != 0 || len(r.Warnings) != 0 || len(r.Info) != 0 {
		t.Error("new report should have empty slices")
	}
}

func TestAddError(t *testing.T) {
	r := NewReport()
	r.AddError(Result{
		Level:   LevelSchema,
		Message: "bad value",
	})
	if r.Valid {
		t.Error("report with error should be invalid")
	}
	if len(r.Errors) != 1 {
		t.Fatalf("expected 1 error, got %d", len(r.Errors))
	}
	if r.Errors[0].Severity != SeverityError {
		t.Error("AddError should set severity to error")
	}
	if r.Summary != "1 errors, 0 warnings, 0 info" {
		t.Errorf("unexpected summary: %s", r.Summary)
	}
}

func TestAddWarning(t *testing.T) {
	r := NewReport()
	r.AddWarning(Result{Level: LevelRoute, Message: "heads up"})
	if !r.Valid {
		t.Error("warnings should not invalidate report")
	}
	if len(r.Warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(r.Warnings))
	}
	if r.Warnings[0].Severity != SeverityWarning {
		t.Error("AddWarning should set severity to warning")
	}
}

func TestAddInfo(t *testing.T) {
	r := NewReport()
	r.AddInfo(Result{Level: LevelRoute, Message: "fyi"})
	if !r.Valid {
		t.Error("info should not invalidate report")
	}
	if len(r.Info) != 1 {
		t.Fatalf("expected 1 info, got %d", len(r.Info))
	}
}

func TestMerge(t *testing.T) {
	r1 := NewReport()
	r1.AddWarning(Result{Level: LevelSchema, Message: "warn1"})

	r2 := NewReport()
	r2.AddError(Result{Level: LevelRoute, Message: "err1"})
	r2.AddWarning(Result{Level: LevelRoute, Message: "warn2"})
	r2.AddInfo(Result{Level: LevelRoute, Message: "info1"})

	r1.Merge(r2)

	if r1.Valid {
		t.Error("merged report should be invalid when other has errors")
	}
	if len(r1.Errors) != 1 {
		t.Errorf("expected 1 error, got %d", len(r1.Errors))
	}
	if len(r1.Warnings) != 2 {
		t.Errorf("expected 2 warnings, got %d", len(r1.Warnings))
	}
	if len(r1.Info) != 1 {
		t.Errorf("expected 1 info, got %d", len(r1.Info))
	}
	if r1.Summary != "1 errors, 2 warnings, 1 info" {
		t.Errorf("unexpected summary: %s", r1.Summary)
	}
}

func TestMergeValidIntoValid(t *testing.T) {
	r1 := NewReport()
	r2 := NewReport()
	r2.AddInfo(Result{Level: LevelSchema, Message: "note"})

	r1.Merge(r2)

	if !r1.Valid {
		t.Error("merging two valid reports should stay valid")
	}
	if len(r1.Info) != 1 {
		t.Errorf("expected 1 info, got %d", len(r1.Info))
	}
}

func TestAddDispatchesOnSeverity(t *testing.T) {
	r := NewReport()
	r.Add(Result{Level: LevelSchema, Severity: SeverityWarning, Message: "w"})
	r.Add(Result{Level: LevelSchema, Message: "no severity"})
	if !r.Valid {
		t.Error("warnings and info should not invalidate report")
	}
	if len(r.Warnings) != 1 || len(r.Info) != 1 {
		t.Fatalf("got %d warnings, %d info; want 1, 1", len(r.Warnings), len(r.Info))
	}
	if r.Info[0].Severity != SeverityInfo {
		t.Errorf("unset severity filed as %q", r.Info[0].Severity)
	}

	r.Add(Result{Level: LevelRoute, Severity: SeverityError, Message: "e"})
	if r.Valid {
		t.Error("error result should invalidate report")
	}
}

func TestMergeNil(t *testing.T) {
	r := NewReport()
	r.Merge(nil)
	if !r.Valid || r.Summary != "0 errors, 0 warnings, 0 info" {
		t.Errorf("merge nil changed report: %+v", r)
	}
}

func TestAtLevel(t *testing.T) {
	r := NewReport()
	r.AddInfo(Result{Level: LevelRoute, Message: "route info"})
	r.AddError(Result{Level: LevelSchema, Message: "schema error"})
	r.AddError(Result{Level: LevelRoute, Message: "route error"})

	got := r.AtLevel(LevelRoute)
	if len(got) != 2 {
		t.Fatalf("expected 2 route findings, got %d", len(got))
	}
	if got[0].Message != "route error" {
		t.Errorf("errors should come first, got %q", got[0].Message)
	}
	if len(r.AtLevel(LevelSpatial)) != 0 {
		t.Error("expected no spatial findings")
	}
}

func TestErr(t *testing.T) {
	r := NewReport()
	if r.Err() != nil {
		t.Fatal("valid report should have nil Err")
	}
	r.AddError(Result{Level: LevelSchema, SpecPath: "map.width", Message: "must be positive"})
	err := r.Err()
	if err == nil {
		t.Fatal("invalid report should have an Err")
	}
	want := "[schema] map.width: must be positive"
	if !strings.Contains(err.Error(), want) {
		t.Errorf("Err() = %q, want it to contain %q", err, want)
	}
}
