package batch

import "testing"

func TestReport_Counts(t *testing.T) {
	var report Report
	report.Add(NewOK("g1"))
	report.Add(NewSkipped("g2", "embed failed"))
	report.Add(NewOK("g3"))

	if got := report.Succeeded(); got != 2 {
		t.Errorf("Succeeded() = %d, want 2", got)
	}
	if got := report.Skipped(); got != 1 {
		t.Errorf("Skipped() = %d, want 1", got)
	}
	if got := len(report.Items()); got != 3 {
		t.Errorf("len(Items()) = %d, want 3", got)
	}
}

func TestReport_SkippedItems(t *testing.T) {
	var report Report
	report.Add(NewOK("g1"))
	report.Add(NewSkipped("g2", "upsert failed"))

	skipped := report.SkippedItems()
	if len(skipped) != 1 {
		t.Fatalf("expected 1 skipped item, got %d", len(skipped))
	}
	if skipped[0].ID() != "g2" {
		t.Errorf("expected id g2, got %s", skipped[0].ID())
	}
	if skipped[0].Reason() != "upsert failed" {
		t.Errorf("unexpected reason %q", skipped[0].Reason())
	}
	if skipped[0].Status() != StatusSkipped {
		t.Errorf("unexpected status %q", skipped[0].Status())
	}
}

func TestReport_Empty(t *testing.T) {
	var report Report
	if report.Succeeded() != 0 || report.Skipped() != 0 {
		t.Error("empty report must count zero")
	}
	if report.SkippedItems() != nil {
		t.Error("empty report must have no skipped items")
	}
}
