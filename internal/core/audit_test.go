package core

import "testing"

func TestAuditLog_AppendAndList(t *testing.T) {
	l := NewAuditLog()
	l.Append(1, FamilyMissing, "strategy=mean", "filled 3 cells")
	l.Append(2, FamilyDuplicates, "keep=first", "removed 1 row")

	entries := l.List(0)
	if len(entries) != 2 {
		t.Fatalf("List(0) length = %d, want 2", len(entries))
	}
	if entries[0].VersionID != 1 || entries[1].VersionID != 2 {
		t.Error("entries should come back in append order")
	}
	if entries[0].CreatedAt.IsZero() {
		t.Error("CreatedAt should be set on append")
	}
}

func TestAuditLog_ListLimit(t *testing.T) {
	l := NewAuditLog()
	for i := 1; i <= 5; i++ {
		l.Append(i, FamilyScaling, "", "")
	}

	entries := l.List(2)
	if len(entries) != 2 {
		t.Fatalf("List(2) length = %d, want 2", len(entries))
	}
	if entries[0].VersionID != 4 || entries[1].VersionID != 5 {
		t.Errorf("limited list should hold the most recent entries, got %d, %d",
			entries[0].VersionID, entries[1].VersionID)
	}
}

func TestAuditLog_Severity(t *testing.T) {
	tests := []struct {
		family Family
		want   AuditSeverity
	}{
		{FamilyIngest, SeverityLow},
		{FamilyMissing, SeverityMedium},
		{FamilyEncoding, SeverityMedium},
		{FamilyScaling, SeverityMedium},
		{FamilyDuplicates, SeverityHigh},
		{FamilyOutliers, SeverityHigh},
		{FamilySampling, SeverityHigh},
		{FamilyConstant, SeverityHigh},
	}
	for _, tt := range tests {
		if got := determineSeverity(tt.family); got != tt.want {
			t.Errorf("determineSeverity(%s) = %s, want %s", tt.family, got, tt.want)
		}
	}
}

func TestAuditLog_Summary(t *testing.T) {
	l := NewAuditLog()
	l.Append(1, FamilyScaling, "", "")
	l.Append(2, FamilyScaling, "", "")
	l.Append(3, FamilyEncoding, "", "")

	sum := l.Summary()
	if sum[FamilyScaling] != 2 || sum[FamilyEncoding] != 1 {
		t.Errorf("Summary() = %v, want scaling:2 encoding:1", sum)
	}
}

func TestAuditLog_Reset(t *testing.T) {
	l := NewAuditLog()
	l.Append(1, FamilyScaling, "", "")
	l.Reset()
	if l.Len() != 0 {
		t.Errorf("Len() = %d after Reset(), want 0", l.Len())
	}
}
