package consent

import (
	"strings"
	"testing"
	"time"

	"github.com/yulclaims/claim_service/internal/domain"
)

func newTestRecorder(t *testing.T) *Recorder {
	t.Helper()
	r, err := NewRecorder(t.TempDir())
	if err != nil {
		t.Fatalf("NewRecorder: %v", err)
	}
	return r
}

func TestFilename_Deterministic(t *testing.T) {
	at := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	record := domain.ConsentRecord{
		ConsentType: domain.ConsentTerms,
		UserEmail:   "jane.doe@example.com",
		UserName:    "Jane Doe",
		ClaimID:     "YUL-abc123-deadbeef",
	}

	got := Filename(record, at)
	want := "terms_Jane_Doe_jane.doe@example.com_YUL-abc123-deadbeef_2026-03-14_09-26-53.json"
	if got != want {
		t.Errorf("Filename = %q, want %q", got, want)
	}

	if again := Filename(record, at); again != got {
		t.Errorf("not deterministic: %q vs %q", again, got)
	}
}

func TestFilename_NoClaimPlaceholder(t *testing.T) {
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	record := domain.ConsentRecord{
		ConsentType: domain.ConsentPrivacy,
		UserEmail:   "a@b.com",
		UserName:    "A B",
	}
	got := Filename(record, at)
	if !strings.Contains(got, "_NO_CLAIM_") {
		t.Errorf("expected NO_CLAIM placeholder in %q", got)
	}
}

func TestFilename_DistinctClaimsSameSecond(t *testing.T) {
	at := time.Date(2026, 5, 2, 12, 0, 0, 0, time.UTC)
	base := domain.ConsentRecord{
		ConsentType: domain.ConsentPOA,
		UserEmail:   "same@subject.com",
		UserName:    "Same Subject",
	}

	a := base
	a.ClaimID = "YUL-one-11111111"
	b := base
	b.ClaimID = "YUL-two-22222222"

	if Filename(a, at) == Filename(b, at) {
		t.Fatal("records for different claims in the same second must not collide")
	}
}

func TestFilename_SanitizesSubject(t *testing.T) {
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	record := domain.ConsentRecord{
		ConsentType: domain.ConsentTerms,
		UserEmail:   "we+ird!@example.com",
		UserName:    "Émile O'Brien",
	}
	got := Filename(record, at)
	for _, bad := range []string{"+", "!", "'"} {
		if strings.Contains(got, bad) {
			t.Errorf("unsanitized %q in filename %q", bad, got)
		}
	}
}

func TestRecord_WritesSnapshotAndValidates(t *testing.T) {
	r := newTestRecorder(t)

	for _, consentType := range domain.RegistrationConsents {
		_, err := r.Record(domain.ConsentRecord{
			ConsentType:     consentType,
			UserEmail:       "pass@enger.com",
			UserName:        "Pass Enger",
			DocumentVersion: "1.0",
			Agreed:          true,
		})
		if err != nil {
			t.Fatalf("Record(%s): %v", consentType, err)
		}
	}

	result, err := r.Validate("pass@enger.com", domain.RegistrationConsents)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !result.Valid {
		t.Errorf("expected valid, missing = %v", result.Missing)
	}
	if len(result.Records) != 3 {
		t.Errorf("records = %d, want 3", len(result.Records))
	}
}

func TestValidate_ReportsMissing(t *testing.T) {
	r := newTestRecorder(t)

	_, err := r.Record(domain.ConsentRecord{
		ConsentType:     domain.ConsentTerms,
		UserEmail:       "partial@user.com",
		UserName:        "Partial User",
		DocumentVersion: "1.0",
		Agreed:          true,
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}

	// A declined record must not count as agreement.
	_, err = r.Record(domain.ConsentRecord{
		ConsentType:     domain.ConsentPrivacy,
		UserEmail:       "partial@user.com",
		UserName:        "Partial User",
		DocumentVersion: "1.0",
		Agreed:          false,
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}

	result, err := r.Validate("partial@user.com", domain.RegistrationConsents)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if result.Valid {
		t.Fatal("expected invalid")
	}
	missing := strings.Join(result.Missing, ",")
	if !strings.Contains(missing, domain.ConsentPrivacy) || !strings.Contains(missing, domain.ConsentDataRetention) {
		t.Errorf("missing = %v", result.Missing)
	}
}

func TestValidate_SubjectsDoNotLeak(t *testing.T) {
	r := newTestRecorder(t)

	_, err := r.Record(domain.ConsentRecord{
		ConsentType:     domain.ConsentTerms,
		UserEmail:       "alpha@example.com",
		UserName:        "Alpha",
		DocumentVersion: "1.0",
		Agreed:          true,
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}

	result, err := r.Validate("beta@example.com", []string{domain.ConsentTerms})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if result.Valid {
		t.Fatal("beta must not inherit alpha's consent")
	}
}

func TestRecord_RejectsInvalidType(t *testing.T) {
	r := newTestRecorder(t)
	_, err := r.Record(domain.ConsentRecord{
		ConsentType: "handshake",
		UserEmail:   "a@b.com",
		UserName:    "A",
	})
	if err == nil {
		t.Fatal("expected error for invalid consent type")
	}
}
