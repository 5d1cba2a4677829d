// Package consent persists immutable proof-of-agreement records as JSON
// files. Records are never updated or deleted once written; the filename
// is a deterministic function of the record's identifying fields.
package consent

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/yulclaims/claim_service/internal/domain"
)

const timestampLayout = "2006-01-02_15-04-05"

var (
	emailSanitizer = regexp.MustCompile(`[^a-zA-Z0-9@.-]`)
	nameSanitizer  = regexp.MustCompile(`[^a-zA-Z0-9\s]`)
	spaceCollapser = regexp.MustCompile(`\s+`)
)

type Recorder struct {
	dir string
}

func NewRecorder(dir string) (*Recorder, error) {
	if strings.TrimSpace(dir) == "" {
		dir = "consent-records"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create consent records dir: %w", err)
	}
	return &Recorder{dir: dir}, nil
}

func sanitizeEmail(email string) string {
	return emailSanitizer.ReplaceAllString(email, "_")
}

func sanitizeName(name string) string {
	s := nameSanitizer.ReplaceAllString(name, "_")
	return spaceCollapser.ReplaceAllString(s, "_")
}

// Filename builds the deterministic record key:
// {type}_{name}_{email}_{claimIdOrNO_CLAIM}_{yyyy-MM-dd_HH-mm-ss}.json
func Filename(record domain.ConsentRecord, at time.Time) string {
	claimID := record.ClaimID
	if claimID == "" {
		claimID = "NO_CLAIM"
	}
	parts := []string{
		record.ConsentType,
		sanitizeName(record.UserName),
		sanitizeEmail(record.UserEmail),
		claimID,
		at.Format(timestampLayout),
	}
	return strings.Join(parts, "_") + ".json"
}

// Record writes one consent record and returns its filename. The stored
// snapshot carries a self-referential filename and a server-assigned
// recorded-at timestamp.
func (r *Recorder) Record(record domain.ConsentRecord) (string, error) {
	if !domain.IsValidConsentType(record.ConsentType) {
		return "", errors.New("invalid consent type")
	}
	if strings.TrimSpace(record.UserEmail) == "" || strings.TrimSpace(record.UserName) == "" {
		return "", errors.New("consent subject is required")
	}

	now := time.Now()
	filename := Filename(record, now)

	record.Filename = filename
	record.RecordedAt = now.UTC().Format(time.RFC3339)
	if record.Timestamp == "" {
		record.Timestamp = record.RecordedAt
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return "", err
	}

	path := filepath.Join(r.dir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write consent record: %w", err)
	}
	return filename, nil
}

// AuditTrail reconstructs a subject's consent history by scanning records
// matching the sanitized email, newest first.
func (r *Recorder) AuditTrail(email string) ([]domain.ConsentRecord, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, err
	}

	needle := sanitizeEmail(email)
	records := make([]domain.ConsentRecord, 0)
	for _, entry := range entries {
		if entry.IsDir() || !strings.Contains(entry.Name(), needle) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(r.dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		var record domain.ConsentRecord
		if err := json.Unmarshal(data, &record); err != nil {
			continue
		}
		records = append(records, record)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Timestamp > records[j].Timestamp
	})
	return records, nil
}

type ValidationResult struct {
	Valid   bool                   `json:"valid"`
	Missing []string               `json:"missing"`
	Records []domain.ConsentRecord `json:"records"`
}

// Validate reports which of the required consent types lack an agreed
// record for the subject. Used to gate claim submission on registration
// consent.
func (r *Recorder) Validate(email string, required []string) (ValidationResult, error) {
	records, err := r.AuditTrail(email)
	if err != nil {
		return ValidationResult{}, err
	}

	agreed := make(map[string]bool)
	for _, record := range records {
		if record.Agreed {
			agreed[record.ConsentType] = true
		}
	}

	missing := make([]string, 0)
	for _, t := range required {
		if !agreed[t] {
			missing = append(missing, t)
		}
	}

	return ValidationResult{
		Valid:   len(missing) == 0,
		Missing: missing,
		Records: records,
	}, nil
}

// Export returns all records in the optional [from, to] window, for
// compliance reporting.
func (r *Recorder) Export(from, to *time.Time) ([]domain.ConsentRecord, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, err
	}

	records := make([]domain.ConsentRecord, 0)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(r.dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		var record domain.ConsentRecord
		if err := json.Unmarshal(data, &record); err != nil {
			continue
		}
		ts, err := time.Parse(time.RFC3339, record.Timestamp)
		if err == nil {
			if from != nil && ts.Before(*from) {
				continue
			}
			if to != nil && ts.After(*to) {
				continue
			}
		}
		records = append(records, record)
	}
	return records, nil
}
