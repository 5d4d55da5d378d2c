package catalog

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"jobmatch/internal/errors"
	"jobmatch/internal/types"
)

// Fallback serves the curated example postings shown to seekers when the
// candidate pool is empty or upstream data is unavailable. The built-in set
// can be overridden by a YAML file, optionally reloaded on change.
type Fallback struct {
	mu      sync.RWMutex
	entries map[Category][]types.Candidate
	logger  *errors.Logger
	watcher *fileWatcher
}

// fallbackEntry is the YAML shape of one curated posting.
type fallbackEntry struct {
	ID           string `yaml:"id"`
	Title        string `yaml:"title"`
	Company      string `yaml:"company"`
	Location     string `yaml:"location"`
	Description  string `yaml:"description"`
	Field        string `yaml:"field"`
	Education    string `yaml:"education"`
	Salary       string `yaml:"salary"`
	Requirements string `yaml:"requirements"`
}

// NewFallback creates a fallback catalog. A non-empty file path overrides the
// built-in postings; with watch enabled the file is reloaded on change.
func NewFallback(file string, watch bool, logger *errors.Logger) (*Fallback, error) {
	f := &Fallback{
		entries: builtinFallback(),
		logger:  logger,
	}

	if file != "" {
		if err := f.loadFile(file); err != nil {
			return nil, errors.NewConfigError(errors.ErrCodeCatalogLoad,
				"Failed to load fallback catalog file", err).WithContext("file", file)
		}
		if watch {
			watcher, err := newFileWatcher(file, func() {
				if err := f.loadFile(file); err != nil && logger != nil {
					logger.LogError(err, "Fallback catalog reload failed", "file", file)
				} else if logger != nil {
					logger.Info("Fallback catalog reloaded", "file", file)
				}
			}, logger)
			if err != nil {
				return nil, err
			}
			f.watcher = watcher
		}
	}

	return f, nil
}

// Candidates returns the curated postings for a profile, keyed by the same
// category classifier the field detector uses. Healthcare profiles get the
// healthcare set; everything else gets the general mixed set. Every entry
// carries the fallback source marker so the presentation layer can flag it
// as non-live data.
func (f *Fallback) Candidates(p types.NormalizedProfile) []types.Candidate {
	f.mu.RLock()
	defer f.mu.RUnlock()

	key := CategoryNone
	if ClassifyProfile(p) == CategoryHealthcare {
		key = CategoryHealthcare
	}

	src := f.entries[key]
	out := make([]types.Candidate, len(src))
	copy(out, src)
	return out
}

// Close stops the file watcher if one is running.
func (f *Fallback) Close() {
	if f.watcher != nil {
		f.watcher.stop()
	}
}

func (f *Fallback) loadFile(file string) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("read %s: %w", file, err)
	}

	var raw map[string][]fallbackEntry
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse %s: %w", file, err)
	}

	entries := make(map[Category][]types.Candidate, len(raw))
	for key, list := range raw {
		cat := Category(key)
		if key == "general" {
			cat = CategoryNone
		}
		for _, e := range list {
			entries[cat] = append(entries[cat], types.Candidate{
				ID:           "fallback:" + e.ID,
				Title:        e.Title,
				Company:      e.Company,
				Location:     e.Location,
				Description:  e.Description,
				Field:        e.Field,
				Education:    e.Education,
				Salary:       e.Salary,
				Requirements: e.Requirements,
				Source:       types.SourceFallback,
			})
		}
	}

	f.mu.Lock()
	f.entries = entries
	f.mu.Unlock()
	return nil
}

// builtinFallback returns the hand-curated default postings. Kept small and
// realistic; the presentation layer flags them as examples, not live jobs.
func builtinFallback() map[Category][]types.Candidate {
	mk := func(id, title, company, location, description, field, education, salary string) types.Candidate {
		return types.Candidate{
			ID:          "fallback:" + id,
			Title:       title,
			Company:     company,
			Location:    location,
			Description: description,
			Field:       field,
			Education:   education,
			Salary:      salary,
			Source:      types.SourceFallback,
		}
	}

	return map[Category][]types.Candidate{
		CategoryHealthcare: {
			mk("hc-1", "Registered Nurse", "St. Luke's Medical Center", "Quezon City, Philippines",
				"Provide direct patient care in a tertiary hospital setting. Coordinate with physicians on treatment plans and maintain accurate patient records.",
				"Healthcare", "Bachelor of Science in Nursing", "PHP 28,000 - 35,000"),
			mk("hc-2", "Medical Technologist", "Hi-Precision Diagnostics", "Makati, Philippines",
				"Perform laboratory tests and analyses to support patient diagnosis. Operate and maintain laboratory equipment.",
				"Healthcare", "BS Medical Technology", "PHP 25,000 - 32,000"),
			mk("hc-3", "Caregiver", "Golden Years Home Care", "Remote",
				"Assist elderly clients with daily living activities and medication schedules. Remote coordination with on-site staff.",
				"Healthcare", "Caregiving NC II", "PHP 20,000 - 26,000"),
		},
		CategoryNone: {
			mk("gen-1", "Customer Service Representative", "Concentrix", "Quezon City, Philippines",
				"Handle customer inquiries across voice and chat channels. Resolve account issues and document interactions.",
				"Business Process Outsourcing", "Any degree", "PHP 22,000 - 28,000"),
			mk("gen-2", "Administrative Assistant", "SM Investments", "Pasay, Philippines",
				"Support day-to-day office operations. Manage schedules, correspondence, and records.",
				"Administration", "Any business-related degree", "PHP 18,000 - 24,000"),
			mk("gen-3", "Junior Software Developer", "Accenture", "Taguig, Philippines",
				"Build and maintain web applications with a mentoring team. Participate in code reviews and agile ceremonies.",
				"Information Technology", "BS Computer Science or related", "PHP 30,000 - 40,000"),
			mk("gen-4", "Sales Associate", "Uniqlo Philippines", "Mandaluyong, Philippines",
				"Assist customers on the sales floor and manage merchandise displays.",
				"Retail", "High school diploma", "PHP 16,000 - 20,000"),
		},
	}
}
