// Package engine orchestrates a ranking run: fetch, normalize, aggregate,
// score, optionally refine, sort. It owns the soft-error policy that keeps
// callers from ever seeing a blank result for a valid user.
package engine

import (
	"context"
	"fmt"
	"os"
	"sync"

	"jobmatch/internal/errors"
	"jobmatch/internal/types"

	"gopkg.in/yaml.v3"
)

// ProfileStore supplies the raw per-user records consumed by the normalizer.
// Implementations may return partial data; only transport-level failures
// should surface as errors.
type ProfileStore interface {
	GetProfile(ctx context.Context, userID string) (*types.RawProfile, error)
	GetResumeSkills(ctx context.Context, userID string) ([]types.RawSkill, error)
	GetEducation(ctx context.Context, userID string) ([]types.RawEducation, error)
	GetWorkExperience(ctx context.Context, userID string) ([]types.RawExperience, error)
	GetCertificates(ctx context.Context, userID string) ([]types.RawItem, error)
	GetReferences(ctx context.Context, userID string) ([]types.RawItem, error)
}

// PostingStore supplies the candidate pool inputs.
type PostingStore interface {
	ListPostings(ctx context.Context) ([]types.RawPosting, error)
	ListTemplates(ctx context.Context) ([]types.RawTemplate, error)
}

// MemoryStore is an in-memory ProfileStore and PostingStore, seedable from a
// YAML file. It backs the serve and recommend commands when no external
// store integration is configured.
type MemoryStore struct {
	mu           sync.RWMutex
	profiles     map[string]*types.RawProfile
	skills       map[string][]types.RawSkill
	education    map[string][]types.RawEducation
	experience   map[string][]types.RawExperience
	certificates map[string][]types.RawItem
	references   map[string][]types.RawItem
	postings     []types.RawPosting
	templates    []types.RawTemplate
}

var (
	_ ProfileStore = (*MemoryStore)(nil)
	_ PostingStore = (*MemoryStore)(nil)
)

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		profiles:     make(map[string]*types.RawProfile),
		skills:       make(map[string][]types.RawSkill),
		education:    make(map[string][]types.RawEducation),
		experience:   make(map[string][]types.RawExperience),
		certificates: make(map[string][]types.RawItem),
		references:   make(map[string][]types.RawItem),
	}
}

// seedFile is the YAML shape accepted by LoadSeedFile.
type seedFile struct {
	Users    []seedUser    `yaml:"users"`
	Postings []seedPosting `yaml:"postings"`
	Template []seedPosting `yaml:"templates"`
}

type seedUser struct {
	UserID       string          `yaml:"userId"`
	Industry     string          `yaml:"industry"`
	City         string          `yaml:"city"`
	Province     string          `yaml:"province"`
	Country      string          `yaml:"country"`
	Location     string          `yaml:"location"`
	Skills       []string        `yaml:"skills"`
	Education    []seedEducation `yaml:"education"`
	Experience   []seedTitle     `yaml:"experience"`
	Certificates []string        `yaml:"certificates"`
	References   []string        `yaml:"references"`
}

type seedEducation struct {
	Degree string `yaml:"degree"`
	Field  string `yaml:"field"`
	School string `yaml:"school"`
}

type seedTitle struct {
	Title   string `yaml:"title"`
	Company string `yaml:"company"`
}

type seedPosting struct {
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

// LoadSeedFile replaces the store contents with the file's records.
func (s *MemoryStore) LoadSeedFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.NewDataError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Cannot read seed file: %s", path), err)
	}

	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return errors.NewDataError(errors.ErrCodeCatalogLoad,
			fmt.Sprintf("Cannot parse seed file: %s", path), err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.profiles = make(map[string]*types.RawProfile)
	s.skills = make(map[string][]types.RawSkill)
	s.education = make(map[string][]types.RawEducation)
	s.experience = make(map[string][]types.RawExperience)
	s.certificates = make(map[string][]types.RawItem)
	s.references = make(map[string][]types.RawItem)
	s.postings = nil
	s.templates = nil

	for _, u := range seed.Users {
		if u.UserID == "" {
			continue
		}
		s.profiles[u.UserID] = &types.RawProfile{
			UserID:   u.UserID,
			Industry: u.Industry,
			City:     u.City,
			Province: u.Province,
			Country:  u.Country,
			Location: u.Location,
			Skills:   u.Skills,
		}
		for _, sk := range u.Skills {
			s.skills[u.UserID] = append(s.skills[u.UserID], types.RawSkill{Name: sk})
		}
		for _, e := range u.Education {
			s.education[u.UserID] = append(s.education[u.UserID], types.RawEducation{
				Degree: e.Degree, Field: e.Field, School: e.School,
			})
		}
		for _, e := range u.Experience {
			s.experience[u.UserID] = append(s.experience[u.UserID], types.RawExperience{
				Title: e.Title, Company: e.Company,
			})
		}
		for _, c := range u.Certificates {
			s.certificates[u.UserID] = append(s.certificates[u.UserID], types.RawItem{Name: c})
		}
		for _, r := range u.References {
			s.references[u.UserID] = append(s.references[u.UserID], types.RawItem{Name: r})
		}
	}

	for _, p := range seed.Postings {
		s.postings = append(s.postings, types.RawPosting{
			ID: p.ID, Title: p.Title, Company: p.Company, Location: p.Location,
			Description: p.Description, Field: p.Field, Education: p.Education,
			Salary: p.Salary, Requirements: p.Requirements,
		})
	}
	for _, t := range seed.Template {
		s.templates = append(s.templates, types.RawTemplate{
			ID: t.ID, Title: t.Title, Company: t.Company, Location: t.Location,
			Description: t.Description, Field: t.Field, Education: t.Education,
			Salary: t.Salary, Requirements: t.Requirements,
		})
	}

	return nil
}

// PutProfile stores or replaces one user's profile record.
func (s *MemoryStore) PutProfile(p *types.RawProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.UserID] = p
}

// PutUserRecords replaces the resume records for one user.
func (s *MemoryStore) PutUserRecords(userID string, skills []types.RawSkill, education []types.RawEducation, experience []types.RawExperience, certificates, references []types.RawItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.skills[userID] = skills
	s.education[userID] = education
	s.experience[userID] = experience
	s.certificates[userID] = certificates
	s.references[userID] = references
}

// SetPostings replaces the posting list.
func (s *MemoryStore) SetPostings(postings []types.RawPosting) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.postings = postings
}

// SetTemplates replaces the template list.
func (s *MemoryStore) SetTemplates(templates []types.RawTemplate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.templates = templates
}

// Counts reports stored record totals for the stats endpoint.
func (s *MemoryStore) Counts() (users, postings, templates int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.profiles), len(s.postings), len(s.templates)
}

func (s *MemoryStore) GetProfile(ctx context.Context, userID string) (*types.RawProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[userID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (s *MemoryStore) GetResumeSkills(ctx context.Context, userID string) ([]types.RawSkill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]types.RawSkill(nil), s.skills[userID]...), nil
}

func (s *MemoryStore) GetEducation(ctx context.Context, userID string) ([]types.RawEducation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]types.RawEducation(nil), s.education[userID]...), nil
}

func (s *MemoryStore) GetWorkExperience(ctx context.Context, userID string) ([]types.RawExperience, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]types.RawExperience(nil), s.experience[userID]...), nil
}

func (s *MemoryStore) GetCertificates(ctx context.Context, userID string) ([]types.RawItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]types.RawItem(nil), s.certificates[userID]...), nil
}

func (s *MemoryStore) GetReferences(ctx context.Context, userID string) ([]types.RawItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]types.RawItem(nil), s.references[userID]...), nil
}

func (s *MemoryStore) ListPostings(ctx context.Context) ([]types.RawPosting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]types.RawPosting(nil), s.postings...), nil
}

func (s *MemoryStore) ListTemplates(ctx context.Context) ([]types.RawTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]types.RawTemplate(nil), s.templates...), nil
}
