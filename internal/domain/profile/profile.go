package profile

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrProfileNotFound = errors.New("profile not found")

type SocialPlatform string

const (
	YouTube   SocialPlatform = "youtube"
	Twitter   SocialPlatform = "twitter"
	Facebook  SocialPlatform = "facebook"
	LinkedIn  SocialPlatform = "linkedin"
	Instagram SocialPlatform = "instagram"
)

var SocialPlatforms = []SocialPlatform{YouTube, Twitter, Facebook, LinkedIn, Instagram}

func (s SocialPlatform) Valid() bool {
	for _, p := range SocialPlatforms {
		if p == s {
			return true
		}
	}
	return false
}

// Owner is the slice of the owning user that is joined into profile reads.
type Owner struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Avatar string    `json:"avatar"`
}

// ExperienceEntry.To is not meaningful when Current is set, but it is kept as stored.
type ExperienceEntry struct {
	ID          uuid.UUID  `json:"id" bson:"_id"`
	Title       string     `json:"title" bson:"title"`
	Company     string     `json:"company" bson:"company"`
	Location    string     `json:"location" bson:"location"`
	From        time.Time  `json:"from" bson:"from"`
	To          *time.Time `json:"to" bson:"to,omitempty"`
	Current     bool       `json:"current" bson:"current"`
	Description string     `json:"description" bson:"description"`
}

type EducationEntry struct {
	ID           uuid.UUID  `json:"id" bson:"_id"`
	School       string     `json:"school" bson:"school"`
	Degree       string     `json:"degree" bson:"degree"`
	FieldOfStudy string     `json:"field_of_study" bson:"fieldofstudy"`
	From         time.Time  `json:"from" bson:"from"`
	To           *time.Time `json:"to" bson:"to,omitempty"`
	Current      bool       `json:"current" bson:"current"`
	Description  string     `json:"description" bson:"description"`
}

type Profile struct {
	ID             uuid.UUID                 `json:"id" bson:"_id"`
	UserID         uuid.UUID                 `json:"user_id" bson:"user_id"`
	Owner          *Owner                    `json:"owner,omitempty" bson:"-"`
	Company        string                    `json:"company" bson:"company"`
	Website        string                    `json:"website" bson:"website"`
	Location       string                    `json:"location" bson:"location"`
	Status         string                    `json:"status" bson:"status"`
	Skills         []string                  `json:"skills" bson:"skills"`
	Bio            string                    `json:"bio" bson:"bio"`
	GitHubUsername string                    `json:"github_username" bson:"githubusername"`
	Social         map[SocialPlatform]string `json:"social" bson:"social"`
	Experience     []ExperienceEntry         `json:"experience" bson:"experience"`
	Education      []EducationEntry          `json:"education" bson:"education"`
	CreatedAt      time.Time                 `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time                 `json:"updated_at" bson:"updated_at"`
}

// New returns an empty profile owned by userID; every optional field starts empty.
func New(userID uuid.UUID, now time.Time) *Profile {
	return &Profile{
		ID:         uuid.New(),
		UserID:     userID,
		Skills:     []string{},
		Social:     map[SocialPlatform]string{},
		Experience: []ExperienceEntry{},
		Education:  []EducationEntry{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// AddExperience assigns a fresh id and puts the entry at the head of the list.
func (p *Profile) AddExperience(e ExperienceEntry) ExperienceEntry {
	e.ID = uuid.New()
	p.Experience = prependEntry(p.Experience, e)
	return e
}

// RemoveExperience drops the first entry with the given id. It reports whether
// anything was removed; a missing id leaves the list untouched.
func (p *Profile) RemoveExperience(id uuid.UUID) bool {
	var removed bool
	p.Experience, removed = removeFirst(p.Experience, func(e ExperienceEntry) bool { return e.ID == id })
	return removed
}

func (p *Profile) AddEducation(e EducationEntry) EducationEntry {
	e.ID = uuid.New()
	p.Education = prependEntry(p.Education, e)
	return e
}

func (p *Profile) RemoveEducation(id uuid.UUID) bool {
	var removed bool
	p.Education, removed = removeFirst(p.Education, func(e EducationEntry) bool { return e.ID == id })
	return removed
}

func prependEntry[T any](items []T, item T) []T {
	out := make([]T, 0, len(items)+1)
	out = append(out, item)
	return append(out, items...)
}

func removeFirst[T any](items []T, match func(T) bool) ([]T, bool) {
	for i, item := range items {
		if match(item) {
			out := make([]T, 0, len(items)-1)
			out = append(out, items[:i]...)
			return append(out, items[i+1:]...), true
		}
	}
	return items, false
}

type Repository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error)
	List(ctx context.Context) ([]*Profile, error)
	// Save inserts the profile or replaces the stored document with the same UserID.
	Save(ctx context.Context, p *Profile) error
}
