package profile

import (
	"strings"
	"time"
)

// Fields is a sparse set of profile attributes. A nil pointer means the caller did not
// send the field; only present, non-empty values are merged into a stored profile.
type Fields struct {
	Company        *string
	Website        *string
	Location       *string
	Bio            *string
	Status         *string
	GitHubUsername *string
	// Skills is the raw comma-separated input.
	Skills *string
	Social map[SocialPlatform]*string
}

func StringField(s string) *string {
	return &s
}

// ParseSkills splits comma-separated input into trimmed, non-empty tokens in input order.
func ParseSkills(raw string) []string {
	parts := strings.Split(raw, ",")
	skills := make([]string, 0, len(parts))
	for _, part := range parts {
		if s := strings.TrimSpace(part); s != "" {
			skills = append(skills, s)
		}
	}
	return skills
}

func present(v *string) bool {
	return v != nil && *v != ""
}

// Apply merges f into p in place. Absent or empty values leave stored values untouched,
// social links are merged key by key.
func (p *Profile) Apply(f Fields, now time.Time) {
	assign := func(dst *string, v *string) {
		if present(v) {
			*dst = *v
		}
	}

	assign(&p.Company, f.Company)
	assign(&p.Website, f.Website)
	assign(&p.Location, f.Location)
	assign(&p.Bio, f.Bio)
	assign(&p.Status, f.Status)
	assign(&p.GitHubUsername, f.GitHubUsername)

	if present(f.Skills) {
		if skills := ParseSkills(*f.Skills); len(skills) > 0 {
			p.Skills = skills
		}
	}

	for platform, link := range f.Social {
		if !platform.Valid() || !present(link) {
			continue
		}
		if p.Social == nil {
			p.Social = map[SocialPlatform]string{}
		}
		p.Social[platform] = *link
	}

	p.UpdatedAt = now
}
