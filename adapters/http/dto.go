package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/devconnect/internal/domain/post"
	"github.com/khoahotran/devconnect/internal/domain/profile"
	"github.com/khoahotran/devconnect/pkg/apperror"
)

// Wire names follow the REST contract the web client was built against.

type OwnerDTO struct {
	ID     uuid.UUID `json:"_id"`
	Name   string    `json:"name,omitempty"`
	Avatar string    `json:"avatar,omitempty"`
}

type ExperienceDTO struct {
	ID          uuid.UUID  `json:"_id"`
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Location    string     `json:"location,omitempty"`
	From        time.Time  `json:"from"`
	To          *time.Time `json:"to,omitempty"`
	Current     bool       `json:"current"`
	Description string     `json:"description,omitempty"`
}

type EducationDTO struct {
	ID           uuid.UUID  `json:"_id"`
	School       string     `json:"school"`
	Degree       string     `json:"degree"`
	FieldOfStudy string     `json:"fieldofstudy"`
	From         time.Time  `json:"from"`
	To           *time.Time `json:"to,omitempty"`
	Current      bool       `json:"current"`
	Description  string     `json:"description,omitempty"`
}

type ProfileDTO struct {
	ID             uuid.UUID         `json:"_id"`
	User           OwnerDTO          `json:"user"`
	Company        string            `json:"company,omitempty"`
	Website        string            `json:"website,omitempty"`
	Location       string            `json:"location,omitempty"`
	Status         string            `json:"status"`
	Skills         []string          `json:"skills"`
	Bio            string            `json:"bio,omitempty"`
	GitHubUsername string            `json:"githubusername,omitempty"`
	Social         map[string]string `json:"social"`
	Experience     []ExperienceDTO   `json:"experience"`
	Education      []EducationDTO    `json:"education"`
	Date           time.Time         `json:"date"`
}

func ToProfileDTO(p *profile.Profile) ProfileDTO {
	dto := ProfileDTO{
		ID:             p.ID,
		User:           OwnerDTO{ID: p.UserID},
		Company:        p.Company,
		Website:        p.Website,
		Location:       p.Location,
		Status:         p.Status,
		Skills:         p.Skills,
		Bio:            p.Bio,
		GitHubUsername: p.GitHubUsername,
		Social:         make(map[string]string, len(p.Social)),
		Experience:     make([]ExperienceDTO, len(p.Experience)),
		Education:      make([]EducationDTO, len(p.Education)),
		Date:           p.CreatedAt,
	}
	if p.Owner != nil {
		dto.User = OwnerDTO{ID: p.Owner.ID, Name: p.Owner.Name, Avatar: p.Owner.Avatar}
	}
	if dto.Skills == nil {
		dto.Skills = []string{}
	}
	for k, v := range p.Social {
		dto.Social[string(k)] = v
	}
	for i, e := range p.Experience {
		dto.Experience[i] = ExperienceDTO(e)
	}
	for i, e := range p.Education {
		dto.Education[i] = EducationDTO(e)
	}
	return dto
}

func ToProfileDTOs(profiles []*profile.Profile) []ProfileDTO {
	out := make([]ProfileDTO, len(profiles))
	for i, p := range profiles {
		out[i] = ToProfileDTO(p)
	}
	return out
}

// SkillsInput accepts the comma-separated string the web form sends, or a JSON array.
type SkillsInput string

func (s *SkillsInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*s = SkillsInput(strings.Join(list, ","))
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = SkillsInput(raw)
	return nil
}

type UpsertProfileRequest struct {
	Company        *string      `json:"company"`
	Website        *string      `json:"website"`
	Location       *string      `json:"location"`
	Bio            *string      `json:"bio"`
	Status         *string      `json:"status"`
	GitHubUsername *string      `json:"githubusername"`
	Skills         *SkillsInput `json:"skills"`

	// Social links arrive either flat at the top level or nested under "social".
	YouTube   *string            `json:"youtube"`
	Twitter   *string            `json:"twitter"`
	Facebook  *string            `json:"facebook"`
	LinkedIn  *string            `json:"linkedin"`
	Instagram *string            `json:"instagram"`
	Social    map[string]*string `json:"social"`
}

func (r UpsertProfileRequest) ToFields() profile.Fields {
	f := profile.Fields{
		Company:        r.Company,
		Website:        r.Website,
		Location:       r.Location,
		Bio:            r.Bio,
		Status:         r.Status,
		GitHubUsername: r.GitHubUsername,
		Social:         map[profile.SocialPlatform]*string{},
	}
	if r.Skills != nil {
		f.Skills = profile.StringField(string(*r.Skills))
	}
	for k, v := range r.Social {
		f.Social[profile.SocialPlatform(strings.ToLower(k))] = v
	}
	flat := map[profile.SocialPlatform]*string{
		profile.YouTube:   r.YouTube,
		profile.Twitter:   r.Twitter,
		profile.Facebook:  r.Facebook,
		profile.LinkedIn:  r.LinkedIn,
		profile.Instagram: r.Instagram,
	}
	for k, v := range flat {
		if v != nil {
			f.Social[k] = v
		}
	}
	return f
}

// parseDate accepts a calendar date or an RFC 3339 timestamp. An empty value is the zero time.
func parseDate(raw, param string) (time.Time, *apperror.FieldError) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, &apperror.FieldError{Msg: fmt.Sprintf("%s date is invalid", strings.ToUpper(param[:1])+param[1:]), Param: param}
}

type dateRange struct {
	From time.Time
	To   *time.Time
}

func parseRange(from, to string) (dateRange, error) {
	var fields []apperror.FieldError
	var r dateRange

	f, ferr := parseDate(from, "from")
	if ferr != nil {
		fields = append(fields, *ferr)
	}
	r.From = f

	t, terr := parseDate(to, "to")
	if terr != nil {
		fields = append(fields, *terr)
	}
	if !t.IsZero() {
		r.To = &t
	}

	if len(fields) > 0 {
		return r, apperror.NewValidation(fields...)
	}
	return r, nil
}

type ExperienceRequest struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	From        string `json:"from"`
	To          string `json:"to"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

func (r ExperienceRequest) ToEntry() (profile.ExperienceEntry, error) {
	dates, err := parseRange(r.From, r.To)
	if err != nil {
		return profile.ExperienceEntry{}, err
	}
	return profile.ExperienceEntry{
		Title:       strings.TrimSpace(r.Title),
		Company:     strings.TrimSpace(r.Company),
		Location:    r.Location,
		From:        dates.From,
		To:          dates.To,
		Current:     r.Current,
		Description: r.Description,
	}, nil
}

type EducationRequest struct {
	School       string `json:"school"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"fieldofstudy"`
	From         string `json:"from"`
	To           string `json:"to"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}

func (r EducationRequest) ToEntry() (profile.EducationEntry, error) {
	dates, err := parseRange(r.From, r.To)
	if err != nil {
		return profile.EducationEntry{}, err
	}
	return profile.EducationEntry{
		School:       strings.TrimSpace(r.School),
		Degree:       strings.TrimSpace(r.Degree),
		FieldOfStudy: strings.TrimSpace(r.FieldOfStudy),
		From:         dates.From,
		To:           dates.To,
		Current:      r.Current,
		Description:  r.Description,
	}, nil
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required" msg:"Name is required"`
	Email    string `json:"email" binding:"required,email" msg:"Please include a valid email"`
	Password string `json:"password" binding:"required,min=6" msg:"Please enter a password with 6 or more characters"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" msg:"Please include a valid email"`
	Password string `json:"password" binding:"required" msg:"Password is required"`
}

type CreatePostRequest struct {
	Text string `json:"text" binding:"required" msg:"Text is required"`
}

type PostDTO struct {
	ID     uuid.UUID `json:"_id"`
	User   uuid.UUID `json:"user"`
	Text   string    `json:"text"`
	Name   string    `json:"name"`
	Avatar string    `json:"avatar"`
	Date   time.Time `json:"date"`
}

func ToPostDTO(p *post.Post) PostDTO {
	return PostDTO{
		ID:     p.ID,
		User:   p.UserID,
		Text:   p.Text,
		Name:   p.Name,
		Avatar: p.Avatar,
		Date:   p.CreatedAt,
	}
}

func ToPostDTOs(posts []*post.Post) []PostDTO {
	out := make([]PostDTO, len(posts))
	for i, p := range posts {
		out[i] = ToPostDTO(p)
	}
	return out
}
