// Package memory holds in-memory implementations of the domain ports for unit tests.
package memory

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/devconnect/internal/application/service"
	"github.com/khoahotran/devconnect/internal/domain/post"
	"github.com/khoahotran/devconnect/internal/domain/profile"
	"github.com/khoahotran/devconnect/internal/domain/user"
)

type Store struct {
	mu       sync.Mutex
	users    map[uuid.UUID]user.User
	profiles map[uuid.UUID]profile.Profile
	posts    map[uuid.UUID]post.Post

	// FailRemove makes RemoveAccount fail without touching anything.
	FailRemove error
}

func NewStore() *Store {
	return &Store{
		users:    map[uuid.UUID]user.User{},
		profiles: map[uuid.UUID]profile.Profile{},
		posts:    map[uuid.UUID]post.Post{},
	}
}

func (s *Store) Users() user.Repository       { return userRepo{s} }
func (s *Store) Profiles() profile.Repository { return profileRepo{s} }
func (s *Store) Posts() post.Repository       { return postRepo{s} }

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, u *user.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u.Email = user.NormalizeEmail(u.Email)
	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return user.ErrEmailTaken
		}
	}
	r.s.users[u.ID] = *u
	return nil
}

func (r userRepo) FindByEmail(_ context.Context, email string) (*user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	email = user.NormalizeEmail(email)
	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r userRepo) FindByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return &u, nil
}

func (r userRepo) UpdateAvatar(_ context.Context, id uuid.UUID, avatar string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	u.Avatar = avatar
	r.s.users[id] = u
	return nil
}

type profileRepo struct{ s *Store }

func cloneProfile(p profile.Profile) *profile.Profile {
	out := p
	out.Skills = append([]string{}, p.Skills...)
	out.Experience = append([]profile.ExperienceEntry{}, p.Experience...)
	out.Education = append([]profile.EducationEntry{}, p.Education...)
	out.Social = make(map[profile.SocialPlatform]string, len(p.Social))
	for k, v := range p.Social {
		out.Social[k] = v
	}
	return &out
}

// withOwner must be called with the lock held.
func (r profileRepo) withOwner(p profile.Profile) *profile.Profile {
	out := cloneProfile(p)
	if u, ok := r.s.users[p.UserID]; ok {
		out.Owner = &profile.Owner{ID: u.ID, Name: u.Name, Avatar: u.Avatar}
	}
	return out
}

func (r profileRepo) FindByUserID(_ context.Context, userID uuid.UUID) (*profile.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.profiles[userID]
	if !ok {
		return nil, profile.ErrProfileNotFound
	}
	return r.withOwner(p), nil
}

func (r profileRepo) List(_ context.Context) ([]*profile.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*profile.Profile, 0, len(r.s.profiles))
	for _, p := range r.s.profiles {
		out = append(out, r.withOwner(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r profileRepo) Save(_ context.Context, p *profile.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if existing, ok := r.s.profiles[p.UserID]; ok {
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
	}
	stored := cloneProfile(*p)
	stored.Owner = nil
	r.s.profiles[p.UserID] = *stored
	return nil
}

type postRepo struct{ s *Store }

func (r postRepo) Save(_ context.Context, p *post.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.posts[p.ID] = *p
	return nil
}

func (r postRepo) FindByID(_ context.Context, id uuid.UUID) (*post.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.posts[id]
	if !ok {
		return nil, post.ErrPostNotFound
	}
	return &p, nil
}

func (r postRepo) List(_ context.Context) ([]*post.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*post.Post, 0, len(r.s.posts))
	for _, p := range r.s.posts {
		p := p
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r postRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.posts[id]; !ok {
		return post.ErrPostNotFound
	}
	delete(r.s.posts, id)
	return nil
}

// RemoveAccount implements account.Remover.
func (s *Store) RemoveAccount(_ context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailRemove != nil {
		return s.FailRemove
	}
	for id, p := range s.posts {
		if p.UserID == userID {
			delete(s.posts, id)
		}
	}
	delete(s.profiles, userID)
	delete(s.users, userID)
	return nil
}

// Publisher records published events. Wait lets tests block on the asynchronous
// publish goroutines of the use cases.
type Publisher struct {
	mu     sync.Mutex
	events []service.ProfileEvent
	Err    error
	signal chan struct{}
}

func NewPublisher() *Publisher {
	return &Publisher{signal: make(chan struct{}, 64)}
}

func (p *Publisher) PublishProfileEvent(_ context.Context, evt service.ProfileEvent) error {
	p.mu.Lock()
	p.events = append(p.events, evt)
	p.mu.Unlock()
	select {
	case p.signal <- struct{}{}:
	default:
	}
	return p.Err
}

// Wait blocks until n events have been published or the timeout passes.
func (p *Publisher) Wait(n int, timeout time.Duration) []service.ProfileEvent {
	deadline := time.After(timeout)
	for {
		p.mu.Lock()
		if len(p.events) >= n {
			out := append([]service.ProfileEvent{}, p.events...)
			p.mu.Unlock()
			return out
		}
		p.mu.Unlock()
		select {
		case <-p.signal:
		case <-deadline:
			p.mu.Lock()
			defer p.mu.Unlock()
			return append([]service.ProfileEvent{}, p.events...)
		}
	}
}

type Uploader struct {
	mu        sync.Mutex
	Uploads   map[string][]byte
	Deleted   []string
	URL       string
	UploadErr error
}

func NewUploader() *Uploader {
	return &Uploader{Uploads: map[string][]byte{}, URL: "https://res.cloudinary.com/demo/image/upload/"}
}

func (u *Uploader) Upload(_ context.Context, file io.Reader, folder string, publicID string) (string, error) {
	if u.UploadErr != nil {
		return "", u.UploadErr
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	id := folder + "/" + publicID
	u.Uploads[id] = data
	return u.URL + id, nil
}

func (u *Uploader) Delete(_ context.Context, publicID string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.Deleted = append(u.Deleted, publicID)
	delete(u.Uploads, publicID)
	return nil
}

type RepoLookup struct {
	mu    sync.Mutex
	Repos map[string]json.RawMessage
	Calls int
}

func (l *RepoLookup) RecentRepos(_ context.Context, username string) (json.RawMessage, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Calls++
	repos, ok := l.Repos[username]
	if !ok {
		return nil, service.ErrNoRepoProfile
	}
	return repos, nil
}

type RepoCache struct {
	mu      sync.Mutex
	Entries map[string]json.RawMessage
	TTLs    map[string]time.Duration
	Err     error
}

func NewRepoCache() *RepoCache {
	return &RepoCache{Entries: map[string]json.RawMessage{}, TTLs: map[string]time.Duration{}}
}

func (c *RepoCache) Get(_ context.Context, username string) (json.RawMessage, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return nil, false, c.Err
	}
	v, ok := c.Entries[username]
	return v, ok, nil
}

func (c *RepoCache) Set(_ context.Context, username string, repos json.RawMessage, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return c.Err
	}
	c.Entries[username] = repos
	c.TTLs[username] = ttl
	return nil
}

func (c *RepoCache) Delete(_ context.Context, username string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return c.Err
	}
	delete(c.Entries, username)
	return nil
}

var ErrInjected = errors.New("injected failure")
