package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"site-content-be/internal/config"
	"site-content-be/internal/dto"
	"site-content-be/internal/entity"
	"site-content-be/internal/repository/contract"
	"site-content-be/internal/repository/specification"
	"site-content-be/internal/repository/unitofwork"
	"site-content-be/pkg/events"
	"site-content-be/pkg/fonts"

	"github.com/google/uuid"
)

func testContentConfig() config.ContentConfig {
	return config.ContentConfig{
		AssetBaseURL:         "https://cdn.example.com",
		SupportedLocales:     []string{"en", "fa"},
		DefaultLocale:        "en",
		RTLLocales:           []string{"fa"},
		DocumentFetchTimeout: time.Second,
		DocumentEventsTopic:  "DOCUMENT_SAVED",
	}
}

// memoryDB backs the fake unit of work. Writes are visible immediately;
// Rollback after Commit is a no-op like the gorm implementation.
type memoryDB struct {
	mu       sync.Mutex
	contents map[uuid.UUID]*entity.Content
	fonts    map[uuid.UUID]*entity.FontDescriptor
	findErr  error
}

func newMemoryDB() *memoryDB {
	return &memoryDB{
		contents: map[uuid.UUID]*entity.Content{},
		fonts:    map[uuid.UUID]*entity.FontDescriptor{},
	}
}

func (m *memoryDB) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &memoryUoW{db: m}
}

type memoryUoW struct {
	db *memoryDB
}

func (u *memoryUoW) Begin(ctx context.Context) error { return nil }
func (u *memoryUoW) Commit() error                   { return nil }
func (u *memoryUoW) Rollback() error                 { return nil }

func (u *memoryUoW) ContentRepository() contract.ContentRepository {
	return &memoryContentRepo{db: u.db}
}

func (u *memoryUoW) FontDescriptorRepository() contract.FontDescriptorRepository {
	return &memoryFontRepo{db: u.db}
}

type memoryContentRepo struct {
	db *memoryDB
}

func contentMatches(c *entity.Content, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if c.Id != s.ID {
				return false
			}
		case specification.BySlug:
			if c.Slug != s.Slug {
				return false
			}
		case specification.ByLocale:
			if c.Locale != s.Locale {
				return false
			}
		case specification.BySlugLocale:
			if c.Slug != s.Slug || c.Locale != s.Locale {
				return false
			}
		}
	}
	return true
}

func (r *memoryContentRepo) Create(ctx context.Context, content *entity.Content) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	now := time.Now()
	cp := *content
	cp.UpdatedAt = &now
	r.db.contents[content.Id] = &cp
	content.UpdatedAt = &now
	return nil
}

func (r *memoryContentRepo) Update(ctx context.Context, content *entity.Content) error {
	return r.Create(ctx, content)
}

func (r *memoryContentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.contents, id)
	return nil
}

func (r *memoryContentRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Content, error) {
	all, err := r.FindAll(ctx, specs...)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return all[0], nil
}

func (r *memoryContentRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Content, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.findErr != nil {
		return nil, r.db.findErr
	}
	var out []*entity.Content
	for _, c := range r.db.contents {
		if contentMatches(c, specs) {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out, nil
}

func (r *memoryContentRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, err := r.FindAll(ctx, specs...)
	return int64(len(all)), err
}

type memoryFontRepo struct {
	db *memoryDB
}

func (r *memoryFontRepo) Create(ctx context.Context, descriptor *entity.FontDescriptor) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cp := *descriptor
	r.db.fonts[descriptor.Id] = &cp
	return nil
}

func (r *memoryFontRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.fonts, id)
	return nil
}

func (r *memoryFontRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.FontDescriptor, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, f := range r.db.fonts {
		ok := true
		for _, spec := range specs {
			if s, isID := spec.(specification.ByID); isID && f.Id != s.ID {
				ok = false
			}
		}
		if ok {
			cp := *f
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memoryFontRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.FontDescriptor, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.findErr != nil {
		return nil, r.db.findErr
	}
	out := make([]*entity.FontDescriptor, 0, len(r.db.fonts))
	for _, f := range r.db.fonts {
		cp := *f
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DisplayName < out[j].DisplayName })
	return out, nil
}

// fakeStore is a DocumentStore over a map.
type fakeStore struct {
	mu      sync.Mutex
	docs    map[dto.ContentKey]string
	saves   int
	saveErr error
	loadErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{docs: map[dto.ContentKey]string{}}
}

func (f *fakeStore) LoadDocument(ctx context.Context, key dto.ContentKey) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return "", f.loadErr
	}
	body, ok := f.docs[key]
	if !ok {
		return "", ErrDocumentNotFound
	}
	return body, nil
}

func (f *fakeStore) SaveDocument(ctx context.Context, key dto.ContentKey, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves++
	f.docs[key] = content
	return nil
}

// fakeCache is a RenderCache over a map.
type fakeCache struct {
	mu          sync.Mutex
	values      map[string]string
	invalidated []string
	err         error
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: map[string]string{}}
}

func (c *fakeCache) Get(ctx context.Context, slug, locale, format string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return "", false, c.err
	}
	v, ok := c.values[locale+":"+slug+":"+format]
	return v, ok, nil
}

func (c *fakeCache) Set(ctx context.Context, slug, locale, format, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.values[locale+":"+slug+":"+format] = value
	return nil
}

func (c *fakeCache) Invalidate(ctx context.Context, slug, locale string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, locale+":"+slug)
	for _, format := range []string{FormatHTML, FormatMarkdown} {
		delete(c.values, locale+":"+slug+":"+format)
	}
	return c.err
}

func (c *fakeCache) has(slug, locale, format string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.values[locale+":"+slug+":"+format]
	return ok
}

// recordingEvents records published events.
type recordingEvents struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (r *recordingEvents) Publish(ctx context.Context, event events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return r.err
}

func (r *recordingEvents) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.EventType())
	}
	return out
}

// recordingPublisher records watermill payloads.
type recordingPublisher struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (r *recordingPublisher) Publish(ctx context.Context, payload []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payloads = append(r.payloads, payload)
	return nil
}

// recordingPreview records pushed previews per session.
type recordingPreview struct {
	mu       sync.Mutex
	payloads map[string][][]byte
}

func newRecordingPreview() *recordingPreview {
	return &recordingPreview{payloads: map[string][][]byte{}}
}

func (r *recordingPreview) Publish(sessionID string, payload []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payloads[sessionID] = append(r.payloads[sessionID], payload)
}

func (r *recordingPreview) count(sessionID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.payloads[sessionID])
}

type failingRules struct{}

func (failingRules) Rules(ctx context.Context) ([]fonts.Rule, error) {
	return nil, errors.New("registry down")
}

func fontEntity(family string) *entity.FontDescriptor {
	return &entity.FontDescriptor{
		Id:          uuid.New(),
		DisplayName: family,
		FileRef:     "fonts/" + family + ".woff2",
		Family:      family,
		Weight:      400,
		Style:       "normal",
		CreatedAt:   time.Now(),
	}
}

func timeNow() time.Time { return time.Now() }
