package redis

import (
	"context"
	"time"

	"github.com/sozow-hub/mentor-match/internal/domain/matching"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROFILE CACHE
// Hot copy of the three profile tables. Keys expire together so a ranking
// request either sees one consistent sync generation or falls through to the
// snapshot store.
// ══════════════════════════════════════════════════════════════════════════════

// Cache keys for the profile tables.
const (
	keyStudents = "profiles:students"
	keyMentors  = "profiles:mentors"
	keySynonyms = "profiles:synonyms"
)

// DefaultProfileTTL is the lifetime of cached profile tables. It matches the
// background sync interval so entries refresh roughly once per sync.
const DefaultProfileTTL = 10 * time.Minute

// ProfileCache caches the spreadsheet-derived profile tables.
type ProfileCache struct {
	cache *Cache
	ttl   time.Duration
}

// NewProfileCache creates a profile cache. A non-positive ttl falls back to
// DefaultProfileTTL.
func NewProfileCache(cache *Cache, ttl time.Duration) *ProfileCache {
	if ttl <= 0 {
		ttl = DefaultProfileTTL
	}
	return &ProfileCache{cache: cache, ttl: ttl}
}

// SetStudents caches the student table.
func (p *ProfileCache) SetStudents(ctx context.Context, students []matching.StudentProfile) error {
	return p.cache.Set(ctx, keyStudents, students, p.ttl)
}

// GetStudents returns the cached student table or ErrCacheMiss.
func (p *ProfileCache) GetStudents(ctx context.Context) ([]matching.StudentProfile, error) {
	var students []matching.StudentProfile
	if err := p.cache.Get(ctx, keyStudents, &students); err != nil {
		return nil, err
	}
	return students, nil
}

// SetMentors caches the mentor table.
func (p *ProfileCache) SetMentors(ctx context.Context, mentors []matching.MentorProfile) error {
	return p.cache.Set(ctx, keyMentors, mentors, p.ttl)
}

// GetMentors returns the cached mentor table or ErrCacheMiss.
func (p *ProfileCache) GetMentors(ctx context.Context) ([]matching.MentorProfile, error) {
	var mentors []matching.MentorProfile
	if err := p.cache.Get(ctx, keyMentors, &mentors); err != nil {
		return nil, err
	}
	return mentors, nil
}

// SetSynonymRows caches the synonym table source rows.
func (p *ProfileCache) SetSynonymRows(ctx context.Context, rows [][]string) error {
	return p.cache.Set(ctx, keySynonyms, rows, p.ttl)
}

// GetSynonymRows returns the cached synonym rows or ErrCacheMiss.
func (p *ProfileCache) GetSynonymRows(ctx context.Context) ([][]string, error) {
	var rows [][]string
	if err := p.cache.Get(ctx, keySynonyms, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Invalidate drops all cached profile tables.
func (p *ProfileCache) Invalidate(ctx context.Context) error {
	return p.cache.Delete(ctx, keyStudents, keyMentors, keySynonyms)
}
