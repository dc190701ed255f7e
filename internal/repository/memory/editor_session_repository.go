package memory

import (
	"time"

	"site-content-be/pkg/editor"

	"github.com/patrickmn/go-cache"
)

// EditorSession is an open editing session and the document it edits.
type EditorSession struct {
	Session  *editor.Session
	Slug     string
	Locale   string
	OwnerID  string
	OpenedAt time.Time
}

// EditorSessionRepository keeps open sessions in process memory. Sessions
// expire after ttl without access.
type EditorSessionRepository struct {
	cache *cache.Cache
}

func NewEditorSessionRepository(ttl time.Duration) *EditorSessionRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &EditorSessionRepository{
		cache: cache.New(ttl, ttl/6),
	}
}

func (r *EditorSessionRepository) Save(s *EditorSession) {
	r.cache.Set(s.Session.ID(), s, cache.DefaultExpiration)
}

// Get returns the session and restarts its expiry.
func (r *EditorSessionRepository) Get(sessionID string) (*EditorSession, bool) {
	x, found := r.cache.Get(sessionID)
	if !found {
		return nil, false
	}
	s := x.(*EditorSession)
	r.cache.Set(sessionID, s, cache.DefaultExpiration)
	return s, true
}

func (r *EditorSessionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}

func (r *EditorSessionRepository) Count() int {
	return r.cache.ItemCount()
}

// OnEvicted registers fn to run when a session expires or is deleted.
func (r *EditorSessionRepository) OnEvicted(fn func(sessionID string)) {
	r.cache.OnEvicted(func(key string, _ interface{}) {
		fn(key)
	})
}
