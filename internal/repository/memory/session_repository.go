package memory

import (
	"time"

	"cancellation-flow-be/pkg/store"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository() *SessionRepository {
	// Sessions expire after 1 hour of inactivity; abandoned flows are swept
	// every 10 minutes
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &SessionRepository{
		cache: c,
	}
}

func (r *SessionRepository) Save(session *store.FlowSession) {
	r.cache.Set(session.UserID.String(), session, cache.DefaultExpiration)
}

func (r *SessionRepository) Get(userID uuid.UUID) (*store.FlowSession, bool) {
	if x, found := r.cache.Get(userID.String()); found {
		return x.(*store.FlowSession), true
	}
	return nil, false
}

func (r *SessionRepository) Delete(userID uuid.UUID) {
	r.cache.Delete(userID.String())
}
