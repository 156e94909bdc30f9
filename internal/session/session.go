package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/2beens/fitnessdash/internal/analysis"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	CookieName = "fitdash_session"
	DefaultTTL = 24 * time.Hour
)

var ErrNotFound = errors.New("session not found")

// Session is the per client state of the dashboard.
type Session struct {
	ID string `json:"id"`
	// Filter is the last applied filter, nil until the client applies one.
	Filter    *analysis.FilterState `json:"filter,omitempty"`
	UpdatedAt time.Time             `json:"updatedAt"`
}

type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
}

func New() *Session {
	return &Session{
		ID:        uuid.NewString(),
		UpdatedAt: time.Now(),
	}
}

// FromRequest returns the session of the request cookie, or starts a new one
// and sets its cookie. Store failures are logged and yield a fresh session.
func FromRequest(ctx context.Context, store Store, w http.ResponseWriter, r *http.Request, ttl time.Duration) *Session {
	if cookie, err := r.Cookie(CookieName); err == nil {
		if _, parseErr := uuid.Parse(cookie.Value); parseErr == nil {
			s, err := store.Get(ctx, cookie.Value)
			if err == nil {
				return s
			}
			if !errors.Is(err, ErrNotFound) {
				log.Errorf("get session %s: %s", cookie.Value, err)
			}
		}
	}

	s := New()
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    s.ID,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return s
}
