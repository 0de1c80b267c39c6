package session

import (
	"context"
	"net/http"
	"strings"

	"github.com/opsmind/phonesystem/backend/internal/types"
)

// Session carries the identifiers a dashboard page works with. It is built
// once per request and passed explicitly; nothing reads ids from globals.
type Session struct {
	UserID      string
	AssistantID string
	PhoneID     string
	CallID      string
}

type contextKey string

const sessionContextKey contextKey = "session"

// source maps a session field to its header and query parameter.
type source struct {
	header string
	query  string
	set    func(*Session, string)
}

var sources = []source{
	{"X-User-ID", "user_id", func(s *Session, v string) { s.UserID = v }},
	{"X-Assistant-ID", "assistant_id", func(s *Session, v string) { s.AssistantID = v }},
	{"X-Phone-ID", "phone_id", func(s *Session, v string) { s.PhoneID = v }},
	{"X-Call-ID", "id", func(s *Session, v string) { s.CallID = v }},
}

// FromRequest reads each identifier from its header, falling back to the
// query parameter.
func FromRequest(r *http.Request) Session {
	var s Session
	query := r.URL.Query()
	for _, src := range sources {
		v := strings.TrimSpace(r.Header.Get(src.header))
		if v == "" {
			v = strings.TrimSpace(query.Get(src.query))
		}
		src.set(&s, v)
	}
	return s
}

// Middleware attaches the request's Session to its context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := NewContext(r.Context(), FromRequest(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// NewContext returns ctx carrying s.
func NewContext(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, s)
}

// FromContext returns the Session attached by Middleware.
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionContextKey).(Session)
	return s, ok
}

// CallFilter selects the calls of the session's assistant or phone.
func (s Session) CallFilter() types.CallFilter {
	return types.CallFilter{AssistantID: s.AssistantID, PhoneNumberID: s.PhoneID}
}
