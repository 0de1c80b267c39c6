package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFromRequest(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		headers map[string]string
		want    Session
	}{
		{
			name:   "query parameters",
			target: "/api/calls?user_id=u1&assistant_id=a1&phone_id=p1&id=c1",
			want:   Session{UserID: "u1", AssistantID: "a1", PhoneID: "p1", CallID: "c1"},
		},
		{
			name:    "headers win over query",
			target:  "/api/calls?assistant_id=from-query",
			headers: map[string]string{"X-Assistant-ID": "from-header", "X-User-ID": " u2 "},
			want:    Session{UserID: "u2", AssistantID: "from-header"},
		},
		{
			name:   "blank header falls back",
			target: "/api/call?id=c9",
			headers: map[string]string{
				"X-Call-ID": "   ",
			},
			want: Session{CallID: "c9"},
		},
		{
			name:   "nothing",
			target: "/api/calls",
			want:   Session{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := FromRequest(req); got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestMiddleware(t *testing.T) {
	var got Session
	var found bool
	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, found = FromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/calls?assistant_id=a1&phone_id=p1", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if !found {
		t.Fatal("session missing from context")
	}
	filter := got.CallFilter()
	if filter.AssistantID != "a1" || filter.PhoneNumberID != "p1" {
		t.Errorf("unexpected filter %+v", filter)
	}
}

func TestFromContextWithoutSession(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := FromContext(req.Context()); ok {
		t.Error("expected no session")
	}
}
