// internal/events/handler_test.go
package events

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netzero/internal/auth"
	"netzero/internal/users"
)

// stubService records the CreateEvent call it receives.
type stubService struct {
	Service
	created *Event
}

func (s *stubService) CreateEvent(_ context.Context, actor *users.User, name string, startTime time.Time, durationMinutes int, locationID uuid.UUID) (*Event, error) {
	s.created = &Event{
		ID:              uuid.New(),
		HostID:          actor.ID,
		Name:            name,
		StartTime:       startTime,
		DurationMinutes: durationMinutes,
		LocationID:      locationID,
	}
	return s.created, nil
}

// withUser runs the request through the real basic-auth middleware with a
// stub gateway, so handlers see the same context shape as in production.
func withUser(r *http.Request, u *users.User) *http.Request {
	var out *http.Request
	mw := auth.RequireBasic(stubAuth{user: u}, slog.Default())
	mw(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		out = r
	})).ServeHTTP(httptest.NewRecorder(), r)
	return out
}

type stubAuth struct{ user *users.User }

func (s stubAuth) Register(context.Context, string, string, string) (*users.User, error) {
	return s.user, nil
}

func (s stubAuth) Authenticate(context.Context, string, string) (*users.User, error) {
	return s.user, nil
}

func TestHandleCreateEventRejectsBadStartTime(t *testing.T) {
	h := NewHandler(&stubService{}, slog.Default())

	body := `{"name":"Meetup","start_time":"next tuesday","duration_minutes":60,"location_id":"` + uuid.NewString() + `"}`
	req := httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(body))
	req.SetBasicAuth("alice@example.com", "pw")
	req = withUser(req, &users.User{ID: uuid.New()})
	require.NotNil(t, req)

	rec := httptest.NewRecorder()
	h.HandleCreateEvent(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestHandleCreateEventParsesRFC3339WithOffset(t *testing.T) {
	svc := &stubService{}
	h := NewHandler(svc, slog.Default())

	body := `{"name":"Meetup","start_time":"2026-10-01T18:30:00+05:30","duration_minutes":60,"location_id":"` + uuid.NewString() + `"}`
	req := httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(body))
	req.SetBasicAuth("alice@example.com", "pw")
	req = withUser(req, &users.User{ID: uuid.New()})
	require.NotNil(t, req)

	rec := httptest.NewRecorder()
	h.HandleCreateEvent(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, svc.created)
	_, offset := svc.created.StartTime.Zone()
	assert.Equal(t, 5*3600+1800, offset, "offset must be preserved through parsing")
}
