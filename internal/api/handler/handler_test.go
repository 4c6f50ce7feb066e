package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/facegate/internal/api/middleware"
	"github.com/saturnino-fabrica-de-software/facegate/internal/domain"
	"github.com/saturnino-fabrica-de-software/facegate/internal/ws"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func newTestApp() *fiber.App {
	return fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(testLogger()),
	})
}

type fakeIdentityStore struct {
	identities   []domain.Identity
	listErr      error
	deleted      []string
	deleteErr    error
	renames      [][2]string
	renameErr    error
	windows      map[string]domain.AccessWindow
	thumbnail    []byte
	thumbnailErr error
}

func (s *fakeIdentityStore) List(_ context.Context) ([]domain.Identity, error) {
	return s.identities, s.listErr
}

func (s *fakeIdentityStore) Delete(_ context.Context, name string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = append(s.deleted, name)
	return nil
}

func (s *fakeIdentityStore) Rename(_ context.Context, oldName, newName string) error {
	if s.renameErr != nil {
		return s.renameErr
	}
	s.renames = append(s.renames, [2]string{oldName, newName})
	return nil
}

func (s *fakeIdentityStore) UpdateAccessWindow(_ context.Context, name string, window domain.AccessWindow) error {
	if s.windows == nil {
		s.windows = make(map[string]domain.AccessWindow)
	}
	s.windows[name] = window
	return nil
}

func (s *fakeIdentityStore) GetThumbnail(_ context.Context, _ string) ([]byte, error) {
	return s.thumbnail, s.thumbnailErr
}

type fakeRefresher struct {
	calls int
}

func (r *fakeRefresher) Refresh(_ context.Context) error {
	r.calls++
	return nil
}

type fakeBroadcaster struct {
	events []ws.EventType
}

func (b *fakeBroadcaster) Broadcast(eventType ws.EventType, _ interface{}) {
	b.events = append(b.events, eventType)
}

func newIdentityApp(store *fakeIdentityStore) (*fiber.App, *fakeRefresher, *fakeBroadcaster) {
	refresher := &fakeRefresher{}
	broadcaster := &fakeBroadcaster{}
	h := NewIdentityHandler(store, refresher, broadcaster, testLogger())

	app := newTestApp()
	app.Get("/v1/identities", h.List)
	app.Delete("/v1/identities/:name", h.Delete)
	app.Put("/v1/identities/:name/name", h.Rename)
	app.Put("/v1/identities/:name/access-window", h.UpdateAccessWindow)
	app.Get("/v1/identities/:name/thumbnail", h.Thumbnail)
	return app, refresher, broadcaster
}

func TestIdentityHandler_List(t *testing.T) {
	store := &fakeIdentityStore{identities: []domain.Identity{
		{Name: "alice", AccessStart: "09:00", AccessEnd: "17:00", Thumbnail: []byte{0xff, 0xd8}},
		{Name: "bob", AccessStart: "00:00", AccessEnd: "23:59"},
	}}
	app, _, _ := newIdentityApp(store)

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/identities", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body struct {
		Identities []IdentityResponse `json:"identities"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Identities, 2)
	assert.Equal(t, "alice", body.Identities[0].Name)
	assert.Contains(t, body.Identities[0].Thumbnail, "data:image/jpeg;base64,")
	assert.Empty(t, body.Identities[1].Thumbnail)
}

func TestIdentityHandler_Delete(t *testing.T) {
	store := &fakeIdentityStore{}
	app, refresher, broadcaster := newIdentityApp(store)

	resp, err := app.Test(httptest.NewRequest("DELETE", "/v1/identities/alice", nil))
	require.NoError(t, err)

	assert.Equal(t, 204, resp.StatusCode)
	assert.Equal(t, []string{"alice"}, store.deleted)
	assert.Equal(t, 1, refresher.calls)
	assert.Equal(t, []ws.EventType{ws.EventIdentityDeleted}, broadcaster.events)
}

func TestIdentityHandler_DeleteNotFound(t *testing.T) {
	store := &fakeIdentityStore{deleteErr: domain.ErrIdentityNotFound}
	app, refresher, _ := newIdentityApp(store)

	resp, err := app.Test(httptest.NewRequest("DELETE", "/v1/identities/ghost", nil))
	require.NoError(t, err)

	assert.Equal(t, 404, resp.StatusCode)
	assert.Zero(t, refresher.calls)
}

func TestIdentityHandler_Rename(t *testing.T) {
	store := &fakeIdentityStore{}
	app, _, broadcaster := newIdentityApp(store)

	req := httptest.NewRequest("PUT", "/v1/identities/alice/name",
		bytes.NewReader([]byte(`{"new_name":"alicia"}`)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, [][2]string{{"alice", "alicia"}}, store.renames)
	assert.Equal(t, []ws.EventType{ws.EventIdentityRenamed}, broadcaster.events)
}

func TestIdentityHandler_RenameConflict(t *testing.T) {
	store := &fakeIdentityStore{renameErr: domain.ErrIdentityExists}
	app, _, _ := newIdentityApp(store)

	req := httptest.NewRequest("PUT", "/v1/identities/alice/name",
		bytes.NewReader([]byte(`{"new_name":"bob"}`)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 409, resp.StatusCode)
}

func TestIdentityHandler_UpdateAccessWindow(t *testing.T) {
	store := &fakeIdentityStore{}
	app, refresher, _ := newIdentityApp(store)

	req := httptest.NewRequest("PUT", "/v1/identities/alice/access-window",
		bytes.NewReader([]byte(`{"start":"09:00","end":"17:00"}`)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, domain.AccessWindow{Start: "09:00", End: "17:00"}, store.windows["alice"])
	assert.Equal(t, 1, refresher.calls)
}

func TestIdentityHandler_UpdateAccessWindowRejectsMalformedClock(t *testing.T) {
	store := &fakeIdentityStore{}
	app, _, _ := newIdentityApp(store)

	for _, body := range []string{
		`{"start":"9:00","end":"17:00"}`,
		`{"start":"09:00","end":"24:00"}`,
		`{"start":"","end":"17:00"}`,
	} {
		req := httptest.NewRequest("PUT", "/v1/identities/alice/access-window",
			bytes.NewReader([]byte(body)))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, 422, resp.StatusCode, "body %s", body)
	}
	assert.Empty(t, store.windows)
}

func TestIdentityHandler_Thumbnail(t *testing.T) {
	store := &fakeIdentityStore{thumbnail: []byte{0xff, 0xd8, 0xff}}
	app, _, _ := newIdentityApp(store)

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/identities/alice/thumbnail", nil))
	require.NoError(t, err)

	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "image/jpeg", resp.Header.Get("Content-Type"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, store.thumbnail, body)
}

func TestIdentityHandler_ThumbnailMissing(t *testing.T) {
	store := &fakeIdentityStore{}
	app, _, _ := newIdentityApp(store)

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/identities/alice/thumbnail", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

type fakeRegistrar struct {
	started []string
	err     error
}

func (r *fakeRegistrar) Start(name string) error {
	if r.err != nil {
		return r.err
	}
	r.started = append(r.started, name)
	return nil
}

func TestRegistrationHandler_Start(t *testing.T) {
	registrar := &fakeRegistrar{}
	app := newTestApp()
	app.Post("/v1/registrations", NewRegistrationHandler(registrar, testLogger()).Start)

	req := httptest.NewRequest("POST", "/v1/registrations",
		bytes.NewReader([]byte(`{"name":"carol"}`)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, 202, resp.StatusCode)
	assert.Equal(t, []string{"carol"}, registrar.started)
}

func TestRegistrationHandler_StartWithoutName(t *testing.T) {
	registrar := &fakeRegistrar{err: domain.ErrInvalidRequest}
	app := newTestApp()
	app.Post("/v1/registrations", NewRegistrationHandler(registrar, testLogger()).Start)

	req := httptest.NewRequest("POST", "/v1/registrations",
		bytes.NewReader([]byte(`{"name":""}`)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

type fakePipeline struct {
	decisions []domain.AccessDecision
	err       error
	frames    [][]byte
}

func (p *fakePipeline) ProcessFrame(_ context.Context, frame []byte) ([]domain.AccessDecision, error) {
	if p.err != nil {
		return nil, p.err
	}
	p.frames = append(p.frames, frame)
	return p.decisions, nil
}

func newFrameApp(pipeline *fakePipeline) *fiber.App {
	app := newTestApp()
	app.Post("/v1/frames", NewFrameHandler(pipeline, testLogger()).Process)
	return app
}

func TestFrameHandler_Process(t *testing.T) {
	pipeline := &fakePipeline{decisions: []domain.AccessDecision{
		{Name: "alice", Status: domain.StatusVerified},
	}}
	app := newFrameApp(pipeline)

	req := httptest.NewRequest("POST", "/v1/frames", bytes.NewReader([]byte("jpegbytes")))
	req.Header.Set("Content-Type", "image/jpeg")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body struct {
		Decisions []domain.AccessDecision `json:"decisions"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Decisions, 1)
	assert.Equal(t, "alice", body.Decisions[0].Name)
	assert.Equal(t, [][]byte{[]byte("jpegbytes")}, pipeline.frames)
}

func TestFrameHandler_RejectsUnsupportedContentType(t *testing.T) {
	app := newFrameApp(&fakePipeline{})

	req := httptest.NewRequest("POST", "/v1/frames", bytes.NewReader([]byte("x")))
	req.Header.Set("Content-Type", "text/plain")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 422, resp.StatusCode)
}

func TestFrameHandler_RejectsEmptyBody(t *testing.T) {
	app := newFrameApp(&fakePipeline{})

	req := httptest.NewRequest("POST", "/v1/frames", nil)
	req.Header.Set("Content-Type", "image/jpeg")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 422, resp.StatusCode)
}

func TestFrameHandler_PipelineError(t *testing.T) {
	app := newFrameApp(&fakePipeline{err: errors.New("detector down")})

	req := httptest.NewRequest("POST", "/v1/frames", bytes.NewReader([]byte("jpegbytes")))
	req.Header.Set("Content-Type", "image/jpeg")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)
}

type fakeEventLog struct {
	events []domain.AccessDecision
}

func (l *fakeEventLog) Recent() []domain.AccessDecision {
	return l.events
}

func TestEventsHandler_List(t *testing.T) {
	log := &fakeEventLog{events: []domain.AccessDecision{
		{Name: "bob", Status: domain.StatusDenied},
		{Name: "alice", Status: domain.StatusVerified},
	}}
	app := newTestApp()
	app.Get("/v1/events", NewEventsHandler(log).List)

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/events", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body struct {
		Events []domain.AccessDecision `json:"events"`
		Count  int                     `json:"count"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 2, body.Count)
	assert.Equal(t, "bob", body.Events[0].Name)
}

type fakePinger struct {
	err error
}

func (p *fakePinger) Ping(_ context.Context) error {
	return p.err
}

func TestHealthHandler(t *testing.T) {
	app := newTestApp()
	h := NewHealthHandler(&fakePinger{})
	app.Get("/health", h.Health)
	app.Get("/ready", h.Ready)

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/ready", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestHealthHandler_ReadyDegraded(t *testing.T) {
	app := newTestApp()
	h := NewHealthHandler(&fakePinger{err: errors.New("connection refused")})
	app.Get("/ready", h.Ready)

	resp, err := app.Test(httptest.NewRequest("GET", "/ready", nil))
	require.NoError(t, err)
	assert.Equal(t, 503, resp.StatusCode)
}
