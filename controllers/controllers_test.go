package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PartyHub/games/registry"
	"PartyHub/middleware"
	"PartyHub/models/postgres"
	"PartyHub/services/gamesessions"
	"PartyHub/services/payments"
	"PartyHub/services/profiles"
	"PartyHub/services/supabase"
	"PartyHub/utils"
	"PartyHub/utils/apperror"
)

const testSecret = "jwt-secret"

var (
	anaID = uuid.MustParse("7c9e6679-7425-40de-944b-e07fc1f90ae7")
	benID = uuid.MustParse("9b2f3c1e-5d4a-4b8e-9f0a-1c2d3e4f5a6b")
)

// newRouter wires the same ambient middleware the server uses; callers
// authenticate with a bearer token from bearer().
func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(utils.ErrorHandler())
	r.Use(sessions.Sessions("test", cookie.NewStore([]byte("0123456789abcdef0123456789abcdef"))))
	r.Use(middleware.RefreshSession(supabase.NewVerifier(testSecret), nil))
	return r
}

func bearer(t *testing.T, id uuid.UUID) string {
	t.Helper()
	token, err := supabase.NewVerifier(testSecret).Sign(id, "ana@example.com", "authenticated", time.Hour, time.Now())
	require.NoError(t, err)
	return "Bearer " + token
}

func do(r http.Handler, method, path, auth string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		_ = json.NewEncoder(&buf).Encode(b)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// fakes

type fakeAuth struct {
	session   *supabase.Session
	err       error
	signedOut []string
}

func (f *fakeAuth) SignInWithPassword(_ context.Context, email, password string) (*supabase.Session, error) {
	return f.session, f.err
}

func (f *fakeAuth) SignUp(_ context.Context, email, password string) (*supabase.Session, error) {
	return f.session, f.err
}

func (f *fakeAuth) SignOut(_ context.Context, accessToken string) error {
	f.signedOut = append(f.signedOut, accessToken)
	return nil
}

type fakeProfiles struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]*postgres.Profile
	recorded []profiles.GameResult
	grants   []profiles.GrantInput
	limit    int
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{profiles: map[uuid.UUID]*postgres.Profile{}}
}

func (f *fakeProfiles) EnsureProfile(_ context.Context, id uuid.UUID, email string) (*postgres.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.profiles[id]; ok {
		return p, nil
	}
	p := &postgres.Profile{ID: id, Email: email, DisplayName: "ana"}
	f.profiles[id] = p
	return p, nil
}

func (f *fakeProfiles) UpdateDisplayName(_ context.Context, id uuid.UUID, name string) (*postgres.Profile, error) {
	if name == "" {
		return nil, profiles.ErrInvalidDisplayName
	}
	p := f.profiles[id]
	p.DisplayName = name
	return p, nil
}

func (f *fakeProfiles) GetStats(_ context.Context, id uuid.UUID) (*postgres.UserStats, error) {
	return &postgres.UserStats{UserID: id, GamesPlayed: 3}, nil
}

func (f *fakeProfiles) RecordGame(_ context.Context, id uuid.UUID, r profiles.GameResult) (*postgres.UserStats, error) {
	f.recorded = append(f.recorded, r)
	return &postgres.UserStats{UserID: id, GamesPlayed: 1, FavoriteGame: r.Game}, nil
}

func (f *fakeProfiles) GrantPro(_ context.Context, in profiles.GrantInput) (*postgres.ProGrant, error) {
	if in.GrantedTo == benID {
		return nil, profiles.ErrProfileNotFound
	}
	f.grants = append(f.grants, in)
	return &postgres.ProGrant{GrantedBy: &in.GrantedBy, GrantedTo: in.GrantedTo, Reason: in.Reason}, nil
}

func (f *fakeProfiles) ListGrants(_ context.Context, limit int) ([]postgres.ProGrant, error) {
	f.limit = limit
	return []postgres.ProGrant{{Reason: "tester"}}, nil
}

type fakeCheckout struct {
	in  payments.CheckoutInput
	err error
}

func (f *fakeCheckout) CreateURL(_ context.Context, in payments.CheckoutInput) (string, error) {
	f.in = in
	if f.err != nil {
		return "", f.err
	}
	return "https://checkout.stripe.com/c/pay/cs_test", nil
}

type fakeWebhooks struct{ err error }

func (f fakeWebhooks) Handle(_ context.Context, payload []byte, signature string) (bool, error) {
	return f.err == nil, f.err
}

type emitted struct {
	session, event string
}

type fakeRooms struct{ events []emitted }

func (f *fakeRooms) EmitToSession(sessionID, event string, payload any) {
	f.events = append(f.events, emitted{sessionID, event})
}

// network

func TestPingAndHealth(t *testing.T) {
	r := newRouter()
	r.GET("/ping", Ping)
	r.GET("/health", Health(map[string]Pinger{
		"postgres": PingFunc(func(context.Context) error { return nil }),
		"redis":    nil,
	}))
	r.GET("/health/bad", Health(map[string]Pinger{
		"postgres": PingFunc(func(context.Context) error { return errors.New("refused") }),
	}))

	w := do(r, http.MethodGet, "/ping", "", nil)
	assert.JSONEq(t, `{"message":"pong"}`, w.Body.String())

	w = do(r, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "ok", body["status"])

	w = do(r, http.MethodGet, "/health/bad", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "degraded", decodeBody(t, w)["status"])
}

// auth

func TestLoginStartsSession(t *testing.T) {
	auth := &fakeAuth{session: &supabase.Session{
		AccessToken:  "at",
		RefreshToken: "rt",
		ExpiresIn:    3600,
		User:         supabase.User{ID: anaID.String(), Email: "ana@example.com"},
	}}
	store := newFakeProfiles()
	r := newRouter()
	r.POST("/auth/login", Login(auth, store))

	w := do(r, http.MethodPost, "/auth/login", "", map[string]string{"email": "ana@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "at", body["accessToken"])
	assert.NotEmpty(t, w.Header().Get("Set-Cookie"))
	assert.Contains(t, store.profiles, anaID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	r := newRouter()
	r.POST("/auth/login", Login(&fakeAuth{err: &supabase.APIError{Status: 400, ErrCode: "invalid_grant", Message: "Invalid login credentials"}}, newFakeProfiles()))
	r.POST("/auth/down", Login(&fakeAuth{err: &supabase.APIError{Status: 503, Message: "upstream"}}, newFakeProfiles()))

	w := do(r, http.MethodPost, "/auth/login", "", map[string]string{"email": "ana@example.com", "password": "wrong-pass"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid email or password!", decodeBody(t, w)["message"])

	w = do(r, http.MethodPost, "/auth/login", "", map[string]string{"email": "not-an-email", "password": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/auth/down", "", map[string]string{"email": "ana@example.com", "password": "secret1"})
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestSignUpPendingConfirmation(t *testing.T) {
	r := newRouter()
	r.POST("/auth/signup", SignUp(&fakeAuth{session: &supabase.Session{User: supabase.User{ID: anaID.String()}}}, newFakeProfiles()))

	w := do(r, http.MethodPost, "/auth/signup", "", map[string]string{"email": "ana@example.com", "password": "secret1"})
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, true, decodeBody(t, w)["confirmationRequired"])
}

func TestLogoutRevokesBearer(t *testing.T) {
	auth := &fakeAuth{}
	r := newRouter()
	r.POST("/auth/logout", Logout(auth))

	token := bearer(t, anaID)
	w := do(r, http.MethodPost, "/auth/logout", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, auth.signedOut, 1)
	assert.Equal(t, token[len("Bearer "):], auth.signedOut[0])
}

// payments

func TestCreateCheckout(t *testing.T) {
	checkout := &fakeCheckout{}
	r := newRouter()
	r.POST("/api/checkout", CreateCheckout(checkout))

	w := do(r, http.MethodPost, "/api/checkout", bearer(t, anaID), map[string]string{"planId": "pro_monthly"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_test", decodeBody(t, w)["url"])
	assert.Equal(t, anaID.String(), checkout.in.UserID)
	assert.Equal(t, "ana@example.com", checkout.in.Email)

	w = do(r, http.MethodPost, "/api/checkout", "", map[string]string{"planId": "pack_party", "mode": "payment"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, checkout.in.UserID)
	assert.Equal(t, "payment", checkout.in.Mode)

	w = do(r, http.MethodPost, "/api/checkout", "", map[string]string{"mode": "payment"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "missing_plan", decodeBody(t, w)["code"])

	checkout.err = payments.ErrModeMismatch
	w = do(r, http.MethodPost, "/api/checkout", "", map[string]string{"planId": "pro_monthly", "mode": "payment"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "mode_mismatch", decodeBody(t, w)["code"])

	checkout.err = &payments.ProviderError{Status: http.StatusPaymentRequired, Message: "card declined"}
	w = do(r, http.MethodPost, "/api/checkout", "", map[string]string{"planId": "pro_monthly"})
	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.Equal(t, "card declined", decodeBody(t, w)["message"])
}

func TestStripeWebhook(t *testing.T) {
	r := newRouter()
	r.POST("/ok", StripeWebhook(fakeWebhooks{}))
	r.POST("/bad", StripeWebhook(fakeWebhooks{err: apperror.BadRequest("bad_signature", "Invalid signature")}))
	r.POST("/off", StripeWebhook(nil))

	w := do(r, http.MethodPost, "/ok", "", `{"type":"checkout.session.completed"}`)
	assert.JSONEq(t, `{"received":true}`, w.Body.String())

	w = do(r, http.MethodPost, "/bad", "", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/off", "", `{}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

// profile, stats, admin

func TestProfileEndpoints(t *testing.T) {
	store := newFakeProfiles()
	r := newRouter()
	api := r.Group("/api", middleware.RequireUser())
	api.GET("/profile", GetProfile(store))
	api.PATCH("/profile", UpdateProfile(store))
	api.GET("/stats", GetStats(store))

	w := do(r, http.MethodGet, "/api/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token := bearer(t, anaID)
	w = do(r, http.MethodGet, "/api/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, false, body["proActive"])

	w = do(r, http.MethodPatch, "/api/profile", token, map[string]string{"displayName": "Ana B"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Ana B", store.profiles[anaID].DisplayName)

	w = do(r, http.MethodPatch, "/api/profile", token, map[string]string{"displayName": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodGet, "/api/stats", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRecordGame(t *testing.T) {
	store := newFakeProfiles()
	r := newRouter()
	r.POST("/api/stats/games", middleware.RequireUser(), RecordGame(store, gamesessions.NewService(gamesessions.NewMemoryStore(time.Hour), registry.Default())))
	token := bearer(t, anaID)

	w := do(r, http.MethodPost, "/api/stats/games", token, map[string]any{"game": "taboo", "won": true, "points": 12})
	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, store.recorded, 1)
	assert.Equal(t, profiles.GameResult{Game: "taboo", Won: true, Points: 12}, store.recorded[0])

	w = do(r, http.MethodPost, "/api/stats/games", token, map[string]any{"game": "charades"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Len(t, store.recorded, 1)
}

func TestProGrants(t *testing.T) {
	store := newFakeProfiles()
	r := newRouter()
	r.GET("/grants", ListProGrants(store))
	r.POST("/grants", CreateProGrant(store))
	token := bearer(t, anaID)

	w := do(r, http.MethodGet, "/grants?limit=5", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, store.limit)

	w = do(r, http.MethodPost, "/grants", token, map[string]string{"userId": uuid.NewString(), "reason": "beta tester"})
	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, store.grants, 1)
	assert.Equal(t, anaID, store.grants[0].GrantedBy)

	w = do(r, http.MethodPost, "/grants", token, map[string]string{"userId": "nope", "reason": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/grants", token, map[string]string{"userId": benID.String(), "reason": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// games

const tabooSetup = `{"players":["ana","ben","cai","dee"],"rounds":1,"seed":7}`

func gameRouter(t *testing.T) (*gin.Engine, *fakeRooms) {
	t.Helper()
	svc := gamesessions.NewService(gamesessions.NewMemoryStore(time.Hour), registry.Default())
	rooms := &fakeRooms{}
	r := newRouter()
	r.GET("/api/games", ListGames(svc))
	r.POST("/api/games/:game/sessions", CreateGameSession(svc))
	r.GET("/api/games/sessions/:id", GetGameSession(svc))
	r.POST("/api/games/sessions/:id/actions", ApplyGameAction(svc, rooms))
	r.DELETE("/api/games/sessions/:id", EndGameSession(svc, rooms))
	return r, rooms
}

func TestGameSessionFlow(t *testing.T) {
	r, rooms := gameRouter(t)

	w := do(r, http.MethodGet, "/api/games", "", nil)
	assert.JSONEq(t, `{"games":["taboo","trivia"]}`, w.Body.String())

	w = do(r, http.MethodPost, "/api/games/taboo/sessions", "", tabooSetup)
	require.Equal(t, http.StatusCreated, w.Code)
	id := decodeBody(t, w)["id"].(string)

	w = do(r, http.MethodPost, "/api/games/sessions/"+id+"/actions", "", `{"type":"start"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decodeBody(t, w)["version"])
	assert.Equal(t, []emitted{{id, "game_state"}}, rooms.events)

	w = do(r, http.MethodGet, "/api/games/sessions/"+id, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodDelete, "/api/games/sessions/"+id, "", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "session_ended", rooms.events[1].event)

	w = do(r, http.MethodGet, "/api/games/sessions/"+id, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "session_not_found", decodeBody(t, w)["code"])
}

func TestGameSessionErrors(t *testing.T) {
	r, rooms := gameRouter(t)

	w := do(r, http.MethodPost, "/api/games/charades/sessions", "", `{}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "unknown_game", decodeBody(t, w)["code"])

	w = do(r, http.MethodPost, "/api/games/taboo/sessions", "", `{"players":["solo"]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "not_enough_players", decodeBody(t, w)["code"])

	w = do(r, http.MethodPost, "/api/games/taboo/sessions", "", tabooSetup)
	id := decodeBody(t, w)["id"].(string)

	w = do(r, http.MethodPost, "/api/games/sessions/"+id+"/actions", "", `{"type":"correct"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "invalid_action", body["code"])
	assert.Equal(t, "That move isn't available right now.", body["message"])
	assert.Empty(t, rooms.events)

	w = do(r, http.MethodPost, "/api/games/sessions/"+id+"/actions", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEndGameSessionOwnerOnly(t *testing.T) {
	r, _ := gameRouter(t)
	owner := bearer(t, anaID)

	w := do(r, http.MethodPost, "/api/games/taboo/sessions", owner, tabooSetup)
	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	id := body["id"].(string)
	assert.Equal(t, anaID.String(), body["ownerId"])

	w = do(r, http.MethodDelete, "/api/games/sessions/"+id, "", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(r, http.MethodDelete, "/api/games/sessions/"+id, bearer(t, benID), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(r, http.MethodDelete, "/api/games/sessions/"+id, owner, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

// static

func TestFrontend(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>app</html>"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "assets"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "assets", "app.1234.js"), []byte("js"), 0o644))

	r := newRouter()
	r.NoRoute(Frontend(dir))

	w := do(r, http.MethodGet, "/assets/app.1234.js", "", nil)
	assert.Equal(t, "js", w.Body.String())
	assert.Contains(t, w.Header().Get("Cache-Control"), "immutable")

	w = do(r, http.MethodGet, "/games/taboo", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "app")

	w = do(r, http.MethodGet, "/../../etc/passwd", "", nil)
	assert.Contains(t, w.Body.String(), "app")

	w = do(r, http.MethodGet, "/api/nothing", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	r = newRouter()
	r.NoRoute(Frontend(""))
	w = do(r, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
