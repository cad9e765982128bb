package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	mw "github.com/SeoyeongHwang/AugmentedSelf-v0/internal/api/middleware"
	"github.com/SeoyeongHwang/AugmentedSelf-v0/internal/domain"
	"github.com/SeoyeongHwang/AugmentedSelf-v0/internal/events"
	"github.com/SeoyeongHwang/AugmentedSelf-v0/internal/llm"
	"github.com/SeoyeongHwang/AugmentedSelf-v0/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testServer struct {
	router http.Handler
	issuer *mw.TokenIssuer
	store  *memStore
	llm    *llm.MockClient
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := zap.NewNop()
	st := newMemStore()
	completer := llm.NewMockClient()
	issuer := mw.NewTokenIssuer("handler-test-secret")
	ev := events.Noop{}

	cfg := service.DefaultGenerationConfig()
	cfg.Timeout = time.Second
	cfg.MaxRetries = 0

	authSvc := service.NewAuthService(memUsers{st}, issuer.SignToken, time.Hour)
	genSvc := service.NewGenerationService(completer, memCards{st}, memOnboarding{st}, ev, cfg, logger)
	cardSvc := service.NewCardService(memCards{st}, ev, logger)
	onbSvc := service.NewOnboardingService(memOnboarding{st}, ev, logger)

	authH := NewAuthHandler(authSvc)
	aspectH := NewSelfAspectHandler(genSvc)
	cardH := NewCardHandler(cardSvc)
	onbH := NewOnboardingHandler(onbSvc)

	r := chi.NewRouter()
	r.Post("/v1/auth/register", authH.Register)
	r.Post("/v1/auth/login", authH.Login)
	r.Group(func(r chi.Router) {
		r.Use(mw.JWTAuth(issuer))
		r.Get("/v1/auth/me", authH.Me)
		r.Post("/v1/self-aspects", aspectH.Generate)
		r.Post("/v1/analyze-content", aspectH.Analyze)
		r.Get("/v1/cards", cardH.List)
		r.Put("/v1/cards/{id}/status", cardH.UpdateStatus)
		r.Get("/v1/onboarding", onbH.Get)
		r.Post("/v1/onboarding/complete", onbH.Complete)
	})

	return &testServer{router: r, issuer: issuer, store: st, llm: completer}
}

// newUser inserts a user directly and returns a bearer token for it.
func (s *testServer) newUser(t *testing.T, email string) (uuid.UUID, string) {
	t.Helper()
	u := &domain.User{Email: email, PassHash: []byte("x")}
	require.NoError(t, memUsers{s.store}.Create(context.Background(), u))
	tok, err := s.issuer.SignToken(u.ID, email, time.Hour)
	require.NoError(t, err)
	return u.ID, tok
}

func (s *testServer) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr *bytes.Reader
	if body != "" {
		rdr = bytes.NewReader([]byte(body))
	} else {
		rdr = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

type cardsResponse struct {
	Cards  []domain.SelfAspectCard `json:"cards"`
	Source string                  `json:"source"`
}

func TestAuth_RegisterLoginMe(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(t, http.MethodPost, "/v1/auth/register", "", `{"email":"New@Example.com","password":"longenough"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	reg := decodeBody[service.AuthResult](t, rr)
	assert.NotEmpty(t, reg.Token)
	assert.Equal(t, "new@example.com", reg.User.Email)
	assert.NotContains(t, rr.Body.String(), "pass_hash")

	rr = s.do(t, http.MethodPost, "/v1/auth/register", "", `{"email":"new@example.com","password":"longenough"}`)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = s.do(t, http.MethodPost, "/v1/auth/login", "", `{"email":"new@example.com","password":"wrong-password"}`)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = s.do(t, http.MethodPost, "/v1/auth/login", "", `{"email":"new@example.com","password":"longenough"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	login := decodeBody[service.AuthResult](t, rr)

	rr = s.do(t, http.MethodGet, "/v1/auth/me", login.Token, "")
	require.Equal(t, http.StatusOK, rr.Code)
	me := decodeBody[domain.User](t, rr)
	assert.Equal(t, reg.User.ID, me.ID)
}

func TestAuth_RegisterValidation(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"malformed", `{"email":`},
		{"missing password", `{"email":"a@example.com"}`},
		{"bad email", `{"email":"not-an-email","password":"longenough"}`},
		{"short password", `{"email":"a@example.com","password":"short"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := s.do(t, http.MethodPost, "/v1/auth/register", "", tt.body)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Contains(t, rr.Body.String(), `"error"`)
		})
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)
	for _, path := range []string{"/v1/cards", "/v1/onboarding", "/v1/auth/me"} {
		rr := s.do(t, http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code, path)
	}
}

func TestGenerate_Mock(t *testing.T) {
	s := newTestServer(t)
	_, tok := s.newUser(t, "a@example.com")

	rr := s.do(t, http.MethodPost, "/v1/self-aspects", tok, `{"mock":true}`)
	require.Equal(t, http.StatusOK, rr.Code)
	res := decodeBody[cardsResponse](t, rr)
	assert.Len(t, res.Cards, 3)
	assert.Equal(t, string(service.SourceMock), res.Source)
	assert.Equal(t, 0, s.llm.CallCount())
}

func TestGenerate_OnboardingFromData(t *testing.T) {
	s := newTestServer(t)
	_, tok := s.newUser(t, "a@example.com")

	body := `{"data":{"social":{"age":"29"},"personal":{"personalityItems":[{"id":"openness1","score":7}]},"context":{"diary":"I paint at night."}}}`
	rr := s.do(t, http.MethodPost, "/v1/self-aspects", tok, body)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	res := decodeBody[cardsResponse](t, rr)
	require.Len(t, res.Cards, 1)
	assert.Equal(t, "Mock Aspect", res.Cards[0].Title)
	assert.Equal(t, string(service.SourceModel), res.Source)

	require.Len(t, s.llm.Calls, 1)
	assert.Contains(t, s.llm.Calls[0].User, "- Age: 29")
	assert.Contains(t, s.llm.Calls[0].User, "I paint at night.")
	assert.Contains(t, s.llm.Calls[0].User, "exactly 3 self-aspect cards")
	assert.Empty(t, s.store.cards, "preview cards are not saved")
}

func TestGenerate_JournalWhenContentSet(t *testing.T) {
	s := newTestServer(t)
	_, tok := s.newUser(t, "a@example.com")

	rr := s.do(t, http.MethodPost, "/v1/self-aspects", tok, `{"content":"Ran my first 10k today."}`)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, s.llm.Calls, 1)
	assert.Contains(t, s.llm.Calls[0].User, "Journal Entry Content (C):\nRan my first 10k today.")
}

func TestGenerate_ParseFailureIsNotAnError(t *testing.T) {
	s := newTestServer(t)
	_, tok := s.newUser(t, "a@example.com")
	s.llm.Response = "sorry, I cannot help with that"

	rr := s.do(t, http.MethodPost, "/v1/self-aspects", tok, `{}`)
	require.Equal(t, http.StatusOK, rr.Code)
	res := decodeBody[cardsResponse](t, rr)
	require.Len(t, res.Cards, 1)
	assert.Equal(t, "Error Processing Response", res.Cards[0].Title)
}

func TestGenerate_EmptyBodyAllowed(t *testing.T) {
	s := newTestServer(t)
	_, tok := s.newUser(t, "a@example.com")

	rr := s.do(t, http.MethodPost, "/v1/self-aspects", tok, "")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestGenerate_BodyTooLarge(t *testing.T) {
	s := newTestServer(t)
	_, tok := s.newUser(t, "a@example.com")

	body := `{"content":"` + strings.Repeat("a", maxBodyBytes) + `"}`
	rr := s.do(t, http.MethodPost, "/v1/self-aspects", tok, body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
}

func TestAnalyze(t *testing.T) {
	s := newTestServer(t)
	uid, tok := s.newUser(t, "a@example.com")

	rr := s.do(t, http.MethodPost, "/v1/analyze-content", tok, `{"content":"   "}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = s.do(t, http.MethodPost, "/v1/analyze-content", tok, `{"content":"Today I argued less."}`)
	assert.Equal(t, http.StatusConflict, rr.Code, "onboarding required first")

	require.NoError(t, memOnboarding{s.store}.Upsert(context.Background(), &domain.OnboardingRecord{
		UserID: uid,
		Social: domain.SocialIdentity{Occupation: "Librarian"},
	}))

	rr = s.do(t, http.MethodPost, "/v1/analyze-content", tok, `{"content":"Today I argued less."}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	res := decodeBody[cardsResponse](t, rr)
	require.Len(t, res.Cards, 1)
	assert.Contains(t, s.llm.Calls[0].User, "- Occupation: Librarian")

	stored, ok := s.store.cards[res.Cards[0].ID]
	require.True(t, ok, "journal cards are saved")
	assert.Equal(t, uid, stored.UserID)
	assert.Equal(t, domain.CardStatusNew, stored.Status)
}

func seedCard(t *testing.T, s *testServer, userID uuid.UUID, title string, status domain.CardStatus) domain.SelfAspectCard {
	t.Helper()
	now := time.Now().UTC()
	c := domain.SelfAspectCard{
		ID: uuid.New(), UserID: userID, Title: title, Description: "d",
		Traits: []string{"t"}, Status: status, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, memCards{s.store}.CreateBatch(context.Background(), []domain.SelfAspectCard{c}))
	return c
}

func TestCards_List(t *testing.T) {
	s := newTestServer(t)
	uid, tok := s.newUser(t, "a@example.com")
	other, _ := s.newUser(t, "b@example.com")

	seedCard(t, s, uid, "A", domain.CardStatusNew)
	seedCard(t, s, uid, "B", domain.CardStatusCollected)
	seedCard(t, s, other, "C", domain.CardStatusNew)

	rr := s.do(t, http.MethodGet, "/v1/cards", tok, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decodeBody[cardsResponse](t, rr).Cards, 2)

	rr = s.do(t, http.MethodGet, "/v1/cards?status=collected", tok, "")
	require.Equal(t, http.StatusOK, rr.Code)
	got := decodeBody[cardsResponse](t, rr).Cards
	require.Len(t, got, 1)
	assert.Equal(t, "B", got[0].Title)

	rr = s.do(t, http.MethodGet, "/v1/cards?status=archived", tok, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCards_ListEmptyIsArray(t *testing.T) {
	s := newTestServer(t)
	_, tok := s.newUser(t, "a@example.com")

	rr := s.do(t, http.MethodGet, "/v1/cards", tok, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"cards":[]}`, rr.Body.String())
}

func TestCards_UpdateStatus(t *testing.T) {
	s := newTestServer(t)
	uid, tok := s.newUser(t, "a@example.com")
	other, _ := s.newUser(t, "b@example.com")

	card := seedCard(t, s, uid, "A", domain.CardStatusNew)
	foreign := seedCard(t, s, other, "F", domain.CardStatusNew)

	tests := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{"bad id", "/v1/cards/not-a-uuid/status", `{"status":"collected"}`, http.StatusBadRequest},
		{"bad status", "/v1/cards/" + card.ID.String() + "/status", `{"status":"archived"}`, http.StatusBadRequest},
		{"unknown card", "/v1/cards/" + uuid.NewString() + "/status", `{"status":"collected"}`, http.StatusNotFound},
		{"other user's card", "/v1/cards/" + foreign.ID.String() + "/status", `{"status":"collected"}`, http.StatusNotFound},
		{"collect", "/v1/cards/" + card.ID.String() + "/status", `{"status":"collected"}`, http.StatusOK},
		{"collect again", "/v1/cards/" + card.ID.String() + "/status", `{"status":"collected"}`, http.StatusOK},
		{"back to new", "/v1/cards/" + card.ID.String() + "/status", `{"status":"new"}`, http.StatusConflict},
		{"reject", "/v1/cards/" + card.ID.String() + "/status", `{"status":"rejected"}`, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := s.do(t, http.MethodPut, tt.path, tok, tt.body)
			assert.Equal(t, tt.status, rr.Code, rr.Body.String())
		})
	}

	assert.Equal(t, domain.CardStatusRejected, s.store.cards[card.ID].Status)
	assert.Equal(t, domain.CardStatusNew, s.store.cards[foreign.ID].Status)
}

func TestOnboarding_CompleteAndGet(t *testing.T) {
	s := newTestServer(t)
	uid, tok := s.newUser(t, "a@example.com")

	rr := s.do(t, http.MethodGet, "/v1/onboarding", tok, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	body := `{
		"data": {
			"social_data": {"age": "41", "occupation": "Chef"},
			"personal_data": {"valueItems": [{"id": "benevolence", "score": 6}]},
			"context": {"contexts": [{"type": "text", "content": "I cook for my neighbours."}, {"type": "text", "content": "  "}]}
		},
		"cards": [
			{"title": "Generous Host", "description": "Feeds people.", "traits": ["Warm"], "status": "collected"},
			{"title": "Night Owl", "description": "Works late.", "traits": ["Driven"], "status": "rejected"},
			{"title": "Undecided", "description": "Skipped.", "traits": ["?"], "status": "new"}
		]
	}`
	rr = s.do(t, http.MethodPost, "/v1/onboarding/complete", tok, body)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var res service.CompleteResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	assert.Len(t, res.Cards, 2)
	require.Len(t, res.Contexts, 1)
	assert.Equal(t, "I cook for my neighbours.", res.Contexts[0].Content)
	assert.Len(t, s.store.cards, 2)
	assert.True(t, s.store.users[uid].OnboardingCompleted)

	rr = s.do(t, http.MethodGet, "/v1/onboarding", tok, "")
	require.Equal(t, http.StatusOK, rr.Code)
	rec := decodeBody[domain.OnboardingRecord](t, rr)
	assert.Equal(t, "Chef", rec.Social.Occupation)
	require.Len(t, rec.Personal.ValueItems, 1)
	assert.Equal(t, 6, rec.Personal.ValueItems[0].Score)
}

func TestOnboarding_CompleteValidation(t *testing.T) {
	s := newTestServer(t)
	_, tok := s.newUser(t, "a@example.com")

	decided := `[{"title":"A","description":"d","traits":["t"],"status":"collected"}]`
	tests := []struct {
		name string
		body string
	}{
		{"no decided cards", `{"data":{},"cards":[{"title":"A","status":"new"}]}`},
		{"no cards", `{"data":{}}`},
		{"too many contexts", `{"data":{"context":{"contexts":[{"content":"1"},{"content":"2"},{"content":"3"},{"content":"4"}]}},"cards":` + decided + `}`},
		{"bad context type", `{"data":{"context":{"contexts":[{"type":"video","content":"x"}]}},"cards":` + decided + `}`},
		{"untitled decided card", `{"data":{},"cards":[{"title":" ","status":"rejected"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := s.do(t, http.MethodPost, "/v1/onboarding/complete", tok, tt.body)
			assert.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())
		})
	}
	assert.Empty(t, s.store.cards)
}

func TestOnboarding_CompleteResubmitted(t *testing.T) {
	s := newTestServer(t)
	_, tok := s.newUser(t, "again@example.com")

	body := `{
		"data": {"context": {"contexts": [{"type": "text", "content": "I run at dawn."}]}},
		"cards": [{"id": "0190a7f4-5c1e-7000-8000-000000000001", "title": "A", "description": "d", "traits": ["t"], "status": "collected"}]
	}`
	rr := s.do(t, http.MethodPost, "/v1/onboarding/complete", tok, body)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = s.do(t, http.MethodPost, "/v1/onboarding/complete", tok, body)
	assert.Equal(t, http.StatusConflict, rr.Code, rr.Body.String())
	assert.Len(t, s.store.contexts, 1)
	assert.Len(t, s.store.cards, 1)
}

func TestOnboarding_CompleteUnknownUser(t *testing.T) {
	s := newTestServer(t)
	tok, err := s.issuer.SignToken(uuid.New(), "ghost@example.com", time.Hour)
	require.NoError(t, err)

	rr := s.do(t, http.MethodPost, "/v1/onboarding/complete", tok,
		`{"data":{},"cards":[{"title":"A","description":"d","traits":["t"],"status":"collected"}]}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
