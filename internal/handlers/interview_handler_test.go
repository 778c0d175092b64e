package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"interviewai/interview/internal/access"
	"interviewai/interview/internal/invite"
	"interviewai/interview/internal/models"
	"interviewai/interview/internal/questiongen"
	"interviewai/interview/internal/repositories"
	"interviewai/interview/internal/utils"
)

const testSecret = "test-secret"

// mockStore is an in-memory record store shared by the handler tests.
type mockStore struct {
	mu         sync.Mutex
	interviews map[string]*models.Interview
	createErr  error
}

func newMockStore(interviews ...*models.Interview) *mockStore {
	s := &mockStore{interviews: make(map[string]*models.Interview)}
	for _, iv := range interviews {
		s.interviews[iv.ID] = iv
	}
	return s
}

func (s *mockStore) Create(_ context.Context, interview *models.Interview) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	if interview.ID == "" {
		interview.ID = "generated-id"
	}
	s.interviews[interview.ID] = interview
	return nil
}

func (s *mockStore) GetByID(_ context.Context, id string) (*models.Interview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	iv, ok := s.interviews[id]
	if !ok {
		return nil, repositories.ErrInterviewNotFound
	}
	copied := *iv
	return &copied, nil
}

func (s *mockStore) GetByOwner(_ context.Context, ownerID string) ([]models.Interview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Interview
	for _, iv := range s.interviews {
		if iv.OwnerID == ownerID {
			out = append(out, *iv)
		}
	}
	return out, nil
}

func (s *mockStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.interviews[id]; !ok {
		return repositories.ErrInterviewNotFound
	}
	delete(s.interviews, id)
	return nil
}

func (s *mockStore) CompleteCandidate(_ context.Context, interviewID, email string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	iv, ok := s.interviews[interviewID]
	if !ok {
		return repositories.ErrInterviewNotFound
	}
	for i := range iv.Candidates {
		if iv.Candidates[i].Email != email {
			continue
		}
		if iv.Candidates[i].Completed {
			return repositories.ErrAlreadyCompleted
		}
		iv.Candidates[i].Completed = true
		iv.Candidates[i].CompletedAt = &at
		return nil
	}
	return repositories.ErrCandidateNotFound
}

type mockGenerator struct {
	questions []string
	err       error
}

func (g *mockGenerator) GenerateQuestions(_ context.Context, _ questiongen.Params) ([]string, error) {
	return g.questions, g.err
}

type mockNotifier struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (n *mockNotifier) Send(to, _, _ string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, to)
	return n.err
}

type mockPurger struct{ deleted []string }

func (p *mockPurger) DeleteByInterview(_ context.Context, interviewID string) error {
	p.deleted = append(p.deleted, interviewID)
	return nil
}

func testInterview() *models.Interview {
	return &models.Interview{
		ID:      "iv-1",
		OwnerID: "owner-1",
		Role:    "Backend Engineer",
		Level:   "Senior",
		Type:    "Technical",
		Questions: []string{
			"Describe a production incident you debugged.",
			"How do you design for idempotency?",
		},
		Candidates: []models.Candidate{
			{Email: "alice@example.com", SessionCode: "ALICECODE1"},
			{Email: "bob@example.com", SessionCode: "BOBCODE222"},
		},
		Finalized: true,
		CreatedAt: time.Now().UTC(),
	}
}

func newTestHandler(t *testing.T, store *mockStore) (*InterviewHandler, *mockNotifier, *mockPurger) {
	t.Helper()
	notifier := &mockNotifier{}
	purger := &mockPurger{}
	logger := zap.NewNop()
	h := NewInterviewHandler(
		store,
		purger,
		&mockGenerator{questions: []string{"What is a goroutine?"}},
		invite.NewDispatcher(notifier, logger),
		access.NewResolver(store),
		access.NewGate(store, nil, logger),
		testSecret,
		logger,
	)
	return h, notifier, purger
}

func testRouter(h *InterviewHandler) http.Handler {
	r := chi.NewRouter()
	r.Post("/interviews", h.CreateInterviewHandler)
	r.Get("/interviews", h.ListInterviewsHandler)
	r.Get("/interviews/{id}", h.GetInterviewHandler)
	r.Delete("/interviews/{id}", h.DeleteInterviewHandler)
	r.Get("/interviews/{id}/candidates", h.ListCandidatesHandler)
	r.Post("/interviews/{id}/complete", h.CompleteInterviewHandler)
	return r
}

func accountToken(t *testing.T, userID string) string {
	t.Helper()
	token, err := utils.SignAccountToken(userID, testSecret, time.Hour)
	require.NoError(t, err)
	return token
}

func candidateToken(t *testing.T, email, code, interviewID string) string {
	t.Helper()
	token, err := utils.SignCandidateToken(models.CandidateSession{
		Email:       email,
		SessionCode: code,
		InterviewID: interviewID,
	}, testSecret, time.Hour)
	require.NoError(t, err)
	return token
}

func doRequest(router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateInterviewDispatchesInvites(t *testing.T) {
	store := newMockStore()
	h, notifier, _ := newTestHandler(t, store)
	router := testRouter(h)

	rec := doRequest(router, http.MethodPost, "/interviews", accountToken(t, "owner-1"), map[string]any{
		"role":   "Backend Engineer",
		"level":  "Senior",
		"type":   "Technical",
		"amount": 3,
		"emails": "alice@example.com, bob@example.com",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp createInterviewResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "owner-1", resp.Interview.OwnerID)
	assert.True(t, resp.Interview.Finalized)
	assert.Len(t, resp.Interview.Candidates, 2)
	assert.Equal(t, 2, resp.Invites.Sent)
	assert.Zero(t, resp.Invites.Failed)
	assert.ElementsMatch(t, []string{"alice@example.com", "bob@example.com"}, notifier.sent)
}

func TestCreateInterviewNoValidRecipients(t *testing.T) {
	store := newMockStore()
	h, notifier, _ := newTestHandler(t, store)
	router := testRouter(h)

	rec := doRequest(router, http.MethodPost, "/interviews", accountToken(t, "owner-1"), map[string]any{
		"role":   "Backend Engineer",
		"emails": "not-an-address, ,",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "no_valid_recipients")
	// nothing was created or sent
	assert.Empty(t, store.interviews)
	assert.Empty(t, notifier.sent)
}

func TestCreateInterviewSucceedsWhenSomeInvitesFail(t *testing.T) {
	store := newMockStore()
	h, notifier, _ := newTestHandler(t, store)
	notifier.err = errors.New("smtp unreachable")
	router := testRouter(h)

	rec := doRequest(router, http.MethodPost, "/interviews", accountToken(t, "owner-1"), map[string]any{
		"role":   "Backend Engineer",
		"emails": "alice@example.com",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp createInterviewResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Invites.Sent)
	assert.Equal(t, 1, resp.Invites.Failed)
	// the interview still exists; invites can be retried out of band
	assert.Len(t, store.interviews, 1)
}

func TestCreateInterviewRequiresAccount(t *testing.T) {
	h, _, _ := newTestHandler(t, newMockStore())
	router := testRouter(h)

	rec := doRequest(router, http.MethodPost, "/interviews", "", map[string]any{
		"role":   "Backend Engineer",
		"emails": "alice@example.com",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(router, http.MethodPost, "/interviews",
		candidateToken(t, "alice@example.com", "ALICECODE1", "iv-1"),
		map[string]any{"role": "Backend Engineer", "emails": "alice@example.com"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetInterviewOwnerSeesFullRecord(t *testing.T) {
	store := newMockStore(testInterview())
	h, _, _ := newTestHandler(t, store)
	router := testRouter(h)

	rec := doRequest(router, http.MethodGet, "/interviews/iv-1", accountToken(t, "owner-1"), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got models.Interview
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got.Candidates, 2)
	assert.Equal(t, "ALICECODE1", got.Candidates[0].SessionCode)
}

func TestGetInterviewCandidateViewHidesRoster(t *testing.T) {
	store := newMockStore(testInterview())
	h, _, _ := newTestHandler(t, store)
	router := testRouter(h)

	token := candidateToken(t, "alice@example.com", "ALICECODE1", "iv-1")
	rec := doRequest(router, http.MethodGet, "/interviews/iv-1", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "alice@example.com", body["candidateEmail"])
	assert.NotContains(t, body, "candidates")
	assert.NotContains(t, rec.Body.String(), "BOBCODE222")
}

func TestGetInterviewWrongInterviewRedirects(t *testing.T) {
	other := testInterview()
	other.ID = "iv-2"
	store := newMockStore(testInterview(), other)
	h, _, _ := newTestHandler(t, store)
	router := testRouter(h)

	// a valid session for iv-1 presented against iv-2
	token := candidateToken(t, "alice@example.com", "ALICECODE1", "iv-1")
	rec := doRequest(router, http.MethodGet, "/interviews/iv-2", token, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "wrong_interview", body["code"])
	assert.Equal(t, "iv-1", body["interviewId"])
}

func TestGetInterviewDenials(t *testing.T) {
	store := newMockStore(testInterview())
	h, _, _ := newTestHandler(t, store)
	router := testRouter(h)

	rec := doRequest(router, http.MethodGet, "/interviews/missing", accountToken(t, "owner-1"), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(router, http.MethodGet, "/interviews/iv-1", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(router, http.MethodGet, "/interviews/iv-1", accountToken(t, "someone-else"), nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// right email, wrong code: both fields must match
	token := candidateToken(t, "alice@example.com", "WRONGCODE1", "iv-1")
	rec = doRequest(router, http.MethodGet, "/interviews/iv-1", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_session")
}

func TestGetInterviewCompletedIsTerminal(t *testing.T) {
	iv := testInterview()
	done := time.Now().UTC()
	iv.Candidates[0].Completed = true
	iv.Candidates[0].CompletedAt = &done
	store := newMockStore(iv)
	h, _, _ := newTestHandler(t, store)
	router := testRouter(h)

	token := candidateToken(t, "alice@example.com", "ALICECODE1", "iv-1")
	rec := doRequest(router, http.MethodGet, "/interviews/iv-1", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"completed"`)

	// the other candidate is unaffected
	rec = doRequest(router, http.MethodGet, "/interviews/iv-1",
		candidateToken(t, "bob@example.com", "BOBCODE222", "iv-1"), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "completed")
}

func TestListInterviewsScopedToOwner(t *testing.T) {
	other := testInterview()
	other.ID = "iv-2"
	other.OwnerID = "owner-2"
	store := newMockStore(testInterview(), other)
	h, _, _ := newTestHandler(t, store)
	router := testRouter(h)

	rec := doRequest(router, http.MethodGet, "/interviews", accountToken(t, "owner-1"), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.InterviewsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, "iv-1", resp.Items[0].ID)
}

func TestListCandidatesOwnerOnly(t *testing.T) {
	store := newMockStore(testInterview())
	h, _, _ := newTestHandler(t, store)
	router := testRouter(h)

	rec := doRequest(router, http.MethodGet, "/interviews/iv-1/candidates", accountToken(t, "owner-1"), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.CandidatesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Total)

	rec = doRequest(router, http.MethodGet, "/interviews/iv-1/candidates", accountToken(t, "owner-2"), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(router, http.MethodGet, "/interviews/iv-1/candidates",
		candidateToken(t, "alice@example.com", "ALICECODE1", "iv-1"), nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDeleteInterviewPurgesFeedback(t *testing.T) {
	store := newMockStore(testInterview())
	h, _, purger := newTestHandler(t, store)
	router := testRouter(h)

	rec := doRequest(router, http.MethodDelete, "/interviews/iv-1", accountToken(t, "owner-2"), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(router, http.MethodDelete, "/interviews/iv-1", accountToken(t, "owner-1"), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"iv-1"}, purger.deleted)
	assert.Empty(t, store.interviews)
}

func TestCompleteInterviewOnceThenConflict(t *testing.T) {
	store := newMockStore(testInterview())
	h, _, _ := newTestHandler(t, store)
	router := testRouter(h)

	token := candidateToken(t, "alice@example.com", "ALICECODE1", "iv-1")
	rec := doRequest(router, http.MethodPost, "/interviews/iv-1/complete", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	iv, err := store.GetByID(context.Background(), "iv-1")
	require.NoError(t, err)
	assert.True(t, iv.Candidates[0].Completed)
	require.NotNil(t, iv.Candidates[0].CompletedAt)
	firstAt := *iv.Candidates[0].CompletedAt

	rec = doRequest(router, http.MethodPost, "/interviews/iv-1/complete", token, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "already_completed")

	// the replay did not disturb the recorded time
	iv, err = store.GetByID(context.Background(), "iv-1")
	require.NoError(t, err)
	assert.Equal(t, firstAt, *iv.Candidates[0].CompletedAt)
}

func TestCompleteInterviewRequiresCandidateSession(t *testing.T) {
	store := newMockStore(testInterview())
	h, _, _ := newTestHandler(t, store)
	router := testRouter(h)

	rec := doRequest(router, http.MethodPost, "/interviews/iv-1/complete", accountToken(t, "owner-1"), nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(router, http.MethodPost, "/interviews/iv-1/complete", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
