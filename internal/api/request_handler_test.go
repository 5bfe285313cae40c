package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/devtalkx/backend/internal/domain"
	"github.com/devtalkx/backend/internal/middleware"
)

// stubConnectionRepo keeps one record set behind all repository methods,
// so PairExists, PromotePending and CreateRequest observe the same state
// a real store would.
type stubConnectionRepo struct {
	mu      sync.Mutex
	records map[uuid.UUID]*domain.ConnectionRequest
}

func newStubConnectionRepo(seed ...*domain.ConnectionRequest) *stubConnectionRepo {
	s := &stubConnectionRepo{records: make(map[uuid.UUID]*domain.ConnectionRequest)}
	for _, r := range seed {
		s.records[r.ID] = r
	}
	return s
}

func (s *stubConnectionRepo) CreateRequest(ctx context.Context, fromID, toID uuid.UUID, status domain.ConnectionStatus) (*domain.ConnectionRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.records {
		if (r.FromUserID == fromID && r.ToUserID == toID) || (r.FromUserID == toID && r.ToUserID == fromID) {
			return nil, domain.ErrDuplicatePair
		}
	}
	req := &domain.ConnectionRequest{ID: uuid.New(), FromUserID: fromID, ToUserID: toID, Status: status}
	s.records[req.ID] = req
	return req, nil
}

func (s *stubConnectionRepo) PairExists(ctx context.Context, a, b uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.records {
		if (r.FromUserID == a && r.ToUserID == b) || (r.FromUserID == b && r.ToUserID == a) {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubConnectionRepo) PromotePending(ctx context.Context, fromID, toID uuid.UUID) (*domain.ConnectionRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.records {
		if r.FromUserID == fromID && r.ToUserID == toID && r.Status == domain.ConnectionStatusInterested {
			r.Status = domain.ConnectionStatusAccepted
			return r, nil
		}
	}
	return nil, domain.ErrNoPendingRequest
}

func (s *stubConnectionRepo) Review(ctx context.Context, requestID, reviewerID uuid.UUID, decision domain.ConnectionStatus) (*domain.ConnectionRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[requestID]
	if !ok || r.ToUserID != reviewerID || r.Status != domain.ConnectionStatusInterested {
		return nil, domain.ErrRequestNotReviewable
	}
	r.Status = decision
	return r, nil
}

func (s *stubConnectionRepo) PendingReceived(ctx context.Context, userID uuid.UUID) ([]*domain.ConnectionRequest, error) {
	return nil, nil
}

func (s *stubConnectionRepo) Accepted(ctx context.Context, userID uuid.UUID) ([]*domain.ConnectionRequest, error) {
	return nil, nil
}

func (s *stubConnectionRepo) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

type stubUserRepo struct{ known map[uuid.UUID]bool }

func (s *stubUserRepo) CreateUser(ctx context.Context, params domain.CreateUserParams) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (s *stubUserRepo) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if s.known[id] {
		return &domain.User{ID: id, FirstName: "Stub"}, nil
	}
	return nil, domain.ErrUserNotFound
}

func (s *stubUserRepo) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (s *stubUserRepo) GetUserByGoogleID(ctx context.Context, googleID string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (s *stubUserRepo) UpdateProfile(ctx context.Context, id uuid.UUID, update domain.ProfileUpdate) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (s *stubUserRepo) UserExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.known[id], nil
}

func (s *stubUserRepo) Feed(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.UserCard, error) {
	return nil, nil
}

// authAs injects a session identity the way the auth middleware does.
func authAs(userID uuid.UUID) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), middleware.UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func newRequestTestServer(actorID uuid.UUID, conns *stubConnectionRepo, users *stubUserRepo) *chi.Mux {
	svc := domain.NewConnectionService(conns, users, nil)
	handler := NewRequestHandler(svc, zap.NewNop())

	r := chi.NewRouter()
	r.Use(authAs(actorID))
	r.Post("/request/send/{status}/{toUserId}", handler.Send)
	r.Post("/request/review/{status}/{requestId}", handler.Review)
	return r
}

type envelopeBody struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Match   *bool           `json:"match"`
	Data    json.RawMessage `json:"data"`
}

func doPost(t *testing.T, mux *chi.Mux, path string) (int, envelopeBody) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	var body envelopeBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return rec.Code, body
}

func TestSendInterestedReturnsMatchFalse(t *testing.T) {
	actor, target := uuid.New(), uuid.New()
	conns := newStubConnectionRepo()
	mux := newRequestTestServer(actor, conns, &stubUserRepo{known: map[uuid.UUID]bool{target: true}})

	code, body := doPost(t, mux, "/request/send/interested/"+target.String())
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if !body.Success {
		t.Fatal("expected success envelope")
	}
	if body.Match == nil || *body.Match {
		t.Fatalf("expected match=false, got %v", body.Match)
	}
	if conns.count() != 1 {
		t.Fatalf("expected one record, got %d", conns.count())
	}
}

func TestSendInstantMatchReturnsMatchTrue(t *testing.T) {
	actor, target := uuid.New(), uuid.New()
	pending := &domain.ConnectionRequest{
		ID: uuid.New(), FromUserID: target, ToUserID: actor,
		Status: domain.ConnectionStatusInterested,
	}
	conns := newStubConnectionRepo(pending)
	mux := newRequestTestServer(actor, conns, &stubUserRepo{known: map[uuid.UUID]bool{target: true, actor: true}})

	code, body := doPost(t, mux, "/request/send/interested/"+target.String())
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if body.Match == nil || !*body.Match {
		t.Fatalf("expected match=true, got %v", body.Match)
	}

	var data domain.ConnectionRequest
	if err := json.Unmarshal(body.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.ID != pending.ID {
		t.Fatal("the existing pending record must be promoted, not replaced")
	}
	if data.Status != domain.ConnectionStatusAccepted {
		t.Fatalf("expected accepted record, got %s", data.Status)
	}
	if conns.count() != 1 {
		t.Fatalf("expected exactly one record, got %d", conns.count())
	}
}

func TestSendRejectsBadInput(t *testing.T) {
	actor, target := uuid.New(), uuid.New()
	conns := newStubConnectionRepo()
	users := &stubUserRepo{known: map[uuid.UUID]bool{target: true, actor: true}}
	mux := newRequestTestServer(actor, conns, users)

	cases := []struct {
		name string
		path string
		want int
	}{
		{"invalid action", "/request/send/accepted/" + target.String(), http.StatusBadRequest},
		{"malformed target id", "/request/send/interested/not-a-uuid", http.StatusBadRequest},
		{"self target", "/request/send/interested/" + actor.String(), http.StatusBadRequest},
		{"unknown target", "/request/send/interested/" + uuid.New().String(), http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, body := doPost(t, mux, tc.path)
			if code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, code)
			}
			if body.Success {
				t.Fatal("expected failure envelope")
			}
		})
	}
	if conns.count() != 0 {
		t.Fatal("rejected swipes must not persist anything")
	}
}

func TestSendDuplicatePairReturns400(t *testing.T) {
	actor, target := uuid.New(), uuid.New()
	// An ignored record in either direction occupies the pair; only a
	// reverse interested record promotes instead.
	conns := newStubConnectionRepo(&domain.ConnectionRequest{
		ID: uuid.New(), FromUserID: target, ToUserID: actor,
		Status: domain.ConnectionStatusIgnored,
	})
	mux := newRequestTestServer(actor, conns, &stubUserRepo{known: map[uuid.UUID]bool{target: true}})

	code, body := doPost(t, mux, "/request/send/interested/"+target.String())
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
	if body.Success {
		t.Fatal("expected failure envelope")
	}
	if conns.count() != 1 {
		t.Fatalf("expected the seeded record only, got %d", conns.count())
	}
}

func TestReviewAcceptedRequest(t *testing.T) {
	reviewer, sender := uuid.New(), uuid.New()
	pending := &domain.ConnectionRequest{
		ID: uuid.New(), FromUserID: sender, ToUserID: reviewer,
		Status: domain.ConnectionStatusInterested,
	}
	conns := newStubConnectionRepo(pending)
	mux := newRequestTestServer(reviewer, conns, &stubUserRepo{})

	code, body := doPost(t, mux, "/request/review/accepted/"+pending.ID.String())
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if !body.Success {
		t.Fatal("expected success envelope")
	}

	var data domain.ConnectionRequest
	if err := json.Unmarshal(body.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.Status != domain.ConnectionStatusAccepted {
		t.Fatalf("expected accepted, got %s", data.Status)
	}
}

func TestReviewUnreviewableReturns404(t *testing.T) {
	reviewer, sender := uuid.New(), uuid.New()
	settled := &domain.ConnectionRequest{
		ID: uuid.New(), FromUserID: sender, ToUserID: reviewer,
		Status: domain.ConnectionStatusAccepted,
	}
	conns := newStubConnectionRepo(settled)
	mux := newRequestTestServer(reviewer, conns, &stubUserRepo{})

	for name, id := range map[string]uuid.UUID{
		"already settled": settled.ID,
		"unknown id":      uuid.New(),
	} {
		t.Run(name, func(t *testing.T) {
			code, body := doPost(t, mux, "/request/review/accepted/"+id.String())
			if code != http.StatusNotFound {
				t.Fatalf("expected 404, got %d", code)
			}
			if body.Message != "Request invalid or already compiled." {
				t.Fatalf("unexpected message %q", body.Message)
			}
		})
	}
}

func TestReviewInvalidDecisionReturns400(t *testing.T) {
	mux := newRequestTestServer(uuid.New(), newStubConnectionRepo(), &stubUserRepo{})

	code, _ := doPost(t, mux, "/request/review/interested/"+uuid.New().String())
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
}
