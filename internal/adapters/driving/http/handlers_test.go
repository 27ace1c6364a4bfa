package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/custodia-labs/vectra-core/internal/core/domain"
	"github.com/custodia-labs/vectra-core/internal/core/ports/driven"
	"github.com/custodia-labs/vectra-core/internal/core/ports/driven/mocks"
	"github.com/custodia-labs/vectra-core/internal/core/ports/driving"
)

// Mock services for testing

type mockRetrievalService struct {
	dualRetrieveFn func(ctx context.Context, userInput string, accessibleIDs []string, limit int) ([]*domain.RankedChunk, error)
	searchFn       func(ctx context.Context, userID string, req *domain.SearchRequest) (*domain.SearchResult, error)
}

func (m *mockRetrievalService) DualRetrieve(ctx context.Context, userInput string, accessibleIDs []string, limit int) ([]*domain.RankedChunk, error) {
	if m.dualRetrieveFn != nil {
		return m.dualRetrieveFn(ctx, userInput, accessibleIDs, limit)
	}
	return nil, errors.New("not implemented")
}

func (m *mockRetrievalService) Search(ctx context.Context, userID string, req *domain.SearchRequest) (*domain.SearchResult, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, userID, req)
	}
	return nil, errors.New("not implemented")
}

type mockDocService struct {
	registerFn  func(ctx context.Context, userID string, req driving.RegisterDocumentRequest) (*domain.Document, error)
	getFn       func(ctx context.Context, id string) (*domain.Document, error)
	listFn      func(ctx context.Context, limit, offset int) ([]*domain.Document, error)
	countFn     func(ctx context.Context) (int, error)
	deleteFn    func(ctx context.Context, id string) error
	reprocessFn func(ctx context.Context, id string) error
}

func (m *mockDocService) Register(ctx context.Context, userID string, req driving.RegisterDocumentRequest) (*domain.Document, error) {
	if m.registerFn != nil {
		return m.registerFn(ctx, userID, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockDocService) Get(ctx context.Context, id string) (*domain.Document, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockDocService) GetByObjectID(ctx context.Context, objectID string) (*domain.Document, error) {
	return nil, errors.New("not implemented")
}

func (m *mockDocService) List(ctx context.Context, limit, offset int) ([]*domain.Document, error) {
	if m.listFn != nil {
		return m.listFn(ctx, limit, offset)
	}
	return nil, errors.New("not implemented")
}

func (m *mockDocService) Count(ctx context.Context) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx)
	}
	return 0, errors.New("not implemented")
}

func (m *mockDocService) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return errors.New("not implemented")
}

func (m *mockDocService) Reprocess(ctx context.Context, id string) error {
	if m.reprocessFn != nil {
		return m.reprocessFn(ctx, id)
	}
	return errors.New("not implemented")
}

type mockAccessService struct {
	classifyFn      func(ctx context.Context, userID string, objectIDs []string) (*domain.AccessDecision, error)
	classifyGroupFn func(ctx context.Context, userID string, groupObjectIDs map[string][]string, token string) (*domain.AccessDecision, error)
	createGrantFn   func(ctx context.Context, grant *domain.AccessGrant) error
	deleteGrantFn   func(ctx context.Context, objectID string, principalType domain.PrincipalType, principalID string) error
	listGrantsFn    func(ctx context.Context, objectID string) ([]*domain.AccessGrant, error)
}

func (m *mockAccessService) Classify(ctx context.Context, userID string, objectIDs []string) (*domain.AccessDecision, error) {
	if m.classifyFn != nil {
		return m.classifyFn(ctx, userID, objectIDs)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAccessService) ClassifyGroup(ctx context.Context, userID string, groupObjectIDs map[string][]string, token string) (*domain.AccessDecision, error) {
	if m.classifyGroupFn != nil {
		return m.classifyGroupFn(ctx, userID, groupObjectIDs, token)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAccessService) CreateGrant(ctx context.Context, grant *domain.AccessGrant) error {
	if m.createGrantFn != nil {
		return m.createGrantFn(ctx, grant)
	}
	return errors.New("not implemented")
}

func (m *mockAccessService) DeleteGrant(ctx context.Context, objectID string, principalType domain.PrincipalType, principalID string) error {
	if m.deleteGrantFn != nil {
		return m.deleteGrantFn(ctx, objectID, principalType, principalID)
	}
	return errors.New("not implemented")
}

func (m *mockAccessService) ListGrants(ctx context.Context, objectID string) ([]*domain.AccessGrant, error) {
	if m.listGrantsFn != nil {
		return m.listGrantsFn(ctx, objectID)
	}
	return nil, errors.New("not implemented")
}

type mockProgressService struct {
	checkCompletionFn func(ctx context.Context, objectIDs []string) (*domain.CompletionReport, error)
	queueEmbeddingFn  func(ctx context.Context, objectID string) (bool, error)
}

func (m *mockProgressService) Get(ctx context.Context, objectID string) (*domain.EmbeddingProgress, error) {
	return nil, domain.ErrNotFound
}

func (m *mockProgressService) CheckCompletion(ctx context.Context, objectIDs []string) (*domain.CompletionReport, error) {
	if m.checkCompletionFn != nil {
		return m.checkCompletionFn(ctx, objectIDs)
	}
	return nil, errors.New("not implemented")
}

func (m *mockProgressService) QueueEmbedding(ctx context.Context, objectID string) (bool, error) {
	if m.queueEmbeddingFn != nil {
		return m.queueEmbeddingFn(ctx, objectID)
	}
	return false, errors.New("not implemented")
}

func (m *mockProgressService) SweepStale(ctx context.Context) (int, error) {
	return 0, nil
}

func (m *mockProgressService) RequeueAll(ctx context.Context) (int, error) {
	return 0, nil
}

type mockSettingsService struct {
	getAISettingsFn    func(ctx context.Context) (*domain.AISettings, error)
	updateAISettingsFn func(ctx context.Context, updaterID string, req driving.UpdateAISettingsRequest) (*driving.AISettingsStatus, error)
	getAIStatusFn      func(ctx context.Context) (*driving.AISettingsStatus, error)
	testConnectionFn   func(ctx context.Context) error
}

func (m *mockSettingsService) GetAISettings(ctx context.Context) (*domain.AISettings, error) {
	if m.getAISettingsFn != nil {
		return m.getAISettingsFn(ctx)
	}
	return nil, errors.New("not implemented")
}

func (m *mockSettingsService) UpdateAISettings(ctx context.Context, updaterID string, req driving.UpdateAISettingsRequest) (*driving.AISettingsStatus, error) {
	if m.updateAISettingsFn != nil {
		return m.updateAISettingsFn(ctx, updaterID, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockSettingsService) GetAIStatus(ctx context.Context) (*driving.AISettingsStatus, error) {
	if m.getAIStatusFn != nil {
		return m.getAIStatusFn(ctx)
	}
	return nil, errors.New("not implemented")
}

func (m *mockSettingsService) TestConnection(ctx context.Context) error {
	if m.testConnectionFn != nil {
		return m.testConnectionFn(ctx)
	}
	return errors.New("not implemented")
}

// mockPinger fails or succeeds on demand for readiness checks
type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(ctx context.Context) error {
	return m.err
}

// failingPingQueue wraps a task queue with a failing health check
type failingPingQueue struct {
	driven.TaskQueue
	pingErr error
}

func (q *failingPingQueue) Ping(ctx context.Context) error {
	return q.pingErr
}

// Health endpoint tests

func TestHealthHandler(t *testing.T) {
	server := &Server{version: "test"}

	req := httptest.NewRequest("GET", "/health", nil)
	rr := httptest.NewRecorder()

	server.handleHealth(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rr.Code)
	}

	var response map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response["status"] != "ok" {
		t.Errorf("expected status 'ok', got %s", response["status"])
	}
}

func TestReadyHandler(t *testing.T) {
	server := &Server{
		version:   "test",
		db:        &mockPinger{},
		taskQueue: mocks.NewMockTaskQueue(),
	}

	req := httptest.NewRequest("GET", "/ready", nil)
	rr := httptest.NewRecorder()

	server.handleReady(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rr.Code)
	}

	var response map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response["status"] != "ready" {
		t.Errorf("expected status 'ready', got %s", response["status"])
	}
}

func TestReadyHandler_DatabaseDown(t *testing.T) {
	server := &Server{
		version:   "test",
		db:        &mockPinger{err: errors.New("connection refused")},
		taskQueue: mocks.NewMockTaskQueue(),
	}

	req := httptest.NewRequest("GET", "/ready", nil)
	rr := httptest.NewRecorder()

	server.handleReady(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", rr.Code)
	}

	var response map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response["error"] != "database unreachable" {
		t.Errorf("expected error 'database unreachable', got %s", response["error"])
	}
}

func TestReadyHandler_QueueDown(t *testing.T) {
	server := &Server{
		version: "test",
		db:      &mockPinger{},
		taskQueue: &failingPingQueue{
			TaskQueue: mocks.NewMockTaskQueue(),
			pingErr:   errors.New("redis gone"),
		},
	}

	req := httptest.NewRequest("GET", "/ready", nil)
	rr := httptest.NewRecorder()

	server.handleReady(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", rr.Code)
	}

	var response map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response["error"] != "task queue unreachable" {
		t.Errorf("expected error 'task queue unreachable', got %s", response["error"])
	}
}

func TestVersionHandler(t *testing.T) {
	server := &Server{version: "1.2.3"}

	req := httptest.NewRequest("GET", "/version", nil)
	rr := httptest.NewRecorder()

	server.handleVersion(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rr.Code)
	}

	var response map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response["version"] != "1.2.3" {
		t.Errorf("expected version '1.2.3', got %s", response["version"])
	}
}

func TestWriteJSON(t *testing.T) {
	rr := httptest.NewRecorder()

	data := map[string]string{"foo": "bar"}
	writeJSON(rr, http.StatusCreated, data)

	if rr.Code != http.StatusCreated {
		t.Errorf("expected status 201, got %d", rr.Code)
	}
	if rr.Header().Get("Content-Type") != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", rr.Header().Get("Content-Type"))
	}

	var response map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response["foo"] != "bar" {
		t.Errorf("expected foo 'bar', got %s", response["foo"])
	}
}

func TestWriteError(t *testing.T) {
	rr := httptest.NewRecorder()

	writeError(rr, http.StatusBadRequest, "invalid input")

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rr.Code)
	}

	var response map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response["error"] != "invalid input" {
		t.Errorf("expected error 'invalid input', got %s", response["error"])
	}
}

// Dual retrieval handler tests

func TestHandleDualRetrieval_Unauthenticated(t *testing.T) {
	server := &Server{}

	body, _ := json.Marshal(dualRetrievalRequest{UserInput: "query"})
	req := httptest.NewRequest("POST", "/api/v1/embedding-dual-retrieval", bytes.NewBuffer(body))
	rr := httptest.NewRecorder()

	server.handleDualRetrieval(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rr.Code)
	}
}

func TestHandleDualRetrieval_InvalidJSON(t *testing.T) {
	server := &Server{}

	req := httptest.NewRequest("POST", "/api/v1/embedding-dual-retrieval", bytes.NewBufferString("invalid json"))
	authCtx := &domain.AuthContext{UserID: "user-1", Role: domain.RoleMember}
	ctx := context.WithValue(req.Context(), authContextKey, authCtx)
	req = req.WithContext(ctx)
	rr := httptest.NewRecorder()

	server.handleDualRetrieval(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rr.Code)
	}
}

func TestHandleDualRetrieval_MissingUserInput(t *testing.T) {
	server := &Server{}

	body, _ := json.Marshal(dualRetrievalRequest{DataSources: []string{"obj-1"}})
	req := httptest.NewRequest("POST", "/api/v1/embedding-dual-retrieval", bytes.NewBuffer(body))
	authCtx := &domain.AuthContext{UserID: "user-1", Role: domain.RoleMember}
	ctx := context.WithValue(req.Context(), authContextKey, authCtx)
	req = req.WithContext(ctx)
	rr := httptest.NewRecorder()

	server.handleDualRetrieval(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rr.Code)
	}

	var response map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response["error"] != "userInput is required" {
		t.Errorf("expected error 'userInput is required', got %s", response["error"])
	}
}

func TestHandleDualRetrieval_Success(t *testing.T) {
	var retrievedIDs []string
	mockAccess := &mockAccessService{
		classifyFn: func(ctx context.Context, userID string, objectIDs []string) (*domain.AccessDecision, error) {
			if userID != "user-1" {
				t.Errorf("expected user ID 'user-1', got %s", userID)
			}
			return &domain.AccessDecision{
				Accessible: []string{"obj-1", "obj-2"},
				Denied:     []string{"obj-3"},
			}, nil
		},
	}
	mockRetrieval := &mockRetrievalService{
		dualRetrieveFn: func(ctx context.Context, userInput string, accessibleIDs []string, limit int) ([]*domain.RankedChunk, error) {
			retrievedIDs = accessibleIDs
			return []*domain.RankedChunk{
				{Chunk: domain.Chunk{ID: 1, Src: "obj-1", Content: "first"}, Score: 0.92},
				{Chunk: domain.Chunk{ID: 7, Src: "obj-2", Content: "second"}, Score: 0.81},
			}, nil
		},
	}

	server := &Server{accessService: mockAccess, retrievalService: mockRetrieval}

	body, _ := json.Marshal(dualRetrievalRequest{
		UserInput:   "how do I rotate credentials",
		DataSources: []string{"obj-1", "obj-2", "obj-3"},
		Limit:       10,
	})
	req := httptest.NewRequest("POST", "/api/v1/embedding-dual-retrieval", bytes.NewBuffer(body))
	authCtx := &domain.AuthContext{UserID: "user-1", Role: domain.RoleMember}
	ctx := context.WithValue(req.Context(), authContextKey, authCtx)
	req = req.WithContext(ctx)
	rr := httptest.NewRecorder()

	server.handleDualRetrieval(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rr.Code)
	}

	var response dualRetrievalResponse
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(response.Result) != 2 {
		t.Errorf("expected 2 results, got %d", len(response.Result))
	}
	if len(response.AccessDenied) != 1 || response.AccessDenied[0] != "obj-3" {
		t.Errorf("expected accessDenied [obj-3], got %v", response.AccessDenied)
	}
	if len(retrievedIDs) != 2 {
		t.Errorf("expected retrieval over 2 accessible ids, got %v", retrievedIDs)
	}
}

func TestHandleDualRetrieval_GroupSources(t *testing.T) {
	var forwardedToken string
	mockAccess := &mockAccessService{
		classifyGroupFn: func(ctx context.Context, userID string, groupObjectIDs map[string][]string, token string) (*domain.AccessDecision, error) {
			forwardedToken = token
			return &domain.AccessDecision{Accessible: []string{"obj-9"}}, nil
		},
	}
	mockRetrieval := &mockRetrievalService{
		dualRetrieveFn: func(ctx context.Context, userInput string, accessibleIDs []string, limit int) ([]*domain.RankedChunk, error) {
			return []*domain.RankedChunk{
				{Chunk: domain.Chunk{ID: 3, Src: "obj-9", Content: "group doc"}, Score: 0.7},
			}, nil
		},
	}

	server := &Server{accessService: mockAccess, retrievalService: mockRetrieval}

	body, _ := json.Marshal(dualRetrievalRequest{
		UserInput:        "quarterly report",
		GroupDataSources: map[string][]string{"group-a": {"obj-9"}},
	})
	req := httptest.NewRequest("POST", "/api/v1/embedding-dual-retrieval", bytes.NewBuffer(body))
	req.Header.Set("Authorization", "Bearer group-token")
	authCtx := &domain.AuthContext{UserID: "user-1", Role: domain.RoleMember}
	ctx := context.WithValue(req.Context(), authContextKey, authCtx)
	req = req.WithContext(ctx)
	rr := httptest.NewRecorder()

	server.handleDualRetrieval(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rr.Code)
	}
	if forwardedToken != "group-token" {
		t.Errorf("expected bearer token to be forwarded, got %q", forwardedToken)
	}
}

func TestHandleDualRetrieval_AllDenied(t *testing.T) {
	retrievalCalled := false
	mockAccess := &mockAccessService{
		classifyFn: func(ctx context.Context, userID string, objectIDs []string) (*domain.AccessDecision, error) {
			return &domain.AccessDecision{Denied: []string{"obj-1", "obj-2"}}, nil
		},
	}
	mockRetrieval := &mockRetrievalService{
		dualRetrieveFn: func(ctx context.Context, userInput string, accessibleIDs []string, limit int) ([]*domain.RankedChunk, error) {
			retrievalCalled = true
			return nil, nil
		},
	}

	server := &Server{accessService: mockAccess, retrievalService: mockRetrieval}

	body, _ := json.Marshal(dualRetrievalRequest{
		UserInput:   "secret data",
		DataSources: []string{"obj-1", "obj-2"},
	})
	req := httptest.NewRequest("POST", "/api/v1/embedding-dual-retrieval", bytes.NewBuffer(body))
	authCtx := &domain.AuthContext{UserID: "user-1", Role: domain.RoleViewer}
	ctx := context.WithValue(req.Context(), authContextKey, authCtx)
	req = req.WithContext(ctx)
	rr := httptest.NewRecorder()

	server.handleDualRetrieval(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rr.Code)
	}
	if retrievalCalled {
		t.Error("expected retrieval to be skipped when nothing is accessible")
	}

	var response dualRetrievalResponse
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(response.Result) != 0 {
		t.Errorf("expected empty result, got %d", len(response.Result))
	}
	if len(response.AccessDenied) != 2 {
		t.Errorf("expected 2 denied ids, got %d", len(response.AccessDenied))
	}
}

func TestHandleDualRetrieval_EmbeddingsNotReady(t *testing.T) {
	mockAccess := &mockAccessService{
		classifyFn: func(ctx context.Context, userID string, objectIDs []string) (*domain.AccessDecision, error) {
			return &domain.AccessDecision{Accessible: objectIDs}, nil
		},
	}
	mockRetrieval := &mockRetrievalService{
		dualRetrieveFn: func(ctx context.Context, userInput string, accessibleIDs []string, limit int) ([]*domain.RankedChunk, error) {
			return nil, domain.ErrEmbeddingNotReady
		},
	}

	server := &Server{accessService: mockAccess, retrievalService: mockRetrieval}

	body, _ := json.Marshal(dualRetrievalRequest{
		UserInput:   "pending docs",
		DataSources: []string{"obj-1"},
	})
	req := httptest.NewRequest("POST", "/api/v1/embedding-dual-retrieval", bytes.NewBuffer(body))
	authCtx := &domain.AuthContext{UserID: "user-1", Role: domain.RoleMember}
	ctx := context.WithValue(req.Context(), authContextKey, authCtx)
	req = req.WithContext(ctx)
	rr := httptest.NewRecorder()

	server.handleDualRetrieval(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", rr.Code)
	}
	if rr.Header().Get("Retry-After") != "5" {
		t.Errorf("expected Retry-After header '5', got %q", rr.Header().Get("Retry-After"))
	}
}

func TestHandleDualRetrieval_ServiceUnavailable(t *testing.T) {
	mockAccess := &mockAccessService{
		classifyFn: func(ctx context.Context, userID string, objectIDs []string) (*domain.AccessDecision, error) {
			return &domain.AccessDecision{Accessible: objectIDs}, nil
		},
	}
	mockRetrieval := &mockRetrievalService{
		dualRetrieveFn: func(ctx context.Context, userInput string, accessibleIDs []string, limit int) ([]*domain.RankedChunk, error) {
			return nil, domain.ErrServiceUnavailable
		},
	}

	server := &Server{accessService: mockAccess, retrievalService: mockRetrieval}

	body, _ := json.Marshal(dualRetrievalRequest{
		UserInput:   "anything",
		DataSources: []string{"obj-1"},
	})
	req := httptest.NewRequest("POST", "/api/v1/embedding-dual-retrieval", bytes.NewBuffer(body))
	authCtx := &domain.AuthContext{UserID: "user-1", Role: domain.RoleMember}
	ctx := context.WithValue(req.Context(), authContextKey, authCtx)
	req = req.WithContext(ctx)
	rr := httptest.NewRecorder()

	server.handleDualRetrieval(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", rr.Code)
	}
}

func TestHandleDualRetrieval_ClassifyError(t *testing.T) {
	mockAccess := &mockAccessService{
		classifyFn: func(ctx context.Context, userID string, objectIDs []string) (*domain.AccessDecision, error) {
			return nil, errors.New("grant store down")
		},
	}

	server := &Server{accessService: mockAccess}

	body, _ := json.Marshal(dualRetrievalRequest{
		UserInput:   "anything",
		DataSources: []string{"obj-1"},
	})
	req := httptest.NewRequest("POST", "/api/v1/embedding-dual-retrieval", bytes.NewBuffer(body))
	authCtx := &domain.AuthContext{UserID: "user-1", Role: domain.RoleMember}
	ctx := context.WithValue(req.Context(), authContextKey, authCtx)
	req = req.WithContext(ctx)
	rr := httptest.NewRecorder()

	server.handleDualRetrieval(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", rr.Code)
	}
}

// Query handler tests

func TestHandleQuery_InvalidJSON(t *testing.T) {
	server := &Server{}

	req := httptest.NewRequest("POST", "/api/v1/query", bytes.NewBufferString("invalid json"))
	authCtx := &domain.AuthContext{UserID: "user-1", Role: domain.RoleMember}
	ctx := context.WithValue(req.Context(), authContextKey, authCtx)
	req = req.WithContext(ctx)
	rr := httptest.NewRecorder()

	server.handleQuery(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rr.Code)
	}
}

func TestHandleQuery_EmptyQuery(t *testing.T) {
	server := &Server{}

	body, _ := json.Marshal(domain.SearchRequest{DocumentIDs: []string{"doc-1"}})
	req := httptest.NewRequest("POST", "/api/v1/query", bytes.NewBuffer(body))
	authCtx := &domain.AuthContext{UserID: "user-1", Role: domain.RoleMember}
	ctx := context.WithValue(req.Context(), authContextKey, authCtx)
	req = req.WithContext(ctx)
	rr := httptest.NewRecorder()

	server.handleQuery(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rr.Code)
	}

	var response map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response["error"] != "query is required" {
		t.Errorf("expected error 'query is required', got %s", response["error"])
	}
}

func TestHandleQuery_Success(t *testing.T) {
	mockRetrieval := &mockRetrievalService{
		searchFn: func(ctx context.Context, userID string, req *domain.SearchRequest) (*domain.SearchResult, error) {
			if userID != "user-1" {
				t.Errorf("expected user ID 'user-1', got %s", userID)
			}
			return &domain.SearchResult{
				Results: []domain.SearchHit{
					{Type: domain.ResultTypeTextChunk, Score: 0.9, Chunk: &domain.Chunk{ID: 1, Src: "doc-1", Content: "hit"}},
				},
				TotalResults: 1,
				Mode:         domain.SearchModeHybrid,
				AccessDenied: []string{"doc-2"},
				Took:         250 * time.Millisecond,
			}, nil
		},
	}

	server := &Server{retrievalService: mockRetrieval}

	body, _ := json.Marshal(domain.SearchRequest{
		Query:       "test query",
		DocumentIDs: []string{"doc-1", "doc-2"},
	})
	req := httptest.NewRequest("POST", "/api/v1/query", bytes.NewBuffer(body))
	authCtx := &domain.AuthContext{UserID: "user-1", Role: domain.RoleMember}
	ctx := context.WithValue(req.Context(), authContextKey, authCtx)
	req = req.WithContext(ctx)
	rr := httptest.NewRecorder()

	server.handleQuery(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rr.Code)
	}

	var response queryResponse
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(response.Results) != 1 {
		t.Errorf("expected 1 result, got %d", len(response.Results))
	}
	if response.TotalResults != 1 {
		t.Errorf("expected total_results 1, got %d", response.TotalResults)
	}
	if response.SearchMode != domain.SearchModeHybrid {
		t.Errorf("expected search_mode hybrid, got %s", response.SearchMode)
	}
	if response.ProcessingTimeMs != 250 {
		t.Errorf("expected processing_time_ms 250, got %d", response.ProcessingTimeMs)
	}
	if len(response.AccessDenied) != 1 || response.AccessDenied[0] != "doc-2" {
		t.Errorf("expected access_denied [doc-2], got %v", response.AccessDenied)
	}
}

func TestHandleQuery_EmbeddingsNotReady(t *testing.T) {
	mockRetrieval := &mockRetrievalService{
		searchFn: func(ctx context.Context, userID string, req *domain.SearchRequest) (*domain.SearchResult, error) {
			return nil, domain.ErrEmbeddingNotReady
		},
	}

	server := &Server{retrievalService: mockRetrieval}

	body, _ := json.Marshal(domain.SearchRequest{Query: "q", DocumentIDs: []string{"doc-1"}})
	req := httptest.NewRequest("POST", "/api/v1/query", bytes.NewBuffer(body))
	authCtx := &domain.AuthContext{UserID: "user-1", Role: domain.RoleMember}
	ctx := context.WithValue(req.Context(), authContextKey, authCtx)
	req = req.WithContext(ctx)
	rr := httptest.NewRecorder()

	server.handleQuery(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", rr.Code)
	}
	if rr.Header().Get("Retry-After") != "5" {
		t.Errorf("expected Retry-After header '5', got %q", rr.Header().Get("Retry-After"))
	}
}

func TestHandleQuery_InvalidMode(t *testing.T) {
	mockRetrieval := &mockRetrievalService{
		searchFn: func(ctx context.Context, userID string, req *domain.SearchRequest) (*domain.SearchResult, error) {
			return nil, domain.ErrInvalidInput
		},
	}

	server := &Server{retrievalService: mockRetrieval}

	body, _ := json.Marshal(domain.SearchRequest{Query: "q", Mode: "telepathic"})
	req := httptest.NewRequest("POST", "/api/v1/query", bytes.NewBuffer(body))
	authCtx := &domain.AuthContext{UserID: "user-1", Role: domain.RoleMember}
	ctx := context.WithValue(req.Context(), authContextKey, authCtx)
	req = req.WithContext(ctx)
	rr := httptest.NewRecorder()

	server.handleQuery(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rr.Code)
	}
}

func TestHandleQuery_ServiceError(t *testing.T) {
	mockRetrieval := &mockRetrievalService{
		searchFn: func(ctx context.Context, userID string, req *domain.SearchRequest) (*domain.SearchResult, error) {
			return nil, errors.New("index unavailable")
		},
	}

	server := &Server{retrievalService: mockRetrieval}

	body, _ := json.Marshal(domain.SearchRequest{Query: "q"})
	req := httptest.NewRequest("POST", "/api/v1/query", bytes.NewBuffer(body))
	authCtx := &domain.AuthContext{UserID: "user-1", Role: domain.RoleMember}
	ctx := context.WithValue(req.Context(), authContextKey, authCtx)
	req = req.WithContext(ctx)
	rr := httptest.NewRecorder()

	server.handleQuery(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", rr.Code)
	}
}

// Document handler tests

func TestHandleRegisterDocument_Success(t *testing.T) {
	var registeredBy string
	mockDoc := &mockDocService{
		registerFn: func(ctx context.Context, userID string, req driving.RegisterDocumentRequest) (*domain.Document, error) {
			registeredBy = userID
			return &domain.Document{
				ID:           "doc-1",
				Bucket:       req.Bucket,
				Key:          req.Key,
				UserID:       userID,
				PipelineType: domain.PipelineText,
				Status:       domain.DocumentStatusRegistered,
			}, nil
		},
	}

	server := &Server{docService: mockDoc}

	body, _ := json.Marshal(driving.RegisterDocumentRequest{
		Bucket: "docs",
		Key:    "reports/q3.pdf",
	})
	req := httptest.NewRequest("POST", "/api/v1/documents", bytes.NewBuffer(body))
	authCtx := &domain.AuthContext{UserID: "user-1", Role: domain.RoleMember}
	ctx := context.WithValue(req.Context(), authContextKey, authCtx)
	req = req.WithContext(ctx)
	rr := httptest.NewRecorder()

	server.handleRegisterDocument(rr, req)

	if rr.Code != http.StatusCreated {
		t.Errorf("expected status 201, got %d", rr.Code)
	}
	if registeredBy != "user-1" {
		t.Errorf("expected registering user 'user-1', got %s", registeredBy)
	}

	var response domain.Document
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.ID != "doc-1" {
		t.Errorf("expected document ID 'doc-1', got %s", response.ID)
	}
}

func TestHandleRegisterDocument_Unauthenticated(t *testing.T) {
	server := &Server{}

	body, _ := json.Marshal(driving.RegisterDocumentRequest{Bucket: "docs", Key: "a.pdf"})
	req := httptest.NewRequest("POST", "/api/v1/documents", bytes.NewBuffer(body))
	rr := httptest.NewRecorder()

	server.handleRegisterDocument(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rr.Code)
	}
}

func TestHandleRegisterDocument_InvalidJSON(t *testing.T) {
	server := &Server{}

	req := httptest.NewRequest("POST", "/api/v1/documents", bytes.NewBufferString("invalid json"))
	authCtx := &domain.AuthContext{UserID: "user-1", Role: domain.RoleMember}
	ctx := context.WithValue(req.Context(), authContextKey, authCtx)
	req = req.WithContext(ctx)
	rr := httptest.NewRecorder()

	server.handleRegisterDocument(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rr.Code)
	}
}

func TestHandleRegisterDocument_ObjectMissing(t *testing.T) {
	mockDoc := &mockDocService{
		registerFn: func(ctx context.Context, userID string, req driving.RegisterDocumentRequest) (*domain.Document, error) {
			return nil, domain.ErrNotFound
		},
	}

	server := &Server{docService: mockDoc}

	body, _ := json.Marshal(driving.RegisterDocumentRequest{Bucket: "docs", Key: "missing.pdf"})
	req := httptest.NewRequest("POST", "/api/v1/documents", bytes.NewBuffer(body))
	authCtx := &domain.AuthContext{UserID: "user-1", Role: domain.RoleAdmin}
	ctx := context.WithValue(req.Context(), authContextKey, authCtx)
	req = req.WithContext(ctx)
	rr := httptest.NewRecorder()

	server.handleRegisterDocument(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rr.Code)
	}

	var response map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response["error"] != "object not found in storage" {
		t.Errorf("expected error 'object not found in storage', got %s", response["error"])
	}
}

func TestHandleRegisterDocument_InvalidInput(t *testing.T) {
	mockDoc := &mockDocService{
		registerFn: func(ctx context.Context, userID string, req driving.RegisterDocumentRequest) (*domain.Document, error) {
			return nil, domain.ErrInvalidInput
		},
	}

	server := &Server{docService: mockDoc}

	body, _ := json.Marshal(driving.RegisterDocumentRequest{})
	req := httptest.NewRequest("POST", "/api/v1/documents", bytes.NewBuffer(body))
	authCtx := &domain.AuthContext{UserID: "user-1", Role: domain.RoleAdmin}
	ctx := context.WithValue(req.Context(), authContextKey, authCtx)
	req = req.WithContext(ctx)
	rr := httptest.NewRecorder()

	server.handleRegisterDocument(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rr.Code)
	}
}

func TestHandleListDocuments_Defaults(t *testing.T) {
	var gotLimit, gotOffset int
	mockDoc := &mockDocService{
		listFn: func(ctx context.Context, limit, offset int) ([]*domain.Document, error) {
			gotLimit, gotOffset = limit, offset
			return []*domain.Document{
				{ID: "doc-1"},
				{ID: "doc-2"},
			}, nil
		},
		countFn: func(ctx context.Context) (int, error) {
			return 12, nil
		},
	}

	server := &Server{docService: mockDoc}

	req := httptest.NewRequest("GET", "/api/v1/documents", nil)
	rr := httptest.NewRecorder()

	server.handleListDocuments(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rr.Code)
	}
	if gotLimit != 50 || gotOffset != 0 {
		t.Errorf("expected default limit 50 offset 0, got limit %d offset %d", gotLimit, gotOffset)
	}

	var response listDocumentsResponse
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(response.Documents) != 2 {
		t.Errorf("expected 2 documents, got %d", len(response.Documents))
	}
	if response.Total != 12 {
		t.Errorf("expected total 12, got %d", response.Total)
	}
}

func TestHandleListDocuments_Pagination(t *testing.T) {
	var gotLimit, gotOffset int
	mockDoc := &mockDocService{
		listFn: func(ctx context.Context, limit, offset int) ([]*domain.Document, error) {
			gotLimit, gotOffset = limit, offset
			return nil, nil
		},
		countFn: func(ctx context.Context) (int, error) {
			return 0, nil
		},
	}

	server := &Server{docService: mockDoc}

	req := httptest.NewRequest("GET", "/api/v1/documents?limit=5&offset=10", nil)
	rr := httptest.NewRecorder()

	server.handleListDocuments(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rr.Code)
	}
	if gotLimit != 5 || gotOffset != 10 {
		t.Errorf("expected limit 5 offset 10, got limit %d offset %d", gotLimit, gotOffset)
	}
}

func TestHandleListDocuments_LimitCapped(t *testing.T) {
	var gotLimit int
	mockDoc := &mockDocService{
		listFn: func(ctx context.Context, limit, offset int) ([]*domain.Document, error) {
			gotLimit = limit
			return nil, nil
		},
		countFn: func(ctx context.Context) (int, error) {
			return 0, nil
		},
	}

	server := &Server{docService: mockDoc}

	req := httptest.NewRequest("GET", "/api/v1/documents?limit=9999", nil)
	rr := httptest.NewRecorder()

	server.handleListDocuments(rr, req)

	if gotLimit != 200 {
		t.Errorf("expected limit capped at 200, got %d", gotLimit)
	}
}

func TestHandleGetDocument_Success(t *testing.T) {
	mockDoc := &mockDocService{
		getFn: func(ctx context.Context, id string) (*domain.Document, error) {
			if id == "doc-1" {
				return &domain.Document{ID: id, Bucket: "docs", Key: "a.pdf"}, nil
			}
			return nil, domain.ErrNotFound
		},
	}

	server := &Server{docService: mockDoc}

	req := httptest.NewRequest("GET", "/api/v1/documents/doc-1", nil)
	req.SetPathValue("id", "doc-1")
	rr := httptest.NewRecorder()

	server.handleGetDocument(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rr.Code)
	}

	var response domain.Document
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.ID != "doc-1" {
		t.Errorf("expected document ID 'doc-1', got %s", response.ID)
	}
}

func TestHandleGetDocument_NotFound(t *testing.T) {
	mockDoc := &mockDocService{
		getFn: func(ctx context.Context, id string) (*domain.Document, error) {
			return nil, domain.ErrNotFound
		},
	}

	server := &Server{docService: mockDoc}

	req := httptest.NewRequest("GET", "/api/v1/documents/nonexistent", nil)
	req.SetPathValue("id", "nonexistent")
	rr := httptest.NewRecorder()

	server.handleGetDocument(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rr.Code)
	}
}

func TestHandleGetDocument_MissingID(t *testing.T) {
	server := &Server{}

	req := httptest.NewRequest("GET", "/api/v1/documents/", nil)
	rr := httptest.NewRecorder()

	server.handleGetDocument(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rr.Code)
	}
}

func TestHandleDeleteDocument_Success(t *testing.T) {
	deleted := ""
	mockDoc := &mockDocService{
		deleteFn: func(ctx context.Context, id string) error {
			deleted = id
			return nil
		},
	}

	server := &Server{docService: mockDoc}

	req := httptest.NewRequest("DELETE", "/api/v1/documents/doc-1", nil)
	req.SetPathValue("id", "doc-1")
	rr := httptest.NewRecorder()

	server.handleDeleteDocument(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rr.Code)
	}
	if deleted != "doc-1" {
		t.Errorf("expected doc-1 to be deleted, got %s", deleted)
	}

	var response map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response["status"] != "deleted" {
		t.Errorf("expected status 'deleted', got %s", response["status"])
	}
}

func TestHandleDeleteDocument_NotFound(t *testing.T) {
	mockDoc := &mockDocService{
		deleteFn: func(ctx context.Context, id string) error {
			return domain.ErrNotFound
		},
	}

	server := &Server{docService: mockDoc}

	req := httptest.NewRequest("DELETE", "/api/v1/documents/nonexistent", nil)
	req.SetPathValue("id", "nonexistent")
	rr := httptest.NewRecorder()

	server.handleDeleteDocument(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rr.Code)
	}
}

func TestHandleReprocessDocument_Success(t *testing.T) {
	reprocessed := ""
	mockDoc := &mockDocService{
		reprocessFn: func(ctx context.Context, id string) error {
			reprocessed = id
			return nil
		},
	}

	server := &Server{docService: mockDoc}

	req := httptest.NewRequest("POST", "/api/v1/documents/doc-1/reprocess", nil)
	req.SetPathValue("id", "doc-1")
	rr := httptest.NewRecorder()

	server.handleReprocessDocument(rr, req)

	if rr.Code != http.StatusAccepted {
		t.Errorf("expected status 202, got %d", rr.Code)
	}
	if reprocessed != "doc-1" {
		t.Errorf("expected doc-1 to be reprocessed, got %s", reprocessed)
	}

	var response map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response["document_id"] != "doc-1" {
		t.Errorf("expected document_id 'doc-1', got %s", response["document_id"])
	}
}

func TestHandleReprocessDocument_NotFound(t *testing.T) {
	mockDoc := &mockDocService{
		reprocessFn: func(ctx context.Context, id string) error {
			return domain.ErrNotFound
		},
	}

	server := &Server{docService: mockDoc}

	req := httptest.NewRequest("POST", "/api/v1/documents/nonexistent/reprocess", nil)
	req.SetPathValue("id", "nonexistent")
	rr := httptest.NewRecorder()

	server.handleReprocessDocument(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rr.Code)
	}
}

// Embedding progress handler tests

func TestHandleEmbeddingStatus_Success(t *testing.T) {
	mockProgress := &mockProgressService{
		checkCompletionFn: func(ctx context.Context, objectIDs []string) (*domain.CompletionReport, error) {
			if len(objectIDs) != 3 {
				t.Errorf("expected 3 ids, got %d", len(objectIDs))
			}
			return &domain.CompletionReport{
				AllComplete:       false,
				Pending:           []string{"obj-2"},
				RequiresEmbedding: []string{"obj-3"},
			}, nil
		},
	}

	server := &Server{progressService: mockProgress}

	body, _ := json.Marshal(embeddingStatusRequest{IDs: []string{"obj-1", "obj-2", "obj-3"}})
	req := httptest.NewRequest("POST", "/api/v1/embeddings/status", bytes.NewBuffer(body))
	rr := httptest.NewRecorder()

	server.handleEmbeddingStatus(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rr.Code)
	}

	var response domain.CompletionReport
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.AllComplete {
		t.Error("expected allComplete false")
	}
	if len(response.Pending) != 1 || response.Pending[0] != "obj-2" {
		t.Errorf("expected pendingIds [obj-2], got %v", response.Pending)
	}
	if len(response.RequiresEmbedding) != 1 || response.RequiresEmbedding[0] != "obj-3" {
		t.Errorf("expected requiresEmbedding [obj-3], got %v", response.RequiresEmbedding)
	}
}

func TestHandleEmbeddingStatus_EmptyIDs(t *testing.T) {
	server := &Server{}

	body, _ := json.Marshal(embeddingStatusRequest{})
	req := httptest.NewRequest("POST", "/api/v1/embeddings/status", bytes.NewBuffer(body))
	rr := httptest.NewRecorder()

	server.handleEmbeddingStatus(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rr.Code)
	}

	var response map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response["error"] != "ids are required" {
		t.Errorf("expected error 'ids are required', got %s", response["error"])
	}
}

func TestHandleEmbeddingStatus_InvalidJSON(t *testing.T) {
	server := &Server{}

	req := httptest.NewRequest("POST", "/api/v1/embeddings/status", bytes.NewBufferString("invalid json"))
	rr := httptest.NewRecorder()

	server.handleEmbeddingStatus(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rr.Code)
	}
}

func TestHandleRequeueEmbeddings_Success(t *testing.T) {
	mockProgress := &mockProgressService{
		queueEmbeddingFn: func(ctx context.Context, objectID string) (bool, error) {
			switch objectID {
			case "obj-1":
				return true, nil
			case "obj-2":
				return false, nil // already in flight
			default:
				return false, errors.New("store down")
			}
		},
	}

	server := &Server{progressService: mockProgress}

	body, _ := json.Marshal(requeueEmbeddingsRequest{IDs: []string{"obj-1", "obj-2", "obj-3"}})
	req := httptest.NewRequest("POST", "/api/v1/embeddings/requeue", bytes.NewBuffer(body))
	rr := httptest.NewRecorder()

	server.handleRequeueEmbeddings(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rr.Code)
	}

	var response requeueEmbeddingsResponse
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(response.Queued) != 1 || response.Queued[0] != "obj-1" {
		t.Errorf("expected queued [obj-1], got %v", response.Queued)
	}
	if len(response.Skipped) != 1 || response.Skipped[0] != "obj-2" {
		t.Errorf("expected skipped [obj-2], got %v", response.Skipped)
	}
	if len(response.Failed) != 1 || response.Failed[0] != "obj-3" {
		t.Errorf("expected failed [obj-3], got %v", response.Failed)
	}
}

func TestHandleRequeueEmbeddings_EmptyIDs(t *testing.T) {
	server := &Server{}

	body, _ := json.Marshal(requeueEmbeddingsRequest{})
	req := httptest.NewRequest("POST", "/api/v1/embeddings/requeue", bytes.NewBuffer(body))
	rr := httptest.NewRecorder()

	server.handleRequeueEmbeddings(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rr.Code)
	}
}

// Access grant handler tests

func TestHandleListGrants_Success(t *testing.T) {
	mockAccess := &mockAccessService{
		listGrantsFn: func(ctx context.Context, objectID string) ([]*domain.AccessGrant, error) {
			if objectID != "obj-1" {
				t.Errorf("expected object ID 'obj-1', got %s", objectID)
			}
			return []*domain.AccessGrant{
				{ObjectID: objectID, PrincipalType: domain.PrincipalUser, PrincipalID: "user-1", Permission: domain.PermissionOwner},
				{ObjectID: objectID, PrincipalType: domain.PrincipalGroup, PrincipalID: "group-a", Permission: domain.PermissionRead},
			}, nil
		},
	}

	server := &Server{accessService: mockAccess}

	req := httptest.NewRequest("GET", "/api/v1/access/grants?object_id=obj-1", nil)
	rr := httptest.NewRecorder()

	server.handleListGrants(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rr.Code)
	}

	var response []*domain.AccessGrant
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(response) != 2 {
		t.Errorf("expected 2 grants, got %d", len(response))
	}
}

func TestHandleListGrants_MissingObjectID(t *testing.T) {
	server := &Server{}

	req := httptest.NewRequest("GET", "/api/v1/access/grants", nil)
	rr := httptest.NewRecorder()

	server.handleListGrants(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rr.Code)
	}
}

func TestHandleCreateGrant_Admin(t *testing.T) {
	var created *domain.AccessGrant
	mockAccess := &mockAccessService{
		createGrantFn: func(ctx context.Context, grant *domain.AccessGrant) error {
			created = grant
			return nil
		},
	}

	server := &Server{accessService: mockAccess}

	body, _ := json.Marshal(domain.AccessGrant{
		ObjectID:      "obj-1",
		PrincipalType: domain.PrincipalUser,
		PrincipalID:   "user-2",
		Permission:    domain.PermissionRead,
	})
	req := httptest.NewRequest("POST", "/api/v1/access/grants", bytes.NewBuffer(body))
	authCtx := &domain.AuthContext{UserID: "admin-1", Role: domain.RoleAdmin}
	ctx := context.WithValue(req.Context(), authContextKey, authCtx)
	req = req.WithContext(ctx)
	rr := httptest.NewRecorder()

	server.handleCreateGrant(rr, req)

	if rr.Code != http.StatusCreated {
		t.Errorf("expected status 201, got %d", rr.Code)
	}
	if created == nil || created.PrincipalID != "user-2" {
		t.Errorf("expected grant for user-2 to be created, got %+v", created)
	}
}

func TestHandleCreateGrant_Owner(t *testing.T) {
	mockAccess := &mockAccessService{
		listGrantsFn: func(ctx context.Context, objectID string) ([]*domain.AccessGrant, error) {
			return []*domain.AccessGrant{
				{ObjectID: objectID, PrincipalType: domain.PrincipalUser, PrincipalID: "user-1", Permission: domain.PermissionOwner},
			}, nil
		},
		createGrantFn: func(ctx context.Context, grant *domain.AccessGrant) error {
			return nil
		},
	}

	server := &Server{accessService: mockAccess}

	body, _ := json.Marshal(domain.AccessGrant{
		ObjectID:      "obj-1",
		PrincipalType: domain.PrincipalGroup,
		PrincipalID:   "group-a",
		Permission:    domain.PermissionRead,
	})
	req := httptest.NewRequest("POST", "/api/v1/access/grants", bytes.NewBuffer(body))
	authCtx := &domain.AuthContext{UserID: "user-1", Role: domain.RoleMember}
	ctx := context.WithValue(req.Context(), authContextKey, authCtx)
	req = req.WithContext(ctx)
	rr := httptest.NewRecorder()

	server.handleCreateGrant(rr, req)

	if rr.Code != http.StatusCreated {
		t.Errorf("expected status 201, got %d", rr.Code)
	}
}

func TestHandleCreateGrant_NotOwner(t *testing.T) {
	mockAccess := &mockAccessService{
		listGrantsFn: func(ctx context.Context, objectID string) ([]*domain.AccessGrant, error) {
			return []*domain.AccessGrant{
				{ObjectID: objectID, PrincipalType: domain.PrincipalUser, PrincipalID: "user-1", Permission: domain.PermissionRead},
			}, nil
		},
	}

	server := &Server{accessService: mockAccess}

	body, _ := json.Marshal(domain.AccessGrant{
		ObjectID:      "obj-1",
		PrincipalType: domain.PrincipalUser,
		PrincipalID:   "user-3",
		Permission:    domain.PermissionRead,
	})
	req := httptest.NewRequest("POST", "/api/v1/access/grants", bytes.NewBuffer(body))
	authCtx := &domain.AuthContext{UserID: "user-1", Role: domain.RoleMember}
	ctx := context.WithValue(req.Context(), authContextKey, authCtx)
	req = req.WithContext(ctx)
	rr := httptest.NewRecorder()

	server.handleCreateGrant(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("expected status 403, got %d", rr.Code)
	}
}

func TestHandleCreateGrant_MissingFields(t *testing.T) {
	server := &Server{}

	body, _ := json.Marshal(domain.AccessGrant{ObjectID: "obj-1"})
	req := httptest.NewRequest("POST", "/api/v1/access/grants", bytes.NewBuffer(body))
	authCtx := &domain.AuthContext{UserID: "admin-1", Role: domain.RoleAdmin}
	ctx := context.WithValue(req.Context(), authContextKey, authCtx)
	req = req.WithContext(ctx)
	rr := httptest.NewRecorder()

	server.handleCreateGrant(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rr.Code)
	}
}

func TestHandleDeleteGrant_Admin(t *testing.T) {
	var deletedObject, deletedPrincipal string
	mockAccess := &mockAccessService{
		deleteGrantFn: func(ctx context.Context, objectID string, principalType domain.PrincipalType, principalID string) error {
			deletedObject = objectID
			deletedPrincipal = principalID
			return nil
		},
	}

	server := &Server{accessService: mockAccess}

	body, _ := json.Marshal(deleteGrantRequest{
		ObjectID:      "obj-1",
		PrincipalType: domain.PrincipalUser,
		PrincipalID:   "user-2",
	})
	req := httptest.NewRequest("DELETE", "/api/v1/access/grants", bytes.NewBuffer(body))
	authCtx := &domain.AuthContext{UserID: "admin-1", Role: domain.RoleAdmin}
	ctx := context.WithValue(req.Context(), authContextKey, authCtx)
	req = req.WithContext(ctx)
	rr := httptest.NewRecorder()

	server.handleDeleteGrant(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rr.Code)
	}
	if deletedObject != "obj-1" || deletedPrincipal != "user-2" {
		t.Errorf("expected obj-1/user-2 grant deleted, got %s/%s", deletedObject, deletedPrincipal)
	}
}

func TestHandleDeleteGrant_NotFound(t *testing.T) {
	mockAccess := &mockAccessService{
		deleteGrantFn: func(ctx context.Context, objectID string, principalType domain.PrincipalType, principalID string) error {
			return domain.ErrNotFound
		},
	}

	server := &Server{accessService: mockAccess}

	body, _ := json.Marshal(deleteGrantRequest{
		ObjectID:      "obj-1",
		PrincipalType: domain.PrincipalUser,
		PrincipalID:   "user-2",
	})
	req := httptest.NewRequest("DELETE", "/api/v1/access/grants", bytes.NewBuffer(body))
	authCtx := &domain.AuthContext{UserID: "admin-1", Role: domain.RoleAdmin}
	ctx := context.WithValue(req.Context(), authContextKey, authCtx)
	req = req.WithContext(ctx)
	rr := httptest.NewRecorder()

	server.handleDeleteGrant(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rr.Code)
	}
}

func TestHandleDeleteGrant_Forbidden(t *testing.T) {
	mockAccess := &mockAccessService{
		listGrantsFn: func(ctx context.Context, objectID string) ([]*domain.AccessGrant, error) {
			return nil, nil
		},
	}

	server := &Server{accessService: mockAccess}

	body, _ := json.Marshal(deleteGrantRequest{
		ObjectID:      "obj-1",
		PrincipalType: domain.PrincipalUser,
		PrincipalID:   "user-2",
	})
	req := httptest.NewRequest("DELETE", "/api/v1/access/grants", bytes.NewBuffer(body))
	authCtx := &domain.AuthContext{UserID: "user-5", Role: domain.RoleViewer}
	ctx := context.WithValue(req.Context(), authContextKey, authCtx)
	req = req.WithContext(ctx)
	rr := httptest.NewRecorder()

	server.handleDeleteGrant(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("expected status 403, got %d", rr.Code)
	}
}

// AI settings handler tests

func TestHandleGetAISettings_MasksAPIKey(t *testing.T) {
	mockSettings := &mockSettingsService{
		getAISettingsFn: func(ctx context.Context) (*domain.AISettings, error) {
			return &domain.AISettings{
				Embedding: domain.EmbeddingSettings{
					Provider: domain.AIProviderOpenAI,
					Model:    "text-embedding-3-small",
					APIKey:   "sk-secret-key",
				},
				Visual: domain.VisualSettings{
					Model:   "colpali-v1.2",
					BaseURL: "http://vdr:8000",
				},
			}, nil
		},
	}

	server := &Server{settingsService: mockSettings}

	req := httptest.NewRequest("GET", "/api/v1/settings/ai", nil)
	rr := httptest.NewRecorder()

	server.handleGetAISettings(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rr.Code)
	}

	bodyStr := rr.Body.String()
	if strings.Contains(bodyStr, "sk-secret-key") {
		t.Error("expected API key to be masked in response")
	}

	var response aiSettingsResponse
	if err := json.NewDecoder(bytes.NewBufferString(bodyStr)).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !response.Embedding.HasAPIKey {
		t.Error("expected has_api_key true")
	}
	if !response.Embedding.IsConfigured {
		t.Error("expected embedding to be configured")
	}
	if !response.Visual.IsConfigured {
		t.Error("expected visual to be configured")
	}
}

func TestHandleUpdateAISettings_Success(t *testing.T) {
	var updaterID string
	mockSettings := &mockSettingsService{
		updateAISettingsFn: func(ctx context.Context, updater string, req driving.UpdateAISettingsRequest) (*driving.AISettingsStatus, error) {
			updaterID = updater
			return &driving.AISettingsStatus{
				Embedding:           driving.AIServiceStatus{Available: true, Provider: domain.AIProviderOpenAI, Model: "text-embedding-3-small"},
				EffectiveSearchMode: domain.SearchModeHybrid,
			}, nil
		},
	}

	server := &Server{settingsService: mockSettings}

	body, _ := json.Marshal(driving.UpdateAISettingsRequest{
		Embedding: &driving.EmbeddingSettingsInput{
			Provider: domain.AIProviderOpenAI,
			Model:    "text-embedding-3-small",
			APIKey:   "sk-new",
		},
	})
	req := httptest.NewRequest("PUT", "/api/v1/settings/ai", bytes.NewBuffer(body))
	authCtx := &domain.AuthContext{UserID: "admin-1", Role: domain.RoleAdmin}
	ctx := context.WithValue(req.Context(), authContextKey, authCtx)
	req = req.WithContext(ctx)
	rr := httptest.NewRecorder()

	server.handleUpdateAISettings(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rr.Code)
	}
	if updaterID != "admin-1" {
		t.Errorf("expected updater 'admin-1', got %s", updaterID)
	}
}

func TestHandleUpdateAISettings_InvalidProvider(t *testing.T) {
	mockSettings := &mockSettingsService{
		updateAISettingsFn: func(ctx context.Context, updater string, req driving.UpdateAISettingsRequest) (*driving.AISettingsStatus, error) {
			return nil, domain.ErrInvalidProvider
		},
	}

	server := &Server{settingsService: mockSettings}

	body, _ := json.Marshal(driving.UpdateAISettingsRequest{
		Embedding: &driving.EmbeddingSettingsInput{Provider: "clippy"},
	})
	req := httptest.NewRequest("PUT", "/api/v1/settings/ai", bytes.NewBuffer(body))
	authCtx := &domain.AuthContext{UserID: "admin-1", Role: domain.RoleAdmin}
	ctx := context.WithValue(req.Context(), authContextKey, authCtx)
	req = req.WithContext(ctx)
	rr := httptest.NewRecorder()

	server.handleUpdateAISettings(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rr.Code)
	}

	var response map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response["error"] != "unsupported AI provider" {
		t.Errorf("expected error 'unsupported AI provider', got %s", response["error"])
	}
}

func TestHandleGetAIStatus_Success(t *testing.T) {
	mockSettings := &mockSettingsService{
		getAIStatusFn: func(ctx context.Context) (*driving.AISettingsStatus, error) {
			return &driving.AISettingsStatus{
				Embedding:           driving.AIServiceStatus{Available: true, EmbeddingDim: 1536},
				Visual:              driving.AIServiceStatus{Available: false},
				EffectiveSearchMode: domain.SearchModeHybrid,
			}, nil
		},
	}

	server := &Server{settingsService: mockSettings}

	req := httptest.NewRequest("GET", "/api/v1/settings/ai/status", nil)
	rr := httptest.NewRecorder()

	server.handleGetAIStatus(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rr.Code)
	}

	var response driving.AISettingsStatus
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !response.Embedding.Available {
		t.Error("expected embedding to be available")
	}
	if response.Embedding.EmbeddingDim != 1536 {
		t.Errorf("expected embedding dim 1536, got %d", response.Embedding.EmbeddingDim)
	}
}

func TestHandleTestAIConnection_Success(t *testing.T) {
	mockSettings := &mockSettingsService{
		testConnectionFn: func(ctx context.Context) error {
			return nil
		},
	}

	server := &Server{settingsService: mockSettings}

	req := httptest.NewRequest("POST", "/api/v1/settings/ai/test", nil)
	rr := httptest.NewRecorder()

	server.handleTestAIConnection(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rr.Code)
	}

	var response map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response["status"] != "connected" {
		t.Errorf("expected status 'connected', got %s", response["status"])
	}
}

func TestHandleTestAIConnection_Unavailable(t *testing.T) {
	mockSettings := &mockSettingsService{
		testConnectionFn: func(ctx context.Context) error {
			return domain.ErrServiceUnavailable
		},
	}

	server := &Server{settingsService: mockSettings}

	req := httptest.NewRequest("POST", "/api/v1/settings/ai/test", nil)
	rr := httptest.NewRecorder()

	server.handleTestAIConnection(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", rr.Code)
	}
}

// Interface compliance for mocks

func TestMockServicesImplementInterfaces(t *testing.T) {
	var _ driving.RetrievalService = (*mockRetrievalService)(nil)
	var _ driving.DocumentService = (*mockDocService)(nil)
	var _ driving.AccessService = (*mockAccessService)(nil)
	var _ driving.ProgressService = (*mockProgressService)(nil)
	var _ driving.SettingsService = (*mockSettingsService)(nil)
}
