package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/custodia-labs/vectra-core/internal/core/domain"
	"github.com/custodia-labs/vectra-core/internal/core/ports/driving"
)

// ErrorResponse represents an API error response
// @Description API error response
type ErrorResponse struct {
	Error string `json:"error" example:"invalid request body"`
}

// StatusResponse represents a simple status response
// @Description Simple status response
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// VersionResponse represents the API version response
// @Description API version response
type VersionResponse struct {
	Version string `json:"version" example:"1.0.0"`
}

// Health endpoints

// handleHealth godoc
// @Summary      Health check
// @Description  Returns the health status of the API
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Router       /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady godoc
// @Summary      Readiness check
// @Description  Returns the readiness status of the API (checks database and task queue connections)
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Failure      503  {object}  ErrorResponse  "A dependency is unreachable"
// @Router       /ready [get]
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		if err := s.db.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "database unreachable")
			return
		}
	}

	if s.taskQueue != nil {
		if err := s.taskQueue.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "task queue unreachable")
			return
		}
	}

	if s.redisClient != nil {
		if err := s.redisClient.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "redis unreachable")
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleVersion godoc
// @Summary      Get API version
// @Description  Returns the current API version
// @Tags         Health
// @Produce      json
// @Success      200  {object}  VersionResponse
// @Router       /version [get]
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}

// Retrieval endpoints

// dualRetrievalRequest represents a dual-retrieval query
// @Description Dual-retrieval query. Object IDs are partitioned by access
// @Description before retrieval runs; denied IDs are reported, not searched.
type dualRetrievalRequest struct {
	UserInput        string              `json:"userInput" example:"how do I rotate credentials"`
	DataSources      []string            `json:"dataSources,omitempty"`
	GroupDataSources map[string][]string `json:"groupDataSources,omitempty"`
	Limit            int                 `json:"limit,omitempty" example:"10"`
}

// dualRetrievalResponse represents dual-retrieval results
// @Description Dual-retrieval results in block order (content hits, then question-form hits)
type dualRetrievalResponse struct {
	Result       []*domain.RankedChunk `json:"result"`
	AccessDenied []string              `json:"accessDenied,omitempty"`
}

// handleDualRetrieval godoc
// @Summary      Dual-column retrieval
// @Description  Run nearest-neighbor retrieval over content and question-form embeddings. Waits briefly for pending embeddings; returns 503 with Retry-After when they are not ready in time.
// @Tags         Retrieval
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      dualRetrievalRequest  true  "Query and candidate object IDs"
// @Success      200      {object}  dualRetrievalResponse
// @Failure      400      {object}  ErrorResponse  "Invalid request or missing userInput"
// @Failure      401      {object}  ErrorResponse  "Unauthorized"
// @Failure      503      {object}  ErrorResponse  "Embeddings not ready or service unavailable"
// @Router       /embedding-dual-retrieval [post]
func (s *Server) handleDualRetrieval(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req dualRetrievalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.UserInput == "" {
		writeError(w, http.StatusBadRequest, "userInput is required")
		return
	}

	decision := &domain.AccessDecision{}

	if len(req.DataSources) > 0 {
		userDecision, err := s.accessService.Classify(r.Context(), authCtx.UserID, req.DataSources)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to classify access")
			return
		}
		decision.Merge(*userDecision)
	}

	if len(req.GroupDataSources) > 0 {
		// The caller's token is forwarded for federated membership checks
		token := extractBearerToken(r)
		groupDecision, err := s.accessService.ClassifyGroup(r.Context(), authCtx.UserID, req.GroupDataSources, token)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to classify group access")
			return
		}
		decision.Merge(*groupDecision)
	}

	// Nothing accessible: report denials without touching the index
	if len(decision.Accessible) == 0 {
		writeJSON(w, http.StatusOK, dualRetrievalResponse{
			Result:       []*domain.RankedChunk{},
			AccessDenied: decision.Denied,
		})
		return
	}

	chunks, err := s.retrievalService.DualRetrieve(r.Context(), req.UserInput, decision.Accessible, req.Limit)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmbeddingNotReady):
			w.Header().Set("Retry-After", "5")
			writeError(w, http.StatusServiceUnavailable, "embeddings not ready")
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrServiceUnavailable):
			writeError(w, http.StatusServiceUnavailable, "embedding service unavailable")
		case errors.Is(err, domain.ErrEmbeddingService):
			writeError(w, http.StatusInternalServerError, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "retrieval failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, dualRetrievalResponse{
		Result:       chunks,
		AccessDenied: decision.Denied,
	})
}

// queryResponse represents search results
// @Description Search results with processing time in milliseconds
type queryResponse struct {
	Results          []domain.SearchHit `json:"results"`
	TotalResults     int                `json:"total_results"`
	SearchMode       domain.SearchMode  `json:"search_mode"`
	AccessDenied     []string           `json:"access_denied,omitempty"`
	ProcessingTimeMs int64              `json:"processing_time_ms"`
}

// handleQuery godoc
// @Summary      Search documents
// @Description  Execute a search in the requested mode (dense, sparse, hybrid, visual, or blended) over the given documents. Results are scoped to what the caller can access.
// @Tags         Retrieval
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      domain.SearchRequest  true  "Search query"
// @Success      200      {object}  queryResponse
// @Failure      400      {object}  ErrorResponse  "Invalid request or missing query"
// @Failure      401      {object}  ErrorResponse  "Unauthorized"
// @Failure      503      {object}  ErrorResponse  "Embeddings not ready or service unavailable"
// @Router       /query [post]
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req domain.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	result, err := s.retrievalService.Search(r.Context(), authCtx.UserID, &req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmbeddingNotReady):
			w.Header().Set("Retry-After", "5")
			writeError(w, http.StatusServiceUnavailable, "embeddings not ready")
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrServiceUnavailable):
			writeError(w, http.StatusServiceUnavailable, "embedding service unavailable")
		default:
			writeError(w, http.StatusInternalServerError, "search failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, queryResponse{
		Results:          result.Results,
		TotalResults:     result.TotalResults,
		SearchMode:       result.Mode,
		AccessDenied:     result.AccessDenied,
		ProcessingTimeMs: result.Took.Milliseconds(),
	})
}

// Document endpoints

// handleRegisterDocument godoc
// @Summary      Register document
// @Description  Register an object-storage blob for ingestion (admin or member). The blob must already exist; registering a known object re-queues its pipeline.
// @Tags         Documents
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      driving.RegisterDocumentRequest  true  "Document location"
// @Success      201      {object}  domain.Document
// @Failure      400      {object}  ErrorResponse  "Invalid input"
// @Failure      401      {object}  ErrorResponse  "Unauthorized"
// @Failure      403      {object}  ErrorResponse  "Forbidden"
// @Failure      404      {object}  ErrorResponse  "Object not found in storage"
// @Failure      500      {object}  ErrorResponse  "Internal server error"
// @Router       /documents [post]
func (s *Server) handleRegisterDocument(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req driving.RegisterDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	doc, err := s.docService.Register(r.Context(), authCtx.UserID, req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "object not found in storage")
		default:
			writeError(w, http.StatusInternalServerError, "failed to register document")
		}
		return
	}

	writeJSON(w, http.StatusCreated, doc)
}

// listDocumentsResponse represents a page of documents
// @Description Page of registered documents, newest first
type listDocumentsResponse struct {
	Documents []*domain.Document `json:"documents"`
	Total     int                `json:"total"`
}

// handleListDocuments godoc
// @Summary      List documents
// @Description  Get registered documents with pagination, newest first
// @Tags         Documents
// @Produce      json
// @Security     BearerAuth
// @Param        limit   query     int  false  "Page size (default 50, max 200)"
// @Param        offset  query     int  false  "Page offset"
// @Success      200     {object}  listDocumentsResponse
// @Failure      401     {object}  ErrorResponse  "Unauthorized"
// @Failure      500     {object}  ErrorResponse  "Internal server error"
// @Router       /documents [get]
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	if limit > 200 {
		limit = 200
	}

	offset := 0
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			offset = v
		}
	}

	docs, err := s.docService.List(r.Context(), limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list documents")
		return
	}

	total, err := s.docService.Count(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to count documents")
		return
	}

	writeJSON(w, http.StatusOK, listDocumentsResponse{Documents: docs, Total: total})
}

// handleGetDocument godoc
// @Summary      Get document
// @Description  Get a registered document by ID
// @Tags         Documents
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  domain.Document
// @Failure      400  {object}  ErrorResponse  "Missing document ID"
// @Failure      401  {object}  ErrorResponse  "Unauthorized"
// @Failure      404  {object}  ErrorResponse  "Document not found"
// @Failure      500  {object}  ErrorResponse  "Internal server error"
// @Router       /documents/{id} [get]
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing document id")
		return
	}

	doc, err := s.docService.Get(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "document not found")
		default:
			writeError(w, http.StatusInternalServerError, "failed to get document")
		}
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

// handleDeleteDocument godoc
// @Summary      Delete document
// @Description  Delete a document along with its chunks, pages, progress record, and grants (admin only)
// @Tags         Documents
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  StatusResponse
// @Failure      400  {object}  ErrorResponse  "Missing document ID"
// @Failure      401  {object}  ErrorResponse  "Unauthorized"
// @Failure      403  {object}  ErrorResponse  "Forbidden - admin only"
// @Failure      404  {object}  ErrorResponse  "Document not found"
// @Failure      500  {object}  ErrorResponse  "Internal server error"
// @Router       /documents/{id} [delete]
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing document id")
		return
	}

	if err := s.docService.Delete(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "document not found")
		default:
			writeError(w, http.StatusInternalServerError, "failed to delete document")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleReprocessDocument godoc
// @Summary      Reprocess document
// @Description  Re-queue a document's ingestion pipeline from the first stage (admin or member)
// @Tags         Documents
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Document ID"
// @Success      202  {object}  StatusResponse
// @Failure      400  {object}  ErrorResponse  "Missing document ID"
// @Failure      401  {object}  ErrorResponse  "Unauthorized"
// @Failure      403  {object}  ErrorResponse  "Forbidden"
// @Failure      404  {object}  ErrorResponse  "Document not found"
// @Failure      500  {object}  ErrorResponse  "Internal server error"
// @Router       /documents/{id}/reprocess [post]
func (s *Server) handleReprocessDocument(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing document id")
		return
	}

	if err := s.docService.Reprocess(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "document not found")
		default:
			writeError(w, http.StatusInternalServerError, "failed to reprocess document")
		}
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted", "document_id": id})
}

// Embedding progress endpoints

// embeddingStatusRequest represents a completion check
// @Description Object IDs to check for embedding completion
type embeddingStatusRequest struct {
	IDs []string `json:"ids"`
}

// handleEmbeddingStatus godoc
// @Summary      Check embedding status
// @Description  Check whether embeddings for the given object IDs are complete. Stale in-flight jobs are requeued and reported as pending; unknown IDs are reported as requiring embedding.
// @Tags         Embeddings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      embeddingStatusRequest  true  "Object IDs"
// @Success      200      {object}  domain.CompletionReport
// @Failure      400      {object}  ErrorResponse  "Invalid request or missing ids"
// @Failure      401      {object}  ErrorResponse  "Unauthorized"
// @Failure      500      {object}  ErrorResponse  "Internal server error"
// @Router       /embeddings/status [post]
func (s *Server) handleEmbeddingStatus(w http.ResponseWriter, r *http.Request) {
	var req embeddingStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if len(req.IDs) == 0 {
		writeError(w, http.StatusBadRequest, "ids are required")
		return
	}

	report, err := s.progressService.CheckCompletion(r.Context(), req.IDs)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to check completion")
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// requeueEmbeddingsRequest represents a requeue request
// @Description Object IDs to submit for embedding
type requeueEmbeddingsRequest struct {
	IDs []string `json:"ids"`
}

// requeueEmbeddingsResponse reports which IDs were queued
// @Description Requeue outcome per object ID
type requeueEmbeddingsResponse struct {
	Queued  []string `json:"queued"`
	Skipped []string `json:"skipped,omitempty"`
	Failed  []string `json:"failed,omitempty"`
}

// handleRequeueEmbeddings godoc
// @Summary      Requeue embeddings
// @Description  Submit object IDs for embedding (admin or member). IDs already embedded or already in flight are skipped.
// @Tags         Embeddings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      requeueEmbeddingsRequest  true  "Object IDs"
// @Success      200      {object}  requeueEmbeddingsResponse
// @Failure      400      {object}  ErrorResponse  "Invalid request or missing ids"
// @Failure      401      {object}  ErrorResponse  "Unauthorized"
// @Failure      403      {object}  ErrorResponse  "Forbidden"
// @Router       /embeddings/requeue [post]
func (s *Server) handleRequeueEmbeddings(w http.ResponseWriter, r *http.Request) {
	var req requeueEmbeddingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if len(req.IDs) == 0 {
		writeError(w, http.StatusBadRequest, "ids are required")
		return
	}

	resp := requeueEmbeddingsResponse{Queued: []string{}}
	for _, id := range req.IDs {
		queued, err := s.progressService.QueueEmbedding(r.Context(), id)
		switch {
		case err != nil:
			resp.Failed = append(resp.Failed, id)
		case queued:
			resp.Queued = append(resp.Queued, id)
		default:
			resp.Skipped = append(resp.Skipped, id)
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// Access grant endpoints

// handleListGrants godoc
// @Summary      List grants
// @Description  List all access grants on an object
// @Tags         Access
// @Produce      json
// @Security     BearerAuth
// @Param        object_id  query     string  true  "Object ID"
// @Success      200        {array}   domain.AccessGrant
// @Failure      400        {object}  ErrorResponse  "Missing object_id"
// @Failure      401        {object}  ErrorResponse  "Unauthorized"
// @Failure      500        {object}  ErrorResponse  "Internal server error"
// @Router       /access/grants [get]
func (s *Server) handleListGrants(w http.ResponseWriter, r *http.Request) {
	objectID := r.URL.Query().Get("object_id")
	if objectID == "" {
		writeError(w, http.StatusBadRequest, "missing object_id")
		return
	}

	grants, err := s.accessService.ListGrants(r.Context(), objectID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list grants")
		return
	}

	writeJSON(w, http.StatusOK, grants)
}

// handleCreateGrant godoc
// @Summary      Create grant
// @Description  Record an access grant on an object. Only admins and the object's owner may grant access.
// @Tags         Access
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      domain.AccessGrant  true  "Grant to record"
// @Success      201      {object}  StatusResponse
// @Failure      400      {object}  ErrorResponse  "Invalid grant"
// @Failure      401      {object}  ErrorResponse  "Unauthorized"
// @Failure      403      {object}  ErrorResponse  "Not admin or object owner"
// @Failure      500      {object}  ErrorResponse  "Internal server error"
// @Router       /access/grants [post]
func (s *Server) handleCreateGrant(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var grant domain.AccessGrant
	if err := json.NewDecoder(r.Body).Decode(&grant); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if grant.ObjectID == "" || grant.PrincipalID == "" {
		writeError(w, http.StatusBadRequest, "object_id and principal_id are required")
		return
	}

	if !s.canManageGrants(r.Context(), authCtx, grant.ObjectID) {
		writeError(w, http.StatusForbidden, "not admin or object owner")
		return
	}

	if err := s.accessService.CreateGrant(r.Context(), &grant); err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to create grant")
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"status": "created"})
}

// deleteGrantRequest identifies a grant to remove
// @Description Grant to remove, identified by object and principal
type deleteGrantRequest struct {
	ObjectID      string               `json:"object_id"`
	PrincipalType domain.PrincipalType `json:"principal_type"`
	PrincipalID   string               `json:"principal_id"`
}

// handleDeleteGrant godoc
// @Summary      Delete grant
// @Description  Remove an access grant from an object. Only admins and the object's owner may revoke access.
// @Tags         Access
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      deleteGrantRequest  true  "Grant to remove"
// @Success      200      {object}  StatusResponse
// @Failure      400      {object}  ErrorResponse  "Invalid request"
// @Failure      401      {object}  ErrorResponse  "Unauthorized"
// @Failure      403      {object}  ErrorResponse  "Not admin or object owner"
// @Failure      404      {object}  ErrorResponse  "Grant not found"
// @Failure      500      {object}  ErrorResponse  "Internal server error"
// @Router       /access/grants [delete]
func (s *Server) handleDeleteGrant(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req deleteGrantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.ObjectID == "" || req.PrincipalID == "" {
		writeError(w, http.StatusBadRequest, "object_id and principal_id are required")
		return
	}

	if !s.canManageGrants(r.Context(), authCtx, req.ObjectID) {
		writeError(w, http.StatusForbidden, "not admin or object owner")
		return
	}

	if err := s.accessService.DeleteGrant(r.Context(), req.ObjectID, req.PrincipalType, req.PrincipalID); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "grant not found")
		default:
			writeError(w, http.StatusInternalServerError, "failed to delete grant")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// AI settings endpoints

// handleGetAISettings godoc
// @Summary      Get AI settings
// @Description  Get the current AI provider configuration with API keys masked (admin only)
// @Tags         AI Settings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  aiSettingsResponse
// @Failure      401  {object}  ErrorResponse  "Unauthorized"
// @Failure      403  {object}  ErrorResponse  "Forbidden - admin only"
// @Failure      500  {object}  ErrorResponse  "Internal server error"
// @Router       /settings/ai [get]
func (s *Server) handleGetAISettings(w http.ResponseWriter, r *http.Request) {
	aiSettings, err := s.settingsService.GetAISettings(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get AI settings")
		return
	}

	// Mask API keys for security
	resp := aiSettingsResponse{
		Embedding: aiProviderInfo{
			Provider:     aiSettings.Embedding.Provider,
			Model:        aiSettings.Embedding.Model,
			BaseURL:      aiSettings.Embedding.BaseURL,
			HasAPIKey:    aiSettings.Embedding.APIKey != "",
			IsConfigured: aiSettings.Embedding.IsConfigured(),
		},
		Visual: aiProviderInfo{
			Model:        aiSettings.Visual.Model,
			BaseURL:      aiSettings.Visual.BaseURL,
			IsConfigured: aiSettings.Visual.IsConfigured(),
		},
	}

	writeJSON(w, http.StatusOK, resp)
}

type aiSettingsResponse struct {
	Embedding aiProviderInfo `json:"embedding"`
	Visual    aiProviderInfo `json:"visual"`
}

// aiProviderInfo represents AI provider configuration status
// @Description AI provider configuration status
type aiProviderInfo struct {
	Provider     domain.AIProvider `json:"provider,omitempty" example:"openai"`
	Model        string            `json:"model,omitempty" example:"text-embedding-3-small"`
	BaseURL      string            `json:"base_url,omitempty" example:"https://api.openai.com/v1"`
	HasAPIKey    bool              `json:"has_api_key" example:"true"`
	IsConfigured bool              `json:"is_configured" example:"true"`
}

// handleUpdateAISettings godoc
// @Summary      Update AI settings
// @Description  Update AI provider configuration (admin only). This hot-reloads AI services; changing the embedding provider or model queues a full re-embed.
// @Tags         AI Settings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      driving.UpdateAISettingsRequest  true  "AI settings to update"
// @Success      200      {object}  driving.AISettingsStatus
// @Failure      400      {object}  ErrorResponse  "Invalid configuration or unsupported provider"
// @Failure      401      {object}  ErrorResponse  "Unauthorized"
// @Failure      403      {object}  ErrorResponse  "Forbidden - admin only"
// @Failure      500      {object}  ErrorResponse  "Internal server error"
// @Router       /settings/ai [put]
func (s *Server) handleUpdateAISettings(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req driving.UpdateAISettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	status, err := s.settingsService.UpdateAISettings(r.Context(), authCtx.UserID, req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidProvider):
			writeError(w, http.StatusBadRequest, "unsupported AI provider")
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "invalid AI configuration")
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, status)
}

// handleGetAIStatus godoc
// @Summary      Get AI status
// @Description  Get the current status of AI services including the effective search mode
// @Tags         AI Settings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  driving.AISettingsStatus
// @Failure      401  {object}  ErrorResponse  "Unauthorized"
// @Failure      500  {object}  ErrorResponse  "Internal server error"
// @Router       /settings/ai/status [get]
func (s *Server) handleGetAIStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.settingsService.GetAIStatus(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get AI status")
		return
	}

	writeJSON(w, http.StatusOK, status)
}

// handleTestAIConnection godoc
// @Summary      Test AI connection
// @Description  Test connectivity to the configured embedding provider (admin only)
// @Tags         AI Settings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  StatusResponse
// @Failure      401  {object}  ErrorResponse  "Unauthorized"
// @Failure      403  {object}  ErrorResponse  "Forbidden - admin only"
// @Failure      503  {object}  ErrorResponse  "AI service unavailable"
// @Router       /settings/ai/test [post]
func (s *Server) handleTestAIConnection(w http.ResponseWriter, r *http.Request) {
	if err := s.settingsService.TestConnection(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "connected"})
}

// Helper functions

// canManageGrants reports whether the caller may create or revoke grants
// on the object. Admins always can; otherwise the caller must hold an
// owner grant on it.
func (s *Server) canManageGrants(ctx context.Context, authCtx *domain.AuthContext, objectID string) bool {
	if authCtx.IsAdmin() {
		return true
	}

	grants, err := s.accessService.ListGrants(ctx, objectID)
	if err != nil {
		return false
	}

	for _, g := range grants {
		if g.PrincipalType == domain.PrincipalUser && g.PrincipalID == authCtx.UserID && g.Permission == domain.PermissionOwner {
			return true
		}
	}

	return false
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
