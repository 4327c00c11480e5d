package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"blueprint-ai-api/internal/application/design"
	"blueprint-ai-api/internal/config"
	"blueprint-ai-api/internal/infrastructure/llm"
	"blueprint-ai-api/internal/infrastructure/persistence/memory"
	"blueprint-ai-api/internal/interfaces/http/dto"
	"blueprint-ai-api/internal/interfaces/http/handler"
	"blueprint-ai-api/internal/interfaces/http/router"

	"github.com/gin-gonic/gin"
)

func newTestRouter(t *testing.T, mock *llm.MockClient) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.Backend.Model = "test-model"
	cfg.Limits = config.LimitsConfig{MaxUploadBytes: 4 << 20, MaxMarkerEdge: 1024}

	svc := design.NewService(memory.NewSessionRepository(), mock, cfg.Limits)
	handlers := router.Handlers{
		Session:      handler.NewSessionHandler(svc),
		Conversation: handler.NewConversationHandler(svc),
		Interior:     handler.NewInteriorHandler(svc),
		Revision:     handler.NewRevisionHandler(svc),
		Meta:         handler.NewMetaHandler(cfg),
		Health:       handler.NewHealthHandler(nil),
	}
	return router.New(cfg, handlers, nil).Engine()
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func createSession(t *testing.T, engine *gin.Engine) *dto.SessionResponse {
	t.Helper()
	w := doJSON(t, engine, http.MethodPost, "/v1/sessions", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("create session status = %d, body %s", w.Code, w.Body.String())
	}
	var resp dto.Response[*dto.SessionResponse]
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp.Data
}

func TestCreateSessionSeedsGreeting(t *testing.T) {
	engine := newTestRouter(t, &llm.MockClient{})

	session := createSession(t, engine)
	if session.ID == "" {
		t.Fatal("session id is empty")
	}
	if len(session.Turns) != 1 {
		t.Fatalf("turns = %d, want 1", len(session.Turns))
	}
	if session.Turns[0].Role != "model" {
		t.Fatalf("greeting role = %s", session.Turns[0].Role)
	}
	if session.Mode != "chat" {
		t.Fatalf("mode = %s, want chat", session.Mode)
	}
}

func TestGetSessionNotFound(t *testing.T) {
	engine := newTestRouter(t, &llm.MockClient{})

	w := doJSON(t, engine, http.MethodGet, "/v1/sessions/missing", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	var resp dto.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error == nil || resp.Error.ErrorCode != "2001" {
		t.Fatalf("error detail = %+v", resp.Error)
	}
}

func TestSendMessageReturnsModelTurn(t *testing.T) {
	mock := &llm.MockClient{
		GenerateFunc: func(_ context.Context, _ llm.Request) (*llm.Output, error) {
			return &llm.Output{
				Text: "Here it is.",
				Images: []string{
					"data:image/png;base64,Zmxvb3I=",
					"data:image/png;base64,cmVuZGVy",
				},
			}, nil
		},
	}
	engine := newTestRouter(t, mock)
	session := createSession(t, engine)

	w := doJSON(t, engine, http.MethodPost, "/v1/sessions/"+session.ID+"/messages",
		dto.SendMessageRequest{Text: "design a 1-story cabin"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var resp dto.Response[*dto.SendMessageResponse]
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data.Turn.Role != "model" {
		t.Fatalf("turn role = %s", resp.Data.Turn.Role)
	}
	var bundle *dto.BundleResponse
	for _, p := range resp.Data.Turn.Parts {
		if p.Bundle != nil {
			bundle = p.Bundle
		}
	}
	if bundle == nil {
		t.Fatal("model turn has no bundle part")
	}
	if len(bundle.Plans2D) != 1 || bundle.Plan3D == "" {
		t.Fatalf("bundle = %+v, want 1 floor plan and a 3D render", bundle)
	}
	if len(resp.Data.Session.Turns) != 3 {
		t.Fatalf("session turns = %d, want 3", len(resp.Data.Session.Turns))
	}
}

func TestSendEmptySubmissionRejected(t *testing.T) {
	engine := newTestRouter(t, &llm.MockClient{})
	session := createSession(t, engine)

	w := doJSON(t, engine, http.MethodPost, "/v1/sessions/"+session.ID+"/messages",
		dto.SendMessageRequest{Text: "   "})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestBeginEditRejectsModelTurn(t *testing.T) {
	engine := newTestRouter(t, &llm.MockClient{})
	session := createSession(t, engine)

	// 回合 0 是问候语，属于模型回合
	w := doJSON(t, engine, http.MethodPost, "/v1/sessions/"+session.ID+"/turns/0/edit", nil)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", w.Code)
	}
}

func TestTurnIndexMustBeNumeric(t *testing.T) {
	engine := newTestRouter(t, &llm.MockClient{})
	session := createSession(t, engine)

	w := doJSON(t, engine, http.MethodPost, "/v1/sessions/"+session.ID+"/turns/abc/interior",
		dto.InteriorRequest{X: 10, Y: 10, DisplayW: 100, DisplayH: 100})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestSetModeValidation(t *testing.T) {
	engine := newTestRouter(t, &llm.MockClient{})
	session := createSession(t, engine)

	w := doJSON(t, engine, http.MethodPut, "/v1/sessions/"+session.ID+"/mode",
		dto.SetModeRequest{Mode: "architect"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	w = doJSON(t, engine, http.MethodPut, "/v1/sessions/"+session.ID+"/mode",
		dto.SetModeRequest{Mode: "painter"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestMetaEndpoint(t *testing.T) {
	engine := newTestRouter(t, &llm.MockClient{})

	w := doJSON(t, engine, http.MethodGet, "/v1/meta", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp dto.Response[*dto.MetaResponse]
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data.Model != "test-model" {
		t.Fatalf("model = %s", resp.Data.Model)
	}
	if len(resp.Data.Modes) != 2 || len(resp.Data.LoadingPhases) == 0 {
		t.Fatalf("meta = %+v", resp.Data)
	}
}
