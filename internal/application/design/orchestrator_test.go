package design

import (
	"context"
	"errors"
	"testing"

	"blueprint-ai-api/internal/config"
	"blueprint-ai-api/internal/domain/entity"
	"blueprint-ai-api/internal/infrastructure/llm"
	"blueprint-ai-api/internal/infrastructure/persistence/memory"
	apperrors "blueprint-ai-api/pkg/errors"
)

func testLimits() config.LimitsConfig {
	return config.LimitsConfig{MaxUploadBytes: 4 << 20, MaxMarkerEdge: 1024}
}

func newTestService(t *testing.T, mock *llm.MockClient) (*Service, *entity.DesignSession) {
	t.Helper()
	svc := NewService(memory.NewSessionRepository(), mock, testLimits())
	session, err := svc.CreateSession(context.Background())
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	return svc, session
}

func designOutput() *llm.Output {
	return &llm.Output{
		Text:   "Here is your cabin.",
		Images: []string{"data:image/png;base64,Zmxvb3I=", "data:image/png;base64,cmVuZGVy"},
	}
}

func TestSendNewMessageAppendsUserAndModelTurns(t *testing.T) {
	mock := &llm.MockClient{
		GenerateFunc: func(_ context.Context, _ llm.Request) (*llm.Output, error) {
			return designOutput(), nil
		},
	}
	svc, session := newTestService(t, mock)

	result, err := svc.Send(context.Background(), session.ID, "design a 1-story cabin")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if result.Err != nil {
		t.Fatalf("result.Err = %v", result.Err)
	}

	snap := session.Snapshot()
	if len(snap.Turns) != 3 {
		t.Fatalf("log length = %d, want 3", len(snap.Turns))
	}
	if snap.Turns[1].Role != entity.RoleUser || snap.Turns[2].Role != entity.RoleModel {
		t.Fatalf("roles = %s/%s", snap.Turns[1].Role, snap.Turns[2].Role)
	}
	bundle, ok := snap.Turns[2].FirstBundle()
	if !ok {
		t.Fatalf("model turn has no bundle")
	}
	if len(bundle.Plans2D) != 1 || !bundle.HasPlan3D() {
		t.Fatalf("bundle = %+v, want 1 plan and 1 render", bundle)
	}

	req, ok := mock.LastRequest()
	if !ok {
		t.Fatalf("backend was not called")
	}
	if !req.WantImages || !req.WantText {
		t.Fatalf("request modalities = %+v", req)
	}
	// 上下文为问候回合，末尾消息携带新输入
	if len(req.Messages) != 2 {
		t.Fatalf("messages = %d, want 2", len(req.Messages))
	}
	last := req.Messages[len(req.Messages)-1]
	if last.Role != entity.RoleUser || last.Parts[0].Text != "design a 1-story cabin" {
		t.Fatalf("outgoing message = %+v", last)
	}
}

func TestSendEditTruncatesAndRegenerates(t *testing.T) {
	mock := &llm.MockClient{
		GenerateFunc: func(_ context.Context, _ llm.Request) (*llm.Output, error) {
			return designOutput(), nil
		},
	}
	svc, session := newTestService(t, mock)
	session.Append(entity.NewTurn(entity.RoleUser, entity.NewTextPart("2-story house")))
	session.Append(entity.NewTurn(entity.RoleModel, entity.NewTextPart("done")))
	session.Append(entity.NewTurn(entity.RoleUser, entity.NewTextPart("add a pool")))

	if _, err := svc.BeginEdit(context.Background(), session.ID, 1); err != nil {
		t.Fatalf("BeginEdit: %v", err)
	}
	result, err := svc.Send(context.Background(), session.ID, "3-story house")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if result.Err != nil {
		t.Fatalf("result.Err = %v", result.Err)
	}

	snap := session.Snapshot()
	// 截断到回合 1，再追加一个模型回合
	if len(snap.Turns) != 3 {
		t.Fatalf("log length = %d, want 3", len(snap.Turns))
	}
	if text, _ := snap.Turns[1].FirstText(); text != "3-story house" {
		t.Fatalf("edited text = %q", text)
	}

	req, _ := mock.LastRequest()
	if len(req.Messages) != 2 {
		t.Fatalf("context length = %d, want 2", len(req.Messages))
	}
	if req.Messages[1].Parts[0].Text != "3-story house" {
		t.Fatalf("outgoing text = %q", req.Messages[1].Parts[0].Text)
	}
	if snap.Intent.Kind != entity.IntentIdle {
		t.Fatalf("intent after send = %s, want idle", snap.Intent.Kind)
	}
}

func TestSendReplyExtractsBundleImages(t *testing.T) {
	mock := &llm.MockClient{
		GenerateFunc: func(_ context.Context, _ llm.Request) (*llm.Output, error) {
			return designOutput(), nil
		},
	}
	svc, session := newTestService(t, mock)
	session.Append(entity.NewTurn(entity.RoleUser, entity.NewTextPart("design a house")))
	session.Append(entity.NewTurn(entity.RoleModel,
		entity.NewBundlePart(entity.AssembleBundle([]string{"floor-0", "floor-1", "render"})),
	))

	if err := svc.BeginReply(context.Background(), session.ID, 2); err != nil {
		t.Fatalf("BeginReply: %v", err)
	}
	if _, err := svc.Send(context.Background(), session.ID, "make the kitchen bigger"); err != nil {
		t.Fatalf("Send: %v", err)
	}

	req, _ := mock.LastRequest()
	last := req.Messages[len(req.Messages)-1]
	if last.Parts[0].Text != "make the kitchen bigger" {
		t.Fatalf("first part = %+v, want text", last.Parts[0])
	}
	var images []string
	for _, p := range last.Parts[1:] {
		images = append(images, p.ImageHandle)
	}
	want := []string{"floor-0", "floor-1", "render"}
	if len(images) != len(want) {
		t.Fatalf("extracted images = %v, want %v", images, want)
	}
	for i := range want {
		if images[i] != want[i] {
			t.Fatalf("extracted images = %v, want %v", images, want)
		}
	}
}

func TestSendWhileBusyIsRejected(t *testing.T) {
	svc, session := newTestService(t, &llm.MockClient{})
	if !session.TryBeginGeneration() {
		t.Fatalf("TryBeginGeneration failed")
	}
	before := session.TurnCount()

	_, err := svc.Send(context.Background(), session.ID, "hello")
	if !errors.Is(err, apperrors.ErrGenerationInFlight) {
		t.Fatalf("err = %v, want ErrGenerationInFlight", err)
	}
	if session.TurnCount() != before {
		t.Fatalf("busy send mutated the log")
	}
}

func TestSendEmptySubmissionIsInert(t *testing.T) {
	mock := &llm.MockClient{}
	svc, session := newTestService(t, mock)

	_, err := svc.Send(context.Background(), session.ID, "   ")
	if !errors.Is(err, apperrors.ErrEmptySubmission) {
		t.Fatalf("err = %v, want ErrEmptySubmission", err)
	}
	if len(mock.Requests()) != 0 {
		t.Fatalf("empty submission reached the backend")
	}
	if session.TurnCount() != 1 {
		t.Fatalf("empty submission mutated the log")
	}
}

func TestSendBackendFailureAppendsApology(t *testing.T) {
	mock := &llm.MockClient{
		GenerateFunc: func(_ context.Context, _ llm.Request) (*llm.Output, error) {
			return nil, apperrors.ErrBackendError
		},
	}
	svc, session := newTestService(t, mock)

	result, err := svc.Send(context.Background(), session.ID, "design a cabin")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if !errors.Is(result.Err, apperrors.ErrBackendError) {
		t.Fatalf("result.Err = %v, want ErrBackendError", result.Err)
	}

	snap := session.Snapshot()
	// 用户回合加致歉回合
	if len(snap.Turns) != 3 {
		t.Fatalf("log length = %d, want 3", len(snap.Turns))
	}
	if text, _ := snap.Turns[2].FirstText(); text != apologyText {
		t.Fatalf("apology text = %q", text)
	}
	if !session.TryBeginGeneration() {
		t.Fatalf("busy flag was not released after failure")
	}
}

func TestSendFallbackWhenNothingParsed(t *testing.T) {
	mock := &llm.MockClient{
		GenerateFunc: func(_ context.Context, _ llm.Request) (*llm.Output, error) {
			return &llm.Output{}, nil
		},
	}
	svc, session := newTestService(t, mock)

	result, err := svc.Send(context.Background(), session.ID, "hello there")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if text, _ := result.Turn.FirstText(); text != fallbackText {
		t.Fatalf("fallback text = %q", text)
	}
}

func TestSendAttachesAndClearsUpload(t *testing.T) {
	mock := &llm.MockClient{
		GenerateFunc: func(_ context.Context, _ llm.Request) (*llm.Output, error) {
			return designOutput(), nil
		},
	}
	svc, session := newTestService(t, mock)
	handle := "data:image/png;base64,c2tldGNo"
	if err := svc.SetUpload(context.Background(), session.ID, handle); err != nil {
		t.Fatalf("SetUpload: %v", err)
	}

	if _, err := svc.Send(context.Background(), session.ID, "use this sketch"); err != nil {
		t.Fatalf("Send: %v", err)
	}

	req, _ := mock.LastRequest()
	last := req.Messages[len(req.Messages)-1]
	if len(last.Parts) != 2 || last.Parts[1].ImageHandle != handle {
		t.Fatalf("upload not attached: %+v", last.Parts)
	}
	if session.Snapshot().UploadedImage != "" {
		t.Fatalf("upload survived the send")
	}
}

func TestSetUploadRejectsOversizeAndMalformed(t *testing.T) {
	svc := NewService(memory.NewSessionRepository(), &llm.MockClient{}, config.LimitsConfig{MaxUploadBytes: 4, MaxMarkerEdge: 1024})
	session, err := svc.CreateSession(context.Background())
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	if err := svc.SetUpload(context.Background(), session.ID, "data:image/png;base64,dG9vLWxhcmdl"); err == nil {
		t.Fatalf("oversize upload was accepted")
	}
	if err := svc.SetUpload(context.Background(), session.ID, "not a handle"); err == nil {
		t.Fatalf("malformed upload was accepted")
	}
}

func TestSetModeValidation(t *testing.T) {
	svc, session := newTestService(t, &llm.MockClient{})

	if _, err := svc.SetMode(context.Background(), session.ID, "architect"); err != nil {
		t.Fatalf("SetMode(architect): %v", err)
	}
	if session.Snapshot().Mode != entity.ModeArchitect {
		t.Fatalf("mode = %s, want architect", session.Snapshot().Mode)
	}
	if _, err := svc.SetMode(context.Background(), session.ID, "painter"); err == nil {
		t.Fatalf("invalid mode was accepted")
	}
}
