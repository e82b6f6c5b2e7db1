package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kimyoel/auto-cs-backend/app/models"

	"github.com/gin-gonic/gin"
)

type fakeGenerator struct {
	calls      int
	lastPrompt Prompt
	resp       *models.OpenAIResponse
	err        error
}

func (f *fakeGenerator) Generate(ctx context.Context, p Prompt) (*models.OpenAIResponse, error) {
	f.calls++
	f.lastPrompt = p
	return f.resp, f.err
}

func textResponse(text string) *models.OpenAIResponse {
	return &models.OpenAIResponse{
		Status: "completed",
		Output: []models.OpenAIOutputItem{
			{Type: "message", Content: []models.OpenAIContentPart{{Type: "output_text", Text: text}}},
		},
	}
}

func newTestRouter(gen Generator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	licenses := NewLicenseStore("GOOD_SELLER_2025")
	deps := ReplyDeps{
		Gate: &EntitlementGate{
			Licenses: licenses,
			Usage:    NewUsageStore(),
		},
		Generator: gen,
		Now: func() time.Time {
			return time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
		},
	}
	return newRouterWith(deps, licenses)
}

func postReply(t *testing.T, router *gin.Engine, body string) models.ReplyResponse {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/reply", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 for every outcome", w.Code)
	}
	var resp models.ReplyResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v (%s)", err, w.Body.String())
	}
	return resp
}

func TestGenerateReplyFreeFirstRequest(t *testing.T) {
	gen := &fakeGenerator{resp: textResponse("고객님, 안녕하세요. 파손 건은 바로 교환해 드리겠습니다.")}
	router := newTestRouter(gen)

	resp := postReply(t, router, `{
		"licenseKey": "",
		"tone": "friendly",
		"scenario": "general",
		"clipboardText": "상품이 파손되어 도착했는데 어떻게 해야 하나요?",
		"clientId": "cs_test_1"
	}`)

	if !resp.OK || resp.TodayUsage != 1 || resp.TodayLimit != 5 || resp.IsPro {
		t.Fatalf("first free request = %+v", resp)
	}
	if resp.Reply == "" {
		t.Fatalf("successful response must carry the reply text")
	}
	if !strings.Contains(gen.lastPrompt.User, "상품이 파손되어") {
		t.Fatalf("prompt must carry the customer text: %q", gen.lastPrompt.User)
	}
}

func TestGenerateReplyFreeQuotaExhaustion(t *testing.T) {
	gen := &fakeGenerator{resp: textResponse("답변")}
	router := newTestRouter(gen)

	body := `{"clipboardText": "문의드립니다", "clientId": "cs_test_1"}`
	for i := 1; i <= 5; i++ {
		resp := postReply(t, router, body)
		if !resp.OK || resp.TodayUsage != i {
			t.Fatalf("call #%d = %+v", i, resp)
		}
	}

	resp := postReply(t, router, body)
	if resp.OK {
		t.Fatalf("6th call should be rejected: %+v", resp)
	}
	if resp.TodayUsage != 5 || resp.TodayLimit != 5 || resp.Reply != "" {
		t.Fatalf("rejection envelope = %+v", resp)
	}
	if resp.Message != msgQuotaExhausted {
		t.Fatalf("rejection message = %q", resp.Message)
	}
	if gen.calls != 5 {
		t.Fatalf("provider invoked %d times, want 5 (never on rejection)", gen.calls)
	}
}

func TestGenerateReplyProUnlimited(t *testing.T) {
	gen := &fakeGenerator{resp: textResponse("답변")}
	router := newTestRouter(gen)

	for i := 1; i <= 20; i++ {
		resp := postReply(t, router, `{"licenseKey": "GOOD_SELLER_2025", "scenario": "claim", "clipboardText": "환불해 주세요", "clientId": "cs_pro"}`)
		if !resp.OK || !resp.IsPro {
			t.Fatalf("pro call #%d = %+v", i, resp)
		}
		if resp.TodayLimit != 999 || resp.TodayUsage != i {
			t.Fatalf("pro call #%d usage = %+v, want usage=%d limit=999", i, resp, i)
		}
	}
	if gen.calls != 20 {
		t.Fatalf("provider invoked %d times, want 20", gen.calls)
	}
}

func TestGenerateReplyEmptyOutput(t *testing.T) {
	gen := &fakeGenerator{resp: &models.OpenAIResponse{Status: "completed"}}
	router := newTestRouter(gen)

	body := `{"clipboardText": "문의", "clientId": "cs_1"}`
	resp := postReply(t, router, body)
	if resp.OK || resp.Reply != "" {
		t.Fatalf("empty output should not be OK: %+v", resp)
	}
	if resp.Message != msgEmptyOutput {
		t.Fatalf("empty output message = %q", resp.Message)
	}
	// Usage/limit/tier come from the admission, not the degraded fallback.
	if resp.TodayUsage != 1 || resp.TodayLimit != 5 {
		t.Fatalf("empty output envelope = %+v", resp)
	}

	// The failed attempt still consumed a unit of quota.
	gen.resp = textResponse("답변")
	resp = postReply(t, router, body)
	if !resp.OK || resp.TodayUsage != 2 {
		t.Fatalf("quota should have been consumed by the failed attempt: %+v", resp)
	}
}

func TestGenerateReplyProviderFailure(t *testing.T) {
	gen := &fakeGenerator{err: context.DeadlineExceeded}
	router := newTestRouter(gen)

	resp := postReply(t, router, `{"clipboardText": "문의", "clientId": "cs_1"}`)
	if resp.OK || resp.Reply != "" {
		t.Fatalf("provider failure should not be OK: %+v", resp)
	}
	// Degraded fallback: fixed defaults, not the caller's real state. Shipped
	// extensions parse exactly this shape.
	if resp.TodayUsage != 0 || resp.TodayLimit != 5 || resp.IsPro {
		t.Fatalf("fallback envelope = %+v", resp)
	}
	if resp.Message != msgInternalError {
		t.Fatalf("fallback message = %q", resp.Message)
	}

	// Quota was still consumed before the provider call.
	gen.err = nil
	gen.resp = textResponse("답변")
	resp = postReply(t, router, `{"clipboardText": "문의", "clientId": "cs_1"}`)
	if !resp.OK || resp.TodayUsage != 2 {
		t.Fatalf("quota should have been consumed by the failed attempt: %+v", resp)
	}
}

func TestGenerateReplyMalformedBody(t *testing.T) {
	gen := &fakeGenerator{resp: textResponse("답변")}
	router := newTestRouter(gen)

	resp := postReply(t, router, `{not json`)
	if !resp.OK || resp.TodayUsage != 1 || resp.IsPro {
		t.Fatalf("malformed body should behave as an all-defaults request: %+v", resp)
	}
	// Defaults bucket under the anon client.
	resp = postReply(t, router, `{}`)
	if resp.TodayUsage != 2 {
		t.Fatalf("empty body should share the anon bucket: %+v", resp)
	}
}

func TestGenerateReplyDefaultsUnknownEnums(t *testing.T) {
	gen := &fakeGenerator{resp: textResponse("답변")}
	router := newTestRouter(gen)

	resp := postReply(t, router, `{"tone": "sassy", "scenario": "meltdown", "clipboardText": "문의", "clientId": "cs_1"}`)
	if !resp.OK {
		t.Fatalf("unknown enums should not fail the request: %+v", resp)
	}
	if !strings.Contains(gen.lastPrompt.User, "말투: friendly") || !strings.Contains(gen.lastPrompt.User, "상황: general") {
		t.Fatalf("unknown enums should normalize to defaults: %q", gen.lastPrompt.User)
	}
}

func TestReplyEndpointPreflight(t *testing.T) {
	router := newTestRouter(&fakeGenerator{})

	req := httptest.NewRequest("OPTIONS", "/api/reply", nil)
	req.Header.Set("Origin", "chrome-extension://abcdef")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent && w.Code != http.StatusOK {
		t.Fatalf("preflight status = %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("Access-Control-Allow-Origin = %q, want *", got)
	}
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(&fakeGenerator{})

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("health status = %d", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode health body: %v", err)
	}
	if body["status"] != "ok" || body["time"] == "" {
		t.Fatalf("health body = %v", body)
	}
}
