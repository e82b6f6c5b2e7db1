// Package app implements the reply generation endpoint the extension calls.
package app

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/kimyoel/auto-cs-backend/app/models"

	"github.com/gin-gonic/gin"
)

// Fixed user-facing messages. The extension shows these verbatim, so they
// stay in one place.
const (
	msgQuotaExhausted = "오늘 무료 사용량을 모두 사용했습니다. PRO 라이선스로 업그레이드하면 제한 없이 사용할 수 있어요."
	msgEmptyOutput    = "답변 생성에 실패했습니다. 잠시 후 다시 시도해 주세요."
	msgSuccessFree    = "답변이 생성되었습니다."
	msgSuccessPro     = "PRO 답변이 생성되었습니다."
	msgInternalError  = "일시적인 오류가 발생했습니다. 잠시 후 다시 시도해 주세요."
)

// ReplyDeps carries everything GenerateReply needs, so tests can build an
// isolated handler with a fresh usage store and a fake generator.
type ReplyDeps struct {
	Gate      *EntitlementGate
	Generator Generator
	Events    *EventPublisher
	Now       func() time.Time // defaults to time.Now
}

// GenerateReply handles POST /api/reply. Every outcome is an HTTP 200 with
// the fixed envelope; the extension branches only on the ok field, never on
// the status code. Failure kinds:
//   - quota exhausted: ok=false, provider never called
//   - empty provider output: ok=false, quota already consumed
//   - anything unexpected: ok=false with the degraded fallback envelope
func GenerateReply(deps ReplyDeps) gin.HandlerFunc {
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	return func(c *gin.Context) {
		// The degraded fallback must win over gin's recovery middleware:
		// a panic anywhere below still has to come back as a 200 envelope.
		defer func() {
			if r := recover(); r != nil {
				log.Printf("reply handler panic: %v", r)
				if !c.Writer.Written() {
					c.JSON(http.StatusOK, internalFailureResponse())
				}
			}
		}()

		var req models.ReplyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			// Every field is optional, so an unreadable body is just an
			// all-defaults request, not an error.
			req = models.ReplyRequest{}
		}

		tone := models.ParseTone(req.Tone)
		scenario := models.ParseScenario(req.Scenario)
		clientID := strings.TrimSpace(req.ClientID)
		if clientID == "" {
			clientID = "anon"
		}

		ctx := c.Request.Context()
		at := now()
		decision := deps.Gate.Admit(ctx, req.LicenseKey, clientID, at)

		if deps.Events != nil {
			ev := UsageEvent{
				ClientID: clientID,
				Day:      at.UTC().Format("2006-01-02"),
				Used:     decision.Used,
				IsPro:    decision.IsPro,
				Admitted: decision.Admitted,
				Tone:     string(tone),
				Scenario: string(scenario),
				At:       at.UTC(),
			}
			go func() {
				pubCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				deps.Events.Publish(pubCtx, ev)
			}()
		}

		if !decision.Admitted {
			// Expected, user-facing outcome; not an operator error.
			c.JSON(http.StatusOK, models.ReplyResponse{
				OK:         false,
				Reply:      "",
				TodayUsage: decision.Used,
				TodayLimit: decision.Limit,
				IsPro:      decision.IsPro,
				Message:    msgQuotaExhausted,
			})
			return
		}

		prompt := ComposePrompt(tone, scenario, req.ClipboardText)

		resp, err := deps.Generator.Generate(ctx, prompt)
		if err != nil {
			log.Printf("reply generation failed client=%s scenario=%s err=%v", clientID, scenario, err)
			c.JSON(http.StatusOK, internalFailureResponse())
			return
		}

		reply := ExtractOutputText(resp)
		if reply == "" {
			// Quota stays consumed; the caller may retry manually.
			c.JSON(http.StatusOK, models.ReplyResponse{
				OK:         false,
				Reply:      "",
				TodayUsage: decision.Used,
				TodayLimit: decision.Limit,
				IsPro:      decision.IsPro,
				Message:    msgEmptyOutput,
			})
			return
		}

		message := msgSuccessFree
		if decision.IsPro {
			message = msgSuccessPro
		}

		c.JSON(http.StatusOK, models.ReplyResponse{
			OK:         true,
			Reply:      reply,
			TodayUsage: decision.Used,
			TodayLimit: decision.Limit,
			IsPro:      decision.IsPro,
			Message:    message,
		})
	}
}

// internalFailureResponse is the fallback for unexpected faults. It resets
// usage, limit, and tier to fixed defaults instead of the caller's real
// values; shipped extensions parse exactly this shape, so changing it is a
// compatibility break even though the information loss looks accidental.
func internalFailureResponse() models.ReplyResponse {
	return models.ReplyResponse{
		OK:         false,
		Reply:      "",
		TodayUsage: 0,
		TodayLimit: FreeDailyLimit,
		IsPro:      false,
		Message:    msgInternalError,
	}
}
