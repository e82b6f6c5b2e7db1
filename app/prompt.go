// Package app builds the system and user instructions sent to the
// generation provider. Composition is deterministic: the same
// (tone, scenario, text) always yields the same instructions.
package app

import (
	"fmt"
	"strings"

	"github.com/kimyoel/auto-cs-backend/app/models"
)

// Prompt is one composed instruction pair for the provider.
type Prompt struct {
	System string
	User   string
}

// personaPreamble anchors every reply in the seller voice. Kept apart from
// the scenario templates so the templates stay about structure only.
const personaPreamble = `당신은 온라인 소호몰을 수년간 운영해 온 숙련된 셀러입니다. 고객센터 문의에 직접 답장하는 사장님의 입장에서 답변을 작성합니다.

공통 규칙:
- 답변은 반드시 한국어로만 작성합니다.
- 전체 길이는 공백 포함 200자 이상 600자 이하로 맞춥니다.
- 이모지와 과도한 느낌표·물음표는 사용하지 않습니다.
- 어떤 경우에도 고객의 잘못을 탓하는 표현을 쓰지 않습니다.
- 자동 응답이나 AI가 작성했다는 사실을 드러내지 않습니다.`

// scenario templates: the numbered steps are ordered business rules, not
// style suggestions. Claim in particular must apologize before it offers a
// remedy.
const (
	generalTemplate = `답변 구조 (general):
1) 문의해 주신 것에 대한 감사 인사로 시작합니다.
2) 질문에 대한 직접적인 답을 한두 문장으로 전달합니다.
3) 추가 문의를 환영한다는 말과 감사 인사로 마무리합니다.`

	claimTemplate = `답변 구조 (claim - 파손/불량/환불/교환/반품/취소/지연/불만 문의):
1) 먼저 불편을 끼쳐 드린 점을 진심으로 사과하고 고객의 상황에 공감합니다.
2) 그 다음에 구체적인 해결 방법을 안내합니다. 교환·환불 절차, 사진 요청, 고객센터 연결 등 실제로 진행할 수 있는 조치를 제시하고, 고객 탓으로 들리는 표현은 피합니다.
3) 마지막으로 추가 문의를 환영한다는 안내와 감사 인사로 마무리합니다.
위 1-2-3 순서는 반드시 지킵니다. 사과가 해결 안내보다 먼저 나와야 합니다.`

	reviewTemplate = `답변 구조 (review - 리뷰 답글):
먼저 고객 리뷰의 전반적인 감정이 긍정인지 부정(또는 혼합)인지 직접 판단합니다.
- 긍정 리뷰: 감사 인사 → 리뷰에서 언급된 구체적인 내용 하나를 짚으며 만족을 함께 기뻐함 → 재구매를 환영하는 인사로 마무리.
- 부정·혼합 리뷰: 리뷰에서 언급된 구체적인 내용 하나를 짚으며 사과 → 개선 방향이나 보상 안내 → 감사 인사와 추가 문의 안내로 마무리.
어느 경우든 고객이 쓴 문구 중 하나를 인용하거나 바꿔 말해서 실제로 읽었음을 보여 줍니다. 방어적이거나 변명하는 말투는 쓰지 않습니다.`
)

const (
	friendlyModifier = `말투 (friendly): 부드럽고 다정한 사장님 말투를 사용합니다. "~해요", "~드릴게요"처럼 완곡한 종결어미를 쓰고 딱딱한 표현은 피합니다.`

	businessModifier = `말투 (business): 간결하고 중립적인 비즈니스 말투를 사용합니다. 군더더기 없이 "~합니다", "~드리겠습니다" 종결어미로 필요한 내용만 전달합니다.`

	principleModifier = `말투 (principle): 매장의 정책과 기준을 차분하게 설명하는 말투를 사용합니다. 규정을 근거로 안내하되 고객과 맞서는 인상을 주지 않습니다.`
)

// ComposePrompt builds the provider instructions for one request. It has no
// failure mode: callers normalize tone and scenario before reaching here,
// and empty customer text composes fine (the provider is told there was no
// message body).
func ComposePrompt(tone models.Tone, scenario models.Scenario, customerText string) Prompt {
	var sys strings.Builder
	sys.WriteString(personaPreamble)
	sys.WriteString("\n\n")
	sys.WriteString(scenarioTemplate(scenario))
	sys.WriteString("\n\n")
	sys.WriteString(toneModifier(tone))

	text := strings.TrimSpace(customerText)
	if text == "" {
		text = "(고객 메시지가 비어 있습니다. 일반적인 안내 인사로 답변을 작성하세요.)"
	}

	user := fmt.Sprintf(`말투: %s
상황: %s
고객 메시지:
"""
%s
"""

위 고객 메시지에 대한 답변을 정확히 하나만 작성하세요. 1~3개 문단의 한국어 산문으로만 작성하고, 목록·제목·설명 주석 등 답변 외의 내용은 넣지 않습니다.`, tone, scenario, text)

	return Prompt{
		System: sys.String(),
		User:   user,
	}
}

func scenarioTemplate(scenario models.Scenario) string {
	switch scenario {
	case models.ScenarioClaim:
		return claimTemplate
	case models.ScenarioReview:
		return reviewTemplate
	default:
		return generalTemplate
	}
}

func toneModifier(tone models.Tone) string {
	switch tone {
	case models.ToneBusiness:
		return businessModifier
	case models.TonePrinciple:
		return principleModifier
	default:
		return friendlyModifier
	}
}
