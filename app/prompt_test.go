package app

import (
	"strings"
	"testing"

	"github.com/kimyoel/auto-cs-backend/app/models"
)

func TestComposePromptIsDeterministic(t *testing.T) {
	a := ComposePrompt(models.ToneBusiness, models.ScenarioClaim, "상품이 파손되어 도착했어요")
	b := ComposePrompt(models.ToneBusiness, models.ScenarioClaim, "상품이 파손되어 도착했어요")
	if a != b {
		t.Fatalf("identical inputs produced different prompts")
	}
}

func TestComposePromptCommonRules(t *testing.T) {
	p := ComposePrompt(models.ToneFriendly, models.ScenarioGeneral, "배송 언제 되나요?")

	for _, want := range []string{"한국어", "이모지", "탓하는 표현", "자동 응답"} {
		if !strings.Contains(p.System, want) {
			t.Fatalf("system instruction missing common rule %q:\n%s", want, p.System)
		}
	}
}

// The claim template's section order is a business rule: apologize first,
// then offer the remedy, then close. Verify relative positions, not just
// presence.
func TestComposePromptClaimOrdering(t *testing.T) {
	p := ComposePrompt(models.ToneFriendly, models.ScenarioClaim, "상품이 파손되어 도착했는데 어떻게 해야 하나요?")

	apology := strings.Index(p.System, "사과")
	remedy := strings.Index(p.System, "해결 방법")
	closing := strings.Index(p.System, "마무리")
	if apology == -1 || remedy == -1 || closing == -1 {
		t.Fatalf("claim template missing a required section: apology=%d remedy=%d closing=%d", apology, remedy, closing)
	}
	if !(apology < remedy && remedy < closing) {
		t.Fatalf("claim sections out of order: apology=%d remedy=%d closing=%d", apology, remedy, closing)
	}
}

func TestComposePromptReviewRules(t *testing.T) {
	p := ComposePrompt(models.ToneFriendly, models.ScenarioReview, "배송은 빨랐는데 포장이 아쉬워요")

	// The composer does not classify sentiment; the provider is told to.
	if !strings.Contains(p.System, "직접 판단") {
		t.Fatalf("review template should delegate sentiment to the provider:\n%s", p.System)
	}
	if !strings.Contains(p.System, "인용") {
		t.Fatalf("review template must require quoting the customer:\n%s", p.System)
	}
	if !strings.Contains(p.System, "방어적") {
		t.Fatalf("review template must forbid defensive tone:\n%s", p.System)
	}
}

func TestComposePromptToneModifiers(t *testing.T) {
	cases := []struct {
		tone models.Tone
		want string
	}{
		{models.ToneFriendly, "friendly"},
		{models.ToneBusiness, "business"},
		{models.TonePrinciple, "principle"},
	}
	for _, tc := range cases {
		t.Run(string(tc.tone), func(t *testing.T) {
			p := ComposePrompt(tc.tone, models.ScenarioGeneral, "문의드립니다")
			if !strings.Contains(p.System, "말투 ("+tc.want+")") {
				t.Fatalf("system instruction missing %s modifier:\n%s", tc.want, p.System)
			}
		})
	}
}

func TestComposePromptUserInstruction(t *testing.T) {
	text := "상품이 파손되어 도착했는데 어떻게 해야 하나요?"
	p := ComposePrompt(models.ToneBusiness, models.ScenarioClaim, "  "+text+"  ")

	if !strings.Contains(p.User, text) {
		t.Fatalf("user instruction must carry the trimmed customer text verbatim:\n%s", p.User)
	}
	if !strings.Contains(p.User, "말투: business") || !strings.Contains(p.User, "상황: claim") {
		t.Fatalf("user instruction must restate tone and scenario:\n%s", p.User)
	}
	if !strings.Contains(p.User, "하나만") {
		t.Fatalf("user instruction must ask for exactly one answer:\n%s", p.User)
	}
}

func TestComposePromptEmptyText(t *testing.T) {
	p := ComposePrompt(models.ToneFriendly, models.ScenarioGeneral, "   ")
	if !strings.Contains(p.User, "비어 있습니다") {
		t.Fatalf("empty customer text should be flagged for the provider:\n%s", p.User)
	}
}
