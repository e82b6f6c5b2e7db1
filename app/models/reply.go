// Package models defines the wire types for the reply generation endpoint.
package models

// Tone is the stylistic register layered on top of a scenario template.
type Tone string

const (
	ToneFriendly  Tone = "friendly"
	ToneBusiness  Tone = "business"
	TonePrinciple Tone = "principle"
)

// Scenario is the categorical context that drives the prompt structure.
type Scenario string

const (
	ScenarioGeneral Scenario = "general"
	ScenarioClaim   Scenario = "claim"
	ScenarioReview  Scenario = "review"
)

// ParseTone normalizes a raw tone value. Unrecognized input falls back to
// friendly rather than erroring; the extension may ship older tone names.
func ParseTone(s string) Tone {
	switch Tone(s) {
	case ToneFriendly, ToneBusiness, TonePrinciple:
		return Tone(s)
	}
	return ToneFriendly
}

// ParseScenario normalizes a raw scenario value, defaulting to general.
func ParseScenario(s string) Scenario {
	switch Scenario(s) {
	case ScenarioGeneral, ScenarioClaim, ScenarioReview:
		return Scenario(s)
	}
	return ScenarioGeneral
}

// ReplyRequest is the raw JSON body posted by the extension. Every field is
// optional; missing or invalid values fall back to defaults during
// normalization.
type ReplyRequest struct {
	LicenseKey    string `json:"licenseKey"`
	Tone          string `json:"tone"`
	Scenario      string `json:"scenario"`
	ClipboardText string `json:"clipboardText"`
	ClientID      string `json:"clientId"`
}

// ReplyResponse is the fixed envelope returned for every outcome. The HTTP
// status is always 200; the extension branches only on OK.
type ReplyResponse struct {
	OK         bool   `json:"ok"`
	Reply      string `json:"reply"`
	TodayUsage int    `json:"todayUsage"`
	TodayLimit int    `json:"todayLimit"`
	IsPro      bool   `json:"isPro"`
	Message    string `json:"message"`
}
