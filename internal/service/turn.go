package service

import (
	"log"

	"core/internal/model"
)

// TurnResult summarizes what one user message did to the session
type TurnResult struct {
	TemplateSwitched   bool
	ParamsChanged      bool
	PriceModified      bool
	RegenerationIntent bool
	ResultIntent       bool
}

// ProcessTurn consumes one user message against the session state: it
// resolves template switches, runs the pattern extractor, merges the
// extracted parameters, and decides whether the session should bypass the
// "already generated" short-circuit on this turn.
func ProcessTurn(sess *model.Session, text string) TurnResult {
	var result TurnResult

	// A template switch only happens on an actual signal in the text;
	// the extractor's default of template 1 must not drag an ongoing
	// template 2/3 conversation back to template 1.
	if choice, ok := DetectTemplateSignal(text); ok && choice != sess.ActiveTemplate {
		sess.ActiveTemplate = choice
		sess.Parameters = map[string]string{}
		// A poster rendered for the old template is no longer valid.
		sess.GenerationResult = nil
		sess.Status = model.StatusCollectingInfo
		result.TemplateSwitched = true
	}

	previous := make(map[string]string, len(sess.Parameters))
	for k, v := range sess.Parameters {
		previous[k] = v
	}

	extracted := ExtractParams(text, sess.ActiveTemplate)
	result.PriceModified = extracted.PriceModified

	valid := model.ValidParamSet(sess.ActiveTemplate)
	for key, value := range extracted.Params {
		if !valid[key] {
			continue
		}
		sess.Parameters[key] = value
		if prev, ok := previous[key]; ok && prev != value {
			log.Printf("Parameter %q changed from %q to %q", key, prev, value)
			result.ParamsChanged = true
		}
	}

	result.RegenerationIntent = HasRegenerationIntent(text)
	result.ResultIntent = HasResultIntent(text)

	force := ((result.RegenerationIntent || result.ResultIntent) && result.ParamsChanged) ||
		(result.ParamsChanged &&
			(sess.Status == model.StatusReadyToGenerate || sess.Status == model.StatusGenerated)) ||
		result.PriceModified
	if force {
		log.Printf("Forcing regeneration for session %s after parameter update", sess.ID)
		sess.ForceRegeneration = true
		sess.GenerationResult = nil
	}

	recomputeStatus(sess)
	return result
}

// CheckRequirements re-validates the session status against the active
// template's required parameter set. It trusts a pending force-regeneration
// decision and short-circuits to READY_TO_GENERATE without re-checking
// fields. Safe to call outside the full turn pipeline.
func CheckRequirements(sess *model.Session) {
	if len(sess.Parameters) == 0 {
		sess.Status = model.StatusCollectingInfo
		return
	}
	if sess.ForceRegeneration {
		sess.Status = model.StatusReadyToGenerate
		return
	}
	recomputeStatus(sess)
}

// recomputeStatus derives the status from the accumulated parameters.
// A still-valid generation result keeps the session in GENERATED so an
// unrelated chat message does not re-trigger the rendering service.
func recomputeStatus(sess *model.Session) {
	if len(MissingParams(sess.ActiveTemplate, sess.Parameters)) > 0 {
		sess.Status = model.StatusCollectingInfo
		return
	}
	if sess.GenerationResult != nil && !sess.ForceRegeneration {
		sess.Status = model.StatusGenerated
		return
	}
	sess.Status = model.StatusReadyToGenerate
}

// MissingParams returns the required parameters not yet present for the
// given template version
func MissingParams(templateVersion int, params map[string]string) []string {
	var missing []string
	for _, req := range model.RequiredParams(templateVersion) {
		if params[req] == "" {
			missing = append(missing, req)
		}
	}
	return missing
}
