package service

import (
	"testing"

	"core/internal/model"
)

func generatedSession(t *testing.T) *model.Session {
	t.Helper()
	sess := model.NewSession("test-session")
	sess.ActiveTemplate = 1
	sess.Parameters = map[string]string{
		model.ParamImageURL:      "https://example.com/house.jpg",
		model.ParamPropertyPrice: "$450,000",
	}
	sess.GenerationResult = &model.GenerationResult{
		URL:             "https://example.com/poster.jpg",
		Status:          "success",
		TemplateVersion: 1,
	}
	sess.Status = model.StatusGenerated
	return sess
}

func TestProcessTurn_TemplateSwitchClearsParams(t *testing.T) {
	sess := generatedSession(t)

	result := ProcessTurn(sess, "use template 2")

	if !result.TemplateSwitched {
		t.Error("Expected TemplateSwitched to be true")
	}
	if sess.ActiveTemplate != 2 {
		t.Errorf("ActiveTemplate = %d, want 2", sess.ActiveTemplate)
	}
	if len(sess.Parameters) != 0 {
		t.Errorf("Expected cleared parameters, got %v", sess.Parameters)
	}
	if sess.GenerationResult != nil {
		t.Errorf("Expected the old template's result to be dropped, got %+v", sess.GenerationResult)
	}
	if sess.Status != model.StatusCollectingInfo {
		t.Errorf("Status = %s, want %s", sess.Status, model.StatusCollectingInfo)
	}
}

// A switch must not let the old template's poster satisfy the new
// template: once the new requirements are met the session is ready to
// render, not already GENERATED.
func TestProcessTurn_SwitchInvalidatesOldResult(t *testing.T) {
	sess := generatedSession(t)

	ProcessTurn(sess, "template 2 please")
	if sess.GenerationResult != nil {
		t.Fatalf("Stale result survived the switch: %+v", sess.GenerationResult)
	}

	ProcessTurn(sess, "here is the image https://example.com/t2.jpg")
	CheckRequirements(sess)

	if sess.Status != model.StatusReadyToGenerate {
		t.Errorf("Status = %s, want %s", sess.Status, model.StatusReadyToGenerate)
	}
	if sess.GenerationResult != nil {
		t.Errorf("No render happened for template 2, result should be nil, got %+v", sess.GenerationResult)
	}
}

func TestProcessTurn_NoSwitchWithoutSignal(t *testing.T) {
	sess := model.NewSession("test-session")
	sess.ActiveTemplate = 2
	sess.Parameters = map[string]string{model.ParamImageURL: "https://example.com/a.png"}
	sess.Status = model.StatusReadyToGenerate

	result := ProcessTurn(sess, "generate it")

	if result.TemplateSwitched {
		t.Error("A message without a template signal must not switch templates")
	}
	if sess.ActiveTemplate != 2 {
		t.Errorf("ActiveTemplate = %d, want 2", sess.ActiveTemplate)
	}
	if !result.RegenerationIntent {
		t.Error("Expected regeneration intent for 'generate it'")
	}
}

func TestProcessTurn_PriceModificationForcesRegeneration(t *testing.T) {
	sess := generatedSession(t)

	result := ProcessTurn(sess, "change the price to 500000")

	if !result.PriceModified {
		t.Error("Expected PriceModified to be true")
	}
	if !sess.ForceRegeneration {
		t.Error("Expected ForceRegeneration to be set")
	}
	if sess.GenerationResult != nil {
		t.Error("Expected generation result to be cleared")
	}
	if got := sess.Parameters[model.ParamPropertyPrice]; got != "$500,000" {
		t.Errorf("property_price = %q, want %q", got, "$500,000")
	}
	if sess.Status != model.StatusReadyToGenerate {
		t.Errorf("Status = %s, want %s", sess.Status, model.StatusReadyToGenerate)
	}
}

func TestProcessTurn_ParamChangeWhileReadyForcesRegeneration(t *testing.T) {
	sess := model.NewSession("test-session")
	sess.Parameters = map[string]string{
		model.ParamImageURL:      "https://example.com/house.jpg",
		model.ParamPropertyPrice: "$450,000",
	}
	sess.Status = model.StatusReadyToGenerate

	result := ProcessTurn(sess, "the image is https://example.com/other.jpg")

	if !result.ParamsChanged {
		t.Error("Expected ParamsChanged to be true")
	}
	if !sess.ForceRegeneration {
		t.Error("Expected ForceRegeneration when a parameter changes while ready")
	}
}

// After a successful generation, an unrelated chat message must not force a
// regeneration or drop the stored result.
func TestProcessTurn_RegenerationGuard(t *testing.T) {
	sess := generatedSession(t)

	result := ProcessTurn(sess, "that is wonderful, thank you")

	if result.ParamsChanged {
		t.Error("Expected no parameter change")
	}
	if sess.ForceRegeneration {
		t.Error("Expected ForceRegeneration to stay unset")
	}
	if sess.GenerationResult == nil {
		t.Error("Expected generation result to be preserved")
	}
	if sess.Status != model.StatusGenerated {
		t.Errorf("Status = %s, want %s", sess.Status, model.StatusGenerated)
	}
}

func TestProcessTurn_RepeatedValueIsNotAChange(t *testing.T) {
	sess := model.NewSession("test-session")
	sess.Parameters = map[string]string{model.ParamImageURL: "https://example.com/house.jpg"}
	sess.Status = model.StatusCollectingInfo

	result := ProcessTurn(sess, "the image is https://example.com/house.jpg")

	if result.ParamsChanged {
		t.Error("Re-sending the same value must not count as a parameter change")
	}
	if sess.ForceRegeneration {
		t.Error("Expected ForceRegeneration to stay unset")
	}
}

func TestCheckRequirements(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*model.Session)
		want  model.Status
	}{
		{
			name:  "empty parameters",
			setup: func(s *model.Session) {},
			want:  model.StatusCollectingInfo,
		},
		{
			name: "template 1 with only image",
			setup: func(s *model.Session) {
				s.Parameters[model.ParamImageURL] = "https://example.com/a.jpg"
			},
			want: model.StatusCollectingInfo,
		},
		{
			name: "template 1 with image and price",
			setup: func(s *model.Session) {
				s.Parameters[model.ParamImageURL] = "https://example.com/a.jpg"
				s.Parameters[model.ParamPropertyPrice] = "$450,000"
			},
			want: model.StatusReadyToGenerate,
		},
		{
			name: "template 2 with only image",
			setup: func(s *model.Session) {
				s.ActiveTemplate = 2
				s.Parameters[model.ParamImageURL] = "https://example.com/a.jpg"
			},
			want: model.StatusReadyToGenerate,
		},
		{
			name: "force flag short-circuits field check",
			setup: func(s *model.Session) {
				s.Parameters[model.ParamImageURL] = "https://example.com/a.jpg"
				s.ForceRegeneration = true
			},
			want: model.StatusReadyToGenerate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := model.NewSession("test-session")
			tt.setup(sess)
			CheckRequirements(sess)
			if sess.Status != tt.want {
				t.Errorf("Status = %s, want %s", sess.Status, tt.want)
			}
		})
	}
}

func TestMissingParams(t *testing.T) {
	missing := MissingParams(1, map[string]string{model.ParamImageURL: "https://example.com/a.jpg"})
	if len(missing) != 1 || missing[0] != model.ParamPropertyPrice {
		t.Errorf("MissingParams = %v, want [property_price]", missing)
	}

	missing = MissingParams(2, map[string]string{})
	if len(missing) != 1 || missing[0] != model.ParamImageURL {
		t.Errorf("MissingParams = %v, want [image_url]", missing)
	}
}
