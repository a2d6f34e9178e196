package service

import (
	"regexp"
	"strconv"
	"strings"

	"core/internal/model"
	"core/internal/utils"
)

// Template choice patterns, checked in priority order
var (
	templateExplicitRe = regexp.MustCompile(`(?i)(?:use|select|choose|prefer|want|generate|create|try)\s+(?:the\s+)?template\s+(\d)`)
	templateNumberRe   = regexp.MustCompile(`(?i)template\s*(?:number|#)?\s*(\d)`)
	template1ThemeRe   = regexp.MustCompile(`(?i)modern home|for sale|start from|buy now`)
	template2ThemeRe   = regexp.MustCompile(`(?i)house agent|information|contact|technology|template 2`)
	template3ThemeRe   = regexp.MustCompile(`(?i)best home|multiple photos|i want button|three images|template 3`)
)

// Image URL patterns, checked in priority order
var (
	imageURLRe    = regexp.MustCompile(`(?i)https?://\S+\.(?:jpg|jpeg|png|gif|webp)`)
	wwwImageURLRe = regexp.MustCompile(`(?i)www\.\S+\.(?:jpg|jpeg|png|gif|webp)`)
	wwwAnyURLRe   = regexp.MustCompile(`(?i)www\.\S+\.\w+`)
)

// Template 1 price patterns; the modification phrase always wins over a
// bare $amount elsewhere in the same message
var (
	priceModificationRe = regexp.MustCompile(`(?i)(?:modify|change|update|set|make)(?:\s+the)?\s+price\s+(?:to|as|be)\s+\$?([\d,.]+)`)
	dollarAmountRe      = regexp.MustCompile(`\$([\d,.]+)`)
	pricePhraseRe       = regexp.MustCompile(`(?i)(?:price|cost|value)[^\d]*(\d[\d,.]+)`)
)

// Template 1 free-text override patterns
var (
	textOverrideRe  = regexp.MustCompile(`([\w\s-]+) text should be "([^"]+)"`)
	colorOverrideRe = regexp.MustCompile(`([\w\s-]+) color should be ([#\w(),. ]+)`)
)

// Element name aliases for template 1 text overrides
var textElementParams = map[string]string{
	"modern":     model.ParamModernText,
	"home":       model.ParamHomeText,
	"for sale":   model.ParamForSaleText,
	"start from": model.ParamStartFromText,
	"cta":        model.ParamCTAText,
	"buy now":    model.ParamCTAText,
	"website":    model.ParamWebsiteText,
}

// Element name aliases for template 1 color overrides
var colorElementParams = map[string]string{
	"modern":     model.ParamModernColor,
	"home":       model.ParamHomeColor,
	"for sale":   model.ParamForSaleColor,
	"start from": model.ParamStartFromColor,
	"price":      model.ParamPriceColor,
	"cta":        model.ParamCTAColor,
	"buy now":    model.ParamCTAColor,
	"website":    model.ParamWebsiteColor,
}

// Closed set of color-name adjectives recognized before an element keyword
// ("yellow buy now", "red modern"); template 1 only
var colorAdjectives = map[string]string{
	"yellow": "#FFD700",
	"red":    "#FF0000",
	"blue":   "#0000FF",
	"green":  "#00FF00",
	"black":  "#000000",
	"white":  "#FFFFFF",
	"purple": "#800080",
	"orange": "#FFA500",
	"pink":   "#FFC0CB",
	"brown":  "#A52A2A",
	"gray":   "#808080",
	"gold":   "#FFD700",
}

// adjectiveTargets maps the element keywords the adjective shortcut applies
// to; "button" is an accepted alias for the CTA button
var adjectiveTargets = []struct {
	keywords []string
	param    string
}{
	{[]string{"buy now", "button"}, model.ParamCTAColor},
	{[]string{"modern"}, model.ParamModernColor},
	{[]string{"home"}, model.ParamHomeColor},
	{[]string{"for sale"}, model.ParamForSaleColor},
	{[]string{"price"}, model.ParamPriceColor},
	{[]string{"website"}, model.ParamWebsiteColor},
}

// fieldPattern binds one fixed literal phrasing to a parameter key.
// Templates 2 and 3 recognize exactly one phrasing per field.
type fieldPattern struct {
	re    *regexp.Regexp
	param string
}

var template2Fields = []fieldPattern{
	{regexp.MustCompile(`(?i)house agent\s+text\s+["']([^"']+)["']`), model.ParamHouseAgentText},
	{regexp.MustCompile(`(?i)tagline\s+text\s+["']([^"']+)["']`), model.ParamTaglineText},
	{regexp.MustCompile(`(?i)info header\s+text\s+["']([^"']+)["']`), model.ParamInfoHeaderText},
	{regexp.MustCompile(`(?i)contact info\s+text\s+["']([^"']+)["']`), model.ParamContactInfoText},
	{regexp.MustCompile(`(?i)main text\s+color\s+([#\w(),. ]+)`), model.ParamText1Color},
	{regexp.MustCompile(`(?i)tagline\s+color\s+([#\w(),. ]+)`), model.ParamText1CopyColor},
	{regexp.MustCompile(`(?i)info header\s+color\s+([#\w(),. ]+)`), model.ParamText1Copy2Color},
	{regexp.MustCompile(`(?i)contact info\s+color\s+([#\w(),. ]+)`), model.ParamText1Copy3Color},
}

var template3Fields = []fieldPattern{
	{regexp.MustCompile(`(?i)main title\s+text\s+["']([^"']+)["']`), model.ParamTitle1Text},
	{regexp.MustCompile(`(?i)second title\s+text\s+["']([^"']+)["']`), model.ParamTitle2Text},
	{regexp.MustCompile(`(?i)button\s+text\s+["']([^"']+)["']`), model.ParamCTAButtonText},
	{regexp.MustCompile(`(?i)info\s+text\s+["']([^"']+)["']`), model.ParamInfoText},
	{regexp.MustCompile(`(?i)website\s+text\s+["']([^"']+)["']`), model.ParamT3WebsiteText},
	{regexp.MustCompile(`(?i)main title\s+color\s+([#\w(),. ]+)`), model.ParamTitle1Color},
	{regexp.MustCompile(`(?i)second title\s+color\s+([#\w(),. ]+)`), model.ParamTitle2Color},
	{regexp.MustCompile(`(?i)button\s+color\s+([#\w(),. ]+)`), model.ParamCTAColor},
	{regexp.MustCompile(`(?i)info\s+color\s+([#\w(),. ]+)`), model.ParamInfoColor},
	{regexp.MustCompile(`(?i)website\s+color\s+([#\w(),. ]+)`), model.ParamT3WebsiteColor},
}

var secondaryImageRe = regexp.MustCompile(`(?i)secondary image\s+(\d)\s+(https?://\S+\.\w+)`)

// Keyword sets that signal "please (re)do it" or "show me the result"
var (
	regenerationKeywords = []string{
		"regenerate", "generate", "create", "update", "change", "modify",
		"make", "yes", "proceed", "go ahead", "do it", "new",
	}
	resultKeywords = []string{
		"url", "link", "generated", "show me", "view", "preview", "see",
		"poster", "provide",
	}
)

// DetectTemplateSignal reports which template the text points at and whether
// any signal was actually present. The cascade is: explicit "use template N"
// phrasing, then a bare "template N" mention, then thematic keyword sets.
func DetectTemplateSignal(text string) (int, bool) {
	if m := templateExplicitRe.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n >= 1 && n <= 3 {
			return n, true
		}
	}
	if m := templateNumberRe.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n >= 1 && n <= 3 {
			return n, true
		}
	}
	if template1ThemeRe.MatchString(text) {
		return 1, true
	}
	if template2ThemeRe.MatchString(text) {
		return 2, true
	}
	if template3ThemeRe.MatchString(text) {
		return 3, true
	}
	return 1, false
}

// ExtractTemplateChoice returns the template the text selects, defaulting
// to template 1 when no signal is present. Never ambiguous.
func ExtractTemplateChoice(text string) int {
	choice, _ := DetectTemplateSignal(text)
	return choice
}

// ExtractResult is the outcome of one extraction pass over a user message
type ExtractResult struct {
	// Params holds recognized parameters, keyed by template schema names
	Params map[string]string
	// PriceModified is true when an explicit price-modification phrase
	// matched (template 1 only)
	PriceModified bool
}

// ExtractParams extracts customization parameters from the user message for
// the given template version. Stateless; running it twice over the same text
// yields the same result.
func ExtractParams(text string, templateVersion int) ExtractResult {
	result := ExtractResult{Params: map[string]string{}}

	extractImageURL(text, result.Params)

	switch templateVersion {
	case 2:
		extractFieldPatterns(text, template2Fields, result.Params)
	case 3:
		extractSecondaryImages(text, result.Params)
		extractFieldPatterns(text, template3Fields, result.Params)
	default:
		result.PriceModified = extractPrice(text, result.Params)
		extractTemplate1Text(text, result.Params)
		// Adjective shortcut runs first; the explicit "color should be"
		// rule is applied after and unconditionally overwrites on conflict.
		extractColorAdjectives(text, result.Params)
		extractTemplate1Colors(text, result.Params)
	}

	return result
}

// extractImageURL applies the three-rule URL cascade: absolute URL with an
// image extension, then a www. URL with an image extension, then any www.
// URL at all. www. URLs are normalized by prepending https://. First match
// wins; later rules are not attempted.
func extractImageURL(text string, params map[string]string) {
	if m := imageURLRe.FindString(text); m != "" {
		params[model.ParamImageURL] = m
		return
	}
	if m := wwwImageURLRe.FindString(text); m != "" {
		params[model.ParamImageURL] = "https://" + m
		return
	}
	if m := wwwAnyURLRe.FindString(text); m != "" {
		params[model.ParamImageURL] = "https://" + m
	}
}

// extractPrice detects the property price for template 1 and reports
// whether an explicit modification phrase matched
func extractPrice(text string, params map[string]string) bool {
	if m := priceModificationRe.FindStringSubmatch(text); m != nil {
		params[model.ParamPropertyPrice] = utils.FormatPrice(m[1])
		return true
	}
	if m := dollarAmountRe.FindStringSubmatch(text); m != nil {
		params[model.ParamPropertyPrice] = utils.FormatPrice(m[1])
		return false
	}
	if m := pricePhraseRe.FindStringSubmatch(text); m != nil {
		params[model.ParamPropertyPrice] = utils.FormatPrice(m[1])
	}
	return false
}

// extractTemplate1Text handles `<element> text should be "..."` phrases;
// unrecognized element names are ignored
func extractTemplate1Text(text string, params map[string]string) {
	for _, m := range textOverrideRe.FindAllStringSubmatch(text, -1) {
		element := strings.ToLower(strings.TrimSpace(m[1]))
		if param, ok := textElementParams[element]; ok {
			params[param] = m[2]
		}
	}
}

// extractTemplate1Colors handles `<element> color should be <spec>` phrases
func extractTemplate1Colors(text string, params map[string]string) {
	for _, m := range colorOverrideRe.FindAllStringSubmatch(text, -1) {
		element := strings.ToLower(strings.TrimSpace(m[1]))
		if param, ok := colorElementParams[element]; ok {
			params[param] = strings.TrimSpace(m[2])
		}
	}
}

// extractColorAdjectives maps "yellow buy now" style phrases to fixed hex
// values when a color adjective immediately precedes an element keyword
func extractColorAdjectives(text string, params map[string]string) {
	lower := strings.ToLower(text)
	for adjective, hex := range colorAdjectives {
		for _, target := range adjectiveTargets {
			for _, keyword := range target.keywords {
				if strings.Contains(lower, adjective+" "+keyword) {
					params[target.param] = hex
				}
			}
		}
	}
}

// extractFieldPatterns applies fixed literal-phrase patterns for templates 2/3
func extractFieldPatterns(text string, fields []fieldPattern, params map[string]string) {
	for _, f := range fields {
		if m := f.re.FindStringSubmatch(text); m != nil {
			params[f.param] = strings.TrimSpace(m[1])
		}
	}
}

// extractSecondaryImages collects "secondary image N <url>" mentions for
// template 3
func extractSecondaryImages(text string, params map[string]string) {
	for _, m := range secondaryImageRe.FindAllStringSubmatch(text, -1) {
		switch m[1] {
		case "1":
			params[model.ParamSecondaryImage1] = m[2]
		case "2":
			params[model.ParamSecondaryImage2] = m[2]
		case "3":
			params[model.ParamSecondaryImage3] = m[2]
		}
	}
}

// HasRegenerationIntent reports whether the message contains a keyword
// meaning "please (re)do it"
func HasRegenerationIntent(text string) bool {
	return containsAny(text, regenerationKeywords)
}

// HasResultIntent reports whether the message asks to see the generated
// result (URL, preview, poster)
func HasResultIntent(text string) bool {
	return containsAny(text, resultKeywords)
}

func containsAny(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
