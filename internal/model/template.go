package model

// Parameter keys shared by all templates
const (
	ParamImageURL = "image_url"
)

// Template 1 parameter keys
const (
	ParamPropertyPrice  = "property_price"
	ParamModernText     = "modern_text"
	ParamHomeText       = "home_text"
	ParamForSaleText    = "for_sale_text"
	ParamStartFromText  = "start_from_text"
	ParamCTAText        = "cta_text"
	ParamWebsiteText    = "website_text"
	ParamModernColor    = "modern_color"
	ParamHomeColor      = "home_color"
	ParamForSaleColor   = "for_sale_color"
	ParamStartFromColor = "start_from_color"
	ParamPriceColor     = "price_color"
	ParamCTAColor       = "cta_color"
	ParamWebsiteColor   = "website_color"
)

// Template 2 parameter keys
const (
	ParamHouseAgentText  = "house_agent_text"
	ParamTaglineText     = "tagline_text"
	ParamInfoHeaderText  = "info_header_text"
	ParamContactInfoText = "contact_info_text"
	ParamText1Color      = "text_1_color"
	ParamText1CopyColor  = "text_1_copy_color"
	ParamText1Copy2Color = "text_1_copy_copy_color"
	ParamText1Copy3Color = "text_1_copy_copy_copy_color"
)

// Template 3 parameter keys
const (
	ParamSecondaryImage1 = "secondary_image_url1"
	ParamSecondaryImage2 = "secondary_image_url2"
	ParamSecondaryImage3 = "secondary_image_url3"
	ParamTitle1Text      = "title_1_text"
	ParamTitle2Text      = "title_2_text"
	ParamCTAButtonText   = "cta_button_text"
	ParamInfoText        = "info_text"
	ParamT3WebsiteText   = "template3_website_text"
	ParamTitle1Color     = "title_1_color"
	ParamTitle2Color     = "title_2_color"
	ParamInfoColor       = "info_color"
	ParamT3WebsiteColor  = "template3_website_color"
)

// templateParams maps each template version to its full parameter schema
var templateParams = map[int][]string{
	1: {
		ParamImageURL, ParamPropertyPrice,
		ParamModernText, ParamHomeText, ParamForSaleText, ParamStartFromText,
		ParamCTAText, ParamWebsiteText,
		ParamModernColor, ParamHomeColor, ParamForSaleColor, ParamStartFromColor,
		ParamPriceColor, ParamCTAColor, ParamWebsiteColor,
	},
	2: {
		ParamImageURL,
		ParamHouseAgentText, ParamTaglineText, ParamInfoHeaderText, ParamContactInfoText,
		ParamText1Color, ParamText1CopyColor, ParamText1Copy2Color, ParamText1Copy3Color,
	},
	3: {
		ParamImageURL,
		ParamSecondaryImage1, ParamSecondaryImage2, ParamSecondaryImage3,
		ParamTitle1Text, ParamTitle2Text, ParamCTAButtonText, ParamInfoText, ParamT3WebsiteText,
		ParamTitle1Color, ParamTitle2Color, ParamCTAColor, ParamInfoColor, ParamT3WebsiteColor,
	},
}

// templateRequired maps each template version to its required parameters
var templateRequired = map[int][]string{
	1: {ParamImageURL, ParamPropertyPrice},
	2: {ParamImageURL},
	3: {ParamImageURL},
}

// RequiredParams returns the required parameter set for a template version.
// Unknown versions fall back to template 1.
func RequiredParams(version int) []string {
	if req, ok := templateRequired[version]; ok {
		return req
	}
	return templateRequired[1]
}

// ValidParamSet returns the set of parameter keys valid for a template version
func ValidParamSet(version int) map[string]bool {
	params, ok := templateParams[version]
	if !ok {
		params = templateParams[1]
	}
	set := make(map[string]bool, len(params))
	for _, p := range params {
		set[p] = true
	}
	return set
}

// Layer is one named visual element within a template
type Layer struct {
	Text     string `json:"text,omitempty"`
	Color    string `json:"color,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

// LayerMap maps layer names to their customizations
type LayerMap map[string]Layer

// DefaultLayers returns the baseline layer structure for a template version.
// These literal defaults are what the rendering service expects; generation
// starts from them and overwrites individual fields from session parameters.
func DefaultLayers(version int) LayerMap {
	switch version {
	case 2:
		return LayerMap{
			"image-1":               {},
			"shape-1":               {},
			"shape-2":               {},
			"text-1":                {Text: "HOUSE AGENT", Color: "#FFFFFF"},
			"text-1-copy":           {Text: "modern | beautiful | technology", Color: "#FFFFFF"},
			"text-1-copy-copy":      {Text: "FOR MORE INFORMATION", Color: "rgb(105, 99, 65)"},
			"shape-3":               {},
			"text-1-copy-copy-copy": {Text: "+123 456 7890 | www.lovehouse.com", Color: "rgb(105, 99, 65)"},
		}
	case 3:
		return LayerMap{
			"image-top":  {},
			"photo-1":    {},
			"photo-2":    {},
			"photo-3":    {},
			"shape-1":    {},
			"title-1":    {Text: "THE BEST HOME", Color: "rgb(239, 233, 226)"},
			"title-2":    {Text: "FOR SALE", Color: "rgb(239, 233, 226)"},
			"button-cta": {Text: "I WANT", Color: "rgb(255, 255, 255)"},
			"info":       {Text: "For more info, contact us", Color: "rgb(126, 103, 76)"},
			"website":    {Text: "www.housesforyou.com", Color: "rgb(0, 0, 0)"},
		}
	default:
		return LayerMap{
			"image-1":    {},
			"bg-website": {},
			"website":    {Text: "www.house4you.com", Color: "#FFFFFF"},
			"shape-bg":   {},
			"modern":     {Text: "MODERN", Color: "rgb(171, 102, 49)"},
			"home":       {Text: "HOME", Color: "rgb(59, 59, 59)"},
			"for sale":   {Text: "FOR SALE", Color: "rgb(59, 59, 59)"},
			"start from": {Text: "START FROM", Color: "rgb(59, 59, 59)"},
			"price":      {Text: "$0", Color: "rgb(59, 59, 59)"},
			"button-cta": {Text: "BUY NOW", Color: "rgb(228, 228, 222)"},
		}
	}
}

// MainImageLayer returns the layer name holding the primary image
func MainImageLayer(version int) string {
	if version == 3 {
		return "image-top"
	}
	return "image-1"
}

// TemplateInfo describes one available template for the catalog endpoint
type TemplateInfo struct {
	ID                   int      `json:"id"`
	Name                 string   `json:"name"`
	Description          string   `json:"description"`
	PreviewURL           string   `json:"preview_url"`
	CustomizableElements []string `json:"customizable_elements"`
	RequiredElements     []string `json:"required_elements"`
}

// Templates returns the catalog of available templates
func Templates() []TemplateInfo {
	return []TemplateInfo{
		{
			ID:                   1,
			Name:                 "Modern Home",
			Description:          "Classic real estate poster with modern design elements",
			PreviewURL:           "https://example.com/templates/modern_home_preview.jpg",
			CustomizableElements: templateParams[1],
			RequiredElements:     templateRequired[1],
		},
		{
			ID:                   2,
			Name:                 "House Agent",
			Description:          "Professional real estate agent focused template",
			PreviewURL:           "https://example.com/templates/house_agent_preview.jpg",
			CustomizableElements: templateParams[2],
			RequiredElements:     templateRequired[2],
		},
		{
			ID:                   3,
			Name:                 "Best Home",
			Description:          "Multi-image template with prominent call-to-action",
			PreviewURL:           "https://example.com/templates/best_home_preview.jpg",
			CustomizableElements: templateParams[3],
			RequiredElements:     templateRequired[3],
		},
	}
}
