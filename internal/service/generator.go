package service

import (
	"context"
	"errors"
	"log"

	"core/internal/model"
)

// User-visible notes appended to the history on generation failures
const (
	noteMissingImageURL = "Error: Missing image URL. Please provide a URL to an image before generating the template."
	noteImageURLNeeded  = "Error: An image URL is required. Please provide a URL to an image of the property."
)

// paramBinding maps one session parameter onto a layer field
type paramBinding struct {
	layer string
	color bool
}

// layerBindings is the per-template mapping from parameter keys to the
// layer text/color field they overwrite
var layerBindings = map[int]map[string]paramBinding{
	1: {
		model.ParamPropertyPrice:  {layer: "price"},
		model.ParamModernText:     {layer: "modern"},
		model.ParamHomeText:       {layer: "home"},
		model.ParamForSaleText:    {layer: "for sale"},
		model.ParamStartFromText:  {layer: "start from"},
		model.ParamCTAText:        {layer: "button-cta"},
		model.ParamWebsiteText:    {layer: "website"},
		model.ParamModernColor:    {layer: "modern", color: true},
		model.ParamHomeColor:      {layer: "home", color: true},
		model.ParamForSaleColor:   {layer: "for sale", color: true},
		model.ParamStartFromColor: {layer: "start from", color: true},
		model.ParamPriceColor:     {layer: "price", color: true},
		model.ParamCTAColor:       {layer: "button-cta", color: true},
		model.ParamWebsiteColor:   {layer: "website", color: true},
	},
	2: {
		model.ParamHouseAgentText:  {layer: "text-1"},
		model.ParamTaglineText:     {layer: "text-1-copy"},
		model.ParamInfoHeaderText:  {layer: "text-1-copy-copy"},
		model.ParamContactInfoText: {layer: "text-1-copy-copy-copy"},
		model.ParamText1Color:      {layer: "text-1", color: true},
		model.ParamText1CopyColor:  {layer: "text-1-copy", color: true},
		model.ParamText1Copy2Color: {layer: "text-1-copy-copy", color: true},
		model.ParamText1Copy3Color: {layer: "text-1-copy-copy-copy", color: true},
	},
	3: {
		model.ParamTitle1Text:     {layer: "title-1"},
		model.ParamTitle2Text:     {layer: "title-2"},
		model.ParamCTAButtonText:  {layer: "button-cta"},
		model.ParamInfoText:       {layer: "info"},
		model.ParamT3WebsiteText:  {layer: "website"},
		model.ParamTitle1Color:    {layer: "title-1", color: true},
		model.ParamTitle2Color:    {layer: "title-2", color: true},
		model.ParamCTAColor:       {layer: "button-cta", color: true},
		model.ParamInfoColor:      {layer: "info", color: true},
		model.ParamT3WebsiteColor: {layer: "website", color: true},
	},
}

// Generator assembles the layer map for the active template and invokes
// the external rendering operation
type Generator struct {
	renderer Renderer
}

// NewGenerator creates a template generator
func NewGenerator(renderer Renderer) *Generator {
	return &Generator{renderer: renderer}
}

// Generate renders a poster for the session's active template. Every
// failure path leaves the session in a well-formed state with an
// explanatory history entry; collected parameters are never discarded.
func (g *Generator) Generate(ctx context.Context, sess *model.Session) {
	if sess.Parameters[model.ParamImageURL] == "" {
		log.Printf("Cannot generate template for session %s: missing required image_url parameter", sess.ID)
		sess.Append(model.RoleSystem, noteMissingImageURL)
		sess.Status = model.StatusCollectingInfo
		return
	}

	layers := BuildLayers(sess.ActiveTemplate, sess.Parameters)

	result, err := g.renderer.Render(ctx, sess.ActiveTemplate, layers)
	if err != nil {
		log.Printf("Error generating template for session %s: %v", sess.ID, err)
		if errors.Is(err, ErrMissingImageURL) {
			sess.Append(model.RoleSystem, noteImageURLNeeded)
		} else {
			sess.Append(model.RoleSystem, "Error generating template: "+err.Error())
		}
		sess.Status = model.StatusCollectingInfo
		return
	}

	sess.GenerationResult = result
	sess.Status = model.StatusGenerated
	sess.ForceRegeneration = false
	log.Printf("Template %d generated for session %s. URL: %s", sess.ActiveTemplate, sess.ID, result.URL)
}

// BuildLayers assembles the full layer map for a template: the fixed
// default structure with each field overwritten from the parameters when
// present
func BuildLayers(templateVersion int, params map[string]string) model.LayerMap {
	layers := model.DefaultLayers(templateVersion)

	main := layers[model.MainImageLayer(templateVersion)]
	main.ImageURL = params[model.ParamImageURL]
	layers[model.MainImageLayer(templateVersion)] = main

	if templateVersion == 3 {
		// Secondary photos fall back to the main image when not supplied
		photos := map[string]string{
			"photo-1": params[model.ParamSecondaryImage1],
			"photo-2": params[model.ParamSecondaryImage2],
			"photo-3": params[model.ParamSecondaryImage3],
		}
		for name, url := range photos {
			layer := layers[name]
			if url != "" {
				layer.ImageURL = url
			} else {
				layer.ImageURL = params[model.ParamImageURL]
			}
			layers[name] = layer
		}
	}

	bindings, ok := layerBindings[templateVersion]
	if !ok {
		bindings = layerBindings[1]
	}
	for param, value := range params {
		binding, ok := bindings[param]
		if !ok || value == "" {
			continue
		}
		layer := layers[binding.layer]
		if binding.color {
			layer.Color = value
		} else {
			layer.Text = value
		}
		layers[binding.layer] = layer
	}

	return layers
}
