package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/fpang/product-studio/internal/filehandler"
	"github.com/fpang/product-studio/internal/history"
	"github.com/fpang/product-studio/internal/prompt"
	"github.com/fpang/product-studio/internal/studio"
)

// generateRequest is the JSON body shared by the analyze, generate, and
// video endpoints. Images travel as data URLs.
type generateRequest struct {
	Mode               string                  `json:"mode"`
	Category           string                  `json:"category"`
	ContextID          string                  `json:"contextId,omitempty"`
	CustomContext      *prompt.CustomContext   `json:"customContext,omitempty"`
	Analysis           *prompt.ProductAnalysis `json:"analysis,omitempty"`
	ProductDescription string                  `json:"productDescription,omitempty"`
	Image              string                  `json:"image,omitempty"`
	AdditionalImages   []string                `json:"additionalImages,omitempty"`
	AspectRatio        string                  `json:"aspectRatio,omitempty"`
	ImageSize          string                  `json:"imageSize,omitempty"`
	VideoQuality       string                  `json:"videoQuality,omitempty"`
	VideoDuration      int                     `json:"videoDurationSeconds,omitempty"`
}

// toStudioRequest decodes the wire shape into a studio request.
func (g *generateRequest) toStudioRequest() (studio.Request, error) {
	req := studio.Request{
		Category:             prompt.Category(strings.ToUpper(g.Category)),
		ContextID:            g.ContextID,
		Custom:               g.CustomContext,
		Analysis:             g.Analysis,
		ProductDescription:   g.ProductDescription,
		AspectRatio:          g.AspectRatio,
		ImageSize:            g.ImageSize,
		VideoQuality:         g.VideoQuality,
		VideoDurationSeconds: g.VideoDuration,
	}

	if g.Image != "" {
		data, mimeType, err := filehandler.ParseDataURL(g.Image)
		if err != nil {
			return studio.Request{}, fmt.Errorf("image: %w", err)
		}
		req.Image = &filehandler.ProductImage{Data: data, MIMEType: mimeType}
	}
	for i, extra := range g.AdditionalImages {
		data, _, err := filehandler.ParseDataURL(extra)
		if err != nil {
			return studio.Request{}, fmt.Errorf("additional image %d: %w", i, err)
		}
		req.AdditionalImages = append(req.AdditionalImages, data)
	}
	return req, nil
}

// GET /api/options — the scene catalogs and aspect ratios the UI offers.
func (s *server) handleOptions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"contexts": map[string]interface{}{
			"GAME":      prompt.GameContexts,
			"FURNITURE": prompt.FurnitureContexts,
		},
		"aspectRatios": prompt.AspectRatioOptions,
	})
}

// POST /api/analyze
func (s *server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Image == "" {
		httpError(w, http.StatusBadRequest, "image is required")
		return
	}
	data, mimeType, err := filehandler.ParseDataURL(req.Image)
	if err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}

	analysis, err := s.gen.Analyze(r.Context(), &filehandler.ProductImage{Data: data, MIMEType: mimeType})
	if err != nil {
		httpError(w, http.StatusBadGateway, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"analysis": analysis})
}

// POST /api/generate — runs EDIT or GENERATE synchronously.
func (s *server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var wireReq generateRequest
	if err := json.NewDecoder(r.Body).Decode(&wireReq); err != nil {
		httpError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req, err := wireReq.toStudioRequest()
	if err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}

	var result *studio.Result
	switch history.Mode(strings.ToUpper(wireReq.Mode)) {
	case history.ModeEdit:
		result, err = s.gen.Edit(r.Context(), req)
	case history.ModeGenerate:
		result, err = s.gen.Generate(r.Context(), req)
	default:
		httpError(w, http.StatusBadRequest, fmt.Sprintf("unsupported mode %q (use EDIT or GENERATE; video runs via /api/video/start)", wireReq.Mode))
		return
	}
	if err != nil {
		httpError(w, http.StatusBadGateway, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"entry": result.Entry,
		"asset": filehandler.EncodeDataURL(result.Data, result.MIMEType),
	})
}
