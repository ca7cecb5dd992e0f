package server

import (
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/memeforge/wojak"
)

// templateEntry is the gallery item shape returned to clients.
type templateEntry struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail"`
}

// generateResponse is the wire shape of a successful generation.
type generateResponse struct {
	Success    bool                   `json:"success"`
	Image      string                 `json:"image"`
	Validation wojak.ValidationReport `json:"validation"`
	Params     wojak.Params           `json:"params"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleListTemplates(c *gin.Context) {
	infos := s.gen.ListTemplates()
	entries := make([]templateEntry, 0, len(infos))
	for _, info := range infos {
		entries = append(entries, templateEntry{
			ID:          info.ID,
			Name:        info.Name,
			Description: info.Description,
			Thumbnail:   base64.StdEncoding.EncodeToString(info.Thumbnail),
		})
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "templates": entries})
}

func (s *Server) handleThumbnail(c *gin.Context) {
	id := c.Param("id")
	for _, info := range s.gen.ListTemplates() {
		if info.ID == id {
			c.Data(http.StatusOK, "image/png", info.Thumbnail)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "template not found"})
}

func (s *Server) handleGenerate(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "no file provided"})
		return
	}
	if file.Size > s.cfg.MaxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"success": false, "error": "uploaded file is too large"})
		return
	}

	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "could not read the uploaded file"})
		return
	}
	defer f.Close()

	src, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "could not read the uploaded file"})
		return
	}

	templateID := c.DefaultPostForm("template", "wojak_basic")
	params := parseParams(c)

	result, err := s.gen.Generate(src, templateID, params)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, generateResponse{
		Success:    true,
		Image:      base64.StdEncoding.EncodeToString(result.Image),
		Validation: result.Report,
		Params:     result.Params,
	})
}

// parseParams reads the optional strength fields from the form, keeping the
// defaults for missing or malformed values.
func parseParams(c *gin.Context) wojak.Params {
	params := wojak.DefaultParams()

	read := func(field string, dst *float64) {
		raw, ok := c.GetPostForm(field)
		if !ok {
			return
		}
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			*dst = v
		}
	}

	read("face_blend_strength", &params.FaceBlendStrength)
	read("eye_blend_strength", &params.EyeBlendStrength)
	read("mouth_blend_strength", &params.MouthBlendStrength)
	read("nose_blend_strength", &params.NoseBlendStrength)
	read("color_match_strength", &params.ColorMatchStrength)
	read("contrast_enhancement", &params.ContrastEnhancement)

	return params
}

// respondError maps core errors onto HTTP statuses: bad input is the
// client's problem, an unknown template is a 404, everything else is ours.
func (s *Server) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, wojak.ErrTemplateNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, wojak.ErrDecode):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "the uploaded file is not a supported image format"})
	case errors.Is(err, wojak.ErrImageTooSmall):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
	default:
		s.log.Error("generation failed",
			zap.String("request_id", c.GetString("request_id")),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal error"})
	}
}
