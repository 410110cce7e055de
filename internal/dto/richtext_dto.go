package dto

import "encoding/json"

type RenderDescriptionRequest struct {
	Description json.RawMessage `json:"description"`
	Locale      string          `json:"locale" validate:"omitempty,oneof=id en"`
}

type RenderDescriptionResponse struct {
	Html string `json:"html"`
}

type NormalizeDescriptionRequest struct {
	Description json.RawMessage `json:"description" validate:"required"`
}

type NormalizeDescriptionResponse struct {
	Description string `json:"description"`
	Empty       bool   `json:"empty"`
}

type ImportMarkdownRequest struct {
	Markdown string `json:"markdown"`
}

type ImportMarkdownResponse struct {
	Description string `json:"description"`
}

type ExportMarkdownRequest struct {
	Description json.RawMessage `json:"description" validate:"required"`
}

type ExportMarkdownResponse struct {
	Markdown  string `json:"markdown"`
	PlainText string `json:"plain_text"`
}

// ToolbarConfigResponse lists the values the editor toolbar may offer.
type ToolbarConfigResponse struct {
	FontSizes       []string `json:"font_sizes"`
	DefaultFontSize string   `json:"default_font_size"`
	Colors          []string `json:"colors"`
	BlockFormats    []string `json:"block_formats"`
	Marks           []string `json:"marks"`
	MaxHistory      int      `json:"max_history"`
}
