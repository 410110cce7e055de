package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"time"

	"estate-listing-be/internal/dto"
	"estate-listing-be/internal/pkg/logger"
	"estate-listing-be/internal/repository/contract"
	"estate-listing-be/pkg/richtext"
	"estate-listing-be/pkg/richtext/editor"
	"estate-listing-be/pkg/richtext/render"

	"github.com/google/uuid"
)

const descriptionModule = "DescriptionService"

type IDescriptionService interface {
	// Render returns the HTML of a stored description, cached per listing,
	// description version and locale.
	Render(ctx context.Context, listingId uuid.UUID, version int64, serialized string, locale string) template.HTML
	// RenderRaw renders a description sent by a client without caching.
	RenderRaw(ctx context.Context, raw json.RawMessage, locale string) template.HTML
	Invalidate(ctx context.Context, listingId uuid.UUID) error
	Normalize(ctx context.Context, raw json.RawMessage) (*dto.NormalizeDescriptionResponse, error)
	ImportMarkdown(ctx context.Context, markdown string) (*dto.ImportMarkdownResponse, error)
	ExportMarkdown(ctx context.Context, raw json.RawMessage) (*dto.ExportMarkdownResponse, error)
	Toolbar() *dto.ToolbarConfigResponse
}

type descriptionService struct {
	cache         contract.RenderCache
	renderers     map[string]*render.Renderer
	defaultLocale string
	ttl           time.Duration
	maxHistory    int
	logger        logger.ILogger
}

func NewDescriptionService(
	cache contract.RenderCache,
	defaultLocale string,
	ttl time.Duration,
	maxHistory int,
	log logger.ILogger,
) IDescriptionService {
	zl := log.Named(descriptionModule)
	renderers := map[string]*render.Renderer{
		"id": render.New(render.WithLocale("id"), render.WithLogger(zl)),
		"en": render.New(render.WithLocale("en"), render.WithLogger(zl)),
	}
	if _, ok := renderers[defaultLocale]; !ok {
		defaultLocale = "id"
	}
	return &descriptionService{
		cache:         cache,
		renderers:     renderers,
		defaultLocale: defaultLocale,
		ttl:           ttl,
		maxHistory:    maxHistory,
		logger:        log,
	}
}

func (s *descriptionService) renderer(locale string) (*render.Renderer, string) {
	if r, ok := s.renderers[locale]; ok {
		return r, locale
	}
	return s.renderers[s.defaultLocale], s.defaultLocale
}

func cacheKeyPrefix(listingId uuid.UUID) string {
	return fmt.Sprintf("listing:%s:", listingId)
}

func cacheKey(listingId uuid.UUID, version int64, locale string) string {
	return fmt.Sprintf("%s%d:%s", cacheKeyPrefix(listingId), version, locale)
}

func (s *descriptionService) Render(ctx context.Context, listingId uuid.UUID, version int64, serialized string, locale string) template.HTML {
	r, locale := s.renderer(locale)
	key := cacheKey(listingId, version, locale)

	if html, ok, err := s.cache.Get(ctx, key); err != nil {
		s.logger.Warn(descriptionModule, "render cache read failed", map[string]interface{}{"key": key, "error": err.Error()})
	} else if ok {
		return template.HTML(html)
	}

	html := r.Render(serialized)
	if err := s.cache.Set(ctx, key, string(html), s.ttl); err != nil {
		s.logger.Warn(descriptionModule, "render cache write failed", map[string]interface{}{"key": key, "error": err.Error()})
	}
	return html
}

func (s *descriptionService) RenderRaw(ctx context.Context, raw json.RawMessage, locale string) template.HTML {
	r, _ := s.renderer(locale)
	var serialized string
	if isJSONString(raw) && json.Unmarshal(raw, &serialized) == nil {
		return r.Render(serialized)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return r.Render(nil)
	}
	return r.Render(raw)
}

func (s *descriptionService) Invalidate(ctx context.Context, listingId uuid.UUID) error {
	if err := s.cache.Delete(ctx, cacheKeyPrefix(listingId)); err != nil {
		return fmt.Errorf("invalidate render cache: %w", err)
	}
	return nil
}

func (s *descriptionService) Normalize(ctx context.Context, raw json.RawMessage) (*dto.NormalizeDescriptionResponse, error) {
	doc, err := decodeDescription(raw)
	if err != nil {
		return nil, err
	}
	doc = richtext.Normalize(doc)
	serialized, err := richtext.Serialize(doc)
	if err != nil {
		return nil, err
	}
	return &dto.NormalizeDescriptionResponse{
		Description: serialized,
		Empty:       doc.IsEmpty(),
	}, nil
}

func (s *descriptionService) ImportMarkdown(ctx context.Context, markdown string) (*dto.ImportMarkdownResponse, error) {
	doc, err := richtext.FromMarkdown(markdown)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidMarkdown, err)
	}
	serialized, err := richtext.Serialize(doc)
	if err != nil {
		return nil, err
	}
	return &dto.ImportMarkdownResponse{Description: serialized}, nil
}

func (s *descriptionService) ExportMarkdown(ctx context.Context, raw json.RawMessage) (*dto.ExportMarkdownResponse, error) {
	doc, err := decodeDescription(raw)
	if err != nil {
		return nil, err
	}
	return &dto.ExportMarkdownResponse{
		Markdown:  richtext.ToMarkdown(doc),
		PlainText: richtext.PlainText(doc),
	}, nil
}

func (s *descriptionService) Toolbar() *dto.ToolbarConfigResponse {
	marks := make([]string, 0, len(richtext.BooleanMarks)+2)
	for _, m := range richtext.BooleanMarks {
		marks = append(marks, string(m))
	}
	marks = append(marks, string(richtext.MarkColor), string(richtext.MarkFontSize))

	return &dto.ToolbarConfigResponse{
		FontSizes:       append([]string(nil), richtext.FontSizes...),
		DefaultFontSize: richtext.DefaultFontSize,
		Colors:          append([]string(nil), richtext.ColorPalette...),
		BlockFormats:    append([]string(nil), editor.BlockFormats...),
		Marks:           marks,
		MaxHistory:      s.maxHistory,
	}
}

func isJSONString(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '"'
}

// decodeDescription accepts a description either as the document array or
// as its serialized string. Empty input is the empty document.
func decodeDescription(raw json.RawMessage) (richtext.Document, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return richtext.NewDocument(), nil
	}
	if isJSONString(raw) {
		var serialized string
		if err := json.Unmarshal(raw, &serialized); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidDescription, err)
		}
		return parseDescription(serialized)
	}
	doc, err := richtext.DeserializeBytes(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDescription, err)
	}
	return doc, nil
}

// parseDescription reads a stored description. The blank string is the
// empty document.
func parseDescription(serialized string) (richtext.Document, error) {
	if len(bytes.TrimSpace([]byte(serialized))) == 0 {
		return richtext.NewDocument(), nil
	}
	doc, err := richtext.Deserialize(serialized)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDescription, err)
	}
	return doc, nil
}
