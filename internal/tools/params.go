package tools

import (
	"encoding/json"
	"math"
	"sort"
	"strings"

	"github.com/codefionn/docsmcp/internal/docerr"
	"github.com/codefionn/docsmcp/internal/locate"
	"github.com/codefionn/docsmcp/internal/style"
	"go.uber.org/multierr"
)

// Parameter names shared by several tools.
const (
	paramDocumentID    = "document_id"
	paramStartIndex    = "start_index"
	paramEndIndex      = "end_index"
	paramIndex         = "index"
	paramTextToFind    = "text_to_find"
	paramMatchInstance = "match_instance"
	paramInParagraph   = "index_within_paragraph"
	paramStyle         = "style"
	paramText          = "text"
	paramFileID        = "file_id"
	paramFolderID      = "folder_id"
	paramCommentID     = "comment_id"
	paramLimit         = "limit"
)

func objectSchema(required []string, props map[string]interface{}) map[string]interface{} {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func stringProp(description string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "description": description}
}

func integerProp(description string, minimum int) map[string]interface{} {
	return map[string]interface{}{"type": "integer", "description": description, "minimum": minimum}
}

func boolProp(description string) map[string]interface{} {
	return map[string]interface{}{"type": "boolean", "description": description}
}

func enumProp(description string, values []string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "description": description, "enum": values}
}

func documentIDProp() map[string]interface{} {
	return stringProp("ID of the Google Doc (the long token in its URL)")
}

func invalidParam(format string, args ...interface{}) error {
	return docerr.New(docerr.KindInvalidArgument, format, args...)
}

// requireString returns the trimmed, non-empty string parameter key.
func requireString(params map[string]interface{}, key string) (string, error) {
	raw, ok := params[key]
	if !ok || raw == nil {
		return "", invalidParam("%s is required", key)
	}
	s, ok := raw.(string)
	if !ok {
		return "", invalidParam("%s must be a string", key)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", invalidParam("%s must not be empty", key)
	}
	return s, nil
}

// requireText returns a required string parameter without trimming it.
func requireText(params map[string]interface{}, key string) (string, error) {
	raw, ok := params[key]
	if !ok || raw == nil {
		return "", invalidParam("%s is required", key)
	}
	s, ok := raw.(string)
	if !ok {
		return "", invalidParam("%s must be a string", key)
	}
	if s == "" {
		return "", invalidParam("%s must not be empty", key)
	}
	return s, nil
}

func toInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	}
	return 0, false
}

func toFloat64(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// optionalInt reads an integer parameter. present is false when absent.
func optionalInt(params map[string]interface{}, key string) (v int64, present bool, err error) {
	raw, ok := params[key]
	if !ok || raw == nil {
		return 0, false, nil
	}
	v, ok = toInt64(raw)
	if !ok {
		return 0, true, invalidParam("%s must be an integer", key)
	}
	return v, true, nil
}

func requireInt(params map[string]interface{}, key string) (int64, error) {
	v, present, err := optionalInt(params, key)
	if err != nil {
		return 0, err
	}
	if !present {
		return 0, invalidParam("%s is required", key)
	}
	return v, nil
}

func boolPtr(raw interface{}, key string) (*bool, error) {
	b, ok := raw.(bool)
	if !ok {
		return nil, invalidParam("%s must be a boolean", key)
	}
	return &b, nil
}

func floatPtr(raw interface{}, key string) (*float64, error) {
	f, ok := toFloat64(raw)
	if !ok {
		return nil, invalidParam("%s must be a number", key)
	}
	return &f, nil
}

func stringPtr(raw interface{}, key string) (*string, error) {
	s, ok := raw.(string)
	if !ok {
		return nil, invalidParam("%s must be a string", key)
	}
	return &s, nil
}

// targetSchema adds the target parameters to props. Offset targets are
// offered only where a paragraph is being addressed.
func targetSchema(props map[string]interface{}, withOffset bool) map[string]interface{} {
	props[paramStartIndex] = integerProp("Start of an explicit range (inclusive, 1-based). Use with end_index.", 1)
	props[paramEndIndex] = integerProp("End of an explicit range (exclusive). Use with start_index.", 1)
	props[paramTextToFind] = stringProp("Locate the target by searching for this exact text instead of giving indices.")
	props[paramMatchInstance] = integerProp("Which occurrence of text_to_find to use (1-based, default 1). Only valid with text_to_find.", 1)
	if withOffset {
		props[paramInParagraph] = integerProp("Any index inside the paragraph to style.", 1)
	}
	return props
}

// parseTarget reads exactly one target variant from params.
func parseTarget(params map[string]interface{}, withOffset bool) (locate.Target, error) {
	start, hasStart, err := optionalInt(params, paramStartIndex)
	if err != nil {
		return nil, err
	}
	end, hasEnd, err := optionalInt(params, paramEndIndex)
	if err != nil {
		return nil, err
	}
	text := GetStringParam(params, paramTextToFind, "")
	offset, hasOffset, err := optionalInt(params, paramInParagraph)
	if err != nil {
		return nil, err
	}
	if !withOffset && hasOffset {
		return nil, invalidParam("%s is only accepted for paragraph styling", paramInParagraph)
	}

	given := 0
	for _, set := range []bool{hasStart || hasEnd, text != "", hasOffset} {
		if set {
			given++
		}
	}
	if given != 1 {
		if withOffset {
			return nil, invalidParam("give exactly one of start_index/end_index, text_to_find or %s", paramInParagraph)
		}
		return nil, invalidParam("give exactly one of start_index/end_index or text_to_find")
	}

	if v, ok := params[paramMatchInstance]; ok && v != nil && text == "" {
		return nil, invalidParam("%s is only accepted with %s", paramMatchInstance, paramTextToFind)
	}

	switch {
	case hasStart || hasEnd:
		if !hasStart || !hasEnd {
			return nil, invalidParam("start_index and end_index must be given together")
		}
		return locate.RangeTarget{Range: locate.Range{StartIndex: start, EndIndex: end}}, nil
	case text != "":
		instance, present, err := optionalInt(params, paramMatchInstance)
		if err != nil {
			return nil, err
		}
		if !present {
			instance = 1
		}
		return locate.TextTarget{Text: text, Instance: int(instance)}, nil
	default:
		return locate.OffsetTarget{Index: offset}, nil
	}
}

// styleObject returns the "style" parameter, rejecting keys outside names.
func styleObject(params map[string]interface{}, names []string) (map[string]interface{}, error) {
	raw, ok := params[paramStyle]
	if !ok || raw == nil {
		return nil, nil
	}
	obj, ok := raw.(map[string]interface{})
	if !ok {
		return nil, invalidParam("%s must be an object", paramStyle)
	}
	known := make(map[string]bool, len(names))
	for _, n := range names {
		known[n] = true
	}
	var unknown []string
	for k := range obj {
		if !known[k] {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, invalidParam("unknown style option(s) %s; accepted: %s",
			strings.Join(unknown, ", "), strings.Join(names, ", "))
	}
	return obj, nil
}

// parseTextOptions reads the sparse character style from params. Type
// errors for every option are reported together.
func parseTextOptions(params map[string]interface{}) (style.TextOptions, error) {
	var o style.TextOptions
	obj, err := styleObject(params, style.TextOptionNames())
	if err != nil || obj == nil {
		return o, err
	}

	var errs error
	for key, raw := range obj {
		var err error
		switch key {
		case "bold":
			o.Bold, err = boolPtr(raw, key)
		case "italic":
			o.Italic, err = boolPtr(raw, key)
		case "underline":
			o.Underline, err = boolPtr(raw, key)
		case "strikethrough":
			o.Strikethrough, err = boolPtr(raw, key)
		case "fontSize":
			o.FontSize, err = floatPtr(raw, key)
		case "fontFamily":
			o.FontFamily, err = stringPtr(raw, key)
		case "foregroundColor":
			o.ForegroundColor, err = stringPtr(raw, key)
		case "backgroundColor":
			o.BackgroundColor, err = stringPtr(raw, key)
		case "linkUrl":
			o.LinkURL, err = stringPtr(raw, key)
		}
		errs = multierr.Append(errs, err)
	}
	if errs != nil {
		return style.TextOptions{}, docerr.Wrap(docerr.KindInvalidArgument, errs, "invalid style")
	}
	return o, nil
}

// parseParagraphOptions reads the sparse paragraph style from params.
func parseParagraphOptions(params map[string]interface{}) (style.ParagraphOptions, error) {
	var o style.ParagraphOptions
	obj, err := styleObject(params, style.ParagraphOptionNames())
	if err != nil || obj == nil {
		return o, err
	}

	var errs error
	for key, raw := range obj {
		var err error
		switch key {
		case "alignment":
			o.Alignment, err = stringPtr(raw, key)
		case "indentStart":
			o.IndentStart, err = floatPtr(raw, key)
		case "indentEnd":
			o.IndentEnd, err = floatPtr(raw, key)
		case "spaceAbove":
			o.SpaceAbove, err = floatPtr(raw, key)
		case "spaceBelow":
			o.SpaceBelow, err = floatPtr(raw, key)
		case "namedStyleType":
			o.NamedStyleType, err = stringPtr(raw, key)
		case "keepWithNext":
			o.KeepWithNext, err = boolPtr(raw, key)
		}
		errs = multierr.Append(errs, err)
	}
	if errs != nil {
		return style.ParagraphOptions{}, docerr.Wrap(docerr.KindInvalidArgument, errs, "invalid style")
	}
	return o, nil
}

func textStyleSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":                 "object",
		"description":          "Character style to apply. Only the options given are changed.",
		"additionalProperties": false,
		"properties": map[string]interface{}{
			"bold":            boolProp("Bold"),
			"italic":          boolProp("Italic"),
			"underline":       boolProp("Underline"),
			"strikethrough":   boolProp("Strike-through"),
			"fontSize":        map[string]interface{}{"type": "number", "description": "Font size in points", "exclusiveMinimum": 0},
			"fontFamily":      stringProp("Font family, e.g. \"Arial\""),
			"foregroundColor": stringProp("Text color as hex, e.g. \"#FF0000\" or \"#F00\""),
			"backgroundColor": stringProp("Highlight color as hex with a leading '#', e.g. \"#FFFF00\""),
			"linkUrl":         stringProp("Hyperlink target; an empty string removes the link"),
		},
	}
}

func paragraphStyleSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":                 "object",
		"description":          "Paragraph style to apply. Only the options given are changed.",
		"additionalProperties": false,
		"properties": map[string]interface{}{
			"alignment":      enumProp("Horizontal alignment", style.Alignments()),
			"indentStart":    map[string]interface{}{"type": "number", "description": "Start indent in points", "minimum": 0},
			"indentEnd":      map[string]interface{}{"type": "number", "description": "End indent in points", "minimum": 0},
			"spaceAbove":     map[string]interface{}{"type": "number", "description": "Space above in points", "minimum": 0},
			"spaceBelow":     map[string]interface{}{"type": "number", "description": "Space below in points", "minimum": 0},
			"namedStyleType": enumProp("Named paragraph style", style.NamedStyleTypes()),
			"keepWithNext":   boolProp("Keep the paragraph on the same page as the next one"),
		},
	}
}

