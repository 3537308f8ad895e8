// Package style builds field-masked style update requests.
//
// Every option is declared once in an option table that both converts the
// value to the remote representation and names its mask field, so a request
// can never carry a value that is missing from its mask or vice versa.
package style

import (
	"strings"

	"github.com/codefionn/docsmcp/internal/docerr"
	"github.com/codefionn/docsmcp/internal/locate"
	"go.uber.org/multierr"
	"google.golang.org/api/docs/v1"
)

// TextOptions is a sparse set of character style changes. Nil means "leave
// unchanged".
type TextOptions struct {
	Bold            *bool
	Italic          *bool
	Underline       *bool
	Strikethrough   *bool
	FontSize        *float64 // points
	FontFamily      *string
	ForegroundColor *string // hex
	BackgroundColor *string // hex
	LinkURL         *string // empty removes the link
}

// ParagraphOptions is a sparse set of paragraph style changes.
type ParagraphOptions struct {
	Alignment      *string // START, CENTER, END, JUSTIFIED
	IndentStart    *float64
	IndentEnd      *float64
	SpaceAbove     *float64
	SpaceBelow     *float64
	NamedStyleType *string
	KeepWithNext   *bool
}

// Change is a built update request and the mask it declares. A Change with
// a nil Request is a no-op.
type Change struct {
	Request *docs.Request
	Fields  []string
}

// NoOp reports whether there is nothing to send.
func (c *Change) NoOp() bool {
	return c == nil || c.Request == nil
}

// option binds one caller-facing option to its remote mask field and the
// conversion that writes it. apply returns false when the option is unset.
type option[O, S any] struct {
	name  string
	field string
	apply func(o *O, s *S) (bool, error)
}

func build[O, S any](table []option[O, S], o *O, s *S) ([]string, error) {
	var (
		fields []string
		errs   error
	)
	for _, opt := range table {
		set, err := opt.apply(o, s)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if set {
			fields = append(fields, opt.field)
		}
	}
	return fields, errs
}

// TextStyle builds an UpdateTextStyle request over r. It returns a no-op
// Change when o sets nothing.
func TextStyle(r locate.Range, o TextOptions) (*Change, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	ts := &docs.TextStyle{}
	fields, err := build(textOptions, &o, ts)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return &Change{}, nil
	}
	return &Change{
		Request: &docs.Request{
			UpdateTextStyle: &docs.UpdateTextStyleRequest{
				Range:     nativeRange(r),
				TextStyle: ts,
				Fields:    strings.Join(fields, ","),
			},
		},
		Fields: fields,
	}, nil
}

// ParagraphStyle builds an UpdateParagraphStyle request over r. It returns
// a no-op Change when o sets nothing.
func ParagraphStyle(r locate.Range, o ParagraphOptions) (*Change, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	ps := &docs.ParagraphStyle{}
	fields, err := build(paragraphOptions, &o, ps)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return &Change{}, nil
	}
	return &Change{
		Request: &docs.Request{
			UpdateParagraphStyle: &docs.UpdateParagraphStyleRequest{
				Range:          nativeRange(r),
				ParagraphStyle: ps,
				Fields:         strings.Join(fields, ","),
			},
		},
		Fields: fields,
	}, nil
}

// CheckText validates o without a range and reports the mask it would
// produce. An empty mask means TextStyle would be a no-op.
func CheckText(o TextOptions) ([]string, error) {
	return build(textOptions, &o, &docs.TextStyle{})
}

// CheckParagraph is CheckText for paragraph options.
func CheckParagraph(o ParagraphOptions) ([]string, error) {
	return build(paragraphOptions, &o, &docs.ParagraphStyle{})
}

// TextOptionNames lists the accepted character style option names in mask order.
func TextOptionNames() []string {
	names := make([]string, len(textOptions))
	for i, opt := range textOptions {
		names[i] = opt.name
	}
	return names
}

// ParagraphOptionNames lists the accepted paragraph style option names in mask order.
func ParagraphOptionNames() []string {
	names := make([]string, len(paragraphOptions))
	for i, opt := range paragraphOptions {
		names[i] = opt.name
	}
	return names
}

func nativeRange(r locate.Range) *docs.Range {
	return &docs.Range{StartIndex: r.StartIndex, EndIndex: r.EndIndex}
}

func points(v float64) *docs.Dimension {
	return &docs.Dimension{Magnitude: v, Unit: "PT", ForceSendFields: []string{"Magnitude"}}
}

func invalid(name, format string, args ...interface{}) error {
	return docerr.New(docerr.KindInvalidArgument, name+": "+format, args...)
}
