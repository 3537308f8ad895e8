package style

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/codefionn/docsmcp/internal/docerr"
	"google.golang.org/api/docs/v1"
)

// hexColorPattern requires the leading '#': without it words such as "bad"
// or "add" would read as three-digit shorthand.
var hexColorPattern = regexp.MustCompile(`^#([0-9A-Fa-f]{3}|[0-9A-Fa-f]{6})$`)

// RGB is a color with channels normalized to [0, 1].
type RGB struct {
	Red   float64
	Green float64
	Blue  float64
}

// ParseHexColor parses "#RGB" or "#RRGGBB". Three-digit shorthand is
// expanded by doubling each digit.
func ParseHexColor(s string) (RGB, error) {
	m := hexColorPattern.FindStringSubmatch(s)
	if m == nil {
		return RGB{}, docerr.New(docerr.KindInvalidColor, "invalid hex color %q, expected #RGB or #RRGGBB", s)
	}
	hex := m[1]
	if len(hex) == 3 {
		var b strings.Builder
		for _, c := range hex {
			b.WriteRune(c)
			b.WriteRune(c)
		}
		hex = b.String()
	}
	channel := func(i int) float64 {
		v, _ := strconv.ParseUint(hex[i:i+2], 16, 8)
		return float64(v) / 255
	}
	return RGB{Red: channel(0), Green: channel(2), Blue: channel(4)}, nil
}

func (c RGB) optionalColor() *docs.OptionalColor {
	return &docs.OptionalColor{
		Color: &docs.Color{
			RgbColor: &docs.RgbColor{
				Red:             c.Red,
				Green:           c.Green,
				Blue:            c.Blue,
				ForceSendFields: []string{"Red", "Green", "Blue"},
			},
		},
	}
}
