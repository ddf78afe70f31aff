package preview

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// Palette holds the colors of the 2D canvas preview.
type Palette struct {
	Background colorful.Color
	Wall       colorful.Color
	Door       colorful.Color
	Window     colorful.Color
	WindowMark colorful.Color
	Snap       colorful.Color
}

// DefaultPalette matches the editor canvas.
func DefaultPalette() Palette {
	return Palette{
		Background: mustHex("#ffffff"),
		Wall:       mustHex("#000000"),
		Door:       mustHex("#4caf50"),
		Window:     mustHex("#2196f3"),
		WindowMark: mustHex("#ffffff"),
		Snap:       mustHex("#ff0000"),
	}
}

// DarkPalette is the same scheme on a dark background; walls are lightened, openings keep
// their hue.
func DarkPalette() Palette {
	p := DefaultPalette()
	p.Background = mustHex("#171717")
	p.Wall = mustHex("#e5e5e5")
	p.Door = p.Door.BlendLab(mustHex("#ffffff"), 0.2).Clamped()
	p.Window = p.Window.BlendLab(mustHex("#ffffff"), 0.2).Clamped()
	return p
}

// ParsePalette returns the palette called name ("light" or "dark").
func ParsePalette(name string) (Palette, error) {
	switch name {
	case "", "light":
		return DefaultPalette(), nil
	case "dark":
		return DarkPalette(), nil
	}
	return Palette{}, fmt.Errorf("unknown palette %q", name)
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}
