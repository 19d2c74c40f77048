package model

// TagColor is one entry of the fixed tag palette.
type TagColor struct {
	ID   int
	Name string
	Hex  string
}

const (
	ColorGray = iota
	ColorBlue
	ColorGreen
	ColorOrange
	ColorPurple
	ColorCyan
	ColorRed
)

var tagPalette = [...]TagColor{
	ColorGray:   {ID: ColorGray, Name: "Gray", Hex: "#9E9E9E"},
	ColorBlue:   {ID: ColorBlue, Name: "Blue", Hex: "#2196F3"},
	ColorGreen:  {ID: ColorGreen, Name: "Green", Hex: "#4CAF50"},
	ColorOrange: {ID: ColorOrange, Name: "Orange", Hex: "#FF9800"},
	ColorPurple: {ID: ColorPurple, Name: "Purple", Hex: "#9C27B0"},
	ColorCyan:   {ID: ColorCyan, Name: "Cyan", Hex: "#00BCD4"},
	ColorRed:    {ID: ColorRed, Name: "Red", Hex: "#F44336"},
}

// TagColors returns the palette in id order.
func TagColors() []TagColor {
	out := make([]TagColor, len(tagPalette))
	copy(out, tagPalette[:])
	return out
}

// TagColorFor resolves a color id. Unknown ids resolve to gray.
func TagColorFor(id int) TagColor {
	if id < 0 || id >= len(tagPalette) {
		return tagPalette[ColorGray]
	}
	return tagPalette[id]
}

// TagColorHex returns the hex value for a color id, gray when unknown.
func TagColorHex(id int) string {
	return TagColorFor(id).Hex
}

// NextColorID cycles through the palette; used by the tag form.
func NextColorID(id, step int) int {
	n := len(tagPalette)
	return ((TagColorFor(id).ID+step)%n + n) % n
}
