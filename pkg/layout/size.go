package layout

// Grid geometry of the launcher surface, in logical pixels.
const (
	ItemWidth  = 80
	ItemHeight = 80
	GapX       = 12
	GapY       = 24
	Columns    = 4

	// IndicatorSpace is reserved below the last row for the running indicator dot.
	IndicatorSpace = 20

	PaddingTop    = 30
	PaddingBottom = 30
	PaddingLeft   = 30
	PaddingRight  = 30
)

// Dimensions is the size of the launcher surface
type Dimensions struct {
	Width  int
	Height int
}

// Rows returns the number of grid rows needed for appCount items.
// An empty registry still reserves one row.
func Rows(appCount int) int {
	if appCount <= 0 {
		return 1
	}
	rows := appCount / Columns
	if appCount%Columns != 0 {
		rows++
	}
	return rows
}

// Size computes the launcher surface dimensions for appCount items.
// The width only depends on the column count.
func Size(appCount int) Dimensions {
	rows := Rows(appCount)

	width := Columns*ItemWidth + (Columns-1)*GapX + PaddingLeft + PaddingRight

	gaps := rows - 1
	if gaps < 0 {
		gaps = 0
	}
	height := rows*ItemHeight + gaps*GapY + IndicatorSpace + PaddingTop + PaddingBottom

	return Dimensions{Width: width, Height: height}
}
