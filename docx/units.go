package docx

import (
	"math"
	"strconv"
)

// Unit conversions. Word measures page geometry and indents in twips
// (1/20 pt), font sizes in half-points and drawings in EMUs.
const (
	twipsPerInch = 1440
	twipsPerPt   = 20
	cmPerInch    = 2.54
	emuPerCM     = 360000
	lineAuto     = 240
)

// cmToTwips converts centimetres to twips.
func cmToTwips(cm float64) int {
	return int(math.Round(cm / cmPerInch * twipsPerInch))
}

// inchToTwips converts inches to twips.
func inchToTwips(in float64) int {
	return int(math.Round(in * twipsPerInch))
}

// ptToTwips converts points to twips.
func ptToTwips(pt float64) int {
	return int(math.Round(pt * twipsPerPt))
}

// halfPoints converts a font size in points to half-points.
func halfPoints(pt float64) int {
	return int(math.Round(pt * 2))
}

// cmToEMU converts centimetres to English Metric Units.
func cmToEMU(cm float64) int64 {
	return int64(math.Round(cm * emuPerCM))
}

// lineSpacing converts a line spacing multiple (1.5) to the 240ths used
// with lineRule="auto".
func lineSpacing(multiple float64) int {
	return int(math.Round(multiple * lineAuto))
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
