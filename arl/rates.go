package arl

import "fmt"

// =============================================================================
// RATE TABLE - fixed lookup, not derived from regulation feeds
// =============================================================================

const (
	// MinimumSalary is the legal monthly minimum a group salary must reach.
	MinimumSalary Money = 1_300_000

	// MaxEmployeesPerGroup bounds the headcount of a single group.
	MaxEmployeesPerGroup = 9999
)

type classificationInfo struct {
	rate  Rate
	label string
}

var classificationTable = map[Classification]classificationInfo{
	ClassI:   {rate: MustRate("0.522"), label: "Class I – Minimum Risk"},
	ClassII:  {rate: MustRate("1.044"), label: "Class II – Low Risk"},
	ClassIII: {rate: MustRate("2.436"), label: "Class III – Medium Risk"},
	ClassIV:  {rate: MustRate("4.350"), label: "Class IV – High Risk"},
	ClassV:   {rate: MustRate("6.960"), label: "Class V – Maximum Risk"},
}

var sectorLabels = map[Sector]string{
	SectorCommerce:    "Commerce, ICT and Services",
	SectorAgriculture: "Agriculture and Manufacturing",
	SectorFood:        "Food and Chemicals",
	SectorTextiles:    "Textiles and Metalworking",
	SectorOil:         "Oil and Construction",
}

// Classifications returns every valid risk class in ascending order.
func Classifications() []Classification {
	return []Classification{ClassI, ClassII, ClassIII, ClassIV, ClassV}
}

// Sectors returns the known sector keys in display order.
func Sectors() []Sector {
	return []Sector{SectorCommerce, SectorAgriculture, SectorFood, SectorTextiles, SectorOil}
}

// Rate returns the contribution percentage for c. ok is false outside 1..5.
func (c Classification) Rate() (Rate, bool) {
	info, ok := classificationTable[c]
	return info.rate, ok
}

// Label returns the human name, e.g. "Class III – Medium Risk".
func (c Classification) Label() string {
	if info, ok := classificationTable[c]; ok {
		return info.label
	}
	return fmt.Sprintf("Class %d", int(c))
}

// Short returns the compact "Class N" form used in exports and statistics.
func (c Classification) Short() string {
	return fmt.Sprintf("Class %d", int(c))
}

// Known reports whether s is one of the listed sectors.
func (s Sector) Known() bool {
	_, ok := sectorLabels[s]
	return ok
}

// Label returns the display name of s. Unknown keys are shown as-is.
func (s Sector) Label() string {
	if label, ok := sectorLabels[s]; ok {
		return label
	}
	return string(s)
}
