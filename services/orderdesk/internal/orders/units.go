package orders

import "strings"

type unitNames struct {
	ar string
	en string
}

var (
	unitKilogram = unitNames{ar: "كيلو", en: "kg"}
	unitPiece    = unitNames{ar: "قطعة", en: "piece"}
	unitPack     = unitNames{ar: "علبة", en: "pack"}
	unitTray     = unitNames{ar: "صينية", en: "tray"}
)

// unitTokens maps every known spelling, in either script, to its unit.
var unitTokens = map[string]unitNames{
	"kg":       unitKilogram,
	"kilo":     unitKilogram,
	"kilogram": unitKilogram,
	"كيلو":     unitKilogram,
	"كغ":       unitKilogram,
	"كيلوغرام": unitKilogram,
	"piece":    unitPiece,
	"pieces":   unitPiece,
	"pcs":      unitPiece,
	"قطعة":     unitPiece,
	"pack":     unitPack,
	"package":  unitPack,
	"علبة":     unitPack,
	"tray":     unitTray,
	"trays":    unitTray,
	"صينية":    unitTray,
}

// TranslateUnit maps a unit token to the viewer's language. Unknown tokens
// resolve to the generic unit placeholder.
func TranslateUnit(token string, lang Lang) string {
	u, ok := unitTokens[strings.ToLower(strings.TrimSpace(token))]
	if !ok {
		return lang.Pick(unitAr, unitEn)
	}
	return lang.Pick(u.ar, u.en)
}

// canonicalUnit returns both spellings of a unit. ok is false for unknown tokens.
func canonicalUnit(token string) (unitNames, bool) {
	u, ok := unitTokens[strings.ToLower(strings.TrimSpace(token))]
	return u, ok
}
