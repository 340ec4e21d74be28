package label

import (
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Code is a canonical emotion code.
type Code string

const (
	Angry    Code = "ANG"
	Disgust  Code = "DIS"
	Fear     Code = "FEA"
	Happy    Code = "HAP"
	Sad      Code = "SAD"
	Neutral  Code = "NEU"
	Surprise Code = "SUR"
	Unknown  Code = "UNK"
)

// RawUnknown is the raw emotion string filename parsers emit when a name does
// not follow its dataset grammar.
const RawUnknown = "unknown"

var allCodes = []Code{Angry, Disgust, Fear, Happy, Sad, Neutral, Surprise, Unknown}

var highArousal = map[Code]bool{
	Angry:    true,
	Disgust:  true,
	Fear:     true,
	Happy:    true,
	Surprise: true,
}

var rawToCode = map[string]Code{
	"angry":             Angry,
	"fear":              Fear,
	"disgust":           Disgust,
	"happy":             Happy,
	"sad":               Sad,
	"neutral":           Neutral,
	"surprise":          Surprise,
	"pleasant_surprise": Surprise,
	"calm":              Neutral,
}

// Label is the canonical form of an emotion annotation.
type Label struct {
	Code    Code `json:"code"`
	Arousal int  `json:"arousal"`
}

// Codes returns every canonical code in display order, UNK last.
func Codes() []Code {
	out := make([]Code, len(allCodes))
	copy(out, allCodes)
	return out
}

// ArousalOf returns 1 for high-arousal codes and 0 otherwise.
func ArousalOf(code Code) int {
	if highArousal[code] {
		return 1
	}
	return 0
}

// Of builds the label for a code with its fixed arousal.
func Of(code Code) Label {
	return Label{Code: code, Arousal: ArousalOf(code)}
}

// Unify normalizes raw (case and surrounding whitespace are ignored) and
// resolves it against the canonical table.
func Unify(raw string) Label {
	key := cases.Lower(language.Und).String(strings.TrimSpace(raw))
	code, ok := rawToCode[key]
	if !ok {
		return Of(Unknown)
	}
	return Of(code)
}

// Known reports whether raw resolves to something other than UNK.
func Known(raw string) bool {
	return Unify(raw).Code != Unknown
}

// Aliases returns the raw strings that map to code, sorted for display.
func Aliases(code Code) []string {
	var out []string
	for raw, c := range rawToCode {
		if c == code {
			out = append(out, raw)
		}
	}
	slices.Sort(out)
	return out
}

// String renders the label as CODE_AROUSAL, the form embedded in pool filenames.
func (l Label) String() string {
	return string(l.Code) + "_" + strconv.Itoa(l.Arousal)
}
