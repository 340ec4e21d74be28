package dataset

import (
	"fmt"
	"strings"
)

// Kind identifies a source corpus and, with it, the filename grammar used to
// recover emotion labels.
type Kind string

const (
	// TESS encodes the emotion in the containing directory name (OAF_angry/).
	TESS Kind = "TESS"
	// SAVEE prefixes the file stem with a one or two letter emotion code (DC_sa03.wav).
	SAVEE Kind = "SAVEE"
	// RAVDESS stores a numeric emotion code in the third hyphen field.
	RAVDESS Kind = "RAVDESS"
	// CREMAD stores a three letter emotion code in the third underscore field.
	CREMAD Kind = "CREMAD"
)

// Kinds lists every supported corpus in collection order.
func Kinds() []Kind {
	return []Kind{TESS, SAVEE, RAVDESS, CREMAD}
}

// ParseKind resolves a user-supplied dataset name. "crema-d" and "crema_d"
// are accepted as CREMAD.
func ParseKind(value string) (Kind, error) {
	normalized := strings.ToUpper(strings.TrimSpace(value))
	normalized = strings.NewReplacer("-", "", "_", "").Replace(normalized)
	for _, kind := range Kinds() {
		if string(kind) == normalized {
			return kind, nil
		}
	}
	return "", fmt.Errorf("unknown dataset %q (expected one of tess, savee, ravdess, cremad)", value)
}

func (k Kind) String() string {
	return string(k)
}

// ConfigKey returns the [datasets] key holding the root of k.
func ConfigKey(k Kind) string {
	return strings.ToLower(string(k)) + "_dir"
}
