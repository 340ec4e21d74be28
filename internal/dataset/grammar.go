package dataset

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"

	"emocorpus/internal/label"
)

var saveeSingleLetter = map[byte]string{
	'a': "angry",
	'd': "disgust",
	'f': "fear",
	'h': "happy",
	'n': "neutral",
}

var ravdessCodes = map[string]string{
	"01": "neutral",
	"02": "calm",
	"03": "happy",
	"04": "sad",
	"05": "angry",
	"06": "fear",
	"07": "disgust",
	"08": "surprise",
}

var cremadCodes = map[string]string{
	"ang": "angry",
	"hap": "happy",
	"sad": "sad",
	"neu": "neutral",
	"fea": "fear",
	"dis": "disgust",
}

// RawEmotion extracts the raw emotion string for path according to kind's
// grammar. TESS reads the parent directory name; the other grammars read the
// base name. Unsupported kinds and malformed names yield "unknown".
func RawEmotion(kind Kind, path string) string {
	path = norm.NFC.String(path)
	switch kind {
	case TESS:
		return ParseTESS(filepath.Base(filepath.Dir(path)))
	case SAVEE:
		return ParseSAVEE(filepath.Base(path))
	case RAVDESS:
		return ParseRAVDESS(filepath.Base(path))
	case CREMAD:
		return ParseCREMAD(filepath.Base(path))
	default:
		return label.RawUnknown
	}
}

// ParseTESS reads the emotion from a TESS speaker directory such as
// "OAF_angry" or "YAF_pleasant_surprise". Everything after the first
// underscore is the emotion.
func ParseTESS(dirName string) string {
	_, emotion, ok := strings.Cut(dirName, "_")
	if !ok || emotion == "" {
		return label.RawUnknown
	}
	return strings.ToLower(emotion)
}

// ParseSAVEE reads the emotion prefix of a SAVEE file such as "DC_sa03.wav".
// Two-letter codes are matched before one-letter codes so "sa" and "su" never
// fall through to the single-letter table.
func ParseSAVEE(baseName string) string {
	_, stem, ok := strings.Cut(baseName, "_")
	if !ok || stem == "" {
		return label.RawUnknown
	}
	switch {
	case strings.HasPrefix(stem, "sa"):
		return "sad"
	case strings.HasPrefix(stem, "su"):
		return "surprise"
	}
	if raw, ok := saveeSingleLetter[stem[0]]; ok {
		return raw
	}
	return label.RawUnknown
}

// ParseRAVDESS reads the emotion from the third field of a RAVDESS name such
// as "03-01-06-01-02-01-12.wav".
func ParseRAVDESS(baseName string) string {
	parts := strings.Split(baseName, "-")
	if len(parts) < 3 {
		return label.RawUnknown
	}
	if raw, ok := ravdessCodes[parts[2]]; ok {
		return raw
	}
	return label.RawUnknown
}

// ParseCREMAD reads the emotion from the third field of a CREMA-D name such
// as "1001_DFA_ANG_XX.wav".
func ParseCREMAD(baseName string) string {
	parts := strings.Split(baseName, "_")
	if len(parts) < 3 {
		return label.RawUnknown
	}
	if raw, ok := cremadCodes[strings.ToLower(parts[2])]; ok {
		return raw
	}
	return label.RawUnknown
}
