package dataset_test

import (
	"path/filepath"
	"testing"

	"emocorpus/internal/dataset"
	"emocorpus/internal/label"
)

func TestParseSAVEE(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"DC_sa03.wav", "sad"},
		{"DC_a02.wav", "angry"},
		{"DC_su01.wav", "surprise"},
		{"JE_d10.wav", "disgust"},
		{"JK_f05.wav", "fear"},
		{"KL_h15.wav", "happy"},
		{"KL_n30.wav", "neutral"},
		{"DC_x01.wav", "unknown"},
		{"DC_s01.wav", "unknown"},
		{"DC_.wav", "unknown"},
		{"noseparator.wav", "unknown"},
		{"DC_", "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := dataset.ParseSAVEE(tt.name); got != tt.want {
				t.Fatalf("ParseSAVEE(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestParseRAVDESS(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"03-01-06-01-02-01-12.wav", "fear"},
		{"03-01-01-01-01-01-01.wav", "neutral"},
		{"03-01-02-01-01-01-01.wav", "calm"},
		{"03-01-08-02-02-02-24.wav", "surprise"},
		{"03-01-09-01-01-01-01.wav", "unknown"},
		{"03-01.wav", "unknown"},
		{"plain.wav", "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := dataset.ParseRAVDESS(tt.name); got != tt.want {
				t.Fatalf("ParseRAVDESS(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestParseCREMAD(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"1001_DFA_ANG_XX.wav", "angry"},
		{"1001_DFA_hap_XX.wav", "happy"},
		{"1091_WSI_SAD_HI.wav", "sad"},
		{"1091_WSI_NEU_XX.wav", "neutral"},
		{"1091_WSI_FEA_LO.wav", "fear"},
		{"1091_WSI_DIS_MD.wav", "disgust"},
		{"1091_WSI_SUR_MD.wav", "unknown"},
		{"1001_DFA.wav", "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := dataset.ParseCREMAD(tt.name); got != tt.want {
				t.Fatalf("ParseCREMAD(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestParseTESS(t *testing.T) {
	tests := []struct {
		dir  string
		want string
	}{
		{"OAF_angry", "angry"},
		{"OAF_Fear", "fear"},
		{"YAF_pleasant_surprise", "pleasant_surprise"},
		{"OAF_Pleasant_surprise", "pleasant_surprise"},
		{"noemotion", "unknown"},
		{"OAF_", "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.dir, func(t *testing.T) {
			if got := dataset.ParseTESS(tt.dir); got != tt.want {
				t.Fatalf("ParseTESS(%q) = %q, want %q", tt.dir, got, tt.want)
			}
		})
	}
}

func TestRawEmotionDispatch(t *testing.T) {
	tests := []struct {
		kind dataset.Kind
		path string
		want string
	}{
		{dataset.TESS, filepath.Join("tess", "OAF_Fear", "OAF_back_fear.wav"), "fear"},
		{dataset.SAVEE, filepath.Join("savee", "DC_sa03.wav"), "sad"},
		{dataset.RAVDESS, filepath.Join("ravdess", "Actor_12", "03-01-06-01-02-01-12.wav"), "fear"},
		{dataset.CREMAD, filepath.Join("AudioWAV", "1001_DFA_ANG_XX.wav"), "angry"},
		{dataset.Kind("OTHER"), "x.wav", "unknown"},
	}
	for _, tt := range tests {
		if got := dataset.RawEmotion(tt.kind, tt.path); got != tt.want {
			t.Fatalf("RawEmotion(%s, %q) = %q, want %q", tt.kind, tt.path, got, tt.want)
		}
	}
}

func TestOutputFilename(t *testing.T) {
	got := dataset.OutputFilename(dataset.TESS, label.Unify("fear"), "OAF_back_fear.wav")
	if got != "TESS_FEA_1_OAF_back_fear.wav" {
		t.Fatalf("unexpected output filename %q", got)
	}
}

func TestNewRecordUnknownPropagates(t *testing.T) {
	rec := dataset.NewRecord(dataset.SAVEE, filepath.Join("savee", "DC_x01.wav"))
	if rec.RawEmotion != "unknown" {
		t.Fatalf("expected unknown raw emotion, got %q", rec.RawEmotion)
	}
	if rec.Label.Code != label.Unknown || rec.Label.Arousal != 0 {
		t.Fatalf("expected UNK/0, got %+v", rec.Label)
	}
	if rec.OutputFilename() != "SAVEE_UNK_0_DC_x01.wav" {
		t.Fatalf("unexpected output filename %q", rec.OutputFilename())
	}
}

func TestParseKind(t *testing.T) {
	for input, want := range map[string]dataset.Kind{
		"tess":    dataset.TESS,
		" SAVEE ": dataset.SAVEE,
		"Ravdess": dataset.RAVDESS,
		"crema-d": dataset.CREMAD,
		"CREMA_D": dataset.CREMAD,
	} {
		got, err := dataset.ParseKind(input)
		if err != nil {
			t.Fatalf("ParseKind(%q) returned error: %v", input, err)
		}
		if got != want {
			t.Fatalf("ParseKind(%q) = %s, want %s", input, got, want)
		}
	}
	if _, err := dataset.ParseKind("iemocap"); err == nil {
		t.Fatal("expected error for unsupported dataset")
	}
}
