package testsupport

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteText writes content to path, creating parent directories.
func WriteText(t testing.TB, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteWAV writes a short 16 kHz mono PCM clip of silence.
func WriteWAV(t testing.TB, path string) {
	t.Helper()

	const (
		sampleRate = 16000
		samples    = 160
		dataBytes  = samples * 2
	)
	var buf bytes.Buffer
	buf.WriteString("RIFF")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(36+dataBytes))
	buf.WriteString("WAVEfmt ")
	for _, v := range []any{uint32(16), uint16(1), uint16(1), uint32(sampleRate), uint32(sampleRate * 2), uint16(2), uint16(16)} {
		_ = binary.Write(&buf, binary.LittleEndian, v)
	}
	buf.WriteString("data")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(dataBytes))
	buf.Write(make([]byte, dataBytes))
	WriteText(t, path, buf.String())
}

// WriteExport writes an ARFF-style feature export with the given feature
// columns framed by the name and class attributes, followed by the raw data
// lines.
func WriteExport(t testing.TB, path string, columns []string, data ...string) {
	t.Helper()

	var b strings.Builder
	b.WriteString("@relation 'openSMILE_features'\n\n@attribute name string\n")
	for _, c := range columns {
		b.WriteString("@attribute " + c + " numeric\n")
	}
	b.WriteString("@attribute class numeric\n\n@data\n\n")
	for _, line := range data {
		b.WriteString(line + "\n")
	}
	WriteText(t, path, b.String())
}
