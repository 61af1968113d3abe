package featpipe

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestLog(t *testing.T) {
	var buf bytes.Buffer
	defer func(l zerolog.Logger, enable bool) {
		logger = l
		enableLog = enable
	}(logger, enableLog)
	logger = zerolog.New(&buf).Level(zerolog.InfoLevel)

	SetLog(false)
	Log("hidden %d", 1)
	if buf.Len() != 0 {
		t.Fatalf("expected no output; got %q", buf.String())
	}
	SetLog(true)
	Log("loaded %s: %d rows", "FOURIER", 5)
	var entry struct {
		Level   string `json:"level"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("got error: %v", err)
	}
	if entry.Level != "info" || entry.Message != "loaded FOURIER: 5 rows" {
		t.Fatalf("expected info %q; got %s %q", "loaded FOURIER: 5 rows", entry.Level, entry.Message)
	}
}
