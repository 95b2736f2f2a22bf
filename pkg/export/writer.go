package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/testsabirweb/slack_export/pkg/models"
)

// Supported output formats.
const (
	FormatJSON  = "json"
	FormatJSONL = "jsonl"
)

// Writer serializes an ordered message collection to a stream. Both
// implementations emit sorted object keys at every nesting level and leave
// non-ASCII characters unescaped, so identical message content always
// produces identical bytes.
type Writer interface {
	Write(w io.Writer, messages []models.Message) error
}

// WriterFor returns the writer for the given format name.
func WriterFor(format string) (Writer, error) {
	switch format {
	case FormatJSON:
		return JSONWriter{}, nil
	case FormatJSONL:
		return JSONLWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format %q (supported: %s, %s)", format, FormatJSON, FormatJSONL)
	}
}

// JSONWriter writes all messages as one pretty-printed JSON array.
type JSONWriter struct{}

func (JSONWriter) Write(w io.Writer, messages []models.Message) error {
	payload := make([]map[string]any, 0, len(messages))
	for _, m := range messages {
		payload = append(payload, m.Fields())
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(payload); err != nil {
		return fmt.Errorf("failed to encode messages: %w", err)
	}
	return nil
}

// JSONLWriter writes one compact JSON object per line, newline-terminated.
type JSONLWriter struct{}

func (JSONLWriter) Write(w io.Writer, messages []models.Message) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, m := range messages {
		if err := enc.Encode(m.Fields()); err != nil {
			return fmt.Errorf("failed to encode message %s: %w", m.TS, err)
		}
	}
	return nil
}
