package output

import (
	"bufio"
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"

	"github.com/sells-group/skiptrace-cli/internal/model"
)

// JSONLSink writes one JSON object per result.
type JSONLSink struct {
	f   *os.File
	buf *bufio.Writer
	enc *json.Encoder
}

// NewJSONL creates path.
func NewJSONL(path string) (*JSONLSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, eris.Wrapf(err, "jsonl: create %s", path)
	}
	buf := bufio.NewWriter(f)
	return &JSONLSink{f: f, buf: buf, enc: json.NewEncoder(buf)}, nil
}

func (s *JSONLSink) Write(r model.MatchResult) error {
	return eris.Wrap(s.enc.Encode(r), "jsonl: encode")
}

func (s *JSONLSink) Close() error {
	if err := s.buf.Flush(); err != nil {
		s.f.Close() //nolint:errcheck
		return eris.Wrap(err, "jsonl: flush")
	}
	return eris.Wrap(s.f.Close(), "jsonl: close")
}
