package ty

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// MS is a shorthand for map[string]string
type MS map[string]string

// Merge copies every entry of ms2 into ms.
func (ms MS) Merge(ms2 MS) {
	for k, v := range ms2 {
		ms[k] = v
	}
}

// ToJSONString converts data to a compact JSON string. HTML characters are
// kept as is so that patterns like <_> stay readable in links.
func ToJSONString(data any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(data); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// FromJSONStringStrict parses data into placeholder, rejecting unknown object
// keys and trailing content after the first value.
func FromJSONStringStrict(data string, placeholder any) error {
	dec := json.NewDecoder(bytes.NewBufferString(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(placeholder); err != nil {
		return err
	}
	var extra json.RawMessage
	if err := dec.Decode(&extra); err == nil {
		return errors.New("unexpected data after top-level value")
	} else if !errors.Is(err, io.EOF) {
		return fmt.Errorf("unexpected data after top-level value: %w", err)
	}
	return nil
}
