package contactrank

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format names an on-disk contacts encoding.
type Format string

const (
	FormatAuto  Format = "auto"
	FormatJSON  Format = "json"  // a single JSON array of objects
	FormatJSONL Format = "jsonl" // one JSON object per line
	FormatYAML  Format = "yaml"  // a YAML sequence of mappings
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case "", FormatAuto:
		return FormatAuto, nil
	case FormatJSON, FormatJSONL, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	case "ndjson":
		return FormatJSONL, nil
	default:
		return "", New(ErrConfig, fmt.Sprintf("unknown contacts format %q", s))
	}
}

// FormatForPath picks a format from a file extension, defaulting to JSON.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl", ".ndjson":
		return FormatJSONL
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// LoadFile reads contacts from path. FormatAuto uses the file extension.
func LoadFile(path string, format Format) ([]Contact, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Wrap(ErrIO, "open contacts file", err)
	}
	defer f.Close()

	if format == FormatAuto || format == "" {
		format = FormatForPath(path)
	}
	return Decode(f, format)
}

// Decode reads every contact from r. Scalar values are converted to their
// string form; nested objects and arrays are rejected.
func Decode(r io.Reader, format Format) ([]Contact, error) {
	switch format {
	case FormatJSONL:
		return decodeJSONLines(r)
	case FormatYAML:
		var raw []map[string]any
		if err := yaml.NewDecoder(r).Decode(&raw); err != nil && err != io.EOF {
			return nil, Wrap(ErrInvalidContact, "decode yaml contacts", err)
		}
		return fromRaw(raw)
	default:
		dec := json.NewDecoder(r)
		dec.UseNumber()
		var raw []map[string]any
		if err := dec.Decode(&raw); err != nil {
			return nil, Wrap(ErrInvalidContact, "decode json contacts", err)
		}
		return fromRaw(raw)
	}
}

func decodeJSONLines(r io.Reader) ([]Contact, error) {
	var out []Contact
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	line := 0
	for scanner.Scan() {
		line++
		b := bytes.TrimSpace(scanner.Bytes())
		if len(b) == 0 {
			continue
		}
		dec := json.NewDecoder(bytes.NewReader(b))
		dec.UseNumber()
		var raw map[string]any
		if err := dec.Decode(&raw); err != nil {
			return nil, Wrap(ErrInvalidContact, fmt.Sprintf("decode line %d", line), err)
		}
		c, err := ContactFromMap(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := scanner.Err(); err != nil {
		return nil, Wrap(ErrIO, "read contacts", err)
	}
	return out, nil
}

func fromRaw(raw []map[string]any) ([]Contact, error) {
	out := make([]Contact, 0, len(raw))
	for _, m := range raw {
		c, err := ContactFromMap(m)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// ContactFromMap converts a decoded document into a Contact. Null values
// are dropped.
func ContactFromMap(m map[string]any) (Contact, error) {
	c := make(Contact, len(m))
	for k, v := range m {
		switch tv := v.(type) {
		case nil:
			continue
		case string:
			c[k] = tv
		case json.Number:
			c[k] = tv.String()
		case bool:
			c[k] = strconv.FormatBool(tv)
		case int:
			c[k] = strconv.Itoa(tv)
		case int64:
			c[k] = strconv.FormatInt(tv, 10)
		case uint64:
			c[k] = strconv.FormatUint(tv, 10)
		case float64:
			c[k] = strconv.FormatFloat(tv, 'f', -1, 64)
		case fmt.Stringer:
			c[k] = tv.String()
		default:
			return nil, InvalidContactError(k, fmt.Sprintf("unsupported value of type %T", v))
		}
	}
	return c, nil
}
