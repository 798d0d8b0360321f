package contract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/shubh-37/social-strategist/internal/errs"
)

// Parse validates raw model text against c and decodes it into dst.
//
// Text that is not a single JSON value yields errs.KindMalformedResponse;
// missing or mis-shaped required fields yield errs.KindSchemaViolation.
// Unknown fields are ignored. Nothing is retried.
func (c *Contract) Parse(raw string, dst any) error {
	value, err := decode(raw)
	if err != nil {
		return errs.Malformed(c.Name, err)
	}

	cleaned, err := c.check(value)
	if err != nil {
		return err
	}

	buf, err := json.Marshal(cleaned)
	if err != nil {
		return fmt.Errorf("failed to re-encode %s response: %w", c.Name, err)
	}
	if err := json.Unmarshal(buf, dst); err != nil {
		return errs.SchemaViolation(c.Name, "%v", err)
	}
	return nil
}

func decode(raw string) (any, error) {
	text := stripFence(raw)
	if text == "" {
		return nil, fmt.Errorf("empty response")
	}

	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, err
	}
	// Anything after the first value means the text was not a single value.
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("trailing data after JSON value")
	}
	return value, nil
}

// stripFence removes a surrounding markdown code fence such as ```json ... ```.
func stripFence(raw string) string {
	text := strings.TrimSpace(raw)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if nl := strings.IndexByte(text, '\n'); nl >= 0 {
		text = text[nl+1:]
	} else {
		text = ""
	}
	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

func (c *Contract) check(value any) (any, error) {
	switch c.Root {
	case KindStringArray:
		arr, ok := value.([]any)
		if !ok {
			return nil, errs.SchemaViolation(c.Name, "expected a JSON array, got %s", describe(value))
		}
		for i, item := range arr {
			if _, ok := item.(string); !ok {
				return nil, errs.SchemaViolation(c.Name, "[%d]: expected string, got %s", i, describe(item))
			}
		}
		return arr, nil
	default:
		obj, ok := value.(map[string]any)
		if !ok {
			return nil, errs.SchemaViolation(c.Name, "expected a JSON object, got %s", describe(value))
		}
		return checkObject(c.Name, "", obj, c.Fields)
	}
}

func checkObject(op, path string, obj map[string]any, fields []Field) (map[string]any, error) {
	for _, f := range fields {
		name := joinPath(path, f.Name)
		v, present := obj[f.Name]
		if v == nil {
			present = false
		}

		if !present {
			if f.Optional {
				delete(obj, f.Name)
				continue
			}
			return nil, errs.SchemaViolation(op, "missing required field %q", name)
		}

		cleaned, err := checkField(op, name, v, f)
		if err != nil {
			if f.Optional {
				delete(obj, f.Name)
				continue
			}
			return nil, err
		}
		obj[f.Name] = cleaned
	}
	return obj, nil
}

func checkField(op, name string, v any, f Field) (any, error) {
	switch f.Kind {
	case KindString:
		s, ok := v.(string)
		if !ok {
			return nil, errs.SchemaViolation(op, "field %q: expected string, got %s", name, describe(v))
		}
		if !f.AllowEmpty && strings.TrimSpace(s) == "" {
			return nil, errs.SchemaViolation(op, "field %q is empty", name)
		}
		return s, nil

	case KindInteger:
		n, ok := v.(json.Number)
		if !ok {
			return nil, errs.SchemaViolation(op, "field %q: expected integer, got %s", name, describe(v))
		}
		if _, err := n.Int64(); err != nil {
			return nil, errs.SchemaViolation(op, "field %q: expected integer, got %s", name, n.String())
		}
		return n, nil

	case KindStringArray:
		arr, ok := v.([]any)
		if !ok {
			return nil, errs.SchemaViolation(op, "field %q: expected array of strings, got %s", name, describe(v))
		}
		if !f.AllowEmpty && len(arr) == 0 {
			return nil, errs.SchemaViolation(op, "field %q is empty", name)
		}
		for i, item := range arr {
			if _, ok := item.(string); !ok {
				return nil, errs.SchemaViolation(op, "field %q[%d]: expected string, got %s", name, i, describe(item))
			}
		}
		return arr, nil

	case KindObjectArray:
		arr, ok := v.([]any)
		if !ok {
			return nil, errs.SchemaViolation(op, "field %q: expected array of objects, got %s", name, describe(v))
		}
		if !f.AllowEmpty && len(arr) == 0 {
			return nil, errs.SchemaViolation(op, "field %q is empty", name)
		}
		for i, item := range arr {
			obj, ok := item.(map[string]any)
			if !ok {
				return nil, errs.SchemaViolation(op, "field %q[%d]: expected object, got %s", name, i, describe(item))
			}
			cleaned, err := checkObject(op, fmt.Sprintf("%s[%d]", name, i), obj, f.Fields)
			if err != nil {
				return nil, err
			}
			arr[i] = cleaned
		}
		return arr, nil

	case KindObject:
		obj, ok := v.(map[string]any)
		if !ok {
			return nil, errs.SchemaViolation(op, "field %q: expected object, got %s", name, describe(v))
		}
		return checkObject(op, name, obj, f.Fields)
	}
	return nil, errs.SchemaViolation(op, "field %q has unknown kind %q", name, f.Kind)
}

func joinPath(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}

func describe(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case json.Number:
		return "number"
	case bool:
		return "boolean"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	}
	return fmt.Sprintf("%T", v)
}

// Compact returns raw with any fence removed and JSON whitespace squeezed,
// for logging. Non-JSON text is returned trimmed.
func Compact(raw string) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(stripFence(raw))); err != nil {
		return strings.TrimSpace(raw)
	}
	return buf.String()
}
