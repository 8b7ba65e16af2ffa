package orders

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Payload is a raw, loosely shaped server object.
type Payload map[string]any

// DecodePayload decodes a JSON object keeping numbers exact.
func DecodePayload(data []byte) (Payload, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Payload{}, nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var p Payload
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	if p == nil {
		p = Payload{}
	}
	return p, nil
}

// String returns the first key holding a non-empty string or number.
func (p Payload) String(keys ...string) string {
	for _, k := range keys {
		if s := asString(p[k]); s != "" {
			return s
		}
	}
	return ""
}

// Object returns the nested object under key, or nil.
func (p Payload) Object(key string) Payload {
	switch v := p[key].(type) {
	case map[string]any:
		return Payload(v)
	case Payload:
		return v
	}
	return nil
}

// Objects returns the nested objects under the first key holding an array.
func (p Payload) Objects(keys ...string) []Payload {
	for _, k := range keys {
		arr, ok := p[k].([]any)
		if !ok {
			continue
		}
		out := make([]Payload, 0, len(arr))
		for _, v := range arr {
			switch m := v.(type) {
			case map[string]any:
				out = append(out, Payload(m))
			case Payload:
				out = append(out, m)
			}
		}
		return out
	}
	return nil
}

// Has reports whether key is present with a non-null value.
func (p Payload) Has(key string) bool {
	v, ok := p[key]
	return ok && v != nil
}

// Number returns the first key that coerces to a finite number.
func (p Payload) Number(keys ...string) (float64, bool) {
	for _, k := range keys {
		if f, ok := asNumber(p[k]); ok {
			return f, true
		}
	}
	return 0, false
}

// ID resolves an identifier held either as a string or as an object with an id field.
func (p Payload) ID(key string) string {
	if obj := p.Object(key); obj != nil {
		return obj.String("_id", "id")
	}
	return asString(p[key])
}

func (p Payload) Time(keys ...string) time.Time {
	for _, k := range keys {
		if t, ok := asTime(p[k]); ok {
			return t
		}
	}
	return time.Time{}
}

func asString(v any) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case json.Number:
		return s.String()
	case float64:
		if math.IsNaN(s) || math.IsInf(s, 0) {
			return ""
		}
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	}
	return ""
}

func asNumber(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func asDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case json.Number:
		d, err := decimal.NewFromString(n.String())
		return d, err == nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(n))
		return d, err == nil
	}
	f, ok := asNumber(v)
	if !ok {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(f), true
}

func (p Payload) Decimal(keys ...string) (decimal.Decimal, bool) {
	for _, k := range keys {
		if d, ok := asDecimal(p[k]); ok {
			return d, true
		}
	}
	return decimal.Zero, false
}

func asTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, !t.IsZero()
	case string:
		s := strings.TrimSpace(t)
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed, true
			}
		}
		return time.Time{}, false
	}
	if ms, ok := asNumber(v); ok && ms > 0 {
		return time.UnixMilli(int64(ms)).UTC(), true
	}
	return time.Time{}, false
}
