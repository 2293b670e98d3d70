package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"golang.org/x/text/unicode/norm"
)

// ScalarKind identifies which JSON scalar a Scalar holds.
type ScalarKind uint8

const (
	// KindAbsent is the zero value: the field was not present at all.
	KindAbsent ScalarKind = iota
	KindNull
	KindString
	KindNumber
	KindBool
)

func (k ScalarKind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Scalar is a JSON scalar held together with its canonical string form.
//
// Component ids built by the dashboard mix numeric and string values for the
// same logical field (strategy 1 vs "1"), so comparisons go through Text.
// Numbers are rendered the way String(n) renders them in a browser for
// integral values; strings are NFC normalized.
type Scalar struct {
	Kind ScalarKind
	Text string
}

// String returns a string scalar.
func String(s string) Scalar {
	return Scalar{Kind: KindString, Text: norm.NFC.String(s)}
}

// Int returns a numeric scalar.
func Int(n int64) Scalar {
	return Scalar{Kind: KindNumber, Text: strconv.FormatInt(n, 10)}
}

// Bool returns a boolean scalar.
func Bool(b bool) Scalar {
	return Scalar{Kind: KindBool, Text: strconv.FormatBool(b)}
}

// Null returns the JSON null scalar.
func Null() Scalar {
	return Scalar{Kind: KindNull, Text: "null"}
}

// IsZero reports whether the scalar is absent. Used by the omitzero tag.
func (s Scalar) IsZero() bool {
	return s.Kind == KindAbsent
}

// Present reports whether the scalar carries a non-null value.
func (s Scalar) Present() bool {
	return s.Kind != KindAbsent && s.Kind != KindNull
}

// String returns the canonical text. Absent scalars render as "".
func (s Scalar) String() string {
	return s.Text
}

// Equal is strict equality: same kind and same canonical text.
func (s Scalar) Equal(other Scalar) bool {
	return s.Kind == other.Kind && s.Text == other.Text
}

// Loose compares canonical text only, so 1 and "1" are equal.
// Absent equals absent; absent never equals a present value.
func (s Scalar) Loose(other Scalar) bool {
	if s.Kind == KindAbsent || other.Kind == KindAbsent {
		return s.Kind == other.Kind
	}
	return s.Text == other.Text
}

// Truthy follows browser truthiness: absent, null, "", 0 and false are falsy.
func (s Scalar) Truthy() bool {
	switch s.Kind {
	case KindString:
		return s.Text != ""
	case KindNumber:
		f, err := strconv.ParseFloat(s.Text, 64)
		return err == nil && f != 0 && !math.IsNaN(f)
	case KindBool:
		return s.Text == "true"
	default:
		return false
	}
}

// Int64 returns the scalar as an integer when it holds an integral number or
// a string that parses as one.
func (s Scalar) Int64() (int64, bool) {
	if s.Kind != KindNumber && s.Kind != KindString {
		return 0, false
	}
	n, err := strconv.ParseInt(s.Text, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// MarshalJSON implements json.Marshaler. Absent scalars encode as null; use
// the omitzero tag to drop them from objects.
func (s Scalar) MarshalJSON() ([]byte, error) {
	switch s.Kind {
	case KindAbsent, KindNull:
		return []byte("null"), nil
	case KindString:
		return json.Marshal(s.Text)
	case KindNumber, KindBool:
		return []byte(s.Text), nil
	default:
		return nil, fmt.Errorf("scalar: unknown kind %d", s.Kind)
	}
}

// UnmarshalJSON implements json.Unmarshaler. Objects and arrays are rejected.
func (s *Scalar) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("scalar: empty JSON value")
	}

	switch data[0] {
	case '"':
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = String(str)
		return nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*s = Bool(b)
		return nil
	case 'n':
		if string(data) != "null" {
			return fmt.Errorf("scalar: invalid literal %q", data)
		}
		*s = Null()
		return nil
	case '{', '[':
		return fmt.Errorf("scalar: composite JSON value not allowed")
	default:
		text, err := canonicalNumber(string(data))
		if err != nil {
			return err
		}
		*s = Scalar{Kind: KindNumber, Text: text}
		return nil
	}
}

// canonicalNumber renders a JSON number literal in canonical form.
// 1, 1.0 and 1e0 all become "1"; non-integral values use the shortest
// round-tripping decimal representation.
func canonicalNumber(lit string) (string, error) {
	if n, err := strconv.ParseInt(lit, 10, 64); err == nil {
		return strconv.FormatInt(n, 10), nil
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return "", fmt.Errorf("scalar: invalid number %q", lit)
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10), nil
	}
	return strconv.FormatFloat(f, 'f', -1, 64), nil
}
