package exif

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"github.com/rwcarlsen/goexif/tiff"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	// KindInteger is a whole-number tag value.
	KindInteger Kind = iota
	// KindFloat is a floating-point tag value.
	KindFloat
	// KindRational is a numerator/denominator tag value.
	KindRational
	// KindText is a textual tag value.
	KindText
	// KindBytes is a raw byte-array tag value.
	KindBytes
)

// Value is a closed representation of a single EXIF tag value. EXIF files
// intermix integers, rationals, strings and opaque byte blobs; Value pins
// each down to one of five variants with an explicit JSON conversion, so
// serialization never has to type-switch on interface{}.
type Value struct {
	Kind  Kind
	Int   int64
	Float float64
	Num   int64
	Den   int64
	Text  string
	Bytes []byte
}

// MarshalJSON converts the value to its external JSON representation:
// integers and floats as numbers, rationals as "num/den" strings, text as
// strings, and bytes as best-effort decoded text.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindInteger:
		return json.Marshal(v.Int)
	case KindFloat:
		return json.Marshal(v.Float)
	case KindRational:
		return json.Marshal(fmt.Sprintf("%d/%d", v.Num, v.Den))
	case KindText:
		return json.Marshal(v.Text)
	case KindBytes:
		return json.Marshal(decodeBytes(v.Bytes))
	default:
		return nil, fmt.Errorf("exif: unknown value kind %d", v.Kind)
	}
}

// String returns a display form of the value.
func (v Value) String() string {
	switch v.Kind {
	case KindInteger:
		return fmt.Sprintf("%d", v.Int)
	case KindFloat:
		return fmt.Sprintf("%g", v.Float)
	case KindRational:
		return fmt.Sprintf("%d/%d", v.Num, v.Den)
	case KindText:
		return v.Text
	case KindBytes:
		return decodeBytes(v.Bytes)
	default:
		return fmt.Sprintf("unknown(%d)", v.Kind)
	}
}

// decodeBytes renders a binary tag value as text best-effort: printable
// characters are kept, NULs are dropped, and anything else falls back to a
// hex dump so the result is always JSON-serializable.
func decodeBytes(b []byte) string {
	var sb strings.Builder
	printable := 0
	for _, r := range string(b) {
		if r == 0 {
			continue
		}
		if unicode.IsPrint(r) {
			sb.WriteRune(r)
			printable++
		}
	}
	if printable == 0 && len(b) > 0 {
		return fmt.Sprintf("0x%x", b)
	}
	return sb.String()
}

// fromTag converts a raw TIFF tag into a Value. Single-component tags map
// directly onto a variant; multi-component numeric tags fall back to the
// tag's display form as text.
func fromTag(tag *tiff.Tag) Value {
	switch tag.Format() {
	case tiff.StringVal:
		s, err := tag.StringVal()
		if err != nil {
			return Value{Kind: KindBytes, Bytes: tag.Val}
		}
		return Value{Kind: KindText, Text: strings.TrimRight(s, "\x00")}

	case tiff.IntVal:
		if tag.Count == 1 {
			if n, err := tag.Int64(0); err == nil {
				return Value{Kind: KindInteger, Int: n}
			}
		}
		return Value{Kind: KindText, Text: tag.String()}

	case tiff.FloatVal:
		if tag.Count == 1 {
			if f, err := tag.Float(0); err == nil {
				return Value{Kind: KindFloat, Float: f}
			}
		}
		return Value{Kind: KindText, Text: tag.String()}

	case tiff.RatVal:
		if tag.Count == 1 {
			if num, den, err := tag.Rat2(0); err == nil {
				return Value{Kind: KindRational, Num: num, Den: den}
			}
		}
		return Value{Kind: KindText, Text: tag.String()}

	default:
		// UndefVal and OtherVal carry opaque bytes.
		return Value{Kind: KindBytes, Bytes: tag.Val}
	}
}
