package exif

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"image"
	"image/jpeg"
	"math"
	"os"
	"path/filepath"
	"testing"

	"photorium/internal/geo"
)

// writeGPSFixture builds a minimal little-endian TIFF whose only content is
// a GPS sub-IFD, which is all goexif needs to exercise the GPS decode path.
// With withTuples false, the block carries only the hemisphere refs, which
// models a GPS block missing its coordinate tuples.
func writeGPSFixture(t *testing.T, latRef, lonRef string, withTuples bool) string {
	t.Helper()

	le := binary.LittleEndian
	buf := new(bytes.Buffer)

	write := func(v interface{}) {
		if err := binary.Write(buf, le, v); err != nil {
			t.Fatal(err)
		}
	}

	// TIFF header, IFD0 at offset 8.
	buf.WriteString("II")
	write(uint16(42))
	write(uint32(8))

	// IFD0: a single entry pointing at the GPS sub-IFD at offset 26.
	write(uint16(1))
	write(uint16(0x8825)) // GPSInfoIFDPointer
	write(uint16(4))      // LONG
	write(uint32(1))
	write(uint32(26))
	write(uint32(0)) // no next IFD

	asciiEntry := func(tag uint16, v string) {
		write(tag)
		write(uint16(2)) // ASCII
		write(uint32(2))
		val := [4]byte{}
		copy(val[:], v)
		buf.Write(val[:])
	}

	if !withTuples {
		// GPS IFD with hemisphere refs only.
		write(uint16(2))
		asciiEntry(0x0001, latRef)
		asciiEntry(0x0003, lonRef)
		write(uint32(0))
	} else {
		// GPS IFD: refs plus two three-rational coordinate tuples. The
		// IFD occupies 2 + 4*12 + 4 = 54 bytes from offset 26, so the
		// rational data area starts at 80.
		write(uint16(4))
		asciiEntry(0x0001, latRef)

		write(uint16(0x0002)) // GPSLatitude
		write(uint16(5))      // RATIONAL
		write(uint32(3))
		write(uint32(80))

		asciiEntry(0x0003, lonRef)

		write(uint16(0x0004)) // GPSLongitude
		write(uint16(5))
		write(uint32(3))
		write(uint32(104))

		write(uint32(0)) // no next IFD

		// Latitude 37° 33' 0", longitude 126° 58' 0".
		for _, r := range [][2]uint32{{37, 1}, {33, 1}, {0, 1}, {126, 1}, {58, 1}, {0, 1}} {
			write(r[0])
			write(r[1])
		}
	}

	path := filepath.Join(t.TempDir(), "fixture.jpg")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestGPSDecimalDegrees(t *testing.T) {
	tests := []struct {
		name    string
		latRef  string
		lonRef  string
		wantLat float64
		wantLon float64
	}{
		{
			name:    "northern and eastern hemisphere",
			latRef:  "N",
			lonRef:  "E",
			wantLat: 37.55,
			wantLon: 126.0 + 58.0/60.0,
		},
		{
			name:    "southern and western hemisphere",
			latRef:  "S",
			lonRef:  "W",
			wantLat: -37.55,
			wantLon: -(126.0 + 58.0/60.0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeGPSFixture(t, tt.latRef, tt.lonRef, true)

			d, err := Decode(path)
			if err != nil {
				t.Fatalf("Decode returned error: %v", err)
			}

			coord, err := d.GPS()
			if err != nil {
				t.Fatalf("GPS returned error: %v", err)
			}
			if math.Abs(coord.Lat-tt.wantLat) > 1e-6 {
				t.Errorf("latitude = %v, want %v", coord.Lat, tt.wantLat)
			}
			if math.Abs(coord.Lon-tt.wantLon) > 1e-6 {
				t.Errorf("longitude = %v, want %v", coord.Lon, tt.wantLon)
			}
		})
	}
}

func TestGPSIncomplete(t *testing.T) {
	path := writeGPSFixture(t, "N", "E", false)

	d, err := Decode(path)
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}

	_, err = d.GPS()
	if !errors.Is(err, geo.ErrIncompleteGPS) {
		t.Errorf("GPS error = %v, want ErrIncompleteGPS", err)
	}
}

func TestDecodeNoEXIF(t *testing.T) {
	// A plain JPEG without an APP1 segment has no EXIF block.
	path := filepath.Join(t.TempDir(), "plain.jpg")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := jpeg.Encode(f, image.NewRGBA(image.Rect(0, 0, 8, 8)), nil); err != nil {
		t.Fatal(err)
	}
	f.Close()

	_, err = Decode(path)
	if !errors.Is(err, ErrNoEXIF) {
		t.Errorf("Decode error = %v, want ErrNoEXIF", err)
	}
}

func TestDecodeMissingFile(t *testing.T) {
	_, err := Decode(filepath.Join(t.TempDir(), "nope.jpg"))
	if err == nil {
		t.Fatal("Decode succeeded on missing file")
	}
	if errors.Is(err, ErrNoEXIF) {
		t.Error("missing file reported as ErrNoEXIF; want the I/O error")
	}
}

func TestDump(t *testing.T) {
	path := writeGPSFixture(t, "N", "E", true)

	d, err := Decode(path)
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}

	dump := d.Dump()
	ref, ok := dump["GPSLatitudeRef"]
	if !ok {
		t.Fatalf("Dump missing GPSLatitudeRef; got keys %v", keys(dump))
	}
	if ref.Kind != KindText || ref.Text != "N" {
		t.Errorf("GPSLatitudeRef = %+v, want text %q", ref, "N")
	}
	if _, ok := dump["GPSLatitude"]; !ok {
		t.Error("Dump missing GPSLatitude")
	}
}

func keys(m map[string]Value) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestValueMarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		want  string
	}{
		{
			name:  "integer",
			value: Value{Kind: KindInteger, Int: 6},
			want:  `6`,
		},
		{
			name:  "float",
			value: Value{Kind: KindFloat, Float: 2.8},
			want:  `2.8`,
		},
		{
			name:  "rational",
			value: Value{Kind: KindRational, Num: 1, Den: 250},
			want:  `"1/250"`,
		},
		{
			name:  "text",
			value: Value{Kind: KindText, Text: "NIKON D750"},
			want:  `"NIKON D750"`,
		},
		{
			name:  "printable bytes decode as text",
			value: Value{Kind: KindBytes, Bytes: []byte("ASCII\x00\x00")},
			want:  `"ASCII"`,
		},
		{
			name:  "binary bytes stringify",
			value: Value{Kind: KindBytes, Bytes: []byte{0x01, 0x02, 0x03}},
			want:  `"0x010203"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.value)
			if err != nil {
				t.Fatalf("Marshal returned error: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("Marshal = %s, want %s", got, tt.want)
			}
		})
	}
}
