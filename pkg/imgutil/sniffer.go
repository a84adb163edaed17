package imgutil

import (
	"bytes"
	"errors"
	"io"
	"os"
)

// Kind identifies a supported image type.
type Kind int

const (
	KindUnknown Kind = iota
	KindJPEG
	KindPNG
	KindGIF
	KindBMP
	KindTIFF
	KindWebP
)

// HeaderSize is the number of leading bytes DetectHeader needs.
const HeaderSize = 12

var kindNames = [...]string{
	KindUnknown: "unknown",
	KindJPEG:    "jpeg",
	KindPNG:     "png",
	KindGIF:     "gif",
	KindBMP:     "bmp",
	KindTIFF:    "tiff",
	KindWebP:    "webp",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return kindNames[KindUnknown]
	}
	return kindNames[k]
}

// signature is a magic byte run at a fixed offset. All of a kind's
// signatures must match.
type signature struct {
	offset int
	magic  []byte
}

// Order matters: BMP's two byte magic is checked last.
var formats = []struct {
	kind  Kind
	match [][]signature
}{
	{KindPNG, [][]signature{{{0, []byte("\x89PNG\r\n\x1a\n")}}}},
	{KindJPEG, [][]signature{{{0, []byte{0xff, 0xd8, 0xff}}}}},
	{KindGIF, [][]signature{{{0, []byte("GIF87a")}}, {{0, []byte("GIF89a")}}}},
	{KindTIFF, [][]signature{{{0, []byte("II*\x00")}}, {{0, []byte("MM\x00*")}}}},
	{KindWebP, [][]signature{{{0, []byte("RIFF")}, {8, []byte("WEBP")}}}},
	{KindBMP, [][]signature{{{0, []byte("BM")}}}},
}

var errShortHeader = errors.New("header too short")

// DetectHeader matches the leading bytes of a file against known
// signatures. Headers shorter than HeaderSize are still matched, so tiny
// files are classified rather than rejected.
func DetectHeader(header []byte) (Kind, error) {
	if len(header) < 2 {
		return KindUnknown, errShortHeader
	}
	for _, f := range formats {
		for _, all := range f.match {
			if matchAll(header, all) {
				return f.kind, nil
			}
		}
	}
	return KindUnknown, nil
}

// SniffFile reads the header of a file to determine its type.
func SniffFile(path string) (Kind, error) {
	f, err := os.Open(path)
	if err != nil {
		return KindUnknown, err
	}
	defer f.Close()

	return SniffReader(f)
}

// SniffReader reads up to HeaderSize bytes from r and determines its type.
func SniffReader(r io.Reader) (Kind, error) {
	header := make([]byte, HeaderSize)
	n, err := io.ReadFull(r, header)
	switch {
	case errors.Is(err, io.EOF):
		return KindUnknown, errShortHeader
	case err != nil && !errors.Is(err, io.ErrUnexpectedEOF):
		return KindUnknown, err
	}
	return DetectHeader(header[:n])
}

func matchAll(header []byte, sigs []signature) bool {
	for _, s := range sigs {
		end := s.offset + len(s.magic)
		if end > len(header) || !bytes.Equal(header[s.offset:end], s.magic) {
			return false
		}
	}
	return true
}
