package stego

import (
	"bytes"
	"encoding/binary"
	"strings"
	"unicode/utf8"
)

// Payload container layout:
//
//	MAGIC     4B  "STG1"
//	TOTAL_LEN u32 big-endian, 13 + MIME_LEN + len(DATA), i.e. one past the end of DATA
//	MIME_LEN  u8
//	KEY_HINT  u32 big-endian, key mod KeyHintModulus
//	MIME      MIME_LEN bytes, UTF-8
//	DATA      TOTAL_LEN - 13 - MIME_LEN bytes
const (
	Magic          = "STG1"
	HeaderLen      = 4 + 4 + 1 + 4
	MaxMIMELen     = 255
	KeyHintModulus = 1000003
)

// Metadata is what TryUnpack recovers from a payload container.
type Metadata struct {
	MIME     string
	Length   int
	Data     []byte
	KeyHint  uint32
	TotalLen int

	// Complete is false when the blob ended before TotalLen; Data then holds only what
	// was available.
	Complete bool
}

// KeyHint reduces a key to the value stored in the header.
func KeyHint(key uint64) uint32 {
	return uint32(key % KeyHintModulus)
}

// Pack builds a payload container. MIME labels longer than MaxMIMELen bytes are cut at the
// last whole rune that fits.
func Pack(data []byte, mime string, keyHint uint32) []byte {
	mimeBytes := truncateUTF8(mime, MaxMIMELen)
	total := HeaderLen + len(mimeBytes) + len(data)

	out := make([]byte, total)
	copy(out[0:4], Magic)
	binary.BigEndian.PutUint32(out[4:8], uint32(total))
	out[8] = byte(len(mimeBytes))
	binary.BigEndian.PutUint32(out[9:13], keyHint)
	copy(out[HeaderLen:], mimeBytes)
	copy(out[HeaderLen+len(mimeBytes):], data)
	return out
}

// TryUnpack recognizes a payload container at the start of blob. It returns nil and 0 when
// the blob is too short, the magic does not match, or the MIME string is cut off. Trailing
// bytes after TOTAL_LEN are ignored.
func TryUnpack(blob []byte) (*Metadata, int) {
	if len(blob) < HeaderLen {
		return nil, 0
	}
	if !bytes.Equal(blob[0:4], []byte(Magic)) {
		return nil, 0
	}

	total := int(binary.BigEndian.Uint32(blob[4:8]))
	mimeLen := int(blob[8])
	keyHint := binary.BigEndian.Uint32(blob[9:13])

	start := HeaderLen + mimeLen
	if len(blob) < start {
		return nil, 0
	}

	end := total
	if end > len(blob) {
		end = len(blob)
	}
	if end < start {
		end = start
	}

	data := make([]byte, end-start)
	copy(data, blob[start:end])

	return &Metadata{
		MIME:     strings.ToValidUTF8(string(blob[HeaderLen:start]), ""),
		Length:   len(data),
		Data:     data,
		KeyHint:  keyHint,
		TotalLen: total,
		Complete: len(blob) >= total,
	}, total
}

// FindMagic returns the offset of the magic within the first window bytes of blob, or -1.
func FindMagic(blob []byte, window int) int {
	if window > 0 && len(blob) > window {
		blob = blob[:window]
	}
	return bytes.Index(blob, []byte(Magic))
}

func truncateUTF8(s string, max int) []byte {
	if len(s) <= max {
		return []byte(s)
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return []byte(s[:cut])
}
