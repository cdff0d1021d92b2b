// Package sniff maps payload files to MIME labels and MIME labels back to file extensions.
package sniff

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// OctetStream is the label used when nothing more specific is known.
const OctetStream = "application/octet-stream"

// DetectMIME labels the file at path. Content sniffing wins when it finds something more
// specific than a generic binary or text type; otherwise the extension decides.
func DetectMIME(path string) string {
	fromExt := FromExtension(filepath.Ext(path))

	m, err := mimetype.DetectFile(path)
	if err != nil {
		return fromExt
	}
	sniffed := baseType(m.String())
	if sniffed == OctetStream {
		return fromExt
	}
	// Sniffing cannot tell markdown or CSV from plain text; the extension can.
	if sniffed == "text/plain" && fromExt != OctetStream {
		return fromExt
	}
	return sniffed
}

// DetectBytes labels an in-memory payload, falling back to the extension of name.
func DetectBytes(data []byte, name string) string {
	fromExt := FromExtension(filepath.Ext(name))
	sniffed := baseType(mimetype.Detect(data).String())
	if sniffed == OctetStream || (sniffed == "text/plain" && fromExt != OctetStream) {
		return fromExt
	}
	return sniffed
}

// FromExtension maps a file extension (with or without the dot) to a MIME label.
func FromExtension(ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	if mime, ok := extToMIME[ext]; ok {
		return mime
	}
	return OctetStream
}

// ExtensionFor returns the file extension, including the dot, for a MIME label. Executable
// formats without a conventional extension map to "". Unknown labels get ".bin".
func ExtensionFor(mime string) string {
	mime = baseType(mime)
	if ext, ok := mimeToExt[mime]; ok {
		return ext
	}
	if m := mimetype.Lookup(mime); m != nil && m.Extension() != "" {
		return m.Extension()
	}
	return ".bin"
}

// RecoveredName is the file name used for an extracted payload.
func RecoveredName(mime string) string {
	return "recovered_payload" + ExtensionFor(mime)
}

func baseType(mime string) string {
	base, _, _ := strings.Cut(mime, ";")
	return strings.ToLower(strings.TrimSpace(base))
}
