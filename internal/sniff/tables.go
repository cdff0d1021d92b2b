package sniff

// mimeTypes pairs extensions with MIME labels. The first extension listed for a label is
// the one ExtensionFor returns.
var mimeTypes = []struct {
	ext, mime string
}{
	// Images
	{".png", "image/png"},
	{".jpg", "image/jpeg"},
	{".jpeg", "image/jpeg"},
	{".gif", "image/gif"},
	{".bmp", "image/bmp"},
	{".webp", "image/webp"},
	{".tiff", "image/tiff"},
	{".tif", "image/tiff"},
	{".ico", "image/x-icon"},
	{".svg", "image/svg+xml"},

	// Audio
	{".wav", "audio/wav"},
	{".wav", "audio/x-wav"},
	{".mp3", "audio/mpeg"},
	{".ogg", "audio/ogg"},
	{".flac", "audio/flac"},
	{".aac", "audio/aac"},
	{".m4a", "audio/mp4"},

	// Video
	{".mp4", "video/mp4"},
	{".m4v", "video/mp4"},
	{".avi", "video/x-msvideo"},
	{".mov", "video/quicktime"},
	{".webm", "video/webm"},
	{".mkv", "video/x-matroska"},

	// Documents
	{".pdf", "application/pdf"},
	{".doc", "application/msword"},
	{".docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
	{".xls", "application/vnd.ms-excel"},
	{".xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
	{".ppt", "application/vnd.ms-powerpoint"},
	{".pptx", "application/vnd.openxmlformats-officedocument.presentationml.presentation"},
	{".odt", "application/vnd.oasis.opendocument.text"},
	{".rtf", "application/rtf"},

	// Text
	{".txt", "text/plain"},
	{".html", "text/html"},
	{".htm", "text/html"},
	{".css", "text/css"},
	{".js", "text/javascript"},
	{".json", "application/json"},
	{".xml", "application/xml"},
	{".csv", "text/csv"},
	{".md", "text/markdown"},
	{".yaml", "text/yaml"},
	{".yml", "text/yaml"},
	{".go", "text/x-go"},
	{".py", "text/x-python"},
	{".c", "text/x-c"},
	{".h", "text/x-c"},

	// Archives
	{".zip", "application/zip"},
	{".rar", "application/vnd.rar"},
	{".7z", "application/x-7z-compressed"},
	{".tar", "application/x-tar"},
	{".gz", "application/gzip"},
	{".bz2", "application/x-bzip2"},
	{".xz", "application/x-xz"},

	// Executables. ELF and Mach-O binaries carry no extension.
	{".exe", "application/vnd.microsoft.portable-executable"},
	{".dll", "application/vnd.microsoft.portable-executable"},
	{".sh", "application/x-sh"},
	{".deb", "application/vnd.debian.binary-package"},
	{".rpm", "application/x-rpm"},
	{"", "application/x-executable"},
	{"", "application/x-mach-binary"},

	{".sqlite", "application/vnd.sqlite3"},
	{".bin", OctetStream},
}

var (
	extToMIME = map[string]string{}
	mimeToExt = map[string]string{}
)

func init() {
	for _, t := range mimeTypes {
		if _, ok := extToMIME[t.ext]; !ok && t.ext != "" {
			extToMIME[t.ext] = t.mime
		}
		if _, ok := mimeToExt[t.mime]; !ok {
			mimeToExt[t.mime] = t.ext
		}
	}
}
