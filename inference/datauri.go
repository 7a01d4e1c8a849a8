package inference

import (
	"encoding/base64"
	"net/http"
	"strings"
)

// DataURL converts raw image bytes to a data URL, sniffing the media type
// from the payload. This mirrors what the web client did with a FileReader
// over the provider's binary blob.
func DataURL(raw []byte) string {
	mediaType := http.DetectContentType(raw)
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(raw)
}

// IsDataURL reports whether s is a data URL.
func IsDataURL(s string) bool {
	return strings.HasPrefix(s, "data:")
}
