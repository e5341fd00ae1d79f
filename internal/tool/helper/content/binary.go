package content

// binarySampleSize is how many leading bytes are scanned for NUL, as git does.
const binarySampleSize = 8000

// IsBinaryContent reports whether content looks binary: a NUL byte within the
// sample. Content starting with a UTF-16 or UTF-32 BOM is text.
func IsBinaryContent(content []byte) bool {
	if hasUnicodeBOM(content) {
		return false
	}
	for _, b := range content[:min(len(content), binarySampleSize)] {
		if b == 0 {
			return true
		}
	}
	return false
}

func hasUnicodeBOM(b []byte) bool {
	switch {
	case len(b) >= 4 && b[0] == 0x00 && b[1] == 0x00 && b[2] == 0xFE && b[3] == 0xFF:
		return true
	case len(b) >= 2 && b[0] == 0xFF && b[1] == 0xFE:
		// Also covers UTF-32 LE.
		return true
	case len(b) >= 2 && b[0] == 0xFE && b[1] == 0xFF:
		return true
	}
	return false
}
