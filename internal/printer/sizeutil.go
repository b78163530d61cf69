package printer

import "fmt"

var sizeUnits = []string{"KB", "MB", "GB"}

// FormatSize returns a human-readable size for a file content.
// Examples: "0 B", "512 B", "1.5 KB", "2.0 MB".
func FormatSize(content string) string {
	size := float64(len(content))
	if size < 1024 {
		return fmt.Sprintf("%d B", len(content))
	}

	unit := ""
	for _, u := range sizeUnits {
		size /= 1024
		unit = u
		if size < 1024 {
			break
		}
	}

	return fmt.Sprintf("%.1f %s", size, unit)
}
