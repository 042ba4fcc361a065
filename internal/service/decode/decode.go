// Package decode turns uploaded activity files into the canonical
// waypoint sequence. One decoder per container format, all behind
// domain.TrackDecoder; the format is resolved once at ingestion entry.
package decode

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/habeebamz/cycling-app-sub000/internal/domain"
)

// FormatFromFilename maps an uploaded file's extension to its source
// format.
func FormatFromFilename(name string) (domain.SourceFormat, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	switch ext {
	case "gpx":
		return domain.FormatGPX, nil
	case "tcx":
		return domain.FormatTCX, nil
	case "fit":
		return domain.FormatFIT, nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, ext)
	}
}

// ForFormat returns the decoder handling the given format. Manual
// entries have no decoder; callers supply their summary directly.
func ForFormat(format domain.SourceFormat) (domain.TrackDecoder, error) {
	switch format {
	case domain.FormatGPX:
		return &GPXDecoder{}, nil
	case domain.FormatTCX:
		return &TCXDecoder{}, nil
	case domain.FormatFIT:
		return &FITDecoder{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, format)
	}
}
