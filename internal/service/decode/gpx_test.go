package decode

import (
	"errors"
	"testing"
	"time"

	"github.com/habeebamz/cycling-app-sub000/internal/domain"
)

const gpxFixture = `<?xml version="1.0" encoding="UTF-8"?>
<gpx xmlns="http://www.topografix.com/GPX/1/1" version="1.1" creator="test">
  <trk>
    <trkseg>
      <trkpt lat="45.000" lon="7.000"><ele>100</ele><time>2026-05-10T08:00:00Z</time></trkpt>
      <trkpt lat="45.009" lon="7.000"><ele>150</ele><time>2026-05-10T08:15:00Z</time></trkpt>
      <trkpt lat="45.018" lon="7.000"><ele>120</ele><time>2026-05-10T08:30:00Z</time></trkpt>
    </trkseg>
  </trk>
</gpx>`

func TestGPXDecode(t *testing.T) {
	out, err := (&GPXDecoder{}).Decode([]byte(gpxFixture))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if out.Track.Format != domain.FormatGPX {
		t.Fatalf("unexpected format %q", out.Track.Format)
	}
	if len(out.Track.Points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(out.Track.Points))
	}

	first := out.Track.Points[0]
	if first.Latitude != 45.0 || first.Longitude != 7.0 || first.Elevation != 100 {
		t.Fatalf("unexpected first point: %+v", first)
	}
	want := time.Date(2026, 5, 10, 8, 0, 0, 0, time.UTC)
	if !first.Timestamp.Equal(want) {
		t.Fatalf("expected timestamp %v, got %v", want, first.Timestamp)
	}
	if out.Summary != nil {
		t.Fatal("GPX has no container summary")
	}
}

func TestGPXRouteFallback(t *testing.T) {
	doc := `<?xml version="1.0"?>
<gpx xmlns="http://www.topografix.com/GPX/1/1" version="1.1" creator="test">
  <rte>
    <rtept lat="45.000" lon="7.000"><ele>100</ele></rtept>
    <rtept lat="45.010" lon="7.000"><ele>110</ele></rtept>
  </rte>
</gpx>`
	out, err := (&GPXDecoder{}).Decode([]byte(doc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(out.Track.Points) != 2 {
		t.Fatalf("expected 2 route points, got %d", len(out.Track.Points))
	}
}

func TestGPXNoTrack(t *testing.T) {
	doc := `<?xml version="1.0"?><gpx xmlns="http://www.topografix.com/GPX/1/1" version="1.1" creator="test"></gpx>`
	_, err := (&GPXDecoder{}).Decode([]byte(doc))
	if !errors.Is(err, domain.ErrNoTrackData) {
		t.Fatalf("expected ErrNoTrackData, got %v", err)
	}
}

func TestGPXSinglePoint(t *testing.T) {
	doc := `<?xml version="1.0"?>
<gpx xmlns="http://www.topografix.com/GPX/1/1" version="1.1" creator="test">
  <trk><trkseg><trkpt lat="45.0" lon="7.0"></trkpt></trkseg></trk>
</gpx>`
	_, err := (&GPXDecoder{}).Decode([]byte(doc))
	if !errors.Is(err, domain.ErrNoTrackData) {
		t.Fatalf("expected ErrNoTrackData, got %v", err)
	}
}

func TestGPXMalformed(t *testing.T) {
	_, err := (&GPXDecoder{}).Decode([]byte("definitely not xml"))
	if !errors.Is(err, domain.ErrDecodeFailure) {
		t.Fatalf("expected ErrDecodeFailure, got %v", err)
	}
}

func TestFormatFromFilename(t *testing.T) {
	cases := map[string]domain.SourceFormat{
		"ride.gpx":       domain.FormatGPX,
		"RIDE.GPX":       domain.FormatGPX,
		"workout.tcx":    domain.FormatTCX,
		"morning.fit":    domain.FormatFIT,
		"export.new.fit": domain.FormatFIT,
	}
	for name, want := range cases {
		got, err := FormatFromFilename(name)
		if err != nil {
			t.Fatalf("FormatFromFilename(%q): %v", name, err)
		}
		if got != want {
			t.Fatalf("FormatFromFilename(%q) = %q, want %q", name, got, want)
		}
	}

	if _, err := FormatFromFilename("ride.kml"); !errors.Is(err, domain.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}
