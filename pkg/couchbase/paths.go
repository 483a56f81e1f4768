package couchbase

import (
	"fmt"
	"net/url"
	"strings"
)

// REST endpoints used by the probes.
const (
	NodesPath   = "/pools/nodes"
	ClusterPath = "/pools/default"
	bucketsPath = "/pools/default/buckets/"
)

// BucketPath returns the metadata endpoint for bucket.
func BucketPath(bucket string) string {
	return bucketsPath + url.PathEscape(bucket)
}

// BucketStatsPath returns the statistics endpoint for bucket, with an optional zoom.
func BucketStatsPath(bucket string, zoom Zoom) string {
	p := BucketPath(bucket) + "/stats"
	if zoom != "" {
		p += "?" + url.Values{"zoom": {string(zoom)}}.Encode()
	}
	return p
}

// Zoom is the sampling granularity of the bucket statistics endpoint.
type Zoom string

const (
	ZoomMinute Zoom = "minute"
	ZoomHour   Zoom = "hour"
	ZoomDay    Zoom = "day"
	ZoomWeek   Zoom = "week"
	ZoomMonth  Zoom = "month"
	ZoomYear   Zoom = "year"
)

var zooms = []Zoom{ZoomMinute, ZoomHour, ZoomDay, ZoomWeek, ZoomMonth, ZoomYear}

// ParseZoom validates a zoom name. The empty string selects the server default.
func ParseZoom(s string) (Zoom, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", nil
	}
	for _, z := range zooms {
		if string(z) == s {
			return z, nil
		}
	}
	return "", fmt.Errorf("invalid zoom %q: must be one of minute, hour, day, week, month, year", s)
}
