package glyphmatch

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/wbrown/glyphmatch/imageutil"
)

// Match is the nearest corpus entry found for a query.
type Match struct {
	Entry    Entry
	Distance float64
}

// Matcher finds the closest corpus image to a query image by descriptor
// distance. Images are loaded through Loader one at a time and released
// once their descriptor is known.
type Matcher struct {
	load   imageutil.Loader
	cache  *DescriptorCache
	logger *zap.Logger
}

// NewMatcher returns a matcher that decodes images with load. cache may be
// nil to recompute every descriptor on every scan.
func NewMatcher(load imageutil.Loader, cache *DescriptorCache, logger *zap.Logger) *Matcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Matcher{load: load, cache: cache, logger: logger}
}

// Describe returns the descriptor of the image at path.
func (m *Matcher) Describe(path string) (Descriptor, error) {
	if m.cache != nil {
		if d, ok := m.cache.get(path); ok {
			return d, nil
		}
	}

	img, err := m.load(path)
	if err != nil {
		return nil, fmt.Errorf("describe %s: %w", path, err)
	}
	r, err := RasterFromGray(img)
	if err != nil {
		return nil, fmt.Errorf("describe %s: %w", path, err)
	}
	d := Extract(r)

	if m.cache != nil {
		m.cache.put(path, d)
	}
	return d, nil
}

// FindClosest scans corpus for the entry nearest to query. Hidden entries
// and the query itself (same path) are never candidates. The first of
// several equidistant candidates wins. ok is false when no candidate
// remains.
func (m *Matcher) FindClosest(query Entry, corpus []Entry) (match Match, ok bool, err error) {
	qd, err := m.Describe(query.Path)
	if err != nil {
		return Match{}, false, err
	}

	best := math.MaxFloat64
	for _, e := range corpus {
		if e.Hidden || e.Path == query.Path {
			continue
		}
		d, err := m.Describe(e.Path)
		if err != nil {
			return Match{}, false, err
		}
		dist, err := Distance(qd, d)
		if err != nil {
			return Match{}, false, err
		}
		if !ok || dist < best {
			best = dist
			match = Match{Entry: e, Distance: dist}
			ok = true
		}
	}

	if ok {
		m.logger.Debug("Closest match",
			zap.String("query", query.Name),
			zap.String("match", match.Entry.Name),
			zap.Float64("distance", match.Distance))
	}
	return match, ok, nil
}
