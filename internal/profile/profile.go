package profile

import (
	"image/png"
	"sort"

	"github.com/AnyUserName/imgconv/internal/convert"
)

// Profile defines encoding parameters for a conversion run.
type Profile struct {
	Name           string
	Formats        []convert.Format     // default targets when none are requested
	Quality        int                  // JPEG quality 1-100
	PNGCompression png.CompressionLevel // zlib effort for PNG output
}

// DefaultName is the profile used when none is requested.
const DefaultName = "default"

// Built-in profiles.
var profiles = map[string]Profile{
	DefaultName: {
		Name:           DefaultName,
		Quality:        90,
		PNGCompression: png.DefaultCompression,
	},
	"web": {
		Name:           "web",
		Formats:        []convert.Format{convert.FormatJPEG},
		Quality:        82,
		PNGCompression: png.BestCompression,
	},
	"fast": {
		Name:           "fast",
		Quality:        75,
		PNGCompression: png.BestSpeed,
	},
	"archive": {
		Name:           "archive",
		Formats:        []convert.Format{convert.FormatPNG},
		Quality:        95,
		PNGCompression: png.BestCompression,
	},
}

// Get returns a profile by name. Falls back to the default profile if unknown.
func Get(name string) Profile {
	if p, ok := profiles[name]; ok {
		return p
	}
	p := profiles[DefaultName]
	p.Name = name // preserve requested name
	return p
}

// Names returns the built-in profile names, sorted.
func Names() []string {
	names := make([]string, 0, len(profiles))
	for n := range profiles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// WithQuality returns a copy of p using quality q when q is in 1-100.
func (p Profile) WithQuality(q int) Profile {
	if q > 0 && q <= 100 {
		p.Quality = q
	}
	return p
}
