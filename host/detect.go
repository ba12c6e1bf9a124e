package host

import (
	"maps"
	"net/url"
	"slices"
	"strings"

	"github.com/gobwas/glob"
)

// Generic is the platform reported for unrecognised hosts.
const Generic = "generic"

type platformPattern struct {
	platform string
	pattern  string
}

// defaultPatterns match hostnames, '.' separated. First match wins.
var defaultPatterns = []platformPattern{
	{"linkedin", "{linkedin.com,**.linkedin.com}"},
	{"greenhouse", "{greenhouse.io,**.greenhouse.io}"},
	{"workday", "{workday.com,**.workday.com,**.myworkdayjobs.com,**.myworkdaysite.com}"},
	{"lever", "{lever.co,**.lever.co}"},
	{"bamboohr", "{bamboohr.com,**.bamboohr.com}"},
	{"icims", "{icims.com,**.icims.com}"},
}

type compiled struct {
	platform string
	g        glob.Glob
}

// Detector maps page URLs to applicant-tracking platforms by host pattern.
type Detector struct {
	patterns []compiled
}

// NewDetector compiles the built-in host patterns plus extra, which maps
// a platform name to a host glob and is consulted first, in name order.
func NewDetector(extra map[string]string) (*Detector, error) {
	d := &Detector{}
	var all []platformPattern
	for _, name := range slices.Sorted(maps.Keys(extra)) {
		all = append(all, platformPattern{name, extra[name]})
	}
	all = append(all, defaultPatterns...)
	for _, p := range all {
		g, err := glob.Compile(strings.ToLower(p.pattern), '.')
		if err != nil {
			return nil, err
		}
		d.patterns = append(d.patterns, compiled{platform: p.platform, g: g})
	}
	return d, nil
}

// MustDetector is NewDetector(nil); the built-in patterns always compile.
func MustDetector() *Detector {
	d, err := NewDetector(nil)
	if err != nil {
		panic(err)
	}
	return d
}

// Detect returns the platform for pageURL, or Generic.
func (d *Detector) Detect(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil || u.Hostname() == "" {
		return Generic
	}
	h := strings.ToLower(strings.TrimSuffix(u.Hostname(), "."))
	for _, p := range d.patterns {
		if p.g.Match(h) {
			return p.platform
		}
	}
	return Generic
}
