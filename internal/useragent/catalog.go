// Package useragent expands user agent aliases into structured descriptors.
package useragent

import (
	"fmt"
	"regexp"
	"strings"

	vrerrors "github.com/pders01/visreg/internal/errors"
	"github.com/pders01/visreg/internal/filter"
	"github.com/pders01/visreg/internal/models"
)

// DefaultAliases is the static list of user agents a run is expanded from
var DefaultAliases = []string{
	"desktop_windows_chrome@latest",
	"desktop_windows_firefox@latest",
	"desktop_windows_edge@latest",
	"desktop_mac_chrome@latest",
	"desktop_mac_firefox@latest",
	"desktop_mac_safari@latest",
	"desktop_linux_chrome@latest",
	"desktop_linux_firefox@latest",
	"mobile_android_chrome@latest",
	"mobile_ios_safari@latest",
	"tablet_ios_safari@latest",
}

var aliasPattern = regexp.MustCompile(`^([a-z]+)_([a-z]+)_([a-z]+)@([a-z0-9.]+)$`)

var (
	formFactors = []models.FormFactor{models.FormFactorDesktop, models.FormFactorMobile, models.FormFactorTablet}
	systems     = []models.OS{models.OSWindows, models.OSMac, models.OSLinux, models.OSAndroid, models.OSIOS}
	browsers    = []models.Browser{models.BrowserChrome, models.BrowserFirefox, models.BrowserSafari, models.BrowserEdge}
)

var browserVendors = map[models.Browser]models.BrowserVendor{
	models.BrowserChrome:  models.VendorGoogle,
	models.BrowserFirefox: models.VendorMozilla,
	models.BrowserSafari:  models.VendorApple,
	models.BrowserEdge:    models.VendorMicrosoft,
}

// InvalidAliasError names the alias segment that did not match a known value
type InvalidAliasError struct {
	Alias   string
	Segment string
	Value   string
	Valid   []string
}

func (e *InvalidAliasError) Error() string {
	if e.Segment == "" {
		return fmt.Sprintf("invalid user agent alias %q: expected <form_factor>_<os>_<browser>@<version>, e.g. desktop_windows_chrome@latest", e.Alias)
	}
	return fmt.Sprintf("invalid user agent alias %q: unknown %s %q (valid: %s)",
		e.Alias, e.Segment, e.Value, strings.Join(e.Valid, ", "))
}

// Unwrap exposes the error as a ConfigurationError
func (e *InvalidAliasError) Unwrap() error {
	return &vrerrors.ConfigurationError{Value: e.Alias, Valid: e.Valid}
}

// Options configures a Catalog
type Options struct {
	Filter  filter.Patterns
	Online  bool
	Locator DriverLocator
}

// Catalog expands aliases against the CLI filter and the local environment
type Catalog struct {
	opts Options
}

// NewCatalog creates a catalog. A nil Locator reports every driver as missing.
func NewCatalog(opts Options) *Catalog {
	if opts.Locator == nil {
		opts.Locator = noDrivers{}
	}
	return &Catalog{opts: opts}
}

// Expand expands every alias, failing on the first invalid one
func (c *Catalog) Expand(aliases []string) ([]*models.UserAgent, error) {
	agents := make([]*models.UserAgent, 0, len(aliases))
	for _, alias := range aliases {
		ua, err := c.ExpandOne(alias)
		if err != nil {
			return nil, err
		}
		agents = append(agents, ua)
	}
	return agents, nil
}

// ExpandOne parses alias and computes its runnability
func (c *Catalog) ExpandOne(alias string) (*models.UserAgent, error) {
	ua, err := Parse(alias)
	if err != nil {
		return nil, err
	}

	available, err := c.IsAvailableLocally(ua.BrowserVendor)
	if err != nil {
		return nil, err
	}

	ua.IsEnabledByCLI = c.IsEnabledByCLI(alias)
	ua.IsAvailableLocally = available
	ua.IsRunnable = ua.IsEnabledByCLI && (c.opts.Online || ua.IsAvailableLocally)
	return ua, nil
}

// IsEnabledByCLI applies the --browser include/exclude patterns
func (c *Catalog) IsEnabledByCLI(alias string) bool {
	return c.opts.Filter.Matches(alias)
}

// IsAvailableLocally reports whether a driver for vendor is installed
func (c *Catalog) IsAvailableLocally(vendor models.BrowserVendor) (bool, error) {
	if !knownVendor(vendor) {
		return false, &UnsupportedBrowserError{Vendor: vendor}
	}
	return c.opts.Locator.HasDriver(vendor), nil
}

// Parse turns an alias into a UserAgent with all runnability flags false.
// Unknown version names map to VersionExact.
func Parse(alias string) (*models.UserAgent, error) {
	m := aliasPattern.FindStringSubmatch(strings.ToLower(alias))
	if m == nil {
		return nil, &InvalidAliasError{Alias: alias}
	}

	formFactor, ok := lookup(formFactors, m[1])
	if !ok {
		return nil, &InvalidAliasError{Alias: alias, Segment: "form factor", Value: m[1], Valid: names(formFactors)}
	}
	system, ok := lookup(systems, m[2])
	if !ok {
		return nil, &InvalidAliasError{Alias: alias, Segment: "os", Value: m[2], Valid: names(systems)}
	}
	browser, ok := lookup(browsers, m[3])
	if !ok {
		return nil, &InvalidAliasError{Alias: alias, Segment: "browser", Value: m[3], Valid: names(browsers)}
	}

	return &models.UserAgent{
		Alias:         alias,
		FormFactor:    formFactor,
		OS:            system,
		Browser:       browser,
		BrowserVendor: browserVendors[browser],
		Version:       parseVersion(m[4]),
		VersionValue:  m[4],
	}, nil
}

func parseVersion(v string) models.VersionType {
	switch models.VersionType(v) {
	case models.VersionLatest:
		return models.VersionLatest
	case models.VersionPrevious:
		return models.VersionPrevious
	default:
		return models.VersionExact
	}
}

func lookup[T ~string](valid []T, s string) (T, bool) {
	for _, v := range valid {
		if strings.EqualFold(string(v), s) {
			return v, true
		}
	}
	return "", false
}

func names[T ~string](valid []T) []string {
	out := make([]string, len(valid))
	for i, v := range valid {
		out[i] = string(v)
	}
	return out
}
