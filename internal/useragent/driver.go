package useragent

import (
	"fmt"
	"os/exec"

	vrerrors "github.com/pders01/visreg/internal/errors"
	"github.com/pders01/visreg/internal/models"
)

// DriverLocator reports whether a browser driver is installed locally
type DriverLocator interface {
	HasDriver(vendor models.BrowserVendor) bool
}

// driverBinaries maps each vendor to the WebDriver executable it ships
var driverBinaries = map[models.BrowserVendor]string{
	models.VendorGoogle:    "chromedriver",
	models.VendorMozilla:   "geckodriver",
	models.VendorApple:     "safaridriver",
	models.VendorMicrosoft: "msedgedriver",
}

// UnsupportedBrowserError is returned for a vendor without a known driver
type UnsupportedBrowserError struct {
	Vendor models.BrowserVendor
}

func (e *UnsupportedBrowserError) Error() string {
	return fmt.Sprintf("unsupported browser vendor %q (valid: %v)", e.Vendor, vendorNames())
}

// Unwrap exposes the error as a ConfigurationError
func (e *UnsupportedBrowserError) Unwrap() error {
	return &vrerrors.ConfigurationError{Value: string(e.Vendor), Valid: vendorNames()}
}

// PathLocator looks drivers up on $PATH
type PathLocator struct {
	lookPath func(string) (string, error)
}

// NewPathLocator creates a locator backed by exec.LookPath
func NewPathLocator() *PathLocator {
	return &PathLocator{lookPath: exec.LookPath}
}

func (l *PathLocator) HasDriver(vendor models.BrowserVendor) bool {
	bin, ok := driverBinaries[vendor]
	if !ok {
		return false
	}
	_, err := l.lookPath(bin)
	return err == nil
}

// DriverBinary returns the executable name for vendor
func DriverBinary(vendor models.BrowserVendor) (string, bool) {
	bin, ok := driverBinaries[vendor]
	return bin, ok
}

func knownVendor(vendor models.BrowserVendor) bool {
	_, ok := driverBinaries[vendor]
	return ok
}

func vendorNames() []string {
	return []string{
		string(models.VendorGoogle),
		string(models.VendorMozilla),
		string(models.VendorApple),
		string(models.VendorMicrosoft),
	}
}

type noDrivers struct{}

func (noDrivers) HasDriver(models.BrowserVendor) bool { return false }
