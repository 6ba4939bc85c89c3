package models

// FormFactor is the device class a user agent emulates
type FormFactor string

const (
	FormFactorDesktop FormFactor = "desktop"
	FormFactorMobile  FormFactor = "mobile"
	FormFactorTablet  FormFactor = "tablet"
)

// OS is the operating system a user agent runs on
type OS string

const (
	OSWindows OS = "windows"
	OSMac     OS = "mac"
	OSLinux   OS = "linux"
	OSAndroid OS = "android"
	OSIOS     OS = "ios"
)

// Browser is the browser family of a user agent
type Browser string

const (
	BrowserChrome  Browser = "chrome"
	BrowserFirefox Browser = "firefox"
	BrowserSafari  Browser = "safari"
	BrowserEdge    Browser = "edge"
)

// BrowserVendor is the company that ships a browser's driver
type BrowserVendor string

const (
	VendorGoogle    BrowserVendor = "google"
	VendorMozilla   BrowserVendor = "mozilla"
	VendorApple     BrowserVendor = "apple"
	VendorMicrosoft BrowserVendor = "microsoft"
)

// VersionType classifies the version segment of an alias
type VersionType string

const (
	VersionExact    VersionType = "exact"
	VersionLatest   VersionType = "latest"
	VersionPrevious VersionType = "previous"
)

// UserAgent is one browser/OS/form-factor/version combination
type UserAgent struct {
	Alias              string        `json:"alias"`
	FormFactor         FormFactor    `json:"formFactor"`
	OS                 OS            `json:"os"`
	Browser            Browser       `json:"browser"`
	BrowserVendor      BrowserVendor `json:"browserVendor"`
	Version            VersionType   `json:"version"`
	VersionValue       string        `json:"versionValue"`
	IsEnabledByCLI     bool          `json:"isEnabledByCli"`
	IsAvailableLocally bool          `json:"isAvailableLocally"`
	IsRunnable         bool          `json:"isRunnable"`
}
