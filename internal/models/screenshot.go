package models

// InclusionType decides what processing a screenshot receives
type InclusionType string

const (
	InclusionAdd     InclusionType = "add"
	InclusionSkip    InclusionType = "skip"
	InclusionRemove  InclusionType = "remove"
	InclusionCompare InclusionType = "compare"
)

// CaptureState tracks a screenshot through capture and diffing
type CaptureState string

const (
	CaptureQueued   CaptureState = "queued"
	CaptureSkipped  CaptureState = "skipped"
	CaptureRunning  CaptureState = "running"
	CaptureCaptured CaptureState = "captured"
	CaptureDiffed   CaptureState = "diffed"
)

// TestFile is an artifact addressable by relative path, absolute path and public URL
type TestFile struct {
	RelativePath string `json:"relativePath"`
	AbsolutePath string `json:"absolutePath"`
	PublicURL    string `json:"publicUrl"`
}

// ImageDiffResult is produced by the external pixel differ
type ImageDiffResult struct {
	HasChanged        bool    `json:"hasChanged"`
	DiffPixelFraction float64 `json:"diffPixelFraction"`
	DiffPixelCount    int64   `json:"diffPixelCount"`
}

// Screenshot is one test page rendered by one user agent
type Screenshot struct {
	UserAgent         *UserAgent       `json:"userAgent"`
	TestPageFile      *TestFile        `json:"testPageFile"`
	ExpectedImageFile *TestFile        `json:"expectedImageFile,omitempty"`
	ActualImageFile   *TestFile        `json:"actualImageFile,omitempty"`
	DiffImageFile     *TestFile        `json:"diffImageFile,omitempty"`
	ImageDiffResult   *ImageDiffResult `json:"imageDiffResult,omitempty"`
	IsRunnable        bool             `json:"isRunnable"`
	InclusionType     InclusionType    `json:"inclusionType"`
	CaptureState      CaptureState     `json:"captureState"`
	FetchError        string           `json:"fetchError,omitempty"`
}

// ScreenshotKey identifies a screenshot across the golden and actual sets
type ScreenshotKey struct {
	PagePath string
	Alias    string
}

func (k ScreenshotKey) String() string {
	return k.PagePath + ":" + k.Alias
}

// PagePath returns the test page's relative path, or "" when unset
func (s *Screenshot) PagePath() string {
	if s == nil || s.TestPageFile == nil {
		return ""
	}
	return s.TestPageFile.RelativePath
}

// Alias returns the user agent alias, or "" when unset
func (s *Screenshot) Alias() string {
	if s == nil || s.UserAgent == nil {
		return ""
	}
	return s.UserAgent.Alias
}

// Key returns the identity key of the screenshot
func (s *Screenshot) Key() ScreenshotKey {
	return ScreenshotKey{PagePath: s.PagePath(), Alias: s.Alias()}
}

// ScreenshotSet is a sorted list of screenshots plus two indexes over it.
// Index values hold the same pointers as List.
type ScreenshotSet struct {
	List        []*Screenshot            `json:"list"`
	ByUserAgent map[string][]*Screenshot `json:"byUserAgent"`
	ByPage      map[string][]*Screenshot `json:"byPage"`
}

// NewScreenshotSet indexes an already sorted list
func NewScreenshotSet(list []*Screenshot) ScreenshotSet {
	set := ScreenshotSet{
		List:        list,
		ByUserAgent: make(map[string][]*Screenshot),
		ByPage:      make(map[string][]*Screenshot),
	}
	if set.List == nil {
		set.List = []*Screenshot{}
	}
	for _, s := range set.List {
		alias := s.Alias()
		page := s.PagePath()
		set.ByUserAgent[alias] = append(set.ByUserAgent[alias], s)
		set.ByPage[page] = append(set.ByPage[page], s)
	}
	return set
}

// Len returns the number of screenshots in the set
func (s ScreenshotSet) Len() int {
	return len(s.List)
}

// Find returns the screenshot with the given key, or nil
func (s ScreenshotSet) Find(key ScreenshotKey) *Screenshot {
	for _, shot := range s.ByPage[key.PagePath] {
		if shot.Alias() == key.Alias {
			return shot
		}
	}
	return nil
}

// Screenshots groups every screenshot of a run by category
type Screenshots struct {
	Expected   ScreenshotSet `json:"expected"`
	Actual     ScreenshotSet `json:"actual"`
	Runnable   ScreenshotSet `json:"runnable"`
	Skipped    ScreenshotSet `json:"skipped"`
	Added      ScreenshotSet `json:"added"`
	Removed    ScreenshotSet `json:"removed"`
	Comparable ScreenshotSet `json:"comparable"`
	Changed    ScreenshotSet `json:"changed"`
	Unchanged  ScreenshotSet `json:"unchanged"`
}

// Categories returns each named set, in schema order
func (s *Screenshots) Categories() []NamedSet {
	return []NamedSet{
		{"expected", &s.Expected},
		{"actual", &s.Actual},
		{"runnable", &s.Runnable},
		{"skipped", &s.Skipped},
		{"added", &s.Added},
		{"removed", &s.Removed},
		{"comparable", &s.Comparable},
		{"changed", &s.Changed},
		{"unchanged", &s.Unchanged},
	}
}

// NamedSet pairs a category name with its set
type NamedSet struct {
	Name string
	Set  *ScreenshotSet
}
