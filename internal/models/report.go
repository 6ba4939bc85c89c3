package models

import "time"

// ReportData is the report.json payload consumed by the viewer and the approve command
type ReportData struct {
	Meta        ReportMeta   `json:"meta"`
	UserAgents  []*UserAgent `json:"userAgents"`
	Screenshots *Screenshots `json:"screenshots"`
	Approvals   *Approvals   `json:"approvals"`
}

// ReportMeta describes the run that produced a report
type ReportMeta struct {
	RunID               string          `json:"runId"`
	StartTime           time.Time       `json:"startTime"`
	EndTime             time.Time       `json:"endTime"`
	CLIInvocation       string          `json:"cliInvocation"`
	DiffBase            DiffBase        `json:"diffBase"`
	ToolVersions        ToolVersions    `json:"toolVersions"`
	Snapshot            WorkingRevision `json:"snapshotGitRevision"`
	LatestReleaseTag    string          `json:"latestReleaseTag,omitempty"`
	CommitsSinceRelease int             `json:"commitsSinceRelease"`
	Online              bool            `json:"online"`
	GoldenJSONFile      string          `json:"goldenJsonFile,omitempty"`
	ReportJSONFile      string          `json:"reportJsonFile,omitempty"`
	HostOS              string          `json:"hostOs"`
}

// ToolVersions records the versions of the tools involved in a run
type ToolVersions struct {
	Visreg string `json:"visreg"`
	Go     string `json:"go"`
	Git    string `json:"git,omitempty"`
}

// WorkingRevision is the state of the working tree the screenshots were taken from
type WorkingRevision struct {
	Branch string `json:"branch,omitempty"`
	Commit string `json:"commit,omitempty"`
}

// Approvals lists the screenshots accepted into the golden manifest
type Approvals struct {
	Changed []*Screenshot `json:"changed"`
	Added   []*Screenshot `json:"added"`
	Removed []*Screenshot `json:"removed"`
}

// NewApprovals returns an empty approval record
func NewApprovals() *Approvals {
	return &Approvals{
		Changed: []*Screenshot{},
		Added:   []*Screenshot{},
		Removed: []*Screenshot{},
	}
}

// Len returns the total number of approved screenshots
func (a *Approvals) Len() int {
	if a == nil {
		return 0
	}
	return len(a.Changed) + len(a.Added) + len(a.Removed)
}
