package report

import (
	"sort"

	"github.com/pders01/visreg/internal/models"
)

// CategoryCount is the size of one screenshot category
type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// AgentCount breaks the capture categories down for one user agent
type AgentCount struct {
	Alias      string `json:"alias"`
	Runnable   int    `json:"runnable"`
	Skipped    int    `json:"skipped"`
	Added      int    `json:"added"`
	Removed    int    `json:"removed"`
	Comparable int    `json:"comparable"`
	Changed    int    `json:"changed"`
}

// Summary is a condensed view of a report
type Summary struct {
	RunID      string          `json:"runId"`
	DiffBase   string          `json:"diffBase"`
	Categories []CategoryCount `json:"categories"`
	UserAgents []AgentCount    `json:"userAgents"`
	Approved   int             `json:"approved"`
}

// Summarize counts screenshots per category and per user agent
func Summarize(data *models.ReportData) Summary {
	summary := Summary{
		RunID:    data.Meta.RunID,
		DiffBase: data.Meta.DiffBase.String(),
		Approved: data.Approvals.Len(),
	}
	if data.Screenshots == nil {
		return summary
	}

	s := data.Screenshots
	for _, named := range s.Categories() {
		summary.Categories = append(summary.Categories, CategoryCount{Name: named.Name, Count: named.Set.Len()})
	}

	aliases := make(map[string]bool)
	for _, ua := range data.UserAgents {
		aliases[ua.Alias] = true
	}
	for alias := range s.Expected.ByUserAgent {
		aliases[alias] = true
	}
	for alias := range s.Actual.ByUserAgent {
		aliases[alias] = true
	}

	names := make([]string, 0, len(aliases))
	for alias := range aliases {
		names = append(names, alias)
	}
	sort.Strings(names)

	for _, alias := range names {
		summary.UserAgents = append(summary.UserAgents, AgentCount{
			Alias:      alias,
			Runnable:   len(s.Runnable.ByUserAgent[alias]),
			Skipped:    len(s.Skipped.ByUserAgent[alias]),
			Added:      len(s.Added.ByUserAgent[alias]),
			Removed:    len(s.Removed.ByUserAgent[alias]),
			Comparable: len(s.Comparable.ByUserAgent[alias]),
			Changed:    len(s.Changed.ByUserAgent[alias]),
		})
	}
	return summary
}
