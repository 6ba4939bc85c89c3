package report

import (
	"log/slog"

	"github.com/pders01/visreg/internal/models"
)

// ApprovalRequest selects the screenshots to approve
type ApprovalRequest struct {
	All        bool
	AllChanged bool
	AllAdded   bool
	AllRemoved bool
	Changed    []models.ApprovalID
	Added      []models.ApprovalID
	Removed    []models.ApprovalID
}

// IsEmpty reports whether the request selects nothing
func (r ApprovalRequest) IsEmpty() bool {
	return !r.All && !r.AllChanged && !r.AllAdded && !r.AllRemoved &&
		len(r.Changed) == 0 && len(r.Added) == 0 && len(r.Removed) == 0
}

// Approve picks the requested screenshots out of the changed, added and
// removed sets. IDs that match nothing are skipped.
func Approve(s *models.Screenshots, req ApprovalRequest) *models.Approvals {
	return &models.Approvals{
		Changed: pick(s.Changed, req.All || req.AllChanged, req.Changed),
		Added:   pick(s.Added, req.All || req.AllAdded, req.Added),
		Removed: pick(s.Removed, req.All || req.AllRemoved, req.Removed),
	}
}

// pick returns the selected screenshots in set order, each at most once
func pick(set models.ScreenshotSet, all bool, ids []models.ApprovalID) []*models.Screenshot {
	out := []*models.Screenshot{}
	if all {
		return append(out, set.List...)
	}

	wanted := make(map[models.ScreenshotKey]bool, len(ids))
	for _, id := range ids {
		if set.Find(id.Key()) == nil {
			slog.Debug("approval id not found", "id", id.String())
			continue
		}
		wanted[id.Key()] = true
	}

	for _, s := range set.List {
		if wanted[s.Key()] {
			out = append(out, s)
		}
	}
	return out
}

// ApplyApprovals returns a copy of golden with the approvals written in:
// changed and added entries point at their captured image, removed entries
// are deleted. Screenshots that were never captured are left untouched.
func ApplyApprovals(golden models.GoldenManifest, approvals *models.Approvals) models.GoldenManifest {
	out := golden.Clone()
	if approvals == nil {
		return out
	}

	for _, list := range [][]*models.Screenshot{approvals.Changed, approvals.Added} {
		for _, s := range list {
			if s.ActualImageFile == nil || s.ActualImageFile.PublicURL == "" {
				slog.Warn("approved screenshot has no captured image", "id", s.Key().String())
				continue
			}
			var pageURL string
			if s.TestPageFile != nil {
				pageURL = s.TestPageFile.PublicURL
			}
			out.Set(s.PagePath(), pageURL, s.Alias(), s.ActualImageFile.PublicURL)
		}
	}
	for _, s := range approvals.Removed {
		out.Delete(s.PagePath(), s.Alias())
	}
	return out
}
