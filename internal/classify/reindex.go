package classify

import (
	"github.com/pders01/visreg/internal/models"
)

// PartitionDiffed moves every comparable screenshot with a pixel diff result
// into changed or unchanged and marks it diffed. Screenshots still awaiting a
// result stay in comparable only.
func PartitionDiffed(s *models.Screenshots) {
	var changed, unchanged []*models.Screenshot
	for _, shot := range s.Comparable.List {
		if shot.ImageDiffResult == nil {
			continue
		}
		shot.CaptureState = models.CaptureDiffed
		if shot.ImageDiffResult.HasChanged {
			changed = append(changed, shot)
		} else {
			unchanged = append(unchanged, shot)
		}
	}
	s.Changed = models.NewScreenshotSet(changed)
	s.Unchanged = models.NewScreenshotSet(unchanged)
}

// Reindex restores shared identity after the sets were decoded from JSON.
// Every category is re-pointed at the matching entry of actual, removed at
// expected, and the indexes are rebuilt.
func Reindex(s *models.Screenshots) {
	actual := canonical(s.Actual.List)
	expected := canonical(s.Expected.List)

	s.Actual = models.NewScreenshotSet(s.Actual.List)
	s.Expected = models.NewScreenshotSet(s.Expected.List)

	for _, named := range s.Categories() {
		switch named.Name {
		case "actual", "expected":
			continue
		case "removed":
			*named.Set = relink(named.Set.List, expected)
		default:
			*named.Set = relink(named.Set.List, actual)
		}
	}
}

func canonical(list []*models.Screenshot) map[models.ScreenshotKey]*models.Screenshot {
	out := make(map[models.ScreenshotKey]*models.Screenshot, len(list))
	for _, s := range list {
		out[s.Key()] = s
	}
	return out
}

func relink(list []*models.Screenshot, canon map[models.ScreenshotKey]*models.Screenshot) models.ScreenshotSet {
	out := make([]*models.Screenshot, 0, len(list))
	for _, s := range list {
		if c, ok := canon[s.Key()]; ok {
			out = append(out, c)
			continue
		}
		out = append(out, s)
	}
	return models.NewScreenshotSet(out)
}
