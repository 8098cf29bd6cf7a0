package importfile

import (
	"strings"

	"github.com/MrSnakeDoc/marks/internal/domain"
)

// Skipped describes an entry the mapper rejected.
type Skipped struct {
	Owner  string
	Title  string
	URL    string
	Reason string
}

// Map validates every entry with the same rules as interactive creates and
// groups the resulting drafts by owner, in file order. Blocks without an owner
// and entries that fail validation are reported in skipped. Duplicate URLs
// within one owner are kept once.
func Map(file File) (drafts map[string][]domain.Draft, skipped []Skipped) {
	drafts = make(map[string][]domain.Draft)
	seen := make(map[string]map[string]bool)

	for _, block := range file {
		owner := strings.TrimSpace(block.Owner)
		if owner == "" {
			for _, e := range block.Bookmarks {
				skipped = append(skipped, Skipped{Title: e.Title, URL: e.URL, Reason: "missing owner"})
			}
			continue
		}
		if seen[owner] == nil {
			seen[owner] = make(map[string]bool)
		}

		for _, e := range block.Bookmarks {
			draft, err := domain.NewDraft(owner, e.URL, e.Title)
			if err != nil {
				skipped = append(skipped, Skipped{
					Owner:  owner,
					Title:  e.Title,
					URL:    e.URL,
					Reason: domain.UserMessage(err),
				})
				continue
			}
			if seen[owner][draft.URL] {
				continue
			}
			seen[owner][draft.URL] = true
			drafts[owner] = append(drafts[owner], draft)
		}
	}

	return drafts, skipped
}
