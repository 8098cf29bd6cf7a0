package importfile

import "testing"

func TestMap(t *testing.T) {
	file := File{
		{Owner: "alice", Bookmarks: []Entry{
			{Title: "Go", URL: "go.dev"},
			{Title: "Go again", URL: "https://go.dev"},
			{Title: "", URL: "example.com"},
			{Title: "Broken", URL: "not a url"},
		}},
		{Owner: " ", Bookmarks: []Entry{{Title: "Orphan", URL: "orphan.dev"}}},
		{Owner: "bob", Bookmarks: []Entry{{Title: "Redis", URL: "redis.io"}}},
	}

	drafts, skipped := Map(file)

	if len(drafts["alice"]) != 1 {
		t.Fatalf("alice drafts = %+v, want 1", drafts["alice"])
	}
	if got := drafts["alice"][0]; got.URL != "https://go.dev" || got.Title != "Go" || got.OwnerID != "alice" {
		t.Errorf("alice draft = %+v", got)
	}
	if len(drafts["bob"]) != 1 || drafts["bob"][0].URL != "https://redis.io" {
		t.Errorf("bob drafts = %+v, want https://redis.io", drafts["bob"])
	}

	if len(skipped) != 3 {
		t.Fatalf("skipped = %+v, want 3 entries", skipped)
	}
	reasons := map[string]string{}
	for _, s := range skipped {
		reasons[s.URL] = s.Reason
	}
	if reasons["example.com"] != "Both URL and title are required." {
		t.Errorf("empty title reason = %q", reasons["example.com"])
	}
	if reasons["not a url"] != "Please enter a valid URL." {
		t.Errorf("invalid url reason = %q", reasons["not a url"])
	}
	if reasons["orphan.dev"] != "missing owner" {
		t.Errorf("missing owner reason = %q", reasons["orphan.dev"])
	}
}
