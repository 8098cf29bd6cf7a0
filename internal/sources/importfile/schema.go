package importfile

// Entry is a single bookmark in the import file.
type Entry struct {
	Title string `yaml:"title"`
	URL   string `yaml:"url"`
}

// OwnerBlock lists the bookmarks to import for one owner.
type OwnerBlock struct {
	Owner     string  `yaml:"owner"`
	Bookmarks []Entry `yaml:"bookmarks"`
}

// File is the root structure of the import YAML.
type File []OwnerBlock
