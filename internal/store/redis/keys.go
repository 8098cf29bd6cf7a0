package redis

const (
	// KeyPrefixBookmark is the prefix for bookmark record keys
	KeyPrefixBookmark = "marks:bookmark:"
	// KeyPrefixOwner is the prefix for per-owner index keys
	KeyPrefixOwner = "marks:owner:"
)

// BookmarkKey returns the Redis key holding the JSON record of a bookmark
func BookmarkKey(id string) string {
	return KeyPrefixBookmark + id
}

// OwnerKey returns the sorted set of an owner's bookmark ids, scored by creation time
func OwnerKey(ownerID string) string {
	return KeyPrefixOwner + ownerID + ":bookmarks"
}
