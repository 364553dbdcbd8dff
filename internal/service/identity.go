package service

import (
	"strings"
)

// CanonicalCommentID canonicalizes a platform comment id into the
// "{postId}_{commentId}" key the store is unique on. Facebook sometimes
// delivers the id bare, sometimes already composite, and sometimes with
// a page id prepended; only the last two underscore-delimited segments
// identify the comment.
//
// The function is pure and deterministic; the reconciler depends on
// repeated calls with the same input producing the same key.
func CanonicalCommentID(postID, rawCommentID string) string {
	parts := strings.Split(rawCommentID, "_")
	switch {
	case len(parts) <= 1:
		return postID + "_" + rawCommentID
	case len(parts) == 2:
		return rawCommentID
	default:
		return parts[len(parts)-2] + "_" + parts[len(parts)-1]
	}
}
