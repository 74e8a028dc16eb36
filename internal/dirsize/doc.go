// Package dirsize computes the aggregate size of directory trees.
//
// Aggregate walks a tree recursively, fanning out one goroutine per
// directory entry and merging the results of nested subtrees on the way
// back up. Walk is an alternative engine built on fastwalk that trades the
// per-directory progress reports for raw traversal speed.
//
// Symbolic links are never followed: type and size always come from lstat.
package dirsize
