// Package trace parses and replays allocation scripts against a buddy.Allocator.
//
// A script is one operation per line; blank lines and '#' comments are ignored:
//
//	# two buddies, freed high then low
//	alloc a 100 8
//	alloc b 100       # align defaults to 1
//	free b
//	free a
//
// Sizes and alignments accept any strconv base prefix (0x400, 0o10, 1024).
//
// Replay refuses scripts that would hand the allocator undefined behavior
// (freeing an unknown name, freeing twice, reusing a live name) before the
// allocator sees the bad call. A free of a name whose allocation failed is
// skipped, since generated scripts cannot know which requests will fail.
package trace
