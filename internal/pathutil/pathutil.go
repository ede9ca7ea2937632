// Package pathutil derives output filenames from input paths.
package pathutil

import "strings"

// DefaultSuffix is appended to the base name of optimized outputs.
const DefaultSuffix = "_optimized"

// SplitName splits name into everything before the final extension and the
// extension itself (without the dot). Only the last path segment is
// considered, so dots in directory names are never treated as extensions.
//
//	SplitName("movie.mkv")         // "movie", "mkv"
//	SplitName("my.show.s01.mp4")   // "my.show.s01", "mp4"
//	SplitName("dir.v2/movie")      // "dir.v2/movie", ""
//	SplitName(".hidden")           // ".hidden", ""
//	SplitName("")                  // "", ""
func SplitName(name string) (base, ext string) {
	seg := strings.LastIndexAny(name, `/\`) + 1
	last := name[seg:]

	dot := strings.LastIndex(last, ".")
	if dot <= 0 {
		return name, ""
	}
	return name[:seg+dot], last[dot+1:]
}

// Extension returns the lower-cased extension of name, or "".
func Extension(name string) string {
	_, ext := SplitName(name)
	return strings.ToLower(ext)
}

// OutputName derives the output path for input: base + suffix + "." + container.
// An empty base becomes "output" and an empty suffix uses DefaultSuffix.
func OutputName(input, suffix, container string) string {
	base, _ := SplitName(input)
	if suffix == "" {
		suffix = DefaultSuffix
	}
	if base == "" || strings.HasSuffix(base, "/") || strings.HasSuffix(base, `\`) {
		base += "output"
	}
	return base + suffix + "." + container
}
