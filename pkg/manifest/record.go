// Package manifest defines the entry record model and the ND-JSON
// wire format describing archive members.
package manifest

type Kind string

const (
	KindFile     Kind = "file"
	KindDir      Kind = "dir"
	KindSymlink  Kind = "symlink"
	KindHardlink Kind = "hardlink"
)

func (k Kind) valid() bool {
	switch k {
	case KindFile, KindDir, KindSymlink, KindHardlink:
		return true
	}
	return false
}

// Record is one manifest line: the full description of a single
// archive member. Parsing applies all defaults, so every field of a
// parsed record holds a concrete value.
type Record struct {
	Path string
	Kind Kind

	// Content holds inline payload for file records. A "base64:"
	// prefix marks base64-encoded bytes; anything else is literal.
	Content string

	// Source is an external path whose bytes become the payload,
	// read at write time. Mutually exclusive with Content.
	Source string

	// Target is the link destination for symlink and hardlink
	// records.
	Target string

	Mode  int64
	UID   int
	GID   int
	Uname string
	Gname string
	Mtime int64

	// Line is the manifest line the record was parsed from, or 0
	// for records produced from an archive.
	Line int
}

// Default permission bits applied when a record carries no mode.
const (
	DefaultFileMode    = 0644
	DefaultDirMode     = 0755
	DefaultSymlinkMode = 0777
)

func defaultMode(k Kind) int64 {
	switch k {
	case KindDir:
		return DefaultDirMode
	case KindSymlink:
		return DefaultSymlinkMode
	default:
		return DefaultFileMode
	}
}
