package analyzer

// stopList is the fixed vocabulary of Rust primitives and prelude items a
// usage target can never meaningfully couple to (spec.md §4.2 filter (a)).
// It is a package-level constant table, never mutated at runtime, per
// spec.md §9's "no global state beyond configuration" rule.
var stopList = map[string]bool{
	// Primitives.
	"bool": true, "char": true, "str": true,
	"i8": true, "i16": true, "i32": true, "i64": true, "i128": true, "isize": true,
	"u8": true, "u16": true, "u32": true, "u64": true, "u128": true, "usize": true,
	"f32": true, "f64": true,

	// Prelude types and traits.
	"String": true, "Vec": true, "Box": true, "Option": true, "Result": true,
	"Some": true, "None": true, "Ok": true, "Err": true,
	"Rc": true, "Arc": true, "RefCell": true, "Cell": true, "Cow": true,
	"HashMap": true, "HashSet": true, "BTreeMap": true, "BTreeSet": true,
	"VecDeque": true, "Iterator": true, "IntoIterator": true,
	"Clone": true, "Copy": true, "Debug": true, "Default": true, "Display": true,
	"Drop": true, "Eq": true, "PartialEq": true, "Ord": true, "PartialOrd": true,
	"Hash": true, "Send": true, "Sync": true, "Sized": true,
	"From": true, "Into": true, "TryFrom": true, "TryInto": true,
	"AsRef": true, "AsMut": true, "Deref": true, "DerefMut": true,
	"ToString": true, "ToOwned": true,
}

// isStopListed reports whether name is recognized primitive/prelude
// vocabulary (spec.md §4.2 filter (a)). Matching is on the path's last
// segment, since stop-listed names are never namespaced by the project.
func isStopListed(name string) bool {
	return stopList[lastSegment(name)]
}

// lastSegment returns the final "::"-delimited segment of a textual path.
func lastSegment(path string) string {
	idx := -1
	for i := 0; i+1 < len(path); i++ {
		if path[i] == ':' && path[i+1] == ':' {
			idx = i + 2
			i++
		}
	}
	if idx < 0 {
		return path
	}
	return path[idx:]
}
