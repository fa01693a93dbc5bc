package apidoc

// MapLinker resolves canonical names to URLs through a plain map.
// It satisfies the dot.Linker interface; names absent from the map
// resolve to "".
type MapLinker map[string]string

// URLFor returns the URL for name, or "" when the name has no known target.
func (m MapLinker) URLFor(name string) string { return m[name] }
