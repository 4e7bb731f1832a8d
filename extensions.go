package problemdetails

// NoExtensions is the extension payload of a problem details object that
// carries no extension members. It encodes to an empty object and
// contributes nothing to the flattened representation.
type NoExtensions struct{}

// Map is a dynamic extension payload keyed by member name. Use it when the
// shape of the extension members is not known at compile time.
type Map map[string]any
