// Package codec centralizes encoding of the durable store file and the wire
// protocol payloads.
//
// The store file is plain JSON so that existing files remain readable by hand
// and by older builds regardless of which implementation produced them.
// Codec selection only changes who does the (un)marshaling, never the bytes'
// meaning.
package codec

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "go-json":
		return GoJSON{}, true
	default:
		return nil, false
	}
}

// Default is the codec used when none is configured.
var Default Codec = GoJSON{}
