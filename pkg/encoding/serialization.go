package encoding

// Serializable is implemented by values that travel between processes, such
// as world snapshots. Deserialize must reject input it cannot trust.
type Serializable[T any] interface {
	Serialize() ([]byte, error)
	Deserialize([]byte) error
}
