package parsing

// Optional holds a value that a field rule may or may not have produced.
type Optional[T any] struct {
	value T
	ok    bool
}

// Some wraps a present value.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, ok: true}
}

// None returns an empty Optional.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Get returns the value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.ok
}

// OrDefault returns the value, or def when absent.
func (o Optional[T]) OrDefault(def T) T {
	if !o.ok {
		return def
	}
	return o.value
}
