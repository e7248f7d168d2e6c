package table

// SetValue stores a named scalar. Values live in their own namespace,
// separate from entity names.
func (t *Table) SetValue(name string, v any) {
	t.a.values[name] = cloneValue(v)
	t.notify("setValue")
}

// Value returns a named scalar.
func (t *Table) Value(name string) (any, bool) {
	v, ok := t.a.values[name]
	return cloneValue(v), ok
}

// Int returns a named integer value, 0 if unset.
func (t *Table) Int(name string) int {
	v, ok := t.a.values[name]
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	default:
		Violate(ErrCodeTypeMismatch, name, "value is %T, not an integer", v)
		return 0
	}
}

// AddInt adds delta to a named integer value and returns the result.
func (t *Table) AddInt(name string, delta int) int {
	n := t.Int(name) + delta
	t.a.values[name] = n
	t.notify("addInt")
	return n
}
