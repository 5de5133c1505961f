package metadata

// Equal reports whether two values are the same category.
//
// Missing values never compare equal, not even to each other. An int equals
// a float only when the float is integral and converts to exactly that int,
// matching Value.Key. Arrays compare element-wise.
func Equal(a, b Value) bool {
	if a.IsMissing() || b.IsMissing() {
		return false
	}

	if isNumber(a) && isNumber(b) {
		switch {
		case a.Kind == KindInt && b.Kind == KindInt:
			return a.I64 == b.I64
		case a.Kind == KindFloat && b.Kind == KindFloat:
			return a.F64 == b.F64
		case a.Kind == KindInt:
			return intEqualsFloat(a.I64, b.F64)
		default:
			return intEqualsFloat(b.I64, a.F64)
		}
	}

	if a.Kind != b.Kind {
		return false
	}

	switch a.Kind {
	case KindString:
		return a.s == b.s
	case KindBool:
		return a.B == b.B
	case KindArray:
		if len(a.A) != len(b.A) {
			return false
		}
		for i := range a.A {
			if !Equal(a.A[i], b.A[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Intersects reports whether two set-valued cells share at least one label.
func Intersects(a, b Value) bool {
	for _, x := range a.Labels() {
		for _, y := range b.Labels() {
			if Equal(x, y) {
				return true
			}
		}
	}
	return false
}

func isNumber(v Value) bool {
	return v.Kind == KindInt || v.Kind == KindFloat
}

func intEqualsFloat(i int64, f float64) bool {
	fi, ok := integral(f)
	return ok && fi == i
}
