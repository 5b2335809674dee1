package validator

// Tristate is a criterion outcome that may be undetermined.
type Tristate int8

const (
	Undetermined Tristate = iota
	False
	True
)

// FromBool converts a definite boolean outcome.
func FromBool(b bool) Tristate {
	if b {
		return True
	}
	return False
}

// Bool folds the outcome to a boolean; Undetermined counts as false.
func (t Tristate) Bool() bool {
	return t == True
}

// String returns "true", "false" or "undetermined".
func (t Tristate) String() string {
	switch t {
	case True:
		return "true"
	case False:
		return "false"
	default:
		return "undetermined"
	}
}

// MarshalJSON encodes Undetermined as null.
func (t Tristate) MarshalJSON() ([]byte, error) {
	switch t {
	case True:
		return []byte("true"), nil
	case False:
		return []byte("false"), nil
	default:
		return []byte("null"), nil
	}
}
