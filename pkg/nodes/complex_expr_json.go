package nodes

import "encoding/json"

// MarshalJSON serializes the complex value as separate real/imaginary parts;
// complex128 has no native JSON form.
func (e *ComplexExpr) MarshalJSON() ([]byte, error) {
	if e == nil {
		return []byte("null"), nil
	}
	payload := struct {
		Type NodeType `json:"type"`
		Line int      `json:"line,omitempty"`
		Real float64  `json:"real"`
		Imag float64  `json:"imag"`
	}{
		Type: e.Type,
		Line: e.Ln,
		Real: real(e.Value),
		Imag: imag(e.Value),
	}
	return json.Marshal(payload)
}
