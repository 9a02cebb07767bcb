// Package voice loads the style tensor pack and resolves voice mix
// expressions into effective style tensors.
package voice

// Style tensor geometry, fixed by the acoustic model.
const (
	StyleRows = 510
	StyleDim  = 256
)

// TensorLen is the flat float count of one style tensor.
const TensorLen = StyleRows * StyleDim

// Style is a 510x1x256 style tensor stored row-major.
type Style struct {
	data []float32
}

// NewStyle wraps a flat row-major tensor. The slice is owned by the
// returned Style and must not be mutated afterwards.
func NewStyle(data []float32) *Style {
	return &Style{data: data}
}

// Row returns the 256-float style row for a token sequence of length n.
// Row n-1 is the model convention; out-of-range lengths clamp.
func (s *Style) Row(n int) []float32 {
	row := n - 1
	if row < 0 {
		row = 0
	} else if row >= StyleRows {
		row = StyleRows - 1
	}
	return s.data[row*StyleDim : (row+1)*StyleDim]
}

// Data exposes the flat tensor.
func (s *Style) Data() []float32 {
	return s.data
}

// Voice is one named entry of the pack. Immutable after load.
type Voice struct {
	ID       string
	Language string
	Gender   string
	Style    *Style
}
