package mlmodel

import (
	"errors"
	"fmt"
)

// ErrUnknownCategory is returned when a label was not part of the training
// vocabulary. The classifier cannot be fed an arbitrary code, so this is a
// hard error rather than a fallback.
var ErrUnknownCategory = errors.New("unknown categorical value")

// LabelEncoder maps categorical labels to the integer codes the classifier
// was trained on. Codes are positions in the ordered class list.
type LabelEncoder struct {
	classes []string
	index   map[string]int
}

func NewLabelEncoder(classes []string) *LabelEncoder {
	idx := make(map[string]int, len(classes))
	for i, c := range classes {
		idx[c] = i
	}
	return &LabelEncoder{classes: classes, index: idx}
}

// Transform returns the code for label.
func (e *LabelEncoder) Transform(label string) (int, error) {
	code, ok := e.index[label]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, label)
	}
	return code, nil
}

// Classes returns the encoder vocabulary in code order.
func (e *LabelEncoder) Classes() []string {
	return e.classes
}
