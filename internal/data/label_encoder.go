package data

// LabelEncoder maps nominal strings to dense indices in order of first
// appearance, so the same file always yields the same domain.
type LabelEncoder struct {
	ClassToInt map[string]int
	IntToClass []string
	IsFitted   bool
}

func NewLabelEncoder() *LabelEncoder {
	return &LabelEncoder{
		ClassToInt: make(map[string]int),
		IsFitted:   false,
	}
}

func (le *LabelEncoder) Fit(labels []string) {
	le.ClassToInt = make(map[string]int)
	le.IntToClass = le.IntToClass[:0]

	for _, label := range labels {
		if _, ok := le.ClassToInt[label]; ok {
			continue
		}
		le.ClassToInt[label] = len(le.IntToClass)
		le.IntToClass = append(le.IntToClass, label)
	}

	le.IsFitted = true
}

func (le *LabelEncoder) Classes() []string {
	classes := make([]string, len(le.IntToClass))
	copy(classes, le.IntToClass)
	return classes
}
