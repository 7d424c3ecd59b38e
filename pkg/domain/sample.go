package domain

import "fmt"

// Sample is a reference record shipped with the application so users can try
// a prediction without typing thirty values.
type Sample struct {
	// Name is the identifier used in URLs and flags ("benign", "malignant").
	Name string `json:"name"`
	// Values holds the record values in the order of Features().
	Values []float64 `json:"values"`
}

//nolint: gochecknoglobals
var (
	// BenignSample is a record of a benign mass.
	BenignSample = Sample{
		Name: "benign",
		Values: []float64{
			13.54, 14.36, 87.46, 566.3, 0.09779, 0.08129, 0.06664, 0.04781, 0.1885, 0.05766,
			0.2699, 0.7886, 2.058, 23.56, 0.008462, 0.0146, 0.02387, 0.01315, 0.0198, 0.0023,
			15.11, 19.26, 99.7, 711.2, 0.144, 0.1773, 0.239, 0.1288, 0.2977, 0.07259,
		},
	}

	// MalignantSample is a record of a malignant mass.
	MalignantSample = Sample{
		Name: "malignant",
		Values: []float64{
			17.99, 10.38, 122.8, 1001.0, 0.1184, 0.2776, 0.3001, 0.1471, 0.2419, 0.07871,
			1.095, 0.9053, 8.589, 153.4, 0.006399, 0.04904, 0.05373, 0.01587, 0.03003, 0.006193,
			25.38, 17.33, 184.6, 2019.0, 0.1622, 0.6656, 0.7119, 0.2654, 0.4601, 0.1189,
		},
	}
)

// Samples returns the built-in samples.
func Samples() []Sample {
	return []Sample{BenignSample, MalignantSample}
}

// SampleByName looks up a built-in sample.
func SampleByName(name string) (Sample, error) {
	for _, s := range Samples() {
		if s.Name == name {
			return s, nil
		}
	}

	return Sample{}, fmt.Errorf("unknown sample %q", name)
}

// Record returns the sample as a record over Features().
func (s Sample) Record() Record {
	r, _ := NewRecord(Features(), s.Values)

	return r
}
