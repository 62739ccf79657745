package config

// DatasetProfile holds dataset-specific settings for a single input file.
// This allows customizing how individual files are loaded and analyzed
// without repeating flags on every run.
type DatasetProfile struct {
	// Separator overrides the field delimiter for this file.
	Separator string `yaml:"separator,omitempty"`

	// Encoding overrides the character encoding for this file.
	Encoding string `yaml:"encoding,omitempty"`

	// Multiplier overrides the IQR multiplier for this file.
	// A nil value means the global multiplier applies; zero is a valid
	// override and therefore needs the pointer.
	Multiplier *float64 `yaml:"multiplier,omitempty"`

	// NAValues overrides the set of cell contents treated as missing.
	NAValues []string `yaml:"naValues,omitempty"`

	// IncludeColumns restricts analysis to the named columns.
	// When empty, all numeric columns are analyzed.
	IncludeColumns []string `yaml:"includeColumns,omitempty"`

	// ExcludeColumns removes the named columns from analysis.
	// Applied after IncludeColumns.
	ExcludeColumns []string `yaml:"excludeColumns,omitempty"`
}

// File represents the structure of the .outlierscan profile file.
type File struct {
	// Datasets maps input file paths to their dataset-specific settings.
	// Keys are matched against the path exactly as given on the command
	// line and against its base name.
	Datasets map[string]DatasetProfile `yaml:"datasets,omitempty"`

	// Defaults contains settings applied to every dataset unless
	// overridden in the dataset-specific profile.
	Defaults DatasetProfile `yaml:"defaults,omitempty"`
}

// ProfileFor returns the merged profile for the given input path.
// Dataset-specific values override defaults field by field.
func (f *File) ProfileFor(path, base string) DatasetProfile {
	result := f.Defaults

	p, ok := f.Datasets[path]
	if !ok {
		p, ok = f.Datasets[base]
	}
	if !ok {
		return result
	}

	if p.Separator != "" {
		result.Separator = p.Separator
	}
	if p.Encoding != "" {
		result.Encoding = p.Encoding
	}
	if p.Multiplier != nil {
		result.Multiplier = p.Multiplier
	}
	if len(p.NAValues) > 0 {
		result.NAValues = p.NAValues
	}
	if len(p.IncludeColumns) > 0 {
		result.IncludeColumns = p.IncludeColumns
	}
	if len(p.ExcludeColumns) > 0 {
		result.ExcludeColumns = p.ExcludeColumns
	}

	return result
}
