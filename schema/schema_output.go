package schema

// Coverage label values.
const (
	ExcellentValue  = "Excellent"
	GoodValue       = "Good"
	FairValue       = "Fair"
	PoorValue       = "Poor"
	UnmeasuredValue = "n/a"
)

// EnrichedFileResult adds presentation data to a FileResult.
type EnrichedFileResult struct {
	Rank  int    `json:"rank"`
	Label string `json:"label"`
	FileResult
}

// EnrichedPackageResult adds presentation data to a PackageResult.
type EnrichedPackageResult struct {
	Rank  int    `json:"rank"`
	Label string `json:"label"`
	PackageResult
}

// GetPlainLabel returns a plain text label for a coverage percentage
// between 0 and 100.
func GetPlainLabel(percent float64) string {
	switch {
	case percent >= 90:
		return ExcellentValue
	case percent >= 75:
		return GoodValue
	case percent >= 50:
		return FairValue
	default:
		return PoorValue
	}
}

// LabelFor returns the label of a percentage, or UnmeasuredValue when
// there was nothing to measure.
func LabelFor(percent float64, measured bool) string {
	if !measured {
		return UnmeasuredValue
	}
	return GetPlainLabel(percent)
}

// EnrichFiles adds rank and label to a list of file results.
func EnrichFiles(files []FileResult) []EnrichedFileResult {
	output := make([]EnrichedFileResult, len(files))
	for i, f := range files {
		output[i] = EnrichedFileResult{
			Rank:       i + 1,
			Label:      LabelFor(f.LinePercent, f.HasLines),
			FileResult: f,
		}
	}
	return output
}

// EnrichPackages adds rank and label to a list of package results.
func EnrichPackages(packages []PackageResult) []EnrichedPackageResult {
	output := make([]EnrichedPackageResult, len(packages))
	for i, p := range packages {
		output[i] = EnrichedPackageResult{
			Rank:          i + 1,
			Label:         LabelFor(p.LinePercent, p.HasLines),
			PackageResult: p,
		}
	}
	return output
}
