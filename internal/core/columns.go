package core

// DefaultAllowedColumns is the data header allow-list used when neither the
// configuration nor the schema provides one.
var DefaultAllowedColumns = []string{
	"Lane",
	"Sample_ID",
	"Sample_Name",
	"Sample_Plate",
	"Sample_Well",
	"I7_Index_ID",
	"index",
	"I5_Index_ID",
	"index2",
	"Sample_Project",
	"Description",
}

// ValidateColumns reports every header column not in allowed, in header order.
func ValidateColumns(header []string, allowed []string) []ValidationError {
	set := make(map[string]struct{}, len(allowed))
	for _, c := range allowed {
		set[c] = struct{}{}
	}

	var errs []ValidationError
	for _, col := range header {
		if _, ok := set[col]; !ok {
			errs = append(errs, Raw(KindColumn, "Header %s is not supported. Validation incomplete.", col))
		}
	}
	return errs
}
