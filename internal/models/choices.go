// internal/models/choices.go
package models

// Known categorical values offered by the portal form. The model itself
// tolerates values outside these lists; only portal submissions are checked.
var (
	GenderChoices           = []string{"Female", "Male", "Other"}
	MaritalStatusChoices    = []string{"Single", "Married", "Divorced", "Separated", "Widowed"}
	EducationLevelChoices   = []string{"High School", "Bachelor's", "Master's", "PhD", "Other"}
	EmploymentStatusChoices = []string{"Employed", "Unemployed", "Self-employed", "Retired", "Student", "Other"}
	LoanPurposeChoices      = []string{
		"Other", "Debt consolidation", "Home", "Home improvement",
		"Education", "Vacation", "Car", "Medical", "Business",
	}
)

// GradeSubgradeChoices lists A1 through F5.
func GradeSubgradeChoices() []string {
	out := make([]string, 0, 30)
	for _, letter := range "ABCDEF" {
		for digit := '1'; digit <= '5'; digit++ {
			out = append(out, string([]rune{letter, digit}))
		}
	}
	return out
}
