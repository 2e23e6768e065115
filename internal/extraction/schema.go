package extraction

import (
	"loan-predictor/internal/common/validation"
)

// Instruction is sent ahead of the audio on every attempt.
const Instruction = `You will hear a short voice note in which someone describes themselves and a loan they want.

Extract these fields:
- annual_income: yearly gross income in euros. If a monthly figure is given, multiply it by 12.
- debt_to_income_ratio: a fraction, e.g. 0.15 for 15%.
- credit_score: the numeric credit score, e.g. 736.
- loan_amount: the requested amount in euros.
- interest_rate: a percentage number, e.g. 13.67 for "13.67%".
- name_surname: the applicant's full name, only if it is said explicitly.
- gender: "Male", "Female", "Other", or null.
- marital_status: "Single", "Married", "Divorced", "Separated", "Widowed", or null.
- education_level: "High School", "Bachelor's", "Master's", "PhD", "Other", or null.
- employment_status: "Employed", "Unemployed", "Self-employed", "Retired", "Student", "Other", or null.
- loan_purpose: "Debt consolidation", "Car", "Home", "Home improvement", "Education", "Medical", "Vacation", "Business", "Other", or null.
- grade_subgrade: a grade label such as "C3", "D3" or "F1".

Any field that is not mentioned must be null. Do not guess.
Respond with JSON only, matching the schema.`

type fieldSpec struct {
	name        string
	kind        string // NUMBER or STRING
	description string
}

var fields = []fieldSpec{
	{"annual_income", "NUMBER", "Yearly gross income in euros."},
	{"debt_to_income_ratio", "NUMBER", "Debt-to-income ratio as a fraction, e.g. 0.15."},
	{"credit_score", "NUMBER", "Credit score, e.g. 736."},
	{"loan_amount", "NUMBER", "Loan amount in euros."},
	{"interest_rate", "NUMBER", "Interest rate in percent, e.g. 13.67."},
	{"name_surname", "STRING", "Full name of the applicant."},
	{"gender", "STRING", "Male, Female, Other, or null."},
	{"marital_status", "STRING", "Single, Married, Divorced, Separated, Widowed, or null."},
	{"education_level", "STRING", "High School, Bachelor's, Master's, PhD, Other, or null."},
	{"employment_status", "STRING", "Employed, Unemployed, Self-employed, Retired, Student, Other, or null."},
	{"loan_purpose", "STRING", "Purpose of the loan, or null."},
	{"grade_subgrade", "STRING", "Grade/subgrade label like C3."},
}

// ResponseSchema is the generative API's output schema: every field typed
// and independently nullable.
func ResponseSchema() map[string]interface{} {
	props := make(map[string]interface{}, len(fields))
	for _, f := range fields {
		props[f.name] = map[string]interface{}{
			"type":        f.kind,
			"description": f.description,
			"nullable":    true,
		}
	}
	return map[string]interface{}{
		"type":       "OBJECT",
		"properties": props,
	}
}

// responseValidator checks the returned document: every field must be
// present, either null or of its declared type.
var responseValidator = validation.MustCompile(validationSchemaJSON())

func validationSchemaJSON() string {
	var props, required string
	for i, f := range fields {
		jsonType := "number"
		if f.kind == "STRING" {
			jsonType = "string"
		}
		sep := ""
		if i > 0 {
			sep = ","
		}
		props += sep + `"` + f.name + `":{"type":["` + jsonType + `","null"]}`
		required += sep + `"` + f.name + `"`
	}
	return `{"type":"object","properties":{` + props + `},"required":[` + required + `]}`
}
