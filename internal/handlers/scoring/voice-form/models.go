// internal/handlers/scoring/voice-form/models.go
package voiceform

import "loan-predictor/internal/extraction"

const FormField = "audio"

// Output carries every extracted field, null when not heard.
type Output = extraction.Extraction
