package models

// Status identifies the terminal variant of a verification outcome.
type Status string

const (
	StatusSuccess                Status = "success"
	StatusInputError             Status = "input_error"
	StatusDobNotFound            Status = "dob_not_found"
	StatusDobAgeMismatch         Status = "dob_age_mismatch"
	StatusFaceMismatch           Status = "face_mismatch"
	StatusFaceVerificationFailed Status = "face_verification_failed"
)

// Outcome is the single terminal result of one verification call. Which
// fields are populated depends on Status; Age is nil whenever no accepted
// date format could be parsed.
type Outcome struct {
	Status  Status  `json:"status"`
	DOB     string  `json:"dob,omitempty"`
	Age     *int    `json:"age,omitempty"`
	IsAdult bool    `json:"is_adult,omitempty"`
	Score   float64 `json:"score,omitempty"`
	Reason  string  `json:"reason,omitempty"`
}

// Success builds the accepting outcome.
func Success(dob string, age int, isAdult bool, score float64) Outcome {
	return Outcome{
		Status:  StatusSuccess,
		DOB:     dob,
		Age:     &age,
		IsAdult: isAdult,
		Score:   score,
	}
}

// DobNotFound reports that OCR produced no date-shaped substring.
func DobNotFound() Outcome {
	return Outcome{Status: StatusDobNotFound, Reason: "DOB not found in document"}
}

// DobAgeMismatch reports a failed DOB/age cross-check. age is nil when the
// extracted date could not be interpreted under any accepted format.
func DobAgeMismatch(extractedDOB string, age *int) Outcome {
	return Outcome{Status: StatusDobAgeMismatch, DOB: extractedDOB, Age: age}
}

// FaceMismatch reports a similarity score below the configured threshold.
func FaceMismatch(score float64) Outcome {
	return Outcome{Status: StatusFaceMismatch, Score: score}
}

// FaceVerificationFailed reports a face-model fault with its underlying reason.
func FaceVerificationFailed(reason string) Outcome {
	return Outcome{Status: StatusFaceVerificationFailed, Reason: reason}
}

// InputError reports malformed or unreadable input.
func InputError(reason string) Outcome {
	return Outcome{Status: StatusInputError, Reason: reason}
}
