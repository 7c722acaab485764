package dob

import "testing"

func TestFindDOB(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "slash separated date",
			text: "Name: Asha Rao\nDOB: 23/11/1999\nGender: F",
			want: "23/11/1999",
		},
		{
			name: "dash separated date",
			text: "DOB: 23-11-1999",
			want: "23-11-1999",
		},
		{
			name: "first match wins",
			text: "Issued 01/01/2020 DOB 15/06/2006",
			want: "01/01/2020",
		},
		{
			name: "embedded in noisy OCR output",
			text: "xx%$ 0U7 Government of India\n  1 5 / 0 6  12/03/1988  ",
			want: "12/03/1988",
		},
		{
			name: "no date pattern",
			text: "no digits shaped like a date here 1234 56",
			want: "",
		},
		{
			name: "two-two-four shape required",
			text: "1/2/1999 and 001/02/19990",
			want: "",
		},
		{
			name: "empty text",
			text: "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FindDOB(tt.text); got != tt.want {
				t.Errorf("FindDOB(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestFindDOB_ReturnsMatchVerbatim(t *testing.T) {
	// Calendar-impossible dates still match; validation is the age
	// calculator's job.
	got := FindDOB("DOB 99/99/1999")
	if got != "99/99/1999" {
		t.Errorf("expected verbatim match, got %q", got)
	}
}
