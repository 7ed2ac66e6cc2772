package phone

import (
	"errors"
	"testing"
)

func TestNormalize_TableDriven(t *testing.T) {
	t.Parallel()

	type tc struct {
		name    string
		in      string
		want    string
		wantErr bool
	}

	tests := []tc{
		{name: "international_spaced", in: "+235 90 00 00 00", want: "+23590000000"},
		{name: "international_compact", in: "+23566123456", want: "+23566123456"},
		{name: "double_zero_prefix", in: "0023577001122", want: "+23577001122"},
		{name: "bare_country_code", in: "23590123456", want: "+23590123456"},
		{name: "local_eight_digits", in: "90 12 34 56", want: "+23590123456"},
		{name: "dots_and_dashes", in: "66.12-34.56", want: "+23566123456"},
		{name: "empty", in: "", wantErr: true},
		{name: "too_short", in: "9012345", wantErr: true},
		{name: "too_long", in: "901234567", wantErr: true},
		{name: "bad_operator_prefix", in: "50123456", wantErr: true},
		{name: "letters", in: "+235 90 ab 00 00", wantErr: true},
		{name: "wrong_country", in: "+237 90 12 34 56", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Normalize(tt.in)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}

				if !errors.Is(err, ErrInvalidNumber) {
					t.Fatalf("expected ErrInvalidNumber, got %v", err)
				}

				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got != tt.want {
				t.Fatalf("want %q, got %q", tt.want, got)
			}
		})
	}
}

func TestValid(t *testing.T) {
	t.Parallel()

	if !Valid("+235 90 00 00 00") {
		t.Fatalf("expected valid")
	}

	if Valid("not a number") {
		t.Fatalf("expected invalid")
	}
}
