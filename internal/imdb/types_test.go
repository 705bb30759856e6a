package imdb

import (
	"encoding/json"
	"testing"
)

func TestNumber_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "integer", in: `2020`, want: "2020"},
		{name: "float", in: `7.5`, want: "7.5"},
		{name: "whole float", in: `7.0`, want: "7"},
		{name: "numeric string", in: `"8.1"`, want: "8.1"},
		{name: "padded string", in: `" 1999 "`, want: "1999"},
		{name: "null", in: `null`, want: ""},
		{name: "non numeric string", in: `"N/A"`, want: ""},
		{name: "empty string", in: `""`, want: ""},
		{name: "NaN string", in: `"NaN"`, want: ""},
		{name: "infinity string", in: `"Infinity"`, want: ""},
		{name: "negative infinity string", in: `"-Inf"`, want: ""},
		{name: "explicit plus sign", in: `"+7"`, want: "7"},
		{name: "hex float", in: `"0x1p3"`, want: "8"},
		{name: "exponent", in: `1e3`, want: "1000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var n Number
			if err := json.Unmarshal([]byte(tt.in), &n); err != nil {
				t.Fatalf("unmarshal %s: %v", tt.in, err)
			}
			if got := n.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
			if string(n) != tt.want {
				t.Errorf("stored value = %q, want %q", string(n), tt.want)
			}
		})
	}
}

func TestNumber_NonFiniteRoundTrip(t *testing.T) {
	var rec struct {
		Year   Number `json:"startYear"`
		Rating Number `json:"averageRating"`
	}
	if err := json.Unmarshal([]byte(`{"startYear":"Infinity","averageRating":"NaN"}`), &rec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"startYear":null,"averageRating":null}` {
		t.Errorf("marshal = %s", data)
	}
}

func TestNumber_Float64RejectsNonFinite(t *testing.T) {
	for _, n := range []Number{"NaN", "Inf", "-Inf"} {
		if _, ok := n.Float64(); ok {
			t.Errorf("Float64(%q) reported a value", string(n))
		}
		if s := n.String(); s != "" {
			t.Errorf("String(%q) = %q, want empty", string(n), s)
		}
	}
}

func TestNumber_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		A Number `json:"a"`
		B Number `json:"b"`
	}{A: "7.5"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"a":7.5,"b":null}` {
		t.Errorf("marshal = %s", data)
	}
}

func TestCredit_DisplayName(t *testing.T) {
	if got := (Credit{Name: "A", FullName: "B"}).DisplayName(); got != "A" {
		t.Errorf("DisplayName = %q, want A", got)
	}
	if got := (Credit{FullName: "B"}).DisplayName(); got != "B" {
		t.Errorf("DisplayName = %q, want B", got)
	}
}
