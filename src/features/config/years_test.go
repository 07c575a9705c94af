package config

import "testing"

func TestParseYears_List(t *testing.T) {
	years, err := ParseYears("2025,2024,2024")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(years) != 2 || years[0] != 2024 || years[1] != 2025 {
		t.Errorf("expected [2024 2025], got %v", years)
	}
}

func TestParseYears_Range(t *testing.T) {
	years, err := ParseYears("2020-2023")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(years) != 4 || years[0] != 2020 || years[3] != 2023 {
		t.Errorf("expected [2020..2023], got %v", years)
	}
}

func TestParseYears_Invalid(t *testing.T) {
	cases := []string{"", "abc", "2025-2020", "1900", "2024,9999", "2020-2050"}
	for _, spec := range cases {
		if _, err := ParseYears(spec); err == nil {
			t.Errorf("expected error for %q", spec)
		}
	}
}

func TestYearSet(t *testing.T) {
	set := YearSet([]int{2024, 2025})
	if !set[2024] || !set[2025] || set[2023] {
		t.Errorf("unexpected set contents: %v", set)
	}
}
