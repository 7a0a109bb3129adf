package textutil

import "testing"

func TestToKebabCase(t *testing.T) {
	if got := ToKebabCase("HelloWorld123"); got != "hello-world123" {
		t.Errorf("got %q, want hello-world123", got)
	}
}

func TestToSnakeCase(t *testing.T) {
	if got := ToSnakeCase("helloWORLD123"); got != "hello_world123" {
		t.Errorf("got %q, want hello_world123", got)
	}
}

func TestIncrementDate_YearOverflowClampsFeb29(t *testing.T) {
	got, err := IncrementDate("2020-02-29", FieldYear, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got != "2021-03-01" {
		t.Errorf("got %q, want 2021-03-01", got)
	}
}

func TestIncrementDate_Day(t *testing.T) {
	got, err := IncrementDate("2024-01-31", FieldDay, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got != "2024-02-01" {
		t.Errorf("got %q, want 2024-02-01", got)
	}
}

func TestIncrementDate_MonthNegative(t *testing.T) {
	got, err := IncrementDate("2024-01-15", FieldMonth, -1)
	if err != nil {
		t.Fatal(err)
	}
	if got != "2023-12-15" {
		t.Errorf("got %q, want 2023-12-15", got)
	}
}

func TestFindDateAt(t *testing.T) {
	text := "see 2020-02-29 for details"
	start, end, ok := FindDateAt(text, 6)
	if !ok {
		t.Fatal("expected a date match")
	}
	if text[start:end] != "2020-02-29" {
		t.Errorf("got %q, want 2020-02-29", text[start:end])
	}
}

func TestFindDateAt_NoMatch(t *testing.T) {
	if _, _, ok := FindDateAt("no dates here", 3); ok {
		t.Error("expected no match")
	}
}
