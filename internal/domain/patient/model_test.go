package patient

import "testing"

func TestBirthday(t *testing.T) {
	p := &Patient{BirthDay: "12", BirthMonth: "04", BirthYear: "1957"}
	if got := p.Birthday(); got != "12/04/1957" {
		t.Errorf("expected 12/04/1957, got %q", got)
	}

	// Stored as submitted, no padding or validity checks.
	p = &Patient{BirthDay: "3", BirthMonth: "13", BirthYear: "57"}
	if got := p.Birthday(); got != "3/13/57" {
		t.Errorf("expected 3/13/57, got %q", got)
	}
}

func TestToView_IncludesBirthday(t *testing.T) {
	p := &Patient{BirthDay: "12", BirthMonth: "04", BirthYear: "1957"}
	view := p.ToView()
	if view["birthday"] != "12/04/1957" {
		t.Errorf("expected birthday in view, got %v", view["birthday"])
	}
}
