package validators

import "testing"

func TestIsEmailShapeValid(t *testing.T) {
	valid := []string{
		"a@b.co",
		"ravi.kumar@example.com",
		"user+tag@sub.domain.in",
	}
	for _, e := range valid {
		if !IsEmailShapeValid(e) {
			t.Errorf("expected %q to be valid", e)
		}
	}

	invalid := []string{
		"",
		"plainaddress",
		"@missing-local.com",
		"no-at-sign.com",
		"trailing@dot",
		"spaces in@addr.com",
		"double@@at.com",
	}
	for _, e := range invalid {
		if IsEmailShapeValid(e) {
			t.Errorf("expected %q to be invalid", e)
		}
	}
}
