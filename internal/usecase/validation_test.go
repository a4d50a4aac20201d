package usecase

import "testing"

func TestValidateAmount(t *testing.T) {
	valid := []float64{0.01, 1, 19.99, 100000}
	for _, v := range valid {
		if !ValidateAmount(v) {
			t.Errorf("expected %v to be valid", v)
		}
	}
	invalid := []float64{0, -1, 1.001, 0.005}
	for _, v := range invalid {
		if ValidateAmount(v) {
			t.Errorf("expected %v to be invalid", v)
		}
	}
}

func TestNormalizeCurrency(t *testing.T) {
	cases := map[string]string{
		"":     DefaultCurrency,
		"USD":  "usd",
		" eur": "eur",
		"GBP ": "gbp",
		"us":   "",
		"usdd": "",
		"u5d":  "",
	}
	for in, want := range cases {
		if got := NormalizeCurrency(in); got != want {
			t.Errorf("NormalizeCurrency(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestValidateEmail(t *testing.T) {
	if !ValidateEmail("shopper@example.com") {
		t.Error("expected valid email to pass")
	}
	for _, bad := range []string{"", "plain", "a@b", "a b@c.com", "@example.com"} {
		if ValidateEmail(bad) {
			t.Errorf("expected %q to fail", bad)
		}
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Board Games":      "board-games",
		"  Home & Garden ": "home-garden",
		"Déjà Vu":          "déjà-vu",
		"a__b--c":          "a-b-c",
	}
	for in, want := range cases {
		if got := Slugify(in); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}
