package dedup

import "testing"

func TestFingerprint_Deterministic(t *testing.T) {
	a := Fingerprint("Acme Corp", "Backend Intern", "https://acme.com/jobs/42")
	b := Fingerprint("Acme Corp", "Backend Intern", "https://acme.com/jobs/42")
	if a != b {
		t.Errorf("same inputs produced different fingerprints: %q vs %q", a, b)
	}
}

func TestFingerprint_NormalizesCaseAndWhitespace(t *testing.T) {
	a := Fingerprint("Acme  Corp", "Backend   Intern", "https://acme.com/jobs/42")
	b := Fingerprint("acme corp", "backend intern", "https://acme.com/jobs/42")
	if a != b {
		t.Errorf("normalization mismatch: %q vs %q", a, b)
	}
	want := "acme corp|backend intern|https://acme.com/jobs/42"
	if a != want {
		t.Errorf("Fingerprint = %q, want %q", a, want)
	}
}

func TestFingerprint_StripsQueryAndFragment(t *testing.T) {
	plain := Fingerprint("Acme", "Intern", "https://acme.com/jobs/42")
	tracked := Fingerprint("Acme", "Intern", "https://acme.com/jobs/42?utm_source=feed&ref=x#apply")
	if plain != tracked {
		t.Errorf("tracking params split one posting: %q vs %q", plain, tracked)
	}
}

func TestFingerprint_CanonicalizesHostAndTrailingSlash(t *testing.T) {
	a := Fingerprint("Acme", "Intern", "HTTPS://Acme.COM/jobs/42/")
	b := Fingerprint("Acme", "Intern", "https://acme.com/jobs/42")
	if a != b {
		t.Errorf("host/slash canonicalization mismatch: %q vs %q", a, b)
	}
}

func TestFingerprint_DifferentPostingsDiffer(t *testing.T) {
	a := Fingerprint("Acme", "Backend Intern", "https://acme.com/jobs/42")
	b := Fingerprint("Acme", "Frontend Intern", "https://acme.com/jobs/43")
	if a == b {
		t.Error("distinct postings collapsed to one fingerprint")
	}
}

func TestCanonicalURL_UnparsableFallsBackToLowercase(t *testing.T) {
	got := canonicalURL("HTTP://bad url with spaces")
	if got != "http://bad url with spaces" {
		t.Errorf("canonicalURL = %q", got)
	}
}
