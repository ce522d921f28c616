package country

import (
	"testing"

	"storefront/internal/localstate"
)

func TestParse(t *testing.T) {
	cases := map[string]Code{
		"nigeria": Nigeria,
		"Nigeria": Nigeria,
		"CANADA":  Canada,
		" canada ": Canada,
	}
	for input, want := range cases {
		got, err := Parse(input)
		if err != nil {
			t.Errorf("Parse(%q) returned error: %v", input, err)
			continue
		}
		if got != want {
			t.Errorf("Parse(%q) = %s, want %s", input, got, want)
		}
	}

	if _, err := Parse("mars"); err == nil {
		t.Error("Parse(mars) did not fail")
	}
	if _, err := Parse(""); err == nil {
		t.Error("Parse of empty string did not fail")
	}
}

func TestCurrencyPairing(t *testing.T) {
	if Nigeria.Currency() != NGN {
		t.Errorf("nigeria currency = %s, want NGN", Nigeria.Currency())
	}
	if Canada.Currency() != CAD {
		t.Errorf("canada currency = %s, want CAD", Canada.Currency())
	}
}

func TestSessionDefaultsToNigeria(t *testing.T) {
	session := NewSession(localstate.NewMemStore())
	if session.Active() != Nigeria {
		t.Errorf("active = %s, want nigeria", session.Active())
	}
}

func TestSessionPersistsAcrossRestarts(t *testing.T) {
	store := localstate.NewMemStore()

	session := NewSession(store)
	if err := session.SetActive(Canada); err != nil {
		t.Fatalf("SetActive: %v", err)
	}

	restored := NewSession(store)
	if restored.Active() != Canada {
		t.Errorf("restored active = %s, want canada", restored.Active())
	}
}

func TestSessionIgnoresCorruptPreference(t *testing.T) {
	store := localstate.NewMemStore()
	if err := store.Set(StateKey, []byte("atlantis")); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	session := NewSession(store)
	if session.Active() != Default {
		t.Errorf("active = %s, want the default after a corrupt preference", session.Active())
	}
}
