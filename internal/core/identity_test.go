package core

import "testing"

func TestHeroNameSkipsPlaceholders(t *testing.T) {
	records := []Record{
		{ID: "a", OwnerName: "Unknown"},
		{ID: "b", OwnerName: "Jane Doe"},
		{ID: "c", OwnerName: "Unknown User"},
	}
	rs := Resolver{Mode: ModeSingleTenant}

	ident, out := rs.Resolve(records, SessionHint{})
	if ident.DisplayName != "Jane Doe" {
		t.Fatalf("hero name = %q, want Jane Doe", ident.DisplayName)
	}
	if ident.ID != MasterUserID {
		t.Fatalf("identity id = %q, want %q", ident.ID, MasterUserID)
	}
	for _, r := range out {
		if r.OwnerName != "Jane Doe" {
			t.Errorf("record %s owner = %q, want Jane Doe", r.ID, r.OwnerName)
		}
		if r.OwnerID != MasterUserID {
			t.Errorf("record %s owner id = %q, want %q", r.ID, r.OwnerID, MasterUserID)
		}
	}
}

func TestHeroNameFallbackChain(t *testing.T) {
	rs := Resolver{Mode: ModeSingleTenant}

	// No real name anywhere: fixed fallback.
	if got := rs.HeroName([]Record{{OwnerName: "Admin User"}}, SessionHint{}); got != HeroFallbackName {
		t.Errorf("hero = %q, want %q", got, HeroFallbackName)
	}
	// Session name wins over the fallback, unless it is "Unknown".
	if got := rs.HeroName(nil, SessionHint{UserName: "Mario Rossi"}); got != "Mario Rossi" {
		t.Errorf("hero = %q, want Mario Rossi", got)
	}
	if got := rs.HeroName(nil, SessionHint{UserName: "Unknown"}); got != HeroFallbackName {
		t.Errorf("hero = %q, want %q", got, HeroFallbackName)
	}
}

func TestResolveUsesSessionID(t *testing.T) {
	rs := Resolver{Mode: ModeSingleTenant}
	ident, _ := rs.Resolve(nil, SessionHint{UserID: "u-1", UserName: "Jane"})
	if ident.ID != "u-1" {
		t.Fatalf("identity id = %q, want u-1", ident.ID)
	}
}

func TestPassthroughKeepsRealOwners(t *testing.T) {
	records := []Record{
		{ID: "a", OwnerID: "u-1", OwnerName: "Jane Doe"},
		{ID: "b", OwnerName: "Unknown"},
	}
	rs := Resolver{Mode: ModePassthrough}
	_, out := rs.Resolve(records, SessionHint{UserID: "u-9", UserName: "Viewer"})

	if out[0].OwnerID != "u-1" || out[0].OwnerName != "Jane Doe" {
		t.Fatalf("passthrough rewrote a real owner: %+v", out[0])
	}
	if out[1].OwnerID != "u-9" {
		t.Errorf("missing owner id not filled: %+v", out[1])
	}
	if out[1].OwnerName == "Unknown" {
		t.Errorf("placeholder owner name not replaced: %+v", out[1])
	}
}

func TestResolveDoesNotMutateInput(t *testing.T) {
	records := []Record{{ID: "a", OwnerName: "Unknown"}}
	rs := Resolver{Mode: ModeSingleTenant}
	rs.Resolve(records, SessionHint{UserName: "Jane"})
	if records[0].OwnerName != "Unknown" {
		t.Fatal("input slice was mutated")
	}
}

func TestSessionHintFallbacks(t *testing.T) {
	cases := []struct {
		hint SessionHint
		name string
		id   string
	}{
		{SessionHint{UserID: "sub", UserName: "Jane", Email: "j@x.it"}, "Jane", "sub"},
		{SessionHint{Email: "j@x.it"}, "j@x.it", "j@x.it"},
		{SessionHint{}, "Employee", ""},
	}
	for _, tc := range cases {
		if got := tc.hint.DisplayName(); got != tc.name {
			t.Errorf("DisplayName(%+v) = %q, want %q", tc.hint, got, tc.name)
		}
		if got := tc.hint.CanonicalID(); got != tc.id {
			t.Errorf("CanonicalID(%+v) = %q, want %q", tc.hint, got, tc.id)
		}
	}
}
