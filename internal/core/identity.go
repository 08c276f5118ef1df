package core

// Identity resolution. Upstream ownership fields are untrusted: records
// arrive with absent, placeholder or mutually inconsistent owner names.
// The resolver picks one canonical identity for the viewing session and,
// in single-tenant mode, rewrites every record's ownership to it.

// IdentityMode selects how ownership fields are treated.
type IdentityMode string

const (
	// ModeSingleTenant forces every record onto the session's canonical
	// identity. This is the personal-deployment behavior: one real user,
	// many inconsistent owner spellings.
	ModeSingleTenant IdentityMode = "single-tenant"

	// ModePassthrough trusts each record's own owner fields and uses the
	// hero name only as the session's display-name fallback.
	ModePassthrough IdentityMode = "passthrough"
)

// MasterUserID is the identity id used in single-tenant mode when the
// session carries no id of its own.
const MasterUserID = "MASTER_USER_ID"

// HeroFallbackName is the last-resort display name.
const HeroFallbackName = "My Account"

// placeholderNames are owner names the upstream pipeline writes when it
// has no real one. They never win hero selection.
var placeholderNames = map[string]struct{}{
	"Unknown":      {},
	"Unknown Name": {},
	"Unknown_User": {},
	"Admin User":   {},
	"My Account":   {},
}

// IsPlaceholderName reports whether name is one of the known
// pipeline placeholders (or empty).
func IsPlaceholderName(name string) bool {
	if name == "" {
		return true
	}
	_, ok := placeholderNames[name]
	return ok
}

// Resolver maps raw ownership fields onto a canonical identity.
type Resolver struct {
	Mode IdentityMode
}

// HeroName selects the display name for the session: the first real
// owner name found in the records, else the session's own name, else
// the fixed fallback.
func (rs Resolver) HeroName(records []Record, hint SessionHint) string {
	for _, r := range records {
		if !IsPlaceholderName(r.OwnerName) {
			return r.OwnerName
		}
	}
	if hint.UserName != "" && hint.UserName != "Unknown" {
		return hint.UserName
	}
	return HeroFallbackName
}

// Resolve returns the canonical session identity and the record set
// with ownership resolved for aggregation. The input slice is never
// modified; single-tenant mode returns rewritten copies.
func (rs Resolver) Resolve(records []Record, hint SessionHint) (Identity, []Record) {
	hero := rs.HeroName(records, hint)
	id := hint.CanonicalID()
	if id == "" {
		id = MasterUserID
	}
	ident := Identity{ID: id, DisplayName: hero}

	if rs.Mode == ModePassthrough {
		out := make([]Record, len(records))
		copy(out, records)
		for i := range out {
			// Display fallback only: fill gaps, never override a
			// record's real owner.
			if out[i].OwnerID == "" {
				out[i].OwnerID = ident.ID
			}
			if IsPlaceholderName(out[i].OwnerName) {
				out[i].OwnerName = ident.DisplayName
			}
		}
		return ident, out
	}

	out := make([]Record, len(records))
	copy(out, records)
	for i := range out {
		out[i].OwnerID = ident.ID
		out[i].OwnerName = ident.DisplayName
	}
	return ident, out
}
