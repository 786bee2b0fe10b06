package spark

// Presence is the per-key bit flag recorded by validation.
type Presence uint8

const (
	PresenceSeen           Presence = 1 << iota // Key appeared in the input.
	PresenceWasNull                             // Supplied value was nil.
	PresenceDefaultApplied                      // Default value was applied.
)

// Supplied reports whether the key was given explicitly.
func (p Presence) Supplied() bool { return p&PresenceSeen != 0 }

// Defaulted reports whether the value came from the schema default.
func (p Presence) Defaulted() bool { return p&PresenceDefaultApplied != 0 && p&PresenceSeen == 0 }

// Filled reports whether the slot holds a value, supplied or defaulted.
func (p Presence) Filled() bool { return p&(PresenceSeen|PresenceDefaultApplied) != 0 }

func presenceOf(value any) Presence {
	if value == nil {
		return PresenceSeen | PresenceWasNull
	}
	return PresenceSeen
}
