package monster

// Lore is what the player has learned about one race.
type Lore struct {
	RaceID    string
	Sightings int
	// Kills counts deaths of this race witnessed or caused by the player.
	Kills int
	// Known holds the race flags the player has observed.
	Known RaceFlags
}

// LoreBook is the player's monster memory.
// It is not safe for concurrent use; the caller must serialise access.
type LoreBook struct {
	entries map[string]*Lore
}

// NewLoreBook creates an empty LoreBook.
func NewLoreBook() *LoreBook {
	return &LoreBook{entries: make(map[string]*Lore)}
}

// Entry returns the lore for raceID, creating it on first use.
//
// Postcondition: Returns a non-nil *Lore.
func (b *LoreBook) Entry(raceID string) *Lore {
	l, ok := b.entries[raceID]
	if !ok {
		l = &Lore{RaceID: raceID}
		b.entries[raceID] = l
	}
	return l
}

// Learn records flags as known and reports whether any were new.
func (b *LoreBook) Learn(raceID string, flags RaceFlags) bool {
	l := b.Entry(raceID)
	if l.Known.Has(flags) {
		return false
	}
	l.Known |= flags
	return true
}

// RecordSighting counts one sighting of raceID.
func (b *LoreBook) RecordSighting(raceID string) { b.Entry(raceID).Sightings++ }

// RecordKill counts one death of raceID.
func (b *LoreBook) RecordKill(raceID string) { b.Entry(raceID).Kills++ }
