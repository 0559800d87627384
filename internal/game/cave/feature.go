package cave

// FeatureID indexes the feature table. Ids are stable for the lifetime of the
// process; squares store ids rather than pointers into the table.
type FeatureID int

// Feature ids.
const (
	FeatNone FeatureID = iota
	FeatFloor
	FeatClosedDoor
	FeatLockedDoor
	FeatOpenDoor
	FeatBrokenDoor
	FeatSecretDoor
	FeatRubble
	FeatPassRubble
	FeatMagma
	FeatQuartz
	FeatGranite
	FeatPermanent
	FeatTrap
	FeatLava
	FeatShallowWater
	FeatDeepWater
	FeatIce
	FeatTree
	FeatCharredTree
	featCount
)

// FeatureFlag is a bitset of terrain properties.
type FeatureFlag uint32

// Terrain properties.
const (
	Passable FeatureFlag = 1 << iota
	Projectable
	Wall
	Door
	Rubble
	Permanent
	Trap
	Flammable
	Water
	Lava
	Frozen
	Cover
	Locked
	Mineral
)

// Feature is one row of the terrain table.
type Feature struct {
	ID    FeatureID
	Name  string
	Glyph rune
	Flags FeatureFlag
	// CoverChance is the percent chance an occupant dodges an incoming
	// projection entirely.
	CoverChance int
}

// Has reports whether every bit of flag is set.
func (f *Feature) Has(flag FeatureFlag) bool { return f.Flags&flag == flag }

var features = [featCount]Feature{
	FeatNone:         {FeatNone, "nothing", ' ', Permanent | Wall, 0},
	FeatFloor:        {FeatFloor, "open floor", '.', Passable | Projectable, 0},
	FeatClosedDoor:   {FeatClosedDoor, "closed door", '+', Door, 0},
	FeatLockedDoor:   {FeatLockedDoor, "locked door", 'L', Door | Locked, 0},
	FeatOpenDoor:     {FeatOpenDoor, "open door", '\'', Passable | Projectable | Door, 0},
	FeatBrokenDoor:   {FeatBrokenDoor, "broken door", '/', Passable | Projectable | Door, 0},
	FeatSecretDoor:   {FeatSecretDoor, "secret door", 'S', Wall | Door, 0},
	FeatRubble:       {FeatRubble, "pile of rubble", ':', Rubble, 0},
	FeatPassRubble:   {FeatPassRubble, "pile of passable rubble", ';', Passable | Projectable | Rubble | Cover, 50},
	FeatMagma:        {FeatMagma, "magma vein", '%', Wall | Mineral, 0},
	FeatQuartz:       {FeatQuartz, "quartz vein", '*', Wall | Mineral, 0},
	FeatGranite:      {FeatGranite, "granite wall", '#', Wall, 0},
	FeatPermanent:    {FeatPermanent, "permanent wall", 'X', Wall | Permanent, 0},
	FeatTrap:         {FeatTrap, "trap", '^', Passable | Projectable | Trap, 0},
	FeatLava:         {FeatLava, "lava", 'v', Passable | Projectable | Lava, 0},
	FeatShallowWater: {FeatShallowWater, "shallow water", '~', Passable | Projectable | Water, 0},
	FeatDeepWater:    {FeatDeepWater, "deep water", '=', Passable | Projectable | Water, 0},
	FeatIce:          {FeatIce, "sheet of ice", '_', Passable | Projectable | Frozen, 0},
	FeatTree:         {FeatTree, "tree", '&', Passable | Projectable | Flammable | Cover, 33},
	FeatCharredTree:  {FeatCharredTree, "charred stump", ',', Passable | Projectable, 0},
}

// Lookup returns the feature for id. Out-of-range ids map to FeatNone.
func Lookup(id FeatureID) *Feature {
	if id < 0 || id >= featCount {
		return &features[FeatNone]
	}
	return &features[id]
}

// FeatureByGlyph returns the first feature drawn with glyph.
//
// Postcondition: returns (id, true) if found, or (FeatNone, false).
func FeatureByGlyph(glyph rune) (FeatureID, bool) {
	for i := range features {
		if features[i].Glyph == glyph && FeatureID(i) != FeatNone {
			return FeatureID(i), true
		}
	}
	return FeatNone, false
}

// FeatureCount is the number of defined features.
func FeatureCount() int { return int(featCount) }
