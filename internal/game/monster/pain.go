package monster

import "fmt"

// painSets hold seven messages each, from barely hurt to nearly dead.
var painSets = [][7]string{
	{"shrugs off the attack.", "grunts with pain.", "cries out in pain.", "screams in pain.", "screams in agony.", "writhes in agony.", "cries out feebly."},
	{"barely notices.", "flinches.", "squelches.", "quivers in pain.", "writhes about.", "writhes in agony.", "jerks limply."},
	{"shrugs off the attack.", "snarls with pain.", "yelps in pain.", "howls in pain.", "howls in agony.", "writhes in agony.", "yelps feebly."},
	{"ignores the pain.", "grunts with pain.", "squeals in pain.", "shrieks in pain.", "shrieks in agony.", "writhes in agony.", "cries out feebly."},
	{"shrugs off the attack.", "twitters.", "chirps in pain.", "squawks.", "chatters in pain.", "jitters.", "squeaks feebly."},
	{"ignores the attack.", "rattles.", "clatters.", "shakes.", "staggers.", "crumbles.", "collapses."},
	{"shrugs off the attack.", "hisses.", "rears up in anger.", "hisses furiously.", "roars in pain.", "writhes in agony.", "cries out feebly."},
}

// PainMessage describes a monster's reaction to dam damage that left it at
// hp. The message is keyed by the race's pain set and the fraction of the
// pre-hit hp that remains.
func PainMessage(m *Monster, dam int) string {
	set := 0
	if r := m.Race; r != nil && r.Pain >= 0 && r.Pain < len(painSets) {
		set = r.Pain
	}
	if dam <= 0 {
		return fmt.Sprintf("%s is unharmed.", TheName(m))
	}
	hp := max(m.HP, 0)
	pct := 100 * hp / (hp + dam)
	var i int
	switch {
	case pct > 95:
		i = 0
	case pct > 75:
		i = 1
	case pct > 50:
		i = 2
	case pct > 35:
		i = 3
	case pct > 20:
		i = 4
	case pct > 10:
		i = 5
	default:
		i = 6
	}
	return fmt.Sprintf("%s %s", TheName(m), painSets[set][i])
}

// TheName returns "The <name>" or the bare name for uniques.
func TheName(m *Monster) string {
	if m.Unique() {
		return m.Name()
	}
	return "The " + m.Name()
}
