package project

// DistanceTable returns the damage delivered at each distance 0..maxRange
// from a blast of radius.
//
// Entries beyond radius are 0. With no source diameter an entry is
// (base+i)/(i+1); otherwise sd*base/((i+1)*10). Every entry is capped at
// base, and a negative base is treated as 0.
//
// Postcondition: len == maxRange+1; entries are non-increasing; [0] == base
// when radius >= 0.
func DistanceTable(base, radius, sourceDiameter, maxRange int) []int {
	maxRange = max(maxRange, 0)
	base = max(base, 0)
	table := make([]int, maxRange+1)
	for i := 0; i <= maxRange && i <= radius; i++ {
		var d int
		if i == 0 || sourceDiameter <= 0 {
			d = (base + i) / (i + 1)
		} else {
			d = sourceDiameter * base / ((i + 1) * 10)
		}
		table[i] = min(d, base)
	}
	return table
}
