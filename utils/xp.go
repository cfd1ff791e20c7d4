package utils

// Level curve: reaching level n+1 from level n costs 100*n XP, so the
// cumulative XP required for level n is 50*n*(n-1). Level 1 starts at 0.

// XPForLevel returns the cumulative XP needed to reach the given level.
func XPForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	return 50 * level * (level - 1)
}

// LevelForXP returns the level a user with the given cumulative XP holds.
func LevelForXP(xp int) int {
	if xp < 0 {
		return 1
	}
	level := 1
	for XPForLevel(level+1) <= xp {
		level++
	}
	return level
}

// ProgressInLevel returns XP earned within the current level and the XP span
// of that level, for rendering progress bars.
func ProgressInLevel(xp int) (earned, span int) {
	level := LevelForXP(xp)
	floor := XPForLevel(level)
	return xp - floor, XPForLevel(level+1) - floor
}
