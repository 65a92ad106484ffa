package lamp

// RotateDown circular right-rotates the 3-bit field by one position
// (bit0 wraps to bit2). A single lit lamp walks red -> amber -> green.
// Masks to 3 bits on both sides so high bits can never leak into the
// visible pattern.
func RotateDown(p Pattern) Pattern {
	p &= PatternMask
	return ((p >> 1) | (p << 2)) & PatternMask
}

// RotateUp circular left-rotates the 3-bit field by one position
// (bit2 wraps to bit0). A single lit lamp walks green -> amber -> red.
func RotateUp(p Pattern) Pattern {
	p &= PatternMask
	return ((p << 1) | (p >> 2)) & PatternMask
}

// FlashToggle complements the 3-bit field, alternating all lamps
// between on and off.
func FlashToggle(p Pattern) Pattern {
	return ^p & PatternMask
}

// RandomStep returns a random pattern different from p, uniformly
// chosen from the other seven. intn must behave like rand.Intn.
func RandomStep(p Pattern, intn func(int) int) Pattern {
	p &= PatternMask
	return (p + 1 + Pattern(intn(7))) & PatternMask
}
