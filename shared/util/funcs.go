package util

// Lerp realiza interpolação linear entre dois floats.
func Lerp(start, end, amount float32) float32 {
	return start + amount*(end-start)
}

// NextPowerOfTwo retorna a menor potência de dois >= x (mínimo 1).
func NextPowerOfTwo(x uint32) uint32 {
	res := uint32(1)
	for res < x {
		res <<= 1
	}
	return res
}
