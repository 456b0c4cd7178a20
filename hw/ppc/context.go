package ppc

// Context holds the guest-visible PowerPC register file of one thread. The
// machine executes 64-bit PowerPC but guest code runs in 32-bit mode, so
// consumers usually truncate the general-purpose registers.
type Context struct {
	R [32]uint64  // general purpose
	F [32]float64 // floating point

	LR  uint64
	CTR uint64
	CR  uint32
}
