package model

// BankBaseSize is the display size every bank starts with; the tracker
// rescales it from aggregate deposits each tick.
const BankBaseSize = 1.0

// Bank tracks the deposits of its linked households as reserves.
type Bank struct {
	ID              int
	Reserves        float64
	InitialReserves float64 // snapshot taken once right after setup
	DisplaySize     float64
}

// HealthRatio reports current reserves against the post-setup baseline.
// Banks with a zero baseline, and absent banks, read as fully healthy.
func (b *Bank) HealthRatio() float64 {
	if b == nil || b.InitialReserves == 0 {
		return 1
	}
	return b.Reserves / b.InitialReserves
}
