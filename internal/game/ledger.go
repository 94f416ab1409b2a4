package game

// Ledger tracks the player's energy pool.
type Ledger struct {
	Energy     int
	BaseEnergy int
}

// NewLedger returns a ledger filled to baseEnergy.
func NewLedger(baseEnergy int) *Ledger {
	return &Ledger{Energy: baseEnergy, BaseEnergy: baseEnergy}
}

// CanAfford reports whether the pool covers cost.
func (l *Ledger) CanAfford(cost int) bool {
	return l.Energy >= cost
}

// Spend deducts cost, clamping the pool at 0. Returns the remaining energy.
func (l *Ledger) Spend(cost int) int {
	if cost < 0 {
		cost = 0
	}
	l.Energy -= cost
	if l.Energy < 0 {
		l.Energy = 0
	}
	return l.Energy
}

// Reset refills the pool to BaseEnergy.
func (l *Ledger) Reset() {
	l.Energy = l.BaseEnergy
}
