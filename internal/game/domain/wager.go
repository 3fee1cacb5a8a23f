package domain

// WagerMap mapeia outcome id -> valor apostado (tokens)
type WagerMap map[string]int64

// TotalStake soma todas as apostas. Única implementação usada por ledger,
// engine, views HTTP e persistência.
func TotalStake(w WagerMap) int64 {
	var total int64
	for _, v := range w {
		total += v
	}
	return total
}

// Clone devolve uma cópia independente (nunca nil)
func (w WagerMap) Clone() WagerMap {
	out := make(WagerMap, len(w))
	for k, v := range w {
		out[k] = v
	}
	return out
}
