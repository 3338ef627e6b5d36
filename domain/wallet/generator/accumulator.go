package generator

// accumulator folds the inputs of the transaction being built
type accumulator struct {
	utxos       []*UTXO
	value       uint64
	computeMass uint64
}

func newAccumulator(baseMass uint64) *accumulator {
	return &accumulator{computeMass: baseMass}
}

func (a *accumulator) add(utxo *UTXO, inputMass uint64) {
	a.utxos = append(a.utxos, utxo)
	a.value += utxo.amount()
	a.computeMass += inputMass
}

// originalUTXOCount is the number of accumulated UTXOs that came from the
// settings, as opposed to recycled batch outputs
func (a *accumulator) originalUTXOCount() int {
	count := 0
	for _, utxo := range a.utxos {
		if !utxo.recycled {
			count++
		}
	}
	return count
}
