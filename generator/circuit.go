package generator

import "fmt"

// CircuitGate describes one gate layer of the simulated circuit.
type CircuitGate struct {
	Type    string `json:"type"`
	Qubits  []int  `json:"qubits"`
	Purpose string `json:"purpose"`
}

// CircuitMeasurements describes the measurement step of the simulated circuit.
type CircuitMeasurements struct {
	Qubits      []int  `json:"qubits"`
	Probability string `json:"probability"`
}

// CircuitInfo describes the quantum circuit the local generator simulates for
// a given bit width.
type CircuitInfo struct {
	CircuitType      string              `json:"circuit_type"`
	NumQubits        int                 `json:"num_qubits"`
	Gates            []CircuitGate       `json:"gates"`
	Measurements     CircuitMeasurements `json:"measurements"`
	OutputRange      string              `json:"output_range"`
	QuantumPrinciple string              `json:"quantum_principle"`
}

// GetCircuitInfo returns the circuit description for numBits qubits.
func GetCircuitInfo(numBits int) (*CircuitInfo, error) {
	if numBits < MinBits || numBits > MaxBits {
		return nil, fmt.Errorf("%w: bits must be %d..%d", ErrInvalidParams, MinBits, MaxBits)
	}

	qubits := make([]int, numBits)
	for i := range qubits {
		qubits[i] = i
	}

	return &CircuitInfo{
		CircuitType: "Quantum Random Number Generator",
		NumQubits:   numBits,
		Gates: []CircuitGate{{
			Type:    "Hadamard",
			Qubits:  qubits,
			Purpose: "Create superposition |+⟩ = (|0⟩ + |1⟩)/√2",
		}},
		Measurements: CircuitMeasurements{
			Qubits:      qubits,
			Probability: "50% for |0⟩, 50% for |1⟩ per qubit",
		},
		OutputRange:      fmt.Sprintf("0 to %d", (1<<uint(numBits))-1),
		QuantumPrinciple: "Fundamental randomness from quantum mechanics",
	}, nil
}
