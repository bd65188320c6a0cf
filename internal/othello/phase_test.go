package othello

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPhaseForDiscs(t *testing.T) {
	tests := []struct {
		discs int
		phase GamePhase
	}{
		{4, PhaseEarly},
		{19, PhaseEarly},
		{20, PhaseMid},
		{45, PhaseMid},
		{46, PhaseLate},
		{64, PhaseLate},
	}

	for _, tt := range tests {
		require.Equal(t, tt.phase, PhaseForDiscs(tt.discs), "discs %d", tt.discs)
	}
}

func TestPhaseJSON(t *testing.T) {
	for _, phase := range []GamePhase{PhaseEarly, PhaseMid, PhaseLate} {
		bytes, err := json.Marshal(phase)
		require.NoError(t, err)
		require.Equal(t, `"`+phase.String()+`"`, string(bytes))

		var decoded GamePhase
		require.NoError(t, json.Unmarshal(bytes, &decoded))
		require.Equal(t, phase, decoded)
	}

	var decoded GamePhase
	require.Error(t, json.Unmarshal([]byte(`"opening"`), &decoded))
}
