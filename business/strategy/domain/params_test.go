package domain

import "testing"

func intPtr(v int) *int { return &v }

func TestParamsStoreDefaults(t *testing.T) {
	s := NewParamsStore()
	p := s.Get()

	if p.SpreadThresholdBps != DefaultSpreadThresholdBps {
		t.Errorf("SpreadThresholdBps = %d, want %d", p.SpreadThresholdBps, DefaultSpreadThresholdBps)
	}
	if p.MaxPositionPct != DefaultMaxPositionPct {
		t.Errorf("MaxPositionPct = %d, want %d", p.MaxPositionPct, DefaultMaxPositionPct)
	}
	if p.MaxSlippageBps != DefaultMaxSlippageBps {
		t.Errorf("MaxSlippageBps = %d, want %d", p.MaxSlippageBps, DefaultMaxSlippageBps)
	}
}

func TestParamsStoreClamping(t *testing.T) {
	tests := []struct {
		name   string
		update ParamsUpdate
		want   Params
	}{
		{
			name:   "threshold below range clamps up",
			update: ParamsUpdate{SpreadThresholdBps: intPtr(5)},
			want:   Params{SpreadThresholdBps: 10, MaxPositionPct: DefaultMaxPositionPct, MaxSlippageBps: DefaultMaxSlippageBps},
		},
		{
			name:   "threshold above range clamps down",
			update: ParamsUpdate{SpreadThresholdBps: intPtr(5000)},
			want:   Params{SpreadThresholdBps: 2000, MaxPositionPct: DefaultMaxPositionPct, MaxSlippageBps: DefaultMaxSlippageBps},
		},
		{
			name:   "position clamps to 1",
			update: ParamsUpdate{MaxPositionPct: intPtr(0)},
			want:   Params{SpreadThresholdBps: DefaultSpreadThresholdBps, MaxPositionPct: 1, MaxSlippageBps: DefaultMaxSlippageBps},
		},
		{
			name:   "slippage clamps to 1000",
			update: ParamsUpdate{MaxSlippageBps: intPtr(9999)},
			want:   Params{SpreadThresholdBps: DefaultSpreadThresholdBps, MaxPositionPct: DefaultMaxPositionPct, MaxSlippageBps: 1000},
		},
		{
			name:   "in-range values pass through",
			update: ParamsUpdate{SpreadThresholdBps: intPtr(250), MaxPositionPct: intPtr(50), MaxSlippageBps: intPtr(75)},
			want:   Params{SpreadThresholdBps: 250, MaxPositionPct: 50, MaxSlippageBps: 75},
		},
		{
			name:   "nil fields unchanged",
			update: ParamsUpdate{},
			want:   Params{SpreadThresholdBps: DefaultSpreadThresholdBps, MaxPositionPct: DefaultMaxPositionPct, MaxSlippageBps: DefaultMaxSlippageBps},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewParamsStore()
			got := s.Update(tt.update)
			if got != tt.want {
				t.Errorf("Update() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
