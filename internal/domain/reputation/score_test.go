package reputation

import "testing"

func TestScore(t *testing.T) {
	tests := []struct {
		name                string
		successes, defaults uint32
		want                uint8
	}{
		{"no history is neutral", 0, 0, 50},
		{"one repayment", 1, 0, 55},
		{"one default", 0, 1, 30},
		{"clamped high", 50, 0, 100},
		{"clamped low", 0, 10, 0},
		{"mixed", 4, 1, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.successes, tt.defaults); got != tt.want {
				t.Fatalf("Score(%d,%d) = %d, want %d", tt.successes, tt.defaults, got, tt.want)
			}
		})
	}
}

func TestScoreMonotone(t *testing.T) {
	for d := uint32(0); d < 8; d++ {
		for s := uint32(0); s < 30; s++ {
			if Score(s+1, d) < Score(s, d) {
				t.Fatalf("score fell on extra repayment at s=%d d=%d", s, d)
			}
			if Score(s, d+1) > Score(s, d) {
				t.Fatalf("score rose on extra default at s=%d d=%d", s, d)
			}
		}
	}
}

func TestRecordRepaymentAndDefault(t *testing.T) {
	r := New("ST1BORROWER")
	if r.Score != NeutralScore {
		t.Fatalf("initial score = %d", r.Score)
	}
	r.RecordRepayment(1_000_000)
	if r.SuccessfulRepayments != 1 || r.TotalBorrowed != 1_000_000 || r.Score != 55 {
		t.Fatalf("after repayment: %+v", r)
	}
	r.RecordDefault()
	if r.Defaults != 1 || r.Score != 35 {
		t.Fatalf("after default: %+v", r)
	}
}
