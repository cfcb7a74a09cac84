package errors

import (
	"math"
	"testing"
)

func TestValidateNodeCount(t *testing.T) {
	tests := []struct {
		n       int
		wantErr bool
	}{
		{-5, true},
		{0, true},
		{1, false},
		{2000, false},
		{MaxNodeCount, false},
		{MaxNodeCount + 1, true},
	}
	for _, tt := range tests {
		err := ValidateNodeCount(tt.n)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateNodeCount(%d) error = %v, wantErr %v", tt.n, err, tt.wantErr)
		}
		if err != nil && !Is(err, ErrCodeInvalidNodeCount) {
			t.Errorf("ValidateNodeCount(%d) code = %v", tt.n, GetCode(err))
		}
	}
}

func TestValidateProbability(t *testing.T) {
	tests := []struct {
		p       float64
		wantErr bool
	}{
		{0, false},
		{0.004, false},
		{1, false},
		{-0.1, true},
		{1.01, true},
		{math.NaN(), true},
	}
	for _, tt := range tests {
		if err := ValidateProbability(tt.p); (err != nil) != tt.wantErr {
			t.Errorf("ValidateProbability(%g) error = %v, wantErr %v", tt.p, err, tt.wantErr)
		}
	}
}

func TestValidateNode(t *testing.T) {
	tests := []struct {
		id, n   int
		wantErr bool
	}{
		{0, 5, false},
		{4, 5, false},
		{5, 5, true},
		{-1, 5, true},
		{0, 0, true},
	}
	for _, tt := range tests {
		err := ValidateNode(tt.id, tt.n)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateNode(%d, %d) error = %v, wantErr %v", tt.id, tt.n, err, tt.wantErr)
		}
		if err != nil && !Is(err, ErrCodeInvalidNode) {
			t.Errorf("ValidateNode(%d, %d) code = %v", tt.id, tt.n, GetCode(err))
		}
	}
}

func TestValidateRate(t *testing.T) {
	tests := []struct {
		r       float64
		wantErr bool
	}{
		{MinRate, false},
		{30, false},
		{MaxRate, false},
		{0.5, true},
		{121, true},
		{math.NaN(), true},
	}
	for _, tt := range tests {
		if err := ValidateRate(tt.r); (err != nil) != tt.wantErr {
			t.Errorf("ValidateRate(%g) error = %v, wantErr %v", tt.r, err, tt.wantErr)
		}
	}
}
