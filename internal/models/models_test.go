package models

import (
	"testing"
	"time"
)

func TestAnchorValidate(t *testing.T) {
	tests := []struct {
		name    string
		anchor  Anchor
		wantErr bool
	}{
		{name: "valid anchor", anchor: Anchor{Dip: 230, Volume: 1200}, wantErr: false},
		{name: "zero anchor", anchor: Anchor{}, wantErr: false},
		{name: "negative dip", anchor: Anchor{Dip: -10, Volume: 0}, wantErr: true},
		{name: "negative volume", anchor: Anchor{Dip: 10, Volume: -1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.anchor.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAnchorPairContains(t *testing.T) {
	p := AnchorPair{Lower: Anchor{Dip: 230}, Upper: Anchor{Dip: 240}}
	for _, dip := range []float64{230, 235.5, 240} {
		if !p.Contains(dip) {
			t.Errorf("expected %v inside %v..%v", dip, p.Lower, p.Upper)
		}
	}
	for _, dip := range []float64{229.9, 240.1} {
		if p.Contains(dip) {
			t.Errorf("expected %v outside pair", dip)
		}
	}
}

func TestVolumeResultValidate(t *testing.T) {
	tests := []struct {
		name    string
		dip     float64
		result  VolumeResult
		wantErr bool
	}{
		{
			name:    "exact",
			dip:     50,
			result:  VolumeResult{Total: 250, Method: MethodExact},
			wantErr: false,
		},
		{
			name: "fractional",
			dip:  235,
			result: VolumeResult{
				Total: 1212, HasFraction: true,
				BaseDip: 230, BaseVolume: 1200,
				Fraction: 5, FractionVolume: 12,
				Method: MethodFractional,
			},
			wantErr: false,
		},
		{
			name: "base and fraction do not add up to dip",
			dip:  236,
			result: VolumeResult{
				Total: 1212, HasFraction: true,
				BaseDip: 230, BaseVolume: 1200,
				Fraction: 5, FractionVolume: 12,
				Method: MethodFractional,
			},
			wantErr: true,
		},
		{
			name: "volumes do not add up to total",
			dip:  235,
			result: VolumeResult{
				Total: 1300, HasFraction: true,
				BaseDip: 230, BaseVolume: 1200,
				Fraction: 5, FractionVolume: 12,
				Method: MethodFractional,
			},
			wantErr: true,
		},
		{
			name:    "negative total",
			dip:     10,
			result:  VolumeResult{Total: -1, Method: MethodInterpolated},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.result.Validate(tt.dip)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestVolumeResultRounded(t *testing.T) {
	tests := []struct {
		total float64
		want  int64
	}{
		{1212.4, 1212},
		{1212.5, 1213},
		{0, 0},
		{252.49, 252},
	}
	for _, tt := range tests {
		if got := (VolumeResult{Total: tt.total}).Rounded(); got != tt.want {
			t.Errorf("Rounded(%v) = %d, want %d", tt.total, got, tt.want)
		}
	}
}

func TestNewSearchRecord(t *testing.T) {
	at := time.Now().Add(-time.Minute)
	result := VolumeResult{
		Total: 1212.4, HasFraction: true,
		BaseDip: 230, BaseVolume: 1200,
		Fraction: 5, FractionVolume: 12.4,
		Method: MethodFractional,
	}

	rec := NewSearchRecord("id-1", 235, result, at)
	if err := rec.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if rec.Volume != 1212 {
		t.Errorf("Volume = %d, want 1212", rec.Volume)
	}
	if rec.BaseDip != 230 || rec.Fraction != 5 || rec.FractionVolume != 12.4 || rec.Method != MethodFractional {
		t.Errorf("provenance not copied: %+v", rec)
	}
}

func TestSearchRecordValidate(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name    string
		record  SearchRecord
		wantErr bool
	}{
		{
			name:    "valid record",
			record:  SearchRecord{ID: "a", Dip: 50, Volume: 250, Timestamp: now.Add(-time.Second)},
			wantErr: false,
		},
		{
			name:    "empty ID",
			record:  SearchRecord{Dip: 50, Volume: 250, Timestamp: now},
			wantErr: true,
		},
		{
			name:    "negative dip",
			record:  SearchRecord{ID: "a", Dip: -1, Timestamp: now},
			wantErr: true,
		},
		{
			name:    "missing timestamp",
			record:  SearchRecord{ID: "a", Dip: 50},
			wantErr: true,
		},
		{
			name:    "future timestamp",
			record:  SearchRecord{ID: "a", Dip: 50, Timestamp: now.Add(time.Hour)},
			wantErr: true,
		},
		{
			name:    "fraction out of range",
			record:  SearchRecord{ID: "a", Dip: 240, Timestamp: now, HasFraction: true, BaseDip: 230, Fraction: 10},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.record.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
