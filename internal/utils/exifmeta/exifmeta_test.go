package exifmeta

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    time.Time
		wantErr bool
	}{
		{
			name: "exif convention",
			raw:  "2022:05:01 10:00:00",
			want: time.Date(2022, 5, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			name: "surrounding whitespace",
			raw:  " 2019:12:31 23:59:59 ",
			want: time.Date(2019, 12, 31, 23, 59, 59, 0, time.UTC),
		},
		{
			name:    "iso layout rejected",
			raw:     "2022-05-01 10:00:00",
			wantErr: true,
		},
		{
			name:    "empty",
			raw:     "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTimestamp(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseTimestamp(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if !tt.wantErr && !got.Equal(tt.want) {
				t.Errorf("parseTimestamp(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestDMSToDegrees(t *testing.T) {
	tests := []struct {
		name          string
		deg, min, sec float64
		want          float64
	}{
		{"degrees only", 49, 0, 0, 49},
		{"half degree of minutes", 49, 30, 0, 49.5},
		{"seconds contribute", 49, 57, 36, 49.96},
		{"zero", 0, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dmsToDegrees(tt.deg, tt.min, tt.sec)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("dmsToDegrees(%v, %v, %v) = %v, want %v", tt.deg, tt.min, tt.sec, got, tt.want)
			}
		})
	}
}

func TestApplyRef(t *testing.T) {
	tests := []struct {
		ref     string
		value   float64
		want    float64
		wantErr bool
	}{
		{"N", 49.95, 49.95, false},
		{"E", 14.40, 14.40, false},
		{"S", 33.86, -33.86, false},
		{"W", 70.66, -70.66, false},
		{"s", 12.0, -12.0, false},
		{" w ", 5.0, -5.0, false},
		{"X", 1.0, 0, true},
		{"", 1.0, 0, true},
	}

	for _, tt := range tests {
		t.Run("ref "+tt.ref, func(t *testing.T) {
			got, err := applyRef(tt.value, tt.ref)
			if (err != nil) != tt.wantErr {
				t.Fatalf("applyRef(%v, %q) error = %v, wantErr %v", tt.value, tt.ref, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrNoLocation) {
					t.Errorf("error should wrap ErrNoLocation, got %v", err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("applyRef(%v, %q) = %v, want %v", tt.value, tt.ref, got, tt.want)
			}
		})
	}
}

func TestCaptureTimeRejectsNonImagePayload(t *testing.T) {
	_, err := Extractor{}.CaptureTime([]byte("not a jpeg"))
	if !errors.Is(err, ErrNoCaptureTime) {
		t.Errorf("error = %v, want ErrNoCaptureTime", err)
	}
}

func TestLocationRejectsNonImagePayload(t *testing.T) {
	_, _, err := Extractor{}.Location([]byte("not a jpeg"))
	if !errors.Is(err, ErrNoLocation) {
		t.Errorf("error = %v, want ErrNoLocation", err)
	}
}
