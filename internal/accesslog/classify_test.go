package accesslog

import (
	"errors"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		addr string
		want Origin
	}{
		{"8.8.8.8", Remote},
		{"187.45.2.9", Remote},
		{"200.136.72.10", Remote},
		{"1.1.1.1", Remote},
		{"10.0.0.1", Local},
		{"172.16.5.4", Local},
		{"172.31.255.255", Local},
		{"172.32.0.1", Remote},
		{"192.168.1.1", Local},
		{"127.0.0.1", Local},
		{"169.254.10.10", Local},
		{"100.64.0.1", Local},
		{"100.127.255.255", Local},
		{"100.128.0.1", Remote},
		{"0.0.0.0", Local},
		{"192.0.0.1", Local},
		{"192.0.0.9", Remote},
		{"192.0.2.33", Local},
		{"198.18.0.1", Local},
		{"198.51.100.7", Local},
		{"203.0.113.200", Local},
		{"240.0.0.1", Local},
		{"255.255.255.255", Local},
	}

	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			got, err := Classify(tt.addr)
			if err != nil {
				t.Fatalf("Classify() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Classify(%s) = %s, want %s", tt.addr, got, tt.want)
			}
		})
	}
}

func TestClassifyBadAddress(t *testing.T) {
	for _, addr := range []string{"999.1.1.1", "1.2.3.256", "01.2.3.4", "", "::1", "example.org"} {
		t.Run(addr, func(t *testing.T) {
			if _, err := Classify(addr); !errors.Is(err, ErrBadAddress) {
				t.Errorf("Classify(%q) error = %v, want ErrBadAddress", addr, err)
			}
		})
	}
}

func TestOriginString(t *testing.T) {
	if Local.String() != "local" || Remote.String() != "remote" {
		t.Errorf("unexpected names: %s, %s", Local, Remote)
	}
}
