package database

import (
	"testing"
	"time"
)

func TestNewCarriesConfiguredWriteTimeout(t *testing.T) {
	c := New(nil, 45*time.Second)

	if c.writeTimeout != 45*time.Second {
		t.Errorf("write timeout = %v, want the configured 45s", c.writeTimeout)
	}
}
