package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprintString(t *testing.T) {
	tests := []struct {
		name string
		data string
		id   uint64
	}{
		{"empty string", "", 0xef46db3751d8e999},
		{"short string", "test", 0x4fdcca5ddb678139},
		{"schema snippet", "message User { user_id: u64; }", FingerprintString("message User { user_id: u64; }")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.id, FingerprintString(tt.data))
		})
	}
}

func TestFingerprintMatchesStringVariant(t *testing.T) {
	data := "enum Role { Admin = 0; }"
	assert.Equal(t, FingerprintString(data), Fingerprint([]byte(data)))
}

func TestFingerprintDiffers(t *testing.T) {
	a := Fingerprint([]byte("message A { x: u8; }"))
	b := Fingerprint([]byte("message A { x: u16; }"))
	assert.NotEqual(t, a, b)
}
