// Package roundid generates sortable round identifiers: UUIDv7 encoded as
// 26 characters of Crockford base32, so IDs order by creation time.
package roundid

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// New returns a fresh round ID. Generation cannot fail short of the
// system entropy source breaking, which uuid treats as fatal.
func New() string {
	id := uuid.Must(uuid.NewV7())
	return encode(id)
}

// FromUUID encodes an existing UUID, for callers that persist the raw form.
func FromUUID(id uuid.UUID) string {
	return encode(id)
}

// encode walks the 128 bits five at a time, most significant first. The
// first character covers only three data bits so it never exceeds '7'.
func encode(data [16]byte) string {
	var sb strings.Builder
	sb.Grow(26)
	for i := 0; i < 26; i++ {
		bit := i * 5
		byteIndex := bit / 8
		bitIndex := bit % 8

		var v byte
		if bitIndex <= 3 {
			v = (data[byteIndex] >> (3 - bitIndex)) & 0x1f
		} else {
			v = (data[byteIndex] << (bitIndex - 3)) & 0x1f
			if byteIndex+1 < 16 {
				v |= data[byteIndex+1] >> (11 - bitIndex)
			}
		}
		sb.WriteByte(alphabet[v])
	}
	return sb.String()
}

// Validate checks that an ID is 26 lowercase base32 characters with a
// leading character in 0-7.
func Validate(id string) error {
	if len(id) != 26 {
		return fmt.Errorf("round ID must be exactly 26 characters, got %d", len(id))
	}
	if id[0] > '7' {
		return fmt.Errorf("round ID first character must be 0-7, got %c", id[0])
	}
	for i, c := range id {
		if !strings.ContainsRune(alphabet, c) {
			return fmt.Errorf("invalid character %c at position %d", c, i)
		}
	}
	return nil
}
