// Package gameid generates the identifiers of tracked games and their
// rounds. Game IDs are UUIDv7 values in lower-case Crockford base32, so
// they sort by creation time.
package gameid

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Base32 alphabet used by TypeID (Crockford's base32)
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// encodedLen is 130 bits in 5-bit characters; the first two bits are padding.
const encodedLen = 26

// Generate returns a new game ID.
func Generate() string {
	id, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails when the random source does.
		panic("failed to generate game id: " + err.Error())
	}
	return Encode(id)
}

// Encode renders a UUID as a 26-character base32 string.
func Encode(u uuid.UUID) string {
	var out [encodedLen]byte
	for i := range encodedLen {
		var v byte
		for b := range 5 {
			bit := i*5 + b - 2
			v <<= 1
			if bit >= 0 && u[bit/8]&(0x80>>(bit%8)) != 0 {
				v |= 1
			}
		}
		out[i] = alphabet[v]
	}
	return string(out[:])
}

// Decode parses an ID produced by Encode back into a UUID.
func Decode(id string) (uuid.UUID, error) {
	if err := Validate(id); err != nil {
		return uuid.Nil, err
	}

	var u uuid.UUID
	for i := range encodedLen {
		v := strings.IndexByte(alphabet, id[i])
		for b := range 5 {
			bit := i*5 + b - 2
			if bit < 0 {
				continue
			}
			if v&(0x10>>b) != 0 {
				u[bit/8] |= 0x80 >> (bit % 8)
			}
		}
	}
	return u, nil
}

// Validate checks that id could have come from Encode.
func Validate(id string) error {
	if len(id) != encodedLen {
		return fmt.Errorf("game ID must be exactly %d characters, got %d", encodedLen, len(id))
	}
	// The two padding bits keep the first character within 0-7
	if id[0] > '7' {
		return fmt.Errorf("game ID first character must be 0-7, got %c", id[0])
	}
	for i, char := range id {
		if !strings.ContainsRune(alphabet, char) {
			return fmt.Errorf("invalid character %c at position %d", char, i)
		}
	}
	return nil
}

// RoundID names round n of a game, counting from 1.
func RoundID(gameID string, n int) string {
	return gameID + "-" + strconv.Itoa(n)
}
