package pkg

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

const (
	RoomIDLength   = 6
	roomIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// GenerateRoomID returns a random room code of uppercase letters and digits.
func GenerateRoomID() (string, error) {
	alphabetSize := big.NewInt(int64(len(roomIDAlphabet)))

	var sb strings.Builder
	sb.Grow(RoomIDLength)

	for range RoomIDLength {
		n, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", fmt.Errorf("failed to generate room id: %w", err)
		}
		sb.WriteByte(roomIDAlphabet[n.Int64()])
	}

	return sb.String(), nil
}

// NormalizeRoomID makes user-typed room codes comparable with generated ones.
func NormalizeRoomID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

func IsValidRoomID(id string) bool {
	if len(id) != RoomIDLength {
		return false
	}

	for _, r := range id {
		if !strings.ContainsRune(roomIDAlphabet, r) {
			return false
		}
	}

	return true
}

func GenerateConnectionID() string {
	return uuid.NewString()
}
