package server

import (
	crand "crypto/rand"
	"math/rand"
)

func newRoomCode() string {
	const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	buf := make([]byte, 6)
	if _, err := crand.Read(buf); err != nil {
		return "AAAAAA"
	}
	for i := range buf {
		buf[i] = alphabet[int(buf[i])%len(alphabet)]
	}
	return string(buf)
}

var avatars = []string{
	"👤", "👨", "👩", "🧑", "👴", "👵", "🧓", "👶", "🧒", "👦",
	"👧", "🎅", "🤶", "🦸", "🦹", "🧙", "🧝", "🧛", "🧟",
}

func randomAvatar() string {
	return avatars[rand.Intn(len(avatars))]
}
