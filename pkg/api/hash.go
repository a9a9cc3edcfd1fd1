package api

import (
	"encoding/hex"
	"strconv"

	"github.com/zeebo/blake3"
)

// Hash returns a deterministic BLAKE3 hash of the post content.
// It covers ID, Title, Body and UpdatedAt, so any successful update changes it.
func (p Post) Hash() string {
	h := blake3.New()

	h.Write([]byte(strconv.FormatInt(p.ID, 10)))
	h.Write([]byte{0})

	h.Write([]byte(p.Title))
	h.Write([]byte{0})

	h.Write([]byte(p.Body))
	h.Write([]byte{0})

	// Timestamps in RFC3339Nano (UTC)
	if !p.UpdatedAt.IsZero() {
		h.Write([]byte(p.UpdatedAt.UTC().Format(timeRFC3339Nano)))
	}

	sum := h.Sum(nil)
	return hex.EncodeToString(sum)
}

const timeRFC3339Nano = "2006-01-02T15:04:05.999999999Z07:00"
