package id

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

var (
	mu   sync.Mutex
	mono io.Reader
)

func init() {
	// Seed a PRNG from crypto/rand; ulid.Monotonic keeps ids generated within
	// the same millisecond lexicographically increasing.
	var seed int64
	_ = binary.Read(cryptoRand.Reader, binary.LittleEndian, &seed)
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	mono = ulid.Monotonic(rand.New(rand.NewSource(seed)), 0)
}

// New returns a ULID string for a new firm, account, journal or compliance record.
func New() string {
	mu.Lock()
	defer mu.Unlock()

	id, err := ulid.New(ulid.Timestamp(time.Now().UTC()), mono)
	if err != nil {
		// Only possible if the clock goes backwards past the ULID epoch.
		panic(err)
	}
	return id.String()
}

// Kind classifies an existing record id.
type Kind string

const (
	KindULID   Kind = "ulid"
	KindUUID   Kind = "uuid" // ids written by the browser version of the journal
	KindOpaque Kind = "opaque"
	KindEmpty  Kind = "empty"
)

// KindOf reports which generator produced s. Ids are opaque keys, so an
// unrecognised shape is still valid.
func KindOf(s string) Kind {
	if s == "" {
		return KindEmpty
	}
	if len(s) == ulid.EncodedSize {
		if _, err := ulid.ParseStrict(s); err == nil {
			return KindULID
		}
	}
	if _, err := uuid.Parse(s); err == nil {
		return KindUUID
	}
	return KindOpaque
}
