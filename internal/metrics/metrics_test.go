package metrics

import (
	"testing"
	"time"
)

func TestInitIsIdempotent(t *testing.T) {
	Init()
	Init()

	// Observations after Init must not panic.
	ObserveItem("tmdb_details", "ok")
	ObserveItem("tmdb_details", "failed")
	ObserveBatch("tmdb_details", 250*time.Millisecond)
	ObserveAPIRequest("/movie", 200)
	ObserveUpsertRows("genres", 3)
	ObserveUpsertRows("genres", 0)
}
