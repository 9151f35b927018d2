package wizard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vmunix/regrabarr/internal/arr"
)

func TestAiredEpisodes(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	now := time.Date(2024, 3, 15, 23, 59, 0, 0, loc)

	episodes := []arr.Episode{
		{ID: 1, AirDate: "2024-03-14"}, // yesterday
		{ID: 2, AirDate: "2024-03-15"}, // today
		{ID: 3, AirDate: "2024-03-16"}, // tomorrow
		{ID: 4, AirDate: "15/03/2024"}, // unparseable
		{ID: 5, AirDate: ""},
	}

	got := airedEpisodes(episodes, now)
	ids := make([]int, len(got))
	for i, e := range got {
		ids[i] = e.ID
	}
	assert.Equal(t, []int{1, 2}, ids)
}

func TestSelectableSeasons(t *testing.T) {
	got := selectableSeasons([]arr.Season{{Number: 3}, {Number: 0}, {Number: 1}})
	assert.Equal(t, []arr.Season{{Number: 3}, {Number: 1}}, got)
}

func TestStateTerminal(t *testing.T) {
	terminal := map[State]bool{StateDone: true, StateFailed: true, StateCancelled: true, StateExpired: true}
	for s := StateSearching; s <= StateExpired; s++ {
		assert.Equal(t, terminal[s], s.Terminal(), s.String())
	}
}
