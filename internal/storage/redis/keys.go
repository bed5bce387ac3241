package redis

import "fmt"

// Key prefix for all score data
const keyPrefix = "crunch"

// scoreKey returns the Redis key holding one ScoreEntry as JSON
func scoreKey(id string) string {
	return fmt.Sprintf("%s:score:%s", keyPrefix, id)
}

// scoreSeqKey returns the Redis key of the score ID counter
func scoreSeqKey() string {
	return fmt.Sprintf("%s:seq:score", keyPrefix)
}

// leaderboardKey returns the Redis key for the ZSET of a game's entries,
// scored by points
func leaderboardKey(gameID string) string {
	return fmt.Sprintf("%s:leaderboard:%s", keyPrefix, gameID)
}

// levelBestKey returns the Redis key for the HASH of a game's best score
// per level label
func levelBestKey(gameID string) string {
	return fmt.Sprintf("%s:best:%s", keyPrefix, gameID)
}

// member encodes an entry ID as a ZSET member. Zero padding makes the
// lexicographic tie order match numeric order, so newer entries rank
// first among equal scores.
func member(id int64) string {
	return fmt.Sprintf("%019d", id)
}
