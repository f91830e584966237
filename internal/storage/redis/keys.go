package redis

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/mcoot/lettergame/internal/model"
)

// DefaultKeyPrefix namespaces every key written by the storage
const DefaultKeyPrefix = "lettergame"

// keyspace builds the Redis keys under one prefix
type keyspace string

func newKeyspace(prefix string) keyspace {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return keyspace(prefix)
}

func (k keyspace) player(id uuid.UUID) string {
	return fmt.Sprintf("%s:player:%s", k, id)
}

func (k keyspace) registeredPlayer(playerID uuid.UUID) string {
	return fmt.Sprintf("%s:registered_player:%s", k, playerID)
}

// usernameIndex maps a username to its player id
func (k keyspace) usernameIndex(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", k, username)
}

func (k keyspace) gameRecord(id uuid.UUID) string {
	return fmt.Sprintf("%s:game_record:%s", k, id)
}

// lobbyRecordsIndex is the sorted set of a lobby's games, scored by finish time
func (k keyspace) lobbyRecordsIndex(lobbyID uuid.UUID) string {
	return fmt.Sprintf("%s:idx:lobby_records:%s", k, lobbyID)
}

// dictionary is the set of a language's words
func (k keyspace) dictionary(lang model.Language) string {
	return fmt.Sprintf("%s:dictionary:%s", k, lang)
}
