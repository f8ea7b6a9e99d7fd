package persistence

import (
	"encoding/json"
	"fmt"

	"github.com/PabloGalante/soul-oracle/internal/domain"
	"github.com/PabloGalante/soul-oracle/internal/observability"
)

const (
	JournalKey    = "soul_oracle_journals"
	chatKeyPrefix = "soul_oracle_chat_"
)

// ChatKey returns the store key holding a persona's history.
func ChatKey(id domain.PersonaID) string {
	return chatKeyPrefix + string(id)
}

// Adapter mirrors journal and chat state into a domain.KVStore.
// It holds no cached state; every call goes straight to the store.
type Adapter struct {
	store domain.KVStore
}

func NewAdapter(store domain.KVStore) *Adapter {
	return &Adapter{store: store}
}

// LoadJournalList returns the stored list, or an empty list if it is absent,
// unreadable or corrupted. Failures are logged, never returned.
func (a *Adapter) LoadJournalList() domain.JournalList {
	log := observability.WithFields("key", JournalKey)

	raw, ok, err := a.store.Get(JournalKey)
	if err != nil {
		log.Error("failed to read journal list", "error", err)
		return domain.JournalList{}
	}
	if !ok {
		return domain.JournalList{}
	}

	var list domain.JournalList
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		log.Error("failed to parse journal list", "error", fmt.Errorf("%w: %v", domain.ErrStorageCorruption, err))
		return domain.JournalList{}
	}
	if list == nil {
		list = domain.JournalList{}
	}
	return list
}

// SaveJournalList overwrites the stored list.
func (a *Adapter) SaveJournalList(list domain.JournalList) error {
	if list == nil {
		list = domain.JournalList{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encoding journal list: %w", err)
	}
	if err := a.store.Set(JournalKey, string(data)); err != nil {
		return fmt.Errorf("saving journal list: %w", err)
	}
	return nil
}

// LoadChatHistory returns the persona's stored history. Absent, unreadable
// or corrupted records (including an empty array) all report ok=false.
func (a *Adapter) LoadChatHistory(id domain.PersonaID) (domain.ChatHistory, bool) {
	key := ChatKey(id)
	log := observability.WithFields("key", key, "persona_id", id)

	raw, ok, err := a.store.Get(key)
	if err != nil {
		log.Error("failed to read chat history", "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var h domain.ChatHistory
	if err := json.Unmarshal([]byte(raw), &h); err != nil {
		log.Error("failed to parse chat history", "error", fmt.Errorf("%w: %v", domain.ErrStorageCorruption, err))
		return nil, false
	}
	if len(h) == 0 {
		log.Warn("stored chat history is empty, ignoring")
		return nil, false
	}
	return h, true
}

// SaveChatHistory overwrites the persona's stored history.
// Callers must materialize the greeting first: empty histories are rejected.
func (a *Adapter) SaveChatHistory(id domain.PersonaID, h domain.ChatHistory) error {
	if len(h) == 0 {
		return domain.ErrEmptyHistory
	}
	data, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("encoding chat history: %w", err)
	}
	if err := a.store.Set(ChatKey(id), string(data)); err != nil {
		return fmt.Errorf("saving chat history: %w", err)
	}
	return nil
}

// ClearChatHistory removes only the given persona's record.
func (a *Adapter) ClearChatHistory(id domain.PersonaID) error {
	if err := a.store.Remove(ChatKey(id)); err != nil {
		return fmt.Errorf("clearing chat history: %w", err)
	}
	return nil
}
