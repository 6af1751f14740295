package storage

import (
	"sort"
	"strings"
	"time"

	"github.com/sahilm/fuzzy"
)

// SessionMessageMatch is one transcript hit from a cross-session search.
type SessionMessageMatch struct {
	SessionID    string
	SessionName  string
	MessageIndex int
	Role         string
	Content      string
	Preview      string
	Timestamp    time.Time
}

// SearchIndex runs searches over stored sessions.
type SearchIndex struct {
	storage *SessionStorage
}

func NewSearchIndex(storage *SessionStorage) *SearchIndex {
	return &SearchIndex{storage: storage}
}

// SearchAllSessions finds transcript turns containing the query,
// case-insensitively, across every stored session.
func (si *SearchIndex) SearchAllSessions(query string) ([]SessionMessageMatch, error) {
	if query == "" {
		return []SessionMessageMatch{}, nil
	}

	sessionList, err := si.storage.List()
	if err != nil {
		return nil, err
	}

	queryLower := strings.ToLower(query)
	var matches []SessionMessageMatch

	for _, sessionMeta := range sessionList {
		session, err := si.storage.Load(sessionMeta.ID)
		if err != nil {
			continue
		}

		for i, msg := range session.Messages {
			if msg.Role == "system" {
				continue
			}

			if strings.Contains(strings.ToLower(msg.Content), queryLower) {
				preview := msg.Content
				if len(preview) > 100 {
					preview = preview[:100] + "..."
				}

				matches = append(matches, SessionMessageMatch{
					SessionID:    session.ID,
					SessionName:  session.Name,
					MessageIndex: i,
					Role:         msg.Role,
					Content:      msg.Content,
					Preview:      preview,
					Timestamp:    msg.Timestamp,
				})
			}
		}
	}

	return matches, nil
}

// FindSessionsByName fuzzy-matches session names, best matches first.
func (si *SearchIndex) FindSessionsByName(query string) ([]SessionMetadata, error) {
	sessionList, err := si.storage.List()
	if err != nil {
		return nil, err
	}

	if query == "" {
		return sessionList, nil
	}

	names := make([]string, len(sessionList))
	for i, meta := range sessionList {
		names[i] = meta.Name
	}

	matches := fuzzy.Find(query, names)
	sort.Stable(matches)

	result := make([]SessionMetadata, 0, len(matches))
	for _, match := range matches {
		result = append(result, sessionList[match.Index])
	}

	return result, nil
}
