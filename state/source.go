package state

import (
	"sync"

	"github.com/mvandenberg/heos-go/data"
)

type sourceEntry struct {
	mu   sync.RWMutex
	info data.SourceInfo
}

func newSourceEntry(info data.SourceInfo) *sourceEntry {
	return &sourceEntry{info: info}
}

// SourceView is a read-only handle into one source's info. It carries
// a read lock on the sources table for its own lifetime, held until
// Release is called; see PlayerView.Release.
type SourceView struct {
	id    data.SourceId
	entry *sourceEntry
	lock  *viewLock
}

func (v SourceView) Id() data.SourceId { return v.id }

// Release drops the read lock this view holds on the sources table.
func (v SourceView) Release() { v.lock.release() }

func (v SourceView) Info() data.SourceInfo {
	v.entry.mu.RLock()
	defer v.entry.mu.RUnlock()
	return v.entry.info
}
