package denylist

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
)

// Status describes where the remote part of the denylist came from.
type Status int

const (
	StatusUnavailable Status = iota
	StatusFetched
	StatusCached
)

func (s Status) String() string {
	switch s {
	case StatusFetched:
		return "fetched"
	case StatusCached:
		return "cached"
	default:
		return "unavailable"
	}
}

// FetchResult is the outcome of loading the remote list. Domains is empty when
// Status is StatusUnavailable, and Err holds the fetch failure whenever the
// list was not freshly fetched.
type FetchResult struct {
	Status  Status
	Domains Set
	Source  string
	Err     error
}

// Degraded reports whether the classifier runs on the curated set only.
func (r FetchResult) Degraded() bool {
	return r.Status == StatusUnavailable
}

// Loader fetches the remote list and falls back to the last stored snapshot.
// Snapshots may be nil.
type Loader struct {
	source    Source
	snapshots SnapshotStore
}

func NewLoader(source Source, snapshots SnapshotStore) *Loader {
	return &Loader{source: source, snapshots: snapshots}
}

// Load never fails: every problem is folded into the returned FetchResult.
func (l *Loader) Load(ctx context.Context) FetchResult {
	if l == nil || l.source == nil {
		return FetchResult{Status: StatusUnavailable, Domains: Set{}, Err: errors.New("no denylist source configured")}
	}

	name := l.source.Name()
	domains, err := l.source.Fetch(ctx)
	if err == nil {
		if l.snapshots != nil {
			if saveErr := l.snapshots.Save(ctx, domains); saveErr != nil {
				log.Warn("Failed to store denylist snapshot", "error", saveErr)
			}
		}
		return FetchResult{Status: StatusFetched, Domains: domains, Source: name}
	}

	if l.snapshots != nil {
		cached, cacheErr := l.snapshots.Load(ctx)
		if cacheErr == nil {
			return FetchResult{Status: StatusCached, Domains: cached, Source: name, Err: err}
		}
		if !errors.Is(cacheErr, ErrSnapshotMissing) {
			log.Warn("Failed to load denylist snapshot", "error", cacheErr)
		}
	}

	return FetchResult{Status: StatusUnavailable, Domains: Set{}, Source: name, Err: err}
}

// Build unions the loaded list with the curated set.
func Build(result FetchResult) Set {
	return Curated().Union(result.Domains)
}
