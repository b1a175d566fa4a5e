// Copyright (C) 2025 rankinbc
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package resolver maps human-readable track, device, and parameter names
// to the numeric indices understood by the remote control surface.
//
// # Description
//
// The resolver owns the current snapshot of names exclusively. Each
// Load call replaces one snapshot level wholesale; entity identity never
// survives a reload except by re-resolving names. Lookups run in two
// passes: case-insensitive exact match, then fuzzy match through a
// pluggable Scorer, accepted only at or above FuzzyThreshold. Successful
// resolutions are memoized per scope and the memo is cleared precisely
// when that scope reloads, so a stale index can never be served.
//
// # Concurrency
//
// The resolver expects one synchronous caller and takes no internal
// locks.
package resolver

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var resolverTracer = otel.Tracer("mixcoach.coach.resolver")

var validate = validator.New(validator.WithRequiredStructEnabled())

// FuzzyThreshold is the minimum similarity score for a fuzzy match.
const FuzzyThreshold = 0.8

// Kind identifies the entity level of a resolution.
type Kind string

const (
	// KindTrack resolves against the track level.
	KindTrack Kind = "track"

	// KindDevice resolves against one track's device level.
	KindDevice Kind = "device"

	// KindParameter resolves against one device's parameter level.
	KindParameter Kind = "parameter"
)

// FixRequest is a human fix request to resolve into indices.
//
// Device and parameter are optional so the same entry point serves
// track-only operations (volume, pan, mute). A parameter name without a
// device name is rejected because parameters only exist within a device.
type FixRequest struct {
	// TrackName is the human track name. Required.
	TrackName string `json:"track_name" validate:"required"`

	// DeviceName is the human device name within the track.
	DeviceName string `json:"device_name,omitempty" validate:"required_with=ParameterName"`

	// ParameterName is the human parameter name within the device.
	ParameterName string `json:"parameter_name,omitempty"`

	// Value is the value to apply, passed through unchanged.
	Value float64 `json:"value"`
}

// ResolvedFix is a fully resolved fix request.
type ResolvedFix struct {
	// TrackIndex is the resolved track index.
	TrackIndex int `json:"track_index"`

	// DeviceIndex is the resolved device index, nil for track-only fixes.
	DeviceIndex *int `json:"device_index,omitempty"`

	// ParameterIndex is the resolved parameter index, nil when no
	// parameter name was given.
	ParameterIndex *int `json:"parameter_index,omitempty"`

	// Value is the value carried over from the request.
	Value float64 `json:"value"`
}

// Options configures a Resolver.
type Options struct {
	// Scorer is the similarity scorer for fuzzy matching.
	// Default: LevenshteinScorer.
	Scorer Scorer
}

type deviceKey struct {
	track, device int
}

type cacheKey struct {
	kind   Kind
	track  int // -1 when the kind has no track scope
	device int // -1 when the kind has no device scope
	query  string
}

// Resolver resolves names against the current snapshot.
type Resolver struct {
	scorer Scorer

	tracks  []Entry
	devices map[int][]Entry
	params  map[deviceKey][]Entry

	cache map[cacheKey]int
}

// New creates a Resolver with no snapshot loaded.
func New(opts *Options) *Resolver {
	scorer := Scorer(LevenshteinScorer{})
	if opts != nil && opts.Scorer != nil {
		scorer = opts.Scorer
	}

	return &Resolver{
		scorer:  scorer,
		devices: make(map[int][]Entry),
		params:  make(map[deviceKey][]Entry),
		cache:   make(map[cacheKey]int),
	}
}

// LoadTracks replaces the track level of the snapshot and invalidates
// every cached track resolution. Device and parameter caches are left
// alone; their scopes were not reloaded.
func (r *Resolver) LoadTracks(snap *Snapshot) error {
	entries, err := snap.TrackEntries()
	if err != nil {
		return err
	}

	r.tracks = entries
	r.invalidate(func(k cacheKey) bool { return k.kind == KindTrack })
	snapshotReloads.WithLabelValues("tracks").Inc()

	slog.Debug("resolver: tracks loaded", slog.Int("count", len(entries)))
	return nil
}

// LoadDevices replaces the device level for one track and invalidates
// the cached device resolutions scoped to that track.
func (r *Resolver) LoadDevices(trackIndex int, snap *Snapshot) error {
	entries, err := snap.DeviceEntries(trackIndex)
	if err != nil {
		return err
	}

	r.devices[trackIndex] = entries
	r.invalidate(func(k cacheKey) bool { return k.kind == KindDevice && k.track == trackIndex })
	snapshotReloads.WithLabelValues("devices").Inc()

	slog.Debug("resolver: devices loaded",
		slog.Int("track", trackIndex),
		slog.Int("count", len(entries)),
	)
	return nil
}

// LoadParameters replaces the parameter level for one device and
// invalidates the cached parameter resolutions scoped to that device.
func (r *Resolver) LoadParameters(trackIndex, deviceIndex int, snap *Snapshot) error {
	entries, err := snap.ParameterEntries(trackIndex, deviceIndex)
	if err != nil {
		return err
	}

	r.params[deviceKey{trackIndex, deviceIndex}] = entries
	r.invalidate(func(k cacheKey) bool {
		return k.kind == KindParameter && k.track == trackIndex && k.device == deviceIndex
	})
	snapshotReloads.WithLabelValues("parameters").Inc()

	slog.Debug("resolver: parameters loaded",
		slog.Int("track", trackIndex),
		slog.Int("device", deviceIndex),
		slog.Int("count", len(entries)),
	)
	return nil
}

// invalidate removes cache entries matching the predicate.
func (r *Resolver) invalidate(match func(cacheKey) bool) {
	for k := range r.cache {
		if match(k) {
			delete(r.cache, k)
		}
	}
}

// ResolveTrack resolves a track name to its index.
//
// The second return is false when no candidate cleared FuzzyThreshold.
// Expected absence is not an error at this level; resolve through
// ResolveFix to get near-miss diagnostics instead.
func (r *Resolver) ResolveTrack(name string) (int, bool) {
	return r.lookup(cacheKey{kind: KindTrack, track: -1, device: -1, query: normalizeQuery(name)}, name, r.tracks)
}

// ResolveDevice resolves a device name within a track.
func (r *Resolver) ResolveDevice(trackIndex int, name string) (int, bool) {
	key := cacheKey{kind: KindDevice, track: trackIndex, device: -1, query: normalizeQuery(name)}
	return r.lookup(key, name, r.devices[trackIndex])
}

// ResolveParameter resolves a parameter name within a device.
func (r *Resolver) ResolveParameter(trackIndex, deviceIndex int, name string) (int, bool) {
	key := cacheKey{kind: KindParameter, track: trackIndex, device: deviceIndex, query: normalizeQuery(name)}
	return r.lookup(key, name, r.params[deviceKey{trackIndex, deviceIndex}])
}

// lookup runs the two-pass match with memoization.
func (r *Resolver) lookup(key cacheKey, name string, candidates []Entry) (index int, ok bool) {
	start := time.Now()
	strategy := "miss"
	defer func() {
		resolutionDuration.Observe(time.Since(start).Seconds())
		resolutionAttempts.WithLabelValues(strategy).Inc()
	}()

	if cached, hit := r.cache[key]; hit {
		resolutionCacheHits.Inc()
		strategy = "cached"
		return cached, true
	}
	resolutionCacheMisses.Inc()

	// Pass 1: case-insensitive exact match, lowest index wins.
	best, found := -1, false
	for _, e := range candidates {
		if strings.EqualFold(e.Name, name) && (!found || e.Index < best) {
			best, found = e.Index, true
		}
	}
	if found {
		strategy = "exact"
		r.cache[key] = best
		return best, true
	}

	// Pass 2: fuzzy match, maximum score wins, ties by lowest index.
	bestScore := -1.0
	for _, e := range candidates {
		score := r.scorer.Score(name, e.Name)
		if score > bestScore || (score == bestScore && found && e.Index < best) {
			best, bestScore, found = e.Index, score, true
		}
	}
	if found && bestScore >= FuzzyThreshold {
		strategy = "fuzzy"
		r.cache[key] = best
		slog.Debug("resolver: fuzzy match accepted",
			slog.String("kind", string(key.kind)),
			slog.String("query", name),
			slog.Int("index", best),
			slog.Float64("score", bestScore),
		)
		return best, true
	}

	return 0, false
}

// ResolveFix resolves each present name of a fix request in order: the
// track, then the device within that track, then the parameter within
// that device. The first unresolvable name fails with a ResolutionError
// carrying the top three near misses by score.
func (r *Resolver) ResolveFix(ctx context.Context, req FixRequest) (*ResolvedFix, error) {
	_, span := resolverTracer.Start(ctx, "ResolveFix")
	defer span.End()
	span.SetAttributes(
		attribute.String("track", req.TrackName),
		attribute.String("device", req.DeviceName),
		attribute.String("parameter", req.ParameterName),
	)

	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid fix request: %w", err)
	}

	trackIndex, ok := r.ResolveTrack(req.TrackName)
	if !ok {
		return nil, r.resolutionError(KindTrack, req.TrackName, r.tracks)
	}

	fix := &ResolvedFix{TrackIndex: trackIndex, Value: req.Value}
	if req.DeviceName == "" {
		return fix, nil
	}

	deviceIndex, ok := r.ResolveDevice(trackIndex, req.DeviceName)
	if !ok {
		return nil, r.resolutionError(KindDevice, req.DeviceName, r.devices[trackIndex])
	}
	fix.DeviceIndex = &deviceIndex

	if req.ParameterName == "" {
		return fix, nil
	}

	paramIndex, ok := r.ResolveParameter(trackIndex, deviceIndex, req.ParameterName)
	if !ok {
		return nil, r.resolutionError(KindParameter, req.ParameterName, r.params[deviceKey{trackIndex, deviceIndex}])
	}
	fix.ParameterIndex = &paramIndex

	return fix, nil
}

// resolutionError builds a ResolutionError with the top three near
// misses by score, ties broken by lowest index.
func (r *Resolver) resolutionError(kind Kind, query string, candidates []Entry) *ResolutionError {
	scored := make([]Candidate, 0, len(candidates))
	for _, e := range candidates {
		scored = append(scored, Candidate{
			Index: e.Index,
			Name:  e.Name,
			Score: r.scorer.Score(query, e.Name),
		})
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Index < scored[j].Index
	})

	if len(scored) > 3 {
		scored = scored[:3]
	}

	return &ResolutionError{Kind: kind, Query: query, Candidates: scored}
}

func normalizeQuery(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
