// Package metrics defines the Prometheus instrumentation for the conversion
// service: conversion run counts and durations, matched/unmatched track
// totals, per-track search failures, add-batch failures, HTTP request
// metrics, and search-cache hit rates. All collectors are registered with the
// default registry via promauto and exposed on /metrics.
package metrics
