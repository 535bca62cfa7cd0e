// Package metrics provides Prometheus metrics collection for symc.
//
// # Metrics Categories
//
//   - Conversion Metrics: conversion count by status, stage durations,
//     tree sizes, errors by type, transform replacements and rendered calls
//   - Cache Metrics: conversion cache hits, misses, size and pruned entries
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	collector.RecordStage("parse", elapsed)
//	collector.RecordConversion("success", stats.Nodes)
//
// Metrics are exposed in Prometheus format by Handler. A nil Collector is
// valid and records nothing.
package metrics
