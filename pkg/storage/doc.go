// Package storage uploads send report artifacts (per-recipient CSV files)
// to S3-compatible object storage and produces signed download URLs.
//
// The store is an optional collaborator. When credentials are absent the
// executor keeps the artifact in memory only and the report rows carry no
// download link.
package storage
