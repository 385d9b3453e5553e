// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ParseConfig holds settings for the parsing pipeline.
type ParseConfig struct {
	// SourceLabel is the report family recorded in the source column
	// and reference strings (default "NCQA Health Plan Standards").
	SourceLabel string `json:"source_label" yaml:"source_label"`

	// Workers is the number of concurrent documents in batch mode
	// (default: number of CPUs). Documents share no mutable state.
	Workers int `json:"workers" yaml:"workers"`
}

// StoreConfig holds settings for the row store.
type StoreConfig struct {
	// DBDir is the directory holding the SQLite database (default "index").
	DBDir string `json:"db_dir" yaml:"db_dir"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Parse ParseConfig `json:"parse" yaml:"parse"`
	Store StoreConfig `json:"store" yaml:"store"`
}
