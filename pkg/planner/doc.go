// Package planner provides the content-planning library behind the
// content-planner service: content items with platform and status metadata,
// bulk management, CSV export, saved views, output slots and caption/hashtag
// generation.
//
// A single Service interface orchestrates the pluggable pieces. Repositories
// (memory, Postgres), blob stores for archived exports (memory, filesystem,
// S3), the template Generator, an optional AIGenerator and an optional
// GenerationCache are provided under subpackages and wired through Options.
//
// Ownership
//
// Every operation is scoped to a user ID. Repositories must never return or
// modify rows that belong to another user; a row owned by someone else is
// reported exactly like a missing row.
package planner
