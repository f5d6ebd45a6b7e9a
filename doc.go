// Package tracker provides the record model of a local-first daily expense
// tracker: a daily budget, itemized expenses, person to person loans and
// company cash records.
//
// The core functionalities include:
//   - Record Store: a Store owns the budget and the three collections, stages
//     form input in drafts, commits them after presence checks and exposes
//     totals that are always recomputed from the current collections.
//   - Selection: a Selection marks records for deletion and removes exactly
//     the marked records of one collection once the deletion is confirmed.
//   - Persistence: the Store writes through to a key/value storage.Storage on
//     every mutation, and also reads back older data shapes.
//   - Reports: a Report is a point in time view of the Store that the
//     renderer package turns into Markdown, HTML or spreadsheet documents.
//
// This package serves as the foundation of the `dtr` command-line tool and
// of its local HTTP API.
package tracker
