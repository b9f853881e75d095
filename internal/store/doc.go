// Package store holds the application state of postboard and the pure
// reducer that advances it.
//
// The main components are:
//
//   - [State]: loading flag, fetched posts and the last error
//   - [Signal]: the three lifecycle events of a load ([Requested],
//     [Succeeded], [Failed])
//   - [Reduce]: pure function from (state, signal) to the next state
//   - [MemoryStore]: the single owner of a State, with pub/sub for views
//
// The state only changes through [Store.Dispatch]. Subscribers receive
// updates via channels with non-blocking sends (slow subscribers will miss
// updates rather than block the loader).
package store
