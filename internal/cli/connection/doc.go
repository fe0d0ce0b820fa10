// Package connection provides TCP clients for the prefixkv line protocol.
//
//   - Client.Exec: one request per connection, response read until EOF
//   - Session: a persistent connection with one reply line per request,
//     used by the benchmarks
package connection
