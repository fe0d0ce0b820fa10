// Package kvserver serves the prefixkv line protocol over TCP.
//
// Each request is one newline-terminated line; each connection is served by
// its own goroutine and stays open until the peer disconnects:
//
//	SET key value    -> +OK
//	GET key          -> value | (nil)
//	DEL key          -> +OK | (nil)
//	SCAN prefix      -> one key per line | (nil)
//
// Malformed requests are answered with "ERR usage: ..." or
// "ERR unknown command" and the connection stays open.
package kvserver
