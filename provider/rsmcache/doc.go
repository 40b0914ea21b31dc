// Package rsmcache provides an in-memory raster store that stays in sync
// across processes through a Redis pub/sub channel.
//
// Every Put, Remove and Flush is published on the channel; the other
// instances apply it to their local LRU. Reads never leave the process.
package rsmcache
