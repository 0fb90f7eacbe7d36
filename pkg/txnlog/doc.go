// Package txnlog decodes coordination-service transaction log files.
//
// A log starts with a 16 byte file header (magic "ZKLG", version, dbid)
// followed by framed records, all integers big-endian:
//
//	checksum:i64 length:i32 header payload delimiter:u8
//
// A frame with length zero ends the stream. Decoding is strictly sequential:
// the only way to find the next record boundary is to decode the current one.
package txnlog
