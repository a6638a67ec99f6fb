// Package nasbench interprets the records of a NAS-Bench-101 style dataset.
//
// Each TFRecord frame holds a JSON array with five elements:
//
//	["<32 hex module hash>", <epochs>, "<N*N adjacency bits>", "<op,op,...>", "<metrics>"]
//
// ParseRecord turns one frame payload into a RawRecord. Scanner pairs it with
// a tfrecord.Reader to stream records out of a file, and LoadFile collects a
// whole file into a Dataset.
//
// Framing errors from package tfrecord end a scan. Payload errors are
// reported as *RecordError and, with ScannerConfig.SkipMalformed, can be
// skipped because the frame boundary after them is still trusted.
package nasbench
