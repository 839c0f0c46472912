// Package fuzztests houses Go fuzz harnesses for the graph decoder and the
// Rust emitter. Arbitrary bytes are decoded as a graph; whatever decodes and
// validates is fed through the generator, which must neither panic nor hang.
package fuzztests
