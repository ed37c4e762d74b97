// Package pnl computes realized and unrealized profit-and-loss for futures
// and option positions built from a stream of buy/sell executions.
//
// Trades feed per-symbol Books that match them against open lots in strict
// FIFO order, recording realized P&L per match. The Aggregator values the
// resulting net positions against live and prior-close prices; the Splitter
// decomposes any lot's unrealized P&L into dated components bounded by the
// daily settlement instant (see package period). Aggregator and Splitter
// are independent, pure consumers of a Book's output.
//
// The package is a callable library: it performs no I/O, reads no clock, and
// produces bit-identical results for identical inputs.
package pnl
