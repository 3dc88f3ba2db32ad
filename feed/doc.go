// Package feed is the boundary to the upstream post source.
//
// A Source is a lazy, possibly unbounded iterator of posts with no rewind;
// it returns io.EOF when exhausted. The package decodes raw upstream status
// records into core.Post values, unwrapping reposts and trying an ordered
// list of text locations until one succeeds, and provides Filter and Limit
// combinators for shaping a feed before it enters the pipeline.
package feed
