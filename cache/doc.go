// Package cache keeps generated font atlases in memory.
//
// [Cache] is a sharded LRU keyed by the build parameters of an atlas. A
// miss falls through to an optional [Backend], such as a sqlite store, and
// then to the caller's build function. Concurrent requests for the same key
// share one build.
//
//	c := cache.New(cache.DefaultCapacity, st)
//	atlas, err := c.GetOrBuild(ctx, key, func(ctx context.Context) (*sdfatlas.FontAtlas, error) {
//	    return gen.Generate(ctx, src)
//	})
package cache
